package filter

import (
	"fmt"
	"math"
	"time"

	"github.com/flybeeper/track-analyzer/internal/kinematics"
	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

// OutlierFilter двухэтапный фильтр выбросов скорости:
// глобальное отбраковывание по медиане и MAD, затем локальное ограничение ускорения.
type OutlierFilter struct {
	config   *FilterConfig
	logger   *utils.Logger
	maxAccel float64
	name     string
}

// NewOutlierFilter создает фильтр выбросов со строгой границей ускорения
func NewOutlierFilter(config *FilterConfig, logger *utils.Logger) *OutlierFilter {
	return &OutlierFilter{
		config:   config,
		logger:   logger,
		maxAccel: config.MaxAccel,
		name:     "OutlierFilter",
	}
}

// NewLooseOutlierFilter создает фильтр выбросов с мягкой границей ускорения (первый проход)
func NewLooseOutlierFilter(config *FilterConfig, logger *utils.Logger) *OutlierFilter {
	return &OutlierFilter{
		config:   config,
		logger:   logger,
		maxAccel: config.LooseMaxAccel,
		name:     "LooseOutlierFilter",
	}
}

// Filter применяет фильтр выбросов к ряду скоростей
func (f *OutlierFilter) Filter(track *SpeedTrack) (*FilterResult, error) {
	if len(track.Times) != len(track.Speeds) {
		return nil, fmt.Errorf("%s: %d speeds but %d timestamps", f.name, len(track.Speeds), len(track.Times))
	}

	if len(track.Speeds) < 3 {
		f.logger.WithField("track", track.Name).
			WithField("samples", len(track.Speeds)).
			Debug("Too few samples for outlier detection, passing through")

		return &FilterResult{
			Speeds:     append([]float64{}, track.Speeds...),
			Statistics: FilterStats{},
			Diagnostics: []models.Diagnostic{{
				Stage:   f.name,
				Kind:    models.DiagnosticInsufficientData,
				Index:   models.NoIndex,
				Message: fmt.Sprintf("%d samples, at least 3 required", len(track.Speeds)),
			}},
		}, nil
	}

	f.logger.WithField("track", track.Name).
		WithField("samples", len(track.Speeds)).
		WithField("max_accel", f.maxAccel).
		WithField("max_decel", f.config.MaxDecel).
		Debug("Applying outlier filter")

	stats := FilterStats{}
	var diagnostics []models.Diagnostic

	// Этап 1: медиана + MAD
	afterMAD, median, mad, outliers := RejectMAD(track.Speeds, f.config.MADMultiplier)
	stats.Median = median
	stats.MAD = mad
	stats.MADOutliers = len(outliers)

	for _, i := range outliers {
		f.logger.WithField("track", track.Name).
			WithField("point_index", i).
			WithField("speed_kmh", track.Speeds[i]).
			WithField("replacement_kmh", afterMAD[i]).
			WithField("median", median).
			WithField("mad", mad).
			Warn("Outlier detected")

		diagnostics = append(diagnostics, models.Diagnostic{
			Stage:    f.name,
			Kind:     models.DiagnosticMADOutlier,
			Index:    i,
			Value:    track.Speeds[i],
			Replaced: afterMAD[i],
			Message:  fmt.Sprintf("%.1f km/h deviates more than %.0fxMAD (%.2f) from median %.1f", track.Speeds[i], f.config.MADMultiplier, mad, median),
		})
	}

	// Этап 2: ограничение ускорения
	result, violations := BoundAcceleration(afterMAD, track.Times, f.maxAccel, f.config.MaxDecel, f.config.MaxJump)
	stats.AccelViolations = len(violations)

	for _, v := range violations {
		f.logger.WithField("track", track.Name).
			WithField("point_index", v.Index).
			WithField("speed_kmh", afterMAD[v.Index]).
			WithField("clamped_kmh", result[v.Index]).
			WithField("accel_in", v.AccelIn).
			WithField("accel_out", v.AccelOut).
			Warn("Acceleration bound violated")

		diagnostics = append(diagnostics, models.Diagnostic{
			Stage:    f.name,
			Kind:     models.DiagnosticAccelViolation,
			Index:    v.Index,
			Value:    afterMAD[v.Index],
			Replaced: result[v.Index],
			Message:  fmt.Sprintf("acceleration in %.2f m/s², out %.2f m/s² outside [%.2f, %.2f]", v.AccelIn, v.AccelOut, f.config.MaxDecel, f.maxAccel),
		})
	}

	f.logger.WithField("track", track.Name).
		WithField("samples", len(result)).
		WithField("mad_outliers", stats.MADOutliers).
		WithField("accel_violations", stats.AccelViolations).
		Info("Outlier filtering completed")

	return &FilterResult{
		Speeds:      result,
		Statistics:  stats,
		Diagnostics: diagnostics,
	}, nil
}

// RejectMAD заменяет значения, отклоняющиеся от медианы больше чем на multiplier*MAD,
// последним принятым значением. Замена распространяется слева направо: если
// предыдущее значение само было заменено, повторяется замена. Первый элемент
// никогда не заменяется (предыдущего нет).
func RejectMAD(speeds []float64, multiplier float64) (result []float64, median, mad float64, outliers []int) {
	result = make([]float64, len(speeds))
	copy(result, speeds)

	if len(speeds) < 3 {
		return result, 0, 0, nil
	}

	median = upperMedian(speeds)
	mad = medianAbsoluteDeviation(speeds, median)
	threshold := multiplier * mad

	for i, speed := range speeds {
		if math.Abs(speed-median) > threshold {
			outliers = append(outliers, i)
			if i > 0 {
				result[i] = result[i-1]
			}
		}
	}

	return result, median, mad, outliers
}

// AccelViolation точка, где входящее или исходящее ускорение вышло за границы
type AccelViolation struct {
	Index    int
	AccelIn  float64
	AccelOut float64
}

// BoundAcceleration проверяет каждую внутреннюю точку на ускорение входа (из i-1)
// и выхода (в i+1). При нарушении значение зажимается в окно ±maxJump вокруг
// предыдущего отфильтрованного значения. Ускорения считаются по входному ряду.
func BoundAcceleration(speeds []float64, times []time.Time, maxAccel, maxDecel, maxJump float64) ([]float64, []AccelViolation) {
	result := make([]float64, len(speeds))
	copy(result, speeds)

	if len(speeds) < 3 || len(times) != len(speeds) {
		return result, nil
	}

	var violations []AccelViolation

	for i := 1; i < len(speeds)-1; i++ {
		dtIn := times[i].Sub(times[i-1]).Seconds()
		dtOut := times[i+1].Sub(times[i]).Seconds()
		hasOut := dtOut > 0

		if dtIn <= 0 {
			if !hasOut {
				continue
			}
			dtIn = dtOut
		}

		accelIn := kinematics.Acceleration(speeds[i-1], speeds[i], dtIn)
		accelOut := accelIn
		if hasOut {
			accelOut = kinematics.Acceleration(speeds[i], speeds[i+1], dtOut)
		}

		if accelIn > maxAccel || accelIn < maxDecel || accelOut > maxAccel || accelOut < maxDecel {
			prev := result[i-1]
			result[i] = clamp(speeds[i], prev-maxJump, prev+maxJump)
			violations = append(violations, AccelViolation{Index: i, AccelIn: accelIn, AccelOut: accelOut})
		}
	}

	return result, violations
}

// Name возвращает имя фильтра
func (f *OutlierFilter) Name() string {
	return f.name
}

// Description возвращает описание фильтра
func (f *OutlierFilter) Description() string {
	return fmt.Sprintf("Replaces speeds beyond %.0fxMAD from the median and clamps samples whose acceleration leaves [%.2f, %.2f] m/s²",
		f.config.MADMultiplier, f.config.MaxDecel, f.maxAccel)
}
