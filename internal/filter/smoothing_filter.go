package filter

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/flybeeper/track-analyzer/pkg/utils"
)

// SmoothingFilter сглаживание скользящим средним с сохранением реальных
// ускорений и низких скоростей
type SmoothingFilter struct {
	config *FilterConfig
	logger *utils.Logger
}

// NewSmoothingFilter создает фильтр сглаживания
func NewSmoothingFilter(config *FilterConfig, logger *utils.Logger) *SmoothingFilter {
	return &SmoothingFilter{
		config: config,
		logger: logger,
	}
}

// Filter применяет сглаживание
func (f *SmoothingFilter) Filter(track *SpeedTrack) (*FilterResult, error) {
	result, stats := Smooth(track.Speeds, f.config.WindowSize, f.config.PreserveDelta, f.config.PreserveBelow)

	f.logger.WithField("track", track.Name).
		WithField("window", f.config.WindowSize).
		WithField("smoothed", stats.Smoothed).
		WithField("preserved", stats.Preserved).
		Debug("Smoothing applied")

	return &FilterResult{
		Speeds:     result,
		Statistics: stats,
	}, nil
}

// avgTolerance относительная погрешность суммы окна
const avgTolerance = 1e-9

// Smooth вычисляет центрированное среднее по окну windowSize (обрезается на
// краях ряда). Исходное значение сохраняется, если оно отличается от среднего
// больше чем на preserveDelta или меньше preserveBelow; иначе берется среднее.
func Smooth(speeds []float64, windowSize int, preserveDelta, preserveBelow float64) ([]float64, FilterStats) {
	result := make([]float64, len(speeds))
	copy(result, speeds)

	stats := FilterStats{}
	if len(speeds) < 2 {
		return result, stats
	}

	half := windowSize / 2
	for i, speed := range speeds {
		start := max(0, i-half)
		end := min(len(speeds)-1, i+half)
		window := speeds[start : end+1]
		avg := floats.Sum(window) / float64(len(window))

		switch {
		case math.Abs(speed-avg) > preserveDelta:
			stats.Preserved++
		case speed < preserveBelow:
			stats.Preserved++
		case math.Abs(speed-avg) <= avgTolerance*math.Abs(speed):
			// среднее совпадает со значением с точностью до округления
			stats.Smoothed++
		default:
			result[i] = avg
			stats.Smoothed++
		}
	}

	return result, stats
}

// Name возвращает имя фильтра
func (f *SmoothingFilter) Name() string {
	return "SmoothingFilter"
}

// Description возвращает описание фильтра
func (f *SmoothingFilter) Description() string {
	return "Centered moving average that keeps genuine speed changes and low speeds"
}
