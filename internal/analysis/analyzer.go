// Package analysis runs the full kinematics pipeline over a track and
// aggregates the trip summary.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/flybeeper/track-analyzer/internal/filter"
	"github.com/flybeeper/track-analyzer/internal/geo"
	"github.com/flybeeper/track-analyzer/internal/gforce"
	"github.com/flybeeper/track-analyzer/internal/kinematics"
	"github.com/flybeeper/track-analyzer/internal/metrics"
	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/internal/stops"
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

// ErrNilTrack возвращается при попытке анализа nil трека
var ErrNilTrack = errors.New("analysis: nil track")

// Config параметры всех стадий конвейера
type Config struct {
	Filter *filter.FilterConfig `json:"filter"`
	Stops  *stops.Config        `json:"stops"`
	GForce *gforce.Config       `json:"gforce"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Filter: filter.DefaultFilterConfig(),
		Stops:  stops.DefaultConfig(),
		GForce: gforce.DefaultConfig(),
	}
}

// Result результат анализа одного трека
type Result struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PointsCount int    `json:"points_count"`

	Bounds *models.Bounds `json:"bounds,omitempty"` // Ограничивающий прямоугольник трека

	RawSpeeds             []float64        `json:"raw_speeds"` // км/ч, до фильтрации
	Speeds                []float64        `json:"speeds"`     // км/ч, len = PointsCount-1
	CumulativeDistancesKm []float64        `json:"cumulative_distances_km"`
	Segments              []models.Segment `json:"segments"`

	Pauses          []models.StopEvent `json:"pauses"`
	TrafficStops    []models.StopEvent `json:"traffic_stops"`
	Stops           []models.StopEvent `json:"stops"` // паузы и остановки по порядку
	RawTrafficStops int                `json:"raw_traffic_stops"`

	Summary     models.TripSummary  `json:"summary"`
	FilterStats filter.FilterStats  `json:"filter_stats"`
	Diagnostics []models.Diagnostic `json:"diagnostics"`
}

// Analyzer конвейер анализа трека. Не хранит состояния между вызовами и
// безопасен для одновременного использования.
type Analyzer struct {
	config    *Config
	chain     *filter.FilterChain
	detector  *stops.Detector
	estimator *gforce.Estimator
	logger    *utils.Logger
}

// NewAnalyzer создает анализатор
func NewAnalyzer(config *Config, logger *utils.Logger) *Analyzer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Analyzer{
		config:    config,
		chain:     filter.NewFilterChain(config.Filter, logger),
		detector:  stops.NewDetector(config.Stops, logger),
		estimator: gforce.NewEstimator(config.GForce, logger),
		logger:    logger,
	}
}

// Config возвращает активную конфигурацию
func (a *Analyzer) Config() *Config {
	return a.config
}

// Analyze выполняет полный анализ трека. Ошибка возвращается только для nil
// трека: вырожденные треки дают пустую сводку с диагностикой.
func (a *Analyzer) Analyze(track *models.Track) (*Result, error) {
	if track == nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, ErrNilTrack
	}

	start := time.Now()
	points := track.Points
	log := a.logger.WithField("track", track.Name).WithField("points_count", len(points))
	log.Debug("Starting track analysis")

	result := &Result{
		ID:                    uuid.New().String(),
		Name:                  track.Name,
		PointsCount:           len(points),
		CumulativeDistancesKm: geo.CumulativeDistances(track.Positions()),
		Diagnostics:           append([]models.Diagnostic{}, track.Diagnostics...),
	}

	if bounds, ok := models.BoundsOf(points); ok {
		result.Bounds = &bounds
	}

	metrics.TrackPoints.Observe(float64(len(points)))

	if len(points) < 2 {
		log.Warn("Not enough points for analysis")
		result.RawSpeeds = []float64{}
		result.Speeds = []float64{}
		result.Segments = []models.Segment{}
		result.Pauses = []models.StopEvent{}
		result.TrafficStops = []models.StopEvent{}
		result.Stops = []models.StopEvent{}
		result.Summary = Aggregate(points, nil, &stops.Result{}, models.EmptyGForce())
		result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
			Stage:   "analysis",
			Kind:    models.DiagnosticInsufficientPoint,
			Index:   models.NoIndex,
			Message: fmt.Sprintf("track has %d points, at least 2 required", len(points)),
		})

		metrics.AnalysesTotal.WithLabelValues("degenerate").Inc()
		metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
		return result, nil
	}

	times := kinematics.SegmentTimes(points)
	result.RawSpeeds = kinematics.SpeedSeries(points)

	filtered, err := a.chain.Filter(&filter.SpeedTrack{
		Name:   track.Name,
		Speeds: result.RawSpeeds,
		Times:  times,
	})
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to filter speeds: %w", err)
	}
	result.Speeds = filtered.Speeds
	result.FilterStats = filtered.Statistics
	result.Diagnostics = append(result.Diagnostics, filtered.Diagnostics...)

	stopResult := a.detector.Detect(points)
	result.Pauses = stopResult.Pauses
	result.TrafficStops = stopResult.TrafficStops
	result.Stops = stopResult.All()
	result.RawTrafficStops = stopResult.RawTrafficStops

	g := a.estimator.Estimate(result.Speeds, times)
	result.Summary = Aggregate(points, result.Speeds, stopResult, g)
	result.Segments = buildSegments(points, result.Speeds, result.CumulativeDistancesKm)

	if !isFinite(result.Summary.AverageSpeed) {
		log.WithField("moving_time_s", result.Summary.MovingTime).
			Warn("Average speed is not finite")
		result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
			Stage:   "summary",
			Kind:    models.DiagnosticNonFinite,
			Index:   models.NoIndex,
			Value:   result.Summary.MovingTime,
			Message: "average speed undefined: moving time is not positive",
		})
	}

	a.recordMetrics(result, time.Since(start))

	log.WithField("distance_km", result.Summary.TotalDistanceKm).
		WithField("top_speed_kmh", result.Summary.TopSpeed).
		WithField("pauses", len(result.Pauses)).
		WithField("traffic_stops", len(result.TrafficStops)).
		WithField("diagnostics", len(result.Diagnostics)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("Track analysis completed")

	return result, nil
}

// AnalyzeBatch анализирует треки параллельно, не более workers одновременно
// (workers <= 0 - без ограничения). Порядок результатов совпадает с порядком
// треков. Первая ошибка отменяет оставшиеся анализы.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, tracks []*models.Track, workers int) ([]*Result, error) {
	results := make([]*Result, len(tracks))
	metrics.BatchSize.Observe(float64(len(tracks)))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, track := range tracks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := a.Analyze(track)
			if err != nil {
				return fmt.Errorf("track %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Analyzer) recordMetrics(result *Result, elapsed time.Duration) {
	stats := result.FilterStats
	metrics.OutliersTotal.WithLabelValues(string(models.DiagnosticMADOutlier)).Add(float64(stats.MADOutliers))
	metrics.OutliersTotal.WithLabelValues(string(models.DiagnosticAccelViolation)).Add(float64(stats.AccelViolations))
	metrics.OutliersTotal.WithLabelValues("snapped_to_zero").Add(float64(stats.SnappedToZero))
	metrics.StopsDetected.WithLabelValues(string(models.StopKindPause)).Add(float64(len(result.Pauses)))
	metrics.StopsDetected.WithLabelValues(string(models.StopKindTrafficStop)).Add(float64(len(result.TrafficStops)))
	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	metrics.AnalysisDuration.Observe(elapsed.Seconds())
}

func buildSegments(points []models.TrackPoint, speeds, cumulativeKm []float64) []models.Segment {
	segments := make([]models.Segment, len(speeds))
	for i, speed := range speeds {
		segments[i] = models.Segment{
			Index:                i,
			SpeedKmh:             speed,
			CumulativeDistanceKm: cumulativeKm[i+1],
			Timestamp:            points[i+1].Timestamp,
			SourceID:             points[i+1].SourceID,
		}
	}
	return segments
}
