package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/flybeeper/track-analyzer/internal/geo"
	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/internal/stops"
)

// Aggregate собирает итоговую сводку поездки.
//
// Общее время считается от первой до предпоследней точки: последняя метка
// времени в окно не входит. TotalElevationGain - размах высот (max-min),
// накопленный набор высоты отдается отдельно в TotalAscent. Средняя скорость
// не защищена от деления на ноль и при MovingTime <= 0 равна Inf или NaN.
func Aggregate(points []models.TrackPoint, speeds []float64, stopResult *stops.Result, g models.GForceResult) models.TripSummary {
	summary := models.TripSummary{
		TopSpeedIndex: models.NoIndex,
		GForce:        g,
	}

	if len(points) > 0 {
		summary.StartTime = points[0].Timestamp
		summary.EndTime = points[0].Timestamp
	}

	track := &models.Track{Points: points}
	elevations := track.Elevations()
	if len(elevations) > 0 {
		summary.HasElevation = true
		summary.TotalElevationGain = floats.Max(elevations) - floats.Min(elevations)
		summary.TotalAscent = ElevationGain(elevations)
	}

	if len(points) < 2 {
		return summary
	}

	summary.EndTime = points[len(points)-2].Timestamp
	summary.TotalTime = summary.EndTime.Sub(summary.StartTime).Seconds()

	if stopResult != nil {
		summary.PauseTime = stopResult.PauseTime()
		summary.TrafficStopTime = stopResult.TrafficStopTime()
	}
	summary.MovingTime = summary.TotalTime - summary.PauseTime - summary.TrafficStopTime

	summary.TotalDistanceKm = geo.PathLength(track.Positions()) / 1000
	summary.AverageSpeed = summary.TotalDistanceKm / (summary.MovingTime / 3600)

	if len(speeds) > 0 {
		idx := floats.MaxIdx(speeds)
		summary.TopSpeed = speeds[idx]
		summary.TopSpeedIndex = idx
		if idx+1 < len(points) {
			location := points[idx+1].Position
			summary.TopSpeedLocation = &location
		}
		summary.MinSpeed = floats.Min(speeds)
	}

	return summary
}

// ElevationGain возвращает накопленный набор высоты: сумму положительных
// приращений между соседними отсчетами.
func ElevationGain(elevations []float64) float64 {
	gain := 0.0
	for i := 1; i < len(elevations); i++ {
		if d := elevations[i] - elevations[i-1]; d > 0 {
			gain += d
		}
	}
	return gain
}

// FormatDuration форматирует длительность в секундах как "1h 2m 3s".
func FormatDuration(seconds float64) string {
	if !isFinite(seconds) {
		return "n/a"
	}

	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%s%dh %dm %ds", sign, total/3600, total%3600/60, total%60)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
