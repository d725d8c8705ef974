// Package kinematics derives speeds and accelerations from timestamped points.
package kinematics

import (
	"time"

	"github.com/flybeeper/track-analyzer/internal/geo"
	"github.com/flybeeper/track-analyzer/internal/models"
)

const (
	// MpsToKmh converts m/s to km/h
	MpsToKmh = 3.6
	// StandardGravity m/s²
	StandardGravity = 9.81
)

// Speed returns the ground speed between two timestamped points in km/h.
// A zero (or negative) time delta yields 0.
func Speed(p1, p2 models.GeoPoint, t1, t2 time.Time) float64 {
	dt := t2.Sub(t1).Seconds()
	if dt <= 0 {
		return 0
	}
	return geo.Distance(p1, p2) / dt * MpsToKmh
}

// Acceleration returns (speedB - speedA) / dt in m/s², speeds given in km/h
// and dt in seconds. Callers must pass dt > 0.
func Acceleration(speedA, speedB, dt float64) float64 {
	return (speedB - speedA) / MpsToKmh / dt
}

// SpeedSeries computes the raw per-segment speeds of a track. The result has
// len(points)-1 entries; entry i belongs to the pair (i, i+1).
func SpeedSeries(points []models.TrackPoint) []float64 {
	if len(points) < 2 {
		return []float64{}
	}

	speeds := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		speeds[i-1] = Speed(points[i-1].Position, points[i].Position, points[i-1].Timestamp, points[i].Timestamp)
	}
	return speeds
}

// SegmentTimes returns the timestamp each speed sample is aligned to, i.e.
// the second point of every pair.
func SegmentTimes(points []models.TrackPoint) []time.Time {
	if len(points) < 2 {
		return []time.Time{}
	}

	times := make([]time.Time, len(points)-1)
	for i := 1; i < len(points); i++ {
		times[i-1] = points[i].Timestamp
	}
	return times
}

// SegmentDistances returns the haversine length of every segment in meters.
func SegmentDistances(points []models.TrackPoint) []float64 {
	if len(points) < 2 {
		return []float64{}
	}

	distances := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		distances[i-1] = geo.Distance(points[i-1].Position, points[i].Position)
	}
	return distances
}
