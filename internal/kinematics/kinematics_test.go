package kinematics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flybeeper/track-analyzer/internal/models"
)

var t0 = time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

func TestSpeed(t *testing.T) {
	origin := models.GeoPoint{Latitude: 0, Longitude: 0}
	north := models.GeoPoint{Latitude: 0.0001, Longitude: 0}

	t.Run("identical coordinates are always zero", func(t *testing.T) {
		for _, dt := range []time.Duration{0, time.Second, time.Hour} {
			assert.Equal(t, 0.0, Speed(origin, origin, t0, t0.Add(dt)))
		}
	})

	t.Run("zero delta is zero, not Inf", func(t *testing.T) {
		assert.Equal(t, 0.0, Speed(origin, north, t0, t0))
	})

	t.Run("11.1 m in 10 s is about 4 km/h", func(t *testing.T) {
		assert.InDelta(t, 4.0, Speed(origin, north, t0, t0.Add(10*time.Second)), 0.01)
	})
}

func TestAcceleration(t *testing.T) {
	// 0 -> 36 км/ч за 10 с = 1 м/с²
	assert.InDelta(t, 1.0, Acceleration(0, 36, 10), 1e-9)
	assert.InDelta(t, -2.0, Acceleration(72, 0, 10), 1e-9)
	assert.Equal(t, 0.0, Acceleration(50, 50, 3))
}

func TestSpeedSeries(t *testing.T) {
	points := []models.TrackPoint{
		{Position: models.GeoPoint{Latitude: 0, Longitude: 0}, Timestamp: t0},
		{Position: models.GeoPoint{Latitude: 0.0001, Longitude: 0}, Timestamp: t0.Add(10 * time.Second)},
		{Position: models.GeoPoint{Latitude: 0.0001, Longitude: 0}, Timestamp: t0.Add(10 * time.Second)},
		{Position: models.GeoPoint{Latitude: 0.0002, Longitude: 0}, Timestamp: t0.Add(15 * time.Second)},
	}

	speeds := SpeedSeries(points)
	require.Len(t, speeds, 3)
	assert.InDelta(t, 4.0, speeds[0], 0.01)
	assert.Equal(t, 0.0, speeds[1])
	assert.InDelta(t, 8.0, speeds[2], 0.02)

	times := SegmentTimes(points)
	require.Len(t, times, 3)
	assert.Equal(t, points[1].Timestamp, times[0])
	assert.Equal(t, points[3].Timestamp, times[2])

	dists := SegmentDistances(points)
	assert.InDelta(t, 11.12, dists[0], 0.01)
	assert.Equal(t, 0.0, dists[1])

	assert.Empty(t, SpeedSeries(points[:1]))
	assert.Empty(t, SegmentTimes(nil))
}
