package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/internal/stops"
)

func withElevation(p models.TrackPoint, ele float64) models.TrackPoint {
	p.Elevation = models.Float64(ele)
	return p
}

func TestAggregate(t *testing.T) {
	points := []models.TrackPoint{
		withElevation(north(0, 0), 100),
		north(50, 10), // без высоты
		withElevation(north(100, 20), 120),
		withElevation(north(150, 30), 90),
		withElevation(north(200, 40), 130),
	}
	speeds := []float64{10, 50, 20, 5}
	stopResult := &stops.Result{
		Pauses:       []models.StopEvent{{Duration: 5}},
		TrafficStops: []models.StopEvent{{Duration: 3}},
	}

	s := Aggregate(points, speeds, stopResult, models.EmptyGForce())

	assert.Equal(t, 30.0, s.TotalTime)
	assert.Equal(t, points[0].Timestamp, s.StartTime)
	assert.Equal(t, points[3].Timestamp, s.EndTime)
	assert.Equal(t, 5.0, s.PauseTime)
	assert.Equal(t, 3.0, s.TrafficStopTime)
	assert.Equal(t, 22.0, s.MovingTime)

	assert.InDelta(t, 0.2, s.TotalDistanceKm, 1e-5)
	assert.InDelta(t, 0.2/(22.0/3600), s.AverageSpeed, 1e-3)

	assert.Equal(t, 50.0, s.TopSpeed)
	assert.Equal(t, 1, s.TopSpeedIndex)
	require.NotNil(t, s.TopSpeedLocation)
	assert.Equal(t, points[2].Position, *s.TopSpeedLocation)
	assert.Equal(t, 5.0, s.MinSpeed)

	assert.True(t, s.HasElevation)
	assert.Equal(t, 40.0, s.TotalElevationGain) // размах, а не набор
	assert.Equal(t, 60.0, s.TotalAscent)
}

func TestAggregate_NonFiniteAverageSpeed(t *testing.T) {
	points := []models.TrackPoint{north(0, 0), north(0, 0), north(0, 0)}

	s := Aggregate(points, []float64{0, 0}, &stops.Result{}, models.EmptyGForce())

	assert.Equal(t, 0.0, s.MovingTime)
	assert.True(t, math.IsNaN(s.AverageSpeed))
}

func TestAggregate_Degenerate(t *testing.T) {
	empty := Aggregate(nil, nil, nil, models.EmptyGForce())
	assert.Equal(t, models.NoIndex, empty.TopSpeedIndex)
	assert.False(t, empty.HasElevation)
	assert.True(t, empty.StartTime.IsZero())

	single := Aggregate([]models.TrackPoint{withElevation(north(0, 0), 250)}, nil, nil, models.EmptyGForce())
	assert.True(t, single.HasElevation)
	assert.Equal(t, 0.0, single.TotalElevationGain)
	assert.Equal(t, single.StartTime, single.EndTime)
	assert.Nil(t, single.TopSpeedLocation)
}

func TestElevationGain(t *testing.T) {
	tests := []struct {
		name       string
		elevations []float64
		want       float64
	}{
		{"empty", nil, 0},
		{"single", []float64{100}, 0},
		{"descending only", []float64{300, 200, 100}, 0},
		{"mixed", []float64{100, 120, 90, 130}, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ElevationGain(tt.elevations))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0h 0m 0s"},
		{59.9, "0h 0m 59s"},
		{3723.4, "1h 2m 3s"},
		{90000, "25h 0m 0s"},
		{-61, "-0h 1m 1s"},
		{math.NaN(), "n/a"},
		{math.Inf(1), "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.seconds))
		})
	}
}

func TestNewReport_NonFiniteAsNull(t *testing.T) {
	result, err := newAnalyzer().Analyze(&models.Track{
		Points: []models.TrackPoint{at(0, 0, 0), at(0.0001, 0, 10)},
	})
	require.NoError(t, err)

	data, err := json.Marshal(NewReport(result))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	summary := decoded["summary"].(map[string]interface{})
	assert.Contains(t, summary, "average_speed_kmh")
	assert.Nil(t, summary["average_speed_kmh"])
	assert.Equal(t, "0h 0m 0s", summary["total_time_text"])
	assert.Equal(t, result.ID, decoded["id"])
	assert.Len(t, decoded["speeds"], 1)
}
