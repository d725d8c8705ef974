package gforce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

func everySecond(n int) []time.Time {
	start := time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Second)
	}
	return times
}

func newEstimator() *Estimator {
	return NewEstimator(DefaultConfig(), utils.NewNopLogger())
}

func TestEstimate_ConstantAcceleration(t *testing.T) {
	// +3.6 км/ч в секунду = 1 м/с² ≈ 0.102 g
	speeds := []float64{0, 3.6, 7.2, 10.8, 14.4, 18}

	result := newEstimator().Estimate(speeds, everySecond(len(speeds)))

	assert.Greater(t, result.PeakAccelG, 0.0)
	assert.InDelta(t, 1/9.81, result.PeakAccelG, 1e-9)
	assert.Equal(t, 1, result.PeakAccelIndex)
	assert.Equal(t, 0.0, result.PeakDecelG)
	assert.Equal(t, models.NoIndex, result.PeakDecelIndex)
}

func TestEstimate_Clamp(t *testing.T) {
	t.Run("hard acceleration", func(t *testing.T) {
		speeds := []float64{0, 50, 50}

		result := newEstimator().Estimate(speeds, everySecond(len(speeds)))

		assert.Equal(t, 0.5, result.PeakAccelG)
		assert.Equal(t, 1, result.PeakAccelIndex)
		assert.Equal(t, models.NoIndex, result.PeakDecelIndex)
	})

	t.Run("hard braking", func(t *testing.T) {
		// 80 -> 0 за секунду: -2.27 g, после усреднения с 0 все еще ниже -1 g
		speeds := []float64{80, 80, 80, 0, 0}

		result := newEstimator().Estimate(speeds, everySecond(len(speeds)))

		assert.Equal(t, 1.0, result.PeakDecelG)
		assert.Equal(t, 3, result.PeakDecelIndex)
		assert.Equal(t, 0.0, result.PeakAccelG)
	})
}

func TestEstimate_BlendsWithPreviousRaw(t *testing.T) {
	// Сырые значения: 0.1 g, затем 0.3 g. Второе усредняется до 0.2 g,
	// третье (0) усредняется с сырым 0.3 g, а не с 0.2 g.
	g := 9.81 * 3.6
	speeds := []float64{0, 0.1 * g, 0.4 * g, 0.4 * g}

	result := newEstimator().Estimate(speeds, everySecond(len(speeds)))

	assert.InDelta(t, 0.2, result.PeakAccelG, 1e-9)
	assert.Equal(t, 2, result.PeakAccelIndex)
	assert.Equal(t, models.NoIndex, result.PeakDecelIndex)
}

func TestEstimate_ZeroTimeDelta(t *testing.T) {
	times := everySecond(4)
	times[2] = times[1]
	speeds := []float64{10, 20, 90, 95}

	result := newEstimator().Estimate(speeds, times)

	// Пара (1,2) пропускается, (2,3) считается без усреднения
	assert.InDelta(t, 10/3.6/9.81, result.PeakAccelG, 1e-9)
	assert.Equal(t, 1, result.PeakAccelIndex)
}

func TestEstimate_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		speeds []float64
	}{
		{"empty", nil},
		{"single sample", []float64{42}},
		{"constant", []float64{30, 30, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newEstimator().Estimate(tt.speeds, everySecond(len(tt.speeds)))
			assert.Equal(t, models.EmptyGForce(), result)
		})
	}
}
