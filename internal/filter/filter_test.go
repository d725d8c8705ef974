package filter

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flybeeper/track-analyzer/internal/kinematics"
	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// everySecond builds timestamps one second apart.
func everySecond(n int) []time.Time {
	t0 := time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = t0.Add(time.Duration(i) * time.Second)
	}
	return times
}

func TestUpperMedianAndMAD(t *testing.T) {
	assert.Equal(t, 0.0, upperMedian(nil))
	assert.Equal(t, 3.0, upperMedian([]float64{5, 1, 3}))
	// четная длина: верхняя из центральных
	assert.Equal(t, 3.0, upperMedian([]float64{4, 1, 3, 2}))

	values := []float64{1, 1, 2, 2, 4, 6, 9}
	median := upperMedian(values)
	assert.Equal(t, 2.0, median)
	assert.Equal(t, 1.0, medianAbsoluteDeviation(values, median))
}

func TestRejectMAD(t *testing.T) {
	t.Run("isolated spike on noisy baseline", func(t *testing.T) {
		speeds := []float64{48, 50, 52, 49, 51, 200, 50, 49, 51, 50}

		result, median, mad, outliers := RejectMAD(speeds, 3)

		assert.Equal(t, 50.0, median)
		assert.Equal(t, 1.0, mad)
		assert.Equal(t, []int{5}, outliers)
		assert.Equal(t, 51.0, result[5])
		assert.Equal(t, 200.0, speeds[5], "input must not be modified")
	})

	t.Run("replacement propagates forward", func(t *testing.T) {
		speeds := []float64{50, 50, 200, 210, 50, 50, 50}

		result, _, _, outliers := RejectMAD(speeds, 3)

		assert.Equal(t, []int{2, 3}, outliers)
		assert.Equal(t, []float64{50, 50, 50, 50, 50, 50, 50}, result)
	})

	t.Run("first sample has no predecessor", func(t *testing.T) {
		speeds := []float64{300, 50, 50, 50, 50}

		result, _, _, outliers := RejectMAD(speeds, 3)

		assert.Equal(t, []int{0}, outliers)
		assert.Equal(t, 300.0, result[0])
	})

	t.Run("too short", func(t *testing.T) {
		result, _, _, outliers := RejectMAD([]float64{1, 100}, 3)
		assert.Equal(t, []float64{1, 100}, result)
		assert.Empty(t, outliers)
	})
}

func TestBoundAcceleration(t *testing.T) {
	speeds := []float64{50, 50, 50, 80, 80, 80}
	times := everySecond(len(speeds))

	result, violations := BoundAcceleration(speeds, times, 1.72, -9.8, 20)

	assert.Equal(t, []float64{50, 50, 50, 70, 80, 80}, result)
	require.Len(t, violations, 2)
	assert.Equal(t, 2, violations[0].Index)
	assert.Equal(t, 3, violations[1].Index)
	assert.InDelta(t, 30/3.6, violations[1].AccelIn, 1e-9)
}

func TestBoundAcceleration_HardBraking(t *testing.T) {
	// 100 -> 40 км/ч за 1 с ≈ -16.7 м/с², торможение за пределом -9.8
	speeds := []float64{100, 100, 40, 40}
	times := everySecond(len(speeds))

	result, violations := BoundAcceleration(speeds, times, 1.72, -9.8, 20)

	require.NotEmpty(t, violations)
	assert.Equal(t, 80.0, result[2])
}

func TestBoundAcceleration_ZeroTimeDelta(t *testing.T) {
	speeds := []float64{50, 90, 50, 50}
	t0 := time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)
	// i=1 имеет нулевой входной интервал: используется исходящий
	times := []time.Time{t0, t0, t0.Add(time.Second), t0.Add(2 * time.Second)}

	result, violations := BoundAcceleration(speeds, times, 1.72, -9.8, 20)

	require.NotEmpty(t, violations)
	for _, v := range violations {
		assert.False(t, math.IsInf(v.AccelIn, 0))
		assert.False(t, math.IsNaN(v.AccelIn))
	}
	assert.Equal(t, 70.0, result[1])
}

func TestOutlierFilter_SpikeProperty(t *testing.T) {
	config := DefaultFilterConfig()
	f := NewOutlierFilter(config, utils.NewNopLogger())

	speeds := []float64{48, 50, 52, 49, 51, 200, 50, 49, 51, 50}
	times := everySecond(len(speeds))

	result, err := f.Filter(&SpeedTrack{Name: "spike", Speeds: speeds, Times: times})
	require.NoError(t, err)

	assert.NotEqual(t, 200.0, result.Speeds[5])
	assert.Equal(t, 1, result.Statistics.MADOutliers)
	for i := 1; i < len(result.Speeds); i++ {
		dt := times[i].Sub(times[i-1]).Seconds()
		accel := kinematics.Acceleration(result.Speeds[i-1], result.Speeds[i], dt)
		assert.LessOrEqual(t, accel, config.MaxAccel, "index %d", i)
		assert.GreaterOrEqual(t, accel, config.MaxDecel, "index %d", i)
	}

	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, models.DiagnosticMADOutlier, result.Diagnostics[0].Kind)
	assert.Equal(t, 5, result.Diagnostics[0].Index)
	assert.Equal(t, 200.0, result.Diagnostics[0].Value)
}

func TestOutlierFilter_ShortSeriesPassthrough(t *testing.T) {
	f := NewOutlierFilter(DefaultFilterConfig(), utils.NewNopLogger())

	result, err := f.Filter(&SpeedTrack{Speeds: []float64{10, 500}, Times: everySecond(2)})
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 500}, result.Speeds)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, models.DiagnosticInsufficientData, result.Diagnostics[0].Kind)
}

func TestOutlierFilter_MismatchedTimes(t *testing.T) {
	f := NewOutlierFilter(DefaultFilterConfig(), utils.NewNopLogger())

	_, err := f.Filter(&SpeedTrack{Speeds: []float64{1, 2, 3}, Times: everySecond(2)})
	assert.Error(t, err)
}

func TestSnapStops(t *testing.T) {
	tests := []struct {
		name    string
		in      []float64
		want    []float64
		snapped int
	}{
		{
			name:    "pair below threshold",
			in:      []float64{30, 1.5, 0.8, 30},
			want:    []float64{30, 0, 0, 30},
			snapped: 2,
		},
		{
			name:    "isolated slow sample is kept",
			in:      []float64{30, 1.5, 30},
			want:    []float64{30, 1.5, 30},
			snapped: 0,
		},
		{
			name:    "trailing pair",
			in:      []float64{30, 1, 1},
			want:    []float64{30, 0, 0},
			snapped: 2,
		},
		{
			name: "empty",
			in:   []float64{},
			want: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, snapped := SnapStops(tt.in, 2)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.snapped, snapped)
		})
	}
}

func TestSmooth(t *testing.T) {
	t.Run("constant series is unchanged", func(t *testing.T) {
		for _, v := range []float64{60, 60.7, 88.9, 33.3} {
			in := []float64{v, v, v, v, v, v, v}
			got, stats := Smooth(in, 5, 10, 30)
			assert.Equal(t, in, got, "value %v", v)
			assert.Equal(t, len(in), stats.Smoothed)
		}
	})

	t.Run("averages high-speed jitter", func(t *testing.T) {
		got, stats := Smooth([]float64{50, 56, 50, 56, 50}, 5, 10, 30)
		if diff := cmp.Diff([]float64{52, 53, 52.4, 53, 52}, got, approx); diff != "" {
			t.Errorf("Smooth mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 5, stats.Smoothed)
	})

	t.Run("keeps genuine changes", func(t *testing.T) {
		in := []float64{40, 40, 40, 40, 100, 40, 40, 40, 40}
		got, stats := Smooth(in, 5, 10, 30)
		assert.Equal(t, in, got)
		assert.Equal(t, 5, stats.Preserved)
		assert.Equal(t, 4, stats.Smoothed)
	})

	t.Run("keeps low speeds", func(t *testing.T) {
		in := []float64{10, 20, 10, 20, 10}
		got, stats := Smooth(in, 5, 10, 30)
		assert.Equal(t, in, got)
		assert.Equal(t, 5, stats.Preserved)
	})

	t.Run("single sample", func(t *testing.T) {
		got, _ := Smooth([]float64{42}, 5, 10, 30)
		assert.Equal(t, []float64{42}, got)
	})
}

func TestSmooth_IdempotentOnStableSeries(t *testing.T) {
	for _, in := range [][]float64{
		{60, 60, 60, 60, 60, 60},
		{60.7, 60.7, 60.7, 60.7, 60.7, 60.7},
		{5, 12, 25, 18, 0, 0},
		{40, 40, 40, 40, 100, 40, 40, 40, 40},
	} {
		once, _ := Smooth(in, 5, 10, 30)
		twice, _ := Smooth(once, 5, 10, 30)
		if diff := cmp.Diff(once, twice, approx); diff != "" {
			t.Errorf("second pass changed series (-once +twice):\n%s", diff)
		}
	}
}

func TestFilterChain_Levels(t *testing.T) {
	logger := utils.NewNopLogger()
	config := DefaultFilterConfig()

	names := func(fc *FilterChain) []string {
		var out []string
		for _, f := range fc.Filters() {
			out = append(out, f.Name())
		}
		return out
	}

	assert.Equal(t, []string{"OutlierFilter"}, names(NewLevel1FilterChain(config, logger)))
	assert.Equal(t, []string{"OutlierFilter", "StopSnapFilter", "SmoothingFilter"}, names(NewLevel2FilterChain(config, logger)))
	assert.Equal(t, []string{"LooseOutlierFilter", "OutlierFilter", "StopSnapFilter", "SmoothingFilter"}, names(NewFilterChain(config, logger)))
	assert.Contains(t, NewFilterChain(config, logger).Description(), "SmoothingFilter")
}

func TestFilterChain_Filter(t *testing.T) {
	chain := NewFilterChain(DefaultFilterConfig(), utils.NewNopLogger())

	speeds := []float64{50, 50, 50, 50, 250, 50, 50, 50, 1, 0.5, 50, 50}
	original := append([]float64{}, speeds...)

	result, err := chain.Filter(&SpeedTrack{Name: "chain", Speeds: speeds, Times: everySecond(len(speeds))})
	require.NoError(t, err)

	assert.Equal(t, original, speeds, "input must not be modified")
	require.Len(t, result.Speeds, len(speeds))
	assert.Equal(t, 50.0, result.Speeds[4])
	assert.Greater(t, result.Statistics.MADOutliers, 0)
	for _, s := range result.Speeds {
		assert.GreaterOrEqual(t, s, 0.0)
	}
}

func TestFilterChain_LengthMismatch(t *testing.T) {
	chain := NewFilterChain(DefaultFilterConfig(), utils.NewNopLogger())
	_, err := chain.Filter(&SpeedTrack{Speeds: []float64{1}, Times: nil})
	assert.Error(t, err)
}
