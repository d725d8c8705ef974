package filter

import (
	"math"
	"sort"
)

// upperMedian возвращает элемент sorted[n/2]: для четной длины берется верхняя
// из двух центральных величин, без усреднения.
func upperMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return sorted[len(sorted)/2]
}

// medianAbsoluteDeviation вычисляет MAD относительно заданной медианы
func medianAbsoluteDeviation(values []float64, median float64) float64 {
	if len(values) == 0 {
		return 0
	}

	deviations := make([]float64, len(values))
	for i, value := range values {
		deviations[i] = math.Abs(value - median)
	}

	return upperMedian(deviations)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
