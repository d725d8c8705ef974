package geo

import (
	"math"

	"github.com/flybeeper/track-analyzer/internal/models"
)

// EarthRadiusMeters fixed sphere radius used for every great-circle distance.
const EarthRadiusMeters = 6371000.0

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b models.GeoPoint) float64 {
	if a.Equal(b) {
		return 0
	}

	lat1 := toRad(a.Latitude)
	lat2 := toRad(b.Latitude)
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h just past 1 for antipodal points, which would make
	// sqrt(1-h) NaN.
	h = math.Min(math.Max(h, 0), 1)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// CumulativeDistances returns the running path length in kilometers at each
// point. The first entry is always 0 and the result has len(points) entries.
func CumulativeDistances(points []models.GeoPoint) []float64 {
	result := make([]float64, len(points))
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
		result[i] = total / 1000
	}
	return result
}

// PathLength returns the total path length in meters.
func PathLength(points []models.GeoPoint) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}
