package geo

import (
	"github.com/mmcloughlin/geohash"

	"github.com/flybeeper/track-analyzer/internal/models"
)

// GeohashPrecisionKm maps geohash precision to approximate cell size in km
var GeohashPrecisionKm = map[int]float64{
	5: 4.9,   // ±2.4 km
	6: 1.2,   // ±0.61 km
	7: 0.152, // ±0.076 km
	8: 0.038, // ±0.019 km
}

// DefaultClusterPrecision is coarse enough that a 3x3 block of cells covers
// any merge radius up to a few hundred meters outside the polar regions.
const DefaultClusterPrecision = 6

// ClusterIndex answers "which existing cluster centres lie within radius of
// p" without scanning every cluster. Clusters are identified by the order in
// which they were added, so callers can still pick the earliest match.
type ClusterIndex struct {
	precision uint
	radius    float64
	centres   []models.GeoPoint
	cells     map[string][]int
}

// NewClusterIndex creates an index for the given merge radius in meters.
func NewClusterIndex(radiusMeters float64, precision int) *ClusterIndex {
	if precision <= 0 || precision > 12 {
		precision = DefaultClusterPrecision
	}
	return &ClusterIndex{
		precision: uint(precision),
		radius:    radiusMeters,
		cells:     make(map[string][]int),
	}
}

// Add registers a new cluster centre and returns its id.
func (ci *ClusterIndex) Add(p models.GeoPoint) int {
	id := len(ci.centres)
	ci.centres = append(ci.centres, p)
	cell := geohash.EncodeWithPrecision(p.Latitude, p.Longitude, ci.precision)
	ci.cells[cell] = append(ci.cells[cell], id)
	return id
}

// Len returns the number of clusters.
func (ci *ClusterIndex) Len() int {
	return len(ci.centres)
}

// Nearest returns the lowest cluster id whose centre is strictly closer than
// the radius, or -1 when none is.
func (ci *ClusterIndex) Nearest(p models.GeoPoint) int {
	best := -1
	for _, id := range ci.candidates(p) {
		if best != -1 && id >= best {
			continue
		}
		if Distance(ci.centres[id], p) < ci.radius {
			best = id
		}
	}
	return best
}

// candidates returns cluster ids from the cell containing p and its eight
// neighbours. When the cell is narrower than the radius (near the poles) the
// neighbourhood no longer covers the search circle and every id is returned.
func (ci *ClusterIndex) candidates(p models.GeoPoint) []int {
	cell := geohash.EncodeWithPrecision(p.Latitude, p.Longitude, ci.precision)
	if !ci.cellCovers(cell) {
		all := make([]int, len(ci.centres))
		for i := range all {
			all[i] = i
		}
		return all
	}

	ids := append([]int(nil), ci.cells[cell]...)
	for _, n := range geohash.Neighbors(cell) {
		ids = append(ids, ci.cells[n]...)
	}
	return ids
}

func (ci *ClusterIndex) cellCovers(cell string) bool {
	box := geohash.BoundingBox(cell)
	width := Distance(
		models.GeoPoint{Latitude: box.MinLat, Longitude: box.MinLng},
		models.GeoPoint{Latitude: box.MinLat, Longitude: box.MaxLng},
	)
	if box.MaxLat > 0 && box.MinLat > 0 {
		// the poleward edge is the narrow one
		width = Distance(
			models.GeoPoint{Latitude: box.MaxLat, Longitude: box.MinLng},
			models.GeoPoint{Latitude: box.MaxLat, Longitude: box.MaxLng},
		)
	}
	height := Distance(
		models.GeoPoint{Latitude: box.MinLat, Longitude: box.MinLng},
		models.GeoPoint{Latitude: box.MaxLat, Longitude: box.MinLng},
	)
	return width >= ci.radius && height >= ci.radius
}
