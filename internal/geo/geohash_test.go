package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flybeeper/track-analyzer/internal/models"
)

// offsetNorth returns p moved roughly meters to the north.
func offsetNorth(p models.GeoPoint, meters float64) models.GeoPoint {
	return models.GeoPoint{Latitude: p.Latitude + meters/111195.0, Longitude: p.Longitude}
}

func TestClusterIndex_Nearest(t *testing.T) {
	origin := models.GeoPoint{Latitude: -6.2000, Longitude: 106.8166}

	idx := NewClusterIndex(20, DefaultClusterPrecision)
	assert.Equal(t, -1, idx.Nearest(origin))

	first := idx.Add(origin)
	assert.Equal(t, 0, first)

	assert.Equal(t, 0, idx.Nearest(offsetNorth(origin, 10)))
	assert.Equal(t, -1, idx.Nearest(offsetNorth(origin, 25)))

	second := idx.Add(offsetNorth(origin, 30))
	assert.Equal(t, 1, second)
	assert.Equal(t, 2, idx.Len())

	// 15 м от обоих центров: выбирается более ранний кластер
	assert.Equal(t, 0, idx.Nearest(offsetNorth(origin, 15)))
	assert.Equal(t, 1, idx.Nearest(offsetNorth(origin, 40)))
}

func TestClusterIndex_CellBoundary(t *testing.T) {
	// Точки по разные стороны границы ячейки geohash должны находить друг друга
	idx := NewClusterIndex(20, 7)
	a := models.GeoPoint{Latitude: 0.00001, Longitude: 0.00001}
	b := models.GeoPoint{Latitude: -0.00001, Longitude: -0.00001}

	idx.Add(a)
	assert.NotEqual(t, a.Geohash(7), b.Geohash(7))
	assert.Equal(t, 0, idx.Nearest(b))
}

func TestClusterIndex_PolarFallback(t *testing.T) {
	idx := NewClusterIndex(20, 8)
	p := models.GeoPoint{Latitude: 89.9, Longitude: 10}
	idx.Add(p)

	// у полюса ячейка уже радиуса, используется полный перебор
	q := models.GeoPoint{Latitude: 89.9, Longitude: 10.05}
	assert.Less(t, Distance(p, q), 20.0)
	assert.Equal(t, 0, idx.Nearest(q))
}
