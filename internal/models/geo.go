package models

import (
	"fmt"
	"math"

	"github.com/mmcloughlin/geohash"
)

// GeoPoint представляет географическую точку (градусы WGS84)
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Validate проверяет корректность координат
func (p GeoPoint) Validate() error {
	if !isFinite(p.Latitude) || !isFinite(p.Longitude) {
		return fmt.Errorf("non-finite coordinates: %f, %f", p.Latitude, p.Longitude)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("invalid latitude: %f", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("invalid longitude: %f", p.Longitude)
	}
	return nil
}

// Geohash возвращает geohash для точки с заданной точностью
func (p GeoPoint) Geohash(precision int) string {
	return geohash.EncodeWithPrecision(p.Latitude, p.Longitude, uint(precision))
}

// Equal сравнивает координаты точно (без допуска)
func (p GeoPoint) Equal(other GeoPoint) bool {
	return p.Latitude == other.Latitude && p.Longitude == other.Longitude
}

// Bounds представляет географические границы
type Bounds struct {
	Southwest GeoPoint `json:"sw"`
	Northeast GeoPoint `json:"ne"`
}

// Contains проверяет, содержится ли точка в границах
func (b Bounds) Contains(point GeoPoint) bool {
	return point.Latitude >= b.Southwest.Latitude && point.Latitude <= b.Northeast.Latitude &&
		point.Longitude >= b.Southwest.Longitude && point.Longitude <= b.Northeast.Longitude
}

// BoundsOf возвращает минимальный прямоугольник, содержащий все точки трека
func BoundsOf(points []TrackPoint) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	b := Bounds{Southwest: points[0].Position, Northeast: points[0].Position}
	for _, p := range points[1:] {
		if p.Position.Latitude < b.Southwest.Latitude {
			b.Southwest.Latitude = p.Position.Latitude
		}
		if p.Position.Longitude < b.Southwest.Longitude {
			b.Southwest.Longitude = p.Position.Longitude
		}
		if p.Position.Latitude > b.Northeast.Latitude {
			b.Northeast.Latitude = p.Position.Latitude
		}
		if p.Position.Longitude > b.Northeast.Longitude {
			b.Northeast.Longitude = p.Position.Longitude
		}
	}
	return b, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
