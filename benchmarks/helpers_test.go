package benchmarks

import (
	"math"
	"math/rand"
	"time"

	"github.com/flybeeper/track-analyzer/internal/models"
)

// generateTrack строит реалистичный городской трек: 1 Гц, 20-60 км/ч,
// остановки на светофорах и редкие выбросы GPS.
func generateTrack(n int, seed int64) *models.Track {
	r := rand.New(rand.NewSource(seed))
	points := make([]models.TrackPoint, n)

	lat, lon, ele := -6.2, 106.8166, 25.0
	heading := r.Float64() * 2 * math.Pi
	now := time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

	for i := range points {
		if i > 0 && i%300 == 0 {
			now = now.Add(time.Duration(15+r.Intn(90)) * time.Second)
		} else {
			now = now.Add(time.Second)
			meters := (20 + r.Float64()*40) / 3.6
			heading += (r.Float64() - 0.5) * 0.1
			lat += meters * math.Cos(heading) / 111195
			lon += meters * math.Sin(heading) / (111195 * math.Cos(lat*math.Pi/180))
			ele += (r.Float64() - 0.5) * 0.5
		}

		p := models.GeoPoint{Latitude: lat, Longitude: lon}
		if i%97 == 0 {
			p.Latitude += 0.001 // выброс ~100 м
		}
		points[i] = models.TrackPoint{
			Position:  p,
			Elevation: models.Float64(ele),
			Timestamp: now,
			SourceID:  i,
		}
	}

	return &models.Track{Name: "bench", Points: points}
}
