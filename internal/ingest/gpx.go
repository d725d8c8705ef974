package ingest

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/flybeeper/track-analyzer/internal/models"
)

// parseGPX читает точки треков (trkpt); если их нет, берутся точки маршрутов (rtept)
func (p *Parser) parseGPX(data []byte) (*models.Track, error) {
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	track := &models.Track{Name: doc.Name}
	index := 0

	add := func(pt *gpx.GPXPoint) {
		defer func() { index++ }()

		if pt.Timestamp.IsZero() {
			p.drop(track, index, "no_time", "point has no timestamp")
			return
		}

		position := models.GeoPoint{Latitude: pt.Point.Latitude, Longitude: pt.Point.Longitude}
		if err := position.Validate(); err != nil {
			p.drop(track, index, "invalid_coordinates", err.Error())
			return
		}

		point := models.TrackPoint{
			Position:  position,
			Timestamp: pt.Timestamp.UTC(),
			SourceID:  index,
		}
		if pt.Elevation.NotNull() {
			point.Elevation = models.Float64(pt.Elevation.Value())
		}
		track.Points = append(track.Points, point)
	}

	for _, t := range doc.Tracks {
		if track.Name == "" {
			track.Name = t.Name
		}
		for _, seg := range t.Segments {
			for i := range seg.Points {
				add(&seg.Points[i])
			}
		}
	}

	if index == 0 {
		for _, r := range doc.Routes {
			if track.Name == "" {
				track.Name = r.Name
			}
			for i := range r.Points {
				add(&r.Points[i])
			}
		}
	}

	return track, nil
}
