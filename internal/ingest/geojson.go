package ingest

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/flybeeper/track-analyzer/internal/models"
)

// parseGeoJSON читает Point-объекты FeatureCollection. Время берется из
// properties.time (ISO-8601), высота из properties.ele, исходный номер точки
// из properties.track_seg_point_id.
func (p *Parser) parseGeoJSON(data []byte) (*models.Track, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: GeoJSON type %q", ErrUnsupportedFormat, fc.Type)
	}

	track := &models.Track{}
	if name, ok := fc.ExtraMembers["name"].(string); ok {
		track.Name = name
	}

	for i, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			p.drop(track, i, "not_a_point", fmt.Sprintf("geometry is %T, not a point", f.Geometry))
			continue
		}

		ts, ok := featureTime(f.Properties)
		if !ok {
			p.drop(track, i, "no_time", "feature has no valid properties.time")
			continue
		}

		position := models.GeoPoint{Latitude: pt.Lat(), Longitude: pt.Lon()}
		if err := position.Validate(); err != nil {
			p.drop(track, i, "invalid_coordinates", err.Error())
			continue
		}

		point := models.TrackPoint{
			Position:  position,
			Timestamp: ts,
			SourceID:  i,
		}
		if ele, ok := f.Properties["ele"].(float64); ok {
			point.Elevation = models.Float64(ele)
		}
		if id, ok := f.Properties["track_seg_point_id"].(float64); ok {
			point.SourceID = int(id)
		}
		track.Points = append(track.Points, point)
	}

	return track, nil
}

func featureTime(props geojson.Properties) (time.Time, bool) {
	s, ok := props["time"].(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}
