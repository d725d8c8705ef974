// Package ingest converts GPX and GeoJSON files into time-ordered tracks.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flybeeper/track-analyzer/internal/metrics"
	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

var (
	// ErrUnsupportedFormat формат файла не распознан
	ErrUnsupportedFormat = errors.New("ingest: unsupported format")
	// ErrNoPoints в файле нет ни одной пригодной точки
	ErrNoPoints = errors.New("ingest: no usable points")
)

// Format формат входного файла
type Format string

const (
	FormatUnknown Format = ""
	FormatGPX     Format = "gpx"
	FormatGeoJSON Format = "geojson"
)

// ParseFormat разбирает имя формата (gpx, geojson, json)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gpx":
		return FormatGPX, nil
	case "geojson", "json":
		return FormatGeoJSON, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// DetectFormat определяет формат по расширению имени файла, затем по Content-Type
func DetectFormat(name, contentType string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gpx":
		return FormatGPX
	case ".geojson", ".json":
		return FormatGeoJSON
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "gpx"):
		return FormatGPX
	case strings.Contains(ct, "geo+json"), strings.Contains(ct, "json"):
		return FormatGeoJSON
	}
	return FormatUnknown
}

// Parser парсер файлов треков
type Parser struct {
	logger *utils.Logger
}

// NewParser создает новый парсер
func NewParser(logger *utils.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// Parse читает трек в указанном формате
func (p *Parser) Parse(r io.Reader, format Format) (*models.Track, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read track: %w", err)
	}

	var track *models.Track
	switch format {
	case FormatGPX:
		track, err = p.parseGPX(data)
	case FormatGeoJSON:
		track, err = p.parseGeoJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
	if err != nil {
		metrics.IngestFilesTotal.WithLabelValues(string(format), "error").Inc()
		return nil, err
	}

	if len(track.Points) == 0 {
		metrics.IngestFilesTotal.WithLabelValues(string(format), "error").Inc()
		return nil, ErrNoPoints
	}

	sortByTime(track.Points)
	metrics.IngestFilesTotal.WithLabelValues(string(format), "success").Inc()
	metrics.IngestPointsTotal.WithLabelValues(string(format)).Add(float64(len(track.Points)))

	p.logger.WithField("format", format).
		WithField("track", track.Name).
		WithField("points_count", len(track.Points)).
		WithField("dropped", len(track.Diagnostics)).
		Debug("Track parsed")

	return track, nil
}

// ParseFile читает трек из файла, формат определяется по расширению
func (p *Parser) ParseFile(path string) (*models.Track, error) {
	format := DetectFormat(path, "")
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open track file: %w", err)
	}
	defer f.Close()

	track, err := p.Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if track.Name == "" {
		track.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return track, nil
}

// Parse читает трек парсером с логгером по умолчанию
func Parse(r io.Reader, format Format) (*models.Track, error) {
	return NewParser(utils.Default()).Parse(r, format)
}

// ParseFile читает трек из файла парсером с логгером по умолчанию
func ParseFile(path string) (*models.Track, error) {
	return NewParser(utils.Default()).ParseFile(path)
}

// drop регистрирует отброшенную точку
func (p *Parser) drop(track *models.Track, index int, reason, message string) {
	metrics.IngestDroppedPoints.WithLabelValues(reason).Inc()
	p.logger.WithField("index", index).
		WithField("reason", reason).
		Warn("Track point dropped")
	track.Diagnostics = append(track.Diagnostics, models.Diagnostic{
		Stage:   "ingest",
		Kind:    models.DiagnosticDroppedPoint,
		Index:   index,
		Message: message,
	})
}

// sortByTime упорядочивает точки по времени, сохраняя порядок равных меток
func sortByTime(points []models.TrackPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
}
