package models

import (
	"time"
)

// TrackPoint точка трека: позиция, необязательная высота и время
type TrackPoint struct {
	Position  GeoPoint  `json:"position"`
	Elevation *float64  `json:"elevation,omitempty"` // м, nil если в источнике нет высоты
	Timestamp time.Time `json:"timestamp"`
	SourceID  int       `json:"source_id"` // Порядковый номер точки в исходном файле
}

// HasElevation сообщает, есть ли у точки высота
func (tp TrackPoint) HasElevation() bool {
	return tp.Elevation != nil
}

// Track упорядоченная по времени последовательность точек
type Track struct {
	Name        string       `json:"name"`
	Points      []TrackPoint `json:"points"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"` // Предупреждения разбора исходного файла
}

// Len возвращает количество точек
func (t *Track) Len() int {
	return len(t.Points)
}

// Positions возвращает координаты точек
func (t *Track) Positions() []GeoPoint {
	result := make([]GeoPoint, len(t.Points))
	for i, p := range t.Points {
		result[i] = p.Position
	}
	return result
}

// Timestamps возвращает временные метки точек
func (t *Track) Timestamps() []time.Time {
	result := make([]time.Time, len(t.Points))
	for i, p := range t.Points {
		result[i] = p.Timestamp
	}
	return result
}

// Elevations возвращает только имеющиеся высоты; точки без высоты пропускаются
func (t *Track) Elevations() []float64 {
	result := make([]float64, 0, len(t.Points))
	for _, p := range t.Points {
		if p.Elevation != nil {
			result = append(result, *p.Elevation)
		}
	}
	return result
}

// Float64 возвращает указатель на значение (удобно для Elevation)
func Float64(v float64) *float64 {
	return &v
}
