package models

import "time"

// StopKind тип остановки
type StopKind string

const (
	StopKindPause       StopKind = "pause"
	StopKindTrafficStop StopKind = "traffic_stop"
)

// StopEvent обнаруженная остановка в треке
type StopEvent struct {
	Location   GeoPoint  `json:"location"`
	Geohash    string    `json:"geohash"`
	Duration   float64   `json:"duration_s"`
	Kind       StopKind  `json:"kind"`
	PointIndex int       `json:"point_index"` // Индекс точки, завершающей разрыв
	StartedAt  time.Time `json:"started_at"`
	Merged     int       `json:"merged,omitempty"` // Сколько событий объединено в кластер (включая первое)
}

// NoIndex значение индекса, когда подходящего отсчета нет
const NoIndex = -1

// GForceResult пиковые перегрузки по очищенному ряду скоростей
type GForceResult struct {
	PeakAccelG     float64 `json:"peak_accel_g"`
	PeakDecelG     float64 `json:"peak_decel_g"` // модуль
	PeakAccelIndex int     `json:"peak_accel_index"`
	PeakDecelIndex int     `json:"peak_decel_index"`
}

// EmptyGForce результат без подходящих отсчетов
func EmptyGForce() GForceResult {
	return GForceResult{PeakAccelIndex: NoIndex, PeakDecelIndex: NoIndex}
}

// TripSummary итоговая статистика поездки.
// Скорости в км/ч, расстояние в км, высоты в м, длительности в секундах.
type TripSummary struct {
	TotalTime          float64      `json:"total_time_s"`
	MovingTime         float64      `json:"moving_time_s"`
	AverageSpeed       float64      `json:"average_speed_kmh"` // может быть Inf/NaN при MovingTime <= 0
	TopSpeed           float64      `json:"top_speed_kmh"`
	TopSpeedIndex      int          `json:"top_speed_index"`
	TopSpeedLocation   *GeoPoint    `json:"top_speed_location,omitempty"`
	MinSpeed           float64      `json:"min_speed_kmh"`
	TotalDistanceKm    float64      `json:"total_distance_km"`
	TotalElevationGain float64      `json:"total_elevation_gain_m"` // диапазон max-min
	TotalAscent        float64      `json:"total_ascent_m"`
	HasElevation       bool         `json:"has_elevation"`
	StartTime          time.Time    `json:"start_time"`
	EndTime            time.Time    `json:"end_time"`
	PauseTime          float64      `json:"pause_time_s"`
	TrafficStopTime    float64      `json:"traffic_stop_time_s"`
	GForce             GForceResult `json:"g_force"`
}

// Segment аннотация отрезка между двумя соседними точками для слоя отображения
type Segment struct {
	Index                int       `json:"index"`
	SpeedKmh             float64   `json:"speed_kmh"`
	CumulativeDistanceKm float64   `json:"cumulative_distance_km"`
	Timestamp            time.Time `json:"timestamp"`
	SourceID             int       `json:"source_id"`
}
