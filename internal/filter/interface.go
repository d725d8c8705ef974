package filter

import (
	"time"

	"github.com/flybeeper/track-analyzer/internal/models"
)

// SpeedTrack ряд скоростей трека для фильтрации.
// Times[i]: время второй точки пары, к которой относится Speeds[i].
type SpeedTrack struct {
	Name   string      `json:"name"`
	Speeds []float64   `json:"speeds"` // км/ч
	Times  []time.Time `json:"times"`
}

// Len возвращает длину ряда
func (t *SpeedTrack) Len() int {
	return len(t.Speeds)
}

// FilterResult результат фильтрации. Speeds всегда новый слайс, вход не изменяется.
type FilterResult struct {
	Speeds      []float64           `json:"speeds"`
	Statistics  FilterStats         `json:"statistics"`
	Diagnostics []models.Diagnostic `json:"diagnostics,omitempty"`
}

// FilterStats статистика фильтрации
type FilterStats struct {
	MADOutliers     int     `json:"mad_outliers"`
	AccelViolations int     `json:"accel_violations"`
	SnappedToZero   int     `json:"snapped_to_zero"`
	Smoothed        int     `json:"smoothed"`  // Значения, замененные средним по окну
	Preserved       int     `json:"preserved"` // Значения, сохраненные правилами сохранения
	Median          float64 `json:"median"`
	MAD             float64 `json:"mad"`
}

// merge добавляет статистику другого фильтра
func (s *FilterStats) merge(other FilterStats) {
	s.MADOutliers += other.MADOutliers
	s.AccelViolations += other.AccelViolations
	s.SnappedToZero += other.SnappedToZero
	s.Smoothed += other.Smoothed
	s.Preserved += other.Preserved
	// Медиана и MAD берутся из последнего прохода, который их вычислял
	if other.MAD != 0 || other.Median != 0 {
		s.Median = other.Median
		s.MAD = other.MAD
	}
}

// SpeedFilter интерфейс для фильтров ряда скоростей
type SpeedFilter interface {
	// Filter применяет фильтр к ряду скоростей
	Filter(track *SpeedTrack) (*FilterResult, error)

	// Name возвращает имя фильтра
	Name() string

	// Description возвращает описание фильтра
	Description() string
}

// FilterConfig конфигурация фильтров
type FilterConfig struct {
	// Множитель MAD для глобального отбраковывания
	MADMultiplier float64 `json:"mad_multiplier"`

	// Границы ускорения (м/с²): строгая, мягкая (первый проход) и торможение
	MaxAccel      float64 `json:"max_accel"`
	LooseMaxAccel float64 `json:"loose_max_accel"`
	MaxDecel      float64 `json:"max_decel"`

	// Максимальный скачок от предыдущего отфильтрованного значения (км/ч)
	MaxJump float64 `json:"max_jump"`

	// Порог "стоянки" (км/ч): две подряд скорости ниже порога обнуляются
	StopThreshold float64 `json:"stop_threshold"`

	// Сглаживание
	WindowSize    int     `json:"window_size"`
	PreserveDelta float64 `json:"preserve_delta"` // Отклонение от среднего, при котором значение считается реальным
	PreserveBelow float64 `json:"preserve_below"` // Скорости ниже этой не сглаживаются

	// Уровень цепочки фильтров (1-3)
	Level int `json:"level"`
}

// DefaultFilterConfig возвращает конфигурацию по умолчанию
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		MADMultiplier: 3,
		MaxAccel:      1.72,
		LooseMaxAccel: 4,
		MaxDecel:      -9.8,
		MaxJump:       20,
		StopThreshold: 2,
		WindowSize:    5,
		PreserveDelta: 10,
		PreserveBelow: 30,
		Level:         3,
	}
}
