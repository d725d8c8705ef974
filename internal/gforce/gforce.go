// Package gforce estimates peak longitudinal G-forces from a cleaned speed series.
package gforce

import (
	"time"

	"github.com/flybeeper/track-analyzer/internal/kinematics"
	"github.com/flybeeper/track-analyzer/internal/models"
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

// Config параметры оценки перегрузок
type Config struct {
	Gravity   float64 `json:"gravity"`     // м/с²
	MaxAccelG float64 `json:"max_accel_g"` // верхняя граница разгона
	MinDecelG float64 `json:"min_decel_g"` // нижняя граница торможения (отрицательная)
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Gravity:   kinematics.StandardGravity,
		MaxAccelG: 0.5,
		MinDecelG: -1.0,
	}
}

// Estimator вычисляет пиковые перегрузки
type Estimator struct {
	config *Config
	logger *utils.Logger
}

// NewEstimator создает оценщик перегрузок
func NewEstimator(config *Config, logger *utils.Logger) *Estimator {
	return &Estimator{
		config: config,
		logger: logger,
	}
}

// Estimate проходит по парам соседних скоростей (км/ч). Каждое значение
// усредняется с предыдущим неусредненным значением, начиная со второй пары,
// затем ограничивается диапазоном [MinDecelG, MaxAccelG]. Пары с нулевым или
// отрицательным шагом времени пропускаются. Торможение возвращается модулем.
func (e *Estimator) Estimate(speeds []float64, times []time.Time) models.GForceResult {
	result := models.EmptyGForce()

	n := min(len(speeds), len(times))
	if n < 2 {
		return result
	}

	maxAccel, minDecel := 0.0, 0.0
	prevRaw, hasPrev := 0.0, false

	for i := 1; i < n; i++ {
		dt := times[i].Sub(times[i-1]).Seconds()
		if dt <= 0 {
			hasPrev = false
			continue
		}

		raw := kinematics.Acceleration(speeds[i-1], speeds[i], dt) / e.config.Gravity
		g := raw
		if hasPrev {
			g = (raw + prevRaw) / 2
		}
		prevRaw, hasPrev = raw, true

		g = max(e.config.MinDecelG, min(e.config.MaxAccelG, g))

		if g > maxAccel {
			maxAccel = g
			result.PeakAccelIndex = i
		}
		if g < minDecel {
			minDecel = g
			result.PeakDecelIndex = i
		}
	}

	result.PeakAccelG = maxAccel
	if minDecel < 0 {
		result.PeakDecelG = -minDecel
	}

	e.logger.WithField("samples", n).
		WithField("peak_accel_g", result.PeakAccelG).
		WithField("peak_decel_g", result.PeakDecelG).
		Debug("G-force estimation completed")

	return result
}
