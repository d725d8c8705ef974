package filter

import (
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

// StopSnapFilter обнуляет почти нулевые скорости на стоянках
type StopSnapFilter struct {
	config *FilterConfig
	logger *utils.Logger
}

// NewStopSnapFilter создает фильтр привязки стоянок к нулю
func NewStopSnapFilter(config *FilterConfig, logger *utils.Logger) *StopSnapFilter {
	return &StopSnapFilter{
		config: config,
		logger: logger,
	}
}

// Filter обнуляет каждую пару соседних скоростей ниже порога
func (f *StopSnapFilter) Filter(track *SpeedTrack) (*FilterResult, error) {
	result, snapped := SnapStops(track.Speeds, f.config.StopThreshold)

	f.logger.WithField("track", track.Name).
		WithField("threshold_kmh", f.config.StopThreshold).
		WithField("snapped", snapped).
		Debug("Stop snapping applied")

	return &FilterResult{
		Speeds:     result,
		Statistics: FilterStats{SnappedToZero: snapped},
	}, nil
}

// SnapStops для каждой пары соседних значений, обоих ниже threshold,
// устанавливает оба в 0. Возвращает новый слайс и число обнуленных значений.
func SnapStops(speeds []float64, threshold float64) ([]float64, int) {
	result := make([]float64, len(speeds))
	copy(result, speeds)

	snapped := 0
	for i := 1; i < len(result); i++ {
		if result[i] < threshold && result[i-1] < threshold {
			if result[i-1] != 0 {
				result[i-1] = 0
				snapped++
			}
			if result[i] != 0 {
				result[i] = 0
				snapped++
			}
		}
	}

	return result, snapped
}

// Name возвращает имя фильтра
func (f *StopSnapFilter) Name() string {
	return "StopSnapFilter"
}

// Description возвращает описание фильтра
func (f *StopSnapFilter) Description() string {
	return "Forces consecutive near-zero speeds to exactly 0 km/h"
}
