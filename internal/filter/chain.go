package filter

import (
	"fmt"
	"time"

	"github.com/flybeeper/track-analyzer/pkg/utils"
)

// FilterChain цепочка фильтров для последовательного применения
type FilterChain struct {
	filters []SpeedFilter
	config  *FilterConfig
	logger  *utils.Logger
}

// NewFilterChain создает цепочку фильтров согласно уровню в конфигурации
func NewFilterChain(config *FilterConfig, logger *utils.Logger) *FilterChain {
	switch config.Level {
	case 1:
		return NewLevel1FilterChain(config, logger)
	case 2:
		return NewLevel2FilterChain(config, logger)
	default:
		return NewLevel3FilterChain(config, logger)
	}
}

func newEmptyChain(config *FilterConfig, logger *utils.Logger) *FilterChain {
	return &FilterChain{
		filters: make([]SpeedFilter, 0),
		config:  config,
		logger:  logger,
	}
}

// AddFilter добавляет фильтр в цепочку
func (fc *FilterChain) AddFilter(filter SpeedFilter) {
	fc.filters = append(fc.filters, filter)
}

// Filters возвращает фильтры цепочки в порядке применения
func (fc *FilterChain) Filters() []SpeedFilter {
	return fc.filters
}

// Filter применяет все фильтры в цепочке. Каждый фильтр получает выход
// предыдущего; входной ряд не изменяется.
func (fc *FilterChain) Filter(track *SpeedTrack) (*FilterResult, error) {
	if len(track.Speeds) != len(track.Times) {
		return nil, fmt.Errorf("filter chain: %d speeds but %d timestamps", len(track.Speeds), len(track.Times))
	}

	fc.logger.WithField("track", track.Name).
		WithField("samples", len(track.Speeds)).
		WithField("filters_count", len(fc.filters)).
		Debug("Starting speed filtering")

	currentTrack := SpeedTrack{
		Name:   track.Name,
		Speeds: append([]float64{}, track.Speeds...),
		Times:  track.Times,
	}
	combined := &FilterResult{}

	for _, filter := range fc.filters {
		start := time.Now()

		result, err := filter.Filter(&currentTrack)
		if err != nil {
			fc.logger.WithField("filter", filter.Name()).
				WithError(err).
				Error("Filter failed")
			continue
		}

		fc.logger.WithField("filter", filter.Name()).
			WithField("samples", len(result.Speeds)).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Debug("Filter applied")

		currentTrack.Speeds = result.Speeds
		combined.Statistics.merge(result.Statistics)
		combined.Diagnostics = append(combined.Diagnostics, result.Diagnostics...)
	}

	combined.Speeds = currentTrack.Speeds

	fc.logger.WithField("track", track.Name).
		WithField("samples", len(combined.Speeds)).
		WithField("mad_outliers", combined.Statistics.MADOutliers).
		WithField("accel_violations", combined.Statistics.AccelViolations).
		WithField("snapped", combined.Statistics.SnappedToZero).
		Info("Speed filtering completed")

	return combined, nil
}

// Name возвращает имя цепочки фильтров
func (fc *FilterChain) Name() string {
	return "FilterChain"
}

// Description возвращает описание цепочки фильтров
func (fc *FilterChain) Description() string {
	filterNames := make([]string, len(fc.filters))
	for i, filter := range fc.filters {
		filterNames[i] = filter.Name()
	}
	return fmt.Sprintf("Chain of filters: %v", filterNames)
}
