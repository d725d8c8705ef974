package filter

import (
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

// NewLevel1FilterChain создает базовую цепочку (уровень 1):
// только строгий фильтр выбросов, без сглаживания
func NewLevel1FilterChain(config *FilterConfig, logger *utils.Logger) *FilterChain {
	chain := newEmptyChain(config, logger)

	chain.AddFilter(NewOutlierFilter(config, logger))

	return chain
}

// NewLevel2FilterChain создает среднюю цепочку (уровень 2):
// выбросы -> обнуление стоянок -> сглаживание
func NewLevel2FilterChain(config *FilterConfig, logger *utils.Logger) *FilterChain {
	chain := newEmptyChain(config, logger)

	chain.AddFilter(NewOutlierFilter(config, logger))
	chain.AddFilter(NewStopSnapFilter(config, logger))
	chain.AddFilter(NewSmoothingFilter(config, logger))

	return chain
}

// NewLevel3FilterChain создает полную цепочку (уровень 3):
// мягкий проход выбросов, затем строгий, обнуление стоянок и сглаживание
func NewLevel3FilterChain(config *FilterConfig, logger *utils.Logger) *FilterChain {
	chain := newEmptyChain(config, logger)

	chain.AddFilter(NewLooseOutlierFilter(config, logger))
	chain.AddFilter(NewOutlierFilter(config, logger))
	chain.AddFilter(NewStopSnapFilter(config, logger))
	chain.AddFilter(NewSmoothingFilter(config, logger))

	return chain
}
