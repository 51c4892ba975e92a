package eod

import (
	"post-market-analysis/internal/interfaces"
	"post-market-analysis/internal/types"
)

func NewAggregator(mode types.RankingMode) interfaces.Aggregator {
	return &aggregator{mode: mode}
}
