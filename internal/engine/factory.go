package engine

import (
	"post-market-analysis/internal/interfaces"
	"post-market-analysis/internal/store"
)

func New(cfg *store.Config, lots interfaces.LotSizeResolver, agg interfaces.Aggregator) interfaces.BatchProcessor {
	return newEngine(cfg, lots, agg)
}
