package interfaces

import (
	"context"

	"post-market-analysis/internal/types"
)

// Aggregator rolls the alpha-annotated trades of one dealer file into a summary.
type Aggregator interface {
	Summarize(ctx context.Context, dealerID string, trades []types.AlphaTrade) (*types.DealerSummary, error)
}
