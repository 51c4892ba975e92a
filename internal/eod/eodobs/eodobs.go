package eodobs

import (
	"context"

	"post-market-analysis/internal/interfaces"
	"post-market-analysis/internal/logger"
	"post-market-analysis/internal/trace"
	"post-market-analysis/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

type observableAggregator struct {
	aggregator interfaces.Aggregator
}

var _ interfaces.Aggregator = (*observableAggregator)(nil)

func Wrap(aggregator interfaces.Aggregator) interfaces.Aggregator {
	return &observableAggregator{
		aggregator: aggregator,
	}
}

func (oa *observableAggregator) Summarize(ctx context.Context, dealerID string, trades []types.AlphaTrade) (*types.DealerSummary, error) {
	ctx, span := trace.StartSpan(ctx, "eod.Summarize")
	defer span.End()
	span.SetAttributes(
		attribute.String("dealer_id", dealerID),
		attribute.Int("trades", len(trades)),
	)

	logger.DebugSkip(ctx, 1, "Summarizing dealer trades",
		"dealer_id", dealerID,
		"trades", len(trades),
	)

	summary, err := oa.aggregator.Summarize(ctx, dealerID, trades)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Dealer summary failed", err,
			"dealer_id", dealerID,
		)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Dealer summary computed",
		"dealer_id", dealerID,
		"net_alpha", summary.NetAlpha.String(),
		"ranking_mode", string(summary.RankingMode),
		"portfolios", len(summary.Portfolios),
	)

	return summary, nil
}
