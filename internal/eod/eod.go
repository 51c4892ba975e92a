package eod

import (
	"context"

	"github.com/shopspring/decimal"

	"post-market-analysis/internal/instrument"
	"post-market-analysis/internal/types"
)

var hundred = decimal.NewFromInt(100)

func (a *aggregator) Summarize(ctx context.Context, dealerID string, trades []types.AlphaTrade) (*types.DealerSummary, error) {
	if len(trades) == 0 {
		return nil, &EmptyFileError{DealerID: dealerID}
	}

	aggs := groupByPortfolio(trades)
	if len(aggs) < types.RankDepth {
		return nil, &InsufficientPortfolioDiversityError{DealerID: dealerID, Distinct: len(aggs), Required: types.RankDepth}
	}

	positive, negative := decimal.Zero, decimal.Zero
	nonNegative, negativeCount := 0, 0
	for _, t := range trades {
		switch t.Alpha.Sign() {
		case 1:
			positive = positive.Add(t.Alpha)
			nonNegative++
		case 0:
			nonNegative++
		default:
			negative = negative.Add(t.Alpha)
			negativeCount++
		}
	}
	positive = positive.RoundBank(2)
	negative = negative.RoundBank(2)

	posPct := eventRate(nonNegative, len(trades))
	negPct := eventRate(negativeCount, len(trades))

	stats := make([]types.PortfolioStat, len(aggs))
	items := make([]ranked, len(aggs))
	for i, agg := range aggs {
		stats[i] = portfolioStat(agg)
		items[i] = ranked{Portfolio: agg.Portfolio, Metric: rankingMetric(a.mode, stats[i])}
	}
	top, bottom := topBottom(items)

	return &types.DealerSummary{
		DealerID:               dealerID,
		PositiveAlpha:          positive,
		NegativeAlpha:          negative,
		NetAlpha:               positive.Add(negative).RoundBank(2),
		PositiveAlphaEventRate: formatRate(posPct),
		NegativeAlphaEventRate: formatRate(negPct),
		PositiveEventPct:       posPct,
		NegativeEventPct:       negPct,
		RankingMode:            a.mode,
		TopPortfolios:          top,
		BottomPortfolios:       bottom,
		RecordCount:            len(trades),
		Portfolios:             stats,
	}, nil
}

// groupByPortfolio returns one aggregate per portfolio in first-seen order.
func groupByPortfolio(trades []types.AlphaTrade) []*portfolioAgg {
	index := make(map[string]*portfolioAgg)
	var order []*portfolioAgg
	for _, t := range trades {
		agg := index[t.Portfolio]
		if agg == nil {
			agg = &portfolioAgg{
				Portfolio:  t.Portfolio,
				LotSize:    t.LotSize,
				BuyMargin:  decimal.Zero,
				SellMargin: decimal.Zero,
				Alpha:      decimal.Zero,
			}
			index[t.Portfolio] = agg
			order = append(order, agg)
		}
		agg.Trades++
		agg.Alpha = agg.Alpha.Add(t.Alpha)

		notional := t.TradeParity.Mul(decimal.NewFromInt(t.Quantity))
		switch t.OpenClose {
		case types.LegOpen:
			agg.OpenQty += t.Quantity
			agg.BuyMargin = agg.BuyMargin.Add(notional)
		case types.LegClose:
			agg.CloseQty += t.Quantity
			agg.SellMargin = agg.SellMargin.Add(notional)
		}
	}
	return order
}

func portfolioStat(agg *portfolioAgg) types.PortfolioStat {
	st := types.PortfolioStat{
		Portfolio:   agg.Portfolio,
		LotSize:     agg.LotSize,
		Trades:      agg.Trades,
		OpenQty:     agg.OpenQty,
		CloseQty:    agg.CloseQty,
		BuyAvg:      decimal.Zero,
		SellAvg:     decimal.Zero,
		GrossProfit: grossProfit(agg),
		Alpha:       agg.Alpha,
	}
	if agg.OpenQty != 0 {
		st.BuyAvg = agg.BuyMargin.Div(decimal.NewFromInt(agg.OpenQty))
	}
	if agg.CloseQty != 0 {
		st.SellAvg = agg.SellMargin.Div(decimal.NewFromInt(agg.CloseQty))
	}
	if spread, err := instrument.StrikeSpread(agg.Portfolio); err == nil {
		st.StrikeSpread = &spread
	}
	return st
}

// grossProfit is (open_qty*buy_avg + close_qty*sell_avg) * lot_size. Each
// qty*avg product is the leg's margin, or zero when the leg's qty nets to zero.
func grossProfit(agg *portfolioAgg) decimal.Decimal {
	total := decimal.Zero
	if agg.OpenQty != 0 {
		total = total.Add(agg.BuyMargin)
	}
	if agg.CloseQty != 0 {
		total = total.Add(agg.SellMargin)
	}
	return total.Mul(decimal.NewFromInt(agg.LotSize))
}

func eventRate(count, total int) decimal.Decimal {
	return decimal.NewFromInt(int64(count)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).RoundBank(2)
}

func formatRate(pct decimal.Decimal) string {
	return pct.StringFixed(2) + " %"
}
