package eod

import (
	"sort"

	"github.com/shopspring/decimal"

	"post-market-analysis/internal/types"
)

func rankingMetric(mode types.RankingMode, st types.PortfolioStat) decimal.Decimal {
	if mode == types.RankSumAlpha {
		return st.Alpha
	}
	return st.GrossProfit
}

// topBottom picks the RankDepth largest and smallest items. Ties keep the
// order items arrive in. Callers guarantee len(items) >= RankDepth.
func topBottom(items []ranked) (top, bottom [types.RankDepth]string) {
	desc := append([]ranked(nil), items...)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Metric.GreaterThan(desc[j].Metric) })

	asc := append([]ranked(nil), items...)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].Metric.LessThan(asc[j].Metric) })

	for i := 0; i < types.RankDepth; i++ {
		top[i] = desc[i].Portfolio
		bottom[i] = asc[i].Portfolio
	}
	return top, bottom
}
