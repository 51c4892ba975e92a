package eod

import (
	"github.com/shopspring/decimal"

	"post-market-analysis/internal/types"
)

// portfolioAgg accumulates the legs of one portfolio.
type portfolioAgg struct {
	Portfolio  string
	LotSize    int64
	Trades     int
	OpenQty    int64           // sum of QTY over open legs
	CloseQty   int64           // sum of QTY over close legs
	BuyMargin  decimal.Decimal // sum of parity * qty over open legs
	SellMargin decimal.Decimal // sum of parity * qty over close legs
	Alpha      decimal.Decimal
}

// ranked pairs a portfolio with the metric it is ranked on.
type ranked struct {
	Portfolio string
	Metric    decimal.Decimal
}

type aggregator struct {
	mode types.RankingMode
}
