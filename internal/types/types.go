package types

import "github.com/shopspring/decimal"

// RankDepth is the number of portfolios reported in each of the top and bottom lists.
const RankDepth = 5

type RankingMode string

const (
	RankSumAlpha    RankingMode = "SUM_ALPHA"
	RankGrossProfit RankingMode = "GROSS_PROFIT"
)

// Leg is the OpnCls flag of a trade line.
type Leg int

const (
	LegOpen  Leg = 1
	LegClose Leg = 2
)

// UploadedFile is one dealer log as handed over by the caller.
type UploadedFile struct {
	Name string
	Data []byte
}

// TradeRecord is one parsed line of a dealer trade log.
type TradeRecord struct {
	Line        int             // 1-based line number in the source file
	Timestamp   string          // passed through untouched
	Portfolio   string          // instrument identifier, e.g. "BANKNIFTY-45000-45100CE"
	TradeParity decimal.Decimal // TRDPARITY / 100
	Quantity    int64           // QTY, signed lot count
	ParityAsked decimal.Decimal // ParityWas / 100
	OpenClose   Leg             // OpnCls
}

// AlphaTrade is a TradeRecord annotated with its lot size and alpha.
type AlphaTrade struct {
	TradeRecord
	LotSize int64
	Alpha   decimal.Decimal
}

// PortfolioStat holds the per-portfolio rollup of one dealer file.
type PortfolioStat struct {
	Portfolio    string          `json:"portfolio"`
	LotSize      int64           `json:"lot_size"`
	Trades       int             `json:"trades"`
	OpenQty      int64           `json:"open_qty"`
	CloseQty     int64           `json:"close_qty"`
	BuyAvg       decimal.Decimal `json:"buy_avg"`
	SellAvg      decimal.Decimal `json:"sell_avg"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	Alpha        decimal.Decimal `json:"alpha"`
	StrikeSpread *int64          `json:"strike_spread,omitempty"`
}

// DealerSummary is the immutable result of processing one uploaded file.
type DealerSummary struct {
	DealerID string `json:"dealer_id"`
	Filename string `json:"filename"`

	PositiveAlpha decimal.Decimal `json:"positive_alpha"`
	NegativeAlpha decimal.Decimal `json:"negative_alpha"`
	NetAlpha      decimal.Decimal `json:"net_alpha"`

	PositiveAlphaEventRate string          `json:"positive_alpha_event_rate"`
	NegativeAlphaEventRate string          `json:"negative_alpha_event_rate"`
	PositiveEventPct       decimal.Decimal `json:"positive_event_pct"`
	NegativeEventPct       decimal.Decimal `json:"negative_event_pct"`

	RankingMode      RankingMode       `json:"ranking_mode"`
	TopPortfolios    [RankDepth]string `json:"top_5_portfolios"`
	BottomPortfolios [RankDepth]string `json:"bottom_5_portfolios"`

	RecordCount   int             `json:"record_count"`
	ExcludedCount int             `json:"excluded_count"`
	SkippedLines  int             `json:"skipped_lines"`
	Portfolios    []PortfolioStat `json:"portfolios,omitempty"`
}

// Clone returns a copy that shares no mutable state with s.
func (s *DealerSummary) Clone() *DealerSummary {
	c := *s
	if s.Portfolios != nil {
		c.Portfolios = make([]PortfolioStat, len(s.Portfolios))
		copy(c.Portfolios, s.Portfolios)
	}
	return &c
}

// FileFailure records a file that was skipped by the batch driver.
type FileFailure struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	DealerID string `json:"dealer_id"`
	Kind     string `json:"kind"`
	Error    string `json:"error"`
}

// BatchResult holds the summaries of a batch in upload order, minus skipped files.
type BatchResult struct {
	Summaries []DealerSummary `json:"summaries"`
	Failures  []FileFailure   `json:"failures,omitempty"`
}
