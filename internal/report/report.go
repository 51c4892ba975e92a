package report

import (
	"post-market-analysis/internal/types"
)

// Row is one dealer of the flat report, in output column order.
type Row struct {
	DealerID            string `csv:"dealer_id" json:"dealer_id"`
	PositiveAlphaEvents string `csv:"positive_alpha_events" json:"positive_alpha_events"`
	NegativeAlphaEvents string `csv:"negative_alpha_events" json:"negative_alpha_events"`
	PositiveAlpha       string `csv:"positive_alpha" json:"positive_alpha"`
	NegativeAlpha       string `csv:"negative_alpha" json:"negative_alpha"`
	NetAlpha            string `csv:"net_alpha" json:"net_alpha"`
	T1                  string `csv:"t1" json:"t1"`
	T2                  string `csv:"t2" json:"t2"`
	T3                  string `csv:"t3" json:"t3"`
	T4                  string `csv:"t4" json:"t4"`
	T5                  string `csv:"t5" json:"t5"`
	B1                  string `csv:"b1" json:"b1"`
	B2                  string `csv:"b2" json:"b2"`
	B3                  string `csv:"b3" json:"b3"`
	B4                  string `csv:"b4" json:"b4"`
	B5                  string `csv:"b5" json:"b5"`
}

// Columns lists the report header in output order.
var Columns = []string{
	"dealer_id", "positive_alpha_events", "negative_alpha_events",
	"positive_alpha", "negative_alpha", "net_alpha",
	"t1", "t2", "t3", "t4", "t5",
	"b1", "b2", "b3", "b4", "b5",
}

func (r Row) values() []string {
	return []string{
		r.DealerID, r.PositiveAlphaEvents, r.NegativeAlphaEvents,
		r.PositiveAlpha, r.NegativeAlpha, r.NetAlpha,
		r.T1, r.T2, r.T3, r.T4, r.T5,
		r.B1, r.B2, r.B3, r.B4, r.B5,
	}
}

// Table is the assembled report: one row per dealer in upload order.
type Table struct {
	Rows     []Row                 `json:"rows"`
	Failures []types.FileFailure   `json:"failures,omitempty"`
	Details  []types.DealerSummary `json:"details,omitempty"`
}

// Assemble flattens the summaries of a batch. It never reorders rows.
func Assemble(result *types.BatchResult) *Table {
	t := &Table{Rows: make([]Row, 0)}
	if result == nil {
		return t
	}
	for _, s := range result.Summaries {
		t.Rows = append(t.Rows, FromSummary(s))
	}
	t.Failures = append(t.Failures, result.Failures...)
	t.Details = append(t.Details, result.Summaries...)
	return t
}

func FromSummary(s types.DealerSummary) Row {
	return Row{
		DealerID:            s.DealerID,
		PositiveAlphaEvents: s.PositiveAlphaEventRate,
		NegativeAlphaEvents: s.NegativeAlphaEventRate,
		PositiveAlpha:       s.PositiveAlpha.StringFixed(2),
		NegativeAlpha:       s.NegativeAlpha.StringFixed(2),
		NetAlpha:            s.NetAlpha.StringFixed(2),
		T1:                  s.TopPortfolios[0],
		T2:                  s.TopPortfolios[1],
		T3:                  s.TopPortfolios[2],
		T4:                  s.TopPortfolios[3],
		T5:                  s.TopPortfolios[4],
		B1:                  s.BottomPortfolios[0],
		B2:                  s.BottomPortfolios[1],
		B3:                  s.BottomPortfolios[2],
		B4:                  s.BottomPortfolios[3],
		B5:                  s.BottomPortfolios[4],
	}
}
