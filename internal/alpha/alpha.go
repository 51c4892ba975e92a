package alpha

import (
	"fmt"

	"github.com/shopspring/decimal"

	"post-market-analysis/internal/interfaces"
	"post-market-analysis/internal/types"
)

// Compute returns (trade_parity - parity_asked) * quantity * lot_size with
// no rounding.
func Compute(rec types.TradeRecord, lotSize int64) decimal.Decimal {
	return rec.TradeParity.Sub(rec.ParityAsked).
		Mul(decimal.NewFromInt(rec.Quantity)).
		Mul(decimal.NewFromInt(lotSize))
}

// Annotate resolves the lot size of every record and attaches its alpha.
func Annotate(records []types.TradeRecord, lots interfaces.LotSizeResolver) ([]types.AlphaTrade, error) {
	out := make([]types.AlphaTrade, len(records))
	for i, rec := range records {
		lot, err := lots.Resolve(rec.Portfolio)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.Line, err)
		}
		out[i] = types.AlphaTrade{TradeRecord: rec, LotSize: lot, Alpha: Compute(rec, lot)}
	}
	return out, nil
}
