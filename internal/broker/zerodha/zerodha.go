package zerodha

import (
	"context"
	"fmt"
	"strings"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"post-market-analysis/internal/interfaces"
)

// InstrumentClient is the part of the Kite Connect client the loader needs.
type InstrumentClient interface {
	GetInstruments() (kiteconnect.Instruments, error)
}

type Params struct {
	APIKey      string
	AccessToken string
	Exchange    string
}

// LotSizeLoader reads contract multipliers from the Kite instrument master.
type LotSizeLoader struct {
	client   InstrumentClient
	exchange string
}

var _ interfaces.LotSizeSource = (*LotSizeLoader)(nil)

func NewZerodha(p Params) (*LotSizeLoader, error) {
	if p.APIKey == "" || p.AccessToken == "" {
		return nil, fmt.Errorf("kite: api key and access token are required")
	}
	client := kiteconnect.New(p.APIKey)
	client.SetAccessToken(p.AccessToken)
	return newLotSizeLoader(client, p.Exchange), nil
}

// LoadLotSizes returns the lot size of every tag found on the exchange.
// Tags absent from the instrument master are left out of the result.
func (l *LotSizeLoader) LoadLotSizes(ctx context.Context, tags []string) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	instruments, err := l.client.GetInstruments()
	if err != nil {
		return nil, fmt.Errorf("kite: fetch instruments: %w", err)
	}

	idx := newInstrumentIndex()
	for _, inst := range instruments {
		if !strings.EqualFold(inst.Exchange, l.exchange) {
			continue
		}
		idx.add(inst.Name, inst.LotSize)
	}

	out := make(map[string]int64, len(tags))
	for _, tag := range tags {
		if lot, ok := idx.lotSize(tag); ok {
			out[tag] = lot
		}
	}
	return out, nil
}
