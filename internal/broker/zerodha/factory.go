package zerodha

import "strings"

func newLotSizeLoader(client InstrumentClient, exchange string) *LotSizeLoader {
	if exchange == "" {
		exchange = "NFO"
	}
	return &LotSizeLoader{
		client:   client,
		exchange: strings.ToUpper(exchange),
	}
}
