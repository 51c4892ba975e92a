package zerodha

import "strings"

// instrumentIndex keeps the first positive lot size seen per underlying name.
type instrumentIndex struct {
	lots map[string]int64
}

func newInstrumentIndex() *instrumentIndex {
	return &instrumentIndex{lots: make(map[string]int64)}
}

func (ix *instrumentIndex) add(name string, lotSize float64) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" || lotSize <= 0 {
		return
	}
	if _, exists := ix.lots[name]; exists {
		return
	}
	ix.lots[name] = int64(lotSize)
}

func (ix *instrumentIndex) lotSize(tag string) (int64, bool) {
	lot, ok := ix.lots[strings.ToUpper(tag)]
	return lot, ok
}
