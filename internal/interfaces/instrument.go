package interfaces

import "context"

type LotSizeResolver interface {
	Resolve(portfolio string) (int64, error)
}

// LotSizeSource supplies lot sizes per instrument family tag from an
// external instrument master.
type LotSizeSource interface {
	LoadLotSizes(ctx context.Context, tags []string) (map[string]int64, error)
}
