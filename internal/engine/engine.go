package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"post-market-analysis/internal/alpha"
	"post-market-analysis/internal/eod"
	"post-market-analysis/internal/interfaces"
	"post-market-analysis/internal/logger"
	"post-market-analysis/internal/store"
	"post-market-analysis/internal/tradelog"
	"post-market-analysis/internal/types"
)

type Engine struct {
	lots       interfaces.LotSizeResolver
	aggregator interfaces.Aggregator
	noise      []string
	sentinel   decimal.Decimal
	filter     bool
	workers    int
	policy     store.ErrorPolicy
	cache      *gocache.Cache // nil when cache_ttl_seconds is 0
	fileProc   interfaces.FileProcessor
}

var _ interfaces.BatchProcessor = (*Engine)(nil)

func newEngine(cfg *store.Config, lots interfaces.LotSizeResolver, agg interfaces.Aggregator) *Engine {
	e := &Engine{
		lots:       lots,
		aggregator: agg,
		noise:      append([]string(nil), cfg.NoiseTokens...),
		workers:    cfg.Workers,
		policy:     cfg.OnError,
	}
	e.fileProc = e
	e.sentinel, e.filter = cfg.ExcludedParity()
	if e.workers < 1 {
		e.workers = 1
	}
	if ttl := cfg.CacheTTL(); ttl > 0 {
		e.cache = gocache.New(ttl, 2*ttl)
	}
	return e
}

// Process runs a batch with a one-off engine built from cfg. A nil cfg
// means DefaultConfig.
func Process(ctx context.Context, files []types.UploadedFile, cfg *store.Config) (*types.BatchResult, error) {
	if cfg == nil {
		cfg = store.DefaultConfig()
	}
	return newEngine(cfg, cfg.Resolver(), eod.NewAggregator(cfg.RankingMode)).Process(ctx, files)
}

// SetFileProcessor routes the per-file calls of Process through p, which
// must end in this engine's ProcessFile. A nil p restores the default.
func (e *Engine) SetFileProcessor(p interfaces.FileProcessor) {
	if p == nil {
		p = e
	}
	e.fileProc = p
}

// ProcessFile parses, filters, annotates and summarizes one file. Every
// error it returns is a *FileError.
func (e *Engine) ProcessFile(ctx context.Context, index int, file types.UploadedFile) (*types.DealerSummary, error) {
	dealerID := eod.DealerID(file.Name, e.noise)
	fail := func(err error) (*types.DealerSummary, error) {
		return nil, &FileError{Index: index, Filename: file.Name, DealerID: dealerID, Kind: ErrorKind(err), Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	key := cacheKey(file)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			logger.Debug(ctx, "Summary served from cache", "filename", file.Name, "dealer_id", dealerID)
			return cached.(*types.DealerSummary).Clone(), nil
		}
	}

	parsed, err := tradelog.Parse(file.Data)
	if err != nil {
		return fail(err)
	}

	records := parsed.Records
	excluded := 0
	if e.filter {
		records, excluded = tradelog.ExcludeParityAsked(records, e.sentinel)
	}

	trades, err := alpha.Annotate(records, e.lots)
	if err != nil {
		return fail(err)
	}

	summary, err := e.aggregator.Summarize(ctx, dealerID, trades)
	if err != nil {
		return fail(err)
	}
	summary.Filename = file.Name
	summary.ExcludedCount = excluded
	summary.SkippedLines = parsed.SkippedLines

	if e.cache != nil {
		e.cache.SetDefault(key, summary.Clone())
	}
	return summary, nil
}

type outcome struct {
	summary *types.DealerSummary
	err     error
}

// Process runs every file and returns the summaries in upload order. With
// on_error SKIP failures are collected; with ABORT the failure of the
// lowest-index failing file is returned.
func (e *Engine) Process(ctx context.Context, files []types.UploadedFile) (*types.BatchResult, error) {
	results := make([]outcome, len(files))

	if e.workers == 1 || len(files) < 2 {
		for i, f := range files {
			s, err := e.fileProc.ProcessFile(ctx, i, f)
			results[i] = outcome{summary: s, err: err}
			if err != nil && e.policy == store.OnErrorAbort {
				return nil, err
			}
		}
	} else if err := e.processParallel(ctx, files, results); err != nil {
		return nil, err
	}

	res := &types.BatchResult{Summaries: make([]types.DealerSummary, 0, len(files))}
	for i, r := range results {
		if r.err == nil {
			res.Summaries = append(res.Summaries, *r.summary)
			continue
		}
		if e.policy == store.OnErrorAbort {
			return nil, r.err
		}
		res.Failures = append(res.Failures, failure(i, files[i], r.err, e.noise))
	}
	return res, nil
}

// processParallel fans the files out over an ants pool. Each task writes
// only its own slot of results.
func (e *Engine) processParallel(ctx context.Context, files []types.UploadedFile, results []outcome) error {
	size := e.workers
	if size > len(files) {
		size = len(files)
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, f := range files {
		i, f := i, f
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			s, err := e.fileProc.ProcessFile(ctx, i, f)
			results[i] = outcome{summary: s, err: err}
		})
		if submitErr != nil {
			wg.Done()
			results[i] = outcome{err: &FileError{
				Index:    i,
				Filename: f.Name,
				DealerID: eod.DealerID(f.Name, e.noise),
				Kind:     KindInternal,
				Err:      submitErr,
			}}
		}
	}
	wg.Wait()
	return nil
}

func failure(index int, file types.UploadedFile, err error, noise []string) types.FileFailure {
	ff := types.FileFailure{
		Index:    index,
		Filename: file.Name,
		DealerID: eod.DealerID(file.Name, noise),
		Kind:     ErrorKind(err),
		Error:    err.Error(),
	}
	if fe, ok := err.(*FileError); ok {
		ff.Kind = fe.Kind
		ff.Error = fe.Err.Error()
	}
	return ff
}

func cacheKey(file types.UploadedFile) string {
	h := sha256.New()
	h.Write([]byte(file.Name))
	h.Write([]byte{0})
	h.Write(file.Data)
	return hex.EncodeToString(h.Sum(nil))
}
