package engine

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"post-market-analysis/internal/eod"
	"post-market-analysis/internal/store"
	"post-market-analysis/internal/tradelog"
	"post-market-analysis/internal/types"
)

var portfolios = []string{
	"BANKNIFTY-45000-45100CE",
	"NIFTY-19500-19600PE",
	"FINNIFTY-20000-20100CE",
	"MIDCPNIFTY-9000-9100PE",
	"SENSEX-65000-65200CE",
}

func tradeLine(portfolio string, trd, qty, was, oc int) string {
	return fmt.Sprintf("09:15:%02d|%s|TRDPARITY:%d|QTY:%d|ParityWas:%d|OpnCls:%d|OrdNumL1:1|OrdNumL2:2|OrdNumL3:3|OrdNumL4:4|M2M:0",
		oc, portfolio, trd, qty, was, oc)
}

// dealerFile builds a valid log over the five test portfolios; seed shifts
// the traded parity so different files give different summaries.
func dealerFile(name string, seed int) types.UploadedFile {
	lines := []string{"Trade log"}
	for i, p := range portfolios {
		lines = append(lines, tradeLine(p, 1000+seed*10+i*50, 2, 900, 1))
		lines = append(lines, tradeLine(p, 950+seed*10, -2, 1000, 2))
	}
	return types.UploadedFile{Name: name, Data: []byte(strings.Join(lines, "\n"))}
}

func testConfig(workers int, policy store.ErrorPolicy) *store.Config {
	cfg := store.DefaultConfig()
	cfg.Workers = workers
	cfg.OnError = policy
	return cfg
}

func newTestEngine(cfg *store.Config) *Engine {
	return newEngine(cfg, cfg.Resolver(), eod.NewAggregator(cfg.RankingMode))
}

func TestProcessFileSummarizes(t *testing.T) {
	e := newTestEngine(testConfig(1, store.OnErrorSkip))

	s, err := e.ProcessFile(context.Background(), 0, dealerFile("ABC_4L_trades.txt", 0))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s.DealerID != "ABC" {
		t.Errorf("Expected dealer ABC, got %s", s.DealerID)
	}
	if s.Filename != "ABC_4L_trades.txt" {
		t.Errorf("Expected filename to be kept, got %s", s.Filename)
	}
	if s.RecordCount != 10 {
		t.Errorf("Expected 10 records, got %d", s.RecordCount)
	}
	if s.SkippedLines != 1 {
		t.Errorf("Expected 1 skipped line, got %d", s.SkippedLines)
	}
	// BANKNIFTY: open (10.00-9.00)*2*15 = 30, close (9.50-10.00)*-2*15 = 15
	if !s.Portfolios[0].Alpha.Equal(decimal.NewFromInt(45)) {
		t.Errorf("Unexpected BANKNIFTY alpha %s", s.Portfolios[0].Alpha)
	}
}

func TestProcessFileExcludesSentinel(t *testing.T) {
	f := dealerFile("D1.txt", 0)
	f.Data = append(f.Data, []byte("\n"+tradeLine(portfolios[0], 1000, 1, 500000, 1))...)

	withFilter, err := newTestEngine(testConfig(1, store.OnErrorSkip)).ProcessFile(context.Background(), 0, f)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if withFilter.ExcludedCount != 1 || withFilter.RecordCount != 10 {
		t.Errorf("Expected 1 excluded and 10 kept, got %d and %d", withFilter.ExcludedCount, withFilter.RecordCount)
	}

	cfg := testConfig(1, store.OnErrorSkip)
	cfg.ExcludedParityAsked = nil
	noFilter, err := newTestEngine(cfg).ProcessFile(context.Background(), 0, f)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if noFilter.ExcludedCount != 0 || noFilter.RecordCount != 11 {
		t.Errorf("Expected 0 excluded and 11 kept, got %d and %d", noFilter.ExcludedCount, noFilter.RecordCount)
	}
}

func TestProcessFileErrorsCarryFileIdentity(t *testing.T) {
	e := newTestEngine(testConfig(1, store.OnErrorSkip))

	_, err := e.ProcessFile(context.Background(), 3, types.UploadedFile{Name: "XYZ_trades.txt", Data: []byte("a|b")})
	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *FileError, got %T", err)
	}
	if fe.Index != 3 || fe.Filename != "XYZ_trades.txt" || fe.DealerID != "XYZ" {
		t.Errorf("Unexpected file identity %+v", fe)
	}
	if fe.Kind != KindSchemaMismatch {
		t.Errorf("Expected kind %s, got %s", KindSchemaMismatch, fe.Kind)
	}
	if !errors.Is(err, tradelog.ErrSchemaMismatch) {
		t.Errorf("Expected error to wrap ErrSchemaMismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "XYZ_trades.txt") {
		t.Errorf("Expected filename in message, got %s", err.Error())
	}
}

func TestProcessFileAllExcludedIsEmpty(t *testing.T) {
	data := tradeLine(portfolios[0], 1000, 1, 500000, 1)
	_, err := newTestEngine(testConfig(1, store.OnErrorSkip)).ProcessFile(context.Background(), 0, types.UploadedFile{Name: "E.txt", Data: []byte(data)})
	if !errors.Is(err, eod.ErrEmptyFile) {
		t.Errorf("Expected ErrEmptyFile, got %v", err)
	}
}

func TestProcessFileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(testConfig(1, store.OnErrorSkip)).ProcessFile(ctx, 0, dealerFile("D.txt", 0))
	if ErrorKind(err) != KindCanceled {
		t.Errorf("Expected kind %s, got %s (%v)", KindCanceled, ErrorKind(err), err)
	}
}

func TestProcessPreservesUploadOrder(t *testing.T) {
	files := make([]types.UploadedFile, 12)
	for i := range files {
		files[i] = dealerFile(fmt.Sprintf("dealer%02d.txt", i), i)
	}

	for _, workers := range []int{1, 3, 8} {
		res, err := newTestEngine(testConfig(workers, store.OnErrorSkip)).Process(context.Background(), files)
		if err != nil {
			t.Fatalf("workers=%d: Expected no error, got %v", workers, err)
		}
		if len(res.Summaries) != len(files) {
			t.Fatalf("workers=%d: Expected %d summaries, got %d", workers, len(files), len(res.Summaries))
		}
		for i, s := range res.Summaries {
			if s.Filename != files[i].Name {
				t.Errorf("workers=%d: Expected %s at %d, got %s", workers, files[i].Name, i, s.Filename)
			}
		}
	}
}

func mixedBatch() []types.UploadedFile {
	return []types.UploadedFile{
		dealerFile("good1.txt", 1),
		{Name: "empty.txt", Data: []byte("header only\n")},
		{Name: "broken.txt", Data: []byte("x|NIFTY-1-2CE|TRDPARITY:1|QTY:one|ParityWas:1|OpnCls:1|a|b|c|d|e")},
		dealerFile("good2.txt", 2),
	}
}

func TestProcessSkipPolicy(t *testing.T) {
	for _, workers := range []int{1, 4} {
		res, err := newTestEngine(testConfig(workers, store.OnErrorSkip)).Process(context.Background(), mixedBatch())
		if err != nil {
			t.Fatalf("workers=%d: Expected no error, got %v", workers, err)
		}
		if len(res.Summaries) != 2 || res.Summaries[0].Filename != "good1.txt" || res.Summaries[1].Filename != "good2.txt" {
			t.Errorf("workers=%d: Unexpected summaries %+v", workers, res.Summaries)
		}
		if len(res.Failures) != 2 {
			t.Fatalf("workers=%d: Expected 2 failures, got %d", workers, len(res.Failures))
		}
		if res.Failures[0].Index != 1 || res.Failures[0].Kind != KindEmptyFile {
			t.Errorf("workers=%d: Unexpected first failure %+v", workers, res.Failures[0])
		}
		if res.Failures[1].Index != 2 || res.Failures[1].Kind != KindMalformedField || res.Failures[1].DealerID != "broken" {
			t.Errorf("workers=%d: Unexpected second failure %+v", workers, res.Failures[1])
		}
	}
}

func TestProcessAbortPolicyReturnsFirstFailure(t *testing.T) {
	for _, workers := range []int{1, 4} {
		res, err := newTestEngine(testConfig(workers, store.OnErrorAbort)).Process(context.Background(), mixedBatch())
		if res != nil {
			t.Errorf("workers=%d: Expected no result, got %+v", workers, res)
		}
		var fe *FileError
		if !errors.As(err, &fe) {
			t.Fatalf("workers=%d: Expected *FileError, got %v", workers, err)
		}
		if fe.Index != 1 || !errors.Is(err, eod.ErrEmptyFile) {
			t.Errorf("workers=%d: Expected empty.txt failure, got %v", workers, err)
		}
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	files := []types.UploadedFile{dealerFile("A.txt", 1), dealerFile("B.txt", 2)}

	for _, ttl := range []int{0, 60} {
		cfg := testConfig(2, store.OnErrorSkip)
		cfg.CacheTTLSeconds = ttl
		e := newTestEngine(cfg)

		first, err := e.Process(context.Background(), files)
		if err != nil {
			t.Fatalf("ttl=%d: Expected no error, got %v", ttl, err)
		}
		first.Summaries[0].DealerID = "mutated"
		first.Summaries[0].Portfolios[0].Portfolio = "mutated"

		second, err := e.Process(context.Background(), files)
		if err != nil {
			t.Fatalf("ttl=%d: Expected no error, got %v", ttl, err)
		}
		third, _ := e.Process(context.Background(), files)
		if !reflect.DeepEqual(second, third) {
			t.Errorf("ttl=%d: Expected identical results on reprocessing", ttl)
		}
		if second.Summaries[0].DealerID != "A" || second.Summaries[0].Portfolios[0].Portfolio != portfolios[0] {
			t.Errorf("ttl=%d: Expected caller mutation not to leak, got %+v", ttl, second.Summaries[0])
		}
	}
}

type countingProcessor struct {
	next  *Engine
	calls atomic.Int32
}

func (c *countingProcessor) ProcessFile(ctx context.Context, index int, file types.UploadedFile) (*types.DealerSummary, error) {
	c.calls.Add(1)
	return c.next.ProcessFile(ctx, index, file)
}

func TestSetFileProcessorRoutesEveryFile(t *testing.T) {
	for _, workers := range []int{1, 4} {
		e := newTestEngine(testConfig(workers, store.OnErrorSkip))
		counter := &countingProcessor{next: e}
		e.SetFileProcessor(counter)

		res, err := e.Process(context.Background(), mixedBatch())
		if err != nil {
			t.Fatalf("workers=%d: Expected no error, got %v", workers, err)
		}
		if got := counter.calls.Load(); got != 4 {
			t.Errorf("workers=%d: Expected 4 routed calls, got %d", workers, got)
		}
		if len(res.Summaries) != 2 || len(res.Failures) != 2 || res.Failures[0].Index != 1 {
			t.Errorf("workers=%d: Unexpected result %+v", workers, res)
		}

		e.SetFileProcessor(nil)
		if _, err := e.Process(context.Background(), mixedBatch()); err != nil {
			t.Fatalf("workers=%d: Expected no error, got %v", workers, err)
		}
		if got := counter.calls.Load(); got != 4 {
			t.Errorf("workers=%d: Expected default routing after reset, got %d calls", workers, got)
		}
	}
}

func TestPackageProcessDefaults(t *testing.T) {
	res, err := Process(context.Background(), []types.UploadedFile{dealerFile("Z_trades.txt", 0)}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(res.Summaries) != 1 || res.Summaries[0].RankingMode != types.RankGrossProfit {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestProcessOrderProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("summaries follow upload order", prop.ForAll(
		func(n, workers int) bool {
			files := make([]types.UploadedFile, n)
			for i := range files {
				files[i] = dealerFile(fmt.Sprintf("f%d.txt", i), i)
			}
			res, err := newTestEngine(testConfig(workers, store.OnErrorSkip)).Process(context.Background(), files)
			if err != nil || len(res.Summaries) != n {
				return false
			}
			for i := range files {
				if res.Summaries[i].Filename != files[i].Name {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 10),
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
