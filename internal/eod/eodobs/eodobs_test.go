package eodobs

import (
	"context"
	"errors"
	"testing"

	"post-market-analysis/internal/types"
)

type stubAggregator struct {
	summary *types.DealerSummary
	err     error
	calls   int
}

func (s *stubAggregator) Summarize(ctx context.Context, dealerID string, trades []types.AlphaTrade) (*types.DealerSummary, error) {
	s.calls++
	return s.summary, s.err
}

func TestWrapPassesThrough(t *testing.T) {
	stub := &stubAggregator{summary: &types.DealerSummary{DealerID: "D1"}}
	agg := Wrap(stub)

	got, err := agg.Summarize(context.Background(), "D1", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.DealerID != "D1" {
		t.Errorf("Expected dealer D1, got %s", got.DealerID)
	}
	if stub.calls != 1 {
		t.Errorf("Expected 1 call, got %d", stub.calls)
	}
}

func TestWrapReturnsError(t *testing.T) {
	want := errors.New("boom")
	agg := Wrap(&stubAggregator{err: want})

	got, err := agg.Summarize(context.Background(), "D1", nil)
	if !errors.Is(err, want) {
		t.Errorf("Expected %v, got %v", want, err)
	}
	if got != nil {
		t.Errorf("Expected nil summary, got %+v", got)
	}
}
