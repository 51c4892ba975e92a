package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"post-market-analysis/internal/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	if c.RankingMode != types.RankGrossProfit {
		t.Errorf("Expected GROSS_PROFIT, got %s", c.RankingMode)
	}
	sentinel, ok := c.ExcludedParity()
	if !ok || sentinel.IntPart() != 5000 {
		t.Errorf("Expected sentinel 5000, got %s (enabled=%v)", sentinel, ok)
	}
	lot, err := c.Resolver().Resolve("SOMETHING-ELSE")
	if err != nil || lot != 1 {
		t.Errorf("Expected default lot size 1, got %d (%v)", lot, err)
	}
}

func TestParseConfigKeepsDefaultsForAbsentKeys(t *testing.T) {
	c, err := ParseConfig([]byte("ranking_mode: sum_alpha\nlot_sizes:\n  NIFTY: 50\n"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if c.RankingMode != types.RankSumAlpha {
		t.Errorf("Expected SUM_ALPHA, got %s", c.RankingMode)
	}
	if c.LotSizes["NIFTY"] != 50 {
		t.Errorf("Expected NIFTY override 50, got %d", c.LotSizes["NIFTY"])
	}
	if c.LotSizes["BANKNIFTY"] != 15 {
		t.Errorf("Expected BANKNIFTY default 15 to survive, got %d", c.LotSizes["BANKNIFTY"])
	}
	if c.Workers != 1 || c.OnError != OnErrorSkip {
		t.Errorf("Expected workers=1 on_error=SKIP, got %d %s", c.Workers, c.OnError)
	}
}

func TestParseConfigNullClearsOptionalValues(t *testing.T) {
	c, err := ParseConfig([]byte("excluded_parity_asked: null\ndefault_lot_size: null\n"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := c.ExcludedParity(); ok {
		t.Error("Expected sentinel filter to be disabled")
	}
	if _, err := c.Resolver().Resolve("SENSEX-1-2CE"); err == nil {
		t.Error("Expected unknown family error without a default lot size")
	}
}

func TestParseConfigZeroDefaultDisablesFallback(t *testing.T) {
	c, err := ParseConfig([]byte("default_lot_size: 0\n"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := c.Resolver().Resolve("SENSEX-1-2CE"); err == nil {
		t.Error("Expected unknown family error with default_lot_size 0")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"ranking mode", "ranking_mode: BEST\n", "ranking_mode"},
		{"workers", "workers: 0\n", "workers"},
		{"policy", "on_error: RETRY\n", "on_error"},
		{"lot size", "lot_sizes:\n  NIFTY: 0\n", "lot_sizes.NIFTY"},
		{"format", "report:\n  format: xml\n", "report.format"},
		{"source", "lot_size_source: FILE\n", "lot_size_source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadShippedPresets(t *testing.T) {
	dir := filepath.Join("..", "..", "configs")

	gp, err := LoadConfig(filepath.Join(dir, "gross_profit.yaml"))
	if err != nil {
		t.Fatalf("Expected gross_profit.yaml to load, got %v", err)
	}
	if gp.RankingMode != types.RankGrossProfit || gp.LotSizes["MIDCPNIFTY"] != 50 {
		t.Errorf("Unexpected gross_profit preset: %+v", gp)
	}

	sa, err := LoadConfig(filepath.Join(dir, "sum_alpha.yaml"))
	if err != nil {
		t.Fatalf("Expected sum_alpha.yaml to load, got %v", err)
	}
	if sa.RankingMode != types.RankSumAlpha {
		t.Errorf("Expected SUM_ALPHA, got %s", sa.RankingMode)
	}
	if _, ok := sa.ExcludedParity(); ok {
		t.Error("Expected sum_alpha preset to disable the sentinel filter")
	}
	lot, err := sa.Resolver().Resolve("SENSEX-1-2CE")
	if err != nil || lot != 40 {
		t.Errorf("Expected default lot 40, got %d (%v)", lot, err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}
