package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"post-market-analysis/internal/broker/zerodha"
	"post-market-analysis/internal/engine"
	"post-market-analysis/internal/engine/engineobs"
	"post-market-analysis/internal/eod"
	"post-market-analysis/internal/eod/eodobs"
	"post-market-analysis/internal/instrument"
	"post-market-analysis/internal/interfaces"
	"post-market-analysis/internal/logger"
	"post-market-analysis/internal/metrics"
	"post-market-analysis/internal/store"
	"post-market-analysis/internal/trace"
	"post-market-analysis/internal/types"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig loads the config file, or the built-in defaults when path is empty
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	if path == "" {
		logger.Debug(ctx, "No config file given, using defaults")
		return store.DefaultConfig(), nil
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides config values with flags the user set explicitly
func applyFlags(cmd *cobra.Command, f *flags, cfg *store.Config) error {
	fl := cmd.Flags()
	if fl.Changed("format") {
		cfg.Report.Format = strings.ToLower(f.format)
	}
	if fl.Changed("output") {
		cfg.Report.Output = f.output
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("on-error") {
		cfg.OnError = store.ErrorPolicy(strings.ToUpper(f.onError))
	}
	if fl.Changed("no-color") {
		cfg.Report.Color = !f.noColor
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// initializeResolver builds the lot-size resolver, refreshing lot sizes from
// Kite when configured. A Kite failure keeps the configured table.
func initializeResolver(ctx context.Context, cfg *store.Config) *instrument.Resolver {
	resolver := cfg.Resolver()
	if cfg.LotSizeSource != store.LotSizeSourceKite {
		return resolver
	}

	loader, err := zerodha.NewZerodha(zerodha.Params{
		APIKey:      os.Getenv("KITE_API_KEY"),
		AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		Exchange:    cfg.Kite.Exchange,
	})
	if err != nil {
		logger.Warn(ctx, "Kite lot sizes unavailable, using configured table", "error", err)
		return resolver
	}
	return refreshLotSizes(ctx, resolver, loader)
}

func refreshLotSizes(ctx context.Context, resolver *instrument.Resolver, src interfaces.LotSizeSource) *instrument.Resolver {
	sizes, err := src.LoadLotSizes(ctx, resolver.Tags())
	if err != nil {
		logger.Warn(ctx, "Kite lot sizes unavailable, using configured table", "error", err)
		return resolver
	}
	logger.Info(ctx, "Lot sizes loaded from instrument master", "tags", len(sizes))
	return resolver.WithLotSizes(sizes)
}

// initializeEngine wires the aggregator and batch driver with observability
func initializeEngine(cfg *store.Config, lots interfaces.LotSizeResolver, m *metrics.Metrics) interfaces.BatchProcessor {
	agg := eodobs.Wrap(eod.NewAggregator(cfg.RankingMode))
	return engineobs.Wrap(engine.New(cfg, lots, agg), m)
}

// readFiles loads every path, expanding directories one level deep in name order
func readFiles(paths []string) ([]types.UploadedFile, error) {
	var files []types.UploadedFile
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			f, err := readFile(p)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			f, err := readFile(filepath.Join(p, e.Name()))
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func readFile(path string) (types.UploadedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.UploadedFile{}, err
	}
	return types.UploadedFile{Name: filepath.Base(path), Data: data}, nil
}

func dumpMetrics(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
