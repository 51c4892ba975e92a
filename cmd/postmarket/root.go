package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"post-market-analysis/internal/logger"
	"post-market-analysis/internal/metrics"
	"post-market-analysis/internal/report"
	"post-market-analysis/internal/trace"
)

type flags struct {
	config  string
	format  string
	output  string
	workers int
	onError string
	noColor bool
	metrics bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "postmarket [flags] <trade-log>...",
		Short: "Per-dealer alpha report from end-of-day trade logs",
		Long: `postmarket reads one or more pipe-delimited dealer trade logs, computes the
alpha of every trade against its quoted price, and prints one row per dealer
with totals, event rates and the top/bottom five portfolios.

Directories are expanded to the regular files they contain. The report goes
to stdout (or --output); logs and traces go to stderr.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}

	cmd.Flags().StringVarP(&f.config, "config", "c", "", "YAML config file (default: built-in gross-profit settings)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "report format: csv, json or text")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "files processed in parallel")
	cmd.Flags().StringVar(&f.onError, "on-error", "", "SKIP or ABORT when a file fails")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colored text output")
	cmd.Flags().BoolVar(&f.metrics, "metrics", false, "print Prometheus metrics to stderr after the run")

	return cmd
}

func run(cmd *cobra.Command, f *flags, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, f.config)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, f, cfg); err != nil {
		return err
	}

	files, err := readFiles(args)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	resolver := initializeResolver(ctx, cfg)
	eng := initializeEngine(cfg, resolver, m)

	result, err := eng.Process(ctx, files)
	if err != nil {
		return err
	}

	table := report.Assemble(result)
	format := report.Format(cfg.Report.Format)
	opts := report.Options{Color: cfg.Report.Color}
	if cfg.Report.Output != "" {
		if err := report.Save(cfg.Report.Output, table, format, opts); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info(ctx, "Report written", "path", cfg.Report.Output, "rows", len(table.Rows))
	} else if err := report.Write(cmd.OutOrStdout(), table, format, opts); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if f.metrics {
		if err := dumpMetrics(reg, cmd.ErrOrStderr()); err != nil {
			logger.Warn(ctx, "Failed to write metrics", "error", err)
		}
	}
	return nil
}

func shutdown() {
	ctx := context.Background()
	if err := trace.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shut down tracer: %v\n", err)
	}
	_ = logger.Close()
}
