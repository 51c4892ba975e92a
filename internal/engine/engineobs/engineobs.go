package engineobs

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"post-market-analysis/internal/engine"
	"post-market-analysis/internal/interfaces"
	"post-market-analysis/internal/logger"
	"post-market-analysis/internal/metrics"
	"post-market-analysis/internal/trace"
	"post-market-analysis/internal/types"
)

type observableEngine struct {
	engine  interfaces.BatchProcessor
	metrics *metrics.Metrics
}

var _ interfaces.BatchProcessor = (*observableEngine)(nil)

type fileRouter interface {
	SetFileProcessor(p interfaces.FileProcessor)
}

// Wrap adds spans, logs and metrics around eng. m may be nil. When eng
// supports it, the per-file calls of its Process go through the wrapper too.
func Wrap(eng interfaces.BatchProcessor, m *metrics.Metrics) interfaces.BatchProcessor {
	oe := &observableEngine{
		engine:  eng,
		metrics: m,
	}
	if r, ok := eng.(fileRouter); ok {
		r.SetFileProcessor(oe)
	}
	return oe
}

func (oe *observableEngine) ProcessFile(ctx context.Context, index int, file types.UploadedFile) (*types.DealerSummary, error) {
	op := logger.StartOperation(ctx, "engine.ProcessFile",
		"index", index,
		"filename", file.Name,
		"bytes", len(file.Data),
	)
	ctx = op.GetContext()

	summary, err := oe.engine.ProcessFile(ctx, index, file)
	if err != nil {
		elapsed := op.EndWithError(err)
		oe.observeFile(elapsed)
		oe.recordFailure(ctx, failureOf(index, file, err))
		return nil, err
	}

	oe.observeFile(op.End("dealer_id", summary.DealerID))
	oe.recordSummary(ctx, summary)
	return summary, nil
}

func (oe *observableEngine) Process(ctx context.Context, files []types.UploadedFile) (*types.BatchResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Process")
	defer span.End()
	span.SetAttributes(attribute.Int("files", len(files)))

	start := time.Now()
	logger.InfoSkip(ctx, 1, "Starting batch",
		"files", len(files),
	)

	result, err := oe.engine.Process(ctx, files)
	if oe.metrics != nil {
		oe.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Batch aborted", err,
			"files", len(files),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	if len(result.Failures) > 0 {
		logger.WarnSkip(ctx, 1, "Batch skipped files",
			"failures", len(result.Failures),
			"first_failure", result.Failures[0].Filename,
		)
	}

	logger.InfoSkip(ctx, 1, "Batch completed",
		"files", len(files),
		"summaries", len(result.Summaries),
		"failures", len(result.Failures),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (oe *observableEngine) observeFile(d time.Duration) {
	if oe.metrics != nil {
		oe.metrics.FileDuration.Observe(d.Seconds())
	}
}

func (oe *observableEngine) recordSummary(ctx context.Context, s *types.DealerSummary) {
	logger.Dealer(ctx, s.DealerID, s.Filename, s.NetAlpha.StringFixed(2),
		"positive_alpha_events", s.PositiveAlphaEventRate,
		"negative_alpha_events", s.NegativeAlphaEventRate,
		"records", s.RecordCount,
		"excluded", s.ExcludedCount,
	)
	if oe.metrics == nil {
		return
	}
	oe.metrics.FilesTotal.WithLabelValues("ok").Inc()
	oe.metrics.RecordsTotal.Add(float64(s.RecordCount))
	oe.metrics.ExcludedRecordsTotal.Add(float64(s.ExcludedCount))
	oe.metrics.SkippedLinesTotal.Add(float64(s.SkippedLines))
	oe.metrics.NetAlpha.WithLabelValues(s.DealerID).Set(s.NetAlpha.InexactFloat64())
}

func (oe *observableEngine) recordFailure(ctx context.Context, f types.FileFailure) {
	logger.FileFailure(ctx, f.Index, f.Filename, f.Kind, errors.New(f.Error),
		"dealer_id", f.DealerID,
	)
	if oe.metrics == nil {
		return
	}
	oe.metrics.FilesTotal.WithLabelValues("failed").Inc()
	oe.metrics.FailuresTotal.WithLabelValues(f.Kind).Inc()
}

func failureOf(index int, file types.UploadedFile, err error) types.FileFailure {
	f := types.FileFailure{Index: index, Filename: file.Name, Kind: engine.ErrorKind(err), Error: err.Error()}
	var fe *engine.FileError
	if errors.As(err, &fe) {
		f.DealerID = fe.DealerID
		f.Kind = fe.Kind
		f.Error = fe.Err.Error()
	}
	return f
}
