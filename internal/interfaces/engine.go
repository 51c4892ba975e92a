package interfaces

import (
	"context"

	"post-market-analysis/internal/types"
)

type FileProcessor interface {
	// ProcessFile runs the full pipeline for a single file. index is the
	// file's position in the upload and is reported back in errors.
	ProcessFile(ctx context.Context, index int, file types.UploadedFile) (*types.DealerSummary, error)
}

type BatchProcessor interface {
	FileProcessor

	// Process runs every file and returns the summaries in upload order.
	Process(ctx context.Context, files []types.UploadedFile) (*types.BatchResult, error)
}
