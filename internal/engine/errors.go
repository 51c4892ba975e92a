package engine

import (
	"context"
	"errors"
	"fmt"

	"post-market-analysis/internal/eod"
	"post-market-analysis/internal/instrument"
	"post-market-analysis/internal/tradelog"
)

// Error kinds reported in FileError and types.FileFailure.
const (
	KindMalformedField                 = "MalformedField"
	KindSchemaMismatch                 = "SchemaMismatch"
	KindUnknownInstrumentFamily        = "UnknownInstrumentFamily"
	KindInsufficientPortfolioDiversity = "InsufficientPortfolioDiversity"
	KindEmptyFile                      = "EmptyFile"
	KindCanceled                       = "Canceled"
	KindInternal                       = "Internal"
)

// FileError ties a per-file failure to the file that caused it.
type FileError struct {
	Index    int
	Filename string
	DealerID string
	Kind     string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file #%d %q (dealer %s): %v", e.Index, e.Filename, e.DealerID, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// ErrorKind classifies err by the failure it wraps.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, tradelog.ErrMalformedField):
		return KindMalformedField
	case errors.Is(err, tradelog.ErrSchemaMismatch):
		return KindSchemaMismatch
	case errors.Is(err, instrument.ErrUnknownInstrumentFamily):
		return KindUnknownInstrumentFamily
	case errors.Is(err, eod.ErrInsufficientPortfolioDiversity):
		return KindInsufficientPortfolioDiversity
	case errors.Is(err, eod.ErrEmptyFile):
		return KindEmptyFile
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
