package eod

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFile                      = errors.New("empty file")
	ErrInsufficientPortfolioDiversity = errors.New("insufficient portfolio diversity")
)

// EmptyFileError is returned when a file has no trade records left to summarize.
type EmptyFileError struct {
	DealerID string
}

func (e *EmptyFileError) Error() string {
	return fmt.Sprintf("dealer %s: no valid trade records", e.DealerID)
}

func (e *EmptyFileError) Is(target error) bool { return target == ErrEmptyFile }

// InsufficientPortfolioDiversityError is returned when a file has fewer
// distinct portfolios than the top/bottom lists need.
type InsufficientPortfolioDiversityError struct {
	DealerID string
	Distinct int
	Required int
}

func (e *InsufficientPortfolioDiversityError) Error() string {
	return fmt.Sprintf("dealer %s: %d distinct portfolios, need at least %d for ranking", e.DealerID, e.Distinct, e.Required)
}

func (e *InsufficientPortfolioDiversityError) Is(target error) bool {
	return target == ErrInsufficientPortfolioDiversity
}
