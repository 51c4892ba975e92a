package tradelog

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedField = errors.New("malformed field")
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// MalformedFieldError reports a scalar field that lacks its "<Column>:"
// prefix or whose value is not an integer.
type MalformedFieldError struct {
	Line   int
	Column string
	Value  string
	Reason string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("line %d: malformed %s field %q: %s", e.Line, e.Column, e.Value, e.Reason)
}

func (e *MalformedFieldError) Is(target error) bool { return target == ErrMalformedField }

// SchemaMismatchError reports a pipe-delimited line with the wrong field count.
type SchemaMismatchError struct {
	Line   int
	Fields int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("line %d: expected %d fields, got %d", e.Line, FieldCount, e.Fields)
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }
