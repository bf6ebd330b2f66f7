package csv

import (
	"errors"
	"fmt"

	"github.com/shapestone/stream-csv/internal/decode"
	"github.com/shapestone/stream-csv/internal/scanner"
)

// Sentinel errors. All position-carrying errors unwrap to one of
// these, so callers can match with errors.Is.
var (
	// ErrUnterminatedQuote indicates the input ended inside a quoted
	// field.
	ErrUnterminatedQuote = scanner.ErrUnterminatedQuote

	// ErrInvalidEncoding indicates malformed bytes for the detected or
	// configured charset.
	ErrInvalidEncoding = decode.ErrInvalidEncoding

	// ErrFieldCount indicates a record whose field count differs from
	// the first record, under strict field counting.
	ErrFieldCount = errors.New("wrong number of fields")
)

// ParseError is a fatal read failure with the 1-based line number of
// the record that triggered it.
type ParseError struct {
	Line int64
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv: parse error on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldCountError reports a strict field-count mismatch. The record
// that triggered it is never yielded.
type FieldCountError struct {
	// Line is where the offending record started.
	Line int64
	// Expected is the field count of the first data record.
	Expected int
	// Actual is the offending record's field count.
	Actual int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("csv: record on line %d: wrong number of fields (expected %d, got %d)",
		e.Line, e.Expected, e.Actual)
}

// Unwrap returns ErrFieldCount so errors.Is matches.
func (e *FieldCountError) Unwrap() error {
	return ErrFieldCount
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}
