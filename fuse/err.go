package fuse

import (
	"errors"

	"github.com/ezrec/fusegen/translate"
)

var f = translate.From

var (
	// Record shape errors
	ErrEventKind       = errors.New(f("unknown event kind"))
	ErrChunkTerminator = errors.New(f("chunk bytes not terminated by -1"))
	ErrChunkTrailing   = errors.New(f("tokens after chunk terminator"))
)

// ErrTruncatedInput is returned when input ends inside a record.
type ErrTruncatedInput struct {
	Section Section // Section that was expected next.
}

func (err ErrTruncatedInput) Error() string {
	return f("unexpected end of input, expected %v", err.Section)
}

// ErrMalformedRecord is returned when a line does not have the shape its
// section requires.
type ErrMalformedRecord struct {
	Section Section
	Want    int   // Required number of fields.
	Got     int   // Number of fields found.
	Err     error // Set for errors other than a field count mismatch.
}

func (err ErrMalformedRecord) Error() string {
	if err.Err != nil {
		return f("%v: %v", err.Section, err.Err)
	}
	return f("%v: want %d fields, got %d", err.Section, err.Want, err.Got)
}

func (err ErrMalformedRecord) Unwrap() error {
	return err.Err
}

// ErrNumericParse is returned when a token is not a valid number.
type ErrNumericParse struct {
	Field string
	Token string
}

func (err ErrNumericParse) Error() string {
	return f("%v: '%v' is not a number", err.Field, err.Token)
}

// ErrSyntax locates an error in the input.
type ErrSyntax struct {
	Name   string // Name of the input, if known.
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	if len(err.Name) != 0 {
		return f("%v:%d '%v' %v", err.Name, err.LineNo, err.Line, err.Err)
	}
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
