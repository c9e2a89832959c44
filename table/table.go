// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package table encodes parsed FUSE tests as data tables.
//
// Every encoder writes one table per input file plus the table's record
// count, and is deterministic: the same tables always encode to the same
// bytes.
package table

import (
	"errors"
	"io"
	"iter"
	"maps"
	"regexp"
	"slices"

	"github.com/ezrec/fusegen/fuse"
	"github.com/ezrec/fusegen/internal"
	"github.com/ezrec/fusegen/translate"
)

var f = translate.From

// Version of the generated table layout.
const Version = 2

var (
	ErrTableName = errors.New(f("table name is not an identifier"))
)

// ErrFormat is returned for an unknown output format.
type ErrFormat string

func (err ErrFormat) Error() string {
	return f("unknown format '%v'", string(err))
}

// Table is a named, ordered collection of tests.
type Table struct {
	Name  string
	Tests []fuse.TestCase
}

// Stats returns the totals of the table.
func (t *Table) Stats() (stats fuse.Stats) {
	for n := range t.Tests {
		stats.Add(&t.Tests[n])
	}
	return
}

// All iterates over the tests of all tables, in order, keyed by table name.
func All(tables ...Table) iter.Seq2[string, fuse.TestCase] {
	seqs := make([]iter.Seq2[string, fuse.TestCase], len(tables))
	for n, t := range tables {
		seqs[n] = internal.IterSeqKeyed(t.Name, slices.Values(t.Tests))
	}
	return internal.IterSeq2Concat(seqs...)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (t *Table) validate() (err error) {
	if !identRe.MatchString(t.Name) {
		err = ErrTableName
	}
	return
}

// Encoder writes tables to an output stream.
type Encoder interface {
	Encode(w io.Writer, tables ...Table) error
}

// Marker is implemented by text encoders that start their output with a
// fixed version line.
type Marker interface {
	Marker() string
}

// DefaultFormat is the format used when none is given.
const DefaultFormat = "c"

var formats = map[string]func() Encoder{
	"c":       func() Encoder { return &CHeader{} },
	"go":      func() Encoder { return &GoSource{} },
	"msgpack": func() Encoder { return &Binary{} },
}

// Lookup returns a new encoder for a format name.
func Lookup(format string) (enc Encoder, err error) {
	if len(format) == 0 {
		format = DefaultFormat
	}

	create, ok := formats[format]
	if !ok {
		err = ErrFormat(format)
		return
	}

	enc = create()
	return
}

// Formats returns the known format names.
func Formats() []string {
	return slices.Sorted(maps.Keys(formats))
}
