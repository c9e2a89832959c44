package fuse

import (
	"bufio"
	"io"
	"strings"
)

// lineReader reads lines with a single line of lookahead.
type lineReader struct {
	scanner *bufio.Scanner
	lineNo  int
	line    string
	pending bool // line is pushed back and will be returned by next()
	err     error
}

func newLineReader(input io.Reader) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(input)}
}

// next returns the next line, or false at end of input or on a read error.
func (lr *lineReader) next() (line string, ok bool) {
	if lr.pending {
		lr.pending = false
		return lr.line, true
	}

	if !lr.scanner.Scan() {
		lr.err = lr.scanner.Err()
		return
	}

	lr.lineNo++
	lr.line = lr.scanner.Text()

	return lr.line, true
}

// unread pushes the last line back.
func (lr *lineReader) unread() {
	lr.pending = true
}

// isContinuation is true for lines that start with a space or a tab.
func isContinuation(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

// tokenize splits a line into whitespace-delimited words.
func tokenize(line string) []string {
	return strings.Fields(line)
}
