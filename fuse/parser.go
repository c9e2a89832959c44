// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package fuse

import (
	"io"
	"iter"
	"log"
	"os"
	"slices"
	"strconv"
)

// Section is the part of a test record being parsed.
type Section int

//go:generate go tool stringer -linecomment -type=Section
const (
	SECTION_DESCRIPTION = Section(0) // description
	SECTION_EVENTS      = Section(1) // events
	SECTION_REGISTERS   = Section(2) // registers
	SECTION_EXTRA       = Section(3) // extra
	SECTION_CHUNKS      = Section(4) // chunks
	SECTION_DONE        = Section(5) // done
)

const (
	eventFields    = 4
	registerFields = len(registerNames)
	extraFields    = 7

	sectionEnd  = "-1" // First token of the line that ends a chunk section.
	byteListEnd = "-1" // Last token of a chunk line.
)

// Parser is a FUSE test file parser.
type Parser struct {
	Verbose bool   // If set, logs each parsed record.
	Name    string // Name of the input, used in errors.
}

// ParseFile parses the FUSE test file at path.
func ParseFile(path string) (tests []TestCase, stats Stats, err error) {
	parser := &Parser{Name: path}
	return parser.ParseFile(path)
}

// ParseFile parses the FUSE test file at path.
func (p *Parser) ParseFile(path string) (tests []TestCase, stats Stats, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return p.Parse(inf)
}

// Parse parses all test records of an input stream, in file order.
// On error, no records are returned.
func (p *Parser) Parse(input io.Reader) (tests []TestCase, stats Stats, err error) {
	for tc, rerr := range p.Records(input) {
		if rerr != nil {
			err = rerr
			return nil, Stats{}, err
		}
		tests = append(tests, tc)
		stats.Add(&tc)
	}

	return
}

// Records returns an iterator over the test records of an input stream.
// A parse error is yielded once, and ends the iteration.
func (p *Parser) Records(input io.Reader) iter.Seq2[TestCase, error] {
	return func(yield func(tc TestCase, err error) bool) {
		lr := newLineReader(input)
		for {
			tc, ok, err := p.parseRecord(lr)
			if err != nil {
				yield(TestCase{}, err)
				return
			}
			if !ok {
				return
			}
			if p.Verbose {
				log.Printf("%v: %v: %d events, %d chunks", lr.lineNo, tc.Description, len(tc.Events), len(tc.Chunks))
			}
			if !yield(tc, nil) {
				return
			}
		}
	}
}

// parseRecord runs the record state machine until a complete record is read.
// ok is false if the input ended before a description line.
func (p *Parser) parseRecord(lr *lineReader) (tc TestCase, ok bool, err error) {
	defer func() {
		if err != nil {
			err = ErrSyntax{Name: p.Name, LineNo: lr.lineNo, Line: lr.line, Err: err}
		}
	}()

	section := SECTION_DESCRIPTION
	for section != SECTION_DONE {
		line, more := lr.next()
		if !more {
			if lr.err != nil {
				err = lr.err
				return
			}
			switch section {
			case SECTION_DESCRIPTION:
				return
			case SECTION_EVENTS:
				err = ErrTruncatedInput{Section: SECTION_REGISTERS}
				return
			case SECTION_CHUNKS:
				section = SECTION_DONE
				continue
			default:
				err = ErrTruncatedInput{Section: section}
				return
			}
		}

		section, err = p.step(&tc, section, line, lr)
		if err != nil {
			return
		}
	}

	ok = true
	return
}

// step consumes one line in the given section, and returns the next section.
func (p *Parser) step(tc *TestCase, section Section, line string, lr *lineReader) (next Section, err error) {
	switch section {
	case SECTION_DESCRIPTION:
		words := tokenize(line)
		if len(words) == 0 {
			// Record separator.
			return SECTION_DESCRIPTION, nil
		}
		tc.Description = words[0]
		return SECTION_EVENTS, nil
	case SECTION_EVENTS:
		if !isContinuation(line) {
			lr.unread()
			return SECTION_REGISTERS, nil
		}
		words := tokenize(line)
		if len(words) != eventFields {
			// Contention events and blank continuation lines carry no data.
			return SECTION_EVENTS, nil
		}
		var event BusEvent
		event, err = parseEvent(words)
		if err != nil {
			return
		}
		tc.Events = append(tc.Events, event)
		return SECTION_EVENTS, nil
	case SECTION_REGISTERS:
		err = parseRegisters(&tc.Registers, tokenize(line))
		return SECTION_EXTRA, err
	case SECTION_EXTRA:
		err = parseExtra(&tc.Extra, tokenize(line))
		return SECTION_CHUNKS, err
	case SECTION_CHUNKS:
		err = parseChunks(tc, lr, tokenize(line))
		return SECTION_DONE, err
	}

	return SECTION_DONE, nil
}

// parseHex parses an unprefixed hexadecimal token, truncated to bits.
func parseHex(field string, token string, bits int) (value uint64, err error) {
	value, err = strconv.ParseUint(token, 16, 64)
	if err != nil {
		err = ErrNumericParse{Field: field, Token: token}
		return
	}

	if bits < 64 {
		value &= (uint64(1) << bits) - 1
	}

	return
}

// parseDecimal parses a decimal token.
func parseDecimal(field string, token string) (value int, err error) {
	value, err = strconv.Atoi(token)
	if err != nil {
		err = ErrNumericParse{Field: field, Token: token}
	}

	return
}

// parseEvent parses the words of a 'tick kind addr data' event line.
func parseEvent(words []string) (event BusEvent, err error) {
	kind, ok := eventMap[words[1]]
	if !ok {
		err = ErrMalformedRecord{Section: SECTION_EVENTS, Err: ErrEventKind}
		return
	}

	tick, err := parseHex("tick", words[0], 63)
	if err != nil {
		return
	}
	addr, err := parseHex("addr", words[2], 16)
	if err != nil {
		return
	}
	data, err := parseHex("data", words[3], 8)
	if err != nil {
		return
	}

	event = BusEvent{
		Tick: int(tick),
		Kind: kind,
		Addr: uint16(addr),
		Data: uint8(data),
	}

	return
}

// parseRegisters maps the words of a register line positionally.
func parseRegisters(regs *Registers, words []string) (err error) {
	if len(words) != registerFields {
		err = ErrMalformedRecord{Section: SECTION_REGISTERS, Want: registerFields, Got: len(words)}
		return
	}

	for n, reg := range regs.fields() {
		var value uint64
		value, err = parseHex(registerNames[n], words[n], 16)
		if err != nil {
			return
		}
		*reg = uint16(value)
	}

	return
}

// parseExtra parses the words of an 'I R IFF1 IFF2 IM HALTED TICKS' line.
func parseExtra(extra *Extra, words []string) (err error) {
	if len(words) != extraFields {
		err = ErrMalformedRecord{Section: SECTION_EXTRA, Want: extraFields, Got: len(words)}
		return
	}

	i, err := parseHex("I", words[0], 8)
	if err != nil {
		return
	}
	r, err := parseHex("R", words[1], 8)
	if err != nil {
		return
	}

	flags := [...]struct {
		name  string
		value *int
	}{
		{"IFF1", &extra.IFF1},
		{"IFF2", &extra.IFF2},
		{"IM", &extra.IM},
		{"HALTED", &extra.Halted},
	}
	for n, flag := range flags {
		*flag.value, err = parseDecimal(flag.name, words[2+n])
		if err != nil {
			return
		}
	}

	ticks, err := parseHex("TICKS", words[6], 63)
	if err != nil {
		return
	}

	extra.I = uint8(i)
	extra.R = uint8(r)
	extra.Ticks = int(ticks)

	return
}

// parseChunks parses the chunk section of a record, given the words of its
// first line. A first line of at most one word is a record separator, and
// the record has no chunks.
func parseChunks(tc *TestCase, lr *lineReader, words []string) (err error) {
	if len(words) <= 1 {
		return
	}

	for len(words) > 0 && words[0] != sectionEnd {
		var chunk MemoryChunk
		chunk, err = parseChunk(words)
		if err != nil {
			return
		}
		tc.Chunks = append(tc.Chunks, chunk)

		line, ok := lr.next()
		if !ok {
			err = lr.err
			return
		}
		words = tokenize(line)
	}

	return
}

// parseChunk parses the words of an 'addr byte... -1' chunk line.
func parseChunk(words []string) (chunk MemoryChunk, err error) {
	end := slices.Index(words, byteListEnd)
	switch {
	case end < 1:
		err = ErrMalformedRecord{Section: SECTION_CHUNKS, Err: ErrChunkTerminator}
		return
	case end != len(words)-1:
		err = ErrMalformedRecord{Section: SECTION_CHUNKS, Err: ErrChunkTrailing}
		return
	}

	addr, err := parseHex("addr", words[0], 16)
	if err != nil {
		return
	}

	chunk.Addr = uint16(addr)
	chunk.Bytes = make([]uint8, 0, end-1)
	for _, word := range words[1:end] {
		var value uint64
		value, err = parseHex("byte", word, 8)
		if err != nil {
			return
		}
		chunk.Bytes = append(chunk.Bytes, uint8(value))
	}

	return
}
