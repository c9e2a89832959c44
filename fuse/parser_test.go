package fuse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseLines(t *testing.T, lines ...string) (tests []TestCase, stats Stats, err error) {
	t.Helper()
	parser := &Parser{}
	return parser.Parse(strings.NewReader(strings.Join(lines, "\n")))
}

func TestParser_Empty(t *testing.T) {
	assert := assert.New(t)

	tests, stats, err := parseLines(t, "")
	assert.NoError(err)
	assert.Equal(0, len(tests))
	assert.Equal(Stats{}, stats)

	tests, _, err = parseLines(t, "", "   ", "")
	assert.NoError(err)
	assert.Equal(0, len(tests))
}

func TestParser_EndToEnd(t *testing.T) {
	assert := assert.New(t)

	tests, stats, err := parseLines(t,
		"desc1",
		" 0 MR 1234 56",
		" 1 MW 1235 78",
		"0001 0002 0003 0004 0005 0006 0007 0008 0009 000a 000b 000c",
		"00 00 0 0 0 0 10",
		"8000 aa bb -1",
		"-1",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []TestCase{
		{
			Description: "desc1",
			Events: []BusEvent{
				{Tick: 0, Kind: EVENT_MR, Addr: 0x1234, Data: 0x56},
				{Tick: 1, Kind: EVENT_MW, Addr: 0x1235, Data: 0x78},
			},
			Registers: Registers{
				AF: 1, BC: 2, DE: 3, HL: 4,
				AF2: 5, BC2: 6, DE2: 7, HL2: 8,
				IX: 9, IY: 10, SP: 11, PC: 12,
			},
			Extra: Extra{I: 0, R: 0, IFF1: 0, IFF2: 0, IM: 0, Halted: 0, Ticks: 16},
			Chunks: []MemoryChunk{
				{Addr: 0x8000, Bytes: []uint8{0xaa, 0xbb}},
			},
		},
	}
	assert.Equal(expected, tests)
	assert.Equal(Stats{Records: 1, Events: 2, Chunks: 1, Bytes: 2}, stats)
}

func TestParser_RegistersPositional(t *testing.T) {
	assert := assert.New(t)

	tests, _, err := parseLines(t,
		"regs",
		"af01 bc02 de03 ef04 af05 bc06 de07 ef08 1109 120a 5b0b 0c0c",
		"3f 7e 1 1 2 1 1f",
	)
	assert.NoError(err)
	if len(tests) != 1 {
		t.Fatalf("expected 1 test, got %d", len(tests))
	}

	regs := tests[0].Registers
	assert.Equal(Registers{
		AF: 0xaf01, BC: 0xbc02, DE: 0xde03, HL: 0xef04,
		AF2: 0xaf05, BC2: 0xbc06, DE2: 0xde07, HL2: 0xef08,
		IX: 0x1109, IY: 0x120a, SP: 0x5b0b, PC: 0x0c0c,
	}, regs)

	var names []string
	var values []uint16
	for name, value := range regs.All() {
		names = append(names, name)
		values = append(values, value)
	}
	assert.Equal([]string{"AF", "BC", "DE", "HL", "AF'", "BC'", "DE'", "HL'", "IX", "IY", "SP", "PC"}, names)
	assert.Equal(uint16(0xaf01), values[0])
	assert.Equal(uint16(0x0c0c), values[11])

	assert.Equal(Extra{I: 0x3f, R: 0x7e, IFF1: 1, IFF2: 1, IM: 2, Halted: 1, Ticks: 0x1f}, tests[0].Extra)
	assert.Nil(tests[0].Events)
	assert.Nil(tests[0].Chunks)
}

func TestParser_NoEvents(t *testing.T) {
	assert := assert.New(t)

	// The line after the description is the register line, not skipped.
	tests, _, err := parseLines(t,
		"00",
		"0001 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 1",
	)
	assert.NoError(err)
	if len(tests) != 1 {
		t.Fatalf("expected 1 test, got %d", len(tests))
	}
	assert.Equal(0, len(tests[0].Events))
	assert.Equal(uint16(1), tests[0].Registers.AF)
}

func TestParser_EventLines(t *testing.T) {
	assert := assert.New(t)

	tests, stats, err := parseLines(t,
		"ed57",
		"    0 MC 0000",
		"    4 MR 0000 ed",
		"",
		"\t5 PR 00fe ff",
		"   ",
		"    8 PW 12fe 1ff",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 9",
	)
	assert.Error(err, "an empty line after events is a bad register line")
	assert.Nil(tests)
	assert.Equal(Stats{}, stats)

	tests, stats, err = parseLines(t,
		"ed57",
		"    0 MC 0000",
		"    4 MR 0000 ed",
		"\t5 PR 00fe ff",
		"   ",
		"    8 PW 12fe 1ff",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 9",
	)
	assert.NoError(err)
	if len(tests) != 1 {
		t.Fatalf("expected 1 test, got %d", len(tests))
	}
	assert.Equal([]BusEvent{
		{Tick: 4, Kind: EVENT_MR, Addr: 0x0000, Data: 0xed},
		{Tick: 5, Kind: EVENT_PR, Addr: 0x00fe, Data: 0xff},
		{Tick: 8, Kind: EVENT_PW, Addr: 0x12fe, Data: 0xff},
	}, tests[0].Events)
	assert.Equal(3, stats.Events)
}

func TestParser_ChunkBytes(t *testing.T) {
	assert := assert.New(t)

	tests, stats, err := parseLines(t,
		"chunk",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 1",
		"8000 01 02 03 -1",
		"9000 -1",
		"a000 123 -1",
		"-1",
	)
	assert.NoError(err)
	if len(tests) != 1 {
		t.Fatalf("expected 1 test, got %d", len(tests))
	}
	assert.Equal([]MemoryChunk{
		{Addr: 0x8000, Bytes: []uint8{0x01, 0x02, 0x03}},
		{Addr: 0x9000, Bytes: []uint8{}},
		{Addr: 0xa000, Bytes: []uint8{0x23}},
	}, tests[0].Chunks)
	assert.Equal(Stats{Records: 1, Chunks: 3, Bytes: 4}, stats)
}

func TestParser_SectionTerminator(t *testing.T) {
	assert := assert.New(t)

	// A lone -1 ends the chunk section without producing a chunk.
	tests, _, err := parseLines(t,
		"t0",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 1",
		"8000 aa -1",
		"-1",
		"",
		"t1",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 1",
		"-1",
		"",
		"t2",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 1",
		"9000 bb -1",
		"",
	)
	assert.NoError(err)
	if len(tests) != 3 {
		t.Fatalf("expected 3 tests, got %d", len(tests))
	}
	assert.Equal([]MemoryChunk{{Addr: 0x8000, Bytes: []uint8{0xaa}}}, tests[0].Chunks)
	assert.Equal(0, len(tests[1].Chunks))
	assert.Equal([]MemoryChunk{{Addr: 0x9000, Bytes: []uint8{0xbb}}}, tests[2].Chunks)
	assert.Equal([]string{"t0", "t1", "t2"}, []string{tests[0].Description, tests[1].Description, tests[2].Description})
}

func TestParser_FuseFiles(t *testing.T) {
	assert := assert.New(t)

	// Excerpt of the FUSE tests.in layout.
	input := []string{
		"00",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 1",
		"0000 00 -1",
		"-1",
		"",
		"01",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 10",
		"0000 01 12 34 -1",
		"-1",
		"",
	}

	// Excerpt of the FUSE tests.expected layout.
	expected := []string{
		"00",
		"    0 MC 0000",
		"    0 MR 0000 00",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0001",
		"00 01 0 0 0 0 4",
		"",
		"01",
		"    0 MC 0000",
		"    0 MR 0000 01",
		"    4 MC 0001",
		"    4 MR 0001 12",
		"    7 MC 0002",
		"    7 MR 0002 34",
		"0000 3412 0000 0000 0000 0000 0000 0000 0000 0000 0000 0003",
		"00 01 0 0 0 0 a",
		"",
	}

	inTests, inStats, err := parseLines(t, input...)
	assert.NoError(err)
	assert.Equal(Stats{Records: 2, Chunks: 2, Bytes: 4}, inStats)

	expTests, expStats, err := parseLines(t, expected...)
	assert.NoError(err)
	assert.Equal(Stats{Records: 2, Events: 4}, expStats)

	if len(inTests) == 2 && len(expTests) == 2 {
		assert.Equal(inTests[1].Description, expTests[1].Description)
		assert.Equal(uint16(0x3412), expTests[1].Registers.BC)
		assert.Equal(10, expTests[1].Extra.Ticks)
		assert.Equal(16, inTests[1].Extra.Ticks)
	}
}

func TestParser_Records(t *testing.T) {
	assert := assert.New(t)

	input := strings.Join([]string{
		"a",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 1",
		"",
		"b",
		"0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"00 00 0 0 0 0 1",
		"",
		"c",
		"bad",
	}, "\n")

	parser := &Parser{}

	// Stopping early does not reach the malformed record.
	var seen []string
	for tc, err := range parser.Records(strings.NewReader(input)) {
		assert.NoError(err)
		seen = append(seen, tc.Description)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal([]string{"a", "b"}, seen)

	// The error is yielded once, after the good records.
	seen = seen[:0]
	var errs []error
	for tc, err := range parser.Records(strings.NewReader(input)) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		seen = append(seen, tc.Description)
	}
	assert.Equal([]string{"a", "b"}, seen)
	assert.Equal(1, len(errs))
}

func TestParser_Truncated(t *testing.T) {
	cases := []struct {
		name    string
		lines   []string
		section Section
	}{
		{"after description", []string{"desc"}, SECTION_REGISTERS},
		{"inside events", []string{"desc", " 0 MR 0000 00"}, SECTION_REGISTERS},
		{"before extra", []string{"desc", "0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000"}, SECTION_EXTRA},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			tests, _, err := parseLines(t, tc.lines...)
			assert.Nil(tests)

			var truncated ErrTruncatedInput
			if assert.True(errors.As(err, &truncated), "got %v", err) {
				assert.Equal(tc.section, truncated.Section)
			}

			var syntax ErrSyntax
			assert.True(errors.As(err, &syntax))
		})
	}
}

func TestParser_Malformed(t *testing.T) {
	cases := []struct {
		name    string
		lines   []string
		section Section
		want    int
		got     int
		err     error
		lineNo  int
	}{
		{
			name:    "short registers",
			lines:   []string{"desc", "0000 0000", "00 00 0 0 0 0 1"},
			section: SECTION_REGISTERS, want: 12, got: 2, lineNo: 2,
		},
		{
			name:    "missing registers",
			lines:   []string{"desc", "", "00 00 0 0 0 0 1"},
			section: SECTION_REGISTERS, want: 12, got: 0, lineNo: 2,
		},
		{
			name:    "long extra",
			lines:   []string{"desc", "0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000", "00 00 0 0 0 0 1 2"},
			section: SECTION_EXTRA, want: 7, got: 8, lineNo: 3,
		},
		{
			name:    "unknown event",
			lines:   []string{"desc", " 0 XX 0000 00"},
			section: SECTION_EVENTS, err: ErrEventKind, lineNo: 2,
		},
		{
			name: "unterminated chunk",
			lines: []string{"desc", "0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000", "00 00 0 0 0 0 1",
				"8000 01 02"},
			section: SECTION_CHUNKS, err: ErrChunkTerminator, lineNo: 4,
		},
		{
			name: "trailing chunk bytes",
			lines: []string{"desc", "0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000", "00 00 0 0 0 0 1",
				"8000 01 -1", "8001 02 -1 03"},
			section: SECTION_CHUNKS, err: ErrChunkTrailing, lineNo: 5,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			tests, _, err := parseLines(t, tc.lines...)
			assert.Nil(tests)

			var malformed ErrMalformedRecord
			if assert.True(errors.As(err, &malformed), "got %v", err) {
				assert.Equal(tc.section, malformed.Section)
				assert.Equal(tc.want, malformed.Want)
				assert.Equal(tc.got, malformed.Got)
				if tc.err != nil {
					assert.ErrorIs(err, tc.err)
				}
			}

			var syntax ErrSyntax
			if assert.True(errors.As(err, &syntax)) {
				assert.Equal(tc.lineNo, syntax.LineNo)
			}
		})
	}
}

func TestParser_NumericParse(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		field string
		token string
	}{
		{
			name:  "register",
			lines: []string{"desc", "0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 zz00", "00 00 0 0 0 0 1"},
			field: "PC", token: "zz00",
		},
		{
			name:  "radix prefix",
			lines: []string{"desc", "0x00 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000", "00 00 0 0 0 0 1"},
			field: "AF", token: "0x00",
		},
		{
			name:  "decimal flag",
			lines: []string{"desc", "0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000", "00 00 a 0 0 0 1"},
			field: "IFF1", token: "a",
		},
		{
			name:  "event data",
			lines: []string{"desc", " 0 MR 0000 g0"},
			field: "data", token: "g0",
		},
		{
			name: "chunk byte",
			lines: []string{"desc", "0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000", "00 00 0 0 0 0 1",
				"8000 01 xy -1"},
			field: "byte", token: "xy",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, _, err := parseLines(t, tc.lines...)

			var numeric ErrNumericParse
			if assert.True(errors.As(err, &numeric), "got %v", err) {
				assert.Equal(tc.field, numeric.Field)
				assert.Equal(tc.token, numeric.Token)
			}
		})
	}
}

func TestParser_Truncation(t *testing.T) {
	assert := assert.New(t)

	// Overlong 8-bit values wrap silently.
	tests, _, err := parseLines(t,
		"wrap",
		" 0 MW 12345 1ab",
		"10000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000",
		"1ff 100 0 0 0 0 1",
	)
	assert.NoError(err)
	if len(tests) == 1 {
		assert.Equal(BusEvent{Tick: 0, Kind: EVENT_MW, Addr: 0x2345, Data: 0xab}, tests[0].Events[0])
		assert.Equal(uint16(0), tests[0].Registers.AF)
		assert.Equal(uint8(0xff), tests[0].Extra.I)
		assert.Equal(uint8(0x00), tests[0].Extra.R)
	}
}

func TestParser_ErrorName(t *testing.T) {
	assert := assert.New(t)

	parser := &Parser{Name: "tests.in"}
	_, _, err := parser.Parse(strings.NewReader("desc\n"))
	assert.Error(err)
	assert.Contains(err.Error(), "tests.in")
}

func TestParseFile_Missing(t *testing.T) {
	assert := assert.New(t)

	_, _, err := ParseFile(t.TempDir() + "/missing.in")
	assert.Error(err)
}

func TestParseFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "tests.in")
	err := os.WriteFile(path, []byte("00\n0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000\n00 00 0 0 0 0 1\n-1\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	tests, stats, err := ParseFile(path)
	assert.NoError(err)
	assert.Equal(1, len(tests))
	assert.Equal(Stats{Records: 1}, stats)

	err = os.WriteFile(path, []byte("00\n0000\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = ParseFile(path)
	assert.ErrorContains(err, path+":2 ")
}
