package table

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/fusegen/fuse"
)

// CHeader encodes tables as C arrays of fuse_test_t.
type CHeader struct{}

var _ Encoder = (*CHeader)(nil)

// Marker returns the version line of the header.
func (enc *CHeader) Marker() string {
	return fmt.Sprintf("// #version:%d#", Version)
}

var cEscape = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// cRegister converts a register name to its fuse_state_t field name.
func cRegister(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "'", "_"))
}

// Encode writes a C header with one array and one count per table.
func (enc *CHeader) Encode(w io.Writer, tables ...Table) (err error) {
	buf := &bytes.Buffer{}

	buf.WriteString(enc.Marker() + "\n")
	buf.WriteString("// machine generated, do not edit!\n")
	for n := range tables {
		table := &tables[n]
		err = table.validate()
		if err != nil {
			return
		}
		fmt.Fprintf(buf, "fuse_test_t %s[] = {\n", table.Name)
		for n := range table.Tests {
			enc.writeTest(buf, &table.Tests[n])
		}
		buf.WriteString("};\n")
		fmt.Fprintf(buf, "const int %s_num = %d;\n", table.Name, len(table.Tests))
	}

	_, err = w.Write(buf.Bytes())
	return
}

func (enc *CHeader) writeTest(buf *bytes.Buffer, tc *fuse.TestCase) {
	buf.WriteString("  {\n")
	fmt.Fprintf(buf, "    .desc = \"%s\",\n", cEscape.Replace(tc.Description))

	if len(tc.Events) > 0 {
		buf.WriteString("    .events = {\n")
		for _, ev := range tc.Events {
			fmt.Fprintf(buf, "      { .tick=0x%x, .type=EVENT_%v, .addr=0x%04x, .data=0x%02x },\n",
				ev.Tick, ev.Kind, ev.Addr, ev.Data)
		}
		buf.WriteString("    },\n")
	}
	fmt.Fprintf(buf, "    .num_events = %d,\n", len(tc.Events))

	buf.WriteString("    .state = {\n")
	n := 0
	for name, value := range tc.Registers.All() {
		if n%4 == 0 {
			buf.WriteString("      ")
		}
		fmt.Fprintf(buf, ".%s=0x%04x,", cRegister(name), value)
		if n%4 == 3 {
			buf.WriteString("\n")
		} else {
			buf.WriteString(" ")
		}
		n++
	}
	ex := &tc.Extra
	fmt.Fprintf(buf, "      .i=0x%02x, .r=0x%02x, .iff1=%d, .iff2=%d, .im=%d, .halted=%d, .ticks=0x%x\n",
		ex.I, ex.R, ex.IFF1, ex.IFF2, ex.IM, ex.Halted, ex.Ticks)
	buf.WriteString("    },\n")

	if len(tc.Chunks) > 0 {
		buf.WriteString("    .chunks = {\n")
		for _, chunk := range tc.Chunks {
			fmt.Fprintf(buf, "      { .addr=0x%04x, .bytes = { ", chunk.Addr)
			for _, b := range chunk.Bytes {
				fmt.Fprintf(buf, "0x%02x,", b)
			}
			fmt.Fprintf(buf, "}, .num_bytes=%d, },\n", len(chunk.Bytes))
		}
		buf.WriteString("    },\n")
	}
	fmt.Fprintf(buf, "    .num_chunks = %d,\n", len(tc.Chunks))
	buf.WriteString("  },\n")
}
