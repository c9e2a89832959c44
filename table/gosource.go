package table

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/ezrec/fusegen/fuse"
)

// DefaultPackage is the package of generated Go source.
const DefaultPackage = "fusedata"

// GoSource encodes tables as Go slices of fuse.TestCase.
type GoSource struct {
	Package string // Package name, DefaultPackage if empty.
}

var _ Encoder = (*GoSource)(nil)

// Marker returns the generated code line of the source.
func (enc *GoSource) Marker() string {
	return fmt.Sprintf("// Code generated by fusegen version %d. DO NOT EDIT.", Version)
}

// goName converts a table name to an exported Go identifier.
func goName(name string) (ident string, err error) {
	var sb strings.Builder
	for part := range strings.SplitSeq(name, "_") {
		if len(part) == 0 {
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}

	ident = sb.String()
	if len(ident) == 0 || !unicode.IsLetter(rune(ident[0])) {
		err = ErrTableName
	}

	return
}

// Encode writes gofmt'd Go source with one slice and one count per table.
func (enc *GoSource) Encode(w io.Writer, tables ...Table) (err error) {
	pkg := enc.Package
	if len(pkg) == 0 {
		pkg = DefaultPackage
	}

	buf := &bytes.Buffer{}
	buf.WriteString(enc.Marker() + "\n\n")
	fmt.Fprintf(buf, "package %s\n", pkg)
	if len(tables) > 0 {
		buf.WriteString("\nimport \"github.com/ezrec/fusegen/fuse\"\n")
	}

	idents := make(map[string]bool, len(tables))
	for n := range tables {
		table := &tables[n]
		err = table.validate()
		if err != nil {
			return
		}
		var ident string
		ident, err = goName(table.Name)
		if err != nil {
			return
		}
		if idents[ident] {
			err = ErrTableName
			return
		}
		idents[ident] = true

		fmt.Fprintf(buf, "\n// %s is the %s test table.\n", ident, table.Name)
		fmt.Fprintf(buf, "var %s = []fuse.TestCase{\n", ident)
		for n := range table.Tests {
			enc.writeTest(buf, &table.Tests[n])
		}
		buf.WriteString("}\n\n")
		fmt.Fprintf(buf, "// %sNum is the number of tests in %s.\n", ident, ident)
		fmt.Fprintf(buf, "const %sNum = %d\n", ident, len(table.Tests))
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return
	}

	_, err = w.Write(src)
	return
}

func (enc *GoSource) writeTest(buf *bytes.Buffer, tc *fuse.TestCase) {
	buf.WriteString("{\n")
	fmt.Fprintf(buf, "Description: %s,\n", strconv.Quote(tc.Description))

	if len(tc.Events) > 0 {
		buf.WriteString("Events: []fuse.BusEvent{\n")
		for _, ev := range tc.Events {
			fmt.Fprintf(buf, "{Tick: 0x%x, Kind: fuse.EVENT_%v, Addr: 0x%04x, Data: 0x%02x},\n",
				ev.Tick, ev.Kind, ev.Addr, ev.Data)
		}
		buf.WriteString("},\n")
	}

	buf.WriteString("Registers: fuse.Registers{")
	sep := ""
	for name, value := range tc.Registers.All() {
		fmt.Fprintf(buf, "%s%s: 0x%04x", sep, strings.ReplaceAll(name, "'", "2"), value)
		sep = ", "
	}
	buf.WriteString("},\n")

	ex := &tc.Extra
	fmt.Fprintf(buf, "Extra: fuse.Extra{I: 0x%02x, R: 0x%02x, IFF1: %d, IFF2: %d, IM: %d, Halted: %d, Ticks: 0x%x},\n",
		ex.I, ex.R, ex.IFF1, ex.IFF2, ex.IM, ex.Halted, ex.Ticks)

	if len(tc.Chunks) > 0 {
		buf.WriteString("Chunks: []fuse.MemoryChunk{\n")
		for _, chunk := range tc.Chunks {
			fmt.Fprintf(buf, "{Addr: 0x%04x, Bytes: []uint8{", chunk.Addr)
			for n, b := range chunk.Bytes {
				if n > 0 {
					buf.WriteString(", ")
				}
				fmt.Fprintf(buf, "0x%02x", b)
			}
			buf.WriteString("}},\n")
		}
		buf.WriteString("},\n")
	}

	buf.WriteString("},\n")
}
