package table

import (
	"errors"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ezrec/fusegen/fuse"
)

// BinarySchema is the schema version of the binary layout. Increment it
// when the layout changes.
const BinarySchema uint16 = 1

var (
	ErrBinarySchema = errors.New(f("binary table schema mismatch"))
)

// Binary encodes tables as a MessagePack document with a fixed field order.
type Binary struct{}

var _ Encoder = (*Binary)(nil)

type binaryFile struct {
	_msgpack struct{} `msgpack:",as_array"`

	Schema  uint16
	Version int
	Tables  []binaryTable
}

type binaryTable struct {
	_msgpack struct{} `msgpack:",as_array"`

	Name  string
	Count int
	Tests []binaryTest
}

type binaryTest struct {
	_msgpack struct{} `msgpack:",as_array"`

	Description string
	NumEvents   int
	Events      []binaryEvent
	Registers   [12]uint16
	I, R        uint8
	IFF1, IFF2  int
	IM          int
	Halted      int
	Ticks       int
	NumChunks   int
	Chunks      []binaryChunk
}

type binaryEvent struct {
	_msgpack struct{} `msgpack:",as_array"`

	Tick int
	Kind uint8
	Addr uint16
	Data uint8
}

type binaryChunk struct {
	_msgpack struct{} `msgpack:",as_array"`

	Addr     uint16
	NumBytes int
	Bytes    []byte
}

func toBinary(tc *fuse.TestCase) (bt binaryTest) {
	bt = binaryTest{
		Description: tc.Description,
		NumEvents:   len(tc.Events),
		Events:      make([]binaryEvent, 0, len(tc.Events)),
		Registers:   tc.Registers.Array(),
		I:           tc.Extra.I,
		R:           tc.Extra.R,
		IFF1:        tc.Extra.IFF1,
		IFF2:        tc.Extra.IFF2,
		IM:          tc.Extra.IM,
		Halted:      tc.Extra.Halted,
		Ticks:       tc.Extra.Ticks,
		NumChunks:   len(tc.Chunks),
		Chunks:      make([]binaryChunk, 0, len(tc.Chunks)),
	}

	for _, ev := range tc.Events {
		bt.Events = append(bt.Events, binaryEvent{Tick: ev.Tick, Kind: uint8(ev.Kind), Addr: ev.Addr, Data: ev.Data})
	}
	for _, chunk := range tc.Chunks {
		bt.Chunks = append(bt.Chunks, binaryChunk{Addr: chunk.Addr, NumBytes: len(chunk.Bytes), Bytes: chunk.Bytes})
	}

	return
}

func fromBinary(bt *binaryTest) (tc fuse.TestCase) {
	tc = fuse.TestCase{
		Description: bt.Description,
		Registers:   fuse.RegistersOf(bt.Registers),
		Extra: fuse.Extra{
			I:      bt.I,
			R:      bt.R,
			IFF1:   bt.IFF1,
			IFF2:   bt.IFF2,
			IM:     bt.IM,
			Halted: bt.Halted,
			Ticks:  bt.Ticks,
		},
	}

	for _, ev := range bt.Events {
		tc.Events = append(tc.Events, fuse.BusEvent{Tick: ev.Tick, Kind: fuse.EventKind(ev.Kind), Addr: ev.Addr, Data: ev.Data})
	}
	for _, chunk := range bt.Chunks {
		tc.Chunks = append(tc.Chunks, fuse.MemoryChunk{Addr: chunk.Addr, Bytes: append([]uint8{}, chunk.Bytes...)})
	}

	return
}

// Encode writes all tables as a single MessagePack document.
func (enc *Binary) Encode(w io.Writer, tables ...Table) (err error) {
	file := binaryFile{
		Schema:  BinarySchema,
		Version: Version,
		Tables:  make([]binaryTable, 0, len(tables)),
	}

	for n := range tables {
		table := &tables[n]
		err = table.validate()
		if err != nil {
			return
		}
		bt := binaryTable{
			Name:  table.Name,
			Count: len(table.Tests),
			Tests: make([]binaryTest, 0, len(table.Tests)),
		}
		for n := range table.Tests {
			bt.Tests = append(bt.Tests, toBinary(&table.Tests[n]))
		}
		file.Tables = append(file.Tables, bt)
	}

	menc := msgpack.NewEncoder(w)
	menc.UseCompactInts(true)
	err = menc.Encode(&file)
	return
}

// DecodeBinary reads tables written by Binary.
func DecodeBinary(r io.Reader) (tables []Table, err error) {
	var file binaryFile

	err = msgpack.NewDecoder(r).Decode(&file)
	if err != nil {
		return
	}

	if file.Schema != BinarySchema {
		err = ErrBinarySchema
		return
	}

	for n := range file.Tables {
		bt := &file.Tables[n]
		table := Table{Name: bt.Name}
		for n := range bt.Tests {
			table.Tests = append(table.Tests, fromBinary(&bt.Tests[n]))
		}
		tables = append(tables, table)
	}

	return
}
