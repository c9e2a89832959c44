// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package fuse

import (
	"iter"
)

// EventKind is the type of a bus event.
type EventKind int

//go:generate go tool stringer -linecomment -type=EventKind
const (
	EVENT_NONE = EventKind(0) // NONE
	EVENT_MR   = EventKind(1) // MR
	EVENT_MW   = EventKind(2) // MW
	EVENT_MC   = EventKind(3) // MC
	EVENT_PR   = EventKind(4) // PR
	EVENT_PW   = EventKind(5) // PW
	EVENT_PC   = EventKind(6) // PC
)

// eventMap maps FUSE event tags to event kinds.
var eventMap = map[string]EventKind{
	"MR": EVENT_MR, // memory read
	"MW": EVENT_MW, // memory write
	"MC": EVENT_MC, // memory contention
	"PR": EVENT_PR, // port read
	"PW": EVENT_PW, // port write
	"PC": EVENT_PC, // port contention
}

// BusEvent is a single timestamped memory or port access.
type BusEvent struct {
	Tick int       // T-state of the access.
	Kind EventKind // Kind of access.
	Addr uint16    // Memory address or port.
	Data uint8     // Data transferred.
}

// Registers is the 16-bit register file of a test.
type Registers struct {
	AF, BC, DE, HL     uint16
	AF2, BC2, DE2, HL2 uint16 // Shadow registers AF', BC', DE', HL'.
	IX, IY, SP, PC     uint16
}

// registerNames are the register names, in file order.
var registerNames = [...]string{
	"AF", "BC", "DE", "HL",
	"AF'", "BC'", "DE'", "HL'",
	"IX", "IY", "SP", "PC",
}

// fields returns pointers to the registers, in file order.
func (r *Registers) fields() [len(registerNames)]*uint16 {
	return [...]*uint16{
		&r.AF, &r.BC, &r.DE, &r.HL,
		&r.AF2, &r.BC2, &r.DE2, &r.HL2,
		&r.IX, &r.IY, &r.SP, &r.PC,
	}
}

// All iterates over the register names and values, in file order.
func (r Registers) All() iter.Seq2[string, uint16] {
	return func(yield func(name string, value uint16) bool) {
		for n, reg := range r.fields() {
			if !yield(registerNames[n], *reg) {
				return
			}
		}
	}
}

// Array returns the register values, in file order.
func (r Registers) Array() (values [len(registerNames)]uint16) {
	for n, reg := range r.fields() {
		values[n] = *reg
	}
	return
}

// RegistersOf builds a register file from values in file order.
func RegistersOf(values [len(registerNames)]uint16) (r Registers) {
	for n, reg := range r.fields() {
		*reg = values[n]
	}
	return
}

// Extra is the CPU state that is not held in 16-bit registers.
type Extra struct {
	I, R   uint8
	IFF1   int // Interrupt flip-flop 1, 0 or 1.
	IFF2   int // Interrupt flip-flop 2, 0 or 1.
	IM     int // Interrupt mode.
	Halted int // Non-zero if the CPU is halted.
	Ticks  int // T-states to run, or T-states run.
}

// MemoryChunk is a contiguous run of bytes at an address.
type MemoryChunk struct {
	Addr  uint16
	Bytes []uint8
}

// TestCase is one complete FUSE test record.
type TestCase struct {
	Description string
	Events      []BusEvent
	Registers   Registers
	Extra       Extra
	Chunks      []MemoryChunk
}

// Stats are the running totals of a parse.
type Stats struct {
	Records int // Number of test records.
	Events  int // Number of bus events, over all records.
	Chunks  int // Number of memory chunks, over all records.
	Bytes   int // Number of memory chunk bytes, over all records.
}

// Add accumulates the totals of a single test record.
func (st *Stats) Add(tc *TestCase) {
	st.Records++
	st.Events += len(tc.Events)
	st.Chunks += len(tc.Chunks)
	for _, chunk := range tc.Chunks {
		st.Bytes += len(chunk.Bytes)
	}
}

// Merge accumulates the totals of another parse.
func (st *Stats) Merge(other Stats) {
	st.Records += other.Records
	st.Events += other.Events
	st.Chunks += other.Chunks
	st.Bytes += other.Bytes
}
