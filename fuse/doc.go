// Package fuse parses the FUSE Z80 CPU test-vector text format.
//
// A FUSE test file is a sequence of records, one per test. Each record is a
// description line, an optional run of indented bus event lines, a line of
// twelve 16-bit registers, a line of seven extra-state fields and an optional
// run of memory chunk lines:
//
//	desc1
//	 0 MR 1234 56
//	 1 MW 1235 78
//	0001 0002 0003 0004 0005 0006 0007 0008 0009 000a 000b 000c
//	00 00 0 0 0 0 10
//	8000 aa bb -1
//	-1
//
// The token "-1" plays two roles. At the end of a chunk line it terminates the
// chunk's byte list; as the first token of a line it terminates the chunk
// section of the record.
//
// Numbers are hexadecimal without a radix prefix, except for the IFF1, IFF2, IM
// and HALTED fields, which are decimal literals.
package fuse
