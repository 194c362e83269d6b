// Package conv provides safe integer conversion helpers for the speller engine.
//
// These functions perform bounds checking before narrowing integer conversions
// to prevent silent overflow. They panic on overflow since this indicates a
// programming error (e.g. a symbol table or transition table larger than the
// on-disk format can address).
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToUint16 safely converts an int to uint16.
// Panics if n < 0 or n > math.MaxUint16.
//
// Used when narrowing a rune/key-table position to a SymbolNumber.
func IntToUint16(n int) uint16 {
	if n < 0 || n > math.MaxUint16 {
		panic("integer overflow: int value out of uint16 range")
	}
	return uint16(n)
}

// IntToUint64 safely converts an int to uint64.
// Panics if n < 0.
//
// Used when comparing an int byte length against the uint64 offsets and
// lengths of an aligned archive's directory, and for the alphabet's JSON
// length field.
func IntToUint64(n int) uint64 {
	if n < 0 {
		panic("integer overflow: int value out of uint64 range")
	}
	return uint64(n)
}
