// Package transducer implements the binary-table view over compiled
// finite-state transducers: memory-mapped index/transition tables, the
// alphabet and flag-diacritic machinery they share, and the arc-enumeration
// protocol the search worker drives during joint traversal.
//
// All accesses after construction are O(1) reads at computed offsets and
// never fail: out-of-range or sentinel reads yield absence, never an error
// or a panic. Only construction (opening and parsing a transducer's files)
// can fail.
package transducer

import "math"

// SymbolNumber is an index into a transducer's key table. Symbol 0 is
// always epsilon.
type SymbolNumber uint16

// NoSymbol is the sentinel stored on disk for "no symbol" / "empty slot".
const NoSymbol SymbolNumber = math.MaxUint16

// Epsilon is symbol number 0: consumes and produces nothing.
const Epsilon SymbolNumber = 0

// ValueNumber is the signed interned value used by flag-diacritic
// operations and by per-path flag state.
type ValueNumber int16

// Weight is an additive path cost. Lower is better; +Inf marks an absent or
// blocked value.
type Weight float32

// WeightInfinite represents a blocked/absent path weight.
const WeightInfinite Weight = Weight(float32(math.Inf(1)))

// TableIndex addresses either the index table or the transition table,
// depending on which side of TargetTable it falls.
type TableIndex uint32

// NoIndex is the sentinel stored on disk for "no successor".
const NoIndex TableIndex = math.MaxUint32

// TargetTable partitions TableIndex space: values below it address the
// index table (the jump table keyed by state + input symbol); values at or
// above it address the transition table (arc records), after subtracting
// TargetTable.
const TargetTable TableIndex = 1 << 31

// IsTransitionIndex reports whether i addresses the transition table
// directly rather than the index table.
func (i TableIndex) IsTransitionIndex() bool {
	return i >= TargetTable
}

// ToTransition converts an index-space value (i >= TargetTable) to the
// corresponding transition-table offset.
func (i TableIndex) ToTransition() TableIndex {
	return i - TargetTable
}

// Record byte widths on disk.
const (
	// NativeIndexRecordSize is the native-format index record width: u16
	// input symbol, u16 padding, u32 target-or-weight.
	NativeIndexRecordSize = 8
	// LegacyIndexRecordSize is the upstream single-file-format index
	// record width: u16 input symbol, u32 target-or-weight, no padding.
	LegacyIndexRecordSize = 6
	// TransitionRecordSize is the transition record width: u16 input
	// symbol, u16 output symbol, u32 target, f32 weight.
	TransitionRecordSize = 12
)
