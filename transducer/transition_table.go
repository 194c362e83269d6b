package transducer

import (
	"encoding/binary"
	"math"

	"github.com/coregx/fstspell/internal/conv"
)

// nativeTransitionTable is the 12-byte-record transition (arc) table: u16
// input symbol, u16 output symbol, u32 target, f32 weight.
type nativeTransitionTable struct {
	buf  []byte
	size uint32
}

func newNativeTransitionTable(buf []byte) *nativeTransitionTable {
	return &nativeTransitionTable{buf: buf, size: conv.IntToUint32(len(buf) / TransitionRecordSize)}
}

func (t *nativeTransitionTable) Len() uint32 { return t.size }

func (t *nativeTransitionTable) InputSymbol(i TableIndex) (SymbolNumber, bool) {
	if uint32(i) >= t.size {
		return 0, false
	}
	off := int(i) * TransitionRecordSize
	sym := SymbolNumber(binary.LittleEndian.Uint16(t.buf[off : off+2]))
	if sym == NoSymbol {
		return 0, false
	}
	return sym, true
}

func (t *nativeTransitionTable) OutputSymbol(i TableIndex) (SymbolNumber, bool) {
	if uint32(i) >= t.size {
		return 0, false
	}
	off := int(i)*TransitionRecordSize + 2
	sym := SymbolNumber(binary.LittleEndian.Uint16(t.buf[off : off+2]))
	if sym == NoSymbol {
		return 0, false
	}
	return sym, true
}

func (t *nativeTransitionTable) Target(i TableIndex) (TableIndex, bool) {
	if uint32(i) >= t.size {
		return 0, false
	}
	off := int(i)*TransitionRecordSize + 4
	target := TableIndex(binary.LittleEndian.Uint32(t.buf[off : off+4]))
	if target == NoIndex {
		return 0, false
	}
	return target, true
}

func (t *nativeTransitionTable) Weight(i TableIndex) (Weight, bool) {
	if uint32(i) >= t.size {
		return 0, false
	}
	off := int(i)*TransitionRecordSize + 8
	bits := binary.LittleEndian.Uint32(t.buf[off : off+4])
	return Weight(math.Float32frombits(bits)), true
}

// chunkedTransitionTable concatenates several fixed-size transition-table
// chunks into one logical table, the arc-side counterpart of
// chunkedIndexTable.
type chunkedTransitionTable struct {
	chunks          []*nativeTransitionTable
	recordsPerChunk uint32
	size            uint32
}

func newChunkedTransitionTable(chunks []*nativeTransitionTable, recordsPerChunk uint32) *chunkedTransitionTable {
	total := uint32(0)
	for _, c := range chunks {
		total += c.size
	}
	return &chunkedTransitionTable{chunks: chunks, recordsPerChunk: recordsPerChunk, size: total}
}

func (t *chunkedTransitionTable) Len() uint32 { return t.size }

func (t *chunkedTransitionTable) locate(i TableIndex) (*nativeTransitionTable, TableIndex, bool) {
	if uint32(i) >= t.size || t.recordsPerChunk == 0 {
		return nil, 0, false
	}
	chunkIdx := uint32(i) / t.recordsPerChunk
	if int(chunkIdx) >= len(t.chunks) {
		return nil, 0, false
	}
	offset := TableIndex(uint32(i) % t.recordsPerChunk)
	return t.chunks[chunkIdx], offset, true
}

func (t *chunkedTransitionTable) InputSymbol(i TableIndex) (SymbolNumber, bool) {
	chunk, off, ok := t.locate(i)
	if !ok {
		return 0, false
	}
	return chunk.InputSymbol(off)
}

func (t *chunkedTransitionTable) OutputSymbol(i TableIndex) (SymbolNumber, bool) {
	chunk, off, ok := t.locate(i)
	if !ok {
		return 0, false
	}
	return chunk.OutputSymbol(off)
}

func (t *chunkedTransitionTable) Target(i TableIndex) (TableIndex, bool) {
	chunk, off, ok := t.locate(i)
	if !ok {
		return 0, false
	}
	return chunk.Target(off)
}

func (t *chunkedTransitionTable) Weight(i TableIndex) (Weight, bool) {
	chunk, off, ok := t.locate(i)
	if !ok {
		return 0, false
	}
	return chunk.Weight(off)
}
