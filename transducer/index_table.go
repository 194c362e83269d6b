package transducer

import (
	"encoding/binary"
	"math"

	"github.com/coregx/fstspell/internal/conv"
)

// nativeIndexTable is the 8-byte-record index table shared by the Native
// and Chunked backends: u16 input symbol, u16 padding, then a 4-byte union
// read either as a TableIndex target or as an IEEE-754 weight depending on
// whether the record is final.
type nativeIndexTable struct {
	buf  []byte
	size uint32
}

func newNativeIndexTable(buf []byte) *nativeIndexTable {
	return &nativeIndexTable{buf: buf, size: conv.IntToUint32(len(buf) / NativeIndexRecordSize)}
}

func (t *nativeIndexTable) Len() uint32 { return t.size }

func (t *nativeIndexTable) InputSymbol(i TableIndex) (SymbolNumber, bool) {
	if uint32(i) >= t.size {
		return 0, false
	}
	off := int(i) * NativeIndexRecordSize
	sym := SymbolNumber(binary.LittleEndian.Uint16(t.buf[off : off+2]))
	if sym == NoSymbol {
		return 0, false
	}
	return sym, true
}

func (t *nativeIndexTable) Target(i TableIndex) (TableIndex, bool) {
	if uint32(i) >= t.size {
		return 0, false
	}
	off := int(i)*NativeIndexRecordSize + 4
	target := TableIndex(binary.LittleEndian.Uint32(t.buf[off : off+4]))
	if target == NoIndex {
		return 0, false
	}
	return target, true
}

func (t *nativeIndexTable) FinalWeight(i TableIndex) (Weight, bool) {
	if uint32(i) >= t.size {
		return 0, false
	}
	off := int(i)*NativeIndexRecordSize + 4
	bits := binary.LittleEndian.Uint32(t.buf[off : off+4])
	return Weight(math.Float32frombits(bits)), true
}

// legacyIndexTable is the 6-byte-record index table used by the single-file
// upstream HFST format: u16 input symbol directly followed by the 4-byte
// target-or-weight union, with no padding.
type legacyIndexTable struct {
	buf  []byte
	size uint32
}

func newLegacyIndexTable(buf []byte) *legacyIndexTable {
	return &legacyIndexTable{buf: buf, size: conv.IntToUint32(len(buf) / LegacyIndexRecordSize)}
}

func (t *legacyIndexTable) Len() uint32 { return t.size }

func (t *legacyIndexTable) InputSymbol(i TableIndex) (SymbolNumber, bool) {
	if uint32(i) >= t.size {
		return 0, false
	}
	off := int(i) * LegacyIndexRecordSize
	sym := SymbolNumber(binary.LittleEndian.Uint16(t.buf[off : off+2]))
	if sym == NoSymbol {
		return 0, false
	}
	return sym, true
}

func (t *legacyIndexTable) Target(i TableIndex) (TableIndex, bool) {
	if uint32(i) >= t.size {
		return 0, false
	}
	off := int(i)*LegacyIndexRecordSize + 2
	target := TableIndex(binary.LittleEndian.Uint32(t.buf[off : off+4]))
	if target == NoIndex {
		return 0, false
	}
	return target, true
}

func (t *legacyIndexTable) FinalWeight(i TableIndex) (Weight, bool) {
	if uint32(i) >= t.size {
		return 0, false
	}
	off := int(i)*LegacyIndexRecordSize + 2
	bits := binary.LittleEndian.Uint32(t.buf[off : off+4])
	return Weight(math.Float32frombits(bits)), true
}

// chunkedIndexTable concatenates several fixed-size native index-table
// chunks (one per mmap'd file) into a single logical table, translating a
// global TableIndex into the (chunk, offset) pair that addresses it.
type chunkedIndexTable struct {
	chunks       []*nativeIndexTable
	recordsPerChunk uint32
	size         uint32
}

func newChunkedIndexTable(chunks []*nativeIndexTable, recordsPerChunk uint32) *chunkedIndexTable {
	total := uint32(0)
	for _, c := range chunks {
		total += c.size
	}
	return &chunkedIndexTable{chunks: chunks, recordsPerChunk: recordsPerChunk, size: total}
}

func (t *chunkedIndexTable) Len() uint32 { return t.size }

func (t *chunkedIndexTable) locate(i TableIndex) (*nativeIndexTable, TableIndex, bool) {
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

func (t *chunkedIndexTable) InputSymbol(i TableIndex) (SymbolNumber, bool) {
	chunk, off, ok := t.locate(i)
	if !ok {
		return 0, false
	}
	return chunk.InputSymbol(off)
}

func (t *chunkedIndexTable) Target(i TableIndex) (TableIndex, bool) {
	chunk, off, ok := t.locate(i)
	if !ok {
		return 0, false
	}
	return chunk.Target(off)
}

func (t *chunkedIndexTable) FinalWeight(i TableIndex) (Weight, bool) {
	chunk, off, ok := t.locate(i)
	if !ok {
		return 0, false
	}
	return chunk.FinalWeight(off)
}
