package transducer

import (
	"encoding/binary"
	"fmt"

	"github.com/coregx/fstspell/internal/mmapfile"
)

// legacyHeader describes the prefix of a single-file legacy transducer:
// magic bytes, a variable-length property block, then symbol/table
// counts, per §6.2.
type legacyHeader struct {
	symbolCount      SymbolNumber
	inputSymbolCount SymbolNumber
	indexTableSize   uint32
	targetTableSize  uint32
	states           uint32
	transitions      uint32
	properties       [9]bool
	size             int
}

// numProperties is the boolean flag count carried by the legacy header.
const numProperties = 9

func parseLegacyHeader(buf []byte) (legacyHeader, error) {
	if len(buf) < 8 {
		return legacyHeader{}, fmt.Errorf("%w: header too short", ErrUnsupportedFormat)
	}
	headerLen := binary.LittleEndian.Uint16(buf[5:7])
	pos := 8 + int(headerLen)
	need := pos + 2 + 2 + 4 + 4 + 4 + 4 + numProperties*4
	if len(buf) < need {
		return legacyHeader{}, fmt.Errorf("%w: header truncated", ErrUnsupportedFormat)
	}

	h := legacyHeader{}
	h.inputSymbolCount = SymbolNumber(binary.LittleEndian.Uint16(buf[pos : pos+2]))
	pos += 2
	h.symbolCount = SymbolNumber(binary.LittleEndian.Uint16(buf[pos : pos+2]))
	pos += 2
	h.indexTableSize = binary.LittleEndian.Uint32(buf[pos : pos+4])
	pos += 4
	h.targetTableSize = binary.LittleEndian.Uint32(buf[pos : pos+4])
	pos += 4
	h.states = binary.LittleEndian.Uint32(buf[pos : pos+4])
	pos += 4
	h.transitions = binary.LittleEndian.Uint32(buf[pos : pos+4])
	pos += 4
	for i := 0; i < numProperties; i++ {
		v := binary.LittleEndian.Uint32(buf[pos : pos+4])
		h.properties[i] = v != 0
		pos += 4
	}
	h.size = pos
	return h, nil
}

// Legacy is a transducer loaded from the single-file upstream HFST layout:
// header, null-delimited alphabet blob, 6-byte-record index table, 12-byte
// transition table, all in one mapped file.
type Legacy struct {
	core
	header legacyHeader
	file   *mmapfile.File
}

// OpenLegacy opens a legacy single-file transducer at path.
func OpenLegacy(path string) (*Legacy, error) {
	f, err := mmapfile.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: fmt.Errorf("%w: %v", ErrIO, err)}
	}

	c, header, err := parseLegacyCore(f.Bytes())
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}

	return &Legacy{core: *c, header: header, file: f}, nil
}

// OpenLegacyBytes builds a legacy single-file transducer from an
// already-mapped byte slice, e.g. one member carved out of a zip archive's
// mapping.
func OpenLegacyBytes(buf []byte) (*Legacy, error) {
	c, header, err := parseLegacyCore(buf)
	if err != nil {
		return nil, err
	}
	return &Legacy{core: *c, header: header}, nil
}

func parseLegacyCore(buf []byte) (*core, legacyHeader, error) {
	header, err := parseLegacyHeader(buf)
	if err != nil {
		return nil, legacyHeader{}, err
	}

	alphabetOffset := header.size
	alphabet, alphabetLen, err := ParseLegacyAlphabetPrefix(buf[alphabetOffset:], header.symbolCount)
	if err != nil {
		return nil, legacyHeader{}, err
	}

	indexOffset := alphabetOffset + alphabetLen
	indexEnd := indexOffset + int(header.indexTableSize)*LegacyIndexRecordSize
	if indexEnd > len(buf) {
		return nil, legacyHeader{}, fmt.Errorf("%w: index table exceeds file", ErrUnsupportedFormat)
	}
	transOffset := indexEnd
	transEnd := transOffset + int(header.targetTableSize)*TransitionRecordSize
	if transEnd > len(buf) {
		return nil, legacyHeader{}, fmt.Errorf("%w: transition table exceeds file", ErrUnsupportedFormat)
	}

	return &core{
		alphabet: alphabet,
		index:    newLegacyIndexTable(buf[indexOffset:indexEnd]),
		trans:    newNativeTransitionTable(buf[transOffset:transEnd]),
	}, header, nil
}

// Close releases the memory mapping backing this transducer, if any. A
// transducer built via OpenLegacyBytes owns no mapping of its own.
func (l *Legacy) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
