package archive

import (
	"encoding/binary"
	"fmt"

	"github.com/coregx/fstspell/internal/conv"
	"github.com/coregx/fstspell/internal/mmapfile"
	"github.com/coregx/fstspell/speller"
	"github.com/coregx/fstspell/transducer"
)

// alignedMagic identifies the aligned single-file container format.
var alignedMagic = [4]byte{'F', 'S', 'B', '1'}

// AlignedArchive is a minimal single-file container (conventionally
// ".bhfst"): a fixed directory of named byte ranges, each 8-byte aligned so
// every entry can be memory-mapped as a standalone slice without a copy.
// It plays the role the upstream box_format crate plays for the original
// implementation; no equivalent container library appears anywhere in the
// dependency pack, so this package defines its own small format instead of
// reaching for a general-purpose archive/tar-style library that would need
// its own temp-file extraction step to stay byte-addressable.
//
// Layout:
//
//	offset 0:  4 bytes magic "FSB1"
//	offset 4:  u32 entry count
//	then, per entry: u32 name length, name bytes padded to the next 8-byte
//	boundary, u64 offset, u64 length
//	then every entry's bytes, each starting at its recorded offset
type AlignedArchive struct {
	file     *mmapfile.File
	metadata *Metadata
	speller  *speller.Speller
	acceptor transducer.Transducer
	errmodel transducer.Transducer
}

// Conventional member names inside an AlignedArchive.
const (
	memberMetadata      = "metadata"
	memberAcceptorAlpha = "acceptor.alphabet"
	memberAcceptorIndex = "acceptor.index"
	memberAcceptorTrans = "acceptor.transition"
	memberErrmodelAlpha = "errmodel.alphabet"
	memberErrmodelIndex = "errmodel.index"
	memberErrmodelTrans = "errmodel.transition"
)

// OpenAligned opens an aligned single-file speller archive at path.
func OpenAligned(path string) (*AlignedArchive, error) {
	mf, err := mmapfile.Open(path)
	if err != nil {
		return nil, &MemberError{Member: path, Err: err}
	}

	entries, err := readAlignedDirectory(mf.Bytes())
	if err != nil {
		mf.Close()
		return nil, &MemberError{Member: path, Err: err}
	}

	metaEntry, ok := entries[memberMetadata]
	var metadata *Metadata
	if ok {
		metadata, err = ParseMetadata(metaEntry.Bytes())
		if err != nil {
			mf.Close()
			return nil, err
		}
	}

	acceptor, err := openAlignedTransducer(entries, memberAcceptorAlpha, memberAcceptorIndex, memberAcceptorTrans)
	if err != nil {
		mf.Close()
		return nil, err
	}
	errmodel, err := openAlignedTransducer(entries, memberErrmodelAlpha, memberErrmodelIndex, memberErrmodelTrans)
	if err != nil {
		mf.Close()
		return nil, err
	}

	sp, err := speller.New(errmodel, acceptor)
	if err != nil {
		mf.Close()
		return nil, err
	}

	return &AlignedArchive{
		file:     mf,
		metadata: metadata,
		speller:  sp,
		acceptor: acceptor,
		errmodel: errmodel,
	}, nil
}

func openAlignedTransducer(entries map[string]*mmapfile.Bytes, alphaName, indexName, transName string) (transducer.Transducer, error) {
	alpha, ok := entries[alphaName]
	if !ok {
		return nil, &MemberError{Member: alphaName, Err: ErrMissingMember}
	}
	idx, ok := entries[indexName]
	if !ok {
		return nil, &MemberError{Member: indexName, Err: ErrMissingMember}
	}
	trans, ok := entries[transName]
	if !ok {
		return nil, &MemberError{Member: transName, Err: ErrMissingMember}
	}
	t, err := transducer.OpenNativeBytes(alpha.Bytes(), idx.Bytes(), trans.Bytes())
	if err != nil {
		return nil, &MemberError{Member: alphaName, Err: err}
	}
	return t, nil
}

// readAlignedDirectory parses the member directory out of an aligned
// archive's mapped bytes, wrapping each member's carved-out range in a
// mmapfile.Bytes: every member shares buf's single underlying mapping
// rather than owning its own file descriptor or copy.
func readAlignedDirectory(buf []byte) (map[string]*mmapfile.Bytes, error) {
	if len(buf) < 8 || [4]byte{buf[0], buf[1], buf[2], buf[3]} != alignedMagic {
		return nil, fmt.Errorf("bad aligned archive magic")
	}
	count := binary.LittleEndian.Uint32(buf[4:8])
	pos := 8

	entries := make(map[string]*mmapfile.Bytes, count)
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(buf) {
			return nil, fmt.Errorf("aligned archive directory truncated")
		}
		nameLen := int(binary.LittleEndian.Uint32(buf[pos:]))
		pos += 4
		if pos+nameLen > len(buf) {
			return nil, fmt.Errorf("aligned archive directory truncated")
		}
		name := string(buf[pos : pos+nameLen])
		pos += nameLen
		pos = align8(pos)

		if pos+16 > len(buf) {
			return nil, fmt.Errorf("aligned archive directory truncated")
		}
		off := binary.LittleEndian.Uint64(buf[pos:])
		length := binary.LittleEndian.Uint64(buf[pos+8:])
		pos += 16

		end := off + length
		if end > conv.IntToUint64(len(buf)) {
			return nil, fmt.Errorf("aligned archive member %q exceeds file", name)
		}
		entries[name] = mmapfile.NewBytes(buf[off:end])
	}

	return entries, nil
}

func align8(n int) int {
	return (n + 7) &^ 7
}

// Metadata returns the archive's descriptive record, if present.
func (a *AlignedArchive) Metadata() (*Metadata, bool) { return a.metadata, a.metadata != nil }

// Speller returns the speller built from this archive's transducers.
func (a *AlignedArchive) Speller() *speller.Speller { return a.speller }

// Close releases the archive's memory mapping and every transducer built
// from it.
func (a *AlignedArchive) Close() error {
	var firstErr error
	if err := a.acceptor.Close(); err != nil {
		firstErr = err
	}
	if err := a.errmodel.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
