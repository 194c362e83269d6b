// Package archive exposes the container formats a speller is distributed
// in: a zip-based format carrying metadata plus two transducer members, a
// minimal aligned single-file format for environments without a zip
// dependency in the loading path, and a chunked directory format for
// transducers whose tables are split across several mmap'd segments.
//
// Archive implementations own the underlying memory mappings; closing an
// Archive invalidates every transducer and Speller built from it.
package archive

import (
	"errors"
	"fmt"
	"os"

	"github.com/coregx/fstspell/speller"
)

// Sentinel errors surfaced at archive open time (spec §7).
var (
	// ErrMissingMember indicates the archive lacks a required entry
	// (metadata, acceptor, or error-model transducer).
	ErrMissingMember = errors.New("archive: missing member")

	// ErrCompressedMember indicates a member is stored compressed. Members
	// must be byte-addressable for memory mapping, so this package only
	// supports the zip STORED compression method.
	ErrCompressedMember = errors.New("archive: member is compressed")

	// ErrUnsupportedExt indicates the archive path's extension does not
	// match any known container format.
	ErrUnsupportedExt = errors.New("archive: unsupported file extension")
)

// MemberError wraps a failure to locate or map a specific archive member.
type MemberError struct {
	Member string
	Err    error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("archive: member %q: %v", e.Member, e.Err)
}

func (e *MemberError) Unwrap() error { return e.Err }

// Archive is a loaded speller container: metadata plus a ready-to-use
// speller built from its acceptor and error-model transducers.
type Archive interface {
	// Metadata returns the archive's descriptive record, if present.
	Metadata() (*Metadata, bool)

	// Speller returns the speller built from this archive's transducers.
	// The returned value is safe to share across goroutines and remains
	// valid only as long as the archive is open.
	Speller() *speller.Speller

	// Close releases the archive's backing memory mappings and file
	// descriptors. Every Speller and transducer derived from the archive
	// becomes invalid once Close returns.
	Close() error
}

// Open opens a speller archive at path. A directory is opened as a chunked
// container (see DirArchive); otherwise Open dispatches on the path's
// extension: ".zhfst" for the zip-based container, ".bhfst" for the aligned
// single-file container.
func Open(path string) (Archive, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return OpenDir(path)
	}

	switch ext(path) {
	case "zhfst":
		return OpenZip(path)
	case "bhfst":
		return OpenAligned(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExt, path)
	}
}

func ext(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
	}
	return ""
}
