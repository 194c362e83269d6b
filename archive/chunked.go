package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/coregx/fstspell/speller"
	"github.com/coregx/fstspell/transducer"
)

// Conventional subdirectory names inside a DirArchive.
const (
	dirAcceptor = "acceptor"
	dirErrmodel = "errmodel"
)

// DirArchive is a directory-based container whose acceptor and error-model
// transducers are each split across chunked mmap'd segments (the chunked
// THFST layout transducer.Chunked implements), rather than one contiguous
// file - the layout used once a transducer's tables are too large for a
// single memory mapping to be worth holding at once.
//
// Layout:
//
//	dir/metadata                          (optional, the same JSON record)
//	dir/acceptor/alphabet
//	dir/acceptor/index.0, index.1, ...
//	dir/acceptor/transition.0, transition.1, ...
//	dir/errmodel/alphabet
//	dir/errmodel/index.0, index.1, ...
//	dir/errmodel/transition.0, transition.1, ...
type DirArchive struct {
	metadata *Metadata
	speller  *speller.Speller
	acceptor *transducer.Chunked
	errmodel *transducer.Chunked
}

// OpenDir opens a chunked directory archive at dir, auto-detecting each
// transducer's chunk count from the index.N/transition.N segment files
// present under its acceptor/errmodel subdirectory.
func OpenDir(dir string) (*DirArchive, error) {
	var metadata *Metadata
	if data, err := os.ReadFile(filepath.Join(dir, memberMetadata)); err == nil {
		metadata, err = ParseMetadata(data)
		if err != nil {
			return nil, err
		}
	}

	acceptor, err := openChunkedMember(dir, dirAcceptor)
	if err != nil {
		return nil, err
	}
	errmodel, err := openChunkedMember(dir, dirErrmodel)
	if err != nil {
		acceptor.Close()
		return nil, err
	}

	sp, err := speller.New(errmodel, acceptor)
	if err != nil {
		acceptor.Close()
		errmodel.Close()
		return nil, err
	}

	return &DirArchive{
		metadata: metadata,
		speller:  sp,
		acceptor: acceptor,
		errmodel: errmodel,
	}, nil
}

func openChunkedMember(dir, name string) (*transducer.Chunked, error) {
	sub := filepath.Join(dir, name)

	indexChunks, err := countChunkFiles(sub, "index")
	if err != nil {
		return nil, &MemberError{Member: name, Err: err}
	}
	transChunks, err := countChunkFiles(sub, "transition")
	if err != nil {
		return nil, &MemberError{Member: name, Err: err}
	}

	t, err := transducer.OpenChunked(sub, indexChunks, transChunks)
	if err != nil {
		return nil, &MemberError{Member: name, Err: err}
	}
	return t, nil
}

// countChunkFiles counts the "prefix.0", "prefix.1", ... sibling files
// present in dir, stopping at the first missing index.
func countChunkFiles(dir, prefix string) (int, error) {
	n := 0
	for {
		path := filepath.Join(dir, fmt.Sprintf("%s.%d", prefix, n))
		if _, err := os.Stat(path); err != nil {
			break
		}
		n++
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no %s.N chunk files found in %s", ErrMissingMember, prefix, dir)
	}
	return n, nil
}

// Metadata returns the archive's descriptive record, if present.
func (a *DirArchive) Metadata() (*Metadata, bool) { return a.metadata, a.metadata != nil }

// Speller returns the speller built from this archive's transducers.
func (a *DirArchive) Speller() *speller.Speller { return a.speller }

// Close releases the archive's memory mappings and every transducer built
// from it.
func (a *DirArchive) Close() error {
	var firstErr error
	if err := a.acceptor.Close(); err != nil {
		firstErr = err
	}
	if err := a.errmodel.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
