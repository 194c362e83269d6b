package transducer

import (
	"fmt"
	"path/filepath"

	"github.com/coregx/fstspell/internal/mmapfile"
)

// Native is a transducer loaded from the three-sibling-file native format:
// alphabet (JSON), index (8-byte records), transition (12-byte records).
type Native struct {
	core
	alphabetFile *mmapfile.File
	indexFile    *mmapfile.File
	transFile    *mmapfile.File
}

// OpenNative opens a native transducer from the directory dir, which must
// contain alphabet/index/transition siblings per the native format.
func OpenNative(dir string) (*Native, error) {
	alphabetPath := filepath.Join(dir, "alphabet")
	indexPath := filepath.Join(dir, "index")
	transPath := filepath.Join(dir, "transition")

	af, err := mmapfile.Open(alphabetPath)
	if err != nil {
		return nil, &OpenError{Path: alphabetPath, Err: fmt.Errorf("%w: %v", ErrIO, err)}
	}
	alphabet, err := ParseAlphabetJSON(af.Bytes())
	if err != nil {
		af.Close()
		return nil, &OpenError{Path: alphabetPath, Err: err}
	}

	idxFile, err := mmapfile.Open(indexPath)
	if err != nil {
		af.Close()
		return nil, &OpenError{Path: indexPath, Err: fmt.Errorf("%w: %v", ErrIO, err)}
	}

	transFile, err := mmapfile.Open(transPath)
	if err != nil {
		af.Close()
		idxFile.Close()
		return nil, &OpenError{Path: transPath, Err: fmt.Errorf("%w: %v", ErrIO, err)}
	}

	n := &Native{
		core: core{
			alphabet: alphabet,
			index:    newNativeIndexTable(idxFile.Bytes()),
			trans:    newNativeTransitionTable(transFile.Bytes()),
		},
		alphabetFile: af,
		indexFile:    idxFile,
		transFile:    transFile,
	}
	return n, nil
}

// OpenNativeBytes builds a native transducer from already-mapped byte
// slices, letting an archive carve three members out of one container
// mapping instead of opening separate file descriptors.
func OpenNativeBytes(alphabetBytes, indexBytes, transBytes []byte) (*Native, error) {
	alphabet, err := ParseAlphabetJSON(alphabetBytes)
	if err != nil {
		return nil, err
	}
	return &Native{
		core: core{
			alphabet: alphabet,
			index:    newNativeIndexTable(indexBytes),
			trans:    newNativeTransitionTable(transBytes),
		},
	}, nil
}

// Close releases the memory mappings backing this transducer. Safe to call
// even when the transducer was built via OpenNativeBytes (no-op in that
// case, since those mappings are owned by the archive).
func (n *Native) Close() error {
	var firstErr error
	for _, f := range []*mmapfile.File{n.alphabetFile, n.indexFile, n.transFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
