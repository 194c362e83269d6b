package transducer

import (
	"fmt"
	"path/filepath"

	"github.com/coregx/fstspell/internal/mmapfile"
)

// Chunked is a transducer whose index and transition tables are split
// across several fixed-size mapped segments instead of one contiguous
// file. Large transducers are built this way to keep any single mapping
// under a platform's mmap size ceiling.
type Chunked struct {
	core
	alphabetFile *mmapfile.File
	indexFiles   []*mmapfile.File
	transFiles   []*mmapfile.File
}

// OpenChunked opens a chunked transducer from dir, which contains an
// alphabet file plus indexChunks index-table segments and transChunks
// transition-table segments, named "index.0", "index.1", ... and
// "transition.0", "transition.1", ... respectively.
func OpenChunked(dir string, indexChunks, transChunks int) (*Chunked, error) {
	alphabetPath := filepath.Join(dir, "alphabet")
	af, err := mmapfile.Open(alphabetPath)
	if err != nil {
		return nil, &OpenError{Path: alphabetPath, Err: fmt.Errorf("%w: %v", ErrIO, err)}
	}
	alphabet, err := ParseAlphabetJSON(af.Bytes())
	if err != nil {
		af.Close()
		return nil, &OpenError{Path: alphabetPath, Err: err}
	}

	indexFiles, indexTables, err := openChunkFiles(dir, "index", indexChunks, newNativeIndexTable)
	if err != nil {
		af.Close()
		return nil, err
	}

	transFiles, transTables, err := openChunkFiles(dir, "transition", transChunks, newNativeTransitionTable)
	if err != nil {
		af.Close()
		closeAll(indexFiles)
		return nil, err
	}

	var recordsPerIndexChunk uint32
	if len(indexTables) > 0 {
		recordsPerIndexChunk = indexTables[0].size
	}
	var recordsPerTransChunk uint32
	if len(transTables) > 0 {
		recordsPerTransChunk = transTables[0].size
	}

	return &Chunked{
		core: core{
			alphabet: alphabet,
			index:    newChunkedIndexTable(indexTables, recordsPerIndexChunk),
			trans:    newChunkedTransitionTable(transTables, recordsPerTransChunk),
		},
		alphabetFile: af,
		indexFiles:   indexFiles,
		transFiles:   transFiles,
	}, nil
}

func openChunkFiles[T any](dir, prefix string, n int, newTable func([]byte) *T) ([]*mmapfile.File, []*T, error) {
	files := make([]*mmapfile.File, 0, n)
	tables := make([]*T, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s.%d", prefix, i))
		f, err := mmapfile.Open(path)
		if err != nil {
			closeAll(files)
			return nil, nil, &OpenError{Path: path, Err: fmt.Errorf("%w: %v", ErrIO, err)}
		}
		files = append(files, f)
		tables = append(tables, newTable(f.Bytes()))
	}
	return files, tables, nil
}

func closeAll(files []*mmapfile.File) {
	for _, f := range files {
		f.Close()
	}
}

// Close releases every chunk's memory mapping.
func (c *Chunked) Close() error {
	var firstErr error
	if c.alphabetFile != nil {
		if err := c.alphabetFile.Close(); err != nil {
			firstErr = err
		}
	}
	for _, f := range c.indexFiles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, f := range c.transFiles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
