// Package mmapfile maps read-only files into memory for the transducer and
// archive packages.
//
// Every transducer table (index, transition) and every archive container is
// backed by one of these mappings: once opened, the returned byte slice is
// the permanent backing store for every offset computed against it, and the
// mapping lives as long as the File is open.
package mmapfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only memory-mapped view of a file on disk.
type File struct {
	f    *os.File
	data []byte
}

// Open maps the named file read-only for the lifetime of the returned File.
// The caller must call Close when done to release the mapping and the
// underlying file descriptor.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: open %s: %w", path, err)
	}

	mf, err := mapFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return mf, nil
}

func mapFile(f *os.File) (*File, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("mmapfile: stat %s: %w", f.Name(), err)
	}

	size := info.Size()
	if size == 0 {
		// Mapping a zero-length file fails on most platforms; return an
		// empty, harmless mapping instead of propagating that error.
		return &File{f: f, data: []byte{}}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: mmap %s: %w", f.Name(), err)
	}

	return &File{f: f, data: data}, nil
}

// Bytes returns the mapped contents. The slice is valid until Close is
// called and must not be retained past that call.
func (m *File) Bytes() []byte {
	return m.data
}

// Len returns the length of the mapped file in bytes.
func (m *File) Len() int {
	return len(m.data)
}

// Close unmaps the file and closes the underlying descriptor.
func (m *File) Close() error {
	var mErr, cErr error
	if len(m.data) > 0 {
		mErr = unix.Munmap(m.data)
	}
	cErr = m.f.Close()
	if mErr != nil {
		return mErr
	}
	return cErr
}

// Bytes wraps an in-memory byte slice (e.g. a slice carved out of a
// larger archive mapping) as a File-like view with a no-op Close. It lets
// archive members share one underlying mapping instead of opening their own
// file descriptors.
type Bytes struct {
	data []byte
}

// NewBytes wraps data without copying it.
func NewBytes(data []byte) *Bytes {
	return &Bytes{data: data}
}

// Bytes returns the wrapped slice.
func (b *Bytes) Bytes() []byte { return b.data }

// Len returns the length of the wrapped slice.
func (b *Bytes) Len() int { return len(b.data) }

// Close is a no-op: Bytes does not own any OS resource.
func (b *Bytes) Close() error { return nil }
