package archive

import (
	"io"
	"testing"
)

func TestByteReaderAt(t *testing.T) {
	r := newByteReaderAt([]byte("hello world"))

	buf := make([]byte, 5)
	n, err := r.ReadAt(buf, 0)
	if err != nil || n != 5 || string(buf) != "hello" {
		t.Errorf("ReadAt(0) = (%q, %d, %v), want (\"hello\", 5, nil)", buf[:n], n, err)
	}

	n, err = r.ReadAt(buf, 6)
	if err != nil || n != 5 || string(buf) != "world" {
		t.Errorf("ReadAt(6) = (%q, %d, %v), want (\"world\", 5, nil)", buf[:n], n, err)
	}
}

func TestByteReaderAt_PastEnd(t *testing.T) {
	r := newByteReaderAt([]byte("hi"))

	buf := make([]byte, 5)
	n, err := r.ReadAt(buf, 0)
	if err != io.EOF || n != 2 {
		t.Errorf("ReadAt(short read) = (%d, %v), want (2, io.EOF)", n, err)
	}

	n, err = r.ReadAt(buf, 10)
	if err != io.EOF || n != 0 {
		t.Errorf("ReadAt(offset beyond data) = (%d, %v), want (0, io.EOF)", n, err)
	}
}
