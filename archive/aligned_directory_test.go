package archive

import "testing"

func TestReadAlignedDirectory(t *testing.T) {
	buf := buildAlignedArchive(map[string][]byte{
		"metadata":   []byte(`{"info":{"locale":"se"}}`),
		"acceptor.x": []byte("acceptor-bytes"),
	})

	entries, err := readAlignedDirectory(buf)
	if err != nil {
		t.Fatalf("readAlignedDirectory: %v", err)
	}

	if got := string(entries["metadata"].Bytes()); got != `{"info":{"locale":"se"}}` {
		t.Errorf("entries[metadata] = %q, want the original metadata bytes", got)
	}
	if got := string(entries["acceptor.x"].Bytes()); got != "acceptor-bytes" {
		t.Errorf("entries[acceptor.x] = %q, want %q", got, "acceptor-bytes")
	}
}

func TestReadAlignedDirectory_BadMagic(t *testing.T) {
	if _, err := readAlignedDirectory([]byte("nope")); err == nil {
		t.Fatal("readAlignedDirectory(bad magic) = nil error, want error")
	}
}

func TestReadAlignedDirectory_Truncated(t *testing.T) {
	buf := buildAlignedArchive(map[string][]byte{"metadata": []byte("x")})
	truncated := buf[:len(buf)-2]
	if _, err := readAlignedDirectory(truncated); err == nil {
		t.Fatal("readAlignedDirectory(truncated) = nil error, want error")
	}
}

func TestAlign8(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0}, {1, 8}, {7, 8}, {8, 8}, {9, 16},
	}
	for _, c := range cases {
		if got := align8(c.in); got != c.want {
			t.Errorf("align8(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
