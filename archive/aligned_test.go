package archive

import "encoding/binary"

func putAlignedUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func putAlignedUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// buildAlignedArchive hand-assembles a minimal FSB1 buffer with the given
// named byte payloads, for exercising readAlignedDirectory without going
// through a real memory-mapped file.
func buildAlignedArchive(members map[string][]byte) []byte {
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}

	header := []byte{'F', 'S', 'B', '1'}
	header = putAlignedUint32(header, uint32(len(names)))

	var dir []byte
	for _, name := range names {
		dir = putAlignedUint32(dir, uint32(len(name)))
		dir = append(dir, name...)
		for len(dir)%8 != 0 {
			dir = append(dir, 0)
		}
		dir = putAlignedUint64(dir, 0) // offset placeholder, patched below
		dir = putAlignedUint64(dir, uint64(len(members[name])))
	}

	// Second pass: now that dir is sized, compute real offsets and rewrite.
	headerLen := len(header)
	full := append([]byte{}, header...)
	full = append(full, dir...)
	dataStart := len(full)

	// Walk the directory again to patch in offsets and append payloads in
	// the same order.
	pos := headerLen
	dataPos := dataStart
	for _, name := range names {
		nameLen := int(binary.LittleEndian.Uint32(full[pos:]))
		pos += 4 + nameLen
		for pos%8 != 0 {
			pos++
		}
		binary.LittleEndian.PutUint64(full[pos:], uint64(dataPos))
		pos += 8
		length := int(binary.LittleEndian.Uint64(full[pos:]))
		pos += 8
		dataPos += length
		full = append(full, members[name]...)
	}

	return full
}
