package transducer

import (
	"os"
	"path/filepath"
	"testing"
)

// writeChunkFile writes one mmap-backed sibling file under dir.
func writeChunkFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

// TestOpenChunked builds the same single-arc acceptor as buildTestCore, but
// with its index and transition tables each split across two chunk files, to
// exercise chunkedIndexTable/chunkedTransitionTable's chunk-boundary
// addressing through the real OpenChunked file-opening path.
func TestOpenChunked(t *testing.T) {
	dir := t.TempDir()

	writeChunkFile(t, dir, "alphabet", []byte(`{"key_table":["","a"],"initial_symbol_count":2,"string_to_symbol":{"a":1}}`))

	// Index table: record0 (unused filler), record1 (has_transitions(0,1)
	// check), record2 (next(0,1) target) - split 2/1 across two chunks, so
	// recordsPerChunk=2.
	idx0 := make([]byte, NativeIndexRecordSize*2)
	buildIndexRecord(idx0, 0, uint16(NoSymbol), uint32(NoIndex))
	buildIndexRecord(idx0, 1, 1, uint32(NoIndex))
	idx1 := make([]byte, NativeIndexRecordSize*1)
	buildIndexRecord(idx1, 0, uint16(NoSymbol), uint32(TargetTable)+0)
	writeChunkFile(t, dir, "index.0", idx0)
	writeChunkFile(t, dir, "index.1", idx1)

	// Transition table: record0 (the 'a' arc), record1 (final sentinel) -
	// one record per chunk, so recordsPerChunk=1.
	trans0 := make([]byte, TransitionRecordSize*1)
	buildTransitionRecord(trans0, 0, 1, 1, uint32(TargetTable)+1, 0.5)
	trans1 := make([]byte, TransitionRecordSize*1)
	buildTransitionRecord(trans1, 0, uint16(NoSymbol), uint16(NoSymbol), 1, 0)
	writeChunkFile(t, dir, "transition.0", trans0)
	writeChunkFile(t, dir, "transition.1", trans1)

	c, err := OpenChunked(dir, 2, 2)
	if err != nil {
		t.Fatalf("OpenChunked: %v", err)
	}
	defer c.Close()

	if !c.HasTransitions(0, 1) {
		t.Fatal("HasTransitions(0, 'a') = false, want true")
	}

	next, ok := c.Next(0, 1)
	if !ok {
		t.Fatal("Next(0, 'a') returned !ok")
	}

	arc, ok := c.TakeNonEpsilons(next, 1)
	if !ok {
		t.Fatal("TakeNonEpsilons at resolved index returned !ok")
	}
	if arc.Target != TargetTable+1 {
		t.Errorf("arc.Target = %d, want %d", arc.Target, TargetTable+1)
	}
	if !c.IsFinal(arc.Target) {
		t.Error("IsFinal(arc.Target) = false, want true (spans chunk boundary into the second transition chunk)")
	}
}

func TestOpenChunked_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeChunkFile(t, dir, "alphabet", []byte(`{"key_table":[""],"initial_symbol_count":1}`))
	if _, err := OpenChunked(dir, 1, 1); err == nil {
		t.Fatal("OpenChunked(missing chunk files) = nil error, want error")
	}
}
