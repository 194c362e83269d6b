// Package fstspell implements a weighted finite-state-transducer spell
// checker: a lexicon (acceptor) and an error model (mutator) traversed
// jointly to confirm or correct a word, loaded from a zip-based
// (".zhfst") container, an aligned single-file (".bhfst") container, or
// a chunked directory container for oversized transducer tables.
//
// The only exported entry point is Open; everything else is reached
// through the returned Archive and the Speller it exposes.
package fstspell

import "github.com/coregx/fstspell/archive"

// Archive is a loaded speller container. See archive.Archive.
type Archive = archive.Archive

// Open opens a speller archive at path: a directory is opened as a
// chunked container, otherwise Open dispatches on the path's extension
// (".zhfst" for the zip-based container, ".bhfst" for the aligned
// single-file container), failing on I/O or an unsupported extension
// (spec §6.3).
func Open(path string) (Archive, error) {
	return archive.Open(path)
}
