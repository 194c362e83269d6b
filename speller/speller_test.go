package speller

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/coregx/fstspell/transducer"
)

// The synthetic alphabet shared by the acceptor and the error model below:
// epsilon plus the four letters needed to spell "cab" and "cat".
const testAlphabetJSON = `{"key_table":["","a","b","c","t"],"initial_symbol_count":5,"flag_state_size":0,"string_to_symbol":{"a":1,"b":2,"c":3,"t":4}}`

func putIndexRecord(buf []byte, rec int, sym transducer.SymbolNumber, targetOrWeightBits uint32) {
	off := rec * transducer.NativeIndexRecordSize
	binary.LittleEndian.PutUint16(buf[off:], uint16(sym))
	binary.LittleEndian.PutUint32(buf[off+4:], targetOrWeightBits)
}

func putTransitionRecord(buf []byte, rec int, in, out transducer.SymbolNumber, target uint32, weight float32) {
	off := rec * transducer.TransitionRecordSize
	binary.LittleEndian.PutUint16(buf[off:], uint16(in))
	binary.LittleEndian.PutUint16(buf[off+2:], uint16(out))
	binary.LittleEndian.PutUint32(buf[off+4:], target)
	binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(weight))
}

// newIndexBuf allocates numRecords native index records, every one
// initialized to the "absent" sentinel (NoSymbol / NoIndex) so that only
// explicitly populated slots report a transition.
func newIndexBuf(numRecords int) []byte {
	buf := make([]byte, numRecords*transducer.NativeIndexRecordSize)
	for i := 0; i < numRecords; i++ {
		putIndexRecord(buf, i, transducer.NoSymbol, uint32(transducer.NoIndex))
	}
	return buf
}

// buildTestAcceptor builds a lexicon accepting exactly {"cab", "cat"}:
//
//	state0 --c--> stateB --a--> stateC --b--> stateD (final, "cab")
//	                                   \--t--> stateE (final, "cat")
//
// state0 and stateC are index-table states (stateC branches on two
// symbols); stateB is a plain transition-table continuation (one arc).
func buildTestAcceptor(t *testing.T) *transducer.Native {
	t.Helper()

	const targetTable = uint32(transducer.TargetTable)

	idx := newIndexBuf(12)
	putIndexRecord(idx, 4, 3, targetTable+0)  // state0 sym 'c' -> transition rec 0
	putIndexRecord(idx, 9, 2, targetTable+3)  // stateC sym 'b' -> transition rec 3
	putIndexRecord(idx, 11, 4, targetTable+5) // stateC sym 't' -> transition rec 5

	noSym := transducer.NoSymbol

	trans := make([]byte, 7*transducer.TransitionRecordSize)
	putTransitionRecord(trans, 0, 3, 3, targetTable+1, 0)   // state0 --c--> stateB's final-check
	putTransitionRecord(trans, 1, noSym, noSym, 0, 0)       // stateB: not final
	putTransitionRecord(trans, 2, 1, 1, 6, 0)               // stateB --a--> stateC (index state 6)
	putTransitionRecord(trans, 3, 2, 2, targetTable+4, 0)   // stateC --b--> stateD's final-check
	putTransitionRecord(trans, 4, noSym, noSym, 1, 0)       // stateD: final, weight 0
	putTransitionRecord(trans, 5, 4, 4, targetTable+6, 0)   // stateC --t--> stateE's final-check
	putTransitionRecord(trans, 6, noSym, noSym, 1, 0)       // stateE: final, weight 0

	native, err := transducer.OpenNativeBytes([]byte(testAlphabetJSON), idx, trans)
	if err != nil {
		t.Fatalf("OpenNativeBytes(acceptor): %v", err)
	}
	return native
}

// buildTestErrorModel builds a single-state error model (state M0, final)
// that self-loops on:
//   - identity, weight 0, for each of a/b/c/t
//   - substitution between any two distinct letters, weight 1.0
//   - an epsilon-input/real-output move restoring a missing letter, weight 1.5
func buildTestErrorModel(t *testing.T) *transducer.Native {
	t.Helper()

	const targetTable = uint32(transducer.TargetTable)

	idx := newIndexBuf(6)
	putIndexRecord(idx, 0, transducer.NoSymbol, 0) // M0 itself: final, weight 0.0
	putIndexRecord(idx, 1, 0, targetTable+0)        // epsilon dispatch -> rec block at 0
	putIndexRecord(idx, 2, 1, targetTable+4)        // sym 'a' dispatch -> rec block at 4
	putIndexRecord(idx, 3, 2, targetTable+8)        // sym 'b' dispatch -> rec block at 8
	putIndexRecord(idx, 4, 3, targetTable+12)       // sym 'c' dispatch -> rec block at 12
	putIndexRecord(idx, 5, 4, targetTable+16)       // sym 't' dispatch -> rec block at 16

	trans := make([]byte, 20*transducer.TransitionRecordSize)

	letters := []transducer.SymbolNumber{1, 2, 3, 4}

	// Block 0: missing-letter restoration, input epsilon, weight 1.5.
	for i, sym := range letters {
		putTransitionRecord(trans, i, 0, sym, 0, 1.5)
	}

	// Blocks 1..4: one per input letter, one record per output letter in
	// letter order: identity (weight 0) or substitution into another letter
	// (weight 1.0).
	for li, in := range letters {
		base := 4 + li*4
		col := 0
		for _, out := range letters {
			weight := float32(1.0)
			if out == in {
				weight = 0
			}
			putTransitionRecord(trans, base+col, in, out, 0, weight)
			col++
		}
	}

	native, err := transducer.OpenNativeBytes([]byte(testAlphabetJSON), idx, trans)
	if err != nil {
		t.Fatalf("OpenNativeBytes(error model): %v", err)
	}
	return native
}

func buildTestSpeller(t *testing.T) *Speller {
	t.Helper()
	sp, err := New(buildTestErrorModel(t), buildTestAcceptor(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sp
}

func findSuggestion(suggestions []Suggestion, value string) (Suggestion, bool) {
	for _, s := range suggestions {
		if s.Value == value {
			return s, true
		}
	}
	return Suggestion{}, false
}

func TestIsCorrect_ExactMatches(t *testing.T) {
	sp := buildTestSpeller(t)

	for _, word := range []string{"cab", "cat"} {
		if !sp.IsCorrect(word) {
			t.Errorf("IsCorrect(%q) = false, want true", word)
		}
	}

	if sp.IsCorrect("bat") {
		t.Error(`IsCorrect("bat") = true, want false (only the acceptor, no error model)`)
	}
}

// noCaseConfig disables case-variant generation, so the weights asserted
// below are exactly the raw joint-traversal weights and not also subject to
// the cross-variant merge penalty (spec §4.5).
func noCaseConfig() Config {
	config := DefaultConfig()
	config.CaseHandling = nil
	return config
}

func TestSuggest_ExactMatch(t *testing.T) {
	sp := buildTestSpeller(t)

	suggestions := sp.SuggestWithConfig("cat", noCaseConfig())
	got, ok := findSuggestion(suggestions, "cat")
	if !ok {
		t.Fatalf("Suggest(%q) = %v, want it to contain %q", "cat", suggestions, "cat")
	}
	if got.Weight != 0 {
		t.Errorf("Suggest(%q)[%q].Weight = %v, want 0", "cat", "cat", got.Weight)
	}
}

func TestSuggest_Substitution(t *testing.T) {
	sp := buildTestSpeller(t)

	suggestions := sp.SuggestWithConfig("bat", noCaseConfig())
	if len(suggestions) == 0 {
		t.Fatal(`Suggest("bat") returned no suggestions`)
	}

	best := suggestions[0]
	if best.Value != "cat" || best.Weight != 1.0 {
		t.Errorf("Suggest(%q)[0] = %+v, want {cat 1}", "bat", best)
	}
}

func TestSuggest_MissingLetter(t *testing.T) {
	sp := buildTestSpeller(t)

	suggestions := sp.SuggestWithConfig("ca", noCaseConfig())

	cab, ok := findSuggestion(suggestions, "cab")
	if !ok || cab.Weight != 1.5 {
		t.Errorf(`Suggest("ca") missing "cab" at weight 1.5, got %v`, suggestions)
	}
	cat, ok := findSuggestion(suggestions, "cat")
	if !ok || cat.Weight != 1.5 {
		t.Errorf(`Suggest("ca") missing "cat" at weight 1.5, got %v`, suggestions)
	}

	if suggestions[0].Value != "cab" {
		t.Errorf(`Suggest("ca")[0].Value = %q, want "cab" (tie broken alphabetically)`, suggestions[0].Value)
	}
}

func TestSuggest_NoMatch(t *testing.T) {
	sp := buildTestSpeller(t)

	if sp.IsCorrect("xyz") {
		t.Error(`IsCorrect("xyz") = true, want false`)
	}
	if suggestions := sp.SuggestWithConfig("xyz", noCaseConfig()); len(suggestions) != 0 {
		t.Errorf(`Suggest("xyz") = %v, want empty`, suggestions)
	}
}

func TestSuggest_NBestTruncatesTies(t *testing.T) {
	sp := buildTestSpeller(t)

	config := noCaseConfig()
	config.NBest = 1

	suggestions := sp.SuggestWithConfig("ca", config)
	if len(suggestions) != 1 {
		t.Fatalf(`SuggestWithConfig("ca", nbest=1) = %v, want exactly one suggestion`, suggestions)
	}
	if suggestions[0].Value != "cab" {
		t.Errorf(`SuggestWithConfig("ca", nbest=1)[0].Value = %q, want "cab"`, suggestions[0].Value)
	}
}

func TestIsCorrect_CaseVariant(t *testing.T) {
	sp := buildTestSpeller(t)

	if !sp.IsCorrect("CAT") {
		t.Error(`IsCorrect("CAT") = false, want true (case-handling should fold to "cat")`)
	}
}

func TestIsCorrect_EmptyAndNonLetters(t *testing.T) {
	sp := buildTestSpeller(t)

	if !sp.IsCorrect("") {
		t.Error(`IsCorrect("") = false, want true`)
	}
	if !sp.IsCorrect("123") {
		t.Error(`IsCorrect("123") = false, want true (no letters to check)`)
	}
}

func TestNew_MismatchedAlphabet(t *testing.T) {
	acceptorAlpha := `{"key_table":["","@P.NUM.SG@"],"initial_symbol_count":2,"string_to_symbol":{"@P.NUM.SG@":1}}`
	errmodelAlpha := `{"key_table":["","@P.NUM.SG@"],"initial_symbol_count":2,"operations":{"1":{"operation":"PositiveSet","feature":0,"value":0}}}`

	idx := newIndexBuf(1)
	putIndexRecord(idx, 0, transducer.NoSymbol, 0) // state0: final, weight 0

	acceptor, err := transducer.OpenNativeBytes([]byte(acceptorAlpha), idx, nil)
	if err != nil {
		t.Fatalf("OpenNativeBytes(acceptor): %v", err)
	}
	errmodel, err := transducer.OpenNativeBytes([]byte(errmodelAlpha), idx, nil)
	if err != nil {
		t.Fatalf("OpenNativeBytes(errmodel): %v", err)
	}

	_, err = New(errmodel, acceptor)
	if !errors.Is(err, transducer.ErrMismatchedAlphabet) {
		t.Errorf("New(mismatched alphabets) error = %v, want ErrMismatchedAlphabet", err)
	}
}
