package speller

import "github.com/coregx/fstspell/transducer"

// fastPathMaxWords bounds the number of accepted surface forms collected
// into the fast-path automaton.
const fastPathMaxWords = 4096

// fastPathMaxLen bounds the symbol length of any collected surface form.
const fastPathMaxLen = 24

// fastPathEntry is one pending state in the bounded breadth-first walk
// collectFastPathWords performs over the acceptor.
type fastPathEntry struct {
	state  transducer.TableIndex
	output []transducer.SymbolNumber
}

// collectFastPathWords performs a bounded breadth-first walk of the
// acceptor, collecting up to fastPathMaxWords distinct, unconditionally-
// accepted surface forms of length at most fastPathMaxLen whose every arc
// carries weight 0. These are exactly the words IsCorrect would confirm via
// the plain acceptor traversal alone, with no error-model involvement and
// no weight penalty, so an exact match against this set can short-circuit
// the full joint traversal without changing the result.
//
// Epsilon and flag-diacritic arcs are not followed: a state reachable only
// through a flag diacritic is simply left out of the fast path, and
// IsCorrect falls through to the full traversal for it.
func collectFastPathWords(lexicon transducer.Transducer) []string {
	alphabet := lexicon.Alphabet()
	keyTable := alphabet.KeyTable()

	var words []string
	visited := map[transducer.TableIndex]bool{}
	queue := []fastPathEntry{{state: 0}}

	for len(queue) > 0 && len(words) < fastPathMaxWords {
		cur := queue[0]
		queue = queue[1:]

		if visited[cur.state] {
			continue
		}
		visited[cur.state] = true

		if len(cur.output) > 0 && lexicon.IsFinal(cur.state) && lexicon.FinalWeight(cur.state) == 0 {
			words = append(words, alphabet.StringFromSymbols(cur.output))
		}

		if len(cur.output) >= fastPathMaxLen {
			continue
		}

		for sym := transducer.SymbolNumber(1); int(sym) < len(keyTable); sym++ {
			if !lexicon.HasTransitions(cur.state+1, sym) {
				continue
			}
			next, ok := lexicon.Next(cur.state, sym)
			if !ok {
				continue
			}
			for {
				arc, ok := lexicon.TakeNonEpsilons(next, sym)
				if !ok {
					break
				}
				if arc.Weight == 0 {
					nextOutput := make([]transducer.SymbolNumber, len(cur.output), len(cur.output)+1)
					copy(nextOutput, cur.output)
					nextOutput = append(nextOutput, arc.Output)
					queue = append(queue, fastPathEntry{state: arc.Target, output: nextOutput})
				}
				next++
			}
		}
	}

	return words
}
