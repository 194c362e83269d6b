package speller

import (
	"github.com/coregx/fstspell/transducer"
)

// maxIterations bounds one suggest() run (spec §4.4.2 "Watchdog").
const maxIterations = 10_000_000

// searchWorker drives one joint lexicon/mutator traversal bound to a single
// (speller, input symbol vector, config) tuple (spec §4.4). It is single-use
// and confined to one IsCorrect/Suggest call; its frontier, node arena, and
// corrections table are never shared across calls.
type searchWorker struct {
	speller *Speller
	input   []transducer.SymbolNumber
	config  Config
	arena   *arena
}

func newSearchWorker(sp *Speller, input []transducer.SymbolNumber, config Config) *searchWorker {
	poolSize := config.NodePoolSize
	if poolSize <= 0 {
		poolSize = 128
	}
	return &searchWorker{speller: sp, input: input, config: config, arena: newArena(poolSize)}
}

func (w *searchWorker) stateSize() int {
	return int(w.speller.lexicon.Alphabet().FlagStateSize())
}

func (w *searchWorker) startNode() *node {
	n := w.arena.alloc()
	n.flagState = make(transducer.FlagState, w.stateSize())
	return n
}

func (w *searchWorker) maxWeight() transducer.Weight {
	return w.config.maxWeight()
}

// lexiconEpsilons walks the acceptor's outgoing epsilon/flag arcs from
// cur's lexicon state (spec §4.4.2 rule 1).
func (w *searchWorker) lexiconEpsilons(maxWeight transducer.Weight, cur *node, out *[]*node) {
	lexicon := w.speller.lexicon
	operations := lexicon.Alphabet().Operations()

	if !lexicon.HasEpsilonsOrFlags(cur.lexiconState + 1) {
		return
	}

	next, ok := lexicon.Next(cur.lexiconState, 0)
	if !ok {
		return
	}

	for {
		arc, ok := lexicon.TakeEpsilonsAndFlags(next)
		if !ok {
			break
		}
		sym, hasSym := lexicon.TransitionInputSymbol(next)
		if hasSym {
			if sym == transducer.Epsilon {
				if isUnderWeightLimit(maxWeight, cur.weight+arc.Weight) {
					*out = append(*out, cur.updateLexicon(w.arena, arc))
				}
			} else if op, isFlag := operations[sym]; isFlag {
				if !isUnderWeightLimit(maxWeight, arc.Weight) {
					next++
					continue
				}
				if applied, ok := cur.applyOperation(w.arena, op, arc); ok {
					*out = append(*out, applied)
				}
			}
		}
		next++
	}
}

// mutatorEpsilons walks the error model's outgoing epsilon arcs from
// cur's mutator state (spec §4.4.2 rule 2).
func (w *searchWorker) mutatorEpsilons(maxWeight transducer.Weight, cur *node, out *[]*node) {
	mutator := w.speller.mutator
	lexicon := w.speller.lexicon
	translator := w.speller.alphabetTranslator

	if !mutator.HasTransitions(cur.mutatorState+1, transducer.Epsilon) {
		return
	}

	next, ok := mutator.Next(cur.mutatorState, 0)
	if !ok {
		return
	}

	for {
		arc, ok := mutator.TakeEpsilons(next)
		if !ok {
			break
		}

		if arc.Output == transducer.Epsilon {
			if isUnderWeightLimit(maxWeight, cur.weight+arc.Weight) {
				*out = append(*out, cur.updateMutator(w.arena, arc))
			}
			next++
			continue
		}

		transSym := translator[arc.Output]
		if !lexicon.HasTransitions(cur.lexiconState+1, transSym) {
			if transSym >= lexicon.Alphabet().InitialSymbolCount() {
				if unk, ok := lexicon.Alphabet().Unknown(); ok && lexicon.HasTransitions(cur.lexiconState+1, unk) {
					w.queueLexiconArcs(maxWeight, cur, unk, arc.Target, arc.Weight, 0, out)
				}
				if id, ok := lexicon.Alphabet().Identity(); ok && lexicon.HasTransitions(cur.lexiconState+1, id) {
					w.queueLexiconArcs(maxWeight, cur, id, arc.Target, arc.Weight, 0, out)
				}
			}
			next++
			continue
		}

		w.queueLexiconArcs(maxWeight, cur, transSym, arc.Target, arc.Weight, 0, out)
		next++
	}
}

// queueLexiconArcs walks the acceptor's contiguous run of arcs labeled
// inputSym from cur's lexicon state, pairing each with the error-model
// transition already chosen by the caller (mutatorState/mutatorWeight),
// advancing input_state by inputIncrement (spec §4.4.2 rules 2–3).
func (w *searchWorker) queueLexiconArcs(maxWeight transducer.Weight, cur *node, inputSym transducer.SymbolNumber, mutatorState transducer.TableIndex, mutatorWeight transducer.Weight, inputIncrement uint32, out *[]*node) {
	lexicon := w.speller.lexicon
	identity, hasIdentity := lexicon.Alphabet().Identity()

	next, ok := lexicon.Next(cur.lexiconState, inputSym)
	if !ok {
		return
	}

	for {
		arc, ok := lexicon.TakeNonEpsilons(next, inputSym)
		if !ok {
			break
		}

		sym := arc.Output
		if hasIdentity && sym == identity {
			sym = w.input[cur.inputState]
		}

		weight := cur.weight + arc.Weight + mutatorWeight
		if isUnderWeightLimit(maxWeight, weight) {
			newNode := cur.update(w.arena, sym, cur.inputState+inputIncrement, mutatorState, arc.Target, arc.Weight+mutatorWeight)
			*out = append(*out, newNode)
		}

		next++
	}
}

// queueMutatorArcs walks the error model's contiguous run of arcs labeled
// inputSym from cur's mutator state, joining each with the matching
// acceptor transition (spec §4.4.2 rule 3).
func (w *searchWorker) queueMutatorArcs(maxWeight transducer.Weight, cur *node, inputSym transducer.SymbolNumber, out *[]*node) {
	mutator := w.speller.mutator
	lexicon := w.speller.lexicon
	translator := w.speller.alphabetTranslator

	next, ok := mutator.Next(cur.mutatorState, inputSym)
	if !ok {
		return
	}

	for {
		arc, ok := mutator.TakeNonEpsilons(next, inputSym)
		if !ok {
			break
		}

		if arc.Output == transducer.Epsilon {
			if isUnderWeightLimit(maxWeight, cur.weight+arc.Weight) {
				newNode := cur.update(w.arena, transducer.Epsilon, cur.inputState+1, arc.Target, cur.lexiconState, arc.Weight)
				*out = append(*out, newNode)
			}
			next++
			continue
		}

		transSym := translator[arc.Output]
		if !lexicon.HasTransitions(cur.lexiconState+1, transSym) {
			if transSym >= lexicon.Alphabet().InitialSymbolCount() {
				if unk, ok := lexicon.Alphabet().Unknown(); ok && lexicon.HasTransitions(cur.lexiconState+1, unk) {
					w.queueLexiconArcs(maxWeight, cur, unk, arc.Target, arc.Weight, 1, out)
				}
				if id, ok := lexicon.Alphabet().Identity(); ok && lexicon.HasTransitions(cur.lexiconState+1, id) {
					w.queueLexiconArcs(maxWeight, cur, id, arc.Target, arc.Weight, 1, out)
				}
			}
			next++
			continue
		}

		w.queueLexiconArcs(maxWeight, cur, transSym, arc.Target, arc.Weight, 1, out)
		next++
	}
}

// consumeInput matches the next input symbol against the error model,
// falling back to identity/unknown when the symbol is unknown to it (spec
// §4.4.2 rule 3).
func (w *searchWorker) consumeInput(maxWeight transducer.Weight, cur *node, out *[]*node) {
	mutator := w.speller.mutator

	if int(cur.inputState) >= len(w.input) {
		return
	}
	inputSym := w.input[cur.inputState]

	if !mutator.HasTransitions(cur.mutatorState+1, inputSym) {
		if inputSym >= mutator.Alphabet().InitialSymbolCount() {
			if id, ok := mutator.Alphabet().Identity(); ok && mutator.HasTransitions(cur.mutatorState+1, id) {
				w.queueMutatorArcs(maxWeight, cur, id, out)
			}
			if unk, ok := mutator.Alphabet().Unknown(); ok && mutator.HasTransitions(cur.mutatorState+1, unk) {
				w.queueMutatorArcs(maxWeight, cur, unk, out)
			}
		}
		return
	}

	w.queueMutatorArcs(maxWeight, cur, inputSym, out)
}

// lexiconConsume is the is-correct-only counterpart of consumeInput: it
// matches the next input symbol directly against the acceptor, with no
// error-model involvement (spec §4.4.3).
func (w *searchWorker) lexiconConsume(maxWeight transducer.Weight, cur *node, out *[]*node) {
	mutator := w.speller.mutator
	lexicon := w.speller.lexicon
	translator := w.speller.alphabetTranslator

	if int(cur.inputState) >= len(w.input) {
		return
	}

	raw := w.input[cur.inputState]
	inputSym := transducer.NoSymbol
	if int(raw) < len(translator) {
		inputSym = translator[raw]
	}
	nextLexiconState := cur.lexiconState + 1

	if !lexicon.HasTransitions(nextLexiconState, inputSym) {
		if inputSym >= lexicon.Alphabet().InitialSymbolCount() {
			if id, ok := mutator.Alphabet().Identity(); ok && lexicon.HasTransitions(nextLexiconState, id) {
				w.queueLexiconArcs(maxWeight, cur, id, cur.mutatorState, 0, 1, out)
			}
			if unk, ok := mutator.Alphabet().Unknown(); ok && lexicon.HasTransitions(nextLexiconState, unk) {
				w.queueLexiconArcs(maxWeight, cur, unk, cur.mutatorState, 0, 1, out)
			}
		}
		return
	}

	w.queueLexiconArcs(maxWeight, cur, inputSym, cur.mutatorState, 0, 1, out)
}

// updateWeightLimit recomputes the weight ceiling (spec §4.4.1): the
// configured max_weight, tightened by the current beam around
// bestWeight, tightened further to the current n-th-best suggestion's
// weight once that many suggestions exist.
func (w *searchWorker) updateWeightLimit(bestWeight transducer.Weight, suggestions []Suggestion) transducer.Weight {
	maxWeight := w.config.maxWeight()

	if w.config.HasBeam {
		candidate := bestWeight + w.config.Beam
		if candidate < maxWeight {
			maxWeight = candidate
		}
	}

	if w.config.NBest > 0 && len(suggestions) >= w.config.NBest {
		if nth := suggestions[len(suggestions)-1].Weight; nth < maxWeight {
			maxWeight = nth
		}
	}

	return maxWeight
}

func isUnderWeightLimit(maxWeight, w transducer.Weight) bool {
	return w <= maxWeight
}

// isCorrect runs the restricted is-correct traversal: acceptor epsilons/
// flags and input consumption only, terminating on the first joint-final
// state reached at end of input (spec §4.4.3).
func (w *searchWorker) isCorrect() bool {
	maxWeight := w.maxWeight()
	frontier := []*node{w.startNode()}

	for len(frontier) > 0 {
		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		if int(cur.inputState) == len(w.input) && w.speller.lexicon.IsFinal(cur.lexiconState) {
			return true
		}

		w.lexiconEpsilons(maxWeight, cur, &frontier)
		w.lexiconConsume(maxWeight, cur, &frontier)
	}

	return false
}

// suggest runs the full joint traversal, returning suggestions sorted by
// (weight, value) and truncated to NBest (spec §4.4).
func (w *searchWorker) suggest() []Suggestion {
	frontier := []*node{w.startNode()}
	corrections := map[string]transducer.Weight{}
	var suggestions []Suggestion
	bestWeight := w.config.maxWeight()

	iterations := 0

	for len(frontier) > 0 {
		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		iterations++

		maxWeight := w.updateWeightLimit(bestWeight, suggestions)

		if iterations >= maxIterations {
			break
		}

		if !isUnderWeightLimit(maxWeight, cur.weight) {
			continue
		}

		w.lexiconEpsilons(maxWeight, cur, &frontier)
		w.mutatorEpsilons(maxWeight, cur, &frontier)

		if int(cur.inputState) != len(w.input) {
			w.consumeInput(maxWeight, cur, &frontier)
			continue
		}

		if !w.speller.mutator.IsFinal(cur.mutatorState) || !w.speller.lexicon.IsFinal(cur.lexiconState) {
			continue
		}

		weight := cur.weight + w.speller.lexicon.FinalWeight(cur.lexiconState) + w.speller.mutator.FinalWeight(cur.mutatorState)
		if !isUnderWeightLimit(maxWeight, weight) {
			continue
		}

		str := w.speller.lexicon.Alphabet().StringFromSymbols(cur.output)

		if weight < bestWeight {
			bestWeight = weight
		}

		if best, ok := corrections[str]; !ok || weight < best {
			corrections[str] = weight
		}

		suggestions = suggestionsFromCorrections(corrections, w.config.NBest)
	}

	return suggestions
}
