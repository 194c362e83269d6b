package speller

import "github.com/coregx/fstspell/transducer"

// node is one frontier entry in the joint lexicon/mutator traversal: the
// current state in each transducer, how much of the input has been
// consumed, the accumulated path weight, the flag-diacritic state, and the
// output symbols produced so far.
//
// Unlike the teacher's engine-lifetime search state, a node's lifetime is
// confined to a single is_correct/suggest call (spec §5), so nodes are
// handed out from a per-call arena instead of a pool shared across calls.
type node struct {
	lexiconState transducer.TableIndex
	mutatorState transducer.TableIndex
	inputState   uint32
	weight       transducer.Weight
	flagState    transducer.FlagState
	output       []transducer.SymbolNumber
}

// clone returns a deep copy of n allocated from a, safe to mutate
// independently of n.
func (n *node) clone(a *arena) *node {
	out := a.alloc()
	out.lexiconState = n.lexiconState
	out.mutatorState = n.mutatorState
	out.inputState = n.inputState
	out.weight = n.weight
	out.flagState = n.flagState.Clone()
	out.output = append([]transducer.SymbolNumber(nil), n.output...)
	return out
}

// withOutput returns a copy of n with sym appended to its output string
// (skipped when sym is epsilon), landing in lexiconState with weight
// incremented by delta.
func (n *node) withOutput(a *arena, sym transducer.SymbolNumber, lexiconState transducer.TableIndex, delta transducer.Weight) *node {
	out := n.clone(a)
	if sym != transducer.Epsilon {
		out.output = append(out.output, sym)
	}
	out.lexiconState = lexiconState
	out.weight += delta
	return out
}

// updateLexicon advances only the acceptor state along arc, appending its
// output symbol (rule 1 of spec §4.4.2, the epsilon/flag plain-arc case).
func (n *node) updateLexicon(a *arena, arc transducer.Arc) *node {
	out := n.clone(a)
	if arc.Output != transducer.Epsilon {
		out.output = append(out.output, arc.Output)
	}
	out.lexiconState = arc.Target
	out.weight += arc.Weight
	return out
}

// updateMutator advances only the error-model state along arc (rule 2,
// output symbol 0 case): the acceptor side and output string are
// untouched.
func (n *node) updateMutator(a *arena, arc transducer.Arc) *node {
	out := n.clone(a)
	out.mutatorState = arc.Target
	out.weight += arc.Weight
	return out
}

// update advances both states together, optionally consuming one input
// symbol and appending an output symbol, per the synchronized moves of
// rules 2–3.
func (n *node) update(a *arena, outputSym transducer.SymbolNumber, inputState uint32, mutatorState, lexiconState transducer.TableIndex, weight transducer.Weight) *node {
	out := n.clone(a)
	if outputSym != transducer.Epsilon {
		out.output = append(out.output, outputSym)
	}
	out.mutatorState = mutatorState
	out.lexiconState = lexiconState
	out.weight += weight
	out.inputState = inputState
	return out
}

// applyTransition advances only the acceptor state along arc without
// touching the flag state, used when a flag-diacritic arc's operation has
// already been resolved.
func (n *node) applyTransition(a *arena, arc transducer.Arc) *node {
	out := n.clone(a)
	out.lexiconState = arc.Target
	out.weight += arc.Weight
	return out
}

// applyOperation runs a flag-diacritic operation against n's flag state and
// arc, returning the resulting node and whether the arc is permitted (spec
// §4.2).
func (n *node) applyOperation(a *arena, op transducer.FlagDiacriticOperation, arc transducer.Arc) (*node, bool) {
	newState, ok := transducer.Apply(n.flagState, op)
	if !ok {
		return nil, false
	}
	out := n.applyTransition(a, arc)
	out.flagState = newState
	return out, true
}
