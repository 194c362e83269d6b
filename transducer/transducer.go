package transducer

// Arc is a single transition read out of the transition table: the state it
// leads to, the symbol it emits, and its weight.
type Arc struct {
	Target TableIndex
	Output SymbolNumber
	Weight Weight
}

// indexTable is the jump table keyed by (state, input symbol). Backends
// (native, chunked, legacy) implement it over their own on-disk layout;
// every read is a bounds-checked O(1) offset computation that never fails.
type indexTable interface {
	InputSymbol(i TableIndex) (SymbolNumber, bool)
	Target(i TableIndex) (TableIndex, bool)
	FinalWeight(i TableIndex) (Weight, bool)
	Len() uint32
}

// transitionTable is the arc table: one record per (state, input, output,
// target, weight) tuple, indexed contiguously.
type transitionTable interface {
	InputSymbol(i TableIndex) (SymbolNumber, bool)
	OutputSymbol(i TableIndex) (SymbolNumber, bool)
	Target(i TableIndex) (TableIndex, bool)
	Weight(i TableIndex) (Weight, bool)
	Len() uint32
}

// Transducer is the arc-enumeration protocol the search worker drives
// during joint acceptor/error-model traversal. Every method is a pure,
// non-failing read: absence of a transition is reported via the bool/ok
// return, never an error.
type Transducer interface {
	// Alphabet returns the transducer's symbol table and flag-diacritic
	// operations.
	Alphabet() *Alphabet

	// IsFinal reports whether state i is an accepting state.
	IsFinal(i TableIndex) bool

	// FinalWeight returns the weight added on accepting at state i. Only
	// meaningful when IsFinal(i) is true.
	FinalWeight(i TableIndex) Weight

	// HasTransitions reports whether state i has an outgoing arc labeled
	// with the input symbol sym.
	HasTransitions(i TableIndex, sym SymbolNumber) bool

	// HasEpsilonsOrFlags reports whether the arc (or arc run) starting at
	// i begins with an epsilon or flag-diacritic input symbol.
	HasEpsilonsOrFlags(i TableIndex) bool

	// TransitionInputSymbol returns the input symbol labeling the
	// transition-table arc at i (i must already be a transition-table
	// index, i.e. the caller has resolved it via Next).
	TransitionInputSymbol(i TableIndex) (SymbolNumber, bool)

	// TakeEpsilons returns the arc at i if its input symbol is epsilon.
	TakeEpsilons(i TableIndex) (Arc, bool)

	// TakeEpsilonsAndFlags returns the arc at i if its input symbol is
	// epsilon or a flag diacritic.
	TakeEpsilonsAndFlags(i TableIndex) (Arc, bool)

	// TakeNonEpsilons returns the arc at i if its input symbol equals sym.
	TakeNonEpsilons(i TableIndex, sym SymbolNumber) (Arc, bool)

	// Next looks up sym in the index-table entry of state i and returns the
	// transition-table offset of the first arc labeled sym; callers read
	// arcs with a Take* method from that offset onward until it reports
	// no match.
	Next(i TableIndex, sym SymbolNumber) (TableIndex, bool)

	// Close releases any backing memory mappings or file descriptors.
	Close() error
}

// core implements the shared dispatch every backend (Native, Chunked,
// Legacy) reuses: whether a TableIndex addresses the index table or the
// transition table, and the routing between the two. Backends embed core
// and supply their own indexTable/transitionTable implementations.
type core struct {
	alphabet *Alphabet
	index    indexTable
	trans    transitionTable
}

func (c *core) Alphabet() *Alphabet { return c.alphabet }

func (c *core) IsFinal(i TableIndex) bool {
	if i.IsTransitionIndex() {
		t := i.ToTransition()
		_, hasIn := c.trans.InputSymbol(t)
		_, hasOut := c.trans.OutputSymbol(t)
		target, hasTarget := c.trans.Target(t)
		return !hasIn && !hasOut && hasTarget && target == 1
	}
	_, hasIn := c.index.InputSymbol(i)
	_, hasTarget := c.index.Target(i)
	return !hasIn && hasTarget
}

func (c *core) FinalWeight(i TableIndex) Weight {
	if i.IsTransitionIndex() {
		w, ok := c.trans.Weight(i.ToTransition())
		if !ok {
			return WeightInfinite
		}
		return w
	}
	w, ok := c.index.FinalWeight(i)
	if !ok {
		return WeightInfinite
	}
	return w
}

func (c *core) HasTransitions(i TableIndex, sym SymbolNumber) bool {
	if i.IsTransitionIndex() {
		res, ok := c.trans.InputSymbol(i.ToTransition())
		return ok && res == sym
	}
	res, ok := c.index.InputSymbol(i + TableIndex(sym))
	return ok && res == sym
}

func (c *core) HasEpsilonsOrFlags(i TableIndex) bool {
	if i.IsTransitionIndex() {
		sym, ok := c.trans.InputSymbol(i.ToTransition())
		if !ok {
			return false
		}
		return sym == Epsilon || c.alphabet.IsFlag(sym)
	}
	sym, ok := c.index.InputSymbol(i)
	return ok && sym == Epsilon
}

func (c *core) TransitionInputSymbol(i TableIndex) (SymbolNumber, bool) {
	return c.trans.InputSymbol(i)
}

func (c *core) arc(i TableIndex) (Arc, bool) {
	target, hasTarget := c.trans.Target(i)
	output, _ := c.trans.OutputSymbol(i)
	weight, _ := c.trans.Weight(i)
	if !hasTarget {
		return Arc{}, false
	}
	return Arc{Target: target, Output: output, Weight: weight}, true
}

func (c *core) TakeEpsilons(i TableIndex) (Arc, bool) {
	sym, ok := c.trans.InputSymbol(i)
	if !ok || sym != Epsilon {
		return Arc{}, false
	}
	return c.arc(i)
}

func (c *core) TakeEpsilonsAndFlags(i TableIndex) (Arc, bool) {
	sym, ok := c.trans.InputSymbol(i)
	if !ok {
		return Arc{}, false
	}
	if sym != Epsilon && !c.alphabet.IsFlag(sym) {
		return Arc{}, false
	}
	return c.arc(i)
}

func (c *core) TakeNonEpsilons(i TableIndex, sym SymbolNumber) (Arc, bool) {
	in, ok := c.trans.InputSymbol(i)
	if !ok || in != sym {
		return Arc{}, false
	}
	return c.arc(i)
}

func (c *core) Next(i TableIndex, sym SymbolNumber) (TableIndex, bool) {
	if i.IsTransitionIndex() {
		return i.ToTransition() + 1, true
	}
	target, ok := c.index.Target(i + 1 + TableIndex(sym))
	if !ok {
		return 0, false
	}
	if target < TargetTable {
		return 0, false
	}
	return target.ToTransition(), true
}
