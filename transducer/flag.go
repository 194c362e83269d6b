package transducer

// FlagDiacriticOperator is the operator half of a flag-diacritic operation.
type FlagDiacriticOperator int

const (
	// PositiveSet sets a feature to a value; arc always permitted.
	PositiveSet FlagDiacriticOperator = iota
	// NegativeSet sets a feature to the negation of a value; arc always
	// permitted.
	NegativeSet
	// Require permits the arc only if the feature currently holds the
	// required value (or any nonzero value, when value == 0).
	Require
	// Disallow permits the arc only if the feature does not currently
	// hold the disallowed value (or, when value == 0, only if the feature
	// is unset).
	Disallow
	// Clear resets a feature to zero; arc always permitted.
	Clear
	// Unification permits the arc if the feature is unset, already equal
	// to the value, or negatively set to something other than -value; it
	// then sets the feature to the value.
	Unification
)

// flagOperatorText maps the textual operator letter used in alphabet
// symbols ("@P.feat.val@") to its FlagDiacriticOperator.
var flagOperatorText = map[byte]FlagDiacriticOperator{
	'P': PositiveSet,
	'N': NegativeSet,
	'R': Require,
	'D': Disallow,
	'C': Clear,
	'U': Unification,
}

// FlagDiacriticOperation is a single compiled flag diacritic: an operator
// over a feature id with a value.
type FlagDiacriticOperation struct {
	Operation FlagDiacriticOperator
	Feature   SymbolNumber
	Value     ValueNumber
}

// FlagState is the per-path vector of feature values, indexed by feature
// id. Its length always equals the owning alphabet's FlagStateSize.
type FlagState []ValueNumber

// Clone returns a copy of the flag state, safe to mutate independently of
// the original (joint search nodes each carry their own flag state).
func (s FlagState) Clone() FlagState {
	out := make(FlagState, len(s))
	copy(out, s)
	return out
}

// Apply runs a flag-diacritic operation against state, per spec §4.2.
// It returns the (possibly unmodified) resulting state and whether the arc
// carrying this operation is permitted. When permitted and a mutation is
// required, the original slice may be returned unmodified if no change was
// necessary, and a modified copy otherwise — callers should always use the
// returned state in place of their own.
func Apply(state FlagState, op FlagDiacriticOperation) (FlagState, bool) {
	f := int(op.Feature)
	if f < 0 || f >= len(state) {
		return state, false
	}

	switch op.Operation {
	case PositiveSet:
		out := state.Clone()
		out[f] = op.Value
		return out, true
	case NegativeSet:
		out := state.Clone()
		out[f] = -op.Value
		return out, true
	case Require:
		if op.Value == 0 {
			return state, state[f] != 0
		}
		return state, state[f] == op.Value
	case Disallow:
		if op.Value == 0 {
			return state, state[f] == 0
		}
		return state, state[f] != op.Value
	case Clear:
		if state[f] == 0 {
			return state, true
		}
		out := state.Clone()
		out[f] = 0
		return out, true
	case Unification:
		cur := state[f]
		ok := cur == 0 || cur == op.Value || (cur < 0 && cur != -op.Value)
		if !ok {
			return state, false
		}
		out := state.Clone()
		out[f] = op.Value
		return out, true
	default:
		return state, false
	}
}
