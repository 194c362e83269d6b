package speller

import (
	"unicode"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/fstspell/transducer"
)

// Speller is the orchestrator bound to one (error model, acceptor) pair
// (spec §4.3). It is safe for concurrent use from multiple goroutines: both
// transducers and the alphabet translator are read-only after New returns.
type Speller struct {
	mutator            transducer.Transducer // error model
	lexicon            transducer.Transducer // acceptor
	alphabetTranslator []transducer.SymbolNumber
	fastPath           *ahocorasick.Automaton
}

// New builds a Speller from an error-model transducer and an acceptor
// transducer, extending the acceptor's alphabet with any symbol unique to
// the error model (spec §4.2 "Alphabet translation").
func New(errorModel, acceptor transducer.Transducer) (*Speller, error) {
	if err := acceptor.Alphabet().CheckCompatible(errorModel.Alphabet()); err != nil {
		return nil, err
	}
	translator := acceptor.Alphabet().CreateTranslatorFrom(errorModel.Alphabet())

	sp := &Speller{
		mutator:            errorModel,
		lexicon:            acceptor,
		alphabetTranslator: translator,
	}

	if words := collectFastPathWords(acceptor); len(words) > 0 {
		builder := ahocorasick.NewBuilder()
		for _, w := range words {
			builder.AddPattern([]byte(w))
		}
		if auto, err := builder.Build(); err == nil {
			sp.fastPath = auto
		}
	}

	return sp, nil
}

// fastPathHit reports whether word is an exact match in the fast-path
// automaton: the whole word, not merely a substring of it, must be one of
// the collected patterns.
func (sp *Speller) fastPathHit(word string) bool {
	if sp.fastPath == nil {
		return false
	}
	m := sp.fastPath.Find([]byte(word), 0)
	return m != nil && m.Start == 0 && m.End == len(word)
}

// toInputVec encodes word as a symbol vector over the error model's
// alphabet, mapping any character absent from the key table to the
// alphabet's unknown symbol, or to transducer.NoSymbol if it has none (spec
// §4.3). NoSymbol, not epsilon, is the right absent-symbol sentinel here: it
// can never collide with a real epsilon-labeled arc in the mutator (e.g. an
// insertion move), which epsilon(0) would.
func (sp *Speller) toInputVec(word string) []transducer.SymbolNumber {
	alphabet := sp.mutator.Alphabet()
	syms := make([]transducer.SymbolNumber, 0, len(word))
	for _, r := range word {
		if sym, ok := alphabet.Symbol(string(r)); ok {
			syms = append(syms, sym)
			continue
		}
		if unk, ok := alphabet.Unknown(); ok {
			syms = append(syms, unk)
			continue
		}
		syms = append(syms, transducer.NoSymbol)
	}
	return syms
}

func isAllNonLetters(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// IsCorrect reports whether word is accepted by the acceptor under the
// default configuration.
func (sp *Speller) IsCorrect(word string) bool {
	return sp.IsCorrectWithConfig(word, DefaultConfig())
}

// IsCorrectWithConfig reports whether word (or, when case-handling is
// enabled, any of its case variants) is accepted by the acceptor alone,
// omitting error-model moves (spec §4.3 "Is-correct decision").
func (sp *Speller) IsCorrectWithConfig(word string, config Config) bool {
	if word == "" {
		return true
	}
	if isAllNonLetters(word) {
		return true
	}
	if sp.fastPathHit(word) {
		return true
	}

	variants := []string{word}
	if config.CaseHandling != nil {
		cv := wordVariants(word)
		variants = append(variants, cv.words...)
	}

	for _, v := range variants {
		worker := newSearchWorker(sp, sp.toInputVec(v), config)
		if worker.isCorrect() {
			return true
		}
	}

	return false
}

// Suggest returns ranked corrections for word under the default
// configuration.
func (sp *Speller) Suggest(word string) []Suggestion {
	return sp.SuggestWithConfig(word, DefaultConfig())
}

// SuggestWithConfig returns ranked corrections for word (spec §4.3
// "Suggest decision"), applying case-variant generation and merging when
// config.CaseHandling is set.
func (sp *Speller) SuggestWithConfig(word string, config Config) []Suggestion {
	if word == "" {
		return nil
	}

	if config.CaseHandling != nil {
		return sp.suggestCase(wordVariants(word), config, *config.CaseHandling)
	}
	return sp.suggestSingle(word, config)
}

func (sp *Speller) suggestSingle(word string, config Config) []Suggestion {
	worker := newSearchWorker(sp, sp.toInputVec(word), config)
	return worker.suggest()
}

func (sp *Speller) suggestCase(cv caseVariants, config Config, caseHandling CaseHandlingConfig) []Suggestion {
	best := map[string]transducer.Weight{}

	primary := cv.original
	if len(cv.words) > 0 {
		primary = cv.words[0]
	}

	variants := append([]string{cv.original}, cv.words...)
	for _, v := range variants {
		worker := newSearchWorker(sp, sp.toInputVec(v), config)
		suggestions := worker.suggest()

		for i := range suggestions {
			suggestions[i].Value = applyMutation(suggestions[i].Value, cv.mutation)
		}

		switch cv.mode {
		case modeMergeAll:
			for _, s := range suggestions {
				extra := mergePenalty(caseHandling, primary, v, s.Value)
				weight := s.Weight + transducer.Weight(extra)
				if existing, ok := best[s.Value]; !ok || weight < existing {
					best[s.Value] = weight
				}
			}
		case modeFirstResults:
			if len(suggestions) > 0 {
				return suggestions
			}
		}
	}

	if len(best) == 0 {
		return nil
	}

	return suggestionsFromCorrections(best, config.NBest)
}
