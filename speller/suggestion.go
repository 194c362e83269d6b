package speller

import (
	"sort"

	"github.com/coregx/fstspell/transducer"
)

// Suggestion is one corrected spelling with its accumulated path weight
// (lower is better).
type Suggestion struct {
	Value  string
	Weight transducer.Weight
}

// sortSuggestions orders suggestions by (weight, value), non-decreasing
// (spec §8 "Sorting").
func sortSuggestions(s []Suggestion) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Weight != s[j].Weight {
			return s[i].Weight < s[j].Weight
		}
		return s[i].Value < s[j].Value
	})
}

// suggestionsFromCorrections turns a string->best-weight map into a sorted,
// optionally truncated suggestion list.
func suggestionsFromCorrections(corrections map[string]transducer.Weight, nBest int) []Suggestion {
	out := make([]Suggestion, 0, len(corrections))
	for value, weight := range corrections {
		out = append(out, Suggestion{Value: value, Weight: weight})
	}
	sortSuggestions(out)
	if nBest > 0 && len(out) > nBest {
		out = out[:nBest]
	}
	return out
}
