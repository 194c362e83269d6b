package speller

import (
	"strings"
	"unicode"
)

// caseMutation records how a suggestion's surface case should be restored
// before it is returned to the caller (spec §4.5).
type caseMutation int

const (
	mutationNone caseMutation = iota
	mutationFirstCaps
	mutationAllCaps
)

// caseMode selects how suggestions from multiple variants are combined.
type caseMode int

const (
	modeMergeAll caseMode = iota
	modeFirstResults
)

// caseVariants is the variant set produced for one input word (spec §4.5).
type caseVariants struct {
	original string
	mutation caseMutation
	mode     caseMode
	words    []string
}

func upperCase(s string) string { return strings.ToUpper(s) }
func lowerCase(s string) string { return strings.ToLower(s) }

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func isAllCaps(word string) bool { return upperCase(word) == word }
func isFirstCaps(word string) bool { return upperFirst(word) == word }

type runeCase int

const (
	caseLower runeCase = iota
	caseUpper
	caseNeither
)

func classifyRune(r rune) runeCase {
	switch {
	case unicode.IsLower(r):
		return caseLower
	case unicode.IsUpper(r):
		return caseUpper
	default:
		return caseNeither
	}
}

// isMixedCase reports whether word's weighted case-change count exceeds 1,
// matching the upstream case-change counting rule: each lower-to-upper
// transition counts 2 and each upper-to-lower transition counts 1, so a
// single leading capital ("Cat") is not mixed case while any capital after
// a lowercase letter ("aB") is. A word containing a character that is
// neither upper- nor lowercase is never mixed case.
func isMixedCase(word string) bool {
	runes := []rune(word)
	if len(runes) == 0 {
		return false
	}

	last := classifyRune(runes[0])
	if last == caseNeither {
		return false
	}

	changes := 0
	for _, r := range runes[1:] {
		next := classifyRune(r)
		switch {
		case next == caseNeither:
			return false
		case last == caseLower && next == caseUpper:
			changes += 2
		case last == caseUpper && next == caseLower:
			changes++
		}
		last = next
	}

	return changes > 1
}

// wordVariants classifies word and builds its case-variant set (spec §4.5).
func wordVariants(word string) caseVariants {
	if isMixedCase(word) {
		return mixedCaseWordVariants(word)
	}

	var base []string
	seen := map[string]bool{}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			base = append(base, s)
		}
	}

	if isAllCaps(word) {
		add(upperFirst(lowerCase(word)))
	}
	add(lowerCase(word))

	var mutation caseMutation
	var mode caseMode
	switch {
	case isAllCaps(word):
		mutation, mode = mutationAllCaps, modeMergeAll
	case isFirstCaps(word):
		mutation, mode = mutationFirstCaps, modeMergeAll
	default:
		mutation, mode = mutationNone, modeMergeAll
	}

	return caseVariants{original: word, mutation: mutation, mode: mode, words: base}
}

// mixedCaseWordVariants handles internally-capitalized input (e.g.
// "McDonald"): the word is accepted as given, plus one variant with the
// initial letter downcased (when it is uppercase) or upcased (otherwise,
// unless that makes the whole word uppercase); it is never tried in its
// fully-lowercased form.
func mixedCaseWordVariants(word string) caseVariants {
	var words []string
	mutation := mutationNone

	if isFirstCaps(word) {
		words = append(words, lowerFirst(word))
		mutation = mutationFirstCaps
	} else {
		upper := upperFirst(word)
		if !isAllCaps(upper) {
			words = append(words, upper)
		}
	}

	return caseVariants{
		original: word,
		mutation: mutation,
		mode:     modeFirstResults,
		words:    words,
	}
}

// applyMutation restores the surface case a MergeAll suggestion should be
// returned with.
func applyMutation(value string, mutation caseMutation) string {
	switch mutation {
	case mutationFirstCaps:
		return upperFirst(value)
	case mutationAllCaps:
		return upperCase(value)
	default:
		return value
	}
}

// mergePenalty computes the additional weight a suggestion incurs when
// merging across case variants (spec §4.5 MergeAll formula).
func mergePenalty(cfg CaseHandlingConfig, primary, variant, suggestion string) float32 {
	var penaltyStart, penaltyEnd float32

	vr := []rune(variant)
	sr := []rune(suggestion)

	if len(vr) > 0 && len(sr) > 0 && sr[0] != vr[0] {
		penaltyStart = cfg.StartPenalty
	}
	if len(vr) > 0 && len(sr) > 0 && sr[len(sr)-1] != vr[len(vr)-1] {
		penaltyEnd = cfg.EndPenalty
	}

	distance := damerauLevenshteinString(primary, variant) + damerauLevenshteinString(variant, suggestion)
	penaltyMid := cfg.MidPenalty * float32(distance)

	return penaltyStart + penaltyEnd + penaltyMid
}
