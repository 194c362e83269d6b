package transducer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/fstspell/internal/conv"
)

// Alphabet is a transducer's symbol table: the key table (symbol number ->
// text), the reverse string -> symbol map, the flag-diacritic operation
// table, and the optional identity/unknown wildcard symbols.
//
// An Alphabet is immutable once a speller is constructed from it, except
// for the one-time extension performed by CreateTranslatorFrom (spec §4.2
// "Alphabet translation").
type Alphabet struct {
	keyTable           []string
	stringToSymbol     map[string]SymbolNumber
	operations         map[SymbolNumber]FlagDiacriticOperation
	initialSymbolCount SymbolNumber
	flagStateSize      SymbolNumber
	identitySymbol     SymbolNumber
	hasIdentity        bool
	unknownSymbol      SymbolNumber
	hasUnknown         bool
}

// KeyTable returns the symbol-number-indexed text table. Index 0 is always
// epsilon (the empty string).
func (a *Alphabet) KeyTable() []string { return a.keyTable }

// InitialSymbolCount returns the size of the "original" alphabet, before
// any symbols were added by translator extension.
func (a *Alphabet) InitialSymbolCount() SymbolNumber { return a.initialSymbolCount }

// FlagStateSize returns the number of distinct flag-diacritic features, and
// therefore the required length of every FlagState used with this alphabet.
func (a *Alphabet) FlagStateSize() SymbolNumber { return a.flagStateSize }

// StringToSymbol returns the reverse lookup table from symbol text to
// symbol number. It does not include flag diacritics or epsilon.
func (a *Alphabet) StringToSymbol() map[string]SymbolNumber { return a.stringToSymbol }

// Operations returns the symbol -> flag-diacritic-operation table.
func (a *Alphabet) Operations() map[SymbolNumber]FlagDiacriticOperation { return a.operations }

// IsFlag reports whether sym is a flag diacritic.
func (a *Alphabet) IsFlag(sym SymbolNumber) bool {
	_, ok := a.operations[sym]
	return ok
}

// Identity returns the identity wildcard symbol, if the alphabet has one.
func (a *Alphabet) Identity() (SymbolNumber, bool) { return a.identitySymbol, a.hasIdentity }

// Unknown returns the unknown wildcard symbol, if the alphabet has one.
func (a *Alphabet) Unknown() (SymbolNumber, bool) { return a.unknownSymbol, a.hasUnknown }

// HasString reports whether s is present in the alphabet's string table.
func (a *Alphabet) HasString(s string) bool {
	_, ok := a.stringToSymbol[s]
	return ok
}

// Symbol looks up the symbol number for a piece of text, if present.
func (a *Alphabet) Symbol(s string) (SymbolNumber, bool) {
	sym, ok := a.stringToSymbol[s]
	return sym, ok
}

// AddSymbol appends a new symbol to the key table, assigning it the next
// available symbol number. Used only during translator construction to
// extend one alphabet with symbols unique to another.
func (a *Alphabet) AddSymbol(s string) SymbolNumber {
	num := SymbolNumber(conv.IntToUint16(len(a.keyTable)))
	a.keyTable = append(a.keyTable, s)
	a.stringToSymbol[s] = num
	return num
}

// StringFromSymbols renders a sequence of (non-epsilon) output symbols as
// the text they represent, skipping any symbol with no key-table entry.
func (a *Alphabet) StringFromSymbols(syms []SymbolNumber) string {
	var b strings.Builder
	for _, s := range syms {
		if int(s) < len(a.keyTable) {
			b.WriteString(a.keyTable[s])
		}
	}
	return b.String()
}

// CheckCompatible reports whether other can be safely merged into the
// receiver by CreateTranslatorFrom. Joint traversal reads flag-diacritic
// operations only from the acceptor's alphabet (the receiver, once
// translated); if other marks some symbol text as a flag diacritic while the
// receiver already holds that same text as an ordinary symbol (or vice
// versa), CreateTranslatorFrom's plain string-identity merge would silently
// fold the two into one symbol number whose flag-ness depends on which side
// it came from, corrupting every joint-traversal flag-diacritic check built
// on top of it. CheckCompatible catches that case up front instead of
// letting it surface as a wrong suggestion later.
func (a *Alphabet) CheckCompatible(other *Alphabet) error {
	otherKeys := other.KeyTable()
	for i := 1; i < len(otherKeys); i++ {
		text := otherKeys[i]
		if text == "" {
			continue
		}
		sym, ok := a.stringToSymbol[text]
		if !ok {
			continue
		}
		if a.IsFlag(sym) != other.IsFlag(SymbolNumber(i)) {
			return fmt.Errorf("%w: symbol %q is a flag diacritic in one alphabet but not the other", ErrMismatchedAlphabet, text)
		}
	}
	return nil
}

// CreateTranslatorFrom extends the receiver (conventionally the acceptor's
// alphabet) with every symbol that appears in other's key table but not in
// the receiver's, and returns a translator: translator[i] is the receiver's
// symbol number for other's symbol i. This is run once at speller
// construction (spec §4.2 "Alphabet translation"). Callers should run
// CheckCompatible first; CreateTranslatorFrom itself does not validate.
func (a *Alphabet) CreateTranslatorFrom(other *Alphabet) []SymbolNumber {
	otherKeys := other.KeyTable()
	translator := make([]SymbolNumber, len(otherKeys))

	for i := 1; i < len(otherKeys); i++ {
		fromSym := otherKeys[i]
		if sym, ok := a.stringToSymbol[fromSym]; ok {
			translator[i] = sym
			continue
		}
		translator[i] = a.AddSymbol(fromSym)
	}

	return translator
}

// --- JSON native format (spec §6.1) ---

type alphabetOperationJSON struct {
	Operation string       `json:"operation"`
	Feature   SymbolNumber `json:"feature"`
	Value     ValueNumber  `json:"value"`
}

type alphabetJSON struct {
	KeyTable           []string                         `json:"key_table"`
	InitialSymbolCount SymbolNumber                      `json:"initial_symbol_count"`
	FlagStateSize      SymbolNumber                      `json:"flag_state_size"`
	Length             uint64                            `json:"length"`
	StringToSymbol     map[string]SymbolNumber           `json:"string_to_symbol"`
	Operations         map[string]alphabetOperationJSON  `json:"operations"`
	IdentitySymbol     *SymbolNumber                     `json:"identity_symbol"`
	UnknownSymbol      *SymbolNumber                     `json:"unknown_symbol"`
}

var operatorToText = map[FlagDiacriticOperator]string{
	PositiveSet: "PositiveSet",
	NegativeSet: "NegativeSet",
	Require:     "Require",
	Disallow:    "Disallow",
	Clear:       "Clear",
	Unification: "Unification",
}

var textToOperator = map[string]FlagDiacriticOperator{
	"PositiveSet": PositiveSet,
	"NegativeSet": NegativeSet,
	"Require":     Require,
	"Disallow":    Disallow,
	"Clear":       Clear,
	"Unification": Unification,
}

// ParseAlphabetJSON parses the native JSON alphabet format (spec §6.1).
func ParseAlphabetJSON(data []byte) (*Alphabet, error) {
	var wire alphabetJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &AlphabetParseError{Cause: err}
	}

	ops := make(map[SymbolNumber]FlagDiacriticOperation, len(wire.Operations))
	for k, v := range wire.Operations {
		n, err := strconv.ParseUint(k, 10, 16)
		if err != nil {
			return nil, &AlphabetParseError{Cause: fmt.Errorf("invalid operation key %q: %w", k, err)}
		}
		op, ok := textToOperator[v.Operation]
		if !ok {
			return nil, &AlphabetParseError{Cause: fmt.Errorf("unknown flag operator %q", v.Operation)}
		}
		ops[SymbolNumber(n)] = FlagDiacriticOperation{Operation: op, Feature: v.Feature, Value: v.Value}
	}

	stSym := wire.StringToSymbol
	if stSym == nil {
		stSym = map[string]SymbolNumber{}
	}

	a := &Alphabet{
		keyTable:           wire.KeyTable,
		stringToSymbol:     stSym,
		operations:         ops,
		initialSymbolCount: wire.InitialSymbolCount,
		flagStateSize:      wire.FlagStateSize,
	}
	if wire.IdentitySymbol != nil {
		a.identitySymbol = *wire.IdentitySymbol
		a.hasIdentity = true
	}
	if wire.UnknownSymbol != nil {
		a.unknownSymbol = *wire.UnknownSymbol
		a.hasUnknown = true
	}

	return a, nil
}

// MarshalJSON renders the alphabet in the native JSON format, the inverse
// of ParseAlphabetJSON (spec §8 round-trip property).
func (a *Alphabet) MarshalJSON() ([]byte, error) {
	ops := make(map[string]alphabetOperationJSON, len(a.operations))
	for sym, op := range a.operations {
		ops[strconv.Itoa(int(sym))] = alphabetOperationJSON{
			Operation: operatorToText[op.Operation],
			Feature:   op.Feature,
			Value:     op.Value,
		}
	}

	wire := alphabetJSON{
		KeyTable:           a.keyTable,
		InitialSymbolCount: a.initialSymbolCount,
		FlagStateSize:      a.flagStateSize,
		Length:             conv.IntToUint64(len(a.keyTable)),
		StringToSymbol:     a.stringToSymbol,
		Operations:         ops,
	}
	if a.hasIdentity {
		wire.IdentitySymbol = &a.identitySymbol
	}
	if a.hasUnknown {
		wire.UnknownSymbol = &a.unknownSymbol
	}

	return json.Marshal(wire)
}

// --- Legacy null-terminated blob format (spec §4.2, §6.2) ---

const (
	markerEpsilon = "@_EPSILON_SYMBOL_@"
	markerIdentiy = "@_IDENTITY_SYMBOL_@"
	markerUnknown = "@_UNKNOWN_SYMBOL_@"
)

// ParseLegacyAlphabet parses the null-terminated symbol blob embedded in a
// legacy single-file transducer (spec §4.2, §6.2). symbolCount is the
// number of symbols present, including symbol 0 (epsilon), which this blob
// does not itself encode a string for.
func ParseLegacyAlphabet(buf []byte, symbolCount SymbolNumber) (*Alphabet, error) {
	a, _, err := ParseLegacyAlphabetPrefix(buf, symbolCount)
	return a, err
}

// ParseLegacyAlphabetPrefix parses the alphabet blob at the start of buf and
// additionally reports how many bytes it consumed, so a single-file legacy
// transducer (spec §6.2) can locate the index table that immediately
// follows the blob within the same mapped file.
func ParseLegacyAlphabetPrefix(buf []byte, symbolCount SymbolNumber) (*Alphabet, int, error) {
	p := &legacyAlphabetParser{
		keyTable:       make([]string, 1, int(symbolCount)), // index 0 reserved for epsilon
		stringToSymbol: map[string]SymbolNumber{},
		operations:     map[SymbolNumber]FlagDiacriticOperation{},
		featureBucket:  map[string]SymbolNumber{},
		valueBucket:    map[string]ValueNumber{},
	}

	consumed, err := p.parse(buf, symbolCount)
	if err != nil {
		return nil, 0, err
	}

	return &Alphabet{
		keyTable:           p.keyTable,
		stringToSymbol:     p.stringToSymbol,
		operations:         p.operations,
		initialSymbolCount: symbolCount,
		flagStateSize:      SymbolNumber(len(p.featureBucket)),
		identitySymbol:     p.identitySymbol,
		hasIdentity:        p.hasIdentity,
		unknownSymbol:      p.unknownSymbol,
		hasUnknown:         p.hasUnknown,
	}, consumed, nil
}

type legacyAlphabetParser struct {
	keyTable       []string
	stringToSymbol map[string]SymbolNumber
	operations     map[SymbolNumber]FlagDiacriticOperation
	featureBucket  map[string]SymbolNumber
	valueBucket    map[string]ValueNumber
	featN          SymbolNumber
	valN           ValueNumber
	identitySymbol SymbolNumber
	hasIdentity    bool
	unknownSymbol  SymbolNumber
	hasUnknown     bool
}

func (p *legacyAlphabetParser) parse(buf []byte, symbolCount SymbolNumber) (int, error) {
	offset := 0

	for i := SymbolNumber(1); i < symbolCount; i++ {
		end := bytes.IndexByte(buf[offset:], 0)
		if end < 0 {
			return 0, &AlphabetParseError{Cause: fmt.Errorf("unterminated symbol at offset %d", offset)}
		}

		key := string(buf[offset : offset+end])
		offset += end + 1

		switch {
		case key == markerEpsilon:
			p.keyTable = append(p.keyTable, "")
		case key == markerIdentiy:
			p.identitySymbol = i
			p.hasIdentity = true
			p.keyTable = append(p.keyTable, key)
		case key == markerUnknown:
			p.unknownSymbol = i
			p.hasUnknown = true
			p.keyTable = append(p.keyTable, key)
		case len(key) > 2 && key[0] == '@' && key[len(key)-1] == '@' && key[2] == '.':
			p.handleFlag(i, key)
		case len(key) > 2 && key[0] == '@' && key[len(key)-1] == '@':
			// Unrecognized marker: skip, matching upstream's catch-all.
			p.keyTable = append(p.keyTable, "")
		default:
			p.keyTable = append(p.keyTable, key)
			p.stringToSymbol[key] = i
		}
	}

	return offset, nil
}

func (p *legacyAlphabetParser) handleFlag(i SymbolNumber, key string) {
	inner := key[1 : len(key)-1] // strip surrounding '@'
	parts := strings.SplitN(inner, ".", 3)

	var opText, feature, value string
	if len(parts) > 0 {
		opText = parts[0]
	}
	if len(parts) > 1 {
		feature = parts[1]
	}
	if len(parts) > 2 {
		value = parts[2]
	}

	op, ok := flagOperatorText[opByte(opText)]
	if !ok {
		p.keyTable = append(p.keyTable, "")
		return
	}

	featID, ok := p.featureBucket[feature]
	if !ok {
		featID = p.featN
		p.featureBucket[feature] = featID
		p.featN++
	}

	valID, ok := p.valueBucket[value]
	if !ok {
		valID = p.valN
		p.valueBucket[value] = valID
		p.valN++
	}

	p.operations[i] = FlagDiacriticOperation{Operation: op, Feature: featID, Value: valID}
	p.keyTable = append(p.keyTable, "")
}

func opByte(s string) byte {
	if len(s) != 1 {
		return 0
	}
	return s[0]
}

// AlphabetParseError reports a failure while parsing an alphabet, in either
// the native JSON or the legacy blob format (spec §7 AlphabetParseError).
type AlphabetParseError struct {
	Member string
	Cause  error
}

func (e *AlphabetParseError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("transducer: parse alphabet %q: %v", e.Member, e.Cause)
	}
	return fmt.Sprintf("transducer: parse alphabet: %v", e.Cause)
}

func (e *AlphabetParseError) Unwrap() error { return e.Cause }
