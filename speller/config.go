package speller

import "github.com/coregx/fstspell/transducer"

// CaseHandlingConfig carries the penalties applied when merging suggestions
// collected from multiple case variants of one input (spec §4.5 MergeAll).
type CaseHandlingConfig struct {
	// StartPenalty is added when a suggestion's first character differs
	// from the variant's first character.
	StartPenalty float32

	// EndPenalty is added when a suggestion's last character differs from
	// the variant's last character.
	EndPenalty float32

	// MidPenalty is multiplied by the summed Damerau-Levenshtein distance
	// (primary-to-variant plus variant-to-suggestion) and added as well.
	MidPenalty float32
}

// DefaultCaseHandlingConfig returns the reference penalties {10, 10, 5}.
func DefaultCaseHandlingConfig() CaseHandlingConfig {
	return CaseHandlingConfig{
		StartPenalty: 10.0,
		EndPenalty:   10.0,
		MidPenalty:   5.0,
	}
}

// Config controls one IsCorrect/Suggest call (spec §4.3).
type Config struct {
	// NBest keeps at most this many suggestions, sorted by (weight, value).
	// Zero means unbounded.
	NBest int

	// MaxWeight discards any path whose accumulated weight exceeds it. It
	// applies only when HasMaxWeight is true (a zero MaxWeight is then a
	// ceiling of zero); otherwise the ceiling is +∞. HasBeam plays the
	// same role for Beam.
	MaxWeight    transducer.Weight
	HasMaxWeight bool

	// Beam tightens the ceiling dynamically to best_so_far + Beam.
	Beam    transducer.Weight
	HasBeam bool

	// CaseHandling enables case-variant generation and merging (spec §4.5).
	// A nil pointer disables it entirely.
	CaseHandling *CaseHandlingConfig

	// NodePoolSize is the initial capacity hint for the per-call node
	// arena.
	NodePoolSize int
}

// DefaultConfig returns the reference defaults: n_best = 10,
// max_weight = 10000, beam disabled, case-handling enabled with defaults,
// node_pool_size = 128.
func DefaultConfig() Config {
	ch := DefaultCaseHandlingConfig()
	return Config{
		NBest:        10,
		MaxWeight:    10000,
		HasMaxWeight: true,
		CaseHandling: &ch,
		NodePoolSize: 128,
	}
}

// Validate reports whether c's numeric fields are in usable ranges.
func (c Config) Validate() error {
	if c.NBest < 0 {
		return &ConfigError{Field: "NBest", Message: "must not be negative"}
	}
	if c.NodePoolSize < 0 {
		return &ConfigError{Field: "NodePoolSize", Message: "must not be negative"}
	}
	if c.HasBeam && c.Beam < 0 {
		return &ConfigError{Field: "Beam", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "speller: invalid config: " + e.Field + ": " + e.Message
}

// maxWeight resolves the configured ceiling, or +∞ when unset.
func (c Config) maxWeight() transducer.Weight {
	if c.HasMaxWeight {
		return c.MaxWeight
	}
	return transducer.WeightInfinite
}
