package speller

import (
	"testing"

	"github.com/coregx/fstspell/transducer"
)

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"default", DefaultConfig(), ""},
		{"negative n-best", Config{NBest: -1}, "NBest"},
		{"negative node pool", Config{NodePoolSize: -1}, "NodePoolSize"},
		{"negative beam", Config{HasBeam: true, Beam: -1}, "Beam"},
		{"beam unset negative ignored", Config{Beam: -1}, ""},
	}

	for _, c := range cases {
		err := c.config.Validate()
		if c.wantErr == "" {
			if err != nil {
				t.Errorf("%s: Validate() = %v, want nil", c.name, err)
			}
			continue
		}
		cfgErr, ok := err.(*ConfigError)
		if !ok || cfgErr.Field != c.wantErr {
			t.Errorf("%s: Validate() = %v, want ConfigError{Field: %q}", c.name, err, c.wantErr)
		}
	}
}

func TestConfig_MaxWeight(t *testing.T) {
	unset := Config{}
	if got := unset.maxWeight(); got != transducer.WeightInfinite {
		t.Errorf("maxWeight() with HasMaxWeight=false = %v, want +Inf", got)
	}

	set := Config{HasMaxWeight: true, MaxWeight: 42}
	if got := set.maxWeight(); got != 42 {
		t.Errorf("maxWeight() with HasMaxWeight=true, MaxWeight=42 = %v, want 42", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.NBest != 10 {
		t.Errorf("DefaultConfig().NBest = %d, want 10", config.NBest)
	}
	if !config.HasMaxWeight || config.MaxWeight != 10000 {
		t.Errorf("DefaultConfig().MaxWeight = %v (has=%v), want 10000 (has=true)", config.MaxWeight, config.HasMaxWeight)
	}
	if config.HasBeam {
		t.Error("DefaultConfig().HasBeam = true, want false")
	}
	if config.CaseHandling == nil {
		t.Fatal("DefaultConfig().CaseHandling = nil, want non-nil")
	}
	if *config.CaseHandling != DefaultCaseHandlingConfig() {
		t.Errorf("DefaultConfig().CaseHandling = %+v, want %+v", *config.CaseHandling, DefaultCaseHandlingConfig())
	}
}
