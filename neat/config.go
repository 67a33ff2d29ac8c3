package neat

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/synapticgo/neat/network"
)

// EngineConfig holds the NEAT engine's construction options. It is
// loadable from an INI file via the ini.LoadSources/MapTo idiom,
// generalized to the engine's full option set.
type EngineConfig struct {
	PopSize           int     `ini:"pop_size"`
	Elitism           int     `ini:"elitism"`
	Provenance        int     `ini:"provenance"`
	MutationRate      float64 `ini:"mutation_rate"`
	MutationAmount    int     `ini:"mutation_amount"`
	FitnessPopulation bool    `ini:"fitness_population"`
	Equal             bool    `ini:"equal"`
	Clear             bool    `ini:"clear"`
	ReenableProb      float64 `ini:"reenable_prob"`

	Selection    string  `ini:"selection"`     // power | fitness_proportionate | tournament
	PowerExp     float64 `ini:"power"`         // POWER.power, default 4
	TournSize    int     `ini:"tournament_size"`
	TournProb    float64 `ini:"tournament_probability"`

	MutationGroup string `ini:"mutation"` // ffw | all

	// MutationOverride, when non-empty, is returned by MutationMethods
	// verbatim instead of resolving MutationGroup. It has no INI key: it
	// exists for callers that construct an EngineConfig in Go (such as
	// network.Network.Evolve's opts.Mutation) and need an exact operator
	// list rather than one of the two named groups.
	MutationOverride []network.Method

	MaxNodes int `ini:"max_nodes"`
	MaxConns int `ini:"max_conns"`
	MaxGates int `ini:"max_gates"`

	Speciation SpeciationConfig

	Seed int64 `ini:"seed"`
}

// SpeciationConfig configures the optional speciation behavior. When
// Enabled is false, speciation is a no-op: the engine treats the whole
// population as a single species.
type SpeciationConfig struct {
	Enabled                bool    `ini:"enabled"`
	CompatibilityThreshold float64 `ini:"compatibility_threshold"`
	ExcessCoefficient      float64 `ini:"excess_coefficient"`
	DisjointCoefficient    float64 `ini:"disjoint_coefficient"`
	WeightCoefficient      float64 `ini:"weight_coefficient"`
	MaxStagnation          int     `ini:"max_stagnation"`
	SpeciesElitism         int     `ini:"species_elitism"`
	MinSpeciesSize         int     `ini:"min_species_size"`
}

// DefaultEngineConfig returns the engine's default option table.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PopSize:        50,
		Elitism:        0,
		Provenance:     0,
		MutationRate:   0.7,
		MutationAmount: 1,
		ReenableProb:   0.2,
		Selection:      "power",
		PowerExp:       4,
		TournSize:      5,
		TournProb:      0.5,
		MutationGroup:  "ffw",
		Speciation: SpeciationConfig{
			CompatibilityThreshold: 3.0,
			ExcessCoefficient:      1.0,
			DisjointCoefficient:    1.0,
			WeightCoefficient:      0.4,
			MaxStagnation:          15,
			SpeciesElitism:         0,
			MinSpeciesSize:         1,
		},
	}
}

// LoadEngineConfig loads an EngineConfig from an INI file, overlaying it
// onto DefaultEngineConfig so unset keys keep their spec defaults.
func LoadEngineConfig(filePath string) (*EngineConfig, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("neat: failed to load config file '%s': %w", filePath, err)
	}

	config := DefaultEngineConfig()

	if err := cfg.Section("NEAT").MapTo(&config); err != nil {
		return nil, fmt.Errorf("neat: failed to map [NEAT] section: %w", err)
	}
	if err := cfg.Section("Speciation").MapTo(&config.Speciation); err != nil {
		return nil, fmt.Errorf("neat: failed to map [Speciation] section: %w", err)
	}

	config.Selection = cleanIniString(config.Selection)
	config.MutationGroup = cleanIniString(config.MutationGroup)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the option set for internal consistency, following the
// same extensive per-field validation style used throughout this package.
func (c *EngineConfig) Validate() error {
	if c.PopSize <= 0 {
		return fmt.Errorf("neat: config error: pop_size must be positive")
	}
	if c.Elitism < 0 || c.Provenance < 0 {
		return fmt.Errorf("neat: config error: elitism and provenance cannot be negative")
	}
	if c.Elitism+c.Provenance > c.PopSize {
		return fmt.Errorf("neat: config error: elitism + provenance cannot exceed pop_size")
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("neat: config error: mutation_rate must be between 0 and 1")
	}
	if c.MutationAmount < 0 {
		return fmt.Errorf("neat: config error: mutation_amount cannot be negative")
	}
	switch strings.ToLower(c.Selection) {
	case "power", "fitness_proportionate", "tournament":
	default:
		return fmt.Errorf("neat: config error: invalid selection '%s'", c.Selection)
	}
	if strings.ToLower(c.Selection) == "tournament" && c.TournSize > c.PopSize {
		return ErrTournamentTooLarge
	}
	switch strings.ToLower(c.MutationGroup) {
	case "ffw", "all":
	default:
		return fmt.Errorf("neat: config error: invalid mutation group '%s'", c.MutationGroup)
	}
	return nil
}

// MutationMethods resolves the configured mutation group to the concrete
// operator list from network.FFW / network.All, unless MutationOverride
// has been set, in which case it is returned as-is.
func (c *EngineConfig) MutationMethods() []network.Method {
	if len(c.MutationOverride) > 0 {
		return c.MutationOverride
	}
	if strings.ToLower(c.MutationGroup) == "all" {
		return network.All
	}
	return network.FFW
}

func (c *EngineConfig) caps() network.Caps {
	return network.Caps{MaxNodes: c.MaxNodes, MaxConns: c.MaxConns, MaxGates: c.MaxGates}
}

func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
