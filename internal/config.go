package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phlin-dev/phlin/internal/algebra"
	tt "github.com/phlin-dev/phlin/internal/types"
)

// Config is the .phlin.yaml configuration surface.
type Config struct {
	Rules    map[string]tt.ConfigRule `yaml:"rules"`
	Analyzer AnalyzerConfig           `yaml:"analyzer"`
}

// AnalyzerConfig groups the analyzer sections.
type AnalyzerConfig struct {
	Performance PerformanceConfig `yaml:"performance"`
}

// PerformanceConfig holds the threshold keys. Zero values fall back to the
// defaults; every threshold trades precision for latency.
type PerformanceConfig struct {
	SaturationComplexityThreshold  uint `yaml:"saturation-complexity-threshold"`
	DisjunctionComplexityThreshold uint `yaml:"disjunction-complexity-threshold"`
	NegationComplexityThreshold    uint `yaml:"negation-complexity-threshold"`
	ConsensusLimitThreshold        uint `yaml:"consensus-limit-threshold"`
	FormulaSizeThreshold           uint `yaml:"formula-size-threshold"`
	StringCombinationThreshold     uint `yaml:"string-combination-threshold"`
	IntegerCombinationThreshold    uint `yaml:"integer-combination-threshold"`
	ArrayCombinationThreshold      uint `yaml:"array-combination-threshold"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{Rules: map[string]tt.ConfigRule{}}
}

// LoadConfig reads and parses a configuration file. An empty path returns
// the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer f.Close()

	var config Config
	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration file: %w", err)
	}
	if config.Rules == nil {
		config.Rules = map[string]tt.ConfigRule{}
	}
	return config, nil
}

// Budget converts the performance section into the algebra budget,
// filling unset thresholds from the defaults.
func (c Config) Budget() algebra.Budget {
	b := algebra.DefaultBudget()
	p := c.Analyzer.Performance
	if p.SaturationComplexityThreshold > 0 {
		b.SaturationComplexity = p.SaturationComplexityThreshold
	}
	if p.DisjunctionComplexityThreshold > 0 {
		b.DisjunctionComplexity = p.DisjunctionComplexityThreshold
	}
	if p.NegationComplexityThreshold > 0 {
		b.NegationComplexity = p.NegationComplexityThreshold
	}
	if p.ConsensusLimitThreshold > 0 {
		b.ConsensusLimit = p.ConsensusLimitThreshold
	}
	if p.FormulaSizeThreshold > 0 {
		b.FormulaSize = p.FormulaSizeThreshold
	}
	if p.StringCombinationThreshold > 0 {
		b.StringCombination = p.StringCombinationThreshold
	}
	if p.IntegerCombinationThreshold > 0 {
		b.IntegerCombination = p.IntegerCombinationThreshold
	}
	if p.ArrayCombinationThreshold > 0 {
		b.ArrayCombination = p.ArrayCombinationThreshold
	}
	return b
}
