package domain

import (
	"fmt"
)

// Config holds the complete engine configuration: detection thresholds
// and scoring weights. It is built once, validated, and treated as
// immutable for the engine's lifetime — never process-wide mutable
// state.
type Config struct {
	Detection DetectionConfig `json:"detection" yaml:"detection"`
	Scoring   ScoringConfig   `json:"scoring" yaml:"scoring"`

	// MaxWorkers bounds detector parallelism. 1 forces sequential
	// execution; output is identical either way.
	MaxWorkers int `json:"maxWorkers" yaml:"max_workers"`

	// TriageRules are optional operator-supplied CEL rules layered on
	// top of the built-in triage factor table.
	TriageRules []TriageRule `json:"triageRules,omitempty" yaml:"triage_rules,omitempty"`
}

// DetectionConfig holds per-detector thresholds.
type DetectionConfig struct {
	// MaxCycleLength bounds triangulation cycle enumeration. Cycles of
	// length 2 are the degenerate direct-exchange-equivalent case.
	MaxCycleLength int `json:"maxCycleLength" yaml:"max_cycle_length"`

	// MinCycleConfidence discards triangulation matches below this
	// floor — a deliberate precision/recall tradeoff.
	MinCycleConfidence int `json:"minCycleConfidence" yaml:"min_cycle_confidence"`

	// BorrowedWitnessThreshold: testimony counts strictly above it
	// raise the borrowed-witness alert.
	BorrowedWitnessThreshold int `json:"borrowedWitnessThreshold" yaml:"borrowed_witness_threshold"`

	// RecurrentAttorneyRatio is the share of a witness's cases an
	// attorney must appear in to count as recurrent (minimum 2
	// occurrences regardless).
	RecurrentAttorneyRatio float64 `json:"recurrentAttorneyRatio" yaml:"recurrent_attorney_ratio"`

	// TemporalWindowMonths and TemporalShare define temporal
	// concentration: more than TemporalShare of all testimony within
	// TemporalWindowMonths consecutive month buckets.
	TemporalWindowMonths int     `json:"temporalWindowMonths" yaml:"temporal_window_months"`
	TemporalShare        float64 `json:"temporalShare" yaml:"temporal_share"`
}

// FactorWeight is a fixed (score, weight) pair for one scoring factor.
// Weights are configuration, never derived from the data.
type FactorWeight struct {
	Score  int     `json:"score" yaml:"score"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// ScoringConfig holds the weighted-score factor tables for cases and
// witnesses.
type ScoringConfig struct {
	Case    map[string]FactorWeight `json:"case" yaml:"case"`
	Witness map[string]FactorWeight `json:"witness" yaml:"witness"`
}

// Factor names used in score breakdowns and configuration keys.
const (
	FactorDirectExchange  = "troca_direta"
	FactorTriangulation   = "triangulacao"
	FactorDualRole        = "duplo_papel"
	FactorBorrowedWitness = "prova_emprestada"
)

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		Detection: DetectionConfig{
			MaxCycleLength:           6,
			MinCycleConfidence:       30,
			BorrowedWitnessThreshold: 10,
			RecurrentAttorneyRatio:   0.30,
			TemporalWindowMonths:     6,
			TemporalShare:            0.50,
		},
		Scoring: ScoringConfig{
			Case: map[string]FactorWeight{
				FactorDirectExchange:  {Score: 85, Weight: 0.50},
				FactorTriangulation:   {Score: 90, Weight: 0.60},
				FactorDualRole:        {Score: 70, Weight: 0.40},
				FactorBorrowedWitness: {Score: 75, Weight: 0.45},
			},
			Witness: map[string]FactorWeight{
				FactorBorrowedWitness: {Score: 90, Weight: 0.60},
				FactorDirectExchange:  {Score: 80, Weight: 0.40},
				FactorTriangulation:   {Score: 85, Weight: 0.45},
				FactorDualRole:        {Score: 70, Weight: 0.35},
			},
		},
		MaxWorkers: 4,
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Detection.MaxCycleLength < 2 {
		return fmt.Errorf("maxCycleLength must be at least 2, got %d", c.Detection.MaxCycleLength)
	}
	if c.Detection.BorrowedWitnessThreshold < 0 {
		return fmt.Errorf("borrowedWitnessThreshold must not be negative, got %d", c.Detection.BorrowedWitnessThreshold)
	}
	if c.Detection.RecurrentAttorneyRatio <= 0 || c.Detection.RecurrentAttorneyRatio > 1 {
		return fmt.Errorf("recurrentAttorneyRatio must be in (0,1], got %v", c.Detection.RecurrentAttorneyRatio)
	}
	if c.Detection.TemporalWindowMonths < 1 {
		return fmt.Errorf("temporalWindowMonths must be positive, got %d", c.Detection.TemporalWindowMonths)
	}
	if c.Detection.TemporalShare <= 0 || c.Detection.TemporalShare >= 1 {
		return fmt.Errorf("temporalShare must be in (0,1), got %v", c.Detection.TemporalShare)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("maxWorkers must be at least 1, got %d", c.MaxWorkers)
	}
	for _, table := range []map[string]FactorWeight{c.Scoring.Case, c.Scoring.Witness} {
		for name, fw := range table {
			if fw.Score < 0 || fw.Score > 100 {
				return fmt.Errorf("factor %s: score must be in [0,100], got %d", name, fw.Score)
			}
			if fw.Weight < 0 || fw.Weight > 1 {
				return fmt.Errorf("factor %s: weight must be in [0,1], got %v", name, fw.Weight)
			}
		}
	}
	for _, r := range c.TriageRules {
		if r.ID == "" {
			return fmt.Errorf("triage rule without id")
		}
		if r.Expression == "" {
			return fmt.Errorf("triage rule %s: expression is required", r.ID)
		}
	}
	return nil
}
