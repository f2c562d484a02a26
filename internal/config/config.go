// Package config loads engine configuration for the CLI. Precedence,
// highest to lowest: flags, CARACARA_* environment variables, config
// file, documented defaults. The library itself takes a plain
// domain.Config value; nothing here is required to embed the engine.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/opensource-legal/caracara/internal/domain"
)

// Load materializes a validated domain.Config from viper state layered
// over the defaults.
func Load(v *viper.Viper) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if n := v.GetInt("max_workers"); n > 0 {
		cfg.MaxWorkers = n
	}
	if v.IsSet("detection.max_cycle_length") {
		cfg.Detection.MaxCycleLength = v.GetInt("detection.max_cycle_length")
	}
	if v.IsSet("detection.min_cycle_confidence") {
		cfg.Detection.MinCycleConfidence = v.GetInt("detection.min_cycle_confidence")
	}
	if v.IsSet("detection.borrowed_witness_threshold") {
		cfg.Detection.BorrowedWitnessThreshold = v.GetInt("detection.borrowed_witness_threshold")
	}
	if v.IsSet("detection.recurrent_attorney_ratio") {
		cfg.Detection.RecurrentAttorneyRatio = v.GetFloat64("detection.recurrent_attorney_ratio")
	}
	if v.IsSet("detection.temporal_window_months") {
		cfg.Detection.TemporalWindowMonths = v.GetInt("detection.temporal_window_months")
	}
	if v.IsSet("detection.temporal_share") {
		cfg.Detection.TemporalShare = v.GetFloat64("detection.temporal_share")
	}

	if err := loadFactorTable(v, "scoring.case", cfg.Scoring.Case); err != nil {
		return domain.Config{}, err
	}
	if err := loadFactorTable(v, "scoring.witness", cfg.Scoring.Witness); err != nil {
		return domain.Config{}, err
	}

	if rulesFile := v.GetString("triage_rules_file"); rulesFile != "" {
		rules, err := LoadTriageRules(rulesFile)
		if err != nil {
			return domain.Config{}, err
		}
		cfg.TriageRules = rules
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// loadFactorTable overrides individual factor weights from keys like
// scoring.case.troca_direta.score.
func loadFactorTable(v *viper.Viper, prefix string, table map[string]domain.FactorWeight) error {
	for factor := range table {
		fw := table[factor]
		scoreKey := fmt.Sprintf("%s.%s.score", prefix, factor)
		weightKey := fmt.Sprintf("%s.%s.weight", prefix, factor)
		if v.IsSet(scoreKey) {
			fw.Score = v.GetInt(scoreKey)
		}
		if v.IsSet(weightKey) {
			fw.Weight = v.GetFloat64(weightKey)
		}
		table[factor] = fw
	}
	return nil
}

// triageRulesFile is the on-disk shape of a custom rule file.
type triageRulesFile struct {
	Rules []domain.TriageRule `yaml:"rules"`
}

// LoadTriageRules reads a YAML custom-rule file. Rules are validated
// for shape here; CEL compilation happens at engine construction.
func LoadTriageRules(path string) ([]domain.TriageRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading triage rules file: %w", err)
	}

	var file triageRulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing triage rules file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(file.Rules))
	for _, r := range file.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("triage rules file %s: rule without id", path)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("triage rules file %s: duplicate rule id %s", path, r.ID)
		}
		seen[r.ID] = true
	}

	return file.Rules, nil
}
