// Package engine is the entry point for the witness pattern and risk
// scoring engine. It orchestrates one batch: relationship index,
// parallel detectors, deterministic merge, scoring and flag updates.
// The engine is a pure, synchronous transformation — no I/O, no
// persistence, no cross-batch state. Re-running it over identical
// input produces an identical result payload.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/opensource-legal/caracara/internal/detect"
	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/flags"
	"github.com/opensource-legal/caracara/internal/index"
	"github.com/opensource-legal/caracara/internal/scoring"
	"github.com/opensource-legal/caracara/internal/triage"
)

var tracer = otel.Tracer("caracara-engine")

// Engine analyzes case/witness batches. Construct with New; the
// configuration is immutable for the engine's lifetime.
type Engine struct {
	cfg        domain.Config
	scorer     *scoring.Scorer
	classifier *triage.Classifier
}

// New validates the configuration, compiles any custom triage rules,
// and returns a ready engine.
func New(cfg domain.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	classifier, err := triage.NewClassifier(cfg.TriageRules)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		scorer:     scoring.NewScorer(cfg.Scoring),
		classifier: classifier,
	}, nil
}

// Analyze runs the four detectors over one batch. Records missing
// their identity field are skipped and counted in the summary — a
// partial batch never aborts analysis of the rest. All result lists
// come back sorted by their documented deterministic keys.
func (e *Engine) Analyze(ctx context.Context, cases []domain.CaseRecord, witnesses []domain.WitnessRecord) *domain.AnalysisResult {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "engine.Analyze",
		trace.WithAttributes(
			attribute.Int("batch.cases", len(cases)),
			attribute.Int("batch.witnesses", len(witnesses)),
		),
	)
	defer span.End()

	validCases, skippedCases := filterCases(cases)
	validWitnesses, skippedWitnesses := filterWitnesses(witnesses)

	idx := index.Build(validCases)
	res := detect.Run(ctx, idx, validWitnesses, e.cfg.Detection, e.cfg.MaxWorkers)

	result := &domain.AnalysisResult{
		DirectExchange:  res.DirectExchange,
		Triangulation:   res.Triangulation,
		DualRole:        res.DualRole,
		BorrowedWitness: res.BorrowedWitness,
	}
	result.Summary = buildSummary(result, len(validCases), len(validWitnesses), skippedCases, skippedWitnesses)
	result.Meta = domain.AnalysisMeta{
		RunID:         uuid.New().String(),
		EngineVersion: domain.EngineVersion,
		ElapsedMs:     time.Since(start).Milliseconds(),
	}

	span.SetAttributes(
		attribute.Int("matches.direct_exchange", result.Summary.DirectExchangeCount),
		attribute.Int("matches.triangulation", result.Summary.TriangulationCount),
		attribute.Int("matches.dual_role", result.Summary.DualRoleCount),
		attribute.Int("matches.borrowed_witness", result.Summary.BorrowedWitnessCount),
	)
	slog.Info("batch analysis complete",
		"run_id", result.Meta.RunID,
		"cases", len(validCases),
		"witnesses", len(validWitnesses),
		"skipped_cases", skippedCases,
		"skipped_witnesses", skippedWitnesses,
		"flagged_cases", result.Summary.FlaggedCases,
		"elapsed_ms", result.Meta.ElapsedMs,
	)

	return result
}

// ScoreCase computes the weighted score for one case.
func (e *Engine) ScoreCase(res *domain.AnalysisResult, caseID string) domain.CaseScore {
	return e.scorer.ScoreCase(res, caseID)
}

// ScoreWitness computes the weighted score for one witness.
func (e *Engine) ScoreWitness(res *domain.AnalysisResult, witnessName string) domain.WitnessScore {
	return e.scorer.ScoreWitness(res, witnessName)
}

// ScoreAllCases scores the whole case collection with distribution
// metrics.
func (e *Engine) ScoreAllCases(res *domain.AnalysisResult, cases []domain.CaseRecord) domain.CaseScoreReport {
	return e.scorer.ScoreAllCases(res, cases)
}

// ScoreAllWitnesses scores the whole witness collection with
// distribution metrics.
func (e *Engine) ScoreAllWitnesses(res *domain.AnalysisResult, witnesses []domain.WitnessRecord) domain.WitnessScoreReport {
	return e.scorer.ScoreAllWitnesses(res, witnesses)
}

// TriageCase runs the rule-based classifier over one case's factor
// set.
func (e *Engine) TriageCase(res *domain.AnalysisResult, caseID string) domain.TriageResult {
	return e.classifier.Evaluate(CaseTriageInput(res, caseID))
}

// TriageWitness runs the rule-based classifier over one witness's
// factor set.
func (e *Engine) TriageWitness(res *domain.AnalysisResult, witnessName string) domain.TriageResult {
	return e.classifier.Evaluate(WitnessTriageInput(res, witnessName))
}

// FlagCases merges detection results onto copies of the case records.
func (e *Engine) FlagCases(cases []domain.CaseRecord, res *domain.AnalysisResult) []domain.FlaggedCase {
	valid, _ := filterCases(cases)
	return flags.ApplyCases(valid, res)
}

// FlagWitnesses merges detection results onto copies of the witness
// records.
func (e *Engine) FlagWitnesses(witnesses []domain.WitnessRecord, res *domain.AnalysisResult) []domain.FlaggedWitness {
	valid, _ := filterWitnesses(witnesses)
	return flags.ApplyWitnesses(valid, res)
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() domain.Config {
	return e.cfg
}

// filterCases drops records violating the identity contract (missing
// case ID). Malformed optional fields pass through; detectors treat
// them as "no signal".
func filterCases(cases []domain.CaseRecord) ([]domain.CaseRecord, int) {
	valid := make([]domain.CaseRecord, 0, len(cases))
	skipped := 0
	for i := range cases {
		if cases[i].CaseID == "" {
			skipped++
			continue
		}
		valid = append(valid, cases[i])
	}
	return valid, skipped
}

func filterWitnesses(witnesses []domain.WitnessRecord) ([]domain.WitnessRecord, int) {
	valid := make([]domain.WitnessRecord, 0, len(witnesses))
	skipped := 0
	for i := range witnesses {
		if index.Normalize(witnesses[i].WitnessName) == "" || witnesses[i].TestimonyCount < 0 {
			skipped++
			continue
		}
		valid = append(valid, witnesses[i])
	}
	return valid, skipped
}
