//go:build integration
// +build integration

// Package integration exercises the complete analysis pipeline end to
// end: batch → relationship index → four detectors → scoring → triage
// → flag updates.
//
// Run with: go test -tags=integration -v ./tests/integration/...
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/engine"
	"github.com/opensource-legal/caracara/internal/generator"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(domain.DefaultConfig())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return e
}

// inertCases produces n background cases with no cross-case
// relationships: unique claimants, unique witnesses, unique attorneys.
func inertCases(n, startSeq int) []domain.CaseRecord {
	out := make([]domain.CaseRecord, 0, n)
	for i := 0; i < n; i++ {
		seq := startSeq + i
		out = append(out, domain.CaseRecord{
			CaseID:         fmt.Sprintf("PROC-%06d", seq),
			ClaimantName:   fmt.Sprintf("parte %06d", seq),
			WitnessesSideA: []string{fmt.Sprintf("testemunha %06d", seq)},
			AttorneysSideA: []string{fmt.Sprintf("advogado %06d", seq)},
			Jurisdiction:   "São Paulo",
			Venue:          "1ª Vara do Trabalho",
		})
	}
	return out
}

// TestLargeBatchScoreDistribution plants two interlocking exchange
// pairs inside 1,250 cases and checks that exactly the three pattern
// cases classify CRITICO.
func TestLargeBatchScoreDistribution(t *testing.T) {
	pattern := []domain.CaseRecord{
		// alice <-> bruno and alice <-> fernanda, sharing case X.
		{CaseID: "PROC-000001", ClaimantName: "alice mendes", WitnessesSideA: []string{"bruno tavares", "fernanda rocha"}, Jurisdiction: "Campinas", Venue: "2ª Vara do Trabalho"},
		{CaseID: "PROC-000002", ClaimantName: "bruno tavares", WitnessesSideA: []string{"alice mendes"}, Jurisdiction: "Campinas", Venue: "2ª Vara do Trabalho"},
		{CaseID: "PROC-000003", ClaimantName: "fernanda rocha", WitnessesSideA: []string{"alice mendes"}, Jurisdiction: "Campinas", Venue: "2ª Vara do Trabalho"},
	}
	cases := append(pattern, inertCases(1247, 10)...)
	if len(cases) != 1250 {
		t.Fatalf("scenario sizing broken: %d cases", len(cases))
	}

	e := newEngine(t)
	res := e.Analyze(context.Background(), cases, nil)

	if got := res.Summary.DirectExchangeCount; got != 2 {
		t.Errorf("DirectExchangeCount = %d, want 2", got)
	}
	if got := res.Summary.TriangulationCount; got != 2 {
		t.Errorf("TriangulationCount = %d, want 2", got)
	}
	if got := res.Summary.FlaggedCases; got != 3 {
		t.Errorf("FlaggedCases = %d, want 3", got)
	}

	report := e.ScoreAllCases(res, cases)
	if report.Metrics.Scored != 1250 {
		t.Fatalf("Scored = %d, want 1250", report.Metrics.Scored)
	}
	dist := report.Metrics.Distribution
	if dist.Critical != 3 {
		t.Errorf("distribution critico = %d, want 3", dist.Critical)
	}
	if dist.Minimal != 1247 {
		t.Errorf("distribution minimo = %d, want 1247", dist.Minimal)
	}

	for _, id := range []string{"PROC-000001", "PROC-000002", "PROC-000003"} {
		score := e.ScoreCase(res, id)
		if score.Breakdown.Classification != domain.ClassCritical {
			t.Errorf("%s classified %q (score %d), want CRITICO", id, score.Breakdown.Classification, score.ScoreFinal)
		}
		if score.Priority != domain.PriorityUrgent {
			t.Errorf("%s priority = %q, want URGENTE", id, score.Priority)
		}
	}
}

// TestProfessionalWitnessPipeline walks one witness with the full
// professional profile through detection, scoring, triage and flags.
func TestProfessionalWitnessPipeline(t *testing.T) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	var cases []domain.CaseRecord
	var caseIDs []string
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("PROC-%06d", i+1)
		caseIDs = append(caseIDs, id)
		cases = append(cases, domain.CaseRecord{
			CaseID:         id,
			ClaimantName:   fmt.Sprintf("parte %02d", i),
			WitnessesSideA: []string{"Maria Santos"},
			AttorneysSideA: []string{"Dr. Pedro Valente"},
			Jurisdiction:   "Campinas",
			Venue:          "2ª Vara do Trabalho",
			HearingDate:    base.AddDate(0, i%3, 1),
		})
	}
	witnesses := []domain.WitnessRecord{
		{WitnessName: "Maria Santos", TestimonyCount: 15, CaseIDsAsWitness: caseIDs},
	}

	e := newEngine(t)
	res := e.Analyze(context.Background(), cases, witnesses)

	if len(res.BorrowedWitness) != 1 {
		t.Fatalf("BorrowedWitness = %v, want 1 match", res.BorrowedWitness)
	}
	m := res.BorrowedWitness[0]
	if !m.Alert || m.Risk != domain.RiskHigh || !m.TemporalConcentration {
		t.Errorf("match = %+v, want alerting ALTO with temporal concentration", m)
	}

	score := e.ScoreWitness(res, "maria santos")
	if score.Breakdown.Classification != domain.ClassMedium {
		t.Errorf("witness classification = %q (score %d), want MEDIO for the borrowed factor alone", score.Breakdown.Classification, score.ScoreFinal)
	}
	if score.Priority != domain.WitnessOccasional {
		t.Errorf("witness priority = %q, want OCASIONAL", score.Priority)
	}

	triage := e.TriageWitness(res, "maria santos")
	if triage.Classification != domain.TriageCritical {
		t.Errorf("triage = %q, want CRÍTICO for a borrowed-witness alert", triage.Classification)
	}

	flagged := e.FlagWitnesses(witnesses, res)
	if len(flagged) != 1 || !flagged[0].Flags.BorrowedWitness || flagged[0].Flags.BorrowedRisk != domain.RiskHigh {
		t.Errorf("flagged = %+v", flagged)
	}
}

// TestGeneratedBatchRoundTrips runs a synthetic batch through the
// engine and serializes the result, checking payload determinism.
func TestGeneratedBatchRoundTrips(t *testing.T) {
	gen := generator.New(generator.Config{
		NumCases:              200,
		ExchangePairs:         3,
		Cycles:                2,
		CycleLength:           3,
		DualRoles:             2,
		ProfessionalWitnesses: 1,
		Seed:                  99,
	})
	batch := gen.Generate()

	e := newEngine(t)
	first := e.Analyze(context.Background(), batch.Cases, batch.Witnesses)
	second := e.Analyze(context.Background(), batch.Cases, batch.Witnesses)

	firstPayload, secondPayload := marshalStripped(t, first), marshalStripped(t, second)
	if firstPayload != secondPayload {
		t.Error("re-analysis of the identical batch produced a different payload")
	}

	if len(first.BorrowedWitness) == 0 {
		t.Error("expected the injected professional witness to surface")
	}
	if len(first.DirectExchange) == 0 {
		t.Error("expected the injected exchange pairs to surface")
	}
}

func marshalStripped(t *testing.T, res *domain.AnalysisResult) string {
	t.Helper()
	clone := *res
	clone.Meta = domain.AnalysisMeta{}
	b, err := json.Marshal(&clone)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}
