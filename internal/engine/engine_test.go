package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/opensource-legal/caracara/internal/domain"
)

func newTestEngine(t *testing.T, mutate func(*domain.Config)) *Engine {
	t.Helper()
	cfg := domain.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Config)
	}{
		{"cycle length too small", func(c *domain.Config) { c.Detection.MaxCycleLength = 1 }},
		{"zero workers", func(c *domain.Config) { c.MaxWorkers = 0 }},
		{"weight out of range", func(c *domain.Config) {
			c.Scoring.Case[domain.FactorDirectExchange] = domain.FactorWeight{Score: 85, Weight: 1.5}
		}},
		{"bad triage rule expression", func(c *domain.Config) {
			c.TriageRules = []domain.TriageRule{{ID: "x", Expression: "&&", Enabled: true}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Error("expected a construction error")
			}
		})
	}
}

func TestAnalyze_SkipsRecordsMissingIdentity(t *testing.T) {
	e := newTestEngine(t, nil)

	cases := []domain.CaseRecord{
		{CaseID: "PROC-001", ClaimantName: "ana"},
		{CaseID: ""},
		{CaseID: ""},
	}
	witnesses := []domain.WitnessRecord{
		{WitnessName: "bruno", TestimonyCount: 1},
		{WitnessName: "   "},
		{WitnessName: "carla", TestimonyCount: -1},
	}

	res := e.Analyze(context.Background(), cases, witnesses)

	if res.Summary.TotalCases != 1 || res.Summary.SkippedCases != 2 {
		t.Errorf("cases = %d skipped %d, want 1/2", res.Summary.TotalCases, res.Summary.SkippedCases)
	}
	if res.Summary.TotalWitnesses != 1 || res.Summary.SkippedWitnesses != 2 {
		t.Errorf("witnesses = %d skipped %d, want 1/2", res.Summary.TotalWitnesses, res.Summary.SkippedWitnesses)
	}
}

func TestAnalyze_EmptyBatch(t *testing.T) {
	e := newTestEngine(t, nil)

	res := e.Analyze(context.Background(), nil, nil)

	if res.Summary.FlaggedCases != 0 {
		t.Errorf("FlaggedCases = %d, want 0", res.Summary.FlaggedCases)
	}
	if len(res.DirectExchange)+len(res.Triangulation)+len(res.DualRole)+len(res.BorrowedWitness) != 0 {
		t.Error("expected no matches for an empty batch")
	}
	if res.Meta.RunID == "" || res.Meta.EngineVersion != domain.EngineVersion {
		t.Errorf("unexpected meta: %+v", res.Meta)
	}
}

// payload is an analysis result with the per-run metadata stripped,
// for byte comparison across runs.
func payload(t *testing.T, res *domain.AnalysisResult) string {
	t.Helper()
	clone := *res
	clone.Meta = domain.AnalysisMeta{}
	b, err := json.Marshal(&clone)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestAnalyze_DeterministicAcrossWorkerCounts(t *testing.T) {
	cases := []domain.CaseRecord{
		{CaseID: "PROC-001", ClaimantName: "joão", WitnessesSideA: []string{"maria"}},
		{CaseID: "PROC-002", ClaimantName: "maria", WitnessesSideA: []string{"joão"}},
		{CaseID: "PROC-003", ClaimantName: "carla", WitnessesSideA: []string{"diego"}, AttorneysSideA: []string{"Dr. Pedro"}},
		{CaseID: "PROC-004", ClaimantName: "diego", WitnessesSideA: []string{"elisa"}, AttorneysSideA: []string{"Dr. Pedro"}},
		{CaseID: "PROC-005", ClaimantName: "elisa", WitnessesSideA: []string{"carla"}, AttorneysSideA: []string{"Dr. Pedro"}},
	}
	witnesses := []domain.WitnessRecord{
		{WitnessName: "maria", TestimonyCount: 12, CaseIDsAsWitness: []string{"PROC-001"}},
	}

	sequential := newTestEngine(t, func(c *domain.Config) { c.MaxWorkers = 1 })
	parallel := newTestEngine(t, func(c *domain.Config) { c.MaxWorkers = 4 })

	want := payload(t, sequential.Analyze(context.Background(), cases, witnesses))
	for i := 0; i < 5; i++ {
		if got := payload(t, parallel.Analyze(context.Background(), cases, witnesses)); got != want {
			t.Fatalf("run %d diverged from sequential payload", i)
		}
	}
}

func TestAnalyze_ReciprocalPairScenario(t *testing.T) {
	// joão claims a case where maria testifies, and vice versa: both
	// the direct-exchange and the cycle detector fire, dual role stays
	// silent.
	cases := []domain.CaseRecord{
		{CaseID: "PROC-001", ClaimantName: "joão", WitnessesSideA: []string{"maria"}},
		{CaseID: "PROC-002", ClaimantName: "maria", WitnessesSideA: []string{"joão"}},
	}

	res := newTestEngine(t, nil).Analyze(context.Background(), cases, nil)

	if len(res.DirectExchange) != 1 {
		t.Fatalf("DirectExchange = %v, want 1 match", res.DirectExchange)
	}
	if res.DirectExchange[0].Confidence < 40 {
		t.Errorf("exchange confidence = %d, want >= 40", res.DirectExchange[0].Confidence)
	}
	if len(res.Triangulation) != 1 || res.Triangulation[0].Length != 2 {
		t.Fatalf("Triangulation = %v, want one length-2 cycle", res.Triangulation)
	}
	if res.Triangulation[0].Confidence < 40 {
		t.Errorf("cycle confidence = %d, want >= 40", res.Triangulation[0].Confidence)
	}
	if len(res.DualRole) != 0 {
		t.Errorf("DualRole = %v, want empty", res.DualRole)
	}
	if res.Summary.FlaggedCases != 2 {
		t.Errorf("FlaggedCases = %d, want 2", res.Summary.FlaggedCases)
	}
}

func TestCaseTriageInput(t *testing.T) {
	res := &domain.AnalysisResult{
		DirectExchange: []domain.DirectExchangeMatch{
			{ParticipantA: "a", ParticipantB: "b", CasesAForB: []string{"PROC-001"}, CasesBForA: []string{"PROC-002"}},
		},
		BorrowedWitness: []domain.BorrowedWitnessMatch{
			{
				Name:                  "w1",
				CaseIDs:               []string{"PROC-001"},
				RecurrentAttorneys:    []string{"x", "y"},
				VenueConcentration:    70,
				Alert:                 true,
				TemporalConcentration: true,
			},
			{
				Name:               "w2",
				CaseIDs:            []string{"PROC-001"},
				RecurrentAttorneys: []string{"x", "y", "z"},
				VenueConcentration: 90,
				Alert:              false,
			},
		},
	}

	in := CaseTriageInput(res, "PROC-001")

	if !in.HasDirectExchange {
		t.Error("expected HasDirectExchange")
	}
	if !in.HasBorrowedWitness {
		t.Error("expected HasBorrowedWitness from the alerting match")
	}
	// Maxima across all borrowed matches touching the case.
	if in.RecurrentAttorneyCount != 3 {
		t.Errorf("RecurrentAttorneyCount = %d, want 3", in.RecurrentAttorneyCount)
	}
	if in.GeographicConcentration != 90 {
		t.Errorf("GeographicConcentration = %v, want 90", in.GeographicConcentration)
	}
	if !in.HasTemporalConcentration {
		t.Error("expected HasTemporalConcentration")
	}

	if other := CaseTriageInput(res, "PROC-900"); other != (domain.TriageInput{}) {
		t.Errorf("untouched case input = %+v, want zero value", other)
	}
}

func TestWitnessTriageInput_NormalizesName(t *testing.T) {
	res := &domain.AnalysisResult{
		DualRole: []domain.DualRoleMatch{
			{Name: "ana lima", OpposingSide: true},
		},
	}

	in := WitnessTriageInput(res, "  Ana  LIMA ")
	if !in.HasDualRole || !in.HasOpposingSideDualRole {
		t.Errorf("input = %+v, want dual-role factors set", in)
	}
}

func TestEngine_FlagAndTriageRoundTrip(t *testing.T) {
	e := newTestEngine(t, nil)
	cases := []domain.CaseRecord{
		{CaseID: "PROC-001", ClaimantName: "joão", WitnessesSideA: []string{"maria"}},
		{CaseID: "PROC-002", ClaimantName: "maria", WitnessesSideA: []string{"joão"}},
	}

	res := e.Analyze(context.Background(), cases, nil)

	triage := e.TriageCase(res, "PROC-001")
	if triage.Classification != domain.TriageCritical {
		t.Errorf("triage = %q, want CRÍTICO for exchange plus cycle", triage.Classification)
	}
	if triage.Priority != 1 {
		t.Errorf("Priority = %d, want escalated 1", triage.Priority)
	}

	flagged := e.FlagCases(cases, res)
	if len(flagged) != 2 || !flagged[0].Flags.DirectExchange || !flagged[0].Flags.Triangulation {
		t.Errorf("flagged = %+v", flagged)
	}

	score := e.ScoreCase(res, "PROC-001")
	if score.Breakdown.Classification != domain.ClassCritical {
		t.Errorf("score classification = %q (total %d), want CRITICO", score.Breakdown.Classification, score.ScoreFinal)
	}
}
