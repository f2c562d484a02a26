package flags

import (
	"reflect"
	"testing"

	"github.com/opensource-legal/caracara/internal/domain"
)

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		DirectExchange: []domain.DirectExchangeMatch{
			{
				ParticipantA: "joão silva",
				ParticipantB: "maria santos",
				CasesAForB:   []string{"PROC-001"},
				CasesBForA:   []string{"PROC-002"},
				Confidence:   40,
			},
		},
		Triangulation: []domain.TriangulationMatch{
			{
				Participants:   []string{"ana lima", "bruno costa", "carla dias"},
				Length:         3,
				TraversedCases: []string{"PROC-003", "PROC-004", "PROC-005"},
				Path:           "ana lima → bruno costa → carla dias → ana lima",
				Confidence:     50,
			},
		},
		DualRole: []domain.DualRoleMatch{
			{
				Name:            "ana lima",
				CasesAsClaimant: []string{"PROC-006"},
				CasesAsWitness:  []string{"PROC-003"},
				Risk:            domain.RiskMedium,
				Confidence:      50,
			},
		},
		BorrowedWitness: []domain.BorrowedWitnessMatch{
			{
				Name:           "maria santos",
				TestimonyCount: 15,
				CaseIDs:        []string{"PROC-001", "PROC-007"},
				Alert:          true,
				Risk:           domain.RiskHigh,
				Confidence:     90,
			},
		},
	}
}

func TestApplyCases(t *testing.T) {
	cases := []domain.CaseRecord{
		{CaseID: "PROC-001"},
		{CaseID: "PROC-003"},
		{CaseID: "PROC-900"},
	}

	flagged := ApplyCases(cases, sampleResult())
	if len(flagged) != 3 {
		t.Fatalf("expected 3 flagged cases, got %d", len(flagged))
	}

	first := flagged[0]
	if !first.Flags.DirectExchange {
		t.Error("PROC-001 should carry the direct-exchange flag")
	}
	if !reflect.DeepEqual(first.Flags.ExchangePartners, []string{"joão silva", "maria santos"}) {
		t.Errorf("ExchangePartners = %v", first.Flags.ExchangePartners)
	}
	if !first.Flags.BorrowedWitness || !reflect.DeepEqual(first.Flags.BorrowedNames, []string{"maria santos"}) {
		t.Errorf("borrowed flags = %v %v", first.Flags.BorrowedWitness, first.Flags.BorrowedNames)
	}
	if first.Flags.Description != "Padrões detectados: troca direta, prova emprestada" {
		t.Errorf("Description = %q", first.Flags.Description)
	}

	second := flagged[1]
	if !second.Flags.Triangulation {
		t.Error("PROC-003 should carry the triangulation flag")
	}
	if len(second.Flags.TriangulationPaths) != 1 {
		t.Errorf("TriangulationPaths = %v", second.Flags.TriangulationPaths)
	}
	if !second.Flags.DualRole || !reflect.DeepEqual(second.Flags.DualRoleNames, []string{"ana lima"}) {
		t.Errorf("dual-role flags = %v %v", second.Flags.DualRole, second.Flags.DualRoleNames)
	}

	third := flagged[2]
	if third.Flags.DirectExchange || third.Flags.Triangulation || third.Flags.DualRole || third.Flags.BorrowedWitness {
		t.Errorf("untouched case carries flags: %+v", third.Flags)
	}
	if third.Flags.Description != "" {
		t.Errorf("untouched case Description = %q, want empty", third.Flags.Description)
	}
}

func TestApplyCases_InputNotMutated(t *testing.T) {
	cases := []domain.CaseRecord{{CaseID: "PROC-001", ClaimantName: "original"}}
	snapshot := make([]domain.CaseRecord, len(cases))
	copy(snapshot, cases)

	ApplyCases(cases, sampleResult())

	if !reflect.DeepEqual(cases, snapshot) {
		t.Error("ApplyCases mutated its input")
	}
}

func TestApplyWitnesses(t *testing.T) {
	witnesses := []domain.WitnessRecord{
		{WitnessName: "Maria Santos", TestimonyCount: 15},
		{WitnessName: "ana lima", TestimonyCount: 2},
		{WitnessName: "zeca nunes", TestimonyCount: 1},
	}

	flagged := ApplyWitnesses(witnesses, sampleResult())
	if len(flagged) != 3 {
		t.Fatalf("expected 3 flagged witnesses, got %d", len(flagged))
	}

	maria := flagged[0]
	if !maria.Flags.DirectExchange || !maria.Flags.BorrowedWitness {
		t.Errorf("maria flags = %+v", maria.Flags)
	}
	if maria.Flags.BorrowedRisk != domain.RiskHigh {
		t.Errorf("BorrowedRisk = %q, want ALTO", maria.Flags.BorrowedRisk)
	}
	if maria.Flags.Description != "Padrões detectados: troca direta, prova emprestada" {
		t.Errorf("Description = %q", maria.Flags.Description)
	}

	ana := flagged[1]
	if !ana.Flags.Triangulation || !ana.Flags.DualRole {
		t.Errorf("ana flags = %+v", ana.Flags)
	}
	if ana.Flags.BorrowedWitness {
		t.Error("ana should not carry the borrowed-witness flag")
	}

	zeca := flagged[2]
	if zeca.Flags.Description != "" {
		t.Errorf("untouched witness Description = %q, want empty", zeca.Flags.Description)
	}
}

func TestApplyWitnesses_InputNotMutated(t *testing.T) {
	witnesses := []domain.WitnessRecord{{WitnessName: "Maria Santos", TestimonyCount: 15}}
	snapshot := make([]domain.WitnessRecord, len(witnesses))
	copy(snapshot, witnesses)

	ApplyWitnesses(witnesses, sampleResult())

	if !reflect.DeepEqual(witnesses, snapshot) {
		t.Error("ApplyWitnesses mutated its input")
	}
}

func TestIndividualPassesCompose(t *testing.T) {
	// Each pass only writes its own flag group, so applying one pass
	// leaves the other groups zero.
	res := sampleResult()
	in := []domain.FlaggedCase{{CaseRecord: domain.CaseRecord{CaseID: "PROC-001"}}}

	out := CaseDirectExchange(in, res.DirectExchange)
	if !out[0].Flags.DirectExchange {
		t.Error("expected the direct-exchange flag")
	}
	if out[0].Flags.BorrowedWitness || out[0].Flags.Triangulation || out[0].Flags.DualRole {
		t.Errorf("pass wrote outside its flag group: %+v", out[0].Flags)
	}
	if in[0].Flags.DirectExchange {
		t.Error("pass mutated its input slice")
	}

	// Order of the remaining passes does not matter.
	ab := CaseBorrowedWitness(CaseTriangulation(out, res.Triangulation), res.BorrowedWitness)
	ba := CaseTriangulation(CaseBorrowedWitness(out, res.BorrowedWitness), res.Triangulation)
	if !reflect.DeepEqual(ab, ba) {
		t.Error("pass composition is order-sensitive")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		exchange bool
		triang   bool
		dual     bool
		borrowed bool
		want     string
	}{
		{"none", false, false, false, false, ""},
		{"single", true, false, false, false, "Padrões detectados: troca direta"},
		{"all", true, true, true, true, "Padrões detectados: troca direta, triangulação, duplo papel, prova emprestada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.exchange, tt.triang, tt.dual, tt.borrowed); got != tt.want {
				t.Errorf("describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
