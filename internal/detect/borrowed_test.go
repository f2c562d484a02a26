package detect

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/index"
)

// professionalBatch builds n cases all witnessed by the same person in
// one venue with one attorney, hearings inside a three-month window.
func professionalBatch(witness string, n int) ([]domain.CaseRecord, []domain.WitnessRecord) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := make([]domain.CaseRecord, 0, n)
	caseIDs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("PROC-%03d", i+1)
		caseIDs = append(caseIDs, id)
		cases = append(cases, domain.CaseRecord{
			CaseID:         id,
			ClaimantName:   fmt.Sprintf("claimant %d", i),
			WitnessesSideA: []string{witness},
			AttorneysSideA: []string{"Dr. Pedro"},
			Jurisdiction:   "Campinas",
			Venue:          "2ª Vara do Trabalho",
			HearingDate:    base.AddDate(0, i%3, 0),
		})
	}
	witnesses := []domain.WitnessRecord{
		{WitnessName: witness, TestimonyCount: n, CaseIDsAsWitness: caseIDs},
	}
	return cases, witnesses
}

func TestBorrowedWitness_AlertThreshold(t *testing.T) {
	cfg := domain.DefaultConfig().Detection

	tests := []struct {
		count     int
		wantAlert bool
	}{
		{9, false},
		{10, false}, // threshold is strict
		{11, true},
		{15, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("count %d", tt.count), func(t *testing.T) {
			cases, witnesses := professionalBatch("maria santos", tt.count)
			matches := BorrowedWitness(index.Build(cases), witnesses, cfg)

			if tt.wantAlert {
				if len(matches) != 1 || !matches[0].Alert {
					t.Fatalf("expected one alerting match, got %v", matches)
				}
			} else if len(matches) != 0 {
				t.Fatalf("expected no matches at count %d, got %v", tt.count, matches)
			}
		})
	}
}

func TestBorrowedWitness_ProfessionalProfile(t *testing.T) {
	// 15 testimonies, one venue, one recurring attorney, all hearings
	// inside three months: the full professional-witness profile.
	cases, witnesses := professionalBatch("Maria Santos", 15)
	matches := BorrowedWitness(index.Build(cases), witnesses, domain.DefaultConfig().Detection)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	m := matches[0]
	if m.Name != "maria santos" {
		t.Errorf("Name = %q, want normalized maria santos", m.Name)
	}
	if m.TestimonyCount != 15 || len(m.CaseIDs) != 15 {
		t.Errorf("count = %d with %d cases, want 15/15", m.TestimonyCount, len(m.CaseIDs))
	}
	if !reflect.DeepEqual(m.RecurrentAttorneys, []string{"dr. pedro"}) {
		t.Errorf("RecurrentAttorneys = %v, want [dr. pedro]", m.RecurrentAttorneys)
	}
	if m.TopVenue != "2ª Vara do Trabalho" || m.VenueConcentration != 100 {
		t.Errorf("venue concentration = %q %.0f%%, want 100%% in one venue", m.TopVenue, m.VenueConcentration)
	}
	if m.TopJurisdiction != "Campinas" || m.JurisdictionConcentration != 100 {
		t.Errorf("jurisdiction concentration = %q %.0f%%", m.TopJurisdiction, m.JurisdictionConcentration)
	}
	if !m.TemporalConcentration {
		t.Error("expected temporal concentration inside a three-month window")
	}
	if !m.Alert {
		t.Error("expected alert")
	}
	// 20 count points + 10 attorney + 15 geo + 15 temporal = 60.
	if m.Risk != domain.RiskHigh {
		t.Errorf("Risk = %q, want ALTO", m.Risk)
	}
	if m.Confidence != 90 {
		t.Errorf("confidence = %d, want 90", m.Confidence)
	}
}

func TestBorrowedWitness_LowSignalStaysLowRisk(t *testing.T) {
	// 12 testimonies spread over venues, attorneys and twelve months:
	// alert raises but nothing else accumulates.
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	var cases []domain.CaseRecord
	var caseIDs []string
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("PROC-%03d", i+1)
		caseIDs = append(caseIDs, id)
		cases = append(cases, domain.CaseRecord{
			CaseID:         id,
			ClaimantName:   fmt.Sprintf("claimant %d", i),
			WitnessesSideA: []string{"carlos lima"},
			AttorneysSideA: []string{fmt.Sprintf("Dr. %d", i)},
			Jurisdiction:   fmt.Sprintf("Comarca %d", i),
			Venue:          fmt.Sprintf("Vara %d", i),
			HearingDate:    base.AddDate(0, i, 0),
		})
	}
	witnesses := []domain.WitnessRecord{
		{WitnessName: "carlos lima", TestimonyCount: 12, CaseIDsAsWitness: caseIDs},
	}

	matches := BorrowedWitness(index.Build(cases), witnesses, domain.DefaultConfig().Detection)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if !m.Alert {
		t.Error("alert must raise on any count above the threshold")
	}
	if m.Risk != domain.RiskLow {
		t.Errorf("Risk = %q, want BAIXO for a spread-out profile", m.Risk)
	}
	if len(m.RecurrentAttorneys) != 0 {
		t.Errorf("RecurrentAttorneys = %v, want none", m.RecurrentAttorneys)
	}
	if m.TemporalConcentration {
		t.Error("expected no temporal concentration over twelve months")
	}
}

func TestBorrowedWitness_DuplicateRecordsCollapse(t *testing.T) {
	cases, witnesses := professionalBatch("maria santos", 12)
	witnesses = append(witnesses, domain.WitnessRecord{
		WitnessName:    "MARIA  SANTOS",
		TestimonyCount: 12,
	})

	matches := BorrowedWitness(index.Build(cases), witnesses, domain.DefaultConfig().Detection)
	if len(matches) != 1 {
		t.Errorf("expected duplicate names to collapse to 1 match, got %d", len(matches))
	}
}

func TestBorrowedWitness_CountOverridesRecordedCases(t *testing.T) {
	// A record above the threshold qualifies even when the index knows
	// none of its cases.
	witnesses := []domain.WitnessRecord{
		{WitnessName: "paulo nunes", TestimonyCount: 25},
	}

	matches := BorrowedWitness(index.Build(nil), witnesses, domain.DefaultConfig().Detection)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if !m.Alert || m.TestimonyCount != 25 {
		t.Errorf("unexpected match: %+v", m)
	}
	if m.VenueConcentration != 0 || m.TemporalConcentration {
		t.Error("expected no concentration signal without case metadata")
	}
}
