package engine

import (
	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/index"
)

// buildSummary aggregates match counts and the distinct flagged-case
// count for one analysis.
func buildSummary(res *domain.AnalysisResult, totalCases, totalWitnesses, skippedCases, skippedWitnesses int) domain.Summary {
	flagged := make(map[string]bool)
	for i := range res.DirectExchange {
		for _, id := range res.DirectExchange[i].CaseIDs() {
			flagged[id] = true
		}
	}
	for i := range res.Triangulation {
		for _, id := range res.Triangulation[i].TraversedCases {
			flagged[id] = true
		}
	}
	for i := range res.DualRole {
		for _, id := range res.DualRole[i].CaseIDs() {
			flagged[id] = true
		}
	}
	for i := range res.BorrowedWitness {
		for _, id := range res.BorrowedWitness[i].CaseIDs {
			flagged[id] = true
		}
	}

	return domain.Summary{
		TotalCases:           totalCases,
		TotalWitnesses:       totalWitnesses,
		SkippedCases:         skippedCases,
		SkippedWitnesses:     skippedWitnesses,
		DirectExchangeCount:  len(res.DirectExchange),
		TriangulationCount:   len(res.Triangulation),
		DualRoleCount:        len(res.DualRole),
		BorrowedWitnessCount: len(res.BorrowedWitness),
		FlaggedCases:         len(flagged),
	}
}

// CaseTriageInput extracts the triage factor set for one case from an
// analysis.
func CaseTriageInput(res *domain.AnalysisResult, caseID string) domain.TriageInput {
	var in domain.TriageInput

	for i := range res.DirectExchange {
		if containsID(res.DirectExchange[i].CaseIDs(), caseID) {
			in.HasDirectExchange = true
			break
		}
	}
	for i := range res.Triangulation {
		if containsID(res.Triangulation[i].TraversedCases, caseID) {
			in.HasTriangulation = true
			break
		}
	}
	for i := range res.DualRole {
		m := &res.DualRole[i]
		if containsID(m.CaseIDs(), caseID) {
			in.HasDualRole = true
			if m.OpposingSide {
				in.HasOpposingSideDualRole = true
			}
		}
	}
	for i := range res.BorrowedWitness {
		m := &res.BorrowedWitness[i]
		if !containsID(m.CaseIDs, caseID) {
			continue
		}
		in.HasBorrowedWitness = in.HasBorrowedWitness || m.Alert
		if n := len(m.RecurrentAttorneys); n > in.RecurrentAttorneyCount {
			in.RecurrentAttorneyCount = n
		}
		if m.VenueConcentration > in.GeographicConcentration {
			in.GeographicConcentration = m.VenueConcentration
		}
		in.HasTemporalConcentration = in.HasTemporalConcentration || m.TemporalConcentration
	}

	return in
}

// WitnessTriageInput extracts the triage factor set for one witness,
// keyed by normalized name.
func WitnessTriageInput(res *domain.AnalysisResult, name string) domain.TriageInput {
	var in domain.TriageInput
	name = index.Normalize(name)

	for i := range res.DirectExchange {
		m := &res.DirectExchange[i]
		if m.ParticipantA == name || m.ParticipantB == name {
			in.HasDirectExchange = true
			break
		}
	}
	for i := range res.Triangulation {
		if containsID(res.Triangulation[i].Participants, name) {
			in.HasTriangulation = true
			break
		}
	}
	for i := range res.DualRole {
		m := &res.DualRole[i]
		if m.Name == name {
			in.HasDualRole = true
			in.HasOpposingSideDualRole = m.OpposingSide
			break
		}
	}
	for i := range res.BorrowedWitness {
		m := &res.BorrowedWitness[i]
		if m.Name != name {
			continue
		}
		in.HasBorrowedWitness = m.Alert
		in.RecurrentAttorneyCount = len(m.RecurrentAttorneys)
		in.GeographicConcentration = m.VenueConcentration
		in.HasTemporalConcentration = m.TemporalConcentration
		break
	}

	return in
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
