// Package flags merges detection results back onto case and witness
// records as denormalized fields for external consumption. Every pass
// is a pure records -> records function: inputs are never mutated, and
// no pass reads a field another pass writes, so the four detector
// passes compose in any order. ApplyCases and ApplyWitnesses fix the
// documented composition order.
package flags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/index"
)

// ApplyCases runs all case flag passes in the documented order:
// direct exchange, triangulation, dual role, borrowed witness, then
// the description render.
func ApplyCases(cases []domain.CaseRecord, res *domain.AnalysisResult) []domain.FlaggedCase {
	out := make([]domain.FlaggedCase, len(cases))
	for i := range cases {
		out[i] = domain.FlaggedCase{CaseRecord: cases[i]}
	}
	out = CaseDirectExchange(out, res.DirectExchange)
	out = CaseTriangulation(out, res.Triangulation)
	out = CaseDualRole(out, res.DualRole)
	out = CaseBorrowedWitness(out, res.BorrowedWitness)
	return describeCases(out)
}

// CaseDirectExchange flags cases implicated by a direct-exchange
// match and lists the exchange partners.
func CaseDirectExchange(cases []domain.FlaggedCase, matches []domain.DirectExchangeMatch) []domain.FlaggedCase {
	byCase := make(map[string][]string)
	for i := range matches {
		m := &matches[i]
		for _, id := range m.CaseIDs() {
			byCase[id] = append(byCase[id], m.ParticipantA, m.ParticipantB)
		}
	}

	out := copyCases(cases)
	for i := range out {
		if partners, ok := byCase[out[i].CaseID]; ok {
			out[i].Flags.DirectExchange = true
			out[i].Flags.ExchangePartners = uniqueSorted(partners)
		}
	}
	return out
}

// CaseTriangulation flags cases traversed by a triangulation cycle and
// records the rendered cycle paths.
func CaseTriangulation(cases []domain.FlaggedCase, matches []domain.TriangulationMatch) []domain.FlaggedCase {
	byCase := make(map[string][]string)
	for i := range matches {
		m := &matches[i]
		for _, id := range m.TraversedCases {
			byCase[id] = append(byCase[id], m.Path)
		}
	}

	out := copyCases(cases)
	for i := range out {
		if paths, ok := byCase[out[i].CaseID]; ok {
			out[i].Flags.Triangulation = true
			out[i].Flags.TriangulationPaths = uniqueSorted(paths)
		}
	}
	return out
}

// CaseDualRole flags cases involving a dual-role person.
func CaseDualRole(cases []domain.FlaggedCase, matches []domain.DualRoleMatch) []domain.FlaggedCase {
	byCase := make(map[string][]string)
	for i := range matches {
		m := &matches[i]
		for _, id := range m.CaseIDs() {
			byCase[id] = append(byCase[id], m.Name)
		}
	}

	out := copyCases(cases)
	for i := range out {
		if names, ok := byCase[out[i].CaseID]; ok {
			out[i].Flags.DualRole = true
			out[i].Flags.DualRoleNames = uniqueSorted(names)
		}
	}
	return out
}

// CaseBorrowedWitness flags cases where a borrowed-witness alert
// applies.
func CaseBorrowedWitness(cases []domain.FlaggedCase, matches []domain.BorrowedWitnessMatch) []domain.FlaggedCase {
	byCase := make(map[string][]string)
	for i := range matches {
		m := &matches[i]
		if !m.Alert {
			continue
		}
		for _, id := range m.CaseIDs {
			byCase[id] = append(byCase[id], m.Name)
		}
	}

	out := copyCases(cases)
	for i := range out {
		if names, ok := byCase[out[i].CaseID]; ok {
			out[i].Flags.BorrowedWitness = true
			out[i].Flags.BorrowedNames = uniqueSorted(names)
		}
	}
	return out
}

// describeCases renders the short suspicion description from the flag
// booleans. It runs after the detector passes and only reads flags.
func describeCases(cases []domain.FlaggedCase) []domain.FlaggedCase {
	out := copyCases(cases)
	for i := range out {
		out[i].Flags.Description = describe(
			out[i].Flags.DirectExchange,
			out[i].Flags.Triangulation,
			out[i].Flags.DualRole,
			out[i].Flags.BorrowedWitness,
		)
	}
	return out
}

// ApplyWitnesses runs all witness flag passes in the documented order,
// keyed by normalized witness name.
func ApplyWitnesses(witnesses []domain.WitnessRecord, res *domain.AnalysisResult) []domain.FlaggedWitness {
	out := make([]domain.FlaggedWitness, len(witnesses))
	for i := range witnesses {
		out[i] = domain.FlaggedWitness{WitnessRecord: witnesses[i]}
	}
	out = WitnessDirectExchange(out, res.DirectExchange)
	out = WitnessTriangulation(out, res.Triangulation)
	out = WitnessDualRole(out, res.DualRole)
	out = WitnessBorrowedWitness(out, res.BorrowedWitness)
	return describeWitnesses(out)
}

// WitnessDirectExchange flags witnesses participating in a direct
// exchange.
func WitnessDirectExchange(witnesses []domain.FlaggedWitness, matches []domain.DirectExchangeMatch) []domain.FlaggedWitness {
	names := make(map[string]bool)
	for i := range matches {
		names[matches[i].ParticipantA] = true
		names[matches[i].ParticipantB] = true
	}

	out := copyWitnesses(witnesses)
	for i := range out {
		if names[index.Normalize(out[i].WitnessName)] {
			out[i].Flags.DirectExchange = true
		}
	}
	return out
}

// WitnessTriangulation flags witnesses participating in a cycle.
func WitnessTriangulation(witnesses []domain.FlaggedWitness, matches []domain.TriangulationMatch) []domain.FlaggedWitness {
	names := make(map[string]bool)
	for i := range matches {
		for _, p := range matches[i].Participants {
			names[p] = true
		}
	}

	out := copyWitnesses(witnesses)
	for i := range out {
		if names[index.Normalize(out[i].WitnessName)] {
			out[i].Flags.Triangulation = true
		}
	}
	return out
}

// WitnessDualRole flags witnesses with a dual-role match.
func WitnessDualRole(witnesses []domain.FlaggedWitness, matches []domain.DualRoleMatch) []domain.FlaggedWitness {
	names := make(map[string]bool)
	for i := range matches {
		names[matches[i].Name] = true
	}

	out := copyWitnesses(witnesses)
	for i := range out {
		if names[index.Normalize(out[i].WitnessName)] {
			out[i].Flags.DualRole = true
		}
	}
	return out
}

// WitnessBorrowedWitness flags witnesses with a borrowed-witness alert
// and carries the detector's risk tier.
func WitnessBorrowedWitness(witnesses []domain.FlaggedWitness, matches []domain.BorrowedWitnessMatch) []domain.FlaggedWitness {
	byName := make(map[string]domain.RiskTier)
	for i := range matches {
		if matches[i].Alert {
			byName[matches[i].Name] = matches[i].Risk
		}
	}

	out := copyWitnesses(witnesses)
	for i := range out {
		if risk, ok := byName[index.Normalize(out[i].WitnessName)]; ok {
			out[i].Flags.BorrowedWitness = true
			out[i].Flags.BorrowedRisk = risk
		}
	}
	return out
}

func describeWitnesses(witnesses []domain.FlaggedWitness) []domain.FlaggedWitness {
	out := copyWitnesses(witnesses)
	for i := range out {
		out[i].Flags.Description = describe(
			out[i].Flags.DirectExchange,
			out[i].Flags.Triangulation,
			out[i].Flags.DualRole,
			out[i].Flags.BorrowedWitness,
		)
	}
	return out
}

func describe(exchange, triangulation, dualRole, borrowed bool) string {
	var parts []string
	if exchange {
		parts = append(parts, "troca direta")
	}
	if triangulation {
		parts = append(parts, "triangulação")
	}
	if dualRole {
		parts = append(parts, "duplo papel")
	}
	if borrowed {
		parts = append(parts, "prova emprestada")
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("Padrões detectados: %s", strings.Join(parts, ", "))
}

func copyCases(in []domain.FlaggedCase) []domain.FlaggedCase {
	out := make([]domain.FlaggedCase, len(in))
	copy(out, in)
	return out
}

func copyWitnesses(in []domain.FlaggedWitness) []domain.FlaggedWitness {
	out := make([]domain.FlaggedWitness, len(in))
	copy(out, in)
	return out
}

func uniqueSorted(in []string) []string {
	set := make(map[string]bool, len(in))
	for _, s := range in {
		if s != "" {
			set[s] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
