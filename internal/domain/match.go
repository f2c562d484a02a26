package domain

import (
	"time"
)

// Side identifies which party a witness testified for.
type Side string

const (
	// SideA is the claimant's side.
	SideA Side = "A"

	// SideB is the opposing side.
	SideB Side = "B"

	// SideUnknown is used when the source system did not record the side.
	SideUnknown Side = "unknown"
)

// RiskTier is the detector-local risk bucket for a match.
type RiskTier string

const (
	RiskHigh   RiskTier = "ALTO"
	RiskMedium RiskTier = "MEDIO"
	RiskLow    RiskTier = "BAIXO"
)

// DirectExchangeMatch records true reciprocity between two people:
// each testified in at least one case where the other is the claimant.
// ParticipantA sorts before ParticipantB; exactly one match is emitted
// per unordered pair.
type DirectExchangeMatch struct {
	ParticipantA string `json:"participante_a"`
	ParticipantB string `json:"participante_b"`

	// CasesAForB are cases where A testified and B is the claimant;
	// CasesBForA is the symmetric set. Both are non-empty by contract.
	CasesAForB []string `json:"casos_a_para_b"`
	CasesBForA []string `json:"casos_b_para_a"`

	// SharedAttorneys appear on the claimant side of cases in both sets.
	SharedAttorneys []string `json:"advogados_compartilhados,omitempty"`

	Confidence int `json:"confianca"`
}

// CaseIDs returns all cases implicated by the match.
func (m *DirectExchangeMatch) CaseIDs() []string {
	ids := make([]string, 0, len(m.CasesAForB)+len(m.CasesBForA))
	ids = append(ids, m.CasesAForB...)
	ids = append(ids, m.CasesBForA...)
	return ids
}

// TriangulationMatch records a simple cycle of witness-for-claimant
// relationships. Participants lists the cycle in traversal order
// starting at the lexicographically smallest name, so rotations of the
// same cycle collapse to one match.
type TriangulationMatch struct {
	Participants []string `json:"participantes"`
	Length       int      `json:"tamanho_ciclo"`

	// TraversedCases holds one case ID per edge, in traversal order.
	TraversedCases []string `json:"casos_percorridos"`

	// SharedAttorneys appear in every traversed case.
	SharedAttorneys []string `json:"advogados_compartilhados,omitempty"`

	// Jurisdictions and Venues spanned by the traversed cases.
	Jurisdictions []string `json:"comarcas,omitempty"`
	Venues        []string `json:"varas,omitempty"`

	// Path is the rendered cycle, e.g. "ana → bruno → carla → ana".
	Path string `json:"descricao_ciclo"`

	Confidence int `json:"confianca"`
}

// RoleEvent is one entry in a dual-role timeline: the role a person
// played in one case, ordered by hearing date.
type RoleEvent struct {
	CaseID string    `json:"case_id"`
	Role   string    `json:"papel"` // "reclamante" or "testemunha"
	Date   time.Time `json:"data,omitzero"`
}

// DualRoleMatch records a person appearing as claimant in some cases
// and as witness in others.
type DualRoleMatch struct {
	Name string `json:"nome"`

	CasesAsClaimant []string `json:"casos_como_reclamante"`
	CasesAsWitness  []string `json:"casos_como_testemunha"`

	// OpposingSide is true when any witness appearance was for side B.
	OpposingSide bool `json:"testemunhou_lado_oposto"`

	SharedAttorneys []string `json:"advogados_compartilhados,omitempty"`

	// Timeline orders role-per-case by date ascending; undated cases
	// sort last in stable input order.
	Timeline []RoleEvent `json:"linha_do_tempo"`

	Risk       RiskTier `json:"risco"`
	Confidence int      `json:"confianca"`
}

// CaseIDs returns all cases implicated by the match.
func (m *DualRoleMatch) CaseIDs() []string {
	ids := make([]string, 0, len(m.CasesAsClaimant)+len(m.CasesAsWitness))
	ids = append(ids, m.CasesAsClaimant...)
	ids = append(ids, m.CasesAsWitness...)
	return ids
}

// BorrowedWitnessMatch records a potential professional ("rented")
// witness: testimony count above the alert threshold, characterized by
// attorney recurrence and geographic/temporal concentration.
type BorrowedWitnessMatch struct {
	Name           string   `json:"nome"`
	TestimonyCount int      `json:"qtd_depoimentos"`
	CaseIDs        []string `json:"casos"`

	// RecurrentAttorneys appear in at least 30% of the implicated cases
	// (minimum 2 occurrences).
	RecurrentAttorneys []string `json:"advogados_recorrentes,omitempty"`

	// Geographic concentration: share of cases in the single most
	// frequent venue and jurisdiction, in percent.
	TopVenue                  string  `json:"vara_principal,omitempty"`
	VenueConcentration        float64 `json:"concentracao_vara"`
	TopJurisdiction           string  `json:"comarca_principal,omitempty"`
	JurisdictionConcentration float64 `json:"concentracao_comarca"`

	// TemporalConcentration is true when more than half of all
	// testimony falls within 6 consecutive month buckets.
	TemporalConcentration bool `json:"timeline_suspeita"`

	// Alert is true whenever TestimonyCount exceeds the alert
	// threshold, independent of the risk tier.
	Alert bool `json:"alerta"`

	Risk       RiskTier `json:"risco"`
	Confidence int      `json:"confianca"`
}
