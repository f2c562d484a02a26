package domain

import (
	"time"
)

// CaseRecord is one labor-litigation case as supplied by the platform.
// Records arrive already parsed and validated (CNJ numbering, dedup,
// defaulting) — the engine never mutates source fields.
type CaseRecord struct {
	// CaseID is the unique case number and the record's identity.
	CaseID string `json:"case_id"`

	// ClaimantName is the party bringing the case. May be empty.
	ClaimantName string `json:"claimant_name,omitempty"`

	// Witness lists. Side A is the claimant's side, side B the opposing
	// side. AllWitnesses is used when the source system did not record
	// which side a witness testified for.
	WitnessesSideA []string `json:"witnesses_side_a,omitempty"`
	WitnessesSideB []string `json:"witnesses_side_b,omitempty"`
	AllWitnesses   []string `json:"all_witnesses,omitempty"`

	// AttorneysSideA are the attorneys representing the claimant.
	AttorneysSideA []string `json:"attorneys_side_a,omitempty"`

	// Geography of the proceeding.
	Jurisdiction string `json:"comarca,omitempty"`
	Venue        string `json:"vara,omitempty"`

	// HearingDate is the hearing date, zero when unknown.
	HearingDate time.Time `json:"hearing_date,omitzero"`
}

// HasDate reports whether the record carries a usable hearing date.
func (c *CaseRecord) HasDate() bool {
	return !c.HearingDate.IsZero()
}

// CaseFlags are the derived fields the flag updater attaches to a case.
// One group per detector; no group reads another group's fields.
type CaseFlags struct {
	DirectExchange     bool     `json:"suspeita_troca_direta"`
	ExchangePartners   []string `json:"parceiros_troca,omitempty"`
	Triangulation      bool     `json:"suspeita_triangulacao"`
	TriangulationPaths []string `json:"ciclos_triangulacao,omitempty"`
	DualRole           bool     `json:"suspeita_duplo_papel"`
	DualRoleNames      []string `json:"nomes_duplo_papel,omitempty"`
	BorrowedWitness    bool     `json:"alerta_prova_emprestada"`
	BorrowedNames      []string `json:"testemunhas_profissionais,omitempty"`
	Description        string   `json:"descricao_suspeita,omitempty"`
}

// FlaggedCase is a case record with detection flags denormalized onto it.
// Produced by the flag updater; the embedded source record is a copy.
type FlaggedCase struct {
	CaseRecord
	Flags CaseFlags `json:"flags"`
}
