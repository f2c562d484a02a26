package domain

// WitnessRecord is one witness as supplied by the platform. The witness
// name acts as the natural key after normalization.
type WitnessRecord struct {
	// WitnessName identifies the witness. Empty names are skipped and
	// reported in the batch summary.
	WitnessName string `json:"witness_name"`

	// TestimonyCount is the total number of testimonies attributed to
	// this witness, never negative.
	TestimonyCount int `json:"qtd_depoimentos"`

	// CaseIDsAsWitness lists the cases this witness testified in.
	CaseIDsAsWitness []string `json:"case_ids_as_witness,omitempty"`
}

// WitnessFlags are the derived fields the flag updater attaches to a
// witness record.
type WitnessFlags struct {
	DirectExchange  bool     `json:"suspeita_troca_direta"`
	Triangulation   bool     `json:"suspeita_triangulacao"`
	DualRole        bool     `json:"suspeita_duplo_papel"`
	BorrowedWitness bool     `json:"alerta_prova_emprestada"`
	BorrowedRisk    RiskTier `json:"risco_prova_emprestada,omitempty"`
	Description     string   `json:"descricao_suspeita,omitempty"`
}

// FlaggedWitness is a witness record with detection flags denormalized
// onto it.
type FlaggedWitness struct {
	WitnessRecord
	Flags WitnessFlags `json:"flags"`
}
