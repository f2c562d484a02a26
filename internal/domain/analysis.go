package domain

// AnalysisResult is the complete detection output for one batch.
// All lists are sorted by a documented deterministic key before being
// returned; two runs over identical input produce identical payloads.
type AnalysisResult struct {
	DirectExchange  []DirectExchangeMatch  `json:"trocaDireta"`
	Triangulation   []TriangulationMatch   `json:"triangulacao"`
	DualRole        []DualRoleMatch        `json:"duploPapel"`
	BorrowedWitness []BorrowedWitnessMatch `json:"provaEmprestada"`

	Summary Summary `json:"summary"`

	// Meta carries per-run bookkeeping and is excluded from the
	// determinism contract (the run ID is freshly generated).
	Meta AnalysisMeta `json:"meta"`
}

// Summary aggregates a batch analysis.
type Summary struct {
	TotalCases     int `json:"total_processos"`
	TotalWitnesses int `json:"total_testemunhas"`

	// Skipped counts records dropped for missing identity fields.
	// Such records degrade the batch, they never abort it.
	SkippedCases     int `json:"processos_ignorados"`
	SkippedWitnesses int `json:"testemunhas_ignoradas"`

	DirectExchangeCount  int `json:"qtd_troca_direta"`
	TriangulationCount   int `json:"qtd_triangulacao"`
	DualRoleCount        int `json:"qtd_duplo_papel"`
	BorrowedWitnessCount int `json:"qtd_prova_emprestada"`

	// FlaggedCases counts distinct cases implicated by any match.
	FlaggedCases int `json:"processos_sinalizados"`
}

// AnalysisMeta is per-run bookkeeping.
type AnalysisMeta struct {
	RunID         string `json:"run_id"`
	EngineVersion string `json:"engine_version"`
	ElapsedMs     int64  `json:"elapsed_ms"`
}

// EngineVersion identifies the analysis semantics version carried in
// result metadata.
const EngineVersion = "1.0.0"
