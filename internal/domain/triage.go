package domain

// TriageClass is the fast rule-based classification tier. It is
// independent of the weighted score bands and may disagree with them:
// the score answers "how severe", triage answers "which category".
type TriageClass string

const (
	TriageCritical    TriageClass = "CRÍTICO"
	TriageAttention   TriageClass = "ATENÇÃO"
	TriageObservation TriageClass = "OBSERVAÇÃO"
	TriageNormal      TriageClass = "NORMAL"
)

// TriageInput is the boolean factor set the triage classifier operates
// on, extracted from an analysis for one case or one witness.
type TriageInput struct {
	HasTriangulation        bool `json:"has_triangulation"`
	HasDirectExchange       bool `json:"has_direct_exchange"`
	HasBorrowedWitness      bool `json:"has_borrowed_witness"`
	HasDualRole             bool `json:"has_dual_role"`
	HasOpposingSideDualRole bool `json:"has_opposing_side_dual_role"`

	RecurrentAttorneyCount   int     `json:"recurrent_attorney_count"`
	GeographicConcentration  float64 `json:"geographic_concentration"`
	HasTemporalConcentration bool    `json:"has_temporal_concentration"`
}

// TriageResult is the triage classifier output. Identical inputs always
// produce byte-identical insights and the same priority.
type TriageResult struct {
	Classification TriageClass `json:"classificacao"`
	Score          int         `json:"pontuacao"`

	// Priority runs 1 (highest) to 5 (lowest).
	Priority int `json:"prioridade"`

	// Insights is the ordered narrative, one sentence per triggered
	// factor, always terminated by the mandatory-validation disclaimer.
	Insights []string `json:"insights"`
}

// TriageRule is an operator-supplied triage rule: a CEL expression over
// the TriageInput fields that, when it evaluates to true, adds Score
// points and appends Insight to the narrative. Rules are compiled and
// validated up front; disabled rules are skipped.
type TriageRule struct {
	ID         string `json:"id" yaml:"id"`
	Expression string `json:"expression" yaml:"expression"`
	Score      int    `json:"score" yaml:"score"`
	Insight    string `json:"insight" yaml:"insight"`
	Enabled    bool   `json:"enabled" yaml:"enabled"`
}
