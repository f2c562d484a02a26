package domain

// Classification is the score-band severity tier.
type Classification string

const (
	ClassCritical Classification = "CRITICO"
	ClassHigh     Classification = "ALTO"
	ClassMedium   Classification = "MEDIO"
	ClassLow      Classification = "BAIXO"
	ClassMinimal  Classification = "MINIMO"
)

// CasePriority is the recommended handling priority for a case.
type CasePriority string

const (
	PriorityUrgent CasePriority = "URGENTE"
	PriorityHigh   CasePriority = "ALTA"
	PriorityMedium CasePriority = "MEDIA"
	PriorityLow    CasePriority = "BAIXA"

	// PriorityNotRecommended is the safety valve: a borrowed-witness
	// alert alone may reflect a legitimate technical witness, so a
	// would-be high priority is downgraded rather than escalated.
	PriorityNotRecommended CasePriority = "NAO_RECOMENDADA"
)

// WitnessPriority is the recommended handling priority for a witness.
type WitnessPriority string

const (
	WitnessProfessional WitnessPriority = "PROFISSIONAL"
	WitnessSuspect      WitnessPriority = "SUSPEITA"
	WitnessOccasional   WitnessPriority = "OCASIONAL"
	WitnessNormal       WitnessPriority = "NORMAL"
)

// ScoreComponent is one factor's contribution to a score breakdown.
type ScoreComponent struct {
	Score       int     `json:"score"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// ScoreBreakdown explains how a final score was assembled. Components
// are keyed by factor name; Total saturates at 100.
type ScoreBreakdown struct {
	Components      map[string]ScoreComponent `json:"components"`
	Total           int                       `json:"total"`
	Classification  Classification            `json:"classification"`
	Recommendations []string                  `json:"recommendations"`
}

// CaseScore is the final scoring output for one case.
type CaseScore struct {
	CaseID          string         `json:"case_id"`
	ScoreFinal      int            `json:"score_final"`
	Breakdown       ScoreBreakdown `json:"score_breakdown"`
	RiskFactors     []string       `json:"risk_factors"`
	Priority        CasePriority   `json:"prioridade_contradita"`
	ConfidenceLevel float64        `json:"confidence_level"`
}

// WitnessScore is the final scoring output for one witness.
type WitnessScore struct {
	WitnessName     string          `json:"witness_name"`
	ScoreFinal      int             `json:"score_final"`
	Breakdown       ScoreBreakdown  `json:"score_breakdown"`
	RiskFactors     []string        `json:"risk_factors"`
	Priority        WitnessPriority `json:"prioridade"`
	ConfidenceLevel float64         `json:"confidence_level"`
}

// ScoreDistribution counts scored records per classification band.
type ScoreDistribution struct {
	Critical int `json:"critico"`
	High     int `json:"alto"`
	Medium   int `json:"medio"`
	Low      int `json:"baixo"`
	Minimal  int `json:"minimo"`
}

// Add registers one classification in the distribution.
func (d *ScoreDistribution) Add(c Classification) {
	switch c {
	case ClassCritical:
		d.Critical++
	case ClassHigh:
		d.High++
	case ClassMedium:
		d.Medium++
	case ClassLow:
		d.Low++
	default:
		d.Minimal++
	}
}

// ScoringMetrics aggregates a batch scoring run.
type ScoringMetrics struct {
	Scored       int               `json:"avaliados"`
	Distribution ScoreDistribution `json:"distribuicao_scores"`
}

// CaseScoreReport is the batch scoring output for cases.
type CaseScoreReport struct {
	Scores  []CaseScore    `json:"scores"`
	Metrics ScoringMetrics `json:"scoring_metrics"`
}

// WitnessScoreReport is the batch scoring output for witnesses.
type WitnessScoreReport struct {
	Scores  []WitnessScore `json:"scores"`
	Metrics ScoringMetrics `json:"scoring_metrics"`
}
