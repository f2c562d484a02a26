// Package scoring folds detector output into weighted 0-100 risk
// scores with per-factor breakdowns. The factor tables are pure
// configuration; the score bands are fixed and independent of the
// rule-based triage classifier — the two may disagree and both are
// surfaced, since they answer different questions.
package scoring

import (
	"math"
	"sort"

	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/index"
)

// Score bands, fixed by contract.
const (
	bandCritical = 85
	bandHigh     = 70
	bandMedium   = 50
	bandLow      = 30
)

// factorOrder fixes the order factors contribute to risk-factor and
// recommendation lists.
var factorOrder = []string{
	domain.FactorDirectExchange,
	domain.FactorTriangulation,
	domain.FactorDualRole,
	domain.FactorBorrowedWitness,
}

// Scorer converts detection results into scores. Construct once per
// engine; it holds only immutable configuration.
type Scorer struct {
	cfg domain.ScoringConfig
}

// NewScorer creates a scorer over the given factor tables.
func NewScorer(cfg domain.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// factorHit is one detector type's presence for a subject, with the
// confidences of the contributing matches.
type factorHit struct {
	confidences []int
	alert       bool // borrowed-witness alert flag
}

// ScoreCase computes the score for a single case. A case implicated by
// zero matches scores 0 with classification MINIMO.
func (s *Scorer) ScoreCase(res *domain.AnalysisResult, caseID string) domain.CaseScore {
	hits := caseHits(res, caseID)
	breakdown, confidence := s.breakdown(s.cfg.Case, hits)

	_, borrowedAlert := hits[domain.FactorBorrowedWitness]

	return domain.CaseScore{
		CaseID:          caseID,
		ScoreFinal:      breakdown.Total,
		Breakdown:       breakdown,
		RiskFactors:     riskFactors(hits),
		Priority:        casePriority(breakdown.Classification, borrowedAlert),
		ConfidenceLevel: confidence,
	}
}

// ScoreWitness computes the score for a single witness, keyed by
// normalized name.
func (s *Scorer) ScoreWitness(res *domain.AnalysisResult, witnessName string) domain.WitnessScore {
	name := index.Normalize(witnessName)
	hits := witnessHits(res, name)
	breakdown, confidence := s.breakdown(s.cfg.Witness, hits)

	borrowed := hits[domain.FactorBorrowedWitness]

	return domain.WitnessScore{
		WitnessName:     name,
		ScoreFinal:      breakdown.Total,
		Breakdown:       breakdown,
		RiskFactors:     riskFactors(hits),
		Priority:        witnessPriority(breakdown.Classification, borrowed != nil && borrowed.alert),
		ConfidenceLevel: confidence,
	}
}

// ScoreAllCases scores every case in the batch and aggregates the
// classification distribution. Output is sorted by case ID.
func (s *Scorer) ScoreAllCases(res *domain.AnalysisResult, cases []domain.CaseRecord) domain.CaseScoreReport {
	report := domain.CaseScoreReport{Scores: make([]domain.CaseScore, 0, len(cases))}
	for i := range cases {
		score := s.ScoreCase(res, cases[i].CaseID)
		report.Scores = append(report.Scores, score)
		report.Metrics.Scored++
		report.Metrics.Distribution.Add(score.Breakdown.Classification)
	}
	sort.Slice(report.Scores, func(i, j int) bool {
		return report.Scores[i].CaseID < report.Scores[j].CaseID
	})
	return report
}

// ScoreAllWitnesses scores every witness in the batch. Output is
// sorted by normalized name; duplicate names collapse to one entry.
func (s *Scorer) ScoreAllWitnesses(res *domain.AnalysisResult, witnesses []domain.WitnessRecord) domain.WitnessScoreReport {
	report := domain.WitnessScoreReport{Scores: make([]domain.WitnessScore, 0, len(witnesses))}
	seen := make(map[string]bool, len(witnesses))
	for i := range witnesses {
		name := index.Normalize(witnesses[i].WitnessName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		score := s.ScoreWitness(res, name)
		report.Scores = append(report.Scores, score)
		report.Metrics.Scored++
		report.Metrics.Distribution.Add(score.Breakdown.Classification)
	}
	sort.Slice(report.Scores, func(i, j int) bool {
		return report.Scores[i].WitnessName < report.Scores[j].WitnessName
	})
	return report
}

// breakdown assembles the weighted component table for the present
// factors. Each present factor contributes round(score*weight); the
// total saturates at 100.
func (s *Scorer) breakdown(table map[string]domain.FactorWeight, hits map[string]*factorHit) (domain.ScoreBreakdown, float64) {
	b := domain.ScoreBreakdown{
		Components: make(map[string]domain.ScoreComponent, len(hits)),
	}

	total := 0
	var confidences []int
	for _, factor := range factorOrder {
		hit, ok := hits[factor]
		if !ok {
			continue
		}
		fw, ok := table[factor]
		if !ok {
			continue
		}
		b.Components[factor] = domain.ScoreComponent{
			Score:       fw.Score,
			Weight:      fw.Weight,
			Description: factorDescriptions[factor],
		}
		total += int(math.Round(float64(fw.Score) * fw.Weight))
		b.Recommendations = append(b.Recommendations, recommendations[factor])
		confidences = append(confidences, hit.confidences...)
	}

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	b.Total = total
	b.Classification = Classify(total)

	return b, confidenceLevel(confidences)
}

// Classify maps a 0-100 score to its fixed band.
func Classify(total int) domain.Classification {
	switch {
	case total >= bandCritical:
		return domain.ClassCritical
	case total >= bandHigh:
		return domain.ClassHigh
	case total >= bandMedium:
		return domain.ClassMedium
	case total >= bandLow:
		return domain.ClassLow
	default:
		return domain.ClassMinimal
	}
}

// casePriority derives handling priority from the classification, with
// one override: a borrowed-witness alert downgrades a would-be ALTA to
// NAO_RECOMENDADA, because a professional witness may be a legitimate
// technical witness.
func casePriority(c domain.Classification, borrowedAlert bool) domain.CasePriority {
	var p domain.CasePriority
	switch c {
	case domain.ClassCritical:
		p = domain.PriorityUrgent
	case domain.ClassHigh:
		p = domain.PriorityHigh
	case domain.ClassMedium:
		p = domain.PriorityMedium
	default:
		p = domain.PriorityLow
	}
	if borrowedAlert && p == domain.PriorityHigh {
		return domain.PriorityNotRecommended
	}
	return p
}

// witnessPriority mirrors casePriority with the witness vocabulary. A
// borrowed-witness alert promotes the top classification to
// PROFISSIONAL directly.
func witnessPriority(c domain.Classification, borrowedAlert bool) domain.WitnessPriority {
	switch c {
	case domain.ClassCritical:
		return domain.WitnessProfessional
	case domain.ClassHigh:
		if borrowedAlert {
			return domain.WitnessProfessional
		}
		return domain.WitnessSuspect
	case domain.ClassMedium, domain.ClassLow:
		return domain.WitnessOccasional
	default:
		return domain.WitnessNormal
	}
}

// confidenceLevel averages contributing match confidences into [0,1],
// rounded to two decimals so output is byte-stable.
func confidenceLevel(confidences []int) float64 {
	if len(confidences) == 0 {
		return 0
	}
	sum := 0
	for _, c := range confidences {
		sum += c
	}
	avg := float64(sum) / float64(len(confidences)) / 100
	return math.Round(avg*100) / 100
}

func riskFactors(hits map[string]*factorHit) []string {
	var out []string
	for _, factor := range factorOrder {
		if _, ok := hits[factor]; ok {
			out = append(out, factor)
		}
	}
	return out
}

// caseHits indexes which detector types implicate the case.
func caseHits(res *domain.AnalysisResult, caseID string) map[string]*factorHit {
	hits := make(map[string]*factorHit)

	for i := range res.DirectExchange {
		m := &res.DirectExchange[i]
		if containsCase(m.CaseIDs(), caseID) {
			addHit(hits, domain.FactorDirectExchange, m.Confidence, false)
		}
	}
	for i := range res.Triangulation {
		m := &res.Triangulation[i]
		if containsCase(m.TraversedCases, caseID) {
			addHit(hits, domain.FactorTriangulation, m.Confidence, false)
		}
	}
	for i := range res.DualRole {
		m := &res.DualRole[i]
		if containsCase(m.CaseIDs(), caseID) {
			addHit(hits, domain.FactorDualRole, m.Confidence, false)
		}
	}
	for i := range res.BorrowedWitness {
		m := &res.BorrowedWitness[i]
		if containsCase(m.CaseIDs, caseID) {
			addHit(hits, domain.FactorBorrowedWitness, m.Confidence, m.Alert)
		}
	}

	return hits
}

// witnessHits indexes which detector types implicate the witness.
func witnessHits(res *domain.AnalysisResult, name string) map[string]*factorHit {
	hits := make(map[string]*factorHit)
	if name == "" {
		return hits
	}

	for i := range res.DirectExchange {
		m := &res.DirectExchange[i]
		if m.ParticipantA == name || m.ParticipantB == name {
			addHit(hits, domain.FactorDirectExchange, m.Confidence, false)
		}
	}
	for i := range res.Triangulation {
		m := &res.Triangulation[i]
		for _, p := range m.Participants {
			if p == name {
				addHit(hits, domain.FactorTriangulation, m.Confidence, false)
				break
			}
		}
	}
	for i := range res.DualRole {
		m := &res.DualRole[i]
		if m.Name == name {
			addHit(hits, domain.FactorDualRole, m.Confidence, false)
		}
	}
	for i := range res.BorrowedWitness {
		m := &res.BorrowedWitness[i]
		if m.Name == name {
			addHit(hits, domain.FactorBorrowedWitness, m.Confidence, m.Alert)
		}
	}

	return hits
}

func addHit(hits map[string]*factorHit, factor string, confidence int, alert bool) {
	h, ok := hits[factor]
	if !ok {
		h = &factorHit{}
		hits[factor] = h
	}
	h.confidences = append(h.confidences, confidence)
	h.alert = h.alert || alert
}

func containsCase(ids []string, caseID string) bool {
	for _, id := range ids {
		if id == caseID {
			return true
		}
	}
	return false
}
