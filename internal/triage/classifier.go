// Package triage implements the fast rule-based classifier and insight
// generator. It operates on the boolean factor set only, independently
// of the weighted score engine, and is strictly deterministic:
// identical inputs produce byte-identical insight text and identical
// priority.
package triage

import (
	"fmt"

	"github.com/opensource-legal/caracara/internal/domain"
)

// Fixed per-factor score increments.
const (
	pointsTriangulation      = 35
	pointsDirectExchange     = 30
	pointsBorrowedWitness    = 25
	pointsDualRole           = 20
	pointsOpposingSide       = 15
	pointsRecurrentAttorneys = 10
	pointsGeoConcentration   = 8
	pointsTemporal           = 12

	recurrentAttorneyFloor  = 2
	geoConcentrationFloor   = 80.0
	escalationAttorneyFloor = 3
)

// Classification score thresholds.
const (
	scoreCritical    = 60
	scoreAttention   = 35
	scoreObservation = 15
)

// Base priority per classification, 1 = highest. Escalations subtract,
// clamped at 1.
var basePriority = map[domain.TriageClass]int{
	domain.TriageCritical:    2,
	domain.TriageAttention:   3,
	domain.TriageObservation: 4,
	domain.TriageNormal:      5,
}

// Classifier evaluates triage inputs against the built-in factor table
// plus any compiled operator-supplied rules.
type Classifier struct {
	rules []*compiledRule
}

// NewClassifier compiles the optional custom rules and returns a
// ready classifier. Rule compilation errors fail construction.
func NewClassifier(rules []domain.TriageRule) (*Classifier, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, fmt.Errorf("compiling triage rules: %w", err)
	}
	return &Classifier{rules: compiled}, nil
}

// Evaluate classifies one factor set. The insight list is assembled in
// a fixed factor order, custom-rule insights follow sorted by rule ID,
// and the mandatory-validation disclaimer always terminates the text.
func (c *Classifier) Evaluate(in domain.TriageInput) domain.TriageResult {
	score := 0
	var insights []string

	trigger := func(points int, insight string) {
		score += points
		insights = append(insights, insight)
	}

	if in.HasTriangulation {
		trigger(pointsTriangulation, insightTriangulation)
	}
	if in.HasDirectExchange {
		trigger(pointsDirectExchange, insightDirectExchange)
	}
	if in.HasBorrowedWitness {
		trigger(pointsBorrowedWitness, insightBorrowedWitness)
	}
	if in.HasDualRole {
		trigger(pointsDualRole, insightDualRole)
	}
	if in.HasOpposingSideDualRole {
		trigger(pointsOpposingSide, insightOpposingSide)
	}
	if in.RecurrentAttorneyCount > recurrentAttorneyFloor {
		trigger(pointsRecurrentAttorneys, insightRecurrentAttorneys)
	}
	if in.GeographicConcentration > geoConcentrationFloor {
		trigger(pointsGeoConcentration, insightGeoConcentration)
	}
	if in.HasTemporalConcentration {
		trigger(pointsTemporal, insightTemporal)
	}

	for _, rule := range c.rules {
		if rule.eval(in) {
			score += rule.score
			insights = append(insights, rule.insight)
		}
	}

	class := classify(in, score)
	insights = append(insights, insightDisclaimer)

	return domain.TriageResult{
		Classification: class,
		Score:          score,
		Priority:       priority(in, class),
		Insights:       insights,
	}
}

// classify applies the tier rules. The hard factors (triangulation,
// direct exchange, borrowed witness) force CRÍTICO regardless of score.
func classify(in domain.TriageInput, score int) domain.TriageClass {
	hard := in.HasTriangulation || in.HasDirectExchange || in.HasBorrowedWitness
	switch {
	case hard || score >= scoreCritical:
		return domain.TriageCritical
	case in.HasDualRole || in.HasOpposingSideDualRole || score >= scoreAttention:
		return domain.TriageAttention
	case score >= scoreObservation:
		return domain.TriageObservation
	default:
		return domain.TriageNormal
	}
}

// priority derives 1..5 from the classification with two
// score-independent escalations, each bumping one level higher.
func priority(in domain.TriageInput, class domain.TriageClass) int {
	p := basePriority[class]
	if in.HasTriangulation && in.HasDirectExchange {
		p--
	}
	if in.HasBorrowedWitness && in.RecurrentAttorneyCount > escalationAttorneyFloor {
		p--
	}
	if p < 1 {
		p = 1
	}
	return p
}
