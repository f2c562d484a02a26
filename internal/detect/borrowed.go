package detect

import (
	"math"
	"sort"

	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/index"
)

// Borrowed-witness characterization model. Testimony counts are tiered
// at 15/20/30; the resulting points drive both the risk tier and the
// confidence.
const (
	borrowedPointsBase     = 10 // count above alert threshold
	borrowedPointsTier15   = 20
	borrowedPointsTier20   = 30
	borrowedPointsTier30   = 40
	borrowedAttorneyPoints = 10
	borrowedAttorneyCap    = 20
	borrowedGeoHighPct     = 80.0
	borrowedGeoHighPoints  = 15
	borrowedGeoMidPct      = 60.0
	borrowedGeoMidPoints   = 8
	borrowedTemporalPoints = 15

	borrowedHighTier   = 60
	borrowedMediumTier = 35

	borrowedBaseConfidence = 30
)

// BorrowedWitness flags witnesses whose testimony count exceeds the
// alert threshold as potential professional ("rented") witnesses and
// characterizes the suspicion by attorney recurrence, geographic
// concentration and temporal concentration. Alert is raised for every
// qualifying witness regardless of tier.
func BorrowedWitness(idx *index.Index, witnesses []domain.WitnessRecord, cfg domain.DetectionConfig) []domain.BorrowedWitnessMatch {
	var matches []domain.BorrowedWitnessMatch

	seen := make(map[string]bool, len(witnesses))
	for i := range witnesses {
		w := &witnesses[i]
		name := index.Normalize(w.WitnessName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		if w.TestimonyCount <= cfg.BorrowedWitnessThreshold {
			continue
		}

		caseIDs := implicatedCases(idx, name, w.CaseIDsAsWitness)
		recurrent := recurrentAttorneys(idx, caseIDs, cfg.RecurrentAttorneyRatio)
		topVenue, venuePct := topConcentration(idx, caseIDs, func(m *index.CaseMeta) string { return m.Venue })
		topJur, jurPct := topConcentration(idx, caseIDs, func(m *index.CaseMeta) string { return m.Jurisdiction })
		temporal := temporalConcentration(idx, caseIDs, cfg.TemporalWindowMonths, cfg.TemporalShare)

		points := countPoints(w.TestimonyCount)
		attorneyPoints := borrowedAttorneyPoints * len(recurrent)
		if attorneyPoints > borrowedAttorneyCap {
			attorneyPoints = borrowedAttorneyCap
		}
		points += attorneyPoints
		switch {
		case venuePct >= borrowedGeoHighPct:
			points += borrowedGeoHighPoints
		case venuePct >= borrowedGeoMidPct:
			points += borrowedGeoMidPoints
		}
		if temporal {
			points += borrowedTemporalPoints
		}

		matches = append(matches, domain.BorrowedWitnessMatch{
			Name:                      name,
			TestimonyCount:            w.TestimonyCount,
			CaseIDs:                   caseIDs,
			RecurrentAttorneys:        recurrent,
			TopVenue:                  topVenue,
			VenueConcentration:        venuePct,
			TopJurisdiction:           topJur,
			JurisdictionConcentration: jurPct,
			TemporalConcentration:     temporal,
			Alert:                     true,
			Risk:                      borrowedTier(points),
			Confidence:                clampConfidence(borrowedBaseConfidence + points),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Name < matches[j].Name
	})

	return matches
}

func countPoints(testimonyCount int) int {
	switch {
	case testimonyCount >= 30:
		return borrowedPointsTier30
	case testimonyCount >= 20:
		return borrowedPointsTier20
	case testimonyCount >= 15:
		return borrowedPointsTier15
	default:
		return borrowedPointsBase
	}
}

func borrowedTier(points int) domain.RiskTier {
	switch {
	case points >= borrowedHighTier:
		return domain.RiskHigh
	case points >= borrowedMediumTier:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// implicatedCases unions the record's own case list with the index's
// witness appearances for the name.
func implicatedCases(idx *index.Index, name string, recorded []string) []string {
	all := make([]string, 0, len(recorded))
	all = append(all, recorded...)
	if p := idx.Person(name); p != nil {
		for _, app := range p.WitnessIn {
			all = append(all, app.CaseID)
		}
	}
	return uniqueSorted(all)
}

// recurrentAttorneys returns attorneys, sorted ascending, appearing in
// at least ratio of the cases, with a hard minimum of 2 occurrences.
func recurrentAttorneys(idx *index.Index, caseIDs []string, ratio float64) []string {
	if len(caseIDs) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, id := range caseIDs {
		meta := idx.Case(id)
		if meta == nil {
			continue
		}
		perCase := make(map[string]bool)
		for _, a := range meta.Attorneys {
			if !perCase[a] {
				perCase[a] = true
				counts[a]++
			}
		}
	}

	minCount := int(math.Ceil(ratio * float64(len(caseIDs))))
	if minCount < 2 {
		minCount = 2
	}

	var out []string
	for a, n := range counts {
		if n >= minCount {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}

// topConcentration returns the most frequent non-empty value of field
// among the cases and its share in percent. Ties break toward the
// lexicographically smallest value; cases without the field are
// excluded from the denominator.
func topConcentration(idx *index.Index, caseIDs []string, field func(*index.CaseMeta) string) (string, float64) {
	counts := make(map[string]int)
	total := 0
	for _, id := range caseIDs {
		meta := idx.Case(id)
		if meta == nil {
			continue
		}
		v := field(meta)
		if v == "" {
			continue
		}
		counts[v]++
		total++
	}
	if total == 0 {
		return "", 0
	}

	top := ""
	topCount := 0
	for v, n := range counts {
		if n > topCount || (n == topCount && v < top) {
			top, topCount = v, n
		}
	}
	return top, float64(topCount) / float64(total) * 100
}

// temporalConcentration buckets the cases into year-month buckets and
// reports whether more than share of all dated testimony accumulates
// within the windowMonths most loaded buckets (greedy accumulation by
// descending bucket count).
func temporalConcentration(idx *index.Index, caseIDs []string, windowMonths int, share float64) bool {
	buckets := make(map[string]int)
	total := 0
	for _, id := range caseIDs {
		meta := idx.Case(id)
		if meta == nil || meta.Date.IsZero() {
			continue
		}
		buckets[meta.Date.Format("2006-01")]++
		total++
	}
	if total == 0 {
		return false
	}

	type bucket struct {
		key   string
		count int
	}
	ordered := make([]bucket, 0, len(buckets))
	for k, n := range buckets {
		ordered = append(ordered, bucket{key: k, count: n})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].key < ordered[j].key
	})

	accumulated := 0
	for i := 0; i < len(ordered) && i < windowMonths; i++ {
		accumulated += ordered[i].count
	}
	return float64(accumulated) > share*float64(total)
}
