package detect

import (
	"sort"

	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/index"
)

// Dual-role tier thresholds. Each crossed threshold adds points to an
// integer score that is then bucketed into a risk tier.
const (
	dualRoleHighTier   = 6
	dualRoleMediumTier = 4

	dualRoleBaseConfidence   = 30
	dualRoleClaimantStep     = 8
	dualRoleWitnessStep      = 5
	dualRoleOpposingBonus    = 20
	dualRoleAttorneyStep     = 6
	dualRoleClaimantStepCap  = 4
	dualRoleWitnessStepCap   = 6
	dualRoleAttorneyStepCap  = 3
)

// Roles rendered in dual-role timelines.
const (
	RoleClaimant = "reclamante"
	RoleWitness  = "testemunha"
)

// DualRole identifies people tracked in the witness collection who
// also appear as claimant in some case(s). The witness records define
// who counts as a witness; incidental case-side reciprocity alone
// (already covered by the exchange and cycle detectors) does not
// create a dual role. A person with only one role never matches.
func DualRole(idx *index.Index, witnesses []domain.WitnessRecord) []domain.DualRoleMatch {
	eligible := make(map[string][]string, len(witnesses))
	for i := range witnesses {
		name := index.Normalize(witnesses[i].WitnessName)
		if name == "" {
			continue
		}
		eligible[name] = append(eligible[name], witnesses[i].CaseIDsAsWitness...)
	}

	var matches []domain.DualRoleMatch

	for _, name := range idx.Names() {
		recorded, ok := eligible[name]
		if !ok {
			continue
		}
		p := idx.Person(name)
		if len(p.ClaimantIn) == 0 {
			continue
		}

		asClaimant := uniqueSorted(p.ClaimantIn)

		opposing := false
		witnessCases := make([]string, 0, len(p.WitnessIn)+len(recorded))
		witnessCases = append(witnessCases, recorded...)
		for _, app := range p.WitnessIn {
			witnessCases = append(witnessCases, app.CaseID)
			if app.Side == domain.SideB {
				opposing = true
			}
		}
		asWitness := uniqueSorted(witnessCases)
		if len(asWitness) == 0 {
			continue
		}

		shared := idx.SharedAttorneys(asClaimant, asWitness)
		timeline := buildTimeline(idx, asClaimant, asWitness)

		matches = append(matches, domain.DualRoleMatch{
			Name:            name,
			CasesAsClaimant: asClaimant,
			CasesAsWitness:  asWitness,
			OpposingSide:    opposing,
			SharedAttorneys: shared,
			Timeline:        timeline,
			Risk:            dualRoleTier(len(asClaimant), len(asWitness), opposing, len(shared)),
			Confidence:      dualRoleConfidence(len(asClaimant), len(asWitness), opposing, len(shared)),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Name < matches[j].Name
	})

	return matches
}

// dualRoleTier buckets the integer threshold score into a risk tier.
func dualRoleTier(claimantCount, witnessCount int, opposing bool, sharedAttorneys int) domain.RiskTier {
	points := 0
	switch {
	case claimantCount >= 2:
		points += 2
	case claimantCount >= 1:
		points++
	}
	switch {
	case witnessCount >= 3:
		points += 2
	case witnessCount >= 1:
		points++
	}
	if opposing {
		// Testifying against one's own side of the bar is the strong
		// signal here.
		points += 3
	}
	switch {
	case sharedAttorneys >= 2:
		points += 2
	case sharedAttorneys >= 1:
		points++
	}

	switch {
	case points >= dualRoleHighTier:
		return domain.RiskHigh
	case points >= dualRoleMediumTier:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// dualRoleConfidence is additive over the same inputs as the tier, but
// not bucketed, saturating at 100.
func dualRoleConfidence(claimantCount, witnessCount int, opposing bool, sharedAttorneys int) int {
	conf := dualRoleBaseConfidence
	conf += dualRoleClaimantStep * capInt(claimantCount, dualRoleClaimantStepCap)
	conf += dualRoleWitnessStep * capInt(witnessCount, dualRoleWitnessStepCap)
	if opposing {
		conf += dualRoleOpposingBonus
	}
	conf += dualRoleAttorneyStep * capInt(sharedAttorneys, dualRoleAttorneyStepCap)
	return clampConfidence(conf)
}

func capInt(v, limit int) int {
	if v > limit {
		return limit
	}
	return v
}

// buildTimeline orders role-per-case chronologically ascending. Cases
// without a date sort last, keeping their relative order.
func buildTimeline(idx *index.Index, asClaimant, asWitness []string) []domain.RoleEvent {
	events := make([]domain.RoleEvent, 0, len(asClaimant)+len(asWitness))
	for _, id := range asClaimant {
		events = append(events, roleEvent(idx, id, RoleClaimant))
	}
	for _, id := range asWitness {
		events = append(events, roleEvent(idx, id, RoleWitness))
	}

	sort.SliceStable(events, func(i, j int) bool {
		di, dj := events[i].Date, events[j].Date
		if di.IsZero() {
			return false
		}
		if dj.IsZero() {
			return true
		}
		return di.Before(dj)
	})

	return events
}

func roleEvent(idx *index.Index, caseID, role string) domain.RoleEvent {
	ev := domain.RoleEvent{CaseID: caseID, Role: role}
	if meta := idx.Case(caseID); meta != nil {
		ev.Date = meta.Date
	}
	return ev
}
