package detect

import (
	"sort"

	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/index"
)

// Direct-exchange confidence model.
const (
	exchangeBaseConfidence    = 40
	exchangeMultiplicityBonus = 15
	exchangeAttorneyBonus     = 10
	exchangeAttorneyBonusCap  = 30
)

// DirectExchange finds unordered pairs (A, B) with true reciprocity:
// A testifies in at least one case where B is the claimant AND B
// testifies in at least one case where A is the claimant. Mere
// co-occurrence in each other's cases is not enough.
//
// The pairwise scan is O(n²) over distinct witness names. That is the
// documented scaling limit for the batch sizes in scope (hundreds to
// low thousands of names); do not replace it with a pruned scan unless
// the match set is proven identical.
func DirectExchange(idx *index.Index) []domain.DirectExchangeMatch {
	names := idx.WitnessNames()

	var matches []domain.DirectExchangeMatch
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]

			aForB := idx.WitnessCasesFor(a, b)
			if len(aForB) == 0 {
				continue
			}
			bForA := idx.WitnessCasesFor(b, a)
			if len(bForA) == 0 {
				continue
			}

			aForB = uniqueSorted(aForB)
			bForA = uniqueSorted(bForA)
			shared := idx.SharedAttorneys(aForB, bForA)

			conf := exchangeBaseConfidence
			if len(aForB) > 1 {
				conf += exchangeMultiplicityBonus
			}
			if len(bForA) > 1 {
				conf += exchangeMultiplicityBonus
			}
			attorneyBonus := exchangeAttorneyBonus * len(shared)
			if attorneyBonus > exchangeAttorneyBonusCap {
				attorneyBonus = exchangeAttorneyBonusCap
			}
			conf = clampConfidence(conf + attorneyBonus)

			matches = append(matches, domain.DirectExchangeMatch{
				ParticipantA:    a,
				ParticipantB:    b,
				CasesAForB:      aForB,
				CasesBForA:      bForA,
				SharedAttorneys: shared,
				Confidence:      conf,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].ParticipantA != matches[j].ParticipantA {
			return matches[i].ParticipantA < matches[j].ParticipantA
		}
		return matches[i].ParticipantB < matches[j].ParticipantB
	})

	return matches
}
