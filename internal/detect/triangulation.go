package detect

import (
	"sort"
	"strings"

	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/index"
)

// Triangulation confidence model.
const (
	cycleBaseLen2        = 40
	cycleBaseLen3        = 35
	cycleBaseLonger      = 30
	cycleAttorneyBonus   = 15
	cycleAttorneyCap     = 30
	cycleSpreadPenalty   = 5
	renderedCycleDivider = " → "
)

// edge is one witness-for-claimant relation in the directed graph.
type edge struct {
	// cases that realize the relation, distinct and sorted.
	cases []string
}

// Triangulation enumerates simple directed cycles of witness→claimant
// relations: an edge A→B exists when A testified in some case where B
// is the claimant. Cycle length is bounded by cfg.MaxCycleLength to
// contain combinatorial blow-up; length 2 is the degenerate
// direct-exchange-equivalent cycle.
//
// Each cycle is enumerated exactly once by anchoring the search at the
// lexicographically smallest participant, which also collapses
// rotations of the same edge set. Matches below cfg.MinCycleConfidence
// are discarded — a deliberate precision/recall tradeoff.
func Triangulation(idx *index.Index, cfg domain.DetectionConfig) []domain.TriangulationMatch {
	adj := buildAdjacency(idx)

	nodes := make([]string, 0, len(adj))
	for n := range adj {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	var matches []domain.TriangulationMatch
	for _, start := range nodes {
		path := []string{start}
		onPath := map[string]bool{start: true}
		walkCycles(adj, start, start, path, onPath, cfg.MaxCycleLength, func(cycle []string) {
			if m, ok := buildCycleMatch(idx, adj, cycle, cfg); ok {
				matches = append(matches, m)
			}
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].Confidence > matches[j].Confidence
	})

	return matches
}

// buildAdjacency derives the witness→claimant graph from the index.
func buildAdjacency(idx *index.Index) map[string]map[string]*edge {
	adj := make(map[string]map[string]*edge)
	for _, witness := range idx.WitnessNames() {
		p := idx.Person(witness)
		for _, app := range p.WitnessIn {
			meta := idx.Case(app.CaseID)
			if meta == nil || meta.Claimant == "" || meta.Claimant == witness {
				continue
			}
			succ, ok := adj[witness]
			if !ok {
				succ = make(map[string]*edge)
				adj[witness] = succ
			}
			e, ok := succ[meta.Claimant]
			if !ok {
				e = &edge{}
				succ[meta.Claimant] = e
			}
			e.cases = append(e.cases, app.CaseID)
		}
	}
	for _, succ := range adj {
		for _, e := range succ {
			e.cases = uniqueSorted(e.cases)
		}
	}
	return adj
}

// walkCycles runs a depth-first search from cur, restricted to nodes
// lexicographically greater than start so every cycle is found once,
// at its smallest participant.
func walkCycles(adj map[string]map[string]*edge, start, cur string, path []string, onPath map[string]bool, maxLen int, emit func([]string)) {
	succ := adj[cur]

	// Deterministic successor order.
	nexts := make([]string, 0, len(succ))
	for n := range succ {
		nexts = append(nexts, n)
	}
	sort.Strings(nexts)

	for _, next := range nexts {
		if next == start && len(path) >= 2 {
			cycle := make([]string, len(path))
			copy(cycle, path)
			emit(cycle)
			continue
		}
		if next <= start || onPath[next] || len(path) >= maxLen {
			continue
		}
		onPath[next] = true
		walkCycles(adj, start, next, append(path, next), onPath, maxLen, emit)
		delete(onPath, next)
	}
}

// buildCycleMatch assembles a TriangulationMatch for a found cycle,
// returning ok=false when the match falls below the confidence floor.
func buildCycleMatch(idx *index.Index, adj map[string]map[string]*edge, cycle []string, cfg domain.DetectionConfig) (domain.TriangulationMatch, bool) {
	// One case per edge: the smallest realizing case ID keeps the
	// traversal deterministic.
	traversed := make([]string, 0, len(cycle))
	for i, from := range cycle {
		to := cycle[(i+1)%len(cycle)]
		e := adj[from][to]
		traversed = append(traversed, e.cases[0])
	}

	var jurisdictions, venues []string
	for _, caseID := range traversed {
		if meta := idx.Case(caseID); meta != nil {
			jurisdictions = append(jurisdictions, meta.Jurisdiction)
			venues = append(venues, meta.Venue)
		}
	}
	jurisdictions = uniqueSorted(jurisdictions)
	venues = uniqueSorted(venues)

	shared := idx.CommonAttorneys(traversed)

	conf := cycleBaseLonger
	switch len(cycle) {
	case 2:
		conf = cycleBaseLen2
	case 3:
		conf = cycleBaseLen3
	}
	attorneyBonus := cycleAttorneyBonus * len(shared)
	if attorneyBonus > cycleAttorneyCap {
		attorneyBonus = cycleAttorneyCap
	}
	conf += attorneyBonus

	// Geographic spread makes coincidence more likely.
	if len(jurisdictions) > 1 {
		conf -= cycleSpreadPenalty * (len(jurisdictions) - 1)
	}
	if len(venues) > 1 {
		conf -= cycleSpreadPenalty * (len(venues) - 1)
	}
	conf = clampConfidence(conf)

	if conf < cfg.MinCycleConfidence {
		return domain.TriangulationMatch{}, false
	}

	return domain.TriangulationMatch{
		Participants:    cycle,
		Length:          len(cycle),
		TraversedCases:  traversed,
		SharedAttorneys: shared,
		Jurisdictions:   jurisdictions,
		Venues:          venues,
		Path:            strings.Join(cycle, renderedCycleDivider) + renderedCycleDivider + cycle[0],
		Confidence:      conf,
	}, true
}
