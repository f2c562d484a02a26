// Package detect implements the four witness-pattern detectors. Each
// detector is a pure function of the relationship index (and, for the
// dual-role and borrowed-witness detectors, the witness records); they
// share no
// mutable state and run in any order, or in parallel, with identical
// output.
package detect

import (
	"context"
	"sort"
	"sync"

	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/index"
)

// Results is the combined detector output for one batch. Each list is
// sorted by its documented deterministic key.
type Results struct {
	DirectExchange  []domain.DirectExchangeMatch
	Triangulation   []domain.TriangulationMatch
	DualRole        []domain.DualRoleMatch
	BorrowedWitness []domain.BorrowedWitnessMatch
}

// Run executes all four detectors over the index. With maxWorkers > 1
// the detectors run concurrently; merging is plain assignment, no
// ordering is required because each detector owns its own list and
// sorts it before returning.
func Run(ctx context.Context, idx *index.Index, witnesses []domain.WitnessRecord, cfg domain.DetectionConfig, maxWorkers int) *Results {
	res := &Results{}

	tasks := []func(){
		func() { res.DirectExchange = DirectExchange(idx) },
		func() { res.Triangulation = Triangulation(idx, cfg) },
		func() { res.DualRole = DualRole(idx, witnesses) },
		func() { res.BorrowedWitness = BorrowedWitness(idx, witnesses, cfg) },
	}

	if maxWorkers <= 1 {
		for _, task := range tasks {
			task()
		}
		return res
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxWorkers)
	for _, task := range tasks {
		wg.Add(1)
		go func(fn func()) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			fn()
		}(task)
	}
	wg.Wait()

	return res
}

// clampConfidence saturates a confidence value into [0,100].
func clampConfidence(v int) int {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

// uniqueSorted returns the distinct values of in, sorted ascending,
// dropping empty strings.
func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	set := make(map[string]bool, len(in))
	for _, s := range in {
		if s != "" {
			set[s] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
