package index

import (
	"sort"
	"time"

	"github.com/opensource-legal/caracara/internal/domain"
)

// Appearance is one witness appearance: a case and the side testified
// for.
type Appearance struct {
	CaseID string
	Side   domain.Side
}

// PersonEntry collects everything one normalized name does across the
// batch.
type PersonEntry struct {
	// ClaimantIn lists cases where the person is the claimant.
	ClaimantIn []string

	// WitnessIn lists cases where the person testified, with side.
	WitnessIn []Appearance
}

// CaseMeta is the per-case metadata detectors consult.
type CaseMeta struct {
	Claimant     string // normalized, may be empty
	Attorneys    []string
	Jurisdiction string
	Venue        string
	Date         time.Time // zero when unknown
}

// Index is the relationship index for one batch. Built once by Build,
// read-only afterward.
type Index struct {
	people map[string]*PersonEntry
	cases  map[string]*CaseMeta

	// names holds all person names in sorted order so that iteration
	// over the index is deterministic.
	names []string
}

// Build constructs the index in a single pass over the cases. Records
// without a case ID are assumed to have been filtered by the caller;
// empty names are skipped. Malformed records degrade gracefully —
// missing lists are simply empty.
func Build(cases []domain.CaseRecord) *Index {
	idx := &Index{
		people: make(map[string]*PersonEntry),
		cases:  make(map[string]*CaseMeta, len(cases)),
	}

	for i := range cases {
		c := &cases[i]
		meta := &CaseMeta{
			Claimant:     Normalize(c.ClaimantName),
			Jurisdiction: c.Jurisdiction,
			Venue:        c.Venue,
			Date:         c.HearingDate,
		}
		for _, a := range c.AttorneysSideA {
			if n := Normalize(a); n != "" {
				meta.Attorneys = append(meta.Attorneys, n)
			}
		}
		idx.cases[c.CaseID] = meta

		if meta.Claimant != "" {
			p := idx.person(meta.Claimant)
			p.ClaimantIn = append(p.ClaimantIn, c.CaseID)
		}

		// seen tracks (name, case) registrations with a known side so
		// the all-witnesses list never double counts: specific side
		// wins over unknown.
		seen := make(map[string]bool)
		for _, w := range c.WitnessesSideA {
			idx.addWitness(w, c.CaseID, domain.SideA, seen)
		}
		for _, w := range c.WitnessesSideB {
			idx.addWitness(w, c.CaseID, domain.SideB, seen)
		}
		for _, w := range c.AllWitnesses {
			n := Normalize(w)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			p := idx.person(n)
			p.WitnessIn = append(p.WitnessIn, Appearance{CaseID: c.CaseID, Side: domain.SideUnknown})
		}
	}

	idx.names = make([]string, 0, len(idx.people))
	for n := range idx.people {
		idx.names = append(idx.names, n)
	}
	sort.Strings(idx.names)

	return idx
}

func (idx *Index) addWitness(raw, caseID string, side domain.Side, seen map[string]bool) {
	n := Normalize(raw)
	if n == "" || seen[n] {
		return
	}
	seen[n] = true
	p := idx.person(n)
	p.WitnessIn = append(p.WitnessIn, Appearance{CaseID: caseID, Side: side})
}

func (idx *Index) person(name string) *PersonEntry {
	p, ok := idx.people[name]
	if !ok {
		p = &PersonEntry{}
		idx.people[name] = p
	}
	return p
}

// Person returns the entry for a normalized name, or nil.
func (idx *Index) Person(name string) *PersonEntry {
	return idx.people[name]
}

// Case returns the metadata for a case ID, or nil.
func (idx *Index) Case(caseID string) *CaseMeta {
	return idx.cases[caseID]
}

// Names returns all person names in the index, sorted ascending.
// Callers must not mutate the returned slice.
func (idx *Index) Names() []string {
	return idx.names
}

// WitnessNames returns the sorted names with at least one witness
// appearance.
func (idx *Index) WitnessNames() []string {
	out := make([]string, 0, len(idx.names))
	for _, n := range idx.names {
		if len(idx.people[n].WitnessIn) > 0 {
			out = append(out, n)
		}
	}
	return out
}

// ClaimantCases returns the cases where name appears as claimant.
func (idx *Index) ClaimantCases(name string) []string {
	if p := idx.people[name]; p != nil {
		return p.ClaimantIn
	}
	return nil
}

// WitnessCasesFor returns the cases where witness testified and
// claimant is the claimant.
func (idx *Index) WitnessCasesFor(witness, claimant string) []string {
	p := idx.people[witness]
	if p == nil {
		return nil
	}
	var out []string
	for _, app := range p.WitnessIn {
		meta := idx.cases[app.CaseID]
		if meta != nil && meta.Claimant == claimant {
			out = append(out, app.CaseID)
		}
	}
	return out
}

// SharedAttorneys returns attorneys, sorted ascending, that appear in
// at least one case from each of the two case sets.
func (idx *Index) SharedAttorneys(casesA, casesB []string) []string {
	inA := make(map[string]bool)
	for _, id := range casesA {
		if meta := idx.cases[id]; meta != nil {
			for _, a := range meta.Attorneys {
				inA[a] = true
			}
		}
	}
	shared := make(map[string]bool)
	for _, id := range casesB {
		if meta := idx.cases[id]; meta != nil {
			for _, a := range meta.Attorneys {
				if inA[a] {
					shared[a] = true
				}
			}
		}
	}
	return sortedKeys(shared)
}

// CommonAttorneys returns attorneys, sorted ascending, present in every
// one of the given cases.
func (idx *Index) CommonAttorneys(caseIDs []string) []string {
	if len(caseIDs) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, id := range caseIDs {
		meta := idx.cases[id]
		if meta == nil {
			return nil
		}
		seen := make(map[string]bool)
		for _, a := range meta.Attorneys {
			if !seen[a] {
				seen[a] = true
				counts[a]++
			}
		}
	}
	common := make(map[string]bool)
	for a, n := range counts {
		if n == len(caseIDs) {
			common[a] = true
		}
	}
	return sortedKeys(common)
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
