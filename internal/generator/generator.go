// Package generator synthesizes case and witness batches with injected
// collusion patterns, for benchmarking and for exercising the engine
// end to end without real data.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/opensource-legal/caracara/internal/domain"
)

// Batch is a generated input collection.
type Batch struct {
	Cases     []domain.CaseRecord    `json:"cases"`
	Witnesses []domain.WitnessRecord `json:"witnesses"`
}

// Generator produces synthetic batches. A given configuration (with a
// fixed seed) always generates the same batch.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

var (
	firstNames = []string{"ana", "bruno", "carla", "diego", "elisa", "fabio", "gilda", "heitor", "iara", "joão", "karen", "lucas", "maria", "nelson", "olivia", "paulo"}
	lastNames  = []string{"almeida", "barros", "costa", "duarte", "esteves", "ferreira", "gomes", "lima", "martins", "nunes", "oliveira", "pereira", "santos", "silva"}
	comarcas   = []string{"São Paulo", "Campinas", "Santos", "Guarulhos", "Osasco"}
	varas      = []string{"1ª Vara do Trabalho", "2ª Vara do Trabalho", "3ª Vara do Trabalho", "4ª Vara do Trabalho"}
	attorneys  = []string{"Dr. João", "Dra. Fernanda", "Dr. Ricardo", "Dra. Paula", "Dr. Augusto", "Dra. Beatriz"}
)

// New returns a generator; zero config fields fall back to defaults.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumCases <= 0 {
		cfg.NumCases = def.NumCases
	}
	if cfg.CycleLength < 2 {
		cfg.CycleLength = def.CycleLength
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	return &Generator{cfg: cfg, rand: rand.New(rand.NewSource(cfg.Seed))}
}

// Generate synthesizes a batch: background cases first, then the
// injected patterns.
func (g *Generator) Generate() Batch {
	var batch Batch
	caseSeq := 0

	for i := 0; i < g.cfg.NumCases; i++ {
		batch.Cases = append(batch.Cases, g.backgroundCase(&caseSeq))
	}

	for i := 0; i < g.cfg.ExchangePairs; i++ {
		g.injectExchange(&batch, &caseSeq)
	}
	for i := 0; i < g.cfg.Cycles; i++ {
		g.injectCycle(&batch, &caseSeq)
	}
	for i := 0; i < g.cfg.DualRoles; i++ {
		g.injectDualRole(&batch, &caseSeq)
	}
	for i := 0; i < g.cfg.ProfessionalWitnesses; i++ {
		g.injectProfessional(&batch, &caseSeq)
	}

	g.fillWitnessRecords(&batch)

	return batch
}

func (g *Generator) backgroundCase(seq *int) domain.CaseRecord {
	return domain.CaseRecord{
		CaseID:         g.nextCaseID(seq),
		ClaimantName:   g.personName(),
		WitnessesSideA: []string{g.personName()},
		AttorneysSideA: []string{g.pick(attorneys)},
		Jurisdiction:   g.pick(comarcas),
		Venue:          g.pick(varas),
		HearingDate:    g.hearingDate(),
	}
}

// injectExchange adds two cases realizing reciprocal witnessing
// between a fresh pair of people.
func (g *Generator) injectExchange(batch *Batch, seq *int) {
	a := g.personName()
	b := g.personName()
	for b == a {
		b = g.personName()
	}
	attorney := g.pick(attorneys)
	batch.Cases = append(batch.Cases,
		domain.CaseRecord{
			CaseID:         g.nextCaseID(seq),
			ClaimantName:   a,
			WitnessesSideA: []string{b},
			AttorneysSideA: []string{attorney},
			Jurisdiction:   g.pick(comarcas),
			Venue:          g.pick(varas),
			HearingDate:    g.hearingDate(),
		},
		domain.CaseRecord{
			CaseID:         g.nextCaseID(seq),
			ClaimantName:   b,
			WitnessesSideA: []string{a},
			AttorneysSideA: []string{attorney},
			Jurisdiction:   g.pick(comarcas),
			Venue:          g.pick(varas),
			HearingDate:    g.hearingDate(),
		},
	)
}

// injectCycle adds CycleLength cases forming a witness-for-claimant
// ring.
func (g *Generator) injectCycle(batch *Batch, seq *int) {
	people := make([]string, 0, g.cfg.CycleLength)
	taken := make(map[string]bool, g.cfg.CycleLength)
	for len(people) < g.cfg.CycleLength {
		name := g.personName()
		if taken[name] {
			continue
		}
		taken[name] = true
		people = append(people, name)
	}
	attorney := g.pick(attorneys)
	for i, witness := range people {
		claimant := people[(i+1)%len(people)]
		batch.Cases = append(batch.Cases, domain.CaseRecord{
			CaseID:         g.nextCaseID(seq),
			ClaimantName:   claimant,
			WitnessesSideA: []string{witness},
			AttorneysSideA: []string{attorney},
			Jurisdiction:   g.pick(comarcas),
			Venue:          g.pick(varas),
			HearingDate:    g.hearingDate(),
		})
	}
}

// injectDualRole adds one case where the person claims and one where
// the same person testifies for the opposing side.
func (g *Generator) injectDualRole(batch *Batch, seq *int) {
	person := g.personName()
	batch.Cases = append(batch.Cases,
		domain.CaseRecord{
			CaseID:         g.nextCaseID(seq),
			ClaimantName:   person,
			AttorneysSideA: []string{g.pick(attorneys)},
			Jurisdiction:   g.pick(comarcas),
			Venue:          g.pick(varas),
			HearingDate:    g.hearingDate(),
		},
		domain.CaseRecord{
			CaseID:         g.nextCaseID(seq),
			ClaimantName:   g.personName(),
			WitnessesSideB: []string{person},
			AttorneysSideA: []string{g.pick(attorneys)},
			Jurisdiction:   g.pick(comarcas),
			Venue:          g.pick(varas),
			HearingDate:    g.hearingDate(),
		},
	)
}

// injectProfessional adds a high-volume witness: 15 cases in one venue
// with one recurring attorney inside a three-month window.
func (g *Generator) injectProfessional(batch *Batch, seq *int) {
	witness := g.personName()
	attorney := g.pick(attorneys)
	comarca := g.pick(comarcas)
	vara := g.pick(varas)
	base := time.Date(2024, time.Month(1+g.rand.Intn(9)), 1, 0, 0, 0, 0, time.UTC)

	var caseIDs []string
	for i := 0; i < 15; i++ {
		id := g.nextCaseID(seq)
		caseIDs = append(caseIDs, id)
		batch.Cases = append(batch.Cases, domain.CaseRecord{
			CaseID:         id,
			ClaimantName:   g.personName(),
			WitnessesSideA: []string{witness},
			AttorneysSideA: []string{attorney},
			Jurisdiction:   comarca,
			Venue:          vara,
			HearingDate:    base.AddDate(0, g.rand.Intn(3), g.rand.Intn(28)),
		})
	}

	batch.Witnesses = append(batch.Witnesses, domain.WitnessRecord{
		WitnessName:      witness,
		TestimonyCount:   len(caseIDs),
		CaseIDsAsWitness: caseIDs,
	})
}

// fillWitnessRecords derives witness records for every witness name
// appearing in the generated cases that does not already have one.
func (g *Generator) fillWitnessRecords(batch *Batch) {
	existing := make(map[string]bool, len(batch.Witnesses))
	for i := range batch.Witnesses {
		existing[batch.Witnesses[i].WitnessName] = true
	}

	counts := make(map[string][]string)
	var order []string
	record := func(name, caseID string) {
		if name == "" || existing[name] {
			return
		}
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name] = append(counts[name], caseID)
	}
	for i := range batch.Cases {
		c := &batch.Cases[i]
		for _, w := range c.WitnessesSideA {
			record(w, c.CaseID)
		}
		for _, w := range c.WitnessesSideB {
			record(w, c.CaseID)
		}
		for _, w := range c.AllWitnesses {
			record(w, c.CaseID)
		}
	}

	for _, name := range order {
		batch.Witnesses = append(batch.Witnesses, domain.WitnessRecord{
			WitnessName:      name,
			TestimonyCount:   len(counts[name]),
			CaseIDsAsWitness: counts[name],
		})
	}
}

func (g *Generator) nextCaseID(seq *int) string {
	*seq++
	return fmt.Sprintf("PROC-%06d", *seq)
}

func (g *Generator) personName() string {
	return g.pick(firstNames) + " " + g.pick(lastNames)
}

func (g *Generator) pick(values []string) string {
	return values[g.rand.Intn(len(values))]
}

func (g *Generator) hearingDate() time.Time {
	// One in ten cases has no recorded hearing date.
	if g.rand.Intn(10) == 0 {
		return time.Time{}
	}
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, g.rand.Intn(365))
}
