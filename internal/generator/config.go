package generator

// Config controls synthetic batch generation.
type Config struct {
	// NumCases is the number of background cases with no injected
	// pattern.
	NumCases int `yaml:"num_cases"`

	// ExchangePairs injects reciprocal witnessing pairs (two cases per
	// pair).
	ExchangePairs int `yaml:"exchange_pairs"`

	// Cycles injects triangulation cycles of CycleLength people.
	Cycles      int `yaml:"cycles"`
	CycleLength int `yaml:"cycle_length"`

	// DualRoles injects people who claim in one case and testify in
	// another.
	DualRoles int `yaml:"dual_roles"`

	// ProfessionalWitnesses injects high-volume witnesses concentrated
	// on one venue and attorney.
	ProfessionalWitnesses int `yaml:"professional_witnesses"`

	// Seed fixes the random source; identical seeds generate identical
	// batches.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns a small but pattern-rich batch configuration.
func DefaultConfig() Config {
	return Config{
		NumCases:              500,
		ExchangePairs:         5,
		Cycles:                3,
		CycleLength:           3,
		DualRoles:             4,
		ProfessionalWitnesses: 2,
		Seed:                  1,
	}
}
