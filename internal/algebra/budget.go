package algebra

// Budget holds the thresholds that bound every pass of the algebra engine.
// It is constructed once from configuration and shared read-only across all
// analysis workers; nothing in the engine ever mutates it.
type Budget struct {
	// SaturationComplexity caps clause visits during simplification.
	SaturationComplexity uint
	// DisjunctionComplexity caps the projected clause count of a CNF
	// distribution before it degrades to "no constraint".
	DisjunctionComplexity uint
	// NegationComplexity caps the running per-clause cost of negating a
	// formula.
	NegationComplexity uint
	// ConsensusLimit caps the number of resolvent clauses derived during
	// saturation.
	ConsensusLimit uint
	// FormulaSize caps the clause count of any single formula.
	FormulaSize uint
	// StringCombination, IntegerCombination, and ArrayCombination cap how
	// many literal values a narrowed type may enumerate before it widens to
	// its base kind.
	StringCombination  uint
	IntegerCombination uint
	ArrayCombination   uint
}

// DefaultBudget returns the conservative defaults. Raising them trades
// analysis latency for precision.
func DefaultBudget() Budget {
	return Budget{
		SaturationComplexity:  2048,
		DisjunctionComplexity: 64,
		NegationComplexity:    512,
		ConsensusLimit:        32,
		FormulaSize:           128,
		StringCombination:     16,
		IntegerCombination:    16,
		ArrayCombination:      8,
	}
}
