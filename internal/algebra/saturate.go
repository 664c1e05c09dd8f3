package algebra

import "sort"

// Saturator simplifies a formula while preserving its meaning, iterating
// unit propagation, absorption, tautology elimination, and bounded
// resolution to a fixed point or until the saturation budget runs out.
// Stopping early leaves a larger but still correct formula.
type Saturator struct {
	budget Budget
}

// NewSaturator creates a saturator bounded by the given budget.
func NewSaturator(budget Budget) *Saturator {
	return &Saturator{budget: budget}
}

// SaturationResult is the outcome of simplifying one formula.
type SaturationResult struct {
	// Formula is the simplified formula; Unsatisfiable() when a
	// contradiction was found.
	Formula *Formula
	// Contradiction is set when saturation derived the empty clause:
	// the branch guarded by the formula is unreachable.
	Contradiction bool
	// Truncated is set when the saturation budget ran out before the
	// fixed point; the formula is correct but may carry redundancy.
	Truncated bool
	// Paths lists every path the input formula mentions, in ascending
	// order. On contradiction the reconciler bottoms these paths out.
	Paths []PathID
}

// Saturate simplifies f. The input formula is not modified.
func (s *Saturator) Saturate(f *Formula) SaturationResult {
	paths := mentionedPaths(f)
	if f.IsUnsatisfiable() {
		return SaturationResult{Formula: Unsatisfiable(), Contradiction: true, Paths: paths}
	}
	if f.IsTautology() {
		return SaturationResult{Formula: Tautology(), Paths: paths}
	}

	clauses := f.Clauses()
	var visits uint
	var consensusDerived uint

	for {
		if visits > s.budget.SaturationComplexity {
			return SaturationResult{Formula: NewFormula(clauses...), Truncated: true, Paths: paths}
		}

		// Unit literals force themselves everywhere else in the formula.
		units := make([]Literal, 0, len(clauses))
		for _, c := range clauses {
			visits++
			if c.IsEmpty() {
				return SaturationResult{Formula: Unsatisfiable(), Contradiction: true, Paths: paths}
			}
			if c.IsUnit() {
				units = append(units, c.Unit())
			}
		}
		for _, u := range units {
			for _, other := range units {
				if u.IsNegationOf(other) {
					return SaturationResult{Formula: Unsatisfiable(), Contradiction: true, Paths: paths}
				}
			}
		}

		next := make([]*Clause, 0, len(clauses))
		changed := false
		for _, c := range clauses {
			visits++
			if c.IsTautology() {
				changed = true
				continue
			}
			reduced, satisfied := propagateUnits(c, units)
			if satisfied {
				if !c.IsUnit() {
					changed = true
					continue
				}
				reduced = c
			}
			if reduced.IsEmpty() {
				return SaturationResult{Formula: Unsatisfiable(), Contradiction: true, Paths: paths}
			}
			if reduced.Len() != c.Len() {
				changed = true
			}
			next = append(next, reduced)
		}

		next, absorbed := absorb(next)
		if absorbed {
			changed = true
		}

		if consensusDerived < s.budget.ConsensusLimit {
			var derived int
			next, derived = resolvePairs(next, s.budget.ConsensusLimit-consensusDerived)
			if derived > 0 {
				consensusDerived += uint(derived)
				changed = true
			}
		}

		clauses = next
		if !changed {
			return SaturationResult{Formula: NewFormula(clauses...), Paths: paths}
		}
	}
}

// mentionedPaths collects every path f constrains, deduplicated and in
// ascending order.
func mentionedPaths(f *Formula) []PathID {
	seen := make(map[PathID]struct{})
	var out []PathID
	for _, c := range f.Clauses() {
		for _, l := range c.Literals() {
			if _, ok := seen[l.Path]; ok {
				continue
			}
			seen[l.Path] = struct{}{}
			out = append(out, l.Path)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// propagateUnits removes falsified literals from c and reports whether a
// unit literal satisfies the whole clause. Unit clauses themselves are kept.
func propagateUnits(c *Clause, units []Literal) (*Clause, bool) {
	if c.IsUnit() {
		return c, true
	}
	reduced := c
	for _, u := range units {
		if reduced.Contains(u) {
			return reduced, true
		}
		neg := u.Negate()
		if reduced.Contains(neg) {
			reduced = reduced.Without(neg)
		}
	}
	return reduced, false
}

// absorb drops clauses that are proper supersets of another clause: the
// subset is the stronger constraint and implies the superset.
func absorb(clauses []*Clause) ([]*Clause, bool) {
	out := make([]*Clause, 0, len(clauses))
	dropped := false
	for i, c := range clauses {
		redundant := false
		for j, other := range clauses {
			if i == j {
				continue
			}
			if other.SubsetOf(c) && (other.Len() < c.Len() || j < i) {
				redundant = true
				break
			}
		}
		if redundant {
			dropped = true
			continue
		}
		out = append(out, c)
	}
	return out, dropped
}

// resolvePairs derives resolvents for clause pairs with exactly one
// complementary literal. Only small parents take part; the point is to
// surface contradictions such as (a||b) && (a||!b) && (!a), not to run a
// full resolution prover.
func resolvePairs(clauses []*Clause, limit uint) ([]*Clause, int) {
	derived := 0
	existing := NewFormula(clauses...)
	out := clauses
	for i := 0; i < len(clauses) && uint(derived) < limit; i++ {
		for j := i + 1; j < len(clauses) && uint(derived) < limit; j++ {
			a, b := clauses[i], clauses[j]
			if a.Len() > 2 || b.Len() > 2 {
				continue
			}
			r, ok := resolvent(a, b)
			if !ok || r.IsTautology() || existing.Contains(r) {
				continue
			}
			existing.clauses.Insert(r)
			out = append(out, r)
			derived++
		}
	}
	return out, derived
}

// resolvent combines two clauses over exactly one complementary literal
// pair; more than one complementary pair yields a tautologous resolvent,
// which is useless.
func resolvent(a, b *Clause) (*Clause, bool) {
	var pivot Literal
	found := 0
	for _, l := range a.Literals() {
		if b.Contains(l.Negate()) {
			pivot = l
			found++
		}
	}
	if found != 1 {
		return nil, false
	}
	merged := make([]Literal, 0, a.Len()+b.Len()-2)
	for _, l := range a.Literals() {
		if !l.Equal(pivot) {
			merged = append(merged, l)
		}
	}
	neg := pivot.Negate()
	for _, l := range b.Literals() {
		if !l.Equal(neg) {
			merged = append(merged, l)
		}
	}
	return NewClause(merged...), true
}
