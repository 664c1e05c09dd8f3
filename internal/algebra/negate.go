package algebra

// Negator produces the logical negation of a CNF formula, itself in CNF.
// The running cost is the sum of negated clause sizes; once it crosses the
// negation-complexity threshold the result degrades to "no constraint",
// which guarantees termination at the price of precision.
type Negator struct {
	budget Budget
}

// NewNegator creates a negator bounded by the given budget.
func NewNegator(budget Budget) *Negator {
	return &Negator{budget: budget}
}

// Negate applies De Morgan's laws: the negation of an AND of clauses is the
// OR of the negated clauses, each negated clause being an AND of negated
// literals. Negate(Negate(f)) is logically equivalent to f whenever both
// negations stay within budget.
func (n *Negator) Negate(f *Formula) *Formula {
	if f.IsTautology() {
		// "no constraint" carries no information to negate
		return Tautology()
	}
	if f.IsUnsatisfiable() {
		return Tautology()
	}

	var cost uint
	out := Unsatisfiable() // identity element of OR
	for _, c := range f.Clauses() {
		cost += uint(c.Len())
		if cost > n.budget.NegationComplexity {
			return Tautology()
		}
		out = Or(n.budget, out, negateClause(c))
	}
	return out
}

// negateClause turns ¬(l1 ∨ l2 ∨ ...) into the conjunction of unit clauses
// (¬l1) ∧ (¬l2) ∧ ...
func negateClause(c *Clause) *Formula {
	units := make([]*Clause, 0, c.Len())
	for _, l := range c.Literals() {
		units = append(units, NewClause(l.Negate()))
	}
	return NewFormula(units...)
}
