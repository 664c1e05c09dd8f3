package algebra

import (
	"strings"

	set "github.com/hashicorp/go-set/v2"
)

// Formula is a conjunction (AND) of clauses: conjunctive normal form.
// Clauses are kept in a canonical duplicate-free order. An empty formula
// constrains nothing (tautology); a formula containing the empty clause is
// unsatisfiable.
type Formula struct {
	clauses *set.TreeSet[*Clause]
}

// Tautology is the formula with no constraints.
func Tautology() *Formula {
	return &Formula{clauses: set.NewTreeSet(compareClauses)}
}

// Unsatisfiable is the formula containing only the empty clause.
func Unsatisfiable() *Formula {
	f := Tautology()
	f.clauses.Insert(EmptyClause())
	return f
}

// NewFormula builds a formula from clauses, dropping tautologous ones and
// deduplicating structurally equal ones.
func NewFormula(clauses ...*Clause) *Formula {
	f := Tautology()
	for _, c := range clauses {
		if c == nil || c.IsTautology() {
			continue
		}
		f.clauses.Insert(c)
	}
	return f
}

// UnitFormula wraps a single literal into a one-clause formula.
func UnitFormula(l Literal) *Formula {
	return NewFormula(NewClause(l))
}

// Len returns the clause count.
func (f *Formula) Len() int { return f.clauses.Size() }

// IsTautology reports whether the formula constrains nothing.
func (f *Formula) IsTautology() bool { return f.clauses.Empty() }

// IsUnsatisfiable reports whether the formula contains an empty clause.
func (f *Formula) IsUnsatisfiable() bool {
	for _, c := range f.clauses.Slice() {
		if c.IsEmpty() {
			return true
		}
	}
	return false
}

// Clauses returns the clauses in canonical order.
func (f *Formula) Clauses() []*Clause { return f.clauses.Slice() }

// Contains reports whether a structurally equal clause is present.
func (f *Formula) Contains(c *Clause) bool { return f.clauses.Contains(c) }

func (f *Formula) String() string {
	if f.IsTautology() {
		return "(true)"
	}
	parts := make([]string, 0, f.Len())
	for _, c := range f.clauses.Slice() {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " && ")
}

// And conjoins formulas. When the combined clause count exceeds the
// formula-size threshold the clauses past the cap are dropped, which widens
// the constraint and stays sound.
func And(budget Budget, fs ...*Formula) *Formula {
	out := Tautology()
	for _, f := range fs {
		for _, c := range f.clauses.Slice() {
			if uint(out.Len()) >= budget.FormulaSize {
				return out
			}
			out.clauses.Insert(c)
		}
	}
	return out
}

// Or disjoins two CNF formulas by distributing clauses pairwise. The
// projected clause count is checked against the disjunction-complexity
// threshold first; past it, the whole disjunction degrades to "no
// constraint" rather than expanding. The distribution itself runs over an
// explicit work list, so nesting depth never grows the call stack.
func Or(budget Budget, a, b *Formula) *Formula {
	if a.IsTautology() || b.IsTautology() {
		return Tautology()
	}
	if a.IsUnsatisfiable() {
		return b
	}
	if b.IsUnsatisfiable() {
		return a
	}
	projected := uint(a.Len()) * uint(b.Len())
	if projected > budget.DisjunctionComplexity {
		return Tautology()
	}

	type pair struct {
		left, right *Clause
	}
	work := make([]pair, 0, projected)
	for _, ca := range a.clauses.Slice() {
		for _, cb := range b.clauses.Slice() {
			work = append(work, pair{ca, cb})
		}
	}

	out := Tautology()
	for len(work) > 0 {
		p := work[0]
		work = work[1:]
		merged := NewClause(append(p.left.Literals(), p.right.Literals()...)...)
		if merged.IsTautology() {
			continue
		}
		if uint(out.Len()) >= budget.FormulaSize {
			break
		}
		out.clauses.Insert(merged)
	}
	return out
}
