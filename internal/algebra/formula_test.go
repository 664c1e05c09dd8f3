package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phlin-dev/phlin/internal/typing"
)

func TestNewFormulaDropsTautologies(t *testing.T) {
	t.Parallel()
	l := Lit(0, Truthy{})
	f := NewFormula(
		NewClause(l, l.Negate()),
		NewClause(Lit(1, IsNull{})),
	)
	assert.Equal(t, 1, f.Len())
}

func TestTautologyAndUnsatisfiable(t *testing.T) {
	t.Parallel()
	assert.True(t, Tautology().IsTautology())
	assert.False(t, Tautology().IsUnsatisfiable())
	assert.True(t, Unsatisfiable().IsUnsatisfiable())
	assert.False(t, Unsatisfiable().IsTautology())
}

func TestAndDeduplicatesClauses(t *testing.T) {
	t.Parallel()
	budget := DefaultBudget()
	c := NewClause(Lit(0, Truthy{}))
	f := And(budget, NewFormula(c), NewFormula(c))
	assert.Equal(t, 1, f.Len())
}

func TestAndRespectsFormulaSize(t *testing.T) {
	t.Parallel()
	budget := DefaultBudget()
	budget.FormulaSize = 3

	clauses := make([]*Clause, 0, 8)
	for i := 0; i < 8; i++ {
		clauses = append(clauses, NewClause(Lit(PathID(i), Truthy{})))
	}
	f := And(budget, NewFormula(clauses...))
	assert.Equal(t, 3, f.Len())
}

func TestOrDistributes(t *testing.T) {
	t.Parallel()
	budget := DefaultBudget()
	a := UnitFormula(Lit(0, IsType{T: typing.Int()}))
	b := UnitFormula(Lit(0, IsType{T: typing.String()}))

	f := Or(budget, a, b)
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, 2, f.Clauses()[0].Len())
}

func TestOrSpecialCases(t *testing.T) {
	t.Parallel()
	budget := DefaultBudget()
	f := UnitFormula(Lit(0, Truthy{}))

	assert.True(t, Or(budget, Tautology(), f).IsTautology())
	assert.True(t, Or(budget, f, Tautology()).IsTautology())

	same := Or(budget, Unsatisfiable(), f)
	assert.Equal(t, f.String(), same.String())
	same = Or(budget, f, Unsatisfiable())
	assert.Equal(t, f.String(), same.String())
}

func TestOrDegradesPastDisjunctionComplexity(t *testing.T) {
	t.Parallel()
	budget := DefaultBudget()
	budget.DisjunctionComplexity = 4

	clausesA := make([]*Clause, 0, 3)
	clausesB := make([]*Clause, 0, 3)
	for i := 0; i < 3; i++ {
		clausesA = append(clausesA, NewClause(Lit(PathID(i), Truthy{})))
		clausesB = append(clausesB, NewClause(NegLit(PathID(i+10), IsNull{})))
	}
	// 3*3 projected clauses > 4: degrade to no-constraint, never a wrong answer
	f := Or(budget, NewFormula(clausesA...), NewFormula(clausesB...))
	assert.True(t, f.IsTautology())
}

func TestOrDropsTautologousMerges(t *testing.T) {
	t.Parallel()
	budget := DefaultBudget()
	l := Lit(0, Truthy{})
	f := Or(budget, UnitFormula(l), UnitFormula(l.Negate()))
	// (x || !x) is always true, so the whole disjunction carries nothing
	assert.True(t, f.IsTautology())
}

func TestNegateRoundTripUnits(t *testing.T) {
	t.Parallel()
	n := NewNegator(DefaultBudget())

	// a conjunction of unit clauses negates to one clause and back exactly
	f := NewFormula(
		NewClause(Lit(0, IsType{T: typing.Int()})),
		NewClause(NegLit(2, IsNull{})),
	)

	back := n.Negate(n.Negate(f))
	assert.Equal(t, f.String(), back.String())
}

func TestNegateDeMorgan(t *testing.T) {
	t.Parallel()
	n := NewNegator(DefaultBudget())

	a := Lit(0, Truthy{})
	b := Lit(1, IsNull{})

	// !(a || b) == !a && !b
	neg := n.Negate(NewFormula(NewClause(a, b)))
	assert.Equal(t, 2, neg.Len())
	assert.True(t, neg.Contains(NewClause(a.Negate())))
	assert.True(t, neg.Contains(NewClause(b.Negate())))

	// !(a && b) == !a || !b
	neg = n.Negate(NewFormula(NewClause(a), NewClause(b)))
	assert.Equal(t, 1, neg.Len())
	assert.True(t, neg.Contains(NewClause(a.Negate(), b.Negate())))
}

func TestNegateDegradesPastBudget(t *testing.T) {
	t.Parallel()
	budget := DefaultBudget()
	budget.NegationComplexity = 2
	n := NewNegator(budget)

	f := NewFormula(
		NewClause(Lit(0, Truthy{}), Lit(1, Truthy{})),
		NewClause(Lit(2, Truthy{}), Lit(3, Truthy{})),
	)
	assert.True(t, n.Negate(f).IsTautology())
}

func TestNegateEdgeFormulas(t *testing.T) {
	t.Parallel()
	n := NewNegator(DefaultBudget())
	assert.True(t, n.Negate(Tautology()).IsTautology())
	assert.True(t, n.Negate(Unsatisfiable()).IsTautology())
}

func TestFormulaStringDeterministic(t *testing.T) {
	t.Parallel()
	build := func(order []int) *Formula {
		clauses := []*Clause{
			NewClause(Lit(0, Truthy{})),
			NewClause(Lit(1, IsNull{}), NegLit(2, Truthy{})),
			NewClause(Lit(3, Countable{})),
		}
		out := make([]*Clause, 0, len(clauses))
		for _, i := range order {
			out = append(out, clauses[i])
		}
		return NewFormula(out...)
	}

	a := build([]int{0, 1, 2})
	b := build([]int{2, 0, 1})
	c := build([]int{1, 2, 0})
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, a.String(), c.String())
}
