package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phlin-dev/phlin/internal/typing"
)

func TestClauseCanonicalOrder(t *testing.T) {
	t.Parallel()
	a := Lit(0, Truthy{})
	b := Lit(1, IsNull{})
	c := Lit(2, IsType{T: typing.Int()})

	forward := NewClause(a, b, c)
	backward := NewClause(c, b, a)

	assert.True(t, forward.Equal(backward))
	assert.Equal(t, forward.String(), backward.String())
	assert.Equal(t, forward.Hash(), backward.Hash())
}

func TestClauseDeduplicates(t *testing.T) {
	t.Parallel()
	l := Lit(0, Truthy{})
	c := NewClause(l, l, l)
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.IsUnit())
	assert.True(t, c.Unit().Equal(l))
}

func TestClauseTautology(t *testing.T) {
	t.Parallel()
	l := Lit(0, Truthy{})
	assert.True(t, NewClause(l, l.Negate()).IsTautology())
	assert.False(t, NewClause(l, Lit(1, Truthy{})).IsTautology())

	// same assertion on different paths is not a tautology
	assert.False(t, NewClause(Lit(0, IsNull{}), NegLit(1, IsNull{})).IsTautology())
}

func TestClauseWithout(t *testing.T) {
	t.Parallel()
	a := Lit(0, Truthy{})
	b := Lit(1, IsNull{})
	c := NewClause(a, b)

	reduced := c.Without(a)
	assert.Equal(t, 1, reduced.Len())
	assert.True(t, reduced.Contains(b))
	assert.False(t, reduced.Contains(a))

	// original clause is untouched
	assert.Equal(t, 2, c.Len())
}

func TestClauseSubsetOf(t *testing.T) {
	t.Parallel()
	a := Lit(0, Truthy{})
	b := Lit(1, IsNull{})
	c := Lit(2, Countable{})

	small := NewClause(a, b)
	big := NewClause(a, b, c)

	assert.True(t, small.SubsetOf(big))
	assert.False(t, big.SubsetOf(small))
	assert.True(t, small.SubsetOf(small))
	assert.True(t, EmptyClause().SubsetOf(small))
}

func TestComparePolarityOrdersPositiveFirst(t *testing.T) {
	t.Parallel()
	pos := Lit(0, Truthy{})
	neg := NegLit(0, Truthy{})
	c := NewClause(neg, pos)
	lits := c.Literals()
	assert.True(t, lits[0].Positive)
	assert.False(t, lits[1].Positive)
}
