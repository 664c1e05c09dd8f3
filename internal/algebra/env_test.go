package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phlin-dev/phlin/internal/typing"
)

func TestTypeEnvPersistence(t *testing.T) {
	t.Parallel()
	base := NewTypeEnv()
	e := base.With(0, typing.Int())

	_, ok := base.Get(0)
	assert.False(t, ok, "With must not mutate the receiver")

	got, ok := e.Get(0)
	assert.True(t, ok)
	assert.True(t, got.Equal(typing.Int()))

	e2 := e.Without(0)
	_, ok = e2.Get(0)
	assert.False(t, ok)
	_, ok = e.Get(0)
	assert.True(t, ok)
}

func TestTypeEnvTypeOfDefaultsToMixed(t *testing.T) {
	t.Parallel()
	e := NewTypeEnv()
	assert.True(t, e.TypeOf(7).IsMixed())
}

func TestTypeEnvPathsSorted(t *testing.T) {
	t.Parallel()
	e := NewTypeEnv().
		With(5, typing.Int()).
		With(1, typing.String()).
		With(3, typing.Null())
	assert.Equal(t, []PathID{1, 3, 5}, e.Paths())
}

func TestJoinUnionsBranchTypes(t *testing.T) {
	t.Parallel()
	budget := DefaultBudget()

	base := NewTypeEnv().With(0, typing.Union(typing.Union(typing.Int(), typing.String()), typing.Null()))
	a := base.With(0, typing.Int())
	b := base.With(0, typing.String())

	joined := Join(budget, base, a, b)
	assert.True(t, joined.TypeOf(0).Equal(typing.Union(typing.Int(), typing.String())))
}

func TestJoinFallsBackToBaseForUntouchedPaths(t *testing.T) {
	t.Parallel()
	budget := DefaultBudget()

	base := NewTypeEnv().With(0, typing.Union(typing.Int(), typing.Null()))
	a := base.With(0, typing.Int())
	b := base // branch never narrowed the path

	joined := Join(budget, base, a, b)
	// one-sided narrowing does not survive the join
	assert.True(t, joined.TypeOf(0).Equal(typing.Union(typing.Int(), typing.Null())))
}

func TestJoinCapsLiteralUnions(t *testing.T) {
	t.Parallel()
	budget := DefaultBudget()
	budget.IntegerCombination = 1

	base := NewTypeEnv().With(0, typing.Int())
	a := base.With(0, typing.NewType(typing.IntLitAtom{Value: 1}))
	b := base.With(0, typing.NewType(typing.IntLitAtom{Value: 2}))

	joined := Join(budget, base, a, b)
	// two enumerated ints exceed the cap of one and widen to int
	assert.True(t, joined.TypeOf(0).Equal(typing.Int()))
}
