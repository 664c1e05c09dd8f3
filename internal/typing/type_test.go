package typing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTypeCanonicalizes(t *testing.T) {
	t.Parallel()

	a := NewType(StringAtom{}, IntAtom{})
	b := NewType(IntAtom{}, StringAtom{})
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())

	// duplicates collapse
	assert.True(t, NewType(IntAtom{}, IntAtom{}).Equal(Int()))

	// mixed absorbs everything
	assert.True(t, NewType(IntAtom{}, MixedAtom{}, StringAtom{}).IsMixed())

	// base kinds absorb their literals
	assert.True(t, NewType(IntAtom{}, IntLitAtom{Value: 3}).Equal(Int()))
	assert.True(t, NewType(StringAtom{}, StringLitAtom{Value: "x"}).Equal(String()))
	assert.True(t, NewType(BoolAtom{}, TrueAtom{}, FalseAtom{}).Equal(Bool()))
	assert.True(t, NewType(ObjectAtom{}, ObjectAtom{Class: "Foo"}).Equal(Object("")))
}

func TestUnion(t *testing.T) {
	t.Parallel()

	assert.True(t, Union(Int(), String()).Equal(NewType(IntAtom{}, StringAtom{})))
	assert.True(t, Union(Never(), Int()).Equal(Int()))
	assert.True(t, Union(Mixed(), Int()).IsMixed())

	// true|false does not auto-collapse to bool, but bool absorbs both
	tf := Union(NewType(TrueAtom{}), NewType(FalseAtom{}))
	assert.True(t, Union(tf, Bool()).Equal(Bool()))
}

func TestIntersect(t *testing.T) {
	t.Parallel()

	assert.True(t, Intersect(Union(Int(), String()), Int(), nil).Equal(Int()))
	assert.True(t, Intersect(Int(), String(), nil).IsNever())
	assert.True(t, Intersect(Mixed(), Int(), nil).Equal(Int()))
	assert.True(t, Intersect(Int(), Mixed(), nil).Equal(Int()))

	// base kind meets its literal
	lit := NewType(IntLitAtom{Value: 7})
	assert.True(t, Intersect(Int(), lit, nil).Equal(lit))

	// arrays merge their known keys
	a := NewType(ArrayAtom{Keys: []string{"a"}})
	b := NewType(ArrayAtom{Keys: []string{"b"}})
	assert.True(t, Intersect(a, b, nil).Equal(NewType(ArrayAtom{Keys: []string{"a", "b"}})))

	// without a resolver, distinct classes stay conservative
	got := Intersect(Object("Foo"), Object("Bar"), nil)
	assert.False(t, got.IsNever())
}

func TestSubtract(t *testing.T) {
	t.Parallel()

	assert.True(t, Subtract(Union(Int(), Null()), Null(), nil).Equal(Int()))
	assert.True(t, Subtract(Int(), Int(), nil).IsNever())
	assert.True(t, Subtract(Union(Int(), String()), Bool(), nil).Equal(Union(Int(), String())))

	// the complement of anything under mixed is not enumerable
	assert.True(t, Subtract(Mixed(), Int(), nil).IsMixed())

	// subtracting a base kind removes its literals
	assert.True(t, Subtract(NewType(IntLitAtom{Value: 3}, StringAtom{}), Int(), nil).Equal(String()))
}

func TestTruthyPart(t *testing.T) {
	t.Parallel()

	assert.True(t, TruthyPart(Union(String(), Null())).Equal(String()))
	assert.True(t, TruthyPart(Bool()).Equal(NewType(TrueAtom{})))
	assert.True(t, TruthyPart(Null()).IsNever())
	assert.True(t, TruthyPart(Mixed()).IsMixed())

	// falsy literals drop, truthy ones survive
	lits := NewType(IntLitAtom{Value: 0}, IntLitAtom{Value: 5})
	assert.True(t, TruthyPart(lits).Equal(NewType(IntLitAtom{Value: 5})))
	strs := NewType(StringLitAtom{Value: ""}, StringLitAtom{Value: "0"}, StringLitAtom{Value: "ok"})
	assert.True(t, TruthyPart(strs).Equal(NewType(StringLitAtom{Value: "ok"})))
}

func TestFalsyPart(t *testing.T) {
	t.Parallel()

	assert.True(t, FalsyPart(Bool()).Equal(NewType(FalseAtom{})))
	assert.True(t, FalsyPart(Int()).Equal(NewType(IntLitAtom{Value: 0})))
	assert.True(t, FalsyPart(Null()).Equal(Null()))
	assert.True(t, FalsyPart(Object("Foo")).IsNever())
	assert.True(t, FalsyPart(Callable()).IsNever())

	// an array with known keys is provably non-empty
	keyed := NewType(ArrayAtom{Keys: []string{"id"}})
	assert.True(t, FalsyPart(keyed).IsNever())
	assert.True(t, FalsyPart(Array()).Equal(Array()))
}

func TestCapLiterals(t *testing.T) {
	t.Parallel()

	three := NewType(
		StringLitAtom{Value: "a"},
		StringLitAtom{Value: "b"},
		StringLitAtom{Value: "c"},
	)
	assert.True(t, CapLiterals(three, 2, 16, 8).Equal(String()))
	assert.True(t, CapLiterals(three, 3, 16, 8).Equal(three))

	ints := NewType(IntLitAtom{Value: 1}, IntLitAtom{Value: 2})
	assert.True(t, CapLiterals(ints, 16, 1, 8).Equal(Int()))

	wide := NewType(ArrayAtom{Keys: []string{"a", "b", "c"}})
	assert.True(t, CapLiterals(wide, 16, 16, 2).Equal(Array()))
	assert.True(t, CapLiterals(wide, 16, 16, 3).Equal(wide))
}

func TestTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "never", Never().String())
	assert.Equal(t, "mixed", Mixed().String())
	assert.Equal(t, "int|string", Union(String(), Int()).String())
	assert.Equal(t, "Foo", Object("Foo").String())
	assert.Equal(t, "array{a, b}", NewType(ArrayAtom{Keys: []string{"a", "b"}}).String())
}

type fakeResolver struct {
	subclasses map[[2]string]bool
	common     map[[2]string]bool
	interfaces map[string]bool
}

func (f *fakeResolver) IsSubclassOf(sub, super string) bool {
	return sub == super || f.subclasses[[2]string{sub, super}]
}

func (f *fakeResolver) HaveCommonSubtype(a, b string) bool {
	return f.IsSubclassOf(a, b) || f.IsSubclassOf(b, a) ||
		f.common[[2]string{a, b}] || f.common[[2]string{b, a}]
}

func (f *fakeResolver) IsInterface(name string) bool { return f.interfaces[name] }

func TestIntersectObjectsWithResolver(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{
		subclasses: map[[2]string]bool{{"Child", "Base"}: true},
		common:     map[[2]string]bool{{"Walks", "Swims"}: true},
	}

	// subclass wins
	got := Intersect(Object("Child"), Object("Base"), res)
	assert.True(t, got.Equal(Object("Child")))
	got = Intersect(Object("Base"), Object("Child"), res)
	assert.True(t, got.Equal(Object("Child")))

	// unrelated final classes cannot overlap
	assert.True(t, Intersect(Object("Dog"), Object("Cat"), res).IsNever())

	// interfaces with a possible common implementor keep the left side
	got = Intersect(Object("Walks"), Object("Swims"), res)
	assert.True(t, got.Equal(Object("Walks")))
}

func TestSubtractObjectsWithResolver(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{
		subclasses: map[[2]string]bool{{"Child", "Base"}: true},
	}

	// removing the base removes the subclass
	got := Subtract(Union(Object("Child"), Int()), Object("Base"), res)
	assert.True(t, got.Equal(Int()))

	// removing the subclass leaves the base
	got = Subtract(Object("Base"), Object("Child"), res)
	assert.True(t, got.Equal(Object("Base")))
}
