package algebra

import (
	"fmt"
	"strings"

	"github.com/phlin-dev/phlin/internal/typing"
)

// Assertion is a predicate about the value at a reference path. All
// assertions are stored in positive form; negation lives on the Literal,
// so a literal and its negation differ only by polarity and exact-negation
// detection is a field comparison.
type Assertion interface {
	isAssertion()
	String() string
	Equal(other Assertion) bool
}

// IsType asserts the value has (a subtype of) the given type.
type IsType struct {
	T typing.Type
}

// Truthy asserts the value evaluates truthy. Its negation is falsiness.
type Truthy struct{}

// IsNull asserts the value is null. Its negation is isset-style non-null.
type IsNull struct{}

// Equals asserts the value is identical (===) to a literal.
type Equals struct {
	Value typing.Atom
}

// HasKey asserts the value is an array with the given key present.
type HasKey struct {
	Key string
}

// InstanceOf asserts the value is an instance of the named class.
type InstanceOf struct {
	Class string
}

// Countable asserts the value is countable (array or Countable object).
type Countable struct{}

// ExistsKind selects which kind of declaration an Exists assertion checks.
type ExistsKind int

const (
	ExistsFunction ExistsKind = iota
	ExistsMethod
	ExistsProperty
	ExistsConstant
)

// Exists asserts a function/method/property/constant with the given name
// is declared. It never narrows a type; it participates in contradiction
// detection only.
type Exists struct {
	What ExistsKind
	Name string
}

func (IsType) isAssertion()     {}
func (Truthy) isAssertion()     {}
func (IsNull) isAssertion()     {}
func (Equals) isAssertion()     {}
func (HasKey) isAssertion()     {}
func (InstanceOf) isAssertion() {}
func (Countable) isAssertion()  {}
func (Exists) isAssertion()     {}

func (a IsType) String() string { return "is " + a.T.String() }
func (Truthy) String() string   { return "truthy" }
func (IsNull) String() string   { return "null" }
func (a Equals) String() string { return "=== " + a.Value.String() }
func (a HasKey) String() string { return fmt.Sprintf("has-key '%s'", a.Key) }
func (a InstanceOf) String() string {
	return "instanceof " + a.Class
}
func (Countable) String() string { return "countable" }

func (a Exists) String() string {
	switch a.What {
	case ExistsFunction:
		return fmt.Sprintf("function-exists '%s'", a.Name)
	case ExistsMethod:
		return fmt.Sprintf("method-exists '%s'", a.Name)
	case ExistsProperty:
		return fmt.Sprintf("property-exists '%s'", a.Name)
	case ExistsConstant:
		return fmt.Sprintf("defined '%s'", a.Name)
	default:
		return "exists?"
	}
}

func (a IsType) Equal(o Assertion) bool {
	b, ok := o.(IsType)
	return ok && a.T.Equal(b.T)
}

func (Truthy) Equal(o Assertion) bool { _, ok := o.(Truthy); return ok }
func (IsNull) Equal(o Assertion) bool { _, ok := o.(IsNull); return ok }

func (a Equals) Equal(o Assertion) bool {
	b, ok := o.(Equals)
	return ok && a.Value.Equal(b.Value)
}

func (a HasKey) Equal(o Assertion) bool {
	b, ok := o.(HasKey)
	return ok && a.Key == b.Key
}

func (a InstanceOf) Equal(o Assertion) bool {
	b, ok := o.(InstanceOf)
	return ok && a.Class == b.Class
}

func (Countable) Equal(o Assertion) bool { _, ok := o.(Countable); return ok }

func (a Exists) Equal(o Assertion) bool {
	b, ok := o.(Exists)
	return ok && a.What == b.What && a.Name == b.Name
}

func assertionRank(a Assertion) int {
	switch a.(type) {
	case Truthy:
		return 0
	case IsNull:
		return 1
	case IsType:
		return 2
	case Equals:
		return 3
	case HasKey:
		return 4
	case InstanceOf:
		return 5
	case Countable:
		return 6
	case Exists:
		return 7
	default:
		return 99
	}
}

// compareAssertions is a total order over assertions, used to keep clause
// contents canonically sorted.
func compareAssertions(a, b Assertion) int {
	ra, rb := assertionRank(a), assertionRank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case IsType:
		return strings.Compare(x.T.String(), b.(IsType).T.String())
	case Equals:
		return typing.CompareAtoms(x.Value, b.(Equals).Value)
	case HasKey:
		return strings.Compare(x.Key, b.(HasKey).Key)
	case InstanceOf:
		return strings.Compare(x.Class, b.(InstanceOf).Class)
	case Exists:
		y := b.(Exists)
		if x.What != y.What {
			return int(x.What) - int(y.What)
		}
		return strings.Compare(x.Name, y.Name)
	}
	return 0
}
