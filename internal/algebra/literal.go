package algebra

// Literal is a possibly negated assertion about a reference path.
// Positive=false means the assertion is asserted NOT to hold.
type Literal struct {
	Path     PathID
	Assert   Assertion
	Positive bool
}

// Lit builds a positive literal.
func Lit(path PathID, a Assertion) Literal {
	return Literal{Path: path, Assert: a, Positive: true}
}

// NegLit builds a negative literal.
func NegLit(path PathID, a Assertion) Literal {
	return Literal{Path: path, Assert: a, Positive: false}
}

// NotNull is the isset-style "set and not null" literal.
func NotNull(path PathID) Literal { return NegLit(path, IsNull{}) }

// Falsy is the negation of truthiness.
func Falsy(path PathID) Literal { return NegLit(path, Truthy{}) }

// Negate flips the literal's polarity.
func (l Literal) Negate() Literal {
	l.Positive = !l.Positive
	return l
}

// IsNegationOf reports whether o is the exact negation of l.
func (l Literal) IsNegationOf(o Literal) bool {
	return l.Path == o.Path && l.Positive != o.Positive && l.Assert.Equal(o.Assert)
}

func (l Literal) Equal(o Literal) bool {
	return l.Path == o.Path && l.Positive == o.Positive && l.Assert.Equal(o.Assert)
}

func (l Literal) String() string {
	s := l.Assert.String()
	if !l.Positive {
		s = "!(" + s + ")"
	}
	return s
}

// compareLiterals is a total order: by path, then assertion, then polarity
// (positive first). Canonical ordering makes clause comparison, hashing,
// and iteration deterministic.
func compareLiterals(a, b Literal) int {
	if a.Path != b.Path {
		return int(a.Path) - int(b.Path)
	}
	if c := compareAssertions(a.Assert, b.Assert); c != 0 {
		return c
	}
	switch {
	case a.Positive == b.Positive:
		return 0
	case a.Positive:
		return -1
	default:
		return 1
	}
}
