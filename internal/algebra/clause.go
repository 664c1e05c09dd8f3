package algebra

import (
	"hash/fnv"
	"strconv"
	"strings"

	set "github.com/hashicorp/go-set/v2"
)

// Clause is a disjunction (OR) of literals, stored as an ordered
// duplicate-free set. Clauses are immutable after construction; operations
// that change contents return new clauses.
type Clause struct {
	lits *set.TreeSet[Literal]
}

// NewClause builds a clause from the given literals, deduplicating them.
// The caller must check IsTautology: a clause holding a literal and its
// exact negation is always true and must be dropped from its formula.
func NewClause(lits ...Literal) *Clause {
	ts := set.TreeSetFrom(lits, compareLiterals)
	return &Clause{lits: ts}
}

// EmptyClause is the unsatisfiable clause; a formula containing it denotes
// a contradiction.
func EmptyClause() *Clause {
	return &Clause{lits: set.NewTreeSet(compareLiterals)}
}

// Len returns the number of distinct literals.
func (c *Clause) Len() int { return c.lits.Size() }

// IsEmpty reports whether the clause has no literals (contradiction).
func (c *Clause) IsEmpty() bool { return c.lits.Empty() }

// IsUnit reports whether the clause forces a single literal.
func (c *Clause) IsUnit() bool { return c.lits.Size() == 1 }

// Literals returns the literals in canonical order.
func (c *Clause) Literals() []Literal { return c.lits.Slice() }

// Unit returns the sole literal of a unit clause.
func (c *Clause) Unit() Literal { return c.lits.Slice()[0] }

// Contains reports whether the clause holds the exact literal.
func (c *Clause) Contains(l Literal) bool { return c.lits.Contains(l) }

// IsTautology reports whether the clause contains a literal and its exact
// negation, making it always true.
func (c *Clause) IsTautology() bool {
	for _, l := range c.lits.Slice() {
		if c.lits.Contains(l.Negate()) {
			return true
		}
	}
	return false
}

// Without returns a clause with the given literal removed.
func (c *Clause) Without(l Literal) *Clause {
	out := set.NewTreeSet(compareLiterals)
	for _, existing := range c.lits.Slice() {
		if !existing.Equal(l) {
			out.Insert(existing)
		}
	}
	return &Clause{lits: out}
}

// SubsetOf reports whether every literal of c appears in o. A superset
// clause is a weaker constraint and absorption drops it.
func (c *Clause) SubsetOf(o *Clause) bool {
	if c.Len() > o.Len() {
		return false
	}
	for _, l := range c.lits.Slice() {
		if !o.Contains(l) {
			return false
		}
	}
	return true
}

func (c *Clause) Equal(o *Clause) bool {
	return compareClauses(c, o) == 0
}

// Hash returns a structural hash over the canonical literal order.
func (c *Clause) Hash() uint64 {
	h := fnv.New64a()
	for _, l := range c.lits.Slice() {
		h.Write([]byte(strconv.Itoa(int(l.Path))))
		if l.Positive {
			h.Write([]byte{'+'})
		} else {
			h.Write([]byte{'-'})
		}
		h.Write([]byte(l.Assert.String()))
	}
	return h.Sum64()
}

func (c *Clause) String() string {
	if c.IsEmpty() {
		return "(false)"
	}
	parts := make([]string, 0, c.Len())
	for _, l := range c.lits.Slice() {
		parts = append(parts, l.String())
	}
	return "(" + strings.Join(parts, " || ") + ")"
}

// compareClauses orders clauses by size, then lexicographically by their
// canonical literal sequences.
func compareClauses(a, b *Clause) int {
	al, bl := a.Literals(), b.Literals()
	if len(al) != len(bl) {
		return len(al) - len(bl)
	}
	for i := range al {
		if c := compareLiterals(al[i], bl[i]); c != 0 {
			return c
		}
	}
	return 0
}
