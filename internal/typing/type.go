// Package typing models the union types the narrowing engine refines.
//
// A Type is a canonical, duplicate-free union of atoms. The package provides
// the lattice operations the reconciler needs: union (join), intersection
// (meet), subtraction, and truthy/falsy filtering. Wider results are always
// sound; operations that cannot be represented precisely return the wider
// side.
package typing

import (
	"fmt"
	"sort"
	"strings"
)

// ClassResolver answers class-hierarchy questions for object atoms.
// The symbol table implements it; a nil resolver makes every object
// relation possible, which keeps results conservative.
type ClassResolver interface {
	// IsSubclassOf reports whether sub is the same as or a descendant of super.
	IsSubclassOf(sub, super string) bool
	// HaveCommonSubtype reports whether a value could be an instance of both.
	HaveCommonSubtype(a, b string) bool
	// IsInterface reports whether name is a known interface.
	IsInterface(name string) bool
}

// Atom is one member of a union type.
type Atom interface {
	isAtom()
	String() string
	Equal(other Atom) bool
}

// MixedAtom is the top element: any value at all.
type MixedAtom struct{}

// IntAtom is any integer.
type IntAtom struct{}

// FloatAtom is any float.
type FloatAtom struct{}

// StringAtom is any string.
type StringAtom struct{}

// BoolAtom is any boolean.
type BoolAtom struct{}

// TrueAtom and FalseAtom are the boolean literal types.
type TrueAtom struct{}
type FalseAtom struct{}

// NullAtom is the null type.
type NullAtom struct{}

// ArrayAtom is an array. Keys lists keys known to be present, in sorted
// order; nil means nothing is known about the shape.
type ArrayAtom struct {
	Keys []string
}

// ObjectAtom is an instance of Class; an empty Class means "some object".
type ObjectAtom struct {
	Class string
}

// CallableAtom is any callable value.
type CallableAtom struct{}

// IntLitAtom is the literal integer type, e.g. the type of 42 after
// `$x === 42` narrowing.
type IntLitAtom struct {
	Value int64
}

// StringLitAtom is a literal string type.
type StringLitAtom struct {
	Value string
}

func (MixedAtom) isAtom()     {}
func (IntAtom) isAtom()       {}
func (FloatAtom) isAtom()     {}
func (StringAtom) isAtom()    {}
func (BoolAtom) isAtom()      {}
func (TrueAtom) isAtom()      {}
func (FalseAtom) isAtom()     {}
func (NullAtom) isAtom()      {}
func (ArrayAtom) isAtom()     {}
func (ObjectAtom) isAtom()    {}
func (CallableAtom) isAtom()  {}
func (IntLitAtom) isAtom()    {}
func (StringLitAtom) isAtom() {}

func (MixedAtom) String() string    { return "mixed" }
func (IntAtom) String() string      { return "int" }
func (FloatAtom) String() string    { return "float" }
func (StringAtom) String() string   { return "string" }
func (BoolAtom) String() string     { return "bool" }
func (TrueAtom) String() string     { return "true" }
func (FalseAtom) String() string    { return "false" }
func (NullAtom) String() string     { return "null" }
func (CallableAtom) String() string { return "callable" }

func (a ArrayAtom) String() string {
	if len(a.Keys) == 0 {
		return "array"
	}
	return "array{" + strings.Join(a.Keys, ", ") + "}"
}

func (a ObjectAtom) String() string {
	if a.Class == "" {
		return "object"
	}
	return a.Class
}

func (a IntLitAtom) String() string    { return fmt.Sprintf("%d", a.Value) }
func (a StringLitAtom) String() string { return fmt.Sprintf("'%s'", a.Value) }

func (MixedAtom) Equal(o Atom) bool    { _, ok := o.(MixedAtom); return ok }
func (IntAtom) Equal(o Atom) bool      { _, ok := o.(IntAtom); return ok }
func (FloatAtom) Equal(o Atom) bool    { _, ok := o.(FloatAtom); return ok }
func (StringAtom) Equal(o Atom) bool   { _, ok := o.(StringAtom); return ok }
func (BoolAtom) Equal(o Atom) bool     { _, ok := o.(BoolAtom); return ok }
func (TrueAtom) Equal(o Atom) bool     { _, ok := o.(TrueAtom); return ok }
func (FalseAtom) Equal(o Atom) bool    { _, ok := o.(FalseAtom); return ok }
func (NullAtom) Equal(o Atom) bool     { _, ok := o.(NullAtom); return ok }
func (CallableAtom) Equal(o Atom) bool { _, ok := o.(CallableAtom); return ok }

func (a ArrayAtom) Equal(o Atom) bool {
	b, ok := o.(ArrayAtom)
	if !ok || len(a.Keys) != len(b.Keys) {
		return false
	}
	for i := range a.Keys {
		if a.Keys[i] != b.Keys[i] {
			return false
		}
	}
	return true
}

func (a ObjectAtom) Equal(o Atom) bool {
	b, ok := o.(ObjectAtom)
	return ok && a.Class == b.Class
}

func (a IntLitAtom) Equal(o Atom) bool {
	b, ok := o.(IntLitAtom)
	return ok && a.Value == b.Value
}

func (a StringLitAtom) Equal(o Atom) bool {
	b, ok := o.(StringLitAtom)
	return ok && a.Value == b.Value
}

// atomRank fixes the canonical ordering of atoms inside a union.
func atomRank(a Atom) int {
	switch a.(type) {
	case MixedAtom:
		return 0
	case NullAtom:
		return 1
	case BoolAtom:
		return 2
	case TrueAtom:
		return 3
	case FalseAtom:
		return 4
	case IntAtom:
		return 5
	case IntLitAtom:
		return 6
	case FloatAtom:
		return 7
	case StringAtom:
		return 8
	case StringLitAtom:
		return 9
	case ArrayAtom:
		return 10
	case ObjectAtom:
		return 11
	case CallableAtom:
		return 12
	default:
		return 99
	}
}

// CompareAtoms is a total order over atoms, used for canonicalization.
func CompareAtoms(a, b Atom) int {
	ra, rb := atomRank(a), atomRank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case IntLitAtom:
		y := b.(IntLitAtom)
		switch {
		case x.Value < y.Value:
			return -1
		case x.Value > y.Value:
			return 1
		}
		return 0
	case StringLitAtom:
		return strings.Compare(x.Value, b.(StringLitAtom).Value)
	case ObjectAtom:
		return strings.Compare(x.Class, b.(ObjectAtom).Class)
	case ArrayAtom:
		return strings.Compare(x.String(), b.(ArrayAtom).String())
	}
	return 0
}

// Type is a union of atoms in canonical order. The zero value is the bottom
// type (never): no value inhabits it.
type Type struct {
	atoms []Atom
}

// Never is the bottom type, assigned to unreachable branches.
func Never() Type { return Type{} }

// Mixed is the top type.
func Mixed() Type { return NewType(MixedAtom{}) }

func Int() Type      { return NewType(IntAtom{}) }
func Float() Type    { return NewType(FloatAtom{}) }
func String() Type   { return NewType(StringAtom{}) }
func Bool() Type     { return NewType(BoolAtom{}) }
func Null() Type     { return NewType(NullAtom{}) }
func Array() Type    { return NewType(ArrayAtom{}) }
func Callable() Type { return NewType(CallableAtom{}) }

// Object is an instance of the named class.
func Object(class string) Type { return NewType(ObjectAtom{Class: class}) }

// NewType builds a canonical union from the given atoms.
func NewType(atoms ...Atom) Type {
	return Type{atoms: normalize(atoms)}
}

// normalize sorts, deduplicates, and collapses subsumed atoms.
func normalize(atoms []Atom) []Atom {
	if len(atoms) == 0 {
		return nil
	}
	for _, a := range atoms {
		if _, ok := a.(MixedAtom); ok {
			return []Atom{MixedAtom{}}
		}
	}
	sorted := make([]Atom, len(atoms))
	copy(sorted, atoms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareAtoms(sorted[i], sorted[j]) < 0
	})
	var out []Atom
	for _, a := range sorted {
		dup := false
		for _, kept := range out {
			if kept.Equal(a) || subsumes(kept, a) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		// An atom added later cannot subsume one added earlier except for
		// base kinds absorbing their literals, which the rank order already
		// places first. Object hierarchies are the exception.
		out = append(out, a)
	}
	return out
}

// subsumes reports whether every value of sub's atom is also a value of by.
// Class hierarchy is not consulted here; see Intersect for that.
func subsumes(by, sub Atom) bool {
	switch b := by.(type) {
	case MixedAtom:
		return true
	case IntAtom:
		_, lit := sub.(IntLitAtom)
		return lit
	case StringAtom:
		_, lit := sub.(StringLitAtom)
		return lit
	case BoolAtom:
		if _, ok := sub.(TrueAtom); ok {
			return true
		}
		_, ok := sub.(FalseAtom)
		return ok
	case ArrayAtom:
		s, ok := sub.(ArrayAtom)
		// array with no known keys covers any keyed shape
		return ok && len(b.Keys) == 0 && len(s.Keys) > 0
	case ObjectAtom:
		s, ok := sub.(ObjectAtom)
		return ok && b.Class == "" && s.Class != ""
	}
	return false
}

// Atoms returns the canonical atom list. Callers must not mutate it.
func (t Type) Atoms() []Atom { return t.atoms }

// IsNever reports whether no value inhabits the type.
func (t Type) IsNever() bool { return len(t.atoms) == 0 }

// IsMixed reports whether the type is the top element.
func (t Type) IsMixed() bool {
	if len(t.atoms) != 1 {
		return false
	}
	_, ok := t.atoms[0].(MixedAtom)
	return ok
}

// Equal reports structural equality of two canonical types.
func (t Type) Equal(o Type) bool {
	if len(t.atoms) != len(o.atoms) {
		return false
	}
	for i := range t.atoms {
		if !t.atoms[i].Equal(o.atoms[i]) {
			return false
		}
	}
	return true
}

func (t Type) String() string {
	if t.IsNever() {
		return "never"
	}
	parts := make([]string, len(t.atoms))
	for i, a := range t.atoms {
		parts[i] = a.String()
	}
	return strings.Join(parts, "|")
}

// Union joins two types. Mixed absorbs everything; never is the identity.
func Union(a, b Type) Type {
	merged := make([]Atom, 0, len(a.atoms)+len(b.atoms))
	merged = append(merged, a.atoms...)
	merged = append(merged, b.atoms...)
	return Type{atoms: normalize(merged)}
}

// Intersect meets two types. An empty result means the combination is
// impossible. The resolver, when non-nil, decides object compatibility;
// without one, object atoms are kept conservatively.
func Intersect(a, b Type, res ClassResolver) Type {
	if a.IsMixed() {
		return b
	}
	if b.IsMixed() {
		return a
	}
	var out []Atom
	for _, x := range a.atoms {
		for _, y := range b.atoms {
			if m, ok := atomIntersect(x, y, res); ok {
				out = append(out, m)
			}
		}
	}
	return Type{atoms: normalize(out)}
}

func atomIntersect(x, y Atom, res ClassResolver) (Atom, bool) {
	if x.Equal(y) {
		return x, true
	}
	if subsumes(x, y) {
		return y, true
	}
	if subsumes(y, x) {
		return x, true
	}
	xo, xIsObj := x.(ObjectAtom)
	yo, yIsObj := y.(ObjectAtom)
	if xIsObj && yIsObj {
		return intersectObjects(xo, yo, res)
	}
	xa, xIsArr := x.(ArrayAtom)
	ya, yIsArr := y.(ArrayAtom)
	if xIsArr && yIsArr {
		return ArrayAtom{Keys: mergeKeys(xa.Keys, ya.Keys)}, true
	}
	return nil, false
}

func intersectObjects(x, y ObjectAtom, res ClassResolver) (Atom, bool) {
	if res == nil {
		return x, true
	}
	switch {
	case res.IsSubclassOf(x.Class, y.Class):
		return x, true
	case res.IsSubclassOf(y.Class, x.Class):
		return y, true
	case res.HaveCommonSubtype(x.Class, y.Class):
		// A common subtype exists but is not representable as a single
		// class atom; keeping the left side over-approximates soundly.
		return x, true
	}
	return nil, false
}

func mergeKeys(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, k := range append(append([]string{}, a...), b...) {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Subtract removes from a every atom that b covers. When a is mixed the
// complement cannot be enumerated and a is returned unchanged (wider, sound).
func Subtract(a, b Type, res ClassResolver) Type {
	if a.IsMixed() {
		return a
	}
	var out []Atom
	for _, x := range a.atoms {
		removed := false
		for _, y := range b.atoms {
			if y.Equal(x) || subsumes(y, x) {
				removed = true
				break
			}
			yo, yIsObj := y.(ObjectAtom)
			xo, xIsObj := x.(ObjectAtom)
			if yIsObj && xIsObj && res != nil && res.IsSubclassOf(xo.Class, yo.Class) {
				removed = true
				break
			}
		}
		if !removed {
			out = append(out, x)
		}
	}
	return Type{atoms: out}
}

// TruthyPart filters a type down to the values that evaluate truthy.
func TruthyPart(t Type) Type {
	if t.IsMixed() {
		return t
	}
	var out []Atom
	for _, a := range t.atoms {
		switch x := a.(type) {
		case NullAtom, FalseAtom:
			// always falsy
		case BoolAtom:
			out = append(out, TrueAtom{})
		case IntLitAtom:
			if x.Value != 0 {
				out = append(out, x)
			}
		case StringLitAtom:
			if x.Value != "" && x.Value != "0" {
				out = append(out, x)
			}
		default:
			out = append(out, a)
		}
	}
	return Type{atoms: normalize(out)}
}

// FalsyPart filters a type down to the values that can evaluate falsy.
// Base kinds with both truthy and falsy members narrow to their falsy
// literals where those are representable.
func FalsyPart(t Type) Type {
	if t.IsMixed() {
		return t
	}
	var out []Atom
	for _, a := range t.atoms {
		switch x := a.(type) {
		case NullAtom, FalseAtom:
			out = append(out, a)
		case BoolAtom:
			out = append(out, FalseAtom{})
		case IntAtom:
			out = append(out, IntLitAtom{Value: 0})
		case IntLitAtom:
			if x.Value == 0 {
				out = append(out, x)
			}
		case StringLitAtom:
			if x.Value == "" || x.Value == "0" {
				out = append(out, x)
			}
		case StringAtom, FloatAtom:
			out = append(out, a)
		case ArrayAtom:
			// the empty array is falsy; known keys imply non-empty
			if len(x.Keys) == 0 {
				out = append(out, a)
			}
		case ObjectAtom, CallableAtom, TrueAtom:
			// always truthy
		default:
			out = append(out, a)
		}
	}
	return Type{atoms: normalize(out)}
}

// CapLiterals generalizes enumerated literal unions that exceed the
// combination thresholds back to their base kinds. This is the mechanism
// that keeps large switch statements from building ever-growing unions.
func CapLiterals(t Type, maxStrings, maxInts, maxArrayKeys uint) Type {
	var strLits, intLits uint
	for _, a := range t.atoms {
		switch a.(type) {
		case StringLitAtom:
			strLits++
		case IntLitAtom:
			intLits++
		}
	}
	collapseStr := strLits > maxStrings
	collapseInt := intLits > maxInts
	var out []Atom
	for _, a := range t.atoms {
		switch x := a.(type) {
		case StringLitAtom:
			if collapseStr {
				out = append(out, StringAtom{})
			} else {
				out = append(out, x)
			}
		case IntLitAtom:
			if collapseInt {
				out = append(out, IntAtom{})
			} else {
				out = append(out, x)
			}
		case ArrayAtom:
			if uint(len(x.Keys)) > maxArrayKeys {
				out = append(out, ArrayAtom{})
			} else {
				out = append(out, x)
			}
		default:
			out = append(out, a)
		}
	}
	return Type{atoms: normalize(out)}
}
