package algebra

import (
	"sort"

	"github.com/phlin-dev/phlin/internal/typing"
)

// SymbolResolver is what the reconciler needs from the symbol table:
// class-hierarchy queries for object narrowing plus declaration lookups
// for existence assertions.
type SymbolResolver interface {
	typing.ClassResolver
	FunctionExists(name string) bool
	MethodExists(class, method string) bool
	PropertyExists(class, property string) (string, bool)
	IsFinal(name string) bool
}

// Reconciler applies a saturated formula to a type environment, producing
// the narrowed environment for the guarded branch. It never mutates the
// input environment.
type Reconciler struct {
	interner *Interner
	symbols  SymbolResolver
	resolver typing.ClassResolver
	budget   Budget
}

// NewReconciler creates a reconciler. The resolver may be nil, which keeps
// object narrowing and existence checks conservative.
func NewReconciler(in *Interner, symbols SymbolResolver, budget Budget) *Reconciler {
	r := &Reconciler{interner: in, symbols: symbols, budget: budget}
	if symbols != nil {
		r.resolver = symbols
	}
	return r
}

// Outcome is the result of reconciling one formula against one environment.
type Outcome struct {
	// Env is the refined environment. On contradiction the mentioned paths
	// are bound to the bottom type so downstream code sees them as
	// unreachable rather than crashing.
	Env *TypeEnv
	// Contradiction is set when the formula cannot hold under the ambient
	// types: the branch is impossible.
	Contradiction bool
	// Changed is set when at least one path's type actually narrowed.
	Changed bool
}

// Reconcile narrows env under the saturated formula. Unit clauses narrow
// their paths directly; single-path all-positive disjunctions narrow to the
// union of their alternatives; any other multi-literal clause is ignored
// for narrowing, since it pins down no individual path.
func (r *Reconciler) Reconcile(sat SaturationResult, env *TypeEnv) Outcome {
	if sat.Contradiction {
		// bottom out every mentioned path so code downstream of the
		// dead branch reconciles against never instead of the ambient
		// types
		out := Outcome{Env: env, Contradiction: true}
		for _, id := range sat.Paths {
			if !out.Env.TypeOf(id).IsNever() {
				out.Changed = true
				out.Env = out.Env.With(id, typing.Never())
			}
		}
		return out
	}

	out := Outcome{Env: env}
	for _, c := range sat.Formula.Clauses() {
		switch {
		case c.IsUnit():
			r.applyLiteral(c.Unit(), &out)
		default:
			if path, t, ok := singlePathAlternatives(c); ok {
				r.narrowTo(path, t, &out)
			}
		}
		if out.Contradiction {
			return out
		}
	}

	// cap enumerated literal unions the narrowing may have accumulated
	for _, id := range out.Env.Paths() {
		cur := out.Env.TypeOf(id)
		capped := typing.CapLiterals(cur,
			r.budget.StringCombination,
			r.budget.IntegerCombination,
			r.budget.ArrayCombination,
		)
		if !capped.Equal(cur) {
			out.Env = out.Env.With(id, capped)
		}
	}
	return out
}

// applyLiteral narrows one path under a forced literal.
func (r *Reconciler) applyLiteral(l Literal, out *Outcome) {
	cur := out.Env.TypeOf(l.Path)
	var next typing.Type
	if l.Positive {
		next = r.assertPositive(l.Assert, cur)
	} else {
		next = r.assertNegative(l.Assert, cur)
	}
	r.bind(l.Path, cur, next, out)
}

func (r *Reconciler) narrowTo(path PathID, asserted typing.Type, out *Outcome) {
	cur := out.Env.TypeOf(path)
	next := typing.Intersect(cur, asserted, r.resolver)
	r.bind(path, cur, next, out)
}

func (r *Reconciler) bind(path PathID, cur, next typing.Type, out *Outcome) {
	if next.Equal(cur) {
		return
	}
	out.Changed = true
	out.Env = out.Env.With(path, next)
	if next.IsNever() && !cur.IsNever() {
		out.Contradiction = true
	}
}

func (r *Reconciler) assertPositive(a Assertion, cur typing.Type) typing.Type {
	switch x := a.(type) {
	case IsType:
		return typing.Intersect(cur, x.T, r.resolver)
	case Truthy:
		return typing.TruthyPart(cur)
	case IsNull:
		return typing.Intersect(cur, typing.Null(), r.resolver)
	case Equals:
		return typing.Intersect(cur, typing.NewType(x.Value), r.resolver)
	case HasKey:
		arr := typing.Intersect(cur, typing.Array(), r.resolver)
		return addArrayKey(arr, x.Key)
	case InstanceOf:
		return typing.Intersect(cur, typing.Object(x.Class), r.resolver)
	case Countable:
		countable := typing.NewType(typing.ArrayAtom{}, typing.ObjectAtom{Class: "Countable"})
		return typing.Intersect(cur, countable, r.resolver)
	case Exists:
		return r.assertExists(x, cur, true)
	default:
		return cur
	}
}

func (r *Reconciler) assertNegative(a Assertion, cur typing.Type) typing.Type {
	switch x := a.(type) {
	case IsType:
		return typing.Subtract(cur, x.T, r.resolver)
	case Truthy:
		return typing.FalsyPart(cur)
	case IsNull:
		return typing.Subtract(cur, typing.Null(), r.resolver)
	case Equals:
		return typing.Subtract(cur, typing.NewType(x.Value), r.resolver)
	case HasKey:
		// key absence is not representable; the array stays as-is
		return cur
	case InstanceOf:
		return typing.Subtract(cur, typing.Object(x.Class), r.resolver)
	case Countable:
		return typing.Subtract(cur, typing.Array(), r.resolver)
	case Exists:
		return r.assertExists(x, cur, false)
	default:
		return cur
	}
}

// assertExists consults the symbol table for member and function
// existence. A declared member or function is conclusive in every class
// that can reach it, since declarations are never removed; absence is
// conclusive only on final classes, whose member set is closed.
func (r *Reconciler) assertExists(x Exists, cur typing.Type, positive bool) typing.Type {
	if r.symbols == nil {
		return cur
	}
	switch x.What {
	case ExistsMethod, ExistsProperty:
		class, ok := soleClass(cur)
		if !ok {
			return cur
		}
		var declared bool
		if x.What == ExistsMethod {
			declared = r.symbols.MethodExists(class, x.Name)
		} else {
			_, declared = r.symbols.PropertyExists(class, x.Name)
		}
		if positive && !declared && r.symbols.IsFinal(class) {
			return typing.Never()
		}
		if !positive && declared {
			return typing.Never()
		}
		return cur
	case ExistsFunction:
		if !positive && r.symbols.FunctionExists(x.Name) {
			return typing.Never()
		}
		return cur
	default:
		// a constant may be defined by any included file
		return cur
	}
}

// soleClass recognizes a type that is exactly one named object.
func soleClass(t typing.Type) (string, bool) {
	atoms := t.Atoms()
	if len(atoms) != 1 {
		return "", false
	}
	obj, ok := atoms[0].(typing.ObjectAtom)
	if !ok || obj.Class == "" {
		return "", false
	}
	return obj.Class, true
}

// singlePathAlternatives recognizes a clause whose literals are all
// positive type-shaped assertions about one path, e.g. the CNF residue of
// `is_int($x) || is_string($x)`. Such a clause narrows the path to the
// union of the alternatives.
func singlePathAlternatives(c *Clause) (PathID, typing.Type, bool) {
	lits := c.Literals()
	path := lits[0].Path
	asserted := typing.Never()
	for _, l := range lits {
		if !l.Positive || l.Path != path {
			return 0, typing.Type{}, false
		}
		t, ok := assertionType(l.Assert)
		if !ok {
			return 0, typing.Type{}, false
		}
		asserted = typing.Union(asserted, t)
	}
	return path, asserted, true
}

// assertionType returns the type a positive assertion pins a value to,
// when it has one.
func assertionType(a Assertion) (typing.Type, bool) {
	switch x := a.(type) {
	case IsType:
		return x.T, true
	case IsNull:
		return typing.Null(), true
	case Equals:
		return typing.NewType(x.Value), true
	case InstanceOf:
		return typing.Object(x.Class), true
	default:
		return typing.Type{}, false
	}
}

// addArrayKey records a known-present key on every array atom of t.
func addArrayKey(t typing.Type, key string) typing.Type {
	var atoms []typing.Atom
	for _, a := range t.Atoms() {
		if arr, ok := a.(typing.ArrayAtom); ok {
			atoms = append(atoms, typing.ArrayAtom{Keys: mergeKey(arr.Keys, key)})
			continue
		}
		atoms = append(atoms, a)
	}
	return typing.NewType(atoms...)
}

func mergeKey(keys []string, key string) []string {
	for _, k := range keys {
		if k == key {
			return keys
		}
	}
	merged := make([]string, 0, len(keys)+1)
	merged = append(merged, keys...)
	merged = append(merged, key)
	sort.Strings(merged)
	return merged
}
