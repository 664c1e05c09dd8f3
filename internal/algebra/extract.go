package algebra

import (
	"strconv"

	"github.com/phlin-dev/phlin/internal/ast"
	"github.com/phlin-dev/phlin/internal/typing"
)

// maxExtractDepth bounds expression recursion; past it the remainder of
// the condition contributes no information. Together with the clause-count
// thresholds this bounds both memory and stack depth on pathological input.
const maxExtractDepth = 256

// Extractor walks a boolean condition expression and produces two CNF
// formulas: one holding when the expression evaluates truthy, one when it
// evaluates falsy. The falsy formula is not a naive negation; short-circuit
// operators guard their right operand with the left operand's outcome.
//
// Extraction is a pure function of the expression and budget. Expression
// shapes the extractor does not recognize yield "no constraint" rather than
// an error: the source language's conditionals are open-ended.
type Extractor struct {
	interner *Interner
	budget   Budget
	negator  *Negator
}

// NewExtractor creates an extractor that interns paths into in.
func NewExtractor(in *Interner, budget Budget) *Extractor {
	return &Extractor{interner: in, budget: budget, negator: NewNegator(budget)}
}

// Extract returns the truthy and falsy formulas for cond.
func (x *Extractor) Extract(cond ast.Expr) (truthy, falsy *Formula) {
	return x.extract(cond, 0)
}

func (x *Extractor) extract(e ast.Expr, depth int) (*Formula, *Formula) {
	if depth > maxExtractDepth {
		return Tautology(), Tautology()
	}

	switch n := e.(type) {
	case *ast.Binary:
		switch n.Op {
		case ast.OpAnd:
			lt, lf := x.extract(n.Left, depth+1)
			rt, rf := x.extract(n.Right, depth+1)
			// both operands held; the right's failure only matters when the
			// left already held (short-circuit)
			t := And(x.budget, lt, rt)
			f := Or(x.budget, lf, And(x.budget, lt, rf))
			return t, f
		case ast.OpOr:
			lt, lf := x.extract(n.Left, depth+1)
			rt, rf := x.extract(n.Right, depth+1)
			t := Or(x.budget, lt, And(x.budget, lf, rt))
			f := And(x.budget, lf, rf)
			return t, f
		case ast.OpIdentical:
			return x.identity(n.Left, n.Right, true)
		case ast.OpNotIdentical:
			return x.identity(n.Left, n.Right, false)
		default:
			// loose == and != carry coercion semantics we do not model
			return Tautology(), Tautology()
		}

	case *ast.Unary:
		if n.Op == ast.OpNot {
			t, f := x.extract(n.Operand, depth+1)
			return f, t
		}
		return Tautology(), Tautology()

	case *ast.Instanceof:
		p, ok := pathOf(n.Value)
		if !ok {
			return Tautology(), Tautology()
		}
		return x.leaf(Lit(x.interner.Intern(p), InstanceOf{Class: n.Class}))

	case *ast.Isset:
		return x.isset(n)

	case *ast.Call:
		return x.call(n)

	case *ast.Variable, *ast.PropertyFetch, *ast.IndexFetch:
		p, ok := pathOf(e)
		if !ok {
			return Tautology(), Tautology()
		}
		return x.leaf(Lit(x.interner.Intern(p), Truthy{}))

	case *ast.BoolLit:
		if n.Value {
			return Tautology(), Unsatisfiable()
		}
		return Unsatisfiable(), Tautology()

	case *ast.IntLit:
		if n.Value != 0 {
			return Tautology(), Unsatisfiable()
		}
		return Unsatisfiable(), Tautology()

	case *ast.NullLit:
		return Unsatisfiable(), Tautology()
	}

	return Tautology(), Tautology()
}

// leaf wraps a single literal into its truthy/falsy formula pair.
func (x *Extractor) leaf(l Literal) (*Formula, *Formula) {
	return UnitFormula(l), UnitFormula(l.Negate())
}

// isset asserts every target is set and non-null; its falsy side is the
// De Morgan dual (at least one target null).
func (x *Extractor) isset(n *ast.Isset) (*Formula, *Formula) {
	t := Tautology()
	for _, target := range n.Targets {
		p, ok := pathOf(target)
		if !ok {
			continue
		}
		t = And(x.budget, t, UnitFormula(NotNull(x.interner.Intern(p))))
	}
	return t, x.negator.Negate(t)
}

// identity handles === and !== against null, literals, and booleans.
func (x *Extractor) identity(left, right ast.Expr, positive bool) (*Formula, *Formula) {
	pathExpr, valueExpr := left, right
	p, ok := pathOf(pathExpr)
	if !ok {
		pathExpr, valueExpr = right, left
		p, ok = pathOf(pathExpr)
	}
	if !ok {
		return Tautology(), Tautology()
	}

	var assert Assertion
	switch v := valueExpr.(type) {
	case *ast.NullLit:
		assert = IsNull{}
	case *ast.IntLit:
		assert = Equals{Value: typing.IntLitAtom{Value: v.Value}}
	case *ast.StringLit:
		assert = Equals{Value: typing.StringLitAtom{Value: v.Value}}
	case *ast.BoolLit:
		if v.Value {
			assert = Equals{Value: typing.TrueAtom{}}
		} else {
			assert = Equals{Value: typing.FalseAtom{}}
		}
	default:
		return Tautology(), Tautology()
	}

	l := Lit(x.interner.Intern(p), assert)
	if !positive {
		l = l.Negate()
	}
	return x.leaf(l)
}

// call maps the recognized predicate functions onto assertions.
func (x *Extractor) call(n *ast.Call) (*Formula, *Formula) {
	if t, ok := isTypeTarget(n.Name); ok {
		p, ok := firstArgPath(n)
		if !ok {
			return Tautology(), Tautology()
		}
		return x.leaf(Lit(x.interner.Intern(p), t))
	}

	switch n.Name {
	case "array_key_exists":
		if len(n.Args) != 2 {
			return Tautology(), Tautology()
		}
		key, ok := literalKey(n.Args[0])
		if !ok {
			return Tautology(), Tautology()
		}
		p, ok := pathOf(n.Args[1])
		if !ok {
			return Tautology(), Tautology()
		}
		return x.leaf(Lit(x.interner.Intern(p), HasKey{Key: key}))

	case "method_exists", "property_exists":
		if len(n.Args) != 2 {
			return Tautology(), Tautology()
		}
		name, ok := stringArg(n.Args[1])
		if !ok {
			return Tautology(), Tautology()
		}
		p, ok := pathOf(n.Args[0])
		if !ok {
			return Tautology(), Tautology()
		}
		what := ExistsMethod
		if n.Name == "property_exists" {
			what = ExistsProperty
		}
		return x.leaf(Lit(x.interner.Intern(p), Exists{What: what, Name: name}))

	case "function_exists", "defined":
		if len(n.Args) != 1 {
			return Tautology(), Tautology()
		}
		name, ok := stringArg(n.Args[0])
		if !ok {
			return Tautology(), Tautology()
		}
		what := ExistsFunction
		root := "fn:" + name
		if n.Name == "defined" {
			what = ExistsConstant
			root = "const:" + name
		}
		// existence checks have no variable target; a synthetic root keeps
		// them participating in contradiction detection
		return x.leaf(Lit(x.interner.Intern(NewPath(root)), Exists{What: what, Name: name}))
	}

	return Tautology(), Tautology()
}

// isTypeTarget maps the is_* predicate family onto assertions.
func isTypeTarget(name string) (Assertion, bool) {
	switch name {
	case "is_int", "is_integer", "is_long":
		return IsType{T: typing.Int()}, true
	case "is_float", "is_double":
		return IsType{T: typing.Float()}, true
	case "is_string":
		return IsType{T: typing.String()}, true
	case "is_bool":
		return IsType{T: typing.Bool()}, true
	case "is_array":
		return IsType{T: typing.Array()}, true
	case "is_callable":
		return IsType{T: typing.Callable()}, true
	case "is_object":
		return IsType{T: typing.Object("")}, true
	case "is_null":
		return IsNull{}, true
	case "is_countable":
		return Countable{}, true
	}
	return nil, false
}

func firstArgPath(n *ast.Call) (Path, bool) {
	if len(n.Args) != 1 {
		return Path{}, false
	}
	return pathOf(n.Args[0])
}

func stringArg(e ast.Expr) (string, bool) {
	s, ok := e.(*ast.StringLit)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func literalKey(e ast.Expr) (string, bool) {
	switch v := e.(type) {
	case *ast.StringLit:
		return v.Value, true
	case *ast.IntLit:
		return strconv.FormatInt(v.Value, 10), true
	}
	return "", false
}

// pathOf resolves an expression to a reference path: a root variable plus
// property and literal-keyed array accesses. Dynamic keys and call results
// are not narrowable.
func pathOf(e ast.Expr) (Path, bool) {
	switch n := e.(type) {
	case *ast.Variable:
		return NewPath(n.Name), true
	case *ast.PropertyFetch:
		base, ok := pathOf(n.Target)
		if !ok {
			return Path{}, false
		}
		segs := make([]Segment, 0, len(base.Segments)+1)
		segs = append(segs, base.Segments...)
		segs = append(segs, Segment{Kind: SegProperty, Name: n.Name})
		return Path{Root: base.Root, Segments: segs}, true
	case *ast.IndexFetch:
		base, ok := pathOf(n.Target)
		if !ok {
			return Path{}, false
		}
		key, ok := literalKey(n.Index)
		if !ok {
			return Path{}, false
		}
		segs := make([]Segment, 0, len(base.Segments)+1)
		segs = append(segs, base.Segments...)
		segs = append(segs, Segment{Kind: SegKey, Name: key})
		return Path{Root: base.Root, Segments: segs}, true
	}
	return Path{}, false
}
