// Package flow walks function bodies, applying the assertion algebra at
// every conditional and reconciling branch environments at joins.
package flow

import (
	"fmt"

	"github.com/phlin-dev/phlin/internal/algebra"
	"github.com/phlin-dev/phlin/internal/ast"
	"github.com/phlin-dev/phlin/internal/symbol"
	"github.com/phlin-dev/phlin/internal/types"
	"github.com/phlin-dev/phlin/internal/typing"
)

const (
	RuleImpossibleCondition = "impossible-condition"
	RuleRedundantCondition  = "redundant-condition"

	categoryNarrowing = "type-narrowing"
)

// Analyzer runs flow-sensitive narrowing over functions. It is safe to
// share across workers: per-function state lives in funcAnalysis, and the
// symbol table and budget are read-only.
type Analyzer struct {
	symbols *symbol.Table
	budget  algebra.Budget
}

// New creates an analyzer over the given symbol table and budget.
func New(symbols *symbol.Table, budget algebra.Budget) *Analyzer {
	if symbols == nil {
		symbols = symbol.NewTable()
	}
	return &Analyzer{symbols: symbols, budget: budget}
}

// newFuncAnalysis sets up the per-function state: a fresh interner and the
// algebra passes bound to it.
func (a *Analyzer) newFuncAnalysis(filename string) *funcAnalysis {
	fa := &funcAnalysis{
		filename:  filename,
		symbols:   a.symbols,
		budget:    a.budget,
		interner:  algebra.NewInterner(),
		saturator: algebra.NewSaturator(a.budget),
	}
	fa.extractor = algebra.NewExtractor(fa.interner, a.budget)
	fa.reconciler = algebra.NewReconciler(fa.interner, a.symbols, a.budget)
	return fa
}

// seedEnv binds the parameters' declared types.
func (fa *funcAnalysis) seedEnv(fn *ast.Function, selfClass string) *algebra.TypeEnv {
	env := algebra.NewTypeEnv()
	for _, p := range fn.Params {
		id := fa.interner.Intern(algebra.NewPath(p.Name))
		env = env.With(id, typing.ParseHint(p.Hint))
	}
	if selfClass != "" {
		id := fa.interner.Intern(algebra.NewPath("this"))
		env = env.With(id, typing.Object(selfClass))
	}
	return env
}

// CheckFunction analyzes one function and returns its diagnostics.
// selfClass is the enclosing class for methods, or empty.
func (a *Analyzer) CheckFunction(filename string, fn *ast.Function, selfClass string) []types.Issue {
	fa := a.newFuncAnalysis(filename)
	fa.execBlock(fn.Body.Stmts, fa.seedEnv(fn, selfClass))
	return fa.issues
}

// funcAnalysis owns the per-function state: the path interner, the current
// issue list, and the algebra passes. It is created fresh per function and
// discarded afterwards, so nothing here needs synchronization.
type funcAnalysis struct {
	filename   string
	symbols    *symbol.Table
	budget     algebra.Budget
	interner   *algebra.Interner
	extractor  *algebra.Extractor
	saturator  *algebra.Saturator
	reconciler *algebra.Reconciler
	issues     []types.Issue
}

// execBlock runs statements under env, returning the resulting environment
// and whether control definitely left the block (return/break).
func (fa *funcAnalysis) execBlock(stmts []ast.Stmt, env *algebra.TypeEnv) (*algebra.TypeEnv, bool) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.Return, *ast.Break:
			return env, true
		case *ast.Block:
			var term bool
			env, term = fa.execBlock(n.Stmts, env)
			if term {
				return env, true
			}
		case *ast.If:
			var term bool
			env, term = fa.execIf(n, env)
			if term {
				return env, true
			}
		case *ast.Switch:
			env = fa.execSwitch(n, env)
		case *ast.Assign:
			env = fa.execAssign(n, env)
		case *ast.ExprStmt:
			// expressions evaluated for effect carry no narrowing
		}
	}
	return env, false
}

// branchOutcomes runs the full pipeline on one condition: extraction,
// saturation of both polarities, and reconciliation against env.
func (fa *funcAnalysis) branchOutcomes(cond ast.Expr, env *algebra.TypeEnv) (algebra.Outcome, algebra.Outcome) {
	trueF, falseF := fa.extractor.Extract(cond)
	trueOut := fa.reconciler.Reconcile(fa.saturator.Saturate(trueF), env)
	falseOut := fa.reconciler.Reconcile(fa.saturator.Saturate(falseF), env)
	return trueOut, falseOut
}

// reportCondition emits the impossible/redundant diagnostics for one
// condition given both branch outcomes.
func (fa *funcAnalysis) reportCondition(cond ast.Expr, trueOut, falseOut algebra.Outcome) {
	span := cond.Span()
	switch {
	case trueOut.Contradiction:
		fa.issues = append(fa.issues, types.Issue{
			Rule:     RuleImpossibleCondition,
			Category: categoryNarrowing,
			Filename: fa.filename,
			Message:  "condition can never be true given the types in scope",
			Note:     "the guarded branch is unreachable",
			Severity: types.SeverityError,
			Start:    span.Start,
			End:      span.End,
		})
	case falseOut.Contradiction:
		fa.issues = append(fa.issues, types.Issue{
			Rule:     RuleRedundantCondition,
			Category: categoryNarrowing,
			Filename: fa.filename,
			Message:  "condition is always true given the types in scope",
			Severity: types.SeverityWarning,
			Start:    span.Start,
			End:      span.End,
		})
	}
}

func (fa *funcAnalysis) execIf(n *ast.If, env *algebra.TypeEnv) (*algebra.TypeEnv, bool) {
	trueOut, falseOut := fa.branchOutcomes(n.Cond, env)
	fa.reportCondition(n.Cond, trueOut, falseOut)

	thenEnv, thenTerm := fa.execBlock(n.Then.Stmts, trueOut.Env)
	thenDead := thenTerm || trueOut.Contradiction

	var elseEnv *algebra.TypeEnv
	var elseTerm bool
	switch e := n.Else.(type) {
	case nil:
		elseEnv, elseTerm = falseOut.Env, false
	case *ast.Block:
		elseEnv, elseTerm = fa.execBlock(e.Stmts, falseOut.Env)
	case *ast.If:
		elseEnv, elseTerm = fa.execIf(e, falseOut.Env)
	default:
		elseEnv, elseTerm = falseOut.Env, false
	}
	elseDead := elseTerm || falseOut.Contradiction

	switch {
	case thenDead && elseDead:
		return env, true
	case thenDead:
		// only the else path continues: the condition's falsy narrowing
		// persists past the statement
		return elseEnv, false
	case elseDead:
		return thenEnv, false
	default:
		return algebra.Join(fa.budget, env, thenEnv, elseEnv), false
	}
}

// execSwitch narrows the scrutinee per case. Each case condition is the
// identity comparison against its values; earlier cases' failure narrows
// later cases. Case-end environments join, capped by the combination
// thresholds so wide switches generalize instead of enumerating.
func (fa *funcAnalysis) execSwitch(n *ast.Switch, env *algebra.TypeEnv) *algebra.TypeEnv {
	current := env
	var liveEnds []*algebra.TypeEnv
	hasDefault := false

	for _, c := range n.Cases {
		if c.Values == nil {
			hasDefault = true
			endEnv, term := fa.execBlock(stripBreak(c.Body), current)
			if !term {
				liveEnds = append(liveEnds, endEnv)
			}
			continue
		}
		cond := caseCondition(n.Subject, c.Values)
		trueOut, falseOut := fa.branchOutcomes(cond, current)
		fa.reportCondition(cond, trueOut, falseOut)

		if !trueOut.Contradiction {
			endEnv, term := fa.execBlock(stripBreak(c.Body), trueOut.Env)
			if !term {
				liveEnds = append(liveEnds, endEnv)
			}
		}
		current = falseOut.Env
	}

	if !hasDefault {
		liveEnds = append(liveEnds, current)
	}
	if len(liveEnds) == 0 {
		return env
	}
	joined := liveEnds[0]
	for _, e := range liveEnds[1:] {
		joined = algebra.Join(fa.budget, env, joined, e)
	}
	return joined
}

// caseCondition synthesizes `subject === v1 || subject === v2 ...` so case
// narrowing reuses the extractor unchanged.
func caseCondition(subject ast.Expr, values []ast.Expr) ast.Expr {
	cond := ast.Expr(&ast.Binary{
		Op: ast.OpIdentical, Left: subject, Right: values[0], Pos: values[0].Span(),
	})
	for _, v := range values[1:] {
		cond = &ast.Binary{Op: ast.OpOr, Left: cond, Right: &ast.Binary{
			Op: ast.OpIdentical, Left: subject, Right: v, Pos: v.Span(),
		}, Pos: v.Span()}
	}
	return cond
}

// stripBreak drops a trailing `break` so it does not read as an early exit.
func stripBreak(stmts []ast.Stmt) []ast.Stmt {
	if len(stmts) == 0 {
		return stmts
	}
	if _, ok := stmts[len(stmts)-1].(*ast.Break); ok {
		return stmts[:len(stmts)-1]
	}
	return stmts
}

// execAssign rebinds the target path to the assigned value's static type
// and invalidates any narrowing recorded for paths reaching through it.
func (fa *funcAnalysis) execAssign(n *ast.Assign, env *algebra.TypeEnv) *algebra.TypeEnv {
	p, ok := pathOfExpr(n.Target)
	if !ok {
		return env
	}
	id := fa.interner.Intern(p)
	for _, existing := range env.Paths() {
		if existing == id {
			continue
		}
		if fa.interner.PathOf(existing).HasPrefix(p) {
			env = env.Without(existing)
		}
	}
	return env.With(id, staticType(n.Value))
}

// staticType gives the obvious type of simple right-hand sides; anything
// else is mixed.
func staticType(e ast.Expr) typing.Type {
	switch v := e.(type) {
	case *ast.IntLit:
		return typing.NewType(typing.IntLitAtom{Value: v.Value})
	case *ast.FloatLit:
		return typing.Float()
	case *ast.StringLit:
		return typing.NewType(typing.StringLitAtom{Value: v.Value})
	case *ast.BoolLit:
		if v.Value {
			return typing.NewType(typing.TrueAtom{})
		}
		return typing.NewType(typing.FalseAtom{})
	case *ast.NullLit:
		return typing.Null()
	case *ast.ArrayLit:
		return typing.Array()
	default:
		return typing.Mixed()
	}
}

// pathOfExpr mirrors the extractor's path resolution for assignment
// targets.
func pathOfExpr(e ast.Expr) (algebra.Path, bool) {
	switch n := e.(type) {
	case *ast.Variable:
		return algebra.NewPath(n.Name), true
	case *ast.PropertyFetch:
		base, ok := pathOfExpr(n.Target)
		if !ok {
			return algebra.Path{}, false
		}
		segs := append(append([]algebra.Segment{}, base.Segments...),
			algebra.Segment{Kind: algebra.SegProperty, Name: n.Name})
		return algebra.Path{Root: base.Root, Segments: segs}, true
	case *ast.IndexFetch:
		base, ok := pathOfExpr(n.Target)
		if !ok {
			return algebra.Path{}, false
		}
		key := ""
		switch idx := n.Index.(type) {
		case *ast.StringLit:
			key = idx.Value
		case *ast.IntLit:
			key = fmt.Sprintf("%d", idx.Value)
		default:
			return algebra.Path{}, false
		}
		segs := append(append([]algebra.Segment{}, base.Segments...),
			algebra.Segment{Kind: algebra.SegKey, Name: key})
		return algebra.Path{Root: base.Root, Segments: segs}, true
	}
	return algebra.Path{}, false
}

// TypeAfter analyzes fn and returns the type of the named variable in the
// environment at the end of the function body, along with any diagnostics.
func (a *Analyzer) TypeAfter(fn *ast.Function, variable string) (typing.Type, []types.Issue) {
	fa := a.newFuncAnalysis("<memory>")
	endEnv, _ := fa.execBlock(fn.Body.Stmts, fa.seedEnv(fn, ""))
	id := fa.interner.Intern(algebra.NewPath(variable))
	return endEnv.TypeOf(id), fa.issues
}
