// Package algebra implements the conditional-assertion algebra behind
// type narrowing.
//
// A boolean condition is translated into a Formula in conjunctive normal
// form: a set of Clauses (AND), each a set of Literals (OR), each literal a
// possibly negated Assertion about a ReferencePath. The extractor builds
// formulas for the truthy and falsy evaluation of an expression with
// short-circuit-correct semantics; the negator produces De Morgan duals for
// else branches; the saturator simplifies formulas by unit propagation,
// absorption, and bounded resolution; the reconciler applies the surviving
// unit clauses to a type environment, producing narrowed types.
//
// Every pass is bounded by the thresholds in Budget. Exhausting a threshold
// never fails an analysis: the affected portion degrades to "no constraint",
// trading precision for a guaranteed, quick termination. The engine prefers
// under-narrowing to unsound over-narrowing in every degradation path.
package algebra
