package algebra

import (
	"sort"

	"github.com/benbjohnson/immutable"
	"github.com/phlin-dev/phlin/internal/typing"
)

type pathHasher struct{}

func (pathHasher) Hash(key PathID) uint32 {
	return uint32(key) * 2654435761
}

func (pathHasher) Equal(a, b PathID) bool { return a == b }

// TypeEnv maps interned reference paths to their current inferred types.
// It is a persistent structure: With and Refine return new environments
// sharing storage with the old one, so a branch can never leak narrowing
// into its sibling.
type TypeEnv struct {
	m *immutable.Map[PathID, typing.Type]
}

// NewTypeEnv creates an empty environment.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{m: immutable.NewMap[PathID, typing.Type](pathHasher{})}
}

// Get returns the type bound to id, if any.
func (e *TypeEnv) Get(id PathID) (typing.Type, bool) {
	return e.m.Get(id)
}

// TypeOf returns the bound type, or mixed when the path is unknown.
func (e *TypeEnv) TypeOf(id PathID) typing.Type {
	if t, ok := e.m.Get(id); ok {
		return t
	}
	return typing.Mixed()
}

// With returns a new environment with id bound to t.
func (e *TypeEnv) With(id PathID, t typing.Type) *TypeEnv {
	return &TypeEnv{m: e.m.Set(id, t)}
}

// Without returns a new environment with id unbound.
func (e *TypeEnv) Without(id PathID) *TypeEnv {
	return &TypeEnv{m: e.m.Delete(id)}
}

// Len returns the number of bound paths.
func (e *TypeEnv) Len() int { return e.m.Len() }

// Paths returns the bound paths in ascending handle order, which keeps
// every traversal of the environment deterministic.
func (e *TypeEnv) Paths() []PathID {
	out := make([]PathID, 0, e.m.Len())
	itr := e.m.Iterator()
	for !itr.Done() {
		k, _, _ := itr.Next()
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Join merges two sibling branch environments derived from base. Each
// path's type is the union of the branch types (never the intersection):
// narrowing achieved in only one branch does not survive the join. Literal
// unions grown by the join are capped by the combination thresholds.
func Join(budget Budget, base, a, b *TypeEnv) *TypeEnv {
	out := base
	seen := make(map[PathID]struct{})
	for _, envs := range [][2]*TypeEnv{{a, b}, {b, a}} {
		for _, id := range envs[0].Paths() {
			if _, done := seen[id]; done {
				continue
			}
			seen[id] = struct{}{}
			va := branchType(a, base, id)
			vb := branchType(b, base, id)
			joined := typing.CapLiterals(
				typing.Union(va, vb),
				budget.StringCombination,
				budget.IntegerCombination,
				budget.ArrayCombination,
			)
			out = out.With(id, joined)
		}
	}
	return out
}

// branchType reads a path's type in a branch, falling back to the base
// environment for paths the branch never touched.
func branchType(branch, base *TypeEnv, id PathID) typing.Type {
	if t, ok := branch.Get(id); ok {
		return t
	}
	return base.TypeOf(id)
}
