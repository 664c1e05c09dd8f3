package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phlin-dev/phlin/internal/ast"
	tt "github.com/phlin-dev/phlin/internal/types"
)

func commentAt(line int, text string) *ast.Comment {
	return &ast.Comment{
		Text: text,
		Pos:  tt.Span{Start: tt.Position{Line: line}},
	}
}

func TestParseSuppressionsNamedRules(t *testing.T) {
	t.Parallel()
	s := ParseSuppressions(&ast.File{Comments: []*ast.Comment{
		commentAt(3, "// @phlin-suppress impossible-condition"),
	}})

	// the pragma covers its own line and the one below
	assert.True(t, s.Suppressed("impossible-condition", 3))
	assert.True(t, s.Suppressed("impossible-condition", 4))
	assert.False(t, s.Suppressed("impossible-condition", 5))
	assert.False(t, s.Suppressed("redundant-condition", 4))
}

func TestParseSuppressionsRuleList(t *testing.T) {
	t.Parallel()
	s := ParseSuppressions(&ast.File{Comments: []*ast.Comment{
		commentAt(2, "// @phlin-suppress impossible-condition, redundant-condition"),
	}})

	assert.True(t, s.Suppressed("impossible-condition", 2))
	assert.True(t, s.Suppressed("redundant-condition", 3))
	assert.False(t, s.Suppressed("other-rule", 3))
}

func TestParseSuppressionsBareMarkerSilencesEverything(t *testing.T) {
	t.Parallel()
	s := ParseSuppressions(&ast.File{Comments: []*ast.Comment{
		commentAt(7, "/* @phlin-suppress */"),
	}})

	assert.True(t, s.Suppressed("impossible-condition", 7))
	assert.True(t, s.Suppressed("anything-at-all", 8))
	assert.False(t, s.Suppressed("anything-at-all", 9))
}

func TestParseSuppressionsMergeKeepsSuppressAll(t *testing.T) {
	t.Parallel()
	s := ParseSuppressions(&ast.File{Comments: []*ast.Comment{
		commentAt(4, "// @phlin-suppress"),
		commentAt(5, "// @phlin-suppress redundant-condition"),
	}})

	// line 5 carries both the bare marker (from line 4's spillover) and a
	// named pragma; the bare marker wins
	assert.True(t, s.Suppressed("impossible-condition", 5))
	assert.True(t, s.Suppressed("redundant-condition", 6))
	assert.False(t, s.Suppressed("impossible-condition", 6))
}

func TestParseSuppressionsIgnoresUnrelatedComments(t *testing.T) {
	t.Parallel()
	s := ParseSuppressions(&ast.File{Comments: []*ast.Comment{
		commentAt(1, "// plain note"),
		commentAt(2, "/* block */"),
	}})

	assert.False(t, s.Suppressed("impossible-condition", 1))
	assert.False(t, s.Suppressed("impossible-condition", 2))
}
