package formatter

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/phlin-dev/phlin/internal"
	tt "github.com/phlin-dev/phlin/internal/types"
)

func TestGenerateFormattedIssue(t *testing.T) {
	color.NoColor = true

	snippet := &internal.SourceCode{Lines: []string{
		"function f($x) {",
		"    if (is_int($x) && is_string($x)) {",
		"        return $x;",
		"    }",
		"}",
	}}

	issue := tt.Issue{
		Rule:     ImpossibleCondition,
		Filename: "sample.php",
		Severity: tt.SeverityError,
		Message:  "condition is always false",
		Note:     "$x cannot be int and string at the same time",
		Start:    tt.Position{Line: 2, Column: 9},
		End:      tt.Position{Line: 2, Column: 38},
	}

	output := GenerateFormattedIssue([]tt.Issue{issue}, snippet)

	assert.Contains(t, output, "error: impossible-condition")
	assert.Contains(t, output, "sample.php:2:9")
	assert.Contains(t, output, "if (is_int($x) && is_string($x)) {")
	assert.Contains(t, output, "condition is always false")
	assert.Contains(t, output, "the then-branch can never execute")
	assert.Contains(t, output, "Note: $x cannot be int and string at the same time")
}

func TestGenerateFormattedIssueRedundant(t *testing.T) {
	color.NoColor = true

	snippet := &internal.SourceCode{Lines: []string{
		"function g(int $n) {",
		"    if (is_int($n)) {",
		"        return $n;",
		"    }",
		"}",
	}}

	issue := tt.Issue{
		Rule:     RedundantCondition,
		Filename: "sample.php",
		Severity: tt.SeverityWarning,
		Message:  "condition is always true",
		Start:    tt.Position{Line: 2, Column: 9},
		End:      tt.Position{Line: 2, Column: 19},
	}

	output := GenerateFormattedIssue([]tt.Issue{issue}, snippet)

	assert.Contains(t, output, "warning: redundant-condition")
	assert.Contains(t, output, "the condition always holds")
}

func TestGenerateFormattedIssueOutOfRange(t *testing.T) {
	color.NoColor = true

	snippet := &internal.SourceCode{Lines: []string{"<?php"}}
	issue := tt.Issue{
		Rule:     "some-other-rule",
		Filename: "sample.php",
		Severity: tt.SeverityInfo,
		Message:  "message survives a bad span",
		Start:    tt.Position{Line: 40, Column: 1},
		End:      tt.Position{Line: 42, Column: 5},
	}

	output := GenerateFormattedIssue([]tt.Issue{issue}, snippet)
	assert.Contains(t, output, "message survives a bad span")
}

func TestFindCommonIndent(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected string
	}{
		{
			name:     "tabs",
			lines:    []string{"\tif ($a) {", "\t\treturn 1;", "\t}"},
			expected: "\t",
		},
		{
			name:     "spaces",
			lines:    []string{"    $a = 1;", "    $b = 2;"},
			expected: "    ",
		},
		{
			name:     "mixed depth",
			lines:    []string{"  $a = 1;", "    $b = 2;"},
			expected: "  ",
		},
		{
			name:     "no indent",
			lines:    []string{"$a = 1;", "  $b = 2;"},
			expected: "",
		},
		{
			name:     "empty lines ignored",
			lines:    []string{"", "  $a = 1;"},
			expected: "  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findCommonIndent(tt.lines))
		})
	}
}

func TestCalculateVisualColumn(t *testing.T) {
	assert.Equal(t, 0, calculateVisualColumn("abc", 1))
	assert.Equal(t, 2, calculateVisualColumn("abc", 3))
	assert.Equal(t, tabWidth, calculateVisualColumn("\tx", 2))
	assert.Equal(t, 0, calculateVisualColumn("abc", -1))
}

func TestHeaderSeverityPrefix(t *testing.T) {
	color.NoColor = true

	cases := []struct {
		severity tt.Severity
		want     string
	}{
		{tt.SeverityError, "error: impossible-condition"},
		{tt.SeverityWarning, "warning: impossible-condition"},
		{tt.SeverityInfo, "info: impossible-condition"},
	}
	for _, tc := range cases {
		t.Run(tc.severity.String(), func(t *testing.T) {
			got := header(ImpossibleCondition, tc.severity.String(), 2, "sample.php", 2, 9)
			assert.Contains(t, got, tc.want)
		})
	}
}
