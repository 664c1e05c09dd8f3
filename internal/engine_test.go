package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/phlin-dev/phlin/internal/types"
)

const impossibleSource = `<?php
function check($x) {
    if (is_int($x) && is_string($x)) {
        return 1;
    }
    return 0;
}
`

const cleanSource = `<?php
function check(?array $x) {
    if (!is_array($x)) {
        return null;
    }
    return $x;
}
`

func TestRunSourceReportsIssues(t *testing.T) {
	t.Parallel()
	engine := NewEngine(DefaultConfig())

	issues, err := engine.RunSource([]byte(impossibleSource))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "impossible-condition", issues[0].Rule)
	assert.Equal(t, tt.SeverityError, issues[0].Severity)
	assert.Equal(t, 3, issues[0].Start.Line)
}

func TestRunSourceCleanFile(t *testing.T) {
	t.Parallel()
	engine := NewEngine(DefaultConfig())

	issues, err := engine.RunSource([]byte(cleanSource))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestRunSourceParseError(t *testing.T) {
	t.Parallel()
	engine := NewEngine(DefaultConfig())

	_, err := engine.RunSource([]byte("<?php\nfunction broken( {\n"))
	assert.Error(t, err)
}

func TestConfiguredSeverityOverridesTheDefault(t *testing.T) {
	t.Parallel()
	config := DefaultConfig()
	config.Rules["impossible-condition"] = tt.ConfigRule{Severity: tt.SeverityInfo}
	engine := NewEngine(config)

	issues, err := engine.RunSource([]byte(impossibleSource))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, tt.SeverityInfo, issues[0].Severity)
}

func TestSeverityOffDropsTheIssue(t *testing.T) {
	t.Parallel()
	config := DefaultConfig()
	config.Rules["impossible-condition"] = tt.ConfigRule{Severity: tt.SeverityOff}
	engine := NewEngine(config)

	issues, err := engine.RunSource([]byte(impossibleSource))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestIgnoreRule(t *testing.T) {
	t.Parallel()
	engine := NewEngine(DefaultConfig())
	engine.IgnoreRule("impossible-condition")

	issues, err := engine.RunSource([]byte(impossibleSource))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestSuppressionPragmaSilencesTheNextLine(t *testing.T) {
	t.Parallel()
	engine := NewEngine(DefaultConfig())

	source := `<?php
function check($x) {
    // @phlin-suppress impossible-condition
    if (is_int($x) && is_string($x)) {
        return 1;
    }
    return 0;
}
`
	issues, err := engine.RunSource([]byte(source))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestSuppressionPragmaOnlySilencesNamedRules(t *testing.T) {
	t.Parallel()
	engine := NewEngine(DefaultConfig())

	source := `<?php
function check($x) {
    // @phlin-suppress redundant-condition
    if (is_int($x) && is_string($x)) {
        return 1;
    }
    return 0;
}
`
	issues, err := engine.RunSource([]byte(source))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "impossible-condition", issues[0].Rule)
}

func TestIgnoresPath(t *testing.T) {
	t.Parallel()
	engine := NewEngine(DefaultConfig())
	engine.IgnorePath("vendor/")

	assert.True(t, engine.IgnoresPath("vendor/lib/a.php"))
	assert.False(t, engine.IgnoresPath("src/a.php"))
}

func TestRunReadsTheFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "check.php")
	require.NoError(t, os.WriteFile(path, []byte(impossibleSource), 0o644))

	engine := NewEngine(DefaultConfig())
	issues, err := engine.Run(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, path, issues[0].Filename)
}

func TestPreloadSharesSymbolsAcrossFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	defs := filepath.Join(dir, "defs.php")
	uses := filepath.Join(dir, "uses.php")

	require.NoError(t, os.WriteFile(defs, []byte(`<?php
final class Dog {
    public function bark() {
        return 1;
    }
}
final class Cat {
    public function meow() {
        return 1;
    }
}
`), 0o644))
	require.NoError(t, os.WriteFile(uses, []byte(`<?php
function cross($a) {
    if ($a instanceof Dog && $a instanceof Cat) {
        return 1;
    }
    return 0;
}
`), 0o644))

	engine := NewEngine(DefaultConfig())
	engine.Preload([]string{defs, uses})

	issues, err := engine.Run(uses)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "impossible-condition", issues[0].Rule)
}
