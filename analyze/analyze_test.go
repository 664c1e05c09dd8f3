package analyze

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
function ok($x) {
    if (is_int($x)) {
        return $x + 1;
    }
    return 0;
}
`

func TestProcessPathFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeSource(t, dir, "check.php", impossibleSource)

	engine, err := New("")
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "impossible-condition", issues[0].Rule)
	assert.Equal(t, path, issues[0].Filename)
}

func TestProcessPathDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSource(t, dir, "bad.php", impossibleSource)
	writeSource(t, dir, "good.php", cleanSource)
	writeSource(t, dir, "ignored.txt", impossibleSource)

	engine, err := New("")
	require.NoError(t, err)

	issues, err := ProcessFiles(context.Background(), nil, engine, []string{dir})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "impossible-condition", issues[0].Rule)
}

func TestProcessPathRespectsIgnoredPaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sub := filepath.Join(dir, "vendor")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeSource(t, sub, "bad.php", impossibleSource)

	engine, err := New("")
	require.NoError(t, err)
	engine.IgnorePath(sub)

	issues, err := ProcessPath(context.Background(), nil, engine, dir)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()
	engine, err := New("")
	require.NoError(t, err)

	issues, err := ProcessSources(context.Background(), nil, engine, [][]byte{
		[]byte(impossibleSource),
		[]byte(cleanSource),
	})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "impossible-condition", issues[0].Rule)
}

func TestProcessPathCrossFileSymbols(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSource(t, dir, "animals.php", `<?php
final class Dog {}
final class Cat {}
`)
	writeSource(t, dir, "use.php", `<?php
function clash($a) {
    if ($a instanceof Dog && $a instanceof Cat) {
        return 1;
    }
    return 0;
}
`)

	engine, err := New("")
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, dir)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "impossible-condition", issues[0].Rule)
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
