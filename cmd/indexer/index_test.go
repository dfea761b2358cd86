package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cppgraph/indexer/frontend/fixture"
	"github.com/cppgraph/indexer/internal/config"
	"github.com/cppgraph/indexer/internal/cypher"
	"github.com/cppgraph/indexer/internal/extract"
	"github.com/cppgraph/indexer/internal/identity"
	"github.com/cppgraph/indexer/internal/indexerr"
	"github.com/cppgraph/indexer/internal/manifest"
	"github.com/cppgraph/indexer/internal/pipeline"
	"github.com/cppgraph/indexer/store"
)

// buildIndexedStore runs the ClassHierarchy fixture through the extractor
// and writes graph.db under dir, so query/verify/diff-manifest have a
// real database to operate on without a front-end.
func buildIndexedStore(t *testing.T, dir string) {
	t.Helper()
	s, err := store.Open(store.Options{Path: filepath.Join(dir, "graph.db")})
	require.NoError(t, err)

	ids := identity.New(0)
	batch, err := s.BeginBatch()
	require.NoError(t, err)
	c := extract.NewContext("animal.cpp", ids, batch)
	tu := fixture.ClassHierarchy()
	rootID, err := extract.AST(c, tu.Root, 0, 0, false)
	require.NoError(t, err)
	require.NoError(t, extract.Preprocessor(c, tu.Preprocessor, rootID))
	require.NoError(t, batch.Commit())
	require.NoError(t, s.Close())
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestRunQueryWithOverridesOfPreset(t *testing.T) {
	dir := t.TempDir()
	buildIndexedStore(t, dir)

	text, ok := cypher.ResolvePreset("overrides-of")
	require.True(t, ok)

	out := captureStdout(t, func() {
		require.NoError(t, runQuery(dir, text, false))
	})
	require.Contains(t, out, "Dog::speak")
	require.Contains(t, out, "Animal::speak")
}

func TestRunQueryJSONOutput(t *testing.T) {
	dir := t.TempDir()
	buildIndexedStore(t, dir)

	text, ok := cypher.ResolvePreset("overrides-of")
	require.True(t, ok)

	out := captureStdout(t, func() {
		require.NoError(t, runQuery(dir, text, true))
	})
	require.Contains(t, out, "\"derived\"")
}

func TestRunQueryMissingDatabase(t *testing.T) {
	err := runQuery(t.TempDir(), "MATCH (a:Declaration) RETURN a.qualified_name", false)
	require.Error(t, err)
}

func TestRunVerifyCleanDatabaseSucceeds(t *testing.T) {
	dir := t.TempDir()
	buildIndexedStore(t, dir)

	out := captureStdout(t, func() {
		require.NoError(t, runVerify(dir))
	})
	require.Contains(t, out, "I1")
}

func TestRunDiffManifestIdenticalFilesPrintsNoDiff(t *testing.T) {
	dir := t.TempDir()
	m := manifest.Build("/src", "2026-01-01T00:00:00Z", nil, []manifest.Finding{{Invariant: "I1", Count: 0, Fatal: true}})
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, m.Write(path))

	out := captureStdout(t, func() {
		require.NoError(t, runDiffManifest(path, path))
	})
	require.Contains(t, out, "identical")
}

func TestRunDiffManifestShowsChange(t *testing.T) {
	dir := t.TempDir()
	before := manifest.Build("/src", "2026-01-01T00:00:00Z", nil, []manifest.Finding{{Invariant: "I4", Count: 0, Fatal: true}})
	after := manifest.Build("/src", "2026-01-02T00:00:00Z", nil, []manifest.Finding{{Invariant: "I4", Count: 3, Fatal: true}})
	beforePath := filepath.Join(dir, "before.json")
	afterPath := filepath.Join(dir, "after.json")
	require.NoError(t, before.Write(beforePath))
	require.NoError(t, after.Write(afterPath))

	out := captureStdout(t, func() {
		require.NoError(t, runDiffManifest(beforePath, afterPath))
	})
	require.Contains(t, out, "+I4: fatal=true count=3")
}

func TestRunIndexFailsWithExitCode3WhenNoFrontEnd(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "compile_commands.json")
	require.NoError(t, os.WriteFile(dbPath, []byte(`[{"directory":".","file":"a.cpp","command":"clang++ a.cpp"}]`), 0o644))

	cfg := &config.Config{
		CompileDB: dbPath,
		OutputDB:  filepath.Join(dir, "out"),
		Threads:   1,
		TUTimeout: pipeline.DefaultTUTimeout,
	}
	err := runIndex(context.Background(), cfg)
	require.Error(t, err)
	require.Equal(t, 3, indexerr.ExitCode(err))
}
