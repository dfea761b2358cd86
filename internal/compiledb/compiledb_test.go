package compiledb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCompileDB(t *testing.T, dir string, body string) string {
	t.Helper()
	path := filepath.Join(dir, "compile_commands.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadResolvesRelativeFileAgainstDirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeCompileDB(t, dir, `[
		{"directory": "`+dir+`", "file": "a.cpp", "arguments": ["clang++", "-c", "a.cpp"]}
	]`)

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, filepath.Join(dir, "a.cpp"), entries[0].File)
	require.Equal(t, []string{"clang++", "-c", "a.cpp"}, entries[0].Arguments)
}

func TestLoadResolvesDotDirectoryAgainstCWD(t *testing.T) {
	dir := t.TempDir()
	path := writeCompileDB(t, dir, `[{"directory": ".", "file": "b.cpp", "command": "clang++ -c b.cpp"}]`)

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cwd, "b.cpp"), entries[0].File)
	require.Equal(t, []string{"clang++", "-c", "b.cpp"}, entries[0].Arguments)
}

func TestApplyFiltersIncludeExclude(t *testing.T) {
	entries := []Entry{
		{File: "/src/core/a.cpp"},
		{File: "/src/vendor/b.cpp"},
		{File: "/src/core/c_test.cpp"},
	}

	got := Apply(entries, Filters{Exclude: []string{"**/vendor/**"}})
	require.Len(t, got, 2)

	got = Apply(entries, Filters{Include: []string{"**/core/**"}})
	require.Len(t, got, 2)

	got = Apply(entries, Filters{Include: []string{"**/core/**"}, Exclude: []string{"**_test.cpp"}})
	require.Len(t, got, 1)
	require.Equal(t, "/src/core/a.cpp", got[0].File)
}
