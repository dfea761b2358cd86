package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cppgraph/indexer/internal/manifest"
)

func TestBuildSortsForDeterminism(t *testing.T) {
	results := []manifest.TUEntry{{TU: "z.cpp"}, {TU: "a.cpp", Error: "boom"}}
	findings := []manifest.Finding{{Invariant: "I7", Fatal: true}, {Invariant: "I2"}}

	m := manifest.Build("/src", "2026-01-01T00:00:00Z", results, findings)
	require.Equal(t, "a.cpp", m.TUResults[0].TU)
	require.Equal(t, "z.cpp", m.TUResults[1].TU)
	require.Equal(t, "I2", m.InvariantReport[0].Invariant)
	require.Equal(t, "I7", m.InvariantReport[1].Invariant)
	require.Equal(t, 2, m.TUCount)
}

func TestWriteReadRoundTripIsByteIdenticalAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	build := func() *manifest.Manifest {
		return manifest.Build("/src", "2026-01-01T00:00:00Z",
			[]manifest.TUEntry{{TU: "b.cpp"}, {TU: "a.cpp"}},
			[]manifest.Finding{{Invariant: "I4", Count: 0, Fatal: true}})
	}

	path1 := filepath.Join(dir, "one.json")
	path2 := filepath.Join(dir, "two.json")
	require.NoError(t, build().Write(path1))
	require.NoError(t, build().Write(path2))

	data1, err := os.ReadFile(path1)
	require.NoError(t, err)
	data2, err := os.ReadFile(path2)
	require.NoError(t, err)
	require.Equal(t, data1, data2)

	loaded, err := manifest.Read(path1)
	require.NoError(t, err)
	require.Equal(t, manifest.Version, loaded.Version)
	require.Equal(t, 2, loaded.TUCount)
}
