// Package manifest reads and writes manifest.json, the per-run summary
// alongside the output database. Encoding is deliberately
// deterministic (P8): every slice is sorted before marshaling and
// CreatedAt is supplied by the caller rather than generated here, so two
// runs over identical inputs with the same injected clock produce
// byte-identical files.
package manifest

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/cppgraph/indexer/internal/atomicfile"
)

// Version is the manifest schema version, bumped whenever a field is added
// or removed.
const Version = "1"

// TUEntry is one translation unit's outcome, as recorded in the manifest
// ("per-TU errors are ... recorded in the manifest").
type TUEntry struct {
	TU    string `json:"tu"`
	Error string `json:"error,omitempty"`
}

// Finding mirrors stitch.Finding without importing package stitch, keeping
// manifest a leaf package callers can read/write without pulling in the
// whole stitcher.
type Finding struct {
	Invariant string `json:"invariant"`
	Fatal     bool   `json:"fatal"`
	Count     int64  `json:"count"`
	Detail    string `json:"detail"`
}

// Manifest is the full contents of manifest.json. There is deliberately no
// run-identifying field here: anything that varies run-to-run over
// identical inputs (a random id, a wall-clock timestamp not supplied by the
// caller) would break P8. Run correlation belongs in logs, not this file.
type Manifest struct {
	Version         string    `json:"version"`
	CreatedAt       string    `json:"created_at"`
	SourceRoot      string    `json:"source_root"`
	TUCount         int       `json:"tu_count"`
	TUResults       []TUEntry `json:"tu_results"`
	InvariantReport []Finding `json:"invariant_report"`
}

// Build assembles a Manifest from run results, sorting every slice so the
// encoded output does not depend on worker-goroutine scheduling order.
// createdAt is supplied by the caller rather than generated here so two
// runs over identical inputs with the same injected clock produce
// byte-identical files.
func Build(sourceRoot, createdAt string, tuResults []TUEntry, findings []Finding) *Manifest {
	results := append([]TUEntry(nil), tuResults...)
	sort.Slice(results, func(i, j int) bool { return results[i].TU < results[j].TU })

	report := append([]Finding(nil), findings...)
	sort.Slice(report, func(i, j int) bool { return report[i].Invariant < report[j].Invariant })

	return &Manifest{
		Version:         Version,
		CreatedAt:       createdAt,
		SourceRoot:      sourceRoot,
		TUCount:         len(tuResults),
		TUResults:       results,
		InvariantReport: report,
	}
}

// Write encodes m as indented, deterministically-ordered JSON to path.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return atomicfile.Write(path, data, 0o644)
}

// Read loads a manifest.json written by a prior run, e.g. for
// `indexer diff-manifest`.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
