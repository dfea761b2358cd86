// Package diffreport renders a unified diff between two manifest
// invariant_reports for `indexer diff-manifest`.
package diffreport

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/cppgraph/indexer/internal/manifest"
)

// render formats one report as sorted "invariant: fatal=%v count=%d detail"
// lines, matching the order manifest.Build already sorts findings into.
func render(findings []manifest.Finding) string {
	var sb strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&sb, "%s: fatal=%v count=%d detail=%q\n", f.Invariant, f.Fatal, f.Count, f.Detail)
	}
	return sb.String()
}

// Manifests returns a unified diff of two manifests' invariant_reports.
func Manifests(before, after *manifest.Manifest) (string, error) {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(render(before.InvariantReport)),
		B:        difflib.SplitLines(render(after.InvariantReport)),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(d)
}
