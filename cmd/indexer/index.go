package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cppgraph/indexer/internal/compiledb"
	"github.com/cppgraph/indexer/internal/config"
	"github.com/cppgraph/indexer/internal/identity"
	"github.com/cppgraph/indexer/internal/indexerr"
	"github.com/cppgraph/indexer/internal/logx"
	"github.com/cppgraph/indexer/internal/manifest"
	"github.com/cppgraph/indexer/internal/pipeline"
	"github.com/cppgraph/indexer/internal/stitch"
	"github.com/cppgraph/indexer/store"
)

// runIndex runs one end-to-end pass: load the compilation database, run
// the TU pipeline, stitch deferred edges, verify invariants, and write
// graph.db + manifest.json under cfg.OutputDB.
func runIndex(ctx context.Context, cfg *config.Config) error {
	runID := uuid.NewString()
	log := logx.WithField("run_id", runID)

	entries, err := compiledb.Load(cfg.CompileDB)
	if err != nil {
		return err
	}
	entries = compiledb.Apply(entries, compiledb.Filters{Include: cfg.Include, Exclude: cfg.Exclude})

	// Probe the front-end once up front: a missing toolchain is a startup
	// precondition (exit code 3), not a per-TU failure worth creating an
	// output database to discover.
	probe, err := newFrontEnd()
	if err != nil {
		return err
	}
	probe.Close()

	dbPath := filepath.Join(cfg.OutputDB, "graph.db")
	s, err := store.Open(store.Options{
		Path:       dbPath,
		Overwrite:  cfg.Overwrite,
		CGO:        cfg.CGOSQLite,
		ReplicaDSN: cfg.ReplicaDSN,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	ids := identity.New(0)
	pool := &pipeline.Pool{
		Workers:     cfg.Threads,
		TUTimeout:   cfg.TUTimeout,
		FailFast:    cfg.FailFast,
		NewFrontEnd: newFrontEnd,
		Identity:    ids,
		Store:       s,
	}

	report, runErr := pool.Run(ctx, entries)
	if runErr != nil && !errors.Is(runErr, indexerr.ErrTUFailures()) {
		return runErr
	}

	var deferred []store.DeferredEdge
	tuResults := make([]manifest.TUEntry, 0, len(report.Results))
	for _, res := range report.Results {
		entry := manifest.TUEntry{TU: res.TU}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		tuResults = append(tuResults, entry)
		deferred = append(deferred, res.DeferredEdges...)
	}

	resolved, warnings, err := stitch.Resolve(s.DB, ids, deferred)
	if err != nil {
		return fmt.Errorf("stitching deferred edges: %w", err)
	}
	for _, w := range warnings {
		log.WithError(w).Warn("stitch: deferred edge unresolved")
	}

	folded, err := stitch.Fold(s.DB)
	if err != nil {
		return fmt.Errorf("folding duplicate declarations: %w", err)
	}

	invReport, err := stitch.VerifyInvariants(s.DB)
	if err != nil {
		return fmt.Errorf("verifying invariants: %w", err)
	}

	findings := make([]manifest.Finding, 0, len(invReport.Findings))
	fatal := 0
	for _, f := range invReport.Findings {
		findings = append(findings, manifest.Finding{
			Invariant: f.Invariant, Fatal: f.Fatal, Count: f.Count, Detail: f.Detail,
		})
		if f.Fatal && f.Count > 0 {
			fatal++
		}
	}

	createdAt := cfg.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	m := manifest.Build(sourceRootOf(entries), createdAt, tuResults, findings)
	if err := m.Write(filepath.Join(cfg.OutputDB, "manifest.json")); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	log.WithField("deferred_edges_resolved", resolved).WithField("declarations_folded", folded).Infof("%d TUs indexed, %d failed, %d warnings", report.OK, report.Failed, len(warnings))
	fmt.Printf("%d TUs indexed, %d failed, %d warnings\n", report.OK, report.Failed, len(warnings))

	if fatal > 0 {
		return &indexerr.InvariantViolation{Invariant: "multiple", Fatal: true, Detail: fmt.Sprintf("%d fatal invariant finding(s)", fatal)}
	}
	if report.Failed > 0 {
		return indexerr.ErrTUFailures()
	}
	return nil
}

func sourceRootOf(entries []compiledb.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	dirs := make([]string, len(entries))
	for i, e := range entries {
		dirs[i] = filepath.Dir(e.File)
	}
	sort.Strings(dirs)
	return dirs[0]
}
