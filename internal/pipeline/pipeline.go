// Package pipeline runs every translation unit in a compilation database
// through the extractors and into the store, using a fixed-size worker
// pool: a channel of compiledb.Entry feeds workers, a channel of Result
// drains outcomes, and every worker releases its front-end instance and
// batch on every exit path via defer.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/cppgraph/indexer/frontend"
	"github.com/cppgraph/indexer/internal/compiledb"
	"github.com/cppgraph/indexer/internal/extract"
	"github.com/cppgraph/indexer/internal/identity"
	"github.com/cppgraph/indexer/internal/indexerr"
	"github.com/cppgraph/indexer/internal/logx"
	"github.com/cppgraph/indexer/store"
)

// DefaultTUTimeout is the per-TU wall-clock budget when Pool.TUTimeout is
// zero (--tu-timeout).
const DefaultTUTimeout = 5 * time.Minute

// Result is one TU's outcome, published on the pipeline's result channel and
// folded into the final manifest by the caller (package manifest).
type Result struct {
	TU            string
	Err           error
	DeferredEdges []store.DeferredEdge
	Duration      time.Duration
}

// Pool runs TUs concurrently against a shared Identity Service and Store.
// NewFrontEnd constructs one frontend.Instance per worker goroutine, each
// worker owning exactly one; tests inject a fixture-backed Instance since
// no real C++ front-end exists in this module.
type Pool struct {
	Workers     int
	TUTimeout   time.Duration
	FailFast    bool
	NewFrontEnd func() (frontend.Instance, error)
	Identity    *identity.Service
	Store       *store.Store
}

// Report summarizes a Run: every per-TU Result plus aggregate counts for the
// CLI's final summary line ("<ok> TUs indexed, <failed> failed").
type Report struct {
	Results []Result
	OK      int
	Failed  int
}

// Run feeds entries to Pool.Workers goroutines and collects their results.
// It returns once every entry has been processed or ctx is cancelled.
// Individual TU failures are recorded in Report.Results; when FailFast is
// set the first one aborts the run early and Run returns
// indexerr.ErrTUFailures(). Otherwise the error is nil.
func (p *Pool) Run(ctx context.Context, entries []compiledb.Entry) (*Report, error) {
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU() - 1
		if p.Workers < 1 {
			p.Workers = 1
		}
	}
	timeout := p.TUTimeout
	if timeout <= 0 {
		timeout = DefaultTUTimeout
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan compiledb.Entry, len(entries))
	results := make(chan Result, len(entries))

	var wg sync.WaitGroup
	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go p.worker(runCtx, timeout, jobs, results, &wg)
	}

	for _, e := range entries {
		jobs <- e
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	report := &Report{}
	for res := range results {
		report.Results = append(report.Results, res)
		if res.Err != nil {
			report.Failed++
			logx.WithFields(logx.Fields{"tu": res.TU}).WithError(res.Err).Warn("pipeline: TU failed")
			if p.FailFast {
				cancel()
			}
		} else {
			report.OK++
		}
	}

	if p.FailFast && report.Failed > 0 {
		return report, indexerr.ErrTUFailures()
	}
	return report, nil
}

func (p *Pool) worker(ctx context.Context, timeout time.Duration, jobs <-chan compiledb.Entry, results chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()

	fe, err := p.NewFrontEnd()
	if err != nil {
		// No instance to run jobs with; report every remaining job as
		// failed rather than silently dropping it from the manifest.
		for entry := range jobs {
			results <- Result{TU: entry.File, Err: err}
		}
		return
	}
	defer fe.Close()

	for entry := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		results <- p.processOne(ctx, fe, timeout, entry)
	}
}

func (p *Pool) processOne(ctx context.Context, fe frontend.Instance, timeout time.Duration, entry compiledb.Entry) Result {
	start := time.Now()
	tuCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tu, err := fe.Parse(tuCtx, entry.File, entry.Arguments)
	if err != nil {
		if tuCtx.Err() == context.DeadlineExceeded {
			return Result{TU: entry.File, Err: &indexerr.TimeoutError{TU: entry.File, Budget: timeout}, Duration: time.Since(start)}
		}
		return Result{TU: entry.File, Err: &indexerr.FrontEndError{TU: entry.File, Diagnostics: []string{err.Error()}}, Duration: time.Since(start)}
	}

	batch, err := p.Store.BeginBatch()
	if err != nil {
		return Result{TU: entry.File, Err: err, Duration: time.Since(start)}
	}

	deferred, extractErr := extractOne(p.Identity, batch, tu)
	if extractErr != nil {
		batch.Rollback()
		return Result{TU: entry.File, Err: fmt.Errorf("extract %s: %w", entry.File, extractErr), Duration: time.Since(start)}
	}

	if err := batch.Commit(); err != nil {
		// Retry once on a transient store error (lock contention).
		if se, ok := err.(*indexerr.StoreError); ok && se.Transient {
			batch2, err2 := p.Store.BeginBatch()
			if err2 != nil {
				return Result{TU: entry.File, Err: err2, Duration: time.Since(start)}
			}
			deferred, extractErr = extractOne(p.Identity, batch2, tu)
			if extractErr != nil {
				batch2.Rollback()
				return Result{TU: entry.File, Err: extractErr, Duration: time.Since(start)}
			}
			if err2 := batch2.Commit(); err2 != nil {
				return Result{TU: entry.File, Err: err2, Duration: time.Since(start)}
			}
		} else {
			return Result{TU: entry.File, Err: err, Duration: time.Since(start)}
		}
	}

	return Result{TU: entry.File, DeferredEdges: deferred, Duration: time.Since(start)}
}

// extractOne runs the fixed extraction order:
// Preprocessor (needs only the TU root's id, interned directly since the
// full AST walk hasn't happened yet) -> AST, which recursively dispatches
// into Declaration/Statement/Expression (and, via those, Type) -> CFG,
// which depends on the Statement ids AST just assigned.
func extractOne(ids *identity.Service, batch *store.Batch, tu *frontend.TranslationUnit) ([]store.DeferredEdge, error) {
	c := extract.NewContext(tu.Path, ids, batch)

	rootID := ids.InternAST(tu.Path, tu.Root.Pointer)
	if err := extract.Preprocessor(c, tu.Preprocessor, rootID); err != nil {
		return nil, err
	}
	if _, err := extract.AST(c, tu.Root, 0, 0, false); err != nil {
		return nil, err
	}
	if err := extract.CFG(c, tu.Functions); err != nil {
		return nil, err
	}
	return batch.DeferredEdges(), nil
}
