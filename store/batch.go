package store

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppgraph/indexer/internal/indexerr"
)

// DeferredEdge queues an edge whose target is not yet known to exist in the
// database (e.g. a base class declared in a TU not processed yet). The
// Stitcher resolves these after all TU batches have committed.
type DeferredEdge struct {
	Kind        string
	FromID      uint64
	TargetKey   string
	Properties  map[string]any
	SourceTU    string
}

// Batch accumulates one TU's worth of rows and commits them atomically
// ("a Batch.commit() is atomic with respect to readers"). A
// Batch is owned by exactly one TU pipeline worker and must not be shared.
type Batch struct {
	tx       *gorm.DB
	open     bool
	deferred []DeferredEdge
}

// BeginBatch opens a new transactional batch scope on the store.
func (s *Store) BeginBatch() (*Batch, error) {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, &indexerr.StoreError{Transient: true, Err: tx.Error}
	}
	return &Batch{tx: tx, open: true}, nil
}

// Append inserts one row (any node or edge model) into the batch. Rows
// become visible to readers only once Commit succeeds.
func (b *Batch) Append(row any) error {
	if !b.open {
		return indexerr.ErrBatchNotOpen
	}
	return withLockRetry(func() error {
		return b.tx.Create(row).Error
	})
}

// AppendDedup inserts one row but silently ignores a conflict on the row's
// primary key instead of failing the batch. Used for AST-identity-keyed
// rows (ASTNode, Declaration, Statement, Expression, ParentOf) whose NodeId
// can legitimately be re-interned within the same run: a compilation
// database listing the same translation unit twice, or a re-parsed header,
// both yield the same (tu, pointer) pair and thus the same id on the
// second pass. The second writer loses the race, which is fine since the
// first writer's row already holds the authoritative data.
func (b *Batch) AppendDedup(row any) error {
	if !b.open {
		return indexerr.ErrBatchNotOpen
	}
	return withLockRetry(func() error {
		return b.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
	})
}

// AppendAll inserts a homogeneous slice of rows in one statement.
func (b *Batch) AppendAll(rows any) error {
	if !b.open {
		return indexerr.ErrBatchNotOpen
	}
	return withLockRetry(func() error {
		return b.tx.Create(rows).Error
	})
}

// DeferEdge queues an edge whose target cannot yet be resolved to a NodeId
// within this TU. It is not written to the database; the caller must retain
// the Batch's DeferredEdges() after Commit so the Stitcher can resolve them.
func (b *Batch) DeferEdge(kind, sourceTU string, fromID uint64, targetKey string, props map[string]any) {
	b.deferred = append(b.deferred, DeferredEdge{
		Kind:       kind,
		FromID:     fromID,
		TargetKey:  targetKey,
		Properties: props,
		SourceTU:   sourceTU,
	})
}

// DeferredEdges returns the edges queued via DeferEdge during this batch's
// lifetime. Valid to call after Commit or Rollback.
func (b *Batch) DeferredEdges() []DeferredEdge {
	return b.deferred
}

// Commit finalizes the batch. On failure the whole batch is rolled back and
// a StoreError is returned.
func (b *Batch) Commit() error {
	if !b.open {
		return indexerr.ErrBatchNotOpen
	}
	b.open = false
	if err := b.tx.Commit().Error; err != nil {
		b.tx.Rollback()
		return &indexerr.StoreError{Transient: isLockedErr(err), Err: fmt.Errorf("batch commit: %w", err)}
	}
	return nil
}

// Rollback discards every row appended since BeginBatch.
func (b *Batch) Rollback() error {
	if !b.open {
		return nil
	}
	b.open = false
	return b.tx.Rollback().Error
}
