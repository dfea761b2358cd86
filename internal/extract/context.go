// Package extract holds one file per extractor family: AST, Declaration,
// Type, Statement & Expression, Preprocessor, CFG. Each extractor is a
// recursive walker sharing one identity.Service and one store.Batch;
// extractors are purely additive and never mutate front-end state.
package extract

import (
	"github.com/cppgraph/indexer/frontend"
	"github.com/cppgraph/indexer/internal/identity"
	"github.com/cppgraph/indexer/store"
)

// Context carries the per-TU state every extractor needs: which TU this is
// (for AST identity scoping), the shared Identity Service, the Batch rows
// are appended to, and a lookup from front-end pointer to the NodeId
// already assigned this TU (used by the CFG extractor to link back to
// Statement rows emitted during the AST pass).
type Context struct {
	TU       string
	Identity *identity.Service
	Batch    *store.Batch

	ptrToID    map[uintptr]uint64
	expansions map[uintptr]uint64 // enclosing node pointer -> MacroDefinition NodeId
	scopeKinds map[uint64]string  // scope-providing NodeId -> its AST kind, for IN_SCOPE.scope_kind
}

// NewContext creates an extraction context for one TU pipeline run.
func NewContext(tu string, ids *identity.Service, batch *store.Batch) *Context {
	return &Context{
		TU:         tu,
		Identity:   ids,
		Batch:      batch,
		ptrToID:    make(map[uintptr]uint64),
		expansions: make(map[uintptr]uint64),
		scopeKinds: make(map[uint64]string),
	}
}

// IDFor returns the NodeId assigned to a front-end pointer already visited
// by the AST extractor within this TU, and whether it was found.
func (c *Context) IDFor(ptr uintptr) (uint64, bool) {
	id, ok := c.ptrToID[ptr]
	return id, ok
}

func (c *Context) remember(ptr uintptr, id uint64) {
	c.ptrToID[ptr] = id
}

// frontendAttr is a tiny alias so extractor files don't need to import
// frontend.Attr by its generic name directly at every call site.
func frontendAttr[T any](n *frontend.Node, key string) T {
	return frontend.Attr[T](n, key)
}
