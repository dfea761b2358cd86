package extract

import (
	"github.com/cppgraph/indexer/frontend"
	"github.com/cppgraph/indexer/models"
)

// CFG emits CFGBlock rows, CONTAINS_CFG/CFG_EDGE/CFG_CONTAINS_STMT edges
// for every function the front-end built a control-flow graph for (spec
// §4.3.6). Must run after AST, since CFG_CONTAINS_STMT needs the
// Statement NodeIds the AST pass already assigned.
func CFG(c *Context, graphs []*frontend.FunctionCFG) error {
	for _, g := range graphs {
		functionID, ok := c.IDFor(g.FunctionPointer)
		if !ok {
			// The function's own declaration wasn't visited by the AST
			// pass in this TU; nothing to anchor the CFG to.
			continue
		}

		blockIDs := make(map[uintptr]uint64, len(g.Blocks))
		for _, b := range g.Blocks {
			id := c.Identity.Fresh()
			blockIDs[b.Pointer] = id
			row := &models.CFGBlock{
				NodeID:         id,
				FunctionID:     functionID,
				IsEntryBlock:   b.IsEntry,
				IsExitBlock:    b.IsExit,
				TerminatorKind: b.TerminatorKind,
				Reachable:      b.Reachable,
			}
			if err := c.Batch.Append(row); err != nil {
				return err
			}
			if err := c.Batch.Append(&models.ContainsCFG{FromID: functionID, ToID: id}); err != nil {
				return err
			}
		}

		for _, b := range g.Blocks {
			fromID := blockIDs[b.Pointer]
			for i, stmtPtr := range b.Statements {
				stmtID, ok := c.IDFor(stmtPtr)
				if !ok {
					continue
				}
				if err := c.Batch.Append(&models.CFGContainsStmt{FromID: fromID, ToID: stmtID, ChildIndex: i}); err != nil {
					return err
				}
			}
			for _, succ := range b.Successors {
				toID, ok := blockIDs[succ.ToPointer]
				if !ok {
					continue
				}
				if err := c.Batch.Append(&models.CFGEdge{FromID: fromID, ToID: toID, EdgeType: succ.EdgeType}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
