package main

import (
	"github.com/cppgraph/indexer/frontend"
	"github.com/cppgraph/indexer/internal/indexerr"
)

// newFrontEnd is the production frontend.Instance factory the pipeline
// pool calls once per worker. No real C++ front-end ships with this
// module ("Out of scope: the C++ front-end itself"); wiring one
// in means implementing this constructor against whatever toolchain
// (libclang, a clang-tool subprocess) the deployment provides. Until
// then a run fails fast with the documented exit code 3 rather than
// silently producing an empty graph.
func newFrontEnd() (frontend.Instance, error) {
	return nil, indexerr.ErrNoFrontEnd
}
