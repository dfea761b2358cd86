package store

import (
	"fmt"

	"github.com/cppgraph/indexer/internal/cypher"
)

// Query parses and evaluates a read-only Cypher-subset query against the
// primary connection.
func (s *Store) Query(cypherText string) (*cypher.ResultSet, error) {
	q, err := cypher.Parse(cypherText)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return cypher.Eval(s.DB, q)
}
