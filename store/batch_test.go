package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cppgraph/indexer/models"
)

func TestBatchAppendAndCommitIsVisibleAfterward(t *testing.T) {
	s, err := Open(Options{Path: filepath.Join(t.TempDir(), "out.db")})
	require.NoError(t, err)
	defer s.Close()

	b, err := s.BeginBatch()
	require.NoError(t, err)

	require.NoError(t, b.Append(&models.ASTNode{NodeID: 1, NodeType: "FunctionDecl", SourceFile: "a.cpp"}))
	require.NoError(t, b.Commit())

	var count int64
	require.NoError(t, s.DB.Model(&models.ASTNode{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestBatchRollbackDiscardsRows(t *testing.T) {
	s, err := Open(Options{Path: filepath.Join(t.TempDir(), "out.db")})
	require.NoError(t, err)
	defer s.Close()

	b, err := s.BeginBatch()
	require.NoError(t, err)
	require.NoError(t, b.Append(&models.ASTNode{NodeID: 1, NodeType: "FunctionDecl", SourceFile: "a.cpp"}))
	require.NoError(t, b.Rollback())

	var count int64
	require.NoError(t, s.DB.Model(&models.ASTNode{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestBatchDeferEdgeQueuesWithoutWriting(t *testing.T) {
	s, err := Open(Options{Path: filepath.Join(t.TempDir(), "out.db")})
	require.NoError(t, err)
	defer s.Close()

	b, err := s.BeginBatch()
	require.NoError(t, err)
	b.DeferEdge("INHERITS_FROM", "a.cpp", 1, "ns::Base", nil)
	require.NoError(t, b.Commit())

	require.Len(t, b.DeferredEdges(), 1)
	require.Equal(t, "ns::Base", b.DeferredEdges()[0].TargetKey)

	var count int64
	require.NoError(t, s.DB.Model(&models.InheritsFrom{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestAppendOnClosedBatchFails(t *testing.T) {
	s, err := Open(Options{Path: filepath.Join(t.TempDir(), "out.db")})
	require.NoError(t, err)
	defer s.Close()

	b, err := s.BeginBatch()
	require.NoError(t, err)
	require.NoError(t, b.Commit())

	err = b.Append(&models.ASTNode{NodeID: 2, NodeType: "FunctionDecl", SourceFile: "a.cpp"})
	require.Error(t, err)
}
