package extract_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cppgraph/indexer/frontend"
	"github.com/cppgraph/indexer/frontend/fixture"
	"github.com/cppgraph/indexer/internal/extract"
	"github.com/cppgraph/indexer/internal/identity"
	"github.com/cppgraph/indexer/models"
	"github.com/cppgraph/indexer/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.Options{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// runTU drives the fixed extraction order: Preprocessor (using the TU
// root's id, interned directly since the full AST walk hasn't run yet) ->
// AST -> CFG, matching package pipeline's extractOne exactly.
// Preprocessor must run before AST so AST's per-node MACRO_EXPANSION lookup
// finds the expansions Preprocessor registered.
func runTU(t *testing.T, s *store.Store, ids *identity.Service, tuName string, tu *frontend.TranslationUnit) uint64 {
	t.Helper()
	batch, err := s.BeginBatch()
	require.NoError(t, err)

	c := extract.NewContext(tuName, ids, batch)
	rootID := ids.InternAST(tuName, tu.Root.Pointer)
	require.NoError(t, extract.Preprocessor(c, tu.Preprocessor, rootID))
	_, err = extract.AST(c, tu.Root, 0, 0, false)
	require.NoError(t, err)
	require.NoError(t, extract.CFG(c, tu.Functions))
	require.NoError(t, batch.Commit())
	return rootID
}

func TestClassHierarchyOverride(t *testing.T) {
	s := openTestStore(t)
	ids := identity.New(0)
	runTU(t, s, ids, "animal.cpp", fixture.ClassHierarchy())

	var dog, animal models.Declaration
	require.NoError(t, s.DB.Where("qualified_name = ?", "Dog").First(&dog).Error)
	require.NoError(t, s.DB.Where("qualified_name = ?", "Animal").First(&animal).Error)

	var inherits models.InheritsFrom
	require.NoError(t, s.DB.Where("from_id = ? AND to_id = ?", dog.NodeID, animal.NodeID).First(&inherits).Error)
	require.Equal(t, "public", inherits.InheritanceType)

	var dogSpeak, animalSpeak models.Declaration
	require.NoError(t, s.DB.Where("qualified_name = ?", "Dog::speak").First(&dogSpeak).Error)
	require.NoError(t, s.DB.Where("qualified_name = ?", "Animal::speak").First(&animalSpeak).Error)

	var overrides models.Overrides
	require.NoError(t, s.DB.Where("from_id = ? AND to_id = ?", dogSpeak.NodeID, animalSpeak.NodeID).First(&overrides).Error)

	var scope models.InScope
	require.NoError(t, s.DB.Where("from_id = ? AND to_id = ?", dogSpeak.NodeID, dog.NodeID).First(&scope).Error)
	require.Equal(t, "class", scope.ScopeKind)
}

func TestTemplateInstantiationSpecializes(t *testing.T) {
	s := openTestStore(t)
	ids := identity.New(0)
	runTU(t, s, ids, "maxtpl.cpp", fixture.TemplateInstantiation())

	var primary, instantiation models.Declaration
	require.NoError(t, s.DB.Where("qualified_name = ?", "max").First(&primary).Error)
	require.NoError(t, s.DB.Where("qualified_name = ?", "max<int>").First(&instantiation).Error)

	var spec models.Specializes
	require.NoError(t, s.DB.Where("from_id = ? AND to_id = ?", instantiation.NodeID, primary.NodeID).First(&spec).Error)
	require.Equal(t, "int", spec.TemplateArguments)
	require.Equal(t, "implicit", spec.SpecializationKind)

	var params []models.TemplateParameter
	require.NoError(t, s.DB.Find(&params).Error)
	require.Len(t, params, 1)
	require.Equal(t, "T", params[0].ParameterName)
}

func TestMacroAndIncludeExpansion(t *testing.T) {
	s := openTestStore(t)
	ids := identity.New(0)
	runTU(t, s, ids, "square.cpp", fixture.MacroAndInclude())

	var macro models.MacroDefinition
	require.NoError(t, s.DB.Where("macro_name = ?", "SQUARE").First(&macro).Error)
	require.True(t, macro.IsFunctionLike)

	var inc models.IncludeDirective
	require.NoError(t, s.DB.Where("include_path = ?", "stddef.h").First(&inc).Error)
	require.True(t, inc.IsSystemInclude)

	var y models.Declaration
	require.NoError(t, s.DB.Where("qualified_name = ?", "y").First(&y).Error)

	var exp models.MacroExpansion
	require.NoError(t, s.DB.Where("from_id = ? AND to_id = ?", y.NodeID, macro.NodeID).First(&exp).Error)

	var defines models.Defines
	require.NoError(t, s.DB.Where("to_id = ?", macro.NodeID).First(&defines).Error)

	var includes models.Includes
	require.NoError(t, s.DB.Where("to_id = ?", inc.NodeID).First(&includes).Error)
}

func TestControlFlowCFG(t *testing.T) {
	s := openTestStore(t)
	ids := identity.New(0)
	runTU(t, s, ids, "absval.cpp", fixture.ControlFlow())

	var blocks []models.CFGBlock
	require.NoError(t, s.DB.Find(&blocks).Error)
	require.Len(t, blocks, 4)

	var entry models.CFGBlock
	require.NoError(t, s.DB.Where("is_entry_block = ?", true).First(&entry).Error)
	require.Equal(t, "branch", entry.TerminatorKind)

	var edges []models.CFGEdge
	require.NoError(t, s.DB.Where("from_id = ?", entry.NodeID).Find(&edges).Error)
	require.Len(t, edges, 2)

	var contains []models.ContainsCFG
	require.NoError(t, s.DB.Find(&contains).Error)
	require.Len(t, contains, 4)
}

func TestConstantEvaluationFoldsConstexpr(t *testing.T) {
	s := openTestStore(t)
	ids := identity.New(0)
	runTU(t, s, ids, "constexpr.cpp", fixture.ConstantEvaluation())

	var expr models.Expression
	require.NoError(t, s.DB.Where("expression_kind = ?", "BinaryOperator").First(&expr).Error)
	require.True(t, expr.IsConstexpr)

	var constExpr models.ConstantExpression
	require.NoError(t, s.DB.Where("constant_value = ?", "5").First(&constExpr).Error)
	require.True(t, constExpr.IsCompileTimeConstant)

	var hasVal models.HasConstantValue
	require.NoError(t, s.DB.Where("from_id = ? AND to_id = ?", expr.NodeID, constExpr.NodeID).First(&hasVal).Error)

	var intType models.Type
	require.NoError(t, s.DB.Where("canonical_type = ?", "int").First(&intType).Error)
	var hasType models.HasType
	require.NoError(t, s.DB.Where("from_id = ? AND to_id = ?", expr.NodeID, intType.NodeID).First(&hasType).Error)
	require.Equal(t, "declared", hasType.TypeRole)

	var n models.Declaration
	require.NoError(t, s.DB.Where("qualified_name = ?", "N").First(&n).Error)
	require.NoError(t, s.DB.Where("from_id = ? AND to_id = ?", n.NodeID, intType.NodeID).First(&hasType).Error)
}

// TestSharedTypeAcrossTUsDoesNotDuplicateTypeRow reproduces two TUs that
// each reference the builtin "int" type independently (e.g. both include a
// header using it). Identity.InternType dedups "int" to one NodeId across
// both TUs; the second TU's own Type-row insert must be skipped rather than
// attempted a second time, or its batch commit fails with a UNIQUE
// constraint violation on types.node_id (I7).
func TestSharedTypeAcrossTUsDoesNotDuplicateTypeRow(t *testing.T) {
	s := openTestStore(t)
	ids := identity.New(0)
	runTU(t, s, ids, "a.cpp", fixture.ConstantEvaluation())
	runTU(t, s, ids, "b.cpp", fixture.ConstantEvaluation())

	var count int64
	require.NoError(t, s.DB.Model(&models.Type{}).Where("canonical_type = ?", "int").Count(&count).Error)
	require.Equal(t, int64(1), count)

	var hasTypeCount int64
	require.NoError(t, s.DB.Model(&models.HasType{}).Count(&hasTypeCount).Error)
	require.Positive(t, hasTypeCount)
}

// TestSharedHeaderMacroAcrossTUsDoesNotDuplicateRow mirrors the type case
// for a macro both TUs include from a common header.
func TestSharedHeaderMacroAcrossTUsDoesNotDuplicateRow(t *testing.T) {
	s := openTestStore(t)
	ids := identity.New(0)
	runTU(t, s, ids, "a.cpp", fixture.MacroAndInclude())
	runTU(t, s, ids, "b.cpp", fixture.MacroAndInclude())

	var count int64
	require.NoError(t, s.DB.Model(&models.MacroDefinition{}).Where("macro_name = ?", "SQUARE").Count(&count).Error)
	require.Equal(t, int64(1), count)

	var definesCount int64
	require.NoError(t, s.DB.Model(&models.Defines{}).Count(&definesCount).Error)
	require.Equal(t, int64(2), definesCount)
}

// TestCrossTUOverrideResolvesWhenBaseSeenFirst exercises the immediate (not
// deferred) branch of resolveOrDefer/resolveOrDeferInherits: when the base
// TU has already been processed against the shared identity.Service, the
// derived TU's INHERITS_FROM and OVERRIDES edges are written directly rather
// than queued for the stitcher.
func TestCrossTUOverrideResolvesWhenBaseSeenFirst(t *testing.T) {
	s := openTestStore(t)
	ids := identity.New(0)
	runTU(t, s, ids, "base.h", fixture.CrossTUOverrideBase())

	derivedBatch, err := s.BeginBatch()
	require.NoError(t, err)
	c := extract.NewContext("derived.cpp", ids, derivedBatch)
	tu := fixture.CrossTUOverrideDerived()
	_, err = extract.AST(c, tu.Root, 0, 0, false)
	require.NoError(t, err)
	require.NoError(t, derivedBatch.Commit())

	require.Empty(t, derivedBatch.DeferredEdges())

	var b, d models.Declaration
	require.NoError(t, s.DB.Where("qualified_name = ?", "B").First(&b).Error)
	require.NoError(t, s.DB.Where("qualified_name = ?", "D").First(&d).Error)
	var inherits models.InheritsFrom
	require.NoError(t, s.DB.Where("from_id = ? AND to_id = ?", d.NodeID, b.NodeID).First(&inherits).Error)

	var bf, df models.Declaration
	require.NoError(t, s.DB.Where("qualified_name = ?", "B::f").First(&bf).Error)
	require.NoError(t, s.DB.Where("qualified_name = ?", "D::f").First(&df).Error)
	var overrides models.Overrides
	require.NoError(t, s.DB.Where("from_id = ? AND to_id = ?", df.NodeID, bf.NodeID).First(&overrides).Error)
}

// TestCrossTUOverrideDefersWhenBaseSeenLater processes the derived TU first:
// both edges must be queued on the batch's DeferredEdges rather than fail,
// since the base declaration is not yet known to the identity service.
func TestCrossTUOverrideDefersWhenBaseSeenLater(t *testing.T) {
	s := openTestStore(t)
	ids := identity.New(0)

	batch, err := s.BeginBatch()
	require.NoError(t, err)
	c := extract.NewContext("derived.cpp", ids, batch)
	tu := fixture.CrossTUOverrideDerived()
	_, err = extract.AST(c, tu.Root, 0, 0, false)
	require.NoError(t, err)
	require.NoError(t, batch.Commit())

	deferred := batch.DeferredEdges()
	require.Len(t, deferred, 2)

	kinds := map[string]string{}
	for _, d := range deferred {
		kinds[d.Kind] = d.TargetKey
	}
	require.Equal(t, "B", kinds["INHERITS_FROM"])
	require.Equal(t, "B::f", kinds["OVERRIDES"])
}
