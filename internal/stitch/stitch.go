// Package stitch runs the single-threaded final pass over a completed
// indexing run: it resolves the deferred edges every TU pipeline queued
// during extraction, folds declarations that independent TUs each
// re-emitted for the same entity onto one canonical row, then verifies the
// global graph invariants (I1-I8).
package stitch

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cppgraph/indexer/internal/identity"
	"github.com/cppgraph/indexer/internal/indexerr"
	"github.com/cppgraph/indexer/models"
	"github.com/cppgraph/indexer/store"
)

// Resolve looks up every deferred edge's target canonical key in the
// Identity Service and, if found, inserts the edge. Targets never resolved
// by any TU become warnings (indexerr.DeferredResolutionMiss) rather than
// failures ("emits the edge or drops it with a warning").
// This only ever inserts rows; it never mutates or deletes anything a TU
// pipeline already wrote.
func Resolve(db *gorm.DB, ids *identity.Service, deferred []store.DeferredEdge) (resolved int, warnings []error, err error) {
	for _, d := range deferred {
		toID, ok := ids.LookupDecl(d.TargetKey)
		if !ok {
			warnings = append(warnings, &indexerr.DeferredResolutionMiss{EdgeKind: d.Kind, TargetKey: d.TargetKey})
			continue
		}
		row, buildErr := buildEdgeRow(d.Kind, d.FromID, toID, d.Properties)
		if buildErr != nil {
			warnings = append(warnings, buildErr)
			continue
		}
		if createErr := db.Create(row).Error; createErr != nil {
			return resolved, warnings, fmt.Errorf("stitch: insert resolved %s edge: %w", d.Kind, createErr)
		}
		resolved++
	}
	return resolved, warnings, nil
}

// buildEdgeRow mirrors package extract's resolveOrDefer switch: the only
// edge kinds a TU pipeline ever defers are INHERITS_FROM (base class not
// yet seen) and OVERRIDES/SPECIALIZES (target method/template not yet
// seen).
func buildEdgeRow(kind string, fromID, toID uint64, props map[string]any) (any, error) {
	switch kind {
	case "INHERITS_FROM":
		return &models.InheritsFrom{
			FromID:          fromID,
			ToID:            toID,
			InheritanceType: fmt.Sprint(props["inheritance_type"]),
			IsVirtual:       props["is_virtual"] == true,
		}, nil
	case "OVERRIDES":
		return &models.Overrides{FromID: fromID, ToID: toID}, nil
	case "SPECIALIZES":
		return &models.Specializes{
			FromID:             fromID,
			ToID:               toID,
			TemplateArguments:  fmt.Sprint(props["template_arguments"]),
			SpecializationKind: fmt.Sprint(props["specialization_kind"]),
		}, nil
	default:
		return nil, fmt.Errorf("stitch: unresolvable deferred edge kind %q", kind)
	}
}

// declRow is one Declaration joined to its ASTNode's position, the unit
// Fold groups and orders by.
type declRow struct {
	NodeID        uint64
	QualifiedName string
	SourceFile    string
	StartLine     int
	StartColumn   int
}

// foldGroup is one set of Declaration rows sharing a qualified name:
// canonical is kept, losers are retargeted onto it.
type foldGroup struct {
	canonical uint64
	losers    []uint64
}

// retargetTables lists the edge tables Fold rewrites from a loser's NodeId
// onto the canonical one. PARENT_OF is deliberately excluded: it is the
// physical AST shape of whichever TU produced the loser, not a semantic
// cross-reference, and retargeting it would graft one TU's subtree onto
// another TU's parent. HAS_TYPE is excluded too: a duplicate HAS_TYPE edge
// pointing at the loser is redundant but harmless, not worth rewriting.
var retargetTables = []any{
	&models.InheritsFrom{}, &models.Overrides{}, &models.Specializes{},
	&models.TemplateRelation{}, &models.InScope{},
}

// Fold merges Declaration rows that independent TU pipelines produced for
// the same qualified name (typically a class or function declared in a
// header several TUs include). Identity.InternDecl already picks one
// candidate NodeId as canonical at intern time, but a TU processed before
// the canonical owner still commits its own Declaration/ASTNode copy and
// writes semantic edges against it; Fold reconciles that after every TU has
// committed, once the full position ordering is available.
//
// The earliest occurrence by (source_file, start_line, start_column) is
// kept as canonical; every other occurrence's semantic edges are rewritten
// onto it. No row is deleted — a later TU's ASTNode/Declaration still
// describes that TU's own physical occurrence; only the semantic edges
// converge onto one declaration.
func Fold(db *gorm.DB) (folded int, err error) {
	var rows []declRow
	if err := db.Table("declarations").
		Select("declarations.node_id, declarations.qualified_name, ast_nodes.source_file, ast_nodes.start_line, ast_nodes.start_column").
		Joins("JOIN ast_nodes ON ast_nodes.node_id = declarations.node_id").
		Where("declarations.qualified_name != ''").
		Order("declarations.qualified_name, ast_nodes.source_file, ast_nodes.start_line, ast_nodes.start_column").
		Scan(&rows).Error; err != nil {
		return 0, fmt.Errorf("stitch: fold: loading declarations: %w", err)
	}

	var groups []foldGroup
	for i := 0; i < len(rows); {
		j := i + 1
		for j < len(rows) && rows[j].QualifiedName == rows[i].QualifiedName {
			j++
		}
		if j-i > 1 {
			losers := make([]uint64, 0, j-i-1)
			for k := i + 1; k < j; k++ {
				losers = append(losers, rows[k].NodeID)
			}
			groups = append(groups, foldGroup{canonical: rows[i].NodeID, losers: losers})
		}
		i = j
	}

	for _, g := range groups {
		for _, loser := range g.losers {
			if err := retarget(db, loser, g.canonical); err != nil {
				return folded, err
			}
			folded++
		}
	}
	return folded, nil
}

// retarget rewrites every semantic edge endpoint pointing at loser onto
// canonical, across every table in retargetTables.
func retarget(db *gorm.DB, loser, canonical uint64) error {
	for _, m := range retargetTables {
		if err := db.Model(m).Where("from_id = ?", loser).Update("from_id", canonical).Error; err != nil {
			return fmt.Errorf("stitch: fold: retarget from_id: %w", err)
		}
		if err := db.Model(m).Where("to_id = ?", loser).Update("to_id", canonical).Error; err != nil {
			return fmt.Errorf("stitch: fold: retarget to_id: %w", err)
		}
	}
	return nil
}
