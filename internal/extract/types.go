package extract

import (
	"github.com/cppgraph/indexer/frontend"
	"github.com/cppgraph/indexer/models"
)

// TypeRef is what a decl/stmt/expr extractor has on hand when it needs to
// emit a HAS_TYPE edge: the front-end's spelling plus the canonical form
// the identity service dedups on.
type TypeRef struct {
	TypeName      string
	CanonicalType string
	IsBuiltin     bool
	IsConst       bool
	IsVolatile    bool
	SizeBytes     *int64
}

// InternType canonicalizes and interns a type exactly once across the
// whole run (I7: two Type rows with the same canonical_type are the
// same row). Returns the Type's NodeId; callers emit the HAS_TYPE edge
// themselves since the edge's type_role varies by caller. Identity.InternType
// dedups canonical spellings across every TU, not just this one, so fresh
// (not a per-Context seen-set) is what decides whether this call is the one
// that gets to insert the row.
func (c *Context) InternType(t TypeRef) (uint64, error) {
	id, fresh := c.Identity.InternType(t.CanonicalType)
	if !fresh {
		return id, nil
	}

	row := &models.Type{
		NodeID:        id,
		TypeName:      t.TypeName,
		CanonicalType: t.CanonicalType,
		IsBuiltin:     t.IsBuiltin,
		IsConst:       t.IsConst,
		IsVolatile:    t.IsVolatile,
		SizeBytes:     t.SizeBytes,
	}
	return id, c.Batch.Append(row)
}

// emitTypeEdge interns the type attribute found under attrKey on n, if any,
// and appends a HAS_TYPE edge from fromID with the given role. No-op if the
// node carries no such attribute, since most nodes reference no type at all.
func emitTypeEdge(c *Context, n *frontend.Node, attrKey, role string, fromID uint64) error {
	info := frontendAttr[frontend.TypeInfo](n, attrKey)
	if info.CanonicalType == "" {
		return nil
	}
	typeID, err := c.InternType(TypeRef{
		TypeName:      info.TypeName,
		CanonicalType: info.CanonicalType,
		IsBuiltin:     info.IsBuiltin,
		IsConst:       info.IsConst,
		IsVolatile:    info.IsVolatile,
		SizeBytes:     info.SizeBytes,
	})
	if err != nil {
		return err
	}
	return c.Batch.Append(&models.HasType{FromID: fromID, ToID: typeID, TypeRole: role})
}
