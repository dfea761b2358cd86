package extract

import (
	"fmt"

	"github.com/cppgraph/indexer/frontend"
	"github.com/cppgraph/indexer/internal/identity"
	"github.com/cppgraph/indexer/models"
)

// Declaration normalizes one named-declaration node into a Declaration row
// plus any inheritance/override/template edges it carries.
// id is the NodeId the AST extractor already assigned this node (I1:
// Declaration.NodeID == ASTNode.NodeID).
func Declaration(c *Context, n *frontend.Node, id uint64) error {
	qualifiedName := frontendAttr[string](n, "qualified_name")

	canonicalID, fresh := id, true
	if qualifiedName != "" {
		canonicalID, fresh = c.Identity.InternDecl(qualifiedName, id)
		if !fresh {
			c.Identity.RecordConflict(identity.Conflict{Kind: "decl", Key: qualifiedName, SecondTU: c.TU})
		}
	}

	row := &models.Declaration{
		NodeID:           id,
		Name:             frontendAttr[string](n, "name"),
		QualifiedName:    qualifiedName,
		NamespaceContext: frontendAttr[string](n, "namespace_context"),
		AccessSpecifier:  defaultString(frontendAttr[string](n, "access_specifier"), "none"),
		StorageClass:     frontendAttr[string](n, "storage_class"),
		IsDefinition:     frontendAttr[bool](n, "is_definition"),
	}
	if err := c.Batch.AppendDedup(row); err != nil {
		return err
	}

	declaredRole := "declared"
	if n.Kind == "ParmVarDecl" {
		declaredRole = "parameter"
	}
	if err := emitTypeEdge(c, n, "declared_type", declaredRole, id); err != nil {
		return err
	}
	if err := emitTypeEdge(c, n, "return_type", "return", id); err != nil {
		return err
	}

	if n.Kind == "CXXRecordDecl" {
		if err := extractBases(c, n, id); err != nil {
			return err
		}
	}
	if n.Kind == "CXXMethodDecl" {
		if err := extractOverrides(c, n, id); err != nil {
			return err
		}
	}
	if spec := frontendAttr[frontend.Specialization](n, "specializes"); spec.PrimaryQualifiedName != "" {
		if err := resolveOrDefer(c, "SPECIALIZES", id, spec.PrimaryQualifiedName, map[string]any{
			"template_arguments":  spec.TemplateArguments,
			"specialization_kind": spec.Kind,
		}); err != nil {
			return err
		}
	}
	if params := frontendAttr[[]frontend.TemplateParam](n, "template_params"); len(params) > 0 {
		for _, p := range params {
			prow := &models.TemplateParameter{
				NodeID:              c.Identity.Fresh(),
				ParameterKind:       p.Kind,
				ParameterName:       p.Name,
				IsParameterPack:     p.IsParameterPack,
				HasDefaultArgument:  p.HasDefaultArgument,
				DefaultArgumentText: stringPtrOrNil(p.DefaultArgumentText),
			}
			if err := c.Batch.Append(prow); err != nil {
				return err
			}
		}
	}

	// canonicalID is currently unused beyond conflict bookkeeping: this
	// TU's own Declaration row always keeps id (I1). Cross-TU duplicates
	// are merged later by stitch.Fold, which groups the stored Declaration
	// rows by qualified name and does not read the identity service.
	_ = canonicalID
	return nil
}

func extractBases(c *Context, n *frontend.Node, classID uint64) error {
	bases := frontendAttr[[]frontend.Base](n, "bases")
	for _, b := range bases {
		props := map[string]any{
			"inheritance_type": b.Access,
			"is_virtual":       b.Virtual,
		}
		if err := resolveOrDeferInherits(c, classID, b, props); err != nil {
			return err
		}
	}
	return nil
}

func resolveOrDeferInherits(c *Context, classID uint64, b frontend.Base, props map[string]any) error {
	if baseID, ok := c.Identity.LookupDecl(b.TargetQualifiedName); ok {
		row := &models.InheritsFrom{
			FromID:          classID,
			ToID:            baseID,
			InheritanceType: b.Access,
			IsVirtual:       b.Virtual,
		}
		return c.Batch.Append(row)
	}
	c.Batch.DeferEdge("INHERITS_FROM", c.TU, classID, b.TargetQualifiedName, props)
	return nil
}

func extractOverrides(c *Context, n *frontend.Node, methodID uint64) error {
	overrides := frontendAttr[[]frontend.Override](n, "overrides")
	for _, o := range overrides {
		if err := resolveOrDefer(c, "OVERRIDES", methodID, o.TargetQualifiedName, nil); err != nil {
			return err
		}
	}
	return nil
}

// resolveOrDefer emits an edge immediately if the target declaration is
// already known to the identity service (same TU, or a prior TU already
// processed), otherwise queues it for the Stitcher.
func resolveOrDefer(c *Context, kind string, fromID uint64, targetKey string, props map[string]any) error {
	toID, ok := c.Identity.LookupDecl(targetKey)
	if !ok {
		c.Batch.DeferEdge(kind, c.TU, fromID, targetKey, props)
		return nil
	}
	switch kind {
	case "OVERRIDES":
		return c.Batch.Append(&models.Overrides{FromID: fromID, ToID: toID})
	case "SPECIALIZES":
		return c.Batch.Append(&models.Specializes{
			FromID:             fromID,
			ToID:               toID,
			TemplateArguments:  fmt.Sprint(props["template_arguments"]),
			SpecializationKind: fmt.Sprint(props["specialization_kind"]),
		})
	default:
		return fmt.Errorf("extract: resolveOrDefer: unhandled edge kind %q", kind)
	}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func stringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
