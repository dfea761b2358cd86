package cypher

import "fmt"

// nodeTables maps a MATCH pattern Label to the table created for it by
// package models. Kept as an explicit allow-list (rather than reflecting
// over models.AllTables) so a query can never address a table the schema
// doesn't expose for reading.
var nodeTables = map[string]string{
	"ASTNode":              "ast_nodes",
	"Declaration":          "declarations",
	"Type":                 "types",
	"Statement":            "statements",
	"Expression":           "expressions",
	"ConstantExpression":   "constant_expressions",
	"TemplateParameter":    "template_parameters",
	"UsingDeclaration":     "using_declarations",
	"MacroDefinition":      "macro_definitions",
	"IncludeDirective":     "include_directives",
	"ConditionalDirective": "conditional_directives",
	"PragmaDirective":      "pragma_directives",
	"Comment":              "comments",
	"CFGBlock":             "cfg_blocks",
}

// edgeTables maps a relationship pattern Type to its edge table.
var edgeTables = map[string]string{
	"PARENT_OF":          "edges_parent_of",
	"HAS_TYPE":           "edges_has_type",
	"INHERITS_FROM":      "edges_inherits_from",
	"OVERRIDES":          "edges_overrides",
	"SPECIALIZES":        "edges_specializes",
	"TEMPLATE_RELATION":  "edges_template_relation",
	"IN_SCOPE":           "edges_in_scope",
	"MACRO_EXPANSION":    "edges_macro_expansion",
	"INCLUDES":           "edges_includes",
	"DEFINES":            "edges_defines",
	"HAS_CONSTANT_VALUE": "edges_has_constant_value",
	"CONTAINS_CFG":       "edges_contains_cfg",
	"CFG_EDGE":           "edges_cfg_edge",
	"CFG_CONTAINS_STMT":  "edges_cfg_contains_stmt",
}

func resolveNodeTable(label string) (string, error) {
	table, ok := nodeTables[label]
	if !ok {
		return "", fmt.Errorf("cypher: unknown node label %q", label)
	}
	return table, nil
}

func resolveEdgeTable(relType string) (string, error) {
	table, ok := edgeTables[relType]
	if !ok {
		return "", fmt.Errorf("cypher: unknown relationship type %q", relType)
	}
	return table, nil
}
