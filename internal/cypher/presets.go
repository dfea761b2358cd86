package cypher

// Presets mirrors Examples/queries/verifiers/{inheritance,ast,control_flow}_queries.py
// from the original harness: the three questions that system answers most
// often are exposed here as canned MATCH text so `indexer query --preset`
// doesn't require the caller to hand-write Cypher for the common case.
var Presets = map[string]string{
	"overrides-of": "MATCH (derived:Declaration)-[:OVERRIDES]->(base:Declaration) " +
		"RETURN derived.qualified_name AS derived, base.qualified_name AS base",

	"specializes-of": "MATCH (spec:Declaration)-[r:SPECIALIZES]->(primary:Declaration) " +
		"RETURN spec.qualified_name AS specialization, primary.qualified_name AS template, " +
		"r.specialization_kind AS kind",

	"cfg-fallthrough-successors": "MATCH (a:CFGBlock)-[r:CFG_EDGE]->(b:CFGBlock) " +
		"WHERE r.edge_type = \"fallthrough\" " +
		"RETURN a.node_id AS from_block, b.node_id AS to_block",
}

// ResolvePreset looks up a preset name, returning its Cypher text and
// whether it was found.
func ResolvePreset(name string) (string, bool) {
	text, ok := Presets[name]
	return text, ok
}
