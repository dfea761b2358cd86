package cypher

import "testing"

func TestParseBasicMatch(t *testing.T) {
	q, err := Parse(`MATCH (a:Declaration)-[:OVERRIDES]->(b:Declaration) RETURN a.name, b.name`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Match.From.Var != "a" || q.Match.From.Label != "Declaration" {
		t.Fatalf("unexpected from pattern: %+v", q.Match.From)
	}
	if q.Match.Rel.Type != "OVERRIDES" {
		t.Fatalf("unexpected rel pattern: %+v", q.Match.Rel)
	}
	if len(q.Return) != 2 || q.Return[0].Column != "name" {
		t.Fatalf("unexpected return: %+v", q.Return)
	}
	if q.HasLimit {
		t.Fatalf("expected no limit")
	}
}

func TestParseWithPropsWhereAndLimit(t *testing.T) {
	q, err := Parse(`MATCH (a:CFGBlock)-[r:CFG_EDGE {edge_type: "fallthrough"}]->(b:CFGBlock) ` +
		`WHERE a.reachable = true RETURN a.node_id AS src, b.node_id AS dst LIMIT 10`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Match.Rel.Props) != 1 || q.Match.Rel.Props[0].Value != "fallthrough" {
		t.Fatalf("unexpected rel props: %+v", q.Match.Rel.Props)
	}
	if len(q.Where) != 1 || q.Where[0].Value != true {
		t.Fatalf("unexpected where: %+v", q.Where)
	}
	if !q.HasLimit || q.Limit != 10 {
		t.Fatalf("unexpected limit: %+v", q)
	}
	if q.Return[0].Alias != "src" || q.Return[1].Alias != "dst" {
		t.Fatalf("unexpected aliases: %+v", q.Return)
	}
}

func TestParseRejectsMissingArrow(t *testing.T) {
	_, err := Parse(`MATCH (a:Declaration)[:OVERRIDES](b:Declaration) RETURN a.name`)
	if err == nil {
		t.Fatalf("expected a parse error for a malformed relationship pattern")
	}
}

func TestParseRejectsUnknownOperator(t *testing.T) {
	_, err := Parse(`MATCH (a:Type)-[:HAS_TYPE]->(b:Type) WHERE a.name ~ "x" RETURN a.name`)
	if err == nil {
		t.Fatalf("expected an error for an unsupported operator")
	}
}
