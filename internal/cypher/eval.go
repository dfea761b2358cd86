package cypher

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Eval plans a parsed Query as a sequence of gorm joins and runs it against
// db. Only single-hop MATCH patterns are supported.
func Eval(db *gorm.DB, q *Query) (*ResultSet, error) {
	fromAlias := aliasOrDefault(q.Match.From.Var, "from")
	toAlias := aliasOrDefault(q.Match.To.Var, "to")
	relAlias := aliasOrDefault(q.Match.Rel.Var, "rel")

	for _, a := range []string{fromAlias, toAlias, relAlias} {
		if !identRe.MatchString(a) {
			return nil, fmt.Errorf("cypher: invalid pattern variable %q", a)
		}
	}

	if q.Match.From.Label == "" || q.Match.To.Label == "" {
		return nil, fmt.Errorf("cypher: both node patterns must carry a label")
	}
	if q.Match.Rel.Type == "" {
		return nil, fmt.Errorf("cypher: relationship pattern must carry a type")
	}

	fromTable, err := resolveNodeTable(q.Match.From.Label)
	if err != nil {
		return nil, err
	}
	toTable, err := resolveNodeTable(q.Match.To.Label)
	if err != nil {
		return nil, err
	}
	edgeTable, err := resolveEdgeTable(q.Match.Rel.Type)
	if err != nil {
		return nil, err
	}

	varTables := map[string]string{
		fromAlias: fromTable,
		toAlias:   toTable,
		relAlias:  edgeTable,
	}

	if len(q.Return) == 0 {
		return nil, fmt.Errorf("cypher: RETURN must project at least one column")
	}

	selectExprs := make([]string, 0, len(q.Return))
	columns := make([]string, 0, len(q.Return))
	for _, p := range q.Return {
		if err := checkVarColumn(varTables, p.Var, p.Column); err != nil {
			return nil, err
		}
		alias := p.Alias
		if alias == "" {
			alias = p.Var + "." + p.Column
		}
		selectExprs = append(selectExprs, fmt.Sprintf("%s.%s AS %q", p.Var, p.Column, alias))
		columns = append(columns, alias)
	}

	tx := db.Table(fmt.Sprintf("%s AS %s", edgeTable, relAlias)).
		Joins(fmt.Sprintf("JOIN %s AS %s ON %s.node_id = %s.from_id", fromTable, fromAlias, fromAlias, relAlias)).
		Joins(fmt.Sprintf("JOIN %s AS %s ON %s.node_id = %s.to_id", toTable, toAlias, toAlias, relAlias))

	tx, err = applyNodeProps(tx, fromAlias, q.Match.From.Props)
	if err != nil {
		return nil, err
	}
	tx, err = applyNodeProps(tx, toAlias, q.Match.To.Props)
	if err != nil {
		return nil, err
	}
	tx, err = applyNodeProps(tx, relAlias, q.Match.Rel.Props)
	if err != nil {
		return nil, err
	}

	for _, c := range q.Where {
		if err := checkVarColumn(varTables, c.Var, c.Column); err != nil {
			return nil, err
		}
		tx = tx.Where(fmt.Sprintf("%s.%s %s ?", c.Var, c.Column, c.Op), c.Value)
	}

	if q.HasLimit {
		tx = tx.Limit(q.Limit)
	}

	var rows []map[string]any
	if err := tx.Select(strings.Join(selectExprs, ", ")).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cypher: evaluation failed: %w", err)
	}

	result := &ResultSet{Columns: columns, Rows: make([]Row, len(rows))}
	for i, r := range rows {
		result.Rows[i] = Row(r)
	}
	return result, nil
}

func aliasOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func checkVarColumn(varTables map[string]string, v, col string) error {
	if _, ok := varTables[v]; !ok {
		return fmt.Errorf("cypher: reference to undeclared pattern variable %q", v)
	}
	if !identRe.MatchString(col) {
		return fmt.Errorf("cypher: invalid column name %q", col)
	}
	return nil
}

func applyNodeProps(tx *gorm.DB, alias string, props []Property) (*gorm.DB, error) {
	for _, prop := range props {
		if !identRe.MatchString(prop.Key) {
			return nil, fmt.Errorf("cypher: invalid property key %q", prop.Key)
		}
		tx = tx.Where(fmt.Sprintf("%s.%s = ?", alias, prop.Key), prop.Value)
	}
	return tx, nil
}
