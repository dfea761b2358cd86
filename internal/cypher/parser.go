package cypher

import (
	"fmt"
	"strconv"
	"strings"
)

// parser is a hand-written recursive-descent parser over the token stream.
type parser struct {
	lex  *lexer
	cur  token
	peek token
}

// Parse parses one full query: `MATCH ... [WHERE ...] RETURN ... [LIMIT n]`.
func Parse(src string) (*Query, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	q := &Query{}
	if err := p.expectKeyword("MATCH"); err != nil {
		return nil, err
	}
	match, err := p.parseMatch()
	if err != nil {
		return nil, err
	}
	q.Match = match

	if p.curIsKeyword("WHERE") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		where, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		q.Where = where
	}

	if err := p.expectKeyword("RETURN"); err != nil {
		return nil, err
	}
	ret, err := p.parseReturn()
	if err != nil {
		return nil, err
	}
	q.Return = ret

	if p.curIsKeyword("LIMIT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokNumber {
			return nil, fmt.Errorf("cypher: LIMIT expects a number, got %q", p.cur.text)
		}
		n, err := strconv.Atoi(p.cur.text)
		if err != nil {
			return nil, fmt.Errorf("cypher: invalid LIMIT value %q: %w", p.cur.text, err)
		}
		q.Limit = n
		q.HasLimit = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("cypher: unexpected trailing input starting at %q", p.cur.text)
	}
	return q, nil
}

func (p *parser) advance() error {
	p.cur = p.peek
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.peek = t
	return nil
}

func (p *parser) curIsKeyword(kw string) bool {
	return p.cur.kind == tokIdent && strings.EqualFold(p.cur.text, kw)
}

func (p *parser) expectKeyword(kw string) error {
	if !p.curIsKeyword(kw) {
		return fmt.Errorf("cypher: expected %s, got %q", kw, p.cur.text)
	}
	return p.advance()
}

func (p *parser) expectPunct(s string) error {
	if p.cur.kind != tokPunct || p.cur.text != s {
		return fmt.Errorf("cypher: expected %q, got %q", s, p.cur.text)
	}
	return p.advance()
}

// parseMatch parses `(var:Label {props})-[:TYPE {props}]->(var:Label {props})`.
func (p *parser) parseMatch() (MatchClause, error) {
	from, err := p.parseNodePattern()
	if err != nil {
		return MatchClause{}, err
	}
	if err := p.expectPunct("-"); err != nil {
		return MatchClause{}, err
	}
	rel, err := p.parseRelPattern()
	if err != nil {
		return MatchClause{}, err
	}
	if err := p.expectPunct("->"); err != nil {
		return MatchClause{}, err
	}
	to, err := p.parseNodePattern()
	if err != nil {
		return MatchClause{}, err
	}
	return MatchClause{From: from, Rel: rel, To: to}, nil
}

func (p *parser) parseNodePattern() (NodePattern, error) {
	if err := p.expectPunct("("); err != nil {
		return NodePattern{}, err
	}
	var np NodePattern
	if p.cur.kind == tokIdent {
		np.Var = p.cur.text
		if err := p.advance(); err != nil {
			return NodePattern{}, err
		}
	}
	if p.cur.kind == tokPunct && p.cur.text == ":" {
		if err := p.advance(); err != nil {
			return NodePattern{}, err
		}
		if p.cur.kind != tokIdent {
			return NodePattern{}, fmt.Errorf("cypher: expected label after ':'")
		}
		np.Label = p.cur.text
		if err := p.advance(); err != nil {
			return NodePattern{}, err
		}
	}
	if p.cur.kind == tokPunct && p.cur.text == "{" {
		props, err := p.parseProps()
		if err != nil {
			return NodePattern{}, err
		}
		np.Props = props
	}
	if err := p.expectPunct(")"); err != nil {
		return NodePattern{}, err
	}
	return np, nil
}

func (p *parser) parseRelPattern() (RelPattern, error) {
	if err := p.expectPunct("["); err != nil {
		return RelPattern{}, err
	}
	var rp RelPattern
	if p.cur.kind == tokIdent {
		rp.Var = p.cur.text
		if err := p.advance(); err != nil {
			return RelPattern{}, err
		}
	}
	if p.cur.kind == tokPunct && p.cur.text == ":" {
		if err := p.advance(); err != nil {
			return RelPattern{}, err
		}
		if p.cur.kind != tokIdent {
			return RelPattern{}, fmt.Errorf("cypher: expected relationship type after ':'")
		}
		rp.Type = p.cur.text
		if err := p.advance(); err != nil {
			return RelPattern{}, err
		}
	}
	if p.cur.kind == tokPunct && p.cur.text == "{" {
		props, err := p.parseProps()
		if err != nil {
			return RelPattern{}, err
		}
		rp.Props = props
	}
	if err := p.expectPunct("]"); err != nil {
		return RelPattern{}, err
	}
	return rp, nil
}

func (p *parser) parseProps() ([]Property, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var props []Property
	for {
		if p.cur.kind == tokPunct && p.cur.text == "}" {
			break
		}
		if p.cur.kind != tokIdent {
			return nil, fmt.Errorf("cypher: expected property key, got %q", p.cur.text)
		}
		key := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		val, err := parseLiteral(p.cur)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		props = append(props, Property{Key: key, Value: val})
		if p.cur.kind == tokPunct && p.cur.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return props, nil
}

func (p *parser) parseWhere() ([]Comparison, error) {
	var out []Comparison
	for {
		varName, col, err := p.parseDotted()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokPunct {
			return nil, fmt.Errorf("cypher: expected comparison operator, got %q", p.cur.text)
		}
		op := p.cur.text
		switch op {
		case "=", "!=", "<", "<=", ">", ">=":
		default:
			return nil, fmt.Errorf("cypher: unsupported operator %q", op)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := parseLiteral(p.cur)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		out = append(out, Comparison{Var: varName, Column: col, Op: op, Value: val})

		if p.curIsKeyword("AND") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return out, nil
}

func (p *parser) parseReturn() ([]Projection, error) {
	var out []Projection
	for {
		varName, col, err := p.parseDotted()
		if err != nil {
			return nil, err
		}
		proj := Projection{Var: varName, Column: col}
		if p.curIsKeyword("AS") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind != tokIdent {
				return nil, fmt.Errorf("cypher: expected alias after AS")
			}
			proj.Alias = p.cur.text
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		out = append(out, proj)
		if p.cur.kind == tokPunct && p.cur.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return out, nil
}

// parseDotted parses `var.column`.
func (p *parser) parseDotted() (varName, col string, err error) {
	if p.cur.kind != tokIdent {
		return "", "", fmt.Errorf("cypher: expected identifier, got %q", p.cur.text)
	}
	varName = p.cur.text
	if err := p.advance(); err != nil {
		return "", "", err
	}
	if err := p.expectPunct("."); err != nil {
		return "", "", err
	}
	if p.cur.kind != tokIdent {
		return "", "", fmt.Errorf("cypher: expected column name after '.'")
	}
	col = p.cur.text
	if err := p.advance(); err != nil {
		return "", "", err
	}
	return varName, col, nil
}
