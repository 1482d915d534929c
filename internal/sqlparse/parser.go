package sqlparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smythg4/godb/internal/ast"
	"github.com/smythg4/godb/internal/value"
)

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expectIdent(text string) error {
	t := p.cur()
	if t.kind != tokIdent || kw(t.text) != kw(text) {
		return fmt.Errorf("expected %q, got %q", text, t.text)
	}
	p.advance()
	return nil
}

func (p *parser) expectKind(k tokenKind, what string) (token, error) {
	t := p.cur()
	if t.kind != k {
		return token{}, fmt.Errorf("expected %s, got %q", what, t.text)
	}
	p.advance()
	return t, nil
}

// Parse parses one statement's text (the caller has already stripped the
// trailing ';'). A bare ".exit" is recognized before tokenizing.
func Parse(input string) (ast.Statement, error) {
	trimmed := strings.TrimSpace(input)
	if strings.EqualFold(trimmed, ".exit") {
		return ast.Exit{}, nil
	}
	toks, err := lex(trimmed)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	t := p.cur()
	if t.kind != tokIdent {
		return nil, fmt.Errorf("expected a statement keyword, got %q", t.text)
	}
	switch kw(t.text) {
	case "CREATE":
		return p.parseCreateTable()
	case "INSERT":
		return p.parseInsert()
	case "SELECT":
		return p.parseSelect()
	default:
		return nil, fmt.Errorf("unrecognized statement keyword %q", t.text)
	}
}

func (p *parser) parseCreateTable() (ast.Statement, error) {
	if err := p.expectIdent("CREATE"); err != nil {
		return nil, err
	}
	if err := p.expectIdent("TABLE"); err != nil {
		return nil, err
	}
	nameTok, err := p.expectKind(tokIdent, "table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(tokLParen, "("); err != nil {
		return nil, err
	}

	var cols []ast.ColumnDef
	for {
		colTok, err := p.expectKind(tokIdent, "column name")
		if err != nil {
			return nil, err
		}
		typeTok, err := p.expectKind(tokIdent, "column type")
		if err != nil {
			return nil, err
		}
		dt, err := parseDataType(p, typeTok.text)
		if err != nil {
			return nil, err
		}
		pk := false
		if p.cur().kind == tokIdent && kw(p.cur().text) == "PRIMARY" {
			p.advance()
			if err := p.expectIdent("KEY"); err != nil {
				return nil, err
			}
			pk = true
		}
		cols = append(cols, ast.ColumnDef{Name: colTok.text, Type: dt, PrimaryKey: pk})

		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectKind(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ast.CreateTable{TableName: nameTok.text, Columns: cols}, nil
}

func parseDataType(p *parser, typeName string) (value.DataType, error) {
	switch kw(typeName) {
	case "BOOLEAN", "BOOL":
		return value.BooleanType(), nil
	case "INT", "INTEGER":
		return value.IntType(), nil
	case "REAL", "FLOAT":
		return value.RealType(), nil
	case "CHAR", "VARCHAR":
		if _, err := p.expectKind(tokLParen, "("); err != nil {
			return value.DataType{}, err
		}
		sizeTok, err := p.expectKind(tokNumber, "char size")
		if err != nil {
			return value.DataType{}, err
		}
		n, err := strconv.Atoi(sizeTok.text)
		if err != nil {
			return value.DataType{}, fmt.Errorf("invalid char size %q", sizeTok.text)
		}
		if _, err := p.expectKind(tokRParen, ")"); err != nil {
			return value.DataType{}, err
		}
		return value.CharType(n), nil
	default:
		return value.DataType{}, fmt.Errorf("unknown column type %q", typeName)
	}
}

func (p *parser) parseInsert() (ast.Statement, error) {
	if err := p.expectIdent("INSERT"); err != nil {
		return nil, err
	}
	if err := p.expectIdent("INTO"); err != nil {
		return nil, err
	}
	nameTok, err := p.expectKind(tokIdent, "table name")
	if err != nil {
		return nil, err
	}

	var cols []string
	if p.cur().kind == tokLParen {
		p.advance()
		for {
			colTok, err := p.expectKind(tokIdent, "column name")
			if err != nil {
				return nil, err
			}
			cols = append(cols, colTok.text)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expectKind(tokRParen, ")"); err != nil {
			return nil, err
		}
	}

	if err := p.expectIdent("VALUES"); err != nil {
		return nil, err
	}
	if _, err := p.expectKind(tokLParen, "("); err != nil {
		return nil, err
	}
	var vals []value.Value
	for {
		v, err := p.parseValueLiteral()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectKind(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ast.Insertion{TableName: nameTok.text, Columns: cols, Values: vals}, nil
}

func (p *parser) parseValueLiteral() (value.Value, error) {
	t := p.cur()
	switch t.kind {
	case tokString:
		p.advance()
		return value.NewChar(t.text), nil
	case tokNumber:
		p.advance()
		if strings.Contains(t.text, ".") {
			f, err := strconv.ParseFloat(t.text, 32)
			if err != nil {
				return value.Value{}, fmt.Errorf("invalid number literal %q", t.text)
			}
			return value.NewReal(float32(f)), nil
		}
		i, err := strconv.ParseInt(t.text, 10, 32)
		if err != nil {
			return value.Value{}, fmt.Errorf("invalid number literal %q", t.text)
		}
		return value.NewInt(int32(i)), nil
	case tokIdent:
		switch kw(t.text) {
		case "TRUE":
			p.advance()
			return value.NewBoolean(true), nil
		case "FALSE":
			p.advance()
			return value.NewBoolean(false), nil
		case "NULL":
			p.advance()
			return value.Null(), nil
		default:
			return value.Value{}, fmt.Errorf("expected a value literal, got %q", t.text)
		}
	default:
		return value.Value{}, fmt.Errorf("expected a value literal, got %q", t.text)
	}
}

func (p *parser) parseSelect() (ast.Statement, error) {
	if err := p.expectIdent("SELECT"); err != nil {
		return nil, err
	}
	var cols ast.ColumnSet
	if p.cur().kind == tokStar {
		p.advance()
		cols.WildCard = true
	} else {
		for {
			colTok, err := p.expectKind(tokIdent, "column name")
			if err != nil {
				return nil, err
			}
			cols.Names = append(cols.Names, colTok.text)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectIdent("FROM"); err != nil {
		return nil, err
	}
	nameTok, err := p.expectKind(tokIdent, "table name")
	if err != nil {
		return nil, err
	}
	return ast.Selection{TableName: nameTok.text, Columns: cols}, nil
}
