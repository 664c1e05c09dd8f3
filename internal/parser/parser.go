// Package parser lexes and parses the analyzed language subset into the
// ast package's syntax tree. It covers the declaration and statement forms
// the narrowing engine consumes; constructs outside the subset are parse
// errors rather than silent drops.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phlin-dev/phlin/internal/ast"
	"github.com/phlin-dev/phlin/internal/types"
)

// Parser is a single-file recursive-descent parser with one token of
// lookahead.
type Parser struct {
	lx       *Lexer
	cur      Token
	next     Token
	filename string
}

// Parse parses src into a file tree.
func Parse(filename string, src []byte) (*ast.File, error) {
	p := &Parser{lx: NewLexer(filename, src), filename: filename}
	p.cur = p.lx.Next()
	p.next = p.lx.Next()

	f := &ast.File{Filename: filename}
	for p.cur.Kind != EOF {
		switch {
		case p.isKeyword("function"):
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			f.Functions = append(f.Functions, fn)
		case p.isKeyword("final"), p.isKeyword("abstract"), p.isKeyword("class"), p.isKeyword("interface"):
			c, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			f.Classes = append(f.Classes, c)
		default:
			return nil, p.errorf("expected function or class declaration, found %q", p.cur.Lit)
		}
	}
	f.Comments = p.lx.Comments()
	return f, nil
}

func (p *Parser) advance() {
	p.cur = p.next
	p.next = p.lx.Next()
}

func (p *Parser) isKeyword(kw string) bool {
	return p.cur.Kind == Ident && p.cur.Lit == kw
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	if p.cur.Kind != kind {
		return Token{}, p.errorf("expected %s, found %q", what, p.cur.Lit)
	}
	t := p.cur
	p.advance()
	return t, nil
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.errorf("expected %q, found %q", kw, p.cur.Lit)
	}
	p.advance()
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	pos := p.cur.Pos
	return fmt.Errorf("%s:%d:%d: %s", p.filename, pos.Line, pos.Column, fmt.Sprintf(format, args...))
}

func span(from, to types.Position) types.Span {
	return types.Span{Start: from, End: to}
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	start := p.cur.Pos
	p.advance() // function
	name, err := p.expect(Ident, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	// return type hint, parsed and discarded
	if p.cur.Kind == Colon {
		p.advance()
		if _, err := p.parseTypeHint(); err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		Name:   name.Lit,
		Params: params,
		Body:   body,
		Pos:    span(start, body.Pos.End),
	}, nil
}

func (p *Parser) parseParams() ([]*ast.Param, error) {
	if _, err := p.expect(LParen, "'('"); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for p.cur.Kind != RParen {
		start := p.cur.Pos
		hint := ""
		if p.cur.Kind == Ident || p.cur.Kind == Question {
			h, err := p.parseTypeHint()
			if err != nil {
				return nil, err
			}
			hint = h
		}
		v, err := p.expect(Variable, "parameter variable")
		if err != nil {
			return nil, err
		}
		// default value, parsed and discarded
		if p.cur.Kind == Assign {
			p.advance()
			if _, err := p.parseExpr(); err != nil {
				return nil, err
			}
		}
		params = append(params, &ast.Param{Name: v.Lit, Hint: hint, Pos: span(start, v.End)})
		if p.cur.Kind == Comma {
			p.advance()
		}
	}
	p.advance() // )
	return params, nil
}

// parseTypeHint reads `?T` or `A|B|...` as raw text for typing.ParseHint.
func (p *Parser) parseTypeHint() (string, error) {
	var b strings.Builder
	if p.cur.Kind == Question {
		b.WriteString("?")
		p.advance()
	}
	name, err := p.expect(Ident, "type name")
	if err != nil {
		return "", err
	}
	b.WriteString(name.Lit)
	for p.cur.Kind == Pipe {
		p.advance()
		name, err := p.expect(Ident, "type name")
		if err != nil {
			return "", err
		}
		b.WriteString("|")
		b.WriteString(name.Lit)
	}
	return b.String(), nil
}

var memberModifiers = map[string]bool{
	"public": true, "private": true, "protected": true,
	"static": true, "readonly": true, "final": true, "abstract": true,
}

func (p *Parser) parseClass() (*ast.Class, error) {
	start := p.cur.Pos
	c := &ast.Class{}
	for p.isKeyword("final") || p.isKeyword("abstract") {
		if p.isKeyword("final") {
			c.Final = true
		}
		p.advance()
	}
	if p.isKeyword("interface") {
		c.IsIface = true
		p.advance()
	} else if err := p.expectKeyword("class"); err != nil {
		return nil, err
	}
	name, err := p.expect(Ident, "class name")
	if err != nil {
		return nil, err
	}
	c.Name = name.Lit
	if p.isKeyword("extends") {
		p.advance()
		parent, err := p.expect(Ident, "parent class name")
		if err != nil {
			return nil, err
		}
		c.Parent = parent.Lit
	}
	if p.isKeyword("implements") {
		p.advance()
		for {
			iface, err := p.expect(Ident, "interface name")
			if err != nil {
				return nil, err
			}
			c.Interfaces = append(c.Interfaces, iface.Lit)
			if p.cur.Kind != Comma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(LBrace, "'{'"); err != nil {
		return nil, err
	}
	for p.cur.Kind != RBrace {
		if p.cur.Kind == EOF {
			return nil, p.errorf("unexpected end of file in class body")
		}
		for p.cur.Kind == Ident && memberModifiers[p.cur.Lit] {
			p.advance()
		}
		if p.isKeyword("function") {
			m, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			c.Methods = append(c.Methods, m)
			continue
		}
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		c.Properties = append(c.Properties, prop)
	}
	end := p.cur.End
	p.advance() // }
	c.Pos = span(start, end)
	return c, nil
}

func (p *Parser) parseProperty() (*ast.Property, error) {
	start := p.cur.Pos
	hint := ""
	if p.cur.Kind == Ident || p.cur.Kind == Question {
		h, err := p.parseTypeHint()
		if err != nil {
			return nil, err
		}
		hint = h
	}
	v, err := p.expect(Variable, "property variable")
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == Assign {
		p.advance()
		if _, err := p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(Semicolon, "';'"); err != nil {
		return nil, err
	}
	return &ast.Property{Name: v.Lit, Hint: hint, Pos: span(start, v.End)}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(LBrace, "'{'")
	if err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.cur.Kind != RBrace {
		if p.cur.Kind == EOF {
			return nil, p.errorf("unexpected end of file in block")
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	end := p.cur.End
	p.advance() // }
	return &ast.Block{Stmts: stmts, Pos: span(open.Pos, end)}, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.isKeyword("if"):
		return p.parseIf()
	case p.isKeyword("return"):
		start := p.cur.Pos
		p.advance()
		var value ast.Expr
		if p.cur.Kind != Semicolon {
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			value = v
		}
		end, err := p.expect(Semicolon, "';'")
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: value, Pos: span(start, end.End)}, nil
	case p.isKeyword("break"):
		start := p.cur.Pos
		p.advance()
		end, err := p.expect(Semicolon, "';'")
		if err != nil {
			return nil, err
		}
		return &ast.Break{Pos: span(start, end.End)}, nil
	case p.isKeyword("switch"):
		return p.parseSwitch()
	case p.cur.Kind == LBrace:
		return p.parseBlock()
	}

	start := p.cur.Pos
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == Assign {
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(Semicolon, "';'")
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: expr, Value: value, Pos: span(start, end.End)}, nil
	}
	end, err := p.expect(Semicolon, "';'")
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: expr, Pos: span(start, end.End)}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.cur.Pos
	p.advance() // if / elseif
	if _, err := p.expect(LParen, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RParen, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Cond: cond, Then: then, Pos: span(start, then.Pos.End)}

	switch {
	case p.isKeyword("elseif"):
		elseStmt, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmt
	case p.isKeyword("else"):
		p.advance()
		if p.isKeyword("if") {
			elseStmt, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseStmt
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *Parser) parseSwitch() (ast.Stmt, error) {
	start := p.cur.Pos
	p.advance() // switch
	if _, err := p.expect(LParen, "'('"); err != nil {
		return nil, err
	}
	subject, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBrace, "'{'"); err != nil {
		return nil, err
	}

	sw := &ast.Switch{Subject: subject}
	for p.cur.Kind != RBrace {
		if p.cur.Kind == EOF {
			return nil, p.errorf("unexpected end of file in switch")
		}
		caseStart := p.cur.Pos
		var values []ast.Expr
		if p.isKeyword("case") {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			values = []ast.Expr{v}
		} else if p.isKeyword("default") {
			p.advance()
		} else {
			return nil, p.errorf("expected case or default, found %q", p.cur.Lit)
		}
		if _, err := p.expect(Colon, "':'"); err != nil {
			return nil, err
		}
		var body []ast.Stmt
		for !p.isKeyword("case") && !p.isKeyword("default") && p.cur.Kind != RBrace {
			s, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			body = append(body, s)
		}
		sw.Cases = append(sw.Cases, &ast.SwitchCase{
			Values: values,
			Body:   body,
			Pos:    span(caseStart, p.cur.Pos),
		})
	}
	end := p.cur.End
	p.advance() // }
	sw.Pos = span(start, end)
	return sw, nil
}

// Expression parsing, lowest precedence first.

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == OrOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.OpOr, Left: left, Right: right,
			Pos: span(left.Span().Start, right.Span().End)}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == AndAnd {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.OpAnd, Left: left, Right: right,
			Pos: span(left.Span().Start, right.Span().End)}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseInstanceof()
	if err != nil {
		return nil, err
	}
	var op ast.BinaryOp
	switch p.cur.Kind {
	case EqEqEq:
		op = ast.OpIdentical
	case NotEqEq:
		op = ast.OpNotIdentical
	case EqEq:
		op = ast.OpEqual
	case NotEq:
		op = ast.OpNotEqual
	default:
		return left, nil
	}
	p.advance()
	right, err := p.parseInstanceof()
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Op: op, Left: left, Right: right,
		Pos: span(left.Span().Start, right.Span().End)}, nil
}

func (p *Parser) parseInstanceof() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("instanceof") {
		p.advance()
		class, err := p.expect(Ident, "class name")
		if err != nil {
			return nil, err
		}
		return &ast.Instanceof{Value: left, Class: class.Lit,
			Pos: span(left.Span().Start, class.End)}, nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur.Kind == Not {
		start := p.cur.Pos
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.OpNot, Operand: operand,
			Pos: span(start, operand.Span().End)}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case Arrow:
			p.advance()
			name, err := p.expect(Ident, "property name")
			if err != nil {
				return nil, err
			}
			expr = &ast.PropertyFetch{Target: expr, Name: name.Lit,
				Pos: span(expr.Span().Start, name.End)}
		case LBracket:
			p.advance()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			closing, err := p.expect(RBracket, "']'")
			if err != nil {
				return nil, err
			}
			expr = &ast.IndexFetch{Target: expr, Index: index,
				Pos: span(expr.Span().Start, closing.End)}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	t := p.cur
	switch t.Kind {
	case Variable:
		p.advance()
		return &ast.Variable{Name: t.Lit, Pos: span(t.Pos, t.End)}, nil

	case Int:
		p.advance()
		v, err := strconv.ParseInt(t.Lit, 10, 64)
		if err != nil {
			return nil, p.errorf("bad integer literal %q", t.Lit)
		}
		return &ast.IntLit{Value: v, Pos: span(t.Pos, t.End)}, nil

	case Float:
		p.advance()
		v, err := strconv.ParseFloat(t.Lit, 64)
		if err != nil {
			return nil, p.errorf("bad float literal %q", t.Lit)
		}
		return &ast.FloatLit{Value: v, Pos: span(t.Pos, t.End)}, nil

	case String:
		p.advance()
		return &ast.StringLit{Value: t.Lit, Pos: span(t.Pos, t.End)}, nil

	case LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil

	case LBracket:
		return p.parseArrayLit()

	case Ident:
		switch t.Lit {
		case "true", "false":
			p.advance()
			return &ast.BoolLit{Value: t.Lit == "true", Pos: span(t.Pos, t.End)}, nil
		case "null":
			p.advance()
			return &ast.NullLit{Pos: span(t.Pos, t.End)}, nil
		case "isset":
			return p.parseIsset()
		}
		p.advance()
		if p.cur.Kind == LParen {
			return p.parseCallArgs(t)
		}
		return &ast.ConstFetch{Name: t.Lit, Pos: span(t.Pos, t.End)}, nil
	}
	return nil, p.errorf("unexpected token %q in expression", t.Lit)
}

func (p *Parser) parseIsset() (ast.Expr, error) {
	start := p.cur.Pos
	p.advance() // isset
	if _, err := p.expect(LParen, "'('"); err != nil {
		return nil, err
	}
	var targets []ast.Expr
	for p.cur.Kind != RParen {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		targets = append(targets, e)
		if p.cur.Kind == Comma {
			p.advance()
		}
	}
	end := p.cur.End
	p.advance() // )
	return &ast.Isset{Targets: targets, Pos: span(start, end)}, nil
}

func (p *Parser) parseCallArgs(name Token) (ast.Expr, error) {
	p.advance() // (
	var args []ast.Expr
	for p.cur.Kind != RParen {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.cur.Kind == Comma {
			p.advance()
		}
	}
	end := p.cur.End
	p.advance() // )
	return &ast.Call{Name: name.Lit, Args: args, Pos: span(name.Pos, end)}, nil
}

func (p *Parser) parseArrayLit() (ast.Expr, error) {
	start := p.cur.Pos
	p.advance() // [
	var elems []ast.Expr
	for p.cur.Kind != RBracket {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.Kind == DoubleArrow {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			e = v
		}
		elems = append(elems, e)
		if p.cur.Kind == Comma {
			p.advance()
		}
	}
	end := p.cur.End
	p.advance() // ]
	return &ast.ArrayLit{Elems: elems, Pos: span(start, end)}, nil
}
