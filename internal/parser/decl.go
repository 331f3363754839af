package parser

import (
	"quill-lang/internal/ast"
	"quill-lang/internal/span"
	"quill-lang/internal/token"
)

// Synchronization sets for the scoped sub-parses below.
var (
	syncLParen    = []token.Kind{token.LPAREN}
	syncRParen    = []token.Kind{token.RPAREN}
	syncLBrace    = []token.Kind{token.LBRACE}
	syncRBrace    = []token.Kind{token.RBRACE}
	syncSemicolon = []token.Kind{token.SEMICOLON}
	syncAssign    = []token.Kind{token.ASSIGN}
	syncComma     = []token.Kind{token.COMMA}
	syncGT        = []token.Kind{token.GT}
	syncListItem  = []token.Kind{token.COMMA, token.RPAREN}
)

// ============================================================
// Declarations
// ============================================================

func (p *Parser) parseDecl(rs *recovery) ast.Decl {
	switch p.tok.Kind {
	case token.KW_FUNCTION:
		return p.parseFunction(rs)
	case token.KW_ACTOR, token.KW_STRUCT, token.KW_QUERY, token.KW_COMMAND:
		// tokenized, but there is no production for these yet
		kw := p.advance()
		return p.failAt(rs, kw.Span, codeExpectedDecl, "'%s' declarations are not supported", kw.Lexeme)
	}
	return p.fail(rs, codeExpectedDecl, "expected declaration, found %s", describe(p.tok))
}

// parseFunction parses: function name(params) [: Type] { body }
func (p *Parser) parseFunction(rs *recovery) ast.Decl {
	start := p.consume(token.KW_FUNCTION).Span.Start

	name := scoped(p, rs, syncLParen, p.parseIdent)
	if p.recovering {
		return p.fault
	}

	params := scoped(p, rs, syncLBrace, p.parseParams)
	if p.recovering {
		return p.fault
	}

	var result ast.TypeExpr
	if p.tok.Kind == token.COLON {
		p.advance()
		result = scoped(p, rs, syncLBrace, p.parseType)
		if p.recovering {
			return p.fault
		}
	}

	body := p.parseBody(rs)
	if p.recovering {
		return p.fault
	}

	fn := &ast.FuncDecl{Name: name, Params: params, Result: result, Body: body}
	fn.Span = span.New(start, body.GetSpan().End)
	return fn
}

// parseParams parses: ( binding, binding, ... )
func (p *Parser) parseParams(rs *recovery) ast.Params {
	start := p.tok.Span.Start
	if _, err := p.expect(rs, token.LPAREN); err != nil {
		return err
	}

	var list []*ast.Binding
	for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
		b := scoped(p, rs, syncListItem, p.parseBinding)
		list = append(list, b)
		if p.recovering {
			return p.fault
		}
		if p.tok.Kind != token.COMMA {
			break
		}
		p.advance()
	}

	if _, err := p.expect(rs, token.RPAREN); err != nil {
		return err
	}
	return &ast.ParamList{NodeBase: ast.NodeBase{Span: span.New(start, p.prevEnd)}, List: list}
}

// parseBinding parses: name [: Type]
func (p *Parser) parseBinding(rs *recovery) *ast.Binding {
	name := p.parseIdent(rs)
	b := &ast.Binding{Name: name}
	b.Span = name.GetSpan()
	if p.recovering {
		return b
	}

	if p.tok.Kind == token.COLON {
		p.advance()
		b.Type = p.parseType(rs)
		b.Span = span.New(b.Span.Start, b.Type.GetSpan().End)
	}
	return b
}

// parseIdent parses a single identifier.
func (p *Parser) parseIdent(rs *recovery) ast.Expr {
	if p.tok.Kind != token.IDENT {
		return p.fail(rs, codeExpectedToken, "expected identifier, found %s", describe(p.tok))
	}
	tok := p.advance()
	id := &ast.Ident{Name: tok.Lexeme}
	id.Span = tok.Span
	return id
}

// ============================================================
// Statements
// ============================================================

// parseBody parses: { stmt; stmt; ... }
func (p *Parser) parseBody(rs *recovery) ast.Body {
	start := p.tok.Span.Start
	if _, err := p.expect(rs, token.LBRACE); err != nil {
		return err
	}

	stmts := scoped(p, rs, syncRBrace, p.parseStmtList)
	if p.recovering {
		return p.fault
	}

	if _, err := p.expect(rs, token.RBRACE); err != nil {
		return err
	}
	return &ast.Block{NodeBase: ast.NodeBase{Span: span.New(start, p.prevEnd)}, Stmts: stmts}
}

// parseStmtList parses semicolon-terminated statements up to the closing
// brace. A statement that fails resynchronizes at its ';' when it can.
func (p *Parser) parseStmtList(rs *recovery) []ast.Stmt {
	var stmts []ast.Stmt
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		stmt := scoped(p, rs, syncSemicolon, p.parseStmt)
		stmts = append(stmts, stmt)
		if p.recovering {
			break
		}

		if p.tok.Kind != token.SEMICOLON {
			missing := scoped(p, rs, syncSemicolon, func(rs *recovery) ast.Stmt {
				return p.fail(rs, codeExpectedToken, "expected ';', found %s", describe(p.tok))
			})
			stmts = append(stmts, missing)
			if p.recovering {
				break
			}
		}
		p.consume(token.SEMICOLON)
	}
	return stmts
}

func (p *Parser) parseStmt(rs *recovery) ast.Stmt {
	switch p.tok.Kind {
	case token.KW_LET, token.KW_CONST:
		return p.parseLet(rs)
	case token.KW_RETURN:
		return p.parseReturn(rs)
	}

	start := p.tok.Span.Start
	x := p.parseExpr(rs, precLowest)
	if p.recovering {
		return p.fault
	}
	stmt := &ast.ExprStmt{Expr: x}
	stmt.Span = span.New(start, x.GetSpan().End)
	return stmt
}

// parseLet parses: let binding = expr / const binding = expr
func (p *Parser) parseLet(rs *recovery) ast.Stmt {
	kw := p.advance()

	b := scoped(p, rs, syncAssign, p.parseBinding)
	if p.recovering {
		return p.fault
	}
	if _, err := p.expect(rs, token.ASSIGN); err != nil {
		return err
	}

	value := p.parseExpr(rs, precLowest)
	if p.recovering {
		return p.fault
	}

	stmt := &ast.LetStmt{Const: kw.Kind == token.KW_CONST, Binding: b, Value: value}
	stmt.Span = span.New(kw.Span.Start, value.GetSpan().End)
	return stmt
}

// parseReturn parses: return [expr]
func (p *Parser) parseReturn(rs *recovery) ast.Stmt {
	kw := p.consume(token.KW_RETURN)
	stmt := &ast.ReturnStmt{}
	stmt.Span = kw.Span
	if p.tok.Kind == token.SEMICOLON || p.tok.Kind == token.RBRACE {
		return stmt
	}

	value := p.parseExpr(rs, precLowest)
	if p.recovering {
		return p.fault
	}
	stmt.Value = value
	stmt.Span = span.New(kw.Span.Start, value.GetSpan().End)
	return stmt
}

// ============================================================
// Type expressions
// ============================================================

// parseType parses a named type or: [unique] handle [<a, b>] Type
func (p *Parser) parseType(rs *recovery) ast.TypeExpr {
	start := p.tok.Span.Start
	switch p.tok.Kind {
	case token.IDENT:
		tok := p.advance()
		t := &ast.NamedType{Name: tok.Lexeme}
		t.Span = tok.Span
		return t

	case token.KW_UNIQUE, token.KW_HANDLE:
		unique := false
		if p.tok.Kind == token.KW_UNIQUE {
			p.advance()
			unique = true
		}
		if _, err := p.expect(rs, token.KW_HANDLE); err != nil {
			return err
		}

		var lifetimes []ast.Expr
		if p.tok.Kind == token.LT {
			p.advance()
			lifetimes = scoped(p, rs, syncGT, p.parseLifetimes)
			if p.recovering {
				return p.fault
			}
			if _, err := p.expect(rs, token.GT); err != nil {
				return err
			}
		}

		inner := p.parseType(rs)
		if p.recovering {
			return p.fault
		}
		t := &ast.HandleType{Unique: unique, Lifetimes: lifetimes, Inner: inner}
		t.Span = span.New(start, inner.GetSpan().End)
		return t
	}
	return p.fail(rs, codeExpectedType, "expected type, found %s", describe(p.tok))
}

// parseLifetimes parses the comma-separated names between '<' and '>'.
func (p *Parser) parseLifetimes(rs *recovery) []ast.Expr {
	var lifetimes []ast.Expr
	for {
		lt := scoped(p, rs, syncComma, p.parseIdent)
		lifetimes = append(lifetimes, lt)
		if p.recovering || p.tok.Kind != token.COMMA {
			return lifetimes
		}
		p.advance()
	}
}
