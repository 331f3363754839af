package parser

import (
	"quill-lang/internal/ast"
	"quill-lang/internal/span"
	"quill-lang/internal/token"
)

// ============================================================
// Precedence levels
// ============================================================

const (
	precNone     = 0
	precLowest   = 1
	precOr       = 1 // ||
	precAnd      = 2 // &&
	precEquality = 3 // == !=
	precAdditive = 4 // + -
	precMultiply = 5 // * /
)

// binaryPrec returns the precedence of a binary operator, or precNone.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NEQ:
		return precEquality
	case token.PLUS, token.MINUS:
		return precAdditive
	case token.STAR, token.SLASH:
		return precMultiply
	default:
		return precNone
	}
}

// parseExpr parses a binary expression whose operators bind at least as
// tightly as minPrec. All operators are left-associative.
func (p *Parser) parseExpr(rs *recovery, minPrec int) ast.Expr {
	start := p.tok.Span.Start
	left := p.parsePrimary(rs)
	if p.recovering {
		return p.fault
	}

	for {
		op := p.tok.Kind
		prec := binaryPrec(op)
		if prec == precNone || prec < minPrec {
			return left
		}
		p.advance()

		right := p.parseExpr(rs, prec+1)
		if p.recovering {
			return p.fault
		}
		bin := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		bin.Span = span.New(start, right.GetSpan().End)
		left = bin
	}
}

// parsePrimary parses a unary minus or an atom with its postfix calls.
func (p *Parser) parsePrimary(rs *recovery) ast.Expr {
	start := p.tok.Span.Start
	if p.tok.Kind == token.MINUS {
		p.advance()
		operand := p.parsePrimary(rs)
		if p.recovering {
			return p.fault
		}
		u := &ast.UnaryExpr{Op: token.MINUS, Operand: operand}
		u.Span = span.New(start, operand.GetSpan().End)
		return u
	}

	x := p.parseAtom(rs)
	if p.recovering {
		return p.fault
	}
	return p.parsePostfix(rs, start, x)
}

func (p *Parser) parseAtom(rs *recovery) ast.Expr {
	switch p.tok.Kind {
	case token.NUMBER:
		tok := p.advance()
		lit := &ast.NumberLit{Raw: tok.Lexeme, Value: tok.Num}
		lit.Span = tok.Span
		return lit

	case token.STRING:
		tok := p.advance()
		lit := &ast.StringLit{Value: tok.Str}
		lit.Span = tok.Span
		return lit

	case token.IDENT:
		return p.parseIdent(rs)

	case token.LPAREN:
		p.advance()
		inner := scoped(p, rs, syncRParen, func(rs *recovery) ast.Expr {
			return p.parseExpr(rs, precLowest)
		})
		if p.recovering {
			return p.fault
		}
		if _, err := p.expect(rs, token.RPAREN); err != nil {
			return err
		}
		return inner
	}
	return p.fail(rs, codeExpectedExpr, "expected expression, found %s", describe(p.tok))
}

// parsePostfix applies calls and method-style calls to x. A method-style
// call recv.f(args) is desugared to f(recv, args).
func (p *Parser) parsePostfix(rs *recovery, start int, x ast.Expr) ast.Expr {
	for {
		switch p.tok.Kind {
		case token.LPAREN:
			args := p.parseArgs(rs)
			if p.recovering {
				return p.fault
			}
			call := &ast.CallExpr{Callee: x, Args: args}
			call.Span = span.New(start, p.prevEnd)
			x = call

		case token.DOT:
			p.advance()
			name := p.parseIdent(rs)
			if p.recovering {
				return p.fault
			}
			if p.tok.Kind != token.LPAREN {
				return p.fail(rs, codeExpectedToken, "expected '(' after '.%s', found %s",
					name.(*ast.Ident).Name, describe(p.tok))
			}
			args := p.parseArgs(rs)
			if p.recovering {
				return p.fault
			}
			call := &ast.CallExpr{Callee: name, Args: append([]ast.Expr{x}, args...), UFCS: true}
			call.Span = span.New(start, p.prevEnd)
			x = call

		default:
			return x
		}
	}
}

// parseArgs parses: ( expr, expr, ... )
func (p *Parser) parseArgs(rs *recovery) []ast.Expr {
	p.consume(token.LPAREN)

	var args []ast.Expr
	for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
		arg := scoped(p, rs, syncListItem, func(rs *recovery) ast.Expr {
			return p.parseExpr(rs, precLowest)
		})
		args = append(args, arg)
		if p.recovering {
			return args
		}
		if p.tok.Kind != token.COMMA {
			break
		}
		p.advance()
	}

	if _, err := p.expect(rs, token.RPAREN); err != nil {
		return args
	}
	return args
}
