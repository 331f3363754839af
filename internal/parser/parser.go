// Package parser implements the syntax analysis for quill.
//
// It is a recursive-descent parser with precedence climbing for binary
// expressions. The parser never aborts: a construct that fails to parse is
// replaced by an *ast.Error and parsing resumes at a synchronization token
// chosen by the enclosing production, so one root cause produces one
// diagnostic.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"quill-lang/internal/ast"
	"quill-lang/internal/diag"
	"quill-lang/internal/lexer"
	"quill-lang/internal/span"
	"quill-lang/internal/token"
	"slices"
)

// Diagnostic codes reported by the parser. Scan failures use the lexer's
// E10xx codes.
const (
	codeExpectedToken = "E2001"
	codeExpectedExpr  = "E2002"
	codeExpectedDecl  = "E2003"
	codeExpectedType  = "E2004"
	codeTrailing      = "E2005"
)

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis, pulling tokens from a lexer one at a time.
// A Parser is single-use: call exactly one of ParseDecl, ParseFile or
// ParseExpr.
type Parser struct {
	lex   *lexer.Lexer
	lines *span.LineIndex
	log   *slog.Logger

	start, end int // scanned range

	tok     token.Token // current (not yet consumed) token
	prevEnd int         // end offset of the last consumed token

	diags      []diag.Diagnostic
	recovering bool
	fault      *ast.Error // the Error being propagated while recovering
}

// Option configures a Parser.
type Option func(*parserConfig)

type parserConfig struct {
	logger     *slog.Logger
	start, end int
}

// WithLogger sets the logger used for debug tracing of error recovery.
func WithLogger(l *slog.Logger) Option {
	return func(c *parserConfig) { c.logger = l }
}

// WithRange restricts parsing to source[start:end]. Spans and diagnostic
// positions stay relative to the whole source.
func WithRange(start, end int) Option {
	return func(c *parserConfig) { c.start, c.end = start, end }
}

// New creates a parser over source.
func New(source string, opts ...Option) *Parser {
	cfg := parserConfig{start: 0, end: len(source)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	end := min(cfg.end, len(source))
	start := max(0, min(cfg.start, end))

	p := &Parser{
		lex:     lexer.NewRange(source, start, end),
		lines:   span.NewLineIndex(source),
		log:     cfg.logger.With("component", "parser"),
		start:   start,
		end:     end,
		prevEnd: start,
	}
	p.tok = p.next()
	return p
}

// ParseDecl parses a single top-level declaration.
func (p *Parser) ParseDecl() (ast.Decl, []diag.Diagnostic) {
	decl := p.parseDecl(nil)
	return decl, p.diags
}

// ParseFile parses declarations until the end of input. After a failed
// declaration, parsing resumes at the next declaration keyword.
func (p *Parser) ParseFile() (*ast.File, []diag.Diagnostic) {
	file := &ast.File{NodeBase: ast.NodeBase{Span: span.New(p.start, p.end)}}
	for p.tok.Kind != token.EOF {
		decl := scoped(p, nil, token.DeclStarts, p.parseDecl)
		file.Decls = append(file.Decls, decl)
		if p.recovering {
			break
		}
	}
	return file, p.diags
}

// ParseExpr parses a single expression that must span the whole input.
func (p *Parser) ParseExpr() (ast.Expr, []diag.Diagnostic) {
	x := p.parseExpr(nil, precLowest)
	if !p.recovering && p.tok.Kind != token.EOF {
		p.fail(nil, codeTrailing, "unexpected %s after expression", describe(p.tok))
	}
	return x, p.diags
}

// ParseDecl is a convenience wrapper around New(source).ParseDecl().
func ParseDecl(source string, opts ...Option) (ast.Decl, []diag.Diagnostic) {
	return New(source, opts...).ParseDecl()
}

// ParseFile is a convenience wrapper around New(source).ParseFile().
func ParseFile(source string, opts ...Option) (*ast.File, []diag.Diagnostic) {
	return New(source, opts...).ParseFile()
}

// ParseExpr is a convenience wrapper around New(source).ParseExpr().
func ParseExpr(source string, opts ...Option) (ast.Expr, []diag.Diagnostic) {
	return New(source, opts...).ParseExpr()
}

// ============================================================
// Internal faults
// ============================================================

// InternalError reports a broken parser invariant. It is raised with panic
// and is never caused by malformed input.
type InternalError struct {
	Msg  string
	Span span.Span
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal parser error at %s: %s", e.Span, e.Msg)
}

// ScanDiagnostic converts a string literal scan failure into a diagnostic
// spanning the literal up to the failure point.
func ScanDiagnostic(se *lexer.ScanError, lines *span.LineIndex) diag.Diagnostic {
	return diag.Errorf(se.Reason.Code(), lines, span.New(se.Start, se.Offset), "%s", se.Message())
}

// ---- navigation helpers ----

// next pulls one token from the lexer. A scan failure becomes a diagnostic
// and the stream ends.
func (p *Parser) next() token.Token {
	tok, err := p.lex.Next()
	if err == nil {
		return tok
	}
	var se *lexer.ScanError
	if !errors.As(err, &se) {
		panic(&InternalError{Msg: err.Error(), Span: tok.Span})
	}
	d := ScanDiagnostic(se, p.lines)
	p.diags = append(p.diags, d)
	p.log.Debug("scan failure", "code", d.Code, "offset", se.Offset)
	if !p.recovering {
		p.recovering = true
		p.fault = &ast.Error{NodeBase: ast.NodeBase{Span: d.Span}, Diag: d}
	}
	return tok
}

func (p *Parser) advance() token.Token {
	tok := p.tok
	p.prevEnd = tok.Span.End
	p.tok = p.next()
	return tok
}

// consume advances past a token the caller has already checked.
func (p *Parser) consume(kind token.Kind) token.Token {
	if p.tok.Kind != kind {
		panic(&InternalError{
			Msg:  fmt.Sprintf("consume %s, have %s", kind, p.tok.Kind),
			Span: p.tok.Span,
		})
	}
	return p.advance()
}

func (p *Parser) expect(rs *recovery, kind token.Kind) (token.Token, *ast.Error) {
	if p.tok.Kind == kind {
		return p.advance(), nil
	}
	tok := p.tok
	return tok, p.fail(rs, codeExpectedToken, "expected '%s', found %s", kind, describe(tok))
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.STRING:
		return "string " + tok.Lexeme
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

// ============================================================
// Error recovery
// ============================================================

// recovery is an immutable chain of synchronization sets, innermost first.
// Each scoped production pushes a frame by linking a new head; the caller's
// chain is never modified, so returning restores it exactly.
type recovery struct {
	kinds []token.Kind
	outer *recovery
}

// contains reports whether any frame in the chain synchronizes on kind.
func (r *recovery) contains(kind token.Kind) bool {
	for f := r; f != nil; f = f.outer {
		if slices.Contains(f.kinds, kind) {
			return true
		}
	}
	return false
}

// owns reports whether the innermost frame synchronizes on kind.
func (r *recovery) owns(kind token.Kind) bool {
	return r != nil && slices.Contains(r.kinds, kind)
}

// scoped runs fn with kinds pushed onto the recovery chain. If fn left the
// parser recovering and discarding stopped at one of kinds, recovery ends
// here and the caller continues normally; otherwise the fault keeps
// propagating to whichever outer frame owns the stopping token.
func scoped[T any](p *Parser, rs *recovery, kinds []token.Kind, fn func(*recovery) T) T {
	inner := &recovery{kinds: kinds, outer: rs}
	result := fn(inner)
	if p.recovering && inner.owns(p.tok.Kind) {
		p.log.Debug("recovered", "at", p.tok.Span.String(), "sync", p.tok.Kind.String())
		p.recovering = false
		p.fault = nil
	}
	return result
}

// fail reports a diagnostic at the current token and starts recovery.
func (p *Parser) fail(rs *recovery, code, format string, args ...interface{}) *ast.Error {
	return p.failAt(rs, p.tok.Span, code, format, args...)
}

// failAt reports a diagnostic at the given span, then discards tokens until
// one that some frame of rs synchronizes on, or the end of input. The
// returned Error covers the span and everything discarded. While already
// recovering it reports nothing and returns the Error being propagated.
func (p *Parser) failAt(rs *recovery, at span.Span, code, format string, args ...interface{}) *ast.Error {
	if p.recovering {
		return p.fault
	}
	d := diag.Errorf(code, p.lines, at, format, args...)
	p.diags = append(p.diags, d)
	p.recovering = true

	covered := at
	for p.tok.Kind != token.EOF && !rs.contains(p.tok.Kind) {
		covered = span.Join(covered, p.tok.Span)
		p.advance()
	}
	p.log.Debug("recovery started", "code", code, "at", at.String(), "stop", p.tok.Kind.String())

	p.fault = &ast.Error{NodeBase: ast.NodeBase{Span: covered}, Diag: d}
	return p.fault
}
