// Package lexer implements the lexical analysis (tokenization) for quill.
//
// The lexer is pull-based: each call to Next scans exactly one token. It never
// rejects input; the only failure it reports is a *ScanError from a malformed
// string literal, after which the lexer is exhausted.
package lexer

import (
	"math"
	"quill-lang/internal/span"
	"quill-lang/internal/token"
)

// Lexer tokenizes a range of source code into a sequence of tokens.
type Lexer struct {
	src  string // the scanned range
	base int    // offset of src[0] within the full source

	pos  int  // current read position in src
	done bool // set after a scan failure
}

// New creates a Lexer over the whole of source.
func New(source string) *Lexer {
	return NewRange(source, 0, len(source))
}

// NewRange creates a Lexer over source[start:end]. Token spans remain
// absolute offsets into source.
func NewRange(source string, start, end int) *Lexer {
	if end > len(source) {
		end = len(source)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	return &Lexer{src: source[start:end], base: start}
}

// Next scans and returns the next token. At the end of the range it returns
// an EOF token, and keeps doing so on every later call. A malformed string
// literal yields an EOF token together with a *ScanError.
func (l *Lexer) Next() (token.Token, error) {
	if l.done {
		return l.eof(), nil
	}

	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return l.eof(), nil
	}

	start := l.pos
	ch := l.src[l.pos]

	if kind, width, ok := l.fixedAt(l.pos); ok {
		l.pos += width
		return l.makeToken(kind, start), nil
	}

	if ch == '"' || ch == '\'' {
		value, end, err := scanString(l.src, start)
		if err != nil {
			l.done = true
			l.pos = len(l.src)
			err.Start += l.base
			err.Offset += l.base
			return l.eof(), err
		}
		l.pos = end
		tok := l.makeToken(token.STRING, start)
		tok.Str = value
		return tok, nil
	}

	return l.readWord(start), nil
}

// Tokenize scans the remaining range and returns all tokens including the
// final EOF. On a scan failure the tokens scanned so far are returned with
// the error.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.Next()
		tokens = append(tokens, tok)
		if err != nil {
			return tokens, err
		}
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// ---- internal helpers ----

func (l *Lexer) eof() token.Token {
	end := l.base + len(l.src)
	return token.Token{Kind: token.EOF, Span: span.New(end, end)}
}

func (l *Lexer) makeToken(kind token.Kind, start int) token.Token {
	return token.Token{
		Kind:   kind,
		Lexeme: l.src[start:l.pos],
		Span:   span.New(l.base+start, l.base+l.pos),
	}
}

// skipWhitespace skips ASCII spaces, tabs, carriage returns and newlines.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

// fixedAt reports the punctuation or operator token starting at i, if any.
// A lone '&' or '|' is not a token.
func (l *Lexer) fixedAt(i int) (token.Kind, int, bool) {
	if i >= len(l.src) {
		return token.EOF, 0, false
	}
	var next byte
	if i+1 < len(l.src) {
		next = l.src[i+1]
	}

	switch l.src[i] {
	case '(':
		return token.LPAREN, 1, true
	case ')':
		return token.RPAREN, 1, true
	case '{':
		return token.LBRACE, 1, true
	case '}':
		return token.RBRACE, 1, true
	case ',':
		return token.COMMA, 1, true
	case '.':
		return token.DOT, 1, true
	case ';':
		return token.SEMICOLON, 1, true
	case ':':
		return token.COLON, 1, true
	case '+':
		return token.PLUS, 1, true
	case '-':
		return token.MINUS, 1, true
	case '*':
		return token.STAR, 1, true
	case '/':
		return token.SLASH, 1, true
	case '<':
		return token.LT, 1, true
	case '>':
		return token.GT, 1, true
	case '=':
		switch next {
		case '=':
			return token.EQ, 2, true
		case '>':
			return token.ARROW, 2, true
		}
		return token.ASSIGN, 1, true
	case '!':
		if next == '=' {
			return token.NEQ, 2, true
		}
		return token.BANG, 1, true
	case '&':
		if next == '&' {
			return token.AND, 2, true
		}
	case '|':
		if next == '|' {
			return token.OR, 2, true
		}
	}
	return token.EOF, 0, false
}

// readWord scans a maximal identifier/number run and classifies it.
//
// A '.' continues the run only as a decimal point: the run so far is all
// digits and a digit follows. Otherwise the run ends before the dot, so
// 2.square() scans as NUMBER DOT IDENT.
func (l *Lexer) readWord(start int) token.Token {
	digits := true
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if isSpace(ch) {
			break
		}
		if ch == '.' {
			if digits && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
				l.pos++
				digits = false
				continue
			}
			break
		}
		if _, _, ok := l.fixedAt(l.pos); ok {
			break
		}
		if !isDigit(ch) {
			digits = false
		}
		l.pos++
	}

	tok := l.makeToken(token.IDENT, start)
	if kind, ok := token.LookupKeyword(tok.Lexeme); ok {
		tok.Kind = kind
		return tok
	}
	if tok.Lexeme == "NaN" {
		tok.Kind = token.NUMBER
		tok.Num = math.NaN()
		return tok
	}
	if v, ok := coerceNumber(tok.Lexeme); ok {
		tok.Kind = token.NUMBER
		tok.Num = v
	}
	return tok
}

// ---- character classification ----

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func hexValue(ch byte) (rune, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return rune(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return rune(ch-'a') + 10, true
	case ch >= 'A' && ch <= 'F':
		return rune(ch-'A') + 10, true
	}
	return 0, false
}
