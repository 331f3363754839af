// Package island extracts top-level declarations from text that may not
// parse as a whole. Editors use it to re-parse only the declarations that
// look complete; it never reports diagnostics.
package island

import (
	"errors"
	"quill-lang/internal/lexer"
	"quill-lang/internal/span"
	"quill-lang/internal/token"
	"strings"
)

// Island is one top-level declaration found in a buffer.
type Island struct {
	Span span.Span `json:"span"`
	Text string    `json:"text"`
}

type phase int

const (
	outside phase = iota // looking for a declaration keyword
	header               // keyword seen, waiting for the body's '{'
	body                 // inside the braces
)

// Scan returns the declarations in src in source order. A declaration runs
// from its keyword to the brace that closes its body. Declarations that
// never open or never close their body are dropped, as is any declaration
// containing a malformed string literal.
func Scan(src string) []Island {
	var (
		islands []Island
		state   = outside
		start   int
		parens  int // ( and < depth in the header
		braces  int // { depth in the body
	)

	lex := lexer.New(src)
	for {
		tok, err := lex.Next()
		if err != nil {
			var se *lexer.ScanError
			if !errors.As(err, &se) {
				return islands
			}
			state = outside
			lex = lexer.NewRange(src, resumeAfter(src, se), len(src))
			continue
		}
		if tok.Kind == token.EOF {
			return islands
		}

		switch state {
		case outside:
			if tok.Kind.IsDeclStart() {
				state, start, parens = header, tok.Span.Start, 0
			}

		case header:
			switch tok.Kind {
			case token.LPAREN, token.LT:
				parens++
			case token.RPAREN, token.GT:
				parens = max(parens-1, 0)
			case token.LBRACE:
				if parens == 0 {
					state, braces = body, 1
				}
			default:
				if tok.Kind.IsDeclStart() && parens == 0 {
					// the previous header never opened a body
					start = tok.Span.Start
				}
			}

		case body:
			switch tok.Kind {
			case token.LBRACE:
				braces++
			case token.RBRACE:
				braces--
				if braces == 0 {
					end := tok.Span.End
					islands = append(islands, Island{Span: span.New(start, end), Text: src[start:end]})
					state = outside
				}
			}
		}
	}
}

// resumeAfter returns the offset just past the malformed literal: after the
// next matching quote, or the end of src if there is none.
func resumeAfter(src string, se *lexer.ScanError) int {
	from := max(se.Offset, se.Start+1)
	if from >= len(src) {
		return len(src)
	}
	if i := strings.IndexByte(src[from:], src[se.Start]); i >= 0 {
		return from + i + 1
	}
	return len(src)
}

// Texts returns just the source text of each island.
func Texts(src string) []string {
	islands := Scan(src)
	out := make([]string, len(islands))
	for i, isl := range islands {
		out[i] = isl.Text
	}
	return out
}
