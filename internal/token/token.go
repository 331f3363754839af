// Package token defines the token types produced by the lexer.
package token

import (
	"fmt"
	"quill-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	EOF Kind = iota

	// Literals
	IDENT  // identifiers: x, foo, café
	NUMBER // numeric literals: 123, 3.14, NaN, Infinity
	STRING // string literals: "hello", 'a\nb'

	// Operators
	ASSIGN // =
	EQ     // ==
	ARROW  // =>
	BANG   // !
	NEQ    // !=
	AND    // &&
	OR     // ||
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	LT     // <
	GT     // >

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;
	COLON     // :

	// Keywords
	KW_ACTOR
	KW_STRUCT
	KW_FUNCTION
	KW_QUERY
	KW_COMMAND
	KW_LET
	KW_CONST
	KW_RETURN
	KW_UNIQUE
	KW_HANDLE
)

var kindNames = map[Kind]string{
	EOF: "EOF",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	ASSIGN: "=",
	EQ:     "==",
	ARROW:  "=>",
	BANG:   "!",
	NEQ:    "!=",
	AND:    "&&",
	OR:     "||",
	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	LT:     "<",
	GT:     ">",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",
	COLON:     ":",

	KW_ACTOR:    "actor",
	KW_STRUCT:   "struct",
	KW_FUNCTION: "function",
	KW_QUERY:    "query",
	KW_COMMAND:  "command",
	KW_LET:      "let",
	KW_CONST:    "const",
	KW_RETURN:   "return",
	KW_UNIQUE:   "unique",
	KW_HANDLE:   "handle",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_ACTOR && k <= KW_HANDLE
}

// IsDeclStart returns true for the keywords that open a top-level declaration.
func (k Kind) IsDeclStart() bool {
	switch k {
	case KW_ACTOR, KW_STRUCT, KW_FUNCTION, KW_QUERY, KW_COMMAND:
		return true
	}
	return false
}

// DeclStarts lists the declaration keywords in source order.
var DeclStarts = []Kind{KW_ACTOR, KW_STRUCT, KW_FUNCTION, KW_QUERY, KW_COMMAND}

var keywords = map[string]Kind{
	"actor":    KW_ACTOR,
	"struct":   KW_STRUCT,
	"function": KW_FUNCTION,
	"query":    KW_QUERY,
	"command":  KW_COMMAND,
	"let":      KW_LET,
	"const":    KW_CONST,
	"return":   KW_RETURN,
	"unique":   KW_UNIQUE,
	"handle":   KW_HANDLE,
}

// LookupKeyword returns the keyword Kind for text.
func LookupKeyword(text string) (Kind, bool) {
	kind, ok := keywords[text]
	return kind, ok
}

// Token represents a lexical token with its kind, source text, and absolute location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
	Num    float64   `json:"-"` // NUMBER only; may be NaN
	Str    string    `json:"-"` // STRING only; decoded text
}

// HasValue reports whether the token carries a literal value.
func (t Token) HasValue() bool {
	return t.Kind == NUMBER || t.Kind == STRING
}

// Same reports whether two tokens have the same kind and source text.
// Number tokens must be compared this way: NaN never equals itself.
func (t Token) Same(o Token) bool {
	return t.Kind == o.Kind && t.Lexeme == o.Lexeme
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span)
}
