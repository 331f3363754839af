// Package ast defines the abstract syntax tree for quill.
//
// Nodes fall into four sorts (Decl, Stmt, Expr, TypeExpr) plus two
// structural pieces (ParamList, Body). The single *Error node belongs to
// every sort, so a production that fails still returns a value of the sort
// its caller expects.
package ast

import (
	"quill-lang/internal/diag"
	"quill-lang/internal/span"
	"quill-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Decl is the interface for top-level declarations.
type Decl interface {
	Node
	declNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// TypeExpr is the interface for type expressions.
type TypeExpr interface {
	Node
	typeNode()
}

// Params is a parenthesized parameter list or the Error that replaced it.
type Params interface {
	Node
	paramsNode()
}

// Body is a braced statement block or the Error that replaced it.
type Body interface {
	Node
	bodyNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// DeclBase is embedded by all declaration nodes.
type DeclBase struct{ NodeBase }

func (DeclBase) declNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// TypeBase is embedded by all type expression nodes.
type TypeBase struct{ NodeBase }

func (TypeBase) typeNode() {}

// ============================================================
// Error
// ============================================================

// Error stands in for a construct that failed to parse. Its span covers the
// offending token and every token discarded while recovering. One Error is
// created per diagnostic and shared unchanged by every enclosing production
// that gave up because of it; Errors never contain other nodes.
type Error struct {
	NodeBase
	Diag diag.Diagnostic
}

func (*Error) declNode()   {}
func (*Error) stmtNode()   {}
func (*Error) exprNode()   {}
func (*Error) typeNode()   {}
func (*Error) paramsNode() {}
func (*Error) bodyNode()   {}

// IsError reports whether n is an *Error.
func IsError(n Node) bool {
	_, ok := n.(*Error)
	return ok
}

// ============================================================
// File (root of a multi-declaration parse)
// ============================================================

// File represents a whole source buffer.
type File struct {
	NodeBase
	Decls []Decl
}

// ============================================================
// Declarations
// ============================================================

// FuncDecl represents: function name(params) [: Result] { body }.
type FuncDecl struct {
	DeclBase
	Name   Expr     // *Ident or *Error
	Params Params   // *ParamList or *Error
	Result TypeExpr // may be nil
	Body   Body     // *Block or *Error
}

// ParamList represents the parenthesized parameters of a function.
type ParamList struct {
	NodeBase
	List []*Binding
}

func (*ParamList) paramsNode() {}

// Block represents: { stmt; stmt; ... }.
type Block struct {
	NodeBase
	Stmts []Stmt
}

func (*Block) bodyNode() {}

// Binding is a parameter or local variable declaration site: name [: Type].
type Binding struct {
	NodeBase
	Name Expr     // *Ident or *Error
	Type TypeExpr // may be nil
}

// ============================================================
// Statements
// ============================================================

// LetStmt represents: let binding = value / const binding = value.
type LetStmt struct {
	StmtBase
	Const   bool
	Binding *Binding
	Value   Expr
}

// ReturnStmt represents: return [value].
type ReturnStmt struct {
	StmtBase
	Value Expr // may be nil
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// ============================================================
// Expressions
// ============================================================

// Ident represents an identifier reference.
type Ident struct {
	ExprBase
	Name string
}

// NumberLit represents a numeric literal. Raw keeps the source text; two
// literals should be compared by Raw, since Value may be NaN.
type NumberLit struct {
	ExprBase
	Raw   string
	Value float64
}

// StringLit represents a string literal with escapes decoded.
type StringLit struct {
	ExprBase
	Value string
}

// UnaryExpr represents a negation: -x.
type UnaryExpr struct {
	ExprBase
	Op      token.Kind
	Operand Expr
}

// BinaryExpr represents a binary operation: a + b, x == y.
type BinaryExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// CallExpr represents a call: f(a, b). A method-style call a.f(b) is
// desugared to f(a, b) with UFCS set.
type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
	UFCS   bool
}

// ============================================================
// Type expressions
// ============================================================

// NamedType represents a bare type name.
type NamedType struct {
	TypeBase
	Name string
}

// HandleType represents: [unique] handle [<a, b>] Inner.
type HandleType struct {
	TypeBase
	Unique    bool
	Lifetimes []Expr // each *Ident or *Error
	Inner     TypeExpr
}
