package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexpr renders a node as a single-line S-expression, e.g.
// (+ 1 (* 2 3)) or (call square (call square 2)). Error nodes print as
// (error). Intended for tests and the REPL, not for round-tripping.
func Sexpr(node Node) string {
	switch n := node.(type) {
	case nil:
		return "()"
	case *Error:
		return "(error)"
	case *File:
		parts := make([]string, len(n.Decls))
		for i, d := range n.Decls {
			parts[i] = Sexpr(d)
		}
		return list("file", parts...)

	case *Ident:
		return n.Name
	case *NumberLit:
		return n.Raw
	case *StringLit:
		return strconv.Quote(n.Value)
	case *UnaryExpr:
		return list(opStr(n.Op), Sexpr(n.Operand))
	case *BinaryExpr:
		return list(opStr(n.Op), Sexpr(n.Left), Sexpr(n.Right))
	case *CallExpr:
		parts := []string{Sexpr(n.Callee)}
		for _, a := range n.Args {
			parts = append(parts, Sexpr(a))
		}
		return list("call", parts...)

	case *ExprStmt:
		return Sexpr(n.Expr)
	case *LetStmt:
		head := "let"
		if n.Const {
			head = "const"
		}
		return list(head, Sexpr(n.Binding), Sexpr(n.Value))
	case *ReturnStmt:
		if n.Value == nil {
			return "(return)"
		}
		return list("return", Sexpr(n.Value))

	case *FuncDecl:
		parts := []string{Sexpr(n.Name), Sexpr(n.Params)}
		if n.Result != nil {
			parts = append(parts, list("->", Sexpr(n.Result)))
		}
		parts = append(parts, Sexpr(n.Body))
		return list("function", parts...)
	case *ParamList:
		parts := make([]string, len(n.List))
		for i, b := range n.List {
			parts[i] = Sexpr(b)
		}
		return list("params", parts...)
	case *Block:
		parts := make([]string, len(n.Stmts))
		for i, s := range n.Stmts {
			parts[i] = Sexpr(s)
		}
		return list("block", parts...)
	case *Binding:
		if n.Type == nil {
			return Sexpr(n.Name)
		}
		return list(":", Sexpr(n.Name), Sexpr(n.Type))

	case *NamedType:
		return n.Name
	case *HandleType:
		head := "handle"
		if n.Unique {
			head = "unique-handle"
		}
		var parts []string
		if len(n.Lifetimes) > 0 {
			lts := make([]string, len(n.Lifetimes))
			for i, lt := range n.Lifetimes {
				lts[i] = Sexpr(lt)
			}
			parts = append(parts, "<"+strings.Join(lts, " ")+">")
		}
		parts = append(parts, Sexpr(n.Inner))
		return list(head, parts...)
	}
	return fmt.Sprintf("(unknown %T)", node)
}

func list(head string, parts ...string) string {
	if len(parts) == 0 {
		return "(" + head + ")"
	}
	return "(" + head + " " + strings.Join(parts, " ") + ")"
}
