package ast

import (
	"math"
	"quill-lang/internal/span"
	"quill-lang/internal/token"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return m("File", n.Span, "decls", declSlice(n.Decls))
	case *Error:
		return m("Error", n.Span,
			"code", n.Diag.Code,
			"message", n.Diag.Message)

	// ---- Expressions ----
	case *Ident:
		return m("Ident", n.Span, "name", n.Name)
	case *NumberLit:
		return m("NumberLit", n.Span, "raw", n.Raw, "value", numberValue(n.Value))
	case *StringLit:
		return m("StringLit", n.Span, "value", n.Value)
	case *UnaryExpr:
		return m("UnaryExpr", n.Span, "op", opStr(n.Op), "operand", NodeToMap(n.Operand))
	case *BinaryExpr:
		return m("BinaryExpr", n.Span,
			"op", opStr(n.Op),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *CallExpr:
		result := m("CallExpr", n.Span,
			"callee", NodeToMap(n.Callee),
			"args", exprSlice(n.Args))
		if n.UFCS {
			result["ufcs"] = true
		}
		return result

	// ---- Statements ----
	case *ExprStmt:
		return m("ExprStmt", n.Span, "expr", NodeToMap(n.Expr))
	case *LetStmt:
		return m("LetStmt", n.Span,
			"isConst", n.Const,
			"binding", NodeToMap(n.Binding),
			"value", NodeToMap(n.Value))
	case *ReturnStmt:
		result := m("ReturnStmt", n.Span)
		if n.Value != nil {
			result["value"] = NodeToMap(n.Value)
		}
		return result

	// ---- Declarations ----
	case *FuncDecl:
		result := m("FuncDecl", n.Span,
			"name", NodeToMap(n.Name),
			"params", NodeToMap(n.Params),
			"body", NodeToMap(n.Body))
		if n.Result != nil {
			result["result"] = NodeToMap(n.Result)
		}
		return result
	case *ParamList:
		params := make([]interface{}, len(n.List))
		for i, b := range n.List {
			params[i] = NodeToMap(b)
		}
		return m("ParamList", n.Span, "params", params)
	case *Block:
		return m("Block", n.Span, "stmts", stmtSlice(n.Stmts))
	case *Binding:
		result := m("Binding", n.Span, "name", NodeToMap(n.Name))
		if n.Type != nil {
			result["type"] = NodeToMap(n.Type)
		}
		return result

	// ---- Types ----
	case *NamedType:
		return m("NamedType", n.Span, "name", n.Name)
	case *HandleType:
		result := m("HandleType", n.Span,
			"unique", n.Unique,
			"inner", NodeToMap(n.Inner))
		if len(n.Lifetimes) > 0 {
			result["lifetimes"] = exprSlice(n.Lifetimes)
		}
		return result

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": s.Start,
		"end":   s.End,
	}
}

func declSlice(decls []Decl) []interface{} {
	result := make([]interface{}, len(decls))
	for i, d := range decls {
		result[i] = NodeToMap(d)
	}
	return result
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}

// numberValue keeps NaN and the infinities representable in JSON.
func numberValue(v float64) interface{} {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return v
}

func opStr(kind token.Kind) string {
	return kind.String()
}
