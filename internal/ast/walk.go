package ast

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. If f returns false, the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, c := range Children(node) {
		Inspect(c, f)
	}
}

// Children returns the direct children of node in source order. Absent
// optional children are omitted.
func Children(node Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, n := range ns {
			if n != nil {
				out = append(out, n)
			}
		}
	}

	switch n := node.(type) {
	case *File:
		for _, d := range n.Decls {
			add(d)
		}
	case *FuncDecl:
		add(n.Name, n.Params)
		if n.Result != nil {
			add(n.Result)
		}
		add(n.Body)
	case *ParamList:
		for _, b := range n.List {
			add(b)
		}
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *Binding:
		add(n.Name)
		if n.Type != nil {
			add(n.Type)
		}
	case *LetStmt:
		add(n.Binding, n.Value)
	case *ReturnStmt:
		if n.Value != nil {
			add(n.Value)
		}
	case *ExprStmt:
		add(n.Expr)
	case *UnaryExpr:
		add(n.Operand)
	case *BinaryExpr:
		add(n.Left, n.Right)
	case *CallExpr:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *HandleType:
		for _, lt := range n.Lifetimes {
			add(lt)
		}
		add(n.Inner)
	}
	return out
}

// Errors collects every Error node under node, in source order.
func Errors(node Node) []*Error {
	var errs []*Error
	Inspect(node, func(n Node) bool {
		if e, ok := n.(*Error); ok {
			errs = append(errs, e)
		}
		return true
	})
	return errs
}
