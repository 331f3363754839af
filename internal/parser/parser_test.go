package parser

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"quill-lang/internal/ast"
	"quill-lang/internal/diag"
	"quill-lang/internal/token"
	"reflect"
	"strings"
	"testing"
)

// helper: parse a declaration and fail the test on any diagnostic
func parseDeclOK(t *testing.T, source string) ast.Decl {
	t.Helper()
	decl, diags := ParseDecl(source)
	if len(diags) > 0 {
		t.Fatalf("parse errors: %v", diags)
	}
	return decl
}

// helper: parse an expression and fail the test on any diagnostic
func parseExprOK(t *testing.T, source string) ast.Expr {
	t.Helper()
	x, diags := ParseExpr(source)
	if len(diags) > 0 {
		t.Fatalf("parse errors: %v", diags)
	}
	return x
}

// helper: the block of a function declaration
func bodyOf(t *testing.T, decl ast.Decl) *ast.Block {
	t.Helper()
	fn, ok := decl.(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", decl)
	}
	block, ok := fn.Body.(*ast.Block)
	if !ok {
		t.Fatalf("expected Block body, got %T", fn.Body)
	}
	return block
}

func codes(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestParseFunction(t *testing.T) {
	decl := parseDeclOK(t, `function add(a: int, b: int): int { let c = a + b; return c; }`)
	want := "(function add (params (: a int) (: b int)) (-> int) (block (let c (+ a b)) (return c)))"
	if got := ast.Sexpr(decl); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestParseStatements(t *testing.T) {
	decl := parseDeclOK(t, `function f() { const k: int = 1; return; f(k); }`)
	block := bodyOf(t, decl)
	if len(block.Stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(block.Stmts))
	}
	let, ok := block.Stmts[0].(*ast.LetStmt)
	if !ok || !let.Const {
		t.Fatalf("expected const LetStmt, got %s", ast.Sexpr(block.Stmts[0]))
	}
	if ret, ok := block.Stmts[1].(*ast.ReturnStmt); !ok || ret.Value != nil {
		t.Errorf("expected bare return, got %s", ast.Sexpr(block.Stmts[1]))
	}
	if _, ok := block.Stmts[2].(*ast.ExprStmt); !ok {
		t.Errorf("expected ExprStmt, got %T", block.Stmts[2])
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"a && b || c", "(|| (&& a b) c)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"a == b != c", "(!= (== a b) c)"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"-a * b", "(* (- a) b)"},
		{"- -1", "(- (- 1))"},
		{"a || b && c == d + e * f", "(|| a (&& b (== c (+ d (* e f)))))"},
		{"'x' + \"y\"", `(+ "x" "y")`},
	}
	for _, tt := range tests {
		x := parseExprOK(t, tt.src)
		if got := ast.Sexpr(x); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestBinaryShape(t *testing.T) {
	x := parseExprOK(t, "1 + 2 * 3")
	bin, ok := x.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", x)
	}
	if bin.Op != token.PLUS {
		t.Errorf("expected '+', got %q", bin.Op)
	}
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Op != token.STAR {
		t.Fatalf("expected right '*', got %s", ast.Sexpr(bin.Right))
	}
	if bin.Span.Start != 0 || bin.Span.End != 9 {
		t.Errorf("span = %s, want 0..9", bin.Span)
	}
}

func TestCalls(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"2.square().square()", "(call square (call square 2))"},
		{"x.f(1, 2)", "(call f x 1 2)"},
		{"f(1)(2)", "(call (call f 1) 2)"},
		{"f()", "(call f)"},
		{"'s'.len()", `(call len "s")`},
		{"-x.abs()", "(- (call abs x))"},
		{"3.14.floor()", "(call floor 3.14)"},
	}
	for _, tt := range tests {
		x := parseExprOK(t, tt.src)
		if got := ast.Sexpr(x); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestUFCSDesugar(t *testing.T) {
	x := parseExprOK(t, "2.square().square()")
	outer, ok := x.(*ast.CallExpr)
	if !ok || !outer.UFCS {
		t.Fatalf("expected UFCS call, got %T", x)
	}
	if callee, ok := outer.Callee.(*ast.Ident); !ok || callee.Name != "square" {
		t.Errorf("callee = %s", ast.Sexpr(outer.Callee))
	}
	if len(outer.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(outer.Args))
	}
	inner, ok := outer.Args[0].(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected inner call, got %T", outer.Args[0])
	}
	if lit, ok := inner.Args[0].(*ast.NumberLit); !ok || lit.Value != 2 {
		t.Errorf("receiver = %s", ast.Sexpr(inner.Args[0]))
	}
	if outer.Span.Start != 0 || outer.Span.End != 19 {
		t.Errorf("span = %s, want 0..19", outer.Span)
	}
}

func TestDotWithoutCall(t *testing.T) {
	x, diags := ParseExpr("x.f")
	if len(diags) != 1 || diags[0].Code != codeExpectedToken {
		t.Fatalf("diags = %v", diags)
	}
	if !ast.IsError(x) {
		t.Errorf("expected Error, got %s", ast.Sexpr(x))
	}
}

func TestTrailingInput(t *testing.T) {
	x, diags := ParseExpr("1 2")
	if len(diags) != 1 || diags[0].Code != codeTrailing {
		t.Fatalf("diags = %v", diags)
	}
	if ast.Sexpr(x) != "1" {
		t.Errorf("expr = %s", ast.Sexpr(x))
	}
}

func TestHandleTypes(t *testing.T) {
	decl := parseDeclOK(t, `function f(h: unique handle<a, b> Counter, g: handle handle T) {}`)
	want := "(function f (params (: h (unique-handle <a b> Counter)) (: g (handle (handle T)))) (block))"
	if got := ast.Sexpr(decl); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestUnicodeBinding(t *testing.T) {
	decl := parseDeclOK(t, "function f() { let \u0301 = '\u00e9'; }")
	block := bodyOf(t, decl)
	let, ok := block.Stmts[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected LetStmt, got %T", block.Stmts[0])
	}
	name, ok := let.Binding.Name.(*ast.Ident)
	if !ok {
		t.Fatalf("expected Ident, got %T", let.Binding.Name)
	}
	if name.Name != "\u0301" {
		t.Errorf("name = %q, want U+0301", name.Name)
	}
	if lit, ok := let.Value.(*ast.StringLit); !ok || lit.Value != "\u00e9" {
		t.Errorf("value = %s", ast.Sexpr(let.Value))
	}
}

// ---- recovery ----

func TestRecoveryUnclosedParams(t *testing.T) {
	decl, diags := ParseDecl(`function foo( { return 1; }`)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Range.Start.Character != 14 {
		t.Errorf("diagnostic at %v, want character 14", diags[0].Range.Start)
	}
	fn, ok := decl.(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", decl)
	}
	if !ast.IsError(fn.Params) {
		t.Errorf("expected Error params, got %T", fn.Params)
	}
	block := bodyOf(t, decl)
	if got := ast.Sexpr(block); got != "(block (return 1))" {
		t.Errorf("body = %s", got)
	}
}

func TestRecoveryScanFailure(t *testing.T) {
	decl, diags := ParseDecl(`function f() { let s = 'abc; }`)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Code != "E1001" {
		t.Errorf("code = %s, want E1001", diags[0].Code)
	}
	if diags[0].Range.Start.Character != 23 {
		t.Errorf("diagnostic at %v, want the opening quote", diags[0].Range.Start)
	}
	if !ast.IsError(decl) {
		t.Errorf("expected Error, got %s", ast.Sexpr(decl))
	}
}

func TestRecoveryStatements(t *testing.T) {
	tests := []struct {
		src   string
		codes []string
		want  string
	}{
		{
			"function f() { let x = ; return x; }",
			[]string{codeExpectedExpr},
			"(function f (params) (block (error) (return x)))",
		},
		{
			"function f() { let x = 1 2; return x; }",
			[]string{codeExpectedToken},
			"(function f (params) (block (let x 1) (error) (return x)))",
		},
		{
			"function f() { 1 + ; g(); }",
			[]string{codeExpectedExpr},
			"(function f (params) (block (error) (call g)))",
		},
		{
			"function f() { let = 5; }",
			[]string{codeExpectedToken},
			"(function f (params) (block (let (error) 5)))",
		},
		{
			"function f() { x.; }",
			[]string{codeExpectedToken},
			"(function f (params) (block (error)))",
		},
		{
			"function f() { return 1 }",
			[]string{codeExpectedToken},
			"(function f (params) (block (return 1) (error)))",
		},
		{
			"function f(1, b) { }",
			[]string{codeExpectedToken},
			"(function f (params (error) b) (block))",
		},
		{
			"function f(h: handle<a, > T) { }",
			[]string{codeExpectedToken},
			"(function f (params (: h (handle <a (error)> T))) (block))",
		},
		{
			"function f(): { }",
			[]string{codeExpectedType},
			"(function f (params) (-> (error)) (block))",
		},
		{
			"function (a) { g(h(1, ), 2); }",
			[]string{codeExpectedToken},
			"(function (error) (params a) (block (call g (call h 1) 2)))",
		},
		{
			"function f() { g(1, 2; h(); }",
			[]string{codeExpectedToken},
			"(function f (params) (block (error) (call h)))",
		},
		{
			"function f() { g((1 +), 2); }",
			[]string{codeExpectedExpr},
			"(function f (params) (block (call g (error) 2)))",
		},
	}
	for _, tt := range tests {
		decl, diags := ParseDecl(tt.src)
		if got := codes(diags); !reflect.DeepEqual(got, tt.codes) {
			t.Errorf("%q: codes = %v, want %v (%v)", tt.src, got, tt.codes, diags)
		}
		if got := ast.Sexpr(decl); got != tt.want {
			t.Errorf("%q:\ngot  %s\nwant %s", tt.src, got, tt.want)
		}
	}
}

func TestParseFileRecovery(t *testing.T) {
	src := `actor A { } function f() { } struct S { x: int } function g(a) { return a; }`
	file, diags := ParseFile(src)
	if got := codes(diags); !reflect.DeepEqual(got, []string{codeExpectedDecl, codeExpectedDecl}) {
		t.Fatalf("codes = %v", got)
	}
	want := "(file (error) (function f (params) (block)) (error) (function g (params a) (block (return a))))"
	if got := ast.Sexpr(file); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if errs := ast.Errors(file); len(errs) != 2 || errs[0].Span.Start != 0 || errs[0].Span.End != 11 {
		t.Errorf("errors = %v", errs)
	}
}

func TestParseFileGarbage(t *testing.T) {
	file, diags := ParseFile(`} } function f() {}`)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	if got := ast.Sexpr(file); got != "(file (error) (function f (params) (block)))" {
		t.Errorf("file = %s", got)
	}
}

func TestEmptyInput(t *testing.T) {
	decl, diags := ParseDecl("")
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "end of input") {
		t.Fatalf("diags = %v", diags)
	}
	if !ast.IsError(decl) {
		t.Errorf("expected Error, got %T", decl)
	}

	file, diags := ParseFile("  \n ")
	if len(diags) != 0 || len(file.Decls) != 0 {
		t.Errorf("blank file: decls=%d diags=%v", len(file.Decls), diags)
	}
}

func TestWithRange(t *testing.T) {
	src := "junk ) function f() { return 1; } more junk"
	decl, diags := ParseDecl(src, WithRange(7, 33))
	if len(diags) != 0 {
		t.Fatalf("parse errors: %v", diags)
	}
	if decl.GetSpan().Start != 7 || decl.GetSpan().End != 33 {
		t.Errorf("span = %s, want 7..33", decl.GetSpan())
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ParseDecl("function foo( { }", WithLogger(logger))

	out := buf.String()
	for _, want := range []string{"recovery started", "recovered", "component=parser"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestConsumeInvariant(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(*InternalError); !ok {
			t.Errorf("expected *InternalError panic, got %v", r)
		}
	}()
	p := New("x")
	p.consume(token.LPAREN)
}

// ---- properties ----

var malformed = []string{
	"",
	")",
	"function",
	"function f(",
	"function f() { let",
	"function f() { return",
	"function f(a: unique) {}",
	"(((",
	"actor",
	"'",
	"function f() { x.; }",
	"function f() { let x = 'a\\",
	"function f(a b c) { } function g() { }",
	"struct { function } query command",
	"function f() { ; ; ; }",
	"function f() {{{ }}}",
}

func TestTotality(t *testing.T) {
	for _, src := range malformed {
		file, diags := ParseFile(src)
		for _, d := range file.Decls {
			if d == nil {
				t.Errorf("%q: nil declaration", src)
			}
		}
		if src != "" && len(file.Decls) > 0 && len(diags) == 0 {
			t.Errorf("%q: expected diagnostics", src)
		}
		if decl, _ := ParseDecl(src); decl == nil {
			t.Errorf("%q: nil ParseDecl result", src)
		}
		if x, _ := ParseExpr(src); x == nil {
			t.Errorf("%q: nil ParseExpr result", src)
		}
	}
}

func TestSpanContainment(t *testing.T) {
	sources := append([]string{
		`function add(a: int, b: int): int { let c = a + b; return c.double(); }`,
		`function f(h: unique handle<a> T) { g((1 + 2) * 3, -x); }`,
		`function foo( { return 1; }`,
		`actor A { } function f() { let x = 1 2; }`,
	}, malformed...)

	for _, src := range sources {
		file, _ := ParseFile(src)
		var check func(parent ast.Node)
		check = func(parent ast.Node) {
			for _, child := range ast.Children(parent) {
				if !parent.GetSpan().Contains(child.GetSpan()) {
					t.Errorf("%q: %T %s does not contain %T %s", src,
						parent, parent.GetSpan(), child, child.GetSpan())
				}
				check(child)
			}
		}
		check(file)
	}
}

func TestDeterminism(t *testing.T) {
	src := `actor A { } function f(a: handle<x> T) { let y = a.g(1,; return y; }`
	f1, d1 := ParseFile(src)
	f2, d2 := ParseFile(src)
	if ast.Sexpr(f1) != ast.Sexpr(f2) {
		t.Errorf("trees differ:\n%s\n%s", ast.Sexpr(f1), ast.Sexpr(f2))
	}
	if !reflect.DeepEqual(d1, d2) {
		t.Errorf("diagnostics differ:\n%v\n%v", d1, d2)
	}
}

func TestNodeToMapJSON(t *testing.T) {
	decl := parseDeclOK(t, `function f(x: handle T) { return NaN + x.g(); }`)
	data, err := json.Marshal(ast.NodeToMap(decl))
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"kind":"FuncDecl"`, `"kind":"HandleType"`, `"value":"NaN"`, `"ufcs":true`} {
		if !strings.Contains(s, want) {
			t.Errorf("json missing %s:\n%s", want, s)
		}
	}
}
