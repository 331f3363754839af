package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"quill-lang/internal/ast"
	"strings"
	"testing"
)

// helper: write source to a temp file and return its path
func writeSource(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.q")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

// helper: run the root command with fresh flag values
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	tokensJSON, parseFormat, parseDecl = false, "", false
	checkIslands, islandsFormat = false, "text"
	cfgFile, verbose, colorMode = "", false, ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--color", "never"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTokensJSON(t *testing.T) {
	path := writeSource(t, "function f() { return 2.square(); }")
	stdout, _, err := run(t, "tokens", path, "--json")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	var out struct {
		Tokens []struct {
			Kind   string `json:"kind"`
			Lexeme string `json:"lexeme"`
			Value  string `json:"value"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(out.Tokens) == 0 || out.Tokens[0].Kind != "function" || out.Tokens[len(out.Tokens)-1].Kind != "EOF" {
		t.Errorf("unexpected tokens: %+v", out.Tokens)
	}
	if out.Tokens[0].Value != "" {
		t.Errorf("keyword carries a value: %+v", out.Tokens[0])
	}
	found := false
	for _, tok := range out.Tokens {
		if tok.Kind == "NUMBER" && tok.Value == "2" {
			found = true
		}
	}
	if !found {
		t.Errorf("NUMBER 2 not found: %+v", out.Tokens)
	}
}

func TestTokensText(t *testing.T) {
	path := writeSource(t, "let s = 'hi';")
	stdout, _, err := run(t, "tokens", path)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header and 6 rows, got %d:\n%s", len(lines), stdout)
	}
	if !strings.HasPrefix(lines[1], "let ") || strings.Contains(lines[1], `"`) {
		t.Errorf("keyword row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "STRING") || !strings.HasSuffix(lines[4], `"hi"`) {
		t.Errorf("string row = %q", lines[4])
	}
}

func TestTokensScanFailure(t *testing.T) {
	path := writeSource(t, "let s = 'abc")
	_, stderr, err := run(t, "tokens", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, want errDiagnostics", err)
	}
	if !strings.Contains(stderr, "unterminated string literal") {
		t.Errorf("stderr missing scan failure:\n%s", stderr)
	}
}

func TestCheckReportsDiagnostics(t *testing.T) {
	path := writeSource(t, "function foo( { return 1; }")
	stdout, stderr, err := run(t, "check", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, want errDiagnostics", err)
	}
	for _, want := range []string{"error: expected identifier, found '{'", path + ":1:15", "^"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if !strings.Contains(stdout, "1 problem in 1 declaration") {
		t.Errorf("summary = %q", stdout)
	}
}

func TestCheckIslands(t *testing.T) {
	path := writeSource(t, "junk ) function f() { return 1; } more junk")
	stdout, _, err := run(t, "check", path, "--islands")
	if err != nil {
		t.Fatalf("check --islands: %v", err)
	}
	if !strings.Contains(stdout, "ok (1 declaration)") {
		t.Errorf("summary = %q", stdout)
	}
}

func TestParseYAML(t *testing.T) {
	path := writeSource(t, "function f(a: int) { return a; }")
	stdout, _, err := run(t, "parse", path, "--format", "yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, want := range []string{"kind: File", "kind: FuncDecl", "kind: ReturnStmt", "diagnostics: []"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("yaml missing %q:\n%s", want, stdout)
		}
	}
}

func TestParseDeclJSON(t *testing.T) {
	path := writeSource(t, "actor A { }")
	stdout, _, err := run(t, "parse", path, "--decl")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, want errDiagnostics", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	node, _ := out["ast"].(map[string]interface{})
	if node["kind"] != "Error" {
		t.Errorf("ast = %v", node)
	}
}

func TestIslandsText(t *testing.T) {
	path := writeSource(t, "x function a() { }\ny query q { }")
	stdout, _, err := run(t, "islands", path)
	if err != nil {
		t.Fatalf("islands: %v", err)
	}
	for _, want := range []string{"function a() { }", "query q { }", ":2:3"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestParseInput(t *testing.T) {
	tree, diags := parseInput("1 + 2 * 3")
	if len(diags) != 0 || strings.TrimSpace(ast.Sexpr(tree)) != "(+ 1 (* 2 3))" {
		t.Errorf("expr: %s %v", ast.Sexpr(tree), diags)
	}
	tree, _ = parseInput("function f() { }")
	if !strings.HasPrefix(ast.Sexpr(tree), "(file (function f") {
		t.Errorf("decl: %s", ast.Sexpr(tree))
	}
}

func TestBadColorFlag(t *testing.T) {
	path := writeSource(t, "")
	_, _, err := run(t, "check", path, "--color", "sometimes")
	if err == nil || errors.Is(err, errDiagnostics) {
		t.Errorf("err = %v, want config error", err)
	}
}
