package main

import (
	"errors"
	"fmt"
	"io"
	"quill-lang/internal/diag"
	"quill-lang/internal/lexer"
	"quill-lang/internal/parser"
	"quill-lang/internal/span"
	"quill-lang/internal/token"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var tokensJSON bool

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the token stream of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	tokensCmd.Flags().BoolVar(&tokensJSON, "json", false, "print tokens as JSON")
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	source, err := readSource(args[0])
	if err != nil {
		return err
	}

	lines := span.NewLineIndex(source)
	tokens, scanErr := lexer.New(source).Tokenize()
	var diags []diag.Diagnostic
	if scanErr != nil {
		var se *lexer.ScanError
		if !errors.As(scanErr, &se) {
			return scanErr
		}
		diags = append(diags, parser.ScanDiagnostic(se, lines))
	}
	logger.Debug("tokenized", "file", args[0], "tokens", len(tokens))

	out := cmd.OutOrStdout()
	if tokensJSON {
		if err := printTokensJSON(out, tokens, lines, diags); err != nil {
			return err
		}
	} else {
		printTokensText(out, tokens, lines)
		printDiags(cmd.ErrOrStderr(), diags, source, args[0])
	}

	if len(diags) > 0 {
		return errDiagnostics
	}
	return nil
}

// ---- token output helpers ----

func printTokensText(w io.Writer, tokens []token.Token, lines *span.LineIndex) {
	st := newStyles(useColor())
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		st.kind.Inherit(st.header).Render("KIND"),
		st.lexeme.Inherit(st.header).Render("LEXEME"),
		st.header.Render("POS")))

	for _, tok := range tokens {
		pos := lines.Position(tok.Span.Start)
		kind := st.kind
		if tok.Kind.IsKeyword() {
			kind = st.keyword
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			kind.Render(tok.Kind.String()),
			st.lexeme.Render(clip(tok.Lexeme, 22)),
			st.muted.Render(fmt.Sprintf("%d:%d", pos.Line+1, pos.Character+1)))
		if v := tokenValue(tok); v != "" {
			row += "  " + v
		}
		fmt.Fprintln(w, row)
	}
}

func printTokensJSON(w io.Writer, tokens []token.Token, lines *span.LineIndex, diags []diag.Diagnostic) error {
	type tokenJSON struct {
		Kind   string `json:"kind"`
		Lexeme string `json:"lexeme"`
		Value  string `json:"value,omitempty"`
		Line   int    `json:"line"`
		Column int    `json:"character"`
		Start  int    `json:"start"`
		End    int    `json:"end"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		pos := lines.Position(tok.Span.Start)
		toks = append(toks, tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Value:  tokenValue(tok),
			Line:   pos.Line,
			Column: pos.Character,
			Start:  tok.Span.Start,
			End:    tok.Span.End,
		})
	}

	output := map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(diags),
	}
	return printJSON(w, output)
}

// tokenValue formats the literal value of NUMBER and STRING tokens.
func tokenValue(tok token.Token) string {
	if !tok.HasValue() {
		return ""
	}
	switch tok.Kind {
	case token.NUMBER:
		return strconv.FormatFloat(tok.Num, 'g', -1, 64)
	case token.STRING:
		return strconv.Quote(tok.Str)
	}
	return ""
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
