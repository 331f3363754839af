package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"quill-lang/internal/ast"
	"quill-lang/internal/diag"
	"quill-lang/internal/lexer"
	"quill-lang/internal/parser"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive parser session",
	Long: `Read declarations or expressions and print their syntax tree.

Input starting with a declaration keyword is parsed as declarations; anything
else is parsed as one expression. Unbalanced braces continue the input on the
next line.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// ---- repl command ----

func runRepl(cmd *cobra.Command, args []string) error {
	// history lives in ~/.quill_history
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".quill_history")
	}

	colored := useColor()
	paint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if !colored {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
		return c.SprintFunc()
	}
	green, gray, cyan := paint(color.FgGreen), paint(color.FgHiBlack), paint(color.FgCyan, color.Bold)

	prompt := green("quill> ")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s %s\n\n", cyan("quill REPL"), gray("(type 'exit' or Ctrl+D to quit)"))

	var accumulated strings.Builder
	braceDepth := 0

	for {
		// prompt reflects multi-line state
		if braceDepth > 0 {
			rl.SetPrompt(gray("...    "))
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if braceDepth > 0 {
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s\n", gray("(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			return nil
		}

		if braceDepth == 0 && strings.TrimSpace(line) == "exit" {
			return nil
		}

		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		tree, diags := parseInput(source)
		fmt.Fprintln(rl.Stdout(), ast.Sexpr(tree))
		if len(diags) > 0 {
			fmt.Fprintln(rl.Stderr(), renderer().RenderAll(diags, source, "<repl>"))
		}
	}
}

// parseInput parses declarations when the input starts with a declaration
// keyword, and a single expression otherwise.
func parseInput(source string) (ast.Node, []diag.Diagnostic) {
	first, _ := lexer.New(source).Next()
	if first.Kind.IsDeclStart() {
		return parser.ParseFile(source, parser.WithLogger(logger))
	}
	return parser.ParseExpr(source, parser.WithLogger(logger))
}
