package main

import (
	"fmt"
	"quill-lang/internal/diag"
	"quill-lang/internal/island"
	"quill-lang/internal/parser"

	"github.com/spf13/cobra"
)

var checkIslands bool

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Report syntax errors in a file",
	Long: `Parse a file and render every diagnostic against its source.

With --islands, only the complete top-level declarations found by the
island scanner are parsed, each on its own; text between them is ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkIslands, "islands", false, "parse each extracted declaration separately")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	name := args[0]
	source, err := readSource(name)
	if err != nil {
		return err
	}

	var diags []diag.Diagnostic
	count := 0
	if checkIslands {
		for _, isl := range island.Scan(source) {
			_, d := parser.ParseDecl(source,
				parser.WithRange(isl.Span.Start, isl.Span.End),
				parser.WithLogger(logger))
			diags = append(diags, d...)
			count++
		}
	} else {
		file, d := parser.ParseFile(source, parser.WithLogger(logger))
		diags = d
		count = len(file.Decls)
	}
	logger.Debug("checked", "file", name, "declarations", count, "diagnostics", len(diags))

	printDiags(cmd.ErrOrStderr(), diags, source, name)

	st := newStyles(useColor())
	if len(diags) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), st.bad.Render(fmt.Sprintf("%s: %d %s in %d %s",
			name, len(diags), plural(len(diags), "problem"), count, plural(count, "declaration"))))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), st.ok.Render(fmt.Sprintf("%s: ok (%d %s)",
			name, count, plural(count, "declaration"))))
	}

	if diag.HasErrors(diags) {
		return errDiagnostics
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
