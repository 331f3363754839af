package main

import (
	"quill-lang/internal/ast"
	"quill-lang/internal/diag"
	"quill-lang/internal/parser"

	"github.com/spf13/cobra"
)

var (
	parseFormat string
	parseDecl   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the AST and diagnostics of a file",
	Long: `Parse a file and print its syntax tree together with the diagnostics.

Nodes that failed to parse appear as "Error" nodes; the rest of the tree is
still complete.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "", "json or yaml (default from config)")
	parseCmd.Flags().BoolVar(&parseDecl, "decl", false, "parse a single declaration instead of a whole file")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	source, err := readSource(args[0])
	if err != nil {
		return err
	}

	var (
		node  ast.Node
		diags []diag.Diagnostic
	)
	if parseDecl {
		node, diags = parser.ParseDecl(source, parser.WithLogger(logger))
	} else {
		node, diags = parser.ParseFile(source, parser.WithLogger(logger))
	}

	format := cfg.Format
	if parseFormat != "" {
		format = parseFormat
	}
	output := map[string]interface{}{
		"ast":         ast.NodeToMap(node),
		"diagnostics": diagsToSlice(diags),
	}
	if err := printFormat(cmd.OutOrStdout(), format, output); err != nil {
		return err
	}

	if diag.HasErrors(diags) {
		return errDiagnostics
	}
	return nil
}
