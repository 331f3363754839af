package main

import (
	"fmt"
	"quill-lang/internal/island"
	"quill-lang/internal/span"

	"github.com/spf13/cobra"
)

var islandsFormat string

var islandsCmd = &cobra.Command{
	Use:   "islands <file>",
	Short: "List the top-level declarations that look complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runIslands,
}

func init() {
	islandsCmd.Flags().StringVar(&islandsFormat, "format", "text", "text, json or yaml")
	rootCmd.AddCommand(islandsCmd)
}

func runIslands(cmd *cobra.Command, args []string) error {
	source, err := readSource(args[0])
	if err != nil {
		return err
	}
	islands := island.Scan(source)
	logger.Debug("islands", "file", args[0], "count", len(islands))

	out := cmd.OutOrStdout()
	if islandsFormat != "text" {
		return printFormat(out, islandsFormat, islands)
	}

	st := newStyles(useColor())
	lines := span.NewLineIndex(source)
	for i, isl := range islands {
		if i > 0 {
			fmt.Fprintln(out)
		}
		pos := lines.Position(isl.Span.Start)
		fmt.Fprintln(out, st.muted.Render(fmt.Sprintf("--> %s:%d:%d", args[0], pos.Line+1, pos.Character+1)))
		fmt.Fprintln(out, isl.Text)
	}
	return nil
}
