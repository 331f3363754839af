// Command quill is the CLI entry point for the quill front end.
//
// Usage:
//
//	quill tokens  <file> [--json]            Print tokens
//	quill parse   <file> [--format json|yaml] Print AST and diagnostics
//	quill check   <file> [--islands]         Render diagnostics
//	quill islands <file> [--format text|json|yaml]
//	quill repl                               Start interactive REPL
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"quill-lang/internal/config"
	"quill-lang/internal/diag"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	colorMode string
)

// set up by the root command before any subcommand runs
var (
	cfg    *config.Config
	logger *slog.Logger
)

// errDiagnostics reports that the input had problems which were already
// printed; main exits non-zero without printing it again.
var errDiagnostics = errors.New("input has errors")

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Front end for the quill actor language",
	Long: `quill tokenizes and parses quill source files.

The parser recovers from syntax errors, so every command reports all
problems in a file in one run.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./quill.toml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "", "auto, always or never (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	if colorMode != "" {
		c.Color = colorMode
		if err := c.Validate(); err != nil {
			return err
		}
	}

	level, _ := c.Level()
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	cfg = c
	logger.Debug("config loaded", "path", cfgFile, "color", c.Color, "format", c.Format)
	return nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read file %s: %w", path, err)
	}
	return string(data), nil
}

// useColor applies the color setting to the terminal detection done by
// fatih/color.
func useColor() bool {
	return cfg.UseColor(!color.NoColor)
}

func renderer() diag.Renderer {
	return diag.Renderer{Color: useColor(), Context: cfg.Render.Context}
}
