package main

import (
	"encoding/json"
	"fmt"
	"io"
	"quill-lang/internal/diag"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

func printYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("YAML encoding failed: %w", err)
	}
	return enc.Close()
}

func printFormat(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		return printJSON(w, v)
	case "yaml":
		return printYAML(w, v)
	}
	return fmt.Errorf("unknown format %q (want json or yaml)", format)
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = map[string]interface{}{
			"code":     d.Code,
			"severity": d.Severity.String(),
			"message":  d.Message,
			"source":   d.Source,
			"range": map[string]interface{}{
				"start": map[string]int{"line": d.Range.Start.Line, "character": d.Range.Start.Character},
				"end":   map[string]int{"line": d.Range.End.Line, "character": d.Range.End.Character},
			},
		}
	}
	return result
}

// printDiags renders every diagnostic to w, separated by blank lines.
func printDiags(w io.Writer, diags []diag.Diagnostic, source, name string) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintln(w, renderer().RenderAll(diags, source, name))
	fmt.Fprintln(w)
}

// ---- styles ----

type styles struct {
	header  lipgloss.Style
	kind    lipgloss.Style
	keyword lipgloss.Style
	lexeme  lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
	bad     lipgloss.Style
}

func newStyles(colored bool) styles {
	if !colored {
		plain := lipgloss.NewStyle()
		return styles{
			header:  plain,
			kind:    plain.Width(12),
			keyword: plain.Width(12),
			lexeme:  plain.Width(24),
			muted:   plain,
			ok:      plain,
			bad:     plain,
		}
	}
	return styles{
		header:  lipgloss.NewStyle().Bold(true).Underline(true),
		kind:    lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("#06B6D4")),
		keyword: lipgloss.NewStyle().Width(12).Bold(true).Foreground(lipgloss.Color("#A855F7")),
		lexeme:  lipgloss.NewStyle().Width(24),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		ok:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		bad:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
	}
}
