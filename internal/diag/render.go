package diag

import (
	"fmt"
	"quill-lang/internal/span"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Renderer formats diagnostics as annotated source excerpts:
//
//	error: <message>
//	  --> <name>:<line>:<column>
//	   |
//	 1 | <line before>
//	 2 | <offending line>
//	   |     ^^^^
//	 3 | <line after>
type Renderer struct {
	Color   bool // emit ANSI colors
	Context bool // show the lines around the offending one
}

// Render formats d against source using colors when the terminal supports
// them.
func Render(d Diagnostic, source, name string) string {
	r := Renderer{Color: !color.NoColor, Context: true}
	return r.Render(d, source, name)
}

// Render formats a single diagnostic. Line and column numbers in the locator
// are one-based; the diagnostic itself stays zero-based.
func (r Renderer) Render(d Diagnostic, source, name string) string {
	header := r.paint(severityColor(d.Severity), color.Bold)
	gutter := r.paint(color.FgBlue)
	caret := r.paint(severityColor(d.Severity), color.Bold)

	lines := span.NewLineIndex(source)
	start, end := d.Range.Start, d.Range.End

	first, last := start.Line, start.Line
	if r.Context {
		if first > 0 {
			first--
		}
		if last+1 < lines.LineCount() {
			last++
		}
	}
	width := len(strconv.Itoa(last + 1))
	pad := strings.Repeat(" ", width)

	var out []string
	out = append(out, header(d.Severity.String()+":")+" "+d.Message)
	out = append(out, fmt.Sprintf("%s %s %s:%d:%d", pad, gutter("-->"), name, start.Line+1, start.Character+1))
	out = append(out, fmt.Sprintf("%s %s", pad, gutter("|")))

	for n := first; n <= last; n++ {
		text := lineText(lines, source, n)
		out = append(out, strings.TrimRight(fmt.Sprintf("%s %s", gutter(fmt.Sprintf("%*d |", width, n+1)), text), " "))
		if n != start.Line {
			continue
		}
		count := end.Character - start.Character
		if end.Line != start.Line {
			count = len(text) - start.Character
		}
		if count < 1 {
			count = 1
		}
		out = append(out, fmt.Sprintf("%s %s %s%s", pad, gutter("|"), indentFor(text, start.Character), caret(strings.Repeat("^", count))))
	}
	return strings.Join(out, "\n")
}

// RenderAll renders each diagnostic and separates them with a blank line.
func (r Renderer) RenderAll(diags []Diagnostic, source, name string) string {
	blocks := make([]string, len(diags))
	for i, d := range diags {
		blocks[i] = r.Render(d, source, name)
	}
	return strings.Join(blocks, "\n\n")
}

func (r Renderer) paint(attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	if r.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func severityColor(s Severity) color.Attribute {
	switch s {
	case Error:
		return color.FgRed
	case Warning:
		return color.FgYellow
	default:
		return color.FgCyan
	}
}

func lineText(lines *span.LineIndex, source string, n int) string {
	s, ok := lines.Line(source, n)
	if !ok {
		return ""
	}
	return source[s.Start:s.End]
}

// indentFor returns the whitespace that lines a caret up under text[col],
// keeping tabs so the terminal expands both lines alike.
func indentFor(text string, col int) string {
	if col > len(text) {
		col = len(text)
	}
	var b strings.Builder
	for _, ch := range text[:col] {
		if ch == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
