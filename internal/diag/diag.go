// Package diag provides diagnostic (error/warning) types for the front end.
package diag

import (
	"fmt"
	"quill-lang/internal/span"
)

// Source tags every diagnostic produced by this front end.
const Source = "quill"

// Severity indicates the severity of a diagnostic. The numbering matches the
// Language Server Protocol so diagnostics can be forwarded unchanged.
type Severity int

const (
	Error       Severity = 1
	Warning     Severity = 2
	Information Severity = 3
	Hint        Severity = 4
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Information:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic represents a front-end diagnostic message.
type Diagnostic struct {
	Range    span.Range `json:"range"`          // zero-based line/character range
	Severity Severity   `json:"severity"`       // LSP severity
	Message  string     `json:"message"`        // human-readable description
	Source   string     `json:"source"`         // always Source
	Code     string     `json:"code,omitempty"` // stable error code, e.g. "E2001"
	Span     span.Span  `json:"-"`              // absolute offsets behind Range
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	loc := fmt.Sprintf("%d:%d", d.Range.Start.Line+1, d.Range.Start.Character+1)
	return fmt.Sprintf("[%s] %s at %s: %s", d.Code, d.Severity, loc, d.Message)
}

// Errorf creates an error diagnostic at the given span.
func Errorf(code string, lines *span.LineIndex, s span.Span, format string, args ...interface{}) Diagnostic {
	return newDiagnostic(Error, code, lines, s, fmt.Sprintf(format, args...))
}

// Warningf creates a warning diagnostic at the given span.
func Warningf(code string, lines *span.LineIndex, s span.Span, format string, args ...interface{}) Diagnostic {
	return newDiagnostic(Warning, code, lines, s, fmt.Sprintf(format, args...))
}

func newDiagnostic(sev Severity, code string, lines *span.LineIndex, s span.Span, msg string) Diagnostic {
	return Diagnostic{
		Range:    lines.Range(s),
		Severity: sev,
		Message:  msg,
		Source:   Source,
		Code:     code,
		Span:     s,
	}
}

// HasErrors reports whether any diagnostic has Error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
