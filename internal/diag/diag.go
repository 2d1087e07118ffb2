// Package diag defines the diagnostic values accumulated by the lexer,
// parser, extractors, and merger. Diagnostics are returned alongside results,
// never thrown; callers decide which severities to treat as fatal.
package diag

import "fmt"

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Kind identifies which stage produced a diagnostic.
type Kind int

const (
	LexicalError Kind = iota
	SyntaxError
	ExtractionWarning
	MergeConflict
)

func (k Kind) String() string {
	switch k {
	case LexicalError:
		return "lexical"
	case SyntaxError:
		return "syntax"
	case ExtractionWarning:
		return "extraction"
	case MergeConflict:
		return "merge"
	default:
		return "unknown"
	}
}

// Diagnostic is one recoverable problem found while processing input.
// Line and Column are 1-based; zero means the position is not applicable
// (extraction and merge diagnostics usually carry no position).
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Line     int
	Column   int
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: %s at %d:%d: %s", d.Severity, d.Kind, d.Line, d.Column, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Kind, d.Message)
}

// Errorf builds an error-severity diagnostic with a position.
func Errorf(kind Kind, line, col int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	}
}

// Warnf builds a warning-severity diagnostic without a position.
func Warnf(kind Kind, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
	}
}

// HasErrors reports whether any diagnostic in ds is error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
