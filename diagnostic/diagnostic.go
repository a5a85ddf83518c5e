// Copyright © 2024 The spreadlint authors

// Package diagnostic renders lint findings and JavaScript syntax errors as
// annotated source snippets for the lint and repl commands. It does not
// import the parser or the lint framework.
package diagnostic

// Severity mirrors the lint severities plus a note level for syntax
// error context.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span is the source region underlined for a finding, usually the property
// identifier of a call such as Object.assign. Columns count UTF-16 code
// units, matching ESLint and LSP positions.
type Span struct {
	File   string // .js path, "<stdin>" or "<repl>"; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based inclusive end column (0 = end of the identifier at Col)
	Label  string // text shown under the underline
}

// Diagnostic is one rendered finding with its source spans and trailing
// "= note:" lines such as suppression hints.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}
