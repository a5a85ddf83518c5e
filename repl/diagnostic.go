// Copyright © 2024 The spreadlint authors

package repl

import (
	"github.com/luthersystems/spreadlint/diagnostic"
	"github.com/luthersystems/spreadlint/jsast"
	"github.com/luthersystems/spreadlint/lint"
)

// lintDiagToDiag converts a finding on the current input line for display.
func lintDiagToDiag(ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	switch ld.Severity {
	case lint.SeverityError:
		d.Severity = diagnostic.SeverityError
	case lint.SeverityInfo:
		d.Severity = diagnostic.SeverityNote
	}
	if ld.Pos.Line > 0 {
		span := diagnostic.Span{File: replFile, Line: ld.Pos.Line, Col: ld.Pos.Col}
		if ld.EndPos.Line == ld.Pos.Line && ld.EndPos.Col > ld.Pos.Col {
			span.EndCol = ld.EndPos.Col - 1
		}
		d.Spans = append(d.Spans, span)
	}
	d.Notes = append(d.Notes, ld.Notes...)
	return d
}

// syntaxErrorToDiag converts a parse failure of the current input line.
func syntaxErrorToDiag(err *jsast.SyntaxError) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  err.Msg,
	}
	if err.Pos.IsValid() {
		d.Spans = append(d.Spans, diagnostic.Span{
			File:  replFile,
			Line:  err.Pos.Line,
			Col:   err.Pos.Col,
			Label: "syntax error",
		})
	}
	return d
}
