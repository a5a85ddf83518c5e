// Copyright © 2024 The spreadlint authors

package cmd

import (
	"io"
	"os"

	"github.com/luthersystems/spreadlint/diagnostic"
	"github.com/luthersystems/spreadlint/jsast"
	"github.com/luthersystems/spreadlint/lint"
	"github.com/spf13/viper"
)

const stdinName = "<stdin>"

func colorMode(v *viper.Viper) diagnostic.ColorMode {
	if mode := v.GetString("color"); mode != "" {
		return diagnostic.ParseColorMode(mode)
	}
	return diagnostic.ParseColorMode(colorFlag)
}

// newRenderer returns a renderer that shows source lines from disk, or
// from stdin when it was the input.
func newRenderer(v *viper.Viper, stdin []byte) *diagnostic.Renderer {
	return &diagnostic.Renderer{
		Color: colorMode(v),
		SourceReader: func(name string) ([]byte, error) {
			if name == stdinName {
				return stdin, nil
			}
			return os.ReadFile(name) //nolint:gosec // CLI tool reads user-specified files
		},
	}
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
func lintDiagToDiagnostic(ld lint.Diagnostic) diagnostic.Diagnostic {
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
		span := diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		}
		// Lint end positions are exclusive, rendered spans inclusive.
		if ld.EndPos.Line == ld.Pos.Line && ld.EndPos.Col > ld.Pos.Col {
			span.EndCol = ld.EndPos.Col - 1
		}
		d.Spans = append(d.Spans, span)
	}
	d.Notes = append(d.Notes, ld.Notes...)
	d.Notes = append(d.Notes, "to suppress: add \"// nolint:"+ld.Analyzer+"\" as a comment on this line")
	return d
}

// syntaxErrorToDiagnostic converts a parse failure for display.
func syntaxErrorToDiagnostic(err *jsast.SyntaxError) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  err.Msg,
	}
	if err.Pos.IsValid() {
		d.Spans = append(d.Spans, diagnostic.Span{
			File:  err.Filename,
			Line:  err.Pos.Line,
			Col:   err.Pos.Col,
			Label: "syntax error",
		})
	}
	d.Notes = append(d.Notes, "files with syntax errors are not linted")
	return d
}

// renderLintDiagnostics renders lint diagnostics with diagnostic formatting.
func renderLintDiagnostics(w io.Writer, r *diagnostic.Renderer, diags []lint.Diagnostic) {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	_ = r.RenderAll(w, ds)
}
