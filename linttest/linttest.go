// Copyright © 2024 The spreadlint authors

// Package linttest runs table-driven checks of a single analyzer against
// JavaScript snippets, in the manner of ESLint's RuleTester.
package linttest

import (
	"fmt"
	"os"
	"testing"

	"github.com/luthersystems/spreadlint/lint"
)

// Case is one snippet to lint.
type Case struct {
	// Name labels the subtest. When empty the code itself is used.
	Name string

	// Code is the JavaScript source.
	Code string

	// Options are the analyzer options to lint with.
	Options []string

	// Errors are the expected diagnostics, in source order. Valid cases
	// must leave it empty.
	Errors []Error
}

// Error is an expected diagnostic. Zero fields are not compared.
type Error struct {
	Message string
	Line    int
	Col     int
}

// RuleTester checks one analyzer.
type RuleTester struct {
	Analyzer *lint.Analyzer

	// Filename is reported in diagnostics. Default "test.js".
	Filename string
}

func (r *RuleTester) filename() string {
	if r.Filename == "" {
		return "test.js"
	}
	return r.Filename
}

func (r *RuleTester) linter(opts []string) *lint.Linter {
	l := &lint.Linter{Analyzers: []*lint.Analyzer{r.Analyzer}}
	if len(opts) > 0 {
		l.Options = map[string][]string{r.Analyzer.Name: opts}
	}
	return l
}

// Lint runs the analyzer over code with the given options.
func (r *RuleTester) Lint(t testing.TB, code string, opts ...string) []lint.Diagnostic {
	t.Helper()
	l := r.linter(opts)
	if err := l.ValidateOptions(); err != nil {
		t.Fatalf("invalid options %v: %v", opts, err)
	}
	diags, err := l.LintFile([]byte(code), r.filename())
	if err != nil {
		t.Fatalf("lint %q: %v", code, err)
	}
	return diags
}

// Run lints every valid case expecting no diagnostics and every invalid
// case expecting exactly its Errors. Each case runs as its own subtest so
// that all failures of a table are reported in one run.
func (r *RuleTester) Run(t *testing.T, valid, invalid []Case) {
	t.Helper()
	for _, c := range valid {
		c := c
		t.Run("valid/"+c.label(), func(t *testing.T) {
			if len(c.Errors) > 0 {
				t.Fatalf("valid case declares %d errors", len(c.Errors))
			}
			diags := r.Lint(t, c.Code, c.Options...)
			if len(diags) > 0 {
				r.dump(t, diags)
				t.Errorf("expected no diagnostics, got %d", len(diags))
			}
		})
	}
	for _, c := range invalid {
		c := c
		t.Run("invalid/"+c.label(), func(t *testing.T) {
			if len(c.Errors) == 0 {
				t.Fatalf("invalid case declares no errors")
			}
			diags := r.Lint(t, c.Code, c.Options...)
			if len(diags) != len(c.Errors) {
				r.dump(t, diags)
				t.Fatalf("expected %d diagnostics, got %d", len(c.Errors), len(diags))
			}
			for i, want := range c.Errors {
				if msg := mismatch(want, diags[i]); msg != "" {
					t.Errorf("diagnostic %d: %s", i, msg)
				}
			}
		})
	}
}

func (c Case) label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Code
}

func (r *RuleTester) dump(t testing.TB, diags []lint.Diagnostic) {
	log := NewLogger(t)
	defer log.Flush()
	lint.FormatText(log, diags)
}

func mismatch(want Error, got lint.Diagnostic) string {
	switch {
	case want.Message != "" && want.Message != got.Message:
		return fmt.Sprintf("message %q, want %q", got.Message, want.Message)
	case want.Line != 0 && want.Line != got.Pos.Line:
		return fmt.Sprintf("line %d, want %d", got.Pos.Line, want.Line)
	case want.Col != 0 && want.Col != got.Pos.Col:
		return fmt.Sprintf("column %d, want %d", got.Pos.Col, want.Col)
	}
	return ""
}

// BenchmarkFile returns a benchmark linting the file at path with a.
func BenchmarkFile(path string, a *lint.Analyzer, opts ...string) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		r := &RuleTester{Analyzer: a}
		l := r.linter(opts)
		b.SetBytes(int64(len(buf)))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := l.LintFile(buf, path); err != nil {
				b.Fatalf("lint failure: %v", err)
			}
		}
	}
}
