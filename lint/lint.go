// Copyright © 2024 The spreadlint authors

// Package lint provides static analysis for JavaScript source files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives a parsed syntax tree and reports diagnostics. The framework
// handles parsing, option validation, running analyzers, suppression
// comments, collecting results, and formatting output.
//
// Analyzers are composable. Embedders can define custom checks alongside
// the built-in set.
package lint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/luthersystems/spreadlint/jsast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/luthersystems/spreadlint/lint"

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "prefer-object-spread").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Options lists the option strings the analyzer accepts, in the style of
	// an ESLint rule options array. Any other option is rejected by
	// ValidateOptions.
	Options []string

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Program is the parsed file.
	Program *jsast.Program

	// Source is the raw file content.
	Source []byte

	// Options are the option strings configured for this analyzer. They
	// have already been validated against Analyzer.Options.
	Options []string

	// diagnostics collects reported findings.
	diagnostics []Diagnostic
}

// Option reports whether the named option is set for this pass.
func (p *Pass) Option(name string) bool {
	for _, o := range p.Options {
		if o == name {
			return true
		}
	}
	return false
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic spanning a node.
func (p *Pass) Reportf(node jsast.Node, format string, args ...interface{}) {
	d := Diagnostic{
		Message: fmt.Sprintf(format, args...),
	}
	if node != nil {
		loc := node.Span()
		d.Pos = positionOf(p.Filename, loc.Start)
		d.EndPos = positionOf(p.Filename, loc.End)
	}
	p.Report(d)
}

func positionOf(file string, pos jsast.Position) Position {
	return Position{File: file, Line: pos.Line, Col: pos.Col}
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// EndPos is the end of the offending token, if known.
	EndPos Position `json:"end_pos"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line:col format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line:col: message
// (analyzer) with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer

	// Options maps analyzer names to their configured option strings.
	// Analyzers without an entry run with defaults.
	Options map[string][]string

	// Tracer records a span per file and per analyzer. When nil the tracer
	// of the global OpenTelemetry provider is used.
	Tracer trace.Tracer
}

// ValidateOptions checks that every configured option names a known
// analyzer and is accepted by it.
func (l *Linter) ValidateOptions() error {
	names := make([]string, 0, len(l.Options))
	for name := range l.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		opts := l.Options[name]
		a := l.analyzer(name)
		if a == nil {
			a = LookupAnalyzer(name)
		}
		if a == nil {
			errs = append(errs, fmt.Errorf("options for unknown check %q", name))
			continue
		}
		for _, opt := range opts {
			if !accepts(a, opt) {
				errs = append(errs, fmt.Errorf("check %s: invalid option %q (accepted: %v)", name, opt, a.Options))
			}
		}
	}
	return errors.Join(errs...)
}

func (l *Linter) analyzer(name string) *Analyzer {
	for _, a := range l.Analyzers {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func accepts(a *Analyzer, opt string) bool {
	for _, o := range a.Options {
		if o == opt {
			return true
		}
	}
	return false
}

func (l *Linter) tracer() trace.Tracer {
	if l.Tracer != nil {
		return l.Tracer
	}
	return otel.Tracer(tracerName)
}

// LintFile analyzes a single source file and returns all diagnostics.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	return l.LintFileContext(context.Background(), source, filename)
}

// LintFileContext parses and analyzes a source file. A file that does not
// parse cleanly yields a *jsast.SyntaxError and no diagnostics.
func (l *Linter) LintFileContext(ctx context.Context, source []byte, filename string) ([]Diagnostic, error) {
	ctx, span := l.tracer().Start(ctx, "lint.file",
		trace.WithAttributes(attribute.String("lint.file", filename)))
	defer span.End()

	prog, err := jsast.Parse(ctx, source, filename)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	diags, err := l.lintProgram(ctx, prog, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("lint.diagnostics", len(diags)))
	return diags, nil
}

// LintProgram analyzes an already parsed program. Hosts that keep the
// recovered tree of a file with syntax errors (such as the language
// server) use it to lint what did parse.
func (l *Linter) LintProgram(ctx context.Context, prog *jsast.Program, source []byte) ([]Diagnostic, error) {
	ctx, span := l.tracer().Start(ctx, "lint.file",
		trace.WithAttributes(attribute.String("lint.file", prog.Filename)))
	defer span.End()

	diags, err := l.lintProgram(ctx, prog, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("lint.diagnostics", len(diags)))
	return diags, nil
}

func (l *Linter) lintProgram(ctx context.Context, prog *jsast.Program, source []byte) ([]Diagnostic, error) {
	filename := prog.Filename
	var all []Diagnostic

	for _, analyzer := range l.Analyzers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		pass := &Pass{
			Analyzer: analyzer,
			Filename: filename,
			Program:  prog,
			Source:   source,
			Options:  l.Options[analyzer.Name],
		}
		_, aspan := l.tracer().Start(ctx, "lint.analyzer",
			trace.WithAttributes(attribute.String("lint.analyzer", analyzer.Name)))
		if err := analyzer.Run(pass); err != nil {
			aspan.RecordError(err)
			aspan.SetStatus(codes.Error, err.Error())
			aspan.End()
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		aspan.SetAttributes(attribute.Int("lint.diagnostics", len(pass.diagnostics)))
		aspan.End()

		// Set file on diagnostics that don't have one
		for i := range pass.diagnostics {
			if pass.diagnostics[i].Pos.File == "" {
				pass.diagnostics[i].Pos.File = filename
			}
		}
		all = append(all, pass.diagnostics...)
	}

	all = filterSuppressed(all, prog.Comments)

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].Pos, all[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})

	return all, nil
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}
