// Copyright © 2024 The spreadlint authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Renderer formats diagnostics as Rust-style annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	for _, span := range d.Spans {
		r.writeSpan(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s note: %s\n", p.noteSev.Sprint("="), note)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	sev := p.errSev
	switch d.Severity {
	case SeverityWarning:
		sev = p.warnSev
	case SeverityNote:
		sev = p.noteSev
	}
	ew.printf("%s %s\n", sev.Sprint(d.Severity.String()+":"), p.bold.Sprint(d.Message))
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
		if span.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
		}
	}
	ew.printf("  %s %s\n", p.gutter.Sprint("-->"), p.location.Sprint(loc))

	source, ok := r.readSourceLine(span.File, span.Line)
	if !ok {
		ew.printf("   %s\n", p.gutter.Sprint("|"))
		return
	}

	lineStr := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(lineStr))
	bar := p.gutter.Sprint(pad + " |")

	ew.printf(" %s\n", bar)
	ew.printf(" %s  %s\n", p.gutter.Sprint(lineStr+" |"), strings.ReplaceAll(source, "\t", "    "))

	col := span.Col
	if col <= 0 {
		col = 1
	}
	endCol := span.EndCol
	if endCol <= 0 {
		endCol = detectEndCol(source, col)
	}
	if endCol < col {
		endCol = col
	}

	start := byteOffset(source, col)
	end := byteOffset(source, endCol+1)
	underLen := displayWidth(source[start:end])
	if underLen == 0 {
		underLen = 1
	}

	ew.printf(" %s  %s%s", bar, strings.Repeat(" ", displayWidth(source[:start])), p.caret.Sprint(strings.Repeat("^", underLen)))
	if span.Label != "" {
		ew.printf(" %s", p.caret.Sprint(span.Label))
	}
	ew.print("\n")
	ew.printf(" %s\n", bar)
}

func (r *Renderer) readSourceLine(file string, line int) (string, bool) {
	if line <= 0 || file == "" {
		return "", false
	}
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil {
		return "", false
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return strings.TrimSuffix(scanner.Text(), "\r"), true
		}
	}
	return "", false
}

// byteOffset returns the byte offset in s of the 1-based UTF-16 column col,
// clamped to len(s).
func byteOffset(s string, col int) int {
	units := 0
	for i, ch := range s {
		if units >= col-1 {
			return i
		}
		units += utf16Len(ch)
	}
	return len(s)
}

// detectEndCol returns the inclusive end column of the token starting at
// col: an identifier, or else a single character.
func detectEndCol(source string, col int) int {
	start := byteOffset(source, col)
	if start >= len(source) {
		return col
	}
	first, size := utf8.DecodeRuneInString(source[start:])
	if !isIdentRune(first) {
		return col + utf16Len(first) - 1
	}
	units := utf16Len(first)
	for _, ch := range source[start+size:] {
		if !isIdentRune(ch) {
			break
		}
		units += utf16Len(ch)
	}
	return col + units - 1
}

func isIdentRune(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// utf16Len returns the UTF-16 code units of ch. Invalid runes count as one.
func utf16Len(ch rune) int {
	if r1, _ := utf16.EncodeRune(ch); r1 != unicode.ReplacementChar {
		return 2
	}
	return 1
}

// displayWidth returns the display width of a string, expanding tabs to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter extracts the *os.File behind w for terminal detection.
// Returns nil if the writer is not a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
