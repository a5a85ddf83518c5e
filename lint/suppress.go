// Copyright © 2024 The spreadlint authors

package lint

import (
	"strings"

	"github.com/luthersystems/spreadlint/jsast"
)

// lineDirective is the set of checks suppressed on one line.
type lineDirective struct {
	all   bool
	names map[string]bool
}

func (d *lineDirective) suppresses(analyzer string) bool {
	return d.all || d.names[analyzer]
}

// add records a directive. No names suppresses every check.
func (d *lineDirective) add(names []string) {
	if len(names) == 0 {
		d.all = true
		return
	}
	if d.names == nil {
		d.names = make(map[string]bool, len(names))
	}
	for _, n := range names {
		d.names[n] = true
	}
}

// filterSuppressed removes diagnostics on lines carrying a suppression
// comment:
//
//	Object.assign({}, a) // nolint
//	Object.assign({}, a) // nolint:prefer-object-spread
//	Object.assign({}, a) // eslint-disable-line prefer-object-spread
//	// eslint-disable-next-line prefer-object-spread
func filterSuppressed(diags []Diagnostic, comments []*jsast.Comment) []Diagnostic {
	lines := suppressedLines(comments)
	if len(lines) == 0 {
		return diags
	}
	var filtered []Diagnostic
	for _, d := range diags {
		if dir, ok := lines[d.Pos.Line]; ok && dir.suppresses(d.Analyzer) {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered
}

// suppressedLines maps line numbers to the directives that apply to them.
func suppressedLines(comments []*jsast.Comment) map[int]*lineDirective {
	lines := make(map[int]*lineDirective)
	for _, c := range comments {
		line, names, ok := parseDirective(c)
		if !ok {
			continue
		}
		dir, exists := lines[line]
		if !exists {
			dir = &lineDirective{}
			lines[line] = dir
		}
		dir.add(names)
	}
	return lines
}

// parseDirective recognizes a suppression comment and returns the line it
// applies to and the checks it names (none means all). A line comment may
// carry the directive after its own text:
//
//	Object.assign({}, a) // merge defaults // nolint:prefer-object-spread
func parseDirective(c *jsast.Comment) (line int, names []string, ok bool) {
	body := c.Body()
	if line, names, ok = directive(body, c); ok || c.Block() {
		return line, names, ok
	}
	for {
		i := strings.Index(body, "//")
		if i < 0 {
			return 0, nil, false
		}
		body = body[i+2:]
		if line, names, ok = directive(body, c); ok {
			return line, names, ok
		}
	}
}

func directive(body string, c *jsast.Comment) (line int, names []string, ok bool) {
	text := strings.TrimSpace(body)
	line = c.Loc.Start.Line

	switch {
	case strings.HasPrefix(text, "nolint"):
		rest := strings.TrimPrefix(text, "nolint")
		if rest == "" {
			return line, nil, true
		}
		if !strings.HasPrefix(rest, ":") {
			return 0, nil, false
		}
		return line, splitNames(strings.TrimPrefix(rest, ":"), ","), true
	case strings.HasPrefix(text, "eslint-disable-next-line"):
		rest := strings.TrimPrefix(text, "eslint-disable-next-line")
		if !separated(rest) {
			return 0, nil, false
		}
		return c.Loc.End.Line + 1, splitNames(rest, ","), true
	case strings.HasPrefix(text, "eslint-disable-line"):
		rest := strings.TrimPrefix(text, "eslint-disable-line")
		if !separated(rest) {
			return 0, nil, false
		}
		return line, splitNames(rest, ","), true
	}
	return 0, nil, false
}

// separated reports whether a directive keyword ends at a word boundary.
func separated(rest string) bool {
	return rest == "" || strings.ContainsAny(rest[:1], " \t\r\n")
}

// splitNames splits a directive's check list, dropping an ESLint-style
// "-- reason" suffix.
func splitNames(s, sep string) []string {
	if i := strings.Index(s, "--"); i >= 0 {
		s = s[:i]
	}
	var names []string
	for _, n := range strings.Split(s, sep) {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
