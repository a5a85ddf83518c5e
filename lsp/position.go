// Copyright © 2024 The spreadlint authors

package lsp

import (
	"net/url"
	"strings"

	"github.com/luthersystems/spreadlint/jsast"
	"github.com/luthersystems/spreadlint/lint"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// toLSPPosition converts a 1-based line and UTF-16 column to a 0-based
// LSP position. LSP 3.16 counts characters in UTF-16 code units too.
func toLSPPosition(line, col int) protocol.Position {
	return protocol.Position{
		Line:      safeUint(line - 1),
		Character: safeUint(col - 1),
	}
}

// lintRange converts the span of a lint diagnostic. Without an end
// position the range is empty.
func lintRange(d lint.Diagnostic) protocol.Range {
	start := toLSPPosition(d.Pos.Line, d.Pos.Col)
	end := start
	if d.EndPos.Line > 0 {
		end = toLSPPosition(d.EndPos.Line, d.EndPos.Col)
	}
	return protocol.Range{Start: start, End: end}
}

// syntaxErrorRange returns a one character range at the error position.
func syntaxErrorRange(err *jsast.SyntaxError) protocol.Range {
	start := toLSPPosition(err.Pos.Line, err.Pos.Col)
	end := start
	end.Character++
	return protocol.Range{Start: start, End: end}
}

// rangeContains reports whether pos falls inside r, end exclusive. An
// empty range contains only its start.
func rangeContains(r protocol.Range, pos protocol.Position) bool {
	if before(pos, r.Start) {
		return false
	}
	if r.Start == r.End {
		return pos == r.Start
	}
	return before(pos, r.End)
}

func before(a, b protocol.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	path, ok := strings.CutPrefix(uri, "file://")
	if !ok {
		return uri
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		return unescaped
	}
	return path
}

// lineText returns the 0-based line of content, or "".
func lineText(content string, line int) string {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line], "\r")
}
