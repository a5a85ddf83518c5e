// Copyright © 2024 The spreadlint authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/spreadlint/lint"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request. Hovering a
// flagged token shows the documentation of the check that reported it.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	doc.mu.Lock()
	findings := doc.findings
	doc.mu.Unlock()

	for _, d := range findings {
		rng := lintRange(d)
		if !rangeContains(rng, params.Position) {
			continue
		}
		content := buildHoverContent(d, s.lookupAnalyzer(d.Analyzer))
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: content,
			},
			Range: &rng,
		}, nil
	}
	return nil, nil
}

func (s *Server) lookupAnalyzer(name string) *lint.Analyzer {
	for _, a := range s.linter.Analyzers {
		if a.Name == name {
			return a
		}
	}
	return lint.LookupAnalyzer(name)
}

// buildHoverContent builds Markdown hover text for a finding.
func buildHoverContent(d lint.Diagnostic, a *lint.Analyzer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`\n\n%s", d.Severity, d.Analyzer, d.Message)
	for _, n := range d.Notes {
		fmt.Fprintf(&sb, "\n\n%s", n)
	}
	if a != nil && a.Doc != "" {
		fmt.Fprintf(&sb, "\n\n---\n\n%s", a.Doc)
	}
	return sb.String()
}
