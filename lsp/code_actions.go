// Copyright © 2024 The spreadlint authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/spreadlint/jsast"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCodeAction handles the textDocument/codeAction request.
// Every lint diagnostic in the request gets two quick fixes: a trailing
// nolint comment and an eslint-disable-next-line comment above the line.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	// If the client only wants specific kinds, check we support them.
	if len(params.Context.Only) > 0 && !slicesContains(params.Context.Only, protocol.CodeActionKindQuickFix) {
		return nil, nil
	}

	doc.mu.Lock()
	content := doc.Content
	doc.mu.Unlock()

	var actions []protocol.CodeAction
	for _, diag := range params.Context.Diagnostics {
		if diag.Source == nil || *diag.Source != sourceLint || diag.Code == nil {
			continue
		}
		analyzer := fmt.Sprintf("%v", diag.Code.Value)
		if analyzer == "" {
			continue
		}
		actions = append(actions,
			suppressLintAction(params.TextDocument.URI, diag, analyzer, content),
			disableNextLineAction(params.TextDocument.URI, diag, analyzer, content))
	}

	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

// suppressLintAction creates a code action that adds a // nolint:analyzer
// comment to the end of the diagnostic line.
func suppressLintAction(uri string, diag protocol.Diagnostic, analyzer, content string) protocol.CodeAction {
	line := lineText(content, int(diag.Range.Start.Line))
	insertPos := protocol.Position{
		Line:      diag.Range.Start.Line,
		Character: safeUint(jsast.UTF16Len([]byte(line))),
	}
	return quickFix(
		fmt.Sprintf("Suppress with // nolint:%s", analyzer),
		uri, diag, insertPos, " // nolint:"+analyzer)
}

// disableNextLineAction creates a code action that inserts an
// eslint-disable-next-line comment above the diagnostic line, indented
// like it.
func disableNextLineAction(uri string, diag protocol.Diagnostic, analyzer, content string) protocol.CodeAction {
	line := lineText(content, int(diag.Range.Start.Line))
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	insertPos := protocol.Position{Line: diag.Range.Start.Line, Character: 0}
	return quickFix(
		fmt.Sprintf("Suppress with // eslint-disable-next-line %s", analyzer),
		uri, diag, insertPos, indent+"// eslint-disable-next-line "+analyzer+"\n")
}

func quickFix(title, uri string, diag protocol.Diagnostic, pos protocol.Position, text string) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	return protocol.CodeAction{
		Title:       title,
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {
					{
						Range:   protocol.Range{Start: pos, End: pos},
						NewText: text,
					},
				},
			},
		},
	}
}

// slicesContains checks if a string slice contains a value.
func slicesContains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
