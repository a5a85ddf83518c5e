// Copyright © 2024 The spreadlint authors

package lsp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func lintDiag(line, start, end protocol.UInteger, code string) protocol.Diagnostic {
	sev := protocol.DiagnosticSeverityWarning
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: start},
			End:   protocol.Position{Line: line, Character: end},
		},
		Severity: &sev,
		Source:   strPtr(sourceLint),
		Code:     &protocol.IntegerOrString{Value: code},
		Message:  "Expected spread operator.",
	}
}

func codeActions(t *testing.T, s *Server, uri string, only []protocol.CodeActionKind, diags ...protocol.Diagnostic) []protocol.CodeAction {
	t.Helper()
	result, err := s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Context: protocol.CodeActionContext{
			Diagnostics: diags,
			Only:        only,
		},
	})
	require.NoError(t, err)
	if result == nil {
		return nil
	}
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	return actions
}

func actionByTitle(actions []protocol.CodeAction, title string) *protocol.CodeAction {
	for i := range actions {
		if actions[i].Title == title {
			return &actions[i]
		}
	}
	return nil
}

func TestCodeActionSuppressLint(t *testing.T) {
	s := New()
	src := "const a = {};\nconst b = Object.assign({}, a);\n"
	doc := openDoc(s, "file:///test/suppress.js", src)

	diag := lintDiag(1, 17, 23, "prefer-object-spread")
	actions := codeActions(t, s, doc.URI, nil, diag)
	require.Len(t, actions, 2)

	a := actionByTitle(actions, "Suppress with // nolint:prefer-object-spread")
	require.NotNil(t, a)
	assert.Equal(t, protocol.CodeActionKindQuickFix, *a.Kind)
	assert.Equal(t, []protocol.Diagnostic{diag}, a.Diagnostics)
	require.NotNil(t, a.Edit)
	edits := a.Edit.Changes[doc.URI]
	require.Len(t, edits, 1)
	assert.Equal(t, " // nolint:prefer-object-spread", edits[0].NewText)
	assert.Equal(t, protocol.Position{Line: 1, Character: 31}, edits[0].Range.Start)
	assert.Equal(t, edits[0].Range.Start, edits[0].Range.End)
}

func TestCodeActionSuppressLint_UTF16LineEnd(t *testing.T) {
	s := New()
	src := "const s = \"😀\"; Object.assign({}, s);"
	doc := openDoc(s, "file:///test/emoji.js", src)

	actions := codeActions(t, s, doc.URI, nil, lintDiag(0, 23, 29, "prefer-object-spread"))
	a := actionByTitle(actions, "Suppress with // nolint:prefer-object-spread")
	require.NotNil(t, a)
	edits := a.Edit.Changes[doc.URI]
	require.Len(t, edits, 1)
	assert.Equal(t, protocol.UInteger(37), edits[0].Range.Start.Character)
}

func TestCodeActionDisableNextLine(t *testing.T) {
	s := New()
	src := "function f(a) {\n\treturn Object.assign({}, a);\n}\n"
	doc := openDoc(s, "file:///test/next.js", src)

	actions := codeActions(t, s, doc.URI, nil, lintDiag(1, 15, 21, "prefer-object-spread"))
	a := actionByTitle(actions, "Suppress with // eslint-disable-next-line prefer-object-spread")
	require.NotNil(t, a)
	edits := a.Edit.Changes[doc.URI]
	require.Len(t, edits, 1)
	assert.Equal(t, "\t// eslint-disable-next-line prefer-object-spread\n", edits[0].NewText)
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, edits[0].Range.Start)
}

func TestCodeActionIgnoresOtherSources(t *testing.T) {
	s := New()
	doc := openDoc(s, "file:///test/syntax.js", "foo(;")

	syntax := lintDiag(0, 4, 5, "")
	syntax.Source = strPtr(sourceSyntax)
	syntax.Code = nil
	assert.Nil(t, codeActions(t, s, doc.URI, nil, syntax))

	noCode := lintDiag(0, 0, 3, "")
	noCode.Code = nil
	assert.Nil(t, codeActions(t, s, doc.URI, nil, noCode))
}

func TestCodeActionOnlyFilter(t *testing.T) {
	s := New()
	doc := openDoc(s, "file:///test/only.js", "Object.assign({}, a);")
	diag := lintDiag(0, 7, 13, "prefer-object-spread")

	assert.Nil(t, codeActions(t, s, doc.URI, []protocol.CodeActionKind{protocol.CodeActionKindRefactor}, diag))
	assert.Len(t, codeActions(t, s, doc.URI, []protocol.CodeActionKind{protocol.CodeActionKindQuickFix}, diag), 2)
}

func TestCodeActionUnknownDocument(t *testing.T) {
	s := New()
	assert.Nil(t, codeActions(t, s, "file:///missing.js", nil, lintDiag(0, 0, 1, "prefer-object-spread")))
}

func TestCodeActionFromPublishedDiagnostics(t *testing.T) {
	s := New()
	ctx, pub := capturingContext()
	uri := "file:///test/roundtrip.js"
	didOpen(t, s, ctx, uri, "_.assign({ a: 1 }, b);")

	diags := pub.last(t).Diagnostics
	require.Len(t, diags, 1)
	actions := codeActions(t, s, uri, nil, diags...)
	require.Len(t, actions, 2)
	for _, a := range actions {
		assert.Contains(t, a.Title, "prefer-object-spread")
	}
}

// applyEdit inserts edit into ASCII src.
func applyEdit(t *testing.T, src string, edit protocol.TextEdit) string {
	t.Helper()
	require.Equal(t, edit.Range.Start, edit.Range.End)
	lines := strings.SplitAfter(src, "\n")
	require.Greater(t, len(lines), int(edit.Range.Start.Line))
	line := lines[edit.Range.Start.Line]
	at := int(edit.Range.Start.Character)
	require.LessOrEqual(t, at, len(line))
	lines[edit.Range.Start.Line] = line[:at] + edit.NewText + line[at:]
	return strings.Join(lines, "")
}

func TestCodeActionsSuppressAfterTrailingComment(t *testing.T) {
	s := New()
	ctx, pub := capturingContext()
	uri := "file:///test/trailing.js"
	src := "const b = {};\nconst a = Object.assign({}, b); // merge defaults\n"
	didOpen(t, s, ctx, uri, src)

	diags := pub.last(t).Diagnostics
	require.Len(t, diags, 1)
	actions := codeActions(t, s, uri, nil, diags...)
	require.Len(t, actions, 2)
	for _, a := range actions {
		edits := a.Edit.Changes[uri]
		require.Len(t, edits, 1)
		fixed := applyEdit(t, src, edits[0])
		findings, err := s.linter.LintFile([]byte(fixed), "trailing.js")
		require.NoError(t, err)
		assert.Empty(t, findings, "%s:\n%s", a.Title, fixed)
	}
}
