// Copyright © 2024 The spreadlint authors

package lsp

import (
	"sync"
	"testing"
	"time"

	"github.com/luthersystems/spreadlint/jsast"
	"github.com/luthersystems/spreadlint/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// openDoc opens a document in the test server and returns it.
func openDoc(s *Server, uri, content string) *Document {
	return s.docs.Open(uri, 1, content)
}

// mockContext returns a minimal glsp.Context for testing.
func mockContext() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {},
	}
}

// published collects publishDiagnostics notifications. Debounced
// publishing happens on a timer goroutine, so access is locked.
type published struct {
	mu     sync.Mutex
	params []*protocol.PublishDiagnosticsParams
}

func (p *published) all() []*protocol.PublishDiagnosticsParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*protocol.PublishDiagnosticsParams(nil), p.params...)
}

func (p *published) last(t *testing.T) *protocol.PublishDiagnosticsParams {
	t.Helper()
	all := p.all()
	require.NotEmpty(t, all, "no diagnostics published")
	return all[len(all)-1]
}

// capturingContext returns a context that captures published diagnostics.
func capturingContext() (*glsp.Context, *published) {
	pub := &published{}
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				pub.mu.Lock()
				pub.params = append(pub.params, params.(*protocol.PublishDiagnosticsParams))
				pub.mu.Unlock()
			}
		},
	}
	return ctx, pub
}

func didOpen(t *testing.T, s *Server, ctx *glsp.Context, uri, text string) {
	t.Helper()
	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "javascript",
			Version:    1,
			Text:       text,
		},
	})
	require.NoError(t, err)
}

// --- Position conversion tests ---

func TestPositionConversion(t *testing.T) {
	t.Run("1-based to 0-based", func(t *testing.T) {
		pos := toLSPPosition(1, 1)
		assert.Equal(t, protocol.UInteger(0), pos.Line)
		assert.Equal(t, protocol.UInteger(0), pos.Character)
	})
	t.Run("multi-digit", func(t *testing.T) {
		pos := toLSPPosition(5, 10)
		assert.Equal(t, protocol.UInteger(4), pos.Line)
		assert.Equal(t, protocol.UInteger(9), pos.Character)
	})
	t.Run("zero values clamp", func(t *testing.T) {
		pos := toLSPPosition(0, 0)
		assert.Equal(t, protocol.UInteger(0), pos.Line)
		assert.Equal(t, protocol.UInteger(0), pos.Character)
	})
}

func TestLintRange(t *testing.T) {
	r := lintRange(lint.Diagnostic{
		Pos:    lint.Position{Line: 3, Col: 5},
		EndPos: lint.Position{Line: 3, Col: 11},
	})
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 4},
		End:   protocol.Position{Line: 2, Character: 10},
	}, r)

	empty := lintRange(lint.Diagnostic{Pos: lint.Position{Line: 1, Col: 2}})
	assert.Equal(t, empty.Start, empty.End)
}

func TestSyntaxErrorRange(t *testing.T) {
	r := syntaxErrorRange(&jsast.SyntaxError{Pos: jsast.Position{Line: 2, Col: 7}})
	assert.Equal(t, protocol.Position{Line: 1, Character: 6}, r.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 7}, r.End)
}

func TestRangeContains(t *testing.T) {
	r := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 7},
		End:   protocol.Position{Line: 0, Character: 13},
	}
	assert.True(t, rangeContains(r, protocol.Position{Line: 0, Character: 7}))
	assert.True(t, rangeContains(r, protocol.Position{Line: 0, Character: 12}))
	assert.False(t, rangeContains(r, protocol.Position{Line: 0, Character: 13}))
	assert.False(t, rangeContains(r, protocol.Position{Line: 1, Character: 8}))

	point := protocol.Range{Start: r.Start, End: r.Start}
	assert.True(t, rangeContains(point, r.Start))
	assert.False(t, rangeContains(point, protocol.Position{Line: 0, Character: 8}))
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/home/user/app.js", uriToPath("file:///home/user/app.js"))
	assert.Equal(t, "/home/user/my app.js", uriToPath("file:///home/user/my%20app.js"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
}

func TestSafeUint(t *testing.T) {
	assert.Equal(t, protocol.UInteger(0), safeUint(-3))
	assert.Equal(t, protocol.UInteger(42), safeUint(42))
}

// --- Document store ---

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()

	doc := store.Open("file:///a.js", 1, "Object.assign({}, a);")
	require.NotNil(t, doc)
	assert.NotNil(t, doc.prog)
	assert.Nil(t, doc.syntaxErr)
	assert.Same(t, doc, store.Get("file:///a.js"))

	changed := store.Change("file:///a.js", 2, "foo(;")
	assert.Same(t, doc, changed)
	assert.Equal(t, int32(2), changed.Version)
	assert.NotNil(t, changed.syntaxErr)
	assert.NotNil(t, changed.prog, "recovered tree kept")

	assert.Len(t, store.All(), 1)
	store.Close("file:///a.js")
	assert.Nil(t, store.Get("file:///a.js"))
	assert.Empty(t, store.All())
}

func TestDocumentStore_ChangeUnopened(t *testing.T) {
	store := NewDocumentStore()
	doc := store.Change("file:///new.js", 3, "f();")
	assert.Equal(t, "file:///new.js", doc.URI)
	assert.Same(t, doc, store.Get("file:///new.js"))
}

// --- Diagnostics ---

func TestDiagnosticsOnOpen_ValidCode(t *testing.T) {
	s := New()
	ctx, pub := capturingContext()
	didOpen(t, s, ctx, "file:///test/ok.js", "const x = { ...a, ...b };\n")

	p := pub.last(t)
	assert.Equal(t, "file:///test/ok.js", p.URI)
	assert.Empty(t, p.Diagnostics)
	assert.NotNil(t, p.Diagnostics, "clean documents publish an empty list")
}

func TestDiagnosticsOnOpen_Finding(t *testing.T) {
	s := New()
	ctx, pub := capturingContext()
	didOpen(t, s, ctx, "file:///test/merge.js", "const x = 1;\nconst y = Object.assign({}, x);\n")

	p := pub.last(t)
	require.Len(t, p.Diagnostics, 1)
	d := p.Diagnostics[0]
	assert.Equal(t, "Expected spread operator.", d.Message)
	assert.Equal(t, sourceLint, *d.Source)
	assert.Equal(t, "prefer-object-spread", d.Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *d.Severity)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 17},
		End:   protocol.Position{Line: 1, Character: 23},
	}, d.Range)
	require.NotNil(t, p.Version)
	assert.Equal(t, protocol.UInteger(1), *p.Version)
}

func TestDiagnosticsOnSyntaxError(t *testing.T) {
	s := New()
	ctx, pub := capturingContext()
	didOpen(t, s, ctx, "file:///test/bad.js", "Object.assign({}, a);\nfoo(;\n")

	p := pub.last(t)
	var syntax, lintDiags int
	for _, d := range p.Diagnostics {
		switch *d.Source {
		case sourceSyntax:
			syntax++
			assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
		case sourceLint:
			lintDiags++
		}
	}
	assert.Equal(t, 1, syntax)
	assert.Equal(t, 1, lintDiags, "the parsed part is still linted")
}

func TestDiagnostics_LinterOptions(t *testing.T) {
	l := &lint.Linter{
		Analyzers: lint.DefaultAnalyzers(),
		Options:   map[string][]string{"prefer-object-spread": {lint.OptionIncludeNearEquivalents}},
	}
	s := New(WithLinter(l))
	ctx, pub := capturingContext()
	didOpen(t, s, ctx, "file:///test/jq.js", "$.extend({}, a);")

	p := pub.last(t)
	require.Len(t, p.Diagnostics, 1)
	assert.Contains(t, p.Diagnostics[0].Message, "Expected spread operator.\n$.extend also copies inherited properties")
}

func TestDiagnosticsOnChange_Debounced(t *testing.T) {
	s := New(WithDebounce(10 * time.Millisecond))
	ctx, pub := capturingContext()
	uri := "file:///test/change.js"
	didOpen(t, s, ctx, uri, "const a = {};\n")
	require.Len(t, pub.all(), 1)

	for i, text := range []string{"Object.assign(", "Object.assign({}", "Object.assign({}, a);\n"} {
		err := s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
				Version:                protocol.Integer(i + 2),
			},
			ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: text}},
		})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		all := pub.all()
		last := all[len(all)-1]
		return last.Version != nil && *last.Version == 4
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, pub.last(t).Diagnostics, 1)
}

func TestDiagnosticsOnSave_Immediate(t *testing.T) {
	s := New(WithDebounce(time.Hour))
	ctx, pub := capturingContext()
	uri := "file:///test/save.js"
	didOpen(t, s, ctx, uri, "f();")

	err := s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "_.assign({}, a);"}},
	})
	require.NoError(t, err)
	assert.Len(t, pub.all(), 1, "change is debounced")

	err = s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	p := pub.last(t)
	assert.Len(t, p.Diagnostics, 1)

	s.debounceMu.Lock()
	_, pending := s.debounce[uri]
	s.debounceMu.Unlock()
	assert.False(t, pending)
}

func TestDiagnosticsOnClose_Cleared(t *testing.T) {
	s := New()
	ctx, pub := capturingContext()
	uri := "file:///test/close.js"
	didOpen(t, s, ctx, uri, "Object.assign({}, a);")
	require.Len(t, pub.last(t).Diagnostics, 1)

	err := s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	p := pub.last(t)
	assert.Equal(t, uri, p.URI)
	assert.Empty(t, p.Diagnostics)
	assert.Nil(t, s.docs.Get(uri))
}

func TestMapLintSeverity(t *testing.T) {
	assert.Equal(t, protocol.DiagnosticSeverityError, mapLintSeverity(lint.SeverityError))
	assert.Equal(t, protocol.DiagnosticSeverityWarning, mapLintSeverity(lint.SeverityWarning))
	assert.Equal(t, protocol.DiagnosticSeverityInformation, mapLintSeverity(lint.SeverityInfo))
	assert.Equal(t, protocol.DiagnosticSeverityWarning, mapLintSeverity(lint.Severity(0)))
}

// --- Lifecycle ---

func TestInitialize(t *testing.T) {
	s := New()
	root := "file:///workspace"
	result, err := s.initialize(mockContext(), &protocol.InitializeParams{RootURI: &root})
	require.NoError(t, err)
	res, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, serverName, res.ServerInfo.Name)
	assert.Equal(t, "/workspace", s.rootPath)
	syncOpts, ok := res.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, *syncOpts.Change)
	assert.NotNil(t, res.Capabilities.CodeActionProvider)
	assert.NotNil(t, res.Capabilities.HoverProvider)
}

func TestShutdownAndExit(t *testing.T) {
	s := New(WithDebounce(time.Hour))
	ctx, _ := capturingContext()
	uri := "file:///test/exit.js"
	didOpen(t, s, ctx, uri, "f();")
	require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "g();"}},
	}))

	require.NoError(t, s.shutdown(ctx))
	assert.Empty(t, s.debounce)

	code := -1
	s.exitFn = func(c int) { code = c }
	require.NoError(t, s.exit(ctx))
	assert.Equal(t, 0, code)
}

// --- Hover ---

func TestHoverOnFinding(t *testing.T) {
	s := New()
	ctx, _ := capturingContext()
	uri := "file:///test/hover.js"
	didOpen(t, s, ctx, uri, "Object.assign({}, a);")

	hover, err := s.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 9},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Equal(t, protocol.MarkupKindMarkdown, content.Kind)
	assert.Contains(t, content.Value, "`prefer-object-spread`")
	assert.Contains(t, content.Value, "Suggest object spread")
	require.NotNil(t, hover.Range)
	assert.Equal(t, protocol.UInteger(7), hover.Range.Start.Character)
}

func TestHoverOutsideFinding(t *testing.T) {
	s := New()
	ctx, _ := capturingContext()
	uri := "file:///test/hover.js"
	didOpen(t, s, ctx, uri, "Object.assign({}, a);")

	hover, err := s.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 2},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)

	hover, err = s.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.js"},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)
}
