// Copyright © 2024 The spreadlint authors

package jsast

import (
	"context"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// SyntaxError reports the first ERROR or MISSING node tree-sitter produced.
// Parse still returns the recovered Program alongside it.
type SyntaxError struct {
	Filename string
	Pos      Position
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s:%s: %s", e.Filename, e.Pos, e.Msg)
}

// Parse parses JavaScript source into a Program.
//
// tree-sitter recovers from malformed input, so a non-nil Program is
// returned even when err is a *SyntaxError. Other errors (cancellation,
// parser failure) return a nil Program.
func Parse(ctx context.Context, src []byte, filename string) (*Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: parse canceled: %w", filename, err)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%s: tree-sitter parse failed: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	c := &converter{src: src, filename: filename}
	c.scan(root)

	prog := &Program{
		Filename: filename,
		Comments: c.comments,
		Loc:      c.span(root),
	}
	for _, child := range c.children(root) {
		prog.Body = append(prog.Body, c.convert(child))
	}
	if c.syntaxErr != nil {
		return prog, c.syntaxErr
	}
	return prog, nil
}

type converter struct {
	src       []byte
	filename  string
	comments  []*Comment
	syntaxErr *SyntaxError
}

// scan collects comments and the first syntax error in source order.
func (c *converter) scan(n *sitter.Node) {
	if n == nil {
		return
	}
	switch {
	case n.Type() == "comment":
		c.comments = append(c.comments, &Comment{Text: n.Content(c.src), Loc: c.span(n)})
		return
	case n.IsMissing():
		c.recordError(n, fmt.Sprintf("missing %s", n.Type()))
	case n.Type() == "ERROR":
		c.recordError(n, fmt.Sprintf("unexpected %s", excerpt(n.Content(c.src))))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c.scan(n.Child(i))
	}
}

func (c *converter) recordError(n *sitter.Node, msg string) {
	if c.syntaxErr != nil {
		return
	}
	c.syntaxErr = &SyntaxError{
		Filename: c.filename,
		Pos:      c.span(n).Start,
		Msg:      msg,
	}
}

// children returns the named, non-comment children of n.
func (c *converter) children(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func (c *converter) convertAll(nodes []*sitter.Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, c.convert(n))
	}
	return out
}

func (c *converter) convert(n *sitter.Node) Node {
	return c.convertExpr(n)
}

func (c *converter) convertExpr(n *sitter.Node) Expr {
	if n == nil {
		return nil
	}
	loc := c.span(n)
	switch n.Type() {
	case "identifier", "property_identifier", "shorthand_property_identifier":
		return &Identifier{Name: n.Content(c.src), Loc: loc}
	case "private_property_identifier":
		return &PrivateName{Name: n.Content(c.src), Loc: loc}
	case "parenthesized_expression":
		// Parentheses do not produce nodes in ESTree; neither do they here.
		if kids := c.children(n); len(kids) == 1 {
			return c.convertExpr(kids[0])
		}
	case "member_expression":
		return &MemberExpression{
			Object:   c.convertExpr(n.ChildByFieldName("object")),
			Property: c.convertExpr(n.ChildByFieldName("property")),
			Optional: hasChildOfType(n, "optional_chain"),
			Loc:      loc,
		}
	case "subscript_expression":
		return &MemberExpression{
			Object:   c.convertExpr(n.ChildByFieldName("object")),
			Property: c.convertExpr(n.ChildByFieldName("index")),
			Computed: true,
			Optional: hasChildOfType(n, "optional_chain"),
			Loc:      loc,
		}
	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if args == nil || args.Type() != "arguments" {
			// Tagged template: fn`...`.
			break
		}
		call := &CallExpression{
			Callee:   c.convertExpr(n.ChildByFieldName("function")),
			Optional: hasChildOfType(n, "optional_chain"),
			Loc:      loc,
		}
		for _, arg := range c.children(args) {
			call.Arguments = append(call.Arguments, c.convertExpr(arg))
		}
		return call
	case "object":
		obj := &ObjectExpression{Loc: loc}
		for _, prop := range c.children(n) {
			obj.Properties = append(obj.Properties, c.convertProperty(prop))
		}
		return obj
	case "spread_element":
		spread := &SpreadElement{Loc: loc}
		if kids := c.children(n); len(kids) > 0 {
			spread.Argument = c.convertExpr(kids[0])
		}
		return spread
	case "string":
		return &Literal{Kind: LiteralString, Raw: n.Content(c.src), Loc: loc}
	case "number":
		return &Literal{Kind: LiteralNumber, Raw: n.Content(c.src), Loc: loc}
	case "true", "false":
		return &Literal{Kind: LiteralBoolean, Raw: n.Content(c.src), Loc: loc}
	case "null":
		return &Literal{Kind: LiteralNull, Raw: n.Content(c.src), Loc: loc}
	case "undefined":
		return &Literal{Kind: LiteralUndefined, Raw: n.Content(c.src), Loc: loc}
	case "regex":
		return &Literal{Kind: LiteralRegExp, Raw: n.Content(c.src), Loc: loc}
	case "template_string":
		return &Literal{
			Kind:     LiteralTemplate,
			Raw:      n.Content(c.src),
			Children: c.convertAll(c.children(n)),
			Loc:      loc,
		}
	}
	return &Generic{
		Kind:     n.Type(),
		Children: c.convertAll(c.children(n)),
		Loc:      loc,
	}
}

func (c *converter) convertProperty(n *sitter.Node) Node {
	switch n.Type() {
	case "pair":
		key := n.ChildByFieldName("key")
		return &Property{
			Key:      c.convertExpr(key),
			Value:    c.convertExpr(n.ChildByFieldName("value")),
			Computed: key != nil && key.Type() == "computed_property_name",
			Loc:      c.span(n),
		}
	case "shorthand_property_identifier":
		id := c.convertExpr(n)
		return &Property{Key: id, Value: id, Loc: c.span(n)}
	}
	return c.convert(n)
}

func (c *converter) span(n *sitter.Node) Span {
	return Span{
		Start: c.position(n.StartByte(), n.StartPoint()),
		End:   c.position(n.EndByte(), n.EndPoint()),
	}
}

// position converts a tree-sitter byte offset and point (0-based row, byte
// column) into a Position with a 1-based UTF-16 column.
func (c *converter) position(offset uint32, pt sitter.Point) Position {
	end := int(offset)
	if end > len(c.src) {
		end = len(c.src)
	}
	lineStart := end - int(pt.Column)
	if lineStart < 0 {
		lineStart = 0
	}
	return Position{
		Line:   int(pt.Row) + 1,
		Col:    UTF16Len(c.src[lineStart:end]) + 1,
		Offset: int(offset),
	}
}

func hasChildOfType(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil && child.Type() == typ {
			return true
		}
	}
	return false
}

// UTF16Len returns the number of UTF-16 code units needed to encode b.
// Invalid UTF-8 bytes count as one unit each.
func UTF16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
		b = b[size:]
	}
	return n
}

func excerpt(s string) string {
	const limit = 20
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return fmt.Sprintf("%q", s)
}
