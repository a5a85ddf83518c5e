// Copyright © 2024 The spreadlint authors

// Package jsast defines a small tagged-union syntax tree for JavaScript.
//
// The tree is produced from a tree-sitter parse (see Parse) and keeps only
// the distinctions lint checks need: identifiers, member access, calls,
// object literals, spreads and literals each get their own variant, and
// every other syntactic form is a Generic node that still carries its
// children so that traversal reaches nested expressions.
package jsast

import "fmt"

// Position is a location in a source file. Line and Col are 1-based; Col
// counts UTF-16 code units, matching the columns reported by editors and
// ESLint. Offset is the 0-based byte offset.
type Position struct {
	Line   int `json:"line"`
	Col    int `json:"col"`
	Offset int `json:"offset"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// IsValid reports whether the position has been set.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Span is a half-open source range.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Node is implemented by every syntax tree variant.
type Node interface {
	// Span returns the source range covered by the node.
	Span() Span
	node()
}

// Expr is a Node that may appear in expression position.
type Expr interface {
	Node
	expr()
}

// Program is the root of a parsed file.
type Program struct {
	Filename string
	Body     []Node
	Comments []*Comment
	Loc      Span
}

// Identifier is a plain name: `Object`, `_`, `$`, or the property name in a
// non-computed member access.
type Identifier struct {
	Name string
	Loc  Span
}

// PrivateName is a `#field` class-private property name.
type PrivateName struct {
	Name string
	Loc  Span
}

// MemberExpression is `Object.Property`, `Object[Property]`, or the optional
// chain variants of both.
type MemberExpression struct {
	Object   Expr
	Property Expr
	Computed bool
	Optional bool
	Loc      Span
}

// CallExpression is `Callee(Arguments...)`.
type CallExpression struct {
	Callee    Expr
	Arguments []Expr
	Optional  bool
	Loc       Span
}

// ObjectExpression is an object literal: `{}` or `{ key: value, ... }`.
type ObjectExpression struct {
	Properties []Node
	Loc        Span
}

// Property is a single `key: value` pair, shorthand property or method in
// an object literal.
type Property struct {
	Key      Expr
	Value    Expr
	Computed bool
	Loc      Span
}

// SpreadElement is `...Argument` inside a call or literal.
type SpreadElement struct {
	Argument Expr
	Loc      Span
}

// LiteralKind tags the flavor of a Literal.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
	LiteralNull
	LiteralUndefined
	LiteralRegExp
	LiteralTemplate
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralString:
		return "string"
	case LiteralNumber:
		return "number"
	case LiteralBoolean:
		return "boolean"
	case LiteralNull:
		return "null"
	case LiteralUndefined:
		return "undefined"
	case LiteralRegExp:
		return "regexp"
	case LiteralTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// Literal is a primitive literal value. Raw holds the source text.
type Literal struct {
	Kind LiteralKind
	Raw  string
	// Children holds substitutions of template literals.
	Children []Node
	Loc      Span
}

// Generic is any syntactic form without a dedicated variant. Kind is the
// tree-sitter node type (e.g. "function_declaration", "binary_expression").
type Generic struct {
	Kind     string
	Children []Node
	Loc      Span
}

// Comment is a line or block comment.
type Comment struct {
	Text string
	Loc  Span
}

// Block reports whether the comment is a /* block */ comment.
func (c *Comment) Block() bool {
	return len(c.Text) >= 2 && c.Text[:2] == "/*"
}

// Body returns the comment text without its delimiters.
func (c *Comment) Body() string {
	text := c.Text
	switch {
	case len(text) >= 4 && text[:2] == "/*" && text[len(text)-2:] == "*/":
		return text[2 : len(text)-2]
	case len(text) >= 2 && text[:2] == "//":
		return text[2:]
	}
	return text
}

func (n *Program) Span() Span          { return n.Loc }
func (n *Identifier) Span() Span       { return n.Loc }
func (n *PrivateName) Span() Span      { return n.Loc }
func (n *MemberExpression) Span() Span { return n.Loc }
func (n *CallExpression) Span() Span   { return n.Loc }
func (n *ObjectExpression) Span() Span { return n.Loc }
func (n *Property) Span() Span         { return n.Loc }
func (n *SpreadElement) Span() Span    { return n.Loc }
func (n *Literal) Span() Span          { return n.Loc }
func (n *Generic) Span() Span          { return n.Loc }

func (*Program) node()          {}
func (*Identifier) node()       {}
func (*PrivateName) node()      {}
func (*MemberExpression) node() {}
func (*CallExpression) node()   {}
func (*ObjectExpression) node() {}
func (*Property) node()         {}
func (*SpreadElement) node()    {}
func (*Literal) node()          {}
func (*Generic) node()          {}

func (*Identifier) expr()       {}
func (*PrivateName) expr()      {}
func (*MemberExpression) expr() {}
func (*CallExpression) expr()   {}
func (*ObjectExpression) expr() {}
func (*SpreadElement) expr()    {}
func (*Literal) expr()          {}
func (*Generic) expr()          {}
