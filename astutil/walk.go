// Copyright © 2024 The spreadlint authors

// Package astutil provides shared walking utilities and shape predicates
// for jsast syntax trees.
//
// These helpers are used by the lint and mergecall packages for traversing
// parsed JavaScript programs.
package astutil

import "github.com/luthersystems/spreadlint/jsast"

// Walk calls fn for every node in the tree, depth-first in source order.
// parent is nil for the root.
func Walk(root jsast.Node, fn func(node jsast.Node, parent jsast.Node, depth int)) {
	walkNode(root, nil, 0, fn)
}

func walkNode(node jsast.Node, parent jsast.Node, depth int, fn func(jsast.Node, jsast.Node, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	for _, child := range jsast.Children(node) {
		walkNode(child, node, depth+1, fn)
	}
}

// WalkCalls calls fn for every call expression in the tree. Outer calls are
// visited before calls nested in their callee or arguments.
func WalkCalls(root jsast.Node, fn func(call *jsast.CallExpression, depth int)) {
	Walk(root, func(node jsast.Node, _ jsast.Node, depth int) {
		if call, ok := node.(*jsast.CallExpression); ok {
			fn(call, depth)
		}
	})
}

// StaticMember reports whether callee has the exact shape
// `Identifier.Identifier` and returns both identifiers. Computed access
// (`a[b]`), private names, deeper chains (`a.b.c`) and non-identifier
// receivers (`f().x`, `this.x`) are rejected.
func StaticMember(callee jsast.Expr) (object, property *jsast.Identifier, ok bool) {
	member, isMember := callee.(*jsast.MemberExpression)
	if !isMember || member.Computed {
		return nil, nil, false
	}
	object, ok = member.Object.(*jsast.Identifier)
	if !ok {
		return nil, nil, false
	}
	property, ok = member.Property.(*jsast.Identifier)
	if !ok {
		return nil, nil, false
	}
	return object, property, true
}

// CalleeName returns the identifier name of a bare call `name(...)`, or "".
func CalleeName(call *jsast.CallExpression) string {
	if call == nil {
		return ""
	}
	if id, ok := call.Callee.(*jsast.Identifier); ok {
		return id.Name
	}
	return ""
}

// IsObjectLiteral reports whether e is syntactically an object literal,
// empty or populated.
func IsObjectLiteral(e jsast.Expr) bool {
	_, ok := e.(*jsast.ObjectExpression)
	return ok
}

// ArgCount returns the number of arguments in a call.
func ArgCount(call *jsast.CallExpression) int {
	if call == nil {
		return 0
	}
	return len(call.Arguments)
}

// FirstArg returns the first argument of call, or nil.
func FirstArg(call *jsast.CallExpression) jsast.Expr {
	if ArgCount(call) == 0 {
		return nil
	}
	return call.Arguments[0]
}
