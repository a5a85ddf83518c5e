// Copyright © 2024 The spreadlint authors

package jsast

// Children returns the direct children of n in source order. Nil children
// (absent optional parts) are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c == nil {
			return
		}
		out = append(out, c)
	}
	switch n := n.(type) {
	case *Program:
		for _, c := range n.Body {
			add(c)
		}
	case *MemberExpression:
		add(n.Object)
		add(n.Property)
	case *CallExpression:
		add(n.Callee)
		for _, a := range n.Arguments {
			add(a)
		}
	case *ObjectExpression:
		for _, p := range n.Properties {
			add(p)
		}
	case *Property:
		add(n.Key)
		if n.Value != n.Key {
			add(n.Value)
		}
	case *SpreadElement:
		add(n.Argument)
	case *Literal:
		for _, c := range n.Children {
			add(c)
		}
	case *Generic:
		for _, c := range n.Children {
			add(c)
		}
	}
	return out
}
