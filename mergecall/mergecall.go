// Copyright © 2024 The spreadlint authors

// Package mergecall classifies JavaScript call expressions that merge
// objects (`Object.assign` and its utility-library relatives) and decides
// whether they can be written with object-spread syntax instead.
package mergecall

import (
	"sort"

	"github.com/luthersystems/spreadlint/astutil"
	"github.com/luthersystems/spreadlint/jsast"
)

// Message is the text of every diagnostic produced by Evaluate.
const Message = "Expected spread operator."

// Kind tags how closely a merge function matches Object.assign.
type Kind int

const (
	// Exact functions have Object.assign semantics.
	Exact Kind = iota + 1
	// NearEquivalent functions differ in minor ways, such as also copying
	// inherited properties. They are only matched when enabled.
	NearEquivalent
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case NearEquivalent:
		return "near-equivalent"
	default:
		return "unknown"
	}
}

// Func names a namespaced merge function, e.g. {"Object", "assign"}.
type Func struct {
	Object   string
	Property string
}

func (f Func) String() string {
	return f.Object + "." + f.Property
}

// specs is fixed at init and never written afterwards. $.assignIn is not
// listed: jQuery has no such method.
var specs = map[Func]Kind{
	{"Object", "assign"}: Exact,
	{"_", "assign"}:      Exact,
	{"_", "extend"}:      NearEquivalent,
	{"_", "assignIn"}:    NearEquivalent,
	{"$", "extend"}:      NearEquivalent,
}

// Lookup returns the kind of a merge function. Names are compared exactly.
func Lookup(object, property string) (Kind, bool) {
	k, ok := specs[Func{Object: object, Property: property}]
	return k, ok
}

// Funcs returns the recognized merge functions of the given kind, sorted
// by name.
func Funcs(kind Kind) []Func {
	var out []Func
	for f, k := range specs {
		if k == kind {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// Config holds the rule options resolved for one file.
type Config struct {
	// IncludeNearEquivalents also matches _.extend, _.assignIn and $.extend.
	IncludeNearEquivalents bool
}

// Diagnostic is a finding located at the property identifier of the callee.
type Diagnostic struct {
	Message string
	Func    Func
	Kind    Kind
	Pos     jsast.Position
	End     jsast.Position
}

// Evaluate decides whether call could be replaced with object spread.
//
// The callee must be `Identifier.Identifier` naming a known merge function
// (near-equivalents only when cfg enables them), and the call must either
// have no arguments or have an object literal as its first argument.
func Evaluate(call *jsast.CallExpression, cfg Config) (Diagnostic, bool) {
	if call == nil || call.Callee == nil {
		return Diagnostic{}, false
	}
	object, property, ok := astutil.StaticMember(call.Callee)
	if !ok {
		return Diagnostic{}, false
	}
	kind, ok := Lookup(object.Name, property.Name)
	if !ok {
		return Diagnostic{}, false
	}
	if kind == NearEquivalent && !cfg.IncludeNearEquivalents {
		return Diagnostic{}, false
	}
	if astutil.ArgCount(call) > 0 && !astutil.IsObjectLiteral(astutil.FirstArg(call)) {
		return Diagnostic{}, false
	}
	loc := property.Span()
	return Diagnostic{
		Message: Message,
		Func:    Func{Object: object.Name, Property: property.Name},
		Kind:    kind,
		Pos:     loc.Start,
		End:     loc.End,
	}, true
}
