// Copyright © 2024 The spreadlint authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/luthersystems/spreadlint/astutil"
	"github.com/luthersystems/spreadlint/jsast"
	"github.com/luthersystems/spreadlint/mergecall"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// OptionIncludeNearEquivalents enables prefer-object-spread matching of
// utility-library merges that behave almost like Object.assign.
const OptionIncludeNearEquivalents = "includeNearEquivalents"

// AnalyzerPreferObjectSpread reports Object.assign calls whose target is an
// object literal. Such calls build a fresh object and read better as
// object spread: `Object.assign({}, a, b)` is `{ ...a, ...b }`.
var AnalyzerPreferObjectSpread = &Analyzer{
	Name:     "prefer-object-spread",
	Doc:      "Suggest object spread over Object.assign with an object literal target.\n\nCalls to `Object.assign` and lodash's `_.assign` whose first argument is an object literal (`{}` or `{ key: value }`) create a new object, which object spread (`{ ...source }`) expresses directly. With the `includeNearEquivalents` option the check also covers `_.extend`, `_.assignIn` and jQuery's `$.extend`, which copy inherited properties too. jQuery's deep form `$.extend(true, {}, source)` is never reported.",
	Severity: SeverityWarning,
	Options:  []string{OptionIncludeNearEquivalents},
	Run: func(pass *Pass) error {
		cfg := mergecall.Config{
			IncludeNearEquivalents: pass.Option(OptionIncludeNearEquivalents),
		}
		astutil.WalkCalls(pass.Program, func(call *jsast.CallExpression, _ int) {
			match, ok := mergecall.Evaluate(call, cfg)
			if !ok {
				return
			}
			d := Diagnostic{
				Pos:     positionOf(pass.Filename, match.Pos),
				EndPos:  positionOf(pass.Filename, match.End),
				Message: match.Message,
			}
			if match.Kind == mergecall.NearEquivalent {
				pass.ReportWithNotes(d, fmt.Sprintf("%s also copies inherited properties; object spread copies own properties only", match.Func))
				return
			}
			pass.Report(d)
		})
		return nil
	},
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerPreferObjectSpread,
	}
}

// LookupAnalyzer returns the default analyzer with the given name, or nil.
func LookupAnalyzer(name string) *Analyzer {
	for _, a := range DefaultAnalyzers() {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers:
// the name, the summary line, and accepted options.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		summary, _, _ := strings.Cut(a.Doc, "\n")
		b.WriteString(indent.String(wordwrap.String(summary, 72), 4))
		b.WriteString("\n")
		if len(a.Options) > 0 {
			fmt.Fprintf(&b, "    options: %s\n", strings.Join(a.Options, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// AnalyzerLongDoc returns the full documentation of a, word wrapped to width
// and indented by pad spaces.
func AnalyzerLongDoc(a *Analyzer, width int, pad uint) string {
	var b strings.Builder
	for i, para := range strings.Split(a.Doc, "\n\n") {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(indent.String(wordwrap.String(para, width), pad))
	}
	return b.String()
}
