// Copyright © 2024 The spreadlint authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/spreadlint/mergecall"
)

// inputCompleter implements readline.AutoCompleter. It completes REPL
// commands, option names after .set, and the merge functions the checks
// know about.
type inputCompleter struct {
	session *session
}

func (c *inputCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed, back from the cursor to a separator.
	start := pos
	for start > 0 {
		ch := line[start-1]
		if strings.ContainsRune(" \t\n(,;{=", ch) {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	before := strings.TrimSpace(string(line[:start]))

	var pool []string
	switch {
	case before == "" && strings.HasPrefix(prefix, "."):
		pool = commands
	case before == ".set":
		pool = c.session.optionNames()
	case prefix != "" && !strings.HasPrefix(before, "."):
		pool = mergeFuncNames()
	}

	var result [][]rune
	for _, cand := range pool {
		if strings.HasPrefix(cand, prefix) && cand != prefix {
			result = append(result, []rune(cand[len(prefix):]))
		}
	}
	if len(result) == 0 {
		return nil, 0
	}
	return result, len(prefix)
}

func mergeFuncNames() []string {
	var names []string
	for _, k := range []mergecall.Kind{mergecall.Exact, mergecall.NearEquivalent} {
		for _, f := range mergecall.Funcs(k) {
			names = append(names, f.String())
		}
	}
	sort.Strings(names)
	return names
}
