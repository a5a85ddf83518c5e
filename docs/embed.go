// Copyright © 2024 The spreadlint authors

// Package docs embeds the long-form guide of each check for use by the CLI.
package docs

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed rules/*.md
var rules embed.FS

// Rule returns the markdown guide of the named check.
func Rule(name string) (string, bool) {
	b, err := rules.ReadFile("rules/" + name + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Rules returns the names of the checks that have a guide.
func Rules() []string {
	entries, err := fs.ReadDir(rules, "rules")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".md"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
