// Copyright © 2024 The spreadlint authors

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/luthersystems/spreadlint/lint"
	"github.com/spf13/viper"
)

// fileRuleOptions returns the rules.<check> option lists from the config.
func fileRuleOptions(v *viper.Viper) map[string][]string {
	out := make(map[string][]string)
	for name, opts := range v.GetStringMapStringSlice("rules") {
		out[name] = opts
	}
	return out
}

// parseOptionFlags parses repeated --option check=value flags.
func parseOptionFlags(flags []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("invalid --option %q: want check=value", f)
		}
		out[name] = append(out[name], value)
	}
	return out, nil
}

// mergeRuleOptions combines option sets. Each option appears once per
// check, and checks with no options are dropped.
func mergeRuleOptions(sets ...map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for _, set := range sets {
		for name, opts := range set {
			for _, o := range opts {
				if !contains(out[name], o) {
					out[name] = append(out[name], o)
				}
			}
		}
	}
	for name := range out {
		sort.Strings(out[name])
	}
	return out
}

// buildLinter assembles a linter from the configured checks, the config
// file and the command line, and validates its options.
func buildLinter(cfg *cmdConfig, checks string, optionFlags []string, near bool) (*lint.Linter, error) {
	analyzers, err := selectAnalyzers(cfg.resolveAnalyzers(), checks)
	if err != nil {
		return nil, err
	}
	flagOpts, err := parseOptionFlags(optionFlags)
	if err != nil {
		return nil, err
	}
	sets := []map[string][]string{fileRuleOptions(cfg.resolveViper()), flagOpts}
	if near {
		sets = append(sets, map[string][]string{
			lint.AnalyzerPreferObjectSpread.Name: {lint.OptionIncludeNearEquivalents},
		})
	}
	l := &lint.Linter{
		Analyzers: analyzers,
		Options:   mergeRuleOptions(sets...),
		Tracer:    cfg.tracer,
	}
	if err := l.ValidateOptions(); err != nil {
		return nil, err
	}
	return l, nil
}

// selectAnalyzers filters analyzers by a comma-separated list of names.
func selectAnalyzers(analyzers []*lint.Analyzer, checks string) ([]*lint.Analyzer, error) {
	if checks == "" {
		return analyzers, nil
	}
	selected := make(map[string]bool)
	for _, name := range strings.Split(checks, ",") {
		if name = strings.TrimSpace(name); name != "" {
			selected[name] = true
		}
	}
	var filtered []*lint.Analyzer
	for _, a := range analyzers {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	if len(selected) > 0 {
		unknown := make([]string, 0, len(selected))
		for name := range selected {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown check: %s", strings.Join(unknown, ", "))
	}
	return filtered, nil
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
