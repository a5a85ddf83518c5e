// Copyright © 2024 The spreadlint authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/spreadlint/docs"
	"github.com/luthersystems/spreadlint/lint"
	"github.com/spf13/cobra"
)

// RulesCommand creates the "rules" cobra command, which prints the full
// documentation of each check.
func RulesCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var guide bool
	cmd := &cobra.Command{
		Use:   "rules [check...]",
		Short: "Describe the available checks and their options",
		Long: `Describe the available checks and their options.

With --guide, print the markdown guide of each check instead, with examples
of reported code and the object spread rewrite.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzers, err := selectAnalyzers(cfg.resolveAnalyzers(), strings.Join(args, ","))
			if err != nil {
				return err
			}
			if guide {
				return writeGuides(cmd.OutOrStdout(), analyzers)
			}
			writeRules(cmd.OutOrStdout(), analyzers)
			return nil
		},
	}
	cmd.Flags().BoolVar(&guide, "guide", false, "Print the markdown guide of each check.")
	return cmd
}

func writeRules(w io.Writer, analyzers []*lint.Analyzer) {
	for i, a := range analyzers {
		if i > 0 {
			fmt.Fprintln(w) //nolint:errcheck // best-effort output
		}
		fmt.Fprintf(w, "%s (%s)\n%s\n", a.Name, a.Severity, lint.AnalyzerLongDoc(a, 72, 4)) //nolint:errcheck // best-effort output
		if len(a.Options) > 0 {
			fmt.Fprintf(w, "\n    options: %s\n", strings.Join(a.Options, ", ")) //nolint:errcheck // best-effort output
		}
	}
}

func writeGuides(w io.Writer, analyzers []*lint.Analyzer) error {
	for i, a := range analyzers {
		guide, ok := docs.Rule(a.Name)
		if !ok {
			return fmt.Errorf("no guide for check %s", a.Name)
		}
		if i > 0 {
			fmt.Fprintln(w) //nolint:errcheck // best-effort output
		}
		fmt.Fprint(w, guide) //nolint:errcheck // best-effort output
	}
	return nil
}

func init() {
	rootCmd.AddCommand(RulesCommand())
}
