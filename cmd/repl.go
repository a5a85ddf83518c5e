// Copyright © 2024 The spreadlint authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/luthersystems/spreadlint/repl"
	"github.com/spf13/cobra"
)

// ReplCommand creates the "repl" cobra command.
func ReplCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	return &cobra.Command{
		Use:   "repl",
		Short: "Lint lines of JavaScript interactively",
		Long: `Start an interactive session that lints each line you enter.

Check options from the config file apply and can be toggled with .set.
Line editing, completion and command history (~/.spreadlint_history) are
supported via readline. Use Ctrl-D or .exit to leave.

Example session:
  spreadlint> Object.assign({}, defaults, opts);
  warning: Expected spread operator. (prefer-object-spread)
    --> <repl>:1:8
  ...
  spreadlint> .set includeNearEquivalents on
  includeNearEquivalents on
  spreadlint> const b = { ...a };
  no findings`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			l, err := buildLinter(cfg, "", nil, false)
			if err != nil {
				fmt.Fprintf(os.Stderr, "spreadlint repl: %v\n", err)
				os.Exit(exitUsage)
			}
			err = repl.RunRepl(filepath.Base(os.Args[0])+"> ",
				repl.WithLinter(l),
				repl.WithColor(colorMode(cfg.resolveViper())))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

func init() {
	rootCmd.AddCommand(ReplCommand())
}
