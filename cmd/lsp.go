// Copyright © 2024 The spreadlint authors

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/luthersystems/spreadlint/lsp"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	// Registers the commonlog backend used by the language server.
	_ "github.com/tliron/commonlog/simple"
)

// LSPCommand creates the "lsp" cobra command. Check options are read from
// the config file the same way the lint command reads them.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	var (
		stdio     bool
		port      int
		verbosity int
		logFile   string
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the spreadlint Language Server Protocol server",
		Long: `Start an LSP server for JavaScript source files.

The language server publishes spreadlint findings as diagnostics while you
edit, shows the documentation of the reporting check on hover, and offers
quick fixes that add a nolint or eslint-disable-next-line comment.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  spreadlint lsp                           Start with stdio transport
  spreadlint lsp --port 7998               Start with TCP on port 7998
  spreadlint lsp -v --log-file /tmp/sl.log Log requests to a file

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "spreadlint lsp --stdio" for .js files.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbosity, path)

			l, err := buildLinter(cfg, "", nil, false)
			if err != nil {
				fmt.Fprintf(os.Stderr, "spreadlint lsp: %v\n", err)
				os.Exit(exitUsage)
			}
			srv := lsp.New(lsp.WithLinter(l))

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.Printf("spreadlint LSP server listening on %s", addr)
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
				return
			}
			if err := srv.RunStdio(); err != nil {
				fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v",
		"Increase server log verbosity (may be repeated)")
	cmd.Flags().StringVar(&logFile, "log-file", "",
		"Write server logs to this file instead of stderr")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
