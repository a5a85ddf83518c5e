// Copyright © 2024 The spreadlint authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/luthersystems/spreadlint/diagnostic"
	"github.com/luthersystems/spreadlint/jsast"
	"github.com/luthersystems/spreadlint/lint"
	"github.com/spf13/cobra"
)

// Exit codes of the lint command.
const (
	exitClean    = 0
	exitFindings = 1
	exitUsage    = 2
)

type lintFlags struct {
	json     bool
	checks   string
	list     bool
	excludes []string
	options  []string
	near     bool
	watch    bool
}

// lintStreams are the standard streams of one lint invocation.
type lintStreams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// LintCommand creates the "lint" cobra command. Embedders can pass
// WithAnalyzers to run their own checks.
func LintCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var flags lintFlags

	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Report Object.assign calls that object spread can replace",
		Long: `Run static analysis checks on JavaScript source files.

With no files, reads from stdin. With files, analyzes each file and reports
all findings to stderr. Arguments ending in "/..." expand to every .js, .mjs,
.cjs and .jsx file below the directory; node_modules is skipped.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation, unreadable file, or syntax error

To suppress a diagnostic, add a comment on the same line:
  Object.assign({}, a); // nolint:prefer-object-spread

or on the line above:
  // eslint-disable-next-line prefer-object-spread

Check options come from the config file (rules.<check>: [options]) and from
--option check=value, which may be repeated.

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  spreadlint lint app.js                                  # Lint a single file
  spreadlint lint --json src/...                          # Output diagnostics as JSON
  spreadlint lint --include-near-equivalents src/...      # Also report _.extend and $.extend
  spreadlint lint --option prefer-object-spread=includeNearEquivalents app.js
  spreadlint lint --exclude='dist' --exclude='*.min.js' ./...
  spreadlint lint --watch src/...                         # Re-lint on change
  cat app.js | spreadlint lint                            # Lint from stdin`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			code := runLint(ctx, cfg, &flags, args, lintStreams{
				stdin:  cmd.InOrStdin(),
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),
			})
			if code != exitClean {
				os.Exit(code)
			}
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().StringVar(&flags.checks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&flags.list, "list", false,
		"List available checks and exit.")
	cmd.Flags().StringArrayVar(&flags.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	cmd.Flags().StringArrayVar(&flags.options, "option", nil,
		"Check option as check=value (may be repeated).")
	cmd.Flags().BoolVar(&flags.near, "include-near-equivalents", false,
		"Shorthand for --option prefer-object-spread=includeNearEquivalents.")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false,
		"Keep running and re-lint files when they change.")

	return cmd
}

// runLint runs the lint command and returns its exit code.
func runLint(ctx context.Context, cfg *cmdConfig, flags *lintFlags, args []string, streams lintStreams) int {
	if flags.list {
		names := make([]string, 0)
		for _, a := range cfg.resolveAnalyzers() {
			names = append(names, a.Name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(streams.stdout, name) //nolint:errcheck // best-effort output
		}
		return exitClean
	}

	l, err := buildLinter(cfg, flags.checks, flags.options, flags.near)
	if err != nil {
		fmt.Fprintf(streams.stderr, "spreadlint lint: %v\n", err) //nolint:errcheck // best-effort output
		return exitUsage
	}

	run := &lintRun{
		linter:  l,
		json:    flags.json,
		streams: streams,
	}

	if len(args) == 0 {
		if flags.watch {
			fmt.Fprintln(streams.stderr, "spreadlint lint: --watch needs files to watch") //nolint:errcheck // best-effort output
			return exitUsage
		}
		src, err := io.ReadAll(streams.stdin)
		if err != nil {
			fmt.Fprintf(streams.stderr, "reading stdin: %v\n", err) //nolint:errcheck // best-effort output
			return exitUsage
		}
		run.renderer = newRenderer(cfg.resolveViper(), src)
		return run.report(run.lintSource(ctx, stdinName, src))
	}

	files, err := expandArgs(args, flags.excludes)
	if err != nil {
		fmt.Fprintln(streams.stderr, err) //nolint:errcheck // best-effort output
		return exitUsage
	}
	run.renderer = newRenderer(cfg.resolveViper(), nil)
	code := run.report(run.lintFiles(ctx, files))
	if !flags.watch {
		return code
	}

	logger := log.New(streams.stderr, "spreadlint: ", log.LstdFlags)
	fw, err := newFileWatcher(newWatchSet(args, flags.excludes))
	if err != nil {
		logger.Printf("watch: %v", err)
		return exitUsage
	}
	defer fw.Close() //nolint:errcheck // best-effort cleanup
	logger.Printf("watching %d directories, press Ctrl-C to stop", fw.dirs)
	fw.run(ctx, 100*time.Millisecond, logger, func(paths []string) {
		res := run.lintFiles(ctx, paths)
		run.report(res)
		for _, p := range paths {
			logger.Printf("%s: %d finding(s)", p, res.count(p))
		}
	})
	return exitClean
}

// lintRun holds the state shared by the lint passes of one invocation.
type lintRun struct {
	linter   *lint.Linter
	json     bool
	streams  lintStreams
	renderer *diagnostic.Renderer
}

// lintResult collects the findings of a pass and whether any input could
// not be linted.
type lintResult struct {
	diags  []lint.Diagnostic
	failed bool
}

func (r lintResult) count(file string) int {
	n := 0
	for _, d := range r.diags {
		if d.Pos.File == file {
			n++
		}
	}
	return n
}

func (r *lintRun) lintFiles(ctx context.Context, paths []string) lintResult {
	var res lintResult
	for _, path := range paths {
		src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
		if err != nil {
			fmt.Fprintln(r.streams.stderr, err) //nolint:errcheck // best-effort output
			res.failed = true
			continue
		}
		one := r.lintSource(ctx, path, src)
		res.diags = append(res.diags, one.diags...)
		res.failed = res.failed || one.failed
	}
	return res
}

func (r *lintRun) lintSource(ctx context.Context, name string, src []byte) lintResult {
	diags, err := r.linter.LintFileContext(ctx, src, name)
	var syntaxErr *jsast.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		_ = r.renderer.Render(r.streams.stderr, syntaxErrorToDiagnostic(syntaxErr))
		return lintResult{failed: true}
	case err != nil:
		fmt.Fprintln(r.streams.stderr, err) //nolint:errcheck // best-effort output
		return lintResult{failed: true}
	}
	return lintResult{diags: diags}
}

// report prints the findings and returns the exit code for them.
func (r *lintRun) report(res lintResult) int {
	if r.json {
		if err := lint.FormatJSON(r.streams.stdout, res.diags); err != nil {
			fmt.Fprintln(r.streams.stderr, err) //nolint:errcheck // best-effort output
			return exitUsage
		}
	} else if len(res.diags) > 0 {
		renderLintDiagnostics(r.streams.stderr, r.renderer, res.diags)
	}
	switch {
	case res.failed:
		return exitUsage
	case len(res.diags) > 0:
		return exitFindings
	default:
		return exitClean
	}
}

func init() {
	rootCmd.AddCommand(LintCommand())
}
