// Copyright © 2024 The spreadlint authors

// Package repl implements an interactive playground that lints each
// entered line of JavaScript and renders the findings.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/spreadlint/diagnostic"
	"github.com/luthersystems/spreadlint/jsast"
	"github.com/luthersystems/spreadlint/lint"
)

// replFile is the file name findings are reported against.
const replFile = "<repl>"

type config struct {
	stdin  io.ReadCloser
	stderr io.WriteCloser
	linter *lint.Linter
	color  diagnostic.ColorMode
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithLinter sets the linter whose analyzers and options the session
// starts from. The session works on a copy of its options.
func WithLinter(l *lint.Linter) Option {
	return func(c *config) {
		c.linter = l
	}
}

// WithColor sets the color mode for rendered findings.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// RunRepl reads lines until EOF and lints each one.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}

	hist := historyPath()
	ensureHistoryFilePermissions(hist)

	sess := newSession(out, cfg.linter, cfg.color)
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       hist,
		HistorySearchFold: true,
		AutoComplete:      &inputCompleter{session: sess},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	fmt.Fprintln(out, "Enter JavaScript to lint it. Type .help for commands.") //nolint:errcheck // best-effort REPL output
	for {
		line, err := rl.ReadLine()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("repl: %w", err)
		}
		if !sess.eval(line) {
			return nil
		}
	}
}

// session holds the state of one REPL run.
type session struct {
	w        io.Writer
	linter   *lint.Linter
	renderer *diagnostic.Renderer
	source   string
}

func newSession(w io.Writer, base *lint.Linter, color diagnostic.ColorMode) *session {
	l := &lint.Linter{Analyzers: lint.DefaultAnalyzers()}
	if base != nil {
		l.Analyzers = base.Analyzers
		l.Tracer = base.Tracer
		l.Options = make(map[string][]string, len(base.Options))
		for name, opts := range base.Options {
			l.Options[name] = append([]string(nil), opts...)
		}
	}
	s := &session{w: w, linter: l}
	s.renderer = &diagnostic.Renderer{
		Color: color,
		SourceReader: func(string) ([]byte, error) {
			return []byte(s.source), nil
		},
	}
	return s
}

// eval handles one line of input. It returns false when the session
// should end.
func (s *session) eval(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	if strings.HasPrefix(line, ".") {
		return s.command(line)
	}

	s.source = line
	diags, err := s.linter.LintFileContext(context.Background(), []byte(line), replFile)
	var syntaxErr *jsast.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		_ = s.renderer.Render(s.w, syntaxErrorToDiag(syntaxErr))
	case err != nil:
		s.printf("error: %v\n", err)
	case len(diags) == 0:
		s.printf("no findings\n")
	default:
		ds := make([]diagnostic.Diagnostic, len(diags))
		for i, d := range diags {
			ds[i] = lintDiagToDiag(d)
		}
		_ = s.renderer.RenderAll(s.w, ds)
	}
	return true
}

var commands = []string{".exit", ".help", ".rules", ".set"}

func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".exit", ".quit":
		return false
	case ".help":
		s.printf(".rules                 list checks and their options\n")
		s.printf(".set <option> on|off   toggle a check option\n")
		s.printf(".exit                  leave the REPL\n")
	case ".rules":
		for _, a := range s.linter.Analyzers {
			s.printf("%s [%s]\n", a.Name, strings.Join(s.linter.Options[a.Name], ", "))
		}
	case ".set":
		if len(fields) != 3 || (fields[2] != "on" && fields[2] != "off") {
			s.printf("usage: .set <option> on|off\n")
			return true
		}
		if n := s.setOption(fields[1], fields[2] == "on"); n == 0 {
			s.printf("unknown option %q\n", fields[1])
			return true
		}
		s.printf("%s %s\n", fields[1], fields[2])
	default:
		s.printf("unknown command %q; type .help\n", fields[0])
	}
	return true
}

// setOption enables or disables opt on every analyzer that accepts it
// and returns how many analyzers were affected.
func (s *session) setOption(opt string, on bool) int {
	if s.linter.Options == nil {
		s.linter.Options = make(map[string][]string)
	}
	n := 0
	for _, a := range s.linter.Analyzers {
		if !contains(a.Options, opt) {
			continue
		}
		n++
		var kept []string
		for _, o := range s.linter.Options[a.Name] {
			if o != opt {
				kept = append(kept, o)
			}
		}
		if on {
			kept = append(kept, opt)
			sort.Strings(kept)
		}
		s.linter.Options[a.Name] = kept
	}
	return n
}

// optionNames returns every option accepted by the session's analyzers.
func (s *session) optionNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, a := range s.linter.Analyzers {
		for _, o := range a.Options {
			if !seen[o] {
				seen[o] = true
				names = append(names, o)
			}
		}
	}
	sort.Strings(names)
	return names
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.w, format, args...) //nolint:errcheck // best-effort REPL output
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".spreadlint_history")
}

// ensureHistoryFilePermissions creates the history file with mode 0600,
// or restricts an existing one to it.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // path is under the user's home
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0o600)
}
