// Copyright © 2024 The spreadlint authors

package cmd

import (
	"github.com/luthersystems/spreadlint/lint"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an exported command factory (LintCommand, LSPCommand,
// RulesCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	analyzers []*lint.Analyzer
	tracer    trace.Tracer
	viper     *viper.Viper
}

// WithAnalyzers replaces the built-in checks. Embedders use it to add
// their own analyzers next to lint.DefaultAnalyzers().
func WithAnalyzers(analyzers ...*lint.Analyzer) Option {
	return func(c *cmdConfig) { c.analyzers = analyzers }
}

// WithTracer sets the tracer the linter records spans with.
func WithTracer(t trace.Tracer) Option {
	return func(c *cmdConfig) { c.tracer = t }
}

// WithViper reads configuration from v instead of the global viper
// instance.
func WithViper(v *viper.Viper) Option {
	return func(c *cmdConfig) { c.viper = v }
}

func newCmdConfig(opts ...Option) *cmdConfig {
	cfg := &cmdConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

func (c *cmdConfig) resolveAnalyzers() []*lint.Analyzer {
	if len(c.analyzers) > 0 {
		return c.analyzers
	}
	return lint.DefaultAnalyzers()
}

func (c *cmdConfig) resolveViper() *viper.Viper {
	if c.viper != nil {
		return c.viper
	}
	return viper.GetViper()
}
