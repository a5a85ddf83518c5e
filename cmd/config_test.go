// Copyright © 2024 The spreadlint authors

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/spreadlint/diagnostic"
	"github.com/luthersystems/spreadlint/lint"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionFlags(t *testing.T) {
	got, err := parseOptionFlags([]string{
		"prefer-object-spread=includeNearEquivalents",
		" other = a ",
		"other=b",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"prefer-object-spread": {"includeNearEquivalents"},
		"other":                {"a", "b"},
	}, got)

	for _, bad := range []string{"novalue", "=x", "check=", ""} {
		_, err := parseOptionFlags([]string{bad})
		assert.Error(t, err, "%q", bad)
	}
}

func TestMergeRuleOptions(t *testing.T) {
	got := mergeRuleOptions(
		map[string][]string{"a": {"z", "x"}, "empty": nil},
		map[string][]string{"a": {"x", "y"}},
	)
	assert.Equal(t, map[string][]string{"a": {"x", "y", "z"}}, got)
}

func TestSelectAnalyzers(t *testing.T) {
	all := lint.DefaultAnalyzers()

	got, err := selectAnalyzers(all, "")
	require.NoError(t, err)
	assert.Equal(t, all, got)

	got, err = selectAnalyzers(all, " prefer-object-spread ,")
	require.NoError(t, err)
	assert.Equal(t, []*lint.Analyzer{lint.AnalyzerPreferObjectSpread}, got)

	_, err = selectAnalyzers(all, "b,a")
	require.Error(t, err)
	assert.Equal(t, "unknown check: a, b", err.Error())
}

func TestBuildLinter(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("rules:\n  prefer-object-spread: []\n")))

	l, err := buildLinter(newCmdConfig(WithViper(v)), "", nil, true)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"prefer-object-spread": {lint.OptionIncludeNearEquivalents},
	}, l.Options)

	l, err = buildLinter(newCmdConfig(WithViper(v)), "", nil, false)
	require.NoError(t, err)
	assert.Empty(t, l.Options, "an empty option list means defaults")
}

func TestBuildLinter_UnknownRuleInConfig(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("rules:\n  no-such-rule: [x]\n")))

	_, err := buildLinter(newCmdConfig(WithViper(v)), "", nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `options for unknown check "no-such-rule"`)
}

func TestConfigureViper_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: never\nrules:\n  prefer-object-spread:\n    - includeNearEquivalents\n"), 0o600))

	v := viper.New()
	configureViper(v, path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, path, v.ConfigFileUsed())
	assert.Equal(t, diagnostic.ColorNever, colorMode(v))
	assert.Equal(t, map[string][]string{
		"prefer-object-spread": {"includeNearEquivalents"},
	}, fileRuleOptions(v))
}

func TestConfigureViper_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".spreadlint.yaml"), []byte("color: always\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	v := viper.New()
	configureViper(v, "")
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, diagnostic.ColorAlways, colorMode(v))
}

func TestConfigureViper_Environment(t *testing.T) {
	t.Setenv("SPREADLINT_COLOR", "never")
	v := viper.New()
	configureViper(v, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, "never", v.GetString("color"))
}
