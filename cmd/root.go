// Copyright © 2024 The spreadlint authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spreadlint",
	Short: "spreadlint: prefer object spread over Object.assign",
	Long: `spreadlint reports JavaScript calls such as Object.assign({}, a) that build
a new object by merging into an object literal. Object spread ({ ...a })
expresses the same thing directly.

Getting started:
  spreadlint lint app.js          Lint a file
  spreadlint lint ./...           Lint every .js, .mjs, .cjs and .jsx file below .
  spreadlint lint --watch src/... Re-lint files as they change
  spreadlint rules                Describe the available checks
  spreadlint repl                 Lint lines of JavaScript interactively
  spreadlint lsp                  Start the language server

Configuration is read from .spreadlint.yaml in the current or home
directory, or from the file named by --config:

  color: auto
  rules:
    prefer-object-spread: [includeNearEquivalents]

Environment variables prefixed with SPREADLINT_ override the file, for
example SPREADLINT_COLOR=never.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.spreadlint.yaml or $HOME/.spreadlint.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configureViper(viper.GetViper(), cfgFile)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configureViper points v at the config file and the SPREADLINT_
// environment.
func configureViper(v *viper.Viper, file string) {
	if file != "" {
		// Use config file from the flag.
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".spreadlint")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("SPREADLINT")
	v.AutomaticEnv() // read in environment variables that match
}
