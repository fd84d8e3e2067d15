package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"themedl/pkg/config"
	"themedl/pkg/logger"
	"themedl/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFile    string
	noColor    bool
	quiet      bool
	verbose    bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "themedl",
	Short: "Download Shopify themes into a tar archive",
	Long: `themedl downloads every asset of a Shopify theme through the Admin API
and packs them into <shop>-<theme>.tar.

Calls are spaced at most two per second, and the download pauses whenever
the shop's API call bucket runs low.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			ui.SetNoColor(true)
		}
		if verbose {
			logLevel = "debug"
		}

		loaded, err := config.Load(configFile, map[string]interface{}{
			"output":      outputDir,
			"api-version": apiVersion,
			"log-level":   logLevel,
			"log-file":    logFile,
		})
		if err != nil {
			return err
		}
		cfg = loaded

		if err := logger.Initialize(&cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.WithField("version", version).Debug("themedl starting")
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .themedl.yaml or $HOME/.config/themedl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-asset progress lines")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output and rate limit pauses")

	rootCmd.SetVersionTemplate(`themedl {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
