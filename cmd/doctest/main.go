// Package main is the entry point for the DocTest command line tool.
// DocTest turns the items captured while running API tests into browsable HTML reports.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/internal/check"
	"github.com/verustcode/doctest/internal/config"
	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/logger"
	"github.com/verustcode/doctest/pkg/telemetry"
)

// Build information - set via ldflags during build
// These variables are linked to consts package for global access
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// init synchronizes build info to consts package for global access
func init() {
	consts.Version = Version
	consts.BuildTime = BuildTime
	consts.GitCommit = GitCommit
}

// telemetryShutdownTimeout bounds the final flush of traces and metrics
const telemetryShutdownTimeout = 10 * time.Second

// configPath holds the path to the configuration file
var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "doctest",
	Short: "DocTest - HTML reports from captured API test documentation",
	Long: `DocTest renders the requests, responses, assertions and notes captured
while running API tests into one HTML page per test, with a table of
contents per page and an index linking every report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("DocTest %s\n", Version)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		fmt.Printf("  Git Commit: %s\n", GitCommit)
	},
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check and set up the project environment",
	Long: `Check the configuration, the output directory and the capture files.

Missing files are offered from built-in templates:
  doctest check

Use --yes to create them without prompting.`,
	RunE: runCheck,
}

func init() {
	// Disable auto-generated completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "config file path")

	// Add commands
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	checkCmd.Flags().BoolP("yes", "y", false, "create missing files without prompting")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit code
func exitCode(err error) int {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.ExitCode()
	}
	return errors.ExitCodeRender
}

// runCheck runs the interactive environment check
func runCheck(cmd *cobra.Command, args []string) error {
	checker := check.NewChecker(configPath)
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		checker.WithConfirm(func(string) (bool, error) { return true, nil })
	}

	if err := checker.Run(); err != nil {
		return err
	}
	if checker.Report().HasErrors() {
		return errors.New(errors.ErrCodeConfigInvalid, "environment check failed")
	}
	fmt.Println("\n✓ Environment check completed successfully")
	return nil
}

// loadConfig loads the configuration file, falling back to defaults when it is missing
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// setup initializes logging and telemetry for a command.
// The returned function flushes both and must be deferred by the caller.
func setup(cfg *config.Config) (func(), error) {
	if err := logger.Init(cfg.Logging); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to initialize logger", err)
	}

	tel, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to initialize telemetry", err)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown telemetry", zap.Error(err))
		}
		_ = logger.Sync()
	}, nil
}
