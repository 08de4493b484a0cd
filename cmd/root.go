/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/fulmenhq/goldencheck/pkg/buildinfo"
	"github.com/fulmenhq/goldencheck/pkg/config"
	"github.com/fulmenhq/goldencheck/pkg/exitcode"
	"github.com/fulmenhq/goldencheck/pkg/golden"
	"github.com/fulmenhq/goldencheck/pkg/logger"
	"github.com/fulmenhq/goldencheck/pkg/safeio"
	"github.com/fulmenhq/goldencheck/pkg/vcs"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goldencheck",
		Short: "Review and accept golden test output",
		Long: `Goldencheck inspects the reference files written by golden (snapshot) tests.
Accepted output lives in the git index; a test run rewrites the files in the
working tree, and accepting a change means staging it.

Examples:
   goldencheck status            # List reference files that are not accepted
   goldencheck diff              # Show what changed since the last accept
   goldencheck accept --all      # Stage every pending reference file
   goldencheck probe             # Report whether git is usable for the check directory`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("log-level", "warn", "Set log level (trace|debug|info|warn|error)")
	pf.Bool("json", false, "Output logs in JSON format")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("config", "", "Configuration file (default: "+config.ConfigName+".yaml in the working directory or $HOME)")
	pf.String("dir", "", "Check directory, overrides the configured directory")
	pf.Var(&backendFlag{}, "backend", "VCS backend: git, gogit or none")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("goldencheck {{.Version}}\n")
	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newDiffCmd())
	cmd.AddCommand(newAcceptCmd())
	cmd.AddCommand(newProbeCmd())
	cmd.AddCommand(newSanitizeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func init() {
	registerSubcommands(rootCmd)
}

// Execute runs the root command and exits with a code from pkg/exitcode.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

// errPending is returned when reference files still need to be accepted.
var errPending = errors.New("reference files are not accepted")

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, errPending), errors.Is(err, golden.ErrMismatch):
		return exitcode.Mismatch
	case errors.Is(err, golden.ErrConfiguration), errors.Is(err, config.ErrInvalid):
		return exitcode.ConfigError
	case errors.Is(err, vcs.ErrCommandFailed), errors.Is(err, vcs.ErrUnavailable):
		return exitcode.VCSError
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, safeio.ErrOutsideBase):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logLevel, ok := logger.ParseLevel(logLevelStr)
	if !ok {
		logLevel = logger.WarnLevel
	}
	if noColor {
		color.NoColor = true
	}

	cfg := logger.Config{
		Level:     logLevel,
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "goldencheck",
	}
	if err := logger.Initialize(cfg); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}
