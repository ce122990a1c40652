// Package main provides the CLI entry point for uploadkit.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/uploadkit/internal/color"
	"github.com/smykla-skalski/uploadkit/internal/xdg"
	"github.com/smykla-skalski/uploadkit/pkg/logger"
)

const (
	// ExitCodeOK indicates success.
	ExitCodeOK = 0

	// ExitCodeFailure indicates invalid input or a failed command.
	ExitCodeFailure = 1

	// ExitCodeCrash indicates an unexpected panic.
	ExitCodeCrash = 3
)

// errReported is returned by commands that already printed their findings.
var errReported = errors.New("reported")

var (
	debugMode   bool
	traceMode   bool
	noColorFlag bool
	logFile     string
	logToState  bool

	log   logger.Logger = logger.NewNoOpLogger()
	theme color.Theme
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic", "value", r)
			fmt.Fprintf(os.Stderr, "uploadkit crashed: %v\n\n%s", r, debug.Stack())

			exitCode = ExitCodeCrash
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		return ExitCodeFailure
	}

	return ExitCodeOK
}

var rootCmd = &cobra.Command{
	Use:   "uploadkit",
	Short: "File upload widget configuration tool",
	Long: `uploadkit validates, merges, migrates and exports file upload widget
configurations.

Sources may be JSON, TOML or YAML files, http(s) URLs or inline JSON.
FILE_UPLOAD_* environment variables override individual fields.`,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(
		&logFile,
		"log-file",
		"",
		"Append logs to this file instead of stderr",
	)
	rootCmd.PersistentFlags().BoolVar(
		&logToState,
		"log",
		false,
		"Append logs to the state directory log file ("+xdg.LogFileEnv+" overrides the location)",
	)
}

func setup(cmd *cobra.Command, _ []string) error {
	checkVersionFlag()

	level := logger.LevelFromFlags(debugMode, traceMode)

	path, err := logPath()
	if err != nil {
		return err
	}

	if path != "" {
		fileLog, err := logger.NewFileLogger(path, level)
		if err != nil {
			return errors.Wrap(err, "failed to create logger")
		}

		log = fileLog
	} else {
		log = logger.NewConsoleLogger(os.Stderr, level, color.Enabled(os.Stderr, noColorFlag))
	}

	log = log.With("command", cmd.Name())
	theme = color.NewTheme(color.Enabled(os.Stdout, noColorFlag))

	return nil
}

// logPath returns the file to log to, or "" for stderr. The state directory
// is created when the default location is used.
func logPath() (string, error) {
	switch {
	case logFile != "":
		return xdg.ExpandPathSilent(logFile), nil
	case !logToState:
		return "", nil
	}

	path := xdg.LogFile()
	if filepath.Dir(path) == xdg.StateDir() {
		if err := xdg.EnsureDir(xdg.StateDir()); err != nil {
			return "", err
		}
	}

	return path, nil
}
