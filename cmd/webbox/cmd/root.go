package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/webbox/internal/config"
	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/logger"
	"github.com/oshokin/webbox/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// logLevel overrides the level from settings.
	logLevel string
	// logFile overrides the rotating log prefix from settings.
	logFile string
	// logFileLevel overrides the level of the rotating log files.
	logFileLevel string
	// closeLog releases the rotating log file, if one was opened.
	closeLog func() error

	// rootCmd represents the base command.
	rootCmd = &cobra.Command{
		Use:   "webbox",
		Short: "Turn a website into a macOS application bundle.",
		Long: `Creates standalone macOS .app bundles that open a single website in a native window.

Each bundle is cloned from a prebuilt template, gets its own icon, name and
bundle identifier, and carries a small config.json the runtime reads at startup.
Generation runs in-process by default or on a webbox daemon started with "serve".`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogging,
	}
)

// Execute runs the webbox CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if closeLog != nil {
		_ = closeLog()
	}

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", generation.Describe(err))
		os.Exit(1)
	}
}

// setupLogging applies the log level and optional file sink before any command runs.
func setupLogging(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return err
	}

	levelName := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		levelName = logLevel
	}

	level, ok := logger.ParseLogLevel(levelName)
	if !ok {
		return fmt.Errorf("unknown log level %q", levelName)
	}

	prefix := cfg.LogFile
	if cmd.Flags().Changed("log-file") {
		prefix = logFile
	}

	if prefix == "" {
		logger.SetLevel(level)

		return nil
	}

	// The file sink follows --log-level unless its own level is configured.
	fileLevelName := cfg.LogFileLevel
	if cmd.Flags().Changed("log-file-level") {
		fileLevelName = logFileLevel
	} else if cmd.Flags().Changed("log-level") && cfg.LogFileLevel == cfg.LogLevel {
		fileLevelName = levelName
	}

	fileLevel, ok := logger.ParseLogLevel(fileLevelName)
	if !ok {
		return fmt.Errorf("unknown log file level %q", fileLevelName)
	}

	l, closer, err := logger.NewWithFile(level, fileLevel, prefix)
	if err != nil {
		return err
	}

	logger.SetLogger(l)

	closeLog = closer

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup flags shared by every subcommand.
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "prefix of rotating log files")
	rootCmd.PersistentFlags().StringVar(&logFileLevel, "log-file-level", "", "level of the rotating log files")

	rootCmd.AddCommand(generateCmd, serveCmd, revealCmd, launchCmd, inspectCmd, templateCmd)
}
