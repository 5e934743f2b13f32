package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arin/tutor-cli/internal/config"
	"github.com/arin/tutor-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	apiURL   string
	logLevel string
	logFile  string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "tutor [question]",
	Short: "Chat with the course assistant from your terminal",
	Long: `tutor talks to the course assistant's chat backend and streams its
replies as they are written.

Examples:
  tutor                          start an interactive chat
  tutor what is tort law         ask one question and print the answer
  tutor widget                   open the full-screen chat widget
  tutor serve --canned           run a local backend for testing`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runChat(cmd.Context(), os.Stdin)
		}
		return runAsk(cmd.Context(), strings.Join(args, " "))
	},
	SilenceUsage:               true,
	SilenceErrors:              true,
	TraverseChildren:           true,
	SuggestionsMinimumDistance: 1,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tutor version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Chat backend base URL (overrides config and $"+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(widgetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and installs the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logCloser, err = logging.Setup(logging.Options{
		Level:   cfg.LogLevel,
		File:    logFile,
		Discard: cmd == widgetCmd,
	})
	if err != nil {
		return fmt.Errorf("logging setup: %w", err)
	}
	return nil
}

// SetVersion records the build version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the entry point called from main. Interrupts cancel the
// command's context, which ends any reply still streaming.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
