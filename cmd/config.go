package cmd

import (
	"fmt"
	"net/url"

	"github.com/arin/tutor-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tutor configuration",
}

var setURLCmd = &cobra.Command{
	Use:   "set-url <base-url>",
	Short: "Set the chat backend base URL (default: " + config.DefaultAPIURL + ")",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := url.Parse(args[0])
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid URL %q", args[0])
		}
		if err := config.SetAPIURL(args[0]); err != nil {
			return fmt.Errorf("failed to save URL: %w", err)
		}
		fmt.Printf("API URL set to %s.\n", args[0])
		return nil
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model <model-name>",
	Short: "Set the Ollama model used by 'tutor serve' (default: " + config.DefaultModel + ")",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetModel(args[0]); err != nil {
			return fmt.Errorf("failed to save model: %w", err)
		}
		fmt.Printf("Model set to %s.\n", args[0])
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("API URL:    %s\n", cfg.APIURL)
		fmt.Printf("Model:      %s\n", cfg.Model)
		fmt.Printf("Log Level:  %s\n", cfg.LogLevel)
		fmt.Printf("Config Dir: %s\n", config.Dir())
		fmt.Printf("Env File:   %s\n", config.EnvFile())
	},
}

func init() {
	configCmd.AddCommand(setURLCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(showCmd)
}
