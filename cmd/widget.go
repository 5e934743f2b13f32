package cmd

import (
	"github.com/arin/tutor-cli/internal/ai"
	"github.com/arin/tutor-cli/internal/ui/widget"
	"github.com/spf13/cobra"
)

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Open the full-screen chat widget",
	Long: `Open the assistant as a full-screen chat widget. The conversation
lasts until you close the widget with esc or ctrl+c; closing it stops any
reply that is still streaming.

Logs are discarded unless --log-file is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return widget.Run(cmd.Context(), ai.NewClient(cfg.APIURL))
	},
}
