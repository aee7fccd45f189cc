package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbroker/cmd/brokerctl/internal/format"
	"github.com/nfrund/mqbroker/internal/dispatch"
)

var topicsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream topic registrations until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		return newClient().Watch(ctx, func(reg dispatch.Registration) error {
			return format.Registration(out, reg, outputFormat)
		})
	},
}

func init() {
	topicsCmd.AddCommand(topicsWatchCmd)
}
