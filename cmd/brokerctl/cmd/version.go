package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbroker/internal/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of brokerctl and of the broker it talks to",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "brokerctl %s\n", app.Version)

		resp, err := newClient().Version(cmd.Context())
		if err != nil {
			return fmt.Errorf("broker unreachable: %w", err)
		}
		fmt.Fprintf(out, "broker    %s\n", resp.Version)
		fmt.Fprintf(out, "topics    %d (%d system)\n", resp.Stats.TotalTopics, resp.Stats.SystemTopics)
		fmt.Fprintf(out, "version   %d\n", resp.Stats.DataVersion.Counter)
		fmt.Fprintf(out, "autocreate %t\n", resp.Stats.AutoCreate)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
