package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbroker/cmd/brokerctl/internal/client"
	"github.com/nfrund/mqbroker/cmd/brokerctl/internal/format"
)

var topicsGetCmd = &cobra.Command{
	Use:   "get <topic-name>",
	Short: "Show one topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := newClient().GetTopic(cmd.Context(), args[0])
		if client.NotFound(err) {
			return fmt.Errorf("topic '%s' not found, use 'brokerctl topics list' to see all topics", args[0])
		}
		if err != nil {
			return err
		}
		return format.Topic(cmd.OutOrStdout(), *cfg, outputFormat)
	},
}

func init() {
	topicsCmd.AddCommand(topicsGetCmd)
}
