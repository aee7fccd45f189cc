package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var topicsDeleteCmd = &cobra.Command{
	Use:   "delete <topic-name>",
	Short: "Remove a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteTopic(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Topic '%s' deleted\n", args[0])
		return nil
	},
}

func init() {
	topicsCmd.AddCommand(topicsDeleteCmd)
}
