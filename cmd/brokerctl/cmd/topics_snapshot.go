package cmd

import (
	"github.com/spf13/cobra"
)

var snapshotPretty bool

var topicsSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the persisted snapshot of the topic table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := newClient().Snapshot(cmd.Context(), snapshotPretty)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if _, err := out.Write(data); err != nil {
			return err
		}
		_, err = out.Write([]byte("\n"))
		return err
	},
}

func init() {
	topicsCmd.AddCommand(topicsSnapshotCmd)
	topicsSnapshotCmd.Flags().BoolVar(&snapshotPretty, "pretty", true, "indent the snapshot")
}
