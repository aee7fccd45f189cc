package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbroker/cmd/brokerctl/internal/format"
	"github.com/nfrund/mqbroker/internal/admin"
	"github.com/nfrund/mqbroker/internal/attribute"
)

var (
	updateRead    uint32
	updateWrite   uint32
	updatePerm    uint32
	updateFilter  string
	updateSysFlag uint32
	updateOrder   bool
	updateAttrs   string
)

var topicsUpdateCmd = &cobra.Command{
	Use:   "update <topic-name>",
	Short: "Create or replace a topic",
	Long: `Create or replace a topic. Queue counts of zero keep the broker defaults.

Attributes are given as operations: "+key=value" adds or changes a key and
"-key" deletes it. Only keys the broker supports are accepted, and keys that
may only be set at creation are rejected on an existing topic.

Examples:
  brokerctl topics update orders --read 8 --write 8
  brokerctl topics update orders --perm 4 --attrs "+queue.type=Normal,-delay"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := attribute.ParseKV(updateAttrs)
		if err != nil {
			return fmt.Errorf("invalid --attrs: %w", err)
		}

		req := admin.UpdateTopicRequest{
			ReadQueueNums:  updateRead,
			WriteQueueNums: updateWrite,
			FilterType:     updateFilter,
			TopicSysFlag:   updateSysFlag,
			Order:          updateOrder,
			Attributes:     attrs,
		}
		if cmd.Flags().Changed("perm") {
			req.Perm = &updatePerm
		}

		cfg, err := newClient().UpdateTopic(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		return format.Topic(cmd.OutOrStdout(), *cfg, outputFormat)
	},
}

func init() {
	topicsCmd.AddCommand(topicsUpdateCmd)
	flags := topicsUpdateCmd.Flags()
	flags.Uint32Var(&updateRead, "read", 0, "read queue count")
	flags.Uint32Var(&updateWrite, "write", 0, "write queue count")
	flags.Uint32Var(&updatePerm, "perm", 6, "permission bits (2 write, 4 read, 1 inherit)")
	flags.StringVar(&updateFilter, "filter", "", "tag filter type (SINGLE_TAG, MULTI_TAG)")
	flags.Uint32Var(&updateSysFlag, "sysflag", 0, "topic system flag")
	flags.BoolVar(&updateOrder, "order", false, "mark the topic as ordered")
	flags.StringVar(&updateAttrs, "attrs", "", `attribute operations, e.g. "+a=1,-b"`)
}
