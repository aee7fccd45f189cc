package cmd

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbroker/cmd/brokerctl/internal/format"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

var listPrefix string

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every topic with the table's data version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().ListTopics(cmd.Context())
		if err != nil {
			return err
		}

		topics := make([]topicmgr.TopicConfig, 0, len(resp.Topics))
		for _, t := range resp.Topics {
			if strings.HasPrefix(t.TopicName, listPrefix) {
				topics = append(topics, t)
			}
		}
		sort.Slice(topics, func(i, j int) bool { return topics[i].TopicName < topics[j].TopicName })

		return format.Topics(cmd.OutOrStdout(), topics, resp.DataVersion, outputFormat)
	},
}

func init() {
	topicsCmd.AddCommand(topicsListCmd)
	topicsListCmd.Flags().StringVar(&listPrefix, "prefix", "", "only list topics whose name starts with prefix")
}
