package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nfrund/mqbroker/cmd/brokerctl/internal/format"
	"github.com/nfrund/mqbroker/internal/admin"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

var (
	autoTemplate string
	autoQueues   int32
	autoSysFlag  uint32
	autoProducer string
)

var topicsAutoCreateCmd = &cobra.Command{
	Use:   "autocreate <topic-name>",
	Short: "Create a topic from a template, as a producer send would",
	Long: `Create a topic from a template topic the way the broker does when a producer
sends to a topic it does not know. The template must exist and be inheritable.
An existing topic is returned unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := newClient().AutoCreate(cmd.Context(), args[0], admin.AutoCreateRequest{
			Template:  autoTemplate,
			QueueNums: autoQueues,
			SysFlag:   autoSysFlag,
			Producer:  autoProducer,
		})
		if err != nil {
			return err
		}
		return format.Topic(cmd.OutOrStdout(), *cfg, outputFormat)
	},
}

func init() {
	topicsCmd.AddCommand(topicsAutoCreateCmd)
	flags := topicsAutoCreateCmd.Flags()
	flags.StringVar(&autoTemplate, "template", topicmgr.AutoCreateTopicKeyTopic, "template topic")
	flags.Int32Var(&autoQueues, "queues", int32(topicmgr.DefaultWriteQueueNums), "requested queue count, capped by the template")
	flags.Uint32Var(&autoSysFlag, "sysflag", 0, "topic system flag")
	flags.StringVar(&autoProducer, "producer", "", "producer address recorded in the broker log")
}
