package cmd

import (
	"github.com/spf13/cobra"
)

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage the broker's topic configurations",
	Long: `The topics command inspects and changes the topic configuration table of a
running broker.

Available subcommands:
  list        List every topic with the table's data version
  get         Show one topic
  update      Create or replace a topic
  delete      Remove a topic
  autocreate  Create a topic from a template, as a producer send would
  snapshot    Print the persisted snapshot
  watch       Stream topic registrations

Examples:
  # List all topics
  brokerctl topics list

  # Create a topic with 8 queues and an attribute
  brokerctl topics update orders --read 8 --write 8 --attrs "+queue.type=Normal"

  # Remove an attribute again
  brokerctl topics update orders --read 8 --write 8 --attrs "-queue.type"

  # Follow registrations as JSON
  brokerctl topics watch -f json

Use "brokerctl topics [command] --help" for more information about a specific command.`,
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}
