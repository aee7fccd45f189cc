package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbroker/cmd/brokerctl/internal/client"
	"github.com/nfrund/mqbroker/cmd/brokerctl/internal/format"
)

var (
	adminAddr    string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "brokerctl",
	Short: "Inspect and administer a broker's topic configurations",
	Long: `brokerctl talks to the admin API of a running broker. It lists, creates,
updates and deletes topic configurations, prints the persisted snapshot and
streams topic registrations as they are announced to the name server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&adminAddr, "addr", client.DefaultAddr, "admin API address of the broker")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", format.Table, "output format (table, json)")
}

func newClient() *client.Client {
	return client.New(adminAddr)
}
