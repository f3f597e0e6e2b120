// Package cmd contains the admin commands.
package cmd

import (
	"os"
	"time"

	"github.com/ardanlabs/chatchain/app/tooling/admin/client"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	publicURL  string
	privateURL string
	timeout    time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Administer a chat ledger node",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(build string) {
	rootCmd.Version = build
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&publicURL, "public", "http://localhost:3002", "Url of the node public API.")
	rootCmd.PersistentFlags().StringVar(&privateURL, "private", "http://localhost:9080", "Url of the node private API.")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Time to wait for the node to respond.")
}

func newClient() *client.Client {
	return client.New(publicURL, privateURL, timeout)
}
