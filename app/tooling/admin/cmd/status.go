package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the ledger counters.",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newClient().Status(cmd.Context())
		if err != nil {
			return err
		}

		valid := pterm.LightGreen("valid")
		if !status.IsValid {
			valid = pterm.LightRed("INVALID")
		}

		data := pterm.TableData{
			{"Field", "Value"},
			{"Blocks", fmt.Sprint(status.BlockCount)},
			{"Latest Block", fmt.Sprint(status.LatestBlockNumber)},
			{"Latest Hash", status.LatestHash},
			{"Difficulty", fmt.Sprint(status.Difficulty)},
			{"Users", fmt.Sprint(status.UserCount)},
			{"Online", fmt.Sprint(status.OnlineCount)},
			{"Connections", fmt.Sprint(status.ConnectionCount)},
			{"Reward Pool", fmt.Sprint(status.TotalRewards)},
			{"Chain", valid},
			{"Subscribers", fmt.Sprint(status.Subscribers)},
		}

		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
