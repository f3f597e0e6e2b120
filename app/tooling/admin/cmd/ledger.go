package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Audit the chain and the projection of the node.",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := newClient().Verify(cmd.Context())
		if err != nil {
			return err
		}

		switch {
		case !report.Valid:
			pterm.Error.Printfln("chain of %d blocks failed verification: %s", report.Blocks, report.Error)
		case !report.Consistent:
			pterm.Warning.Printfln("chain of %d blocks is valid but the projection is out of step", report.Blocks)
		default:
			pterm.Success.Printfln("chain of %d blocks verified", report.Blocks)
		}

		if len(report.Replay.Skipped) > 0 {
			pterm.Warning.Printfln("undecodable blocks: %v", report.Replay.Skipped)
		}

		return nil
	},
}

// rebuildCmd represents the rebuild command
var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Replay the chain into a fresh projection.",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := newClient().Rebuild(cmd.Context())
		if err != nil {
			return err
		}

		pterm.Success.Printfln("replayed %d blocks", report.Replayed)
		if len(report.Skipped) > 0 {
			pterm.Warning.Printfln("skipped undecodable blocks: %v", report.Skipped)
		}
		if report.LostCredits > 0 {
			pterm.Warning.Printfln("rewards paid to unknown addresses: %d", report.LostCredits)
		}

		return nil
	},
}

// rewardCmd represents the reward command
var rewardCmd = &cobra.Command{
	Use:   "reward <address> <action> <amount>",
	Short: "Pay tokens from the reward pool.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}

		receipt, err := newClient().Reward(cmd.Context(), args[0], args[1], amount)
		if err != nil {
			return err
		}

		printReceipt(receipt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(rewardCmd)
}
