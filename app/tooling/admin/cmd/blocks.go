package cmd

import (
	"fmt"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
	"github.com/ardanlabs/chatchain/foundation/blockchain/state"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	fromBlock string
	toBlock   string
)

// blocksCmd represents the blocks command
var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print a range of blocks and the transaction each carries.",
	RunE: func(cmd *cobra.Command, args []string) error {
		blocks, err := newClient().Blocks(cmd.Context(), fromBlock, toBlock)
		if err != nil {
			return err
		}

		data := pterm.TableData{{"Index", "Kind", "Nonce", "Hash"}}
		for _, block := range blocks {
			kind := "malformed"
			if tx, err := database.DecodeTx(block.Data); err == nil {
				kind = tx.Kind()
			}
			data = append(data, []string{fmt.Sprint(block.Index), kind, fmt.Sprint(block.Nonce), block.Hash})
		}

		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().StringVarP(&fromBlock, "from", "f", "0", "First block to print.")
	blocksCmd.Flags().StringVarP(&toBlock, "to", "t", "latest", "Last block to print.")
}

// =============================================================================

// printReceipt shows the blocks an operation appended and its warnings.
func printReceipt(receipt state.Receipt) {
	for _, block := range receipt.Blocks {
		pterm.Success.Printfln("block %d sealed: %s", block.Index, block.Hash)
	}
	for _, warning := range receipt.Warnings {
		pterm.Warning.Println(warning)
	}
}
