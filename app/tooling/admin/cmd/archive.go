package cmd

import (
	"fmt"
	"os"

	"github.com/ardanlabs/chatchain/foundation/blockchain/archive"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	archiveFile string
	difficulty  uint
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole chain to a file, one block per line.",
	RunE: func(cmd *cobra.Command, args []string) error {
		blocks, err := newClient().Blocks(cmd.Context(), "0", "latest")
		if err != nil {
			return err
		}

		f, err := os.Create(archiveFile)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := archive.Write(f, blocks); err != nil {
			return err
		}

		pterm.Success.Printfln("%d blocks written to %s", len(blocks), archiveFile)
		return nil
	},
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify an exported chain without contacting a node.",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(archiveFile)
		if err != nil {
			return err
		}
		defer f.Close()

		blocks, err := archive.Read(f)
		if err != nil {
			return err
		}

		report := archive.Check(blocks, difficulty)

		data := pterm.TableData{
			{"Blocks", fmt.Sprint(report.Blocks)},
			{"Replayed", fmt.Sprint(report.Replay.Replayed)},
			{"Skipped", fmt.Sprint(report.Replay.Skipped)},
			{"Lost Credits", fmt.Sprint(report.Replay.LostCredits)},
			{"Users", fmt.Sprint(report.Users)},
			{"Online", fmt.Sprint(report.Online)},
			{"Connections", fmt.Sprint(report.Links)},
		}
		if err := pterm.DefaultTable.WithData(data).Render(); err != nil {
			return err
		}

		if !report.Valid {
			return fmt.Errorf("chain failed verification: %s", report.Error)
		}

		pterm.Success.Println("chain verified")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&archiveFile, "file", "f", "zblock/chain.jsonl", "Path of the archive to write.")

	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&archiveFile, "file", "f", "zblock/chain.jsonl", "Path of the archive to read.")
	checkCmd.Flags().UintVarP(&difficulty, "difficulty", "d", 2, "Leading zero hex characters each sealed block must carry.")
}
