package cmd

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var keyFile string

// genkeyCmd represents the genkey command
var genkeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Generate a key pair and print the address and public key to register with.",
	RunE: func(cmd *cobra.Command, args []string) error {
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			return err
		}

		if keyFile != "" {
			if err := crypto.SaveECDSA(keyFile, privateKey); err != nil {
				return err
			}
			pterm.Success.Printfln("private key written to %s", keyFile)
		}

		data := pterm.TableData{
			{"Field", "Value"},
			{"Address", crypto.PubkeyToAddress(privateKey.PublicKey).Hex()},
			{"Public Key", hexutil.Encode(crypto.FromECDSAPub(&privateKey.PublicKey))},
		}

		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(genkeyCmd)
	genkeyCmd.Flags().StringVarP(&keyFile, "file", "f", "", "Write the private key to this file.")
}
