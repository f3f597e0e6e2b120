package cmd

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user <address>",
	Short: "Print the profile of a user.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newClient().User(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		data := pterm.TableData{
			{"Field", "Value"},
			{"Address", user.Address},
			{"Username", user.Username},
			{"Public Key", user.PublicKey},
			{"Last Seen", user.LastSeen.Format(time.RFC3339)},
			{"Reputation", fmt.Sprint(user.Reputation)},
			{"Balance", fmt.Sprint(user.TokenBalance)},
		}

		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

// onlineCmd represents the online command
var onlineCmd = &cobra.Command{
	Use:   "online",
	Short: "Print the users currently online.",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := newClient().Online(cmd.Context())
		if err != nil {
			return err
		}

		if len(users) == 0 {
			pterm.Info.Println("no users online")
			return nil
		}

		data := pterm.TableData{{"Address", "Username", "Node", "Since"}}
		for _, u := range users {
			data = append(data, []string{u.Address, u.Username, u.NodeID, u.TimeStamp.Format(time.RFC3339)})
		}

		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

// connectionsCmd represents the connections command
var connectionsCmd = &cobra.Command{
	Use:   "connections <address>",
	Short: "Print the connections a user took part in.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conns, err := newClient().Connections(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if len(conns) == 0 {
			pterm.Info.Printfln("no connections for %s", args[0])
			return nil
		}

		data := pterm.TableData{{"From", "To", "Type", "Messages", "When"}}
		for _, c := range conns {
			data = append(data, []string{c.FromAddress, c.ToAddress, c.ConnectionType, fmt.Sprint(c.MessageCount), c.TimeStamp.Format(time.RFC3339)})
		}

		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register <address> <username> <public-key>",
	Short: "Register a user with the node.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		receipt, err := newClient().Register(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}

		printReceipt(receipt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(onlineCmd)
	rootCmd.AddCommand(connectionsCmd)
	rootCmd.AddCommand(registerCmd)
}
