package cli

import (
	"github.com/spf13/cobra"
)

var showTWiRLast bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show information about external content",
}

var showTWiRCmd = &cobra.Command{
	Use:   "twir",
	Short: "List the newsletter archive issues",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newVault().ShowTWiR(cmd.Context(), showTWiRLast)
	},
}

func init() {
	showTWiRCmd.Flags().BoolVar(&showTWiRLast, "last", false, "Show only the newest issue")

	showCmd.AddCommand(showTWiRCmd)
	rootCmd.AddCommand(showCmd)
}
