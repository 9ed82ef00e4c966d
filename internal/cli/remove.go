package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/new-divos/pkbassist/internal/ui"
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove content from the vault notes",
}

var removeLineCmd = &cobra.Command{
	Use:   "line <line>",
	Short: "Delete the first matching line from each note",
	Long: `Delete the first line whose trimmed content ends with the trimmed
argument from each note. Later matches in the same note are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newVault().RemoveLine(cmd.Context(), args[0]); err != nil {
			return report(err)
		}
		fmt.Fprintln(os.Stdout, ui.Success("lines removed"))
		return nil
	},
}

var removeRaindropCmd = &cobra.Command{
	Use:   "raindrop",
	Short: "Delete imported bookmark notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newVault().RemoveRaindropNotes(cmd.Context()); err != nil {
			return report(err)
		}
		fmt.Fprintln(os.Stdout, ui.Success("bookmark notes removed"))
		return nil
	},
}

func init() {
	removeCmd.AddCommand(removeLineCmd)
	removeCmd.AddCommand(removeRaindropCmd)
	rootCmd.AddCommand(removeCmd)
}
