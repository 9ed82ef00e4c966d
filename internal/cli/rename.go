package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/new-divos/pkbassist/internal/ui"
)

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename attributes across the vault notes",
}

var renameBannerCmd = &cobra.Command{
	Use:   "banner <old-name> <new-name>",
	Short: "Point every note using a banner at another file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newVault().RenameBanner(cmd.Context(), args[0], args[1]); err != nil {
			return report(err)
		}
		fmt.Fprintln(os.Stdout, ui.Successf("banner %s renamed to %s", args[0], args[1]))
		return nil
	},
}

func init() {
	renameCmd.AddCommand(renameBannerCmd)
	rootCmd.AddCommand(renameCmd)
}
