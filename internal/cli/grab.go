package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/new-divos/pkbassist/internal/twir"
	"github.com/new-divos/pkbassist/internal/ui"
)

var (
	grabUpdateDaily bool
	grabAPODSubtags []string
)

var grabCmd = &cobra.Command{
	Use:   "grab",
	Short: "Grab external content into the vault",
}

var grabAPODCmd = &cobra.Command{
	Use:   "apod",
	Short: "Grab today's astronomy picture into an issue note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newVault().GrabAPOD(cmd.Context(), grabUpdateDaily, grabAPODSubtags); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, ui.Success("astronomy picture grabbed"))
		return nil
	},
}

var grabTWiRCmd = &cobra.Command{
	Use:   "twir <issues>",
	Short: "Grab newsletter issues into issue notes",
	Long: `Grab This Week in Rust issues into issue notes. The argument is a
single issue number ("500") or an inclusive range ("495..500"). In a
range, a failed issue does not block the others.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := twir.ParseRange(args[0])
		if err != nil {
			return err
		}
		if err := newVault().GrabTWiR(cmd.Context(), issues, grabUpdateDaily); err != nil {
			return report(err)
		}
		fmt.Fprintln(os.Stdout, ui.Success("newsletter issues grabbed"))
		return nil
	},
}

func init() {
	grabCmd.PersistentFlags().BoolVar(&grabUpdateDaily, "update-daily", false, "Link the grabbed note into the daily note")
	grabAPODCmd.Flags().StringArrayVar(&grabAPODSubtags, "subtag", nil, "Additional astronomy sub-tag (repeatable)")

	grabCmd.AddCommand(grabAPODCmd)
	grabCmd.AddCommand(grabTWiRCmd)
	rootCmd.AddCommand(grabCmd)
}
