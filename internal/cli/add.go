package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/new-divos/pkbassist/internal/ui"
)

var (
	addBannerType string
	addBannerTags []string

	addCreatedType string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add attributes or content to the vault notes",
}

var addBannerCmd = &cobra.Command{
	Use:   "banner <file-name>",
	Short: "Set the banner of every matching note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := newVault().AddBanner(cmd.Context(), args[0], addBannerType, addBannerTags)
		if err != nil {
			return report(err)
		}
		fmt.Fprintln(os.Stdout, ui.Successf("banner %s set", args[0]))
		return nil
	},
}

var addCalendarCmd = &cobra.Command{
	Use:   "calendar <year> <month>",
	Short: "Append a calendar of daily note links to a monthly note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("illegal year %q: %w", args[0], err)
		}
		month, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("illegal month %q: %w", args[1], err)
		}
		if err := newVault().AddCalendar(year, month); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, ui.Successf("calendar for %04d-%02d added", year, month))
		return nil
	},
}

var addCreatedCmd = &cobra.Command{
	Use:   "created",
	Short: "Stamp matching notes with a creation time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newVault().AddCreated(cmd.Context(), addCreatedType); err != nil {
			return report(err)
		}
		fmt.Fprintln(os.Stdout, ui.Success("creation timestamps added"))
		return nil
	},
}

func init() {
	addBannerCmd.Flags().StringVar(&addBannerType, "type", "note", "Note type to set the banner on")
	addBannerCmd.Flags().StringArrayVar(&addBannerTags, "tag", nil, "Require a tag on the note (repeatable)")

	addCreatedCmd.Flags().StringVar(&addCreatedType, "type", "note", "Note type to stamp")

	addCmd.AddCommand(addBannerCmd)
	addCmd.AddCommand(addCalendarCmd)
	addCmd.AddCommand(addCreatedCmd)
	rootCmd.AddCommand(addCmd)
}
