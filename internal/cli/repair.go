package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/new-divos/pkbassist/internal/ui"
)

var (
	repairWikiRefs      bool
	repairUnusedFiles   bool
	repairFileNames     bool
	repairArchiveIssues bool
	repairPictureIssues bool
	repairCreated       bool
	repairBanners       bool
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair the vault notes",
	Long: `Repair the vault notes: normalize wiki references, remove unused
attachments, rename attachments to opaque identifiers, migrate legacy
issue notes, and fix front matter fields. Select one or more repairs
with flags; they run in the order listed below.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		type repair struct {
			selected bool
			name     string
			run      func(context.Context) error
		}

		v := newVault()
		repairs := []repair{
			{repairWikiRefs, "wiki references", v.RepairWikiRefs},
			{repairUnusedFiles, "unused files", v.RemoveUnusedFiles},
			{repairFileNames, "attached file names", v.RenameAttachedFiles},
			{repairArchiveIssues, "newsletter issues", v.RepairArchiveIssues},
			{repairPictureIssues, "picture issues", v.RepairPictureIssues},
			{repairCreated, "creation timestamps", v.RemoveCreated},
			{repairBanners, "banners", v.RepairBanners},
		}

		selected := false
		for _, r := range repairs {
			if !r.selected {
				continue
			}
			selected = true
			if err := r.run(cmd.Context()); err != nil {
				return report(fmt.Errorf("failed to repair %s: %w", r.name, err))
			}
			fmt.Fprintln(os.Stdout, ui.Successf("repaired %s", r.name))
		}
		if !selected {
			return errors.New("nothing to repair, select at least one repair flag")
		}
		return nil
	},
}

func init() {
	repairCmd.Flags().BoolVar(&repairWikiRefs, "wiki-refs", false, "Normalize described wiki references")
	repairCmd.Flags().BoolVar(&repairUnusedFiles, "remove-unused-files", false, "Remove attachments no note refers to")
	repairCmd.Flags().BoolVar(&repairFileNames, "file-names", false, "Rename attachments to opaque identifiers")
	repairCmd.Flags().BoolVar(&repairArchiveIssues, "archive-issues", false, "Migrate legacy newsletter issue notes")
	repairCmd.Flags().BoolVar(&repairPictureIssues, "picture-issues", false, "Migrate legacy picture issue notes")
	repairCmd.Flags().BoolVar(&repairCreated, "remove-created", false, "Strip creation timestamps from front matter")
	repairCmd.Flags().BoolVar(&repairBanners, "banners", false, "Normalize banner front matter fields")
	rootCmd.AddCommand(repairCmd)
}
