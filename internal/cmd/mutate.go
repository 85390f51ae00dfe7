package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidy/internal/audit"
	"tidy/internal/organizer"
)

func newOrganizeCommand(a *app) *cobra.Command {
	var dryRun, yes bool

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Move every recognised file into its category folder",
		Long: `Move each file whose extension belongs to a category into a subfolder
named after that category, creating the subfolder when needed. Files with
unknown or no extension stay where they are.

The plan is shown first and nothing moves until you confirm.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOrganize(dryRun, yes)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without moving anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) runOrganize(dryRun, yes bool) error {
	if err := a.checkJSONChange(dryRun, yes); err != nil {
		return err
	}
	o, journal, err := a.openForChange()
	if err != nil {
		return err
	}

	a.out.Status("Reading folder...")
	preview, err := o.PreviewOrganization()
	a.out.ClearStatus()
	if err != nil {
		return err
	}
	organize := func() organizer.OperationResult { return o.OrganizeFiles(false) }

	if a.jsonOutput() {
		if dryRun || len(preview) == 0 {
			return a.reportJSON(o.OrganizeFiles(true))
		}
		result, err := a.commit(o, journal, audit.RunTypeOrganize, organize)
		if err != nil {
			return err
		}
		return a.reportJSON(result)
	}

	a.out.Preview(preview)
	if len(preview) == 0 {
		return nil
	}
	if dryRun {
		a.out.Warn("🔍 Dry run mode - no files will be moved")
		return nil
	}

	ok, err := a.confirm("Proceed with organization?", yes)
	if err != nil || !ok {
		return err
	}

	result, err := a.commit(o, journal, audit.RunTypeOrganize, organize)
	if err != nil {
		return err
	}
	return a.report(result, "❌ Organization completed with errors")
}

func newMoveCommand(a *app) *cobra.Command {
	var dryRun, yes bool

	cmd := &cobra.Command{
		Use:   "move <extension> <destination>",
		Short: "Move files with an extension to another folder",
		Long: `Move every file directly inside the folder whose extension matches
(ignoring case, with or without the leading dot) into destination, which
must be an existing folder other than the one being tidied.

Examples:
  tidy move pdf ~/Documents
  tidy -p ~/Downloads move .jpg ~/Pictures --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMove(args[0], args[1], dryRun, yes)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be moved without moving anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) runMove(ext, dest string, dryRun, yes bool) error {
	if err := a.checkJSONChange(dryRun, yes); err != nil {
		return err
	}
	o, journal, err := a.openForChange()
	if err != nil {
		return err
	}

	planned := o.MoveFiles(ext, dest, true)
	move := func() organizer.OperationResult { return o.MoveFiles(ext, dest, false) }

	if a.jsonOutput() {
		if dryRun || !planned.Success || planned.FilesAffected == 0 {
			return a.reportJSON(planned)
		}
		result, err := a.commit(o, journal, audit.RunTypeMove, move)
		if err != nil {
			return err
		}
		return a.reportJSON(result)
	}

	if !planned.Success {
		return a.report(planned, "❌ Cannot move files")
	}
	if planned.FilesAffected == 0 {
		a.out.Warn("No files found with extension '%s'", ext)
		return nil
	}

	a.out.FileList(fmt.Sprintf("Found %d file(s) to move:", planned.FilesAffected), planned.FilesList)
	if dryRun {
		a.out.Warn("🔍 Dry run mode - no files will be moved")
		return nil
	}

	ok, err := a.confirm(fmt.Sprintf("Move these files to %s?", dest), yes)
	if err != nil || !ok {
		return err
	}

	result, err := a.commit(o, journal, audit.RunTypeMove, move)
	if err != nil {
		return err
	}
	return a.report(result, "❌ Move completed with errors")
}

func newDeleteCommand(a *app) *cobra.Command {
	var dryRun, yes bool

	cmd := &cobra.Command{
		Use:   "delete <extension>",
		Short: "Permanently delete files with an extension",
		Long: `Delete every file directly inside the folder whose extension matches
(ignoring case, with or without the leading dot). Deleted files cannot be
restored by undo.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDelete(args[0], dryRun, yes)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be deleted without deleting anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) runDelete(ext string, dryRun, yes bool) error {
	if err := a.checkJSONChange(dryRun, yes); err != nil {
		return err
	}
	o, journal, err := a.openForChange()
	if err != nil {
		return err
	}

	planned := o.DeleteFiles(ext, true)
	remove := func() organizer.OperationResult { return o.DeleteFiles(ext, false) }

	if a.jsonOutput() {
		if dryRun || !planned.Success || planned.FilesAffected == 0 {
			return a.reportJSON(planned)
		}
		result, err := a.commit(o, journal, audit.RunTypeDelete, remove)
		if err != nil {
			return err
		}
		return a.reportJSON(result)
	}

	if !planned.Success {
		return a.report(planned, "❌ Cannot delete files")
	}
	if planned.FilesAffected == 0 {
		a.out.Warn("No files found with extension '%s'", ext)
		return nil
	}

	a.out.Error("⚠️  WARNING: This will permanently delete %d file(s)!", planned.FilesAffected)
	a.out.FileList("", planned.FilesList)
	if dryRun {
		a.out.Warn("🔍 Dry run mode - no files will be deleted")
		return nil
	}

	ok, err := a.confirm("Are you absolutely sure?", yes)
	if err != nil || !ok {
		return err
	}

	result, err := a.commit(o, journal, audit.RunTypeDelete, remove)
	if err != nil {
		return err
	}
	return a.report(result, "❌ Delete completed with errors")
}
