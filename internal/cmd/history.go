package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tidy/internal/audit"
)

func newHistoryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the changes tidy has made, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := audit.NewReader(a.cfg.JournalDir(a.cfgPath)).ListRuns()
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				if runs == nil {
					runs = []audit.RunInfo{}
				}
				return a.out.JSON(runs)
			}
			a.out.Runs(runs)
			return nil
		},
	}
}

func newUndoCommand(a *app) *cobra.Command {
	var dryRun, yes bool

	cmd := &cobra.Command{
		Use:   "undo [run-id]",
		Short: "Move the files of a run back where they came from",
		Long: `Reverse the moves of a run recorded in the undo history, the latest run
when no ID is given. A file is only moved back when it is unchanged since
the run and its original location is free. Deletions cannot be undone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID audit.RunID
			if len(args) == 1 {
				runID = audit.RunID(args[0])
			}
			return a.runUndo(runID, dryRun, yes)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be restored without moving anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) runUndo(runID audit.RunID, dryRun, yes bool) error {
	if err := a.checkJSONChange(dryRun, yes); err != nil {
		return err
	}

	dir := a.cfg.JournalDir(a.cfgPath)
	reader := audit.NewReader(dir)

	var (
		target *audit.RunInfo
		err    error
	)
	if runID == "" {
		target, err = reader.GetLatestRun()
	} else {
		target, err = reader.GetRunByID(runID)
	}
	if errors.Is(err, audit.ErrNoRuns) {
		a.out.Warn("No operations recorded")
		return nil
	}
	if err != nil {
		return err
	}

	writer, err := audit.NewWriter(dir)
	if err != nil {
		return err
	}
	undoer := audit.NewUndoer(reader, writer, a.logger)

	preview, err := undoer.PreviewUndo(target.RunID)
	if err != nil {
		return err
	}
	if a.jsonOutput() && dryRun {
		return a.out.JSON(preview)
	}
	if !a.jsonOutput() {
		a.out.UndoPreview(preview)
		if dryRun {
			a.out.Warn("🔍 Dry run mode - no files will be moved")
			return nil
		}
		if preview.Restorable == 0 {
			return nil
		}
		ok, err := a.confirm(fmt.Sprintf("Undo run %s?", target.RunID), yes)
		if err != nil || !ok {
			return err
		}
	}

	if target.Directory != "" {
		lock, err := a.lockFolder(target.Directory)
		if err != nil {
			return err
		}
		defer lock.Unlock()
	}

	result, err := undoer.UndoRun(target.RunID)
	if err != nil {
		return err
	}
	a.prune(writer)

	if a.jsonOutput() {
		if err := a.out.JSON(result); err != nil {
			return err
		}
	} else {
		a.out.UndoResult(result)
	}
	if result.Failed > 0 {
		return ErrOperationFailed
	}
	return nil
}
