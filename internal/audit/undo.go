package audit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"tidy/internal/transfer"
)

var (
	// ErrUndoOfUndo is returned when asked to reverse an UNDO run.
	ErrUndoOfUndo = errors.New("cannot undo an UNDO run")
	// ErrAlreadyUndone is returned when a later UNDO run already targets the run.
	ErrAlreadyUndone = errors.New("run has already been undone")
)

// UndoResult contains the result of an undo operation.
type UndoResult struct {
	UndoRunID   RunID       // The run ID of the undo operation itself
	TargetRunID RunID       // The run ID that was undone
	Restored    int         // Files moved back to their original location
	Skipped     int         // Deletions, which cannot be reversed
	Failed      int         // Moves that could not be reversed
	Failures    []UndoError // Details of failures
}

// UndoError describes one move that could not be reversed.
type UndoError struct {
	SourcePath string     // Original location
	DestPath   string     // Where the move put the file
	Reason     ReasonCode // Why it failed
	Message    string
}

// UndoPreview lists what UndoRun would do for a run.
type UndoPreview struct {
	TargetRunID RunID
	Items       []UndoPreviewItem
	Restorable  int
}

// UndoPreviewItem is one journaled change as it would be handled by undo.
type UndoPreviewItem struct {
	EventType   EventType
	SourcePath  string // Original location
	DestPath    string // Current location, empty for deletions
	WillRestore bool
	Reason      ReasonCode // Set when WillRestore is false
}

// Undoer replays runs backwards: MOVE events are moved back newest first,
// DELETE events are reported as skipped. Each step verifies that the file at
// the destination is still the one that was moved and that nothing occupies
// the original location.
type Undoer struct {
	reader *Reader
	writer *Writer
	logger *zap.Logger
}

// NewUndoer creates an Undoer. A nil logger discards everything.
func NewUndoer(reader *Reader, writer *Writer, logger *zap.Logger) *Undoer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Undoer{reader: reader, writer: writer, logger: logger}
}

// UndoLatest undoes the most recent run.
func (u *Undoer) UndoLatest() (*UndoResult, error) {
	latest, err := u.reader.GetLatestRun()
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return u.UndoRun(latest.RunID)
}

// UndoRun reverses the run with the given ID as a new UNDO run.
func (u *Undoer) UndoRun(runID RunID) (*UndoResult, error) {
	events, err := u.undoable(runID)
	if err != nil {
		return nil, err
	}

	undoRunID, err := u.writer.StartUndoRun(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to start undo run: %w", err)
	}

	result := &UndoResult{UndoRunID: undoRunID, TargetRunID: runID}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		switch e.EventType {
		case EventMove:
			if uerr := u.undoMove(e); uerr != nil {
				result.Failed++
				result.Failures = append(result.Failures, *uerr)
				continue
			}
			result.Restored++
		case EventDelete:
			result.Skipped++
			if err := u.writer.recordUndoSkip("", e.SourcePath, ReasonIrreversible, "deleted files cannot be restored"); err != nil {
				u.logger.Warn("Failed to record undo skip", zap.String("file", e.SourcePath), zap.Error(err))
			}
		}
	}

	status := RunStatusCompleted
	if result.Failed > 0 {
		status = RunStatusFailed
	}
	if _, err := u.writer.EndRun(status); err != nil {
		return result, fmt.Errorf("failed to end undo run: %w", err)
	}

	u.logger.Info("Undo finished",
		zap.String("run", string(runID)),
		zap.Int("restored", result.Restored),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

// PreviewUndo reports what UndoRun would do without touching any file.
func (u *Undoer) PreviewUndo(runID RunID) (*UndoPreview, error) {
	events, err := u.undoable(runID)
	if err != nil {
		return nil, err
	}

	preview := &UndoPreview{TargetRunID: runID}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		switch e.EventType {
		case EventMove:
			item := UndoPreviewItem{
				EventType:  e.EventType,
				SourcePath: e.SourcePath,
				DestPath:   e.DestinationPath,
			}
			if reason, _ := checkMove(e); reason != "" {
				item.Reason = reason
			} else {
				item.WillRestore = true
				preview.Restorable++
			}
			preview.Items = append(preview.Items, item)
		case EventDelete:
			preview.Items = append(preview.Items, UndoPreviewItem{
				EventType:  e.EventType,
				SourcePath: e.SourcePath,
				Reason:     ReasonIrreversible,
			})
		}
	}
	return preview, nil
}

// undoable returns the events of runID after checking the run may be undone.
func (u *Undoer) undoable(runID RunID) ([]Event, error) {
	runs, err := u.reader.ListRuns()
	if err != nil {
		return nil, err
	}

	var target *RunInfo
	for i := range runs {
		r := runs[i]
		if r.RunID == runID {
			target = &runs[i]
		}
		if r.UndoTargetID != nil && *r.UndoTargetID == runID {
			return nil, fmt.Errorf("%w: %s (by %s)", ErrAlreadyUndone, runID, r.RunID)
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if target.RunType == RunTypeUndo {
		return nil, fmt.Errorf("%w: %s", ErrUndoOfUndo, runID)
	}

	return u.reader.GetRun(runID)
}

// checkMove decides whether a MOVE event can be reversed right now.
// It returns an empty reason when it can.
func checkMove(e Event) (ReasonCode, string) {
	if e.FileIdentity != nil {
		match, err := VerifyIdentity(e.DestinationPath, *e.FileIdentity)
		if err != nil {
			return ReasonIdentityMismatch, fmt.Sprintf("identity verification error: %v", err)
		}
		switch match {
		case IdentityNotFound:
			return ReasonSourceNotFound, "file not found at destination"
		case IdentitySizeMismatch:
			return ReasonIdentityMismatch, "file size has changed since it was moved"
		case IdentityHashMismatch:
			return ReasonIdentityMismatch, "file content has changed since it was moved"
		}
	} else if _, err := os.Stat(e.DestinationPath); err != nil {
		return ReasonSourceNotFound, "file not found at destination"
	}

	if _, err := os.Lstat(e.SourcePath); err == nil {
		return ReasonDestinationOccupied, "original location already has a file"
	}
	return "", ""
}

func (u *Undoer) undoMove(e Event) *UndoError {
	fail := func(reason ReasonCode, message string) *UndoError {
		u.logger.Warn("Cannot undo move",
			zap.String("file", e.DestinationPath),
			zap.String("reason", string(reason)),
			zap.String("detail", message))
		if err := u.writer.recordUndoSkip(e.SourcePath, e.DestinationPath, reason, message); err != nil {
			u.logger.Warn("Failed to record undo skip", zap.String("file", e.DestinationPath), zap.Error(err))
		}
		return &UndoError{
			SourcePath: e.SourcePath,
			DestPath:   e.DestinationPath,
			Reason:     reason,
			Message:    message,
		}
	}

	if reason, message := checkMove(e); reason != "" {
		return fail(reason, message)
	}

	if err := os.MkdirAll(filepath.Dir(e.SourcePath), 0755); err != nil {
		return fail(ReasonRestoreFailed, fmt.Sprintf("failed to create original directory: %v", err))
	}
	if err := transfer.Move(e.DestinationPath, e.SourcePath); err != nil {
		return fail(ReasonRestoreFailed, fmt.Sprintf("failed to move file back: %v", err))
	}

	if err := u.writer.recordUndoMove(e.SourcePath, e.DestinationPath, e.FileIdentity); err != nil {
		u.logger.Warn("Failed to record undo move", zap.String("file", e.SourcePath), zap.Error(err))
	}
	return nil
}
