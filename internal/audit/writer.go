package audit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"tidy/internal/filelock"
)

// ErrNoActiveRun is returned when a file event is recorded outside a run.
var ErrNoActiveRun = errors.New("no run in progress")

// Writer appends events to the journal. Every append opens the journal,
// writes one line and syncs it while holding the journal's file lock, so
// several tidy processes can share one journal.
//
// A Writer tracks at most one run at a time and implements the recorder
// the organizer reports committed changes to.
type Writer struct {
	mu         sync.Mutex
	dir        string
	path       string
	lock       *filelock.Lock
	currentRun *RunID
	summary    RunSummary
	now        func() time.Time
}

// NewWriter prepares the journal in dir, creating the directory and, for a
// new journal, a LOG_INITIALIZED event.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	path := filepath.Join(dir, JournalFile)
	w := &Writer{
		dir:  dir,
		path: path,
		lock: filelock.New(path + ".lock"),
		now:  func() time.Time { return time.Now().UTC() },
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		err := w.append(Event{
			Timestamp: w.now(),
			EventType: EventLogInitialized,
			Status:    StatusSuccess,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to write LOG_INITIALIZED event: %w", err)
		}
	}

	return w, nil
}

// Path returns the journal file path.
func (w *Writer) Path() string {
	return w.path
}

// NewRunID returns a fresh UUID v4 run ID.
func NewRunID() RunID {
	return RunID(uuid.NewString())
}

// StartRun opens a run for a command committed against directory.
func (w *Writer) StartRun(runType RunType, directory string) (RunID, error) {
	return w.startRun(map[string]string{
		"runType":   string(runType),
		"directory": directory,
	})
}

// StartUndoRun opens an UNDO run that reverses target.
func (w *Writer) StartUndoRun(target RunID) (RunID, error) {
	return w.startRun(map[string]string{
		"runType":      string(RunTypeUndo),
		"undoTargetId": string(target),
	})
}

func (w *Writer) startRun(metadata map[string]string) (RunID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentRun != nil {
		return "", fmt.Errorf("run %s is still in progress", *w.currentRun)
	}

	runID := NewRunID()
	event := Event{
		Timestamp: w.now(),
		RunID:     runID,
		EventType: EventRunStart,
		Status:    StatusSuccess,
		Metadata:  metadata,
	}
	if err := w.append(event); err != nil {
		return "", fmt.Errorf("failed to write RUN_START event: %w", err)
	}

	w.currentRun = &runID
	w.summary = RunSummary{}
	return runID, nil
}

// CurrentRun returns the run in progress, if any.
func (w *Writer) CurrentRun() (RunID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.currentRun == nil {
		return "", false
	}
	return *w.currentRun, true
}

// EndRun closes the current run with status and the counts gathered since
// it started.
func (w *Writer) EndRun(status RunStatus) (RunSummary, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentRun == nil {
		return RunSummary{}, ErrNoActiveRun
	}

	summary := w.summary
	opStatus := StatusSuccess
	if status == RunStatusFailed {
		opStatus = StatusFailure
	}
	event := Event{
		Timestamp: w.now(),
		RunID:     *w.currentRun,
		EventType: EventRunEnd,
		Status:    opStatus,
		Metadata: map[string]string{
			"status":   string(status),
			"moved":    strconv.Itoa(summary.Moved),
			"deleted":  strconv.Itoa(summary.Deleted),
			"errors":   strconv.Itoa(summary.Errors),
			"restored": strconv.Itoa(summary.Restored),
			"skipped":  strconv.Itoa(summary.Skipped),
		},
	}
	if err := w.append(event); err != nil {
		return summary, fmt.Errorf("failed to write RUN_END event: %w", err)
	}

	w.currentRun = nil
	return summary, nil
}

// RecordMove journals a committed move. The identity is taken from the file
// at its new location.
func (w *Writer) RecordMove(source, dest string) error {
	identity, err := CaptureIdentity(dest)
	if err != nil {
		return fmt.Errorf("failed to capture identity of %s: %w", dest, err)
	}
	return w.writeFileEvent(Event{
		EventType:       EventMove,
		Status:          StatusSuccess,
		SourcePath:      source,
		DestinationPath: dest,
		FileIdentity:    identity,
	}, func(s *RunSummary) { s.Moved++ })
}

// RecordDelete journals a permanent deletion.
func (w *Writer) RecordDelete(path string) error {
	return w.writeFileEvent(Event{
		EventType:  EventDelete,
		Status:     StatusSuccess,
		SourcePath: path,
	}, func(s *RunSummary) { s.Deleted++ })
}

// RecordError journals a per-file failure.
func (w *Writer) RecordError(path, operation string, err error) error {
	return w.writeFileEvent(Event{
		EventType:  EventError,
		Status:     StatusFailure,
		SourcePath: path,
		ErrorDetails: &ErrorDetails{
			ErrorType:    fmt.Sprintf("%T", err),
			ErrorMessage: err.Error(),
			Operation:    operation,
		},
	}, func(s *RunSummary) { s.Errors++ })
}

func (w *Writer) recordUndoMove(source, dest string, identity *FileIdentity) error {
	return w.writeFileEvent(Event{
		EventType:       EventUndoMove,
		Status:          StatusSuccess,
		SourcePath:      dest,
		DestinationPath: source,
		FileIdentity:    identity,
	}, func(s *RunSummary) { s.Restored++ })
}

func (w *Writer) recordUndoSkip(source, dest string, reason ReasonCode, message string) error {
	return w.writeFileEvent(Event{
		EventType:       EventUndoSkip,
		Status:          StatusSkipped,
		SourcePath:      dest,
		DestinationPath: source,
		ReasonCode:      reason,
		Metadata:        map[string]string{"message": message},
	}, func(s *RunSummary) { s.Skipped++ })
}

// writeFileEvent stamps event with the current run and appends it.
func (w *Writer) writeFileEvent(event Event, count func(*RunSummary)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentRun == nil {
		return ErrNoActiveRun
	}
	event.RunID = *w.currentRun
	event.Timestamp = w.now()
	if err := w.append(event); err != nil {
		return err
	}
	count(&w.summary)
	return nil
}

// append writes one event line under the journal lock.
func (w *Writer) append(event Event) error {
	data, err := event.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	data = append(data, '\n')

	return w.lock.With(func() error {
		f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return fmt.Errorf("failed to write event: %w", err)
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return fmt.Errorf("failed to sync journal: %w", err)
		}
		return f.Close()
	})
}
