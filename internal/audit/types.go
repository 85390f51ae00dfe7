// Package audit keeps tidy's undo journal: an append-only JSON Lines log of
// every committed move and deletion, grouped into runs, from which a run's
// moves can be replayed backwards.
package audit

import "time"

// RunID is a unique identifier for one committed command, in UUID v4 form.
type RunID string

// EventType represents the type of journal event.
type EventType string

const (
	// Run lifecycle events
	EventRunStart EventType = "RUN_START"
	EventRunEnd   EventType = "RUN_END"

	// File operation events
	EventMove   EventType = "MOVE"
	EventDelete EventType = "DELETE"
	EventError  EventType = "ERROR"

	// Undo events
	EventUndoMove EventType = "UNDO_MOVE"
	EventUndoSkip EventType = "UNDO_SKIP"

	// System events
	EventLogInitialized EventType = "LOG_INITIALIZED"
	EventRetentionPrune EventType = "RETENTION_PRUNE"
)

// OperationStatus represents the outcome of an operation.
type OperationStatus string

const (
	StatusSuccess OperationStatus = "SUCCESS"
	StatusFailure OperationStatus = "FAILURE"
	StatusSkipped OperationStatus = "SKIPPED"
)

// ReasonCode explains why an undo step was skipped or failed.
type ReasonCode string

const (
	ReasonIrreversible        ReasonCode = "IRREVERSIBLE"
	ReasonIdentityMismatch    ReasonCode = "IDENTITY_MISMATCH"
	ReasonDestinationOccupied ReasonCode = "DESTINATION_OCCUPIED"
	ReasonSourceNotFound      ReasonCode = "SOURCE_NOT_FOUND"
	ReasonRestoreFailed       ReasonCode = "RESTORE_FAILED"
)

// RunStatus represents the status of a run.
type RunStatus string

const (
	RunStatusInProgress RunStatus = "IN_PROGRESS"
	RunStatusCompleted  RunStatus = "COMPLETED"
	RunStatusFailed     RunStatus = "FAILED"
)

// RunType names the command that produced a run.
type RunType string

const (
	RunTypeOrganize RunType = "ORGANIZE"
	RunTypeMove     RunType = "MOVE"
	RunTypeDelete   RunType = "DELETE"
	RunTypeUndo     RunType = "UNDO"
)

// FileIdentity captures what a moved file looked like right after the move,
// so an undo can tell whether it is still the same file.
type FileIdentity struct {
	ContentHash string    `json:"contentHash"` // BLAKE3 hex string
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"modTime"`
}

// ErrorDetails contains detailed information about an error.
type ErrorDetails struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
	Operation    string `json:"operation"`
}

// Event is a single journal record.
type Event struct {
	Timestamp       time.Time         `json:"timestamp"`
	RunID           RunID             `json:"runId"`
	EventType       EventType         `json:"eventType"`
	Status          OperationStatus   `json:"status"`
	SourcePath      string            `json:"sourcePath,omitempty"`
	DestinationPath string            `json:"destinationPath,omitempty"`
	ReasonCode      ReasonCode        `json:"reasonCode,omitempty"`
	FileIdentity    *FileIdentity     `json:"fileIdentity,omitempty"`
	ErrorDetails    *ErrorDetails     `json:"errorDetails,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// RunSummary counts the file events of a run.
type RunSummary struct {
	Moved    int `json:"moved"`
	Deleted  int `json:"deleted"`
	Errors   int `json:"errors"`
	Restored int `json:"restored"`
	Skipped  int `json:"skipped"`
}

// RunInfo contains metadata and summary for a run.
type RunInfo struct {
	RunID        RunID      `json:"runId"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Status       RunStatus  `json:"status"`
	RunType      RunType    `json:"runType"`
	Directory    string     `json:"directory,omitempty"`
	Summary      RunSummary `json:"summary"`
	UndoTargetID *RunID     `json:"undoTargetId,omitempty"` // For UNDO runs
}

// JournalFile is the name of the journal inside its directory.
const JournalFile = "tidy-journal.jsonl"
