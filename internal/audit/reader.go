package audit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

var (
	// ErrRunNotFound is returned when no run has the requested ID.
	ErrRunNotFound = errors.New("run not found")
	// ErrNoRuns is returned when the journal holds no runs.
	ErrNoRuns = errors.New("no runs found in journal")
)

// Reader reads the journal in a directory.
type Reader struct {
	path string
}

// NewReader creates a Reader for the journal in dir.
func NewReader(dir string) *Reader {
	return &Reader{path: filepath.Join(dir, JournalFile)}
}

// ListRuns returns all runs, oldest first.
func (r *Reader) ListRuns() ([]RunInfo, error) {
	events, err := r.Events()
	if err != nil {
		return nil, err
	}
	return extractRunInfos(events), nil
}

// GetRun returns the events of one run in journal order.
func (r *Reader) GetRun(runID RunID) ([]Event, error) {
	events, err := r.Events()
	if err != nil {
		return nil, err
	}

	var runEvents []Event
	for _, e := range events {
		if e.RunID == runID {
			runEvents = append(runEvents, e)
		}
	}
	if len(runEvents) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return runEvents, nil
}

// GetRunByID returns the summary of one run.
func (r *Reader) GetRunByID(runID RunID) (*RunInfo, error) {
	runs, err := r.ListRuns()
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if runs[i].RunID == runID {
			return &runs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
}

// GetLatestRun returns the most recently started run.
func (r *Reader) GetLatestRun() (*RunInfo, error) {
	runs, err := r.ListRuns()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	return &runs[len(runs)-1], nil
}

// Events reads every event in the journal. A missing journal is empty.
func (r *Reader) Events() ([]Event, error) {
	return readEvents(r.path)
}

func readEvents(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)

	const maxLine = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		event, err := UnmarshalJSONLine(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse journal line %d: %w", lineNum, err)
		}
		events = append(events, *event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading journal: %w", err)
	}

	return events, nil
}

// extractRunInfos groups events by run, skipping system events that carry
// no run ID, and orders runs by start time.
func extractRunInfos(events []Event) []RunInfo {
	var order []RunID
	byRun := make(map[RunID][]Event)
	for _, e := range events {
		if e.RunID == "" {
			continue
		}
		if _, ok := byRun[e.RunID]; !ok {
			order = append(order, e.RunID)
		}
		byRun[e.RunID] = append(byRun[e.RunID], e)
	}

	runs := make([]RunInfo, 0, len(order))
	for _, id := range order {
		runs = append(runs, buildRunInfo(id, byRun[id]))
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartTime.Before(runs[j].StartTime)
	})
	return runs
}

func buildRunInfo(runID RunID, events []Event) RunInfo {
	info := RunInfo{
		RunID:   runID,
		Status:  RunStatusInProgress,
		RunType: RunTypeOrganize,
	}

	for _, e := range events {
		switch e.EventType {
		case EventRunStart:
			info.StartTime = e.Timestamp
			if t, ok := e.Metadata["runType"]; ok {
				info.RunType = RunType(t)
			}
			info.Directory = e.Metadata["directory"]
			if target, ok := e.Metadata["undoTargetId"]; ok {
				id := RunID(target)
				info.UndoTargetID = &id
				info.RunType = RunTypeUndo
			}
		case EventRunEnd:
			end := e.Timestamp
			info.EndTime = &end
			if status, ok := e.Metadata["status"]; ok {
				info.Status = RunStatus(status)
			}
		case EventMove:
			info.Summary.Moved++
		case EventDelete:
			info.Summary.Deleted++
		case EventError:
			info.Summary.Errors++
		case EventUndoMove:
			info.Summary.Restored++
		case EventUndoSkip:
			info.Summary.Skipped++
		}
	}

	return info
}
