package audit

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"tidy/internal/filelock"
)

// PruneResult contains the result of a pruning operation.
type PruneResult struct {
	PrunedRuns    []RunID
	RemovedEvents int
	KeptRuns      int
}

// Prune keeps the newest maxRuns runs and drops the events of all older
// ones, rewriting the journal atomically and appending a RETENTION_PRUNE
// event. System events without a run are kept. maxRuns <= 0 keeps everything.
func (w *Writer) Prune(maxRuns int) (*PruneResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	result := &PruneResult{PrunedRuns: []RunID{}}
	if maxRuns <= 0 {
		return result, nil
	}

	err := w.lock.With(func() error {
		events, err := readEvents(w.path)
		if err != nil {
			return err
		}

		runs := extractRunInfos(events)
		result.KeptRuns = len(runs)
		if len(runs) <= maxRuns {
			return nil
		}

		drop := make(map[RunID]bool)
		for _, r := range runs[:len(runs)-maxRuns] {
			if w.currentRun != nil && r.RunID == *w.currentRun {
				continue
			}
			drop[r.RunID] = true
			result.PrunedRuns = append(result.PrunedRuns, r.RunID)
		}
		result.KeptRuns = len(runs) - len(result.PrunedRuns)
		if len(drop) == 0 {
			return nil
		}

		ids := make([]string, len(result.PrunedRuns))
		for i, id := range result.PrunedRuns {
			ids[i] = string(id)
		}

		var buf bytes.Buffer
		for _, e := range events {
			if drop[e.RunID] {
				result.RemovedEvents++
				continue
			}
			if err := writeLine(&buf, e); err != nil {
				return err
			}
		}
		pruneEvent := Event{
			Timestamp: w.now(),
			EventType: EventRetentionPrune,
			Status:    StatusSuccess,
			Metadata: map[string]string{
				"prunedRunCount": strconv.Itoa(len(ids)),
				"prunedRuns":     strings.Join(ids, ","),
			},
		}
		if err := writeLine(&buf, pruneEvent); err != nil {
			return err
		}

		return filelock.AtomicWrite(w.path, buf.Bytes(), 0644)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prune journal: %w", err)
	}
	return result, nil
}

func writeLine(buf *bytes.Buffer, e Event) error {
	data, err := e.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	buf.Write(data)
	buf.WriteByte('\n')
	return nil
}
