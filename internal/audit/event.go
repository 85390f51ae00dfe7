package audit

import (
	"encoding/json"
	"time"
)

// TimestampFormat is the layout of event timestamps. Nanoseconds are kept
// so events of one run sort in the order they were written.
const TimestampFormat = time.RFC3339Nano

// eventJSON is the wire form of Event, with the timestamp as a string.
type eventJSON struct {
	Timestamp       string            `json:"timestamp"`
	RunID           RunID             `json:"runId,omitempty"`
	EventType       EventType         `json:"eventType"`
	Status          OperationStatus   `json:"status"`
	SourcePath      string            `json:"sourcePath,omitempty"`
	DestinationPath string            `json:"destinationPath,omitempty"`
	ReasonCode      ReasonCode        `json:"reasonCode,omitempty"`
	FileIdentity    *FileIdentity     `json:"fileIdentity,omitempty"`
	ErrorDetails    *ErrorDetails     `json:"errorDetails,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON writes the event with a UTC timestamp and omits empty fields.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		Timestamp:       e.Timestamp.UTC().Format(TimestampFormat),
		RunID:           e.RunID,
		EventType:       e.EventType,
		Status:          e.Status,
		SourcePath:      e.SourcePath,
		DestinationPath: e.DestinationPath,
		ReasonCode:      e.ReasonCode,
		FileIdentity:    e.FileIdentity,
		ErrorDetails:    e.ErrorDetails,
		Metadata:        e.Metadata,
	})
}

// UnmarshalJSON parses an event written by MarshalJSON.
func (e *Event) UnmarshalJSON(data []byte) error {
	var ej eventJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return err
	}

	t, err := time.Parse(TimestampFormat, ej.Timestamp)
	if err != nil {
		return err
	}

	*e = Event{
		Timestamp:       t,
		RunID:           ej.RunID,
		EventType:       ej.EventType,
		Status:          ej.Status,
		SourcePath:      ej.SourcePath,
		DestinationPath: ej.DestinationPath,
		ReasonCode:      ej.ReasonCode,
		FileIdentity:    ej.FileIdentity,
		ErrorDetails:    ej.ErrorDetails,
		Metadata:        ej.Metadata,
	}
	return nil
}

// UnmarshalJSONLine parses one journal line.
func UnmarshalJSONLine(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
