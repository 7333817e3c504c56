package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "INGESTION_STATUS").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic Event implementation used on both the
// publish and subscribe sides.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeIngestionStatus = "INGESTION_STATUS"
	TypeIngestionSwept  = "INGESTION_SWEPT"
)

// NewIngestionStatusEvent reports a file moving through the ingestion
// state machine. The websocket feed relays these to the frontend.
func NewIngestionStatusEvent(fileID, patientID, fileName, status string) Event {
	return BaseEvent{
		Type: TypeIngestionStatus,
		Data: map[string]interface{}{
			"file_id":    fileID,
			"patient_id": patientID,
			"file_name":  fileName,
			"status":     status,
		},
		OccurredAt: time.Now(),
	}
}

// NewIngestionSweptEvent reports a watchdog sweep that marked stalled
// files as errored.
func NewIngestionSweptEvent(fileNames []string) Event {
	return BaseEvent{
		Type: TypeIngestionSwept,
		Data: map[string]interface{}{
			"file_names": fileNames,
		},
		OccurredAt: time.Now(),
	}
}
