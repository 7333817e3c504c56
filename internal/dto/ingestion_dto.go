package dto

import (
	"time"

	"github.com/google/uuid"
)

// FileEventRequest is the storage notification that a patient file was
// written or removed. The key follows
// {group_id}/{patient_id}/{category}/{file_name}.{ext}.
type FileEventRequest struct {
	Bucket    string `json:"bucket" validate:"required"`
	Key       string `json:"key" validate:"required"`
	EventName string `json:"event_name"`
}

type FileEventResponse struct {
	FileId          uuid.UUID `json:"file_id,omitempty"`
	FileName        string    `json:"file_name"`
	Category        string    `json:"category"`
	IngestionStatus string    `json:"ingestion_status,omitempty"`
	Skipped         bool      `json:"skipped"`
}

// RetryIngestionRequest re-queues a failed file by identity.
type RetryIngestionRequest struct {
	PatientId uuid.UUID `json:"patient_id" validate:"required"`
	FileName  string    `json:"file_name" validate:"required"`
	FileType  string    `json:"file_type" validate:"required"`
}

type RetryIngestionResponse struct {
	FileId uuid.UUID `json:"file_id"`
	Queued bool      `json:"queued"`
}

// EmbedPatientFileMessage is the internal job payload queued for the
// ingestion consumer.
type EmbedPatientFileMessage struct {
	FileId uuid.UUID `json:"file_id"`
}

type SweepResponse struct {
	MarkedFiles []string  `json:"marked_files"`
	SweptAt     time.Time `json:"swept_at"`
}

type FileStatusResponse struct {
	FileId          uuid.UUID  `json:"file_id"`
	FileName        string     `json:"file_name"`
	FileType        string     `json:"file_type"`
	Category        string     `json:"category"`
	IngestionStatus string     `json:"ingestion_status"`
	TimeUploaded    time.Time  `json:"time_uploaded"`
	StatusChangedAt *time.Time `json:"status_changed_at"`
}

type PatientFilesResponse struct {
	PatientId uuid.UUID            `json:"patient_id"`
	Files     []FileStatusResponse `json:"files"`
}
