package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ingestion status lifecycle: not_processing -> processing ->
// {completed | error}. The watchdog sweep force-resolves stale
// processing rows to error.
const (
	IngestionStatusNotProcessing = "not_processing"
	IngestionStatusProcessing    = "processing"
	IngestionStatusCompleted     = "completed"
	IngestionStatusError         = "error"
)

// PatientFile is the metadata row for one uploaded object, keyed by
// (patient, filename, filetype).
type PatientFile struct {
	Id                uuid.UUID
	PatientId         uuid.UUID
	FileName          string
	FileType          string
	Category          FileCategory
	BucketReference   string
	FilePath          string
	Metadata          map[string]interface{}
	IngestionStatus   string
	TimeUploaded      time.Time
	StatusChangedAt   time.Time
}
