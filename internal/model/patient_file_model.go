package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PatientFile is the metadata row for one uploaded object. A row is
// unique per (patient, filename, filetype); re-uploads update in place.
type PatientFile struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientId         uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_patient_file"`
	FileName          string         `gorm:"type:text;not null;uniqueIndex:idx_patient_file"`
	FileType          string         `gorm:"type:text;not null;uniqueIndex:idx_patient_file"`
	FileCategory      string         `gorm:"type:text;not null;default:documents"`
	S3BucketReference string         `gorm:"type:text"`
	FilePath          string         `gorm:"type:text"`
	Metadata          datatypes.JSON `gorm:"type:jsonb"`
	IngestionStatus   string         `gorm:"type:text;not null;default:not_processing;index"`
	TimeUploaded      time.Time
	StatusChangedAt   time.Time `gorm:"autoUpdateTime"`
}

func (PatientFile) TableName() string {
	return "patient_data"
}
