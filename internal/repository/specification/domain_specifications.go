package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByChatSessionID filters chat messages by session
type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// ByPatientID filters rows owned by a patient
type ByPatientID struct {
	PatientID uuid.UUID
}

func (s ByPatientID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("patient_id = ?", s.PatientID)
}

// ByIngestionStatus filters patient files by lifecycle state
type ByIngestionStatus struct {
	Status string
}

func (s ByIngestionStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ingestion_status = ?", s.Status)
}

// ByFileIdentity matches the (patient, filename, filetype) metadata key
type ByFileIdentity struct {
	PatientID uuid.UUID
	FileName  string
	FileType  string
}

func (s ByFileIdentity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("patient_id = ? AND file_name = ? AND file_type = ?",
		s.PatientID, s.FileName, s.FileType)
}
