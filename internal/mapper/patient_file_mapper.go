package mapper

import (
	"encoding/json"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/model"

	"gorm.io/datatypes"
)

type PatientFileMapper struct{}

func NewPatientFileMapper() *PatientFileMapper {
	return &PatientFileMapper{}
}

func (m *PatientFileMapper) ToModel(e *entity.PatientFile) *model.PatientFile {
	var meta datatypes.JSON
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			meta = datatypes.JSON(b)
		}
	}
	return &model.PatientFile{
		Id:                e.Id,
		PatientId:         e.PatientId,
		FileName:          e.FileName,
		FileType:          e.FileType,
		FileCategory:      e.Category.String(),
		S3BucketReference: e.BucketReference,
		FilePath:          e.FilePath,
		Metadata:          meta,
		IngestionStatus:   e.IngestionStatus,
		TimeUploaded:      e.TimeUploaded,
		StatusChangedAt:   e.StatusChangedAt,
	}
}

func (m *PatientFileMapper) ToEntity(mod *model.PatientFile) *entity.PatientFile {
	category, err := entity.ParseFileCategory(mod.FileCategory)
	if err != nil {
		category = entity.CategoryDocuments
	}
	var meta map[string]interface{}
	if len(mod.Metadata) > 0 {
		_ = json.Unmarshal(mod.Metadata, &meta)
	}
	return &entity.PatientFile{
		Id:              mod.Id,
		PatientId:       mod.PatientId,
		FileName:        mod.FileName,
		FileType:        mod.FileType,
		Category:        category,
		BucketReference: mod.S3BucketReference,
		FilePath:        mod.FilePath,
		Metadata:        meta,
		IngestionStatus: mod.IngestionStatus,
		TimeUploaded:    mod.TimeUploaded,
		StatusChangedAt: mod.StatusChangedAt,
	}
}
