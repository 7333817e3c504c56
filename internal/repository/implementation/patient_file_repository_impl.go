package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/mapper"
	"github.com/ssmubc/Empathetic-Communication/internal/model"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/contract"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PatientFileMapper
}

func NewPatientFileRepository(db *gorm.DB) contract.PatientFileRepository {
	return &PatientFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewPatientFileMapper(),
	}
}

func (r *PatientFileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PatientFileRepositoryImpl) Upsert(ctx context.Context, file *entity.PatientFile) error {
	var existing model.PatientFile
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND file_name = ? AND file_type = ?",
			file.PatientId, file.FileName, file.FileType).
		First(&existing).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		m := r.mapper.ToModel(file)
		if m.Id == uuid.Nil {
			m.Id = uuid.New()
		}
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return err
		}
		*file = *r.mapper.ToEntity(m)
		return nil
	}

	fresh := r.mapper.ToModel(file)
	updates := map[string]interface{}{
		"s3_bucket_reference": fresh.S3BucketReference,
		"file_path":           fresh.FilePath,
		"file_category":       fresh.FileCategory,
		"time_uploaded":       fresh.TimeUploaded,
	}
	// Re-uploads refresh the recorded event metadata too, but an upsert
	// without metadata must not wipe what the first event stored.
	if fresh.Metadata != nil {
		updates["metadata"] = fresh.Metadata
	} else {
		fresh.Metadata = existing.Metadata
	}
	if err := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return err
	}

	existing.S3BucketReference = fresh.S3BucketReference
	existing.FilePath = fresh.FilePath
	existing.FileCategory = fresh.FileCategory
	existing.Metadata = fresh.Metadata
	existing.TimeUploaded = fresh.TimeUploaded
	*file = *r.mapper.ToEntity(&existing)
	return nil
}

func (r *PatientFileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PatientFile, error) {
	var m model.PatientFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PatientFileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PatientFile, error) {
	var models []*model.PatientFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PatientFile, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PatientFileRepositoryImpl) TryBeginProcessing(ctx context.Context, fileId uuid.UUID) (bool, error) {
	// Conditional transition: the UPDATE only wins when nobody else
	// holds the processing state. Zero rows affected means a concurrent
	// ingestion owns the file.
	result := r.db.WithContext(ctx).
		Model(&model.PatientFile{}).
		Where("id = ? AND ingestion_status <> ?", fileId, entity.IngestionStatusProcessing).
		Updates(map[string]interface{}{
			"ingestion_status":  entity.IngestionStatusProcessing,
			"status_changed_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PatientFileRepositoryImpl) UpdateIngestionStatus(ctx context.Context, fileId uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.PatientFile{}).
		Where("id = ?", fileId).
		Updates(map[string]interface{}{
			"ingestion_status":  status,
			"status_changed_at": time.Now().UTC(),
		}).Error
}

func (r *PatientFileRepositoryImpl) MarkProcessingAsError(ctx context.Context) ([]string, error) {
	var filenames []string
	err := r.db.WithContext(ctx).
		Model(&model.PatientFile{}).
		Where("ingestion_status = ?", entity.IngestionStatusProcessing).
		Pluck("file_name", &filenames).Error
	if err != nil {
		return nil, err
	}
	if len(filenames) == 0 {
		return []string{}, nil
	}

	err = r.db.WithContext(ctx).
		Model(&model.PatientFile{}).
		Where("ingestion_status = ?", entity.IngestionStatusProcessing).
		Updates(map[string]interface{}{
			"ingestion_status":  entity.IngestionStatusError,
			"status_changed_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, err
	}
	return filenames, nil
}
