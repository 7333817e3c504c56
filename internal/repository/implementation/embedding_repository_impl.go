package implementation

import (
	"context"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/mapper"
	"github.com/ssmubc/Empathetic-Communication/internal/model"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PatientEmbeddingMapper
}

func NewEmbeddingRepository(db *gorm.DB) contract.EmbeddingRepository {
	return &EmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewPatientEmbeddingMapper(),
	}
}

func (r *EmbeddingRepositoryImpl) ReplaceForSource(ctx context.Context, collectionId string, sourceFileId uuid.UUID, records []*entity.PatientEmbedding) error {
	models := make([]*model.PatientEmbedding, len(records))
	for i, e := range records {
		m := r.mapper.ToModel(e)
		if m.Id == uuid.Nil {
			m.Id = uuid.New()
		}
		models[i] = m
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("collection_id = ? AND source_file_id = ?", collectionId, sourceFileId).
			Delete(&model.PatientEmbedding{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.Create(models).Error; err != nil {
			return err
		}
		for i, m := range models {
			*records[i] = *r.mapper.ToEntity(m)
		}
		return nil
	})
}

func (r *EmbeddingRepositoryImpl) DeleteBySource(ctx context.Context, collectionId string, sourceFileId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("collection_id = ? AND source_file_id = ?", collectionId, sourceFileId).
		Delete(&model.PatientEmbedding{}).Error
}

func (r *EmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, collectionId string, queryVector []float32, k int) ([]*entity.PatientEmbedding, error) {
	if k <= 0 {
		k = 5
	}
	var models []*model.PatientEmbedding

	// Cosine distance order; deterministic tie-break on chunk position
	// then source file. The collection filter is what keeps patients
	// isolated from each other. The distance expression has to go in as
	// an OrderBy clause: plain Order() only accepts strings.
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionId).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding_value <=> ?, chunk_index ASC, source_file_id ASC",
			Vars: []interface{}{pgvector.NewVector(queryVector)},
		}}).
		Limit(k).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.PatientEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *EmbeddingRepositoryImpl) CollectionExists(ctx context.Context, collectionId string) (bool, error) {
	count, err := r.CountByCollection(ctx, collectionId)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *EmbeddingRepositoryImpl) CountByCollection(ctx context.Context, collectionId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PatientEmbedding{}).
		Where("collection_id = ?", collectionId).
		Count(&count).Error
	return count, err
}
