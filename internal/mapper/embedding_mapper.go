package mapper

import (
	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/model"

	"github.com/pgvector/pgvector-go"
)

type PatientEmbeddingMapper struct{}

func NewPatientEmbeddingMapper() *PatientEmbeddingMapper {
	return &PatientEmbeddingMapper{}
}

func (m *PatientEmbeddingMapper) ToModel(e *entity.PatientEmbedding) *model.PatientEmbedding {
	return &model.PatientEmbedding{
		Id:             e.Id,
		CollectionId:   e.CollectionId,
		SourceFileId:   e.SourceFileId,
		ChunkIndex:     e.ChunkIndex,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *PatientEmbeddingMapper) ToEntity(mod *model.PatientEmbedding) *entity.PatientEmbedding {
	return &entity.PatientEmbedding{
		Id:             mod.Id,
		CollectionId:   mod.CollectionId,
		SourceFileId:   mod.SourceFileId,
		ChunkIndex:     mod.ChunkIndex,
		Document:       mod.Document,
		EmbeddingValue: mod.EmbeddingValue.Slice(),
		CreatedAt:      mod.CreatedAt,
	}
}
