package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// PatientEmbedding stores one chunk vector. CollectionId equals the
// owning patient's id; the unique index makes re-ingestion replace
// instead of accumulate.
type PatientEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CollectionId   string          `gorm:"type:text;not null;index;uniqueIndex:idx_collection_chunk"`
	SourceFileId   uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_collection_chunk"`
	ChunkIndex     int             `gorm:"not null;default:0;uniqueIndex:idx_collection_chunk"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (PatientEmbedding) TableName() string {
	return "patient_embeddings"
}
