package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientEmbedding is one embedded chunk of a source file inside a
// patient's collection. The collection id is the patient id; chunks of
// different patients never mix.
type PatientEmbedding struct {
	Id             uuid.UUID
	CollectionId   string
	SourceFileId   uuid.UUID
	ChunkIndex     int
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
