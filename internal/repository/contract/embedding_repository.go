package contract

import (
	"context"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"

	"github.com/google/uuid"
)

type EmbeddingRepository interface {
	// ReplaceForSource deletes every chunk the source file previously
	// contributed to the collection, then inserts the new records, in
	// one transaction. Running it twice with the same input leaves the
	// collection unchanged.
	ReplaceForSource(ctx context.Context, collectionId string, sourceFileId uuid.UUID, records []*entity.PatientEmbedding) error

	DeleteBySource(ctx context.Context, collectionId string, sourceFileId uuid.UUID) error

	// SearchSimilar returns the k nearest chunks of the collection by
	// cosine distance. Ties break on ascending chunk index, then source
	// file id. A collection that has never been written returns an
	// empty slice, not an error.
	SearchSimilar(ctx context.Context, collectionId string, queryVector []float32, k int) ([]*entity.PatientEmbedding, error)

	CollectionExists(ctx context.Context, collectionId string) (bool, error)
	CountByCollection(ctx context.Context, collectionId string) (int64, error)
}
