package contract

import (
	"context"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/specification"

	"github.com/google/uuid"
)

type PatientFileRepository interface {
	// Upsert inserts the metadata row for (patient, filename, filetype)
	// or refreshes bucket/path/time on re-upload. The entity's Id is
	// populated with the persisted row id.
	Upsert(ctx context.Context, file *entity.PatientFile) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PatientFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PatientFile, error)

	// TryBeginProcessing conditionally transitions the row to
	// "processing". It reports false when the row is already processing,
	// which is the per-file mutual-exclusion window against concurrent
	// ingestions of the same file.
	TryBeginProcessing(ctx context.Context, fileId uuid.UUID) (bool, error)

	UpdateIngestionStatus(ctx context.Context, fileId uuid.UUID, status string) error

	// MarkProcessingAsError force-resolves every row stuck in
	// "processing" and returns the affected filenames. Used by the
	// watchdog sweep.
	MarkProcessingAsError(ctx context.Context) ([]string, error)
}
