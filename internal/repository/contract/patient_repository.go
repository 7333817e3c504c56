package contract

import (
	"context"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/specification"

	"github.com/google/uuid"
)

type PatientRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Patient, error)
}

type SimulationGroupRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SimulationGroup, error)
	// SystemPrompt returns the group-level system prompt, or an empty
	// string when the group does not exist.
	SystemPrompt(ctx context.Context, groupId uuid.UUID) (string, error)
}
