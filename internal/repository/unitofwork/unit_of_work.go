package unitofwork

import (
	"context"

	"github.com/ssmubc/Empathetic-Communication/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PatientRepository() contract.PatientRepository
	SimulationGroupRepository() contract.SimulationGroupRepository
	PatientFileRepository() contract.PatientFileRepository
	EmbeddingRepository() contract.EmbeddingRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
