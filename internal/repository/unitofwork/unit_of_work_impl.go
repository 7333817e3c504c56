package unitofwork

import (
	"context"
	"fmt"

	"github.com/ssmubc/Empathetic-Communication/internal/repository/contract"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) PatientRepository() contract.PatientRepository {
	return implementation.NewPatientRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SimulationGroupRepository() contract.SimulationGroupRepository {
	return implementation.NewSimulationGroupRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PatientFileRepository() contract.PatientFileRepository {
	return implementation.NewPatientFileRepository(u.getDB())
}

func (u *UnitOfWorkImpl) EmbeddingRepository() contract.EmbeddingRepository {
	return implementation.NewEmbeddingRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatSessionRepository() contract.ChatSessionRepository {
	return implementation.NewChatSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatMessageRepository() contract.ChatMessageRepository {
	return implementation.NewChatMessageRepository(u.getDB())
}
