package implementation

import (
	"context"
	"errors"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/mapper"
	"github.com/ssmubc/Empathetic-Communication/internal/model"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/contract"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PatientMapper
}

func NewPatientRepository(db *gorm.DB) contract.PatientRepository {
	return &PatientRepositoryImpl{
		db:     db,
		mapper: mapper.NewPatientMapper(),
	}
}

func (r *PatientRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PatientRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error) {
	var m model.Patient
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PatientRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Patient, error) {
	var models []*model.Patient
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Patient, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

type SimulationGroupRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PatientMapper
}

func NewSimulationGroupRepository(db *gorm.DB) contract.SimulationGroupRepository {
	return &SimulationGroupRepositoryImpl{
		db:     db,
		mapper: mapper.NewPatientMapper(),
	}
}

func (r *SimulationGroupRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SimulationGroup, error) {
	var m model.SimulationGroup
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.GroupToEntity(&m), nil
}

func (r *SimulationGroupRepositoryImpl) SystemPrompt(ctx context.Context, groupId uuid.UUID) (string, error) {
	group, err := r.FindOne(ctx, specification.ByID{ID: groupId})
	if err != nil {
		return "", err
	}
	if group == nil {
		return "", nil
	}
	return group.SystemPrompt, nil
}
