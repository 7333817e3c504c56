package mapper

import (
	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/model"
)

type PatientMapper struct{}

func NewPatientMapper() *PatientMapper {
	return &PatientMapper{}
}

func (m *PatientMapper) ToEntity(mod *model.Patient) *entity.Patient {
	updatedAt := mod.UpdatedAt
	return &entity.Patient{
		Id:                mod.Id,
		SimulationGroupId: mod.SimulationGroupId,
		PatientName:       mod.PatientName,
		PatientAge:        mod.PatientAge,
		PatientPrompt:     mod.PatientPrompt,
		LLMCompletion:     mod.LLMCompletion,
		CreatedAt:         mod.CreatedAt,
		UpdatedAt:         &updatedAt,
	}
}

func (m *PatientMapper) GroupToEntity(mod *model.SimulationGroup) *entity.SimulationGroup {
	updatedAt := mod.UpdatedAt
	return &entity.SimulationGroup{
		Id:           mod.Id,
		GroupName:    mod.GroupName,
		SystemPrompt: mod.SystemPrompt,
		CreatedAt:    mod.CreatedAt,
		UpdatedAt:    &updatedAt,
	}
}
