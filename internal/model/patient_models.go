package model

import (
	"time"

	"github.com/google/uuid"
)

type SimulationGroup struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupName    string    `gorm:"type:text;not null"`
	SystemPrompt string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (SimulationGroup) TableName() string {
	return "simulation_groups"
}

type Patient struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SimulationGroupId uuid.UUID `gorm:"type:uuid;not null;index"`
	PatientName       string    `gorm:"type:text;not null"`
	PatientAge        string    `gorm:"type:text"`
	PatientPrompt     string    `gorm:"type:text"`
	LLMCompletion     bool      `gorm:"default:false"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Patient) TableName() string {
	return "patients"
}
