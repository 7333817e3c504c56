package entity

import (
	"time"

	"github.com/google/uuid"
)

// SimulationGroup carries the instructor-level system prompt shared by
// every patient in the group.
type SimulationGroup struct {
	Id           uuid.UUID
	GroupName    string
	SystemPrompt string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Patient is the persona the model roleplays. LLMCompletion switches
// the engine into diagnosis-detection mode.
type Patient struct {
	Id                uuid.UUID
	SimulationGroupId uuid.UUID
	PatientName       string
	PatientAge        string
	PatientPrompt     string
	LLMCompletion     bool
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}
