package dto

import (
	"github.com/google/uuid"
)

// ChatTurnRequest drives one exchange with the mock patient. An empty
// MessageContent opens the session with the synthetic greeting trigger.
type ChatTurnRequest struct {
	SimulationGroupId uuid.UUID `json:"simulation_group_id" validate:"required"`
	SessionId         uuid.UUID `json:"session_id" validate:"required"`
	PatientId         uuid.UUID `json:"patient_id" validate:"required"`
	SessionName       string    `json:"session_name"`
	MessageContent    string    `json:"message_content"`
}

type EmpathyEvaluationResponse struct {
	EmpathyScore string `json:"empathy_score"`
	RealismFlag  string `json:"realism_flag"`
	Feedback     string `json:"feedback"`
}

type ChatTurnResponse struct {
	SessionName       string                     `json:"session_name"`
	LLMOutput         string                     `json:"llm_output"`
	LLMVerdict        bool                       `json:"llm_verdict"`
	EmpathyEvaluation *EmpathyEvaluationResponse `json:"empathy_evaluation,omitempty"`
}

type ChatMessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatHistoryResponse struct {
	SessionId   uuid.UUID             `json:"session_id"`
	SessionName string                `json:"session_name"`
	Messages    []ChatMessageResponse `json:"messages"`
}
