package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id          uuid.UUID
	PatientId   uuid.UUID
	SessionName string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ChatMessage is one turn of a session transcript. Role is either
// "human" or "ai"; the first human entry is the system-generated
// greeting trigger, not a student message.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	CreatedAt     time.Time
}
