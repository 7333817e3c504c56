package mapper

import (
	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToModel(e *entity.ChatSession) *model.ChatSession {
	return &model.ChatSession{
		Id:          e.Id,
		PatientId:   e.PatientId,
		SessionName: e.SessionName,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *ChatMapper) SessionToEntity(mod *model.ChatSession) *entity.ChatSession {
	updatedAt := mod.UpdatedAt
	return &entity.ChatSession{
		Id:          mod.Id,
		PatientId:   mod.PatientId,
		SessionName: mod.SessionName,
		CreatedAt:   mod.CreatedAt,
		UpdatedAt:   &updatedAt,
	}
}

func (m *ChatMapper) MessageToModel(e *entity.ChatMessage) *model.ChatMessage {
	return &model.ChatMessage{
		Id:            e.Id,
		ChatSessionId: e.ChatSessionId,
		Role:          e.Role,
		Content:       e.Content,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ChatMapper) MessageToEntity(mod *model.ChatMessage) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:            mod.Id,
		ChatSessionId: mod.ChatSessionId,
		Role:          mod.Role,
		Content:       mod.Content,
		CreatedAt:     mod.CreatedAt,
	}
}
