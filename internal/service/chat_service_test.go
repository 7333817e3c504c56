package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssmubc/Empathetic-Communication/internal/constant"
	"github.com/ssmubc/Empathetic-Communication/internal/dto"
	"github.com/ssmubc/Empathetic-Communication/internal/entity"
)

type chatFixture struct {
	state   *fakeState
	llm     *fakeLLM
	svc     IChatService
	group   *entity.SimulationGroup
	patient *entity.Patient
}

func newChatFixture(t *testing.T, llmCompletion bool) *chatFixture {
	t.Helper()
	state := newFakeState()

	group := &entity.SimulationGroup{
		Id:           uuid.New(),
		GroupName:    "PHAR 330",
		SystemPrompt: "Stay in character at all times.",
	}
	state.groups[group.Id] = group

	patient := &entity.Patient{
		Id:                uuid.New(),
		SimulationGroupId: group.Id,
		PatientName:       "John",
		PatientAge:        "62",
		PatientPrompt:     "anxious, persistent cough",
		LLMCompletion:     llmCompletion,
	}
	state.patients[patient.Id] = patient

	state.embeddings = append(state.embeddings, &entity.PatientEmbedding{
		Id:           uuid.New(),
		CollectionId: patient.Id.String(),
		SourceFileId: uuid.New(),
		ChunkIndex:   0,
		Document:     "cough worse at night, smoker for 30 years",
	})

	llmFake := &fakeLLM{}
	svc := NewChatService(&fakeFactory{state: state}, &fakeEmbedder{}, llmFake, testLogger())
	return &chatFixture{state: state, llm: llmFake, svc: svc, group: group, patient: patient}
}

func (f *chatFixture) turn(t *testing.T, sessionId uuid.UUID, message string) *dto.ChatTurnResponse {
	t.Helper()
	resp, err := f.svc.Turn(context.Background(), &dto.ChatTurnRequest{
		SimulationGroupId: f.group.Id,
		SessionId:         sessionId,
		PatientId:         f.patient.Id,
		MessageContent:    message,
	})
	require.NoError(t, err)
	return resp
}

func TestTurn_OpeningGreeting(t *testing.T) {
	f := newChatFixture(t, true)
	f.llm.chatReplies = []string{"Hello! I'm John, I am 62 years old. My cough keeps me up at night. Do you know why that could be?"}

	sessionId := uuid.New()
	resp := f.turn(t, sessionId, "")

	assert.False(t, resp.LLMVerdict)
	assert.Contains(t, resp.LLMOutput, "Hello! I'm John")
	assert.Nil(t, resp.EmpathyEvaluation, "greeting trigger is never evaluated")
	assert.Equal(t, constant.DefaultSessionName, resp.SessionName)

	// The synthetic greeting trigger is persisted as the human turn.
	msgs := f.state.messages
	require.Len(t, msgs, 2)
	assert.Equal(t, constant.ChatMessageRoleHuman, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Greet me")
	assert.Equal(t, constant.ChatMessageRoleAI, msgs[1].Role)
}

func TestTurn_RealMessageGetsEvaluation(t *testing.T) {
	f := newChatFixture(t, true)
	f.llm.chatReplies = []string{"It started about three weeks ago. What do you think it might be?"}
	f.llm.generateReplies = []string{
		"How long has John had his cough?",
		"Cough assessment",
		`{"empathy_score":"good","realism_flag":"realistic","feedback":"Good open question."}`,
	}

	sessionId := uuid.New()
	f.llm.chatReplies = []string{"Hello! I'm John. I have a nasty cough. Can you help?", "It started three weeks ago. Any idea what it is?"}
	f.turn(t, sessionId, "")
	resp := f.turn(t, sessionId, "How long have you had the cough?")

	require.NotNil(t, resp.EmpathyEvaluation)
	assert.Contains(t, []string{"good", "ok", "great", "bad"}, resp.EmpathyEvaluation.EmpathyScore)
}

func TestTurn_SessionNamingFiresOnceOnSecondExchange(t *testing.T) {
	f := newChatFixture(t, false)
	f.llm.chatReplies = []string{
		"Hello! I'm John. My chest hurts. Can you help me figure out why?",
		"It is a sharp pain when I breathe in. What could that be?",
		"No, I have not traveled recently. Anything else you want to know?",
	}
	f.llm.generateReplies = []string{
		"Where does John's chest pain hurt?",
		"Chest pain workup",
		`{"empathy_score":"ok","realism_flag":"realistic","feedback":"fine"}`,
		"Has John traveled recently?",
		`{"empathy_score":"ok","realism_flag":"realistic","feedback":"fine"}`,
	}

	sessionId := uuid.New()
	first := f.turn(t, sessionId, "")
	assert.Equal(t, constant.DefaultSessionName, first.SessionName, "greeting exchange does not name the session")

	second := f.turn(t, sessionId, "Where exactly does it hurt?")
	assert.Equal(t, "Chest pain workup", second.SessionName)
	assert.Equal(t, "Chest pain workup", f.state.sessions[sessionId].SessionName)

	third := f.turn(t, sessionId, "Have you traveled recently?")
	assert.Equal(t, "Chest pain workup", third.SessionName, "naming only fires on the second exchange")
}

func TestTurn_VerdictConfirmed(t *testing.T) {
	f := newChatFixture(t, true)
	f.llm.chatReplies = []string{"You are right. It is pneumonia. " + constant.DiagnosisSentinel}
	f.llm.generateReplies = []string{`{"empathy_score":"great","realism_flag":"realistic","feedback":"well done"}`}

	sessionId := uuid.New()
	resp := f.turn(t, sessionId, "I believe you have pneumonia.")

	assert.True(t, resp.LLMVerdict)
	assert.Contains(t, resp.LLMOutput, "Congratulations!")
	assert.NotContains(t, resp.LLMOutput, constant.DiagnosisSentinel)

	// The stored AI turn matches what the student saw.
	msgs := f.state.messages
	require.Len(t, msgs, 2)
	assert.Equal(t, resp.LLMOutput, msgs[1].Content)
}

func TestTurn_CompletionDisabledNeverConfirms(t *testing.T) {
	f := newChatFixture(t, false)
	f.llm.chatReplies = []string{"Thank you for the chat. Goodbye!"}
	f.llm.generateReplies = []string{`{"empathy_score":"ok","realism_flag":"realistic","feedback":"fine"}`}

	resp := f.turn(t, uuid.New(), "I think it is asthma.")
	assert.False(t, resp.LLMVerdict)
}

func TestTurn_EmptyOutputRetriesThenFails(t *testing.T) {
	f := newChatFixture(t, true)
	f.llm.chatReplies = []string{""}

	_, err := f.svc.Turn(context.Background(), &dto.ChatTurnRequest{
		SimulationGroupId: f.group.Id,
		SessionId:         uuid.New(),
		PatientId:         f.patient.Id,
		MessageContent:    "hello",
	})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
	assert.Equal(t, chatMaxAttempts, f.llm.chatCalls)
	assert.Empty(t, f.state.messages, "failed turns persist nothing")
}

func TestTurn_UnknownPatient(t *testing.T) {
	f := newChatFixture(t, true)

	_, err := f.svc.Turn(context.Background(), &dto.ChatTurnRequest{
		SimulationGroupId: f.group.Id,
		SessionId:         uuid.New(),
		PatientId:         uuid.New(),
		MessageContent:    "hello",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestHistory(t *testing.T) {
	f := newChatFixture(t, false)
	sessionId := uuid.New()
	f.state.sessions[sessionId] = &entity.ChatSession{
		Id:          sessionId,
		PatientId:   f.patient.Id,
		SessionName: "Existing",
		CreatedAt:   time.Now(),
	}
	f.state.messages = append(f.state.messages,
		&entity.ChatMessage{Id: uuid.New(), ChatSessionId: sessionId, Role: constant.ChatMessageRoleHuman, Content: "hi"},
		&entity.ChatMessage{Id: uuid.New(), ChatSessionId: sessionId, Role: constant.ChatMessageRoleAI, Content: "hello"},
	)

	resp, err := f.svc.History(context.Background(), sessionId)
	require.NoError(t, err)
	assert.Equal(t, "Existing", resp.SessionName)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "hi", resp.Messages[0].Content)
}
