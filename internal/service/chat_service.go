package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ssmubc/Empathetic-Communication/internal/constant"
	"github.com/ssmubc/Empathetic-Communication/internal/dto"
	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/logger"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/specification"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/unitofwork"
	"github.com/ssmubc/Empathetic-Communication/pkg/embedding"
	"github.com/ssmubc/Empathetic-Communication/pkg/llm"
	"github.com/ssmubc/Empathetic-Communication/pkg/roleplay"
)

const (
	retrievalTopK      = 5
	chatMaxAttempts    = 3
	personaCacheTTL    = 5 * time.Minute
	evaluationMaxToken = 500
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrEmptyCompletion = errors.New("model returned empty output after retries")
)

type IChatService interface {
	// Turn runs one exchange with the mock patient and persists the
	// resulting (human, ai) message pair.
	Turn(ctx context.Context, req *dto.ChatTurnRequest) (*dto.ChatTurnResponse, error)

	History(ctx context.Context, sessionId uuid.UUID) (*dto.ChatHistoryResponse, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	llmProvider       llm.LLMProvider
	personaCache      *gocache.Cache
	log               logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		personaCache:      gocache.New(personaCacheTTL, 10*time.Minute),
		log:               log,
	}
}

func (s *chatService) Turn(ctx context.Context, req *dto.ChatTurnRequest) (*dto.ChatTurnResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	patient, err := s.findPatient(ctx, uow, req.PatientId)
	if err != nil {
		return nil, err
	}

	systemPrompt, err := s.groupSystemPrompt(ctx, uow, req.SimulationGroupId)
	if err != nil {
		return nil, err
	}

	session, err := s.loadOrCreateSession(ctx, uow, req, patient)
	if err != nil {
		return nil, err
	}

	history, err := uow.ChatMessageRepository().FindBySession(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	studentMessage := req.MessageContent
	if studentMessage == "" {
		studentMessage = roleplay.GreetingTrigger(patient.PatientName)
	}

	contextChunks, err := s.retrieveContext(ctx, uow, patient.Id, history, studentMessage)
	if err != nil {
		return nil, err
	}

	params := roleplay.PromptParams{
		PatientName:   patient.PatientName,
		PatientAge:    patient.PatientAge,
		PatientPrompt: patient.PatientPrompt,
		SystemPrompt:  systemPrompt,
		LLMCompletion: patient.LLMCompletion,
	}
	rawOutput, err := s.invokeModel(ctx, params, contextChunks, history, studentMessage)
	if err != nil {
		return nil, err
	}

	result := roleplay.FinalizeOutput(rawOutput, patient.LLMCompletion)

	pair := []*entity.ChatMessage{
		{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Role:          constant.ChatMessageRoleHuman,
			Content:       studentMessage,
			CreatedAt:     time.Now(),
		},
		{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Role:          constant.ChatMessageRoleAI,
			Content:       result.Output,
			CreatedAt:     time.Now(),
		},
	}
	if err := uow.ChatMessageRepository().CreateBulk(ctx, pair); err != nil {
		return nil, err
	}

	sessionName := s.maybeNameSession(ctx, uow, session, append(history, pair...))

	resp := &dto.ChatTurnResponse{
		SessionName: sessionName,
		LLMOutput:   result.Output,
		LLMVerdict:  result.Verdict,
	}

	// Evaluation is advisory and never alters the turn outcome.
	if !roleplay.IsGreetingTrigger(studentMessage) {
		eval := s.evaluateMessage(ctx, patient, studentMessage)
		resp.EmpathyEvaluation = &dto.EmpathyEvaluationResponse{
			EmpathyScore: eval.EmpathyScore,
			RealismFlag:  eval.RealismFlag,
			Feedback:     eval.Feedback,
		}
	}

	return resp, nil
}

func (s *chatService) History(ctx context.Context, sessionId uuid.UUID) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	messages, err := uow.ChatMessageRepository().FindBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	resp := &dto.ChatHistoryResponse{
		SessionId:   session.Id,
		SessionName: session.SessionName,
		Messages:    make([]dto.ChatMessageResponse, 0, len(messages)),
	}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, dto.ChatMessageResponse{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return resp, nil
}

func (s *chatService) findPatient(ctx context.Context, uow unitofwork.UnitOfWork, patientId uuid.UUID) (*entity.Patient, error) {
	cacheKey := "patient:" + patientId.String()
	if cached, found := s.personaCache.Get(cacheKey); found {
		return cached.(*entity.Patient), nil
	}

	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByID{ID: patientId})
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	s.personaCache.Set(cacheKey, patient, gocache.DefaultExpiration)
	return patient, nil
}

func (s *chatService) groupSystemPrompt(ctx context.Context, uow unitofwork.UnitOfWork, groupId uuid.UUID) (string, error) {
	cacheKey := "group_prompt:" + groupId.String()
	if cached, found := s.personaCache.Get(cacheKey); found {
		return cached.(string), nil
	}

	prompt, err := uow.SimulationGroupRepository().SystemPrompt(ctx, groupId)
	if err != nil {
		return "", err
	}

	s.personaCache.Set(cacheKey, prompt, gocache.DefaultExpiration)
	return prompt, nil
}

func (s *chatService) loadOrCreateSession(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.ChatTurnRequest, patient *entity.Patient) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	name := req.SessionName
	if name == "" {
		name = constant.DefaultSessionName
	}
	session = &entity.ChatSession{
		Id:          req.SessionId,
		PatientId:   patient.Id,
		SessionName: name,
		CreatedAt:   time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *chatService) retrieveContext(ctx context.Context, uow unitofwork.UnitOfWork, patientId uuid.UUID, history []*entity.ChatMessage, message string) ([]string, error) {
	query := s.condenseQuery(ctx, toTurns(history), message)

	queryVector, err := s.embeddingProvider.Generate(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed retrieval query: %w", err)
	}

	// One collection per patient, keyed by patient id.
	results, err := uow.EmbeddingRepository().SearchSimilar(ctx, patientId.String(), queryVector, retrievalTopK)
	if err != nil {
		return nil, err
	}

	chunks := make([]string, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, r.Document)
	}
	return chunks, nil
}

// condenseQuery rewrites the new message into a standalone retrieval
// query using the prior transcript. Failures degrade to the raw
// message; retrieval quality suffers but the turn proceeds.
func (s *chatService) condenseQuery(ctx context.Context, turns []roleplay.Turn, message string) string {
	if len(turns) == 0 {
		return message
	}

	standalone, err := s.llmProvider.Generate(ctx, roleplay.BuildCondensePrompt(turns, message), llm.WithTemperature(0))
	if err != nil {
		s.log.Warn("chat", "condense query failed, using raw message", map[string]interface{}{
			"error": err.Error(),
		})
		return message
	}
	standalone = strings.TrimSpace(standalone)
	if standalone == "" {
		return message
	}
	return standalone
}

// invokeModel calls the chat model, retrying while the raw output is
// empty. Empty completions are treated as transient, with a bounded
// attempt count to avoid looping forever.
func (s *chatService) invokeModel(ctx context.Context, params roleplay.PromptParams, contextChunks []string, history []*entity.ChatMessage, message string) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: roleplay.BuildSystemPrompt(params, contextChunks),
	})
	for _, msg := range history {
		role := "user"
		if msg.Role == constant.ChatMessageRoleAI {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: message})

	for attempt := 1; attempt <= chatMaxAttempts; attempt++ {
		output, err := s.llmProvider.Chat(ctx, messages)
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if output != "" {
			return output, nil
		}
		s.log.Warn("chat", "empty model output, retrying", map[string]interface{}{
			"attempt": attempt,
		})
	}
	return "", ErrEmptyCompletion
}

// maybeNameSession generates a title exactly once, on the second real
// exchange. Failures keep the existing name; naming never fails a turn.
func (s *chatService) maybeNameSession(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, transcript []*entity.ChatMessage) string {
	turns := toTurns(transcript)
	if !roleplay.ShouldNameSession(turns) {
		return session.SessionName
	}

	student, model := roleplay.FirstExchange(turns)
	raw, err := s.llmProvider.Generate(ctx, roleplay.BuildNamingPrompt(model, student), llm.WithTemperature(0.2))
	if err != nil {
		s.log.Warn("chat", "session naming failed", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		return session.SessionName
	}

	name := roleplay.SanitizeSessionName(raw)
	session.SessionName = name
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		s.log.Warn("chat", "failed to persist session name", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
	return name
}

func (s *chatService) evaluateMessage(ctx context.Context, patient *entity.Patient, studentMessage string) *roleplay.Evaluation {
	prompt := roleplay.BuildEvaluationPrompt(
		studentMessage,
		roleplay.PatientContext(patient.PatientName, patient.PatientAge, patient.PatientPrompt),
	)

	raw, err := s.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(0.1),
		llm.WithMaxTokens(evaluationMaxToken),
	)
	if err != nil {
		s.log.Warn("chat", "empathy evaluation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return roleplay.NeutralEvaluation("Unable to evaluate")
	}
	return roleplay.ParseEvaluation(raw)
}

func toTurns(messages []*entity.ChatMessage) []roleplay.Turn {
	turns := make([]roleplay.Turn, 0, len(messages))
	for _, msg := range messages {
		turns = append(turns, roleplay.Turn{Role: msg.Role, Content: msg.Content})
	}
	return turns
}
