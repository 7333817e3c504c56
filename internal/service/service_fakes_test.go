package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/logger"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/contract"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/specification"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/unitofwork"
	"github.com/ssmubc/Empathetic-Communication/pkg/llm"
	"github.com/ssmubc/Empathetic-Communication/pkg/objectstore"
)

// In-memory doubles for the persistence and provider boundaries. The
// fake repositories only honor the specifications the services actually
// use.

type fakeState struct {
	patients   map[uuid.UUID]*entity.Patient
	groups     map[uuid.UUID]*entity.SimulationGroup
	files      map[uuid.UUID]*entity.PatientFile
	embeddings []*entity.PatientEmbedding
	sessions   map[uuid.UUID]*entity.ChatSession
	messages   []*entity.ChatMessage
}

func newFakeState() *fakeState {
	return &fakeState{
		patients: map[uuid.UUID]*entity.Patient{},
		groups:   map[uuid.UUID]*entity.SimulationGroup{},
		files:    map[uuid.UUID]*entity.PatientFile{},
		sessions: map[uuid.UUID]*entity.ChatSession{},
	}
}

type fakeFactory struct {
	state *fakeState
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{state: f.state}
}

type fakeUow struct {
	state *fakeState
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) PatientRepository() contract.PatientRepository {
	return &fakePatientRepo{state: u.state}
}
func (u *fakeUow) SimulationGroupRepository() contract.SimulationGroupRepository {
	return &fakeGroupRepo{state: u.state}
}
func (u *fakeUow) PatientFileRepository() contract.PatientFileRepository {
	return &fakeFileRepo{state: u.state}
}
func (u *fakeUow) EmbeddingRepository() contract.EmbeddingRepository {
	return &fakeEmbeddingRepo{state: u.state}
}
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{state: u.state}
}
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{state: u.state}
}

func extractID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

type fakePatientRepo struct{ state *fakeState }

func (r *fakePatientRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error) {
	if id, ok := extractID(specs); ok {
		return r.state.patients[id], nil
	}
	return nil, nil
}

func (r *fakePatientRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Patient, error) {
	var out []*entity.Patient
	for _, p := range r.state.patients {
		out = append(out, p)
	}
	return out, nil
}

type fakeGroupRepo struct{ state *fakeState }

func (r *fakeGroupRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SimulationGroup, error) {
	if id, ok := extractID(specs); ok {
		return r.state.groups[id], nil
	}
	return nil, nil
}

func (r *fakeGroupRepo) SystemPrompt(ctx context.Context, groupId uuid.UUID) (string, error) {
	if g, ok := r.state.groups[groupId]; ok {
		return g.SystemPrompt, nil
	}
	return "", nil
}

type fakeFileRepo struct{ state *fakeState }

func (r *fakeFileRepo) Upsert(ctx context.Context, file *entity.PatientFile) error {
	for _, existing := range r.state.files {
		if existing.PatientId == file.PatientId && existing.FileName == file.FileName && existing.FileType == file.FileType {
			file.Id = existing.Id
			file.IngestionStatus = existing.IngestionStatus
			r.state.files[existing.Id] = file
			return nil
		}
	}
	if file.Id == uuid.Nil {
		file.Id = uuid.New()
	}
	r.state.files[file.Id] = file
	return nil
}

func (r *fakeFileRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PatientFile, error) {
	if id, ok := extractID(specs); ok {
		return r.state.files[id], nil
	}
	for _, s := range specs {
		if ident, ok := s.(specification.ByFileIdentity); ok {
			for _, f := range r.state.files {
				if f.PatientId == ident.PatientID && f.FileName == ident.FileName && f.FileType == ident.FileType {
					return f, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeFileRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PatientFile, error) {
	var patientID uuid.UUID
	for _, s := range specs {
		if byPatient, ok := s.(specification.ByPatientID); ok {
			patientID = byPatient.PatientID
		}
	}
	var out []*entity.PatientFile
	for _, f := range r.state.files {
		if patientID == uuid.Nil || f.PatientId == patientID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeUploaded.After(out[j].TimeUploaded) })
	return out, nil
}

func (r *fakeFileRepo) TryBeginProcessing(ctx context.Context, fileId uuid.UUID) (bool, error) {
	f, ok := r.state.files[fileId]
	if !ok {
		return false, nil
	}
	if f.IngestionStatus == entity.IngestionStatusProcessing {
		return false, nil
	}
	f.IngestionStatus = entity.IngestionStatusProcessing
	f.StatusChangedAt = time.Now()
	return true, nil
}

func (r *fakeFileRepo) UpdateIngestionStatus(ctx context.Context, fileId uuid.UUID, status string) error {
	if f, ok := r.state.files[fileId]; ok {
		f.IngestionStatus = status
		f.StatusChangedAt = time.Now()
	}
	return nil
}

func (r *fakeFileRepo) MarkProcessingAsError(ctx context.Context) ([]string, error) {
	var marked []string
	for _, f := range r.state.files {
		if f.IngestionStatus == entity.IngestionStatusProcessing {
			f.IngestionStatus = entity.IngestionStatusError
			f.StatusChangedAt = time.Now()
			marked = append(marked, f.FileName)
		}
	}
	sort.Strings(marked)
	return marked, nil
}

type fakeEmbeddingRepo struct{ state *fakeState }

func (r *fakeEmbeddingRepo) ReplaceForSource(ctx context.Context, collectionId string, sourceFileId uuid.UUID, records []*entity.PatientEmbedding) error {
	if err := r.DeleteBySource(ctx, collectionId, sourceFileId); err != nil {
		return err
	}
	r.state.embeddings = append(r.state.embeddings, records...)
	return nil
}

func (r *fakeEmbeddingRepo) DeleteBySource(ctx context.Context, collectionId string, sourceFileId uuid.UUID) error {
	kept := r.state.embeddings[:0]
	for _, e := range r.state.embeddings {
		if e.CollectionId != collectionId || e.SourceFileId != sourceFileId {
			kept = append(kept, e)
		}
	}
	r.state.embeddings = kept
	return nil
}

func (r *fakeEmbeddingRepo) SearchSimilar(ctx context.Context, collectionId string, queryVector []float32, k int) ([]*entity.PatientEmbedding, error) {
	var out []*entity.PatientEmbedding
	for _, e := range r.state.embeddings {
		if e.CollectionId == collectionId {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkIndex < out[j].ChunkIndex })
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (r *fakeEmbeddingRepo) CollectionExists(ctx context.Context, collectionId string) (bool, error) {
	for _, e := range r.state.embeddings {
		if e.CollectionId == collectionId {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEmbeddingRepo) CountByCollection(ctx context.Context, collectionId string) (int64, error) {
	var n int64
	for _, e := range r.state.embeddings {
		if e.CollectionId == collectionId {
			n++
		}
	}
	return n, nil
}

type fakeSessionRepo struct{ state *fakeState }

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.state.sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	r.state.sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	if id, ok := extractID(specs); ok {
		return r.state.sessions[id], nil
	}
	return nil, nil
}

type fakeMessageRepo struct{ state *fakeState }

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.state.messages = append(r.state.messages, message)
	return nil
}

func (r *fakeMessageRepo) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	r.state.messages = append(r.state.messages, messages...)
	return nil
}

func (r *fakeMessageRepo) FindBySession(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	for _, m := range r.state.messages {
		if m.ChatSessionId == sessionId {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeEmbedder returns fixed-width vectors and can be scripted to fail.
type fakeEmbedder struct {
	failuresLeft int
	failWith     error
	calls        int
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.GenerateBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, f.failWith
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }

// fakeLLM replays scripted chat replies and generate replies in order.
type fakeLLM struct {
	chatReplies     []string
	generateReplies []string
	chatCalls       int
	generateCalls   int
	chatErr         error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.chatCalls++
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if len(f.chatReplies) == 0 {
		return "scripted reply", nil
	}
	reply := f.chatReplies[0]
	if len(f.chatReplies) > 1 {
		f.chatReplies = f.chatReplies[1:]
	}
	return reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.generateCalls++
	if len(f.generateReplies) == 0 {
		return "generated", nil
	}
	reply := f.generateReplies[0]
	if len(f.generateReplies) > 1 {
		f.generateReplies = f.generateReplies[1:]
	}
	return reply, nil
}

// fakeStore serves objects from a map; missing keys return ErrNotFound.
type fakeStore struct {
	objects map[string][]byte
}

func (f *fakeStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, objectstore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, ok := f.objects[bucket+"/"+key]
	return ok, nil
}

type fakePublisher struct {
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeMailer struct {
	failures []string
	sweeps   [][]string
}

func (f *fakeMailer) SendIngestionFailure(fileName, patientId, reason string) error {
	f.failures = append(f.failures, fileName)
	return nil
}

func (f *fakeMailer) SendSweepReport(markedFiles []string) error {
	f.sweeps = append(f.sweeps, markedFiles)
	return nil
}

func testLogger() logger.ILogger {
	return logger.NewNopLogger()
}
