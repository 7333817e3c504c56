package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/model"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/specification"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/unitofwork"
	"github.com/ssmubc/Empathetic-Communication/pkg/database"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	if os.Getenv("DB_HOST") == "" {
		t.Skip("Skipping integration test: DB_HOST not set")
	}

	gormDB, err := database.NewGormDB(database.GormConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSL_MODE"),
	})
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.PatientRepository())
	assert.NotNil(t, uow.PatientFileRepository())
	assert.NotNil(t, uow.EmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	ctx := context.Background()

	// Fixture rows. Patients and groups are seeded by the admin side,
	// so the repositories are read-only and we insert via GORM.
	group := &model.SimulationGroup{
		Id:           uuid.New(),
		GroupName:    "Integration Group " + uuid.New().String(),
		SystemPrompt: "You are a standardized patient.",
	}
	require.NoError(t, gormDB.Create(group).Error)

	patient := &model.Patient{
		Id:                uuid.New(),
		SimulationGroupId: group.Id,
		PatientName:       "Integration Patient",
		PatientAge:        "42",
		PatientPrompt:     "Presents with a persistent cough.",
		LLMCompletion:     true,
	}
	require.NoError(t, gormDB.Create(patient).Error)

	t.Cleanup(func() {
		gormDB.Where("patient_id = ?", patient.Id).Delete(&model.PatientFile{})
		gormDB.Where("collection_id = ?", patient.Id.String()).Delete(&model.PatientEmbedding{})
		gormDB.Delete(patient)
		gormDB.Delete(group)
	})

	t.Run("Check Patient Repository", func(t *testing.T) {
		found, err := uow.PatientRepository().FindOne(ctx, specification.ByID{ID: patient.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Integration Patient", found.PatientName)

		prompt, err := uow.SimulationGroupRepository().SystemPrompt(ctx, group.Id)
		require.NoError(t, err)
		assert.Equal(t, "You are a standardized patient.", prompt)
	})

	t.Run("Check File Upsert And Processing Mutex", func(t *testing.T) {
		file := &entity.PatientFile{
			PatientId:       patient.Id,
			FileName:        "history",
			FileType:        "pdf",
			Category:        entity.CategoryDocuments,
			BucketReference: "ingestion",
			FilePath:        group.Id.String() + "/" + patient.Id.String() + "/documents/history.pdf",
			Metadata:        map[string]interface{}{"event_name": "created"},
			IngestionStatus: entity.IngestionStatusNotProcessing,
		}
		require.NoError(t, uow.PatientFileRepository().Upsert(ctx, file))
		require.NotEqual(t, uuid.Nil, file.Id)

		// Re-upload resolves to the same row and refreshes the recorded
		// event metadata.
		again := *file
		again.Id = uuid.Nil
		again.Metadata = map[string]interface{}{"event_name": "updated"}
		require.NoError(t, uow.PatientFileRepository().Upsert(ctx, &again))
		assert.Equal(t, file.Id, again.Id)
		assert.Equal(t, "updated", again.Metadata["event_name"])

		persisted, err := uow.PatientFileRepository().FindOne(ctx, specification.ByID{ID: file.Id})
		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.Equal(t, "updated", persisted.Metadata["event_name"])

		ok, err := uow.PatientFileRepository().TryBeginProcessing(ctx, file.Id)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = uow.PatientFileRepository().TryBeginProcessing(ctx, file.Id)
		require.NoError(t, err)
		assert.False(t, ok, "second claim while processing must fail")

		require.NoError(t, uow.PatientFileRepository().UpdateIngestionStatus(ctx, file.Id, entity.IngestionStatusCompleted))
	})

	t.Run("Check Embedding Replace And Search", func(t *testing.T) {
		sourceId := uuid.New()
		collection := patient.Id.String()

		mkVec := func(lead float32) []float32 {
			v := make([]float32, 1536)
			v[0] = lead
			v[1] = 1 - lead
			return v
		}

		records := []*entity.PatientEmbedding{
			{Id: uuid.New(), CollectionId: collection, SourceFileId: sourceId, ChunkIndex: 0, Document: "chunk zero", EmbeddingValue: mkVec(1)},
			{Id: uuid.New(), CollectionId: collection, SourceFileId: sourceId, ChunkIndex: 1, Document: "chunk one", EmbeddingValue: mkVec(0)},
		}
		require.NoError(t, uow.EmbeddingRepository().ReplaceForSource(ctx, collection, sourceId, records))

		count, err := uow.EmbeddingRepository().CountByCollection(ctx, collection)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		// Replacing again must not accumulate
		require.NoError(t, uow.EmbeddingRepository().ReplaceForSource(ctx, collection, sourceId, records[:1]))
		count, err = uow.EmbeddingRepository().CountByCollection(ctx, collection)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		hits, err := uow.EmbeddingRepository().SearchSimilar(ctx, collection, mkVec(1), 5)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "chunk zero", hits[0].Document)

		hits, err = uow.EmbeddingRepository().SearchSimilar(ctx, uuid.New().String(), mkVec(1), 5)
		require.NoError(t, err)
		assert.Empty(t, hits, "unknown collection returns no hits, not an error")
	})

	t.Run("Check Chat Session Round Trip", func(t *testing.T) {
		session := &entity.ChatSession{
			Id:          uuid.New(),
			PatientId:   patient.Id,
			SessionName: "New Chat",
		}
		require.NoError(t, uow.ChatSessionRepository().Create(ctx, session))
		t.Cleanup(func() {
			gormDB.Where("chat_session_id = ?", session.Id).Delete(&model.ChatMessage{})
			gormDB.Delete(&model.ChatSession{Id: session.Id})
		})

		messages := []*entity.ChatMessage{
			{ChatSessionId: session.Id, Role: "human", Content: "Hello"},
			{ChatSessionId: session.Id, Role: "ai", Content: "Hi, I have been coughing for weeks."},
		}
		require.NoError(t, uow.ChatMessageRepository().CreateBulk(ctx, messages))

		history, err := uow.ChatMessageRepository().FindBySession(ctx, session.Id)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "human", history[0].Role)
		assert.Equal(t, "ai", history[1].Role)

		session.SessionName = "Cough workup"
		require.NoError(t, uow.ChatSessionRepository().Update(ctx, session))

		found, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Cough workup", found.SessionName)
	})
}
