package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ssmubc/Empathetic-Communication/internal/dto"
	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/logger"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/mailer"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/specification"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/unitofwork"
	"github.com/ssmubc/Empathetic-Communication/pkg/docload"
	"github.com/ssmubc/Empathetic-Communication/pkg/embedding"
	"github.com/ssmubc/Empathetic-Communication/pkg/events"
	pkgNats "github.com/ssmubc/Empathetic-Communication/pkg/nats"
	"github.com/ssmubc/Empathetic-Communication/pkg/objectstore"
	"github.com/ssmubc/Empathetic-Communication/pkg/utils"
)

const (
	chunkSize    = 1500
	chunkOverlap = 200

	embedMaxAttempts = 3
	embedBackoff     = 2 * time.Second
)

// ErrFileNotFound marks retry requests for files that were never
// recorded.
var ErrFileNotFound = errors.New("patient file not found")

// ErrAlreadyProcessing marks an ingestion attempt that lost the
// conditional status transition to a concurrent worker.
var ErrAlreadyProcessing = errors.New("file is already being processed")

type IIngestionService interface {
	// HandleFileEvent processes one storage notification. Document
	// uploads are ingested synchronously; other categories are only
	// recorded.
	HandleFileEvent(ctx context.Context, req *dto.FileEventRequest) (*dto.FileEventResponse, error)

	// ProcessFile runs the ingestion pipeline for a recorded file.
	ProcessFile(ctx context.Context, fileId uuid.UUID) error

	// Retry queues a failed file for re-ingestion on the job channel.
	Retry(ctx context.Context, req *dto.RetryIngestionRequest) (*dto.RetryIngestionResponse, error)

	ListPatientFiles(ctx context.Context, patientId uuid.UUID) (*dto.PatientFilesResponse, error)
}

type ingestionService struct {
	uowFactory        unitofwork.RepositoryFactory
	store             objectstore.Store
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	eventPublisher    *pkgNats.Publisher
	emailService      mailer.IEmailService
	log               logger.ILogger
}

func NewIngestionService(
	uowFactory unitofwork.RepositoryFactory,
	store objectstore.Store,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		uowFactory:        uowFactory,
		store:             store,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		emailService:      emailService,
		log:               log,
	}
}

func (s *ingestionService) HandleFileEvent(ctx context.Context, req *dto.FileEventRequest) (*dto.FileEventResponse, error) {
	key, err := entity.ParseFileKey(req.Key)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	file := &entity.PatientFile{
		PatientId:       key.PatientId,
		FileName:        key.FileName,
		FileType:        key.FileType,
		Category:        key.Category,
		BucketReference: req.Bucket,
		FilePath:        key.Raw,
		Metadata: map[string]interface{}{
			"simulation_group_id": key.SimulationGroupId.String(),
			"event_name":          req.EventName,
		},
		IngestionStatus: entity.IngestionStatusNotProcessing,
		TimeUploaded:    time.Now(),
	}
	if err := uow.PatientFileRepository().Upsert(ctx, file); err != nil {
		return nil, err
	}

	// Only the documents category feeds the vectorstore.
	if !key.Category.Ingestible() {
		s.log.Info("ingestion", "recorded non-document upload", map[string]interface{}{
			"file_name": key.FileName,
			"category":  key.Category.String(),
		})
		return &dto.FileEventResponse{
			FileId:   file.Id,
			FileName: key.FileName,
			Category: key.Category.String(),
			Skipped:  true,
		}, nil
	}

	status := entity.IngestionStatusCompleted
	if err := s.ProcessFile(ctx, file.Id); err != nil {
		if errors.Is(err, ErrAlreadyProcessing) {
			return nil, err
		}
		// The metadata row stays; the caller decides whether the overall
		// event still reports success.
		status = entity.IngestionStatusError
	}

	return &dto.FileEventResponse{
		FileId:          file.Id,
		FileName:        key.FileName,
		Category:        key.Category.String(),
		IngestionStatus: status,
	}, nil
}

func (s *ingestionService) ProcessFile(ctx context.Context, fileId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.PatientFileRepository().FindOne(ctx, specification.ByID{ID: fileId})
	if err != nil {
		return err
	}
	if file == nil {
		return ErrFileNotFound
	}

	began, err := uow.PatientFileRepository().TryBeginProcessing(ctx, file.Id)
	if err != nil {
		return err
	}
	if !began {
		s.log.Warn("ingestion", "lost processing race", map[string]interface{}{
			"file_id": file.Id,
		})
		return ErrAlreadyProcessing
	}
	s.publishStatus(ctx, file, entity.IngestionStatusProcessing)

	if err := s.ingest(ctx, uow, file); err != nil {
		if updErr := uow.PatientFileRepository().UpdateIngestionStatus(ctx, file.Id, entity.IngestionStatusError); updErr != nil {
			s.log.Error("ingestion", "failed to mark file as errored", map[string]interface{}{
				"file_id": file.Id,
				"error":   updErr.Error(),
			})
		}
		s.publishStatus(ctx, file, entity.IngestionStatusError)
		s.alertFailure(file, err)
		return err
	}

	if err := uow.PatientFileRepository().UpdateIngestionStatus(ctx, file.Id, entity.IngestionStatusCompleted); err != nil {
		return err
	}
	s.publishStatus(ctx, file, entity.IngestionStatusCompleted)
	return nil
}

// ingest loads, splits, embeds and stores one document. A missing
// source object is a benign no-op: the upload was deleted or superseded
// between event emission and processing.
func (s *ingestionService) ingest(ctx context.Context, uow unitofwork.UnitOfWork, file *entity.PatientFile) error {
	reader, err := s.store.Get(ctx, file.BucketReference, file.FilePath)
	if errors.Is(err, objectstore.ErrNotFound) {
		s.log.Info("ingestion", "source object gone, treating as completed", map[string]interface{}{
			"file_id": file.Id,
			"key":     file.FilePath,
		})
		return uow.EmbeddingRepository().DeleteBySource(ctx, file.PatientId.String(), file.Id)
	}
	if err != nil {
		return fmt.Errorf("fetch object: %w", err)
	}
	defer reader.Close()

	text, err := docload.Load(reader, file.FileType)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	chunks := utils.SplitText(text, chunkSize, chunkOverlap)
	if len(chunks) == 0 {
		s.log.Warn("ingestion", "document produced no chunks", map[string]interface{}{
			"file_id": file.Id,
		})
		return uow.EmbeddingRepository().ReplaceForSource(ctx, file.PatientId.String(), file.Id, nil)
	}

	vectors, err := s.embedWithRetry(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	records := make([]*entity.PatientEmbedding, len(chunks))
	for i, chunk := range chunks {
		records[i] = &entity.PatientEmbedding{
			Id:             uuid.New(),
			CollectionId:   file.PatientId.String(),
			SourceFileId:   file.Id,
			ChunkIndex:     i,
			Document:       chunk,
			EmbeddingValue: vectors[i],
			CreatedAt:      time.Now(),
		}
	}

	// Delete-then-insert keeps re-uploads idempotent.
	if err := uow.EmbeddingRepository().ReplaceForSource(ctx, file.PatientId.String(), file.Id, records); err != nil {
		return fmt.Errorf("store embeddings: %w", err)
	}

	s.log.Info("ingestion", "document ingested", map[string]interface{}{
		"file_id": file.Id,
		"chunks":  len(chunks),
	})
	return nil
}

func (s *ingestionService) embedWithRetry(ctx context.Context, chunks []string) ([][]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= embedMaxAttempts; attempt++ {
		vectors, err := s.embeddingProvider.GenerateBatch(ctx, chunks)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if !embedding.IsTransient(err) {
			return nil, err
		}
		s.log.Warn("ingestion", "transient embedding failure", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(embedBackoff * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}

func (s *ingestionService) Retry(ctx context.Context, req *dto.RetryIngestionRequest) (*dto.RetryIngestionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.PatientFileRepository().FindOne(ctx, specification.ByFileIdentity{
		PatientID: req.PatientId,
		FileName:  req.FileName,
		FileType:  req.FileType,
	})
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrFileNotFound
	}
	if file.IngestionStatus == entity.IngestionStatusProcessing {
		return nil, ErrAlreadyProcessing
	}

	payload, err := json.Marshal(dto.EmbedPatientFileMessage{FileId: file.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	return &dto.RetryIngestionResponse{FileId: file.Id, Queued: true}, nil
}

func (s *ingestionService) ListPatientFiles(ctx context.Context, patientId uuid.UUID) (*dto.PatientFilesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	files, err := uow.PatientFileRepository().FindAll(ctx,
		specification.ByPatientID{PatientID: patientId},
		specification.OrderBy{Field: "time_uploaded", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	resp := &dto.PatientFilesResponse{PatientId: patientId, Files: make([]dto.FileStatusResponse, 0, len(files))}
	for _, file := range files {
		item := dto.FileStatusResponse{
			FileId:          file.Id,
			FileName:        file.FileName,
			FileType:        file.FileType,
			Category:        file.Category.String(),
			IngestionStatus: file.IngestionStatus,
			TimeUploaded:    file.TimeUploaded,
		}
		if !file.StatusChangedAt.IsZero() {
			t := file.StatusChangedAt
			item.StatusChangedAt = &t
		}
		resp.Files = append(resp.Files, item)
	}
	return resp, nil
}

func (s *ingestionService) publishStatus(ctx context.Context, file *entity.PatientFile, status string) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewIngestionStatusEvent(file.Id.String(), file.PatientId.String(), file.FileName, status)
	// Status events are auxiliary; a publish failure never fails ingestion.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("ingestion", "failed to publish status event", map[string]interface{}{
			"file_id": file.Id,
			"error":   err.Error(),
		})
	}
}

func (s *ingestionService) alertFailure(file *entity.PatientFile, cause error) {
	if s.emailService == nil {
		return
	}
	if err := s.emailService.SendIngestionFailure(file.FileName, file.PatientId.String(), cause.Error()); err != nil {
		s.log.Warn("ingestion", "failed to send failure alert", map[string]interface{}{
			"file_id": file.Id,
			"error":   err.Error(),
		})
	}
}
