package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/ssmubc/Empathetic-Communication/internal/dto"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/logger"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the retry job channel and re-runs the
// ingestion pipeline for each queued file.
type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	ingestionService IIngestionService
	log              logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestionService IIngestionService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		ingestionService: ingestionService,
		log:              log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.EmbedPatientFileMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal job payload", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.log.Info("consumer", "processing ingestion job", map[string]interface{}{
		"file_id": payload.FileId,
	})

	err := cs.ingestionService.ProcessFile(ctx, payload.FileId)
	switch {
	case err == nil:
		msg.Ack()
	case errors.Is(err, ErrFileNotFound):
		// File row deleted since queueing. Ack.
		cs.log.Warn("consumer", "queued file no longer exists", map[string]interface{}{
			"file_id": payload.FileId,
		})
		msg.Ack()
	case errors.Is(err, ErrAlreadyProcessing):
		cs.log.Warn("consumer", "file already processing, requeueing", map[string]interface{}{
			"file_id": payload.FileId,
		})
		msg.Nack()
	default:
		// The pipeline already marked the row as errored; retrying from
		// the queue would repeat a deterministic failure.
		cs.log.Error("consumer", "ingestion job failed", map[string]interface{}{
			"file_id": payload.FileId,
			"error":   err.Error(),
		})
		msg.Ack()
	}
}
