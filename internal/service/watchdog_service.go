package service

import (
	"context"
	"time"

	"github.com/ssmubc/Empathetic-Communication/internal/dto"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/logger"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/mailer"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/unitofwork"
	"github.com/ssmubc/Empathetic-Communication/pkg/events"
	pkgNats "github.com/ssmubc/Empathetic-Communication/pkg/nats"
)

type IWatchdogService interface {
	// Sweep force-resolves every file still in "processing" to "error"
	// and returns the affected filenames. Anything processing at sweep
	// time is assumed stalled and must be re-triggered manually.
	Sweep(ctx context.Context) (*dto.SweepResponse, error)

	// Run sweeps on the given interval until the context is cancelled.
	Run(ctx context.Context, interval time.Duration)
}

type watchdogService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pkgNats.Publisher
	emailService   mailer.IEmailService
	log            logger.ILogger
}

func NewWatchdogService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pkgNats.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IWatchdogService {
	return &watchdogService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		emailService:   emailService,
		log:            log,
	}
}

func (s *watchdogService) Sweep(ctx context.Context) (*dto.SweepResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	marked, err := uow.PatientFileRepository().MarkProcessingAsError(ctx)
	if err != nil {
		return nil, err
	}

	if len(marked) > 0 {
		s.log.Warn("watchdog", "marked stalled ingestions as errored", map[string]interface{}{
			"files": marked,
		})
		if s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(ctx, events.NewIngestionSweptEvent(marked)); err != nil {
				s.log.Warn("watchdog", "failed to publish sweep event", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
		if s.emailService != nil {
			if err := s.emailService.SendSweepReport(marked); err != nil {
				s.log.Warn("watchdog", "failed to send sweep report", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return &dto.SweepResponse{MarkedFiles: marked, SweptAt: time.Now()}, nil
}

func (s *watchdogService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("watchdog", "sweep loop started", map[string]interface{}{
		"interval": interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			s.log.Info("watchdog", "sweep loop stopped", nil)
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Error("watchdog", "sweep failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
