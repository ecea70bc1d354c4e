package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/medisched/appointment-api/internal/email"
	"github.com/medisched/appointment-api/internal/model"
	"github.com/medisched/appointment-api/internal/repository"
	"github.com/medisched/appointment-api/pkg/messaging"
	"github.com/medisched/appointment-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	RetainFor     time.Duration
}

// OutboxProcessor drains pending appointment events: each event is published
// to the broker and the patient is notified by email before the row is
// marked processed. Rows are locked FOR UPDATE SKIP LOCKED so multiple
// workers can run side by side.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	sender  email.Sender
	config  OutboxProcessorConfig
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	sender email.Sender,
	config OutboxProcessorConfig,
	logger *zerolog.Logger,
	m *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.RetryDelay <= 0 {
		panic("RetryDelay must be greater than 0")
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		sender:  sender,
		config:  config,
		logger:  logger,
		metrics: m,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	cleanup := time.NewTicker(time.Hour)
	defer cleanup.Stop()

	p.logger.Info().Msg("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error().Err(err).Msg("failed to process events")
			}
		case <-cleanup.C:
			if p.config.RetainFor > 0 {
				p.cleanupProcessed(ctx)
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	events, err := p.repo.GetPendingEventsWithLock(ctx, p.config.BatchSize)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "error").Inc()
		return fmt.Errorf("failed to get pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "success").Inc()

	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error().Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("failed to process event")
			continue
		}
	}

	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	err := p.retry(event.EventType, func() error {
		return p.broker.Publish(ctx, event.EventType, json.RawMessage(event.Payload))
	})

	if err != nil {
		p.metrics.OutboxEventsFailed.Inc()
		errStr := err.Error()
		if updateErr := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusFailed, &errStr); updateErr != nil {
			p.logger.Error().Err(updateErr).Msg("failed to update event status")
		}
		return err
	}

	p.notify(event)

	p.metrics.OutboxEventsProcessed.Inc()
	if err := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); err != nil {
		p.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to update event status")
		return err
	}

	return nil
}

// notify emails the patient. Delivery failures do not fail the event: the
// broker already has it, and a bounced email is not worth a redelivery loop.
func (p *OutboxProcessor) notify(event *model.OutboxEvent) {
	var payload model.AppointmentEvent
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		p.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("malformed event payload")
		return
	}

	var err error
	switch event.EventType {
	case model.EventAppointmentBooked:
		err = p.sender.SendAppointmentBooked(payload.PatientEmail, payload.AppointmentTime)
	case model.EventAppointmentCancelled:
		err = p.sender.SendAppointmentCancelled(payload.PatientEmail, payload.AppointmentTime)
	default:
		return
	}

	if err != nil {
		p.metrics.NotificationsFailed.WithLabelValues(event.EventType).Inc()
		p.logger.Error().Err(err).
			Str("event_type", event.EventType).
			Msg("failed to send notification")
		return
	}
	p.metrics.NotificationsSent.WithLabelValues(event.EventType).Inc()
}

func (p *OutboxProcessor) cleanupProcessed(ctx context.Context) {
	deleted, err := p.repo.DeleteProcessedBefore(ctx, time.Now().Add(-p.config.RetainFor))
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to clean up processed events")
		return
	}
	if deleted > 0 {
		p.logger.Info().Int64("deleted", deleted).Msg("cleaned up processed events")
	}
}

func (p *OutboxProcessor) retry(eventType string, fn func() error) error {
	var err error
	for i := 0; i < p.config.RetryAttempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < p.config.RetryAttempts-1 {
			p.metrics.OutboxRetries.WithLabelValues(eventType).Inc()
			time.Sleep(p.config.RetryDelay)
		}
	}
	return err
}
