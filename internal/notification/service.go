package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ydaci/lillehelperplatform/internal/metrics"
)

// Producer publishes one JSON-encodable value under key.
type Producer interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// Service fans domain events out to the configured broker. Publishing is
// best effort: failures are logged and never returned to the caller.
type Service struct {
	producer Producer
	metrics  *metrics.MessagingMetrics
	logger   *slog.Logger
}

type Option func(*Service)

func WithMetrics(m *metrics.MessagingMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService accepts a nil producer, in which case every call is a no-op.
func NewService(producer Producer, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		producer: producer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) AccountRegistered(ctx context.Context, msg AccountRegistered) {
	s.publish(ctx, fmt.Sprintf("account-%d", msg.ID), Envelope{Kind: KindAccountRegistered, Data: msg})
}

func (s *Service) EventCreated(ctx context.Context, msg EventCreated) {
	s.publish(ctx, fmt.Sprintf("event-%d", msg.ID), Envelope{Kind: KindEventCreated, Data: msg})
}

func (s *Service) publish(ctx context.Context, key string, env Envelope) {
	if s == nil || s.producer == nil {
		return
	}
	start := time.Now()
	err := s.producer.Publish(ctx, key, env)
	s.metrics.RecordPublish(ctx, env.Kind, time.Since(start), err)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish notification", "kind", env.Kind, "key", key, "error", err)
	}
}

func (s *Service) Close() error {
	if s == nil || s.producer == nil {
		return nil
	}
	return s.producer.Close()
}
