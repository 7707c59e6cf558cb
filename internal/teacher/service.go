// Package teacher serves the public teacher directory.
package teacher

import (
	"context"
	"log/slog"

	"github.com/ydaci/lillehelperplatform/internal/account"
	"github.com/ydaci/lillehelperplatform/internal/metrics"
)

type Lister interface {
	ListTeachers(ctx context.Context) ([]account.Teacher, error)
}

type Service struct {
	lister  Lister
	cache   Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService accepts a nil cache; every call then reads storage.
func NewService(lister Lister, cache Cache, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		lister:  lister,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// List returns every teacher. Cache errors fall through to storage.
func (s *Service) List(ctx context.Context) ([]account.Teacher, error) {
	defer s.metrics.RecordTeachersListed(ctx)

	if s.cache != nil {
		teachers, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "teacher cache read failed", "error", err)
		} else if ok {
			return teachers, nil
		}
	}

	teachers, err := s.lister.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	if teachers == nil {
		teachers = []account.Teacher{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, teachers); err != nil {
			s.logger.WarnContext(ctx, "teacher cache write failed", "error", err)
		}
	}
	return teachers, nil
}

func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}
