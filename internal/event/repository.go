package event

import (
	"context"
	"fmt"
	"time"

	"github.com/ydaci/lillehelperplatform/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	List(ctx context.Context) ([]Event, error)
	// ListBetween returns events dated within [from, to], both YYYY-MM-DD.
	ListBetween(ctx context.Context, from, to string) ([]Event, error)
	Create(ctx context.Context, e *Event) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) List(ctx context.Context) ([]Event, error) {
	start := time.Now()
	events := make([]Event, 0)
	err := r.db.NewSelect().Model(&events).OrderExpr("id ASC").Scan(ctx)

	r.metrics.DB().RecordQuery(ctx, "select", "events", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return events, nil
}

func (r *repository) ListBetween(ctx context.Context, from, to string) ([]Event, error) {
	start := time.Now()
	events := make([]Event, 0)
	err := r.db.NewSelect().
		Model(&events).
		Where("event_date >= ?", from).
		Where("event_date <= ?", to).
		OrderExpr("event_date ASC, id ASC").
		Scan(ctx)

	r.metrics.DB().RecordQuery(ctx, "select", "events", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return events, nil
}

func (r *repository) Create(ctx context.Context, e *Event) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(e).Returning("*").Exec(ctx)

	r.metrics.DB().RecordQuery(ctx, "insert", "events", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
