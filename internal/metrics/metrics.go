package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the business counters of the service plus the database and
// messaging instruments. A nil *Metrics and the value returned by NewMock are safe to
// use and record nothing.
type Metrics struct {
	Database  *DatabaseMetrics
	Messaging *MessagingMetrics

	accountsRegistered metric.Int64Counter
	logins             metric.Int64Counter
	eventsCreated      metric.Int64Counter
	eventsListed       metric.Int64Counter
	teachersListed     metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	messaging, err := NewMessagingMetrics(meter)
	if err != nil {
		return nil, err
	}

	m := &Metrics{Database: database, Messaging: messaging}

	m.accountsRegistered, err = meter.Int64Counter(
		"community.accounts.registered",
		metric.WithDescription("Accounts created through signup, by role"),
		metric.WithUnit("{account}"),
	)
	if err != nil {
		return nil, err
	}

	m.logins, err = meter.Int64Counter(
		"community.logins",
		metric.WithDescription("Login attempts, by role and outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.eventsCreated, err = meter.Int64Counter(
		"community.events.created",
		metric.WithDescription("Events created"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	m.eventsListed, err = meter.Int64Counter(
		"community.events.list_viewed",
		metric.WithDescription("Event listings served, by date filter"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.teachersListed, err = meter.Int64Counter(
		"community.teachers.list_viewed",
		metric.WithDescription("Teacher directory listings served"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// NewMock creates a no-op Metrics instance for testing.
func NewMock() *Metrics {
	return &Metrics{Database: &DatabaseMetrics{}, Messaging: &MessagingMetrics{}}
}

func (m *Metrics) DB() *DatabaseMetrics {
	if m == nil {
		return nil
	}
	return m.Database
}

func (m *Metrics) Msg() *MessagingMetrics {
	if m == nil {
		return nil
	}
	return m.Messaging
}

func (m *Metrics) RecordAccountRegistered(ctx context.Context, role string) {
	if m != nil && m.accountsRegistered != nil {
		m.accountsRegistered.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
	}
}

func (m *Metrics) RecordLogin(ctx context.Context, role string, success bool) {
	if m != nil && m.logins != nil {
		outcome := "failure"
		if success {
			outcome = "success"
		}
		m.logins.Add(ctx, 1, metric.WithAttributes(
			attribute.String("role", role),
			attribute.String("outcome", outcome),
		))
	}
}

func (m *Metrics) RecordEventCreated(ctx context.Context) {
	if m != nil && m.eventsCreated != nil {
		m.eventsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEventsListed(ctx context.Context, filter string) {
	if m != nil && m.eventsListed != nil {
		if filter == "" {
			filter = "all"
		}
		m.eventsListed.Add(ctx, 1, metric.WithAttributes(attribute.String("filter", filter)))
	}
}

func (m *Metrics) RecordTeachersListed(ctx context.Context) {
	if m != nil && m.teachersListed != nil {
		m.teachersListed.Add(ctx, 1)
	}
}
