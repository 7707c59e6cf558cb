package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ydaci/lillehelperplatform/internal/metrics"
	"github.com/ydaci/lillehelperplatform/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	events []Event
	err    error
}

func (m *memRepo) List(context.Context) ([]Event, error) {
	return m.events, m.err
}

func (m *memRepo) ListBetween(_ context.Context, from, to string) ([]Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []Event
	for _, e := range m.events {
		if d := e.Date(); d >= from && d <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, e *Event) error {
	if m.err != nil {
		return m.err
	}
	e.ID = int64(len(m.events) + 1)
	m.events = append(m.events, *e)
	return nil
}

type recordingNotifier struct {
	msgs []notification.EventCreated
}

func (n *recordingNotifier) EventCreated(_ context.Context, msg notification.EventCreated) {
	n.msgs = append(n.msgs, msg)
}

func newTestService(repo Repository, opts ...Option) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := WithClock(func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) })
	return NewService(repo, time.UTC, metrics.NewMock(), logger, append([]Option{clock}, opts...)...)
}

func validRequest() CreateEventRequest {
	return CreateEventRequest{
		Title:       "Language café",
		EventDate:   "2024-06-15",
		Frequency:   "weekly",
		Location:    "Lille",
		Description: "Practice French and English",
	}
}

func TestService_ListEvents(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{events: []Event{
		{ID: 1, Title: "New year", EventDate: day("2024-01-01")},
		{ID: 2, Title: "Today", EventDate: day("2024-06-15")},
		{ID: 3, Title: "Monday", EventDate: day("2024-06-10")},
		{ID: 4, Title: "End of month", EventDate: day("2024-06-30")},
		{ID: 5, Title: "Last year", EventDate: day("2023-06-15")},
	}}
	svc := newTestService(repo)

	ids := func(events []Event) []int64 {
		out := []int64{}
		for _, e := range events {
			out = append(out, e.ID)
		}
		return out
	}

	t.Run("NoFilter", func(t *testing.T) {
		events, err := svc.ListEvents(ctx, FilterNone)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(events))
	})

	t.Run("Today", func(t *testing.T) {
		events, err := svc.ListEvents(ctx, FilterToday)
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, ids(events))
	})

	t.Run("Week", func(t *testing.T) {
		events, err := svc.ListEvents(ctx, FilterWeek)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3}, ids(events))
	})

	t.Run("MonthIgnoresOtherYears", func(t *testing.T) {
		events, err := svc.ListEvents(ctx, FilterMonth)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3, 4}, ids(events))
	})

	t.Run("EmptyIsNotNil", func(t *testing.T) {
		events, err := newTestService(&memRepo{}).ListEvents(ctx, FilterToday)
		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})

	t.Run("StorageFailure", func(t *testing.T) {
		_, err := newTestService(&memRepo{err: ErrStorage}).ListEvents(ctx, FilterNone)
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := &memRepo{}
		notifier := &recordingNotifier{}
		svc := newTestService(repo, WithNotifier(notifier))

		req := validRequest()
		req.Type = "Language"
		e, err := svc.CreateEvent(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, int64(1), e.ID)
		assert.Equal(t, "language", e.Type)
		assert.Equal(t, "2024-06-15", e.Date())

		require.Len(t, notifier.msgs, 1)
		assert.Equal(t, notification.EventCreated{ID: 1, Title: "Language café", EventDate: "2024-06-15", Type: "language"}, notifier.msgs[0])
	})

	t.Run("MissingLocationStoresNothing", func(t *testing.T) {
		repo := &memRepo{}
		svc := newTestService(repo)

		req := validRequest()
		req.Location = ""
		_, err := svc.CreateEvent(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "location")
		assert.Empty(t, repo.events)
	})

	t.Run("EachRequiredField", func(t *testing.T) {
		svc := newTestService(&memRepo{})
		blank := []func(*CreateEventRequest){
			func(r *CreateEventRequest) { r.Title = "" },
			func(r *CreateEventRequest) { r.EventDate = "" },
			func(r *CreateEventRequest) { r.Frequency = "" },
			func(r *CreateEventRequest) { r.Description = "" },
		}
		for _, clear := range blank {
			req := validRequest()
			clear(&req)
			_, err := svc.CreateEvent(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
	})

	t.Run("BadDate", func(t *testing.T) {
		req := validRequest()
		req.EventDate = "15/06/2024"
		_, err := newTestService(&memRepo{}).CreateEvent(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("UnknownType", func(t *testing.T) {
		req := validRequest()
		req.Type = "sports"
		_, err := newTestService(&memRepo{}).CreateEvent(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("StorageFailure", func(t *testing.T) {
		_, err := newTestService(&memRepo{err: errors.Join(ErrStorage, errors.New("down"))}).CreateEvent(ctx, validRequest())
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestEvent_JSON(t *testing.T) {
	e := Event{ID: 9, Title: "Tandem", EventDate: day("2024-06-15"), Frequency: "once", Location: "Lille", Description: "d"}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"eventDate":"2024-06-15"`)
	assert.NotContains(t, string(data), `"type"`)

	var back Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, e.ID, back.ID)
	assert.Equal(t, "2024-06-15", back.Date())
}
