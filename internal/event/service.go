package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ydaci/lillehelperplatform/internal/metrics"
	"github.com/ydaci/lillehelperplatform/internal/notification"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrStorage      = errors.New("storage failure")
)

// Types are the accepted values of the optional event type tag.
var Types = []string{"language", "cultural", "professional"}

type Service interface {
	ListEvents(ctx context.Context, filter DateFilter) ([]Event, error)
	CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error)
}

type Notifier interface {
	EventCreated(ctx context.Context, msg notification.EventCreated)
}

type Option func(*service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *service) { s.notifier = n }
}

type service struct {
	repo     Repository
	loc      *time.Location
	now      func() time.Time
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   *slog.Logger
	notifier Notifier
}

// NewService builds the listing service. Date windows are computed in loc.
func NewService(repo Repository, loc *time.Location, m *metrics.Metrics, logger *slog.Logger, opts ...Option) Service {
	if loc == nil {
		loc = time.Local
	}

	v := validator.New()
	v.RegisterValidation("eventtype", func(fl validator.FieldLevel) bool {
		return normalizeType(fl.Field().String()) != ""
	})

	s := &service{
		repo:     repo,
		loc:      loc,
		now:      time.Now,
		validate: v,
		metrics:  m,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ListEvents(ctx context.Context, filter DateFilter) ([]Event, error) {
	var (
		events []Event
		err    error
	)

	if from, to, ok := filter.Window(s.now(), s.loc); ok {
		events, err = s.repo.ListBetween(ctx, from.Format(dateLayout), to.Format(dateLayout))
	} else {
		events, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordEventsListed(ctx, string(filter))

	if events == nil {
		events = []Event{}
	}
	return events, nil
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	date, err := time.Parse(dateLayout, req.EventDate)
	if err != nil {
		return nil, fmt.Errorf("%w: eventDate must be YYYY-MM-DD", ErrInvalidInput)
	}

	e := &Event{
		Title:       req.Title,
		EventDate:   date,
		Frequency:   req.Frequency,
		Location:    req.Location,
		Description: req.Description,
		Type:        normalizeType(req.Type),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "event created", "id", e.ID, "date", e.Date())
	s.metrics.RecordEventCreated(ctx)

	if s.notifier != nil {
		s.notifier.EventCreated(ctx, notification.EventCreated{
			ID:        e.ID,
			Title:     e.Title,
			EventDate: e.Date(),
			Type:      e.Type,
		})
	}

	return e, nil
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	for _, known := range Types {
		if t == known {
			return t
		}
	}
	return ""
}

func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	case "datetime":
		return fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidInput, field)
	case "eventtype":
		return fmt.Errorf("%w: %s must be one of %s", ErrInvalidInput, field, strings.Join(Types, ", "))
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidInput, field, fe.Tag())
	}
}
