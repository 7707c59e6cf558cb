package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/ydaci/lillehelperplatform/internal/metrics"
	"github.com/ydaci/lillehelperplatform/internal/notification"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// bcrypt only hashes the first 72 bytes.
const maxPasswordBytes = 72

const defaultBcryptCost = 12

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error)
	Login(ctx context.Context, req LoginRequest) (*User, error)
}

// Notifier receives registration events. Delivery is best effort.
type Notifier interface {
	AccountRegistered(ctx context.Context, msg notification.AccountRegistered)
}

// DirectoryInvalidator drops any cached copy of the teacher directory.
type DirectoryInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Option func(*service)

func WithNotifier(n Notifier) Option {
	return func(s *service) { s.notifier = n }
}

func WithDirectory(d DirectoryInvalidator) Option {
	return func(s *service) { s.directory = d }
}

type service struct {
	repo       Repository
	bcryptCost int
	dummyHash  []byte
	validate   *validator.Validate
	metrics    *metrics.Metrics
	logger     *slog.Logger
	notifier   Notifier
	directory  DirectoryInvalidator
}

func NewService(repo Repository, bcryptCost int, m *metrics.Metrics, logger *slog.Logger, opts ...Option) Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		logger.Warn("bcrypt cost out of range, using default", "cost", bcryptCost, "default", defaultBcryptCost)
		bcryptCost = defaultBcryptCost
	}

	s := &service{
		repo:       repo,
		bcryptCost: bcryptCost,
		validate:   NewValidator(),
		metrics:    m,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Compared against when the email is unknown so both login failures
	// cost the same.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		panic(fmt.Sprintf("account: dummy hash at cost %d: %v", bcryptCost, err))
	}
	s.dummyHash = dummy
	return s
}

// NewValidator returns a validator with the simpleemail tag registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	if len(req.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordBytes)
	}

	role, err := ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.FindByEmailAcrossPartitions(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrEmailExists
	case !errors.Is(err, ErrAccountNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &Account{
		Role:         role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Description:  req.Description,
		VideoRef:     req.Video,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account registered", "role", role.String(), "id", created.ID)
	s.metrics.RecordAccountRegistered(ctx, role.String())

	if s.notifier != nil {
		s.notifier.AccountRegistered(ctx, notification.AccountRegistered{
			ID:    created.ID,
			Role:  role.String(),
			Email: created.Email,
		})
	}

	if role == RoleTeacher && s.directory != nil {
		if err := s.directory.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate teacher directory", "error", err)
		}
	}

	return &SignupResponse{Success: true, ID: created.ID}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	role, err := ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	acc, err := s.repo.FindByEmail(ctx, role, req.Email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			s.metrics.RecordLogin(ctx, role.String(), false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordLogin(ctx, role.String(), false)
		return nil, ErrInvalidCredentials
	}

	s.metrics.RecordLogin(ctx, role.String(), true)

	return &User{
		ID:        acc.ID,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Role:      role.Label(),
	}, nil
}

func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	case "simpleemail":
		return fmt.Errorf("%w: %s is not a valid email address", ErrInvalidInput, field)
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidInput, field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
