package account

import (
	"time"

	"github.com/uptrace/bun"
)

// Account is the role-independent view of a stored user.
type Account struct {
	ID           int64
	Role         Role
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Description  string
	VideoRef     string
}

type Teacher struct {
	bun.BaseModel `bun:"table:teachers,alias:t"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	FirstName   string    `bun:"first_name,nullzero" json:"firstName"`
	LastName    string    `bun:"last_name,nullzero" json:"lastName"`
	Email       string    `bun:"email,notnull,unique" json:"email"`
	Password    string    `bun:"password,notnull" json:"-"`
	Description string    `bun:"description,nullzero" json:"description"`
	Video       string    `bun:"video,nullzero" json:"video"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	FirstName   string    `bun:"first_name,nullzero" json:"firstName"`
	LastName    string    `bun:"last_name,nullzero" json:"lastName"`
	Email       string    `bun:"email,notnull,unique" json:"email"`
	Password    string    `bun:"password,notnull" json:"-"`
	Description string    `bun:"description,nullzero" json:"description"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

type Administrator struct {
	bun.BaseModel `bun:"table:administrators,alias:a"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	FirstName string    `bun:"first_name,nullzero" json:"firstName"`
	LastName  string    `bun:"last_name,nullzero" json:"lastName"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Password  string    `bun:"password,notnull" json:"-"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// Models returns every partition model, for migrations.
func Models() []interface{} {
	return []interface{}{(*Teacher)(nil), (*Student)(nil), (*Administrator)(nil)}
}

func (t *Teacher) account() *Account {
	return &Account{
		ID:           t.ID,
		Role:         RoleTeacher,
		FirstName:    t.FirstName,
		LastName:     t.LastName,
		Email:        t.Email,
		PasswordHash: t.Password,
		Description:  t.Description,
		VideoRef:     t.Video,
	}
}

func (s *Student) account() *Account {
	return &Account{
		ID:           s.ID,
		Role:         RoleStudent,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Email:        s.Email,
		PasswordHash: s.Password,
		Description:  s.Description,
	}
}

func (a *Administrator) account() *Account {
	return &Account{
		ID:           a.ID,
		Role:         RoleAdministrator,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		PasswordHash: a.Password,
	}
}

type record interface {
	account() *Account
}

// newRecord returns an empty model for role's partition.
func newRecord(role Role) (record, error) {
	switch role {
	case RoleTeacher:
		return new(Teacher), nil
	case RoleStudent:
		return new(Student), nil
	case RoleAdministrator:
		return new(Administrator), nil
	default:
		return nil, ErrInvalidRole
	}
}

// recordFrom maps acc onto its partition model. Fields the partition does
// not carry are dropped.
func recordFrom(acc *Account) (record, error) {
	switch acc.Role {
	case RoleTeacher:
		return &Teacher{
			FirstName:   acc.FirstName,
			LastName:    acc.LastName,
			Email:       acc.Email,
			Password:    acc.PasswordHash,
			Description: acc.Description,
			Video:       acc.VideoRef,
		}, nil
	case RoleStudent:
		return &Student{
			FirstName:   acc.FirstName,
			LastName:    acc.LastName,
			Email:       acc.Email,
			Password:    acc.PasswordHash,
			Description: acc.Description,
		}, nil
	case RoleAdministrator:
		return &Administrator{
			FirstName: acc.FirstName,
			LastName:  acc.LastName,
			Email:     acc.Email,
			Password:  acc.PasswordHash,
		}, nil
	default:
		return nil, ErrInvalidRole
	}
}

type SignupRequest struct {
	Role        string `json:"role" validate:"required"`
	Email       string `json:"email" validate:"required,simpleemail"`
	Password    string `json:"password" validate:"required"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Description string `json:"description"`
	Video       string `json:"video"`
}

type SignupResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type LoginRequest struct {
	Role     string `json:"role" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// User is the public profile returned on login. It never carries the
// password hash.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type LoginResponse struct {
	User User `json:"user"`
}
