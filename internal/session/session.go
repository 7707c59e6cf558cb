// Package session keeps the signed-in user on the client side.
//
// The stored value is the plain profile returned by login. It carries no
// expiry and no signature, so anyone able to write the store can pose as
// any user. It drives what a client renders and nothing more; it is not an
// authentication mechanism.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ydaci/lillehelperplatform/internal/account"
)

var ErrNoSession = errors.New("not logged in")

// Store persists at most one user between process runs.
type Store interface {
	Load(ctx context.Context) (*account.User, error)
	Save(ctx context.Context, user account.User) error
	Clear(ctx context.Context) error
}

type Holder struct {
	mu    sync.RWMutex
	store Store
	user  *account.User
}

// NewHolder restores any previously persisted user from store.
func NewHolder(ctx context.Context, store Store) (*Holder, error) {
	h := &Holder{store: store}
	if store == nil {
		return h, nil
	}

	user, err := store.Load(ctx)
	if err != nil && !errors.Is(err, ErrNoSession) {
		return nil, err
	}
	h.user = user
	return h, nil
}

func (h *Holder) Set(ctx context.Context, user account.User) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.store != nil {
		if err := h.store.Save(ctx, user); err != nil {
			return err
		}
	}
	h.user = &user
	return nil
}

func (h *Holder) Current() (account.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.user == nil {
		return account.User{}, false
	}
	return *h.user, true
}

func (h *Holder) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.user = nil
	if h.store != nil {
		return h.store.Clear(ctx)
	}
	return nil
}

// Dashboard returns the view for the current user, or the zero value when
// logged out.
func (h *Holder) Dashboard() account.Dashboard {
	user, ok := h.Current()
	if !ok {
		return account.Dashboard{}
	}
	role, err := account.ParseRole(user.Role)
	if err != nil {
		return account.Dashboard{}
	}
	return role.Dashboard()
}

// Allows reports whether the current user's dashboard offers action.
func (h *Holder) Allows(action string) bool {
	return slices.Contains(h.Dashboard().Actions, action)
}
