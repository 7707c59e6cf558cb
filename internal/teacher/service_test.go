package teacher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ydaci/lillehelperplatform/internal/account"
	"github.com/ydaci/lillehelperplatform/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	teachers []account.Teacher
	err      error
	calls    int
}

func (s *stubLister) ListTeachers(context.Context) ([]account.Teacher, error) {
	s.calls++
	return s.teachers, s.err
}

type memCache struct {
	stored []account.Teacher
	ok     bool
	getErr error
}

func (c *memCache) Get(context.Context) ([]account.Teacher, bool, error) {
	return c.stored, c.ok, c.getErr
}

func (c *memCache) Set(_ context.Context, teachers []account.Teacher) error {
	c.stored, c.ok = teachers, true
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.stored, c.ok = nil, false
	return nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestService_List(t *testing.T) {
	ctx := context.Background()
	alice := account.Teacher{ID: 1, FirstName: "Alice", Email: "alice@example.com", Password: "hash"}

	t.Run("WithoutCache", func(t *testing.T) {
		lister := &stubLister{teachers: []account.Teacher{alice}}
		svc := NewService(lister, nil, metrics.NewMock(), discard)

		got, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []account.Teacher{alice}, got)
		assert.NoError(t, svc.Invalidate(ctx))
	})

	t.Run("CachesUntilInvalidated", func(t *testing.T) {
		lister := &stubLister{teachers: []account.Teacher{alice}}
		svc := NewService(lister, &memCache{}, metrics.NewMock(), discard)

		_, err := svc.List(ctx)
		require.NoError(t, err)
		_, err = svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, lister.calls)

		require.NoError(t, svc.Invalidate(ctx))
		_, err = svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, lister.calls)
	})

	t.Run("CacheErrorFallsThrough", func(t *testing.T) {
		lister := &stubLister{teachers: []account.Teacher{alice}}
		svc := NewService(lister, &memCache{getErr: errors.New("redis down")}, metrics.NewMock(), discard)

		got, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("EmptyIsNotNil", func(t *testing.T) {
		svc := NewService(&stubLister{}, nil, metrics.NewMock(), discard)
		got, err := svc.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}

func TestHandler_ListTeachers(t *testing.T) {
	serve := func(lister Lister) *httptest.ResponseRecorder {
		r := chi.NewRouter()
		NewHandler(NewService(lister, nil, metrics.NewMock(), discard), discard).RegisterRoutes(r)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teachers", nil))
		return w
	}

	t.Run("OmitsPasswordHash", func(t *testing.T) {
		w := serve(&stubLister{teachers: []account.Teacher{
			{ID: 1, FirstName: "Alice", Email: "alice@example.com", Password: "$2a$12$secret", Video: "a.mp4"},
		}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "secret")

		var got []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "a.mp4", got[0]["video"])
	})

	t.Run("Empty", func(t *testing.T) {
		w := serve(&stubLister{})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("StorageFailure", func(t *testing.T) {
		w := serve(&stubLister{err: account.ErrStorage})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	})
}
