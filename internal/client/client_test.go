package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ydaci/lillehelperplatform/internal/account"
	"github.com/ydaci/lillehelperplatform/internal/event"
	"github.com/ydaci/lillehelperplatform/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(v)
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", func(w http.ResponseWriter, r *http.Request) {
			var req account.SignupRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Email == "taken@example.com" {
				writeJSON(w, http.StatusConflict, map[string]string{"error": "email already exists"})
				return
			}
			writeJSON(w, http.StatusOK, account.SignupResponse{Success: true, ID: 11})
		})
		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			var req account.LoginRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "right" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
				return
			}
			writeJSON(w, http.StatusOK, account.LoginResponse{User: account.User{ID: 11, FirstName: "Eva", Role: req.Role}})
		})
		r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "title": r.URL.Query().Get("dateFilter"), "eventDate": "2024-06-15"},
			})
		})
		r.Post("/events", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid input: location is required"})
		})
		r.Get("/teachers", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		})
		r.Post("/uploads/video", func(w http.ResponseWriter, r *http.Request) {
			file, header, err := r.FormFile("video")
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "video file is required"})
				return
			}
			defer file.Close()
			data, _ := io.ReadAll(file)
			writeJSON(w, http.StatusCreated, map[string]string{"video": header.Filename + ":" + string(data)})
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	srv := fakeAPI(t)

	holder, err := session.NewHolder(ctx, nil)
	require.NoError(t, err)
	c := NewClient(srv.URL+"/", holder)

	t.Run("Signup", func(t *testing.T) {
		resp, err := c.Signup(ctx, account.SignupRequest{Role: "Teacher", Email: "new@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, int64(11), resp.ID)

		_, err = c.Signup(ctx, account.SignupRequest{Role: "Teacher", Email: "taken@example.com", Password: "pw"})
		assert.ErrorIs(t, err, ErrConflict)
		assert.EqualError(t, err, "email already exists")
	})

	t.Run("LoginStoresSession", func(t *testing.T) {
		_, err := c.Login(ctx, account.LoginRequest{Role: "Learner", Email: "e@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, ok := holder.Current()
		assert.False(t, ok)

		user, err := c.Login(ctx, account.LoginRequest{Role: "Learner", Email: "e@example.com", Password: "right"})
		require.NoError(t, err)
		assert.Equal(t, "Eva", user.FirstName)

		current, ok := holder.Current()
		require.True(t, ok)
		assert.Equal(t, *user, current)
		assert.True(t, c.Session().Allows("contacts"))

		require.NoError(t, c.Logout(ctx))
		_, ok = holder.Current()
		assert.False(t, ok)
	})

	t.Run("ListEventsPassesFilter", func(t *testing.T) {
		events, err := c.ListEvents(ctx, event.FilterWeek)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "week", events[0].Title)
		assert.Equal(t, "2024-06-15", events[0].Date())
	})

	t.Run("CreateEventInvalid", func(t *testing.T) {
		_, err := c.CreateEvent(ctx, event.CreateEventRequest{Title: "x"})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "location")
	})

	t.Run("ServerError", func(t *testing.T) {
		_, err := c.ListTeachers(ctx)
		assert.ErrorIs(t, err, ErrServer)
	})

	t.Run("UploadVideo", func(t *testing.T) {
		ref, err := c.UploadVideo(ctx, "intro.mp4", strings.NewReader("bytes"))
		require.NoError(t, err)
		assert.Equal(t, "intro.mp4:bytes", ref)
	})
}
