package upload

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, 1024)
	require.NoError(t, err)

	router := chi.NewRouter()
	NewHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(router)

	upload := func(t *testing.T, field, filename string, content []byte) *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, field, filename, content)
		req := httptest.NewRequest(http.MethodPost, "/uploads/video", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("UploadAndServe", func(t *testing.T) {
		w := upload(t, "video", "Intro.MP4", []byte("fake video bytes"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp UploadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, strings.HasSuffix(resp.Video, ".mp4"))

		stored, err := os.ReadFile(filepath.Join(dir, resp.Video))
		require.NoError(t, err)
		assert.Equal(t, "fake video bytes", string(stored))

		get := httptest.NewRecorder()
		router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/uploads/"+resp.Video, nil))
		assert.Equal(t, http.StatusOK, get.Code)
		assert.Equal(t, "fake video bytes", get.Body.String())
	})

	t.Run("MissingFile", func(t *testing.T) {
		w := upload(t, "photo", "a.png", []byte("x"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("TooLarge", func(t *testing.T) {
		w := upload(t, "video", "big.mp4", bytes.Repeat([]byte("a"), 2048))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("RejectsTraversal", func(t *testing.T) {
		for _, ref := range []string{"..%2Fetc%2Fpasswd", "not-a-uuid.mp4", "00000000-0000-0000-0000-000000000000.mp4"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+ref, nil))
			assert.Equal(t, http.StatusNotFound, w.Code, ref)
		}
	})
}

func TestSafeExt(t *testing.T) {
	assert.Equal(t, ".webm", safeExt("clip.WEBM"))
	assert.Equal(t, "", safeExt("noext"))
	assert.Equal(t, "", safeExt("weird.mp4;rm -rf"))
}
