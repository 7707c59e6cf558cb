package upload

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ydaci/lillehelperplatform/internal/httputil"

	"github.com/go-chi/chi/v5"
)

const formField = "video"

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/uploads/video", h.UploadVideo)
	r.Get("/uploads/{ref}", h.Serve)
}

type UploadResponse struct {
	Video string `json:"video"`
}

func (h *Handler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	// Leave room for multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.store.MaxBytes()+1<<20)

	file, header, err := r.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondWithError(w, http.StatusRequestEntityTooLarge, ErrTooLarge.Error())
			return
		}
		httputil.RespondWithError(w, http.StatusBadRequest, "video file is required")
		return
	}
	defer file.Close()

	ref, err := h.store.Save(file, header.Filename)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			httputil.RespondWithError(w, http.StatusRequestEntityTooLarge, ErrTooLarge.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to store upload", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.InfoContext(r.Context(), "video uploaded", "ref", ref, "size", header.Size)
	httputil.RespondWithJSON(w, http.StatusCreated, UploadResponse{Video: ref})
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	path, err := h.store.Path(chi.URLParam(r, "ref"))
	switch {
	case errors.Is(err, ErrInvalidRef), errors.Is(err, ErrNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, ErrNotFound.Error())
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "failed to resolve upload", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.ServeFile(w, r, path)
}
