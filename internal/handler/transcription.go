package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ali34f/VideoTranscriber/internal/auth"
	"github.com/Ali34f/VideoTranscriber/internal/middleware"
	"github.com/Ali34f/VideoTranscriber/internal/model"
	"github.com/Ali34f/VideoTranscriber/internal/service"
)

// TranscriptionHandler serves the upload, history, and profile endpoints.
// All of its routes sit behind the session middleware, so a session is
// always present in the request context.
type TranscriptionHandler struct {
	transcriptions *service.TranscriptionService
	accounts       *service.AccountService
	logger         *slog.Logger
	maxUploadSize  int64
}

// NewTranscriptionHandler creates a new TranscriptionHandler.
func NewTranscriptionHandler(
	transcriptions *service.TranscriptionService,
	accounts *service.AccountService,
	logger *slog.Logger,
	maxUploadSize int64,
) *TranscriptionHandler {
	return &TranscriptionHandler{
		transcriptions: transcriptions,
		accounts:       accounts,
		logger:         logger,
		maxUploadSize:  maxUploadSize,
	}
}

// Transcribe handles POST /api/transcribe. The upload is a multipart
// form with the media under the "file" field.
func (h *TranscriptionHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	sess := auth.MustSessionFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, service.ErrNoFileUploaded.Error())
		return
	}
	defer file.Close()

	start := time.Now()
	result, err := h.transcriptions.Submit(r.Context(), sess.UserID, header.Filename, file)
	if err != nil {
		h.handleTranscriptionError(w, r, err)
		return
	}

	h.logger.Info("transcription_completed",
		"user_id", sess.UserID,
		"transcription_id", result.RecordID,
		"filename", header.Filename,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       result.RecordID,
		"text":     result.Text,
		"language": result.Language,
	})
}

// History handles GET /api/history.
func (h *TranscriptionHandler) History(w http.ResponseWriter, r *http.Request) {
	sess := auth.MustSessionFromContext(r.Context())

	items, err := h.transcriptions.History(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("history lookup failed",
			"error", err.Error(),
			"user_id", sess.UserID,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if items == nil {
		items = []*model.TranscriptionSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": items})
}

// Get handles GET /api/transcription/{id}.
func (h *TranscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := auth.MustSessionFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "transcription not found")
		return
	}

	record, err := h.transcriptions.Get(r.Context(), sess.UserID, id)
	if err != nil {
		if errors.Is(err, service.ErrTranscriptionNotFound) {
			writeError(w, http.StatusNotFound, "transcription not found")
			return
		}
		h.logger.Error("transcription lookup failed",
			"error", err.Error(),
			"user_id", sess.UserID,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Profile handles GET /api/profile.
func (h *TranscriptionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	sess := auth.MustSessionFromContext(r.Context())

	user, err := h.accounts.GetUser(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("profile lookup failed",
			"error", err.Error(),
			"user_id", sess.UserID,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	total, err := h.transcriptions.Count(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("transcription count failed",
			"error", err.Error(),
			"user_id", sess.UserID,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username":             user.Username,
		"email":                user.Email,
		"member_since":         user.CreatedAt.UTC().Format(time.RFC3339),
		"total_transcriptions": total,
	})
}

func (h *TranscriptionHandler) handleTranscriptionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNoFileUploaded),
		errors.Is(err, service.ErrNoFileSelected),
		errors.Is(err, service.ErrInvalidFileType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTranscriptionFailed):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		h.logger.Error("transcription failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
