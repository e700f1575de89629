package handlers

import (
	"net/http"
	"time"

	"hifz_tracker/internal/middleware"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/service"
	"hifz_tracker/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ProgressHandler serves the learner write paths: verse-range entries,
// daily activity completions and full-pass cycles.
type ProgressHandler struct {
	service service.ProgressService
}

func NewProgressHandler(s service.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: s}
}

func (h *ProgressHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.PostProgressRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	entry, err := h.service.CreateEntry(r.Context(), userID, req, time.Now())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, entry)
}

func (h *ProgressHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	entryID, err := uuid.Parse(chi.URLParam(r, "entry_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid entry ID format.", "entry_id", model.ErrInvalidInput))
		return
	}

	if err := h.service.DeleteEntry(r.Context(), userID, entryID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProgressHandler) UpsertDailyActivity(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	program := model.Program(chi.URLParam(r, "program"))
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_DATE", "Date must be YYYY-MM-DD.", "date", model.ErrInvalidInput))
		return
	}

	var req model.PutDailyActivityRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.UpsertDailyActivity(r.Context(), userID, program, date, req.Completed); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProgressHandler) CreateCycle(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.PostCycleRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	cycle, err := h.service.CreateCycle(r.Context(), userID, req, time.Now())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, cycle)
}
