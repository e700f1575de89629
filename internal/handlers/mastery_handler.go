package handlers

import (
	"net/http"
	"strconv"
	"time"

	"hifz_tracker/internal/middleware"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/service"
	"hifz_tracker/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MasteryHandler serves the group-scoped supervisor surface: mastery
// statuses, recitation comments and attendance.
type MasteryHandler struct {
	masteryService service.MasteryService
	sessionService service.SessionService
}

func NewMasteryHandler(masteryService service.MasteryService, sessionService service.SessionService) *MasteryHandler {
	return &MasteryHandler{masteryService: masteryService, sessionService: sessionService}
}

func (h *MasteryHandler) GetGroupMastery(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid group ID format.", "group_id", model.ErrInvalidInput))
		return
	}

	resp, err := h.masteryService.GetGroupMastery(r.Context(), callerID, groupID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *MasteryHandler) SetMastery(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid group ID format.", "group_id", model.ErrInvalidInput))
		return
	}
	learnerID, err := uuid.Parse(chi.URLParam(r, "learner_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid learner ID format.", "learner_id", model.ErrInvalidInput))
		return
	}
	chapter, err := strconv.Atoi(chi.URLParam(r, "chapter"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_CHAPTER", "Chapter must be a number.", "chapter", model.ErrInvalidInput))
		return
	}

	var req model.SetMasteryRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	deleted, err := h.masteryService.SetMastery(r.Context(), callerID, groupID, learnerID, chapter, req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if deleted {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"learner_id": learnerID,
		"chapter":    chapter,
		"status":     req.Status,
	})
}

func (h *MasteryHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid group ID format.", "group_id", model.ErrInvalidInput))
		return
	}

	var req model.PostCommentRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	comment, err := h.masteryService.AddComment(r.Context(), callerID, groupID, req, time.Now())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, comment)
}

func (h *MasteryHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	commentID, err := uuid.Parse(chi.URLParam(r, "comment_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid comment ID format.", "comment_id", model.ErrInvalidInput))
		return
	}

	var req model.PatchCommentRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.masteryService.EditComment(r.Context(), callerID, commentID, req, time.Now()); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MasteryHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	commentID, err := uuid.Parse(chi.URLParam(r, "comment_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid comment ID format.", "comment_id", model.ErrInvalidInput))
		return
	}

	if err := h.masteryService.DeleteComment(r.Context(), callerID, commentID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MasteryHandler) UpsertAttendance(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid group ID format.", "group_id", model.ErrInvalidInput))
		return
	}
	learnerID, err := uuid.Parse(chi.URLParam(r, "learner_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid learner ID format.", "learner_id", model.ErrInvalidInput))
		return
	}

	var req model.PutAttendanceRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	record, err := h.sessionService.UpsertAttendance(r.Context(), callerID, groupID, learnerID, req, time.Now())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, record)
}
