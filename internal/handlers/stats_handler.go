package handlers

import (
	"net/http"
	"strconv"
	"time"

	"hifz_tracker/internal/middleware"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/period"
	"hifz_tracker/internal/service"
	"hifz_tracker/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// StatsHandler serves the read-only derived views: the statistics
// report and the learner profile.
type StatsHandler struct {
	service service.StatsService
}

func NewStatsHandler(s service.StatsService) *StatsHandler {
	return &StatsHandler{service: s}
}

func (h *StatsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	learnerID, err := uuid.Parse(chi.URLParam(r, "learner_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid learner ID format.", "learner_id", model.ErrInvalidInput))
		return
	}

	scope, ok := period.ParseScope(r.URL.Query().Get("scope"))
	if !ok {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_SCOPE", "Unknown scope.", "scope", model.ErrInvalidInput))
		return
	}
	params, err := parsePeriodParams(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	report, err := h.service.GetStatistics(r.Context(), callerID, learnerID, scope, params, time.Now())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, report)
}

func (h *StatsHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	learnerID, err := uuid.Parse(chi.URLParam(r, "learner_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID", "Invalid learner ID format.", "learner_id", model.ErrInvalidInput))
		return
	}

	profile, err := h.service.GetProfile(r.Context(), callerID, learnerID, time.Now())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile)
}

func parsePeriodParams(r *http.Request) (period.Params, error) {
	var p period.Params
	q := r.URL.Query()
	for key, dst := range map[string]*int{
		"year":        &p.Year,
		"month":       &p.Month,
		"week_offset": &p.WeekOffset,
	} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return period.Params{}, model.NewAppError("INVALID_PARAM", "Query parameter "+key+" must be an integer.", key, model.ErrInvalidInput)
		}
		*dst = n
	}
	return p, nil
}
