package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hifz_tracker/internal/handlers"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/period"
	svc_mocks "hifz_tracker/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatsHandler_GetStatistics_ScopeParsing(t *testing.T) {
	callerID := uuid.New()
	learnerID := uuid.New()

	tests := []struct {
		name           string
		query          string
		expectedScope  period.Scope
		expectCall     bool
		expectedStatus int
	}{
		{
			name:           "missing scope defaults to all-time",
			query:          "",
			expectedScope:  period.ScopeAll,
			expectCall:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "all-time spelled out",
			query:          "?scope=all-time",
			expectedScope:  period.ScopeAll,
			expectCall:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "week scope passes through",
			query:          "?scope=week",
			expectedScope:  period.ScopeWeek,
			expectCall:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown scope rejected",
			query:          "?scope=decade",
			expectCall:     false,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(svc_mocks.StatsService)
			if tt.expectCall {
				mockSvc.On("GetStatistics", mock.Anything, callerID, learnerID, tt.expectedScope, period.Params{}, mock.Anything).
					Return(&model.StatisticsReport{Scope: string(tt.expectedScope)}, nil).Once()
			}
			h := handlers.NewStatsHandler(mockSvc)

			req := newJSONRequest(t, http.MethodGet, "/learners/"+learnerID.String()+"/statistics"+tt.query, nil)
			ctx := ctxWithUser(context.Background(), callerID)
			ctx = ctxWithChiParams(ctx, map[string]string{"learner_id": learnerID.String()})
			rr := httptest.NewRecorder()

			h.GetStatistics(rr, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}
