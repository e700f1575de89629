package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hifz_tracker/internal/handlers"
	"hifz_tracker/internal/model"
	svc_mocks "hifz_tracker/internal/service/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reqBody = strings.NewReader(s)
		} else {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			reqBody = bytes.NewBuffer(data)
		}
	}
	req, err := http.NewRequest(method, target, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func ctxWithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, model.UserIDKey, userID)
}

func ctxWithChiParams(ctx context.Context, params map[string]string) context.Context {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func TestMasteryHandler_GetGroupMastery(t *testing.T) {
	callerID := uuid.New()
	groupID := uuid.New()

	resp := &model.GroupMasteryResponse{
		Roster:            []model.RosterEntry{},
		TotalSessions:     4,
		NextSessionNumber: 5,
	}

	tests := []struct {
		name           string
		setupContext   func() context.Context
		setupMock      func(m *svc_mocks.MasteryService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "returns the roster",
			setupContext: func() context.Context {
				ctx := ctxWithUser(context.Background(), callerID)
				return ctxWithChiParams(ctx, map[string]string{"group_id": groupID.String()})
			},
			setupMock: func(m *svc_mocks.MasteryService) {
				m.On("GetGroupMastery", mock.Anything, callerID, groupID).Return(resp, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"next_session_number":5`,
		},
		{
			name: "missing user context is unauthorized",
			setupContext: func() context.Context {
				return ctxWithChiParams(context.Background(), map[string]string{"group_id": groupID.String()})
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed group id",
			setupContext: func() context.Context {
				ctx := ctxWithUser(context.Background(), callerID)
				return ctxWithChiParams(ctx, map[string]string{"group_id": "not-a-uuid"})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "non-member is forbidden",
			setupContext: func() context.Context {
				ctx := ctxWithUser(context.Background(), callerID)
				return ctxWithChiParams(ctx, map[string]string{"group_id": groupID.String()})
			},
			setupMock: func(m *svc_mocks.MasteryService) {
				m.On("GetGroupMastery", mock.Anything, callerID, groupID).
					Return(nil, model.NewAppError("FORBIDDEN", "You are not a member of this group.", "", model.ErrForbidden)).Once()
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(svc_mocks.MasteryService)
			handler := handlers.NewMasteryHandler(mockService, new(svc_mocks.SessionService))
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			req := newJSONRequest(t, http.MethodGet, "/groups/"+groupID.String()+"/mastery", nil)
			req = req.WithContext(tt.setupContext())
			rr := httptest.NewRecorder()

			handler.GetGroupMastery(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestMasteryHandler_SetMastery(t *testing.T) {
	callerID := uuid.New()
	groupID := uuid.New()
	learnerID := uuid.New()

	params := func(chapter string) map[string]string {
		return map[string]string{
			"group_id":   groupID.String(),
			"learner_id": learnerID.String(),
			"chapter":    chapter,
		}
	}

	tests := []struct {
		name           string
		chapter        string
		body           interface{}
		setupMock      func(m *svc_mocks.MasteryService)
		expectedStatus int
	}{
		{
			name:    "upsert returns the new status",
			chapter: "2",
			body:    map[string]interface{}{"status": "validated"},
			setupMock: func(m *svc_mocks.MasteryService) {
				m.On("SetMastery", mock.Anything, callerID, groupID, learnerID, 2, mock.AnythingOfType("model.SetMasteryRequest")).
					Return(false, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "null status deletes",
			chapter: "2",
			body:    map[string]interface{}{"status": nil},
			setupMock: func(m *svc_mocks.MasteryService) {
				m.On("SetMastery", mock.Anything, callerID, groupID, learnerID, 2, mock.AnythingOfType("model.SetMasteryRequest")).
					Return(true, nil).Once()
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "non-numeric chapter",
			chapter:        "two",
			body:           map[string]interface{}{"status": "validated"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			chapter:        "2",
			body:           `{"status":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(svc_mocks.MasteryService)
			handler := handlers.NewMasteryHandler(mockService, new(svc_mocks.SessionService))
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			req := newJSONRequest(t, http.MethodPut, "/groups/"+groupID.String()+"/mastery", tt.body)
			ctx := ctxWithUser(context.Background(), callerID)
			req = req.WithContext(ctxWithChiParams(ctx, params(tt.chapter)))
			rr := httptest.NewRecorder()

			handler.SetMastery(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			mockService.AssertExpectations(t)
		})
	}
}
