// Package mocks provides testify mocks for the service interfaces.
package mocks

import (
	"context"
	"time"

	"hifz_tracker/internal/model"
	"hifz_tracker/internal/period"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MasteryService struct {
	mock.Mock
}

func (m *MasteryService) GetGroupMastery(ctx context.Context, callerID, groupID uuid.UUID) (*model.GroupMasteryResponse, error) {
	args := m.Called(ctx, callerID, groupID)
	if g := args.Get(0); g != nil {
		return g.(*model.GroupMasteryResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MasteryService) SetMastery(ctx context.Context, callerID, groupID, learnerID uuid.UUID, chapter int, req model.SetMasteryRequest) (bool, error) {
	args := m.Called(ctx, callerID, groupID, learnerID, chapter, req)
	return args.Bool(0), args.Error(1)
}

func (m *MasteryService) AddComment(ctx context.Context, callerID, groupID uuid.UUID, req model.PostCommentRequest, now time.Time) (*model.RecitationComment, error) {
	args := m.Called(ctx, callerID, groupID, req, now)
	if g := args.Get(0); g != nil {
		return g.(*model.RecitationComment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MasteryService) EditComment(ctx context.Context, callerID, commentID uuid.UUID, req model.PatchCommentRequest, now time.Time) error {
	return m.Called(ctx, callerID, commentID, req, now).Error(0)
}

func (m *MasteryService) DeleteComment(ctx context.Context, callerID, commentID uuid.UUID) error {
	return m.Called(ctx, callerID, commentID).Error(0)
}

type SessionService struct {
	mock.Mock
}

func (m *SessionService) ResolveWeekSession(ctx context.Context, groupID, createdBy uuid.UUID, now time.Time) (*model.GroupSession, error) {
	args := m.Called(ctx, groupID, createdBy, now)
	if g := args.Get(0); g != nil {
		return g.(*model.GroupSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionService) SessionByNumber(ctx context.Context, groupID, createdBy uuid.UUID, number int, now time.Time) (*model.GroupSession, error) {
	args := m.Called(ctx, groupID, createdBy, number, now)
	if g := args.Get(0); g != nil {
		return g.(*model.GroupSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionService) UpsertAttendance(ctx context.Context, callerID, groupID, learnerID uuid.UUID, req model.PutAttendanceRequest, now time.Time) (*model.AttendanceRecord, error) {
	args := m.Called(ctx, callerID, groupID, learnerID, req, now)
	if g := args.Get(0); g != nil {
		return g.(*model.AttendanceRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type ProgressService struct {
	mock.Mock
}

func (m *ProgressService) CreateEntry(ctx context.Context, userID uuid.UUID, req model.PostProgressRequest, now time.Time) (*model.ProgressEntry, error) {
	args := m.Called(ctx, userID, req, now)
	if g := args.Get(0); g != nil {
		return g.(*model.ProgressEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressService) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	return m.Called(ctx, userID, entryID).Error(0)
}

func (m *ProgressService) UpsertDailyActivity(ctx context.Context, userID uuid.UUID, program model.Program, date time.Time, completed bool) error {
	return m.Called(ctx, userID, program, date, completed).Error(0)
}

func (m *ProgressService) CreateCycle(ctx context.Context, userID uuid.UUID, req model.PostCycleRequest, now time.Time) (*model.CompletionCycle, error) {
	args := m.Called(ctx, userID, req, now)
	if g := args.Get(0); g != nil {
		return g.(*model.CompletionCycle), args.Error(1)
	}
	return nil, args.Error(1)
}

type StatsService struct {
	mock.Mock
}

func (m *StatsService) GetStatistics(ctx context.Context, callerID, learnerID uuid.UUID, scope period.Scope, params period.Params, now time.Time) (*model.StatisticsReport, error) {
	args := m.Called(ctx, callerID, learnerID, scope, params, now)
	if g := args.Get(0); g != nil {
		return g.(*model.StatisticsReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StatsService) GetProfile(ctx context.Context, callerID, learnerID uuid.UUID, now time.Time) (*model.ProfileResponse, error) {
	args := m.Called(ctx, callerID, learnerID, now)
	if g := args.Get(0); g != nil {
		return g.(*model.ProfileResponse), args.Error(1)
	}
	return nil, args.Error(1)
}
