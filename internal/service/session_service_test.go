package service

import (
	"context"
	"testing"
	"time"

	"hifz_tracker/internal/model"
	"hifz_tracker/internal/period"
	"hifz_tracker/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBSession(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func Test_sessionService_ResolveWeekSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBSession(t)

	groupID := uuid.New()
	createdBy := uuid.New()

	// Tuesday and Thursday of the same week share the Sunday anchor.
	tuesday := time.Date(2025, 6, 17, 19, 0, 0, 0, time.UTC)
	thursday := time.Date(2025, 6, 19, 19, 0, 0, 0, time.UTC)
	weekStart := period.WeekStart(tuesday)
	require.Equal(t, weekStart, period.WeekStart(thursday))

	existing := &model.GroupSession{
		SessionID: uuid.New(),
		GroupID:   groupID,
		Date:      tuesday,
		WeekStart: weekStart,
	}

	t.Run("reuses the existing week session", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		svc := NewSessionService(db, sessionRepo, new(mocks.AttendanceRepository), nil)

		sessionRepo.On("FindByGroupWeek", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, weekStart).
			Return(existing, nil).Once()

		got, err := svc.ResolveWeekSession(ctx, groupID, createdBy, thursday)
		require.NoError(t, err)
		assert.Equal(t, existing.SessionID, got.SessionID)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("creates the session when the week has none", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		svc := NewSessionService(db, sessionRepo, new(mocks.AttendanceRepository), nil)

		sessionRepo.On("FindByGroupWeek", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, weekStart).
			Return(nil, model.ErrNotFound).Once()
		sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.MatchedBy(func(s *model.GroupSession) bool {
			return s.GroupID == groupID && s.WeekStart.Equal(weekStart) &&
				s.ISOWeek == period.ISOWeek(tuesday) && s.CreatedBy == createdBy
		})).Return(nil).Once()

		got, err := svc.ResolveWeekSession(ctx, groupID, createdBy, tuesday)
		require.NoError(t, err)
		assert.Equal(t, weekStart, got.WeekStart)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("lost race re-reads the winner's row", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		svc := NewSessionService(db, sessionRepo, new(mocks.AttendanceRepository), nil)

		winner := &model.GroupSession{SessionID: uuid.New(), GroupID: groupID, WeekStart: weekStart}

		sessionRepo.On("FindByGroupWeek", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, weekStart).
			Return(nil, model.ErrNotFound).Once()
		sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.GroupSession")).
			Return(model.ErrConflict).Once()
		sessionRepo.On("FindByGroupWeek", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, weekStart).
			Return(winner, nil).Once()

		got, err := svc.ResolveWeekSession(ctx, groupID, createdBy, thursday)
		require.NoError(t, err)
		assert.Equal(t, winner.SessionID, got.SessionID)
		sessionRepo.AssertExpectations(t)
	})
}

func Test_sessionService_SessionByNumber(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBSession(t)

	groupID := uuid.New()
	createdBy := uuid.New()
	now := time.Date(2025, 6, 17, 19, 0, 0, 0, time.UTC)

	s1 := &model.GroupSession{SessionID: uuid.New(), GroupID: groupID, Date: now.AddDate(0, 0, -14)}
	s2 := &model.GroupSession{SessionID: uuid.New(), GroupID: groupID, Date: now.AddDate(0, 0, -7)}
	all := []*model.GroupSession{s1, s2}

	t.Run("in-range number resolves chronologically", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		svc := NewSessionService(db, sessionRepo, new(mocks.AttendanceRepository), nil)

		sessionRepo.On("ListByGroup", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID).
			Return(all, nil).Once()

		got, err := svc.SessionByNumber(ctx, groupID, createdBy, 2, now)
		require.NoError(t, err)
		assert.Equal(t, s2.SessionID, got.SessionID)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("out-of-range number falls back to this week's session", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		svc := NewSessionService(db, sessionRepo, new(mocks.AttendanceRepository), nil)

		thisWeek := &model.GroupSession{SessionID: uuid.New(), GroupID: groupID, WeekStart: period.WeekStart(now)}

		sessionRepo.On("ListByGroup", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID).
			Return(all, nil).Once()
		sessionRepo.On("FindByGroupWeek", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, period.WeekStart(now)).
			Return(thisWeek, nil).Once()

		got, err := svc.SessionByNumber(ctx, groupID, createdBy, 99, now)
		require.NoError(t, err)
		assert.Equal(t, thisWeek.SessionID, got.SessionID)
		sessionRepo.AssertExpectations(t)
	})
}

func Test_sessionService_UpsertAttendance(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBSession(t)

	groupID := uuid.New()
	supervisorID := uuid.New()
	learnerID := uuid.New()
	now := time.Date(2025, 6, 17, 19, 0, 0, 0, time.UTC)
	weekStart := period.WeekStart(now)

	session := &model.GroupSession{SessionID: uuid.New(), GroupID: groupID, WeekStart: weekStart}

	supervisorMember := &model.GroupMember{GroupID: groupID, UserID: supervisorID, Role: model.RoleSupervisor}
	learnerMember := &model.GroupMember{GroupID: groupID, UserID: learnerID, Role: model.RoleMember}

	tests := []struct {
		name       string
		setupMocks func(groupRepo *mocks.GroupRepository, sessionRepo *mocks.SessionRepository, attendanceRepo *mocks.AttendanceRepository)
		wantErr    error
	}{
		{
			name: "member callers may not mark attendance",
			setupMocks: func(groupRepo *mocks.GroupRepository, sessionRepo *mocks.SessionRepository, attendanceRepo *mocks.AttendanceRepository) {
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, supervisorID).
					Return(&model.GroupMember{GroupID: groupID, UserID: supervisorID, Role: model.RoleMember}, nil).Once()
			},
			wantErr: model.ErrForbidden,
		},
		{
			name: "first mark creates the record",
			setupMocks: func(groupRepo *mocks.GroupRepository, sessionRepo *mocks.SessionRepository, attendanceRepo *mocks.AttendanceRepository) {
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, supervisorID).
					Return(supervisorMember, nil).Once()
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, learnerID).
					Return(learnerMember, nil).Once()
				sessionRepo.On("FindByGroupWeek", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, weekStart).
					Return(session, nil).Once()
				attendanceRepo.On("FindBySessionUser", mock.Anything, mock.AnythingOfType("*gorm.DB"), session.SessionID, learnerID).
					Return(nil, model.ErrNotFound).Once()
				attendanceRepo.On("Create", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.MatchedBy(func(r *model.AttendanceRecord) bool {
					return r.SessionID == session.SessionID && r.UserID == learnerID && r.Present
				})).Return(nil).Once()
			},
		},
		{
			name: "second mark updates in place",
			setupMocks: func(groupRepo *mocks.GroupRepository, sessionRepo *mocks.SessionRepository, attendanceRepo *mocks.AttendanceRepository) {
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, supervisorID).
					Return(supervisorMember, nil).Once()
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, learnerID).
					Return(learnerMember, nil).Once()
				sessionRepo.On("FindByGroupWeek", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, weekStart).
					Return(session, nil).Once()
				attendanceRepo.On("FindBySessionUser", mock.Anything, mock.AnythingOfType("*gorm.DB"), session.SessionID, learnerID).
					Return(&model.AttendanceRecord{AttendanceID: uuid.New(), SessionID: session.SessionID, UserID: learnerID, Present: false}, nil).Once()
				attendanceRepo.On("Update", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.MatchedBy(func(r *model.AttendanceRecord) bool {
					return r.Present
				})).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groupRepo := new(mocks.GroupRepository)
			sessionRepo := new(mocks.SessionRepository)
			attendanceRepo := new(mocks.AttendanceRepository)
			access := NewAccessService(db, groupRepo)
			svc := NewSessionService(db, sessionRepo, attendanceRepo, access)

			if tt.setupMocks != nil {
				tt.setupMocks(groupRepo, sessionRepo, attendanceRepo)
			}

			record, err := svc.UpsertAttendance(ctx, supervisorID, groupID, learnerID, model.PutAttendanceRequest{Present: true}, now)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, record)
			} else {
				require.NoError(t, err)
				require.NotNil(t, record)
				assert.True(t, record.Present)
			}
			groupRepo.AssertExpectations(t)
			sessionRepo.AssertExpectations(t)
			attendanceRepo.AssertExpectations(t)
		})
	}
}
