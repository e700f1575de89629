// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"hifz_tracker/internal/model"
	"hifz_tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type GroupRepository struct {
	mock.Mock
}

func (m *GroupRepository) FindGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (*model.Group, error) {
	args := m.Called(ctx, db, groupID)
	if g := args.Get(0); g != nil {
		return g.(*model.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupRepository) FindMember(ctx context.Context, db *gorm.DB, groupID, userID uuid.UUID) (*model.GroupMember, error) {
	args := m.Called(ctx, db, groupID, userID)
	if g := args.Get(0); g != nil {
		return g.(*model.GroupMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupRepository) ListMembers(ctx context.Context, db *gorm.DB, groupID uuid.UUID) ([]*model.GroupMember, error) {
	args := m.Called(ctx, db, groupID)
	if g := args.Get(0); g != nil {
		return g.([]*model.GroupMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupRepository) ListMemberships(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.GroupMember, error) {
	args := m.Called(ctx, db, userID)
	if g := args.Get(0); g != nil {
		return g.([]*model.GroupMember), args.Error(1)
	}
	return nil, args.Error(1)
}

type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) Create(ctx context.Context, tx *gorm.DB, entry *model.ProgressEntry) error {
	return m.Called(ctx, tx, entry).Error(0)
}

func (m *ProgressRepository) Delete(ctx context.Context, tx *gorm.DB, entryID, userID uuid.UUID) error {
	return m.Called(ctx, tx, entryID, userID).Error(0)
}

func (m *ProgressRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, filter repository.ProgressFilter) ([]*model.ProgressEntry, error) {
	args := m.Called(ctx, db, userID, filter)
	if g := args.Get(0); g != nil {
		return g.([]*model.ProgressEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressRepository) FindByUsers(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID, program model.Program) ([]*model.ProgressEntry, error) {
	args := m.Called(ctx, db, userIDs, program)
	if g := args.Get(0); g != nil {
		return g.([]*model.ProgressEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

type MasteryRepository struct {
	mock.Mock
}

func (m *MasteryRepository) FindByUserChapter(ctx context.Context, db *gorm.DB, userID uuid.UUID, chapter int) (*model.MasteryRecord, error) {
	args := m.Called(ctx, db, userID, chapter)
	if g := args.Get(0); g != nil {
		return g.(*model.MasteryRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MasteryRepository) Create(ctx context.Context, tx *gorm.DB, record *model.MasteryRecord) error {
	return m.Called(ctx, tx, record).Error(0)
}

func (m *MasteryRepository) Update(ctx context.Context, tx *gorm.DB, record *model.MasteryRecord) error {
	return m.Called(ctx, tx, record).Error(0)
}

func (m *MasteryRepository) DeleteByUserChapter(ctx context.Context, tx *gorm.DB, userID uuid.UUID, chapter int) error {
	return m.Called(ctx, tx, userID, chapter).Error(0)
}

func (m *MasteryRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.MasteryRecord, error) {
	args := m.Called(ctx, db, userID)
	if g := args.Get(0); g != nil {
		return g.([]*model.MasteryRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MasteryRepository) FindByUsers(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID) ([]*model.MasteryRecord, error) {
	args := m.Called(ctx, db, userIDs)
	if g := args.Get(0); g != nil {
		return g.([]*model.MasteryRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Create(ctx context.Context, tx *gorm.DB, comment *model.RecitationComment) error {
	return m.Called(ctx, tx, comment).Error(0)
}

func (m *CommentRepository) Update(ctx context.Context, tx *gorm.DB, comment *model.RecitationComment) error {
	return m.Called(ctx, tx, comment).Error(0)
}

func (m *CommentRepository) Delete(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) error {
	return m.Called(ctx, tx, commentID).Error(0)
}

func (m *CommentRepository) FindByID(ctx context.Context, db *gorm.DB, commentID uuid.UUID) (*model.RecitationComment, error) {
	args := m.Called(ctx, db, commentID)
	if g := args.Get(0); g != nil {
		return g.(*model.RecitationComment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) FindByUsers(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID) ([]*model.RecitationComment, error) {
	args := m.Called(ctx, db, userIDs)
	if g := args.Get(0); g != nil {
		return g.([]*model.RecitationComment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) FindRecentByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.RecitationComment, error) {
	args := m.Called(ctx, db, userID, limit)
	if g := args.Get(0); g != nil {
		return g.([]*model.RecitationComment), args.Error(1)
	}
	return nil, args.Error(1)
}

type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) FindByID(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) (*model.GroupSession, error) {
	args := m.Called(ctx, db, sessionID)
	if g := args.Get(0); g != nil {
		return g.(*model.GroupSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) FindByGroupWeek(ctx context.Context, db *gorm.DB, groupID uuid.UUID, weekStart time.Time) (*model.GroupSession, error) {
	args := m.Called(ctx, db, groupID, weekStart)
	if g := args.Get(0); g != nil {
		return g.(*model.GroupSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Create(ctx context.Context, tx *gorm.DB, session *model.GroupSession) error {
	return m.Called(ctx, tx, session).Error(0)
}

func (m *SessionRepository) ListByGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) ([]*model.GroupSession, error) {
	args := m.Called(ctx, db, groupID)
	if g := args.Get(0); g != nil {
		return g.([]*model.GroupSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) CountByGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (int64, error) {
	args := m.Called(ctx, db, groupID)
	return args.Get(0).(int64), args.Error(1)
}

type AttendanceRepository struct {
	mock.Mock
}

func (m *AttendanceRepository) FindBySessionUser(ctx context.Context, db *gorm.DB, sessionID, userID uuid.UUID) (*model.AttendanceRecord, error) {
	args := m.Called(ctx, db, sessionID, userID)
	if g := args.Get(0); g != nil {
		return g.(*model.AttendanceRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttendanceRepository) Create(ctx context.Context, tx *gorm.DB, record *model.AttendanceRecord) error {
	return m.Called(ctx, tx, record).Error(0)
}

func (m *AttendanceRepository) Update(ctx context.Context, tx *gorm.DB, record *model.AttendanceRecord) error {
	return m.Called(ctx, tx, record).Error(0)
}

func (m *AttendanceRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.AttendanceRecord, error) {
	args := m.Called(ctx, db, userID)
	if g := args.Get(0); g != nil {
		return g.([]*model.AttendanceRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) FindDaily(ctx context.Context, db *gorm.DB, userID uuid.UUID, program model.Program, date time.Time) (*model.DailyActivityCompletion, error) {
	args := m.Called(ctx, db, userID, program, date)
	if g := args.Get(0); g != nil {
		return g.(*model.DailyActivityCompletion), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) CreateDaily(ctx context.Context, tx *gorm.DB, completion *model.DailyActivityCompletion) error {
	return m.Called(ctx, tx, completion).Error(0)
}

func (m *ActivityRepository) UpdateDaily(ctx context.Context, tx *gorm.DB, completion *model.DailyActivityCompletion) error {
	return m.Called(ctx, tx, completion).Error(0)
}

func (m *ActivityRepository) FindDailyByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.DailyActivityCompletion, error) {
	args := m.Called(ctx, db, userID)
	if g := args.Get(0); g != nil {
		return g.([]*model.DailyActivityCompletion), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) ListObjectives(ctx context.Context, db *gorm.DB, userID uuid.UUID, activeOnly bool) ([]*model.WeeklyObjective, error) {
	args := m.Called(ctx, db, userID, activeOnly)
	if g := args.Get(0); g != nil {
		return g.([]*model.WeeklyObjective), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) FindObjectiveCompletions(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.WeeklyObjectiveCompletion, error) {
	args := m.Called(ctx, db, userID)
	if g := args.Get(0); g != nil {
		return g.([]*model.WeeklyObjectiveCompletion), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) CreateCycle(ctx context.Context, tx *gorm.DB, cycle *model.CompletionCycle) error {
	return m.Called(ctx, tx, cycle).Error(0)
}

func (m *ActivityRepository) ListCycles(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.CompletionCycle, error) {
	args := m.Called(ctx, db, userID)
	if g := args.Get(0); g != nil {
		return g.([]*model.CompletionCycle), args.Error(1)
	}
	return nil, args.Error(1)
}
