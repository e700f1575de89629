package service

import (
	"context"
	"testing"
	"time"

	"hifz_tracker/internal/coverage"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/quran"
	"hifz_tracker/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBMastery(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func covFromRanges(ranges ...[3]int) coverage.Set {
	s := make(coverage.Set)
	for _, r := range ranges {
		s.Add(r[0], r[1], r[2])
	}
	return s
}

func Test_reconcileMastery(t *testing.T) {
	// Verse counts used below: chapter 1 has 7, chapter 2 has 286,
	// chapter 112 has 4, chapter 114 has 6.
	tests := []struct {
		name           string
		records        []*model.MasteryRecord
		cov            coverage.Set
		wantSource     model.MasterySource
		wantVerses     int
		wantValidated  int
		wantInProgress int
	}{
		{
			name:       "no data at all",
			wantSource: model.SourceNone,
		},
		{
			name: "explicit only",
			records: []*model.MasteryRecord{
				{Chapter: 1, Status: model.StatusValidated},
				{Chapter: 2, Status: model.StatusHalf},
			},
			cov:            covFromRanges(),
			wantSource:     model.SourceExplicit,
			wantVerses:     7,
			wantValidated:  1,
			wantInProgress: 1,
		},
		{
			name:           "coverage only",
			cov:            covFromRanges([3]int{114, 1, 6}, [3]int{1, 1, 3}),
			wantSource:     model.SourceCoverage,
			wantVerses:     9,
			wantValidated:  1,
			wantInProgress: 1,
		},
		{
			name: "larger coverage beats explicit",
			records: []*model.MasteryRecord{
				{Chapter: 1, Status: model.StatusValidated},
			},
			cov:           covFromRanges([3]int{2, 1, 100}),
			wantSource:    model.SourceCoverage,
			wantVerses:    100,
			wantValidated: 0,
			// 100 of 286 verses covered
			wantInProgress: 1,
		},
		{
			name: "tie goes to explicit",
			records: []*model.MasteryRecord{
				{Chapter: 114, Status: model.StatusValidated},
			},
			cov:           covFromRanges([3]int{114, 1, 6}),
			wantSource:    model.SourceExplicit,
			wantVerses:    6,
			wantValidated: 1,
		},
		{
			name: "explicit with no mastered verses loses to coverage",
			records: []*model.MasteryRecord{
				{Chapter: 1, Status: model.StatusQuarter},
			},
			cov:            covFromRanges([3]int{1, 1, 5}),
			wantSource:     model.SourceCoverage,
			wantVerses:     5,
			wantInProgress: 1,
		},
		{
			name: "explicit with no mastered verses and no coverage still wins",
			records: []*model.MasteryRecord{
				{Chapter: 1, Status: model.StatusQuarter},
			},
			cov:            covFromRanges(),
			wantSource:     model.SourceExplicit,
			wantVerses:     0,
			wantInProgress: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcileMastery(tt.records, tt.cov)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.wantVerses, got.VersesMastered)
			assert.Equal(t, tt.wantValidated, got.ChaptersValidated)
			assert.Equal(t, tt.wantInProgress, got.ChaptersInProgress)
		})
	}
}

func Test_chapterViews(t *testing.T) {
	week := 12
	records := []*model.MasteryRecord{
		{Chapter: 113, Status: model.StatusHalf},
		{Chapter: 1, Status: model.StatusValidated, ValidationWeek: &week},
	}
	// Chapter 112 fully covered with no record: synthetic row expected.
	// Chapter 113 fully covered but has an explicit record: no synthetic
	// duplicate. Chapter 2 partially covered: no row at all.
	cov := covFromRanges(
		[3]int{112, 1, 4},
		[3]int{113, 1, 5},
		[3]int{2, 1, 50},
	)

	views := chapterViews(records, cov)

	require.Len(t, views, 3)
	assert.Equal(t, 1, views[0].Chapter)
	assert.Equal(t, model.StatusValidated, views[0].Status)
	assert.False(t, views[0].Synthetic)
	assert.Equal(t, &week, views[0].ValidationWeek)

	assert.Equal(t, 112, views[1].Chapter)
	assert.Equal(t, model.StatusValidated, views[1].Status)
	assert.True(t, views[1].Synthetic)
	assert.Nil(t, views[1].ValidationWeek)

	assert.Equal(t, 113, views[2].Chapter)
	assert.Equal(t, model.StatusHalf, views[2].Status)
	assert.False(t, views[2].Synthetic)
}

func Test_commentViews(t *testing.T) {
	s1 := &model.GroupSession{SessionID: uuid.New(), Date: time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)}
	s2 := &model.GroupSession{SessionID: uuid.New(), Date: time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC)}
	numbers := map[uuid.UUID]int{s1.SessionID: 1, s2.SessionID: 2}

	base := time.Date(2025, 1, 5, 11, 0, 0, 0, time.UTC)
	c1 := &model.RecitationComment{CommentID: uuid.New(), SessionID: s2.SessionID, Session: s2, Chapter: 1, Text: "later session", CreatedAt: base}
	c2 := &model.RecitationComment{CommentID: uuid.New(), SessionID: s1.SessionID, Session: s1, Chapter: 1, Text: "first", CreatedAt: base}
	c3 := &model.RecitationComment{CommentID: uuid.New(), SessionID: s1.SessionID, Session: s1, Chapter: 1, Text: "second", CreatedAt: base.Add(time.Minute)}

	asc := commentViews([]*model.RecitationComment{c1, c2, c3}, numbers, false)
	require.Len(t, asc, 3)
	assert.Equal(t, []string{"first", "second", "later session"}, []string{asc[0].Text, asc[1].Text, asc[2].Text})
	assert.Equal(t, 1, asc[0].SessionNumber)
	assert.Equal(t, 1, asc[0].ISOWeek)
	assert.Equal(t, 2, asc[2].SessionNumber)
	assert.Equal(t, 2, asc[2].ISOWeek)

	desc := commentViews([]*model.RecitationComment{c1, c2, c3}, numbers, true)
	assert.Equal(t, []string{"later session", "second", "first"}, []string{desc[0].Text, desc[1].Text, desc[2].Text})
}

func Test_validateVerseRange(t *testing.T) {
	ch := quranChapter(t, 1) // 7 verses

	assert.NoError(t, validateVerseRange(ch, 0, 0))
	assert.NoError(t, validateVerseRange(ch, 1, 7))
	assert.NoError(t, validateVerseRange(ch, 3, 3))
	assert.ErrorIs(t, validateVerseRange(ch, 0, 5), model.ErrInvalidInput)
	assert.ErrorIs(t, validateVerseRange(ch, 1, 8), model.ErrInvalidInput)
	assert.ErrorIs(t, validateVerseRange(ch, 5, 2), model.ErrInvalidInput)
}

func Test_masteryService_SetMastery(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBMastery(t)

	groupID := uuid.New()
	supervisorID := uuid.New()
	learnerID := uuid.New()

	validated := model.StatusValidated
	unknown := model.MasteryStatus("bogus")

	supervisorMember := &model.GroupMember{GroupID: groupID, UserID: supervisorID, Role: model.RoleSupervisor}
	learnerMember := &model.GroupMember{GroupID: groupID, UserID: learnerID, Role: model.RoleMember}

	tests := []struct {
		name        string
		chapter     int
		req         model.SetMasteryRequest
		setupMocks  func(groupRepo *mocks.GroupRepository, masteryRepo *mocks.MasteryRepository)
		wantErr     error
		wantDeleted bool
	}{
		{
			name:    "chapter out of range",
			chapter: 115,
			req:     model.SetMasteryRequest{Status: &validated},
			wantErr: model.ErrInvalidInput,
		},
		{
			name:    "unknown status",
			chapter: 1,
			req:     model.SetMasteryRequest{Status: &unknown},
			wantErr: model.ErrInvalidInput,
		},
		{
			name:    "caller is not a supervisor",
			chapter: 1,
			req:     model.SetMasteryRequest{Status: &validated},
			setupMocks: func(groupRepo *mocks.GroupRepository, masteryRepo *mocks.MasteryRepository) {
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, supervisorID).
					Return(&model.GroupMember{GroupID: groupID, UserID: supervisorID, Role: model.RoleMember}, nil).Once()
			},
			wantErr: model.ErrForbidden,
		},
		{
			name:    "create new record with validated status",
			chapter: 1,
			req:     model.SetMasteryRequest{Status: &validated},
			setupMocks: func(groupRepo *mocks.GroupRepository, masteryRepo *mocks.MasteryRepository) {
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, supervisorID).
					Return(supervisorMember, nil).Once()
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, learnerID).
					Return(learnerMember, nil).Once()
				masteryRepo.On("FindByUserChapter", mock.Anything, mock.AnythingOfType("*gorm.DB"), learnerID, 1).
					Return(nil, model.ErrNotFound).Once()
				masteryRepo.On("Create", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.MatchedBy(func(r *model.MasteryRecord) bool {
					return r.UserID == learnerID && r.Chapter == 1 &&
						r.Status == model.StatusValidated && r.ValidatedAt != nil
				})).Return(nil).Once()
			},
		},
		{
			name:    "update existing record",
			chapter: 2,
			req:     model.SetMasteryRequest{Status: &validated},
			setupMocks: func(groupRepo *mocks.GroupRepository, masteryRepo *mocks.MasteryRepository) {
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, supervisorID).
					Return(supervisorMember, nil).Once()
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, learnerID).
					Return(learnerMember, nil).Once()
				masteryRepo.On("FindByUserChapter", mock.Anything, mock.AnythingOfType("*gorm.DB"), learnerID, 2).
					Return(&model.MasteryRecord{RecordID: uuid.New(), UserID: learnerID, Chapter: 2, Status: model.StatusHalf}, nil).Once()
				masteryRepo.On("Update", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.MatchedBy(func(r *model.MasteryRecord) bool {
					return r.Status == model.StatusValidated && r.ValidatedAt != nil
				})).Return(nil).Once()
			},
		},
		{
			name:    "nil status deletes the record",
			chapter: 3,
			req:     model.SetMasteryRequest{},
			setupMocks: func(groupRepo *mocks.GroupRepository, masteryRepo *mocks.MasteryRepository) {
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, supervisorID).
					Return(supervisorMember, nil).Once()
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, learnerID).
					Return(learnerMember, nil).Once()
				masteryRepo.On("FindByUserChapter", mock.Anything, mock.AnythingOfType("*gorm.DB"), learnerID, 3).
					Return(&model.MasteryRecord{RecordID: uuid.New(), UserID: learnerID, Chapter: 3, Status: model.StatusHalf}, nil).Once()
				masteryRepo.On("DeleteByUserChapter", mock.Anything, mock.AnythingOfType("*gorm.DB"), learnerID, 3).
					Return(nil).Once()
			},
			wantDeleted: true,
		},
		{
			name:    "clearing an absent record is a no-op",
			chapter: 4,
			req:     model.SetMasteryRequest{},
			setupMocks: func(groupRepo *mocks.GroupRepository, masteryRepo *mocks.MasteryRepository) {
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, supervisorID).
					Return(supervisorMember, nil).Once()
				groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, learnerID).
					Return(learnerMember, nil).Once()
				masteryRepo.On("FindByUserChapter", mock.Anything, mock.AnythingOfType("*gorm.DB"), learnerID, 4).
					Return(nil, model.ErrNotFound).Once()
			},
			wantDeleted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groupRepo := new(mocks.GroupRepository)
			masteryRepo := new(mocks.MasteryRepository)
			access := NewAccessService(db, groupRepo)
			svc := NewMasteryService(db, groupRepo, masteryRepo, new(mocks.ProgressRepository), new(mocks.CommentRepository), new(mocks.SessionRepository), nil, access)

			if tt.setupMocks != nil {
				tt.setupMocks(groupRepo, masteryRepo)
			}

			deleted, err := svc.SetMastery(ctx, supervisorID, groupID, learnerID, tt.chapter, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantDeleted, deleted)
			}
			groupRepo.AssertExpectations(t)
			masteryRepo.AssertExpectations(t)
		})
	}
}

func Test_masteryService_GetGroupMastery(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBMastery(t)

	groupID := uuid.New()
	callerID := uuid.New()
	learnerID := uuid.New()

	groupRepo := new(mocks.GroupRepository)
	masteryRepo := new(mocks.MasteryRepository)
	progRepo := new(mocks.ProgressRepository)
	commentRepo := new(mocks.CommentRepository)
	sessionRepo := new(mocks.SessionRepository)
	access := NewAccessService(db, groupRepo)
	svc := NewMasteryService(db, groupRepo, masteryRepo, progRepo, commentRepo, sessionRepo, nil, access)

	s1 := &model.GroupSession{SessionID: uuid.New(), GroupID: groupID, Date: time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)}
	s2 := &model.GroupSession{SessionID: uuid.New(), GroupID: groupID, Date: time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC)}

	groupRepo.On("FindGroup", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID).
		Return(&model.Group{GroupID: groupID, Name: "halaqa"}, nil).Once()
	groupRepo.On("FindMember", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID, callerID).
		Return(&model.GroupMember{GroupID: groupID, UserID: callerID, Role: model.RoleMember}, nil).Once()
	groupRepo.On("ListMembers", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID).
		Return([]*model.GroupMember{
			{GroupID: groupID, UserID: learnerID, Role: model.RoleMember},
			{GroupID: groupID, UserID: callerID, Role: model.RoleMember},
		}, nil).Once()

	masteryRepo.On("FindByUsers", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.Anything).
		Return([]*model.MasteryRecord{
			{RecordID: uuid.New(), UserID: learnerID, Chapter: 1, Status: model.StatusValidated},
		}, nil).Once()
	progRepo.On("FindByUsers", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.Anything, model.ProgramMemorization).
		Return([]*model.ProgressEntry{
			{EntryID: uuid.New(), UserID: learnerID, Program: model.ProgramMemorization, Chapter: 112, VerseStart: 1, VerseEnd: 4},
		}, nil).Once()
	commentRepo.On("FindByUsers", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.Anything).
		Return([]*model.RecitationComment{
			{CommentID: uuid.New(), SessionID: s1.SessionID, Session: s1, UserID: learnerID, Chapter: 1, Text: "solid"},
		}, nil).Once()
	sessionRepo.On("ListByGroup", mock.Anything, mock.AnythingOfType("*gorm.DB"), groupID).
		Return([]*model.GroupSession{s1, s2}, nil).Once()

	resp, err := svc.GetGroupMastery(ctx, callerID, groupID)
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, 2, resp.TotalSessions)
	assert.Equal(t, 3, resp.NextSessionNumber)
	require.Len(t, resp.Roster, 2)

	learnerRow := resp.Roster[0]
	assert.Equal(t, learnerID, learnerRow.UserID)
	require.Len(t, learnerRow.Chapters, 2)
	assert.Equal(t, 1, learnerRow.Chapters[0].Chapter)
	assert.False(t, learnerRow.Chapters[0].Synthetic)
	assert.Equal(t, 112, learnerRow.Chapters[1].Chapter)
	assert.True(t, learnerRow.Chapters[1].Synthetic)

	require.Len(t, learnerRow.Comments[1], 1)
	assert.Equal(t, 1, learnerRow.Comments[1][0].SessionNumber)
	assert.Equal(t, 1, learnerRow.Comments[1][0].ISOWeek)

	assert.Empty(t, resp.Roster[1].Chapters)

	groupRepo.AssertExpectations(t)
	masteryRepo.AssertExpectations(t)
	progRepo.AssertExpectations(t)
	commentRepo.AssertExpectations(t)
	sessionRepo.AssertExpectations(t)
}

func quranChapter(t *testing.T, n int) quran.Chapter {
	t.Helper()
	ch, ok := quran.Get(n)
	require.True(t, ok)
	return ch
}
