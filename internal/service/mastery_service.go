package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"hifz_tracker/internal/coverage"
	"hifz_tracker/internal/middleware"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/period"
	"hifz_tracker/internal/quran"
	"hifz_tracker/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// MasteryService reconciles the two mastery-status sources and owns
// the supervisor write paths (statuses and recitation comments).
type MasteryService interface {
	GetGroupMastery(ctx context.Context, callerID, groupID uuid.UUID) (*model.GroupMasteryResponse, error)
	// SetMastery upserts the record; a nil status deletes it. Returns
	// true when a record was deleted.
	SetMastery(ctx context.Context, callerID, groupID, learnerID uuid.UUID, chapter int, req model.SetMasteryRequest) (bool, error)
	AddComment(ctx context.Context, callerID, groupID uuid.UUID, req model.PostCommentRequest, now time.Time) (*model.RecitationComment, error)
	EditComment(ctx context.Context, callerID, commentID uuid.UUID, req model.PatchCommentRequest, now time.Time) error
	DeleteComment(ctx context.Context, callerID, commentID uuid.UUID) error
}

type masteryService struct {
	db          *gorm.DB
	groupRepo   repository.GroupRepository
	masteryRepo repository.MasteryRepository
	progRepo    repository.ProgressRepository
	commentRepo repository.CommentRepository
	sessionRepo repository.SessionRepository
	sessions    SessionService
	access      AccessService
}

func NewMasteryService(
	db *gorm.DB,
	groupRepo repository.GroupRepository,
	masteryRepo repository.MasteryRepository,
	progRepo repository.ProgressRepository,
	commentRepo repository.CommentRepository,
	sessionRepo repository.SessionRepository,
	sessions SessionService,
	access AccessService,
) MasteryService {
	return &masteryService{
		db:          db,
		groupRepo:   groupRepo,
		masteryRepo: masteryRepo,
		progRepo:    progRepo,
		commentRepo: commentRepo,
		sessionRepo: sessionRepo,
		sessions:    sessions,
		access:      access,
	}
}

// reconcileMastery merges the explicit records and the
// coverage-derived status into one overview. Whole-source precedence:
// when explicit data exists and its mastered-verse total is >= the
// covered-verse total, the explicit source wins, ties included.
// Otherwise coverage wins when present. The two sources are never
// interleaved per chapter.
func reconcileMastery(records []*model.MasteryRecord, cov coverage.Set) model.MasteryOverview {
	versesFromMastery := 0
	validated, inProgress := 0, 0
	for _, r := range records {
		if r.Status.Mastered() {
			versesFromMastery += quran.VerseCount(r.Chapter)
			validated++
		} else if r.Status.InProgress() {
			inProgress++
		}
	}
	versesFromCoverage := cov.TotalVerses()

	overview := model.MasteryOverview{
		Source:   model.SourceNone,
		Chapters: chapterViews(records, cov),
	}

	switch {
	case len(records) > 0 && versesFromMastery >= versesFromCoverage:
		overview.Source = model.SourceExplicit
		overview.VersesMastered = versesFromMastery
		overview.ChaptersValidated = validated
		overview.ChaptersInProgress = inProgress
	case versesFromCoverage > 0:
		st := coverage.Compute(cov)
		overview.Source = model.SourceCoverage
		overview.VersesMastered = versesFromCoverage
		overview.ChaptersValidated = st.ChaptersComplete
		overview.ChaptersInProgress = st.ChaptersInProgress
	}
	return overview
}

// chapterViews is the display projection: explicit records as-is, plus
// a synthetic "validated" row (no validation week) for every chapter
// fully covered by progress entries that has no explicit record. The
// injected rows are recomputed on every read and never persisted.
func chapterViews(records []*model.MasteryRecord, cov coverage.Set) []model.ChapterStatusView {
	views := make([]model.ChapterStatusView, 0, len(records))
	seen := make(map[int]bool, len(records))
	for _, r := range records {
		seen[r.Chapter] = true
		views = append(views, model.ChapterStatusView{
			Chapter:        r.Chapter,
			Status:         r.Status,
			ValidationWeek: r.ValidationWeek,
			ValidatedAt:    r.ValidatedAt,
		})
	}
	for chapter := range cov {
		if !seen[chapter] && cov.Complete(chapter) {
			views = append(views, model.ChapterStatusView{
				Chapter:   chapter,
				Status:    model.StatusValidated,
				Synthetic: true,
			})
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Chapter < views[j].Chapter })
	return views
}

// commentViews annotates comments with their session's chronological
// number and ISO week, ordered by session date (then creation time).
func commentViews(comments []*model.RecitationComment, sessionNumbers map[uuid.UUID]int, descending bool) []model.CommentView {
	views := make([]model.CommentView, 0, len(comments))
	for _, c := range comments {
		view := model.CommentView{
			CommentID:  c.CommentID,
			Chapter:    c.Chapter,
			Text:       c.Text,
			Status:     c.Status,
			VerseStart: c.VerseStart,
			VerseEnd:   c.VerseEnd,
			CreatedAt:  c.CreatedAt,
		}
		if c.Session != nil {
			view.SessionNumber = sessionNumbers[c.SessionID]
			view.ISOWeek = period.ISOWeek(c.Session.Date)
			view.SessionDate = c.Session.Date
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if !a.SessionDate.Equal(b.SessionDate) {
			if descending {
				return a.SessionDate.After(b.SessionDate)
			}
			return a.SessionDate.Before(b.SessionDate)
		}
		if descending {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return views
}

func (s *masteryService) GetGroupMastery(ctx context.Context, callerID, groupID uuid.UUID) (*model.GroupMasteryResponse, error) {
	logger := middleware.GetLogger(ctx).With("group_id", groupID)

	if _, err := s.groupRepo.FindGroup(ctx, s.db, groupID); err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	members, err := s.groupRepo.ListMembers(ctx, s.db, groupID)
	if err != nil {
		logger.Error("Failed to list group members", "error", err)
		return nil, err
	}
	userIDs := make([]uuid.UUID, len(members))
	for i, m := range members {
		userIDs[i] = m.UserID
	}

	// The four reads are independent; issue them concurrently and join
	// in memory.
	var (
		records  []*model.MasteryRecord
		entries  []*model.ProgressEntry
		comments []*model.RecitationComment
		sessions []*model.GroupSession
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.masteryRepo.FindByUsers(gctx, s.db, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.progRepo.FindByUsers(gctx, s.db, userIDs, model.ProgramMemorization)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.commentRepo.FindByUsers(gctx, s.db, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.sessionRepo.ListByGroup(gctx, s.db, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to load group mastery data", "error", err)
		return nil, err
	}

	sessionNumbers := make(map[uuid.UUID]int, len(sessions))
	for i, sess := range sessions {
		sessionNumbers[sess.SessionID] = i + 1
	}

	recordsByUser := make(map[uuid.UUID][]*model.MasteryRecord)
	for _, r := range records {
		recordsByUser[r.UserID] = append(recordsByUser[r.UserID], r)
	}
	entriesByUser := make(map[uuid.UUID][]*model.ProgressEntry)
	for _, e := range entries {
		entriesByUser[e.UserID] = append(entriesByUser[e.UserID], e)
	}
	commentsByUser := make(map[uuid.UUID][]*model.RecitationComment)
	for _, c := range comments {
		commentsByUser[c.UserID] = append(commentsByUser[c.UserID], c)
	}

	roster := make([]model.RosterEntry, 0, len(members))
	for _, m := range members {
		cov := coverage.Build(entriesByUser[m.UserID])
		entry := model.RosterEntry{
			UserID:   m.UserID,
			Role:     m.Role,
			Chapters: chapterViews(recordsByUser[m.UserID], cov),
			Comments: make(map[int][]model.CommentView),
		}
		for _, view := range commentViews(commentsByUser[m.UserID], sessionNumbers, false) {
			entry.Comments[view.Chapter] = append(entry.Comments[view.Chapter], view)
		}
		roster = append(roster, entry)
	}

	return &model.GroupMasteryResponse{
		Roster:            roster,
		TotalSessions:     len(sessions),
		NextSessionNumber: len(sessions) + 1,
	}, nil
}

func (s *masteryService) SetMastery(ctx context.Context, callerID, groupID, learnerID uuid.UUID, chapter int, req model.SetMasteryRequest) (bool, error) {
	logger := middleware.GetLogger(ctx).With("group_id", groupID, "learner_id", learnerID, "chapter", chapter)

	if _, ok := quran.Get(chapter); !ok {
		return false, model.NewAppError("INVALID_CHAPTER", "Chapter number must be between 1 and 114.", "chapter", model.ErrInvalidInput)
	}
	if req.Status != nil && !model.ValidStatuses[*req.Status] {
		return false, model.NewAppError("INVALID_STATUS", "Unknown mastery status.", "status", model.ErrInvalidInput)
	}
	if _, err := s.access.RequireRole(ctx, groupID, callerID, model.RoleSupervisor); err != nil {
		return false, err
	}
	if _, err := s.access.RequireMember(ctx, groupID, learnerID); err != nil {
		return false, err
	}

	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.masteryRepo.FindByUserChapter(ctx, tx, learnerID, chapter)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}

		if req.Status == nil {
			if existing == nil {
				return nil // clearing an absent record is a no-op
			}
			deleted = true
			return s.masteryRepo.DeleteByUserChapter(ctx, tx, learnerID, chapter)
		}

		now := time.Now()
		var validatedAt *time.Time
		if req.Status.Mastered() {
			validatedAt = &now
		}

		if existing != nil {
			existing.Status = *req.Status
			existing.ValidationWeek = req.ValidationWeek
			existing.ValidatedAt = validatedAt
			return s.masteryRepo.Update(ctx, tx, existing)
		}
		return s.masteryRepo.Create(ctx, tx, &model.MasteryRecord{
			RecordID:       uuid.New(),
			UserID:         learnerID,
			Chapter:        chapter,
			Status:         *req.Status,
			ValidationWeek: req.ValidationWeek,
			ValidatedAt:    validatedAt,
		})
	})
	if err != nil {
		logger.Error("Failed to set mastery", "error", err)
		return false, err
	}

	logger.Info("Mastery updated", "deleted", deleted)
	return deleted, nil
}

func (s *masteryService) AddComment(ctx context.Context, callerID, groupID uuid.UUID, req model.PostCommentRequest, now time.Time) (*model.RecitationComment, error) {
	logger := middleware.GetLogger(ctx).With("group_id", groupID, "learner_id", req.LearnerID)

	ch, ok := quran.Get(req.Chapter)
	if !ok {
		return nil, model.NewAppError("INVALID_CHAPTER", "Chapter number must be between 1 and 114.", "chapter", model.ErrInvalidInput)
	}
	if err := validateVerseRange(ch, req.VerseStart, req.VerseEnd); err != nil {
		return nil, err
	}
	if _, err := s.access.RequireRole(ctx, groupID, callerID, model.RoleSupervisor); err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, groupID, req.LearnerID); err != nil {
		return nil, err
	}

	var session *model.GroupSession
	var err error
	if req.SessionNumber != nil {
		session, err = s.sessions.SessionByNumber(ctx, groupID, callerID, *req.SessionNumber, now)
	} else {
		session, err = s.sessions.ResolveWeekSession(ctx, groupID, callerID, now)
	}
	if err != nil {
		return nil, err
	}

	comment := &model.RecitationComment{
		CommentID:  uuid.New(),
		SessionID:  session.SessionID,
		UserID:     req.LearnerID,
		Chapter:    req.Chapter,
		VerseStart: req.VerseStart,
		VerseEnd:   req.VerseEnd,
		Status:     req.Status,
		Text:       req.Text,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.commentRepo.Create(ctx, tx, comment)
	})
	if err != nil {
		logger.Error("Failed to create comment", "error", err)
		return nil, err
	}

	comment.Session = session
	logger.Info("Comment added", "comment_id", comment.CommentID, "session_id", session.SessionID)
	return comment, nil
}

func (s *masteryService) EditComment(ctx context.Context, callerID, commentID uuid.UUID, req model.PatchCommentRequest, now time.Time) error {
	logger := middleware.GetLogger(ctx).With("comment_id", commentID)

	comment, err := s.commentRepo.FindByID(ctx, s.db, commentID)
	if err != nil {
		return err
	}
	if comment.Session == nil {
		return model.ErrInternalServer
	}
	groupID := comment.Session.GroupID
	if _, err := s.access.RequireRole(ctx, groupID, callerID, model.RoleSupervisor); err != nil {
		return err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}
	if req.SessionNumber != nil {
		session, err := s.sessions.SessionByNumber(ctx, groupID, callerID, *req.SessionNumber, now)
		if err != nil {
			return err
		}
		comment.SessionID = session.SessionID
		comment.Session = session
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.commentRepo.Update(ctx, tx, comment)
	})
	if err != nil {
		logger.Error("Failed to update comment", "error", err)
		return err
	}
	return nil
}

func (s *masteryService) DeleteComment(ctx context.Context, callerID, commentID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("comment_id", commentID)

	comment, err := s.commentRepo.FindByID(ctx, s.db, commentID)
	if err != nil {
		return err
	}
	if comment.Session == nil {
		return model.ErrInternalServer
	}
	if _, err := s.access.RequireRole(ctx, comment.Session.GroupID, callerID, model.RoleSupervisor); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.commentRepo.Delete(ctx, tx, commentID)
	})
	if err != nil {
		logger.Error("Failed to delete comment", "error", err)
		return err
	}
	return nil
}

// validateVerseRange checks an optional range against the chapter's
// verse count. Both bounds zero means "no range given".
func validateVerseRange(ch quran.Chapter, start, end int) error {
	if start == 0 && end == 0 {
		return nil
	}
	if start < 1 || end > ch.Verses || start > end {
		return model.NewAppError("INVALID_VERSE_RANGE",
			"Verse range must satisfy 1 <= start <= end <= chapter verse count.",
			"verse_start,verse_end", model.ErrInvalidInput)
	}
	return nil
}
