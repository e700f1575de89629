package service

import (
	"context"
	"errors"
	"time"

	"hifz_tracker/internal/middleware"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/period"
	"hifz_tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService owns the one-session-per-calendar-week invariant. All
// session-scoped writes that are not given an explicit target session
// route through ResolveWeekSession.
type SessionService interface {
	// ResolveWeekSession returns the group's session for the week
	// containing now, creating it when absent. Concurrent creation is
	// resolved by re-reading the row the winner created.
	ResolveWeekSession(ctx context.Context, groupID, createdBy uuid.UUID, now time.Time) (*model.GroupSession, error)
	// SessionByNumber returns the 1-based chronological session. An
	// out-of-range number means "use this week's session", not an
	// error.
	SessionByNumber(ctx context.Context, groupID, createdBy uuid.UUID, number int, now time.Time) (*model.GroupSession, error)
	UpsertAttendance(ctx context.Context, callerID, groupID, learnerID uuid.UUID, req model.PutAttendanceRequest, now time.Time) (*model.AttendanceRecord, error)
}

type sessionService struct {
	db             *gorm.DB
	sessionRepo    repository.SessionRepository
	attendanceRepo repository.AttendanceRepository
	access         AccessService
}

func NewSessionService(db *gorm.DB, sessionRepo repository.SessionRepository, attendanceRepo repository.AttendanceRepository, access AccessService) SessionService {
	return &sessionService{
		db:             db,
		sessionRepo:    sessionRepo,
		attendanceRepo: attendanceRepo,
		access:         access,
	}
}

func (s *sessionService) ResolveWeekSession(ctx context.Context, groupID, createdBy uuid.UUID, now time.Time) (*model.GroupSession, error) {
	logger := middleware.GetLogger(ctx).With("group_id", groupID)
	weekStart := period.WeekStart(now)

	existing, err := s.sessionRepo.FindByGroupWeek(ctx, s.db, groupID, weekStart)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		logger.Error("Failed to look up week session", "error", err)
		return nil, err
	}

	session := &model.GroupSession{
		SessionID: uuid.New(),
		GroupID:   groupID,
		Date:      now,
		WeekStart: weekStart,
		ISOWeek:   period.ISOWeek(now),
		CreatedBy: createdBy,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.sessionRepo.Create(ctx, tx, session)
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			// A concurrent request created this week's session between
			// our read and write. The invariant held; use that row.
			logger.Info("Week session created concurrently, re-reading", "week_start", weekStart)
			return s.sessionRepo.FindByGroupWeek(ctx, s.db, groupID, weekStart)
		}
		logger.Error("Failed to create week session", "error", err)
		return nil, err
	}

	logger.Info("Created week session", "session_id", session.SessionID, "week_start", weekStart)
	return session, nil
}

func (s *sessionService) SessionByNumber(ctx context.Context, groupID, createdBy uuid.UUID, number int, now time.Time) (*model.GroupSession, error) {
	sessions, err := s.sessionRepo.ListByGroup(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	if number >= 1 && number <= len(sessions) {
		return sessions[number-1], nil
	}
	return s.ResolveWeekSession(ctx, groupID, createdBy, now)
}

func (s *sessionService) UpsertAttendance(ctx context.Context, callerID, groupID, learnerID uuid.UUID, req model.PutAttendanceRequest, now time.Time) (*model.AttendanceRecord, error) {
	logger := middleware.GetLogger(ctx).With("group_id", groupID, "learner_id", learnerID)

	if _, err := s.access.RequireRole(ctx, groupID, callerID, model.RoleSupervisor); err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, groupID, learnerID); err != nil {
		return nil, err
	}

	session, err := s.ResolveWeekSession(ctx, groupID, callerID, now)
	if err != nil {
		return nil, err
	}

	var record *model.AttendanceRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.attendanceRepo.FindBySessionUser(ctx, tx, session.SessionID, learnerID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		if existing != nil {
			existing.Present = req.Present
			existing.Excused = req.Excused
			existing.Note = req.Note
			record = existing
			return s.attendanceRepo.Update(ctx, tx, existing)
		}
		record = &model.AttendanceRecord{
			AttendanceID: uuid.New(),
			SessionID:    session.SessionID,
			UserID:       learnerID,
			Present:      req.Present,
			Excused:      req.Excused,
			Note:         req.Note,
		}
		return s.attendanceRepo.Create(ctx, tx, record)
	})
	if err != nil {
		logger.Error("Failed to upsert attendance", "error", err)
		return nil, err
	}

	logger.Info("Attendance recorded", "session_id", session.SessionID, "present", req.Present)
	return record, nil
}
