package service

import (
	"context"
	"errors"
	"time"

	"hifz_tracker/internal/middleware"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/period"
	"hifz_tracker/internal/quran"
	"hifz_tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressService owns the learner write paths that feed the coverage
// and streak engines: verse-range entries, daily activity completions
// and full-pass cycles.
type ProgressService interface {
	CreateEntry(ctx context.Context, userID uuid.UUID, req model.PostProgressRequest, now time.Time) (*model.ProgressEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error
	UpsertDailyActivity(ctx context.Context, userID uuid.UUID, program model.Program, date time.Time, completed bool) error
	CreateCycle(ctx context.Context, userID uuid.UUID, req model.PostCycleRequest, now time.Time) (*model.CompletionCycle, error)
}

type progressService struct {
	db           *gorm.DB
	progRepo     repository.ProgressRepository
	activityRepo repository.ActivityRepository
}

func NewProgressService(db *gorm.DB, progRepo repository.ProgressRepository, activityRepo repository.ActivityRepository) ProgressService {
	return &progressService{db: db, progRepo: progRepo, activityRepo: activityRepo}
}

func (s *progressService) CreateEntry(ctx context.Context, userID uuid.UUID, req model.PostProgressRequest, now time.Time) (*model.ProgressEntry, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	if !model.ValidPrograms[req.Program] {
		return nil, model.NewAppError("INVALID_PROGRAM", "Unknown activity program.", "program", model.ErrInvalidInput)
	}
	ch, ok := quran.Get(req.Chapter)
	if !ok {
		return nil, model.NewAppError("INVALID_CHAPTER", "Chapter number must be between 1 and 114.", "chapter", model.ErrInvalidInput)
	}
	if req.VerseStart < 1 || req.VerseEnd > ch.Verses || req.VerseStart > req.VerseEnd {
		return nil, model.NewAppError("INVALID_VERSE_RANGE",
			"Verse range must satisfy 1 <= start <= end <= chapter verse count.",
			"verse_start,verse_end", model.ErrInvalidInput)
	}

	entryDate := period.Midnight(now)
	if req.EntryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EntryDate)
		if err != nil {
			return nil, model.NewAppError("INVALID_DATE", "Entry date must be YYYY-MM-DD.", "entry_date", model.ErrInvalidInput)
		}
		entryDate = parsed
	}

	entry := &model.ProgressEntry{
		EntryID:    uuid.New(),
		UserID:     userID,
		Program:    req.Program,
		EntryDate:  entryDate,
		Chapter:    req.Chapter,
		VerseStart: req.VerseStart,
		VerseEnd:   req.VerseEnd,
		Reps:       req.Reps,
		Note:       req.Note,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.progRepo.Create(ctx, tx, entry)
	})
	if err != nil {
		logger.Error("Failed to create progress entry", "error", err)
		return nil, err
	}

	logger.Info("Progress entry created", "entry_id", entry.EntryID, "chapter", entry.Chapter)
	return entry, nil
}

func (s *progressService) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "entry_id", entryID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.progRepo.Delete(ctx, tx, entryID, userID)
	})
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to delete progress entry", "error", err)
		}
		return err
	}
	return nil
}

func (s *progressService) UpsertDailyActivity(ctx context.Context, userID uuid.UUID, program model.Program, date time.Time, completed bool) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "program", program)

	if !model.ValidPrograms[program] {
		return model.NewAppError("INVALID_PROGRAM", "Unknown activity program.", "program", model.ErrInvalidInput)
	}
	day := period.Midnight(date)

	// Keyed by (user, program, date): safe to retry, last writer wins.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.activityRepo.FindDaily(ctx, tx, userID, program, day)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		if existing != nil {
			existing.Completed = completed
			return s.activityRepo.UpdateDaily(ctx, tx, existing)
		}
		return s.activityRepo.CreateDaily(ctx, tx, &model.DailyActivityCompletion{
			CompletionID: uuid.New(),
			UserID:       userID,
			Program:      program,
			Date:         day,
			Completed:    completed,
		})
	})
	if err != nil {
		logger.Error("Failed to upsert daily activity", "error", err)
		return err
	}
	return nil
}

func (s *progressService) CreateCycle(ctx context.Context, userID uuid.UUID, req model.PostCycleRequest, now time.Time) (*model.CompletionCycle, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	cycle := &model.CompletionCycle{
		CycleID:     uuid.New(),
		UserID:      userID,
		Type:        req.Type,
		CompletedAt: now,
		Days:        req.Days,
		Units:       req.Units,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.activityRepo.CreateCycle(ctx, tx, cycle)
	})
	if err != nil {
		logger.Error("Failed to record completion cycle", "error", err)
		return nil, err
	}

	logger.Info("Completion cycle recorded", "type", cycle.Type, "days", cycle.Days)
	return cycle, nil
}
