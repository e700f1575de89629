package repository

import (
	"context"
	"errors"
	"time"

	"hifz_tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository covers daily completions, weekly objectives and
// completion cycles.
type ActivityRepository interface {
	FindDaily(ctx context.Context, db *gorm.DB, userID uuid.UUID, program model.Program, date time.Time) (*model.DailyActivityCompletion, error)
	CreateDaily(ctx context.Context, tx *gorm.DB, completion *model.DailyActivityCompletion) error
	UpdateDaily(ctx context.Context, tx *gorm.DB, completion *model.DailyActivityCompletion) error
	FindDailyByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.DailyActivityCompletion, error)

	ListObjectives(ctx context.Context, db *gorm.DB, userID uuid.UUID, activeOnly bool) ([]*model.WeeklyObjective, error)
	FindObjectiveCompletions(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.WeeklyObjectiveCompletion, error)

	CreateCycle(ctx context.Context, tx *gorm.DB, cycle *model.CompletionCycle) error
	ListCycles(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.CompletionCycle, error)
}

type gormActivityRepository struct{}

func NewGormActivityRepository() ActivityRepository {
	return &gormActivityRepository{}
}

func (r *gormActivityRepository) FindDaily(ctx context.Context, db *gorm.DB, userID uuid.UUID, program model.Program, date time.Time) (*model.DailyActivityCompletion, error) {
	var completion model.DailyActivityCompletion
	result := db.WithContext(ctx).
		Where("user_id = ? AND program = ? AND date = ?", userID, program, date).
		First(&completion)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &completion, nil
}

func (r *gormActivityRepository) CreateDaily(ctx context.Context, tx *gorm.DB, completion *model.DailyActivityCompletion) error {
	return tx.WithContext(ctx).Create(completion).Error
}

func (r *gormActivityRepository) UpdateDaily(ctx context.Context, tx *gorm.DB, completion *model.DailyActivityCompletion) error {
	return tx.WithContext(ctx).Save(completion).Error
}

func (r *gormActivityRepository) FindDailyByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.DailyActivityCompletion, error) {
	var completions []*model.DailyActivityCompletion
	result := db.WithContext(ctx).Where("user_id = ?", userID).Find(&completions)
	if result.Error != nil {
		return nil, result.Error
	}
	return completions, nil
}

func (r *gormActivityRepository) ListObjectives(ctx context.Context, db *gorm.DB, userID uuid.UUID, activeOnly bool) ([]*model.WeeklyObjective, error) {
	query := db.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var objectives []*model.WeeklyObjective
	result := query.Find(&objectives)
	if result.Error != nil {
		return nil, result.Error
	}
	return objectives, nil
}

func (r *gormActivityRepository) FindObjectiveCompletions(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.WeeklyObjectiveCompletion, error) {
	var completions []*model.WeeklyObjectiveCompletion
	result := db.WithContext(ctx).Where("user_id = ?", userID).Find(&completions)
	if result.Error != nil {
		return nil, result.Error
	}
	return completions, nil
}

func (r *gormActivityRepository) CreateCycle(ctx context.Context, tx *gorm.DB, cycle *model.CompletionCycle) error {
	return tx.WithContext(ctx).Create(cycle).Error
}

func (r *gormActivityRepository) ListCycles(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.CompletionCycle, error) {
	var cycles []*model.CompletionCycle
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at ASC").
		Find(&cycles)
	if result.Error != nil {
		return nil, result.Error
	}
	return cycles, nil
}
