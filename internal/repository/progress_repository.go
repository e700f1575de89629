package repository

import (
	"context"
	"time"

	"hifz_tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressFilter narrows a progress-entry query. Nil fields are not
// applied.
type ProgressFilter struct {
	Program *model.Program
	From    *time.Time // inclusive
	To      *time.Time // exclusive
}

type ProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *model.ProgressEntry) error
	Delete(ctx context.Context, tx *gorm.DB, entryID, userID uuid.UUID) error
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, filter ProgressFilter) ([]*model.ProgressEntry, error)
	FindByUsers(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID, program model.Program) ([]*model.ProgressEntry, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Create(ctx context.Context, tx *gorm.DB, entry *model.ProgressEntry) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *gormProgressRepository) Delete(ctx context.Context, tx *gorm.DB, entryID, userID uuid.UUID) error {
	result := tx.WithContext(ctx).
		Where("entry_id = ? AND user_id = ?", entryID, userID).
		Delete(&model.ProgressEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormProgressRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, filter ProgressFilter) ([]*model.ProgressEntry, error) {
	query := db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Program != nil {
		query = query.Where("program = ?", *filter.Program)
	}
	if filter.From != nil {
		query = query.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("entry_date < ?", *filter.To)
	}

	var entries []*model.ProgressEntry
	result := query.Order("entry_date ASC").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

func (r *gormProgressRepository) FindByUsers(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID, program model.Program) ([]*model.ProgressEntry, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var entries []*model.ProgressEntry
	result := db.WithContext(ctx).
		Where("user_id IN ? AND program = ?", userIDs, program).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}
