package repository

import (
	"context"
	"errors"

	"hifz_tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MasteryRepository interface {
	FindByUserChapter(ctx context.Context, db *gorm.DB, userID uuid.UUID, chapter int) (*model.MasteryRecord, error)
	Create(ctx context.Context, tx *gorm.DB, record *model.MasteryRecord) error
	Update(ctx context.Context, tx *gorm.DB, record *model.MasteryRecord) error
	DeleteByUserChapter(ctx context.Context, tx *gorm.DB, userID uuid.UUID, chapter int) error
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.MasteryRecord, error)
	FindByUsers(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID) ([]*model.MasteryRecord, error)
}

type gormMasteryRepository struct{}

func NewGormMasteryRepository() MasteryRepository {
	return &gormMasteryRepository{}
}

func (r *gormMasteryRepository) FindByUserChapter(ctx context.Context, db *gorm.DB, userID uuid.UUID, chapter int) (*model.MasteryRecord, error) {
	var record model.MasteryRecord
	result := db.WithContext(ctx).Where("user_id = ? AND chapter = ?", userID, chapter).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &record, nil
}

func (r *gormMasteryRepository) Create(ctx context.Context, tx *gorm.DB, record *model.MasteryRecord) error {
	return tx.WithContext(ctx).Create(record).Error
}

func (r *gormMasteryRepository) Update(ctx context.Context, tx *gorm.DB, record *model.MasteryRecord) error {
	return tx.WithContext(ctx).Save(record).Error
}

func (r *gormMasteryRepository) DeleteByUserChapter(ctx context.Context, tx *gorm.DB, userID uuid.UUID, chapter int) error {
	result := tx.WithContext(ctx).
		Where("user_id = ? AND chapter = ?", userID, chapter).
		Delete(&model.MasteryRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormMasteryRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.MasteryRecord, error) {
	var records []*model.MasteryRecord
	result := db.WithContext(ctx).Where("user_id = ?", userID).Order("chapter ASC").Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

func (r *gormMasteryRepository) FindByUsers(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID) ([]*model.MasteryRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var records []*model.MasteryRecord
	result := db.WithContext(ctx).Where("user_id IN ?", userIDs).Order("chapter ASC").Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}
