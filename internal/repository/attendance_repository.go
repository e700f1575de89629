package repository

import (
	"context"
	"errors"

	"hifz_tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	FindBySessionUser(ctx context.Context, db *gorm.DB, sessionID, userID uuid.UUID) (*model.AttendanceRecord, error)
	Create(ctx context.Context, tx *gorm.DB, record *model.AttendanceRecord) error
	Update(ctx context.Context, tx *gorm.DB, record *model.AttendanceRecord) error
	// FindByUser preloads each record's session so callers can place
	// attendance in time.
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.AttendanceRecord, error)
}

type gormAttendanceRepository struct{}

func NewGormAttendanceRepository() AttendanceRepository {
	return &gormAttendanceRepository{}
}

func (r *gormAttendanceRepository) FindBySessionUser(ctx context.Context, db *gorm.DB, sessionID, userID uuid.UUID) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	result := db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &record, nil
}

func (r *gormAttendanceRepository) Create(ctx context.Context, tx *gorm.DB, record *model.AttendanceRecord) error {
	return tx.WithContext(ctx).Create(record).Error
}

func (r *gormAttendanceRepository) Update(ctx context.Context, tx *gorm.DB, record *model.AttendanceRecord) error {
	return tx.WithContext(ctx).Save(record).Error
}

func (r *gormAttendanceRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.AttendanceRecord, error) {
	var records []*model.AttendanceRecord
	result := db.WithContext(ctx).
		Preload("Session").
		Where("user_id = ?", userID).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}
