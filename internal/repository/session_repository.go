package repository

import (
	"context"
	"errors"
	"time"

	"hifz_tracker/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type SessionRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) (*model.GroupSession, error)
	FindByGroupWeek(ctx context.Context, db *gorm.DB, groupID uuid.UUID, weekStart time.Time) (*model.GroupSession, error)
	// Create returns model.ErrConflict when a session for the same
	// (group, week) already exists.
	Create(ctx context.Context, tx *gorm.DB, session *model.GroupSession) error
	ListByGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) ([]*model.GroupSession, error)
	CountByGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (int64, error)
}

type gormSessionRepository struct{}

func NewGormSessionRepository() SessionRepository {
	return &gormSessionRepository{}
}

func (r *gormSessionRepository) FindByID(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) (*model.GroupSession, error) {
	var session model.GroupSession
	result := db.WithContext(ctx).Where("session_id = ?", sessionID).First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &session, nil
}

func (r *gormSessionRepository) FindByGroupWeek(ctx context.Context, db *gorm.DB, groupID uuid.UUID, weekStart time.Time) (*model.GroupSession, error) {
	var session model.GroupSession
	result := db.WithContext(ctx).
		Where("group_id = ? AND week_start = ?", groupID, weekStart).
		First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &session, nil
}

func (r *gormSessionRepository) Create(ctx context.Context, tx *gorm.DB, session *model.GroupSession) error {
	result := tx.WithContext(ctx).Create(session)
	if result.Error != nil {
		// Unique violation on (group_id, week_start): a concurrent
		// writer beat us to this week's session.
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			return model.ErrConflict
		}
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		return result.Error
	}
	return nil
}

func (r *gormSessionRepository) ListByGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) ([]*model.GroupSession, error) {
	var sessions []*model.GroupSession
	result := db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("date ASC").
		Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}
	return sessions, nil
}

func (r *gormSessionRepository) CountByGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.GroupSession{}).Where("group_id = ?", groupID).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
