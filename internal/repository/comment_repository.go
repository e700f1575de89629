package repository

import (
	"context"
	"errors"

	"hifz_tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, comment *model.RecitationComment) error
	Update(ctx context.Context, tx *gorm.DB, comment *model.RecitationComment) error
	Delete(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) error
	FindByID(ctx context.Context, db *gorm.DB, commentID uuid.UUID) (*model.RecitationComment, error)
	FindByUsers(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID) ([]*model.RecitationComment, error)
	FindRecentByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.RecitationComment, error)
}

type gormCommentRepository struct{}

func NewGormCommentRepository() CommentRepository {
	return &gormCommentRepository{}
}

func (r *gormCommentRepository) Create(ctx context.Context, tx *gorm.DB, comment *model.RecitationComment) error {
	return tx.WithContext(ctx).Create(comment).Error
}

func (r *gormCommentRepository) Update(ctx context.Context, tx *gorm.DB, comment *model.RecitationComment) error {
	return tx.WithContext(ctx).Save(comment).Error
}

func (r *gormCommentRepository) Delete(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("comment_id = ?", commentID).Delete(&model.RecitationComment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCommentRepository) FindByID(ctx context.Context, db *gorm.DB, commentID uuid.UUID) (*model.RecitationComment, error) {
	var comment model.RecitationComment
	result := db.WithContext(ctx).Preload("Session").Where("comment_id = ?", commentID).First(&comment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &comment, nil
}

func (r *gormCommentRepository) FindByUsers(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID) ([]*model.RecitationComment, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var comments []*model.RecitationComment
	result := db.WithContext(ctx).
		Preload("Session").
		Where("user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}

func (r *gormCommentRepository) FindRecentByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.RecitationComment, error) {
	var comments []*model.RecitationComment
	result := db.WithContext(ctx).
		Preload("Session").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}
