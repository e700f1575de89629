package repository

import (
	"context"
	"errors"

	"hifz_tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupRepository reads group membership. Group CRUD is administered
// outside this service.
type GroupRepository interface {
	FindGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (*model.Group, error)
	FindMember(ctx context.Context, db *gorm.DB, groupID, userID uuid.UUID) (*model.GroupMember, error)
	ListMembers(ctx context.Context, db *gorm.DB, groupID uuid.UUID) ([]*model.GroupMember, error)
	ListMemberships(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.GroupMember, error)
}

type gormGroupRepository struct{}

func NewGormGroupRepository() GroupRepository {
	return &gormGroupRepository{}
}

func (r *gormGroupRepository) FindGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (*model.Group, error) {
	var group model.Group
	result := db.WithContext(ctx).Where("group_id = ?", groupID).First(&group)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &group, nil
}

func (r *gormGroupRepository) FindMember(ctx context.Context, db *gorm.DB, groupID, userID uuid.UUID) (*model.GroupMember, error) {
	var member model.GroupMember
	result := db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &member, nil
}

func (r *gormGroupRepository) ListMembers(ctx context.Context, db *gorm.DB, groupID uuid.UUID) ([]*model.GroupMember, error) {
	var members []*model.GroupMember
	result := db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return members, nil
}

func (r *gormGroupRepository) ListMemberships(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.GroupMember, error) {
	var members []*model.GroupMember
	result := db.WithContext(ctx).Where("user_id = ?", userID).Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return members, nil
}
