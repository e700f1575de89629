package service

import (
	"context"
	"errors"

	"hifz_tracker/internal/model"
	"hifz_tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessService is the single capability check every operation
// consumes, instead of re-deriving membership per call site. Checks run
// before any derivation work.
type AccessService interface {
	// RequireRole fails with ErrForbidden unless the user holds one of
	// the given roles in the group. Admin always passes.
	RequireRole(ctx context.Context, groupID, userID uuid.UUID, roles ...model.Role) (*model.GroupMember, error)
	// RequireMember fails with ErrForbidden unless the user belongs to
	// the group at all.
	RequireMember(ctx context.Context, groupID, userID uuid.UUID) (*model.GroupMember, error)
	// RequireVisibility allows a caller to read a learner's data when
	// the caller is the learner, or supervises a group the learner
	// belongs to.
	RequireVisibility(ctx context.Context, callerID, learnerID uuid.UUID) error
}

type accessService struct {
	db        *gorm.DB
	groupRepo repository.GroupRepository
}

func NewAccessService(db *gorm.DB, groupRepo repository.GroupRepository) AccessService {
	return &accessService{db: db, groupRepo: groupRepo}
}

func (s *accessService) RequireRole(ctx context.Context, groupID, userID uuid.UUID, roles ...model.Role) (*model.GroupMember, error) {
	member, err := s.groupRepo.FindMember(ctx, s.db, groupID, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("FORBIDDEN", "You are not a member of this group.", "", model.ErrForbidden)
		}
		return nil, err
	}
	if member.Role == model.RoleAdmin {
		return member, nil
	}
	for _, role := range roles {
		if member.Role == role {
			return member, nil
		}
	}
	return nil, model.NewAppError("FORBIDDEN", "Your role does not allow this operation.", "", model.ErrForbidden)
}

func (s *accessService) RequireMember(ctx context.Context, groupID, userID uuid.UUID) (*model.GroupMember, error) {
	return s.RequireRole(ctx, groupID, userID, model.RoleMember, model.RoleSupervisor, model.RoleAdmin)
}

func (s *accessService) RequireVisibility(ctx context.Context, callerID, learnerID uuid.UUID) error {
	if callerID == learnerID {
		return nil
	}

	callerMemberships, err := s.groupRepo.ListMemberships(ctx, s.db, callerID)
	if err != nil {
		return err
	}
	supervised := make(map[uuid.UUID]bool)
	for _, m := range callerMemberships {
		if m.Role == model.RoleSupervisor || m.Role == model.RoleAdmin {
			supervised[m.GroupID] = true
		}
	}
	if len(supervised) == 0 {
		return model.NewAppError("FORBIDDEN", "You may not view this learner's data.", "", model.ErrForbidden)
	}

	learnerMemberships, err := s.groupRepo.ListMemberships(ctx, s.db, learnerID)
	if err != nil {
		return err
	}
	for _, m := range learnerMemberships {
		if supervised[m.GroupID] {
			return nil
		}
	}
	return model.NewAppError("FORBIDDEN", "You may not view this learner's data.", "", model.ErrForbidden)
}
