package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the membership role of a user inside a study group.
type Role string

const (
	RoleMember     Role = "member"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Group is a study group (halaqa). Group CRUD itself is administered
// outside this service; we only read membership and roles.
type Group struct {
	GroupID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

// GroupMember links a user to a group with a role. One row per
// (group, user).
type GroupMember struct {
	MemberID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"member_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index:idx_group_user,unique" json:"group_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_group_user,unique" json:"user_id"`
	Role      Role      `gorm:"not null;default:member" json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

type ContextKey string

const (
	// UserIDKey carries the authenticated caller's user ID in the
	// request context.
	UserIDKey ContextKey = "userID"
)
