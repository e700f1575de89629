package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupSession is one dated group meeting. The unique index on
// (group_id, week_start) enforces the one-session-per-calendar-week
// invariant at the database level; WeekStart is always the Sunday
// midnight of the session's week.
type GroupSession struct {
	SessionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"session_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index:idx_session_group_week,unique" json:"group_id"`
	Date      time.Time `gorm:"not null" json:"date"`
	WeekStart time.Time `gorm:"not null;index:idx_session_group_week,unique" json:"week_start"`
	ISOWeek   int       `gorm:"not null" json:"iso_week"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (GroupSession) TableName() string {
	return "group_sessions"
}

// AttendanceRecord marks one learner's presence at one session. One row
// per (session, learner), upsert semantics.
type AttendanceRecord struct {
	AttendanceID uuid.UUID `gorm:"type:uuid;primaryKey" json:"attendance_id"`
	SessionID    uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_session_user,unique" json:"session_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_session_user,unique" json:"user_id"`
	Present      bool      `gorm:"not null" json:"present"`
	Excused      bool      `json:"excused"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`

	Session *GroupSession `gorm:"foreignKey:SessionID;references:SessionID" json:"-"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// PutAttendanceRequest upserts attendance for a learner on this week's
// session.
type PutAttendanceRequest struct {
	Present bool   `json:"present"`
	Excused bool   `json:"excused"`
	Note    string `json:"note,omitempty" validate:"omitempty,max=500"`
}
