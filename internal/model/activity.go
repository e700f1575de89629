package model

import (
	"time"

	"github.com/google/uuid"
)

// DailyActivityCompletion marks one program as done on one calendar
// day. One row per (user, program, date); the distinct completed dates
// drive the daily streak.
type DailyActivityCompletion struct {
	CompletionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"completion_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index:idx_daily_user_program_date,unique" json:"user_id"`
	Program      Program   `gorm:"not null;index:idx_daily_user_program_date,unique" json:"program"`
	Date         time.Time `gorm:"not null;index:idx_daily_user_program_date,unique" json:"date"`
	Completed    bool      `gorm:"not null" json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func (DailyActivityCompletion) TableName() string {
	return "daily_activity_completions"
}

// WeeklyObjective is a recurring weekly goal. The weekly streak is
// judged against the learner's current set of active objectives, so
// adding or removing objectives retroactively changes how past weeks
// read. That is intentional.
type WeeklyObjective struct {
	ObjectiveID uuid.UUID `gorm:"type:uuid;primaryKey" json:"objective_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Label       string    `gorm:"not null" json:"label"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (WeeklyObjective) TableName() string {
	return "weekly_objectives"
}

// WeeklyObjectiveCompletion records one objective done in one
// Sunday-anchored week.
type WeeklyObjectiveCompletion struct {
	CompletionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"completion_id"`
	ObjectiveID  uuid.UUID `gorm:"type:uuid;not null;index:idx_objective_week,unique" json:"objective_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	WeekStart    time.Time `gorm:"not null;index:idx_objective_week,unique" json:"week_start"`
	Completed    bool      `gorm:"not null" json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
}

func (WeeklyObjectiveCompletion) TableName() string {
	return "weekly_objective_completions"
}

// CycleType distinguishes full-revision from full-reading passes.
type CycleType string

const (
	CycleRevision CycleType = "full_revision"
	CycleReading  CycleType = "full_reading"
)

// CompletionCycle is an append-only log of completed full passes over
// the text.
type CompletionCycle struct {
	CycleID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"cycle_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        CycleType `gorm:"not null" json:"type"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
	Days        int       `gorm:"not null" json:"days"`
	Units       int       `json:"units,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CompletionCycle) TableName() string {
	return "completion_cycles"
}

// PutDailyActivityRequest upserts a daily completion.
type PutDailyActivityRequest struct {
	Completed bool `json:"completed"`
}

// PostCycleRequest appends a completed full pass.
type PostCycleRequest struct {
	Type  CycleType `json:"type" validate:"required,oneof=full_revision full_reading"`
	Days  int       `json:"days" validate:"required,min=1"`
	Units int       `json:"units,omitempty" validate:"omitempty,min=1"`
}
