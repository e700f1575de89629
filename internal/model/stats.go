package model

import (
	"time"

	"github.com/google/uuid"
)

// MasterySource tags which of the two status sources the reconciler
// picked for a learner. The two sources are never interleaved.
type MasterySource string

const (
	SourceExplicit MasterySource = "explicit"
	SourceCoverage MasterySource = "coverage"
	SourceNone     MasterySource = "none"
)

// ChapterStatusView is one chapter's resolved status in a roster or
// profile. Synthetic marks rows injected for chapters fully covered by
// progress entries but lacking an explicit record; those are recomputed
// on every read and never persisted.
type ChapterStatusView struct {
	Chapter        int           `json:"chapter"`
	Status         MasteryStatus `json:"status"`
	ValidationWeek *int          `json:"validation_week,omitempty"`
	ValidatedAt    *time.Time    `json:"validated_at,omitempty"`
	Synthetic      bool          `json:"synthetic,omitempty"`
}

// CommentView is a recitation comment annotated with its session's
// chronological number and ISO week.
type CommentView struct {
	CommentID     uuid.UUID `json:"comment_id"`
	Chapter       int       `json:"chapter"`
	Text          string    `json:"text"`
	Status        string    `json:"status,omitempty"`
	VerseStart    int       `json:"verse_start,omitempty"`
	VerseEnd      int       `json:"verse_end,omitempty"`
	SessionNumber int       `json:"session_number"`
	ISOWeek       int       `json:"iso_week"`
	SessionDate   time.Time `json:"session_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// MasteryOverview is the reconciled mastery picture for one learner.
type MasteryOverview struct {
	Source             MasterySource       `json:"source"`
	VersesMastered     int                 `json:"verses_mastered"`
	ChaptersValidated  int                 `json:"chapters_validated"`
	ChaptersInProgress int                 `json:"chapters_in_progress"`
	Chapters           []ChapterStatusView `json:"chapters"`
}

// RosterEntry is one learner's row in a group mastery view.
type RosterEntry struct {
	UserID   uuid.UUID             `json:"user_id"`
	Role     Role                  `json:"role"`
	Chapters []ChapterStatusView   `json:"chapters"`
	Comments map[int][]CommentView `json:"comments"`
}

// GroupMasteryResponse is the getMastery payload.
type GroupMasteryResponse struct {
	Roster            []RosterEntry `json:"roster"`
	TotalSessions     int           `json:"total_sessions"`
	NextSessionNumber int           `json:"next_session_number"`
}

// TrendDirection classifies a current-vs-previous comparison.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Trend compares a scalar between the current period and the preceding
// one. DeltaPct is 0 whenever Previous is 0, regardless of Current.
type Trend struct {
	Direction TrendDirection `json:"direction"`
	Current   int            `json:"current"`
	Previous  int            `json:"previous"`
	DeltaPct  float64        `json:"delta_pct"`
}

// EvolutionPoint is one week of the rolling evolution series.
type EvolutionPoint struct {
	WeekStart     time.Time `json:"week_start"`
	ISOWeek       int       `json:"iso_week"`
	VersesCovered int       `json:"verses_covered"`
	Completions   int       `json:"completions"`
}

// CycleStats summarizes full revision/reading passes of one type.
type CycleStats struct {
	Count         int      `json:"count"`
	DaysSinceLast *int     `json:"days_since_last,omitempty"`
	AvgDays       *float64 `json:"avg_days,omitempty"`
}

// StatisticsReport is the single consolidated output of the aggregator.
// Every figure is derived fresh from raw logs on each call.
type StatisticsReport struct {
	Scope       string    `json:"scope"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	TotalVersesCovered int `json:"total_verses_covered"`
	ChaptersCompleted  int `json:"chapters_completed"`
	ChaptersInProgress int `json:"chapters_in_progress"`
	Pages              int `json:"pages"`

	Mastery MasteryOverview `json:"mastery"`

	DailyStreak     int     `json:"daily_streak"`
	ObjectiveStreak int     `json:"objective_streak"`
	AttendanceRate  float64 `json:"attendance_rate"`
	SubmissionRate  float64 `json:"submission_rate"`

	CompletedActivities int                       `json:"completed_activities"`
	ActivityTrend       Trend                     `json:"activity_trend"`
	Evolution           []EvolutionPoint          `json:"evolution"`
	Cycles              map[CycleType]CycleStats  `json:"cycles"`
}

// ProfileResponse is the learner profile view.
type ProfileResponse struct {
	UserID            uuid.UUID           `json:"user_id"`
	Mastery           MasteryOverview     `json:"mastery"`
	DailyStreak       int                 `json:"daily_streak"`
	AttendanceRate    float64             `json:"attendance_rate"`
	RecentRecitations []CommentView       `json:"recent_recitations"`
	RecentValidations []ChapterStatusView `json:"recent_validations"`
}
