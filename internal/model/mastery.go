package model

import (
	"time"

	"github.com/google/uuid"
)

// MasteryStatus is the closed vocabulary a supervisor can assign to a
// (learner, chapter) pair. quarter/half/three_quarters are the three
// fractional in-progress tiers.
type MasteryStatus string

const (
	StatusValidated     MasteryStatus = "validated"
	StatusRecited       MasteryStatus = "recited"
	StatusAssumedKnown  MasteryStatus = "assumed_known"
	StatusQuarter       MasteryStatus = "quarter"
	StatusHalf          MasteryStatus = "half"
	StatusThreeQuarters MasteryStatus = "three_quarters"
	StatusToMemorize    MasteryStatus = "to_memorize"
)

// ValidStatuses is the closed set accepted on input.
var ValidStatuses = map[MasteryStatus]bool{
	StatusValidated:     true,
	StatusRecited:       true,
	StatusAssumedKnown:  true,
	StatusQuarter:       true,
	StatusHalf:          true,
	StatusThreeQuarters: true,
	StatusToMemorize:    true,
}

// Mastered reports whether the status counts a chapter's verses as
// memorized for the reconciler's explicit-source total.
func (s MasteryStatus) Mastered() bool {
	return s == StatusValidated || s == StatusRecited
}

// InProgress reports whether the status is one of the fractional tiers.
func (s MasteryStatus) InProgress() bool {
	return s == StatusQuarter || s == StatusHalf || s == StatusThreeQuarters
}

// MasteryRecord is the supervisor-maintained status of one chapter for
// one learner. Upsert semantics on (user, chapter); cleared by delete.
type MasteryRecord struct {
	RecordID       uuid.UUID     `gorm:"type:uuid;primaryKey" json:"record_id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;index:idx_mastery_user_chapter,unique" json:"user_id"`
	Chapter        int           `gorm:"not null;index:idx_mastery_user_chapter,unique" json:"chapter"`
	Status         MasteryStatus `gorm:"not null" json:"status"`
	ValidationWeek *int          `json:"validation_week,omitempty"`
	ValidatedAt    *time.Time    `json:"validated_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (MasteryRecord) TableName() string {
	return "mastery_records"
}

// RecitationComment is a supervisor's assessment note anchored to a
// session, a learner and a chapter.
type RecitationComment struct {
	CommentID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"comment_id"`
	SessionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_comment_user_chapter" json:"user_id"`
	Chapter    int       `gorm:"not null;index:idx_comment_user_chapter" json:"chapter"`
	VerseStart int       `json:"verse_start,omitempty"`
	VerseEnd   int       `json:"verse_end,omitempty"`
	Status     string    `json:"status,omitempty"`
	Text       string    `gorm:"not null" json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`

	// Preloaded session, used to annotate comments with session
	// number and ISO week.
	Session *GroupSession `gorm:"foreignKey:SessionID;references:SessionID" json:"-"`
}

func (RecitationComment) TableName() string {
	return "recitation_comments"
}

// SetMasteryRequest updates or clears a mastery record. A null status
// deletes the record.
type SetMasteryRequest struct {
	Status         *MasteryStatus `json:"status"`
	ValidationWeek *int           `json:"validation_week,omitempty" validate:"omitempty,min=1,max=53"`
}

// PostCommentRequest adds a recitation comment. SessionNumber is the
// 1-based chronological session index; when absent or out of range the
// comment lands on this week's session.
type PostCommentRequest struct {
	LearnerID     uuid.UUID `json:"learner_id" validate:"required"`
	Chapter       int       `json:"chapter" validate:"required,min=1,max=114"`
	Text          string    `json:"text" validate:"required,max=2000"`
	Status        string    `json:"status,omitempty" validate:"omitempty,max=50"`
	SessionNumber *int      `json:"session_number,omitempty" validate:"omitempty,min=1"`
	VerseStart    int       `json:"verse_start,omitempty" validate:"omitempty,min=1"`
	VerseEnd      int       `json:"verse_end,omitempty" validate:"omitempty,min=1"`
}

// PatchCommentRequest edits a comment's text and/or moves it to another
// session.
type PatchCommentRequest struct {
	Text          *string `json:"text,omitempty" validate:"omitempty,min=1,max=2000"`
	SessionNumber *int    `json:"session_number,omitempty" validate:"omitempty,min=1"`
}
