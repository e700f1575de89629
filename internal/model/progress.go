package model

import (
	"time"

	"github.com/google/uuid"
)

// Program is one of the logged activity programs.
type Program string

const (
	ProgramMemorization  Program = "memorization"
	ProgramConsolidation Program = "consolidation"
	ProgramRevision      Program = "revision"
	ProgramReading       Program = "reading"
	ProgramExegesis      Program = "exegesis"
)

// ValidPrograms is the closed set accepted on input.
var ValidPrograms = map[Program]bool{
	ProgramMemorization:  true,
	ProgramConsolidation: true,
	ProgramRevision:      true,
	ProgramReading:       true,
	ProgramExegesis:      true,
}

// ProgressEntry is one logged verse range for one learner. Entries are
// append/delete only and never merged; coverage is derived at read time.
type ProgressEntry struct {
	EntryID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"entry_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_progress_user_program" json:"user_id"`
	Program    Program   `gorm:"not null;index:idx_progress_user_program" json:"program"`
	EntryDate  time.Time `gorm:"not null;index" json:"entry_date"`
	Chapter    int       `gorm:"not null" json:"chapter"`
	VerseStart int       `gorm:"not null" json:"verse_start"`
	VerseEnd   int       `gorm:"not null" json:"verse_end"`
	Reps       int       `json:"reps,omitempty"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ProgressEntry) TableName() string {
	return "progress_entries"
}

// PostProgressRequest creates a new progress entry for the caller.
type PostProgressRequest struct {
	Program    Program `json:"program" validate:"required"`
	EntryDate  string  `json:"entry_date" validate:"omitempty,datetime=2006-01-02"`
	Chapter    int     `json:"chapter" validate:"required,min=1,max=114"`
	VerseStart int     `json:"verse_start" validate:"required,min=1"`
	VerseEnd   int     `json:"verse_end" validate:"required,min=1"`
	Reps       int     `json:"reps,omitempty" validate:"omitempty,min=1"`
	Note       string  `json:"note,omitempty" validate:"omitempty,max=500"`
}
