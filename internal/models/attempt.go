package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/vocalize/internal/rubric"
)

type AttemptStatus string

const (
	StatusQueued     AttemptStatus = "queued"
	StatusProcessing AttemptStatus = "processing"
	StatusCompleted  AttemptStatus = "completed"
	StatusFailed     AttemptStatus = "failed"
)

// Attempt is one recorded speech. Rows are appended, never deleted, and the
// score report is written at most once.
type Attempt struct {
	ID           uuid.UUID           `gorm:"type:text;primaryKey" json:"id"`
	Version      int                 `gorm:"uniqueIndex;not null" json:"version"`
	Transcript   *string             `gorm:"type:text" json:"transcript"`
	AudioKey     string              `gorm:"type:text" json:"audio_key"`
	ScoreReport  *rubric.ScoreReport `gorm:"serializer:json" json:"score_report"`
	Suggestions  []rubric.Suggestion `gorm:"serializer:json" json:"suggestions"`
	Status       AttemptStatus       `gorm:"not null;default:'queued'" json:"status"`
	ErrorMessage *string             `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	ScoredAt     *time.Time          `json:"scored_at,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// AudioKeyFor names the stored clip of a version.
func AudioKeyFor(version int) string {
	return fmt.Sprintf("audio_v%d", version)
}
