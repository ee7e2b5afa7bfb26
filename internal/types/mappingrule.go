package types

import (
	"time"

	"github.com/google/uuid"
)

// MappingRule maps a questionnaire answer to a recommended course/track.
// Rows are an append-only version log per (question_id, answer_value) key:
// updates insert version+1 and deactivate the prior row, never mutate it.
type MappingRule struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Version           int       `gorm:"column:version;not null;default:1" json:"version"`
	QuestionID        string    `gorm:"column:question_id;not null;index" json:"question_id"`
	QuestionText      string    `gorm:"column:question_text" json:"question_text"`
	AnswerValue       string    `gorm:"column:answer_value;not null;index" json:"answer_value"`
	RecommendedCourse string    `gorm:"column:recommended_course" json:"recommended_course"`
	RecommendedTrack  string    `gorm:"column:recommended_track" json:"recommended_track"`
	Priority          int       `gorm:"column:priority;not null;default:5" json:"priority"`
	IsActive          bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	CreatedBy         string    `gorm:"column:created_by" json:"created_by"`
}

func (MappingRule) TableName() string { return "mapping_rule" }
