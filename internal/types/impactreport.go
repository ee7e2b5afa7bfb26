package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AffectedLesson is one lesson judged relevant to an update.
type AffectedLesson struct {
	LessonID         uuid.UUID `json:"lesson_id"`
	LessonTitle      string    `json:"lesson_title"`
	RelevanceScore   float64   `json:"relevance_score"`
	SuggestedChanges string    `json:"suggested_changes"`
}

// MappingSuggestion is advisory text pointing at a mapping rule that may
// need review. It never mutates the rule itself.
type MappingSuggestion struct {
	RuleID         *uuid.UUID `json:"rule_id"`
	QuestionID     string     `json:"question_id"`
	CurrentValue   *string    `json:"current_value"`
	SuggestedValue string     `json:"suggested_value"`
	Rationale      string     `json:"rationale"`
}

type Citation struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type ImpactReport struct {
	ID                 uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"id"`
	UpdateID           uuid.UUID                              `gorm:"type:uuid;uniqueIndex;not null" json:"update_id"`
	Provider           string                                 `gorm:"column:provider;index" json:"provider"`
	Severity           string                                 `gorm:"column:severity;index" json:"severity"`
	RecommendedAction  string                                 `gorm:"column:recommended_action;index" json:"recommended_action"`
	AffectedLessons    datatypes.JSONSlice[AffectedLesson]    `gorm:"column:affected_lessons" json:"affected_lessons"`
	MappingSuggestions datatypes.JSONSlice[MappingSuggestion] `gorm:"column:mapping_suggestions" json:"mapping_suggestions"`
	Rationale          string                                 `gorm:"column:rationale" json:"rationale"`
	Citations          datatypes.JSONSlice[Citation]          `gorm:"column:citations" json:"citations"`
	Status             string                                 `gorm:"column:status;not null;default:new;index" json:"status"`
	Assignee           string                                 `gorm:"column:assignee" json:"assignee,omitempty"`
	ReviewedBy         string                                 `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time                             `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt          time.Time                              `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time                              `gorm:"not null" json:"updated_at"`
}

func (ImpactReport) TableName() string { return "impact_report" }
