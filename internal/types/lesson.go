package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Lesson struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Title              string                      `gorm:"column:title;not null;index" json:"title"`
	ProviderID         *uuid.UUID                  `gorm:"type:uuid;index" json:"provider_id,omitempty"`
	ProviderName       string                      `gorm:"column:provider_name;index" json:"provider_name"`
	Level              string                      `gorm:"column:level" json:"level"`
	Objective          string                      `gorm:"column:objective" json:"objective"`
	KeyTopics          datatypes.JSONSlice[string] `gorm:"column:key_topics" json:"key_topics"`
	VideoURL           string                      `gorm:"column:video_url" json:"video_url,omitempty"`
	CaptionURL         string                      `gorm:"column:caption_url" json:"caption_url,omitempty"`
	SlidesURL          string                      `gorm:"column:slides_url" json:"slides_url,omitempty"`
	PracticeAssessment datatypes.JSON              `gorm:"column:practice_assessment" json:"practice_assessment,omitempty"`
	CreatedAt          time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }
