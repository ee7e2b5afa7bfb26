package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Course struct {
	ID          uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                         `gorm:"column:name;not null" json:"name"`
	Track       string                         `gorm:"column:track;index" json:"track"`
	Level       string                         `gorm:"column:level" json:"level"`
	LessonIDs   datatypes.JSONSlice[uuid.UUID] `gorm:"column:lesson_ids" json:"lesson_ids"`
	LessonCount int                            `gorm:"column:lesson_count;not null;default:0" json:"lesson_count"`
	CreatedAt   time.Time                      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                      `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

// CourseLesson orders lessons inside a course. Course.LessonIDs must stay
// consistent with these rows, position order included.
type CourseLesson struct {
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey" json:"course_id"`
	LessonID uuid.UUID `gorm:"type:uuid;primaryKey" json:"lesson_id"`
	Position int       `gorm:"column:position;not null" json:"position"`
}

func (CourseLesson) TableName() string { return "course_lesson" }
