package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

type CourseLessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CourseLesson) ([]*types.CourseLesson, error)
	GetOrderedLessons(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Lesson, error)
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
}

type courseLessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseLessonRepo(db *gorm.DB, baseLog *logger.Logger) CourseLessonRepo {
	repoLog := baseLog.With("repo", "CourseLessonRepo")
	return &courseLessonRepo{db: db, log: repoLog}
}

func (r *courseLessonRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CourseLesson) ([]*types.CourseLesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.CourseLesson{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseLessonRepo) GetOrderedLessons(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Joins("JOIN course_lesson cl ON cl.lesson_id = lesson.id").
		Where("cl.course_id = ?", courseID).
		Order("cl.position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseLessonRepo) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.CourseLesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
