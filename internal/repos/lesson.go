package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

// LessonFilter narrows List results; zero values mean no constraint.
type LessonFilter struct {
	Level        string
	ProviderName string
}

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error)
	List(ctx context.Context, tx *gorm.DB, filter LessonFilter) ([]*types.Lesson, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error)
	GetByTitle(ctx context.Context, tx *gorm.DB, title string) (*types.Lesson, error)
	Search(ctx context.Context, tx *gorm.DB, keyword string) ([]*types.Lesson, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) List(ctx context.Context, tx *gorm.DB, filter LessonFilter) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx)
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.ProviderName != "" {
		query = query.Where("provider_name = ?", filter.ProviderName)
	}

	var results []*types.Lesson
	if err := query.Order("title ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Lesson
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *lessonRepo) GetByTitle(ctx context.Context, tx *gorm.DB, title string) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Lesson
	err := transaction.WithContext(ctx).
		Where("title = ?", title).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *lessonRepo) Search(ctx context.Context, tx *gorm.DB, keyword string) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if keyword == "" {
		return results, nil
	}

	pattern := "%" + keyword + "%"
	if err := transaction.WithContext(ctx).
		Where("title LIKE ? OR objective LIKE ? OR key_topics LIKE ? OR provider_name LIKE ?",
			pattern, pattern, pattern, pattern).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
