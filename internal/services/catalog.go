package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

// DashboardStats is the aggregate view backing the dashboard endpoint.
type DashboardStats struct {
	Providers          int64        `json:"providers"`
	Lessons            int64        `json:"lessons"`
	Courses            int64        `json:"courses"`
	UnprocessedUpdates int          `json:"unprocessed_updates"`
	Reports            *ReportStats `json:"reports"`
}

type CatalogService interface {
	ListProviders(ctx context.Context) ([]*types.Provider, error)
	GetProvider(ctx context.Context, id uuid.UUID) (*types.Provider, error)
	UpsertProvider(ctx context.Context, provider *types.Provider) (*types.Provider, error)

	ListLessons(ctx context.Context, filter repos.LessonFilter) ([]*types.Lesson, error)
	GetLesson(ctx context.Context, id uuid.UUID) (*types.Lesson, error)
	SearchLessons(ctx context.Context, keyword string) ([]*types.Lesson, error)
	CreateLessons(ctx context.Context, lessons []*types.Lesson) error

	ListCourses(ctx context.Context, filter repos.CourseFilter) ([]*types.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error)
	GetCourseLessons(ctx context.Context, courseID uuid.UUID) ([]*types.Lesson, error)

	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type catalogService struct {
	db            *gorm.DB
	log           *logger.Logger
	providers     repos.ProviderRepo
	lessons       repos.LessonRepo
	courses       repos.CourseRepo
	courseLessons repos.CourseLessonRepo
	updates       repos.UpdateRepo
	reports       repos.ImpactReportRepo
	analyzer      AnalyzerService
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	providers repos.ProviderRepo,
	lessons repos.LessonRepo,
	courses repos.CourseRepo,
	courseLessons repos.CourseLessonRepo,
	updates repos.UpdateRepo,
	reports repos.ImpactReportRepo,
	analyzer AnalyzerService,
) CatalogService {
	return &catalogService{
		db:            db,
		log:           baseLog.With("service", "CatalogService"),
		providers:     providers,
		lessons:       lessons,
		courses:       courses,
		courseLessons: courseLessons,
		updates:       updates,
		reports:       reports,
		analyzer:      analyzer,
	}
}

func (s *catalogService) ListProviders(ctx context.Context) ([]*types.Provider, error) {
	return s.providers.GetAll(ctx, nil)
}

func (s *catalogService) GetProvider(ctx context.Context, id uuid.UUID) (*types.Provider, error) {
	provider, err := s.providers.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider %s", ErrNotFound, id)
		}
		return nil, err
	}
	return provider, nil
}

// UpsertProvider matches on name; an existing provider row wins and the
// incoming record is discarded.
func (s *catalogService) UpsertProvider(ctx context.Context, provider *types.Provider) (*types.Provider, error) {
	if provider.Name == "" {
		return nil, fmt.Errorf("%w: provider name required", ErrBadRequest)
	}
	existing, err := s.providers.GetByName(ctx, nil, provider.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if provider.ID == uuid.Nil {
		provider.ID = uuid.New()
	}
	if _, err := s.providers.Create(ctx, nil, provider); err != nil {
		return nil, err
	}
	s.log.Info("Provider created", "provider_id", provider.ID, "name", provider.Name)
	return provider, nil
}

func (s *catalogService) ListLessons(ctx context.Context, filter repos.LessonFilter) ([]*types.Lesson, error) {
	return s.lessons.List(ctx, nil, filter)
}

func (s *catalogService) GetLesson(ctx context.Context, id uuid.UUID) (*types.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lesson %s", ErrNotFound, id)
		}
		return nil, err
	}
	return lesson, nil
}

func (s *catalogService) SearchLessons(ctx context.Context, keyword string) ([]*types.Lesson, error) {
	if keyword == "" {
		return nil, fmt.Errorf("%w: search keyword required", ErrBadRequest)
	}
	return s.lessons.Search(ctx, nil, keyword)
}

func (s *catalogService) CreateLessons(ctx context.Context, lessons []*types.Lesson) error {
	for _, lesson := range lessons {
		if lesson.ID == uuid.Nil {
			lesson.ID = uuid.New()
		}
	}
	_, err := s.lessons.Create(ctx, nil, lessons)
	return err
}

func (s *catalogService) ListCourses(ctx context.Context, filter repos.CourseFilter) ([]*types.Course, error) {
	return s.courses.List(ctx, nil, filter)
}

func (s *catalogService) GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	course, err := s.courses.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %s", ErrNotFound, id)
		}
		return nil, err
	}
	return course, nil
}

func (s *catalogService) GetCourseLessons(ctx context.Context, courseID uuid.UUID) ([]*types.Lesson, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.courseLessons.GetOrderedLessons(ctx, nil, courseID)
}

func (s *catalogService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.WithContext(ctx).Model(&types.Provider{}).Count(&stats.Providers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&types.Lesson{}).Count(&stats.Lessons).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&types.Course{}).Count(&stats.Courses).Error; err != nil {
		return nil, err
	}

	processed := false
	unprocessed, err := s.updates.List(ctx, nil, repos.UpdateFilter{Processed: &processed})
	if err != nil {
		return nil, err
	}
	stats.UnprocessedUpdates = len(unprocessed)

	reportStats, err := s.analyzer.Stats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Reports = reportStats
	return stats, nil
}
