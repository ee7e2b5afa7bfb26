package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/repos/testutil"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

// harness wires the full repo layer against a rolled-back transaction so
// each test sees an empty store.
type harness struct {
	tx            *gorm.DB
	log           *logger.Logger
	providers     repos.ProviderRepo
	lessons       repos.LessonRepo
	courses       repos.CourseRepo
	courseLessons repos.CourseLessonRepo
	rules         repos.MappingRuleRepo
	updates       repos.UpdateRepo
	reports       repos.ImpactReportRepo
	audit         repos.AuditLogRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	return &harness{
		tx:            tx,
		log:           log,
		providers:     repos.NewProviderRepo(tx, log),
		lessons:       repos.NewLessonRepo(tx, log),
		courses:       repos.NewCourseRepo(tx, log),
		courseLessons: repos.NewCourseLessonRepo(tx, log),
		rules:         repos.NewMappingRuleRepo(tx, log),
		updates:       repos.NewUpdateRepo(tx, log),
		reports:       repos.NewImpactReportRepo(tx, log),
		audit:         repos.NewAuditLogRepo(tx, log),
	}
}

func (h *harness) analyzer() AnalyzerService {
	return NewAnalyzerService(h.tx, h.log, h.lessons, h.updates, h.reports)
}

func (h *harness) review() ReviewService {
	return NewReviewService(h.tx, h.log, h.reports, h.audit)
}

func (h *harness) mappingRules() MappingRuleService {
	return NewMappingRuleService(h.tx, h.log, h.rules, h.audit)
}

func (h *harness) watcher() WatcherService {
	return NewWatcherService(h.log, h.providers, h.updates)
}

func (h *harness) synthesizer(gen GenerationClient) CourseSynthesizer {
	return NewCourseSynthesizer(h.tx, h.log, gen,
		h.reports, h.updates, h.lessons, h.courses, h.courseLessons, h.providers, h.audit, 0)
}

func (h *harness) seedLesson(t *testing.T, title, providerName, objective string, topics []string) *types.Lesson {
	t.Helper()
	lesson := &types.Lesson{
		ID:           uuid.New(),
		Title:        title,
		ProviderName: providerName,
		Level:        "intermediate",
		Objective:    objective,
		KeyTopics:    topics,
	}
	if _, err := h.lessons.Create(context.Background(), nil, []*types.Lesson{lesson}); err != nil {
		t.Fatalf("seed lesson: %v", err)
	}
	return lesson
}

func (h *harness) seedUpdate(t *testing.T, provider, title, summary, sourceURL string) *types.Update {
	t.Helper()
	update := &types.Update{
		ID:        uuid.New(),
		Provider:  provider,
		Title:     title,
		Summary:   summary,
		SourceURL: sourceURL,
		FetchedAt: time.Now().UTC(),
	}
	stored, created, err := h.updates.Create(context.Background(), nil, update)
	if err != nil {
		t.Fatalf("seed update: %v", err)
	}
	if !created {
		t.Fatalf("seed update %q collided with an existing row", sourceURL)
	}
	return stored
}

func (h *harness) seedReport(t *testing.T, update *types.Update, status string) *types.ImpactReport {
	t.Helper()
	now := time.Now().UTC()
	report := &types.ImpactReport{
		ID:                uuid.New(),
		UpdateID:          update.ID,
		Provider:          update.Provider,
		Severity:          types.SeverityHigh,
		RecommendedAction: types.ActionCreateLesson,
		Rationale:         "seeded for test",
		Citations:         []types.Citation{{Text: update.Title, URL: update.SourceURL}},
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := h.reports.Create(context.Background(), nil, report); err != nil {
		t.Fatalf("seed report: %v", err)
	}
	return report
}
