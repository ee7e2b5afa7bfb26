package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

const (
	architectureMaxTokens = 4096
	lessonMaxTokens       = 16000
	synthesizerActor      = "course-generator"
)

type coursePlan struct {
	CourseName        string       `json:"courseName"`
	CourseDescription string       `json:"courseDescription"`
	Track             string       `json:"track"`
	Level             string       `json:"level"`
	Lessons           []lessonPlan `json:"lessons"`
}

type lessonPlan struct {
	Title           string   `json:"title"`
	Provider        string   `json:"provider"`
	Level           string   `json:"level"`
	Scenario        string   `json:"scenario"`
	Objectives      []string `json:"objectives"`
	KeyTopics       []string `json:"keyTopics"`
	DifficultyNotes string   `json:"difficulty_notes"`
}

type slideDocument struct {
	Title        string            `json:"title"`
	Slides       []json.RawMessage `json:"slides"`
	CompanionDoc string            `json:"companionDoc"`
}

// GeneratedLesson is the per-lesson slice of a generation result.
type GeneratedLesson struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Provider     string            `json:"provider"`
	Level        string            `json:"level"`
	SlideCount   int               `json:"slide_count"`
	Slides       []json.RawMessage `json:"slides"`
	CompanionDoc string            `json:"companion_doc"`
}

type GenerationResult struct {
	Course            *types.Course     `json:"course"`
	CourseDescription string            `json:"course_description"`
	Lessons           []GeneratedLesson `json:"lessons"`
	ReportsProcessed  int               `json:"reports_processed"`
	ProvidersIncluded []string          `json:"providers_included"`
}

type CourseSynthesizer interface {
	// GenerateFromReports builds a course from the given approved reports,
	// or from every approved report when allApproved is set.
	GenerateFromReports(ctx context.Context, reportIDs []uuid.UUID, allApproved bool) (*GenerationResult, error)
}

type courseSynthesizer struct {
	db            *gorm.DB
	log           *logger.Logger
	gen           GenerationClient
	reports       repos.ImpactReportRepo
	updates       repos.UpdateRepo
	lessons       repos.LessonRepo
	courses       repos.CourseRepo
	courseLessons repos.CourseLessonRepo
	providers     repos.ProviderRepo
	audit         repos.AuditLogRepo
	callDelay     time.Duration
}

func NewCourseSynthesizer(
	db *gorm.DB,
	baseLog *logger.Logger,
	gen GenerationClient,
	reports repos.ImpactReportRepo,
	updates repos.UpdateRepo,
	lessons repos.LessonRepo,
	courses repos.CourseRepo,
	courseLessons repos.CourseLessonRepo,
	providers repos.ProviderRepo,
	audit repos.AuditLogRepo,
	callDelay time.Duration,
) CourseSynthesizer {
	return &courseSynthesizer{
		db:            db,
		log:           baseLog.With("service", "CourseSynthesizer"),
		gen:           gen,
		reports:       reports,
		updates:       updates,
		lessons:       lessons,
		courses:       courses,
		courseLessons: courseLessons,
		providers:     providers,
		audit:         audit,
		callDelay:     callDelay,
	}
}

func (s *courseSynthesizer) resolveReports(ctx context.Context, reportIDs []uuid.UUID, allApproved bool) ([]*types.ImpactReport, error) {
	if allApproved {
		reports, err := s.reports.List(ctx, nil, repos.ImpactReportFilter{Status: types.StatusApproved})
		if err != nil {
			return nil, err
		}
		if len(reports) == 0 {
			return nil, fmt.Errorf("%w: no approved impact reports; approve at least one report before generating a course", ErrBadRequest)
		}
		return reports, nil
	}

	if len(reportIDs) == 0 {
		return nil, fmt.Errorf("%w: report ids required", ErrBadRequest)
	}
	reports := make([]*types.ImpactReport, 0, len(reportIDs))
	for _, id := range reportIDs {
		report, err := s.reports.GetByID(ctx, nil, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: impact report %s", ErrNotFound, id)
		}
		if err != nil {
			return nil, err
		}
		if report.Status != types.StatusApproved {
			return nil, fmt.Errorf("%w: report %s is not approved (status: %s)", ErrBadRequest, id, report.Status)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *courseSynthesizer) groupByProvider(ctx context.Context, reports []*types.ImpactReport) ([]*providerGroup, error) {
	order := make([]string, 0, 4)
	byProvider := make(map[string]*providerGroup)
	seenUpdates := make(map[uuid.UUID]bool)

	for _, report := range reports {
		group, ok := byProvider[report.Provider]
		if !ok {
			group = &providerGroup{Provider: report.Provider}
			byProvider[report.Provider] = group
			order = append(order, report.Provider)
		}
		group.Reports = append(group.Reports, report)

		if seenUpdates[report.UpdateID] {
			continue
		}
		update, err := s.updates.GetByID(ctx, nil, report.UpdateID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		seenUpdates[update.ID] = true
		group.Updates = append(group.Updates, update)
	}

	groups := make([]*providerGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, byProvider[name])
	}
	return groups, nil
}

// generateJSON performs one generation call with a single retry on
// unparseable output, waiting the configured delay before the retry.
func (s *courseSynthesizer) generateJSON(ctx context.Context, system, user string, maxTokens int) ([]byte, error) {
	text, err := s.gen.Complete(ctx, system, user, maxTokens)
	if err != nil {
		return nil, err
	}
	raw, parseErr := extractJSON(text)
	if parseErr == nil {
		return raw, nil
	}

	s.log.Warn("Generation output unparseable, retrying once", "error", parseErr)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	text, err = s.gen.Complete(ctx, system, user, maxTokens)
	if err != nil {
		return nil, err
	}
	return extractJSON(text)
}

func (s *courseSynthesizer) wait(ctx context.Context) error {
	if s.callDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.callDelay):
		return nil
	}
}

func (s *courseSynthesizer) GenerateFromReports(ctx context.Context, reportIDs []uuid.UUID, allApproved bool) (*GenerationResult, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("%w: generation client not configured", ErrConfig)
	}

	reports, err := s.resolveReports(ctx, reportIDs, allApproved)
	if err != nil {
		return nil, err
	}
	groups, err := s.groupByProvider(ctx, reports)
	if err != nil {
		return nil, err
	}

	s.log.Info("Designing course architecture", "reports", len(reports), "providers", len(groups))
	planRaw, err := s.generateJSON(ctx, "", buildArchitecturePrompt(groups), architectureMaxTokens)
	if err != nil {
		return nil, err
	}
	var plan coursePlan
	if err := json.Unmarshal(planRaw, &plan); err != nil {
		return nil, fmt.Errorf("%w: course plan: %v", ErrParse, err)
	}
	if len(plan.Lessons) == 0 {
		return nil, fmt.Errorf("%w: course architecture returned no lessons", ErrParse)
	}
	if plan.Track == "" {
		plan.Track = "everyone"
	}
	if plan.Level == "" {
		plan.Level = "intermediate"
	}
	s.log.Info("Course architecture ready", "course", plan.CourseName, "lessons", len(plan.Lessons))

	docs := make([]slideDocument, 0, len(plan.Lessons))
	for i, lesson := range plan.Lessons {
		if i > 0 {
			if err := s.wait(ctx); err != nil {
				return nil, err
			}
		}
		s.log.Info("Generating lesson", "index", i+1, "total", len(plan.Lessons), "title", lesson.Title)

		docRaw, err := s.generateJSON(ctx, slideTemplatePrompt, buildLessonPrompt(lesson, groups), lessonMaxTokens)
		if err != nil {
			return nil, err
		}
		var doc slideDocument
		if err := json.Unmarshal(docRaw, &doc); err != nil {
			return nil, fmt.Errorf("%w: lesson %d: %v", ErrParse, i+1, err)
		}
		docs = append(docs, doc)
	}

	result, err := s.persist(ctx, reports, plan, docs)
	if err != nil {
		return nil, err
	}

	s.log.Info("Course generated", "course_id", result.Course.ID, "lessons", len(result.Lessons), "reports_processed", result.ReportsProcessed)
	return result, nil
}

func (s *courseSynthesizer) persist(ctx context.Context, reports []*types.ImpactReport, plan coursePlan, docs []slideDocument) (*GenerationResult, error) {
	now := time.Now().UTC()

	newLessons := make([]*types.Lesson, 0, len(plan.Lessons))
	lessonIDs := make([]uuid.UUID, 0, len(plan.Lessons))
	for i, lp := range plan.Lessons {
		doc := docs[i]
		title := doc.Title
		if title == "" {
			title = lp.Title
		}

		var providerID *uuid.UUID
		if provider, err := s.providers.GetByName(ctx, nil, lp.Provider); err != nil {
			return nil, err
		} else if provider != nil {
			providerID = &provider.ID
		}

		assessment, _ := json.Marshal(map[string]any{
			"scenario":            lp.Scenario,
			"slideCount":          len(doc.Slides),
			"generatedFromCourse": true,
		})

		lesson := &types.Lesson{
			ID:                 uuid.New(),
			Title:              title,
			ProviderID:         providerID,
			ProviderName:       lp.Provider,
			Level:              lp.Level,
			Objective:          joinObjectives(lp.Objectives, doc.CompanionDoc),
			KeyTopics:          lp.KeyTopics,
			PracticeAssessment: assessment,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		newLessons = append(newLessons, lesson)
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	course := &types.Course{
		ID:          uuid.New(),
		Name:        plan.CourseName,
		Track:       plan.Track,
		Level:       plan.Level,
		LessonIDs:   lessonIDs,
		LessonCount: len(lessonIDs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lessons.Create(ctx, tx, newLessons); err != nil {
			return err
		}
		if _, err := s.courses.Create(ctx, tx, course); err != nil {
			return err
		}

		joins := make([]*types.CourseLesson, 0, len(lessonIDs))
		for i, lessonID := range lessonIDs {
			joins = append(joins, &types.CourseLesson{
				CourseID: course.ID,
				LessonID: lessonID,
				Position: i + 1,
			})
		}
		if _, err := s.courseLessons.Create(ctx, tx, joins); err != nil {
			return err
		}

		for _, report := range reports {
			if err := s.reports.SetStatus(ctx, tx, report.ID, types.StatusDone, synthesizerActor, now); err != nil {
				return err
			}
			previous, _ := json.Marshal(map[string]string{"status": report.Status})
			next, _ := json.Marshal(map[string]any{"course_id": course.ID, "course_name": course.Name})
			if _, err := s.audit.Create(ctx, tx, &types.AuditLog{
				ID:            uuid.New(),
				EntityType:    types.EntityImpactReport,
				EntityID:      report.ID,
				Action:        types.AuditActionCourseGenerated,
				PreviousValue: previous,
				NewValue:      next,
				Actor:         synthesizerActor,
				Timestamp:     now,
			}); err != nil {
				return err
			}
		}

		reportIDs := make([]uuid.UUID, 0, len(reports))
		for _, r := range reports {
			reportIDs = append(reportIDs, r.ID)
		}
		courseBody, _ := json.Marshal(map[string]any{
			"name":        course.Name,
			"lessonCount": len(lessonIDs),
			"reportIds":   reportIDs,
		})
		_, err := s.audit.Create(ctx, tx, &types.AuditLog{
			ID:         uuid.New(),
			EntityType: types.EntityCourse,
			EntityID:   course.ID,
			Action:     types.AuditActionAutoGenerated,
			NewValue:   courseBody,
			Actor:      synthesizerActor,
			Timestamp:  now,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("persist generated course: %w", err)
	}

	providersIncluded := make([]string, 0, 4)
	seenProviders := make(map[string]bool)
	for _, report := range reports {
		if !seenProviders[report.Provider] {
			providersIncluded = append(providersIncluded, report.Provider)
			seenProviders[report.Provider] = true
		}
	}

	generated := make([]GeneratedLesson, 0, len(newLessons))
	for i, lesson := range newLessons {
		generated = append(generated, GeneratedLesson{
			ID:           lesson.ID,
			Title:        lesson.Title,
			Provider:     lesson.ProviderName,
			Level:        lesson.Level,
			SlideCount:   len(docs[i].Slides),
			Slides:       docs[i].Slides,
			CompanionDoc: docs[i].CompanionDoc,
		})
	}

	return &GenerationResult{
		Course:            course,
		CourseDescription: plan.CourseDescription,
		Lessons:           generated,
		ReportsProcessed:  len(reports),
		ProvidersIncluded: providersIncluded,
	}, nil
}

func joinObjectives(objectives []string, companionDoc string) string {
	if len(objectives) > 0 {
		return strings.Join(objectives, "; ")
	}
	if len(companionDoc) > 200 {
		return companionDoc[:200]
	}
	return companionDoc
}
