package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/myaicademy/curriculum-ops/internal/types"
)

// scriptedClient returns canned responses in order and records the calls.
type scriptedClient struct {
	responses []string
	calls     int
}

func (c *scriptedClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if c.calls >= len(c.responses) {
		return "", fmt.Errorf("unexpected generation call %d", c.calls+1)
	}
	resp := c.responses[c.calls]
	c.calls++
	return resp, nil
}

const testPlanTwoLessons = `{
  "courseName": "AI Platform Updates Deep Dive",
  "courseDescription": "Hands-on coverage of the latest Claude and Gemini capabilities.",
  "track": "everyone",
  "level": "advanced",
  "lessons": [
    {"title": "Claude Workflow Automation", "provider": "Claude", "level": "advanced",
     "scenario": "Automate a legal intake pipeline", "objectives": ["Configure projects"],
     "keyTopics": ["projects", "artifacts"], "difficulty_notes": "Assumes prior Claude use"},
    {"title": "Gemini Thinking Mode in Practice", "provider": "Gemini", "level": "advanced",
     "scenario": "Debug a data pipeline with visible reasoning", "objectives": ["Read reasoning traces"],
     "keyTopics": ["thinking mode"], "difficulty_notes": "Focus on edge cases"}
  ]
}`

const testPlanOneLesson = `{
  "courseName": "Claude Refresh",
  "courseDescription": "One-lesson refresh.",
  "lessons": [
    {"title": "Claude Refresh Lesson", "provider": "Claude", "level": "intermediate",
     "scenario": "Refresh workflow", "objectives": ["Objective one"], "keyTopics": ["topic"],
     "difficulty_notes": "n/a"}
  ]
}`

func lessonDoc(title string, slideCount int) string {
	slides := ""
	for i := 0; i < slideCount; i++ {
		if i > 0 {
			slides += ", "
		}
		slides += fmt.Sprintf(`{"type": "step", "stepNumber": %d}`, i+1)
	}
	return fmt.Sprintf(`{"title": %q, "slides": [%s], "companionDoc": "Summary."}`, title, slides)
}

func (h *harness) approvedReport(t *testing.T, provider, sourceURL string) *types.ImpactReport {
	t.Helper()
	update := h.seedUpdate(t, provider, provider+" announcement", "Details.", sourceURL)
	return h.seedReport(t, update, types.StatusApproved)
}

func TestGenerateFromReports(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	r1 := h.approvedReport(t, "Claude", "https://example.com/gen-claude")
	r2 := h.approvedReport(t, "Gemini", "https://example.com/gen-gemini")

	gen := &scriptedClient{responses: []string{
		testPlanTwoLessons,
		lessonDoc("Claude Workflow Automation", 3),
		lessonDoc("Gemini Thinking Mode in Practice", 2),
	}}

	result, err := h.synthesizer(gen).GenerateFromReports(ctx, []uuid.UUID{r1.ID, r2.ID}, false)
	if err != nil {
		t.Fatalf("GenerateFromReports: %v", err)
	}
	if gen.calls != 3 {
		t.Errorf("generation calls = %d, want 3", gen.calls)
	}

	if result.Course.Name != "AI Platform Updates Deep Dive" {
		t.Errorf("course name = %q", result.Course.Name)
	}
	if result.Course.Track != "everyone" || result.Course.Level != "advanced" {
		t.Errorf("course track/level = %q/%q", result.Course.Track, result.Course.Level)
	}
	if result.ReportsProcessed != 2 {
		t.Errorf("reports processed = %d, want 2", result.ReportsProcessed)
	}
	if len(result.ProvidersIncluded) != 2 {
		t.Errorf("providers included = %v", result.ProvidersIncluded)
	}
	if len(result.Lessons) != 2 {
		t.Fatalf("lessons = %d, want 2", len(result.Lessons))
	}
	if result.Lessons[0].SlideCount != 3 || result.Lessons[1].SlideCount != 2 {
		t.Errorf("slide counts = %d, %d", result.Lessons[0].SlideCount, result.Lessons[1].SlideCount)
	}

	ordered, err := h.courseLessons.GetOrderedLessons(ctx, nil, result.Course.ID)
	if err != nil {
		t.Fatalf("ordered lessons: %v", err)
	}
	if len(ordered) != 2 {
		t.Fatalf("persisted course lessons = %d, want 2", len(ordered))
	}
	if ordered[0].Title != "Claude Workflow Automation" || ordered[1].Title != "Gemini Thinking Mode in Practice" {
		t.Errorf("lesson order = %q, %q", ordered[0].Title, ordered[1].Title)
	}

	for _, report := range []*types.ImpactReport{r1, r2} {
		stored, err := h.reports.GetByID(ctx, nil, report.ID)
		if err != nil {
			t.Fatalf("reload report: %v", err)
		}
		if stored.Status != types.StatusDone {
			t.Errorf("report %s status = %q, want done", report.ID, stored.Status)
		}
		if stored.ReviewedBy != "course-generator" {
			t.Errorf("report %s reviewed_by = %q", report.ID, stored.ReviewedBy)
		}

		entries, err := h.audit.GetByEntity(ctx, nil, types.EntityImpactReport, report.ID)
		if err != nil {
			t.Fatalf("audit lookup: %v", err)
		}
		if len(entries) != 1 || entries[0].Action != types.AuditActionCourseGenerated {
			t.Errorf("report %s audit entries = %+v, want one course_generated", report.ID, entries)
		}
	}

	courseEntries, err := h.audit.GetByEntity(ctx, nil, types.EntityCourse, result.Course.ID)
	if err != nil {
		t.Fatalf("course audit lookup: %v", err)
	}
	if len(courseEntries) != 1 || courseEntries[0].Action != types.AuditActionAutoGenerated {
		t.Errorf("course audit entries = %+v, want one auto_generated", courseEntries)
	}
}

func TestGenerateRetriesOnceOnBadOutput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	report := h.approvedReport(t, "Claude", "https://example.com/gen-retry")

	gen := &scriptedClient{responses: []string{
		"I am unable to produce JSON right now.",
		testPlanOneLesson,
		lessonDoc("Claude Refresh Lesson", 2),
	}}

	result, err := h.synthesizer(gen).GenerateFromReports(ctx, []uuid.UUID{report.ID}, false)
	if err != nil {
		t.Fatalf("GenerateFromReports: %v", err)
	}
	if gen.calls != 3 {
		t.Errorf("generation calls = %d, want 3", gen.calls)
	}
	// Defaults apply when the plan omits track and level.
	if result.Course.Track != "everyone" || result.Course.Level != "intermediate" {
		t.Errorf("course track/level = %q/%q", result.Course.Track, result.Course.Level)
	}
}

func TestGenerateFailsAfterSecondBadOutput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	report := h.approvedReport(t, "Claude", "https://example.com/gen-fail")

	gen := &scriptedClient{responses: []string{"not json", "still not json"}}
	_, err := h.synthesizer(gen).GenerateFromReports(ctx, []uuid.UUID{report.ID}, false)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	if gen.calls != 2 {
		t.Errorf("generation calls = %d, want 2", gen.calls)
	}

	// Nothing persisted on failure.
	stored, err := h.reports.GetByID(ctx, nil, report.ID)
	if err != nil {
		t.Fatalf("reload report: %v", err)
	}
	if stored.Status != types.StatusApproved {
		t.Errorf("report status = %q after failed generation, want approved", stored.Status)
	}
}

func TestGenerateWithoutClient(t *testing.T) {
	h := newHarness(t)

	_, err := h.synthesizer(nil).GenerateFromReports(context.Background(), nil, true)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestGenerateRejectsUnapprovedReport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	update := h.seedUpdate(t, "Claude", "unreviewed", "", "https://example.com/gen-unapproved")
	report := h.seedReport(t, update, types.StatusNew)

	gen := &scriptedClient{}
	_, err := h.synthesizer(gen).GenerateFromReports(ctx, []uuid.UUID{report.ID}, false)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
	if gen.calls != 0 {
		t.Errorf("generation calls = %d before validation failure, want 0", gen.calls)
	}
}

func TestGenerateAllApprovedRequiresReports(t *testing.T) {
	h := newHarness(t)

	_, err := h.synthesizer(&scriptedClient{}).GenerateFromReports(context.Background(), nil, true)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestGenerateMissingReport(t *testing.T) {
	h := newHarness(t)

	_, err := h.synthesizer(&scriptedClient{}).GenerateFromReports(context.Background(), []uuid.UUID{uuid.New()}, false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
