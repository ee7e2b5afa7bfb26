package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

func TestCalculateSeverity(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"feature x deprecated and removed", types.SeverityCritical},
		{"breaking change to the api", types.SeverityCritical},
		{"introducing a new feature now available", types.SeverityHigh},
		{"announcing the launch of our agent", types.SeverityHigh},
		{"improved performance and faster responses", types.SeverityMedium},
		{"bug fix for the upload dialog", types.SeverityLow},
		{"quarterly community roundup", types.SeverityInfo},
		// Critical keywords shadow everything below them.
		{"deprecated endpoints replaced, improved docs, new feature launch", types.SeverityCritical},
	}
	for _, tc := range cases {
		if got := calculateSeverity(tc.text); got != tc.want {
			t.Errorf("calculateSeverity(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestDetermineAction(t *testing.T) {
	cases := []struct {
		severity string
		affected int
		want     string
	}{
		{types.SeverityCritical, 2, types.ActionUpdateLesson},
		{types.SeverityCritical, 0, types.ActionUpdateMapping},
		{types.SeverityHigh, 1, types.ActionUpdateLesson},
		{types.SeverityHigh, 0, types.ActionCreateLesson},
		{types.SeverityMedium, 3, types.ActionUpdateLesson},
		{types.SeverityMedium, 0, types.ActionNoAction},
		{types.SeverityLow, 5, types.ActionNoAction},
		{types.SeverityInfo, 0, types.ActionNoAction},
	}
	for _, tc := range cases {
		if got := determineAction(tc.severity, tc.affected); got != tc.want {
			t.Errorf("determineAction(%q, %d) = %q, want %q", tc.severity, tc.affected, got, tc.want)
		}
	}
}

func TestRelevanceScore(t *testing.T) {
	lesson := "claude fundamentals deep reasoning artifacts and projects"

	if got := relevanceScore("claude reasoning artifacts", lesson); got != 1.0 {
		t.Errorf("full match score = %v, want 1.0", got)
	}
	if got := relevanceScore("claude kubernetes terraform ansible", lesson); got != 0.25 {
		t.Errorf("partial match score = %v, want 0.25", got)
	}
	// Words of three characters or fewer never count.
	if got := relevanceScore("a an the and", lesson); got != 0 {
		t.Errorf("short-word score = %v, want 0", got)
	}
	if got := relevanceScore("", lesson); got != 0 {
		t.Errorf("empty text score = %v, want 0", got)
	}
}

func TestAnalyzeMatchesProviderLessons(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	lesson := h.seedLesson(t, "Claude AI Fundamentals: Deep Reasoning, Artifacts, and Projects", "Claude",
		"Master Claude advanced features including deep reasoning and artifacts.",
		[]string{"Deep reasoning capabilities", "Artifacts creation"})
	update := h.seedUpdate(t, "Claude",
		"Claude Sonnet Reasoning Now Available",
		"Anthropic releases improved reasoning and artifacts for Claude.",
		"https://example.com/claude-sonnet")

	report, err := h.analyzer().Analyze(ctx, update)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.Severity != types.SeverityHigh {
		t.Errorf("severity = %q, want %q", report.Severity, types.SeverityHigh)
	}
	if report.RecommendedAction != types.ActionUpdateLesson {
		t.Errorf("action = %q, want %q", report.RecommendedAction, types.ActionUpdateLesson)
	}
	if len(report.AffectedLessons) == 0 {
		t.Fatal("expected affected lessons")
	}
	found := false
	for _, al := range report.AffectedLessons {
		if al.LessonID == lesson.ID {
			found = true
			if al.RelevanceScore <= 0.1 {
				t.Errorf("relevance score = %v, want > 0.1", al.RelevanceScore)
			}
		}
	}
	if !found {
		t.Errorf("lesson %s missing from affected lessons", lesson.ID)
	}
	if len(report.Citations) != 1 || report.Citations[0].URL != update.SourceURL {
		t.Errorf("citations = %+v, want one entry pointing at %s", report.Citations, update.SourceURL)
	}
	if report.Status != types.StatusNew {
		t.Errorf("status = %q, want %q", report.Status, types.StatusNew)
	}

	stored, err := h.updates.GetByID(ctx, nil, update.ID)
	if err != nil {
		t.Fatalf("reload update: %v", err)
	}
	if !stored.Processed {
		t.Error("update not marked processed after analysis")
	}
}

func TestAnalyzeKeywordSearchBaseline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Provider name only appears in the title, so the lesson is reachable
	// only through the free-text pass.
	lesson := h.seedLesson(t, "Create a 30-Day Content Calendar (Claude + Canva)", "Multiple",
		"Create a comprehensive content calendar.", []string{"Content planning strategies"})
	update := h.seedUpdate(t, "Claude", "Quarterly roadmap notes", "", "https://example.com/roadmap")

	report, err := h.analyzer().Analyze(ctx, update)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var score float64
	for _, al := range report.AffectedLessons {
		if al.LessonID == lesson.ID {
			score = al.RelevanceScore
		}
	}
	if score != 0.3 {
		t.Errorf("baseline relevance = %v, want 0.3", score)
	}
}

func TestAnalyzeCapsAffectedLessons(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		h.seedLesson(t, fmt.Sprintf("Gemini Workshop %d", i), "Gemini",
			"Learn gemini flash thinking reasoning features.", []string{"gemini flash thinking"})
	}
	update := h.seedUpdate(t, "Gemini",
		"Gemini Flash Thinking Reasoning Features",
		"gemini flash thinking reasoning features", "https://example.com/gemini-flash")

	report, err := h.analyzer().Analyze(ctx, update)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.AffectedLessons) != 10 {
		t.Fatalf("affected lessons = %d, want 10", len(report.AffectedLessons))
	}
	for i := 1; i < len(report.AffectedLessons); i++ {
		if report.AffectedLessons[i].RelevanceScore > report.AffectedLessons[i-1].RelevanceScore {
			t.Fatal("affected lessons not sorted by descending relevance")
		}
	}
}

func TestAnalyzeMappingSuggestions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	update := h.seedUpdate(t, "Canva",
		"Introducing new creative design features for business and student users",
		"Launch of creative visual tools for professional and education workflows.",
		"https://example.com/canva-launch")

	report, err := h.analyzer().Analyze(ctx, update)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.MappingSuggestions) == 0 {
		t.Fatal("expected mapping suggestions")
	}
	if len(report.MappingSuggestions) > 3 {
		t.Errorf("mapping suggestions = %d, want at most 3", len(report.MappingSuggestions))
	}
	for _, ms := range report.MappingSuggestions {
		if ms.QuestionID != "Q4" {
			t.Errorf("suggestion question id = %q, want Q4", ms.QuestionID)
		}
		if ms.SuggestedValue == "" || ms.Rationale == "" {
			t.Errorf("suggestion missing text: %+v", ms)
		}
	}
}

func TestAnalyzeNoSuggestionsWithoutCapabilityKeywords(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	update := h.seedUpdate(t, "Claude", "Maintenance patch", "Bug fix for creative business workflows.", "https://example.com/patch")
	report, err := h.analyzer().Analyze(ctx, update)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.MappingSuggestions) != 0 {
		t.Errorf("mapping suggestions = %d, want 0", len(report.MappingSuggestions))
	}
}

func TestAnalyzeIsIdempotentPerUpdate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	analyzer := h.analyzer()

	update := h.seedUpdate(t, "Claude", "Claude launch announcement", "", "https://example.com/idempotent")

	first, err := analyzer.Analyze(ctx, update)
	if err != nil {
		t.Fatalf("first Analyze: %v", err)
	}
	second, err := analyzer.Analyze(ctx, update)
	if err != nil {
		t.Fatalf("second Analyze: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("re-analysis created a new report: %s != %s", first.ID, second.ID)
	}

	all, err := h.reports.List(ctx, nil, repos.ImpactReportFilter{})
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("reports = %d, want 1", len(all))
	}
}

func TestAnalyzeAllUnprocessed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedUpdate(t, "Claude", "Claude update one", "", "https://example.com/one")
	h.seedUpdate(t, "Gemini", "Gemini update two", "", "https://example.com/two")
	h.seedUpdate(t, "Sora", "Sora update three", "", "https://example.com/three")

	reports, err := h.analyzer().AnalyzeAllUnprocessed(ctx)
	if err != nil {
		t.Fatalf("AnalyzeAllUnprocessed: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("reports = %d, want 3", len(reports))
	}

	processed := false
	remaining, err := h.updates.List(ctx, nil, repos.UpdateFilter{Processed: &processed})
	if err != nil {
		t.Fatalf("list unprocessed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("unprocessed updates remaining = %d, want 0", len(remaining))
	}

	// A second pass finds nothing new.
	again, err := h.analyzer().AnalyzeAllUnprocessed(ctx)
	if err != nil {
		t.Fatalf("second AnalyzeAllUnprocessed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second pass reports = %d, want 0", len(again))
	}
}

func TestStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u1 := h.seedUpdate(t, "Claude", "u1", "", "https://example.com/s1")
	u2 := h.seedUpdate(t, "Gemini", "u2", "", "https://example.com/s2")
	h.seedReport(t, u1, types.StatusNew)
	h.seedReport(t, u2, types.StatusApproved)

	stats, err := h.analyzer().Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("total = %d, want 2", stats.Total)
	}
	if stats.ByStatus[types.StatusNew] != 1 || stats.ByStatus[types.StatusApproved] != 1 {
		t.Errorf("by_status = %v", stats.ByStatus)
	}
	// Every known key is present even at zero.
	if _, ok := stats.ByStatus[types.StatusRejected]; !ok {
		t.Error("by_status missing zero-count key")
	}
	if _, ok := stats.BySeverity[types.SeverityCritical]; !ok {
		t.Error("by_severity missing zero-count key")
	}
	if _, ok := stats.ByAction[types.ActionNoAction]; !ok {
		t.Error("by_action missing zero-count key")
	}
	if stats.BySeverity[types.SeverityHigh] != 2 {
		t.Errorf("by_severity high = %d, want 2", stats.BySeverity[types.SeverityHigh])
	}
}
