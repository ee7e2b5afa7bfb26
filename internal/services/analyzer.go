package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

// severityTiers are checked in order; the first tier with a matching keyword
// wins, so critical shadows everything below it.
var severityTiers = []struct {
	Severity string
	Keywords []string
}{
	{types.SeverityCritical, []string{"deprecated", "removed", "breaking", "discontinued", "end of life", "shutdown"}},
	{types.SeverityHigh, []string{"new feature", "introducing", "announcing", "launch", "release", "now available"}},
	{types.SeverityMedium, []string{"improved", "enhanced", "better", "faster", "updated", "upgrade"}},
	{types.SeverityLow, []string{"fix", "patch", "minor", "bug fix", "documentation"}},
}

// providerAliases maps canonical provider names to the spellings seen in
// announcement text. Ordered so matching stays deterministic.
var providerAliases = []struct {
	Name    string
	Aliases []string
}{
	{"ChatGPT", []string{"chatgpt", "gpt-4", "gpt-4o", "gpt-5", "openai chat"}},
	{"Claude", []string{"claude", "anthropic", "claude 3", "sonnet", "opus", "haiku"}},
	{"Gemini", []string{"gemini", "google ai", "bard", "gemini pro", "gemini flash"}},
	{"Veo", []string{"veo", "google veo", "veo 2", "veo 3"}},
	{"MidJourney", []string{"midjourney", "mid journey", "mj"}},
	{"ElevenLabs", []string{"elevenlabs", "eleven labs", "11labs"}},
	{"n8n", []string{"n8n", "nodemation"}},
	{"Replit", []string{"replit", "repl.it"}},
	{"Sora", []string{"sora", "openai sora"}},
	{"NotebookLM", []string{"notebooklm", "notebook lm", "google notebooklm"}},
	{"Perplexity", []string{"perplexity", "perplexity ai"}},
	{"Canva", []string{"canva", "magic studio"}},
	{"Lovable", []string{"lovable", "lovable.dev"}},
	{"Julius AI", []string{"julius", "julius ai"}},
	{"Gamma", []string{"gamma", "gamma.app"}},
	{"Google Whisk", []string{"whisk", "google whisk"}},
}

var newCapabilityKeywords = []string{"new", "launch", "introducing", "now", "feature", "capability"}

var segmentKeywords = []struct {
	Track    string
	Keywords []string
}{
	{"high_school", []string{"student", "teen", "education", "school", "learning"}},
	{"college", []string{"university", "college", "academic", "research", "student"}},
	{"early_career", []string{"professional", "workplace", "enterprise", "business", "productivity"}},
	{"creative", []string{"creative", "design", "art", "visual", "content", "media"}},
	{"entrepreneur", []string{"business", "startup", "entrepreneur", "founder", "company"}},
	{"everyone", []string{"everyone", "consumer", "personal", "everyday"}},
}

const maxAffectedLessons = 10
const maxMappingSuggestions = 3

// ReportStats summarizes the impact report table for dashboards.
type ReportStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	BySeverity map[string]int64 `json:"by_severity"`
	ByAction   map[string]int64 `json:"by_action"`
}

type AnalyzerService interface {
	Analyze(ctx context.Context, update *types.Update) (*types.ImpactReport, error)
	AnalyzeAllUnprocessed(ctx context.Context) ([]*types.ImpactReport, error)
	Stats(ctx context.Context) (*ReportStats, error)
}

type analyzerService struct {
	db      *gorm.DB
	log     *logger.Logger
	lessons repos.LessonRepo
	updates repos.UpdateRepo
	reports repos.ImpactReportRepo
}

func NewAnalyzerService(db *gorm.DB, baseLog *logger.Logger, lessons repos.LessonRepo, updates repos.UpdateRepo, reports repos.ImpactReportRepo) AnalyzerService {
	return &analyzerService{
		db:      db,
		log:     baseLog.With("service", "AnalyzerService"),
		lessons: lessons,
		updates: updates,
		reports: reports,
	}
}

func combinedText(update *types.Update) string {
	return strings.ToLower(update.Title + " " + update.Summary + " " + update.RawText)
}

func calculateSeverity(text string) string {
	for _, tier := range severityTiers {
		for _, kw := range tier.Keywords {
			if strings.Contains(text, kw) {
				return tier.Severity
			}
		}
	}
	return types.SeverityInfo
}

func determineAction(severity string, affectedCount int) string {
	switch severity {
	case types.SeverityCritical:
		if affectedCount > 0 {
			return types.ActionUpdateLesson
		}
		return types.ActionUpdateMapping
	case types.SeverityHigh:
		if affectedCount > 0 {
			return types.ActionUpdateLesson
		}
		return types.ActionCreateLesson
	case types.SeverityMedium:
		if affectedCount > 0 {
			return types.ActionUpdateLesson
		}
	}
	return types.ActionNoAction
}

// relevanceScore is the fraction of update words (longer than 3 chars) that
// appear somewhere in the lesson's title, objective or key topics.
func relevanceScore(updateText, lessonText string) float64 {
	words := make([]string, 0, 32)
	for _, w := range strings.Fields(updateText) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return 0
	}
	matching := 0
	for _, w := range words {
		if strings.Contains(lessonText, w) {
			matching++
		}
	}
	score := float64(matching) / float64(len(words))
	if score > 1 {
		score = 1
	}
	return score
}

func lessonMatchText(lesson *types.Lesson) string {
	return strings.ToLower(lesson.Title + " " + lesson.Objective + " " + strings.Join(lesson.KeyTopics, " "))
}

func suggestedChanges(severity, updateTitle, lessonTitle string) string {
	switch severity {
	case types.SeverityCritical:
		return fmt.Sprintf("URGENT: Review and update %q - %s may affect core functionality taught in this lesson.", lessonTitle, updateTitle)
	case types.SeverityHigh:
		return fmt.Sprintf("Consider adding new content about %q to %q - this feature should be covered.", updateTitle, lessonTitle)
	case types.SeverityMedium:
		return fmt.Sprintf("Review %q and consider mentioning: %s", lessonTitle, updateTitle)
	}
	return fmt.Sprintf("Optional: Check if %q needs minor updates for: %s", lessonTitle, updateTitle)
}

func (s *analyzerService) findAffectedLessons(ctx context.Context, update *types.Update, text, severity string) ([]types.AffectedLesson, error) {
	mentioned := make([]string, 0, 4)
	seen := make(map[string]bool)
	for _, entry := range providerAliases {
		for _, alias := range entry.Aliases {
			if strings.Contains(text, alias) {
				if !seen[entry.Name] {
					mentioned = append(mentioned, entry.Name)
					seen[entry.Name] = true
				}
				break
			}
		}
	}
	if update.Provider != "" && !seen[update.Provider] {
		mentioned = append(mentioned, update.Provider)
		seen[update.Provider] = true
	}

	affected := make([]types.AffectedLesson, 0, maxAffectedLessons)
	included := make(map[uuid.UUID]bool)

	for _, providerName := range mentioned {
		lessons, err := s.lessons.List(ctx, nil, repos.LessonFilter{ProviderName: providerName})
		if err != nil {
			return nil, fmt.Errorf("list lessons for provider %q: %w", providerName, err)
		}
		for _, lesson := range lessons {
			if included[lesson.ID] {
				continue
			}
			score := relevanceScore(text, lessonMatchText(lesson))
			if score > 0.1 {
				affected = append(affected, types.AffectedLesson{
					LessonID:         lesson.ID,
					LessonTitle:      lesson.Title,
					RelevanceScore:   score,
					SuggestedChanges: suggestedChanges(severity, update.Title, lesson.Title),
				})
				included[lesson.ID] = true
			}
		}
	}

	// Free-text pass across all lesson fields; anything new comes in at a
	// fixed baseline score.
	if update.Provider != "" {
		matches, err := s.lessons.Search(ctx, nil, update.Provider)
		if err != nil {
			return nil, fmt.Errorf("search lessons for %q: %w", update.Provider, err)
		}
		for _, lesson := range matches {
			if included[lesson.ID] {
				continue
			}
			affected = append(affected, types.AffectedLesson{
				LessonID:         lesson.ID,
				LessonTitle:      lesson.Title,
				RelevanceScore:   0.3,
				SuggestedChanges: fmt.Sprintf("Review lesson content for updates related to: %s", update.Title),
			})
			included[lesson.ID] = true
		}
	}

	sort.SliceStable(affected, func(i, j int) bool {
		return affected[i].RelevanceScore > affected[j].RelevanceScore
	})
	if len(affected) > maxAffectedLessons {
		affected = affected[:maxAffectedLessons]
	}
	return affected, nil
}

func findMappingSuggestions(update *types.Update, text string) []types.MappingSuggestion {
	suggestions := make([]types.MappingSuggestion, 0, maxMappingSuggestions)

	hasNewCapability := false
	for _, kw := range newCapabilityKeywords {
		if strings.Contains(text, kw) {
			hasNewCapability = true
			break
		}
	}
	if !hasNewCapability {
		return suggestions
	}

	for _, segment := range segmentKeywords {
		for _, kw := range segment.Keywords {
			if strings.Contains(text, kw) {
				suggestions = append(suggestions, types.MappingSuggestion{
					QuestionID:     "Q4",
					SuggestedValue: fmt.Sprintf("Consider %s track for users interested in: %s", segment.Track, update.Title),
					Rationale:      fmt.Sprintf("Update mentions capabilities relevant to %s track users", segment.Track),
				})
				break
			}
		}
		if len(suggestions) == maxMappingSuggestions {
			break
		}
	}
	return suggestions
}

func generateRationale(update *types.Update, severity string, affected []types.AffectedLesson, suggestions []types.MappingSuggestion) string {
	parts := []string{fmt.Sprintf("Update from %s: %q", update.Provider, update.Title)}

	switch severity {
	case types.SeverityCritical:
		parts = append(parts, "This update appears to contain breaking changes or deprecated features that may affect existing lessons.")
	case types.SeverityHigh:
		parts = append(parts, "This update introduces significant new features that should be covered in the curriculum.")
	case types.SeverityMedium:
		parts = append(parts, "This update contains enhancements that may be worth mentioning in relevant lessons.")
	case types.SeverityLow:
		parts = append(parts, "This is a minor update that may not require curriculum changes.")
	default:
		parts = append(parts, "This update is informational and likely does not require curriculum changes.")
	}

	if len(affected) > 0 {
		parts = append(parts, fmt.Sprintf("%d lesson(s) may be affected, with the most relevant being %q.", len(affected), affected[0].LessonTitle))
	}
	if len(suggestions) > 0 {
		parts = append(parts, "Consider reviewing course mapping rules for potential updates.")
	}
	return strings.Join(parts, " ")
}

func (s *analyzerService) Analyze(ctx context.Context, update *types.Update) (*types.ImpactReport, error) {
	if update == nil {
		return nil, fmt.Errorf("%w: update required", ErrBadRequest)
	}

	// update_id is the dedup key: a replayed analysis returns the report
	// already produced for this update.
	if existing, err := s.reports.GetByUpdateID(ctx, nil, update.ID); err != nil {
		return nil, err
	} else if existing != nil {
		s.log.Debug("Update already analyzed, returning existing report", "update_id", update.ID, "report_id", existing.ID)
		return existing, nil
	}

	s.log.Info("Analyzing update", "update_id", update.ID, "title", update.Title)

	text := combinedText(update)
	severity := calculateSeverity(text)

	affected, err := s.findAffectedLessons(ctx, update, text, severity)
	if err != nil {
		return nil, err
	}
	action := determineAction(severity, len(affected))
	suggestions := findMappingSuggestions(update, text)
	rationale := generateRationale(update, severity, affected, suggestions)
	citations := []types.Citation{{Text: update.Title, URL: update.SourceURL}}

	now := time.Now().UTC()
	report := &types.ImpactReport{
		ID:                 uuid.New(),
		UpdateID:           update.ID,
		Provider:           update.Provider,
		Severity:           severity,
		RecommendedAction:  action,
		AffectedLessons:    affected,
		MappingSuggestions: suggestions,
		Rationale:          rationale,
		Citations:          citations,
		Status:             types.StatusNew,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// Report creation and the processed flip stand or fall together.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.reports.Create(ctx, tx, report); err != nil {
			return err
		}
		return s.updates.MarkProcessed(ctx, tx, update.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("persist impact report: %w", err)
	}

	s.log.Info("Impact report created",
		"report_id", report.ID,
		"severity", severity,
		"action", action,
		"affected_lessons", len(affected),
	)
	return report, nil
}

// AnalyzeAllUnprocessed drains the unprocessed queue best-effort: a failure
// on one update is collected and the batch continues.
func (s *analyzerService) AnalyzeAllUnprocessed(ctx context.Context) ([]*types.ImpactReport, error) {
	processed := false
	unprocessed, err := s.updates.List(ctx, nil, repos.UpdateFilter{Processed: &processed})
	if err != nil {
		return nil, err
	}
	s.log.Info("Analyzing unprocessed updates", "count", len(unprocessed))

	reports := make([]*types.ImpactReport, 0, len(unprocessed))
	var failures []error
	for _, update := range unprocessed {
		report, err := s.Analyze(ctx, update)
		if err != nil {
			s.log.Error("Failed to analyze update", "update_id", update.ID, "error", err)
			failures = append(failures, fmt.Errorf("update %s: %w", update.ID, err))
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(failures...)
}

func (s *analyzerService) Stats(ctx context.Context) (*ReportStats, error) {
	byStatus, err := s.reports.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	bySeverity, err := s.reports.CountBySeverity(ctx, nil)
	if err != nil {
		return nil, err
	}
	byAction, err := s.reports.CountByAction(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats := &ReportStats{
		ByStatus:   map[string]int64{types.StatusNew: 0, types.StatusApproved: 0, types.StatusRejected: 0, types.StatusAssigned: 0, types.StatusDone: 0},
		BySeverity: map[string]int64{types.SeverityCritical: 0, types.SeverityHigh: 0, types.SeverityMedium: 0, types.SeverityLow: 0, types.SeverityInfo: 0},
		ByAction:   map[string]int64{types.ActionUpdateLesson: 0, types.ActionCreateLesson: 0, types.ActionUpdateMapping: 0, types.ActionNoAction: 0},
	}
	for k, v := range byStatus {
		stats.ByStatus[k] = v
		stats.Total += v
	}
	for k, v := range bySeverity {
		stats.BySeverity[k] = v
	}
	for k, v := range byAction {
		stats.ByAction[k] = v
	}
	return stats, nil
}
