package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

const watcherUserAgent = "Mozilla/5.0 (compatible; MyAIcademyBot/1.0; curriculum-updates)"

// providerSources lists the pages polled for announcements.
var providerSources = []struct {
	Name     string
	Provider string
	BaseURL  string
	URL      string
	Keywords []string
}{
	{
		Name:     "OpenAI",
		Provider: "OpenAI",
		BaseURL:  "https://openai.com",
		URL:      "https://openai.com/blog",
		Keywords: []string{"chatgpt", "gpt-4", "gpt-5", "dall-e", "sora", "api", "update", "release", "feature"},
	},
	{
		Name:     "Anthropic",
		Provider: "Anthropic",
		BaseURL:  "https://www.anthropic.com",
		URL:      "https://www.anthropic.com/news",
		Keywords: []string{"claude", "update", "release", "feature", "model", "artifacts", "projects"},
	},
	{
		Name:     "Google",
		Provider: "Google",
		BaseURL:  "https://blog.google",
		URL:      "https://blog.google/technology/ai/",
		Keywords: []string{"gemini", "veo", "imagen", "notebooklm", "whisk", "update", "release", "feature"},
	},
}

const maxUpdatesPerSource = 10

var anchorPattern = regexp.MustCompile(`(?is)<a[^>]+href="([^"#]+)"[^>]*>(.*?)</a>`)
var tagStripper = regexp.MustCompile(`(?s)<[^>]*>`)

type WatcherService interface {
	// FetchAll pulls candidate updates from the configured sources (or the
	// built-in simulated set) and stores them. Returns only rows that were
	// actually new.
	FetchAll(ctx context.Context, useSimulated bool) ([]*types.Update, error)
	Ingest(ctx context.Context, update *types.Update) (*types.Update, bool, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Update, error)
	List(ctx context.Context, filter repos.UpdateFilter) ([]*types.Update, error)
	Unprocessed(ctx context.Context) ([]*types.Update, error)
}

type watcherService struct {
	log       *logger.Logger
	providers repos.ProviderRepo
	updates   repos.UpdateRepo
	http      *resty.Client
}

func NewWatcherService(baseLog *logger.Logger, providers repos.ProviderRepo, updates repos.UpdateRepo) WatcherService {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", watcherUserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return &watcherService{
		log:       baseLog.With("service", "WatcherService"),
		providers: providers,
		updates:   updates,
		http:      client,
	}
}

func (s *watcherService) FetchAll(ctx context.Context, useSimulated bool) ([]*types.Update, error) {
	var candidates []*types.Update

	if useSimulated {
		s.log.Info("Using simulated updates")
		candidates = simulatedUpdates()
	} else {
		for _, source := range providerSources {
			s.log.Info("Fetching provider source", "source", source.Name, "url", source.URL)
			found, err := s.fetchSource(ctx, source.Provider, source.BaseURL, source.URL, source.Keywords)
			if err != nil {
				s.log.Error("Failed to fetch provider source", "source", source.Name, "error", err)
				continue
			}
			s.log.Info("Source fetched", "source", source.Name, "candidates", len(found))
			candidates = append(candidates, found...)
		}
		if len(candidates) == 0 {
			s.log.Info("No live updates found, falling back to simulated set")
			candidates = simulatedUpdates()
		}
	}

	newUpdates := make([]*types.Update, 0, len(candidates))
	for _, candidate := range candidates {
		stored, created, err := s.Ingest(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if created {
			newUpdates = append(newUpdates, stored)
		}
	}

	s.log.Info("Updates stored", "new", len(newUpdates), "candidates", len(candidates))
	return newUpdates, nil
}

// fetchSource applies a crude anchor-text heuristic to a fetched page.
// The simulated set is the dependable path; live pages are best-effort.
func (s *watcherService) fetchSource(ctx context.Context, provider, baseURL, url string, keywords []string) ([]*types.Update, error) {
	resp, err := s.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("http %d fetching %s", resp.StatusCode(), url)
	}

	body := resp.String()
	seen := make(map[string]bool)
	updates := make([]*types.Update, 0, maxUpdatesPerSource)

	for _, match := range anchorPattern.FindAllStringSubmatch(body, -1) {
		if len(updates) >= maxUpdatesPerSource {
			break
		}
		href := strings.TrimSpace(match[1])
		title := strings.TrimSpace(tagStripper.ReplaceAllString(match[2], " "))
		title = strings.Join(strings.Fields(title), " ")
		if title == "" || href == "" || seen[href] {
			continue
		}

		lower := strings.ToLower(title)
		relevant := false
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}

		fullURL := href
		if !strings.HasPrefix(href, "http") {
			fullURL = baseURL + href
		}
		seen[href] = true
		updates = append(updates, &types.Update{
			Provider:  provider,
			Title:     title,
			SourceURL: fullURL,
			RawText:   title,
		})
	}
	return updates, nil
}

func (s *watcherService) Ingest(ctx context.Context, update *types.Update) (*types.Update, bool, error) {
	if update.SourceURL == "" {
		return nil, false, fmt.Errorf("%w: source_url required", ErrBadRequest)
	}
	if update.ID == uuid.Nil {
		update.ID = uuid.New()
	}
	if update.FetchedAt.IsZero() {
		update.FetchedAt = time.Now().UTC()
	}

	if update.ProviderID == nil && update.Provider != "" {
		provider, err := s.providers.GetByName(ctx, nil, update.Provider)
		if err != nil {
			return nil, false, err
		}
		if provider != nil {
			update.ProviderID = &provider.ID
		}
	}

	stored, created, err := s.updates.Create(ctx, nil, update)
	if err != nil {
		return nil, false, err
	}
	if !created {
		s.log.Debug("Update already ingested", "source_url", update.SourceURL, "update_id", stored.ID)
	}
	return stored, created, nil
}

func (s *watcherService) Get(ctx context.Context, id uuid.UUID) (*types.Update, error) {
	update, err := s.updates.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: update %s", ErrNotFound, id)
		}
		return nil, err
	}
	return update, nil
}

func (s *watcherService) List(ctx context.Context, filter repos.UpdateFilter) ([]*types.Update, error) {
	return s.updates.List(ctx, nil, filter)
}

func (s *watcherService) Unprocessed(ctx context.Context) ([]*types.Update, error) {
	processed := false
	return s.updates.List(ctx, nil, repos.UpdateFilter{Processed: &processed})
}

func timePtr(t time.Time) *time.Time { return &t }

// simulatedUpdates is the built-in demo feed used when live sources yield
// nothing.
func simulatedUpdates() []*types.Update {
	now := time.Now().UTC()
	daysAgo := func(n int) *time.Time { return timePtr(now.AddDate(0, 0, -n)) }

	return []*types.Update{
		{
			Provider:    "ChatGPT",
			Title:       "Operator - AI Agent That Uses the Web for You",
			Summary:     "OpenAI launches Operator, a new AI agent that can browse the web and complete tasks autonomously. Operator can fill out forms, book reservations, shop online, and interact with websites on your behalf.",
			SourceURL:   "https://openai.com/index/introducing-operator/",
			PublishedAt: daysAgo(1),
			RawText:     "Operator - AI Agent That Uses the Web for You\n\nOpenAI launches Operator, a new AI agent that can browse the web and complete tasks autonomously.",
			DocURLs: []types.DocURL{
				{Label: "Operator Announcement", URL: "https://openai.com/index/introducing-operator/"},
				{Label: "Operator Safety & Guidelines", URL: "https://openai.com/operator-system-card/"},
				{Label: "ChatGPT Release Notes", URL: "https://help.openai.com/en/articles/6825453-chatgpt-release-notes"},
			},
		},
		{
			Provider:    "Claude",
			Title:       "Claude Now Available on iPhone with New Mobile App",
			Summary:     "Anthropic releases the official Claude iOS app with voice conversations, photo analysis, and seamless sync with web chats. Includes new features like real-time voice mode and camera integration.",
			SourceURL:   "https://www.anthropic.com/news/claude-ios",
			PublishedAt: daysAgo(2),
			RawText:     "Claude Now Available on iPhone with New Mobile App\n\nAnthropic releases the official Claude iOS app with voice conversations, photo analysis, and seamless sync.",
			DocURLs: []types.DocURL{
				{Label: "Claude iOS App Announcement", URL: "https://www.anthropic.com/news/claude-ios"},
				{Label: "Claude Mobile Features", URL: "https://support.anthropic.com/en/collections/4078534-claude-mobile"},
				{Label: "Claude Release Notes", URL: "https://docs.anthropic.com/en/release-notes/overview"},
			},
		},
		{
			Provider:    "Gemini",
			Title:       "Gemini 2.0 Flash Thinking Mode - Enhanced Reasoning",
			Summary:     "Google releases Gemini 2.0 Flash with experimental Thinking Mode that shows the model reasoning process. Improved performance on complex math, coding, and multi-step problems.",
			SourceURL:   "https://ai.google.dev/gemini-api/docs/thinking-mode",
			PublishedAt: daysAgo(3),
			RawText:     "Gemini 2.0 Flash Thinking Mode - Enhanced Reasoning\n\nGoogle releases Gemini 2.0 Flash with experimental Thinking Mode that shows model reasoning.",
			DocURLs: []types.DocURL{
				{Label: "Thinking Mode Documentation", URL: "https://ai.google.dev/gemini-api/docs/thinking-mode"},
				{Label: "Gemini 2.0 Flash Guide", URL: "https://ai.google.dev/gemini-api/docs/models/gemini-v2"},
				{Label: "Google AI Blog - Gemini 2.0", URL: "https://blog.google/technology/google-deepmind/google-gemini-ai-update-december-2024/"},
			},
		},
		{
			Provider:    "MidJourney",
			Title:       "Midjourney V6.1 with Improved Coherence and Text Rendering",
			Summary:     "Midjourney releases V6.1 with significantly improved text rendering in images, better hand anatomy, and more coherent complex scenes. New --style raw parameter for photorealistic outputs.",
			SourceURL:   "https://docs.midjourney.com/docs/model-versions#v61",
			PublishedAt: daysAgo(4),
			RawText:     "Midjourney V6.1 with Improved Coherence and Text Rendering\n\nMidjourney releases V6.1 with improved text rendering, better hands, and coherent scenes.",
			DocURLs: []types.DocURL{
				{Label: "V6.1 Model Documentation", URL: "https://docs.midjourney.com/docs/model-versions#v61"},
				{Label: "V6.1 Parameter Guide", URL: "https://docs.midjourney.com/docs/parameter-list"},
				{Label: "Midjourney Changelog", URL: "https://docs.midjourney.com/changelog"},
			},
		},
		{
			Provider:    "ElevenLabs",
			Title:       "ElevenLabs Conversational AI - Build Voice Agents",
			Summary:     "ElevenLabs launches Conversational AI platform for building custom voice agents. Features include low-latency responses, interruption handling, custom knowledge bases, and tool calling.",
			SourceURL:   "https://elevenlabs.io/docs/conversational-ai/overview",
			PublishedAt: daysAgo(5),
			RawText:     "ElevenLabs Conversational AI - Build Voice Agents\n\nElevenLabs launches Conversational AI platform for building custom voice agents with low-latency responses.",
			DocURLs: []types.DocURL{
				{Label: "Conversational AI Overview", URL: "https://elevenlabs.io/docs/conversational-ai/overview"},
				{Label: "Build Your First Agent", URL: "https://elevenlabs.io/docs/conversational-ai/quickstart"},
				{Label: "Conversational AI API Reference", URL: "https://elevenlabs.io/docs/api-reference/conversational-ai"},
			},
		},
	}
}
