package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

const seedActor = "system"

type SeedService interface {
	// SeedCatalog loads the starter providers, lessons, courses, and mapping
	// rules. Safe to call on every boot; a non-empty provider table means the
	// catalog is already in place and the call is a no-op.
	SeedCatalog(ctx context.Context) error
}

type seedService struct {
	db           *gorm.DB
	log          *logger.Logger
	providers    repos.ProviderRepo
	lessons      repos.LessonRepo
	courses      repos.CourseRepo
	courseLessns repos.CourseLessonRepo
	rules        MappingRuleService
}

func NewSeedService(
	db *gorm.DB,
	baseLog *logger.Logger,
	providers repos.ProviderRepo,
	lessons repos.LessonRepo,
	courses repos.CourseRepo,
	courseLessons repos.CourseLessonRepo,
	rules MappingRuleService,
) SeedService {
	return &seedService{
		db:           db,
		log:          baseLog.With("service", "SeedService"),
		providers:    providers,
		lessons:      lessons,
		courses:      courses,
		courseLessns: courseLessons,
		rules:        rules,
	}
}

type seedProvider struct {
	Name         string
	Category     string
	WebsiteURL   string
	ChangelogURL string
}

var seedProviders = []seedProvider{
	{"ChatGPT", "llm", "https://chat.openai.com", "https://openai.com/blog"},
	{"Claude", "llm", "https://claude.ai", "https://www.anthropic.com/news"},
	{"Gemini", "llm", "https://gemini.google.com", "https://blog.google/technology/ai/"},
	{"NotebookLM", "research", "https://notebooklm.google.com", ""},
	{"Perplexity", "research", "https://www.perplexity.ai", "https://www.perplexity.ai/hub"},
	{"MidJourney", "image", "https://www.midjourney.com", "https://docs.midjourney.com/docs/model-versions"},
	{"DALL-E 3", "image", "https://openai.com/dall-e-3", "https://openai.com/blog"},
	{"Imagen", "image", "https://deepmind.google/technologies/imagen-3/", ""},
	{"Canva", "image", "https://www.canva.com", "https://www.canva.com/designschool/whats-new/"},
	{"Runway ML", "video", "https://runwayml.com", "https://runwayml.com/changelog"},
	{"Sora", "video", "https://openai.com/sora", "https://openai.com/blog"},
	{"Veo", "video", "https://deepmind.google/technologies/veo/", "https://blog.google/technology/ai/"},
	{"HeyGen", "video", "https://www.heygen.com", "https://www.heygen.com/changelog"},
	{"ElevenLabs", "audio", "https://elevenlabs.io", "https://elevenlabs.io/changelog"},
	{"Julius AI", "data", "https://julius.ai", ""},
	{"Gamma", "data", "https://gamma.app", "https://gamma.app/changelog"},
	{"n8n", "automation", "https://n8n.io", "https://docs.n8n.io/release-notes/"},
	{"Replit", "nocode", "https://replit.com", "https://blog.replit.com"},
	{"Lovable", "nocode", "https://lovable.dev", ""},
	{"UX Pilot", "nocode", "https://uxpilot.ai", ""},
	{"Google Whisk", "image", "https://labs.google/fx/tools/whisk", ""},
}

type seedLesson struct {
	Title        string
	ProviderName string
	Level        string
	Objective    string
	KeyTopics    []string
}

var seedLessons = []seedLesson{
	{
		Title:        "Say Hello to Generative AI",
		ProviderName: "Multiple",
		Level:        "beginner",
		Objective:    "Understand the fundamentals of AI and Generative AI, their key differences, how generative models are trained, and their real world applications.",
		KeyTopics:    []string{"What is AI?", "What is Generative AI?", "How is Generative AI different from traditional AI?", "How does Generative AI train?", "Applications of Generative AI"},
	},
	{
		Title:        "Prompt Like a Pro",
		ProviderName: "Multiple",
		Level:        "beginner",
		Objective:    "Learn what prompts are, how LLMs respond to them, the main prompt types, and practical techniques to control and improve AI outputs.",
		KeyTopics:    []string{"What a prompt is and how LLMs use it", "Types of prompts zero shot one shot few shot", "Role prompting for controlling tone and style", "Best practices for writing clear effective prompts"},
	},
	{
		Title:        "Your AI Research Buddy with NotebookLM",
		ProviderName: "NotebookLM",
		Level:        "beginner",
		Objective:    "Learn what NotebookLM is and how it helps you organize sources, get grounded summaries and answers, and study faster with clear notes and audio support.",
		KeyTopics:    []string{"NotebookLM overview as smart study assistant", "Uploading and organizing sources in one place", "Getting summaries answers and key takeaways", "Listening to audio summaries to learn on the go"},
	},
	{
		Title:        "AI Agents: The Tools That Think and Act",
		ProviderName: "Multiple",
		Level:        "beginner",
		Objective:    "Understand what AI agents are, how they differ from normal LLMs and traditional software, and how they follow the Perceive Decide Act loop.",
		KeyTopics:    []string{"Definition of AI agents", "Perceive Decide Act cycle", "Types of AI agents simple reflex goal based learning", "Difference between LLMs and AI agents"},
	},
	{
		Title:        "Building AI Agents with ChatGPT in Under 10 Minutes",
		ProviderName: "ChatGPT",
		Level:        "beginner",
		Objective:    "Learn what agentic AI is and how to use ChatGPT Agent Mode to build a simple no code AI agent that can research, take actions, and generate practical outputs for real tasks.",
		KeyTopics:    []string{"Agentic AI definition and differences from normal LLMs", "Core building blocks of an AI agent like tools workflows and memory", "Step by step process to build an agent in ChatGPT Agent Mode", "Best practices and common mistakes when prompting AI agents"},
	},
	{
		Title:        "Understand Your Data Like a Pro with Julius AI",
		ProviderName: "Julius AI",
		Level:        "beginner",
		Objective:    "Learn how to use Julius AI as a no code data analyst to upload real datasets, clean them, ask structured questions, and turn them into clear insights and charts.",
		KeyTopics:    []string{"Julius AI as a no code data analyst", "Uploading and connecting your datasets", "Cleaning and preparing messy data", "Generating charts and reports for decisions"},
	},
	{
		Title:        "Canva AI 101",
		ProviderName: "Canva",
		Level:        "beginner",
		Objective:    "Understand Canva Magic Studio and how to use its AI powered tools to create, edit, and repurpose visual content faster and more creatively.",
		KeyTopics:    []string{"Canva Magic Studio overview", "Magic Write and Magic Design features", "Magic Media image and video generation", "Free and Pro AI feature differences"},
	},
	{
		Title:        "Claude Cowork 101",
		ProviderName: "Claude",
		Level:        "intermediate",
		Objective:    "Learn to use Claude for collaborative work and projects.",
		KeyTopics:    []string{"Claude Cowork overview", "Project collaboration features", "Document analysis and synthesis", "Workflow optimization"},
	},
	{
		Title:        "Building Custom GPTs in ChatGPT: Create Your Personal AI Assistant",
		ProviderName: "ChatGPT",
		Level:        "intermediate",
		Objective:    "Learn to create custom GPTs for specific use cases and workflows.",
		KeyTopics:    []string{"Custom GPT setup", "Configuration options", "Knowledge base integration", "Sharing and deployment"},
	},
	{
		Title:        "Perplexity AI for Research & Fact-Checking",
		ProviderName: "Perplexity",
		Level:        "intermediate",
		Objective:    "Use Perplexity AI for accurate research and fact-checking.",
		KeyTopics:    []string{"Perplexity search features", "Source verification", "Research workflows", "Citation management"},
	},
	{
		Title:        "Google Veo 3 Foundations: AI Video Creation with Native Audio & Lip-Sync",
		ProviderName: "Veo",
		Level:        "intermediate",
		Objective:    "Learn the fundamentals of AI video creation with Google Veo 3.",
		KeyTopics:    []string{"Veo 3 interface overview", "Text-to-video generation", "Native audio integration", "Lip-sync capabilities"},
	},
	{
		Title:        "ElevenLabs Essentials: Text-to-Speech & Voice Selection",
		ProviderName: "ElevenLabs",
		Level:        "intermediate",
		Objective:    "Learn text-to-speech basics and voice selection in ElevenLabs.",
		KeyTopics:    []string{"Text-to-speech fundamentals", "Voice library navigation", "Voice selection criteria", "Audio output settings"},
	},
	{
		Title:        "Midjourney Essentials: AI Image Creation for Beginners",
		ProviderName: "MidJourney",
		Level:        "intermediate",
		Objective:    "Learn the fundamentals of AI image creation with Midjourney.",
		KeyTopics:    []string{"Midjourney interface", "Basic prompting techniques", "Style parameters", "Image variations"},
	},
	{
		Title:        "Prompt Chaining with ChatGPT: Build Multi-Step AI Workflows",
		ProviderName: "ChatGPT",
		Level:        "advanced",
		Objective:    "Build complex multi-step AI workflows using prompt chaining.",
		KeyTopics:    []string{"Prompt chaining concepts", "Workflow design", "Output handling", "Error management"},
	},
	{
		Title:        "Claude AI Fundamentals: Deep Reasoning, Artifacts, and Projects",
		ProviderName: "Claude",
		Level:        "advanced",
		Objective:    "Master Claude advanced features including deep reasoning and artifacts.",
		KeyTopics:    []string{"Deep reasoning capabilities", "Artifacts creation", "Project management", "Advanced use cases"},
	},
	{
		Title:        "n8n Fundamentals: Building Your First Automation Workflow",
		ProviderName: "n8n",
		Level:        "advanced",
		Objective:    "Build powerful automation workflows with n8n.",
		KeyTopics:    []string{"n8n interface overview", "Workflow nodes", "Trigger configuration", "Data transformation"},
	},
	{
		Title:        "Lovable No-Code Platform: Build Full-Stack Apps in Minutes",
		ProviderName: "Lovable",
		Level:        "advanced",
		Objective:    "Build full-stack applications using Lovable no-code platform.",
		KeyTopics:    []string{"Lovable interface", "App architecture", "Database integration", "Deployment options"},
	},
}

type seedCourse struct {
	Name   string
	Track  string
	Level  string
	Titles []string
}

var seedCourses = []seedCourse{
	{
		Name:  "Master Generative AI for Everyone",
		Track: "everyone",
		Level: "beginner",
		Titles: []string{
			"Say Hello to Generative AI",
			"Prompt Like a Pro",
			"Your AI Research Buddy with NotebookLM",
			"AI Agents: The Tools That Think and Act",
		},
	},
	{
		Name:  "Generative AI Accelerator for Everyone",
		Track: "everyone",
		Level: "intermediate",
		Titles: []string{
			"Claude Cowork 101",
			"Building Custom GPTs in ChatGPT: Create Your Personal AI Assistant",
			"Perplexity AI for Research & Fact-Checking",
			"Google Veo 3 Foundations: AI Video Creation with Native Audio & Lip-Sync",
			"Midjourney Essentials: AI Image Creation for Beginners",
		},
	},
	{
		Name:  "Generative AI Mastery for Everyone",
		Track: "everyone",
		Level: "advanced",
		Titles: []string{
			"Prompt Chaining with ChatGPT: Build Multi-Step AI Workflows",
			"Claude AI Fundamentals: Deep Reasoning, Artifacts, and Projects",
			"n8n Fundamentals: Building Your First Automation Workflow",
			"Lovable No-Code Platform: Build Full-Stack Apps in Minutes",
		},
	},
}

var seedMappingRules = []MappingRuleInput{
	{QuestionID: "Q2", QuestionText: "What are you right now?", AnswerValue: "School student (13-17)", RecommendedCourse: "AI Foundations for High School Students", RecommendedTrack: "high_school", Priority: 10},
	{QuestionID: "Q2", QuestionText: "What are you right now?", AnswerValue: "College student (18-22)", RecommendedCourse: "Applied AI for College Students", RecommendedTrack: "college", Priority: 10},
	{QuestionID: "Q2", QuestionText: "What are you right now?", AnswerValue: "Working professional (22+)", RecommendedCourse: "AI for Early Career Professionals", RecommendedTrack: "early_career", Priority: 10},
	{QuestionID: "Q2", QuestionText: "What are you right now?", AnswerValue: "Running my own business", RecommendedCourse: "AI for Entrepreneurs and Business Owners", RecommendedTrack: "entrepreneur", Priority: 10},
	{QuestionID: "Q2", QuestionText: "What are you right now?", AnswerValue: "Retired or taking time off", RecommendedCourse: "Generative AI for Everyone", RecommendedTrack: "everyone", Priority: 10},
	{QuestionID: "Q4", QuestionText: "Why do you want to learn AI?", AnswerValue: "Stay competitive at work", RecommendedTrack: "early_career", Priority: 5},
	{QuestionID: "Q4", QuestionText: "Why do you want to learn AI?", AnswerValue: "Automate repetitive tasks", Priority: 5},
	{QuestionID: "Q4", QuestionText: "Why do you want to learn AI?", AnswerValue: "Explore creative possibilities", RecommendedCourse: "AI for Creative Professionals", RecommendedTrack: "creative", Priority: 7},
	{QuestionID: "Q4", QuestionText: "Why do you want to learn AI?", AnswerValue: "Future-proof my skills", Priority: 5},
	{QuestionID: "Q5", QuestionText: "Select your AI Learning Goal", AnswerValue: "Apply AI in my daily life", RecommendedTrack: "everyone", Priority: 4},
	{QuestionID: "Q9", QuestionText: "Which of these best describes your field or profession?", AnswerValue: "Design", RecommendedTrack: "creative", Priority: 4},
	{QuestionID: "Q9", QuestionText: "Which of these best describes your field or profession?", AnswerValue: "Healthcare", RecommendedTrack: "early_career", Priority: 3},
}

func (s *seedService) SeedCatalog(ctx context.Context) error {
	existing, err := s.providers.GetAll(ctx, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.log.Debug("Catalog already seeded", "providers", len(existing))
		return nil
	}

	s.log.Info("Seeding starter catalog")

	providerByName := make(map[string]uuid.UUID, len(seedProviders))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range seedProviders {
			provider := &types.Provider{
				ID:           uuid.New(),
				Name:         p.Name,
				Category:     p.Category,
				WebsiteURL:   p.WebsiteURL,
				ChangelogURL: p.ChangelogURL,
			}
			if _, err := s.providers.Create(ctx, tx, provider); err != nil {
				return err
			}
			providerByName[p.Name] = provider.ID
		}

		lessonByTitle := make(map[string]uuid.UUID, len(seedLessons))
		lessons := make([]*types.Lesson, 0, len(seedLessons))
		for _, l := range seedLessons {
			lesson := &types.Lesson{
				ID:           uuid.New(),
				Title:        l.Title,
				ProviderName: l.ProviderName,
				Level:        l.Level,
				Objective:    l.Objective,
				KeyTopics:    l.KeyTopics,
			}
			if id, ok := providerByName[l.ProviderName]; ok {
				lesson.ProviderID = &id
			}
			lessonByTitle[l.Title] = lesson.ID
			lessons = append(lessons, lesson)
		}
		if _, err := s.lessons.Create(ctx, tx, lessons); err != nil {
			return err
		}

		for _, c := range seedCourses {
			lessonIDs := make([]uuid.UUID, 0, len(c.Titles))
			for _, title := range c.Titles {
				lessonID, ok := lessonByTitle[title]
				if !ok {
					return fmt.Errorf("seed course %q references unknown lesson %q", c.Name, title)
				}
				lessonIDs = append(lessonIDs, lessonID)
			}

			course := &types.Course{
				ID:          uuid.New(),
				Name:        c.Name,
				Track:       c.Track,
				Level:       c.Level,
				LessonIDs:   lessonIDs,
				LessonCount: len(lessonIDs),
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
			if _, err := s.courseLessns.Create(ctx, tx, joins); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Mapping rules go through the service so each seed rule lands as an
	// audited v1.
	for _, input := range seedMappingRules {
		input.CreatedBy = seedActor
		if _, err := s.rules.Create(ctx, input); err != nil {
			return err
		}
	}

	s.log.Info("Catalog seeded",
		"providers", len(seedProviders),
		"lessons", len(seedLessons),
		"courses", len(seedCourses),
		"mapping_rules", len(seedMappingRules))
	return nil
}
