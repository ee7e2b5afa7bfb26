package services

import (
	"fmt"
	"strings"

	"github.com/myaicademy/curriculum-ops/internal/types"
)

// slideTemplatePrompt is the system prompt shared by every lesson
// generation call. It pins the 29-slide deck layout the renderer expects.
const slideTemplatePrompt = `You are a curriculum designer for MyAIcademy creating comprehensive, hands-on workshop presentations. Your output must EXACTLY match our visual design system and template specifications.

## DESIGN SYSTEM - TEAL TRUST THEME

### Color Palette (USE EXACTLY):
- **Primary Teal**: #028090 - Main accent, step numbers, titles, buttons
- **Secondary Teal**: #00A896 - Hover states, secondary elements
- **Accent Green**: #02C39A - Highlights, success states, progress indicators
- **Dark Navy**: #1E2761 - Code boxes, dark backgrounds, headers

### Typography:
- Titles: Bold, 28-36pt, Primary Teal (#028090)
- Subtitles: Regular, 16-18pt, Gray (#6B7280)
- Body: Regular, 12-14pt, Dark Gray (#374151)
- Code/Prompts: Monospace, 11pt, White on Dark Navy

### Interactivity Markers (REQUIRED - use these exact formats):
- 🎯 **HANDS-ON**: Green background (#D4EDDA) - Action items for students to perform
- 💡 **PRO TIP**: Yellow background (#FEF3CD) - Expert insights and shortcuts
- ⭐ **BEST PRACTICE**: Orange background (#FFF3E0) - Industry standards to follow
- 📋 **COPY THIS**: Dark navy box (#1E2761) - Code, prompts, or text to copy
- ⚠️ **WARNING**: Red background (#F8D7DA) - Common mistakes to avoid

## TEMPLATE STRUCTURE (EXACTLY 29 SLIDES):

### SLIDE 1 - Title Slide
{ "type": "title", "header": "[Tool Name]", "content": "[One-line description]", "tags": ["[Category]", "[Skill Level]", "[Duration]"], "visualNote": "Include placeholder for AI robot/mascot image on right side" }

### SLIDE 2 - Workshop Overview
{ "type": "overview", "header": "HANDS-ON WORKSHOP", "projectName": "[What students will build]", "subtitle": "[Brief project description]", "features": [{"icon": "emoji", "title": "...", "desc": "..."}], "specialBoxes": [{"type": "action", "content": "..."}] }

### SLIDES 3-22 - Step-by-Step Instructions (10 main steps, 2 slides each)
Step Instruction Slide:
{ "type": "step", "stepNumber": [1-10], "header": "[Action Title]", "content": "[Instructions]", "features": [{"label": "...", "desc": "..."}], "specialBoxes": [{"type": "prompt|tip|action|warning|bestpractice", "content": "..."}] }

Step Screenshot Slide:
{ "type": "screenshot", "header": "[What screenshot shows]", "screenshotPlaceholder": "[Detailed description]", "callout": "[Key elements explanation]" }

### SLIDE 23 - Advanced Features
{ "type": "advanced", "header": "Level Up Your Skills", "features": [{"title": "...", "desc": "..."}], "specialBoxes": [{"type": "tip", "content": "..."}] }

### SLIDE 24 - Prompting Playbook
{ "type": "tips", "header": "Prompting Playbook", "tips": [{"title": "...", "desc": "..."}] }

### SLIDE 25 - Common Mistakes
{ "type": "mistakes", "header": "Common Mistakes", "mistakes": [{"wrong": "...", "right": "..."}] }

### SLIDE 26 - Inspiration Gallery
{ "type": "inspiration", "header": "What Can You Build?", "ideas": [{"icon": "emoji", "title": "...", "desc": "..."}], "info": "...", "specialBoxes": [{"type": "action", "content": "..."}] }

### SLIDE 27 - Challenge
{ "type": "challenge", "header": "Extend Your Project", "challenges": "bullet list string", "steps": [{"num": "1", "title": "...", "desc": "..."}] }

### SLIDE 28 - Summary
{ "type": "summary", "header": "What You Built Today", "features": [{"title": "...", "desc": "..."}] }

### SLIDE 29 - Closing
{ "type": "closing", "header": "Turn Ideas Into Reality", "cta": "What will you build next?" }

## OUTPUT FORMAT:
Return a JSON object with this EXACT structure:
{ "title": "Lesson title", "slides": [...all 29 slides...], "companionDoc": "Full markdown documentation" }

IMPORTANT:
- Return ONLY valid JSON - no markdown code blocks, no explanation text
- Include ALL 29 slides
- Use the EXACT color scheme and visual markers specified
- Make screenshot placeholders highly detailed for the curriculum team`

// providerGroup bundles a provider's approved reports with their source
// updates for prompt assembly.
type providerGroup struct {
	Provider string
	Reports  []*types.ImpactReport
	Updates  []*types.Update
}

func buildArchitecturePrompt(groups []*providerGroup) string {
	sections := make([]string, 0, len(groups))
	for _, group := range groups {
		var reportDetails strings.Builder
		for _, r := range group.Reports {
			urls := make([]string, 0, len(r.Citations))
			for _, c := range r.Citations {
				urls = append(urls, c.URL)
			}
			titles := make([]string, 0, len(r.AffectedLessons))
			for _, l := range r.AffectedLessons {
				titles = append(titles, l.LessonTitle)
			}
			affected := strings.Join(titles, ", ")
			if affected == "" {
				affected = "None"
			}
			citations := strings.Join(urls, "\n    - ")
			if citations == "" {
				citations = "None"
			}
			fmt.Fprintf(&reportDetails, "  - Severity: %s | Action: %s\n    Rationale: %s\n    Affected lessons: %s\n    Citations: %s\n",
				r.Severity, r.RecommendedAction, r.Rationale, affected, citations)
		}

		var updateDetails strings.Builder
		for _, u := range group.Updates {
			docs := make([]string, 0, len(u.DocURLs))
			for _, d := range u.DocURLs {
				docs = append(docs, d.Label+": "+d.URL)
			}
			docList := strings.Join(docs, "\n    - ")
			if docList == "" {
				docList = "None"
			}
			published := "recent"
			if u.PublishedAt != nil {
				published = u.PublishedAt.Format("2006-01-02")
			}
			summary := u.Summary
			if summary == "" {
				summary = u.RawText
				if len(summary) > 200 {
					summary = summary[:200]
				}
			}
			if summary == "" {
				summary = "N/A"
			}
			fmt.Fprintf(&updateDetails, "  - %q (%s)\n    Summary: %s\n    Source: %s\n    Docs: %s\n",
				u.Title, published, summary, u.SourceURL, docList)
		}

		sections = append(sections, fmt.Sprintf("### %s\n**Impact Reports:**\n%s\n**Underlying Updates:**\n%s",
			group.Provider, reportDetails.String(), updateDetails.String()))
	}

	return fmt.Sprintf(`You are a senior curriculum architect for MyAIcademy, a professional AI training platform.

Based on the following approved impact reports and their underlying provider updates, design a cohesive course plan.

## Source Material

%s

## Requirements

Design a course with **3 to 6 lessons** that covers the most important updates across these providers.

For each lesson, provide:
1. **title** - Specific, action-oriented (e.g., "Master Claude's New iOS Workflow Automation" not "Learn About Updates")
2. **provider** - Which AI provider this lesson focuses on
3. **level** - beginner, intermediate, or advanced (bias toward intermediate/advanced)
4. **scenario** - A realistic professional scenario the entire lesson is built around
5. **objectives** - 3-5 specific, measurable learning objectives
6. **keyTopics** - 5-8 specific features/capabilities to cover
7. **difficulty_notes** - What makes this lesson challenging; focus on advanced configs, edge cases, and real-world gotchas

## Course Design Principles
- Every lesson must be built around a **realistic professional scenario**
- Focus on **platform-specific strengths, limitations, and hidden gotchas**
- Include **competitor comparison context** where relevant
- Prioritize **advanced configurations and edge cases** over basic walkthroughs
- Ensure lessons progress in difficulty and build on each other where possible

## Output Format
Return ONLY valid JSON (no markdown blocks, no explanation):
{
  "courseName": "Descriptive course name",
  "courseDescription": "1-2 sentence course summary",
  "track": "everyone",
  "level": "intermediate",
  "lessons": [
    {
      "title": "...",
      "provider": "...",
      "level": "...",
      "scenario": "...",
      "objectives": ["..."],
      "keyTopics": ["..."],
      "difficulty_notes": "..."
    }
  ]
}`, strings.Join(sections, "\n\n"))
}

func buildLessonPrompt(plan lessonPlan, groups []*providerGroup) string {
	urlSet := make(map[string]bool)
	urls := make([]string, 0, 8)
	addURL := func(u string) {
		if u != "" && !urlSet[u] {
			urlSet[u] = true
			urls = append(urls, u)
		}
	}
	for _, group := range groups {
		if group.Provider != plan.Provider {
			continue
		}
		for _, u := range group.Updates {
			addURL(u.SourceURL)
			for _, d := range u.DocURLs {
				addURL(d.URL)
			}
		}
		for _, r := range group.Reports {
			for _, c := range r.Citations {
				addURL(c.URL)
			}
		}
	}
	urlLines := make([]string, 0, len(urls))
	for _, u := range urls {
		urlLines = append(urlLines, "- "+u)
	}

	return fmt.Sprintf(`Create a complete hands-on workshop lesson for MyAIcademy with the following specifications:

**Lesson Title:** %s
**AI Tool/Provider:** %s
**Skill Level:** %s
**Target Audience:** Professional learners and AI practitioners
**Learning Objectives:** %s
**Professional Scenario:** %s
**Key Topics to Cover:** %s

## STRATEGIC REQUIREMENTS (MANDATORY):

### 1. Scenario-Based Design
The ENTIRE lesson must be built around this scenario: %q
- Slide 2 (overview) must describe the scenario as the project
- Every step (slides 3-22) must advance the scenario
- The challenge (slide 27) must extend the scenario with a realistic twist

### 2. Platform Analysis (REQUIRED in at least 2 specialBoxes)
Include boxes analyzing:
- What %s does BETTER than competitors for this use case
- Known LIMITATIONS or gotchas specific to %s
- Settings or configurations most users miss

### 3. Best Practices & Warnings (MINIMUM COUNTS)
You MUST include at least:
- 3 specialBoxes with type "bestpractice" across the lesson
- 3 specialBoxes with type "warning" across the lesson
These should cover real pitfalls, not obvious advice.

### 4. Screenshot Instructions (DETAILED)
Every screenshot slide must include the exact URL or navigation path, the
specific element to click, the expected UI state, and what to annotate.

### 5. Difficulty Calibration
%s
- Skip obvious basics; assume the user has used %s before
- Focus on the NEW capabilities from recent updates
- Include at least one edge case or advanced configuration per major step

### 6. Source Material
Base your content on these real documentation URLs:
%s
Reference specific features, settings, and capabilities from these sources.

IMPORTANT:
- Return ONLY valid JSON. No markdown code blocks, no explanation text.
- Keep the "companionDoc" field to a BRIEF summary (under 500 words).`,
		plan.Title, plan.Provider, plan.Level,
		strings.Join(plan.Objectives, "; "), plan.Scenario, strings.Join(plan.KeyTopics, ", "),
		plan.Scenario, plan.Provider, plan.Provider,
		plan.DifficultyNotes, plan.Provider,
		strings.Join(urlLines, "\n"))
}
