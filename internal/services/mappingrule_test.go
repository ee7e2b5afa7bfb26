package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

func TestCreateMappingRuleDefaults(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rule, err := h.mappingRules().Create(ctx, MappingRuleInput{
		QuestionID:   "Q2",
		QuestionText: "What are you right now?",
		AnswerValue:  "College student (18-22)",
		CreatedBy:    "admin",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rule.Version != 1 {
		t.Errorf("version = %d, want 1", rule.Version)
	}
	if rule.Priority != 5 {
		t.Errorf("priority = %d, want default 5", rule.Priority)
	}
	if !rule.IsActive {
		t.Error("new rule not active")
	}

	entries, err := h.audit.GetByEntity(ctx, nil, types.EntityMappingRule, rule.ID)
	if err != nil {
		t.Fatalf("audit lookup: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != types.AuditActionCreate {
		t.Fatalf("audit entries = %+v, want one create", entries)
	}
	if len(entries[0].PreviousValue) != 0 {
		t.Errorf("create audit has previous value: %s", entries[0].PreviousValue)
	}
}

func TestCreateMappingRuleValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.mappingRules().Create(context.Background(), MappingRuleInput{QuestionID: "Q2"})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("Create without answer_value = %v, want ErrBadRequest", err)
	}
}

func TestUpdateMappingRuleVersions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := h.mappingRules()

	v1, err := svc.Create(ctx, MappingRuleInput{
		QuestionID:        "Q2",
		QuestionText:      "What are you right now?",
		AnswerValue:       "School student (13-17)",
		RecommendedCourse: "AI Foundations for High School Students",
		RecommendedTrack:  "high_school",
		Priority:          10,
		CreatedBy:         "admin",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newCourse := "AI Foundations 2.0 for High School Students"
	v2, err := svc.Update(ctx, v1.ID, MappingRuleChanges{RecommendedCourse: &newCourse}, "alice")
	if err != nil {
		t.Fatalf("first Update: %v", err)
	}
	if v2.ID == v1.ID {
		t.Error("update reused the old row id")
	}
	if v2.Version != 2 {
		t.Errorf("version = %d, want 2", v2.Version)
	}
	if v2.RecommendedCourse != newCourse {
		t.Errorf("recommended_course = %q, want %q", v2.RecommendedCourse, newCourse)
	}
	if v2.RecommendedTrack != "high_school" {
		t.Errorf("recommended_track = %q, untouched field changed", v2.RecommendedTrack)
	}
	if v2.CreatedBy != "alice" {
		t.Errorf("created_by = %q, want alice", v2.CreatedBy)
	}

	priority := 8
	v3, err := svc.Update(ctx, v2.ID, MappingRuleChanges{Priority: &priority}, "bob")
	if err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if v3.Version != 3 {
		t.Errorf("version = %d, want 3", v3.Version)
	}

	history, err := svc.VersionHistory(ctx, "Q2", "School student (13-17)")
	if err != nil {
		t.Fatalf("VersionHistory: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	for i, want := range []int{3, 2, 1} {
		if history[i].Version != want {
			t.Errorf("history[%d].Version = %d, want %d", i, history[i].Version, want)
		}
	}

	active := true
	activeRules, err := svc.List(ctx, repos.MappingRuleFilter{QuestionID: "Q2", IsActive: &active})
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	if len(activeRules) != 1 || activeRules[0].ID != v3.ID {
		t.Fatalf("active rules = %+v, want only version 3", activeRules)
	}

	// Audit trail: one create plus one update per new version, each keyed
	// to the row it introduced.
	v2Entries, err := h.audit.GetByEntity(ctx, nil, types.EntityMappingRule, v2.ID)
	if err != nil {
		t.Fatalf("audit lookup: %v", err)
	}
	if len(v2Entries) != 1 || v2Entries[0].Action != types.AuditActionUpdate {
		t.Fatalf("v2 audit entries = %+v, want one update", v2Entries)
	}
}

func TestUpdateMissingMappingRule(t *testing.T) {
	h := newHarness(t)

	_, err := h.mappingRules().Update(context.Background(), uuid.New(), MappingRuleChanges{}, "alice")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update missing rule = %v, want ErrNotFound", err)
	}
}
