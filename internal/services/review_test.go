package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/myaicademy/curriculum-ops/internal/types"
)

func TestApproveRecordsAudit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	update := h.seedUpdate(t, "Claude", "Claude iOS app", "", "https://example.com/review-approve")
	report := h.seedReport(t, update, types.StatusNew)

	approved, err := h.review().Approve(ctx, report.ID, "alice")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != types.StatusApproved {
		t.Errorf("status = %q, want %q", approved.Status, types.StatusApproved)
	}
	if approved.ReviewedBy != "alice" {
		t.Errorf("reviewed_by = %q, want alice", approved.ReviewedBy)
	}
	if approved.ReviewedAt == nil {
		t.Error("reviewed_at not set")
	}

	stored, err := h.reports.GetByID(ctx, nil, report.ID)
	if err != nil {
		t.Fatalf("reload report: %v", err)
	}
	if stored.Status != types.StatusApproved {
		t.Errorf("persisted status = %q, want %q", stored.Status, types.StatusApproved)
	}

	entries, err := h.audit.GetByEntity(ctx, nil, types.EntityImpactReport, report.ID)
	if err != nil {
		t.Fatalf("audit lookup: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Action != types.AuditActionApprove {
		t.Errorf("audit action = %q, want %q", entry.Action, types.AuditActionApprove)
	}
	if entry.Actor != "alice" {
		t.Errorf("audit actor = %q, want alice", entry.Actor)
	}

	var previous, next map[string]string
	if err := json.Unmarshal(entry.PreviousValue, &previous); err != nil {
		t.Fatalf("decode previous value: %v", err)
	}
	if err := json.Unmarshal(entry.NewValue, &next); err != nil {
		t.Fatalf("decode new value: %v", err)
	}
	if previous["status"] != types.StatusNew || next["status"] != types.StatusApproved {
		t.Errorf("audit transition %v -> %v, want new -> approved", previous, next)
	}
}

func TestRejectDefaultsActor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	update := h.seedUpdate(t, "Gemini", "Gemini patch", "", "https://example.com/review-reject")
	report := h.seedReport(t, update, types.StatusNew)

	rejected, err := h.review().Reject(ctx, report.ID, "")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.ReviewedBy != "anonymous" {
		t.Errorf("reviewed_by = %q, want anonymous", rejected.ReviewedBy)
	}

	entries, err := h.audit.GetByEntity(ctx, nil, types.EntityImpactReport, report.ID)
	if err != nil {
		t.Fatalf("audit lookup: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != types.AuditActionReject {
		t.Fatalf("audit entries = %+v, want one reject", entries)
	}
	if entries[0].Actor != "anonymous" {
		t.Errorf("audit actor = %q, want anonymous", entries[0].Actor)
	}
}

func TestAssignRequiresAssignee(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	update := h.seedUpdate(t, "Sora", "Sora update", "", "https://example.com/review-assign-empty")
	report := h.seedReport(t, update, types.StatusNew)

	if _, err := h.review().Assign(ctx, report.ID, "", "alice"); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("Assign with empty assignee = %v, want ErrBadRequest", err)
	}

	entries, err := h.audit.GetByEntity(ctx, nil, types.EntityImpactReport, report.ID)
	if err != nil {
		t.Fatalf("audit lookup: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("audit entries = %d after failed assign, want 0", len(entries))
	}
}

func TestAssignSetsStatusAndAudit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	update := h.seedUpdate(t, "Sora", "Sora feature", "", "https://example.com/review-assign")
	report := h.seedReport(t, update, types.StatusNew)

	assigned, err := h.review().Assign(ctx, report.ID, "bob", "alice")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if assigned.Status != types.StatusAssigned {
		t.Errorf("status = %q, want %q", assigned.Status, types.StatusAssigned)
	}
	if assigned.Assignee != "bob" {
		t.Errorf("assignee = %q, want bob", assigned.Assignee)
	}

	stored, err := h.reports.GetByID(ctx, nil, report.ID)
	if err != nil {
		t.Fatalf("reload report: %v", err)
	}
	if stored.Status != types.StatusAssigned || stored.Assignee != "bob" {
		t.Errorf("persisted report = status %q assignee %q", stored.Status, stored.Assignee)
	}

	entries, err := h.audit.GetByEntity(ctx, nil, types.EntityImpactReport, report.ID)
	if err != nil {
		t.Fatalf("audit lookup: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != types.AuditActionAssign {
		t.Fatalf("audit entries = %+v, want one assign", entries)
	}

	var previous, next map[string]string
	if err := json.Unmarshal(entries[0].PreviousValue, &previous); err != nil {
		t.Fatalf("decode previous value: %v", err)
	}
	if err := json.Unmarshal(entries[0].NewValue, &next); err != nil {
		t.Fatalf("decode new value: %v", err)
	}
	if previous["assignee"] != "" || next["assignee"] != "bob" {
		t.Errorf("audit transition %v -> %v", previous, next)
	}
}

func TestMarkDoneUsesGenericAuditAction(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	update := h.seedUpdate(t, "Veo", "Veo release", "", "https://example.com/review-done")
	report := h.seedReport(t, update, types.StatusApproved)

	done, err := h.review().MarkDone(ctx, report.ID, "carol")
	if err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if done.Status != types.StatusDone {
		t.Errorf("status = %q, want %q", done.Status, types.StatusDone)
	}

	entries, err := h.audit.GetByEntity(ctx, nil, types.EntityImpactReport, report.ID)
	if err != nil {
		t.Fatalf("audit lookup: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != types.AuditActionUpdate {
		t.Fatalf("audit entries = %+v, want one update action", entries)
	}
}

func TestReviewGetMissingReport(t *testing.T) {
	h := newHarness(t)

	if _, err := h.review().Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing report = %v, want ErrNotFound", err)
	}
}
