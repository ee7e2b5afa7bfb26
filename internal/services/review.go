package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

const anonymousActor = "anonymous"

// canTransition gates status changes on impact reports. Transitions are
// currently unrestricted; callers never check statuses themselves, so a
// strict table can replace this without touching them.
func canTransition(from, to string) bool {
	_ = from
	_ = to
	return true
}

func auditActionForStatus(status string) string {
	switch status {
	case types.StatusApproved:
		return types.AuditActionApprove
	case types.StatusRejected:
		return types.AuditActionReject
	}
	return types.AuditActionUpdate
}

type ReviewService interface {
	Get(ctx context.Context, id uuid.UUID) (*types.ImpactReport, error)
	List(ctx context.Context, filter repos.ImpactReportFilter) ([]*types.ImpactReport, error)
	Approve(ctx context.Context, id uuid.UUID, actor string) (*types.ImpactReport, error)
	Reject(ctx context.Context, id uuid.UUID, actor string) (*types.ImpactReport, error)
	MarkDone(ctx context.Context, id uuid.UUID, actor string) (*types.ImpactReport, error)
	Assign(ctx context.Context, id uuid.UUID, assignee, actor string) (*types.ImpactReport, error)
}

type reviewService struct {
	db      *gorm.DB
	log     *logger.Logger
	reports repos.ImpactReportRepo
	audit   repos.AuditLogRepo
}

func NewReviewService(db *gorm.DB, baseLog *logger.Logger, reports repos.ImpactReportRepo, audit repos.AuditLogRepo) ReviewService {
	return &reviewService{
		db:      db,
		log:     baseLog.With("service", "ReviewService"),
		reports: reports,
		audit:   audit,
	}
}

func (s *reviewService) load(ctx context.Context, id uuid.UUID) (*types.ImpactReport, error) {
	report, err := s.reports.GetByID(ctx, nil, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: impact report %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*types.ImpactReport, error) {
	return s.load(ctx, id)
}

func (s *reviewService) List(ctx context.Context, filter repos.ImpactReportFilter) ([]*types.ImpactReport, error) {
	return s.reports.List(ctx, nil, filter)
}

func (s *reviewService) Approve(ctx context.Context, id uuid.UUID, actor string) (*types.ImpactReport, error) {
	return s.updateStatus(ctx, id, types.StatusApproved, actor)
}

func (s *reviewService) Reject(ctx context.Context, id uuid.UUID, actor string) (*types.ImpactReport, error) {
	return s.updateStatus(ctx, id, types.StatusRejected, actor)
}

func (s *reviewService) MarkDone(ctx context.Context, id uuid.UUID, actor string) (*types.ImpactReport, error) {
	return s.updateStatus(ctx, id, types.StatusDone, actor)
}

func (s *reviewService) updateStatus(ctx context.Context, id uuid.UUID, status, actor string) (*types.ImpactReport, error) {
	if actor == "" {
		actor = anonymousActor
	}

	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(report.Status, status) {
		return nil, fmt.Errorf("%w: cannot transition from %s to %s", ErrBadRequest, report.Status, status)
	}

	previous, _ := json.Marshal(map[string]string{"status": report.Status})
	next, _ := json.Marshal(map[string]string{"status": status})
	now := time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reports.SetStatus(ctx, tx, id, status, actor, now); err != nil {
			return err
		}
		_, err := s.audit.Create(ctx, tx, &types.AuditLog{
			ID:            uuid.New(),
			EntityType:    types.EntityImpactReport,
			EntityID:      id,
			Action:        auditActionForStatus(status),
			PreviousValue: previous,
			NewValue:      next,
			Actor:         actor,
			Timestamp:     now,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update report status: %w", err)
	}

	s.log.Info("Impact report status changed", "report_id", id, "from", report.Status, "to", status, "actor", actor)

	report.Status = status
	report.ReviewedBy = actor
	report.ReviewedAt = &now
	report.UpdatedAt = now
	return report, nil
}

func (s *reviewService) Assign(ctx context.Context, id uuid.UUID, assignee, actor string) (*types.ImpactReport, error) {
	if assignee == "" {
		return nil, fmt.Errorf("%w: assignee required", ErrBadRequest)
	}
	if actor == "" {
		actor = anonymousActor
	}

	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(report.Status, types.StatusAssigned) {
		return nil, fmt.Errorf("%w: cannot transition from %s to %s", ErrBadRequest, report.Status, types.StatusAssigned)
	}

	previous, _ := json.Marshal(map[string]string{"assignee": report.Assignee})
	next, _ := json.Marshal(map[string]string{"assignee": assignee})
	now := time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reports.SetAssignee(ctx, tx, id, assignee); err != nil {
			return err
		}
		_, err := s.audit.Create(ctx, tx, &types.AuditLog{
			ID:            uuid.New(),
			EntityType:    types.EntityImpactReport,
			EntityID:      id,
			Action:        types.AuditActionAssign,
			PreviousValue: previous,
			NewValue:      next,
			Actor:         actor,
			Timestamp:     now,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("assign report: %w", err)
	}

	s.log.Info("Impact report assigned", "report_id", id, "assignee", assignee, "actor", actor)

	report.Status = types.StatusAssigned
	report.Assignee = assignee
	report.UpdatedAt = now
	return report, nil
}
