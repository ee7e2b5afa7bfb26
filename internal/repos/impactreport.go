package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

type ImpactReportFilter struct {
	Status            string
	Provider          string
	RecommendedAction string
}

type ImpactReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, report *types.ImpactReport) (*types.ImpactReport, error)
	List(ctx context.Context, tx *gorm.DB, filter ImpactReportFilter) ([]*types.ImpactReport, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ImpactReport, error)
	GetByUpdateID(ctx context.Context, tx *gorm.DB, updateID uuid.UUID) (*types.ImpactReport, error)
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status, reviewedBy string, reviewedAt time.Time) error
	SetAssignee(ctx context.Context, tx *gorm.DB, id uuid.UUID, assignee string) error
	CountByStatus(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
	CountBySeverity(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
	CountByAction(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
}

type impactReportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImpactReportRepo(db *gorm.DB, baseLog *logger.Logger) ImpactReportRepo {
	repoLog := baseLog.With("repo", "ImpactReportRepo")
	return &impactReportRepo{db: db, log: repoLog}
}

func (r *impactReportRepo) Create(ctx context.Context, tx *gorm.DB, report *types.ImpactReport) (*types.ImpactReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (r *impactReportRepo) List(ctx context.Context, tx *gorm.DB, filter ImpactReportFilter) ([]*types.ImpactReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Provider != "" {
		query = query.Where("provider = ?", filter.Provider)
	}
	if filter.RecommendedAction != "" {
		query = query.Where("recommended_action = ?", filter.RecommendedAction)
	}

	var results []*types.ImpactReport
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *impactReportRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ImpactReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ImpactReport
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *impactReportRepo) GetByUpdateID(ctx context.Context, tx *gorm.DB, updateID uuid.UUID) (*types.ImpactReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ImpactReport
	err := transaction.WithContext(ctx).
		Where("update_id = ?", updateID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *impactReportRepo) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status, reviewedBy string, reviewedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ImpactReport{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"reviewed_by": reviewedBy,
			"reviewed_at": reviewedAt,
			"updated_at":  reviewedAt,
		}).Error; err != nil {
		return err
	}
	return nil
}

func (r *impactReportRepo) SetAssignee(ctx context.Context, tx *gorm.DB, id uuid.UUID, assignee string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ImpactReport{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     types.StatusAssigned,
			"assignee":   assignee,
			"updated_at": time.Now().UTC(),
		}).Error; err != nil {
		return err
	}
	return nil
}

type countRow struct {
	Key string `gorm:"column:key"`
	N   int64  `gorm:"column:n"`
}

func (r *impactReportRepo) countGrouped(ctx context.Context, tx *gorm.DB, column string) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []countRow
	if err := transaction.WithContext(ctx).
		Model(&types.ImpactReport{}).
		Select(column + " AS key, COUNT(*) AS n").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.N
	}
	return out, nil
}

func (r *impactReportRepo) CountByStatus(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	return r.countGrouped(ctx, tx, "status")
}

func (r *impactReportRepo) CountBySeverity(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	return r.countGrouped(ctx, tx, "severity")
}

func (r *impactReportRepo) CountByAction(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	return r.countGrouped(ctx, tx, "recommended_action")
}
