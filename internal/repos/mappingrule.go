package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

type MappingRuleFilter struct {
	QuestionID string
	IsActive   *bool
}

type MappingRuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rule *types.MappingRule) (*types.MappingRule, error)
	List(ctx context.Context, tx *gorm.DB, filter MappingRuleFilter) ([]*types.MappingRule, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MappingRule, error)
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	VersionHistory(ctx context.Context, tx *gorm.DB, questionID, answerValue string) ([]*types.MappingRule, error)
}

type mappingRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMappingRuleRepo(db *gorm.DB, baseLog *logger.Logger) MappingRuleRepo {
	repoLog := baseLog.With("repo", "MappingRuleRepo")
	return &mappingRuleRepo{db: db, log: repoLog}
}

func (r *mappingRuleRepo) Create(ctx context.Context, tx *gorm.DB, rule *types.MappingRule) (*types.MappingRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *mappingRuleRepo) List(ctx context.Context, tx *gorm.DB, filter MappingRuleFilter) ([]*types.MappingRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx)
	if filter.QuestionID != "" {
		query = query.Where("question_id = ?", filter.QuestionID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var results []*types.MappingRule
	if err := query.Order("question_id, priority DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mappingRuleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MappingRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.MappingRule
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *mappingRuleRepo) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.MappingRule{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return err
	}
	return nil
}

func (r *mappingRuleRepo) VersionHistory(ctx context.Context, tx *gorm.DB, questionID, answerValue string) ([]*types.MappingRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MappingRule
	if err := transaction.WithContext(ctx).
		Where("question_id = ? AND answer_value = ?", questionID, answerValue).
		Order("version DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
