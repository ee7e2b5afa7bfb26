package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

type ProviderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, provider *types.Provider) (*types.Provider, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Provider, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Provider, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Provider, error)
}

type providerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProviderRepo(db *gorm.DB, baseLog *logger.Logger) ProviderRepo {
	repoLog := baseLog.With("repo", "ProviderRepo")
	return &providerRepo{db: db, log: repoLog}
}

func (r *providerRepo) Create(ctx context.Context, tx *gorm.DB, provider *types.Provider) (*types.Provider, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(provider).Error; err != nil {
		return nil, err
	}
	return provider, nil
}

func (r *providerRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Provider, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Provider
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *providerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Provider, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Provider
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *providerRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Provider, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Provider
	err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
