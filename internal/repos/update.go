package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

type UpdateFilter struct {
	Provider  string
	Processed *bool
	Limit     int
}

type UpdateRepo interface {
	// Create inserts the update unless a row with the same source_url already
	// exists; in that case the existing row is returned untouched and the
	// second return value is false.
	Create(ctx context.Context, tx *gorm.DB, update *types.Update) (*types.Update, bool, error)
	List(ctx context.Context, tx *gorm.DB, filter UpdateFilter) ([]*types.Update, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Update, error)
	GetBySourceURL(ctx context.Context, tx *gorm.DB, url string) (*types.Update, error)
	MarkProcessed(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type updateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUpdateRepo(db *gorm.DB, baseLog *logger.Logger) UpdateRepo {
	repoLog := baseLog.With("repo", "UpdateRepo")
	return &updateRepo{db: db, log: repoLog}
}

func (r *updateRepo) Create(ctx context.Context, tx *gorm.DB, update *types.Update) (*types.Update, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_url"}},
			DoNothing: true,
		}).
		Create(update)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := r.GetBySourceURL(ctx, tx, update.SourceURL)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return update, true, nil
}

func (r *updateRepo) List(ctx context.Context, tx *gorm.DB, filter UpdateFilter) ([]*types.Update, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx)
	if filter.Provider != "" {
		query = query.Where("provider = ?", filter.Provider)
	}
	if filter.Processed != nil {
		query = query.Where("processed = ?", *filter.Processed)
	}
	query = query.Order("published_at DESC, fetched_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var results []*types.Update
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *updateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Update, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Update
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *updateRepo) GetBySourceURL(ctx context.Context, tx *gorm.DB, url string) (*types.Update, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Update
	err := transaction.WithContext(ctx).
		Where("source_url = ?", url).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *updateRepo) MarkProcessed(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Update{}).
		Where("id = ?", id).
		Update("processed", true).Error; err != nil {
		return err
	}
	return nil
}
