package repository

import (
	"context"

	"stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BatchRepository interface {
	Create(ctx context.Context, batch *model.Batch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Batch, error)
	ListAll(ctx context.Context) ([]model.Batch, error)
	ClearCategory(ctx context.Context, categoryID uuid.UUID) error
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, batch *model.Batch) error {
	return GetDB(ctx, r.db).Create(batch).Error
}

func (r *batchRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	var batch model.Batch
	if err := GetDB(ctx, r.db).First(&batch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepository) ListAll(ctx context.Context) ([]model.Batch, error) {
	var batches []model.Batch
	if err := GetDB(ctx, r.db).Order("created_at desc").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *batchRepository) ClearCategory(ctx context.Context, categoryID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Batch{}).
		Where("category_id = ?", categoryID).Update("category_id", nil).Error
}
