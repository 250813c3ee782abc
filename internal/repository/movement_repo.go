package repository

import (
	"context"

	"stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementRepository stores the per-item stock movement journal.
type MovementRepository interface {
	Create(ctx context.Context, movement *model.StockMovement) error
	ListByInventory(ctx context.Context, inventoryID uuid.UUID, limit int) ([]model.StockMovement, error)
	DeleteByInventoryIDs(ctx context.Context, ids []uuid.UUID) error
}

type movementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Create(ctx context.Context, movement *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *movementRepository) ListByInventory(ctx context.Context, inventoryID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	db := GetDB(ctx, r.db).Where("inventory_id = ?", inventoryID).Order("created_at desc")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *movementRepository) DeleteByInventoryIDs(ctx context.Context, ids []uuid.UUID) error {
	return GetDB(ctx, r.db).Where("inventory_id IN ?", ids).Delete(&model.StockMovement{}).Error
}
