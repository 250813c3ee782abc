package repository

import (
	"context"
	"time"

	"stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RestockRepository is append-only apart from removal together with the item.
type RestockRepository interface {
	Create(ctx context.Context, restock *model.Restock) error
	List(ctx context.Context, filter HistoryFilter) ([]model.Restock, int64, error)
	ListAll(ctx context.Context, filter HistoryFilter) ([]model.Restock, error)
	ListByInventory(ctx context.Context, inventoryID uuid.UUID) ([]model.Restock, error)
	ListRecent(ctx context.Context, from, to time.Time, limit int) ([]model.Restock, error)
	DeleteByInventoryIDs(ctx context.Context, ids []uuid.UUID) error
}

type restockRepository struct {
	db *gorm.DB
}

func NewRestockRepository(db *gorm.DB) RestockRepository {
	return &restockRepository{db: db}
}

func (r *restockRepository) Create(ctx context.Context, restock *model.Restock) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(restock).Error
}

func (r *restockRepository) List(ctx context.Context, filter HistoryFilter) ([]model.Restock, int64, error) {
	var restocks []model.Restock
	var total int64

	db := filter.apply(GetDB(ctx, r.db).Model(&model.Restock{}), "date_added")
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Preload("Inventory").Order("date_added desc").
		Offset(offset).Limit(filter.Limit).Find(&restocks).Error; err != nil {
		return nil, 0, err
	}
	return restocks, total, nil
}

func (r *restockRepository) ListAll(ctx context.Context, filter HistoryFilter) ([]model.Restock, error) {
	var restocks []model.Restock
	db := filter.apply(GetDB(ctx, r.db), "date_added")
	if err := db.Preload("Inventory").Order("date_added desc").Find(&restocks).Error; err != nil {
		return nil, err
	}
	return restocks, nil
}

func (r *restockRepository) ListByInventory(ctx context.Context, inventoryID uuid.UUID) ([]model.Restock, error) {
	var restocks []model.Restock
	if err := GetDB(ctx, r.db).Where("inventory_id = ?", inventoryID).
		Order("date_added desc").Find(&restocks).Error; err != nil {
		return nil, err
	}
	return restocks, nil
}

func (r *restockRepository) ListRecent(ctx context.Context, from, to time.Time, limit int) ([]model.Restock, error) {
	var restocks []model.Restock
	if err := window(GetDB(ctx, r.db), "date_added", from, to).Preload("Inventory").
		Order("date_added desc").Limit(limit).Find(&restocks).Error; err != nil {
		return nil, err
	}
	return restocks, nil
}

func (r *restockRepository) DeleteByInventoryIDs(ctx context.Context, ids []uuid.UUID) error {
	return GetDB(ctx, r.db).Where("inventory_id IN ?", ids).Delete(&model.Restock{}).Error
}
