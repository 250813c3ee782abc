package repository

import (
	"context"
	"time"

	"stockledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryFilter narrows ListInventory. Zero values are ignored.
type InventoryFilter struct {
	Status     model.StockStatus
	CategoryID *uuid.UUID
	// Uncategorized selects items with a NULL category and wins over CategoryID.
	Uncategorized bool
	Search        string
	Page          int
	Limit         int
}

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.InventoryItem, error)
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]model.InventoryItem, error)
	List(ctx context.Context, filter InventoryFilter) ([]model.InventoryItem, int64, error)
	ListAll(ctx context.Context) ([]model.InventoryItem, error)
	ListRecent(ctx context.Context, from, to time.Time, limit int) ([]model.InventoryItem, error)
	AdjustStock(ctx context.Context, id uuid.UUID, remainingDelta, receivedDelta int, status model.StockStatus) (bool, error)
	UpdatePricing(ctx context.Context, id uuid.UUID, purchase, selling decimal.Decimal, at time.Time) error
	SetCategory(ctx context.Context, ids []uuid.UUID, categoryID *uuid.UUID) (int64, error)
	ClearCategory(ctx context.Context, categoryID uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(item).Error
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(item).Error
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).Preload("Category").Preload("Batch").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := GetDB(ctx, r.db).Preload("Category").
		Where("batch_id = ?", batchID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) List(ctx context.Context, filter InventoryFilter) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.InventoryItem{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	switch {
	case filter.Uncategorized:
		db = db.Where("category_id IS NULL")
	case filter.CategoryID != nil:
		db = db.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("item_name ILIKE ? OR description ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Preload("Category").Preload("Batch").
		Order("created_at desc").Offset(offset).Limit(filter.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *inventoryRepository) ListAll(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := GetDB(ctx, r.db).Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) ListRecent(ctx context.Context, from, to time.Time, limit int) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := window(GetDB(ctx, r.db), "created_at", from, to).Order("created_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AdjustStock applies a signed change to quantity_remaining (and total_received) only if the
// result stays non-negative. It reports false when no row matched, i.e. the item is gone or
// the decrement would oversell.
func (r *inventoryRepository) AdjustStock(ctx context.Context, id uuid.UUID, remainingDelta, receivedDelta int, status model.StockStatus) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Where("id = ? AND quantity_remaining + ? >= 0", id, remainingDelta).
		Updates(map[string]interface{}{
			"quantity_remaining": gorm.Expr("quantity_remaining + ?", remainingDelta),
			"total_received":     gorm.Expr("total_received + ?", receivedDelta),
			"status":             status,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inventoryRepository) UpdatePricing(ctx context.Context, id uuid.UUID, purchase, selling decimal.Decimal, at time.Time) error {
	return GetDB(ctx, r.db).Model(&model.InventoryItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"purchase_price":   purchase,
			"selling_price":    selling,
			"price_updated_at": at,
		}).Error
}

func (r *inventoryRepository) SetCategory(ctx context.Context, ids []uuid.UUID, categoryID *uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.InventoryItem{}).Where("id IN ?", ids).Update("category_id", categoryID)
	return res.RowsAffected, res.Error
}

func (r *inventoryRepository) ClearCategory(ctx context.Context, categoryID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Where("category_id = ?", categoryID).Update("category_id", nil).Error
}

func (r *inventoryRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Where("id IN ?", ids).Delete(&model.InventoryItem{})
	return res.RowsAffected, res.Error
}
