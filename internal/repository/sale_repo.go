package repository

import (
	"context"
	"time"

	"stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryFilter narrows sale and restock listings.
type HistoryFilter struct {
	InventoryID *uuid.UUID
	From, To    time.Time
	Page        int
	Limit       int
}

func (f HistoryFilter) apply(db *gorm.DB, dateColumn string) *gorm.DB {
	if f.InventoryID != nil {
		db = db.Where("inventory_id = ?", *f.InventoryID)
	}
	if !f.From.IsZero() {
		db = db.Where(dateColumn+" >= ?", f.From)
	}
	if !f.To.IsZero() {
		db = db.Where(dateColumn+" < ?", f.To)
	}
	return db
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	Update(ctx context.Context, sale *model.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter HistoryFilter) ([]model.Sale, int64, error)
	ListAll(ctx context.Context, filter HistoryFilter) ([]model.Sale, error)
	ListByInventory(ctx context.Context, inventoryID uuid.UUID) ([]model.Sale, error)
	ListRecent(ctx context.Context, from, to time.Time, limit int) ([]model.Sale, error)
	DeleteByInventoryIDs(ctx context.Context, ids []uuid.UUID) error
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(sale).Error
}

func (r *saleRepository) Update(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(sale).Error
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Sale{}).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).Preload("Inventory").First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&sale).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, filter HistoryFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	db := filter.apply(GetDB(ctx, r.db).Model(&model.Sale{}), "sale_date")
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Preload("Inventory").Order("sale_date desc").
		Offset(offset).Limit(filter.Limit).Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *saleRepository) ListAll(ctx context.Context, filter HistoryFilter) ([]model.Sale, error) {
	var sales []model.Sale
	db := filter.apply(GetDB(ctx, r.db), "sale_date")
	if err := db.Preload("Inventory").Order("sale_date desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) ListByInventory(ctx context.Context, inventoryID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Where("inventory_id = ?", inventoryID).
		Order("sale_date desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) ListRecent(ctx context.Context, from, to time.Time, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	if err := window(GetDB(ctx, r.db), "sale_date", from, to).Preload("Inventory").
		Order("sale_date desc").Limit(limit).Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) DeleteByInventoryIDs(ctx context.Context, ids []uuid.UUID) error {
	return GetDB(ctx, r.db).Where("inventory_id IN ?", ids).Delete(&model.Sale{}).Error
}
