package repository

import (
	"context"
	"time"

	"stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExpenseFilter struct {
	Category    model.ExpenseCategory
	InventoryID *uuid.UUID
	From, To    time.Time
	Page        int
	Limit       int
}

func (f ExpenseFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	if f.InventoryID != nil {
		db = db.Where("inventory_id = ?", *f.InventoryID)
	}
	if !f.From.IsZero() {
		db = db.Where("expense_date >= ?", f.From)
	}
	if !f.To.IsZero() {
		db = db.Where("expense_date < ?", f.To)
	}
	return db
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error)
	ListAll(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)
	ListRecent(ctx context.Context, from, to time.Time, limit int) ([]model.Expense, error)
	DetachInventory(ctx context.Context, inventoryIDs []uuid.UUID) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(expense).Error
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Expense{}).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).Preload("Inventory").First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := filter.apply(GetDB(ctx, r.db).Model(&model.Expense{}))
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Preload("Inventory").Order("expense_date desc, created_at desc").
		Offset(offset).Limit(filter.Limit).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) ListAll(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := filter.apply(GetDB(ctx, r.db)).Preload("Inventory").
		Order("expense_date desc, created_at desc").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) ListRecent(ctx context.Context, from, to time.Time, limit int) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := window(GetDB(ctx, r.db), "created_at", from, to).Order("created_at desc").Limit(limit).Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// DetachInventory turns expenses of removed items into general overhead.
func (r *expenseRepository) DetachInventory(ctx context.Context, inventoryIDs []uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Expense{}).
		Where("inventory_id IN ?", inventoryIDs).Update("inventory_id", nil).Error
}
