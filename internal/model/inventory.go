package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus is derived from the remaining/received ratio, never set by hand.
type StockStatus string

const (
	StatusAvailable StockStatus = "available"
	StatusLowStock  StockStatus = "low_stock"
	StatusCompleted StockStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s StockStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusLowStock, StatusCompleted:
		return true
	}
	return false
}

// InventoryItem is one stocked product line.
//
// OriginalQuantity is the size of the first stocking event and never changes.
// TotalReceived is the cumulative amount ever stocked (original plus restocks);
// 0 <= QuantityRemaining <= TotalReceived always holds.
type InventoryItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemName          string          `gorm:"type:varchar(255);not null;index" json:"item_name"`
	Description       string          `gorm:"type:text" json:"description"`
	ImageURL          string          `gorm:"type:text" json:"image_url"`
	CategoryID        *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category          *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BatchID           *uuid.UUID      `gorm:"type:uuid;index" json:"batch_id"`
	Batch             *Batch          `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
	PurchasePrice     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"purchase_price"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"selling_price"`
	OriginalQuantity  int             `gorm:"type:int;not null" json:"original_quantity"`
	TotalReceived     int             `gorm:"type:int;not null" json:"total_received"`
	QuantityRemaining int             `gorm:"type:int;not null" json:"quantity_remaining"`
	Status            StockStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PriceUpdatedAt    time.Time       `json:"price_updated_at"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (InventoryItem) TableName() string { return "inventory" }

// Movement reasons
const (
	MovementIntake     = "INTAKE"
	MovementSale       = "SALE"
	MovementSaleEdit   = "SALE_EDIT"
	MovementSaleDelete = "SALE_DELETE"
	MovementRestock    = "RESTOCK"
	MovementCorrection = "CORRECTION"
)

// StockMovement records every change of quantity_remaining with the stock level after it.
type StockMovement struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InventoryID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"inventory_id"`
	ReferenceID     *uuid.UUID `gorm:"type:uuid;index" json:"reference_id"` // sale or restock id, nil for intake/corrections
	Reason          string     `gorm:"type:varchar(20);not null" json:"reason"`
	QuantityChanged int        `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int        `gorm:"type:int;not null" json:"stock_after"`
	CreatedAt       time.Time  `json:"created_at"`
}
