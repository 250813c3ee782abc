package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Restock is an append-only log row. It is only removed together with its item.
type Restock struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InventoryID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"inventory_id"`
	Inventory     *InventoryItem  `gorm:"foreignKey:InventoryID" json:"-"`
	QuantityAdded int             `gorm:"type:int;not null" json:"quantity_added"`
	CostPerUnit   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"cost_per_unit"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"selling_price"`
	DateAdded     time.Time       `gorm:"index" json:"date_added"`
	CreatedAt     time.Time       `json:"created_at"`
}
