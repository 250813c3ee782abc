package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory enum constants
type ExpenseCategory string

const (
	ExpensePackaging    ExpenseCategory = "Packaging"
	ExpenseShipping     ExpenseCategory = "Shipping"
	ExpenseMarketing    ExpenseCategory = "Marketing"
	ExpenseRepair       ExpenseCategory = "Repair"
	ExpenseSubscription ExpenseCategory = "Subscription"
	ExpenseOther        ExpenseCategory = "Other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpensePackaging, ExpenseShipping, ExpenseMarketing, ExpenseRepair, ExpenseSubscription, ExpenseOther:
		return true
	}
	return false
}

// Expense is an overhead cost. A nil InventoryID means general overhead.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Category    ExpenseCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	InventoryID *uuid.UUID      `gorm:"type:uuid;index" json:"inventory_id"`
	Inventory   *InventoryItem  `gorm:"foreignKey:InventoryID" json:"-"`
	ExpenseDate time.Time       `gorm:"index" json:"expense_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
