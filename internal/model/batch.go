package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch groups items stocked together. The financial fields are a snapshot
// taken at creation and are not recomputed when items change afterwards.
type Batch struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BatchName       string          `gorm:"type:varchar(255);not null" json:"batch_name"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	TotalInvestment decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_investment"`
	ExpectedRevenue decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"expected_revenue"`
	ExpectedProfit  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"expected_profit"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
