package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityType of a feed entry
type ActivityType string

const (
	ActivitySale     ActivityType = "sale"
	ActivityRestock  ActivityType = "restock"
	ActivityNewStock ActivityType = "new_stock"
	ActivityExpense  ActivityType = "expense"
)

// ActivityEntry is one normalized row of the merged activity stream.
type ActivityEntry struct {
	ID              string          `json:"id"`
	Type            ActivityType    `json:"type"`
	Timestamp       time.Time       `json:"timestamp"`
	DisplayTitle    string          `json:"display_title"`
	DisplaySubtitle string          `json:"display_subtitle"`
	DisplayAmount   decimal.Decimal `json:"display_amount"`
	FormattedAmount string          `json:"formatted_amount"`
	SignedDirection int             `json:"signed_direction"` // +1 stock/revenue increasing, -1 cost/overhead
}
