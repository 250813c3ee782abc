package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesChannel enum
type SalesChannel string

const (
	ChannelDirect   SalesChannel = "Direct"
	ChannelWhatsApp SalesChannel = "WhatsApp"
	ChannelFacebook SalesChannel = "Facebook"
	ChannelTikTok   SalesChannel = "TikTok"
	ChannelReferral SalesChannel = "Referral"
)

// Valid reports whether c is a known channel.
func (c SalesChannel) Valid() bool {
	switch c {
	case ChannelDirect, ChannelWhatsApp, ChannelFacebook, ChannelTikTok, ChannelReferral:
		return true
	}
	return false
}

// Sale records units sold from one item. SellingPrice is the unit price at the
// time of sale; DiscountAmount is a flat deduction from the sale total.
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InventoryID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"inventory_id"`
	Inventory      *InventoryItem  `gorm:"foreignKey:InventoryID" json:"-"`
	QuantitySold   int             `gorm:"type:int;not null" json:"quantity_sold"`
	SellingPrice   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"selling_price"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"discount_amount"`
	SalesChannel   SalesChannel    `gorm:"type:varchar(20);not null;default:'Direct'" json:"sales_channel"`
	Notes          string          `gorm:"type:text" json:"notes"`
	SaleDate       time.Time       `gorm:"index" json:"sale_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
