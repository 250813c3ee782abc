package model

import (
	"time"

	"github.com/google/uuid"
)

// UncategorizedName labels items whose category is nil.
const UncategorizedName = "Uncategorized"

// Category groups inventory items. Names are unique per owner, ignoring case.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_categories_owner_lower_name,unique,priority:1" json:"owner_id"`
	Name        string    `gorm:"type:varchar(120);not null;index:idx_categories_owner_lower_name,unique,expression:LOWER(name),priority:2" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
