package ledger

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"stockledger/internal/model"

	"github.com/shopspring/decimal"
)

// DeletedItemName is shown for history rows whose item no longer exists.
const DeletedItemName = "Deleted Item"

// Activity feed caps
const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// DateFilter restricts the feed to a calendar day relative to now.
type DateFilter string

const (
	DateAll       DateFilter = "all"
	DateToday     DateFilter = "today"
	DateYesterday DateFilter = "yesterday"
)

// ActivityFilter selects which merged entries are returned. An empty Type keeps every type.
type ActivityFilter struct {
	Type  model.ActivityType
	Date  DateFilter
	Limit int
}

// ActivitySources are the raw event lists the feed is built from.
// Sales and restocks are expected to carry their Inventory relation when it still exists.
type ActivitySources struct {
	Sales    []model.Sale
	Restocks []model.Restock
	NewStock []model.InventoryItem
	Expenses []model.Expense
}

// MergeActivity normalizes every source row, orders the result newest first
// (stable, so equal timestamps keep source order), filters it and applies the cap.
func MergeActivity(src ActivitySources, f ActivityFilter, now time.Time, currency string) []model.ActivityEntry {
	entries := make([]model.ActivityEntry, 0, len(src.Sales)+len(src.Restocks)+len(src.NewStock)+len(src.Expenses))
	for _, s := range src.Sales {
		entries = append(entries, SaleEntry(s))
	}
	for _, r := range src.Restocks {
		entries = append(entries, RestockEntry(r))
	}
	for _, it := range src.NewStock {
		entries = append(entries, NewStockEntry(it))
	}
	for _, e := range src.Expenses {
		entries = append(entries, ExpenseEntry(e))
	}

	slices.SortStableFunc(entries, func(a, b model.ActivityEntry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}

	out := make([]model.ActivityEntry, 0, min(limit, len(entries)))
	for _, e := range entries {
		if !f.matches(e, now) {
			continue
		}
		e.FormattedAmount = FormatAmount(e.DisplayAmount, currency)
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (f ActivityFilter) matches(e model.ActivityEntry, now time.Time) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	switch f.Date {
	case DateToday:
		return SameDay(e.Timestamp, now)
	case DateYesterday:
		return SameDay(e.Timestamp, now.AddDate(0, 0, -1))
	}
	return true
}

// SameDay compares calendar dates in b's location.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.In(b.Location()).Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func SaleEntry(s model.Sale) model.ActivityEntry {
	name := DeletedItemName
	if s.Inventory != nil {
		name = s.Inventory.ItemName
	}
	return model.ActivityEntry{
		ID:              "sale-" + s.ID.String(),
		Type:            model.ActivitySale,
		Timestamp:       s.SaleDate,
		DisplayTitle:    fmt.Sprintf("Sold %dx %s", s.QuantitySold, name),
		DisplaySubtitle: "Sale via " + string(s.SalesChannel),
		DisplayAmount:   SaleRevenue(s),
		SignedDirection: 1,
	}
}

func RestockEntry(r model.Restock) model.ActivityEntry {
	name := DeletedItemName
	if r.Inventory != nil {
		name = r.Inventory.ItemName
	}
	ts := r.DateAdded
	if ts.IsZero() {
		ts = r.CreatedAt
	}
	return model.ActivityEntry{
		ID:              "restock-" + r.ID.String(),
		Type:            model.ActivityRestock,
		Timestamp:       ts,
		DisplayTitle:    "Restocked " + name,
		DisplaySubtitle: "Added " + strconv.Itoa(r.QuantityAdded) + " units",
		DisplayAmount:   r.CostPerUnit.Mul(decimal.NewFromInt(int64(r.QuantityAdded))),
		SignedDirection: 1,
	}
}

func NewStockEntry(it model.InventoryItem) model.ActivityEntry {
	return model.ActivityEntry{
		ID:              "new-" + it.ID.String(),
		Type:            model.ActivityNewStock,
		Timestamp:       it.CreatedAt,
		DisplayTitle:    "Added Item: " + it.ItemName,
		DisplaySubtitle: "Initial Stock: " + strconv.Itoa(it.OriginalQuantity),
		DisplayAmount:   it.PurchasePrice.Mul(decimal.NewFromInt(int64(it.OriginalQuantity))),
		SignedDirection: 1,
	}
}

func ExpenseEntry(e model.Expense) model.ActivityEntry {
	subtitle := e.Description
	if subtitle == "" {
		subtitle = "General overhead"
	}
	return model.ActivityEntry{
		ID:              "expense-" + e.ID.String(),
		Type:            model.ActivityExpense,
		Timestamp:       e.CreatedAt,
		DisplayTitle:    "Expense: " + string(e.Category),
		DisplaySubtitle: subtitle,
		DisplayAmount:   e.Amount,
		SignedDirection: -1,
	}
}
