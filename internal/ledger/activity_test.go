package ledger

import (
	"testing"
	"time"

	"stockledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func activityFixture(now time.Time) ActivitySources {
	item := newItem(10, 15, 100, 70)
	item.CreatedAt = now.Add(-48 * time.Hour)
	return ActivitySources{
		Sales: []model.Sale{
			{ID: uuid.New(), InventoryID: item.ID, Inventory: &item, QuantitySold: 30, SellingPrice: d(15), SalesChannel: model.ChannelDirect, SaleDate: now.Add(-1 * time.Hour)},
			{ID: uuid.New(), InventoryID: uuid.New(), QuantitySold: 1, SellingPrice: d(20), SalesChannel: model.ChannelTikTok, SaleDate: now.Add(-26 * time.Hour)},
		},
		Restocks: []model.Restock{
			{ID: uuid.New(), InventoryID: item.ID, Inventory: &item, QuantityAdded: 16, CostPerUnit: d(10), DateAdded: now.Add(-30 * time.Minute)},
		},
		NewStock: []model.InventoryItem{item},
		Expenses: []model.Expense{
			{ID: uuid.New(), Category: model.ExpenseShipping, Amount: d(12), CreatedAt: now.Add(-2 * time.Hour)},
		},
	}
}

func TestMergeActivity_OrderAndShape(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	got := MergeActivity(activityFixture(now), ActivityFilter{}, now, "USD")

	if len(got) != 5 {
		t.Fatalf("MergeActivity() returned %d entries, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatalf("entry %d (%s) is newer than entry %d (%s)", i, got[i].Timestamp, i-1, got[i-1].Timestamp)
		}
	}

	wantTypes := []model.ActivityType{model.ActivityRestock, model.ActivitySale, model.ActivityExpense, model.ActivitySale, model.ActivityNewStock}
	for i, want := range wantTypes {
		if got[i].Type != want {
			t.Errorf("entry %d type = %q, want %q", i, got[i].Type, want)
		}
	}

	sale := got[1]
	if sale.DisplayTitle != "Sold 30x Sneakers" || sale.FormattedAmount != "$450.00" || sale.SignedDirection != 1 {
		t.Errorf("sale entry = %+v", sale)
	}
	if got[2].SignedDirection != -1 || got[2].DisplaySubtitle != "General overhead" {
		t.Errorf("expense entry = %+v", got[2])
	}
	if got[3].DisplayTitle != "Sold 1x "+DeletedItemName {
		t.Errorf("orphaned sale title = %q", got[3].DisplayTitle)
	}
	if got[4].DisplaySubtitle != "Initial Stock: 100" || !got[4].DisplayAmount.Equal(d(1000)) {
		t.Errorf("new stock entry = %+v", got[4])
	}
}

func TestMergeActivity_Filters(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	src := activityFixture(now)

	testCases := []struct {
		name   string
		filter ActivityFilter
		want   int
	}{
		{"sales only", ActivityFilter{Type: model.ActivitySale}, 2},
		{"today", ActivityFilter{Date: DateToday}, 3},
		{"yesterday", ActivityFilter{Date: DateYesterday}, 1},
		{"sales today", ActivityFilter{Type: model.ActivitySale, Date: DateToday}, 1},
		{"capped", ActivityFilter{Limit: 2}, 2},
		{"cap above max", ActivityFilter{Limit: 500}, 5},
		{"no matches", ActivityFilter{Type: model.ActivityExpense, Date: DateYesterday}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeActivity(src, tc.filter, now, "USD")
			if len(got) != tc.want {
				t.Fatalf("MergeActivity() returned %d entries, want %d", len(got), tc.want)
			}
			for _, e := range got {
				if tc.filter.Type != "" && e.Type != tc.filter.Type {
					t.Errorf("entry of type %q leaked through %q filter", e.Type, tc.filter.Type)
				}
			}
		})
	}
}

func TestMergeActivity_DefaultCap(t *testing.T) {
	now := time.Now()
	var src ActivitySources
	for i := 0; i < DefaultActivityLimit+5; i++ {
		src.Expenses = append(src.Expenses, model.Expense{ID: uuid.New(), Category: model.ExpenseOther, Amount: decimal.NewFromInt(1), CreatedAt: now})
	}
	got := MergeActivity(src, ActivityFilter{}, now, "USD")
	if len(got) != DefaultActivityLimit {
		t.Fatalf("MergeActivity() returned %d entries, want %d", len(got), DefaultActivityLimit)
	}
	// equal timestamps keep insertion order
	for i, e := range got {
		if e.ID != "expense-"+src.Expenses[i].ID.String() {
			t.Fatalf("entry %d = %s, want %s", i, e.ID, src.Expenses[i].ID)
		}
	}
}

func TestRestockEntry_FallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2025, time.January, 2, 8, 0, 0, 0, time.UTC)
	e := RestockEntry(model.Restock{ID: uuid.New(), QuantityAdded: 3, CostPerUnit: d(4), CreatedAt: created})
	if !e.Timestamp.Equal(created) {
		t.Errorf("Timestamp = %s, want %s", e.Timestamp, created)
	}
	if e.DisplayTitle != "Restocked "+DeletedItemName || !e.DisplayAmount.Equal(d(12)) {
		t.Errorf("RestockEntry() = %+v", e)
	}
}
