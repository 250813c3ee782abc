package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockledger/internal/ledger"
	"stockledger/internal/model"

	"github.com/google/uuid"
)

func newActivity(f *fixture, limit int) *activityService {
	s := NewActivityService(f.store.repos(), "USD", limit, time.UTC).(*activityService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestActivityFeed(t *testing.T) {
	f := newFixture(t)
	it := f.seedItem(t, 10, 10, "2", "5")
	it.CreatedAt = fixedNow.AddDate(0, 0, -1)
	f.store.state.items[it.ID] = it

	yesterday := fixedNow.AddDate(0, 0, -1).Add(2 * time.Hour)
	if _, err := f.svc.RecordSale(context.Background(), RecordSaleRequest{InventoryID: it.ID.String(), QuantitySold: 2, SellingPrice: dec("5"), SaleDate: &yesterday}); err != nil {
		t.Fatal(err)
	}
	f.sell(t, it.ID, 1, "5")
	if _, err := f.svc.Restock(context.Background(), it.ID.String(), RestockRequest{QuantityAdded: 4}); err != nil {
		t.Fatal(err)
	}
	exp := model.Expense{ID: uuid.New(), Category: model.ExpenseShipping, Amount: dec("3"), CreatedAt: fixedNow.Add(-time.Minute)}
	f.store.state.expenses[exp.ID] = exp

	feed, err := newActivity(f, 0).Feed(context.Background(), ActivityQuery{})
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed) != 5 {
		t.Fatalf("entries = %d, want 5", len(feed))
	}
	for i := 1; i < len(feed); i++ {
		if feed[i].Timestamp.After(feed[i-1].Timestamp) {
			t.Fatalf("feed not newest first at %d", i)
		}
	}

	tests := []struct {
		name  string
		query ActivityQuery
		want  int
	}{
		{"today", ActivityQuery{Date: "today"}, 3},
		{"yesterday", ActivityQuery{Date: "yesterday"}, 2},
		{"sales only", ActivityQuery{Type: "sale"}, 2},
		{"sales yesterday", ActivityQuery{Type: "sale", Date: "yesterday"}, 1},
		{"expenses", ActivityQuery{Type: "expense"}, 1},
		{"capped", ActivityQuery{Limit: 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newActivity(f, 0).Feed(context.Background(), tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Fatalf("entries = %d, want %d", len(got), tt.want)
			}
			for _, e := range got {
				if tt.query.Type != "" && string(e.Type) != tt.query.Type {
					t.Fatalf("type filter leaked %s", e.Type)
				}
				if tt.query.Date == "today" && !ledger.SameDay(e.Timestamp, fixedNow) {
					t.Fatalf("%s is not today", e.Timestamp)
				}
				if e.FormattedAmount == "" {
					t.Fatalf("entry %s has no formatted amount", e.ID)
				}
			}
		})
	}

	for _, q := range []ActivityQuery{{Type: "refund"}, {Date: "tomorrow"}} {
		if _, err := newActivity(f, 0).Feed(context.Background(), q); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%+v err = %v, want ErrInvalidInput", q, err)
		}
	}
}

func TestActivityLimits(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 130; i++ {
		e := model.Expense{ID: uuid.New(), Category: model.ExpenseOther, Amount: dec("1"), CreatedAt: fixedNow.Add(-time.Duration(i) * time.Minute)}
		f.store.state.expenses[e.ID] = e
	}
	tests := []struct {
		configured, requested, want int
	}{
		{0, 0, ledger.DefaultActivityLimit},
		{50, 0, 50},
		{500, 0, ledger.MaxActivityLimit},
		{0, 500, ledger.MaxActivityLimit},
		{0, 7, 7},
	}
	for _, tt := range tests {
		got, err := newActivity(f, tt.configured).Feed(context.Background(), ActivityQuery{Limit: tt.requested})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != tt.want {
			t.Errorf("configured %d requested %d: entries = %d, want %d", tt.configured, tt.requested, len(got), tt.want)
		}
	}
}
