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

func TestListInventoryFilters(t *testing.T) {
	f := newFixture(t)
	cat := model.Category{ID: uuid.New(), Name: "Toys"}
	f.store.state.categories[cat.ID] = cat

	kite := f.seedItem(t, 20, 20, "5", "8")
	kite.ItemName, kite.CategoryID = "Red kite", &cat.ID
	f.store.state.items[kite.ID] = kite
	lamp := f.seedItem(t, 20, 2, "10", "0")
	lamp.ItemName = "Lamp"
	f.store.state.items[lamp.ID] = lamp

	q := NewQueryService(f.store.repos())
	ctx := context.Background()

	rows, total, err := q.ListInventory(ctx, InventoryQuery{CategoryID: "uncategorized"})
	if err != nil || total != 1 || rows[0].ID != lamp.ID {
		t.Fatalf("uncategorized = %v %d %v", rows, total, err)
	}
	if rows[0].CategoryName != model.UncategorizedName || !rows[0].MarginPercent.IsZero() {
		t.Fatalf("lamp row = %+v", rows[0])
	}

	rows, _, err = q.ListInventory(ctx, InventoryQuery{CategoryID: cat.ID.String()})
	if err != nil || len(rows) != 1 || rows[0].CategoryName != "Toys" {
		t.Fatalf("by category = %v %v", rows, err)
	}
	if !rows[0].MarginPercent.Equal(dec("37.5")) || !rows[0].StockValue.Equal(dec("100")) {
		t.Fatalf("kite margin/value = %s/%s", rows[0].MarginPercent, rows[0].StockValue)
	}

	rows, _, _ = q.ListInventory(ctx, InventoryQuery{Status: string(model.StatusLowStock)})
	if len(rows) != 1 || rows[0].ID != lamp.ID {
		t.Fatalf("low stock = %v", rows)
	}
	rows, _, _ = q.ListInventory(ctx, InventoryQuery{Search: "KITE"})
	if len(rows) != 1 || rows[0].ID != kite.ID {
		t.Fatalf("search = %v", rows)
	}

	if _, _, err := q.ListInventory(ctx, InventoryQuery{Status: "sold_out"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad status err = %v", err)
	}
}

func TestInventoryDetail(t *testing.T) {
	f := newFixture(t)
	it := f.seedItem(t, 100, 100, "10", "15")
	f.sell(t, it.ID, 30, "15")
	if _, err := f.svc.Restock(context.Background(), it.ID.String(), RestockRequest{QuantityAdded: 20}); err != nil {
		t.Fatal(err)
	}

	q := NewQueryService(f.store.repos()).(*queryService)
	q.now = func() time.Time { return fixedNow }
	row, err := q.GetInventoryDetail(context.Background(), it.ID.String())
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if row.UnitsSold != 30 || !row.Revenue.Equal(dec("450")) || !row.RealizedProfit.Equal(dec("150")) {
		t.Fatalf("performance = %d %s %s", row.UnitsSold, row.Revenue, row.RealizedProfit)
	}
	// created ten days ago: 3 units/day against 120 received
	if !row.Velocity.Equal(dec("3")) || row.DaysToExhaust == nil || !row.DaysToExhaust.Equal(dec("40")) {
		t.Fatalf("velocity = %s days = %v", row.Velocity, row.DaysToExhaust)
	}
	if len(row.Restocks) != 1 || row.Restocks[0].ItemName != "Widget" {
		t.Fatalf("restocks = %+v", row.Restocks)
	}
	if len(row.RecentMovements) != 2 || row.RecentMovements[0].Reason != model.MovementRestock {
		t.Fatalf("movements = %+v", row.RecentMovements)
	}

	if _, err := q.GetInventoryDetail(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing item err = %v", err)
	}
}

func TestSaleRowsLabelDeletedItems(t *testing.T) {
	f := newFixture(t)
	kept := f.seedItem(t, 10, 10, "1", "2")
	gone := f.seedItem(t, 10, 10, "1", "2")
	f.sell(t, kept.ID, 1, "2")
	f.sell(t, gone.ID, 2, "2")
	delete(f.store.state.items, gone.ID)

	rows, total, err := NewQueryService(f.store.repos()).ListSales(context.Background(), HistoryQuery{})
	if err != nil || total != 2 {
		t.Fatalf("list = %v %d %v", rows, total, err)
	}
	var orphans int
	for _, r := range rows {
		if r.Orphaned {
			orphans++
			if r.ItemName != ledger.DeletedItemName || !r.Profit.Equal(dec("4")) {
				t.Fatalf("orphan row = %+v", r)
			}
		}
	}
	if orphans != 1 {
		t.Fatalf("orphans = %d, want 1", orphans)
	}
}

func TestExpenseRowsAndExport(t *testing.T) {
	f := newFixture(t)
	it := f.seedItem(t, 10, 10, "1", "2")
	ghost := uuid.New()
	for _, e := range []model.Expense{
		{ID: uuid.New(), Category: model.ExpenseShipping, Amount: dec("3"), InventoryID: &it.ID, ExpenseDate: fixedNow},
		{ID: uuid.New(), Category: model.ExpenseShipping, Amount: dec("5"), InventoryID: &ghost, ExpenseDate: fixedNow.Add(-time.Hour)},
		{ID: uuid.New(), Category: model.ExpenseMarketing, Amount: dec("7"), ExpenseDate: fixedNow.Add(-2 * time.Hour)},
	} {
		f.store.state.expenses[e.ID] = e
	}
	q := NewQueryService(f.store.repos())

	rows, total, err := q.ListExpenses(context.Background(), ExpenseQuery{Category: "Shipping", Limit: 1})
	if err != nil || total != 2 || len(rows) != 1 {
		t.Fatalf("page = %v %d %v", rows, total, err)
	}
	if rows[0].ItemName != "Widget" {
		t.Fatalf("first row = %+v", rows[0])
	}

	all, err := q.ExportExpenses(context.Background(), ExpenseQuery{})
	if err != nil || len(all) != 3 {
		t.Fatalf("export = %v %v", all, err)
	}
	if all[1].ItemName != ledger.DeletedItemName || all[2].ItemName != "" {
		t.Fatalf("names = %q %q", all[1].ItemName, all[2].ItemName)
	}

	if _, _, err := q.ListExpenses(context.Background(), ExpenseQuery{Category: "Snacks"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad category err = %v", err)
	}
}

func TestBatchSummary(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.AddBatch(context.Background(), AddBatchRequest{
		BatchName: "Spring",
		Items: []ItemInput{
			{ItemName: "Kite", PurchasePrice: dec("5"), SellingPrice: dec("8"), Quantity: 10},
			{ItemName: "Ball", PurchasePrice: dec("2"), SellingPrice: dec("3"), Quantity: 25},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	summary, err := NewQueryService(f.store.repos()).GetBatchSummary(context.Background(), res.Batch.ID.String())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	// investment 100, profit 55
	if !summary.ROI.Equal(dec("55")) || len(summary.Items) != 2 || summary.Items[0].BatchName != "Spring" {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestStockHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.AddBatch(ctx, AddBatchRequest{
		BatchName: "Spring",
		Items: []ItemInput{
			{ItemName: "Kite", PurchasePrice: dec("5"), SellingPrice: dec("8"), Quantity: 10},
			{ItemName: "Ball", PurchasePrice: dec("2"), SellingPrice: dec("3"), Quantity: 25},
		},
	}); err != nil {
		t.Fatal(err)
	}
	var kite model.InventoryItem
	for _, it := range f.store.state.items {
		if it.ItemName == "Kite" {
			kite = it
		}
	}
	widget := f.seedItem(t, 20, 20, "1", "2")

	later, earlier := fixedNow.Add(time.Hour), fixedNow.AddDate(0, 0, -2)
	if _, err := f.svc.Restock(ctx, kite.ID.String(), RestockRequest{QuantityAdded: 5, DateAdded: &later}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Restock(ctx, widget.ID.String(), RestockRequest{QuantityAdded: 10, DateAdded: &earlier}); err != nil {
		t.Fatal(err)
	}

	q := NewQueryService(f.store.repos())
	all, err := q.ListStockHistory(ctx, StockHistoryQuery{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	// 25 + 50 + 50 + 10 + 20
	if all.Events != 5 || !all.TotalInvestment.Equal(dec("155")) {
		t.Fatalf("events = %d investment = %s", all.Events, all.TotalInvestment)
	}
	first, last := all.Entries[0], all.Entries[len(all.Entries)-1]
	if first.Type != HistoryRestock || first.ItemName != "Kite" || first.BatchName != "Spring" || !first.TotalInvestment.Equal(dec("25")) {
		t.Fatalf("first = %+v", first)
	}
	if last.Type != HistoryInitial || last.InventoryID != widget.ID || last.BatchName != IndividualEntryName || last.Quantity != 20 {
		t.Fatalf("last = %+v", last)
	}

	tests := []struct {
		name       string
		query      StockHistoryQuery
		events     int64
		entries    int
		investment string
	}{
		{"restocks only", StockHistoryQuery{Type: "restock"}, 2, 2, "35"},
		{"initial only", StockHistoryQuery{Type: "initial"}, 3, 3, "120"},
		{"batch search", StockHistoryQuery{Search: "SPRING"}, 3, 3, "125"},
		{"item search", StockHistoryQuery{Search: "widg"}, 2, 2, "30"},
		{"one item", StockHistoryQuery{Type: "initial", InventoryID: widget.ID.String()}, 1, 1, "20"},
		{"last page", StockHistoryQuery{Page: 3, Limit: 2}, 5, 1, "155"},
		{"past the end", StockHistoryQuery{Page: 9, Limit: 2}, 5, 0, "155"},
		{"date window", StockHistoryQuery{From: fixedNow.AddDate(0, 0, -3), To: fixedNow.AddDate(0, 0, -1)}, 1, 1, "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.ListStockHistory(ctx, tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if got.Events != tt.events || len(got.Entries) != tt.entries || !got.TotalInvestment.Equal(dec(tt.investment)) {
				t.Fatalf("events = %d entries = %d investment = %s", got.Events, len(got.Entries), got.TotalInvestment)
			}
		})
	}

	for _, e := range all.Entries {
		if e.InventoryID == widget.ID && e.Type == HistoryRestock && e.BatchName != RestockEntryName {
			t.Fatalf("widget restock batch = %q", e.BatchName)
		}
	}

	rows, err := q.ExportStockHistory(ctx, StockHistoryQuery{Type: "restock"})
	if err != nil || len(rows) != 2 {
		t.Fatalf("export = %v %v", rows, err)
	}
	if _, err := q.ListStockHistory(ctx, StockHistoryQuery{Type: "refund"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad type err = %v", err)
	}
}
