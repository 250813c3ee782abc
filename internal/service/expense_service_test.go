package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockledger/internal/events"
	"stockledger/internal/model"

	"github.com/google/uuid"
)

func TestRecordExpenseValidation(t *testing.T) {
	store := newMemStore()
	item := model.InventoryItem{ID: uuid.New(), ItemName: "Kite"}
	store.state.items[item.ID] = item
	svc := NewExpenseService(store.repos(), nil)

	itemID, ghost, junk := item.ID.String(), uuid.NewString(), "not-an-id"
	tests := []struct {
		name    string
		req     ExpenseRequest
		wantErr error
	}{
		{"general overhead", ExpenseRequest{Category: model.ExpenseMarketing, Amount: dec("12.50")}, nil},
		{"tied to item", ExpenseRequest{Category: model.ExpensePackaging, Amount: dec("1"), InventoryID: &itemID}, nil},
		{"zero amount", ExpenseRequest{Category: model.ExpenseOther, Amount: dec("0")}, ErrInvalidInput},
		{"negative amount", ExpenseRequest{Category: model.ExpenseOther, Amount: dec("-3")}, ErrInvalidInput},
		{"unknown category", ExpenseRequest{Category: "Snacks", Amount: dec("3")}, ErrInvalidInput},
		{"unknown item", ExpenseRequest{Category: model.ExpenseRepair, Amount: dec("3"), InventoryID: &ghost}, ErrNotFound},
		{"malformed item id", ExpenseRequest{Category: model.ExpenseRepair, Amount: dec("3"), InventoryID: &junk}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordExpense(context.Background(), tt.req)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if len(store.state.expenses) != 2 {
		t.Fatalf("stored %d expenses, want 2", len(store.state.expenses))
	}
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	store := newMemStore()
	rec := &events.Recorder{}
	svc := NewExpenseService(store.repos(), rec)
	ctx := context.Background()

	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	e, err := svc.RecordExpense(ctx, ExpenseRequest{Category: model.ExpenseShipping, Amount: dec("9"), ExpenseDate: &day})
	if err != nil {
		t.Fatal(err)
	}
	if !e.ExpenseDate.Equal(day) {
		t.Fatalf("expense date = %v", e.ExpenseDate)
	}

	updated, err := svc.UpdateExpense(ctx, e.ID.String(), ExpenseRequest{Category: model.ExpenseShipping, Amount: dec("11"), Description: "courier"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Amount.Equal(dec("11")) || !updated.ExpenseDate.Equal(day) {
		t.Fatalf("updated = %+v", updated)
	}

	if err := svc.DeleteExpense(ctx, e.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteExpense(ctx, e.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	if names := rec.Names(); len(names) != 3 {
		t.Fatalf("events = %v", names)
	}
}
