package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockledger/internal/events"
	"stockledger/internal/model"
	"stockledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type ExpenseRequest struct {
	Category    model.ExpenseCategory `json:"category" binding:"required"`
	Amount      decimal.Decimal       `json:"amount"`
	Description string                `json:"description"`
	InventoryID *string               `json:"inventory_id"`
	ExpenseDate *time.Time            `json:"expense_date"`
}

// --- Interface ---

type ExpenseService interface {
	RecordExpense(ctx context.Context, req ExpenseRequest) (model.Expense, error)
	UpdateExpense(ctx context.Context, id string, req ExpenseRequest) (model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

type expenseService struct {
	expenseRepo   repository.ExpenseRepository
	inventoryRepo repository.InventoryRepository
	publisher     events.Publisher
	now           func() time.Time
}

func NewExpenseService(repos Repositories, publisher events.Publisher) ExpenseService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &expenseService{
		expenseRepo:   repos.Expenses,
		inventoryRepo: repos.Inventory,
		publisher:     publisher,
		now:           time.Now,
	}
}

// --- Implementation ---

func (s *expenseService) RecordExpense(ctx context.Context, req ExpenseRequest) (model.Expense, error) {
	inventoryID, err := s.validate(ctx, req)
	if err != nil {
		return model.Expense{}, err
	}

	now := s.now()
	expense := model.Expense{
		ID:          uuid.New(),
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		InventoryID: inventoryID,
		ExpenseDate: orNow(req.ExpenseDate, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.expenseRepo.Create(ctx, &expense); err != nil {
		return model.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}
	s.notify(ctx, "created", expense)
	return expense, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, id string, req ExpenseRequest) (model.Expense, error) {
	expenseID, err := parseID(id, "expense")
	if err != nil {
		return model.Expense{}, err
	}
	inventoryID, err := s.validate(ctx, req)
	if err != nil {
		return model.Expense{}, err
	}

	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return model.Expense{}, notFound(err, "expense")
	}
	expense.Category = req.Category
	expense.Amount = req.Amount
	expense.Description = req.Description
	expense.InventoryID = inventoryID
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	expense.UpdatedAt = s.now()
	expense.Inventory = nil

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return model.Expense{}, fmt.Errorf("failed to update expense: %w", err)
	}
	s.notify(ctx, "updated", *expense)
	return *expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id string) error {
	expenseID, err := parseID(id, "expense")
	if err != nil {
		return err
	}
	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return notFound(err, "expense")
	}
	if err := s.expenseRepo.Delete(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	s.notify(ctx, "deleted", *expense)
	return nil
}

func (s *expenseService) validate(ctx context.Context, req ExpenseRequest) (*uuid.UUID, error) {
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown expense category %q", ErrInvalidInput, req.Category)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	}
	inventoryID, err := parseOptionalID(req.InventoryID, "inventory")
	if err != nil || inventoryID == nil {
		return nil, err
	}
	if _, err := s.inventoryRepo.FindByID(ctx, *inventoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inventory item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load inventory item: %w", err)
	}
	return inventoryID, nil
}

func (s *expenseService) notify(ctx context.Context, action string, e model.Expense) {
	s.publisher.Publish(ctx, events.Event{
		Event: events.ExpenseChanged,
		Key:   e.ID.String(),
		Data: map[string]interface{}{
			"action":     action,
			"expense_id": e.ID.String(),
			"category":   e.Category,
			"amount":     e.Amount.String(),
		},
		At: s.now(),
	})
}
