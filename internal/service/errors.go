package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Validation errors are returned before anything is written.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidDiscount   = errors.New("discount must be between 0 and the sale total")
	ErrInvalidPrice      = errors.New("prices must not be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCategory = errors.New("category name already exists")
	ErrOrphanedRecord    = errors.New("record belongs to a deleted item")
	ErrBusy              = errors.New("item is being modified, please try again")
)

// ConsistencyError reports a write whose outcome is unknown: the ledger transaction did
// its work but could not be confirmed as committed. It needs manual reconciliation.
type ConsistencyError struct {
	Operation string
	ItemID    uuid.UUID
	Delta     int
	Err       error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s on item %s (delta %d) may not have been applied: %v", e.Operation, e.ItemID, e.Delta, e.Err)
}

func (e *ConsistencyError) Unwrap() error { return e.Err }

// MissingItemsError lists ids of a bulk request that do not exist. Nothing was changed.
type MissingItemsError struct {
	IDs []uuid.UUID
}

func (e *MissingItemsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return "items not found: " + strings.Join(ids, ", ")
}

func (e *MissingItemsError) Is(target error) bool { return target == ErrNotFound }

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s id %q", ErrInvalidInput, what, raw)
	}
	return id, nil
}

func parseOptionalID(raw *string, what string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := parseID(*raw, what)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseIDs(raw []string, what string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no %s ids given", ErrInvalidInput, what)
	}
	seen := make(map[uuid.UUID]bool, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r, what)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ownerFromUser maps the authenticated subject to a category owner; unauthenticated
// callers share the nil owner.
func ownerFromUser(userID string) uuid.UUID {
	if id, err := uuid.Parse(userID); err == nil {
		return id
	}
	return uuid.Nil
}
