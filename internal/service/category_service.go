package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockledger/internal/events"
	"stockledger/internal/model"
	"stockledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CategoryService interface {
	CreateCategory(ctx context.Context, userID string, req CategoryRequest) (model.Category, error)
	UpdateCategory(ctx context.Context, userID, id string, req CategoryRequest) (model.Category, error)
	// DeleteCategory moves its items and batches to Uncategorized.
	DeleteCategory(ctx context.Context, userID, id string) error
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)
}

type categoryService struct {
	categoryRepo  repository.CategoryRepository
	inventoryRepo repository.InventoryRepository
	batchRepo     repository.BatchRepository
	txManager     repository.TransactionManager
	publisher     events.Publisher
}

func NewCategoryService(repos Repositories, txManager repository.TransactionManager, publisher events.Publisher) CategoryService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &categoryService{
		categoryRepo:  repos.Categories,
		inventoryRepo: repos.Inventory,
		batchRepo:     repos.Batches,
		txManager:     txManager,
		publisher:     publisher,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, userID string, req CategoryRequest) (model.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	owner := ownerFromUser(userID)
	if err := s.ensureUnique(ctx, owner, name, uuid.Nil); err != nil {
		return model.Category{}, err
	}

	now := time.Now()
	category := model.Category{
		ID:          uuid.New(),
		OwnerID:     owner,
		Name:        name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		if repository.IsUniqueViolation(err) {
			return model.Category{}, fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
		}
		return model.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	s.notify(ctx, "created", category.ID)
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, userID, id string, req CategoryRequest) (model.Category, error) {
	categoryID, err := parseID(id, "category")
	if err != nil {
		return model.Category{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	category, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return model.Category{}, err
	}
	if err := s.ensureUnique(ctx, category.OwnerID, name, category.ID); err != nil {
		return model.Category{}, err
	}

	category.Name = name
	category.Description = req.Description
	category.UpdatedAt = time.Now()
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return model.Category{}, fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
		}
		return model.Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	s.notify(ctx, "updated", category.ID)
	return *category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, userID, id string) error {
	categoryID, err := parseID(id, "category")
	if err != nil {
		return err
	}
	if _, err := s.ownedCategory(ctx, userID, categoryID); err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.inventoryRepo.ClearCategory(txCtx, categoryID); err != nil {
			return fmt.Errorf("failed to uncategorize items: %w", err)
		}
		if err := s.batchRepo.ClearCategory(txCtx, categoryID); err != nil {
			return fmt.Errorf("failed to uncategorize batches: %w", err)
		}
		if err := s.categoryRepo.Delete(txCtx, categoryID); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notify(ctx, "deleted", categoryID)
	return nil
}

func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	categories, err := s.categoryRepo.List(ctx, ownerFromUser(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ownedCategory hides categories of other owners behind ErrNotFound.
func (s *categoryService) ownedCategory(ctx context.Context, userID string, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	if category.OwnerID != ownerFromUser(userID) {
		return nil, fmt.Errorf("category: %w", ErrNotFound)
	}
	return category, nil
}

func (s *categoryService) ensureUnique(ctx context.Context, owner uuid.UUID, name string, self uuid.UUID) error {
	existing, err := s.categoryRepo.FindByName(ctx, owner, name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check category name: %w", err)
	case existing.ID == self:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
}

func (s *categoryService) notify(ctx context.Context, action string, id uuid.UUID) {
	s.publisher.Publish(ctx, events.Event{
		Event: events.CategoryChanged,
		Key:   id.String(),
		Data:  map[string]interface{}{"action": action, "category_id": id.String()},
		At:    time.Now(),
	})
}
