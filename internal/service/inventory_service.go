package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"stockledger/internal/events"
	"stockledger/internal/ledger"
	"stockledger/internal/lock"
	"stockledger/internal/model"
	"stockledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- DTOs ---

type ItemInput struct {
	ItemName      string          `json:"item_name" binding:"required"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Quantity      int             `json:"quantity"`
}

type AddStockRequest struct {
	ItemInput
	CategoryID *string `json:"category_id"`
	BatchName  string  `json:"batch_name"`
}

type AddBatchRequest struct {
	BatchName  string      `json:"batch_name" binding:"required"`
	CategoryID *string     `json:"category_id"`
	Items      []ItemInput `json:"items" binding:"required,min=1"`
}

type RecordSaleRequest struct {
	InventoryID    string             `json:"inventory_id" binding:"required"`
	QuantitySold   int                `json:"quantity_sold"`
	SellingPrice   decimal.Decimal    `json:"selling_price"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	SalesChannel   model.SalesChannel `json:"sales_channel"`
	Notes          string             `json:"notes"`
	SaleDate       *time.Time         `json:"sale_date"`
}

// EditSaleRequest replaces the editable fields of a sale.
type EditSaleRequest struct {
	QuantitySold   int                `json:"quantity_sold"`
	SellingPrice   decimal.Decimal    `json:"selling_price"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	SalesChannel   model.SalesChannel `json:"sales_channel"`
	Notes          string             `json:"notes"`
	SaleDate       *time.Time         `json:"sale_date"`
}

// RestockRequest adds units; nil prices keep the item's current prices.
type RestockRequest struct {
	QuantityAdded int              `json:"quantity_added"`
	CostPerUnit   *decimal.Decimal `json:"cost_per_unit"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	DateAdded     *time.Time       `json:"date_added"`
}

type BulkRecategorizeRequest struct {
	ItemIDs    []string `json:"item_ids" binding:"required,min=1"`
	CategoryID *string  `json:"category_id"` // nil or empty moves items to Uncategorized
}

type BulkDeleteRequest struct {
	ItemIDs []string `json:"item_ids" binding:"required,min=1"`
}

// EditItemRequest is the trusted correction path. Quantity edits here are journaled as
// CORRECTION movements but create no sale or restock rows.
type EditItemRequest struct {
	ItemName          *string          `json:"item_name"`
	Description       *string          `json:"description"`
	ImageURL          *string          `json:"image_url"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price"`
	SellingPrice      *decimal.Decimal `json:"selling_price"`
	QuantityRemaining *int             `json:"quantity_remaining"`
	TotalReceived     *int             `json:"total_received"`
	CategoryID        *string          `json:"category_id"`
	ClearCategory     bool             `json:"clear_category"`
}

type StockLevel struct {
	ItemID            uuid.UUID         `json:"item_id"`
	QuantityRemaining int               `json:"quantity_remaining"`
	TotalReceived     int               `json:"total_received"`
	Status            model.StockStatus `json:"status"`
}

type IntakeResult struct {
	Batch    model.Batch           `json:"batch"`
	Items    []model.InventoryItem `json:"items"`
	ROI      decimal.Decimal       `json:"roi"`
	Warnings []string              `json:"warnings,omitempty"`
}

type SaleResult struct {
	Sale    model.Sale      `json:"sale"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
	Stock   StockLevel      `json:"stock"`
}

type RestockResult struct {
	Restock model.Restock `json:"restock"`
	Stock   StockLevel    `json:"stock"`
}

type BulkResult struct {
	Affected int         `json:"affected"`
	ItemIDs  []uuid.UUID `json:"item_ids"`
}

// --- Interface ---

// InventoryService is the only path that changes stock quantities, prices or status.
type InventoryService interface {
	AddStock(ctx context.Context, req AddStockRequest) (IntakeResult, error)
	AddBatch(ctx context.Context, req AddBatchRequest) (IntakeResult, error)
	RecordSale(ctx context.Context, req RecordSaleRequest) (SaleResult, error)
	EditSale(ctx context.Context, saleID string, req EditSaleRequest) (SaleResult, error)
	DeleteSale(ctx context.Context, saleID string) (StockLevel, error)
	Restock(ctx context.Context, itemID string, req RestockRequest) (RestockResult, error)
	BulkRecategorize(ctx context.Context, req BulkRecategorizeRequest) (BulkResult, error)
	BulkDelete(ctx context.Context, req BulkDeleteRequest) (BulkResult, error)
	EditItem(ctx context.Context, itemID string, req EditItemRequest) (model.InventoryItem, error)
}

// Repositories bundles the ledger store accessors shared by the services.
type Repositories struct {
	Inventory  repository.InventoryRepository
	Batches    repository.BatchRepository
	Sales      repository.SaleRepository
	Restocks   repository.RestockRepository
	Expenses   repository.ExpenseRepository
	Movements  repository.MovementRepository
	Categories repository.CategoryRepository
}

type inventoryService struct {
	repos     Repositories
	txManager repository.TransactionManager
	locker    lock.Locker
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewInventoryService(
	repos Repositories,
	txManager repository.TransactionManager,
	locker lock.Locker,
	publisher events.Publisher,
	logger *zap.Logger,
) InventoryService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &inventoryService{
		repos:     repos,
		txManager: txManager,
		locker:    locker,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// --- Intake ---

func (s *inventoryService) AddStock(ctx context.Context, req AddStockRequest) (IntakeResult, error) {
	name := strings.TrimSpace(req.BatchName)
	if name == "" {
		name = strings.TrimSpace(req.ItemName)
	}
	return s.intake(ctx, name, req.CategoryID, []ItemInput{req.ItemInput}, events.StockAdded)
}

func (s *inventoryService) AddBatch(ctx context.Context, req AddBatchRequest) (IntakeResult, error) {
	if len(req.Items) == 0 {
		return IntakeResult{}, fmt.Errorf("%w: a batch needs at least one item", ErrInvalidInput)
	}
	return s.intake(ctx, strings.TrimSpace(req.BatchName), req.CategoryID, req.Items, events.BatchAdded)
}

func (s *inventoryService) intake(ctx context.Context, batchName string, rawCategory *string, inputs []ItemInput, event string) (IntakeResult, error) {
	var warnings []string
	for i, in := range inputs {
		w, err := validateItemInput(in)
		if err != nil {
			if len(inputs) > 1 {
				return IntakeResult{}, fmt.Errorf("item %d: %w", i+1, err)
			}
			return IntakeResult{}, err
		}
		warnings = append(warnings, w...)
	}
	if batchName == "" {
		return IntakeResult{}, fmt.Errorf("%w: batch name is required", ErrInvalidInput)
	}
	categoryID, err := parseOptionalID(rawCategory, "category")
	if err != nil {
		return IntakeResult{}, err
	}

	now := s.now()
	batch := model.Batch{ID: uuid.New(), BatchName: batchName, CategoryID: categoryID, CreatedAt: now, UpdatedAt: now}
	items := make([]model.InventoryItem, len(inputs))
	for i, in := range inputs {
		items[i] = model.InventoryItem{
			ID:                uuid.New(),
			ItemName:          strings.TrimSpace(in.ItemName),
			Description:       in.Description,
			ImageURL:          in.ImageURL,
			CategoryID:        categoryID,
			BatchID:           &batch.ID,
			PurchasePrice:     in.PurchasePrice,
			SellingPrice:      in.SellingPrice,
			OriginalQuantity:  in.Quantity,
			TotalReceived:     in.Quantity,
			QuantityRemaining: in.Quantity,
			Status:            ledger.DeriveStatus(in.Quantity, in.Quantity),
			PriceUpdatedAt:    now,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}
	batch.TotalInvestment, batch.ExpectedRevenue, batch.ExpectedProfit = ledger.BatchSnapshot(items)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if categoryID != nil {
			if _, err := s.repos.Categories.FindByID(txCtx, *categoryID); err != nil {
				return notFound(err, "category")
			}
		}
		if err := s.repos.Batches.Create(txCtx, &batch); err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}
		for i := range items {
			if err := s.repos.Inventory.Create(txCtx, &items[i]); err != nil {
				return fmt.Errorf("failed to create item %q: %w", items[i].ItemName, err)
			}
			if err := s.journal(txCtx, items[i].ID, nil, model.MovementIntake, items[i].QuantityRemaining, items[i].QuantityRemaining); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return IntakeResult{}, s.translate(err, "intake", items[0].ID, items[0].QuantityRemaining)
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID.String()
	}
	s.publish(ctx, event, batch.ID.String(), map[string]interface{}{
		"batch_id": batch.ID.String(),
		"item_ids": ids,
	})

	return IntakeResult{Batch: batch, Items: items, ROI: ledger.ROI(batch), Warnings: warnings}, nil
}

func validateItemInput(in ItemInput) ([]string, error) {
	if strings.TrimSpace(in.ItemName) == "" {
		return nil, fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if in.PurchasePrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if in.SellingPrice.LessThan(in.PurchasePrice) {
		return []string{fmt.Sprintf("%s: selling price %s is below purchase price %s", in.ItemName, in.SellingPrice, in.PurchasePrice)}, nil
	}
	return nil, nil
}

// --- Sales ---

func (s *inventoryService) RecordSale(ctx context.Context, req RecordSaleRequest) (SaleResult, error) {
	itemID, err := parseID(req.InventoryID, "inventory")
	if err != nil {
		return SaleResult{}, err
	}
	channel, err := validateSale(req.QuantitySold, req.SellingPrice, req.DiscountAmount, req.SalesChannel)
	if err != nil {
		return SaleResult{}, err
	}

	now := s.now()
	sale := model.Sale{
		ID:             uuid.New(),
		InventoryID:    itemID,
		QuantitySold:   req.QuantitySold,
		SellingPrice:   req.SellingPrice,
		DiscountAmount: req.DiscountAmount,
		SalesChannel:   channel,
		Notes:          req.Notes,
		SaleDate:       orNow(req.SaleDate, now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var (
		item  *model.InventoryItem
		level StockLevel
	)
	err = s.withItemLocks(ctx, []uuid.UUID{itemID}, func() error {
		return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			var err error
			item, err = s.repos.Inventory.FindByIDForUpdate(txCtx, itemID)
			if err != nil {
				return notFound(err, "inventory item")
			}
			if sale.QuantitySold > item.QuantityRemaining {
				return fmt.Errorf("%w: %d requested, %d remaining", ErrInsufficientStock, sale.QuantitySold, item.QuantityRemaining)
			}
			if err := s.repos.Sales.Create(txCtx, &sale); err != nil {
				return fmt.Errorf("failed to create sale: %w", err)
			}
			level, err = s.applyDelta(txCtx, item, -sale.QuantitySold, 0, model.MovementSale, &sale.ID)
			return err
		})
	})
	if err != nil {
		return SaleResult{}, s.translate(err, "record_sale", itemID, -req.QuantitySold)
	}

	s.publish(ctx, events.SaleRecorded, itemID.String(), map[string]interface{}{
		"sale_id":            sale.ID.String(),
		"inventory_id":       itemID.String(),
		"quantity_sold":      sale.QuantitySold,
		"quantity_remaining": level.QuantityRemaining,
		"status":             level.Status,
	})

	return SaleResult{
		Sale:    sale,
		Revenue: ledger.SaleRevenue(sale),
		Profit:  ledger.SaleProfit(sale, item),
		Stock:   level,
	}, nil
}

func (s *inventoryService) EditSale(ctx context.Context, saleID string, req EditSaleRequest) (SaleResult, error) {
	id, err := parseID(saleID, "sale")
	if err != nil {
		return SaleResult{}, err
	}
	channel, err := validateSale(req.QuantitySold, req.SellingPrice, req.DiscountAmount, req.SalesChannel)
	if err != nil {
		return SaleResult{}, err
	}

	existing, err := s.repos.Sales.FindByID(ctx, id)
	if err != nil {
		return SaleResult{}, notFound(err, "sale")
	}
	itemID := existing.InventoryID

	var (
		sale  *model.Sale
		item  *model.InventoryItem
		level StockLevel
		delta int
	)
	err = s.withItemLocks(ctx, []uuid.UUID{itemID}, func() error {
		return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			var err error
			sale, err = s.repos.Sales.FindByIDForUpdate(txCtx, id)
			if err != nil {
				return notFound(err, "sale")
			}
			item, err = s.repos.Inventory.FindByIDForUpdate(txCtx, sale.InventoryID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("sale %s: %w", id, ErrOrphanedRecord)
				}
				return fmt.Errorf("failed to load inventory item: %w", err)
			}

			// the units of this sale are already deducted from remaining
			available := item.QuantityRemaining + sale.QuantitySold
			if req.QuantitySold > available {
				return fmt.Errorf("%w: %d requested, %d available for this sale", ErrInsufficientStock, req.QuantitySold, available)
			}
			delta = sale.QuantitySold - req.QuantitySold

			sale.QuantitySold = req.QuantitySold
			sale.SellingPrice = req.SellingPrice
			sale.DiscountAmount = req.DiscountAmount
			sale.SalesChannel = channel
			sale.Notes = req.Notes
			if req.SaleDate != nil {
				sale.SaleDate = *req.SaleDate
			}
			sale.UpdatedAt = s.now()
			if err := s.repos.Sales.Update(txCtx, sale); err != nil {
				return fmt.Errorf("failed to update sale: %w", err)
			}

			if delta == 0 {
				level = levelOf(*item)
				return nil
			}
			level, err = s.applyDelta(txCtx, item, delta, 0, model.MovementSaleEdit, &sale.ID)
			return err
		})
	})
	if err != nil {
		return SaleResult{}, s.translate(err, "edit_sale", itemID, delta)
	}

	s.publish(ctx, events.SaleEdited, itemID.String(), map[string]interface{}{
		"sale_id":            sale.ID.String(),
		"inventory_id":       itemID.String(),
		"quantity_sold":      sale.QuantitySold,
		"quantity_remaining": level.QuantityRemaining,
		"status":             level.Status,
	})

	return SaleResult{
		Sale:    *sale,
		Revenue: ledger.SaleRevenue(*sale),
		Profit:  ledger.SaleProfit(*sale, item),
		Stock:   level,
	}, nil
}

// DeleteSale returns the sold units to stock and removes the sale in one transaction.
// Sales of deleted items are removed without any stock effect.
func (s *inventoryService) DeleteSale(ctx context.Context, saleID string) (StockLevel, error) {
	id, err := parseID(saleID, "sale")
	if err != nil {
		return StockLevel{}, err
	}
	existing, err := s.repos.Sales.FindByID(ctx, id)
	if err != nil {
		return StockLevel{}, notFound(err, "sale")
	}
	itemID := existing.InventoryID

	var level StockLevel
	err = s.withItemLocks(ctx, []uuid.UUID{itemID}, func() error {
		return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			sale, err := s.repos.Sales.FindByIDForUpdate(txCtx, id)
			if err != nil {
				return notFound(err, "sale")
			}
			item, err := s.repos.Inventory.FindByIDForUpdate(txCtx, sale.InventoryID)
			switch {
			case err == nil:
				// restore first so a failed delete never loses the units
				level, err = s.applyDelta(txCtx, item, sale.QuantitySold, 0, model.MovementSaleDelete, &sale.ID)
				if err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				level = StockLevel{ItemID: sale.InventoryID}
			default:
				return fmt.Errorf("failed to load inventory item: %w", err)
			}
			if err := s.repos.Sales.Delete(txCtx, sale.ID); err != nil {
				return fmt.Errorf("failed to delete sale: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return StockLevel{}, s.translate(err, "delete_sale", itemID, existing.QuantitySold)
	}

	s.publish(ctx, events.SaleDeleted, itemID.String(), map[string]interface{}{
		"sale_id":            id.String(),
		"inventory_id":       itemID.String(),
		"quantity_remaining": level.QuantityRemaining,
		"status":             level.Status,
	})
	return level, nil
}

func validateSale(qty int, price, discount decimal.Decimal, channel model.SalesChannel) (model.SalesChannel, error) {
	if qty < 1 {
		return "", ErrInvalidQuantity
	}
	if price.IsNegative() {
		return "", ErrInvalidPrice
	}
	if discount.IsNegative() {
		return "", ErrInvalidDiscount
	}
	total := price.Mul(decimal.NewFromInt(int64(qty)))
	if total.Sub(discount).IsNegative() {
		return "", fmt.Errorf("%w: discount %s exceeds total %s", ErrInvalidDiscount, discount, total)
	}
	if channel == "" {
		channel = model.ChannelDirect
	}
	if !channel.Valid() {
		return "", fmt.Errorf("%w: unknown sales channel %q", ErrInvalidInput, channel)
	}
	return channel, nil
}

// --- Restock ---

func (s *inventoryService) Restock(ctx context.Context, itemID string, req RestockRequest) (RestockResult, error) {
	id, err := parseID(itemID, "inventory")
	if err != nil {
		return RestockResult{}, err
	}
	if req.QuantityAdded < 1 {
		return RestockResult{}, ErrInvalidQuantity
	}
	if (req.CostPerUnit != nil && req.CostPerUnit.IsNegative()) || (req.SellingPrice != nil && req.SellingPrice.IsNegative()) {
		return RestockResult{}, ErrInvalidPrice
	}

	now := s.now()
	var (
		restock model.Restock
		level   StockLevel
	)
	err = s.withItemLocks(ctx, []uuid.UUID{id}, func() error {
		return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			item, err := s.repos.Inventory.FindByIDForUpdate(txCtx, id)
			if err != nil {
				return notFound(err, "inventory item")
			}
			cost, selling := item.PurchasePrice, item.SellingPrice
			if req.CostPerUnit != nil {
				cost = *req.CostPerUnit
			}
			if req.SellingPrice != nil {
				selling = *req.SellingPrice
			}

			restock = model.Restock{
				ID:            uuid.New(),
				InventoryID:   id,
				QuantityAdded: req.QuantityAdded,
				CostPerUnit:   cost,
				SellingPrice:  selling,
				DateAdded:     orNow(req.DateAdded, now),
				CreatedAt:     now,
			}
			if err := s.repos.Restocks.Create(txCtx, &restock); err != nil {
				return fmt.Errorf("failed to create restock: %w", err)
			}
			level, err = s.applyDelta(txCtx, item, req.QuantityAdded, req.QuantityAdded, model.MovementRestock, &restock.ID)
			if err != nil {
				return err
			}
			if err := s.repos.Inventory.UpdatePricing(txCtx, id, cost, selling, now); err != nil {
				return fmt.Errorf("failed to update prices: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return RestockResult{}, s.translate(err, "restock", id, req.QuantityAdded)
	}

	s.publish(ctx, events.ItemRestocked, id.String(), map[string]interface{}{
		"restock_id":         restock.ID.String(),
		"inventory_id":       id.String(),
		"quantity_added":     restock.QuantityAdded,
		"quantity_remaining": level.QuantityRemaining,
		"total_received":     level.TotalReceived,
		"status":             level.Status,
	})
	return RestockResult{Restock: restock, Stock: level}, nil
}

// --- Bulk operations ---

func (s *inventoryService) BulkRecategorize(ctx context.Context, req BulkRecategorizeRequest) (BulkResult, error) {
	ids, err := parseIDs(req.ItemIDs, "inventory")
	if err != nil {
		return BulkResult{}, err
	}
	categoryID, err := parseOptionalID(req.CategoryID, "category")
	if err != nil {
		return BulkResult{}, err
	}

	var affected int64
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if categoryID != nil {
			if _, err := s.repos.Categories.FindByID(txCtx, *categoryID); err != nil {
				return notFound(err, "category")
			}
		}
		if err := s.requireItems(txCtx, ids); err != nil {
			return err
		}
		var err error
		affected, err = s.repos.Inventory.SetCategory(txCtx, ids, categoryID)
		if err != nil {
			return fmt.Errorf("failed to recategorize items: %w", err)
		}
		return nil
	})
	if err != nil {
		return BulkResult{}, s.translate(err, "bulk_recategorize", ids[0], 0)
	}

	target := ""
	if categoryID != nil {
		target = categoryID.String()
	}
	s.publish(ctx, events.ItemsRecategorize, target, map[string]interface{}{
		"item_ids":    idStrings(ids),
		"category_id": target,
	})
	return BulkResult{Affected: int(affected), ItemIDs: ids}, nil
}

// BulkDelete removes the items with their sales, restocks and movements. Expenses that
// referenced them are kept as general overhead.
func (s *inventoryService) BulkDelete(ctx context.Context, req BulkDeleteRequest) (BulkResult, error) {
	ids, err := parseIDs(req.ItemIDs, "inventory")
	if err != nil {
		return BulkResult{}, err
	}

	var affected int64
	err = s.withItemLocks(ctx, ids, func() error {
		return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.requireItems(txCtx, ids); err != nil {
				return err
			}
			if err := s.repos.Sales.DeleteByInventoryIDs(txCtx, ids); err != nil {
				return fmt.Errorf("failed to delete sales: %w", err)
			}
			if err := s.repos.Restocks.DeleteByInventoryIDs(txCtx, ids); err != nil {
				return fmt.Errorf("failed to delete restocks: %w", err)
			}
			if err := s.repos.Movements.DeleteByInventoryIDs(txCtx, ids); err != nil {
				return fmt.Errorf("failed to delete stock movements: %w", err)
			}
			if err := s.repos.Expenses.DetachInventory(txCtx, ids); err != nil {
				return fmt.Errorf("failed to detach expenses: %w", err)
			}
			var err error
			affected, err = s.repos.Inventory.DeleteByIDs(txCtx, ids)
			if err != nil {
				return fmt.Errorf("failed to delete items: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return BulkResult{}, s.translate(err, "bulk_delete", ids[0], 0)
	}

	s.publish(ctx, events.ItemsDeleted, "", map[string]interface{}{"item_ids": idStrings(ids)})
	return BulkResult{Affected: int(affected), ItemIDs: ids}, nil
}

func (s *inventoryService) requireItems(ctx context.Context, ids []uuid.UUID) error {
	items, err := s.repos.Inventory.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	if len(items) == len(ids) {
		return nil
	}
	found := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		found[it.ID] = true
	}
	missing := &MissingItemsError{}
	for _, id := range ids {
		if !found[id] {
			missing.IDs = append(missing.IDs, id)
		}
	}
	return missing
}

// --- Corrections ---

func (s *inventoryService) EditItem(ctx context.Context, itemID string, req EditItemRequest) (model.InventoryItem, error) {
	id, err := parseID(itemID, "inventory")
	if err != nil {
		return model.InventoryItem{}, err
	}
	if req.ItemName != nil && strings.TrimSpace(*req.ItemName) == "" {
		return model.InventoryItem{}, fmt.Errorf("%w: item name must not be empty", ErrInvalidInput)
	}
	if (req.PurchasePrice != nil && req.PurchasePrice.IsNegative()) || (req.SellingPrice != nil && req.SellingPrice.IsNegative()) {
		return model.InventoryItem{}, ErrInvalidPrice
	}
	if (req.QuantityRemaining != nil && *req.QuantityRemaining < 0) || (req.TotalReceived != nil && *req.TotalReceived < 0) {
		return model.InventoryItem{}, fmt.Errorf("%w: quantities must not be negative", ErrInvalidQuantity)
	}
	categoryID, err := parseOptionalID(req.CategoryID, "category")
	if err != nil {
		return model.InventoryItem{}, err
	}

	var (
		item  *model.InventoryItem
		delta int
	)
	err = s.withItemLocks(ctx, []uuid.UUID{id}, func() error {
		return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			var err error
			item, err = s.repos.Inventory.FindByIDForUpdate(txCtx, id)
			if err != nil {
				return notFound(err, "inventory item")
			}
			now := s.now()

			if req.ItemName != nil {
				item.ItemName = strings.TrimSpace(*req.ItemName)
			}
			if req.Description != nil {
				item.Description = *req.Description
			}
			if req.ImageURL != nil {
				item.ImageURL = *req.ImageURL
			}

			priceChanged := false
			if req.PurchasePrice != nil && !req.PurchasePrice.Equal(item.PurchasePrice) {
				item.PurchasePrice = *req.PurchasePrice
				priceChanged = true
			}
			if req.SellingPrice != nil && !req.SellingPrice.Equal(item.SellingPrice) {
				item.SellingPrice = *req.SellingPrice
				priceChanged = true
			}
			if priceChanged {
				item.PriceUpdatedAt = now
			}

			switch {
			case req.ClearCategory:
				item.CategoryID = nil
			case categoryID != nil:
				if _, err := s.repos.Categories.FindByID(txCtx, *categoryID); err != nil {
					return notFound(err, "category")
				}
				item.CategoryID = categoryID
			}

			before := item.QuantityRemaining
			if req.TotalReceived != nil {
				item.TotalReceived = *req.TotalReceived
			}
			if req.QuantityRemaining != nil {
				item.QuantityRemaining = *req.QuantityRemaining
			}
			if req.QuantityRemaining != nil || req.TotalReceived != nil {
				// units held by active sales can still come back through EditSale or DeleteSale
				sales, err := s.repos.Sales.ListByInventory(txCtx, id)
				if err != nil {
					return fmt.Errorf("failed to load sales: %w", err)
				}
				sold := 0
				for _, sale := range sales {
					sold += sale.QuantitySold
				}
				if floor := item.QuantityRemaining + sold; item.TotalReceived < floor {
					if req.TotalReceived != nil {
						return fmt.Errorf("%w: total received %d is below remaining %d plus %d sold", ErrInvalidQuantity, item.TotalReceived, item.QuantityRemaining, sold)
					}
					item.TotalReceived = floor
				}
			}
			delta = item.QuantityRemaining - before
			item.Status = ledger.DeriveStatus(item.QuantityRemaining, item.TotalReceived)
			item.UpdatedAt = now
			item.Category, item.Batch = nil, nil

			if err := s.repos.Inventory.Update(txCtx, item); err != nil {
				return fmt.Errorf("failed to update item: %w", err)
			}
			if delta != 0 {
				return s.journal(txCtx, id, nil, model.MovementCorrection, delta, item.QuantityRemaining)
			}
			return nil
		})
	})
	if err != nil {
		return model.InventoryItem{}, s.translate(err, "edit_item", id, delta)
	}

	if delta != 0 {
		s.logger.Info("stock corrected outside the sale/restock flow",
			zap.String("item_id", id.String()), zap.Int("delta", delta), zap.Int("quantity_remaining", item.QuantityRemaining))
	}
	s.publish(ctx, events.ItemEdited, id.String(), map[string]interface{}{
		"inventory_id":       id.String(),
		"quantity_remaining": item.QuantityRemaining,
		"status":             item.Status,
	})
	return *item, nil
}

// --- Helpers ---

// applyDelta moves stock of a row locked FOR UPDATE, re-derives status and journals the change.
func (s *inventoryService) applyDelta(ctx context.Context, item *model.InventoryItem, remainingDelta, receivedDelta int, reason string, ref *uuid.UUID) (StockLevel, error) {
	remaining := item.QuantityRemaining + remainingDelta
	received := item.TotalReceived + receivedDelta
	status := ledger.DeriveStatus(remaining, received)

	ok, err := s.repos.Inventory.AdjustStock(ctx, item.ID, remainingDelta, receivedDelta, status)
	if err != nil {
		return StockLevel{}, fmt.Errorf("failed to update stock: %w", err)
	}
	if !ok {
		return StockLevel{}, fmt.Errorf("%w: stock changed concurrently", ErrInsufficientStock)
	}
	if err := s.journal(ctx, item.ID, ref, reason, remainingDelta, remaining); err != nil {
		return StockLevel{}, err
	}

	item.QuantityRemaining, item.TotalReceived, item.Status = remaining, received, status
	return levelOf(*item), nil
}

func (s *inventoryService) journal(ctx context.Context, itemID uuid.UUID, ref *uuid.UUID, reason string, changed, after int) error {
	m := &model.StockMovement{
		ID:              uuid.New(),
		InventoryID:     itemID,
		ReferenceID:     ref,
		Reason:          reason,
		QuantityChanged: changed,
		StockAfter:      after,
		CreatedAt:       s.now(),
	}
	if err := s.repos.Movements.Create(ctx, m); err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}
	return nil
}

// withItemLocks holds the per-item locks for fn. Keys are taken in a fixed order so two
// bulk requests over overlapping items cannot deadlock.
func (s *inventoryService) withItemLocks(ctx context.Context, ids []uuid.UUID, fn func() error) error {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	sort.Strings(keys)

	unlocks := make([]func(), 0, len(keys))
	defer func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}()
	for _, k := range keys {
		unlock, err := s.locker.Lock(ctx, k)
		if err != nil {
			if errors.Is(err, lock.ErrNotAcquired) {
				return fmt.Errorf("%w: %v", ErrBusy, err)
			}
			return fmt.Errorf("failed to lock item %s: %w", k, err)
		}
		unlocks = append(unlocks, unlock)
	}
	return fn()
}

// translate turns an unknown commit outcome into a ConsistencyError and logs it for reconciliation.
func (s *inventoryService) translate(err error, op string, itemID uuid.UUID, delta int) error {
	if !errors.Is(err, repository.ErrCommitFailed) {
		return err
	}
	s.logger.Error("ledger write outcome unknown, reconcile manually",
		zap.String("operation", op),
		zap.String("item_id", itemID.String()),
		zap.Int("delta", delta),
		zap.Error(err),
	)
	return &ConsistencyError{Operation: op, ItemID: itemID, Delta: delta, Err: err}
}

func (s *inventoryService) publish(ctx context.Context, name, key string, data map[string]interface{}) {
	s.publisher.Publish(ctx, events.Event{Event: name, Key: key, Data: data, At: s.now()})
}

func levelOf(item model.InventoryItem) StockLevel {
	return StockLevel{
		ItemID:            item.ID,
		QuantityRemaining: item.QuantityRemaining,
		TotalReceived:     item.TotalReceived,
		Status:            item.Status,
	}
}

func orNow(t *time.Time, now time.Time) time.Time {
	if t == nil || t.IsZero() {
		return now
	}
	return *t
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
