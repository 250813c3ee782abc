package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockledger/internal/ledger"
	"stockledger/internal/model"
	"stockledger/internal/repository"
	"stockledger/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- View models ---

// InventoryListRow is one row of the inventory table.
type InventoryListRow struct {
	ID                uuid.UUID         `json:"id"`
	ItemName          string            `json:"item_name"`
	Description       string            `json:"description"`
	ImageURL          string            `json:"image_url"`
	CategoryID        *uuid.UUID        `json:"category_id"`
	CategoryName      string            `json:"category_name"`
	BatchID           *uuid.UUID        `json:"batch_id"`
	BatchName         string            `json:"batch_name"`
	PurchasePrice     decimal.Decimal   `json:"purchase_price"`
	SellingPrice      decimal.Decimal   `json:"selling_price"`
	OriginalQuantity  int               `json:"original_quantity"`
	TotalReceived     int               `json:"total_received"`
	QuantityRemaining int               `json:"quantity_remaining"`
	Status            model.StockStatus `json:"status"`
	MarginPercent     decimal.Decimal   `json:"margin_percent"`
	StockValue        decimal.Decimal   `json:"stock_value"`
	PriceUpdatedAt    time.Time         `json:"price_updated_at"`
	CreatedAt         time.Time         `json:"created_at"`
}

// InventoryDetailRow adds sales performance and history to the list row.
type InventoryDetailRow struct {
	InventoryListRow
	UnitsSold       int                   `json:"units_sold"`
	Revenue         decimal.Decimal       `json:"revenue"`
	RealizedProfit  decimal.Decimal       `json:"realized_profit"`
	Velocity        decimal.Decimal       `json:"velocity"`
	DaysToExhaust   *decimal.Decimal      `json:"days_to_exhaust"` // null when nothing sold yet
	Restocks        []RestockRow          `json:"restocks"`
	RecentMovements []model.StockMovement `json:"recent_movements"`
}

type SaleRow struct {
	ID             uuid.UUID          `json:"id"`
	InventoryID    uuid.UUID          `json:"inventory_id"`
	ItemName       string             `json:"item_name"`
	Orphaned       bool               `json:"orphaned"`
	QuantitySold   int                `json:"quantity_sold"`
	SellingPrice   decimal.Decimal    `json:"selling_price"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Revenue        decimal.Decimal    `json:"revenue"`
	Profit         decimal.Decimal    `json:"profit"`
	SalesChannel   model.SalesChannel `json:"sales_channel"`
	Notes          string             `json:"notes"`
	SaleDate       time.Time          `json:"sale_date"`
}

type RestockRow struct {
	ID            uuid.UUID       `json:"id"`
	InventoryID   uuid.UUID       `json:"inventory_id"`
	ItemName      string          `json:"item_name"`
	Orphaned      bool            `json:"orphaned"`
	QuantityAdded int             `json:"quantity_added"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	DateAdded     time.Time       `json:"date_added"`
}

type ExpenseRow struct {
	ID          uuid.UUID             `json:"id"`
	Category    model.ExpenseCategory `json:"category"`
	Amount      decimal.Decimal       `json:"amount"`
	Description string                `json:"description"`
	InventoryID *uuid.UUID            `json:"inventory_id"`
	ItemName    string                `json:"item_name"` // empty for general overhead
	ExpenseDate time.Time             `json:"expense_date"`
	CreatedAt   time.Time             `json:"created_at"`
}

type BatchSummary struct {
	model.Batch
	ROI   decimal.Decimal    `json:"roi"`
	Items []InventoryListRow `json:"items"`
}

// --- Queries ---

type InventoryQuery struct {
	Status     string
	CategoryID string // "uncategorized" selects items without a category
	Search     string
	Page       int
	Limit      int
}

type HistoryQuery struct {
	InventoryID string
	From, To    time.Time
	Page        int
	Limit       int
}

type ExpenseQuery struct {
	Category    string
	InventoryID string
	From, To    time.Time
	Page        int
	Limit       int
}

// UncategorizedFilter is the category filter value for items without a category.
const UncategorizedFilter = "uncategorized"

// QueryService serves the typed read paths. It never writes.
type QueryService interface {
	ListInventory(ctx context.Context, q InventoryQuery) ([]InventoryListRow, int64, error)
	GetInventoryDetail(ctx context.Context, id string) (InventoryDetailRow, error)
	GetBatchSummary(ctx context.Context, id string) (BatchSummary, error)
	ListSales(ctx context.Context, q HistoryQuery) ([]SaleRow, int64, error)
	ListRestocks(ctx context.Context, q HistoryQuery) ([]RestockRow, int64, error)
	ListExpenses(ctx context.Context, q ExpenseQuery) ([]ExpenseRow, int64, error)
	ExportSales(ctx context.Context, q HistoryQuery) ([]SaleRow, error)
	ExportRestocks(ctx context.Context, q HistoryQuery) ([]RestockRow, error)
	ExportExpenses(ctx context.Context, q ExpenseQuery) ([]ExpenseRow, error)
	// ListStockHistory merges first intake and restocks into one paged log.
	ListStockHistory(ctx context.Context, q StockHistoryQuery) (StockHistoryPage, error)
	ExportStockHistory(ctx context.Context, q StockHistoryQuery) ([]StockHistoryRow, error)
}

const detailMovementLimit = 20

type queryService struct {
	repos Repositories
	now   func() time.Time
}

func NewQueryService(repos Repositories) QueryService {
	return &queryService{repos: repos, now: time.Now}
}

func (s *queryService) ListInventory(ctx context.Context, q InventoryQuery) ([]InventoryListRow, int64, error) {
	filter := repository.InventoryFilter{
		Search: strings.TrimSpace(q.Search),
		Page:   q.Page,
		Limit:  q.Limit,
	}
	if q.Status != "" {
		status := model.StockStatus(q.Status)
		if !status.Valid() {
			return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
		}
		filter.Status = status
	}
	switch {
	case strings.EqualFold(q.CategoryID, UncategorizedFilter):
		filter.Uncategorized = true
	case q.CategoryID != "":
		id, err := parseID(q.CategoryID, "category")
		if err != nil {
			return nil, 0, err
		}
		filter.CategoryID = &id
	}
	normalizePage(&filter.Page, &filter.Limit)

	items, total, err := s.repos.Inventory.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory: %w", err)
	}
	rows := make([]InventoryListRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, toListRow(it))
	}
	return rows, total, nil
}

func (s *queryService) GetInventoryDetail(ctx context.Context, id string) (InventoryDetailRow, error) {
	itemID, err := parseID(id, "inventory")
	if err != nil {
		return InventoryDetailRow{}, err
	}
	item, err := s.repos.Inventory.FindByID(ctx, itemID)
	if err != nil {
		return InventoryDetailRow{}, notFound(err, "inventory item")
	}
	sales, err := s.repos.Sales.ListByInventory(ctx, itemID)
	if err != nil {
		return InventoryDetailRow{}, fmt.Errorf("failed to load sales: %w", err)
	}
	restocks, err := s.repos.Restocks.ListByInventory(ctx, itemID)
	if err != nil {
		return InventoryDetailRow{}, fmt.Errorf("failed to load restocks: %w", err)
	}
	movements, err := s.repos.Movements.ListByInventory(ctx, itemID, detailMovementLimit)
	if err != nil {
		return InventoryDetailRow{}, fmt.Errorf("failed to load stock movements: %w", err)
	}

	row := InventoryDetailRow{
		InventoryListRow: toListRow(*item),
		Revenue:          decimal.Zero,
		RealizedProfit:   decimal.Zero,
		Restocks:         make([]RestockRow, 0, len(restocks)),
		RecentMovements:  movements,
	}
	for _, sale := range sales {
		row.UnitsSold += sale.QuantitySold
		row.Revenue = row.Revenue.Add(ledger.SaleRevenue(sale))
		row.RealizedProfit = row.RealizedProfit.Add(ledger.SaleProfit(sale, item))
	}
	row.Velocity = ledger.Velocity(row.UnitsSold, item.CreatedAt, s.now())
	row.DaysToExhaust = ledger.DaysToExhaust(item.TotalReceived, row.Velocity)
	for _, r := range restocks {
		r.Inventory = item
		row.Restocks = append(row.Restocks, toRestockRow(r))
	}
	return row, nil
}

func (s *queryService) GetBatchSummary(ctx context.Context, id string) (BatchSummary, error) {
	batchID, err := parseID(id, "batch")
	if err != nil {
		return BatchSummary{}, err
	}
	batch, err := s.repos.Batches.FindByID(ctx, batchID)
	if err != nil {
		return BatchSummary{}, notFound(err, "batch")
	}
	items, err := s.repos.Inventory.FindByBatch(ctx, batchID)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("failed to load batch items: %w", err)
	}
	summary := BatchSummary{Batch: *batch, ROI: ledger.ROI(*batch), Items: make([]InventoryListRow, 0, len(items))}
	for _, it := range items {
		it.Batch = batch
		summary.Items = append(summary.Items, toListRow(it))
	}
	return summary, nil
}

func (s *queryService) ListSales(ctx context.Context, q HistoryQuery) ([]SaleRow, int64, error) {
	filter, err := historyFilter(q)
	if err != nil {
		return nil, 0, err
	}
	normalizePage(&filter.Page, &filter.Limit)
	sales, total, err := s.repos.Sales.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}
	return toSaleRows(sales), total, nil
}

func (s *queryService) ExportSales(ctx context.Context, q HistoryQuery) ([]SaleRow, error) {
	filter, err := historyFilter(q)
	if err != nil {
		return nil, err
	}
	sales, err := s.repos.Sales.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return toSaleRows(sales), nil
}

func (s *queryService) ListRestocks(ctx context.Context, q HistoryQuery) ([]RestockRow, int64, error) {
	filter, err := historyFilter(q)
	if err != nil {
		return nil, 0, err
	}
	normalizePage(&filter.Page, &filter.Limit)
	restocks, total, err := s.repos.Restocks.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list restocks: %w", err)
	}
	return toRestockRows(restocks), total, nil
}

func (s *queryService) ExportRestocks(ctx context.Context, q HistoryQuery) ([]RestockRow, error) {
	filter, err := historyFilter(q)
	if err != nil {
		return nil, err
	}
	restocks, err := s.repos.Restocks.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list restocks: %w", err)
	}
	return toRestockRows(restocks), nil
}

func (s *queryService) ListExpenses(ctx context.Context, q ExpenseQuery) ([]ExpenseRow, int64, error) {
	filter, err := expenseFilter(q)
	if err != nil {
		return nil, 0, err
	}
	normalizePage(&filter.Page, &filter.Limit)
	expenses, total, err := s.repos.Expenses.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	return toExpenseRows(expenses), total, nil
}

func (s *queryService) ExportExpenses(ctx context.Context, q ExpenseQuery) ([]ExpenseRow, error) {
	filter, err := expenseFilter(q)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repos.Expenses.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return toExpenseRows(expenses), nil
}

// --- Mapping ---

func historyFilter(q HistoryQuery) (repository.HistoryFilter, error) {
	filter := repository.HistoryFilter{From: q.From, To: q.To, Page: q.Page, Limit: q.Limit}
	if q.InventoryID != "" {
		id, err := parseID(q.InventoryID, "inventory")
		if err != nil {
			return filter, err
		}
		filter.InventoryID = &id
	}
	return filter, nil
}

func expenseFilter(q ExpenseQuery) (repository.ExpenseFilter, error) {
	filter := repository.ExpenseFilter{From: q.From, To: q.To, Page: q.Page, Limit: q.Limit}
	if q.Category != "" {
		c := model.ExpenseCategory(q.Category)
		if !c.Valid() {
			return filter, fmt.Errorf("%w: unknown expense category %q", ErrInvalidInput, q.Category)
		}
		filter.Category = c
	}
	if q.InventoryID != "" {
		id, err := parseID(q.InventoryID, "inventory")
		if err != nil {
			return filter, err
		}
		filter.InventoryID = &id
	}
	return filter, nil
}

func normalizePage(page, limit *int) {
	p := pagination.Clamp(*page, *limit)
	*page, *limit = p.Page, p.Limit
}

func toListRow(it model.InventoryItem) InventoryListRow {
	row := InventoryListRow{
		ID:                it.ID,
		ItemName:          it.ItemName,
		Description:       it.Description,
		ImageURL:          it.ImageURL,
		CategoryID:        it.CategoryID,
		CategoryName:      model.UncategorizedName,
		BatchID:           it.BatchID,
		PurchasePrice:     it.PurchasePrice,
		SellingPrice:      it.SellingPrice,
		OriginalQuantity:  it.OriginalQuantity,
		TotalReceived:     it.TotalReceived,
		QuantityRemaining: it.QuantityRemaining,
		Status:            it.Status,
		MarginPercent:     ledger.Round2(ledger.MarginPercent(it)),
		StockValue:        ledger.StockValue(it),
		PriceUpdatedAt:    it.PriceUpdatedAt,
		CreatedAt:         it.CreatedAt,
	}
	if it.Category != nil {
		row.CategoryName = it.Category.Name
	}
	if it.Batch != nil {
		row.BatchName = it.Batch.BatchName
	}
	return row
}

func toSaleRows(sales []model.Sale) []SaleRow {
	rows := make([]SaleRow, 0, len(sales))
	for _, sale := range sales {
		row := SaleRow{
			ID:             sale.ID,
			InventoryID:    sale.InventoryID,
			ItemName:       ledger.DeletedItemName,
			Orphaned:       sale.Inventory == nil,
			QuantitySold:   sale.QuantitySold,
			SellingPrice:   sale.SellingPrice,
			DiscountAmount: sale.DiscountAmount,
			Revenue:        ledger.SaleRevenue(sale),
			Profit:         ledger.SaleProfit(sale, sale.Inventory),
			SalesChannel:   sale.SalesChannel,
			Notes:          sale.Notes,
			SaleDate:       sale.SaleDate,
		}
		if sale.Inventory != nil {
			row.ItemName = sale.Inventory.ItemName
		}
		rows = append(rows, row)
	}
	return rows
}

func toRestockRow(r model.Restock) RestockRow {
	row := RestockRow{
		ID:            r.ID,
		InventoryID:   r.InventoryID,
		ItemName:      ledger.DeletedItemName,
		Orphaned:      r.Inventory == nil,
		QuantityAdded: r.QuantityAdded,
		CostPerUnit:   r.CostPerUnit,
		SellingPrice:  r.SellingPrice,
		TotalCost:     r.CostPerUnit.Mul(decimal.NewFromInt(int64(r.QuantityAdded))),
		DateAdded:     r.DateAdded,
	}
	if r.Inventory != nil {
		row.ItemName = r.Inventory.ItemName
	}
	return row
}

func toRestockRows(restocks []model.Restock) []RestockRow {
	rows := make([]RestockRow, 0, len(restocks))
	for _, r := range restocks {
		rows = append(rows, toRestockRow(r))
	}
	return rows
}

func toExpenseRows(expenses []model.Expense) []ExpenseRow {
	rows := make([]ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		row := ExpenseRow{
			ID:          e.ID,
			Category:    e.Category,
			Amount:      e.Amount,
			Description: e.Description,
			InventoryID: e.InventoryID,
			ExpenseDate: e.ExpenseDate,
			CreatedAt:   e.CreatedAt,
		}
		switch {
		case e.Inventory != nil:
			row.ItemName = e.Inventory.ItemName
		case e.InventoryID != nil:
			row.ItemName = ledger.DeletedItemName
		}
		rows = append(rows, row)
	}
	return rows
}
