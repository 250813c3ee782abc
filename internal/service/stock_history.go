package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"stockledger/internal/ledger"
	"stockledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockHistoryType tells an intake row from a restock row.
type StockHistoryType string

const (
	HistoryInitial StockHistoryType = "initial"
	HistoryRestock StockHistoryType = "restock"
)

// Batch labels for rows whose item has no batch.
const (
	IndividualEntryName = "Individual Entry"
	RestockEntryName    = "Restock Entry"
)

// StockHistoryRow is one stocking event: an item's first intake or a restock of it.
type StockHistoryRow struct {
	ID              uuid.UUID        `json:"id"`
	Type            StockHistoryType `json:"type"`
	InventoryID     uuid.UUID        `json:"inventory_id"`
	ItemName        string           `json:"item_name"`
	BatchID         *uuid.UUID       `json:"batch_id"`
	BatchName       string           `json:"batch_name"`
	Quantity        int              `json:"quantity"`
	CostPerUnit     decimal.Decimal  `json:"cost_per_unit"`
	TotalInvestment decimal.Decimal  `json:"total_investment"`
	Date            time.Time        `json:"date"`
}

type StockHistoryQuery struct {
	Type        string // "", "all", "initial" or "restock"
	Search      string // item or batch name, case-insensitive
	InventoryID string
	From, To    time.Time
	Page        int
	Limit       int
}

// StockHistoryPage carries one page of rows plus totals over every matching row.
type StockHistoryPage struct {
	Entries         []StockHistoryRow `json:"entries"`
	Events          int64             `json:"events"`
	TotalInvestment decimal.Decimal   `json:"total_investment"`
}

func (s *queryService) ListStockHistory(ctx context.Context, q StockHistoryQuery) (StockHistoryPage, error) {
	rows, err := s.stockHistory(ctx, q)
	if err != nil {
		return StockHistoryPage{}, err
	}
	normalizePage(&q.Page, &q.Limit)

	result := StockHistoryPage{Events: int64(len(rows)), TotalInvestment: decimal.Zero}
	for _, r := range rows {
		result.TotalInvestment = result.TotalInvestment.Add(r.TotalInvestment)
	}
	start := min((q.Page-1)*q.Limit, len(rows))
	end := min(start+q.Limit, len(rows))
	result.Entries = rows[start:end]
	return result, nil
}

func (s *queryService) ExportStockHistory(ctx context.Context, q StockHistoryQuery) ([]StockHistoryRow, error) {
	return s.stockHistory(ctx, q)
}

// stockHistory merges item intake and restocks newest first. Every row carries the
// item's batch name so a search can match either.
func (s *queryService) stockHistory(ctx context.Context, q StockHistoryQuery) ([]StockHistoryRow, error) {
	var want StockHistoryType
	switch t := StockHistoryType(strings.ToLower(q.Type)); t {
	case "", "all":
	case HistoryInitial, HistoryRestock:
		want = t
	default:
		return nil, fmt.Errorf("%w: unknown stock history type %q", ErrInvalidInput, q.Type)
	}
	filter, err := historyFilter(HistoryQuery{InventoryID: q.InventoryID, From: q.From, To: q.To})
	if err != nil {
		return nil, err
	}

	items, err := s.repos.Inventory.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	batches, err := s.repos.Batches.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load batches: %w", err)
	}
	batchNames := make(map[uuid.UUID]string, len(batches))
	for _, b := range batches {
		batchNames[b.ID] = b.BatchName
	}
	byID := make(map[uuid.UUID]model.InventoryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	var rows []StockHistoryRow
	if want == "" || want == HistoryInitial {
		for _, it := range items {
			if filter.InventoryID != nil && it.ID != *filter.InventoryID {
				continue
			}
			if !within(it.CreatedAt, filter.From, filter.To) {
				continue
			}
			rows = append(rows, StockHistoryRow{
				ID:              it.ID,
				Type:            HistoryInitial,
				InventoryID:     it.ID,
				ItemName:        it.ItemName,
				BatchID:         it.BatchID,
				BatchName:       batchLabel(it.BatchID, batchNames, IndividualEntryName),
				Quantity:        it.OriginalQuantity,
				CostPerUnit:     it.PurchasePrice,
				TotalInvestment: it.PurchasePrice.Mul(decimal.NewFromInt(int64(it.OriginalQuantity))),
				Date:            it.CreatedAt,
			})
		}
	}
	if want == "" || want == HistoryRestock {
		restocks, err := s.repos.Restocks.ListAll(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to load restocks: %w", err)
		}
		for _, r := range restocks {
			row := StockHistoryRow{
				ID:              r.ID,
				Type:            HistoryRestock,
				InventoryID:     r.InventoryID,
				ItemName:        ledger.DeletedItemName,
				BatchName:       RestockEntryName,
				Quantity:        r.QuantityAdded,
				CostPerUnit:     r.CostPerUnit,
				TotalInvestment: r.CostPerUnit.Mul(decimal.NewFromInt(int64(r.QuantityAdded))),
				Date:            r.DateAdded,
			}
			if it, ok := byID[r.InventoryID]; ok {
				row.ItemName = it.ItemName
				row.BatchID = it.BatchID
				row.BatchName = batchLabel(it.BatchID, batchNames, RestockEntryName)
			}
			rows = append(rows, row)
		}
	}

	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		kept := rows[:0]
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.ItemName), term) || strings.Contains(strings.ToLower(r.BatchName), term) {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
	if rows == nil {
		rows = []StockHistoryRow{}
	}
	return rows, nil
}

func batchLabel(id *uuid.UUID, names map[uuid.UUID]string, fallback string) string {
	if id != nil {
		if name, ok := names[*id]; ok && name != "" {
			return name
		}
	}
	return fallback
}

// within reports whether t falls in [from, to); zero bounds are open.
func within(t, from, to time.Time) bool {
	return (from.IsZero() || !t.Before(from)) && (to.IsZero() || t.Before(to))
}
