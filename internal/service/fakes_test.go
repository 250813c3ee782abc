package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"stockledger/internal/model"
	"stockledger/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memState is the in-memory ledger store shared by every fake repository.
type memState struct {
	items      map[uuid.UUID]model.InventoryItem
	batches    map[uuid.UUID]model.Batch
	categories map[uuid.UUID]model.Category
	sales      map[uuid.UUID]model.Sale
	restocks   map[uuid.UUID]model.Restock
	expenses   map[uuid.UUID]model.Expense
	movements  []model.StockMovement
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s memState) clone() memState {
	return memState{
		items:      cloneMap(s.items),
		batches:    cloneMap(s.batches),
		categories: cloneMap(s.categories),
		sales:      cloneMap(s.sales),
		restocks:   cloneMap(s.restocks),
		expenses:   cloneMap(s.expenses),
		movements:  append([]model.StockMovement(nil), s.movements...),
	}
}

type memStore struct {
	mu    sync.Mutex
	state memState

	// commitErr makes the next successful transaction report an unknown commit outcome.
	commitErr error
	// failOn makes any repository call with this name fail inside the transaction.
	failOn string
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		items:      map[uuid.UUID]model.InventoryItem{},
		batches:    map[uuid.UUID]model.Batch{},
		categories: map[uuid.UUID]model.Category{},
		sales:      map[uuid.UUID]model.Sale{},
		restocks:   map[uuid.UUID]model.Restock{},
		expenses:   map[uuid.UUID]model.Expense{},
	}}
}

var errInjected = errors.New("injected failure")

func (m *memStore) check(op string) error {
	if m.failOn == op {
		return fmt.Errorf("%s: %w", op, errInjected)
	}
	return nil
}

func (m *memStore) repos() Repositories {
	return Repositories{
		Inventory:  &memInventory{m},
		Batches:    &memBatches{m},
		Sales:      &memSales{m},
		Restocks:   &memRestocks{m},
		Expenses:   &memExpenses{m},
		Movements:  &memMovements{m},
		Categories: &memCategories{m},
	}
}

// --- transactions ---

type memTx struct{ store *memStore }

type memTxKey struct{}

// RunInTx restores the state snapshot when fn fails. Callers serialize same-item
// transactions through the locker, which is all the services rely on.
func (t memTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	t.store.mu.Lock()
	snap := t.store.state.clone()
	t.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		t.store.mu.Lock()
		t.store.state = snap
		t.store.mu.Unlock()
		return err
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.commitErr != nil {
		err := t.store.commitErr
		t.store.commitErr = nil
		return fmt.Errorf("%w: %w", repository.ErrCommitFailed, err)
	}
	return nil
}

// --- inventory ---

type memInventory struct{ m *memStore }

func (r *memInventory) Create(_ context.Context, item *model.InventoryItem) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("inventory.create"); err != nil {
		return err
	}
	stored := *item
	stored.Category, stored.Batch = nil, nil
	r.m.state.items[item.ID] = stored
	return nil
}

func (r *memInventory) Update(_ context.Context, item *model.InventoryItem) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("inventory.update"); err != nil {
		return err
	}
	stored := *item
	stored.Category, stored.Batch = nil, nil
	r.m.state.items[item.ID] = stored
	return nil
}

func (r *memInventory) preload(it model.InventoryItem) model.InventoryItem {
	if it.CategoryID != nil {
		if c, ok := r.m.state.categories[*it.CategoryID]; ok {
			it.Category = &c
		}
	}
	if it.BatchID != nil {
		if b, ok := r.m.state.batches[*it.BatchID]; ok {
			it.Batch = &b
		}
	}
	return it
}

func (r *memInventory) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	it, ok := r.m.state.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	it = r.preload(it)
	return &it, nil
}

func (r *memInventory) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	it, ok := r.m.state.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &it, nil
}

func (r *memInventory) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.InventoryItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.InventoryItem
	for _, id := range ids {
		if it, ok := r.m.state.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memInventory) FindByBatch(_ context.Context, batchID uuid.UUID) ([]model.InventoryItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.InventoryItem
	for _, it := range r.m.state.items {
		if it.BatchID != nil && *it.BatchID == batchID {
			out = append(out, r.preload(it))
		}
	}
	sortItems(out, true)
	return out, nil
}

func (r *memInventory) List(_ context.Context, f repository.InventoryFilter) ([]model.InventoryItem, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.InventoryItem
	for _, it := range r.m.state.items {
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if f.Uncategorized && it.CategoryID != nil {
			continue
		}
		if !f.Uncategorized && f.CategoryID != nil && (it.CategoryID == nil || *it.CategoryID != *f.CategoryID) {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(it.ItemName), q) && !strings.Contains(strings.ToLower(it.Description), q) {
				continue
			}
		}
		out = append(out, r.preload(it))
	}
	sortItems(out, false)
	return page(out, f.Page, f.Limit), int64(len(out)), nil
}

func (r *memInventory) ListAll(_ context.Context) ([]model.InventoryItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.InventoryItem, 0, len(r.m.state.items))
	for _, it := range r.m.state.items {
		out = append(out, it)
	}
	sortItems(out, false)
	return out, nil
}

func (r *memInventory) ListRecent(_ context.Context, from, to time.Time, limit int) ([]model.InventoryItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.InventoryItem
	for _, it := range r.m.state.items {
		if inWindow(it.CreatedAt, from, to) {
			out = append(out, it)
		}
	}
	sortItems(out, false)
	return page(out, 1, limit), nil
}

func (r *memInventory) AdjustStock(_ context.Context, id uuid.UUID, remainingDelta, receivedDelta int, status model.StockStatus) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("inventory.adjust"); err != nil {
		return false, err
	}
	it, ok := r.m.state.items[id]
	if !ok || it.QuantityRemaining+remainingDelta < 0 {
		return false, nil
	}
	it.QuantityRemaining += remainingDelta
	it.TotalReceived += receivedDelta
	it.Status = status
	r.m.state.items[id] = it
	return true, nil
}

func (r *memInventory) UpdatePricing(_ context.Context, id uuid.UUID, purchase, selling decimal.Decimal, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("inventory.pricing"); err != nil {
		return err
	}
	it := r.m.state.items[id]
	it.PurchasePrice, it.SellingPrice, it.PriceUpdatedAt = purchase, selling, at
	r.m.state.items[id] = it
	return nil
}

func (r *memInventory) SetCategory(_ context.Context, ids []uuid.UUID, categoryID *uuid.UUID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("inventory.set_category"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		if it, ok := r.m.state.items[id]; ok {
			it.CategoryID = categoryID
			r.m.state.items[id] = it
			n++
		}
	}
	return n, nil
}

func (r *memInventory) ClearCategory(_ context.Context, categoryID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, it := range r.m.state.items {
		if it.CategoryID != nil && *it.CategoryID == categoryID {
			it.CategoryID = nil
			r.m.state.items[id] = it
		}
	}
	return nil
}

func (r *memInventory) DeleteByIDs(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("inventory.delete"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		if _, ok := r.m.state.items[id]; ok {
			delete(r.m.state.items, id)
			n++
		}
	}
	return n, nil
}

// --- batches and categories ---

type memBatches struct{ m *memStore }

func (r *memBatches) Create(_ context.Context, b *model.Batch) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("batch.create"); err != nil {
		return err
	}
	r.m.state.batches[b.ID] = *b
	return nil
}

func (r *memBatches) FindByID(_ context.Context, id uuid.UUID) (*model.Batch, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.state.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r *memBatches) ListAll(_ context.Context) ([]model.Batch, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.Batch, 0, len(r.m.state.batches))
	for _, b := range r.m.state.batches {
		out = append(out, b)
	}
	return out, nil
}

func (r *memBatches) ClearCategory(_ context.Context, categoryID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, b := range r.m.state.batches {
		if b.CategoryID != nil && *b.CategoryID == categoryID {
			b.CategoryID = nil
			r.m.state.batches[id] = b
		}
	}
	return nil
}

type memCategories struct{ m *memStore }

func (r *memCategories) Create(_ context.Context, c *model.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.unique(c); err != nil {
		return err
	}
	r.m.state.categories[c.ID] = *c
	return nil
}

func (r *memCategories) Update(_ context.Context, c *model.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.unique(c); err != nil {
		return err
	}
	r.m.state.categories[c.ID] = *c
	return nil
}

// unique mirrors the (owner_id, LOWER(name)) unique index.
func (r *memCategories) unique(c *model.Category) error {
	for _, other := range r.m.state.categories {
		if other.ID != c.ID && other.OwnerID == c.OwnerID && strings.EqualFold(other.Name, c.Name) {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_categories_owner_lower_name"}
		}
	}
	return nil
}

func (r *memCategories) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("category.delete"); err != nil {
		return err
	}
	delete(r.m.state.categories, id)
	return nil
}

func (r *memCategories) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.state.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *memCategories) FindByName(_ context.Context, owner uuid.UUID, name string) (*model.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.state.categories {
		if c.OwnerID == owner && strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCategories) List(_ context.Context, owner uuid.UUID) ([]model.Category, error) {
	all, _ := r.ListAll(context.Background())
	var out []model.Category
	for _, c := range all {
		if c.OwnerID == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCategories) ListAll(_ context.Context) ([]model.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.Category, 0, len(r.m.state.categories))
	for _, c := range r.m.state.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- sales ---

type memSales struct{ m *memStore }

func (r *memSales) withItem(s model.Sale) model.Sale {
	if it, ok := r.m.state.items[s.InventoryID]; ok {
		s.Inventory = &it
	} else {
		s.Inventory = nil
	}
	return s
}

func (r *memSales) Create(_ context.Context, s *model.Sale) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("sale.create"); err != nil {
		return err
	}
	stored := *s
	stored.Inventory = nil
	r.m.state.sales[s.ID] = stored
	return nil
}

func (r *memSales) Update(_ context.Context, s *model.Sale) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored := *s
	stored.Inventory = nil
	r.m.state.sales[s.ID] = stored
	return nil
}

func (r *memSales) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("sale.delete"); err != nil {
		return err
	}
	delete(r.m.state.sales, id)
	return nil
}

func (r *memSales) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.state.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	s = r.withItem(s)
	return &s, nil
}

func (r *memSales) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.state.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *memSales) filtered(f repository.HistoryFilter, preload bool) []model.Sale {
	var out []model.Sale
	for _, s := range r.m.state.sales {
		if f.InventoryID != nil && s.InventoryID != *f.InventoryID {
			continue
		}
		if !inWindow(s.SaleDate, f.From, f.To) {
			continue
		}
		if preload {
			s = r.withItem(s)
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return out
}

func (r *memSales) List(_ context.Context, f repository.HistoryFilter) ([]model.Sale, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.filtered(f, true)
	return page(out, f.Page, f.Limit), int64(len(out)), nil
}

func (r *memSales) ListAll(_ context.Context, f repository.HistoryFilter) ([]model.Sale, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.filtered(f, true), nil
}

func (r *memSales) ListByInventory(_ context.Context, id uuid.UUID) ([]model.Sale, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.filtered(repository.HistoryFilter{InventoryID: &id}, false), nil
}

func (r *memSales) ListRecent(_ context.Context, from, to time.Time, limit int) ([]model.Sale, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return page(r.filtered(repository.HistoryFilter{From: from, To: to}, true), 1, limit), nil
}

func (r *memSales) DeleteByInventoryIDs(_ context.Context, ids []uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, s := range r.m.state.sales {
		if containsID(ids, s.InventoryID) {
			delete(r.m.state.sales, id)
		}
	}
	return nil
}

// --- restocks ---

type memRestocks struct{ m *memStore }

func (r *memRestocks) Create(_ context.Context, rs *model.Restock) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("restock.create"); err != nil {
		return err
	}
	stored := *rs
	stored.Inventory = nil
	r.m.state.restocks[rs.ID] = stored
	return nil
}

func (r *memRestocks) filtered(f repository.HistoryFilter, preload bool) []model.Restock {
	var out []model.Restock
	for _, rs := range r.m.state.restocks {
		if f.InventoryID != nil && rs.InventoryID != *f.InventoryID {
			continue
		}
		if !inWindow(rs.DateAdded, f.From, f.To) {
			continue
		}
		if preload {
			if it, ok := r.m.state.items[rs.InventoryID]; ok {
				rs.Inventory = &it
			}
		}
		out = append(out, rs)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateAdded.After(out[j].DateAdded) })
	return out
}

func (r *memRestocks) List(_ context.Context, f repository.HistoryFilter) ([]model.Restock, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.filtered(f, true)
	return page(out, f.Page, f.Limit), int64(len(out)), nil
}

func (r *memRestocks) ListAll(_ context.Context, f repository.HistoryFilter) ([]model.Restock, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.filtered(f, true), nil
}

func (r *memRestocks) ListByInventory(_ context.Context, id uuid.UUID) ([]model.Restock, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.filtered(repository.HistoryFilter{InventoryID: &id}, false), nil
}

func (r *memRestocks) ListRecent(_ context.Context, from, to time.Time, limit int) ([]model.Restock, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return page(r.filtered(repository.HistoryFilter{From: from, To: to}, true), 1, limit), nil
}

func (r *memRestocks) DeleteByInventoryIDs(_ context.Context, ids []uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, rs := range r.m.state.restocks {
		if containsID(ids, rs.InventoryID) {
			delete(r.m.state.restocks, id)
		}
	}
	return nil
}

// --- expenses ---

type memExpenses struct{ m *memStore }

func (r *memExpenses) Create(_ context.Context, e *model.Expense) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored := *e
	stored.Inventory = nil
	r.m.state.expenses[e.ID] = stored
	return nil
}

func (r *memExpenses) Update(_ context.Context, e *model.Expense) error {
	return r.Create(context.Background(), e)
}

func (r *memExpenses) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.state.expenses, id)
	return nil
}

func (r *memExpenses) withItem(e model.Expense) model.Expense {
	if e.InventoryID != nil {
		if it, ok := r.m.state.items[*e.InventoryID]; ok {
			e.Inventory = &it
		}
	}
	return e
}

func (r *memExpenses) FindByID(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.state.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	e = r.withItem(e)
	return &e, nil
}

func (r *memExpenses) filtered(f repository.ExpenseFilter) []model.Expense {
	var out []model.Expense
	for _, e := range r.m.state.expenses {
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.InventoryID != nil && (e.InventoryID == nil || *e.InventoryID != *f.InventoryID) {
			continue
		}
		if !inWindow(e.ExpenseDate, f.From, f.To) {
			continue
		}
		out = append(out, r.withItem(e))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpenseDate.After(out[j].ExpenseDate) })
	return out
}

func (r *memExpenses) List(_ context.Context, f repository.ExpenseFilter) ([]model.Expense, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.filtered(f)
	return page(out, f.Page, f.Limit), int64(len(out)), nil
}

func (r *memExpenses) ListAll(_ context.Context, f repository.ExpenseFilter) ([]model.Expense, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.filtered(f), nil
}

func (r *memExpenses) ListRecent(_ context.Context, from, to time.Time, limit int) ([]model.Expense, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Expense
	for _, e := range r.m.state.expenses {
		if inWindow(e.CreatedAt, from, to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, 1, limit), nil
}

func (r *memExpenses) DetachInventory(_ context.Context, ids []uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, e := range r.m.state.expenses {
		if e.InventoryID != nil && containsID(ids, *e.InventoryID) {
			e.InventoryID = nil
			r.m.state.expenses[id] = e
		}
	}
	return nil
}

// --- movements ---

type memMovements struct{ m *memStore }

func (r *memMovements) Create(_ context.Context, mv *model.StockMovement) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.check("movement.create"); err != nil {
		return err
	}
	r.m.state.movements = append(r.m.state.movements, *mv)
	return nil
}

func (r *memMovements) ListByInventory(_ context.Context, id uuid.UUID, limit int) ([]model.StockMovement, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.StockMovement
	for i := len(r.m.state.movements) - 1; i >= 0; i-- {
		if mv := r.m.state.movements[i]; mv.InventoryID == id {
			out = append(out, mv)
		}
	}
	return page(out, 1, limit), nil
}

func (r *memMovements) DeleteByInventoryIDs(_ context.Context, ids []uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	kept := r.m.state.movements[:0:0]
	for _, mv := range r.m.state.movements {
		if !containsID(ids, mv.InventoryID) {
			kept = append(kept, mv)
		}
	}
	r.m.state.movements = kept
	return nil
}

// --- report ---

type fakeReports struct {
	points   []model.DailySalesPoint
	from, to time.Time
	loc      *time.Location
}

func (f *fakeReports) DailySales(_ context.Context, from, to time.Time, loc *time.Location) ([]model.DailySalesPoint, error) {
	f.from, f.to, f.loc = from, to, loc
	return f.points, nil
}

// --- helpers ---

func sortItems(items []model.InventoryItem, ascending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func inWindow(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func page[T any](rows []T, pageNo, limit int) []T {
	if limit <= 0 {
		return rows
	}
	if pageNo < 1 {
		pageNo = 1
	}
	start := (pageNo - 1) * limit
	if start >= len(rows) {
		return []T{}
	}
	return rows[start:min(start+limit, len(rows))]
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
