package service

import (
	"context"
	"fmt"
	"time"

	"stockledger/internal/ledger"
	"stockledger/internal/model"
	"stockledger/internal/repository"

	"github.com/google/uuid"
)

// ReportRange bounds the sales and expenses a report looks at. Zero bounds are open.
// Inventory figures always describe the current stock.
type ReportRange struct {
	From time.Time
	To   time.Time
}

func (r ReportRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && !r.From.Before(r.To) {
		return fmt.Errorf("%w: start date must be before end date", ErrInvalidInput)
	}
	return nil
}

type StatisticsService interface {
	Dashboard(ctx context.Context, rng ReportRange) (model.DashboardSummary, error)
	CategoryPerformance(ctx context.Context, rng ReportRange) ([]model.CategoryPerformance, error)
	DailySales(ctx context.Context, rng ReportRange) ([]model.DailySalesPoint, error)
	ExpenseBreakdown(ctx context.Context, rng ReportRange) ([]model.ExpenseBreakdown, error)
}

// dailySalesWindow is used when the caller gives no start date.
const dailySalesWindow = 30 * 24 * time.Hour

type statisticsService struct {
	repos     Repositories
	reports   repository.ReportRepository
	txManager repository.TransactionManager
	loc       *time.Location
	now       func() time.Time
}

func NewStatisticsService(repos Repositories, reports repository.ReportRepository, txManager repository.TransactionManager, loc *time.Location) StatisticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statisticsService{repos: repos, reports: reports, txManager: txManager, loc: loc, now: time.Now}
}

type snapshot struct {
	items    []model.InventoryItem
	sales    []model.Sale
	expenses []model.Expense
}

// load reads every source in one transaction so the figures agree with each other.
func (s *statisticsService) load(ctx context.Context, rng ReportRange, withExpenses bool) (snapshot, error) {
	var snap snapshot
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if snap.items, err = s.repos.Inventory.ListAll(txCtx); err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		if snap.sales, err = s.repos.Sales.ListAll(txCtx, repository.HistoryFilter{From: rng.From, To: rng.To}); err != nil {
			return fmt.Errorf("failed to load sales: %w", err)
		}
		if withExpenses {
			if snap.expenses, err = s.repos.Expenses.ListAll(txCtx, repository.ExpenseFilter{From: rng.From, To: rng.To}); err != nil {
				return fmt.Errorf("failed to load expenses: %w", err)
			}
		}
		return nil
	})
	return snap, err
}

func (s *statisticsService) Dashboard(ctx context.Context, rng ReportRange) (model.DashboardSummary, error) {
	if err := rng.Validate(); err != nil {
		return model.DashboardSummary{}, err
	}
	snap, err := s.load(ctx, rng, true)
	if err != nil {
		return model.DashboardSummary{}, err
	}
	return ledger.Summarize(snap.items, snap.sales, snap.expenses, s.now()), nil
}

func (s *statisticsService) CategoryPerformance(ctx context.Context, rng ReportRange) ([]model.CategoryPerformance, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.load(ctx, rng, false)
	if err != nil {
		return nil, err
	}
	categories, err := s.repos.Categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return ledger.CategoryRollup(snap.items, snap.sales, names), nil
}

func (s *statisticsService) DailySales(ctx context.Context, rng ReportRange) ([]model.DailySalesPoint, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if rng.To.IsZero() {
		rng.To = s.now()
	}
	if rng.From.IsZero() {
		rng.From = rng.To.Add(-dailySalesWindow)
	}
	points, err := s.reports.DailySales(ctx, rng.From, rng.To, s.loc)
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (s *statisticsService) ExpenseBreakdown(ctx context.Context, rng ReportRange) ([]model.ExpenseBreakdown, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	expenses, err := s.repos.Expenses.ListAll(ctx, repository.ExpenseFilter{From: rng.From, To: rng.To})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	return ledger.BreakdownExpenses(expenses), nil
}
