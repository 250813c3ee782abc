package service

import (
	"context"
	"fmt"
	"time"

	"stockledger/internal/ledger"
	"stockledger/internal/model"
)

type ActivityQuery struct {
	Type  string
	Date  string
	Limit int
}

type ActivityService interface {
	Feed(ctx context.Context, q ActivityQuery) ([]model.ActivityEntry, error)
}

type activityService struct {
	repos        Repositories
	currency     string
	defaultLimit int
	loc          *time.Location
	now          func() time.Time
}

// NewActivityService builds the feed. defaultLimit applies when a query gives none
// and is itself clamped to the feed maximum.
func NewActivityService(repos Repositories, currency string, defaultLimit int, loc *time.Location) ActivityService {
	if loc == nil {
		loc = time.UTC
	}
	if defaultLimit <= 0 {
		defaultLimit = ledger.DefaultActivityLimit
	}
	return &activityService{
		repos:        repos,
		currency:     currency,
		defaultLimit: min(defaultLimit, ledger.MaxActivityLimit),
		loc:          loc,
		now:          time.Now,
	}
}

func (s *activityService) Feed(ctx context.Context, q ActivityQuery) ([]model.ActivityEntry, error) {
	filter, err := s.filter(q)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	from, to := dayWindow(filter.Date, now)

	// Every source is capped at the feed limit, so the merged head is exact.
	wants := func(t model.ActivityType) bool { return filter.Type == "" || filter.Type == t }
	var src ledger.ActivitySources
	if wants(model.ActivitySale) {
		if src.Sales, err = s.repos.Sales.ListRecent(ctx, from, to, filter.Limit); err != nil {
			return nil, fmt.Errorf("failed to load recent sales: %w", err)
		}
	}
	if wants(model.ActivityRestock) {
		if src.Restocks, err = s.repos.Restocks.ListRecent(ctx, from, to, filter.Limit); err != nil {
			return nil, fmt.Errorf("failed to load recent restocks: %w", err)
		}
	}
	if wants(model.ActivityNewStock) {
		if src.NewStock, err = s.repos.Inventory.ListRecent(ctx, from, to, filter.Limit); err != nil {
			return nil, fmt.Errorf("failed to load new stock: %w", err)
		}
	}
	if wants(model.ActivityExpense) {
		if src.Expenses, err = s.repos.Expenses.ListRecent(ctx, from, to, filter.Limit); err != nil {
			return nil, fmt.Errorf("failed to load recent expenses: %w", err)
		}
	}
	return ledger.MergeActivity(src, filter, now, s.currency), nil
}

func (s *activityService) filter(q ActivityQuery) (ledger.ActivityFilter, error) {
	f := ledger.ActivityFilter{Limit: q.Limit, Date: ledger.DateAll}
	switch t := model.ActivityType(q.Type); t {
	case "", "all":
	case model.ActivitySale, model.ActivityRestock, model.ActivityNewStock, model.ActivityExpense:
		f.Type = t
	default:
		return f, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, q.Type)
	}
	switch d := ledger.DateFilter(q.Date); d {
	case "", ledger.DateAll:
	case ledger.DateToday, ledger.DateYesterday:
		f.Date = d
	default:
		return f, fmt.Errorf("%w: unknown date filter %q", ErrInvalidInput, q.Date)
	}
	if f.Limit <= 0 {
		f.Limit = s.defaultLimit
	}
	if f.Limit > ledger.MaxActivityLimit {
		f.Limit = ledger.MaxActivityLimit
	}
	return f, nil
}

// dayWindow returns the [from, to) bounds of the filtered calendar day in now's location.
func dayWindow(d ledger.DateFilter, now time.Time) (time.Time, time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch d {
	case ledger.DateToday:
		return midnight, midnight.AddDate(0, 0, 1)
	case ledger.DateYesterday:
		return midnight.AddDate(0, 0, -1), midnight
	}
	return time.Time{}, time.Time{}
}
