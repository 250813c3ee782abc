package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates the portfolio-wide figures.
type DashboardSummary struct {
	TotalItems      int             `json:"total_items"`
	LowStockItems   int             `json:"low_stock_items"`
	CompletedItems  int             `json:"completed_items"`
	StockValue      decimal.Decimal `json:"stock_value"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	ExpectedProfit  decimal.Decimal `json:"expected_profit"`
	Revenue         decimal.Decimal `json:"revenue"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	UnitsSold       int             `json:"units_sold"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// CategoryPerformance is one bucket of the per-category rollup.
type CategoryPerformance struct {
	CategoryID   string          `json:"category_id"` // empty for the Uncategorized bucket
	CategoryName string          `json:"category_name"`
	Items        int             `json:"items"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Profit       decimal.Decimal `json:"profit"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

// DailySalesPoint is revenue and profit for one calendar day.
type DailySalesPoint struct {
	Day       string          `db:"day" json:"day"` // YYYY-MM-DD
	Revenue   decimal.Decimal `db:"revenue" json:"revenue"`
	Profit    decimal.Decimal `db:"profit" json:"profit"`
	UnitsSold int             `db:"units_sold" json:"units_sold"`
	Sales     int             `db:"sales" json:"sales"`
}

// ExpenseBreakdown totals expenses per expense category.
type ExpenseBreakdown struct {
	Category ExpenseCategory `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}
