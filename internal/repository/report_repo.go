package repository

import (
	"context"
	"fmt"
	"time"

	"stockledger/internal/model"

	"github.com/jmoiron/sqlx"
)

// ReportRepository runs the aggregate reporting queries directly in SQL.
type ReportRepository interface {
	DailySales(ctx context.Context, from, to time.Time, loc *time.Location) ([]model.DailySalesPoint, error)
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Orphaned sales (item deleted) contribute revenue with no cost, same as ledger.SaleProfit.
const dailySalesQuery = `
	SELECT to_char(s.sale_date AT TIME ZONE $3, 'YYYY-MM-DD') AS day,
	       COUNT(*) AS sales,
	       COALESCE(SUM(s.quantity_sold), 0) AS units_sold,
	       COALESCE(SUM(s.selling_price * s.quantity_sold - s.discount_amount), 0) AS revenue,
	       COALESCE(SUM(s.selling_price * s.quantity_sold - s.discount_amount
	                    - COALESCE(i.purchase_price, 0) * s.quantity_sold), 0) AS profit
	FROM sales s
	LEFT JOIN inventory i ON i.id = s.inventory_id
	WHERE s.sale_date >= $1 AND s.sale_date < $2
	GROUP BY day
	ORDER BY day ASC`

func (r *reportRepository) DailySales(ctx context.Context, from, to time.Time, loc *time.Location) ([]model.DailySalesPoint, error) {
	if loc == nil {
		loc = time.UTC
	}
	points := []model.DailySalesPoint{}
	if err := r.db.SelectContext(ctx, &points, dailySalesQuery, from, to, loc.String()); err != nil {
		return nil, fmt.Errorf("failed to query daily sales: %w", err)
	}
	return points, nil
}
