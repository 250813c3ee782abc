package ledger

import (
	"sort"
	"time"

	"stockledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MarginPercent is (selling - purchase) / selling * 100, zero when the selling price is zero.
func MarginPercent(item model.InventoryItem) decimal.Decimal {
	if item.SellingPrice.IsZero() {
		return decimal.Zero
	}
	return item.SellingPrice.Sub(item.PurchasePrice).Div(item.SellingPrice).Mul(hundred)
}

// StockValue is the capital still tied up in the remaining units.
func StockValue(item model.InventoryItem) decimal.Decimal {
	return item.PurchasePrice.Mul(decimal.NewFromInt(int64(item.QuantityRemaining)))
}

// SaleRevenue is price * quantity minus the flat discount.
func SaleRevenue(sale model.Sale) decimal.Decimal {
	return sale.SellingPrice.Mul(decimal.NewFromInt(int64(sale.QuantitySold))).Sub(sale.DiscountAmount)
}

// SaleProfit uses the item's current purchase price as the unit cost, since a sale
// does not snapshot its cost. A nil item (deleted) contributes no cost.
func SaleProfit(sale model.Sale, item *model.InventoryItem) decimal.Decimal {
	revenue := SaleRevenue(sale)
	if item == nil {
		return revenue
	}
	return revenue.Sub(item.PurchasePrice.Mul(decimal.NewFromInt(int64(sale.QuantitySold))))
}

// GrossProfit sums SaleProfit over sales, looking items up by id.
func GrossProfit(sales []model.Sale, items map[uuid.UUID]model.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(SaleProfit(s, lookup(items, s.InventoryID)))
	}
	return total
}

// TotalExpenses sums expense amounts.
func TotalExpenses(expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// NetProfit is gross profit minus every expense in scope.
func NetProfit(gross decimal.Decimal, expenses []model.Expense) decimal.Decimal {
	return gross.Sub(TotalExpenses(expenses))
}

// ROI is expected profit over total investment in percent, zero without investment.
func ROI(batch model.Batch) decimal.Decimal {
	if batch.TotalInvestment.IsZero() {
		return decimal.Zero
	}
	return batch.ExpectedProfit.Div(batch.TotalInvestment).Mul(hundred)
}

// BatchSnapshot computes the creation-time financial fields of a batch.
func BatchSnapshot(items []model.InventoryItem) (investment, revenue, profit decimal.Decimal) {
	investment, revenue = decimal.Zero, decimal.Zero
	for _, it := range items {
		q := decimal.NewFromInt(int64(it.OriginalQuantity))
		investment = investment.Add(it.PurchasePrice.Mul(q))
		revenue = revenue.Add(it.SellingPrice.Mul(q))
	}
	return investment, revenue, revenue.Sub(investment)
}

// Velocity is units sold per day since creation, counting at least one day.
func Velocity(unitsSold int, createdAt, now time.Time) decimal.Decimal {
	days := int64(now.Sub(createdAt) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return decimal.NewFromInt(int64(unitsSold)).Div(decimal.NewFromInt(days))
}

// DaysToExhaust is totalReceived / velocity. It returns nil ("N/A") when nothing sold yet.
func DaysToExhaust(totalReceived int, velocity decimal.Decimal) *decimal.Decimal {
	if !velocity.IsPositive() {
		return nil
	}
	d := decimal.NewFromInt(int64(totalReceived)).Div(velocity)
	return &d
}

// UnitsSold sums quantity sold per inventory id.
func UnitsSold(sales []model.Sale) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int)
	for _, s := range sales {
		out[s.InventoryID] += s.QuantitySold
	}
	return out
}

// Summarize computes the dashboard figures from one snapshot read.
func Summarize(items []model.InventoryItem, sales []model.Sale, expenses []model.Expense, now time.Time) model.DashboardSummary {
	byID := Index(items)
	sum := model.DashboardSummary{
		TotalItems:      len(items),
		StockValue:      decimal.Zero,
		TotalInvestment: decimal.Zero,
		ExpectedProfit:  decimal.Zero,
		Revenue:         decimal.Zero,
		GeneratedAt:     now,
	}
	for _, it := range items {
		received := decimal.NewFromInt(int64(it.TotalReceived))
		sum.StockValue = sum.StockValue.Add(StockValue(it))
		sum.TotalInvestment = sum.TotalInvestment.Add(it.PurchasePrice.Mul(received))
		switch it.Status {
		case model.StatusLowStock:
			sum.LowStockItems++
		case model.StatusCompleted:
			sum.CompletedItems++
		}
		if it.Status != model.StatusCompleted {
			perUnit := it.SellingPrice.Sub(it.PurchasePrice)
			sum.ExpectedProfit = sum.ExpectedProfit.Add(perUnit.Mul(decimal.NewFromInt(int64(it.QuantityRemaining))))
		}
	}
	for _, s := range sales {
		sum.Revenue = sum.Revenue.Add(SaleRevenue(s))
		sum.UnitsSold += s.QuantitySold
	}
	sum.GrossProfit = GrossProfit(sales, byID)
	sum.TotalExpenses = TotalExpenses(expenses)
	sum.NetProfit = sum.GrossProfit.Sub(sum.TotalExpenses)
	return sum
}

// CategoryRollup groups items and their sales by category, nil falling into the
// Uncategorized bucket. Buckets are ordered by profit, highest first.
func CategoryRollup(items []model.InventoryItem, sales []model.Sale, names map[uuid.UUID]string) []model.CategoryPerformance {
	byID := Index(items)
	buckets := make(map[string]*model.CategoryPerformance)
	bucket := func(catID *uuid.UUID) *model.CategoryPerformance {
		key, name := "", model.UncategorizedName
		if catID != nil {
			key = catID.String()
			if n, ok := names[*catID]; ok {
				name = n
			}
		}
		b, ok := buckets[key]
		if !ok {
			b = &model.CategoryPerformance{
				CategoryID:   key,
				CategoryName: name,
				Revenue:      decimal.Zero,
				Profit:       decimal.Zero,
				StockValue:   decimal.Zero,
			}
			buckets[key] = b
		}
		return b
	}

	for _, it := range items {
		b := bucket(it.CategoryID)
		b.Items++
		b.StockValue = b.StockValue.Add(StockValue(it))
	}
	for _, s := range sales {
		item := lookup(byID, s.InventoryID)
		var catID *uuid.UUID
		if item != nil {
			catID = item.CategoryID
		}
		b := bucket(catID)
		b.UnitsSold += s.QuantitySold
		b.Revenue = b.Revenue.Add(SaleRevenue(s))
		b.Profit = b.Profit.Add(SaleProfit(s, item))
	}

	out := make([]model.CategoryPerformance, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Profit.Cmp(out[j].Profit); c != 0 {
			return c > 0
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out
}

// BreakdownExpenses totals expenses per category, ordered by category name.
func BreakdownExpenses(expenses []model.Expense) []model.ExpenseBreakdown {
	totals := make(map[model.ExpenseCategory]*model.ExpenseBreakdown)
	for _, e := range expenses {
		b, ok := totals[e.Category]
		if !ok {
			b = &model.ExpenseBreakdown{Category: e.Category, Total: decimal.Zero}
			totals[e.Category] = b
		}
		b.Count++
		b.Total = b.Total.Add(e.Amount)
	}
	out := make([]model.ExpenseBreakdown, 0, len(totals))
	for _, b := range totals {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Index maps items by id.
func Index(items []model.InventoryItem) map[uuid.UUID]model.InventoryItem {
	out := make(map[uuid.UUID]model.InventoryItem, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out
}

func lookup(items map[uuid.UUID]model.InventoryItem, id uuid.UUID) *model.InventoryItem {
	if it, ok := items[id]; ok {
		return &it
	}
	return nil
}
