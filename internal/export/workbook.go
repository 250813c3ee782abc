// Package export renders ledger row lists as xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"stockledger/internal/service"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheet = "Sheet1"

// Kind names an exportable list.
type Kind string

const (
	KindSales    Kind = "sales"
	KindRestocks Kind = "restocks"
	KindExpenses Kind = "expenses"
	KindStock    Kind = "stock-history"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSales, KindRestocks, KindExpenses, KindStock:
		return true
	}
	return false
}

// Filename is the attachment name for a kind, e.g. "sales.xlsx".
func (k Kind) Filename() string { return string(k) + ".xlsx" }

var (
	saleHeaders    = []string{"Date", "Item", "Quantity", "Unit Price", "Discount", "Revenue", "Profit", "Channel", "Notes"}
	restockHeaders = []string{"Date", "Item", "Quantity Added", "Cost Per Unit", "Selling Price", "Total Cost"}
	expenseHeaders = []string{"Date", "Category", "Amount", "Item", "Description"}
	stockHeaders   = []string{"Date", "Batch", "Item", "Type", "Quantity", "Unit Cost", "Total Investment"}
)

func Sales(w io.Writer, rows []service.SaleRow) error {
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		data = append(data, []interface{}{
			r.SaleDate, r.ItemName, r.QuantitySold, num(r.SellingPrice), num(r.DiscountAmount),
			num(r.Revenue), num(r.Profit), string(r.SalesChannel), r.Notes,
		})
	}
	return write(w, saleHeaders, data)
}

func Restocks(w io.Writer, rows []service.RestockRow) error {
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		data = append(data, []interface{}{
			r.DateAdded, r.ItemName, r.QuantityAdded, num(r.CostPerUnit), num(r.SellingPrice), num(r.TotalCost),
		})
	}
	return write(w, restockHeaders, data)
}

func Expenses(w io.Writer, rows []service.ExpenseRow) error {
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		data = append(data, []interface{}{
			r.ExpenseDate, string(r.Category), num(r.Amount), r.ItemName, r.Description,
		})
	}
	return write(w, expenseHeaders, data)
}

func StockHistory(w io.Writer, rows []service.StockHistoryRow) error {
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		label := "Restock"
		if r.Type == service.HistoryInitial {
			label = "Initial Stock"
		}
		data = append(data, []interface{}{
			r.Date, r.BatchName, r.ItemName, label, r.Quantity, num(r.CostPerUnit), num(r.TotalInvestment),
		})
	}
	return write(w, stockHeaders, data)
}

func write(w io.Writer, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheet, "A", "A", 20)
	_ = f.SetColWidth(sheet, "B", last, 16)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// num keeps money cells numeric so spreadsheet formulas work on them.
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
