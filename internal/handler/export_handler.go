package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"stockledger/internal/export"
	"stockledger/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	queryService service.QueryService
	loc          *time.Location
}

func NewExportHandler(queryService service.QueryService, loc *time.Location) *ExportHandler {
	return &ExportHandler{queryService: queryService, loc: loc}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/export/:kind", h.Export)
}

// Export
// @Summary      Export history as xlsx
// @Description  Takes the same filters as the matching list endpoint, without pagination
// @Tags         export
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        kind          path   string  true   "sales | restocks | expenses | stock-history"
// @Param        inventory_id  query  string  false  "Only rows of this item"
// @Param        category      query  string  false  "Expense category (expenses only)"
// @Param        type          query  string  false  "initial | restock (stock-history only)"
// @Param        search        query  string  false  "Item or batch name (stock-history only)"
// @Param        start_date    query  string  false  "RFC3339 or YYYY-MM-DD"
// @Param        end_date      query  string  false  "RFC3339 or YYYY-MM-DD (inclusive day)"
// @Success      200  {file}    file
// @Failure      400  {object}  response.Response
// @Router       /api/export/{kind} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	kind := export.Kind(c.Param("kind"))
	if !kind.Valid() {
		badRequest(c, fmt.Sprintf("unknown export %q, expected sales, restocks, expenses or stock-history", kind))
		return
	}
	rng, ok := parseDateRange(c, h.loc)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	history := service.HistoryQuery{InventoryID: c.Query("inventory_id"), From: rng.From, To: rng.To}

	// Render into memory first so a failure can still be reported as JSON.
	var buf bytes.Buffer
	var err error
	switch kind {
	case export.KindSales:
		var rows []service.SaleRow
		if rows, err = h.queryService.ExportSales(ctx, history); err == nil {
			err = export.Sales(&buf, rows)
		}
	case export.KindRestocks:
		var rows []service.RestockRow
		if rows, err = h.queryService.ExportRestocks(ctx, history); err == nil {
			err = export.Restocks(&buf, rows)
		}
	case export.KindExpenses:
		var rows []service.ExpenseRow
		q := service.ExpenseQuery{Category: c.Query("category"), InventoryID: history.InventoryID, From: rng.From, To: rng.To}
		if rows, err = h.queryService.ExportExpenses(ctx, q); err == nil {
			err = export.Expenses(&buf, rows)
		}
	case export.KindStock:
		var rows []service.StockHistoryRow
		q := service.StockHistoryQuery{Type: c.Query("type"), Search: c.Query("search"), InventoryID: history.InventoryID, From: rng.From, To: rng.To}
		if rows, err = h.queryService.ExportStockHistory(ctx, q); err == nil {
			err = export.StockHistory(&buf, rows)
		}
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+kind.Filename())
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
