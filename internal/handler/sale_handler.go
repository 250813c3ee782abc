package handler

import (
	"net/http"
	"time"

	"stockledger/internal/service"
	"stockledger/pkg/pagination"
	"stockledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// SaleHandler serves the sale write paths and the sale and restock history.
type SaleHandler struct {
	inventoryService service.InventoryService
	queryService     service.QueryService
	loc              *time.Location
}

func NewSaleHandler(inventoryService service.InventoryService, queryService service.QueryService, loc *time.Location) *SaleHandler {
	return &SaleHandler{inventoryService: inventoryService, queryService: queryService, loc: loc}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/sales")
	{
		sales.GET("", h.ListSales)
		sales.POST("", h.RecordSale)
		sales.PUT("/:id", h.EditSale)
		sales.DELETE("/:id", h.DeleteSale)
	}
	router.GET("/restocks", h.ListRestocks)
	router.GET("/stock-history", h.ListStockHistory)
}

// historyQuery reads the filters shared by the sale and restock lists.
func (h *SaleHandler) historyQuery(c *gin.Context) (service.HistoryQuery, pagination.Params, bool) {
	rng, ok := parseDateRange(c, h.loc)
	if !ok {
		return service.HistoryQuery{}, pagination.Params{}, false
	}
	p := pagination.Parse(c)
	return service.HistoryQuery{
		InventoryID: c.Query("inventory_id"),
		From:        rng.From,
		To:          rng.To,
		Page:        p.Page,
		Limit:       p.Limit,
	}, p, true
}

// ListSales
// @Summary      List sales
// @Description  Newest first. Sales of deleted items are labelled "Deleted Item".
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        inventory_id  query  string  false  "Only sales of this item"
// @Param        start_date    query  string  false  "RFC3339 or YYYY-MM-DD"
// @Param        end_date      query  string  false  "RFC3339 or YYYY-MM-DD (inclusive day)"
// @Param        page          query  int     false  "Page number"
// @Param        limit         query  int     false  "Items per page"
// @Success      200  {object}  response.Response{data=[]service.SaleRow}
// @Failure      400  {object}  response.Response
// @Router       /api/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	q, p, ok := h.historyQuery(c)
	if !ok {
		return
	}
	rows, total, err := h.queryService.ListSales(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, rows, p.Meta(total)))
}

// RecordSale
// @Summary      Record a sale
// @Description  Decrements stock atomically. Fails with 409 when fewer units remain than requested.
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordSaleRequest  true  "Sale"
// @Success      201      {object}  response.Response{data=service.SaleResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response "Insufficient stock"
// @Router       /api/sales [post]
func (h *SaleHandler) RecordSale(c *gin.Context) {
	var req service.RecordSaleRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.inventoryService.RecordSale(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// EditSale
// @Summary      Edit a sale
// @Description  Applies only the quantity difference to stock. The sale's own units count as available.
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Sale ID"
// @Param        payload  body      service.EditSaleRequest  true  "Sale fields"
// @Success      200      {object}  response.Response{data=service.SaleResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response "Insufficient stock or item deleted"
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) EditSale(c *gin.Context) {
	var req service.EditSaleRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.inventoryService.EditSale(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// DeleteSale
// @Summary      Delete a sale
// @Description  Returns the sold units to stock. A sale of a deleted item is removed without touching stock.
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response{data=service.StockLevel}
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	level, err := h.inventoryService.DeleteSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, level))
}

// ListRestocks
// @Summary      List restocks
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        inventory_id  query  string  false  "Only restocks of this item"
// @Param        start_date    query  string  false  "RFC3339 or YYYY-MM-DD"
// @Param        end_date      query  string  false  "RFC3339 or YYYY-MM-DD (inclusive day)"
// @Param        page          query  int     false  "Page number"
// @Param        limit         query  int     false  "Items per page"
// @Success      200  {object}  response.Response{data=[]service.RestockRow}
// @Router       /api/restocks [get]
func (h *SaleHandler) ListRestocks(c *gin.Context) {
	q, p, ok := h.historyQuery(c)
	if !ok {
		return
	}
	rows, total, err := h.queryService.ListRestocks(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, rows, p.Meta(total)))
}

// ListStockHistory
// @Summary      Stock history
// @Description  Every stocking event newest first: each item's initial intake and all restocks, with batch names and investment
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        type          query  string  false  "all | initial | restock"
// @Param        search        query  string  false  "Item or batch name"
// @Param        inventory_id  query  string  false  "Only events of this item"
// @Param        start_date    query  string  false  "RFC3339 or YYYY-MM-DD"
// @Param        end_date      query  string  false  "RFC3339 or YYYY-MM-DD (inclusive day)"
// @Param        page          query  int     false  "Page number"
// @Param        limit         query  int     false  "Items per page"
// @Success      200  {object}  response.Response{data=service.StockHistoryPage}
// @Failure      400  {object}  response.Response
// @Router       /api/stock-history [get]
func (h *SaleHandler) ListStockHistory(c *gin.Context) {
	q, p, ok := h.historyQuery(c)
	if !ok {
		return
	}
	result, err := h.queryService.ListStockHistory(c.Request.Context(), service.StockHistoryQuery{
		Type:        c.Query("type"),
		Search:      c.Query("search"),
		InventoryID: q.InventoryID,
		From:        q.From,
		To:          q.To,
		Page:        p.Page,
		Limit:       p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, result, p.Meta(result.Events)))
}
