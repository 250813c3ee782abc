package handler

import (
	"net/http"

	"stockledger/internal/service"
	"stockledger/pkg/pagination"
	"stockledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
	queryService     service.QueryService
}

func NewInventoryHandler(inventoryService service.InventoryService, queryService service.QueryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, queryService: queryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/inventory")
	{
		inventory.GET("", h.ListInventory)
		inventory.POST("", h.AddStock)
		inventory.GET("/:id", h.GetInventoryDetail)
		inventory.PATCH("/:id", h.EditItem)
		inventory.POST("/:id/restock", h.Restock)
		inventory.POST("/bulk/recategorize", h.BulkRecategorize)
		inventory.POST("/bulk/delete", h.BulkDelete)
	}
	batches := router.Group("/batches")
	{
		batches.POST("", h.AddBatch)
		batches.GET("/:id", h.GetBatchSummary)
	}
}

// ListInventory
// @Summary      List inventory
// @Description  Paginated inventory rows with category and batch names, margin and stock value
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        status    query  string  false  "available | low_stock | completed"
// @Param        category  query  string  false  "Category ID or 'uncategorized'"
// @Param        search    query  string  false  "Matches item name or description"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        limit     query  int     false  "Items per page (default 20, max 100)"
// @Success      200  {object}  response.Response{data=[]service.InventoryListRow}
// @Failure      400  {object}  response.Response
// @Router       /api/inventory [get]
func (h *InventoryHandler) ListInventory(c *gin.Context) {
	p := pagination.Parse(c)
	rows, total, err := h.queryService.ListInventory(c.Request.Context(), service.InventoryQuery{
		Status:     c.Query("status"),
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
		Page:       p.Page,
		Limit:      p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, rows, p.Meta(total)))
}

// GetInventoryDetail
// @Summary      Inventory item detail
// @Description  Item row with units sold, realized profit, velocity, days to exhaust and restock history
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.InventoryDetailRow}
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetInventoryDetail(c *gin.Context) {
	row, err := h.queryService.GetInventoryDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}

// AddStock
// @Summary      Add a single item
// @Description  Creates one item and its one-item batch snapshot. Selling below cost is accepted with a warning.
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddStockRequest  true  "Item"
// @Success      201      {object}  response.Response{data=service.IntakeResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response "Unknown category"
// @Router       /api/inventory [post]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req service.AddStockRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.inventoryService.AddStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// AddBatch
// @Summary      Add a batch
// @Description  Creates a named batch and all of its items in one transaction
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddBatchRequest  true  "Batch"
// @Success      201      {object}  response.Response{data=service.IntakeResult}
// @Failure      400      {object}  response.Response
// @Router       /api/batches [post]
func (h *InventoryHandler) AddBatch(c *gin.Context) {
	var req service.AddBatchRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.inventoryService.AddBatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// GetBatchSummary
// @Summary      Batch summary
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Batch ID"
// @Success      200  {object}  response.Response{data=service.BatchSummary}
// @Failure      404  {object}  response.Response
// @Router       /api/batches/{id} [get]
func (h *InventoryHandler) GetBatchSummary(c *gin.Context) {
	summary, err := h.queryService.GetBatchSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// EditItem
// @Summary      Correct an item
// @Description  Direct field edits. Quantity changes here create no sale or restock rows and are journaled as corrections.
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Item ID"
// @Param        payload  body      service.EditItemRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.InventoryItem}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/inventory/{id} [patch]
func (h *InventoryHandler) EditItem(c *gin.Context) {
	var req service.EditItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.inventoryService.EditItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// Restock
// @Summary      Restock an item
// @Description  Adds units, optionally replacing the item's prices, and logs a restock row
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Item ID"
// @Param        payload  body      service.RestockRequest  true  "Restock"
// @Success      201      {object}  response.Response{data=service.RestockResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response "Item busy"
// @Router       /api/inventory/{id}/restock [post]
func (h *InventoryHandler) Restock(c *gin.Context) {
	var req service.RestockRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.inventoryService.Restock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// BulkRecategorize
// @Summary      Move items to a category
// @Description  All-or-nothing. A null category_id moves the items to Uncategorized.
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BulkRecategorizeRequest  true  "Items and target"
// @Success      200      {object}  response.Response{data=service.BulkResult}
// @Failure      404      {object}  response.Response "Unknown items or category"
// @Router       /api/inventory/bulk/recategorize [post]
func (h *InventoryHandler) BulkRecategorize(c *gin.Context) {
	var req service.BulkRecategorizeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.inventoryService.BulkRecategorize(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// BulkDelete
// @Summary      Delete items
// @Description  Removes the items with their sales, restocks and stock movements. Linked expenses become general overhead.
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BulkDeleteRequest  true  "Items"
// @Success      200      {object}  response.Response{data=service.BulkResult}
// @Failure      404      {object}  response.Response
// @Router       /api/inventory/bulk/delete [post]
func (h *InventoryHandler) BulkDelete(c *gin.Context) {
	var req service.BulkDeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.inventoryService.BulkDelete(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
