package handler

import (
	"net/http"
	"time"

	"stockledger/internal/service"
	"stockledger/pkg/pagination"
	"stockledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenseService service.ExpenseService
	queryService   service.QueryService
	loc            *time.Location
}

func NewExpenseHandler(expenseService service.ExpenseService, queryService service.QueryService, loc *time.Location) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, queryService: queryService, loc: loc}
}

func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/expenses")
	{
		expenses.GET("", h.GetExpenses)
		expenses.POST("", h.CreateExpense)
		expenses.PUT("/:id", h.UpdateExpense)
		expenses.DELETE("/:id", h.DeleteExpense)
	}
}

// GetExpenses
// @Summary      List expenses
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        category      query  string  false  "Packaging | Shipping | Marketing | Repair | Subscription | Other"
// @Param        inventory_id  query  string  false  "Only expenses tied to this item"
// @Param        start_date    query  string  false  "RFC3339 or YYYY-MM-DD"
// @Param        end_date      query  string  false  "RFC3339 or YYYY-MM-DD (inclusive day)"
// @Param        page          query  int     false  "Page number"
// @Param        limit         query  int     false  "Items per page"
// @Success      200  {object}  response.Response{data=[]service.ExpenseRow}
// @Failure      400  {object}  response.Response
// @Router       /api/expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	rng, ok := parseDateRange(c, h.loc)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	rows, total, err := h.queryService.ListExpenses(c.Request.Context(), service.ExpenseQuery{
		Category:    c.Query("category"),
		InventoryID: c.Query("inventory_id"),
		From:        rng.From,
		To:          rng.To,
		Page:        p.Page,
		Limit:       p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, rows, p.Meta(total)))
}

// CreateExpense
// @Summary      Record an expense
// @Description  Without inventory_id the expense is general overhead
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ExpenseRequest  true  "Expense"
// @Success      201      {object}  response.Response{data=model.Expense}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response "Unknown item"
// @Router       /api/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req service.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	expense, err := h.expenseService.RecordExpense(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

// UpdateExpense
// @Summary      Update an expense
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Expense ID"
// @Param        payload  body      service.ExpenseRequest  true  "Expense"
// @Success      200      {object}  response.Response{data=model.Expense}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var req service.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// DeleteExpense
// @Summary      Delete an expense
// @Tags         expenses
// @Security     BearerAuth
// @Param        id   path  string  true  "Expense ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	if err := h.expenseService.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"id": c.Param("id")}))
}
