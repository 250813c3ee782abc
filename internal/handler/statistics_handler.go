package handler

import (
	"net/http"
	"time"

	"stockledger/internal/service"
	"stockledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	loc               *time.Location
}

func NewStatisticsHandler(statisticsService service.StatisticsService, loc *time.Location) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, loc: loc}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/statistics")
	{
		stats.GET("/dashboard", h.GetDashboard)
		stats.GET("/categories", h.GetCategoryPerformance)
		stats.GET("/daily-sales", h.GetDailySales)
		stats.GET("/expenses", h.GetExpenseBreakdown)
	}
}

// @Summary      Dashboard summary
// @Description  Stock value, investment and expected profit over all items; revenue, profit and expenses over the range (all time when omitted)
// @Tags         Statistics
// @Security     BearerAuth
// @Produce      json
// @Param        start_date query string false "RFC3339 or YYYY-MM-DD"
// @Param        end_date   query string false "RFC3339 or YYYY-MM-DD (inclusive day)"
// @Success      200 {object} response.Response{data=model.DashboardSummary}
// @Failure      400 {object} response.Response "Invalid date range"
// @Router       /api/statistics/dashboard [get]
func (h *StatisticsHandler) GetDashboard(c *gin.Context) {
	rng, ok := parseDateRange(c, h.loc)
	if !ok {
		return
	}
	summary, err := h.statisticsService.Dashboard(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// @Summary      Performance per category
// @Tags         Statistics
// @Security     BearerAuth
// @Produce      json
// @Param        start_date query string false "RFC3339 or YYYY-MM-DD"
// @Param        end_date   query string false "RFC3339 or YYYY-MM-DD (inclusive day)"
// @Success      200 {object} response.Response{data=[]model.CategoryPerformance}
// @Router       /api/statistics/categories [get]
func (h *StatisticsHandler) GetCategoryPerformance(c *gin.Context) {
	rng, ok := parseDateRange(c, h.loc)
	if !ok {
		return
	}
	rows, err := h.statisticsService.CategoryPerformance(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// @Summary      Daily sales series
// @Description  Defaults to the last 30 days
// @Tags         Statistics
// @Security     BearerAuth
// @Produce      json
// @Param        start_date query string false "RFC3339 or YYYY-MM-DD"
// @Param        end_date   query string false "RFC3339 or YYYY-MM-DD (inclusive day)"
// @Success      200 {object} response.Response{data=[]model.DailySalesPoint}
// @Router       /api/statistics/daily-sales [get]
func (h *StatisticsHandler) GetDailySales(c *gin.Context) {
	rng, ok := parseDateRange(c, h.loc)
	if !ok {
		return
	}
	points, err := h.statisticsService.DailySales(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, points))
}

// @Summary      Expenses per category
// @Tags         Statistics
// @Security     BearerAuth
// @Produce      json
// @Param        start_date query string false "RFC3339 or YYYY-MM-DD"
// @Param        end_date   query string false "RFC3339 or YYYY-MM-DD (inclusive day)"
// @Success      200 {object} response.Response{data=[]model.ExpenseBreakdown}
// @Router       /api/statistics/expenses [get]
func (h *StatisticsHandler) GetExpenseBreakdown(c *gin.Context) {
	rng, ok := parseDateRange(c, h.loc)
	if !ok {
		return
	}
	rows, err := h.statisticsService.ExpenseBreakdown(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}
