package handler

import (
	"net/http"
	"strconv"

	"stockledger/internal/service"
	"stockledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService service.ActivityService
}

func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity", h.GetFeed)
}

// GetFeed
// @Summary      Activity feed
// @Description  Sales, restocks, new stock and expenses merged newest first
// @Tags         activity
// @Security     BearerAuth
// @Produce      json
// @Param        type   query  string  false  "all | sale | restock | new_stock | expense"
// @Param        date   query  string  false  "all | today | yesterday"
// @Param        limit  query  int     false  "Entries to return (max 100)"
// @Success      200  {object}  response.Response{data=[]model.ActivityEntry}
// @Failure      400  {object}  response.Response
// @Router       /api/activity [get]
func (h *ActivityHandler) GetFeed(c *gin.Context) {
	var limit int
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}
	feed, err := h.activityService.Feed(c.Request.Context(), service.ActivityQuery{
		Type:  c.Query("type"),
		Date:  c.Query("date"),
		Limit: limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, feed))
}
