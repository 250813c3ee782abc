package handler

import (
	"errors"
	"net/http"
	"time"

	"stockledger/internal/service"
	"stockledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var consistency *service.ConsistencyError
	switch {
	case errors.As(err, &consistency):
		return http.StatusInternalServerError
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidDiscount),
		errors.Is(err, service.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrDuplicateCategory),
		errors.Is(err, service.ErrOrphanedRecord),
		errors.Is(err, service.ErrBusy):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Unexpected failures are attached to the
// gin context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	var consistency *service.ConsistencyError
	switch {
	case errors.As(err, &consistency):
		msg = "The change may not have been saved. Please check the item before retrying."
	case status == http.StatusInternalServerError:
		msg = "Internal server error"
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, response.Error(status, msg))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, msg))
}

// bindJSON decodes the body into req, answering 400 itself on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

// parseDateRange reads start_date and end_date. Both accept RFC3339 or YYYY-MM-DD;
// a bare end date includes that whole day.
func parseDateRange(c *gin.Context, loc *time.Location) (service.ReportRange, bool) {
	var rng service.ReportRange
	var err error
	if raw := c.Query("start_date"); raw != "" {
		if rng.From, _, err = parseDate(raw, loc); err != nil {
			badRequest(c, "invalid start_date, expected RFC3339 or YYYY-MM-DD")
			return rng, false
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		var dateOnly bool
		if rng.To, dateOnly, err = parseDate(raw, loc); err != nil {
			badRequest(c, "invalid end_date, expected RFC3339 or YYYY-MM-DD")
			return rng, false
		}
		if dateOnly {
			rng.To = rng.To.AddDate(0, 0, 1)
		}
	}
	return rng, true
}

func parseDate(raw string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	return t, true, err
}
