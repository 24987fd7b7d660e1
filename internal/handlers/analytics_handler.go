package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gowsikakho/expense-track/internal/services"
)

// AnalyticsHandler serves month aggregates. The month query parameter
// defaults to the current month.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetCategoryTotals returns spend per category for a month.
// @Summary     Get category totals
// @Description Spend per category; expenses without a category are grouped by name-derived category
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month (YYYY-MM), defaults to current month"
// @Success     200 {array}  analytics.CategoryTotal "Category totals, largest first"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/categories [get]
func (h *AnalyticsHandler) GetCategoryTotals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	m, err := parseMonth(c.Query("month"), true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.analyticsService.GetCategoryTotals(c.Request.Context(), userID, m)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": m, "categories": totals})
}

// GetDailyTimeline returns spend per calendar day for a month.
// @Summary     Get daily timeline
// @Description Spend for every day of the month, including days with no expenses
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month (YYYY-MM), defaults to current month"
// @Success     200 {array}  analytics.DayAmount "One entry per day"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/timeline [get]
func (h *AnalyticsHandler) GetDailyTimeline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	m, err := parseMonth(c.Query("month"), true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	timeline, err := h.analyticsService.GetDailyTimeline(c.Request.Context(), userID, m)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": m, "days": timeline})
}

// GetMonthSummary returns the month total and daily average.
// @Summary     Get month summary
// @Description Total, daily average and active days of a month
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month (YYYY-MM), defaults to current month"
// @Success     200 {object} services.MonthSummary "Month summary"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/summary [get]
func (h *AnalyticsHandler) GetMonthSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	m, err := parseMonth(c.Query("month"), true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.analyticsService.GetMonthSummary(c.Request.Context(), userID, m)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
