package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Gowsikakho/expense-track/internal/analytics"
	"github.com/Gowsikakho/expense-track/internal/month"
	"github.com/Gowsikakho/expense-track/internal/services"
)

type mockAnalyticsService struct {
	getCategoryTotalsFn func(userID string, m month.Month) ([]analytics.CategoryTotal, error)
	getDailyTimelineFn  func(userID string, m month.Month) ([]analytics.DayAmount, error)
	getMonthSummaryFn   func(userID string, m month.Month) (*services.MonthSummary, error)
}

func (m *mockAnalyticsService) GetCategoryTotals(_ context.Context, userID string, mo month.Month) ([]analytics.CategoryTotal, error) {
	if m.getCategoryTotalsFn != nil {
		return m.getCategoryTotalsFn(userID, mo)
	}
	return []analytics.CategoryTotal{}, nil
}

func (m *mockAnalyticsService) GetDailyTimeline(_ context.Context, userID string, mo month.Month) ([]analytics.DayAmount, error) {
	if m.getDailyTimelineFn != nil {
		return m.getDailyTimelineFn(userID, mo)
	}
	return analytics.DailyTimeline(nil, mo), nil
}

func (m *mockAnalyticsService) GetMonthSummary(_ context.Context, userID string, mo month.Month) (*services.MonthSummary, error) {
	if m.getMonthSummaryFn != nil {
		return m.getMonthSummaryFn(userID, mo)
	}
	return &services.MonthSummary{Month: mo}, nil
}

var _ services.AnalyticsServicer = (*mockAnalyticsService)(nil)

func setupAnalyticsRouter(handler *AnalyticsHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("/analytics", injectUserID(testUserID))
	auth.GET("/categories", handler.GetCategoryTotals)
	auth.GET("/timeline", handler.GetDailyTimeline)
	auth.GET("/summary", handler.GetMonthSummary)
	return r
}

func TestAnalyticsHandler_GetCategoryTotals(t *testing.T) {
	var gotMonth month.Month
	svc := &mockAnalyticsService{
		getCategoryTotalsFn: func(_ string, m month.Month) ([]analytics.CategoryTotal, error) {
			gotMonth = m
			return []analytics.CategoryTotal{
				{Name: "Transportation", Icon: "🚗", TotalAmount: decimal.NewFromInt(100), Count: 2, Derived: true},
			}, nil
		},
	}
	r := setupAnalyticsRouter(NewAnalyticsHandler(svc))

	rec := doRequest(r, "GET", "/analytics/categories?month=2024-03", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotMonth.String() != "2024-03" {
		t.Errorf("expected month 2024-03, got %s", gotMonth)
	}
	result := parseJSON(t, rec)
	if result["month"] != "2024-03" {
		t.Errorf("expected month echoed, got %v", result["month"])
	}
	first := result["categories"].([]interface{})[0].(map[string]interface{})
	if first["total_amount"] != "100" || first["derived"] != true {
		t.Errorf("unexpected bucket %v", first)
	}
}

func TestAnalyticsHandler_GetDailyTimeline(t *testing.T) {
	r := setupAnalyticsRouter(NewAnalyticsHandler(&mockAnalyticsService{}))

	t.Run("returns every day", func(t *testing.T) {
		rec := doRequest(r, "GET", "/analytics/timeline?month=2024-02", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if days := parseJSON(t, rec)["days"].([]interface{}); len(days) != 29 {
			t.Errorf("expected 29 days, got %d", len(days))
		}
	})

	t.Run("defaults to current month", func(t *testing.T) {
		rec := doRequest(r, "GET", "/analytics/timeline", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := parseJSON(t, rec)["month"]; got != month.Current().String() {
			t.Errorf("expected current month, got %v", got)
		}
	})

	t.Run("returns 400 on bad month", func(t *testing.T) {
		rec := doRequest(r, "GET", "/analytics/timeline?month=March", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_MONTH")
	})
}

func TestAnalyticsHandler_GetMonthSummary(t *testing.T) {
	svc := &mockAnalyticsService{
		getMonthSummaryFn: func(_ string, m month.Month) (*services.MonthSummary, error) {
			return &services.MonthSummary{
				Month: m,
				Summary: analytics.Summary{
					Total:        decimal.RequireFromString("310"),
					DailyAverage: decimal.RequireFromString("10"),
					ActiveDays:   4,
					DaysInMonth:  31,
				},
			}, nil
		},
	}
	r := setupAnalyticsRouter(NewAnalyticsHandler(svc))

	rec := doRequest(r, "GET", "/analytics/summary?month=2024-03", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["total"] != "310" || summary["daily_average"] != "10" || summary["days_in_month"].(float64) != 31 {
		t.Errorf("unexpected summary %v", summary)
	}
	if summary["month"] != "2024-03" {
		t.Errorf("expected embedded month, got %v", summary["month"])
	}
}
