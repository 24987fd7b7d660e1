package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gowsikakho/expense-track/internal/analytics"
	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/models"
	"github.com/Gowsikakho/expense-track/internal/month"
)

// analyticsService loads owner-scoped snapshots for the aggregation engine.
type analyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &analyticsService{db: db}
}

// monthExpenses returns the user's expenses dated inside m.
func monthExpenses(db *gorm.DB, userID string, m month.Month) ([]models.Expense, error) {
	var expenses []models.Expense
	err := db.Where("user_id = ? AND date >= ? AND date < ?", userID, m.Start(), m.End()).
		Order("date ASC").
		Find(&expenses).Error
	return expenses, err
}

// GetCategoryTotals returns the month's spend per category, largest first.
func (s *analyticsService) GetCategoryTotals(ctx context.Context, userID string, m month.Month) ([]analytics.CategoryTotal, error) {
	db := s.db.WithContext(ctx)

	expenses, err := monthExpenses(db, userID, m)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	var categories []models.Category
	if err := db.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	return analytics.CategoryTotals(expenses, categories), nil
}

// GetDailyTimeline returns one entry per day of the month.
func (s *analyticsService) GetDailyTimeline(ctx context.Context, userID string, m month.Month) ([]analytics.DayAmount, error) {
	expenses, err := monthExpenses(s.db.WithContext(ctx), userID, m)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return analytics.DailyTimeline(expenses, m), nil
}

// GetMonthSummary totals the month's timeline.
func (s *analyticsService) GetMonthSummary(ctx context.Context, userID string, m month.Month) (*MonthSummary, error) {
	timeline, err := s.GetDailyTimeline(ctx, userID, m)
	if err != nil {
		return nil, err
	}
	return &MonthSummary{Month: m, Summary: analytics.Summarize(timeline)}, nil
}
