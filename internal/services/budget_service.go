package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Gowsikakho/expense-track/internal/analytics"
	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/models"
	"github.com/Gowsikakho/expense-track/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget.
func (s *budgetService) CreateBudget(ctx context.Context, userID, name string, amount decimal.Decimal, icon string) (*models.Budget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	amount, err := normalizeAmount(amount)
	if err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "budget amount must not be negative")
	}

	budget := &models.Budget{
		UserID: userID,
		Name:   name,
		Amount: amount,
		Icon:   icon,
	}

	if err := s.db.WithContext(context.WithoutCancel(ctx)).Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of the user's budgets, newest first.
func (s *budgetService) GetUserBudgets(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	var budgets []models.Budget
	if err := base.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's fields.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID string, update BudgetUpdate) (*models.Budget, error) {
	updates := make(map[string]any)
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name must not be empty")
		}
		updates["name"] = name
	}
	if update.Amount != nil {
		amount, err := normalizeAmount(*update.Amount)
		if err != nil {
			return nil, err
		}
		if amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "budget amount must not be negative")
		}
		updates["amount"] = amount
	}
	if update.Icon != nil {
		updates["icon"] = *update.Icon
	}

	ctx = context.WithoutCancel(ctx)
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStore, err)
		}
	}

	return s.GetBudgetByID(ctx, userID, budgetID)
}

// DeleteBudget soft-deletes a budget and detaches its expenses, which
// become personal expenses.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	ctx = context.WithoutCancel(ctx)
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.Expense{}).
			Where("user_id = ? AND budget_id = ?", userID, budget.ID).
			Update("budget_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(budget).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStore, err)
	}
	return nil
}

// GetBudgetsWithSpend joins every budget with the expenses that reference it.
func (s *budgetService) GetBudgetsWithSpend(ctx context.Context, userID string) ([]analytics.BudgetSpend, error) {
	db := s.db.WithContext(ctx)

	var budgets []models.Budget
	if err := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	if len(budgets) == 0 {
		return []analytics.BudgetSpend{}, nil
	}

	var expenses []models.Expense
	if err := db.Where("user_id = ? AND budget_id IS NOT NULL", userID).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	return analytics.BudgetTotals(expenses, budgets), nil
}

// GetActiveBudgets returns the budgets whose allocation exceeds their spend.
func (s *budgetService) GetActiveBudgets(ctx context.Context, userID string) ([]analytics.BudgetSpend, error) {
	spends, err := s.GetBudgetsWithSpend(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.ActiveBudgets(spends), nil
}
