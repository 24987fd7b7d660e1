package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/models"
	"github.com/Gowsikakho/expense-track/internal/pagination"
)

// DefaultRecentExpenses is the number of expenses GetRecentExpenses returns
// when no limit is given.
const DefaultRecentExpenses = 10

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// calendarDate drops the clock and zone of t, keeping its calendar day.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// checkReference verifies that a referenced budget or category exists and is
// owned by userID. Another owner's record is an ownership violation rather
// than a missing one.
func checkReference(db *gorm.DB, model any, id, userID string, notFound *apperrors.AppError) error {
	var owner struct{ UserID string }
	err := db.Model(model).Select("user_id").Where("id = ?", id).Take(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return apperrors.Wrap(apperrors.ErrStore, err)
	}
	if owner.UserID != userID {
		return apperrors.ErrOwnershipViolation
	}
	return nil
}

func (s *expenseService) checkBudget(db *gorm.DB, userID string, budgetID *string) error {
	if budgetID == nil {
		return nil
	}
	return checkReference(db, &models.Budget{}, *budgetID, userID, apperrors.ErrBudgetNotFound)
}

func (s *expenseService) checkCategory(db *gorm.DB, userID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	return checkReference(db, &models.Category{}, *categoryID, userID, apperrors.ErrCategoryNotFound)
}

// CreateExpense records a new expense.
func (s *expenseService) CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense name is required")
	}
	amount, err := normalizeAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "expense amount must not be negative")
	}
	if in.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense date is required")
	}

	db := s.db.WithContext(context.WithoutCancel(ctx))
	if err := s.checkBudget(db, userID, in.BudgetID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(db, userID, in.CategoryID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:     userID,
		Name:       name,
		Amount:     amount,
		Date:       calendarDate(in.Date),
		BudgetID:   in.BudgetID,
		CategoryID: in.CategoryID,
		Notes:      in.Notes,
	}
	if err := db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return expense, nil
}

// GetExpenseByID returns an expense by ID if it belongs to the user.
func (s *expenseService) GetExpenseByID(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return &expense, nil
}

// GetUserExpenses returns a filtered, paginated list of expenses, latest date first.
func (s *expenseService) GetUserExpenses(ctx context.Context, userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Expense{}).Where("user_id = ?", userID)
	if filter.Month != nil {
		base = base.Where("date >= ? AND date < ?", filter.Month.Start(), filter.Month.End())
	}
	if filter.PersonalOnly {
		base = base.Where("budget_id IS NULL")
	} else if filter.BudgetID != nil {
		base = base.Where("budget_id = ?", *filter.BudgetID)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	var expenses []models.Expense
	if err := base.Order("date DESC, created_at DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecentExpenses returns the most recently recorded expenses.
func (s *expenseService) GetRecentExpenses(ctx context.Context, userID string, limit int) ([]models.Expense, error) {
	if limit <= 0 {
		limit = DefaultRecentExpenses
	}
	page := pagination.First(limit)

	expenses := make([]models.Expense, 0, page.PageSize)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(page.PageSize).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return expenses, nil
}

// UpdateExpense updates an existing expense's fields.
func (s *expenseService) UpdateExpense(ctx context.Context, userID, expenseID string, update ExpenseUpdate) (*models.Expense, error) {
	updates := make(map[string]any)
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense name must not be empty")
		}
		updates["name"] = name
	}
	if update.Amount != nil {
		amount, err := normalizeAmount(*update.Amount)
		if err != nil {
			return nil, err
		}
		if amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "expense amount must not be negative")
		}
		updates["amount"] = amount
	}
	if update.Date != nil {
		updates["date"] = calendarDate(*update.Date)
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	ctx = context.WithoutCancel(ctx)
	expense, err := s.GetExpenseByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	switch {
	case update.ClearBudget:
		updates["budget_id"] = nil
	case update.BudgetID != nil:
		if err := s.checkBudget(db, userID, update.BudgetID); err != nil {
			return nil, err
		}
		updates["budget_id"] = *update.BudgetID
	}
	switch {
	case update.ClearCategory:
		updates["category_id"] = nil
	case update.CategoryID != nil:
		if err := s.checkCategory(db, userID, update.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
	}

	if len(updates) > 0 {
		if err := db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStore, err)
		}
	}

	return s.GetExpenseByID(ctx, userID, expenseID)
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	ctx = context.WithoutCancel(ctx)
	expense, err := s.GetExpenseByID(ctx, userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStore, err)
	}
	return nil
}
