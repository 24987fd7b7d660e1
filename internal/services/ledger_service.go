package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gowsikakho/expense-track/internal/analytics"
	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/logger"
	"github.com/Gowsikakho/expense-track/internal/metrics"
	"github.com/Gowsikakho/expense-track/internal/models"
	"github.com/Gowsikakho/expense-track/internal/money"
	"github.com/Gowsikakho/expense-track/internal/month"
	"github.com/Gowsikakho/expense-track/internal/pagination"
)

// ledgerService owns income periods and the savings ledger.
//
// Two races are closed by store constraints rather than reads: the income
// upsert relies on the unique (user_id, month) index, and the month close
// relies on the partial unique index over rollover entries. Writes are
// detached from caller cancellation so an issued write either lands whole
// or fails whole.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

func findIncome(db *gorm.DB, userID string, m month.Month) (*models.IncomePeriod, error) {
	var income models.IncomePeriod
	if err := db.Where("user_id = ? AND month = ?", userID, m.String()).Take(&income).Error; err != nil {
		return nil, err
	}
	return &income, nil
}

func findRollover(db *gorm.DB, userID string, m month.Month) (*models.SavingsEntry, error) {
	var entry models.SavingsEntry
	err := db.Where("user_id = ? AND month = ? AND is_rollover = ?", userID, m.String(), true).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SetIncome records the income for a month, replacing any previous amount.
func (s *ledgerService) SetIncome(ctx context.Context, userID string, m month.Month, amount decimal.Decimal) (*models.IncomePeriod, error) {
	if m.IsZero() {
		return nil, apperrors.ErrInvalidMonth
	}
	amount, err := normalizeAmount(amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "income must be greater than zero")
	}

	db := s.db.WithContext(context.WithoutCancel(ctx))

	income := &models.IncomePeriod{
		UserID: userID,
		Month:  m,
		Amount: amount,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(income).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	// On conflict the generated ID is not the stored one.
	stored, err := findIncome(db, userID, m)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return stored, nil
}

// GetIncome returns the income recorded for a month.
func (s *ledgerService) GetIncome(ctx context.Context, userID string, m month.Month) (*models.IncomePeriod, error) {
	income, err := findIncome(s.db.WithContext(ctx), userID, m)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return income, nil
}

// ReconcileMonth closes a month by appending income minus the month's
// expenses to the savings ledger as a rollover entry.
//
// A month is closed at most once. Closing it again, or losing a race to a
// concurrent close, returns Written=false with the amount already on record.
// A month whose expenses exactly match its income writes nothing.
func (s *ledgerService) ReconcileMonth(ctx context.Context, userID string, m month.Month) (*ReconcileResult, error) {
	if m.IsZero() {
		return nil, apperrors.ErrInvalidMonth
	}

	log := logger.Named("ledger")
	outcome := metrics.OutcomeError
	defer func() { metrics.ObserveReconciliation(outcome) }()

	var result ReconcileResult
	err := s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		income, err := findIncome(tx, userID, m)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrMissingIncome
			}
			return err
		}

		existing, err := findRollover(tx, userID, m)
		if err != nil {
			return err
		}
		if existing != nil {
			result = ReconcileResult{Written: false, Amount: existing.Amount, EntryID: existing.ID}
			outcome = metrics.OutcomeAlreadyClosed
			return nil
		}

		expenses, err := monthExpenses(tx, userID, m)
		if err != nil {
			return err
		}
		remaining := income.Amount.Sub(analytics.MonthTotal(expenses, m))
		if remaining.IsZero() {
			result = ReconcileResult{Written: false, Amount: decimal.Zero}
			outcome = metrics.OutcomeBalanced
			return nil
		}

		entry := &models.SavingsEntry{
			UserID:     userID,
			Month:      m,
			Amount:     remaining,
			IsRollover: true,
			Note:       "Month-end rollover",
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			winner, err := findRollover(tx, userID, m)
			if err != nil {
				return err
			}
			result = ReconcileResult{Written: false, Amount: decimal.Zero}
			if winner != nil {
				result.Amount = winner.Amount
				result.EntryID = winner.ID
			}
			outcome = metrics.OutcomeAlreadyClosed
			return nil
		}

		result = ReconcileResult{Written: true, Amount: remaining, EntryID: entry.ID}
		outcome = metrics.OutcomeWritten
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingIncome) {
			outcome = metrics.OutcomeMissingIncome
			return nil, apperrors.ErrMissingIncome
		}
		log.Errorw("month reconciliation failed", "user_id", userID, "month", m.String(), "error", err)
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	log.Infow("month reconciled", "user_id", userID, "month", m.String(),
		"written", result.Written, "amount", result.Amount.String(), "entry_id", result.EntryID)
	return &result, nil
}

// GetCumulativeSavings sums every ledger entry of the user.
func (s *ledgerService) GetCumulativeSavings(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.SavingsEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return total.Round(money.Scale), nil
}

// AdjustSavings appends a manual entry. Negative amounts withdraw; a
// mistaken entry is corrected by an offsetting one.
func (s *ledgerService) AdjustSavings(ctx context.Context, userID string, m month.Month, amount decimal.Decimal, note string) (*models.SavingsEntry, error) {
	if m.IsZero() {
		return nil, apperrors.ErrInvalidMonth
	}
	amount, err := normalizeAmount(amount)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "adjustment must not be zero")
	}

	entry := &models.SavingsEntry{
		UserID:     userID,
		Month:      m,
		Amount:     amount,
		IsRollover: false,
		Note:       note,
	}
	if err := s.db.WithContext(context.WithoutCancel(ctx)).Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return entry, nil
}

// GetSavingsHistory returns ledger entries, newest first.
func (s *ledgerService) GetSavingsHistory(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsEntry], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.SavingsEntry{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	var entries []models.SavingsEntry
	if err := base.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPeriodStatus reports where a month stands: no income yet, open, or
// closed with a rollover entry.
func (s *ledgerService) GetPeriodStatus(ctx context.Context, userID string, m month.Month) (*PeriodStatus, error) {
	if m.IsZero() {
		return nil, apperrors.ErrInvalidMonth
	}
	db := s.db.WithContext(ctx)

	status := &PeriodStatus{Month: m, Status: PeriodNoIncome}

	income, err := findIncome(db, userID, m)
	switch {
	case err == nil:
		amount := income.Amount
		status.Income = &amount
		status.Status = PeriodOpen
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	expenses, err := monthExpenses(db, userID, m)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	status.Expenses = analytics.MonthTotal(expenses, m)
	if status.Income != nil {
		balance := status.Income.Sub(status.Expenses)
		status.Balance = &balance
	}

	rollover, err := findRollover(db, userID, m)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	if rollover != nil {
		amount := rollover.Amount
		status.Rollover = &amount
		status.Status = PeriodReconciled
	}

	return status, nil
}

// ReconcileAll closes m for every user with income recorded for it, running
// at most concurrency closes at once. Counts cover the closes that finished;
// the first store error stops new closes from starting.
func (s *ledgerService) ReconcileAll(ctx context.Context, m month.Month, concurrency int) (*ReconcileAllResult, error) {
	if m.IsZero() {
		return nil, apperrors.ErrInvalidMonth
	}
	if concurrency < 1 {
		concurrency = 1
	}

	var owners []string
	if err := s.db.WithContext(ctx).Model(&models.IncomePeriod{}).
		Where("month = ?", m.String()).
		Order("user_id").
		Pluck("user_id", &owners).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	var written, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, owner := range owners {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.ReconcileMonth(gctx, owner, m)
			if err != nil {
				return err
			}
			if res.Written {
				written.Add(1)
			} else {
				skipped.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()

	result := &ReconcileAllResult{
		Owners:  len(owners),
		Written: int(written.Load()),
		Skipped: int(skipped.Load()),
	}
	logger.Named("ledger").Infow("batch month close finished", "month", m.String(),
		"owners", result.Owners, "written", result.Written, "skipped", result.Skipped)

	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.Wrap(apperrors.ErrStore, err)
		}
		return result, err
	}
	return result, nil
}
