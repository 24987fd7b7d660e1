package services

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/money"
)

// normalizeAmount rounds d to the stored scale and bounds it to what the
// amount columns hold. Sign rules are checked by callers on the result.
func normalizeAmount(d decimal.Decimal) (decimal.Decimal, error) {
	n, err := money.Normalize(d)
	if err != nil {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidAmount,
			"amount must not exceed "+money.Max.StringFixed(money.Scale))
	}
	return n, nil
}
