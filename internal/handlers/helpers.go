package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/logger"
	"github.com/Gowsikakho/expense-track/internal/money"
	"github.com/Gowsikakho/expense-track/internal/month"
	"github.com/Gowsikakho/expense-track/internal/uuid"
	"github.com/Gowsikakho/expense-track/internal/validator"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString("userID")
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseMonth reads a "YYYY-MM" value. Empty input selects the current month
// when allowEmpty is set.
func parseMonth(raw string, allowEmpty bool) (month.Month, error) {
	if raw == "" && allowEmpty {
		return month.Current(), nil
	}
	m, err := month.Parse(raw)
	if err != nil {
		return month.Month{}, apperrors.ErrInvalidMonth
	}
	return m, nil
}

// parseAmount reads a JSON number or string as a money amount.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	d, err := money.FromJSON(raw)
	if errors.Is(err, money.ErrOutOfRange) {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidAmount,
			"amount must not exceed "+money.Max.StringFixed(money.Scale))
	}
	if err != nil {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount must be a decimal number")
	}
	return d, nil
}

// parseOptionalAmount is parseAmount for update payloads; an absent field yields nil.
func parseOptionalAmount(raw json.RawMessage) (*decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	d, err := parseAmount(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseDate reads a calendar date already checked by the calendar_date tag.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(validator.DateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
