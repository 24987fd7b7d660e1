package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/month"
	"github.com/Gowsikakho/expense-track/internal/services"
)

// PipelineHandler serves scheduler-facing endpoints guarded by an API key.
type PipelineHandler struct {
	ledgerService services.LedgerServicer
	concurrency   int
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(ledgerService services.LedgerServicer, concurrency int) *PipelineHandler {
	return &PipelineHandler{ledgerService: ledgerService, concurrency: concurrency}
}

// ReconcileRequest selects the month to close. An empty month closes the
// previous calendar month.
type ReconcileRequest struct {
	Month string `json:"month" binding:"omitempty,month" example:"2024-03"`
}

// ReconcileAll closes a month for every user with income recorded for it.
// @Summary     Close a month for all users
// @Description Reconcile the month for every user holding an income record for it; safe to repeat
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key  header   string                      true "Pipeline API key"
// @Param       request    body     ReconcileRequest            false "Month to close"
// @Success     200        {object} services.ReconcileAllResult "Batch counts"
// @Failure     400        {object} ErrorResponse               "Invalid month"
// @Failure     401        {object} ErrorResponse               "Invalid API key"
// @Failure     500        {object} ErrorResponse               "Server error"
// @Failure     503        {object} ErrorResponse               "Pipeline not configured"
// @Router      /pipeline/reconcile [post]
func (h *PipelineHandler) ReconcileAll(c *gin.Context) {
	var req ReconcileRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	m := month.Current().Prev()
	if req.Month != "" {
		var err error
		if m, err = parseMonth(req.Month, false); err != nil {
			respondWithError(c, err)
			return
		}
	}

	result, err := h.ledgerService.ReconcileAll(c.Request.Context(), m, h.concurrency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": m, "result": result})
}
