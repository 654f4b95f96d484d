package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/paisatrack/paisatrack/internal/config"
	"github.com/paisatrack/paisatrack/internal/domain/record"
	"github.com/paisatrack/paisatrack/internal/http/middlewares"
)

type IncomesStore interface {
	List(ctx context.Context, userID string) ([]record.Income, error)
	Create(ctx context.Context, userID string, req record.CreateIncomeRequest) (record.Income, error)
	Delete(ctx context.Context, userID, id string) error
}

type IncomesHandler struct {
	store     IncomesStore
	summaries SummaryInvalidator
}

func NewIncomesHandler(store IncomesStore, summaries SummaryInvalidator) *IncomesHandler {
	return &IncomesHandler{
		store:     store,
		summaries: summaries,
	}
}

func (h *IncomesHandler) List(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Unauthorized")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	incomes, err := h.store.List(cctx, userID)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"incomes": incomes})
}

func (h *IncomesHandler) Create(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Unauthorized")
		return
	}

	var req record.CreateIncomeRequest

	if !BindJSON(ctx, &req, "Missing amount or source") {
		return
	}

	if err := req.Validate(); err != nil {
		if errors.Is(err, record.ErrNonPositiveAmount) {
			RespondBadRequest(ctx, "Amount must be positive")
			return
		}

		RespondBadRequest(ctx, "Missing amount or source")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	income, err := h.store.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	if h.summaries != nil {
		h.summaries.Invalidate(cctx, userID)
	}

	ctx.JSON(http.StatusCreated, gin.H{"income": income})
}

func (h *IncomesHandler) Delete(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Unauthorized")
		return
	}

	id := ctx.Query("id")

	if id == "" {
		RespondBadRequest(ctx, "Missing income id")
		return
	}

	if _, err := uuid.Parse(id); err != nil {
		RespondNotFound(ctx, "Income not found")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, userID, id)

	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			RespondNotFound(ctx, "Income not found")
			return
		}

		RespondInternal(ctx)
		return
	}

	if h.summaries != nil {
		h.summaries.Invalidate(cctx, userID)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Income deleted"})
}
