package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/paisatrack/internal/config"
	"github.com/paisatrack/paisatrack/internal/domain/job"
	"github.com/paisatrack/paisatrack/internal/domain/record"
	"github.com/paisatrack/paisatrack/internal/http/middlewares"
	"github.com/paisatrack/paisatrack/internal/jobs"
	"github.com/paisatrack/paisatrack/internal/repo/postgres"
)

type ExpensesStore interface {
	List(ctx context.Context, userID string) ([]record.Expense, error)
	Create(ctx context.Context, userID string, req record.CreateExpenseRequest) (record.Expense, error)
	Delete(ctx context.Context, userID, id string) error
}

// SummaryInvalidator drops any cached summary for a user after a write.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type ExpensesHandler struct {
	store     ExpensesStore
	jobsRepo  JobsEnqueuer
	summaries SummaryInvalidator
	threshold decimal.Decimal
}

func NewExpensesHandler(store ExpensesStore, jobsRepo JobsEnqueuer, summaries SummaryInvalidator, largeTxnThreshold decimal.Decimal) *ExpensesHandler {
	return &ExpensesHandler{
		store:     store,
		jobsRepo:  jobsRepo,
		summaries: summaries,
		threshold: largeTxnThreshold,
	}
}

func (h *ExpensesHandler) List(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Unauthorized")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	expenses, err := h.store.List(cctx, userID)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func (h *ExpensesHandler) Create(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Unauthorized")
		return
	}

	var req record.CreateExpenseRequest

	if !BindJSON(ctx, &req, "Missing amount or category") {
		return
	}

	if err := req.Validate(); err != nil {
		if errors.Is(err, record.ErrNonPositiveAmount) {
			RespondBadRequest(ctx, "Amount must be positive")
			return
		}

		RespondBadRequest(ctx, "Missing amount or category")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	expense, err := h.store.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	if h.summaries != nil {
		h.summaries.Invalidate(cctx, userID)
	}

	h.maybeAlertLargeTxn(cctx, ctx, expense)

	ctx.JSON(http.StatusCreated, gin.H{"expense": expense})
}

func (h *ExpensesHandler) Delete(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Unauthorized")
		return
	}

	id := ctx.Query("id")

	if id == "" {
		RespondBadRequest(ctx, "Missing expense id")
		return
	}

	// ids are UUIDs; anything else can't exist
	if _, err := uuid.Parse(id); err != nil {
		RespondNotFound(ctx, "Expense not found")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, userID, id)

	if err != nil {
		// a record owned by someone else looks exactly like a missing one
		if errors.Is(err, record.ErrNotFound) {
			RespondNotFound(ctx, "Expense not found")
			return
		}

		RespondInternal(ctx)
		return
	}

	if h.summaries != nil {
		h.summaries.Invalidate(cctx, userID)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// maybeAlertLargeTxn enqueues an alert for expenses at or above the configured
// threshold. Enqueue failures never fail the create.
func (h *ExpensesHandler) maybeAlertLargeTxn(ctx context.Context, ginCtx *gin.Context, expense record.Expense) {
	if h.jobsRepo == nil || expense.Amount.LessThan(h.threshold) {
		return
	}

	email, _ := middlewares.EmailFromContext(ginCtx)

	payload := jobs.LargeTxnAlertPayload{
		UserID:      expense.UserID,
		Email:       email,
		ExpenseID:   expense.ID,
		Amount:      expense.Amount,
		Category:    expense.Category,
		RequestedAt: time.Now().UTC(),
	}

	raw, err := jobs.EncodePayload(jobs.JobLargeTxnAlert, payload)

	if err != nil {
		return
	}

	key := "large_txn:" + expense.ID

	_, err = h.jobsRepo.Create(ctx, job.CreateRequest{
		Type:           string(jobs.JobLargeTxnAlert),
		Payload:        raw,
		IdempotencyKey: &key,
	})

	if err != nil && !postgres.IsUniqueViolation(err) {
		return
	}
}
