package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/domain/record"
	"github.com/paisatrack/paisatrack/internal/http/handlers"
	"github.com/paisatrack/paisatrack/internal/http/middlewares"
	"github.com/paisatrack/paisatrack/internal/repo/memory"
)

// recordsTestEnv wires the records API the way the router does: real token
// verification, in-memory stores.

type recordsTestEnv struct {
	router   *gin.Engine
	jwt      *auth.Manager
	expenses *memory.ExpensesRepo
	incomes  *memory.IncomesRepo
	jobsRepo *fakeJobsRepo
	cache    handlers.SummaryCache
}

func newRecordsTestEnv(t *testing.T) *recordsTestEnv {
	t.Helper()

	jwtManager := auth.NewManager("test-secret", time.Hour)
	expensesRepo := memory.NewExpensesRepo()
	incomesRepo := memory.NewIncomesRepo()
	jobsRepo := &fakeJobsRepo{}
	summaryCache := handlers.NewMemorySummaryCache(time.Minute)

	threshold := decimal.NewFromInt(5000)

	expensesHandler := handlers.NewExpensesHandler(expensesRepo, jobsRepo, summaryCache, threshold)
	incomesHandler := handlers.NewIncomesHandler(incomesRepo, summaryCache)

	authMw := middlewares.NewAuthMiddleware(jwtManager)

	r := gin.New()

	protected := r.Group("/")
	protected.Use(authMw.RequireAuth())
	{
		protected.GET("/expenses", expensesHandler.List)
		protected.POST("/expenses", expensesHandler.Create)
		protected.DELETE("/expenses", expensesHandler.Delete)

		protected.GET("/income", incomesHandler.List)
		protected.POST("/income", incomesHandler.Create)
		protected.DELETE("/income", incomesHandler.Delete)
	}

	return &recordsTestEnv{
		router:   r,
		jwt:      jwtManager,
		expenses: expensesRepo,
		incomes:  incomesRepo,
		jobsRepo: jobsRepo,
		cache:    summaryCache,
	}
}

func (e *recordsTestEnv) bearer(t *testing.T, userID, email string) map[string]string {
	t.Helper()

	token, err := e.jwt.GenerateToken(userID, email)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	return map[string]string{"Authorization": "Bearer " + token}
}

func TestExpenses_RequireAuth(t *testing.T) {
	env := newRecordsTestEnv(t)

	w := doJSON(t, env.router, http.MethodGet, "/expenses", "", nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	if body := decodeBody(t, w); body["error"] != "Unauthorized" {
		t.Fatalf("error = %v, want Unauthorized", body["error"])
	}
}

func TestExpenses_InvalidToken(t *testing.T) {
	env := newRecordsTestEnv(t)

	w := doJSON(t, env.router, http.MethodGet, "/expenses", "", map[string]string{
		"Authorization": "Bearer not-a-real-token",
	})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	if body := decodeBody(t, w); body["error"] != "Invalid token" {
		t.Fatalf("error = %v, want Invalid token", body["error"])
	}
}

func TestExpenses_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "success",
			body:       `{"amount": 100, "category": "Food"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing amount",
			body:       `{"category": "Food"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing amount or category",
		},
		{
			name:       "missing category",
			body:       `{"amount": 10}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing amount or category",
		},
		{
			name:       "blank category",
			body:       `{"amount": 10, "category": "   "}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing amount or category",
		},
		{
			name:       "zero amount",
			body:       `{"amount": 0, "category": "Food"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Amount must be positive",
		},
		{
			name:       "negative amount",
			body:       `{"amount": -5, "category": "Food"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Amount must be positive",
		},
		{
			name:       "unparseable amount",
			body:       `{"amount": "NaN", "category": "Food"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing amount or category",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newRecordsTestEnv(t)
			headers := env.bearer(t, "user-1", "a@b.com")

			w := doJSON(t, env.router, http.MethodPost, "/expenses", tc.body, headers)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.wantStatus, w.Body.String())
			}

			body := decodeBody(t, w)

			if tc.wantError != "" {
				if body["error"] != tc.wantError {
					t.Fatalf("error = %v, want %q", body["error"], tc.wantError)
				}
				return
			}

			expense, _ := body["expense"].(map[string]any)

			if expense == nil {
				t.Fatalf("missing expense in response: %s", w.Body.String())
			}

			// amounts serialize as JSON numbers, not strings
			if expense["amount"] != float64(100) {
				t.Fatalf("expense.amount = %v (%T), want 100", expense["amount"], expense["amount"])
			}

			if expense["category"] != "Food" {
				t.Fatalf("expense.category = %v, want Food", expense["category"])
			}

			if expense["userId"] != "user-1" {
				t.Fatalf("expense.userId = %v, want user-1", expense["userId"])
			}
		})
	}
}

func TestExpenses_ListScopedAndSorted(t *testing.T) {
	env := newRecordsTestEnv(t)

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mustCreateExpense(t, env.expenses, "user-1", "50", "Rent", &older)
	mustCreateExpense(t, env.expenses, "user-1", "20", "Food", &newer)
	mustCreateExpense(t, env.expenses, "user-2", "999", "Travel", &newer)

	w := doJSON(t, env.router, http.MethodGet, "/expenses", "", env.bearer(t, "user-1", "a@b.com"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	list, _ := body["expenses"].([]any)

	if len(list) != 2 {
		t.Fatalf("expected 2 expenses for user-1, got %d", len(list))
	}

	first, _ := list[0].(map[string]any)
	second, _ := list[1].(map[string]any)

	if first["category"] != "Food" || second["category"] != "Rent" {
		t.Fatalf("expected newest-first ordering, got %v then %v", first["category"], second["category"])
	}
}

func TestExpenses_Delete(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		env := newRecordsTestEnv(t)
		e := mustCreateExpense(t, env.expenses, "user-1", "10", "Food", nil)

		w := doJSON(t, env.router, http.MethodDelete, "/expenses?id="+e.ID, "", env.bearer(t, "user-1", "a@b.com"))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}

		if body := decodeBody(t, w); body["message"] != "Expense deleted" {
			t.Fatalf("message = %v", body["message"])
		}

		left, _ := env.expenses.List(context.Background(), "user-1")

		if len(left) != 0 {
			t.Fatalf("expense not deleted, %d left", len(left))
		}
	})

	t.Run("missing id", func(t *testing.T) {
		env := newRecordsTestEnv(t)

		w := doJSON(t, env.router, http.MethodDelete, "/expenses", "", env.bearer(t, "user-1", "a@b.com"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}

		if body := decodeBody(t, w); body["error"] != "Missing expense id" {
			t.Fatalf("error = %v", body["error"])
		}
	})

	t.Run("someone else's expense looks missing", func(t *testing.T) {
		env := newRecordsTestEnv(t)
		e := mustCreateExpense(t, env.expenses, "user-1", "10", "Food", nil)

		w := doJSON(t, env.router, http.MethodDelete, "/expenses?id="+e.ID, "", env.bearer(t, "user-2", "x@b.com"))

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404 (body %s)", w.Code, w.Body.String())
		}

		if body := decodeBody(t, w); body["error"] != "Expense not found" {
			t.Fatalf("error = %v", body["error"])
		}

		// the record must survive the foreign delete attempt
		left, _ := env.expenses.List(context.Background(), "user-1")

		if len(left) != 1 {
			t.Fatalf("owner's expense vanished after foreign delete")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		env := newRecordsTestEnv(t)

		w := doJSON(t, env.router, http.MethodDelete, "/expenses?id=nope", "", env.bearer(t, "user-1", "a@b.com"))

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestExpenses_LargeTxnEnqueuesAlert(t *testing.T) {
	env := newRecordsTestEnv(t)
	headers := env.bearer(t, "user-1", "a@b.com")

	w := doJSON(t, env.router, http.MethodPost, "/expenses", `{"amount": 7000, "category": "Rent"}`, headers)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}

	if len(env.jobsRepo.created) != 1 {
		t.Fatalf("expected 1 alert job, got %d", len(env.jobsRepo.created))
	}

	if env.jobsRepo.created[0].Type != "large_txn.alert" {
		t.Fatalf("job type = %q", env.jobsRepo.created[0].Type)
	}

	// below threshold: no job
	w = doJSON(t, env.router, http.MethodPost, "/expenses", `{"amount": 100, "category": "Food"}`, headers)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	if len(env.jobsRepo.created) != 1 {
		t.Fatalf("small expense should not enqueue an alert, got %d jobs", len(env.jobsRepo.created))
	}
}

func mustCreateExpense(t *testing.T, repo *memory.ExpensesRepo, userID, amount, category string, date *time.Time) record.Expense {
	t.Helper()

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("bad amount %q: %v", amount, err)
	}

	e, err := repo.Create(context.Background(), userID, record.CreateExpenseRequest{
		Amount:   &amt,
		Category: category,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	return e
}
