package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/domain/record"
	"github.com/paisatrack/paisatrack/internal/http/handlers"
	"github.com/paisatrack/paisatrack/internal/http/middlewares"
)

type fakeSummarySource struct {
	calls   int
	summary record.Summary
	err     error
}

func (f *fakeSummarySource) TotalsForUser(ctx context.Context, userID string) (record.Summary, error) {
	f.calls++

	if f.err != nil {
		return record.Summary{}, f.err
	}

	return f.summary, nil
}

func newSummaryRouter(source handlers.SummarySource, cache handlers.SummaryCache) (*gin.Engine, *auth.Manager) {
	jwtManager := auth.NewManager("test-secret", time.Hour)
	authMw := middlewares.NewAuthMiddleware(jwtManager)

	r := gin.New()
	r.GET("/summary", authMw.RequireAuth(), handlers.NewSummaryHandler(source, cache).Get)

	return r, jwtManager
}

func TestSummary_Get(t *testing.T) {
	source := &fakeSummarySource{
		summary: record.NewSummary(decimal.NewFromInt(3000), decimal.NewFromInt(1250)),
	}

	r, jwtManager := newSummaryRouter(source, nil)

	token, err := jwtManager.GenerateToken("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/summary", "", map[string]string{
		"Authorization": "Bearer " + token,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}

	summary, _ := decodeBody(t, w)["summary"].(map[string]any)

	if summary["totalIncome"] != float64(3000) {
		t.Fatalf("totalIncome = %v", summary["totalIncome"])
	}

	if summary["totalExpenses"] != float64(1250) {
		t.Fatalf("totalExpenses = %v", summary["totalExpenses"])
	}

	if summary["balance"] != float64(1750) {
		t.Fatalf("balance = %v", summary["balance"])
	}
}

func TestSummary_Unauthorized(t *testing.T) {
	r, _ := newSummaryRouter(&fakeSummarySource{}, nil)

	w := doJSON(t, r, http.MethodGet, "/summary", "", nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestSummary_SourceError(t *testing.T) {
	source := &fakeSummarySource{err: errors.New("boom")}
	r, jwtManager := newSummaryRouter(source, nil)

	token, _ := jwtManager.GenerateToken("user-1", "a@b.com")

	w := doJSON(t, r, http.MethodGet, "/summary", "", map[string]string{
		"Authorization": "Bearer " + token,
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	if body := decodeBody(t, w); body["error"] != "Server error" {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestSummary_CacheHitSkipsSource(t *testing.T) {
	source := &fakeSummarySource{
		summary: record.NewSummary(decimal.NewFromInt(100), decimal.NewFromInt(40)),
	}

	cache := handlers.NewMemorySummaryCache(time.Minute)
	r, jwtManager := newSummaryRouter(source, cache)

	token, _ := jwtManager.GenerateToken("user-1", "a@b.com")
	headers := map[string]string{"Authorization": "Bearer " + token}

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodGet, "/summary", "", headers)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d on request %d", w.Code, i)
		}
	}

	if source.calls != 1 {
		t.Fatalf("source called %d times, want 1 (cache should serve repeats)", source.calls)
	}

	// invalidation forces a recompute
	cache.Invalidate(context.Background(), "user-1")

	w := doJSON(t, r, http.MethodGet, "/summary", "", headers)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d after invalidate", w.Code)
	}

	if source.calls != 2 {
		t.Fatalf("source called %d times after invalidate, want 2", source.calls)
	}
}
