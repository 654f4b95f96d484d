package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paisatrack/paisatrack/internal/config"
	"github.com/paisatrack/paisatrack/internal/domain/record"
	"github.com/paisatrack/paisatrack/internal/http/middlewares"
)

type SummarySource interface {
	TotalsForUser(ctx context.Context, userID string) (record.Summary, error)
}

// SummaryCache caches computed summaries per user.
type SummaryCache interface {
	SummaryInvalidator
	Get(ctx context.Context, userID string) (record.Summary, bool)
	Set(ctx context.Context, userID string, s record.Summary)
}

type SummaryHandler struct {
	source SummarySource
	cache  SummaryCache // nil disables caching
}

func NewSummaryHandler(source SummarySource, cache SummaryCache) *SummaryHandler {
	return &SummaryHandler{
		source: source,
		cache:  cache,
	}
}

func (h *SummaryHandler) Get(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Unauthorized")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if h.cache != nil {
		if s, hit := h.cache.Get(cctx, userID); hit {
			ctx.JSON(http.StatusOK, gin.H{"summary": s})
			return
		}
	}

	summary, err := h.source.TotalsForUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	if h.cache != nil {
		h.cache.Set(cctx, userID, summary)
	}

	ctx.JSON(http.StatusOK, gin.H{"summary": summary})
}
