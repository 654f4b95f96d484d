package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/config"
	"github.com/paisatrack/paisatrack/internal/http/handlers"
	"github.com/paisatrack/paisatrack/internal/http/middlewares"
	"github.com/paisatrack/paisatrack/internal/observability"
	"github.com/paisatrack/paisatrack/internal/queue/redisclient"
	"github.com/paisatrack/paisatrack/internal/repo/postgres"
)

// NewRouter wires the full API surface: auth, records, summary, health and
// metrics. redisCl may be nil; the summary cache then runs in-process.
func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, redisCl *redisclient.Client) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("paisatrack-api"))
	r.Use(prom.GinHandleMiddleware())

	// health
	pingDB := func(ctx context.Context) error {
		if pool == nil {
			return nil
		}

		return pool.Ping(ctx)
	}

	var pingRedis func(ctx context.Context) error

	if redisCl != nil {
		pingRedis = redisCl.Ping
	}

	healthHandler := handlers.NewHealthHandler(pingDB, pingRedis)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	expensesRepo := postgres.NewExpensesRepo(pool, prom)
	incomesRepo := postgres.NewIncomesRepo(pool, prom)
	summaryRepo := postgres.NewSummaryRepo(pool, prom)
	jobsRepo := postgres.NewJobsRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL())
	authMw := middlewares.NewAuthMiddleware(jwtManager)

	var summaryCache handlers.SummaryCache

	if redisCl != nil {
		summaryCache = handlers.NewRedisSummaryCache(redisCl, cfg.SummaryCacheTTL)
	} else {
		summaryCache = handlers.NewMemorySummaryCache(cfg.SummaryCacheTTL)
	}

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager, jobsRepo)
	expensesHandler := handlers.NewExpensesHandler(expensesRepo, jobsRepo, summaryCache, cfg.LargeTxnThreshold)
	incomesHandler := handlers.NewIncomesHandler(incomesRepo, summaryCache)
	summaryHandler := handlers.NewSummaryHandler(summaryRepo, summaryCache)

	// credential endpoints get a tighter per-IP limit
	loginLimiter := middlewares.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)

	authGroup := r.Group("/auth")
	authGroup.Use(loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/signup", authHandler.SignUp)
	}

	apiLimiter := middlewares.NewRateLimiter(cfg.APIRateLimit, cfg.APIRateWindow)

	protected := r.Group("/")
	protected.Use(authMw.RequireAuth())
	protected.Use(apiLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))
	{
		protected.GET("/expenses", expensesHandler.List)
		protected.POST("/expenses", expensesHandler.Create)
		protected.DELETE("/expenses", expensesHandler.Delete)

		protected.GET("/income", incomesHandler.List)
		protected.POST("/income", incomesHandler.Create)
		protected.DELETE("/income", incomesHandler.Delete)

		protected.GET("/summary", summaryHandler.Get)
	}

	return r
}
