package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Env   string
	Port  int
	DBURL string

	// Token signing
	JWTSecret    string
	TokenTTLDays int

	// Redis (optional; summary cache falls back to in-process when empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Seeded demo account (skipped when email/password empty)
	DemoEmail    string
	DemoPassword string
	DemoName     string

	// HTTP surface
	CORSAllowedOrigins []string
	MaxBodyBytes       int64
	LoginRateLimit     int
	LoginRateWindow    time.Duration
	APIRateLimit       int
	APIRateWindow      time.Duration

	// Expense amounts at or above this enqueue a large-transaction alert.
	LargeTxnThreshold decimal.Decimal

	SummaryCacheTTL time.Duration

	// Tracing (disabled when empty)
	OTLPEndpoint string
}

func Load() Config {
	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	dbURL := buildDBURL()

	return Config{
		Env:   env,
		Port:  port,
		DBURL: dbURL,

		JWTSecret:    getEnv("JWT_SECRET", "change_this_secret"),
		TokenTTLDays: getEnvInt("TOKEN_TTL_DAYS", 7),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		DemoEmail:    getEnv("DEMO_EMAIL", ""),
		DemoPassword: getEnv("DEMO_PASSWORD", ""),
		DemoName:     getEnv("DEMO_NAME", "Demo User"),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		LoginRateLimit:     getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:    getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		APIRateLimit:       getEnvInt("API_RATE_LIMIT", 120),
		APIRateWindow:      getEnvDuration("API_RATE_WINDOW", time.Minute),

		LargeTxnThreshold: getEnvDecimal("LARGE_TXN_THRESHOLD", "5000"),

		SummaryCacheTTL: getEnvDuration("SUMMARY_CACHE_TTL", 30*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "paisatrack")
	pass := getEnv("DB_PASSWORD", "paisatrack")
	name := getEnv("DB_NAME", "paisatrack")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLDays) * 24 * time.Hour
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	raw := getEnv(key, fallback)

	d, err := decimal.NewFromString(raw)

	if err != nil {
		d, _ = decimal.NewFromString(fallback)
	}

	return d
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
