package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paisatrack/paisatrack/internal/domain/record"
	"github.com/paisatrack/paisatrack/internal/observability"
	"github.com/shopspring/decimal"
)

type SummaryRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewSummaryRepo(pool *pgxpool.Pool, prom *observability.Prom) *SummaryRepo {
	return &SummaryRepo{pool: pool, prom: prom}
}

func (r *SummaryRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// TotalsForUser derives the balance from the authoritative record store.
func (r *SummaryRepo) TotalsForUser(ctx context.Context, userID string) (record.Summary, error) {
	var totalIncome, totalExpenses decimal.Decimal

	err := r.observe("summary.totals", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT
				COALESCE((SELECT SUM(amount) FROM incomes  WHERE user_id = $1), 0),
				COALESCE((SELECT SUM(amount) FROM expenses WHERE user_id = $1), 0)`,
			userID,
		).Scan(&totalIncome, &totalExpenses)
	})

	if err != nil {
		return record.Summary{}, err
	}

	return record.NewSummary(totalIncome, totalExpenses), nil
}
