package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paisatrack/paisatrack/internal/domain/record"
	"github.com/paisatrack/paisatrack/internal/observability"
)

type ExpensesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewExpensesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ExpensesRepo {
	return &ExpensesRepo{pool: pool, prom: prom}
}

func (r *ExpensesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// List returns all of userID's expenses, newest date first. Never another
// user's rows.
func (r *ExpensesRepo) List(ctx context.Context, userID string) ([]record.Expense, error) {
	out := make([]record.Expense, 0, 16)

	err := r.observe("expenses.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, user_id, amount, category, description, date, created_at
			 FROM expenses
			 WHERE user_id = $1
			 ORDER BY date DESC, created_at DESC`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var e record.Expense

			err = rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.Date, &e.CreatedAt)

			if err != nil {
				return err
			}

			out = append(out, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *ExpensesRepo) Create(ctx context.Context, userID string, req record.CreateExpenseRequest) (record.Expense, error) {
	e := record.NewExpenseFromCreateRequest(userID, req)

	err := r.observe("expenses.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO expenses (id, user_id, amount, category, description, date, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			e.ID, e.UserID, e.Amount, e.Category, e.Description, e.Date, e.CreatedAt,
		)
		return err
	})

	if err != nil {
		return record.Expense{}, err
	}

	return e, nil
}

// Delete removes the row only when it belongs to userID. A missing row and a
// row owned by someone else are indistinguishable to the caller.
func (r *ExpensesRepo) Delete(ctx context.Context, userID, id string) error {
	var affected int64

	err := r.observe("expenses.delete", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM expenses WHERE id = $1 AND user_id = $2`,
			id, userID,
		)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return record.ErrNotFound
	}

	return nil
}
