package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paisatrack/paisatrack/internal/domain/record"
	"github.com/paisatrack/paisatrack/internal/observability"
)

type IncomesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewIncomesRepo(pool *pgxpool.Pool, prom *observability.Prom) *IncomesRepo {
	return &IncomesRepo{pool: pool, prom: prom}
}

func (r *IncomesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *IncomesRepo) List(ctx context.Context, userID string) ([]record.Income, error) {
	out := make([]record.Income, 0, 16)

	err := r.observe("incomes.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, user_id, amount, source, description, date, created_at
			 FROM incomes
			 WHERE user_id = $1
			 ORDER BY date DESC, created_at DESC`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var in record.Income

			err = rows.Scan(&in.ID, &in.UserID, &in.Amount, &in.Source, &in.Description, &in.Date, &in.CreatedAt)

			if err != nil {
				return err
			}

			out = append(out, in)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *IncomesRepo) Create(ctx context.Context, userID string, req record.CreateIncomeRequest) (record.Income, error) {
	in := record.NewIncomeFromCreateRequest(userID, req)

	err := r.observe("incomes.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO incomes (id, user_id, amount, source, description, date, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			in.ID, in.UserID, in.Amount, in.Source, in.Description, in.Date, in.CreatedAt,
		)
		return err
	})

	if err != nil {
		return record.Income{}, err
	}

	return in, nil
}

func (r *IncomesRepo) Delete(ctx context.Context, userID, id string) error {
	var affected int64

	err := r.observe("incomes.delete", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM incomes WHERE id = $1 AND user_id = $2`,
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
