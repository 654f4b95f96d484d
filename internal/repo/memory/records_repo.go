package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/paisatrack/paisatrack/internal/domain/record"
)

// In-memory record stores with the same contract as the postgres repos.
// Used by handler tests; no persistence.

type ExpensesRepo struct {
	mu   sync.Mutex
	rows map[string]record.Expense
}

func NewExpensesRepo() *ExpensesRepo {
	return &ExpensesRepo{rows: make(map[string]record.Expense)}
}

func (r *ExpensesRepo) List(ctx context.Context, userID string) ([]record.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]record.Expense, 0, len(r.rows))

	for _, e := range r.rows {
		if e.UserID == userID {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *ExpensesRepo) Create(ctx context.Context, userID string, req record.CreateExpenseRequest) (record.Expense, error) {
	e := record.NewExpenseFromCreateRequest(userID, req)

	r.mu.Lock()
	r.rows[e.ID] = e
	r.mu.Unlock()

	return e, nil
}

func (r *ExpensesRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.rows[id]

	if !ok || e.UserID != userID {
		return record.ErrNotFound
	}

	delete(r.rows, id)
	return nil
}

type IncomesRepo struct {
	mu   sync.Mutex
	rows map[string]record.Income
}

func NewIncomesRepo() *IncomesRepo {
	return &IncomesRepo{rows: make(map[string]record.Income)}
}

func (r *IncomesRepo) List(ctx context.Context, userID string) ([]record.Income, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]record.Income, 0, len(r.rows))

	for _, in := range r.rows {
		if in.UserID == userID {
			out = append(out, in)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *IncomesRepo) Create(ctx context.Context, userID string, req record.CreateIncomeRequest) (record.Income, error) {
	in := record.NewIncomeFromCreateRequest(userID, req)

	r.mu.Lock()
	r.rows[in.ID] = in
	r.mu.Unlock()

	return in, nil
}

func (r *IncomesRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.rows[id]

	if !ok || in.UserID != userID {
		return record.ErrNotFound
	}

	delete(r.rows, id)
	return nil
}
