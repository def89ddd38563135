// Package refdata resolves slow-moving reference data for the engine,
// currently the excluded-cost employee code set.
package refdata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines data access for reference data.
type RepositoryPort interface {
	// ExcludedCostCodes lists employee codes whose cost figures are zeroed
	// during aggregation.
	ExcludedCostCodes(ctx context.Context) ([]string, error)
}

// Repository provides PostgreSQL backed reference data.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ExcludedCostCodes lists the codes of the excluded-cost partner category.
func (r *Repository) ExcludedCostCodes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT code FROM employees WHERE cost_excluded = TRUE ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("refdata: excluded cost codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("refdata: scan code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("refdata: excluded cost codes: %w", err)
	}
	return codes, nil
}
