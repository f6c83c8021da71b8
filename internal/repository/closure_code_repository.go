package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/ticketflow/internal/domain"
)

// ClosureCodeRepository resolves closure codes.
type ClosureCodeRepository interface {
	GetActive(ctx context.Context, id string) (*domain.ClosureCode, error)
	ListActive(ctx context.Context) ([]domain.ClosureCode, error)
}

type closureCodeRepository struct {
	pool *pgxpool.Pool
}

// NewClosureCodeRepository builds the repository.
func NewClosureCodeRepository(pool *pgxpool.Pool) ClosureCodeRepository {
	return &closureCodeRepository{pool: pool}
}

func (r *closureCodeRepository) GetActive(ctx context.Context, id string) (*domain.ClosureCode, error) {
	const query = `
        SELECT id, code, COALESCE(description, ''), is_active, created_at, updated_at
        FROM closure_codes WHERE id=$1 AND is_active=TRUE`
	var code domain.ClosureCode
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&code.ID,
		&code.Code,
		&code.Description,
		&code.IsActive,
		&code.CreatedAt,
		&code.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *closureCodeRepository) ListActive(ctx context.Context) ([]domain.ClosureCode, error) {
	const query = `
        SELECT id, code, COALESCE(description, ''), is_active, created_at, updated_at
        FROM closure_codes WHERE is_active=TRUE ORDER BY code`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClosureCode
	for rows.Next() {
		var code domain.ClosureCode
		if err := rows.Scan(&code.ID, &code.Code, &code.Description, &code.IsActive, &code.CreatedAt, &code.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, code)
	}
	return result, rows.Err()
}
