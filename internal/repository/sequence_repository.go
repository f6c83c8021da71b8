package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepository issues per-date ticket sequence numbers. The upsert
// creates the row at next_value 2 and returns 1 on the first allocation of a
// date, then increments and returns the pre-increment value. Concurrent
// callers serialize on the single date row, so no two of them ever receive
// the same number.
type SequenceRepository interface {
	Allocate(ctx context.Context, tx pgx.Tx, date time.Time) (int, error)
}

type sequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository builds the repository.
func NewSequenceRepository(pool *pgxpool.Pool) SequenceRepository {
	return &sequenceRepository{pool: pool}
}

func (r *sequenceRepository) Allocate(ctx context.Context, tx pgx.Tx, date time.Time) (int, error) {
	const query = `
        INSERT INTO ticket_sequences (seq_date, next_value)
        VALUES ($1, 2)
        ON CONFLICT (seq_date) DO UPDATE
            SET next_value = ticket_sequences.next_value + 1
        RETURNING next_value - 1`
	var seq int
	if err := tx.QueryRow(ctx, query, date.Format("2006-01-02")).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}
