package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/membership-pass/internal/domain"
)

// BMIRepository persists BMI measurements.
type BMIRepository interface {
	Create(ctx context.Context, record *domain.BMIRecord) error
	ListByMember(ctx context.Context, memberID string, limit int) ([]domain.BMIRecord, error)
}

type bmiRepository struct {
	pool *pgxpool.Pool
}

// NewBMIRepository returns a Postgres-backed implementation.
func NewBMIRepository(pool *pgxpool.Pool) BMIRepository {
	return &bmiRepository{pool: pool}
}

func (r *bmiRepository) Create(ctx context.Context, record *domain.BMIRecord) error {
	if r.pool == nil {
		return ErrStoreUnavailable
	}
	const query = `
        INSERT INTO bmi_records (user_id, weight, height, bmi, unit_system, notes)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id::text, created_at`

	return r.pool.QueryRow(ctx, query,
		record.MemberID,
		record.Weight,
		record.Height,
		record.BMI,
		record.UnitSystem,
		record.Notes,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *bmiRepository) ListByMember(ctx context.Context, memberID string, limit int) ([]domain.BMIRecord, error) {
	if r.pool == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id::text, user_id::text, weight, height, bmi, unit_system, notes, created_at
        FROM bmi_records WHERE user_id=$1
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, memberID, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.BMIRecord, error) {
		var rec domain.BMIRecord
		err := row.Scan(
			&rec.ID,
			&rec.MemberID,
			&rec.Weight,
			&rec.Height,
			&rec.BMI,
			&rec.UnitSystem,
			&rec.Notes,
			&rec.CreatedAt,
		)
		return rec, err
	})
}
