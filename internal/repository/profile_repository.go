package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRecord is a profiles row as the managed database returns it.
// Every column may be null and timestamps arrive as text; callers map it
// into a domain.MemberProfile before use.
type ProfileRecord struct {
	ID               string
	DisplayName      *string
	FirstName        *string
	Role             *string
	MembershipStatus *string
	MembershipType   *string
	MembershipSince  *string
	MembershipExpiry *string
	LastVisit        *string
}

// ProfileRepository reads member profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*ProfileRecord, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*ProfileRecord, error) {
	if r.pool == nil {
		return nil, ErrStoreUnavailable
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, pgx.ErrNoRows
	}

	const query = `
        SELECT id::text, display_name, first_name, role::text, membership_status, membership_type,
            membership_since::text, membership_expiry::text, last_visit::text
        FROM profiles WHERE id=$1`

	var rec ProfileRecord
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.DisplayName,
		&rec.FirstName,
		&rec.Role,
		&rec.MembershipStatus,
		&rec.MembershipType,
		&rec.MembershipSince,
		&rec.MembershipExpiry,
		&rec.LastVisit,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
