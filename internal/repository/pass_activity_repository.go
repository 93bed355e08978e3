package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	passActivityPrefix = "pass:last_view:"
	passActivityTTL    = 90 * 24 * time.Hour
)

// PassActivityRepository remembers when a member last opened their pass.
type PassActivityRepository interface {
	RecordView(ctx context.Context, memberID string, at time.Time) error
	LastView(ctx context.Context, memberID string) (*time.Time, error)
}

type passActivityRepository struct {
	client *redis.Client
}

// NewPassActivityRepository returns a Redis-backed implementation.
func NewPassActivityRepository(client *redis.Client) PassActivityRepository {
	return &passActivityRepository{client: client}
}

func (r *passActivityRepository) RecordView(ctx context.Context, memberID string, at time.Time) error {
	if r.client == nil {
		return ErrStoreUnavailable
	}
	return r.client.Set(ctx, passActivityPrefix+memberID, at.UTC().Format(time.RFC3339Nano), passActivityTTL).Err()
}

// LastView returns nil when the member has no recorded view.
func (r *passActivityRepository) LastView(ctx context.Context, memberID string) (*time.Time, error) {
	if r.client == nil {
		return nil, ErrStoreUnavailable
	}
	raw, err := r.client.Get(ctx, passActivityPrefix+memberID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, nil
	}
	return &at, nil
}
