package service

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/pass"
	"github.com/spec-kit/membership-pass/internal/repository"
)

const testMemberID = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func nopLogger() *zap.Logger { return zap.NewNop() }

type fakeProfileRepo struct {
	mu      sync.Mutex
	records map[string]*repository.ProfileRecord
	err     error
	calls   int
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*repository.ProfileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *rec
	return &copied, nil
}

func profileWith(status, expiry *string) *fakeProfileRepo {
	return &fakeProfileRepo{records: map[string]*repository.ProfileRecord{
		testMemberID: {
			ID:               testMemberID,
			DisplayName:      strPtr("Jordan"),
			MembershipStatus: status,
			MembershipExpiry: expiry,
		},
	}}
}

type fakeActivityRepo struct {
	mu    sync.Mutex
	views map[string]time.Time
	err   error
}

func (f *fakeActivityRepo) RecordView(_ context.Context, memberID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.views == nil {
		f.views = make(map[string]time.Time)
	}
	f.views[memberID] = at
	return nil
}

func (f *fakeActivityRepo) LastView(_ context.Context, memberID string) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	at, ok := f.views[memberID]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

type fakeBMIRepo struct {
	records []domain.BMIRecord
	err     error
}

func (f *fakeBMIRepo) Create(_ context.Context, record *domain.BMIRecord) error {
	if f.err != nil {
		return f.err
	}
	record.ID = "rec-" + strconv.Itoa(len(f.records)+1)
	record.CreatedAt = testNow
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeBMIRepo) ListByMember(_ context.Context, memberID string, limit int) ([]domain.BMIRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.BMIRecord
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].MemberID == memberID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

// tickerPool hands out a fresh manual ticker per rotation.
type tickerPool struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (p *tickerPool) factory(time.Duration) pass.Ticker {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time, 8)}
	p.tickers = append(p.tickers, t)
	return t
}

func (p *tickerPool) last() *manualTicker {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tickers) == 0 {
		return nil
	}
	return p.tickers[len(p.tickers)-1]
}

func (p *tickerPool) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tickers)
}
