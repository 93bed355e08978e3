package pass

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the token regeneration cadence.
const DefaultInterval = time.Second

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Ticker is the subset of time.Ticker the rotator depends on.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker adapts time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Rotator regenerates a member's token on a fixed interval.
type Rotator struct {
	clock     Clock
	interval  time.Duration
	newTicker TickerFactory
}

// Option customizes a Rotator.
type Option func(*Rotator)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(r *Rotator) { r.clock = c }
}

// WithTicker overrides how tickers are created.
func WithTicker(f TickerFactory) Option {
	return func(r *Rotator) { r.newTicker = f }
}

// NewRotator builds a rotator. A non-positive interval falls back to DefaultInterval.
func NewRotator(interval time.Duration, opts ...Option) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Rotator{
		clock:     SystemClock(),
		interval:  interval,
		newTicker: NewTimeTicker,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interval returns the configured cadence.
func (r *Rotator) Interval() time.Duration {
	return r.interval
}

// Handle controls one running rotation. Stop must be called on teardown.
type Handle struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Stop ends the rotation. After Stop returns the sink is never called again.
// It is safe to call more than once.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// Done is closed once the rotation loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start emits a token for memberID immediately and then once per interval
// until the handle is stopped or ctx is cancelled.
func (r *Rotator) Start(ctx context.Context, memberID string, sink func(Token)) (*Handle, error) {
	first, err := Generate(memberID, r.clock.Now())
	if err != nil {
		return nil, err
	}

	h := &Handle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	ticker := r.newTicker(r.interval)
	sink(first)

	go func() {
		defer close(h.done)
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C():
				// a stop racing with a tick wins
				select {
				case <-h.stop:
					return
				default:
				}
				tok, err := Generate(memberID, r.clock.Now())
				if err != nil {
					return
				}
				sink(tok)
			}
		}
	}()
	return h, nil
}
