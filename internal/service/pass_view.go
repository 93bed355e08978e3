package service

import (
	"sync"
	"time"

	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/membership"
	"github.com/spec-kit/membership-pass/internal/pass"
)

// PassView is one activation of a member's pass. It moves from loading to
// active or inactive exactly once and owns the only displayed token.
type PassView struct {
	ID          string
	MemberID    string
	ActivatedAt time.Time

	mu      sync.RWMutex
	state   domain.PassState
	reason  domain.PassInactiveReason
	profile *domain.MemberProfile
	summary membership.Summary
	token   *pass.Token
	issued  int
	handle  *pass.Handle
	ttl     *time.Timer
	closed  bool

	updates   chan pass.Token
	done      chan struct{}
	closeOnce sync.Once
}

// PassSnapshot is a point-in-time copy of a view.
type PassSnapshot struct {
	ViewID       string
	State        domain.PassState
	Reason       domain.PassInactiveReason
	Profile      *domain.MemberProfile
	Summary      membership.Summary
	Token        *pass.Token
	TokensIssued int
	ActivatedAt  time.Time
}

func newPassView(id, memberID string, now time.Time) *PassView {
	return &PassView{
		ID:          id,
		MemberID:    memberID,
		ActivatedAt: now,
		state:       domain.PassStateLoading,
		updates:     make(chan pass.Token, 1),
		done:        make(chan struct{}),
	}
}

// Snapshot copies the view's current state.
func (v *PassView) Snapshot() PassSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	snap := PassSnapshot{
		ViewID:       v.ID,
		State:        v.state,
		Reason:       v.reason,
		Summary:      v.summary,
		TokensIssued: v.issued,
		ActivatedAt:  v.ActivatedAt,
	}
	if v.profile != nil {
		p := *v.profile
		snap.Profile = &p
	}
	if v.token != nil {
		t := *v.token
		snap.Token = &t
	}
	return snap
}

// State returns the current lifecycle state.
func (v *PassView) State() domain.PassState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Updates delivers the latest token. Stale tokens are dropped when the
// reader falls behind.
func (v *PassView) Updates() <-chan pass.Token {
	return v.updates
}

// Done is closed when the view is deactivated.
func (v *PassView) Done() <-chan struct{} {
	return v.done
}

func (v *PassView) settle(state domain.PassState, reason domain.PassInactiveReason, profile *domain.MemberProfile, summary membership.Summary) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != domain.PassStateLoading {
		return
	}
	v.state = state
	v.reason = reason
	v.profile = profile
	v.summary = summary
}

func (v *PassView) publish(tok pass.Token) {
	v.mu.Lock()
	v.token = &tok
	v.issued++
	v.mu.Unlock()

	select {
	case v.updates <- tok:
		return
	default:
	}
	select {
	case <-v.updates:
	default:
	}
	select {
	case v.updates <- tok:
	default:
	}
}

// attach binds a running rotation to the view. It reports false when the
// view was closed in the meantime, in which case the caller must stop h.
func (v *PassView) attach(h *pass.Handle) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false
	}
	v.handle = h
	return true
}

func (v *PassView) setTTL(t *time.Timer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		t.Stop()
		return
	}
	v.ttl = t
}

// close stops the rotation and releases the timer. Safe to call repeatedly.
func (v *PassView) close() {
	v.closeOnce.Do(func() {
		v.mu.Lock()
		v.closed = true
		handle := v.handle
		ttl := v.ttl
		v.mu.Unlock()

		if ttl != nil {
			ttl.Stop()
		}
		if handle != nil {
			handle.Stop()
		}
		close(v.done)
	})
}
