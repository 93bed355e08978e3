package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/events"
	"github.com/spec-kit/membership-pass/internal/membership"
	"github.com/spec-kit/membership-pass/internal/observability"
	"github.com/spec-kit/membership-pass/internal/pass"
	"github.com/spec-kit/membership-pass/internal/repository"
	apperrors "github.com/spec-kit/membership-pass/pkg/util/errorutil"
)

// Deactivation causes reported on pass_view_deactivated events.
const (
	CauseClosed     = "closed"
	CauseDisconnect = "disconnect"
	CauseExpired    = "ttl_expired"
	CauseShutdown   = "shutdown"
)

// ErrPassServiceClosing is returned when a view is closed by Shutdown before
// its activation completes.
var ErrPassServiceClosing = apperrors.NewDomainError("SERVICE_UNAVAILABLE", "pass service is shutting down", http.StatusServiceUnavailable, nil)

// PassService manages pass views and their token rotation.
type PassService struct {
	profiles   repository.ProfileRepository
	rotator    *pass.Rotator
	classifier membership.Classifier
	clock      pass.Clock
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	viewTTL    time.Duration
	newID      func() string

	mu    sync.Mutex
	views map[string]*PassView
}

// PassDependencies bundles collaborators for the pass service.
type PassDependencies struct {
	ProfileRepo repository.ProfileRepository
	Rotator     *pass.Rotator
	Classifier  membership.Classifier
	Clock       pass.Clock
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	ViewTTL     time.Duration
}

// NewPassService constructs the service.
func NewPassService(deps PassDependencies) *PassService {
	s := &PassService{
		profiles:   deps.ProfileRepo,
		rotator:    deps.Rotator,
		classifier: deps.Classifier,
		clock:      deps.Clock,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		viewTTL:    deps.ViewTTL,
		newID:      uuid.NewString,
		views:      make(map[string]*PassView),
	}
	if s.rotator == nil {
		s.rotator = pass.NewRotator(pass.DefaultInterval)
	}
	if s.clock == nil {
		s.clock = pass.SystemClock()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Activate opens a pass view for the session. The profile is read once; a
// fetch failure is returned without retry and leaves no view behind.
func (s *PassService) Activate(ctx context.Context, session domain.Session) (*PassView, error) {
	view := newPassView(s.newID(), session.MemberID, s.clock.Now())
	s.register(view)

	if !session.HasIdentity() {
		view.settle(domain.PassStateInactive, domain.PassReasonIdentityUnavailable, nil, membership.Summary{})
		s.opened(ctx, view)
		return view, nil
	}

	rec, err := s.profiles.GetByID(ctx, session.MemberID)
	if err != nil {
		s.discard(view)
		s.logger.Warn("pass profile fetch failed", zap.String("view_id", view.ID), zap.String("member_id", session.MemberID), zap.Error(err))
		return nil, mapProfileError(err)
	}

	profile := ToMemberProfile(rec, session)
	summary := s.classifier.Classify(profile.MembershipStatus, profile.MembershipExpiry, s.clock.Now())

	if !summary.IsActive {
		view.settle(domain.PassStateInactive, domain.PassReasonMembershipInactive, &profile, summary)
		s.opened(ctx, view)
		return view, nil
	}

	// Settle first so no reader sees a token on a view that is still loading.
	view.settle(domain.PassStateActive, "", &profile, summary)
	handle, err := s.rotator.Start(context.Background(), profile.MemberID, func(tok pass.Token) {
		view.publish(tok)
		s.metrics.TokenIssued()
	})
	if err != nil {
		s.discard(view)
		s.logger.Error("pass rotation failed to start", zap.String("view_id", view.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if !view.attach(handle) {
		// Closed by Shutdown while the rotation was starting.
		handle.Stop()
		return nil, ErrPassServiceClosing
	}
	s.opened(ctx, view)
	return view, nil
}

// View returns an open view belonging to memberID.
func (s *PassService) View(memberID, viewID string) (*PassView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.views[viewID]
	if !ok || view.MemberID != memberID {
		return nil, apperrors.NewNotFound("pass view", map[string]any{"view_id": viewID})
	}
	return view, nil
}

// Deactivate closes a view. Its rotation has stopped when Deactivate returns.
func (s *PassService) Deactivate(ctx context.Context, memberID, viewID, cause string) error {
	s.mu.Lock()
	view, ok := s.views[viewID]
	if !ok || view.MemberID != memberID {
		s.mu.Unlock()
		return apperrors.NewNotFound("pass view", map[string]any{"view_id": viewID})
	}
	delete(s.views, viewID)
	s.mu.Unlock()

	s.closed(ctx, view, cause)
	return nil
}

// ActiveViews reports how many views are open.
func (s *PassService) ActiveViews() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Shutdown deactivates every open view.
func (s *PassService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	views := make([]*PassView, 0, len(s.views))
	for id, view := range s.views {
		views = append(views, view)
		delete(s.views, id)
	}
	s.mu.Unlock()

	for _, view := range views {
		s.closed(ctx, view, CauseShutdown)
	}
}

func (s *PassService) register(view *PassView) {
	s.mu.Lock()
	s.views[view.ID] = view
	s.mu.Unlock()
	s.metrics.ViewOpened()
}

// discard drops a view that never finished activating. No lifecycle event
// is published for it.
func (s *PassService) discard(view *PassView) {
	if s.unregister(view.ID) {
		view.close()
		s.metrics.ViewClosed()
	}
}

func (s *PassService) unregister(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[id]; !ok {
		return false
	}
	delete(s.views, id)
	return true
}

func (s *PassService) opened(ctx context.Context, view *PassView) {
	snap := view.Snapshot()
	s.metrics.ViewSettled(string(snap.State))

	if s.viewTTL > 0 {
		view.setTTL(time.AfterFunc(s.viewTTL, func() {
			if s.unregister(view.ID) {
				s.closed(context.Background(), view, CauseExpired)
			}
		}))
	}

	s.logger.Info("pass view activated",
		zap.String("view_id", view.ID),
		zap.String("member_id", view.MemberID),
		zap.String("state", string(snap.State)),
		zap.String("reason", string(snap.Reason)))
	s.publish(ctx, events.Event{
		Type:     events.EventPassViewActivated,
		ViewID:   view.ID,
		MemberID: view.MemberID,
		Payload:  events.PassViewActivatedPayload{State: snap.State, Reason: snap.Reason},
	})
}

func (s *PassService) closed(ctx context.Context, view *PassView, cause string) {
	view.close()
	s.metrics.ViewClosed()

	snap := view.Snapshot()
	activeFor := s.clock.Now().Sub(view.ActivatedAt)
	s.logger.Info("pass view deactivated",
		zap.String("view_id", view.ID),
		zap.String("member_id", view.MemberID),
		zap.String("cause", cause),
		zap.Int("tokens_issued", snap.TokensIssued))
	s.publish(ctx, events.Event{
		Type:     events.EventPassViewDeactivated,
		ViewID:   view.ID,
		MemberID: view.MemberID,
		Payload: events.PassViewDeactivatedPayload{
			Cause:        cause,
			ActiveFor:    activeFor,
			TokensIssued: snap.TokensIssued,
		},
	})
}

func (s *PassService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.clock.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("pass event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
