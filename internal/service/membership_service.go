package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/membership"
	"github.com/spec-kit/membership-pass/internal/pass"
	"github.com/spec-kit/membership-pass/internal/repository"
	apperrors "github.com/spec-kit/membership-pass/pkg/util/errorutil"
)

// MembershipOverview is what the dashboard shows about a membership.
type MembershipOverview struct {
	Profile      domain.MemberProfile
	Summary      membership.Summary
	Label        string
	LastPassView *time.Time
}

// MembershipService derives membership facts for the caller.
type MembershipService struct {
	profiles   repository.ProfileRepository
	activity   repository.PassActivityRepository
	classifier membership.Classifier
	clock      pass.Clock
	logger     *zap.Logger
}

// MembershipDependencies bundles collaborators for the membership service.
type MembershipDependencies struct {
	ProfileRepo      repository.ProfileRepository
	PassActivityRepo repository.PassActivityRepository
	Classifier       membership.Classifier
	Clock            pass.Clock
	Logger           *zap.Logger
}

// NewMembershipService constructs the service.
func NewMembershipService(deps MembershipDependencies) *MembershipService {
	s := &MembershipService{
		profiles:   deps.ProfileRepo,
		activity:   deps.PassActivityRepo,
		classifier: deps.Classifier,
		clock:      deps.Clock,
		logger:     deps.Logger,
	}
	if s.clock == nil {
		s.clock = pass.SystemClock()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Overview loads the caller's profile and classifies it against now.
func (s *MembershipService) Overview(ctx context.Context, session domain.Session) (*MembershipOverview, error) {
	if !session.HasIdentity() {
		return nil, apperrors.NewForbidden("member identity required")
	}

	rec, err := s.profiles.GetByID(ctx, session.MemberID)
	if err != nil {
		return nil, mapProfileError(err)
	}
	profile := ToMemberProfile(rec, session)
	summary := s.classifier.Classify(profile.MembershipStatus, profile.MembershipExpiry, s.clock.Now())

	overview := &MembershipOverview{
		Profile: profile,
		Summary: summary,
		Label:   membership.Describe(summary),
	}

	if s.activity != nil {
		last, err := s.activity.LastView(ctx, profile.MemberID)
		if err != nil {
			s.logger.Warn("last pass view unavailable", zap.String("member_id", profile.MemberID), zap.Error(err))
		} else {
			overview.LastPassView = last
		}
	}
	return overview, nil
}
