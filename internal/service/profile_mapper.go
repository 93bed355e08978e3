package service

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/membership"
	"github.com/spec-kit/membership-pass/internal/repository"
	apperrors "github.com/spec-kit/membership-pass/pkg/util/errorutil"
)

const defaultDisplayName = "Member"

// ToMemberProfile validates a raw profiles row into a MemberProfile.
// Unknown statuses and unparseable timestamps degrade to their empty values.
func ToMemberProfile(rec *repository.ProfileRecord, session domain.Session) domain.MemberProfile {
	profile := domain.MemberProfile{
		MemberID:         session.MemberID,
		Email:            session.Email,
		DisplayName:      defaultDisplayName,
		Role:             domain.MemberRoleMember,
		MembershipStatus: domain.MembershipStatusUnspecified,
	}
	if rec == nil {
		return profile
	}

	if rec.ID != "" {
		profile.MemberID = rec.ID
	}
	if name := firstNonBlank(rec.DisplayName, rec.FirstName); name != "" {
		profile.DisplayName = name
	}
	if rec.Role != nil && domain.MemberRole(*rec.Role) == domain.MemberRoleStaff {
		profile.Role = domain.MemberRoleStaff
	}
	if rec.MembershipType != nil {
		profile.MembershipType = strings.TrimSpace(*rec.MembershipType)
	}
	profile.MembershipStatus = membership.ParseStatus(rec.MembershipStatus)
	profile.MembershipExpiry = membership.ParseExpiry(rec.MembershipExpiry)
	profile.MembershipSince = membership.ParseTimestamp(rec.MembershipSince)
	profile.LastVisit = membership.ParseTimestamp(rec.LastVisit)
	return profile
}

func firstNonBlank(values ...*string) string {
	for _, v := range values {
		if v == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// mapProfileError turns a profile fetch failure into the error surfaced to the caller.
func mapProfileError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("profile", nil)
	}
	return apperrors.NewDependencyUnavailable("PROFILE_UNAVAILABLE", "profile could not be loaded", err)
}
