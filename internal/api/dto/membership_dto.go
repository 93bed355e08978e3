package dto

import (
	"time"

	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/membership"
)

// MembershipResponse describes the caller's membership.
type MembershipResponse struct {
	MemberID       string                  `json:"member_id"`
	DisplayName    string                  `json:"display_name"`
	Status         domain.MembershipStatus `json:"status"`
	MembershipType string                  `json:"membership_type,omitempty"`
	Expiry         *time.Time              `json:"expiry"`
	Summary        membership.Summary      `json:"summary"`
	Expired        bool                    `json:"expired"`
	Label          string                  `json:"label"`
	LastVisit      *time.Time              `json:"last_visit"`
	LastPassView   *time.Time              `json:"last_pass_view"`
}
