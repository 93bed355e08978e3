package domain

import "time"

// MembershipStatus is the canonical membership state stored on a profile.
type MembershipStatus string

const (
	MembershipStatusActive      MembershipStatus = "active"
	MembershipStatusInactive    MembershipStatus = "inactive"
	MembershipStatusUnspecified MembershipStatus = "unspecified"
)

// MemberRole mirrors the user_role enum of the profile store.
type MemberRole string

const (
	MemberRoleMember MemberRole = "member"
	MemberRoleStaff  MemberRole = "staff"
)

// MemberProfile is a validated, read-only snapshot of a member's profile.
type MemberProfile struct {
	MemberID         string
	DisplayName      string
	Email            string
	Role             MemberRole
	MembershipStatus MembershipStatus
	MembershipType   string
	MembershipSince  *time.Time
	MembershipExpiry *time.Time
	LastVisit        *time.Time
}
