package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/repository"
)

func TestToMemberProfile_FullRow(t *testing.T) {
	rec := &repository.ProfileRecord{
		ID:               testMemberID,
		DisplayName:      strPtr("  Jordan  "),
		FirstName:        strPtr("Jo"),
		Role:             strPtr("staff"),
		MembershipStatus: strPtr("active"),
		MembershipType:   strPtr("monthly "),
		MembershipSince:  strPtr("2025-01-01 08:00:00+00"),
		MembershipExpiry: strPtr("2026-11-03 10:00:00+00"),
		LastVisit:        strPtr("2026-10-18T19:30:00Z"),
	}

	p := ToMemberProfile(rec, activeSession())

	assert.Equal(t, testMemberID, p.MemberID)
	assert.Equal(t, "Jordan", p.DisplayName)
	assert.Equal(t, "jordan@example.com", p.Email)
	assert.Equal(t, domain.MemberRoleStaff, p.Role)
	assert.Equal(t, domain.MembershipStatusActive, p.MembershipStatus)
	assert.Equal(t, "monthly", p.MembershipType)
	require.NotNil(t, p.MembershipExpiry)
	assert.True(t, time.Date(2026, 11, 3, 10, 0, 0, 0, time.UTC).Equal(*p.MembershipExpiry))
	require.NotNil(t, p.MembershipSince)
	require.NotNil(t, p.LastVisit)
}

func TestToMemberProfile_Degrades(t *testing.T) {
	rec := &repository.ProfileRecord{
		ID:               testMemberID,
		DisplayName:      strPtr("   "),
		Role:             strPtr("admin"),
		MembershipStatus: strPtr("ACTIVE"),
		MembershipExpiry: strPtr("soon"),
	}

	p := ToMemberProfile(rec, activeSession())

	assert.Equal(t, "Member", p.DisplayName)
	assert.Equal(t, domain.MemberRoleMember, p.Role)
	assert.Equal(t, domain.MembershipStatusUnspecified, p.MembershipStatus)
	assert.Nil(t, p.MembershipExpiry)
}

func TestToMemberProfile_FirstNameFallback(t *testing.T) {
	p := ToMemberProfile(&repository.ProfileRecord{FirstName: strPtr("Jo")}, activeSession())
	assert.Equal(t, "Jo", p.DisplayName)
	assert.Equal(t, testMemberID, p.MemberID)
}

func TestToMemberProfile_NilRecord(t *testing.T) {
	p := ToMemberProfile(nil, activeSession())
	assert.Equal(t, testMemberID, p.MemberID)
	assert.Equal(t, domain.MembershipStatusUnspecified, p.MembershipStatus)
	assert.Nil(t, p.MembershipExpiry)
}
