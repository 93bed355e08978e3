package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-pass/internal/api/dto"
	"github.com/spec-kit/membership-pass/internal/auth"
	"github.com/spec-kit/membership-pass/internal/service"
)

// MembershipHandler exposes the caller's membership summary.
type MembershipHandler struct {
	memberships *service.MembershipService
}

// NewMembershipHandler constructs handler.
func NewMembershipHandler(memberships *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships}
}

// Get handles GET /members/me/membership.
func (h *MembershipHandler) Get(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	overview, err := h.memberships.Overview(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": membershipResponse(overview)})
}

func membershipResponse(o *service.MembershipOverview) dto.MembershipResponse {
	return dto.MembershipResponse{
		MemberID:       o.Profile.MemberID,
		DisplayName:    o.Profile.DisplayName,
		Status:         o.Profile.MembershipStatus,
		MembershipType: o.Profile.MembershipType,
		Expiry:         o.Profile.MembershipExpiry,
		Summary:        o.Summary,
		Expired:        o.Summary.Expired(),
		Label:          o.Label,
		LastVisit:      o.Profile.LastVisit,
		LastPassView:   o.LastPassView,
	}
}
