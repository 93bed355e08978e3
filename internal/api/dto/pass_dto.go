package dto

import (
	"time"

	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/membership"
)

// PassTokenResponse is the currently displayed token.
type PassTokenResponse struct {
	Value    string    `json:"value"`
	IssuedAt time.Time `json:"issued_at"`
}

// PassViewResponse describes a pass view.
type PassViewResponse struct {
	ViewID      string                    `json:"view_id"`
	State       domain.PassState          `json:"state"`
	Reason      domain.PassInactiveReason `json:"reason,omitempty"`
	DisplayName string                    `json:"display_name,omitempty"`
	Membership  *membership.Summary       `json:"membership,omitempty"`
	Label       string                    `json:"label,omitempty"`
	Token       *PassTokenResponse        `json:"token"`
	RotationMS  int64                     `json:"rotation_ms"`
	ActivatedAt time.Time                 `json:"activated_at"`
}
