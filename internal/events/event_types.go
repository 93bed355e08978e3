package events

import (
	"time"

	"github.com/spec-kit/membership-pass/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPassViewActivated   EventType = "pass_view_activated"
	EventPassViewDeactivated EventType = "pass_view_deactivated"
)

// Event is a pass lifecycle notification. Token values are never carried.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ViewID    string      `json:"view_id"`
	MemberID  string      `json:"member_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PassViewActivatedPayload payload.
type PassViewActivatedPayload struct {
	State  domain.PassState          `json:"state"`
	Reason domain.PassInactiveReason `json:"reason,omitempty"`
}

// PassViewDeactivatedPayload payload.
type PassViewDeactivatedPayload struct {
	Cause        string        `json:"cause"`
	ActiveFor    time.Duration `json:"active_for"`
	TokensIssued int           `json:"tokens_issued"`
}
