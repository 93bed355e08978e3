package domain

// PassState is the lifecycle state of a pass view.
type PassState string

const (
	PassStateLoading  PassState = "loading"
	PassStateActive   PassState = "active"
	PassStateInactive PassState = "inactive"
)

// PassInactiveReason explains why a view shows a placeholder instead of a token.
type PassInactiveReason string

const (
	PassReasonMembershipInactive  PassInactiveReason = "membership_inactive"
	PassReasonIdentityUnavailable PassInactiveReason = "identity_unavailable"
)
