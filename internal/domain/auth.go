package domain

import "strings"

// Session identifies the authenticated caller for the lifetime of one request.
// It is built from a verified access token and passed explicitly to services.
type Session struct {
	MemberID string
	Email    string
	Role     string
}

// HasIdentity reports whether the session carries a usable member id.
func (s Session) HasIdentity() bool {
	return strings.TrimSpace(s.MemberID) != ""
}
