// Package pass produces the rotating tokens shown on a member's digital pass.
package pass

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrMissingMemberID is returned when no member identity is available.
var ErrMissingMemberID = errors.New("pass: member id is required")

const separator = "_"

// Token is one displayed pass value. It is never persisted.
type Token struct {
	MemberID string    `json:"member_id"`
	IssuedAt time.Time `json:"issued_at"`
	Value    string    `json:"value"`
}

// Generate encodes memberID and now (millisecond resolution) into a token.
// The same pair always yields the same value.
func Generate(memberID string, now time.Time) (Token, error) {
	if strings.TrimSpace(memberID) == "" {
		return Token{}, ErrMissingMemberID
	}
	ms := now.UnixMilli()
	return Token{
		MemberID: memberID,
		IssuedAt: time.UnixMilli(ms).UTC(),
		Value:    memberID + separator + strconv.FormatInt(ms, 10),
	}, nil
}
