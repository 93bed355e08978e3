// Package membership derives display facts about a membership from a profile snapshot.
package membership

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spec-kit/membership-pass/internal/domain"
)

const day = 24 * time.Hour

// DefaultWindow is the rolling span assumed for expiry progress.
const DefaultWindow = 30 * day

// Summary is the derived, never-stored view of a membership at a point in time.
type Summary struct {
	IsActive         bool    `json:"is_active"`
	HasExpiry        bool    `json:"has_expiry"`
	DaysRemaining    int     `json:"days_remaining"`
	ProgressFraction float64 `json:"progress_fraction"`
}

// Expired reports whether a known expiry has been reached.
func (s Summary) Expired() bool {
	return s.HasExpiry && s.DaysRemaining <= 0
}

// Classifier computes summaries against a progress window.
type Classifier struct {
	Window time.Duration
}

// NewClassifier returns a classifier; a non-positive window means DefaultWindow.
func NewClassifier(window time.Duration) Classifier {
	if window <= 0 {
		window = DefaultWindow
	}
	return Classifier{Window: window}
}

// Classify uses DefaultWindow.
func Classify(status domain.MembershipStatus, expiry *time.Time, now time.Time) Summary {
	return NewClassifier(DefaultWindow).Classify(status, expiry, now)
}

// Classify turns status, expiry and now into a Summary. It performs no I/O.
func (c Classifier) Classify(status domain.MembershipStatus, expiry *time.Time, now time.Time) Summary {
	s := Summary{IsActive: status == domain.MembershipStatusActive}
	if expiry == nil {
		s.ProgressFraction = 1.0
		return s
	}

	window := c.Window
	if window <= 0 {
		window = DefaultWindow
	}
	windowDays := window.Hours() / 24

	s.HasExpiry = true
	s.DaysRemaining = int(math.Ceil(float64(expiry.Sub(now)) / float64(day)))
	s.ProgressFraction = clamp((windowDays-float64(s.DaysRemaining))/windowDays, 0, 1)
	return s
}

// Describe renders the expiry part of a summary for display.
func Describe(s Summary) string {
	switch {
	case !s.HasExpiry:
		return "no expiry on file"
	case s.Expired():
		return "expired"
	case s.DaysRemaining == 1:
		return "1 day remaining"
	default:
		return fmt.Sprintf("%d days remaining", s.DaysRemaining)
	}
}

// ParseStatus maps a raw stored status onto the canonical values.
// Matching is exact; anything unrecognized is unspecified.
func ParseStatus(raw *string) domain.MembershipStatus {
	if raw == nil {
		return domain.MembershipStatusUnspecified
	}
	switch domain.MembershipStatus(*raw) {
	case domain.MembershipStatusActive:
		return domain.MembershipStatusActive
	case domain.MembershipStatusInactive:
		return domain.MembershipStatusInactive
	}
	return domain.MembershipStatusUnspecified
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseExpiry parses a stored expiry. Absent, blank or malformed input yields nil,
// which classifies the same as a membership with no expiry.
func ParseExpiry(raw *string) *time.Time {
	return ParseTimestamp(raw)
}

// ParseTimestamp accepts RFC 3339, Postgres text output and bare dates.
func ParseTimestamp(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
