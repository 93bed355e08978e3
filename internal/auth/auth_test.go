package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/membership-pass/pkg/util/errorutil"
)

const memberID = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "https://auth.example.com", 15)

	raw, exp, err := tm.GenerateToken(memberID, "jo@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(raw)
	require.NoError(t, err)

	session := SessionFromClaims(claims)
	assert.Equal(t, memberID, session.MemberID)
	assert.Equal(t, "jo@example.com", session.Email)
	assert.True(t, session.HasIdentity())
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	raw, _, err := NewTokenManager("one", "", 15).GenerateToken(memberID, "")
	require.NoError(t, err)

	_, err = NewTokenManager("two", "", 15).ParseToken(raw)
	assert.Error(t, err)
}

func TestTokenManager_RejectsWrongIssuer(t *testing.T) {
	raw, _, err := NewTokenManager("secret", "https://other.example.com", 15).GenerateToken(memberID, "")
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "https://auth.example.com", 15).ParseToken(raw)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", "", 1)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, _, err := tm.GenerateToken(memberID, "")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(raw)
	assert.Error(t, err)
}

func newProtectedApp(tm *TokenManager, guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/me", NewAuthMiddleware(tm).Handle, guard, func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		return c.SendString(session.MemberID)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", "", 15)
	app := newProtectedApp(tm, RequireMember())

	valid, _, err := tm.GenerateToken(memberID, "jo@example.com")
	require.NoError(t, err)
	anonymous, _, err := tm.GenerateToken("", "")
	require.NoError(t, err)

	cases := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{"missing header", "/me", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage token", "/me", "Bearer nope", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"valid bearer", "/me", "Bearer " + valid, http.StatusOK, memberID},
		{"query token ignored", "/me?access_token=" + valid, "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"no member id", "/me", "Bearer " + anonymous, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.body, string(body))
		})
	}
}

func TestHandleStream_AcceptsQueryToken(t *testing.T) {
	tm := NewTokenManager("secret", "", 15)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/stream", NewAuthMiddleware(tm).HandleStream, func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		return c.SendString(session.MemberID)
	})

	valid, _, err := tm.GenerateToken(memberID, "")
	require.NoError(t, err)

	cases := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{"query token", "/stream?access_token=" + valid, "", http.StatusOK, memberID},
		{"header still works", "/stream", "Bearer " + valid, http.StatusOK, memberID},
		{"bad query token", "/stream?access_token=nope", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"nothing", "/stream", "", http.StatusUnauthorized, "UNAUTHORIZED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.body, string(body))
		})
	}
}
