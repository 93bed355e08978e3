package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-pass/internal/domain"
	apperrors "github.com/spec-kit/membership-pass/pkg/util/errorutil"
)

const sessionKey = "auth_session"

// AuthMiddleware validates bearer tokens and stores the caller's Session.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. Only the
// Authorization header is accepted.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	return m.authenticate(c, false)
}

// HandleStream is Handle for event-stream routes. EventSource cannot set
// headers, so an access_token query parameter is accepted as well.
func (m *AuthMiddleware) HandleStream(c *fiber.Ctx) error {
	return m.authenticate(c, true)
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx, allowQuery bool) error {
	raw, err := bearerToken(c, allowQuery)
	if err != nil {
		return err
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(sessionKey, SessionFromClaims(claims))
	return c.Next()
}

func bearerToken(c *fiber.Ctx, allowQuery bool) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if token := c.Query("access_token"); allowQuery && token != "" {
			return token, nil
		}
		return "", apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// SessionFromContext retrieves the authenticated caller.
func SessionFromContext(c *fiber.Ctx) (domain.Session, bool) {
	session, ok := c.Locals(sessionKey).(domain.Session)
	return session, ok
}

// WithSession stores a session directly; used by tests and trusted internal routes.
func WithSession(session domain.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(sessionKey, session)
		return c.Next()
	}
}
