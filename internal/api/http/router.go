package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/membership-pass/internal/api/http/handlers"
	"github.com/spec-kit/membership-pass/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Membership     *handlers.MembershipHandler
	Pass           *handlers.PassHandler
	BMI            *handlers.BMIHandler
	Metrics        http.Handler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	// Registered ahead of the /members/me group so the group's header-only
	// auth never runs for it.
	app.Get("/members/me/pass/stream", cfg.AuthMiddleware.HandleStream, cfg.Pass.Stream)

	me := app.Group("/members/me", cfg.AuthMiddleware.Handle)

	// Any authenticated caller gets a pass view; one without a member id
	// sees the identity_unavailable placeholder.
	me.Post("/pass", cfg.Pass.Activate)
	me.Get("/pass/:viewID", cfg.Pass.Get)
	me.Get("/pass/:viewID/qr.png", cfg.Pass.QRCode)
	me.Delete("/pass/:viewID", cfg.Pass.Deactivate)

	me.Get("/membership", auth.RequireMember(), cfg.Membership.Get)
	me.Post("/bmi", auth.RequireMember(), cfg.BMI.Create)
	me.Get("/bmi", auth.RequireMember(), cfg.BMI.List)
}
