package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-pass/internal/api/dto"
	"github.com/spec-kit/membership-pass/internal/auth"
	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/membership"
	"github.com/spec-kit/membership-pass/internal/pass"
	"github.com/spec-kit/membership-pass/internal/service"
	apperrors "github.com/spec-kit/membership-pass/pkg/util/errorutil"
)

// Server-sent event names on the pass stream.
const (
	streamEventView   = "view"
	streamEventToken  = "token"
	streamEventClosed = "closed"
)

// PassHandler exposes pass view activation, polling, QR rendering and streaming.
type PassHandler struct {
	passes   *service.PassService
	rotation time.Duration
	qrSize   int
	logger   *zap.Logger
}

// NewPassHandler constructs handler.
func NewPassHandler(passes *service.PassService, rotation time.Duration, qrSize int, logger *zap.Logger) *PassHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PassHandler{passes: passes, rotation: rotation, qrSize: qrSize, logger: logger}
}

// Activate handles POST /members/me/pass.
func (h *PassHandler) Activate(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	view, err := h.passes.Activate(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.viewResponse(view.Snapshot())})
}

// Get handles GET /members/me/pass/:viewID.
func (h *PassHandler) Get(c *fiber.Ctx) error {
	view, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.viewResponse(view.Snapshot())})
}

// QRCode handles GET /members/me/pass/:viewID/qr.png.
func (h *PassHandler) QRCode(c *fiber.Ctx) error {
	view, err := h.lookup(c)
	if err != nil {
		return err
	}

	snap := view.Snapshot()
	if snap.Token == nil {
		return apperrors.NewConflict("pass has no active token", map[string]any{
			"view_id": snap.ViewID,
			"state":   snap.State,
		})
	}

	png, err := pass.EncodePNG(*snap.Token, h.qrSize)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("png")
	return c.Send(png)
}

// Deactivate handles DELETE /members/me/pass/:viewID.
func (h *PassHandler) Deactivate(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	if err := h.passes.Deactivate(c.UserContext(), session.MemberID, c.Params("viewID"), service.CauseClosed); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stream handles GET /members/me/pass/stream. It activates a view, pushes
// every new token as an event, and deactivates the view when the client
// goes away.
func (h *PassHandler) Stream(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	view, err := h.passes.Activate(c.UserContext(), session)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	memberID := session.MemberID
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		cause := service.CauseDisconnect
		defer func() {
			// Already gone when the view expired or the server is shutting down.
			_ = h.passes.Deactivate(context.Background(), memberID, view.ID, cause)
		}()

		snap := view.Snapshot()
		if err := writeEvent(w, streamEventView, h.viewResponse(snap)); err != nil {
			return
		}
		if snap.State != domain.PassStateActive {
			cause = service.CauseClosed
			return
		}

		var last string
		if snap.Token != nil {
			last = snap.Token.Value
		}
		for {
			select {
			case <-view.Done():
				_ = writeEvent(w, streamEventClosed, fiber.Map{"view_id": view.ID})
				return
			case tok := <-view.Updates():
				if tok.Value == last {
					continue
				}
				last = tok.Value
				if err := writeEvent(w, streamEventToken, tokenResponse(tok)); err != nil {
					h.logger.Debug("pass stream client gone", zap.String("view_id", view.ID), zap.Error(err))
					return
				}
			}
		}
	}))
	return nil
}

func (h *PassHandler) lookup(c *fiber.Ctx) (*service.PassView, error) {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return h.passes.View(session.MemberID, c.Params("viewID"))
}

func (h *PassHandler) viewResponse(snap service.PassSnapshot) dto.PassViewResponse {
	resp := dto.PassViewResponse{
		ViewID:      snap.ViewID,
		State:       snap.State,
		Reason:      snap.Reason,
		ActivatedAt: snap.ActivatedAt,
	}
	if snap.Profile != nil {
		summary := snap.Summary
		resp.DisplayName = snap.Profile.DisplayName
		resp.Membership = &summary
		resp.Label = membership.Describe(summary)
	}
	if snap.Token != nil {
		tok := tokenResponse(*snap.Token)
		resp.Token = &tok
		resp.RotationMS = h.rotation.Milliseconds()
	}
	return resp
}

func tokenResponse(tok pass.Token) dto.PassTokenResponse {
	return dto.PassTokenResponse{Value: tok.Value, IssuedAt: tok.IssuedAt}
}

func writeEvent(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
