package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-pass/internal/api/dto"
	"github.com/spec-kit/membership-pass/internal/auth"
	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/service"
	apperrors "github.com/spec-kit/membership-pass/pkg/util/errorutil"
)

// BMIHandler exposes the member's BMI history.
type BMIHandler struct {
	bmi *service.BMIService
}

// NewBMIHandler constructs handler.
func NewBMIHandler(bmi *service.BMIService) *BMIHandler {
	return &BMIHandler{bmi: bmi}
}

// Create handles POST /members/me/bmi.
func (h *BMIHandler) Create(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req dto.CreateBMIRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.bmi.Record(c.UserContext(), session, service.BMIInput{
		Weight:     req.Weight,
		Height:     req.Height,
		UnitSystem: req.UnitSystem,
		Notes:      req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": bmiResponse(*result)})
}

// List handles GET /members/me/bmi. An optional units query (metric or
// imperial) converts stored measurements.
func (h *BMIHandler) List(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	results, err := h.bmi.List(c.UserContext(), session, c.QueryInt("limit", 0), domain.UnitSystem(c.Query("units")))
	if err != nil {
		return err
	}
	items := make([]dto.BMIRecordResponse, 0, len(results))
	for _, r := range results {
		items = append(items, bmiResponse(r))
	}
	return c.JSON(fiber.Map{"data": items})
}

func bmiResponse(r service.BMIResult) dto.BMIRecordResponse {
	return dto.BMIRecordResponse{
		ID:         r.Record.ID,
		Weight:     r.Record.Weight,
		Height:     r.Record.Height,
		BMI:        r.Record.BMI,
		UnitSystem: r.Record.UnitSystem,
		Notes:      r.Record.Notes,
		Category:   string(r.Category),
		Advice:     r.Advice,
		CreatedAt:  r.Record.CreatedAt,
	}
}
