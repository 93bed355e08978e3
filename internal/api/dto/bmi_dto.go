package dto

import (
	"time"

	"github.com/spec-kit/membership-pass/internal/domain"
)

// CreateBMIRequest payload.
type CreateBMIRequest struct {
	Weight     float64           `json:"weight"`
	Height     float64           `json:"height"`
	UnitSystem domain.UnitSystem `json:"unit_system"`
	Notes      *string           `json:"notes"`
}

// BMIRecordResponse is a stored measurement with its interpretation.
type BMIRecordResponse struct {
	ID         string            `json:"id"`
	Weight     float64           `json:"weight"`
	Height     float64           `json:"height"`
	BMI        float64           `json:"bmi"`
	UnitSystem domain.UnitSystem `json:"unit_system"`
	Notes      *string           `json:"notes,omitempty"`
	Category   string            `json:"category"`
	Advice     string            `json:"advice"`
	CreatedAt  time.Time         `json:"created_at"`
}
