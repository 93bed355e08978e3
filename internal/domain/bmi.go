package domain

import "time"

// UnitSystem selects the measurement units of a BMI record.
type UnitSystem string

const (
	UnitSystemMetric   UnitSystem = "metric"
	UnitSystemImperial UnitSystem = "imperial"
)

// BMIRecord is a stored body-mass-index measurement.
// Metric records hold kilograms and centimetres, imperial records pounds and feet.
type BMIRecord struct {
	ID         string
	MemberID   string
	Weight     float64
	Height     float64
	BMI        float64
	UnitSystem UnitSystem
	Notes      *string
	CreatedAt  time.Time
}
