// Package fitness holds the body-mass-index arithmetic behind the BMI tracker.
package fitness

import (
	"errors"
	"math"

	"github.com/spec-kit/membership-pass/internal/domain"
)

var (
	ErrInvalidMeasurement = errors.New("weight or height outside the plausible range")
	ErrUnknownUnitSystem  = errors.New("unit system must be metric or imperial")
)

const (
	kilogramsPerPound  = 0.45359237
	centimetresPerInch = 2.54
	inchesPerFoot      = 12
	imperialFactor     = 703
)

// Plausible measurement ranges per unit system.
var limits = map[domain.UnitSystem]struct{ minWeight, maxWeight, minHeight, maxHeight float64 }{
	domain.UnitSystemMetric:   {minWeight: 2, maxWeight: 650, minHeight: 40, maxHeight: 275},
	domain.UnitSystemImperial: {minWeight: 4.5, maxWeight: 1430, minHeight: 1.3, maxHeight: 9},
}

// Category buckets a BMI value.
type Category string

const (
	CategoryUnderweight Category = "Underweight"
	CategoryNormal      Category = "Normal"
	CategoryOverweight  Category = "Overweight"
	CategoryObese       Category = "Obese"
)

// ComputeBMI returns the BMI rounded to one decimal.
// Metric takes kilograms and centimetres; imperial takes pounds and feet.
func ComputeBMI(weight, height float64, units domain.UnitSystem) (float64, error) {
	lim, ok := limits[units]
	if !ok {
		return 0, ErrUnknownUnitSystem
	}
	if !inRange(weight, lim.minWeight, lim.maxWeight) || !inRange(height, lim.minHeight, lim.maxHeight) {
		return 0, ErrInvalidMeasurement
	}

	var bmi float64
	if units == domain.UnitSystemMetric {
		metres := height / 100
		bmi = weight / (metres * metres)
	} else {
		inches := height * inchesPerFoot
		bmi = imperialFactor * weight / (inches * inches)
	}
	if math.IsNaN(bmi) || math.IsInf(bmi, 0) {
		return 0, ErrInvalidMeasurement
	}
	return math.Round(bmi*10) / 10, nil
}

// inRange is false for NaN and infinities.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// Classify returns the category for a BMI value.
func Classify(bmi float64) Category {
	switch {
	case bmi < 18.5:
		return CategoryUnderweight
	case bmi < 25:
		return CategoryNormal
	case bmi < 30:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// Advice is the guidance shown next to a category.
func Advice(c Category) string {
	switch c {
	case CategoryUnderweight:
		return "Focus on increasing calorie intake with nutrient-rich foods and incorporate strength training."
	case CategoryNormal:
		return "Maintain your healthy lifestyle with a balanced diet and regular exercise."
	case CategoryOverweight:
		return "Consider increasing cardio activities and maintaining a slight calorie deficit."
	case CategoryObese:
		return "Focus on gradual weight loss through sustainable diet changes and regular exercise. Consider consulting a healthcare professional."
	}
	return ""
}

// Convert expresses weight and height recorded in from in the to unit system.
// Values pass through unchanged when the systems match.
func Convert(weight, height float64, from, to domain.UnitSystem) (float64, float64, error) {
	if _, ok := limits[from]; !ok {
		return 0, 0, ErrUnknownUnitSystem
	}
	if _, ok := limits[to]; !ok {
		return 0, 0, ErrUnknownUnitSystem
	}
	switch {
	case from == to:
		return weight, height, nil
	case to == domain.UnitSystemImperial:
		return KilogramsToPounds(weight), CentimetresToFeet(height), nil
	default:
		return PoundsToKilograms(weight), FeetToCentimetres(height), nil
	}
}

// PoundsToKilograms converts a weight.
func PoundsToKilograms(lb float64) float64 { return lb * kilogramsPerPound }

// KilogramsToPounds converts a weight.
func KilogramsToPounds(kg float64) float64 { return kg / kilogramsPerPound }

// FeetToCentimetres converts a height given in decimal feet.
func FeetToCentimetres(ft float64) float64 { return ft * inchesPerFoot * centimetresPerInch }

// CentimetresToFeet converts a height to decimal feet.
func CentimetresToFeet(cm float64) float64 { return cm / centimetresPerInch / inchesPerFoot }
