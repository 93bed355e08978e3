package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/fitness"
	"github.com/spec-kit/membership-pass/internal/repository"
	apperrors "github.com/spec-kit/membership-pass/pkg/util/errorutil"
)

const maxBMIHistory = 100

// BMIInput describes a new measurement.
type BMIInput struct {
	Weight     float64
	Height     float64
	UnitSystem domain.UnitSystem
	Notes      *string
}

// BMIResult pairs a stored record with its interpretation.
type BMIResult struct {
	Record   domain.BMIRecord
	Category fitness.Category
	Advice   string
}

// BMIService records and lists BMI measurements.
type BMIService struct {
	records repository.BMIRepository
}

// NewBMIService constructs the service.
func NewBMIService(records repository.BMIRepository) *BMIService {
	return &BMIService{records: records}
}

// Record computes the BMI for input and stores it for the caller.
func (s *BMIService) Record(ctx context.Context, session domain.Session, input BMIInput) (*BMIResult, error) {
	if !session.HasIdentity() {
		return nil, apperrors.NewForbidden("member identity required")
	}
	if input.UnitSystem == "" {
		input.UnitSystem = domain.UnitSystemMetric
	}

	bmi, err := fitness.ComputeBMI(input.Weight, input.Height, input.UnitSystem)
	if err != nil {
		if errors.Is(err, fitness.ErrInvalidMeasurement) || errors.Is(err, fitness.ErrUnknownUnitSystem) {
			return nil, apperrors.NewValidationError(err.Error(), map[string]any{"unit_system": input.UnitSystem})
		}
		return nil, err
	}

	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if trimmed == "" {
			input.Notes = nil
		} else {
			input.Notes = &trimmed
		}
	}

	record := domain.BMIRecord{
		MemberID:   session.MemberID,
		Weight:     input.Weight,
		Height:     input.Height,
		BMI:        bmi,
		UnitSystem: input.UnitSystem,
		Notes:      input.Notes,
	}
	if err := s.records.Create(ctx, &record); err != nil {
		return nil, apperrors.MapError(err)
	}
	result := interpret(record)
	return &result, nil
}

// List returns the caller's measurements, newest first. When units is set,
// weight and height are expressed in that system; the BMI is unit-free.
func (s *BMIService) List(ctx context.Context, session domain.Session, limit int, units domain.UnitSystem) ([]BMIResult, error) {
	if !session.HasIdentity() {
		return nil, apperrors.NewForbidden("member identity required")
	}
	if units != "" && units != domain.UnitSystemMetric && units != domain.UnitSystemImperial {
		return nil, apperrors.NewValidationError(fitness.ErrUnknownUnitSystem.Error(), map[string]any{"units": units})
	}
	if limit <= 0 || limit > maxBMIHistory {
		limit = maxBMIHistory
	}
	records, err := s.records.ListByMember(ctx, session.MemberID, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	results := make([]BMIResult, 0, len(records))
	for _, rec := range records {
		if units != "" {
			rec = inUnits(rec, units)
		}
		results = append(results, interpret(rec))
	}
	return results, nil
}

// inUnits rewrites a record's measurements for display. Records stored with
// an unrecognised unit system are returned unchanged.
func inUnits(rec domain.BMIRecord, units domain.UnitSystem) domain.BMIRecord {
	weight, height, err := fitness.Convert(rec.Weight, rec.Height, rec.UnitSystem, units)
	if err != nil || rec.UnitSystem == units {
		return rec
	}
	rec.Weight = math.Round(weight*10) / 10
	rec.Height = math.Round(height*100) / 100
	rec.UnitSystem = units
	return rec
}

func interpret(rec domain.BMIRecord) BMIResult {
	category := fitness.Classify(rec.BMI)
	return BMIResult{Record: rec, Category: category, Advice: fitness.Advice(category)}
}
