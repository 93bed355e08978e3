package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/membership-pass/internal/domain"
	"github.com/spec-kit/membership-pass/internal/fitness"
	apperrors "github.com/spec-kit/membership-pass/pkg/util/errorutil"
)

func TestBMIService_Record(t *testing.T) {
	repo := &fakeBMIRepo{}
	svc := NewBMIService(repo)

	res, err := svc.Record(context.Background(), activeSession(), BMIInput{
		Weight: 70,
		Height: 175,
		Notes:  strPtr("  after holidays "),
	})
	require.NoError(t, err)

	assert.Equal(t, 22.9, res.Record.BMI)
	assert.Equal(t, domain.UnitSystemMetric, res.Record.UnitSystem)
	assert.Equal(t, testMemberID, res.Record.MemberID)
	assert.Equal(t, "after holidays", *res.Record.Notes)
	assert.Equal(t, fitness.CategoryNormal, res.Category)
	assert.NotEmpty(t, res.Advice)
	require.Len(t, repo.records, 1)
	assert.Equal(t, "rec-1", repo.records[0].ID)
}

func TestBMIService_RecordValidation(t *testing.T) {
	svc := NewBMIService(&fakeBMIRepo{})

	_, err := svc.Record(context.Background(), activeSession(), BMIInput{Weight: 0, Height: 175})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Record(context.Background(), activeSession(), BMIInput{Weight: 70, Height: 175, UnitSystem: "stone"})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Record(context.Background(), domain.Session{}, BMIInput{Weight: 70, Height: 175})
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestBMIService_ListNewestFirst(t *testing.T) {
	repo := &fakeBMIRepo{}
	svc := NewBMIService(repo)
	ctx := context.Background()

	_, err := svc.Record(ctx, activeSession(), BMIInput{Weight: 50, Height: 175})
	require.NoError(t, err)
	_, err = svc.Record(ctx, activeSession(), BMIInput{Weight: 200, Height: 6, UnitSystem: domain.UnitSystemImperial})
	require.NoError(t, err)

	results, err := svc.List(ctx, activeSession(), 0, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "rec-2", results[0].Record.ID)
	assert.Equal(t, fitness.CategoryOverweight, results[0].Category)
	assert.Equal(t, fitness.CategoryUnderweight, results[1].Category)
}

func TestBMIService_StoreFailure(t *testing.T) {
	svc := NewBMIService(&fakeBMIRepo{err: errors.New("pool closed")})

	_, err := svc.List(context.Background(), activeSession(), 10, "")
	assert.Equal(t, "INTERNAL_ERROR", apperrors.ToDomainError(err).Code)
}

func TestBMIService_ListInRequestedUnits(t *testing.T) {
	repo := &fakeBMIRepo{}
	svc := NewBMIService(repo)
	ctx := context.Background()

	_, err := svc.Record(ctx, activeSession(), BMIInput{Weight: 80, Height: 180})
	require.NoError(t, err)
	_, err = svc.Record(ctx, activeSession(), BMIInput{Weight: 180, Height: 6, UnitSystem: domain.UnitSystemImperial})
	require.NoError(t, err)

	results, err := svc.List(ctx, activeSession(), 0, domain.UnitSystemImperial)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, domain.UnitSystemImperial, results[0].Record.UnitSystem)
	assert.Equal(t, 180.0, results[0].Record.Weight)
	assert.Equal(t, 6.0, results[0].Record.Height)

	converted := results[1].Record
	assert.Equal(t, domain.UnitSystemImperial, converted.UnitSystem)
	assert.Equal(t, 176.4, converted.Weight)
	assert.Equal(t, 5.91, converted.Height)
	assert.Equal(t, 24.7, converted.BMI)

	results, err = svc.List(ctx, activeSession(), 0, domain.UnitSystemMetric)
	require.NoError(t, err)
	assert.Equal(t, 81.6, results[0].Record.Weight)
	assert.Equal(t, 182.88, results[0].Record.Height)
	assert.Equal(t, domain.UnitSystemMetric, results[0].Record.UnitSystem)

	_, err = svc.List(ctx, activeSession(), 0, "stone")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestBMIService_RejectsImplausibleMeasurements(t *testing.T) {
	repo := &fakeBMIRepo{}
	svc := NewBMIService(repo)

	_, err := svc.Record(context.Background(), activeSession(), BMIInput{Weight: 70, Height: 1e-200})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	assert.Empty(t, repo.records)
}
