package payperiod

import (
	"context"
	"fmt"
	"time"

	"github.com/tutorlane/timecard-backend-go/internal/domain/franchise"
	"github.com/tutorlane/timecard-backend-go/internal/domain/payperiod"
)

type PayPeriodServiceImpl struct {
	payperiod.PayPeriodOverrideRepository
	franchiseRepo franchise.FranchiseRepository
	now           func() time.Time
}

func NewPayPeriodService(
	overrideRepo payperiod.PayPeriodOverrideRepository,
	franchiseRepo franchise.FranchiseRepository,
) payperiod.PayPeriodService {
	return &PayPeriodServiceImpl{
		PayPeriodOverrideRepository: overrideRepo,
		franchiseRepo:               franchiseRepo,
		now:                         time.Now,
	}
}

// Resolve implements payperiod.PayPeriodService.
func (s *PayPeriodServiceImpl) Resolve(ctx context.Context, franchiseID string, forDate *time.Time) (payperiod.PayPeriodResponse, error) {
	fran, err := s.franchiseRepo.GetByID(ctx, franchiseID)
	if err != nil {
		return payperiod.PayPeriodResponse{}, fmt.Errorf("failed to get franchise: %w", err)
	}

	period, err := s.resolveForDate(ctx, fran, s.targetDate(fran, forDate))
	if err != nil {
		return payperiod.PayPeriodResponse{}, err
	}

	return period.ToResponse(), nil
}

// Previous implements payperiod.PayPeriodService. The previous period is
// whatever covers the day before the current period starts, so an override
// butting up against a computed window still resolves correctly.
func (s *PayPeriodServiceImpl) Previous(ctx context.Context, franchiseID string, forDate *time.Time) (payperiod.PayPeriodResponse, error) {
	fran, err := s.franchiseRepo.GetByID(ctx, franchiseID)
	if err != nil {
		return payperiod.PayPeriodResponse{}, fmt.Errorf("failed to get franchise: %w", err)
	}

	current, err := s.resolveForDate(ctx, fran, s.targetDate(fran, forDate))
	if err != nil {
		return payperiod.PayPeriodResponse{}, err
	}

	previous, err := s.resolveForDate(ctx, fran, current.StartDate.AddDate(0, 0, -1))
	if err != nil {
		return payperiod.PayPeriodResponse{}, err
	}

	return previous.ToResponse(), nil
}

// targetDate normalizes the requested date to a calendar date, defaulting to
// today in the franchise timezone.
func (s *PayPeriodServiceImpl) targetDate(fran franchise.Franchise, forDate *time.Time) time.Time {
	base := s.now().In(fran.Location())
	if forDate != nil {
		base = *forDate
	}
	year, month, day := base.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (s *PayPeriodServiceImpl) resolveForDate(ctx context.Context, fran franchise.Franchise, date time.Time) (payperiod.PayPeriod, error) {
	override, err := s.PayPeriodOverrideRepository.GetForDate(ctx, fran.ID, date)
	if err != nil {
		return payperiod.PayPeriod{}, err
	}
	if override != nil {
		return payperiod.FromOverride(*override, date, fran.Location()), nil
	}

	periodType := fran.PeriodType
	if !periodType.Valid() {
		return payperiod.PayPeriod{}, payperiod.ErrInvalidPeriodType
	}

	return payperiod.ComputeWindow(periodType, date, fran.Location())
}
