package attestation

import (
	"context"
	"fmt"
	"time"

	"github.com/tutorlane/timecard-backend-go/internal/domain/attestation"
	"github.com/tutorlane/timecard-backend-go/internal/domain/franchise"
	"github.com/tutorlane/timecard-backend-go/internal/domain/tutor"
)

type AttestationServiceImpl struct {
	attestation.AttestationRepository
	tutorRepo     tutor.TutorRepository
	franchiseRepo franchise.FranchiseRepository
	now           func() time.Time
}

func NewAttestationService(
	attestationRepo attestation.AttestationRepository,
	tutorRepo tutor.TutorRepository,
	franchiseRepo franchise.FranchiseRepository,
) attestation.AttestationService {
	return &AttestationServiceImpl{
		AttestationRepository: attestationRepo,
		tutorRepo:             tutorRepo,
		franchiseRepo:         franchiseRepo,
		now:                   time.Now,
	}
}

// IsBlocking implements attestation.AttestationService.
func (s *AttestationServiceImpl) IsBlocking(ctx context.Context, tutorID string) (bool, *time.Time, error) {
	missing, _, err := s.missingWeekStart(ctx, tutorID)
	if err != nil {
		return false, nil, err
	}
	if missing == nil {
		return false, nil, nil
	}

	weekEnd := attestation.WeekEndDate(attestation.WeekDateOf(*missing))
	return true, &weekEnd, nil
}

// Status implements attestation.AttestationService.
func (s *AttestationServiceImpl) Status(ctx context.Context, tutorID string) (attestation.AttestationResponse, error) {
	missing, tut, err := s.missingWeekStart(ctx, tutorID)
	if err != nil {
		return attestation.AttestationResponse{}, err
	}

	weekStart := s.targetWeekDate(missing, tut)

	record, err := s.AttestationRepository.GetByTutorAndWeek(ctx, tutorID, weekStart)
	if err != nil {
		return attestation.AttestationResponse{}, err
	}

	resp := attestation.AttestationResponse{
		WeekStart: weekStart.Format("2006-01-02"),
		WeekEnd:   attestation.WeekEndDate(weekStart).Format("2006-01-02"),
		Blocking:  missing != nil,
	}
	if missing != nil {
		weekEnd := attestation.WeekEndDate(attestation.WeekDateOf(*missing)).Format("2006-01-02")
		resp.MissingWeekEnd = &weekEnd
	}
	if record != nil {
		resp.Signed = record.Signed
		resp.AttestationTextVersion = record.AttestationTextVersion
		if record.SignedAt != nil {
			signedAt := record.SignedAt.Format(time.RFC3339)
			resp.SignedAt = &signedAt
		}
		if record.TypedName != "" {
			typedName := record.TypedName
			resp.TypedName = &typedName
		}
	}

	return resp, nil
}

// Reminder implements attestation.AttestationService.
func (s *AttestationServiceImpl) Reminder(ctx context.Context, tutorID string) (attestation.ReminderResponse, error) {
	missing, tut, err := s.missingWeekStart(ctx, tutorID)
	if err != nil {
		return attestation.ReminderResponse{}, err
	}

	weekStart := s.targetWeekDate(missing, tut)

	resp := attestation.ReminderResponse{
		WeekStart: weekStart.Format("2006-01-02"),
		WeekEnd:   attestation.WeekEndDate(weekStart).Format("2006-01-02"),
		Blocking:  missing != nil,
	}
	if missing != nil {
		weekEnd := attestation.WeekEndDate(attestation.WeekDateOf(*missing)).Format("2006-01-02")
		resp.MissingWeekEnd = &weekEnd
	}

	return resp, nil
}

// Sign implements attestation.AttestationService. The signature lands on the
// missing week when one blocks, otherwise on the most recent elapsed week
// visible to the tutor.
func (s *AttestationServiceImpl) Sign(ctx context.Context, tutorID string, req attestation.SignRequest) (attestation.AttestationResponse, error) {
	if err := req.Validate(); err != nil {
		return attestation.AttestationResponse{}, err
	}

	missing, tut, err := s.missingWeekStart(ctx, tutorID)
	if err != nil {
		return attestation.AttestationResponse{}, err
	}

	fran, err := s.franchiseRepo.GetByID(ctx, tut.FranchiseID)
	if err != nil {
		return attestation.AttestationResponse{}, fmt.Errorf("failed to get franchise: %w", err)
	}

	weekStart := s.targetWeekDate(missing, tut)
	signedAt := s.now().UTC()

	record, err := s.AttestationRepository.Upsert(ctx, attestation.WeeklyAttestation{
		TutorID:                tutorID,
		WeekStart:              weekStart,
		WeekEnd:                attestation.WeekEndDate(weekStart),
		Signed:                 true,
		SignedAt:               &signedAt,
		TypedName:              req.TypedName,
		AttestationTextVersion: fran.AttestationTextVersion,
	})
	if err != nil {
		return attestation.AttestationResponse{}, err
	}

	// Another unsigned week may still block after this one is signed.
	stillMissing, _, err := s.missingWeekStart(ctx, tutorID)
	if err != nil {
		return attestation.AttestationResponse{}, err
	}

	signedAtStr := record.SignedAt.Format(time.RFC3339)
	typedName := record.TypedName

	resp := attestation.AttestationResponse{
		WeekStart:              record.WeekStart.Format("2006-01-02"),
		WeekEnd:                record.WeekEnd.Format("2006-01-02"),
		Signed:                 true,
		SignedAt:               &signedAtStr,
		TypedName:              &typedName,
		AttestationTextVersion: record.AttestationTextVersion,
		Blocking:               stillMissing != nil,
	}
	if stillMissing != nil {
		weekEnd := attestation.WeekEndDate(attestation.WeekDateOf(*stillMissing)).Format("2006-01-02")
		resp.MissingWeekEnd = &weekEnd
	}

	return resp, nil
}

// missingWeekStart finds the first unsigned fully-elapsed week, walking back
// from the most recent one. Returns the tutor alongside so callers avoid a
// second lookup.
func (s *AttestationServiceImpl) missingWeekStart(ctx context.Context, tutorID string) (*time.Time, tutor.Tutor, error) {
	tut, err := s.tutorRepo.GetByID(ctx, tutorID)
	if err != nil {
		return nil, tutor.Tutor{}, fmt.Errorf("failed to get tutor: %w", err)
	}

	loc := tut.Location()
	nowLocal := s.now().In(loc)
	earliestLocal := tut.CreatedAt.In(loc)

	latest := attestation.LatestElapsedWeekStart(nowLocal)
	floor := attestation.WeekStartLocal(earliestLocal)
	if latest.Before(floor) {
		// No week has fully elapsed since the tutor was created.
		return nil, tut, nil
	}

	signedWeeks, err := s.AttestationRepository.ListSignedWeekStarts(ctx, tutorID,
		attestation.WeekDateOf(floor), attestation.WeekDateOf(latest))
	if err != nil {
		return nil, tutor.Tutor{}, err
	}

	signed := make(map[time.Time]bool, len(signedWeeks))
	for _, ws := range signedWeeks {
		signed[ws.UTC().Truncate(24*time.Hour)] = true
	}

	missing := attestation.MissingWeekStart(nowLocal, earliestLocal, func(weekStartDate time.Time) bool {
		return signed[weekStartDate]
	})

	return missing, tut, nil
}

// targetWeekDate is the calendar week a signature applies to: the missing
// week when one exists, otherwise the latest elapsed week, floored at the
// tutor's first week.
func (s *AttestationServiceImpl) targetWeekDate(missing *time.Time, tut tutor.Tutor) time.Time {
	if missing != nil {
		return attestation.WeekDateOf(*missing)
	}

	loc := tut.Location()
	latest := attestation.LatestElapsedWeekStart(s.now().In(loc))
	floor := attestation.WeekStartLocal(tut.CreatedAt.In(loc))
	if latest.Before(floor) {
		return attestation.WeekDateOf(floor)
	}
	return attestation.WeekDateOf(latest)
}
