package clock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlane/timecard-backend-go/internal/domain/attestation"
	"github.com/tutorlane/timecard-backend-go/internal/domain/clock"
	"github.com/tutorlane/timecard-backend-go/internal/domain/schedule"
	"github.com/tutorlane/timecard-backend-go/internal/domain/timeentry"
	"github.com/tutorlane/timecard-backend-go/internal/domain/tutor"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/locker"
)

// clockLockTTL bounds how long a crashed worker can hold a tutor's clock key.
const clockLockTTL = 10 * time.Second

type ClockServiceImpl struct {
	clock.ClockSessionRepository
	timeEntryRepo    timeentry.TimeEntryRepository
	timeEntryService timeentry.TimeEntryService
	tutorRepo        tutor.TutorRepository
	gate             attestation.AttestationService
	fetcher          schedule.SnapshotFetcher
	locks            locker.Locker
	now              func() time.Time
}

func NewClockService(
	clockRepo clock.ClockSessionRepository,
	timeEntryRepo timeentry.TimeEntryRepository,
	timeEntryService timeentry.TimeEntryService,
	tutorRepo tutor.TutorRepository,
	gate attestation.AttestationService,
	fetcher schedule.SnapshotFetcher,
	locks locker.Locker,
) clock.ClockService {
	return &ClockServiceImpl{
		ClockSessionRepository: clockRepo,
		timeEntryRepo:          timeEntryRepo,
		timeEntryService:       timeEntryService,
		tutorRepo:              tutorRepo,
		gate:                   gate,
		fetcher:                fetcher,
		locks:                  locks,
		now:                    time.Now,
	}
}

func clockLockKey(tutorID string) string {
	return fmt.Sprintf("clock:%s", tutorID)
}

func (s *ClockServiceImpl) acquireClockLock(ctx context.Context, tutorID string) (func(), error) {
	release, err := s.locks.Acquire(ctx, clockLockKey(tutorID), clockLockTTL)
	if err != nil {
		if errors.Is(err, locker.ErrNotAcquired) {
			return nil, timeentry.ErrConflict
		}
		return nil, fmt.Errorf("failed to acquire clock lock: %w", err)
	}
	return release, nil
}

// FetchState implements clock.ClockService.
func (s *ClockServiceImpl) FetchState(ctx context.Context, tutorID string) (clock.ClockStateResponse, error) {
	state, err := s.computeState(ctx, tutorID)
	if err != nil {
		return clock.ClockStateResponse{}, err
	}
	return mapStateToResponse(state), nil
}

// ClockIn implements clock.ClockService.
func (s *ClockServiceImpl) ClockIn(ctx context.Context, tutorID string) (clock.ClockStateResponse, error) {
	blocking, _, err := s.gate.IsBlocking(ctx, tutorID)
	if err != nil {
		return clock.ClockStateResponse{}, fmt.Errorf("failed to check attestation gate: %w", err)
	}
	if blocking {
		return clock.ClockStateResponse{}, attestation.ErrAttestationBlocking
	}

	release, err := s.acquireClockLock(ctx, tutorID)
	if err != nil {
		return clock.ClockStateResponse{}, err
	}
	defer release()

	open, err := s.ClockSessionRepository.GetOpenSession(ctx, tutorID)
	if err != nil {
		return clock.ClockStateResponse{}, err
	}
	if open != nil {
		return clock.ClockStateResponse{}, clock.ErrAlreadyClockedIn
	}

	// The unique index on tutor_id backstops the lock: a concurrent insert
	// still cannot open a second session.
	_, err = s.ClockSessionRepository.Create(ctx, clock.ClockSession{
		ID:        uuid.NewString(),
		TutorID:   tutorID,
		StartedAt: s.now().UTC(),
	})
	if err != nil {
		return clock.ClockStateResponse{}, err
	}

	return s.FetchState(ctx, tutorID)
}

// ClockOut implements clock.ClockService. The session close and interval
// merge always stand once they happen; finalization is best-effort on top.
func (s *ClockServiceImpl) ClockOut(ctx context.Context, tutorID string, req clock.ClockOutRequest) (clock.ClockOutResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.ClockOutResponse{}, err
	}

	tut, err := s.tutorRepo.GetByID(ctx, tutorID)
	if err != nil {
		return clock.ClockOutResponse{}, fmt.Errorf("failed to get tutor: %w", err)
	}

	release, err := s.acquireClockLock(ctx, tutorID)
	if err != nil {
		return clock.ClockOutResponse{}, err
	}
	defer release()

	open, err := s.ClockSessionRepository.GetOpenSession(ctx, tutorID)
	if err != nil {
		return clock.ClockOutResponse{}, err
	}
	if open == nil {
		return clock.ClockOutResponse{}, clock.ErrNoOpenSession
	}

	now := s.now().UTC()
	interval := schedule.Interval{StartAt: open.StartedAt.UTC(), EndAt: now}

	startLocal := interval.StartAt.In(tut.Location())
	year, month, dayOfMonth := startLocal.Date()
	workDate := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)

	var day *timeentry.DayResponse
	if interval.EndAt.After(interval.StartAt) {
		merged, err := s.timeEntryService.RecordClockInterval(ctx, tutorID, interval)
		switch {
		case err == nil:
			day = &merged
		case errors.Is(err, timeentry.ErrDayNotEditable):
			// The day was decided while the session ran. Close the session
			// anyway and surface the day untouched; the admin edit path owns
			// further changes.
		default:
			// Leave the session open so the tutor can retry without losing time.
			return clock.ClockOutResponse{}, err
		}
	}

	if err := s.ClockSessionRepository.Delete(ctx, open.ID); err != nil {
		return clock.ClockOutResponse{}, err
	}

	snapshot := req.Snapshot
	if snapshot == nil {
		if fetched, ferr := s.fetcher.FetchSnapshot(ctx, tutorID, workDate); ferr == nil {
			snapshot = &fetched
		}
	}

	finalized := false
	if req.Finalize && day != nil {
		submitted, serr := s.timeEntryService.SubmitDay(ctx, tutorID, timeentry.SubmitDayRequest{
			WorkDate: day.WorkDate,
			Snapshot: snapshot,
		})
		switch {
		case serr == nil:
			day = &submitted
			finalized = true
		case errors.Is(serr, timeentry.ErrSnapshotUnavailable),
			errors.Is(serr, attestation.ErrAttestationBlocking):
			// The day stays draft; the clock-out itself is already done.
		default:
			return clock.ClockOutResponse{}, serr
		}
	}

	state, err := s.computeState(ctx, tutorID)
	if err != nil {
		return clock.ClockOutResponse{}, err
	}

	prompt := !finalized && snapshot != nil && schedule.HasRemainingScheduledTime(*snapshot, now)

	return clock.ClockOutResponse{
		State:                   mapStateToResponse(state),
		Day:                     day,
		PromptRemainingSchedule: prompt,
	}, nil
}

// computeState derives the tutor's clock state from persisted rows. The open
// session is the single source of truth for being clocked in.
func (s *ClockServiceImpl) computeState(ctx context.Context, tutorID string) (clock.ClockState, error) {
	tut, err := s.tutorRepo.GetByID(ctx, tutorID)
	if err != nil {
		return clock.ClockState{}, fmt.Errorf("failed to get tutor: %w", err)
	}

	open, err := s.ClockSessionRepository.GetOpenSession(ctx, tutorID)
	if err != nil {
		return clock.ClockState{}, err
	}

	blocking, missingWeekEnd, err := s.gate.IsBlocking(ctx, tutorID)
	if err != nil {
		return clock.ClockState{}, fmt.Errorf("failed to check attestation gate: %w", err)
	}

	nowLocal := s.now().In(tut.Location())
	year, month, dayOfMonth := nowLocal.Date()
	today := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)

	day, err := s.timeEntryRepo.GetByTutorAndDate(ctx, tutorID, today)
	if err != nil {
		return clock.ClockState{}, err
	}

	state := clock.ClockState{
		AttestationBlocking: blocking,
		MissingWeekEnd:      missingWeekEnd,
	}
	if open != nil {
		state.ClockState = 1
		state.PersistedClockState = 1
		state.OpenSessionID = &open.ID
		startedAt := open.StartedAt.UTC()
		state.StartedAt = &startedAt
	}
	if day != nil {
		state.DayID = &day.ID
		status := day.Status
		state.DayStatus = &status
	}

	return state, nil
}

func mapStateToResponse(state clock.ClockState) clock.ClockStateResponse {
	resp := clock.ClockStateResponse{
		ClockState:          state.ClockState,
		PersistedClockState: state.PersistedClockState,
		OpenSessionID:       state.OpenSessionID,
		AttestationBlocking: state.AttestationBlocking,
	}
	if state.StartedAt != nil {
		startedAt := state.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &startedAt
	}
	resp.DayID = state.DayID
	if state.DayStatus != nil {
		status := string(*state.DayStatus)
		resp.DayStatus = &status
	}
	if state.MissingWeekEnd != nil {
		weekEnd := state.MissingWeekEnd.Format("2006-01-02")
		resp.MissingWeekEnd = &weekEnd
	}
	return resp
}
