package timeentry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tutorlane/timecard-backend-go/internal/domain/attestation"
	"github.com/tutorlane/timecard-backend-go/internal/domain/franchise"
	"github.com/tutorlane/timecard-backend-go/internal/domain/schedule"
	"github.com/tutorlane/timecard-backend-go/internal/domain/timeentry"
	"github.com/tutorlane/timecard-backend-go/internal/domain/tutor"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/jwt"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/locker"
)

// mutationLockTTL bounds how long a crashed worker can hold a day key.
const mutationLockTTL = 10 * time.Second

type TimeEntryServiceImpl struct {
	timeentry.TimeEntryRepository
	tutorRepo     tutor.TutorRepository
	franchiseRepo franchise.FranchiseRepository
	gate          attestation.AttestationService
	fetcher       schedule.SnapshotFetcher
	tx            timeentry.Transactor
	locks         locker.Locker
	now           func() time.Time
}

func NewTimeEntryService(
	timeEntryRepo timeentry.TimeEntryRepository,
	tutorRepo tutor.TutorRepository,
	franchiseRepo franchise.FranchiseRepository,
	gate attestation.AttestationService,
	fetcher schedule.SnapshotFetcher,
	tx timeentry.Transactor,
	locks locker.Locker,
) timeentry.TimeEntryService {
	return &TimeEntryServiceImpl{
		TimeEntryRepository: timeEntryRepo,
		tutorRepo:           tutorRepo,
		franchiseRepo:       franchiseRepo,
		gate:                gate,
		fetcher:             fetcher,
		tx:                  tx,
		locks:               locks,
		now:                 time.Now,
	}
}

func dayLockKey(tutorID string, workDate time.Time) string {
	return fmt.Sprintf("timecard:%s:%s", tutorID, workDate.Format("2006-01-02"))
}

func (s *TimeEntryServiceImpl) acquireDayLock(ctx context.Context, tutorID string, workDate time.Time) (func(), error) {
	release, err := s.locks.Acquire(ctx, dayLockKey(tutorID, workDate), mutationLockTTL)
	if err != nil {
		if errors.Is(err, locker.ErrNotAcquired) {
			return nil, timeentry.ErrConflict
		}
		return nil, fmt.Errorf("failed to acquire day lock: %w", err)
	}
	return release, nil
}

// SaveDay implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) SaveDay(ctx context.Context, tutorID string, req timeentry.SaveDayRequest) (timeentry.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.DayResponse{}, err
	}

	tut, err := s.tutorRepo.GetByID(ctx, tutorID)
	if err != nil {
		return timeentry.DayResponse{}, fmt.Errorf("failed to get tutor: %w", err)
	}

	release, err := s.acquireDayLock(ctx, tutorID, req.ParsedDate)
	if err != nil {
		return timeentry.DayResponse{}, err
	}
	defer release()

	existing, err := s.TimeEntryRepository.GetByTutorAndDate(ctx, tutorID, req.ParsedDate)
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	now := s.now().UTC()

	if existing == nil {
		day := timeentry.TimeEntryDay{
			FranchiseID: tut.FranchiseID,
			TutorID:     tutorID,
			WorkDate:    req.ParsedDate,
			Timezone:    tut.Timezone,
			Status:      timeentry.StatusDraft,
		}

		var created timeentry.TimeEntryDay
		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			created, err = s.TimeEntryRepository.Create(ctx, day)
			if err != nil {
				return err
			}
			if err := s.TimeEntryRepository.ReplaceSessions(ctx, created.ID,
				timeentry.SessionsFromIntervals(created.ID, req.ParsedIntervals)); err != nil {
				return err
			}
			return s.TimeEntryRepository.AppendAudit(ctx, timeentry.AuditRecord{
				DayID:            created.ID,
				Action:           timeentry.ActionSave,
				ActorAccountType: jwt.AccountTypeTutor,
				ActorAccountID:   tutorID,
				At:               now,
				PreviousStatus:   timeentry.StatusDraft,
				NewStatus:        timeentry.StatusDraft,
			})
		})
		if err != nil {
			return timeentry.DayResponse{}, err
		}

		return s.dayResponse(ctx, created.ID, created.FranchiseID, false)
	}

	// Saving is the creation/draft path; decided or pending days change
	// through AdminEdit only.
	if existing.Status != timeentry.StatusDraft {
		return timeentry.DayResponse{}, timeentry.ErrDayNotEditable
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.TimeEntryRepository.ReplaceSessions(ctx, existing.ID,
			timeentry.SessionsFromIntervals(existing.ID, req.ParsedIntervals)); err != nil {
			return err
		}
		if _, err := s.TimeEntryRepository.Update(ctx, *existing); err != nil {
			return err
		}
		return s.TimeEntryRepository.AppendAudit(ctx, timeentry.AuditRecord{
			DayID:            existing.ID,
			Action:           timeentry.ActionSave,
			ActorAccountType: jwt.AccountTypeTutor,
			ActorAccountID:   tutorID,
			At:               now,
			PreviousStatus:   timeentry.StatusDraft,
			NewStatus:        timeentry.StatusDraft,
		})
	})
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	return s.dayResponse(ctx, existing.ID, existing.FranchiseID, false)
}

// SubmitDay implements timeentry.TimeEntryService. The sole auto-approval
// path: an exact reconciliation match approves, anything else goes pending.
func (s *TimeEntryServiceImpl) SubmitDay(ctx context.Context, tutorID string, req timeentry.SubmitDayRequest) (timeentry.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.DayResponse{}, err
	}

	tut, err := s.tutorRepo.GetByID(ctx, tutorID)
	if err != nil {
		return timeentry.DayResponse{}, fmt.Errorf("failed to get tutor: %w", err)
	}

	fran, err := s.franchiseRepo.GetByID(ctx, tut.FranchiseID)
	if err != nil {
		return timeentry.DayResponse{}, fmt.Errorf("failed to get franchise: %w", err)
	}

	blocking, _, err := s.gate.IsBlocking(ctx, tutorID)
	if err != nil {
		return timeentry.DayResponse{}, fmt.Errorf("failed to check attestation gate: %w", err)
	}
	if blocking {
		return timeentry.DayResponse{}, attestation.ErrAttestationBlocking
	}

	release, err := s.acquireDayLock(ctx, tutorID, req.ParsedDate)
	if err != nil {
		return timeentry.DayResponse{}, err
	}
	defer release()

	day, err := s.TimeEntryRepository.GetByTutorAndDate(ctx, tutorID, req.ParsedDate)
	if err != nil {
		return timeentry.DayResponse{}, err
	}
	if day == nil {
		return timeentry.DayResponse{}, timeentry.ErrDayNotFound
	}
	if day.Status != timeentry.StatusDraft {
		return timeentry.DayResponse{}, timeentry.ErrDayAlreadySubmitted
	}

	snapshot := req.Snapshot
	if snapshot == nil {
		fetched, err := s.fetcher.FetchSnapshot(ctx, tutorID, req.ParsedDate)
		if err != nil {
			return timeentry.DayResponse{}, fmt.Errorf("%w: %v", timeentry.ErrSnapshotUnavailable, err)
		}
		snapshot = &fetched
	}

	policy := fran.ComparePolicy
	if !policy.Valid() {
		policy = schedule.PolicyExactBoundaries
	}
	comparison := schedule.Reconcile(day.Intervals(), *snapshot, policy)

	now := s.now().UTC()
	previous := day.Status

	day.ScheduleSnapshot = snapshot
	day.Comparison = &comparison
	day.SubmittedAt = &now
	if comparison.Matches {
		day.Status = timeentry.StatusApproved
	} else {
		day.Status = timeentry.StatusPending
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		updated, err := s.TimeEntryRepository.Update(ctx, *day)
		if err != nil {
			return err
		}
		*day = updated
		return s.TimeEntryRepository.AppendAudit(ctx, timeentry.AuditRecord{
			DayID:            day.ID,
			Action:           timeentry.ActionSubmit,
			ActorAccountType: jwt.AccountTypeTutor,
			ActorAccountID:   tutorID,
			At:               now,
			PreviousStatus:   previous,
			NewStatus:        day.Status,
		})
	})
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	return s.dayResponse(ctx, day.ID, day.FranchiseID, false)
}

// RecordClockInterval implements timeentry.TimeEntryService. Called by the
// clock engine with the closed session's interval; the work date is the
// session's start instant in the tutor's timezone, so a session crossing
// local midnight stays on the day it started.
func (s *TimeEntryServiceImpl) RecordClockInterval(ctx context.Context, tutorID string, interval schedule.Interval) (timeentry.DayResponse, error) {
	if !interval.EndAt.After(interval.StartAt) {
		return timeentry.DayResponse{}, timeentry.ErrNoSessionsOnClockOut
	}

	tut, err := s.tutorRepo.GetByID(ctx, tutorID)
	if err != nil {
		return timeentry.DayResponse{}, fmt.Errorf("failed to get tutor: %w", err)
	}

	startLocal := interval.StartAt.In(tut.Location())
	year, month, dayOfMonth := startLocal.Date()
	workDate := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)

	release, err := s.acquireDayLock(ctx, tutorID, workDate)
	if err != nil {
		return timeentry.DayResponse{}, err
	}
	defer release()

	existing, err := s.TimeEntryRepository.GetByTutorAndDate(ctx, tutorID, workDate)
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	now := s.now().UTC()

	if existing == nil {
		day := timeentry.TimeEntryDay{
			FranchiseID: tut.FranchiseID,
			TutorID:     tutorID,
			WorkDate:    workDate,
			Timezone:    tut.Timezone,
			Status:      timeentry.StatusDraft,
		}

		var created timeentry.TimeEntryDay
		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			created, err = s.TimeEntryRepository.Create(ctx, day)
			if err != nil {
				return err
			}
			if err := s.TimeEntryRepository.ReplaceSessions(ctx, created.ID,
				timeentry.SessionsFromIntervals(created.ID, []schedule.Interval{interval})); err != nil {
				return err
			}
			return s.TimeEntryRepository.AppendAudit(ctx, timeentry.AuditRecord{
				DayID:            created.ID,
				Action:           timeentry.ActionClockOut,
				ActorAccountType: jwt.AccountTypeTutor,
				ActorAccountID:   tutorID,
				At:               now,
				PreviousStatus:   timeentry.StatusDraft,
				NewStatus:        timeentry.StatusDraft,
			})
		})
		if err != nil {
			return timeentry.DayResponse{}, err
		}

		return s.dayResponse(ctx, created.ID, created.FranchiseID, false)
	}

	if existing.Status != timeentry.StatusDraft {
		// The session is already closed; a decided or pending day cannot
		// silently absorb more time. The caller surfaces this to the tutor.
		return timeentry.DayResponse{}, timeentry.ErrDayNotEditable
	}

	// Coalesce with any overlapping or touching manual sessions so the
	// non-overlap invariant holds.
	merged := schedule.Normalize(append(existing.Intervals(), interval))

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.TimeEntryRepository.ReplaceSessions(ctx, existing.ID,
			timeentry.SessionsFromIntervals(existing.ID, merged)); err != nil {
			return err
		}
		if _, err := s.TimeEntryRepository.Update(ctx, *existing); err != nil {
			return err
		}
		return s.TimeEntryRepository.AppendAudit(ctx, timeentry.AuditRecord{
			DayID:            existing.ID,
			Action:           timeentry.ActionClockOut,
			ActorAccountType: jwt.AccountTypeTutor,
			ActorAccountID:   tutorID,
			At:               now,
			PreviousStatus:   timeentry.StatusDraft,
			NewStatus:        timeentry.StatusDraft,
		})
	})
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	return s.dayResponse(ctx, existing.ID, existing.FranchiseID, false)
}

// AdminDecide implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) AdminDecide(ctx context.Context, actorAccountID string, franchiseID string, dayID string, req timeentry.DecideRequest) (timeentry.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.DayResponse{}, err
	}

	day, err := s.TimeEntryRepository.GetByID(ctx, dayID, franchiseID)
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	release, err := s.acquireDayLock(ctx, day.TutorID, day.WorkDate)
	if err != nil {
		return timeentry.DayResponse{}, err
	}
	defer release()

	// Re-read under the lock.
	day, err = s.TimeEntryRepository.GetByID(ctx, dayID, franchiseID)
	if err != nil {
		return timeentry.DayResponse{}, err
	}
	if day.Status != timeentry.StatusPending {
		return timeentry.DayResponse{}, timeentry.ErrDayNotPending
	}

	now := s.now().UTC()
	previous := day.Status

	reason := req.Reason
	day.DecidedBy = &actorAccountID
	day.DecidedAt = &now
	if reason != "" {
		day.DecisionReason = &reason
	} else {
		day.DecisionReason = nil
	}

	action := timeentry.ActionApprove
	day.Status = timeentry.StatusApproved
	if req.Decision == timeentry.DecisionDeny {
		action = timeentry.ActionDeny
		day.Status = timeentry.StatusDenied
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		updated, err := s.TimeEntryRepository.Update(ctx, day)
		if err != nil {
			return err
		}
		day = updated
		return s.TimeEntryRepository.AppendAudit(ctx, timeentry.AuditRecord{
			DayID:            day.ID,
			Action:           action,
			ActorAccountType: jwt.AccountTypeAdmin,
			ActorAccountID:   actorAccountID,
			At:               now,
			PreviousStatus:   previous,
			NewStatus:        day.Status,
		})
	})
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	return s.dayResponse(ctx, day.ID, day.FranchiseID, false)
}

// AdminEdit implements timeentry.TimeEntryService. Allowed from any status;
// the day always lands back on pending so a human re-reviews it.
func (s *TimeEntryServiceImpl) AdminEdit(ctx context.Context, actorAccountID string, franchiseID string, dayID string, req timeentry.AdminEditRequest) (timeentry.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.DayResponse{}, err
	}

	day, err := s.TimeEntryRepository.GetByID(ctx, dayID, franchiseID)
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	release, err := s.acquireDayLock(ctx, day.TutorID, day.WorkDate)
	if err != nil {
		return timeentry.DayResponse{}, err
	}
	defer release()

	day, err = s.TimeEntryRepository.GetByID(ctx, dayID, franchiseID)
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	now := s.now().UTC()
	previous := day.Status
	reason := req.Reason

	day.Status = timeentry.StatusPending
	day.DecisionReason = &reason
	// A fresh review is owed; the old decision survives in the history.
	day.DecidedBy = nil
	day.DecidedAt = nil

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.TimeEntryRepository.ReplaceSessions(ctx, day.ID,
			timeentry.SessionsFromIntervals(day.ID, req.ParsedIntervals)); err != nil {
			return err
		}
		updated, err := s.TimeEntryRepository.Update(ctx, day)
		if err != nil {
			return err
		}
		day = updated
		return s.TimeEntryRepository.AppendAudit(ctx, timeentry.AuditRecord{
			DayID:            day.ID,
			Action:           timeentry.ActionAdminEdit,
			ActorAccountType: jwt.AccountTypeAdmin,
			ActorAccountID:   actorAccountID,
			At:               now,
			PreviousStatus:   previous,
			NewStatus:        timeentry.StatusPending,
		})
	})
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	return s.dayResponse(ctx, day.ID, day.FranchiseID, false)
}

// GetDay implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) GetDay(ctx context.Context, dayID string, franchiseID string) (timeentry.DayResponse, error) {
	return s.dayResponse(ctx, dayID, franchiseID, true)
}

// ListDays implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) ListDays(ctx context.Context, franchiseID string, filter timeentry.ListFilter) (timeentry.ListDaysResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	days, total, err := s.TimeEntryRepository.List(ctx, filter, franchiseID)
	if err != nil {
		return timeentry.ListDaysResponse{}, fmt.Errorf("failed to list days: %w", err)
	}

	responses := make([]timeentry.DayResponse, 0, len(days))
	for _, day := range days {
		history, err := s.TimeEntryRepository.ListAudits(ctx, day.ID)
		if err != nil {
			return timeentry.ListDaysResponse{}, err
		}
		day.History = history
		responses = append(responses, mapDayToResponse(day, false))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return timeentry.ListDaysResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Days:       responses,
	}, nil
}

func (s *TimeEntryServiceImpl) dayResponse(ctx context.Context, dayID string, franchiseID string, includeHistory bool) (timeentry.DayResponse, error) {
	day, err := s.TimeEntryRepository.GetByID(ctx, dayID, franchiseID)
	if err != nil {
		return timeentry.DayResponse{}, err
	}

	history, err := s.TimeEntryRepository.ListAudits(ctx, dayID)
	if err != nil {
		return timeentry.DayResponse{}, err
	}
	day.History = history

	return mapDayToResponse(day, includeHistory), nil
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func mapAuditToResponse(rec timeentry.AuditRecord) timeentry.AuditResponse {
	return timeentry.AuditResponse{
		Action:           rec.Action,
		ActorAccountType: rec.ActorAccountType,
		ActorAccountID:   rec.ActorAccountID,
		At:               rec.At.Format(time.RFC3339),
		PreviousStatus:   string(rec.PreviousStatus),
		NewStatus:        string(rec.NewStatus),
	}
}

// mapDayToResponse converts a TimeEntryDay (with loaded history) to its DTO.
func mapDayToResponse(day timeentry.TimeEntryDay, includeHistory bool) timeentry.DayResponse {
	sessions := make([]timeentry.SessionResponse, 0, len(day.Sessions))
	for _, s := range day.Sessions {
		sessions = append(sessions, timeentry.SessionResponse{
			ID:        s.ID,
			StartAt:   s.StartAt.Format(time.RFC3339),
			EndAt:     s.EndAt.Format(time.RFC3339),
			SortOrder: s.SortOrder,
		})
	}

	resp := timeentry.DayResponse{
		ID:               day.ID,
		FranchiseID:      day.FranchiseID,
		TutorID:          day.TutorID,
		WorkDate:         day.WorkDate.Format("2006-01-02"),
		Timezone:         day.Timezone,
		Status:           string(day.Status),
		Sessions:         sessions,
		ScheduleSnapshot: day.ScheduleSnapshot,
		Comparison:       day.Comparison,
		SubmittedAt:      timePtrToString(day.SubmittedAt),
		DecidedBy:        day.DecidedBy,
		DecidedAt:        timePtrToString(day.DecidedAt),
		DecisionReason:   day.DecisionReason,
		WasEverApproved:  timeentry.WasEverApproved(day.History),
		CreatedAt:        day.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        day.UpdatedAt.Format(time.RFC3339),
	}

	if last := day.LastAudit(); last != nil {
		audit := mapAuditToResponse(*last)
		resp.LastAudit = &audit
	}

	if includeHistory {
		history := make([]timeentry.AuditResponse, 0, len(day.History))
		for _, rec := range day.History {
			history = append(history, mapAuditToResponse(rec))
		}
		resp.History = history
	}

	return resp
}
