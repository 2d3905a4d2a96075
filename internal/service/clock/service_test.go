package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorlane/timecard-backend-go/internal/domain/attestation"
	"github.com/tutorlane/timecard-backend-go/internal/domain/clock"
	"github.com/tutorlane/timecard-backend-go/internal/domain/schedule"
	"github.com/tutorlane/timecard-backend-go/internal/domain/timeentry"
	"github.com/tutorlane/timecard-backend-go/internal/domain/tutor"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/locker"
)

// ===== FAKES =====

type fakeClockRepo struct {
	sessions map[string]clock.ClockSession // keyed by tutor ID
}

func newFakeClockRepo() *fakeClockRepo {
	return &fakeClockRepo{sessions: make(map[string]clock.ClockSession)}
}

func (r *fakeClockRepo) GetOpenSession(_ context.Context, tutorID string) (*clock.ClockSession, error) {
	s, ok := r.sessions[tutorID]
	if !ok {
		return nil, nil
	}
	out := s
	return &out, nil
}

func (r *fakeClockRepo) Create(_ context.Context, session clock.ClockSession) (clock.ClockSession, error) {
	if _, ok := r.sessions[session.TutorID]; ok {
		return clock.ClockSession{}, clock.ErrAlreadyClockedIn
	}
	session.CreatedAt = time.Now().UTC()
	r.sessions[session.TutorID] = session
	return session, nil
}

func (r *fakeClockRepo) Delete(_ context.Context, id string) error {
	for tutorID, s := range r.sessions {
		if s.ID == id {
			delete(r.sessions, tutorID)
			return nil
		}
	}
	return clock.ErrNoOpenSession
}

// fakeTimeEntrySvc records the calls the clock engine hands off.
type fakeTimeEntrySvc struct {
	recordFn func(tutorID string, interval schedule.Interval) (timeentry.DayResponse, error)
	submitFn func(tutorID string, req timeentry.SubmitDayRequest) (timeentry.DayResponse, error)

	recordedIntervals []schedule.Interval
	submitCalls       int
}

func (s *fakeTimeEntrySvc) SaveDay(context.Context, string, timeentry.SaveDayRequest) (timeentry.DayResponse, error) {
	return timeentry.DayResponse{}, nil
}

func (s *fakeTimeEntrySvc) SubmitDay(_ context.Context, tutorID string, req timeentry.SubmitDayRequest) (timeentry.DayResponse, error) {
	s.submitCalls++
	if s.submitFn != nil {
		return s.submitFn(tutorID, req)
	}
	return timeentry.DayResponse{}, nil
}

func (s *fakeTimeEntrySvc) RecordClockInterval(_ context.Context, tutorID string, interval schedule.Interval) (timeentry.DayResponse, error) {
	s.recordedIntervals = append(s.recordedIntervals, interval)
	if s.recordFn != nil {
		return s.recordFn(tutorID, interval)
	}
	return timeentry.DayResponse{ID: "day-1", TutorID: tutorID, Status: string(timeentry.StatusDraft), WorkDate: "2024-03-04"}, nil
}

func (s *fakeTimeEntrySvc) AdminDecide(context.Context, string, string, string, timeentry.DecideRequest) (timeentry.DayResponse, error) {
	return timeentry.DayResponse{}, nil
}

func (s *fakeTimeEntrySvc) AdminEdit(context.Context, string, string, string, timeentry.AdminEditRequest) (timeentry.DayResponse, error) {
	return timeentry.DayResponse{}, nil
}

func (s *fakeTimeEntrySvc) GetDay(context.Context, string, string) (timeentry.DayResponse, error) {
	return timeentry.DayResponse{}, nil
}

func (s *fakeTimeEntrySvc) ListDays(context.Context, string, timeentry.ListFilter) (timeentry.ListDaysResponse, error) {
	return timeentry.ListDaysResponse{}, nil
}

// fakeDayRepo only serves the day lookup the state computation performs.
type fakeDayRepo struct {
	day *timeentry.TimeEntryDay
}

func (r *fakeDayRepo) Create(_ context.Context, day timeentry.TimeEntryDay) (timeentry.TimeEntryDay, error) {
	return day, nil
}

func (r *fakeDayRepo) GetByID(context.Context, string, string) (timeentry.TimeEntryDay, error) {
	return timeentry.TimeEntryDay{}, timeentry.ErrDayNotFound
}

func (r *fakeDayRepo) GetByTutorAndDate(context.Context, string, time.Time) (*timeentry.TimeEntryDay, error) {
	return r.day, nil
}

func (r *fakeDayRepo) Update(_ context.Context, day timeentry.TimeEntryDay) (timeentry.TimeEntryDay, error) {
	return day, nil
}

func (r *fakeDayRepo) ReplaceSessions(context.Context, string, []timeentry.Session) error {
	return nil
}

func (r *fakeDayRepo) AppendAudit(context.Context, timeentry.AuditRecord) error {
	return nil
}

func (r *fakeDayRepo) ListAudits(context.Context, string) ([]timeentry.AuditRecord, error) {
	return nil, nil
}

func (r *fakeDayRepo) List(context.Context, timeentry.ListFilter, string) ([]timeentry.TimeEntryDay, int64, error) {
	return nil, 0, nil
}

type fakeTutorRepo struct {
	tutors map[string]tutor.Tutor
}

func (r *fakeTutorRepo) GetByID(_ context.Context, id string) (tutor.Tutor, error) {
	t, ok := r.tutors[id]
	if !ok {
		return tutor.Tutor{}, tutor.ErrTutorNotFound
	}
	return t, nil
}

type fakeGate struct {
	blocking bool
	weekEnd  *time.Time
}

func (g *fakeGate) IsBlocking(context.Context, string) (bool, *time.Time, error) {
	return g.blocking, g.weekEnd, nil
}

func (g *fakeGate) Status(context.Context, string) (attestation.AttestationResponse, error) {
	return attestation.AttestationResponse{}, nil
}

func (g *fakeGate) Reminder(context.Context, string) (attestation.ReminderResponse, error) {
	return attestation.ReminderResponse{}, nil
}

func (g *fakeGate) Sign(context.Context, string, attestation.SignRequest) (attestation.AttestationResponse, error) {
	return attestation.AttestationResponse{}, nil
}

type fakeFetcher struct {
	snapshot schedule.Snapshot
	err      error
}

func (f *fakeFetcher) FetchSnapshot(context.Context, string, time.Time) (schedule.Snapshot, error) {
	if f.err != nil {
		return schedule.Snapshot{}, f.err
	}
	return f.snapshot, nil
}

// ===== FIXTURE =====

const testTutorID = "tu-1"

var testNow = time.Date(2024, time.March, 4, 22, 0, 0, 0, time.UTC)

type fixture struct {
	clockRepo *fakeClockRepo
	dayRepo   *fakeDayRepo
	teSvc     *fakeTimeEntrySvc
	gate      *fakeGate
	fetcher   *fakeFetcher
	svc       *ClockServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clockRepo := newFakeClockRepo()
	dayRepo := &fakeDayRepo{}
	teSvc := &fakeTimeEntrySvc{}
	gate := &fakeGate{}
	fetcher := &fakeFetcher{}

	svc := &ClockServiceImpl{
		ClockSessionRepository: clockRepo,
		timeEntryRepo:          dayRepo,
		timeEntryService:       teSvc,
		tutorRepo: &fakeTutorRepo{tutors: map[string]tutor.Tutor{
			testTutorID: {
				ID:          testTutorID,
				FranchiseID: "fr-1",
				Timezone:    "America/Chicago",
				CreatedAt:   testNow.AddDate(0, -2, 0),
			},
		}},
		gate:    gate,
		fetcher: fetcher,
		locks:   locker.NewMemoryLocker(),
		now:     func() time.Time { return testNow },
	}

	return &fixture{clockRepo: clockRepo, dayRepo: dayRepo, teSvc: teSvc, gate: gate, fetcher: fetcher, svc: svc}
}

// ===== TESTS =====

func TestClockIn_OpensSession(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.ClockIn(context.Background(), testTutorID)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.ClockState)
	assert.Equal(t, 1, resp.PersistedClockState)
	require.NotNil(t, resp.OpenSessionID)
	require.NotNil(t, resp.StartedAt)
	assert.Equal(t, testNow.Format(time.RFC3339), *resp.StartedAt)
}

func TestClockIn_SecondSessionRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(context.Background(), testTutorID)
	require.NoError(t, err)

	_, err = f.svc.ClockIn(context.Background(), testTutorID)
	assert.ErrorIs(t, err, clock.ErrAlreadyClockedIn)
}

func TestClockIn_BlockedByAttestation(t *testing.T) {
	f := newFixture(t)
	f.gate.blocking = true

	_, err := f.svc.ClockIn(context.Background(), testTutorID)
	assert.ErrorIs(t, err, attestation.ErrAttestationBlocking)

	// No session was opened.
	assert.Empty(t, f.clockRepo.sessions)
}

func TestClockOut_NoOpenSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockOut(context.Background(), testTutorID, clock.ClockOutRequest{})
	assert.ErrorIs(t, err, clock.ErrNoOpenSession)
}

func TestClockOut_MergesIntervalAndClosesSession(t *testing.T) {
	f := newFixture(t)

	startedAt := testNow.Add(-2 * time.Hour)
	f.clockRepo.sessions[testTutorID] = clock.ClockSession{ID: "cs-1", TutorID: testTutorID, StartedAt: startedAt}

	resp, err := f.svc.ClockOut(context.Background(), testTutorID, clock.ClockOutRequest{})
	require.NoError(t, err)

	require.Len(t, f.teSvc.recordedIntervals, 1)
	assert.Equal(t, startedAt, f.teSvc.recordedIntervals[0].StartAt)
	assert.Equal(t, testNow, f.teSvc.recordedIntervals[0].EndAt)

	assert.Empty(t, f.clockRepo.sessions)
	assert.Equal(t, 0, resp.State.ClockState)
	require.NotNil(t, resp.Day)
	assert.Equal(t, string(timeentry.StatusDraft), resp.Day.Status)
	assert.Equal(t, 0, f.teSvc.submitCalls)
}

func TestClockOut_FinalizeSubmitsDay(t *testing.T) {
	f := newFixture(t)

	f.clockRepo.sessions[testTutorID] = clock.ClockSession{ID: "cs-1", TutorID: testTutorID, StartedAt: testNow.Add(-2 * time.Hour)}
	f.fetcher.snapshot = schedule.Snapshot{Intervals: []schedule.Interval{{
		StartAt: testNow.Add(-2 * time.Hour),
		EndAt:   testNow,
	}}}
	f.teSvc.submitFn = func(_ string, req timeentry.SubmitDayRequest) (timeentry.DayResponse, error) {
		require.NotNil(t, req.Snapshot)
		return timeentry.DayResponse{ID: "day-1", Status: string(timeentry.StatusApproved), WorkDate: req.WorkDate}, nil
	}

	resp, err := f.svc.ClockOut(context.Background(), testTutorID, clock.ClockOutRequest{Finalize: true})
	require.NoError(t, err)

	assert.Equal(t, 1, f.teSvc.submitCalls)
	require.NotNil(t, resp.Day)
	assert.Equal(t, string(timeentry.StatusApproved), resp.Day.Status)
	// Finalized: nothing left to prompt about.
	assert.False(t, resp.PromptRemainingSchedule)
}

func TestClockOut_FinalizeSurvivesSnapshotFailure(t *testing.T) {
	f := newFixture(t)

	f.clockRepo.sessions[testTutorID] = clock.ClockSession{ID: "cs-1", TutorID: testTutorID, StartedAt: testNow.Add(-2 * time.Hour)}
	f.fetcher.err = errors.New("upstream 503")
	f.teSvc.submitFn = func(string, timeentry.SubmitDayRequest) (timeentry.DayResponse, error) {
		return timeentry.DayResponse{}, timeentry.ErrSnapshotUnavailable
	}

	resp, err := f.svc.ClockOut(context.Background(), testTutorID, clock.ClockOutRequest{Finalize: true})
	require.NoError(t, err)

	// The session closed and the merged draft day is returned unsubmitted.
	assert.Empty(t, f.clockRepo.sessions)
	require.NotNil(t, resp.Day)
	assert.Equal(t, string(timeentry.StatusDraft), resp.Day.Status)
}

func TestClockOut_PromptWhenScheduleRemains(t *testing.T) {
	f := newFixture(t)

	f.clockRepo.sessions[testTutorID] = clock.ClockSession{ID: "cs-1", TutorID: testTutorID, StartedAt: testNow.Add(-2 * time.Hour)}
	// More scheduled time later today.
	f.fetcher.snapshot = schedule.Snapshot{Intervals: []schedule.Interval{{
		StartAt: testNow.Add(time.Hour),
		EndAt:   testNow.Add(3 * time.Hour),
	}}}

	resp, err := f.svc.ClockOut(context.Background(), testTutorID, clock.ClockOutRequest{})
	require.NoError(t, err)

	assert.True(t, resp.PromptRemainingSchedule)
}

func TestClockOut_NoPromptWhenScheduleDone(t *testing.T) {
	f := newFixture(t)

	f.clockRepo.sessions[testTutorID] = clock.ClockSession{ID: "cs-1", TutorID: testTutorID, StartedAt: testNow.Add(-2 * time.Hour)}
	f.fetcher.snapshot = schedule.Snapshot{Intervals: []schedule.Interval{{
		StartAt: testNow.Add(-2 * time.Hour),
		EndAt:   testNow.Add(-time.Hour),
	}}}

	resp, err := f.svc.ClockOut(context.Background(), testTutorID, clock.ClockOutRequest{})
	require.NoError(t, err)

	assert.False(t, resp.PromptRemainingSchedule)
}

func TestClockOut_DecidedDayStillClosesSession(t *testing.T) {
	f := newFixture(t)

	f.clockRepo.sessions[testTutorID] = clock.ClockSession{ID: "cs-1", TutorID: testTutorID, StartedAt: testNow.Add(-time.Hour)}
	f.teSvc.recordFn = func(string, schedule.Interval) (timeentry.DayResponse, error) {
		return timeentry.DayResponse{}, timeentry.ErrDayNotEditable
	}

	resp, err := f.svc.ClockOut(context.Background(), testTutorID, clock.ClockOutRequest{})
	require.NoError(t, err)

	assert.Empty(t, f.clockRepo.sessions)
	assert.Nil(t, resp.Day)
	assert.Equal(t, 0, resp.State.ClockState)
}

func TestClockOut_MergeFailureKeepsSessionOpen(t *testing.T) {
	f := newFixture(t)

	f.clockRepo.sessions[testTutorID] = clock.ClockSession{ID: "cs-1", TutorID: testTutorID, StartedAt: testNow.Add(-time.Hour)}
	f.teSvc.recordFn = func(string, schedule.Interval) (timeentry.DayResponse, error) {
		return timeentry.DayResponse{}, errors.New("db down")
	}

	_, err := f.svc.ClockOut(context.Background(), testTutorID, clock.ClockOutRequest{})
	require.Error(t, err)

	// Retryable: the open session survives.
	assert.Len(t, f.clockRepo.sessions, 1)
}

func TestFetchState_ReportsDayAndAttestation(t *testing.T) {
	f := newFixture(t)

	weekEnd := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	f.gate.blocking = true
	f.gate.weekEnd = &weekEnd
	status := timeentry.StatusPending
	f.dayRepo.day = &timeentry.TimeEntryDay{ID: "day-9", Status: status}

	resp, err := f.svc.FetchState(context.Background(), testTutorID)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.ClockState)
	assert.True(t, resp.AttestationBlocking)
	require.NotNil(t, resp.MissingWeekEnd)
	assert.Equal(t, "2024-03-02", *resp.MissingWeekEnd)
	require.NotNil(t, resp.DayID)
	assert.Equal(t, "day-9", *resp.DayID)
	require.NotNil(t, resp.DayStatus)
	assert.Equal(t, string(timeentry.StatusPending), *resp.DayStatus)
}
