package attestation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorlane/timecard-backend-go/internal/domain/attestation"
	"github.com/tutorlane/timecard-backend-go/internal/domain/franchise"
	"github.com/tutorlane/timecard-backend-go/internal/domain/tutor"
)

// ===== FAKES =====

type fakeAttestationRepo struct {
	records map[string]attestation.WeeklyAttestation // keyed by tutorID + week date
	seq     int
}

func newFakeAttestationRepo() *fakeAttestationRepo {
	return &fakeAttestationRepo{records: make(map[string]attestation.WeeklyAttestation)}
}

func key(tutorID string, weekStart time.Time) string {
	return tutorID + "|" + weekStart.Format("2006-01-02")
}

func (r *fakeAttestationRepo) GetByTutorAndWeek(_ context.Context, tutorID string, weekStart time.Time) (*attestation.WeeklyAttestation, error) {
	rec, ok := r.records[key(tutorID, weekStart)]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (r *fakeAttestationRepo) ListSignedWeekStarts(_ context.Context, tutorID string, from, to time.Time) ([]time.Time, error) {
	var weeks []time.Time
	for _, rec := range r.records {
		if rec.TutorID != tutorID || !rec.Signed {
			continue
		}
		if rec.WeekStart.Before(from) || rec.WeekStart.After(to) {
			continue
		}
		weeks = append(weeks, rec.WeekStart)
	}
	return weeks, nil
}

func (r *fakeAttestationRepo) Upsert(_ context.Context, att attestation.WeeklyAttestation) (attestation.WeeklyAttestation, error) {
	k := key(att.TutorID, att.WeekStart)
	if existing, ok := r.records[k]; ok {
		att.ID = existing.ID
		att.CreatedAt = existing.CreatedAt
	} else {
		r.seq++
		att.ID = key("att", att.WeekStart)
		att.CreatedAt = time.Now().UTC()
	}
	att.UpdatedAt = time.Now().UTC()
	r.records[k] = att
	return att, nil
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

type fakeFranchiseRepo struct {
	franchises map[string]franchise.Franchise
}

func (r *fakeFranchiseRepo) GetByID(_ context.Context, id string) (franchise.Franchise, error) {
	f, ok := r.franchises[id]
	if !ok {
		return franchise.Franchise{}, franchise.ErrFranchiseNotFound
	}
	return f, nil
}

// ===== FIXTURE =====

const testTutorID = "tu-1"

// Wednesday March 6, mid-afternoon UTC.
var testNow = time.Date(2024, time.March, 6, 15, 0, 0, 0, time.UTC)

func newService(t *testing.T, repo *fakeAttestationRepo, createdAt time.Time) *AttestationServiceImpl {
	t.Helper()
	return &AttestationServiceImpl{
		AttestationRepository: repo,
		tutorRepo: &fakeTutorRepo{tutors: map[string]tutor.Tutor{
			testTutorID: {
				ID:          testTutorID,
				FranchiseID: "fr-1",
				FullName:    "Jordan Vance",
				Timezone:    "UTC",
				CreatedAt:   createdAt,
			},
		}},
		franchiseRepo: &fakeFranchiseRepo{franchises: map[string]franchise.Franchise{
			"fr-1": {ID: "fr-1", AttestationTextVersion: "2024-01"},
		}},
		now: func() time.Time { return testNow },
	}
}

// ===== TESTS =====

func TestIsBlocking_UnsignedElapsedWeek(t *testing.T) {
	svc := newService(t, newFakeAttestationRepo(), testNow.AddDate(0, -1, 0))

	blocking, weekEnd, err := svc.IsBlocking(context.Background(), testTutorID)
	require.NoError(t, err)

	assert.True(t, blocking)
	require.NotNil(t, weekEnd)
	// The week of Feb 25 to Mar 2 is the latest elapsed one.
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), *weekEnd)
}

func TestIsBlocking_SignedWeekClears(t *testing.T) {
	repo := newFakeAttestationRepo()
	svc := newService(t, repo, time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC))

	// Sign every elapsed week since creation.
	for _, ws := range []time.Time{
		time.Date(2024, time.February, 18, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 25, 0, 0, 0, 0, time.UTC),
	} {
		signedAt := testNow
		_, err := repo.Upsert(context.Background(), attestation.WeeklyAttestation{
			TutorID:   testTutorID,
			WeekStart: ws,
			WeekEnd:   attestation.WeekEndDate(ws),
			Signed:    true,
			SignedAt:  &signedAt,
		})
		require.NoError(t, err)
	}

	blocking, weekEnd, err := svc.IsBlocking(context.Background(), testTutorID)
	require.NoError(t, err)
	assert.False(t, blocking)
	assert.Nil(t, weekEnd)
}

func TestIsBlocking_NewTutorHasNoElapsedWeek(t *testing.T) {
	// Created Monday of the current week.
	svc := newService(t, newFakeAttestationRepo(), time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC))

	blocking, weekEnd, err := svc.IsBlocking(context.Background(), testTutorID)
	require.NoError(t, err)
	assert.False(t, blocking)
	assert.Nil(t, weekEnd)
}

func TestStatus_UnsignedWeek(t *testing.T) {
	svc := newService(t, newFakeAttestationRepo(), testNow.AddDate(0, -1, 0))

	resp, err := svc.Status(context.Background(), testTutorID)
	require.NoError(t, err)

	assert.Equal(t, "2024-02-25", resp.WeekStart)
	assert.Equal(t, "2024-03-02", resp.WeekEnd)
	assert.False(t, resp.Signed)
	assert.True(t, resp.Blocking)
	require.NotNil(t, resp.MissingWeekEnd)
	assert.Equal(t, "2024-03-02", *resp.MissingWeekEnd)
}

func TestSign_ClearsBlocking(t *testing.T) {
	repo := newFakeAttestationRepo()
	// Created during the latest elapsed week: exactly one week to sign.
	svc := newService(t, repo, time.Date(2024, time.February, 27, 0, 0, 0, 0, time.UTC))

	resp, err := svc.Sign(context.Background(), testTutorID, attestation.SignRequest{TypedName: "Jordan Vance"})
	require.NoError(t, err)

	assert.Equal(t, "2024-02-25", resp.WeekStart)
	assert.True(t, resp.Signed)
	require.NotNil(t, resp.SignedAt)
	require.NotNil(t, resp.TypedName)
	assert.Equal(t, "Jordan Vance", *resp.TypedName)
	assert.Equal(t, "2024-01", resp.AttestationTextVersion)
	assert.False(t, resp.Blocking)

	blocking, _, err := svc.IsBlocking(context.Background(), testTutorID)
	require.NoError(t, err)
	assert.False(t, blocking)
}

func TestSign_StillBlockingWhenOlderWeekUnsigned(t *testing.T) {
	repo := newFakeAttestationRepo()
	// Two elapsed weeks, neither signed. Signing the most recent one leaves
	// the older week outstanding.
	svc := newService(t, repo, time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC))

	resp, err := svc.Sign(context.Background(), testTutorID, attestation.SignRequest{TypedName: "Jordan Vance"})
	require.NoError(t, err)

	assert.Equal(t, "2024-02-25", resp.WeekStart)
	assert.True(t, resp.Blocking)
	require.NotNil(t, resp.MissingWeekEnd)
	assert.Equal(t, "2024-02-24", *resp.MissingWeekEnd)
}

func TestSign_RequiresTypedName(t *testing.T) {
	svc := newService(t, newFakeAttestationRepo(), testNow.AddDate(0, -1, 0))

	_, err := svc.Sign(context.Background(), testTutorID, attestation.SignRequest{TypedName: "   "})
	assert.Error(t, err)
}

func TestSign_ResignUpdatesRecord(t *testing.T) {
	repo := newFakeAttestationRepo()
	svc := newService(t, repo, time.Date(2024, time.February, 27, 0, 0, 0, 0, time.UTC))

	_, err := svc.Sign(context.Background(), testTutorID, attestation.SignRequest{TypedName: "J. Vance"})
	require.NoError(t, err)

	resp, err := svc.Sign(context.Background(), testTutorID, attestation.SignRequest{TypedName: "Jordan Vance"})
	require.NoError(t, err)

	require.NotNil(t, resp.TypedName)
	assert.Equal(t, "Jordan Vance", *resp.TypedName)
	// Still one record for the week.
	assert.Len(t, repo.records, 1)
}

func TestReminder_MirrorsBlockingState(t *testing.T) {
	svc := newService(t, newFakeAttestationRepo(), testNow.AddDate(0, -1, 0))

	resp, err := svc.Reminder(context.Background(), testTutorID)
	require.NoError(t, err)

	assert.True(t, resp.Blocking)
	assert.Equal(t, "2024-02-25", resp.WeekStart)
	require.NotNil(t, resp.MissingWeekEnd)
	assert.Equal(t, "2024-03-02", *resp.MissingWeekEnd)
}
