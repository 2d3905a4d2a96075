package response

import (
	"errors"
	"net/http"

	"github.com/tutorlane/timecard-backend-go/internal/domain/attestation"
	"github.com/tutorlane/timecard-backend-go/internal/domain/clock"
	"github.com/tutorlane/timecard-backend-go/internal/domain/franchise"
	"github.com/tutorlane/timecard-backend-go/internal/domain/payperiod"
	"github.com/tutorlane/timecard-backend-go/internal/domain/timeentry"
	"github.com/tutorlane/timecard-backend-go/internal/domain/tutor"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Clock domain errors
	case errors.Is(err, clock.ErrAlreadyClockedIn):
		ConflictWithCode(w, "ALREADY_CLOCKED_IN", "You already have an open clock session")
	case errors.Is(err, clock.ErrNoOpenSession):
		Conflict(w, "No open clock session to close")

	// Time entry domain errors
	case errors.Is(err, timeentry.ErrDayNotFound):
		NotFound(w, "Timecard day not found")
	case errors.Is(err, timeentry.ErrDayAlreadySubmitted):
		Conflict(w, "Timecard day already submitted")
	case errors.Is(err, timeentry.ErrDayNotPending):
		Conflict(w, "Timecard day is not pending review")
	case errors.Is(err, timeentry.ErrDayNotEditable):
		Conflict(w, "Timecard day can no longer be edited")
	case errors.Is(err, timeentry.ErrNoSessionsOnClockOut):
		BadRequest(w, "Clock session closed with no worked time", nil)
	case errors.Is(err, timeentry.ErrWrongFranchise):
		Forbidden(w, "Timecard day belongs to another franchise")
	case errors.Is(err, timeentry.ErrConflict):
		Conflict(w, "Timecard day was modified concurrently, retry")
	case errors.Is(err, timeentry.ErrSnapshotUnavailable):
		BadGateway(w, "Schedule feed is unavailable, try again later")

	// Attestation domain errors
	case errors.Is(err, attestation.ErrAttestationBlocking):
		ConflictWithCode(w, "ATTESTATION_REQUIRED", "A weekly attestation must be signed first")
	case errors.Is(err, attestation.ErrAttestationNotFound):
		NotFound(w, "Weekly attestation not found")

	// Lookup errors
	case errors.Is(err, tutor.ErrTutorNotFound):
		NotFound(w, "Tutor not found")
	case errors.Is(err, franchise.ErrFranchiseNotFound):
		NotFound(w, "Franchise not found")
	case errors.Is(err, payperiod.ErrInvalidPeriodType):
		BadRequest(w, "Franchise has an invalid pay period type", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
