package attestation

import "errors"

var (
	// ErrAttestationBlocking is surfaced distinctly so callers can present
	// the sign-off flow before retrying the blocked operation.
	ErrAttestationBlocking = errors.New("weekly attestation required before clocking in or submitting")

	ErrAttestationNotFound = errors.New("attestation record not found")
)
