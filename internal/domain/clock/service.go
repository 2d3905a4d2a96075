package clock

import "context"

// ClockService manages the single open clock session per tutor and hands
// closed intervals off to the day lifecycle.
type ClockService interface {
	// FetchState recomputes the tutor's clock state. No side effects.
	FetchState(ctx context.Context, tutorID string) (ClockStateResponse, error)

	// ClockIn opens a session. Fails with attestation.ErrAttestationBlocking
	// or ErrAlreadyClockedIn; never creates a second open session.
	ClockIn(ctx context.Context, tutorID string) (ClockStateResponse, error)

	// ClockOut closes the open session and merges the interval into the
	// day. With finalize it also submits the day; a failed snapshot fetch
	// leaves the day draft and never rolls the clock-out back.
	ClockOut(ctx context.Context, tutorID string, req ClockOutRequest) (ClockOutResponse, error)
}
