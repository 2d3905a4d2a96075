package clock

import "errors"

// Clock domain errors
var (
	ErrAlreadyClockedIn = errors.New("you already have an open clock session")
	ErrNoOpenSession    = errors.New("no open clock session to close")
)
