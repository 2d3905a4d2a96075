package tutor

import "errors"

var ErrTutorNotFound = errors.New("tutor not found")
