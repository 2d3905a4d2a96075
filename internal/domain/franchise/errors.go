package franchise

import "errors"

var ErrFranchiseNotFound = errors.New("franchise not found")
