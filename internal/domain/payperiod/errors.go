package payperiod

import "errors"

var ErrInvalidPeriodType = errors.New("invalid pay period type")
