package attestation

import (
	"github.com/tutorlane/timecard-backend-go/internal/pkg/validator"
)

type SignRequest struct {
	TypedName string `json:"typed_name"`
}

func (r *SignRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TypedName) {
		errs = append(errs, validator.ValidationError{
			Field:   "typed_name",
			Message: "typed_name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AttestationResponse projects the signing state of one week.
type AttestationResponse struct {
	WeekStart              string  `json:"week_start"`
	WeekEnd                string  `json:"week_end"`
	Signed                 bool    `json:"signed"`
	SignedAt               *string `json:"signed_at,omitempty"`
	TypedName              *string `json:"typed_name,omitempty"`
	AttestationTextVersion string  `json:"attestation_text_version,omitempty"`
	Blocking               bool    `json:"blocking"`
	MissingWeekEnd         *string `json:"missing_week_end,omitempty"`
}

// ReminderResponse is the read-only projection the UI nags with.
type ReminderResponse struct {
	WeekStart      string  `json:"week_start"`
	WeekEnd        string  `json:"week_end"`
	Blocking       bool    `json:"blocking"`
	MissingWeekEnd *string `json:"missing_week_end,omitempty"`
}
