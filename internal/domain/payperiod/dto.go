package payperiod

type PayPeriodResponse struct {
	PeriodType      string  `json:"period_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	StartAt         string  `json:"start_at"`
	EndAt           string  `json:"end_at"`
	Source          string  `json:"source"`
	OverrideID      *string `json:"override_id,omitempty"`
	ResolvedForDate string  `json:"resolved_for_date"`
}

func (p PayPeriod) ToResponse() PayPeriodResponse {
	return PayPeriodResponse{
		PeriodType:      string(p.PeriodType),
		StartDate:       p.StartDate.Format("2006-01-02"),
		EndDate:         p.EndDate.Format("2006-01-02"),
		StartAt:         p.StartAt.Format("2006-01-02T15:04:05Z07:00"),
		EndAt:           p.EndAt.Format("2006-01-02T15:04:05Z07:00"),
		Source:          string(p.Source),
		OverrideID:      p.OverrideID,
		ResolvedForDate: p.ResolvedForDate.Format("2006-01-02"),
	}
}
