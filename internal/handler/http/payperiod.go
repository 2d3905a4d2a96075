package http

import (
	"net/http"
	"time"

	"github.com/tutorlane/timecard-backend-go/internal/domain/payperiod"
	"github.com/tutorlane/timecard-backend-go/internal/handler/http/response"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/validator"
)

type PayPeriodHandler interface {
	Current(w http.ResponseWriter, r *http.Request)
	Previous(w http.ResponseWriter, r *http.Request)
}

type payPeriodHandlerImpl struct {
	payPeriodService payperiod.PayPeriodService
}

func NewPayPeriodHandler(payPeriodService payperiod.PayPeriodService) PayPeriodHandler {
	return &payPeriodHandlerImpl{
		payPeriodService: payPeriodService,
	}
}

// forDateFromQuery parses the optional ?date=YYYY-MM-DD query parameter.
func forDateFromQuery(r *http.Request) (*time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return nil, true
	}

	date, ok := validator.IsValidDate(raw)
	if !ok {
		return nil, false
	}
	return &date, true
}

// Current implements PayPeriodHandler.
func (h *payPeriodHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	forDate, ok := forDateFromQuery(r)
	if !ok {
		response.BadRequest(w, "date must be a YYYY-MM-DD date", nil)
		return
	}

	result, err := h.payPeriodService.Resolve(r.Context(), claims.FranchiseID, forDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Previous implements PayPeriodHandler.
func (h *payPeriodHandlerImpl) Previous(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	forDate, ok := forDateFromQuery(r)
	if !ok {
		response.BadRequest(w, "date must be a YYYY-MM-DD date", nil)
		return
	}

	result, err := h.payPeriodService.Previous(r.Context(), claims.FranchiseID, forDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
