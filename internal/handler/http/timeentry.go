package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tutorlane/timecard-backend-go/internal/domain/timeentry"
	"github.com/tutorlane/timecard-backend-go/internal/handler/http/response"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/jwt"
)

type TimeEntryHandler interface {
	SaveDay(w http.ResponseWriter, r *http.Request)
	SubmitDay(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	AdminEdit(w http.ResponseWriter, r *http.Request)
}

type timeEntryHandlerImpl struct {
	timeEntryService timeentry.TimeEntryService
}

func NewTimeEntryHandler(timeEntryService timeentry.TimeEntryService) TimeEntryHandler {
	return &timeEntryHandlerImpl{
		timeEntryService: timeEntryService,
	}
}

// SaveDay implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) SaveDay(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	var req timeentry.SaveDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timeEntryService.SaveDay(r.Context(), claims.TutorID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timecard day saved", result)
}

// SubmitDay implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) SubmitDay(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	var req timeentry.SubmitDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timeEntryService.SubmitDay(r.Context(), claims.TutorID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timecard day submitted", result)
}

// Get implements TimeEntryHandler. Tutors can only read their own days;
// admins can read any day in their franchise.
func (h *timeEntryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	result, err := h.timeEntryService.GetDay(r.Context(), id, claims.FranchiseID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if claims.AccountType == jwt.AccountTypeTutor && result.TutorID != claims.TutorID {
		response.NotFound(w, "Timecard day not found")
		return
	}

	response.Success(w, result)
}

// List implements TimeEntryHandler. Tutors are pinned to their own days.
func (h *timeEntryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	filter := timeentry.ListFilter{}

	if tutorID := r.URL.Query().Get("tutor_id"); tutorID != "" {
		filter.TutorID = &tutorID
	}
	if claims.AccountType == jwt.AccountTypeTutor {
		tutorID := claims.TutorID
		filter.TutorID = &tutorID
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}

	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	filter.Page = page

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}
	filter.Limit = limit

	results, err := h.timeEntryService.ListDays(r.Context(), claims.FranchiseID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results.Days, &response.Meta{
		Page:       results.Page,
		Limit:      results.Limit,
		TotalItems: results.TotalCount,
		TotalPages: results.TotalPages,
	})
}

// Decide implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	var req timeentry.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timeEntryService.AdminDecide(r.Context(), claims.AccountID, claims.FranchiseID, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timecard day decided", result)
}

// AdminEdit implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) AdminEdit(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	var req timeentry.AdminEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timeEntryService.AdminEdit(r.Context(), claims.AccountID, claims.FranchiseID, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timecard day updated", result)
}
