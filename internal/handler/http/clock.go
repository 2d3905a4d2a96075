package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tutorlane/timecard-backend-go/internal/domain/clock"
	"github.com/tutorlane/timecard-backend-go/internal/handler/http/response"
)

type ClockHandler interface {
	GetState(w http.ResponseWriter, r *http.Request)
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
}

type clockHandlerImpl struct {
	clockService clock.ClockService
}

func NewClockHandler(clockService clock.ClockService) ClockHandler {
	return &clockHandlerImpl{
		clockService: clockService,
	}
}

// GetState implements ClockHandler.
func (h *clockHandlerImpl) GetState(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.clockService.FetchState(r.Context(), claims.TutorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ClockIn implements ClockHandler.
func (h *clockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.clockService.ClockIn(r.Context(), claims.TutorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", result)
}

// ClockOut implements ClockHandler.
func (h *clockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	// The body is optional; an empty one means a plain clock-out.
	var req clock.ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.clockService.ClockOut(r.Context(), claims.TutorID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
