package http

import (
	"encoding/json"
	"net/http"

	"github.com/tutorlane/timecard-backend-go/internal/domain/attestation"
	"github.com/tutorlane/timecard-backend-go/internal/handler/http/response"
)

type AttestationHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	Reminder(w http.ResponseWriter, r *http.Request)
	Sign(w http.ResponseWriter, r *http.Request)
}

type attestationHandlerImpl struct {
	attestationService attestation.AttestationService
}

func NewAttestationHandler(attestationService attestation.AttestationService) AttestationHandler {
	return &attestationHandlerImpl{
		attestationService: attestationService,
	}
}

// Status implements AttestationHandler.
func (h *attestationHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.attestationService.Status(r.Context(), claims.TutorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Reminder implements AttestationHandler.
func (h *attestationHandlerImpl) Reminder(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.attestationService.Reminder(r.Context(), claims.TutorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Sign implements AttestationHandler.
func (h *attestationHandlerImpl) Sign(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromRequest(w, r)
	if !ok {
		return
	}

	var req attestation.SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attestationService.Sign(r.Context(), claims.TutorID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attestation signed", result)
}
