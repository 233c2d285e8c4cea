package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mypetid/document-service/internal/models"
	"github.com/mypetid/document-service/internal/services"
	"github.com/mypetid/document-service/internal/utils"
)

type OnboardingHandler struct {
	service services.OnboardingService
	logger  *utils.Logger
}

func NewOnboardingHandler(service services.OnboardingService, logger *utils.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		service: service,
		logger:  logger,
	}
}

// CreateOnboardingData handles the signup flow's one-shot account + pet
// creation. Errors keep the {success:false, error} shape the mobile
// clients already parse.
func (h *OnboardingHandler) CreateOnboardingData(w http.ResponseWriter, r *http.Request) {
	var req models.OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondFailure(w, utils.NewBadRequestError("Invalid JSON body"))
		return
	}

	resp, err := h.service.CreateOnboardingData(r.Context(), &req)
	if err != nil {
		h.respondFailure(w, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, resp)
}

func (h *OnboardingHandler) respondFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	if appErr, ok := err.(*utils.AppError); ok {
		status = appErr.StatusCode
		message = appErr.Message
	}

	h.logger.Error("Onboarding failed", "status", status, "error", message)

	respondJSON(w, h.logger, status, models.OnboardingResponse{
		Success: false,
		Error:   message,
	})
}
