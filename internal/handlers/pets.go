package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mypetid/document-service/internal/middleware"
	"github.com/mypetid/document-service/internal/services"
	"github.com/mypetid/document-service/internal/utils"
	"github.com/mypetid/document-service/internal/validation"
)

type PetHandler struct {
	service services.PetService
	logger  *utils.Logger
}

func NewPetHandler(service services.PetService, logger *utils.Logger) *PetHandler {
	return &PetHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PetHandler) CreatePet(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > validation.MaxFileSize {
		respondError(w, h.logger, utils.NewBadRequestError("Photo size exceeds 10MB limit"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxFileSize)

	if err := r.ParseMultipartForm(validation.MaxFileSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			respondError(w, h.logger, utils.NewBadRequestError("Photo size exceeds 10MB limit"))
			return
		}
		respondError(w, h.logger, utils.NewBadRequestError("Invalid form data"))
		return
	}

	req := &services.CreatePetRequest{
		Name:   r.FormValue("name"),
		Breed:  r.FormValue("breed"),
		UserID: middleware.UserID(r.Context()),
	}

	if v := r.FormValue("birth_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, h.logger, utils.NewBadRequestError("birth_date must be YYYY-MM-DD"))
			return
		}
		req.BirthDate = &t
	}

	// Photo is optional on pet creation
	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, validation.MaxFileSize+1))
		if err != nil {
			respondError(w, h.logger, utils.NewInternalError("Failed to read photo"))
			return
		}
		req.Photo = data
		req.PhotoFilename = header.Filename
		req.PhotoContentType = validation.DetermineContentType(header.Filename, header.Header.Get("Content-Type"))
	}

	pet, err := h.service.CreatePet(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, pet)
}

func (h *PetHandler) ListPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.service.ListPets(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"pets": pets})
}
