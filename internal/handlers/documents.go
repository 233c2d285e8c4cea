package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mypetid/document-service/internal/middleware"
	"github.com/mypetid/document-service/internal/models"
	"github.com/mypetid/document-service/internal/services"
	"github.com/mypetid/document-service/internal/utils"
	"github.com/mypetid/document-service/internal/validation"
)

type DocumentHandler struct {
	service services.DocumentService
	logger  *utils.Logger
}

func NewDocumentHandler(service services.DocumentService, logger *utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger,
	}
}

func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	// Check Content-Length first to reject oversized requests early
	if r.ContentLength > validation.MaxFileSize {
		h.respondError(w, utils.NewBadRequestError("File size exceeds 10MB limit"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxFileSize)

	if err := r.ParseMultipartForm(validation.MaxFileSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, utils.NewBadRequestError("File size exceeds 10MB limit"))
			return
		}
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	contentType := validation.DetermineContentType(header.Filename, header.Header.Get("Content-Type"))

	data, err := io.ReadAll(io.LimitReader(file, validation.MaxFileSize+1))
	if err != nil {
		h.respondError(w, utils.NewInternalError("Failed to read file"))
		return
	}
	if len(data) > validation.MaxFileSize {
		h.respondError(w, utils.NewBadRequestError("File size exceeds 10MB limit"))
		return
	}

	var petID *string
	if v := r.FormValue("pet_id"); v != "" {
		petID = &v
	}

	req := &models.UploadRequest{
		File:        data,
		Name:        r.FormValue("name"),
		Category:    models.Category(r.FormValue("category")),
		PetID:       petID,
		Filename:    header.Filename,
		ContentType: contentType,
		UserID:      middleware.UserID(r.Context()),
	}

	resp, err := h.service.UploadDocument(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	filter := models.ListFilter{
		Archived: r.URL.Query().Get("archived") == "true",
	}
	if v := r.URL.Query().Get("pet_id"); v != "" {
		filter.PetID = &v
	}

	docs, err := h.service.ListDocuments(r.Context(), middleware.UserID(r.Context()), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	doc, err := h.service.GetDocument(r.Context(), middleware.UserID(r.Context()), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, doc)
}

type updateDocumentRequest struct {
	Name     *string          `json:"name"`
	Category *models.Category `json:"category"`
	PetID    json.RawMessage  `json:"pet_id"`
}

func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid JSON body"))
		return
	}

	upd := models.DocumentUpdate{
		Name:     body.Name,
		Category: body.Category,
	}

	// pet_id distinguishes absent (unchanged), null (clear) and a value.
	if body.PetID != nil {
		if string(body.PetID) == "null" {
			var cleared *string
			upd.PetID = &cleared
		} else {
			var petID string
			if err := json.Unmarshal(body.PetID, &petID); err != nil {
				h.respondError(w, utils.NewBadRequestError("pet_id must be a string or null"))
				return
			}
			p := &petID
			upd.PetID = &p
		}
	}

	doc, err := h.service.UpdateDocument(r.Context(), middleware.UserID(r.Context()), id, upd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) ArchiveDocument(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

func (h *DocumentHandler) RestoreDocument(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *DocumentHandler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	id := mux.Vars(r)["id"]

	if err := h.service.SetDocumentArchived(r.Context(), middleware.UserID(r.Context()), id, archived); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"archived": archived})
}

type issueShareRequest struct {
	ExpiresInHours *int `json:"expires_in_hours"`
}

func (h *DocumentHandler) IssueShare(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body issueShareRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.respondError(w, utils.NewBadRequestError("Invalid JSON body"))
			return
		}
	}

	var expiresIn *time.Duration
	if body.ExpiresInHours != nil {
		d := time.Duration(*body.ExpiresInHours) * time.Hour
		expiresIn = &d
	}

	resp, err := h.service.IssueShare(r.Context(), middleware.UserID(r.Context()), id, expiresIn)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

func (h *DocumentHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.RevokeShare(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

func (h *DocumentHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, h.logger, status, data)
}

func (h *DocumentHandler) respondError(w http.ResponseWriter, err error) {
	respondError(w, h.logger, err)
}

func respondJSON(w http.ResponseWriter, logger *utils.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

func respondError(w http.ResponseWriter, logger *utils.Logger, err error) {
	var status int
	var message string

	switch e := err.(type) {
	case *utils.AppError:
		status = e.StatusCode
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	logger.Error("Request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
