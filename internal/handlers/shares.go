package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/mypetid/document-service/internal/platform"
	"github.com/mypetid/document-service/internal/services"
	"github.com/mypetid/document-service/internal/utils"
)

// ShareHandler serves the public, unauthenticated share endpoints.
type ShareHandler struct {
	service services.DocumentService
	logger  *utils.Logger
}

func NewShareHandler(service services.DocumentService, logger *utils.Logger) *ShareHandler {
	return &ShareHandler{
		service: service,
		logger:  logger,
	}
}

// ResolveShare returns share metadata plus the delivery plan chosen from
// the caller's User-Agent. Expired and unknown share ids come back as
// 410/404 with the same "not found or expired" shape.
func (h *ShareHandler) ResolveShare(w http.ResponseWriter, r *http.Request) {
	shareID := mux.Vars(r)["shareID"]

	doc, err := h.service.ResolveShare(r.Context(), shareID, r.UserAgent())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, doc)
}

// DownloadShared streams the document. Content-Disposition follows the
// platform plan; ?mode=inline forces the open-in-tab fallback used when a
// programmatic download failed on the client.
func (h *ShareHandler) DownloadShared(w http.ResponseWriter, r *http.Request) {
	shareID := mux.Vars(r)["shareID"]

	reader, doc, err := h.service.OpenSharedFile(r.Context(), shareID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	defer reader.Close()

	plan := platform.PlanFor(r.UserAgent())
	mode := plan.Mode
	if r.URL.Query().Get("mode") == string(platform.ModeInline) {
		mode = platform.ModeInline
	}

	filename := doc.Name + filepath.Ext(doc.FileKey)
	w.Header().Set("Content-Type", doc.FileType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", mode, filename))
	if doc.FileSize > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", doc.FileSize))
	}

	if _, err := io.Copy(w, reader); err != nil {
		// Headers are already out; nothing left to do but log.
		h.logger.Error("Failed streaming shared document", "error", err, "share_id", shareID)
	}
}
