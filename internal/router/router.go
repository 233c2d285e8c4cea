package router

import (
	"net/http"

	"github.com/mypetid/document-service/internal/config"
	"github.com/mypetid/document-service/internal/handlers"
	"github.com/mypetid/document-service/internal/middleware"
	"github.com/mypetid/document-service/internal/services"
	"github.com/mypetid/document-service/internal/utils"

	"github.com/gorilla/mux"
)

type Services struct {
	Documents  services.DocumentService
	Pets       services.PetService
	Onboarding services.OnboardingService
}

func NewRouter(svc Services, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	docHandler := handlers.NewDocumentHandler(svc.Documents, logger)
	petHandler := handlers.NewPetHandler(svc.Pets, logger)
	shareHandler := handlers.NewShareHandler(svc.Documents, logger)
	onboardingHandler := handlers.NewOnboardingHandler(svc.Onboarding, logger)

	// Public surface: share links and the onboarding function
	r.HandleFunc("/shared/{shareID}", shareHandler.ResolveShare).Methods(http.MethodGet)
	r.HandleFunc("/shared/{shareID}/download", shareHandler.DownloadShared).Methods(http.MethodGet)
	r.HandleFunc("/functions/v1/create_onboarding_data", onboardingHandler.CreateOnboardingData).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Authenticated dashboard surface
	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.Auth(cfg.JWTSecret))

	authed.HandleFunc("/documents", docHandler.UploadDocument).Methods(http.MethodPost)
	authed.HandleFunc("/documents", docHandler.ListDocuments).Methods(http.MethodGet)
	authed.HandleFunc("/documents/{id}", docHandler.GetDocument).Methods(http.MethodGet)
	authed.HandleFunc("/documents/{id}", docHandler.UpdateDocument).Methods(http.MethodPatch)
	authed.HandleFunc("/documents/{id}/archive", docHandler.ArchiveDocument).Methods(http.MethodPost)
	authed.HandleFunc("/documents/{id}/restore", docHandler.RestoreDocument).Methods(http.MethodPost)
	authed.HandleFunc("/documents/{id}/share", docHandler.IssueShare).Methods(http.MethodPost)
	authed.HandleFunc("/documents/{id}/share", docHandler.RevokeShare).Methods(http.MethodDelete)

	authed.HandleFunc("/pets", petHandler.CreatePet).Methods(http.MethodPost)
	authed.HandleFunc("/pets", petHandler.ListPets).Methods(http.MethodGet)

	return r
}
