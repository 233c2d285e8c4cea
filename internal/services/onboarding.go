package services

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/mypetid/document-service/internal/config"
	"github.com/mypetid/document-service/internal/models"
	"github.com/mypetid/document-service/internal/repository"
	"github.com/mypetid/document-service/internal/storage"
	"github.com/mypetid/document-service/internal/utils"
	"github.com/mypetid/document-service/internal/validation"
)

type OnboardingService interface {
	CreateOnboardingData(ctx context.Context, req *models.OnboardingRequest) (*models.OnboardingResponse, error)
}

type onboardingService struct {
	users   repository.UserRepository
	pets    repository.PetRepository
	storage storage.Storage
	cfg     *config.Config
	logger  *utils.Logger
}

func NewOnboardingService(users repository.UserRepository, pets repository.PetRepository, store storage.Storage, cfg *config.Config, logger *utils.Logger) OnboardingService {
	return &onboardingService{
		users:   users,
		pets:    pets,
		storage: store,
		cfg:     cfg,
		logger:  logger,
	}
}

// CreateOnboardingData creates the account and first pet in one call, as
// posted by the signup flow. The pet photo is best effort: a photo that
// fails to decode or store logs a warning and onboarding continues
// without it.
func (s *onboardingService) CreateOnboardingData(ctx context.Context, req *models.OnboardingRequest) (*models.OnboardingResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.OwnerInfo.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, utils.NewBadRequestError("A valid owner email is required")
	}
	ownerName := validation.NormalizeName(req.OwnerInfo.FullName)
	if ownerName == "" {
		return nil, utils.NewBadRequestError("Owner name is required")
	}
	petName := validation.NormalizeName(req.PetInfo.Name)
	if petName == "" {
		return nil, utils.NewBadRequestError("Pet name is required")
	}

	var birthDate *time.Time
	if req.PetInfo.BirthDate != "" {
		t, err := time.Parse("2006-01-02", req.PetInfo.BirthDate)
		if err != nil {
			return nil, utils.NewBadRequestError("Pet birth date must be YYYY-MM-DD")
		}
		birthDate = &t
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check for existing account", "error", err)
		return nil, utils.NewInternalError("Failed to create account")
	}
	if existing != nil {
		return nil, utils.NewBadRequestError("An account with this email already exists")
	}

	user := &models.User{
		ID:        utils.GenerateID(),
		Email:     email,
		FullName:  ownerName,
		CreatedAt: time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", "error", err)
		return nil, utils.NewInternalError("Failed to create account")
	}

	photoKey := s.storePetPhoto(ctx, user.ID, req.PetInfo)

	identifier := utils.GeneratePetIdentifier()
	pet := &models.Pet{
		ID:            utils.GenerateID(),
		UserID:        user.ID,
		Name:          petName,
		Breed:         validation.NormalizeName(req.PetInfo.Breed),
		BirthDate:     birthDate,
		PhotoKey:      photoKey,
		PetIdentifier: &identifier,
		CreatedAt:     time.Now(),
	}
	if err := s.pets.Create(ctx, pet); err != nil {
		s.logger.Error("Failed to create pet during onboarding", "error", err, "user_id", user.ID)
		// Roll back the account so the owner can retry the signup; a
		// leftover user row would trip the duplicate-email check above.
		if photoKey != nil {
			if delErr := s.storage.Delete(ctx, *photoKey); delErr != nil {
				s.logger.Error("Failed to clean up pet photo", "error", delErr, "key", *photoKey)
			}
		}
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("Failed to clean up user after pet insert failure", "error", delErr, "user_id", user.ID)
		}
		return nil, utils.NewInternalError("Failed to create pet")
	}

	s.logger.Info("Onboarding completed", "user_id", user.ID, "pet_id", pet.ID)

	return &models.OnboardingResponse{
		Success:       true,
		UserID:        user.ID,
		PetID:         pet.ID,
		PetIdentifier: identifier,
	}, nil
}

func (s *onboardingService) storePetPhoto(ctx context.Context, userID string, info models.OnboardingPetInfo) *string {
	if info.PhotoBase64 == "" {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(info.PhotoBase64)
	if err != nil {
		s.logger.Warn("Skipping pet photo: invalid base64", "error", err)
		return nil
	}

	contentType := info.PhotoType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if err := validation.ValidateFile(int64(len(data)), contentType); err != nil {
		s.logger.Warn("Skipping pet photo", "error", err)
		return nil
	}

	ext := ".jpg"
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "" {
		ext = "." + parts[1]
	}
	key := storage.BuildKey(userID, "pets", "photo"+ext)
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		s.logger.Warn("Skipping pet photo: storage write failed", "error", err)
		return nil
	}

	return &key
}
