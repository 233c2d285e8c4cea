package services

import (
	"context"
	"time"

	"github.com/mypetid/document-service/internal/config"
	"github.com/mypetid/document-service/internal/models"
	"github.com/mypetid/document-service/internal/repository"
	"github.com/mypetid/document-service/internal/storage"
	"github.com/mypetid/document-service/internal/utils"
	"github.com/mypetid/document-service/internal/validation"
)

// CreatePetRequest carries one pet-creation interaction, photo included.
type CreatePetRequest struct {
	Name             string
	Breed            string
	BirthDate        *time.Time
	Photo            []byte
	PhotoFilename    string
	PhotoContentType string
	UserID           string
}

type PetService interface {
	CreatePet(ctx context.Context, req *CreatePetRequest) (*models.Pet, error)
	ListPets(ctx context.Context, userID string) ([]models.Pet, error)
}

type petService struct {
	pets    repository.PetRepository
	storage storage.Storage
	cfg     *config.Config
	logger  *utils.Logger
}

func NewPetService(pets repository.PetRepository, store storage.Storage, cfg *config.Config, logger *utils.Logger) PetService {
	return &petService{
		pets:    pets,
		storage: store,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *petService) CreatePet(ctx context.Context, req *CreatePetRequest) (*models.Pet, error) {
	name := validation.NormalizeName(req.Name)
	if name == "" {
		return nil, utils.NewBadRequestError("Pet name is required")
	}

	var photoKey *string
	if len(req.Photo) > 0 {
		if err := validation.ValidateFile(int64(len(req.Photo)), req.PhotoContentType); err != nil {
			return nil, err
		}
		key := storage.BuildKey(req.UserID, "pets", req.PhotoFilename)
		if err := s.storage.Upload(ctx, key, req.Photo, req.PhotoContentType); err != nil {
			s.logger.Error("Failed to upload pet photo", "error", err, "key", key)
			return nil, utils.NewInternalError("Failed to store pet photo")
		}
		photoKey = &key
	}

	identifier := utils.GeneratePetIdentifier()
	pet := &models.Pet{
		ID:            utils.GenerateID(),
		UserID:        req.UserID,
		Name:          name,
		Breed:         validation.NormalizeName(req.Breed),
		BirthDate:     req.BirthDate,
		PhotoKey:      photoKey,
		PetIdentifier: &identifier,
		CreatedAt:     time.Now(),
	}

	if err := s.pets.Create(ctx, pet); err != nil {
		s.logger.Error("Failed to save pet", "error", err)
		if photoKey != nil {
			if delErr := s.storage.Delete(ctx, *photoKey); delErr != nil {
				s.logger.Error("Failed to clean up pet photo", "error", delErr, "key", *photoKey)
			}
		}
		return nil, utils.NewInternalError("Failed to save pet")
	}

	s.logger.Info("Pet created", "id", pet.ID, "identifier", identifier)
	return pet, nil
}

func (s *petService) ListPets(ctx context.Context, userID string) ([]models.Pet, error) {
	pets, err := s.pets.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list pets", "error", err, "user_id", userID)
		return nil, utils.NewInternalError("Failed to list pets")
	}
	return pets, nil
}
