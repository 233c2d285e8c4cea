package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mypetid/document-service/internal/config"
	"github.com/mypetid/document-service/internal/utils"
)

func newPetsService(pets *fakePetWriter, store *fakeStorage) PetService {
	cfg := &config.Config{SignedURLTTL: 24 * time.Hour}
	return NewPetService(pets, store, cfg, utils.NewLogger("error"))
}

func TestCreatePetWithPhoto(t *testing.T) {
	pets := &fakePetWriter{}
	store := newFakeStorage()
	svc := newPetsService(pets, store)

	pet, err := svc.CreatePet(context.Background(), &CreatePetRequest{
		Name:             "Rex",
		Breed:            "Beagle",
		Photo:            []byte("jpeg-bytes"),
		PhotoFilename:    "rex.jpg",
		PhotoContentType: "image/jpeg",
		UserID:           "user-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, pet.ID)
	require.NotNil(t, pet.PetIdentifier)
	assert.True(t, strings.HasPrefix(*pet.PetIdentifier, "MPID-"))
	require.NotNil(t, pet.PhotoKey)
	require.Len(t, store.uploads, 1)
	assert.Contains(t, store.uploads[0].key, "user-1/pets/")
}

func TestCreatePetWithoutPhoto(t *testing.T) {
	pets := &fakePetWriter{}
	store := newFakeStorage()
	svc := newPetsService(pets, store)

	pet, err := svc.CreatePet(context.Background(), &CreatePetRequest{Name: "Rex", UserID: "user-1"})
	require.NoError(t, err)

	assert.Nil(t, pet.PhotoKey)
	assert.Empty(t, store.uploads)
}

func TestCreatePetRequiresName(t *testing.T) {
	svc := newPetsService(&fakePetWriter{}, newFakeStorage())

	_, err := svc.CreatePet(context.Background(), &CreatePetRequest{Name: "  ", UserID: "user-1"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestCreatePetCleansUpPhotoOnInsertFailure(t *testing.T) {
	pets := &fakePetWriter{createErr: errors.New("constraint violated")}
	store := newFakeStorage()
	svc := newPetsService(pets, store)

	_, err := svc.CreatePet(context.Background(), &CreatePetRequest{
		Name:             "Rex",
		Photo:            []byte("jpeg-bytes"),
		PhotoFilename:    "rex.jpg",
		PhotoContentType: "image/jpeg",
		UserID:           "user-1",
	})
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))

	require.Len(t, store.uploads, 1)
	require.Len(t, store.deletes, 1)
	assert.Equal(t, store.uploads[0].key, store.deletes[0])
}
