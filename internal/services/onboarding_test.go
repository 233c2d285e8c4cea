package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mypetid/document-service/internal/config"
	"github.com/mypetid/document-service/internal/models"
	"github.com/mypetid/document-service/internal/repository"
	"github.com/mypetid/document-service/internal/utils"
)

type fakeUserRepo struct {
	repository.UserRepository

	byEmail map[string]*models.User
	created []*models.User
	deleted []string
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePetWriter struct {
	repository.PetRepository

	createErr error
	created   []*models.Pet
}

func (f *fakePetWriter) Create(ctx context.Context, pet *models.Pet) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, pet)
	return nil
}

func onboardingReq() *models.OnboardingRequest {
	return &models.OnboardingRequest{
		PetInfo:   models.OnboardingPetInfo{Name: "Rex", Breed: "Beagle", BirthDate: "2021-06-15"},
		OwnerInfo: models.OnboardingOwnerInfo{FullName: "Jess Smith", Email: "Jess@Example.com"},
	}
}

func newOnboarding(users *fakeUserRepo, pets *fakePetWriter, store *fakeStorage) OnboardingService {
	cfg := &config.Config{SignedURLTTL: 24 * time.Hour}
	return NewOnboardingService(users, pets, store, cfg, utils.NewLogger("error"))
}

func TestOnboardingCreatesUserAndPet(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	pets := &fakePetWriter{}
	svc := newOnboarding(users, pets, newFakeStorage())

	resp, err := svc.CreateOnboardingData(context.Background(), onboardingReq())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.UserID)
	assert.NotEmpty(t, resp.PetID)
	assert.True(t, strings.HasPrefix(resp.PetIdentifier, "MPID-"))

	require.Len(t, users.created, 1)
	assert.Equal(t, "jess@example.com", users.created[0].Email, "email is lowercased")

	require.Len(t, pets.created, 1)
	assert.Equal(t, "Rex", pets.created[0].Name)
	require.NotNil(t, pets.created[0].BirthDate)
	assert.Equal(t, 2021, pets.created[0].BirthDate.Year())
}

func TestOnboardingRejectsDuplicateEmail(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*models.User{
		"jess@example.com": {ID: "existing"},
	}}
	svc := newOnboarding(users, &fakePetWriter{}, newFakeStorage())

	_, err := svc.CreateOnboardingData(context.Background(), onboardingReq())
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Empty(t, users.created)
}

func TestOnboardingRejectsMissingFields(t *testing.T) {
	svc := newOnboarding(&fakeUserRepo{byEmail: map[string]*models.User{}}, &fakePetWriter{}, newFakeStorage())

	noEmail := onboardingReq()
	noEmail.OwnerInfo.Email = "not-an-email"
	_, err := svc.CreateOnboardingData(context.Background(), noEmail)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	noPet := onboardingReq()
	noPet.PetInfo.Name = ""
	_, err = svc.CreateOnboardingData(context.Background(), noPet)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestOnboardingRejectsBadBirthDateBeforeWriting(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	svc := newOnboarding(users, &fakePetWriter{}, newFakeStorage())

	req := onboardingReq()
	req.PetInfo.BirthDate = "15-06-2021"

	_, err := svc.CreateOnboardingData(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Empty(t, users.created, "no account is created for a rejected request")
}

func TestOnboardingRollsBackUserWhenPetInsertFails(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	pets := &fakePetWriter{createErr: assert.AnError}
	store := newFakeStorage()
	svc := newOnboarding(users, pets, store)

	req := onboardingReq()
	req.PetInfo.PhotoBase64 = base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	req.PetInfo.PhotoType = "image/jpeg"

	_, err := svc.CreateOnboardingData(context.Background(), req)
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))

	require.Len(t, users.created, 1)
	require.Len(t, users.deleted, 1)
	assert.Equal(t, users.created[0].ID, users.deleted[0], "the half-created account is removed so the signup can be retried")

	require.Len(t, store.uploads, 1)
	assert.Equal(t, []string{store.uploads[0].key}, store.deletes, "the stored photo is removed with the account")
}

func TestOnboardingStoresPetPhoto(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	pets := &fakePetWriter{}
	store := newFakeStorage()
	svc := newOnboarding(users, pets, store)

	req := onboardingReq()
	req.PetInfo.PhotoBase64 = base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	req.PetInfo.PhotoType = "image/jpeg"

	resp, err := svc.CreateOnboardingData(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	require.Len(t, store.uploads, 1)
	assert.Contains(t, store.uploads[0].key, resp.UserID+"/pets/")
	require.Len(t, pets.created, 1)
	require.NotNil(t, pets.created[0].PhotoKey)
}

func TestOnboardingContinuesWithoutBrokenPhoto(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	pets := &fakePetWriter{}
	store := newFakeStorage()
	svc := newOnboarding(users, pets, store)

	req := onboardingReq()
	req.PetInfo.PhotoBase64 = "%%% not base64 %%%"

	resp, err := svc.CreateOnboardingData(context.Background(), req)
	require.NoError(t, err, "a broken photo must not fail onboarding")
	assert.True(t, resp.Success)
	assert.Empty(t, store.uploads)
	require.Len(t, pets.created, 1)
	assert.Nil(t, pets.created[0].PhotoKey)
}
