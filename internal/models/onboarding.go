package models

// OnboardingRequest mirrors the payload the mobile onboarding flow posts
// to /functions/v1/create_onboarding_data.
type OnboardingRequest struct {
	PetInfo      OnboardingPetInfo   `json:"petInfo"`
	OwnerInfo    OnboardingOwnerInfo `json:"ownerInfo"`
	PetLifestyle PetLifestyle        `json:"petLifestyle"`
	AccountInfo  AccountInfo         `json:"accountInfo"`
}

type OnboardingPetInfo struct {
	Name        string `json:"name"`
	Breed       string `json:"breed"`
	BirthDate   string `json:"birthDate,omitempty"` // YYYY-MM-DD
	PhotoBase64 string `json:"photoBase64,omitempty"`
	PhotoType   string `json:"photoType,omitempty"`
}

type OnboardingOwnerInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

type PetLifestyle struct {
	ActivityLevel string   `json:"activityLevel,omitempty"`
	Diet          string   `json:"diet,omitempty"`
	Traits        []string `json:"traits,omitempty"`
}

type AccountInfo struct {
	Email string `json:"email,omitempty"`
	Plan  string `json:"plan,omitempty"`
}

type OnboardingResponse struct {
	Success       bool   `json:"success"`
	UserID        string `json:"user_id,omitempty"`
	PetID         string `json:"pet_id,omitempty"`
	PetIdentifier string `json:"pet_identifier,omitempty"`
	Error         string `json:"error,omitempty"`
}
