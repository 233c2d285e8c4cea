package models

import (
	"time"
)

// Category classifies a document within a pet's record.
type Category string

const (
	CategoryVaccinationRecord Category = "vaccination_record"
	CategoryMedicalReport     Category = "medical_report"
	CategoryInsurancePolicy   Category = "insurance_policy"
	CategoryRegistration      Category = "registration"
	CategoryPrescription      Category = "prescription"
	CategoryOther             Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryVaccinationRecord, CategoryMedicalReport, CategoryInsurancePolicy,
		CategoryRegistration, CategoryPrescription, CategoryOther:
		return true
	}
	return false
}

type Document struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Category    Category   `json:"category" db:"category"`
	FileKey     string     `json:"-" db:"file_key"`
	FileType    string     `json:"file_type" db:"file_type"`
	FileSize    int64      `json:"file_size" db:"file_size"`
	UserID      string     `json:"user_id" db:"user_id"`
	PetID       *string    `json:"pet_id,omitempty" db:"pet_id"`
	PageCount   *int       `json:"page_count,omitempty" db:"page_count"`
	ShareID     *string    `json:"share_id,omitempty" db:"share_id"`
	ShareExpiry *time.Time `json:"share_expires_at,omitempty" db:"share_expires_at"`
	Archived    bool       `json:"archived" db:"archived"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ShareActive reports whether the document currently resolves through its
// share link. Expiry is advisory and checked here, at read time; there is
// no background purge of expired shares.
func (d *Document) ShareActive(now time.Time) bool {
	if d.ShareID == nil || d.Archived {
		return false
	}
	if d.ShareExpiry == nil {
		return true
	}
	return now.Before(*d.ShareExpiry)
}

// UploadRequest carries one upload interaction through the service layer.
// It exists only for the duration of that interaction.
type UploadRequest struct {
	File        []byte
	Name        string
	Category    Category
	PetID       *string
	Filename    string
	ContentType string
	UserID      string
}

type UploadResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	FileType  string    `json:"file_type"`
	FileSize  int64     `json:"file_size"`
	PetID     *string   `json:"pet_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentUpdate holds the editable fields of a document. A nil field
// means "leave unchanged"; for PetID the inner pointer distinguishes
// clearing the association from re-assigning it.
type DocumentUpdate struct {
	Name     *string
	Category *Category
	PetID    **string
}

type ShareResponse struct {
	ShareID   string     `json:"share_id"`
	ShareURL  string     `json:"share_url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ListFilter narrows a document listing.
type ListFilter struct {
	Archived bool
	PetID    *string
}
