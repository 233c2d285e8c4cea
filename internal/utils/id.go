package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a new random identifier for documents, pets and users.
func GenerateID() string {
	return uuid.NewString()
}

// GenerateShareID returns an unguessable token used as the public lookup
// key for shared documents. Share links are "anyone with the link", so the
// token is the only thing standing between a document and the internet.
func GenerateShareID() string {
	return uuid.NewString()
}

// GeneratePetIdentifier returns a short human-readable tag printed on
// physical MyPetID products, e.g. "MPID-9F3A2C1B".
func GeneratePetIdentifier() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "MPID-" + raw[:8]
}
