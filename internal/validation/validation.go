package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mypetid/document-service/internal/utils"
	"golang.org/x/text/unicode/norm"
)

// MaxFileSize is the upload ceiling. Files above it are rejected before
// anything is written to storage.
const MaxFileSize = 10 << 20 // 10MB

// DetermineContentType resolves the effective content type of an upload,
// preferring the filename extension over the browser-reported header,
// which is frequently missing or application/octet-stream.
func DetermineContentType(filename, headerContentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	}

	return headerContentType
}

// IsAllowedContentType reports whether the type is accepted for document
// uploads. Pet records are images or PDFs; everything else is rejected.
func IsAllowedContentType(contentType string) bool {
	if contentType == "application/pdf" {
		return true
	}
	return strings.HasPrefix(contentType, "image/")
}

// ValidateFile checks size and type before any network write happens.
func ValidateFile(size int64, contentType string) error {
	if size == 0 {
		return utils.NewBadRequestError("Uploaded file is empty")
	}
	if size > MaxFileSize {
		return utils.NewBadRequestError("File size exceeds 10MB limit")
	}
	if !IsAllowedContentType(contentType) {
		return utils.NewBadRequestError(fmt.Sprintf("Unsupported file type '%s'. Only images and PDF files are allowed", contentType))
	}
	return nil
}

// NormalizeName trims and NFC-normalizes a user-supplied name so that
// visually identical names compare equal regardless of the client's
// unicode composition.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
