package services

import (
	"context"
	"io"
	"time"

	"github.com/mypetid/document-service/internal/config"
	"github.com/mypetid/document-service/internal/models"
	"github.com/mypetid/document-service/internal/platform"
	"github.com/mypetid/document-service/internal/preview"
	"github.com/mypetid/document-service/internal/repository"
	"github.com/mypetid/document-service/internal/storage"
	"github.com/mypetid/document-service/internal/utils"
	"github.com/mypetid/document-service/internal/validation"
)

// DocumentWithURL is a document plus a fresh signed URL for its file.
type DocumentWithURL struct {
	models.Document
	FileURL string `json:"file_url"`
}

// SharedDocument is the public view of a shared document: metadata safe
// to show an anonymous viewer plus the delivery plan for their platform.
type SharedDocument struct {
	Name      string                `json:"name"`
	Category  models.Category       `json:"category"`
	FileType  string                `json:"file_type"`
	FileSize  int64                 `json:"file_size"`
	PageCount *int                  `json:"page_count,omitempty"`
	Delivery  platform.DeliveryPlan `json:"delivery"`
}

type DocumentService interface {
	UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error)
	GetDocument(ctx context.Context, userID, id string) (*DocumentWithURL, error)
	ListDocuments(ctx context.Context, userID string, filter models.ListFilter) ([]models.Document, error)
	UpdateDocument(ctx context.Context, userID, id string, upd models.DocumentUpdate) (*models.Document, error)
	SetDocumentArchived(ctx context.Context, userID, id string, archived bool) error
	IssueShare(ctx context.Context, userID, id string, expiresIn *time.Duration) (*models.ShareResponse, error)
	RevokeShare(ctx context.Context, userID, id string) error
	ResolveShare(ctx context.Context, shareID, userAgent string) (*SharedDocument, error)
	OpenSharedFile(ctx context.Context, shareID string) (io.ReadCloser, *models.Document, error)
}

type documentService struct {
	docs    repository.DocumentRepository
	pets    repository.PetRepository
	storage storage.Storage
	cfg     *config.Config
	logger  *utils.Logger
	now     func() time.Time
}

func NewDocumentService(docs repository.DocumentRepository, pets repository.PetRepository, store storage.Storage, cfg *config.Config, logger *utils.Logger) DocumentService {
	return &documentService{
		docs:    docs,
		pets:    pets,
		storage: store,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// UploadDocument runs one upload interaction: validate, write the binary,
// write the metadata row. Validation failures never reach storage. A row
// insert failure deletes the just-written object so no orphan is left
// behind.
func (s *documentService) UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	name := validation.NormalizeName(req.Name)
	if name == "" {
		return nil, utils.NewBadRequestError("Document name is required")
	}
	if !req.Category.Valid() {
		return nil, utils.NewBadRequestError("Unknown document category")
	}

	if err := validation.ValidateFile(int64(len(req.File)), req.ContentType); err != nil {
		return nil, err
	}

	// Page count is best effort; a PDF we cannot parse is still stored.
	var pageCount *int
	if req.ContentType == "application/pdf" {
		if pages, err := preview.PDFPageCount(req.File); err == nil {
			pageCount = &pages
		} else {
			s.logger.Warn("Could not read PDF page count", "error", err, "filename", req.Filename)
		}
	}

	keyContext := string(req.Category)
	if req.PetID != nil {
		pet, err := s.pets.GetByID(ctx, *req.PetID)
		if err != nil {
			s.logger.Error("Failed to look up pet", "error", err, "pet_id", *req.PetID)
			return nil, utils.NewInternalError("Failed to verify pet")
		}
		if pet == nil || pet.UserID != req.UserID {
			return nil, utils.NewBadRequestError("Unknown pet")
		}
		keyContext = pet.ID
	}

	key := storage.BuildKey(req.UserID, keyContext, req.Filename)
	if err := s.storage.Upload(ctx, key, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to upload to storage", "error", err, "key", key)
		return nil, utils.NewInternalError("Failed to store document")
	}

	now := s.now()
	doc := &models.Document{
		ID:        utils.GenerateID(),
		Name:      name,
		Category:  req.Category,
		FileKey:   key,
		FileType:  req.ContentType,
		FileSize:  int64(len(req.File)),
		UserID:    req.UserID,
		PetID:     req.PetID,
		PageCount: pageCount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to save document to database", "error", err, "doc_id", doc.ID)
		// Remove the orphaned object; the upload failed as a whole.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Error("Failed to clean up stored object", "error", delErr, "key", key)
		}
		return nil, utils.NewInternalError("Failed to save document metadata")
	}

	s.logger.Info("Document uploaded",
		"id", doc.ID,
		"category", doc.Category,
		"file_type", doc.FileType,
		"file_size", doc.FileSize)

	return &models.UploadResponse{
		ID:        doc.ID,
		Name:      doc.Name,
		Category:  doc.Category,
		FileType:  doc.FileType,
		FileSize:  doc.FileSize,
		PetID:     doc.PetID,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// getOwned fetches a document and checks ownership. Documents belonging
// to other users read as not found so ids cannot be probed.
func (s *documentService) getOwned(ctx context.Context, userID, id string) (*models.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil || doc.UserID != userID {
		return nil, utils.NewNotFoundError("Document not found")
	}
	return doc, nil
}

func (s *documentService) GetDocument(ctx context.Context, userID, id string) (*DocumentWithURL, error) {
	doc, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	fileURL, err := s.storage.PresignedURL(ctx, doc.FileKey, s.cfg.SignedURLTTL)
	if err != nil {
		s.logger.Error("Failed to presign file URL", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to generate file URL")
	}

	return &DocumentWithURL{Document: *doc, FileURL: fileURL}, nil
}

func (s *documentService) ListDocuments(ctx context.Context, userID string, filter models.ListFilter) ([]models.Document, error) {
	docs, err := s.docs.ListByOwner(ctx, userID, filter)
	if err != nil {
		s.logger.Error("Failed to list documents", "error", err, "user_id", userID)
		return nil, utils.NewInternalError("Failed to list documents")
	}
	return docs, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, userID, id string, upd models.DocumentUpdate) (*models.Document, error) {
	doc, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := validation.NormalizeName(*upd.Name)
		if name == "" {
			return nil, utils.NewBadRequestError("Document name cannot be empty")
		}
		upd.Name = &name
	}
	if upd.Category != nil && !upd.Category.Valid() {
		return nil, utils.NewBadRequestError("Unknown document category")
	}
	if upd.PetID != nil && *upd.PetID != nil {
		pet, err := s.pets.GetByID(ctx, **upd.PetID)
		if err != nil {
			s.logger.Error("Failed to look up pet", "error", err, "pet_id", **upd.PetID)
			return nil, utils.NewInternalError("Failed to verify pet")
		}
		if pet == nil || pet.UserID != userID {
			return nil, utils.NewBadRequestError("Unknown pet")
		}
	}

	if err := s.docs.Update(ctx, doc.ID, upd); err != nil {
		s.logger.Error("Failed to update document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to update document")
	}

	updated, err := s.docs.GetByID(ctx, doc.ID)
	if err != nil || updated == nil {
		s.logger.Error("Failed to reload document after update", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to update document")
	}

	return updated, nil
}

func (s *documentService) SetDocumentArchived(ctx context.Context, userID, id string, archived bool) error {
	doc, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.docs.SetArchived(ctx, doc.ID, archived); err != nil {
		s.logger.Error("Failed to change archived flag", "error", err, "id", id)
		return utils.NewInternalError("Failed to update document")
	}

	return nil
}

// IssueShare attaches an unguessable share id to the document. A nil
// expiresIn means the link never expires; expiry is only ever checked at
// resolve time.
func (s *documentService) IssueShare(ctx context.Context, userID, id string, expiresIn *time.Duration) (*models.ShareResponse, error) {
	doc, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if doc.Archived {
		return nil, utils.NewBadRequestError("Archived documents cannot be shared")
	}

	shareID := utils.GenerateShareID()
	var expiresAt *time.Time
	if expiresIn != nil {
		if *expiresIn <= 0 {
			return nil, utils.NewBadRequestError("Share expiry must be in the future")
		}
		t := s.now().Add(*expiresIn)
		expiresAt = &t
	}

	if err := s.docs.SetShare(ctx, doc.ID, &shareID, expiresAt); err != nil {
		s.logger.Error("Failed to persist share", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to create share link")
	}

	s.logger.Info("Share link issued", "doc_id", doc.ID, "expires", expiresAt != nil)

	return &models.ShareResponse{
		ShareID:   shareID,
		ShareURL:  s.cfg.PublicBaseURL + "/shared/" + shareID,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *documentService) RevokeShare(ctx context.Context, userID, id string) error {
	doc, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.docs.SetShare(ctx, doc.ID, nil, nil); err != nil {
		s.logger.Error("Failed to revoke share", "error", err, "id", id)
		return utils.NewInternalError("Failed to revoke share link")
	}

	return nil
}

// resolveActiveShare maps a share id to its document, folding expired,
// revoked and archived shares into the same not-found surface the public
// page shows.
func (s *documentService) resolveActiveShare(ctx context.Context, shareID string) (*models.Document, error) {
	doc, err := s.docs.GetByShareID(ctx, shareID)
	if err != nil {
		s.logger.Error("Failed to resolve share", "error", err, "share_id", shareID)
		return nil, utils.NewInternalError("Failed to resolve share link")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("This share link does not exist or has been revoked")
	}
	if !doc.ShareActive(s.now()) {
		return nil, utils.NewGoneError("This share link has expired")
	}
	return doc, nil
}

func (s *documentService) ResolveShare(ctx context.Context, shareID, userAgent string) (*SharedDocument, error) {
	doc, err := s.resolveActiveShare(ctx, shareID)
	if err != nil {
		return nil, err
	}

	return &SharedDocument{
		Name:      doc.Name,
		Category:  doc.Category,
		FileType:  doc.FileType,
		FileSize:  doc.FileSize,
		PageCount: doc.PageCount,
		Delivery:  platform.PlanFor(userAgent),
	}, nil
}

func (s *documentService) OpenSharedFile(ctx context.Context, shareID string) (io.ReadCloser, *models.Document, error) {
	doc, err := s.resolveActiveShare(ctx, shareID)
	if err != nil {
		return nil, nil, err
	}

	reader, _, err := s.storage.Reader(ctx, doc.FileKey)
	if err != nil {
		s.logger.Error("Failed to open shared file", "error", err, "share_id", shareID)
		return nil, nil, utils.NewInternalError("Failed to open document")
	}

	return reader, doc, nil
}
