package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mypetid/document-service/internal/models"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	GetByShareID(ctx context.Context, shareID string) (*models.Document, error)
	ListByOwner(ctx context.Context, userID string, filter models.ListFilter) ([]models.Document, error)
	Update(ctx context.Context, id string, upd models.DocumentUpdate) error
	SetArchived(ctx context.Context, id string, archived bool) error
	SetShare(ctx context.Context, id string, shareID *string, expiresAt *time.Time) error
}

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

const documentColumns = `id, name, category, file_key, file_type, file_size,
       user_id, pet_id, page_count, share_id, share_expires_at,
       archived, created_at, updated_at`

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, name, category, file_key, file_type, file_size,
		                       user_id, pet_id, page_count, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.Name,
		doc.Category,
		doc.FileKey,
		doc.FileType,
		doc.FileSize,
		doc.UserID,
		doc.PetID,
		doc.PageCount,
		doc.Archived,
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	return err
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document

	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	err := r.db.GetContext(ctx, &doc, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *documentRepository) GetByShareID(ctx context.Context, shareID string) (*models.Document, error) {
	var doc models.Document

	query := `SELECT ` + documentColumns + ` FROM documents WHERE share_id = $1`

	err := r.db.GetContext(ctx, &doc, query, shareID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *documentRepository) ListByOwner(ctx context.Context, userID string, filter models.ListFilter) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 AND archived = $2`
	args := []interface{}{userID, filter.Archived}

	if filter.PetID != nil {
		query += ` AND pet_id = $3`
		args = append(args, *filter.PetID)
	}

	query += ` ORDER BY created_at DESC`

	docs := []models.Document{}
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *documentRepository) Update(ctx context.Context, id string, upd models.DocumentUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if upd.PetID != nil {
		sets = append(sets, "pet_id = ?")
		args = append(args, *upd.PetID)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE documents SET %s WHERE id = ?`, strings.Join(sets, ", "))

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *documentRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	query := `UPDATE documents SET archived = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, archived, time.Now())
	return err
}

func (r *documentRepository) SetShare(ctx context.Context, id string, shareID *string, expiresAt *time.Time) error {
	query := `UPDATE documents SET share_id = $2, share_expires_at = $3, updated_at = $4 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, shareID, expiresAt, time.Now())
	return err
}
