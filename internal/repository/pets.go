package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/mypetid/document-service/internal/models"
)

type PetRepository interface {
	Create(ctx context.Context, pet *models.Pet) error
	GetByID(ctx context.Context, id string) (*models.Pet, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Pet, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type petRepository struct {
	db *sqlx.DB
}

func NewPetRepository(db *sqlx.DB) PetRepository {
	return &petRepository{db: db}
}

func (r *petRepository) Create(ctx context.Context, pet *models.Pet) error {
	query := `
		INSERT INTO pets (id, user_id, name, breed, birth_date, photo_key, pet_identifier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		pet.ID,
		pet.UserID,
		pet.Name,
		pet.Breed,
		pet.BirthDate,
		pet.PhotoKey,
		pet.PetIdentifier,
		pet.CreatedAt,
	)

	return err
}

func (r *petRepository) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	var pet models.Pet

	query := `
		SELECT id, user_id, name, breed, birth_date, photo_key, pet_identifier, created_at
		FROM pets WHERE id = $1
	`

	err := r.db.GetContext(ctx, &pet, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &pet, nil
}

func (r *petRepository) ListByOwner(ctx context.Context, userID string) ([]models.Pet, error) {
	query := `
		SELECT id, user_id, name, breed, birth_date, photo_key, pet_identifier, created_at
		FROM pets WHERE user_id = $1 ORDER BY created_at
	`

	pets := []models.Pet{}
	if err := r.db.SelectContext(ctx, &pets, query, userID); err != nil {
		return nil, err
	}

	return pets, nil
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, email, full_name, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.CreatedAt,
	)

	return err
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT id, email, full_name, created_at FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
