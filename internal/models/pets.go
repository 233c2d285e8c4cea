package models

import "time"

type Pet struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	Name          string     `json:"name" db:"name"`
	Breed         string     `json:"breed" db:"breed"`
	BirthDate     *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	PhotoKey      *string    `json:"-" db:"photo_key"`
	PetIdentifier *string    `json:"pet_identifier,omitempty" db:"pet_identifier"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
