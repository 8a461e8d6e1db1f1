package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID           uuid.UUID `json:"user_id" db:"user_id"`                     // Primary key
	Username         string    `json:"username" db:"username"`                   // Unique username
	Email            string    `json:"email" db:"email"`                         // Confirmed email address
	UnconfirmedEmail *string   `json:"unconfirmed_email" db:"unconfirmed_email"` // Pending new address awaiting confirmation
	PasswordHash     string    `json:"-" db:"password_hash"`                     // Bcrypt hash
	IsActive         bool      `json:"is_active" db:"is_active"`                 // False until the activation link is consumed
	IsStaff          bool      `json:"is_staff" db:"is_staff"`                   // Privileged moderation role
	CreatedAt        time.Time `json:"created_at" db:"created_at"`               // Creation timestamp
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`               // Last update timestamp
}
