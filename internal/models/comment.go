package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentDB represents a comment record in the database.
// Text and timestamp are immutable once created.
type CommentDB struct {
	CommentID uuid.UUID `json:"comment_id" db:"comment_id"` // Primary key
	RecipeID  uuid.UUID `json:"recipe_id" db:"recipe_id"`   // Cascades on recipe deletion
	UserID    uuid.UUID `json:"user_id" db:"user_id"`       // Cascades on user deletion
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
