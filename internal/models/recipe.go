package models

import (
	"time"

	"github.com/google/uuid"
)

// RecipeDB represents a recipe record in the database
type RecipeDB struct {
	RecipeID    uuid.UUID  `json:"recipe_id" db:"recipe_id"`     // Primary key
	Title       string     `json:"title" db:"title"`             // Recipe title
	Description string     `json:"description" db:"description"` // Short description
	Ingredients string     `json:"ingredients" db:"ingredients"` // Free-text ingredient list
	CategoryID  *uuid.UUID `json:"category_id" db:"category_id"` // Nullable, set NULL on category deletion
	AuthorID    uuid.UUID  `json:"author_id" db:"author_id"`     // Owner, cascades on user deletion
	ImageURL    *string    `json:"image_url" db:"image_url"`     // Optional image
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`   // Immutable once set
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// StepDB represents a single ordered instruction inside a recipe.
// Within one recipe, step numbers are contiguous 1..N after every
// successful save.
type StepDB struct {
	StepID      uuid.UUID `json:"step_id" db:"step_id"`
	RecipeID    uuid.UUID `json:"recipe_id" db:"recipe_id"`     // Cascades on recipe deletion
	StepNumber  int       `json:"step_number" db:"step_number"` // 1-based position in display order
	Instruction string    `json:"instruction" db:"instruction"`
	ImageURL    *string   `json:"image_url" db:"image_url"` // Optional image
}

// StepEntry is a single submitted step in a recipe save request.
// StepID is nil for new steps; Delete marks an existing step for removal.
type StepEntry struct {
	StepID      *uuid.UUID `json:"step_id"`
	Instruction string     `json:"instruction"`
	ImageURL    *string    `json:"image_url"`
	Delete      bool       `json:"delete"`
}
