package models

import "github.com/google/uuid"

// CategoryDB represents a recipe category record in the database
type CategoryDB struct {
	CategoryID uuid.UUID `json:"category_id" db:"category_id"` // Primary key
	Name       string    `json:"name" db:"name"`
}

// CategoryCount is a category together with the number of recipes in it.
type CategoryCount struct {
	CategoryID  uuid.UUID `json:"category_id" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	RecipeCount int       `json:"recipe_count" db:"recipe_count"`
}
