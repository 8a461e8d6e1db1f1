package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
)

const recipeColumns = `recipe_id, title, description, ingredients, category_id, author_id, image_url, created_at, updated_at`

// RecipeReadRepository handles recipe read operations
type RecipeReadRepository struct {
	db *sqlx.DB
}

func NewRecipeReadRepository(db *sqlx.DB) *RecipeReadRepository {
	return &RecipeReadRepository{db: db}
}

// GetByID returns a recipe by id, or nil when it does not exist.
func (r *RecipeReadRepository) GetByID(ctx context.Context, recipeID uuid.UUID) (*models.RecipeDB, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE recipe_id = $1`

	var recipe models.RecipeDB
	err := r.db.GetContext(ctx, &recipe, query, recipeID)

	logger.Log.Infow("recipe query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{recipeID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns a page of recipes, newest first, optionally filtered by
// category and by a case-insensitive title substring.
func (r *RecipeReadRepository) List(ctx context.Context, categoryID *uuid.UUID, search string, limit, offset int) ([]models.RecipeDB, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes
		WHERE ($1::UUID IS NULL OR category_id = $1)
		  AND ($2::VARCHAR = '' OR title ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	args := []any{categoryID, search, limit, offset}

	recipes := make([]models.RecipeDB, 0)
	err := r.db.SelectContext(ctx, &recipes, query, args...)

	logger.Log.Infow("recipe query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", len(recipes),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Count returns the total number of recipes matching the List filters.
func (r *RecipeReadRepository) Count(ctx context.Context, categoryID *uuid.UUID, search string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM recipes
		WHERE ($1::UUID IS NULL OR category_id = $1)
		  AND ($2::VARCHAR = '' OR title ILIKE '%' || $2 || '%')
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, categoryID, search)

	logger.Log.Infow("recipe query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{categoryID, search},
		"result", count,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListByAuthor returns all recipes of one author, newest first.
func (r *RecipeReadRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.RecipeDB, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE author_id = $1 ORDER BY created_at DESC`

	recipes := make([]models.RecipeDB, 0)
	err := r.db.SelectContext(ctx, &recipes, query, authorID)

	logger.Log.Infow("recipe query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{authorID},
		"result", len(recipes),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListLatest returns the most recently created recipes.
func (r *RecipeReadRepository) ListLatest(ctx context.Context, limit int) ([]models.RecipeDB, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes ORDER BY created_at DESC LIMIT $1`

	recipes := make([]models.RecipeDB, 0)
	err := r.db.SelectContext(ctx, &recipes, query, limit)

	logger.Log.Infow("recipe query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{limit},
		"result", len(recipes),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// RecipeWriteRepository handles recipe write operations. Writes join the
// per-request transaction when one is present in the context.
type RecipeWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewRecipeWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *RecipeWriteRepository {
	return &RecipeWriteRepository{db: db, txGetter: txGetter}
}

// Insert creates a new recipe row. created_at is set once here and never
// updated afterwards.
func (r *RecipeWriteRepository) Insert(ctx context.Context, recipe models.RecipeDB) error {
	query := `
		INSERT INTO recipes (recipe_id, title, description, ingredients, category_id, author_id, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	args := []any{recipe.RecipeID, recipe.Title, recipe.Description, recipe.Ingredients, recipe.CategoryID, recipe.AuthorID, recipe.ImageURL}

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	res, err := executor.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("recipe insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// Update rewrites the mutable recipe fields, scoped to the owning
// author. Returns the number of rows touched: zero means the recipe does
// not exist or belongs to someone else.
func (r *RecipeWriteRepository) Update(ctx context.Context, recipe models.RecipeDB) (int64, error) {
	query := `
		UPDATE recipes
		SET title = $3, description = $4, ingredients = $5, category_id = $6, image_url = $7, updated_at = NOW()
		WHERE recipe_id = $1 AND author_id = $2
	`
	args := []any{recipe.RecipeID, recipe.AuthorID, recipe.Title, recipe.Description, recipe.Ingredients, recipe.CategoryID, recipe.ImageURL}

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	res, err := executor.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("recipe update",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}

// Delete removes a recipe, scoped to the owning author. Steps and
// comments go with it through FK cascade.
func (r *RecipeWriteRepository) Delete(ctx context.Context, recipeID, authorID uuid.UUID) (int64, error) {
	query := `DELETE FROM recipes WHERE recipe_id = $1 AND author_id = $2`

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	res, err := executor.ExecContext(ctx, query, recipeID, authorID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("recipe delete",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{recipeID, authorID},
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}
