package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
)

// CategoryReadRepository handles category read operations
type CategoryReadRepository struct {
	db *sqlx.DB
}

func NewCategoryReadRepository(db *sqlx.DB) *CategoryReadRepository {
	return &CategoryReadRepository{db: db}
}

// List returns all categories ordered by name.
func (r *CategoryReadRepository) List(ctx context.Context) ([]models.CategoryDB, error) {
	query := `SELECT category_id, name FROM categories ORDER BY name`

	categories := make([]models.CategoryDB, 0)
	err := r.db.SelectContext(ctx, &categories, query)

	logger.Log.Infow("category query",
		"query", strings.Join(strings.Fields(query), " "),
		"result", len(categories),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return categories, nil
}

// ListPopular returns the categories holding at least one recipe,
// ordered by recipe count descending.
func (r *CategoryReadRepository) ListPopular(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	query := `
		SELECT c.category_id, c.name, COUNT(r.recipe_id) AS recipe_count
		FROM categories c
		JOIN recipes r ON r.category_id = c.category_id
		GROUP BY c.category_id, c.name
		HAVING COUNT(r.recipe_id) > 0
		ORDER BY recipe_count DESC
		LIMIT $1
	`

	counts := make([]models.CategoryCount, 0)
	err := r.db.SelectContext(ctx, &counts, query, limit)

	logger.Log.Infow("category query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{limit},
		"result", len(counts),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return counts, nil
}
