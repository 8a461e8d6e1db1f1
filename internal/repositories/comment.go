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

// CommentReadRepository handles comment read operations
type CommentReadRepository struct {
	db *sqlx.DB
}

func NewCommentReadRepository(db *sqlx.DB) *CommentReadRepository {
	return &CommentReadRepository{db: db}
}

// GetByID returns a comment by id, or nil when it does not exist.
func (r *CommentReadRepository) GetByID(ctx context.Context, commentID uuid.UUID) (*models.CommentDB, error) {
	query := `SELECT comment_id, recipe_id, user_id, text, created_at FROM comments WHERE comment_id = $1`

	var comment models.CommentDB
	err := r.db.GetContext(ctx, &comment, query, commentID)

	logger.Log.Infow("comment query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{commentID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByRecipe returns a recipe's comments, oldest first.
func (r *CommentReadRepository) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]models.CommentDB, error) {
	query := `
		SELECT comment_id, recipe_id, user_id, text, created_at
		FROM comments
		WHERE recipe_id = $1
		ORDER BY created_at
	`

	comments := make([]models.CommentDB, 0)
	err := r.db.SelectContext(ctx, &comments, query, recipeID)

	logger.Log.Infow("comment query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{recipeID},
		"result", len(comments),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CommentWriteRepository handles comment write operations
type CommentWriteRepository struct {
	db *sqlx.DB
}

func NewCommentWriteRepository(db *sqlx.DB) *CommentWriteRepository {
	return &CommentWriteRepository{db: db}
}

// Create inserts a new comment. Comments are append-only: there is no
// update path.
func (r *CommentWriteRepository) Create(ctx context.Context, comment models.CommentDB) error {
	query := `
		INSERT INTO comments (comment_id, recipe_id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	args := []any{comment.CommentID, comment.RecipeID, comment.UserID, comment.Text}

	res, err := r.db.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("comment insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// Delete removes a comment by id.
func (r *CommentWriteRepository) Delete(ctx context.Context, commentID uuid.UUID) error {
	query := `DELETE FROM comments WHERE comment_id = $1`

	res, err := r.db.ExecContext(ctx, query, commentID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("comment delete",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{commentID},
		"result", rowsAffected,
		"error", err,
	)

	return err
}
