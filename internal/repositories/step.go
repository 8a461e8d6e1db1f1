package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
)

// StepReadRepository handles step read operations
type StepReadRepository struct {
	db *sqlx.DB
}

func NewStepReadRepository(db *sqlx.DB) *StepReadRepository {
	return &StepReadRepository{db: db}
}

// ListByRecipe returns a recipe's steps in display order.
func (r *StepReadRepository) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]models.StepDB, error) {
	query := `
		SELECT step_id, recipe_id, step_number, instruction, image_url
		FROM steps
		WHERE recipe_id = $1
		ORDER BY step_number
	`

	steps := make([]models.StepDB, 0)
	err := r.db.SelectContext(ctx, &steps, query, recipeID)

	logger.Log.Infow("step query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{recipeID},
		"result", len(steps),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return steps, nil
}

// StepWriteRepository handles step write operations. Writes join the
// per-request transaction when one is present in the context, which is
// how a recipe and its steps stay all-or-nothing.
type StepWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewStepWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *StepWriteRepository {
	return &StepWriteRepository{db: db, txGetter: txGetter}
}

// Save upserts one step with its freshly computed step_number. The
// conflict branch only fires for a step of the same recipe: a colliding
// id from another recipe updates nothing instead of rewriting it.
func (r *StepWriteRepository) Save(ctx context.Context, step models.StepDB) error {
	query := `
		INSERT INTO steps (step_id, recipe_id, step_number, instruction, image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (step_id) DO UPDATE
		SET step_number = EXCLUDED.step_number,
		    instruction = EXCLUDED.instruction,
		    image_url = EXCLUDED.image_url
		WHERE steps.recipe_id = EXCLUDED.recipe_id
	`
	args := []any{step.StepID, step.RecipeID, step.StepNumber, step.Instruction, step.ImageURL}

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

	logger.Log.Infow("step upsert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// Delete removes one step of a recipe. The recipe id keeps a caller from
// deleting steps of someone else's recipe by guessing ids.
func (r *StepWriteRepository) Delete(ctx context.Context, recipeID, stepID uuid.UUID) error {
	query := `DELETE FROM steps WHERE recipe_id = $1 AND step_id = $2`

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	res, err := executor.ExecContext(ctx, query, recipeID, stepID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("step delete",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{recipeID, stepID},
		"result", rowsAffected,
		"error", err,
	)

	return err
}
