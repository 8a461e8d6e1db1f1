package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
)

var (
	// ErrNotFound covers both a genuinely unknown id and an id filtered
	// out by ownership scoping. A non-owner cannot tell the difference.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports per-field input problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// RecipeInput carries the recipe fields of a save request.
type RecipeInput struct {
	Title       string
	Description string
	Ingredients string
	CategoryID  *uuid.UUID
	ImageURL    *string
}

// RecipeWriter defines write operations for recipes.
type RecipeWriter interface {
	Insert(ctx context.Context, recipe models.RecipeDB) error
	Update(ctx context.Context, recipe models.RecipeDB) (int64, error)
	Delete(ctx context.Context, recipeID, authorID uuid.UUID) (int64, error)
}

// StepWriter defines write operations for recipe steps.
type StepWriter interface {
	Save(ctx context.Context, step models.StepDB) error
	Delete(ctx context.Context, recipeID, stepID uuid.UUID) error
}

// StepLister lists a recipe's steps in display order.
type StepLister interface {
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]models.StepDB, error)
}

// RecipeService saves a recipe together with its ordered steps as one
// unit. Handlers mount it behind the transaction middleware, so every
// write in a save call commits or rolls back together.
type RecipeService struct {
	users       UserReader
	recipes     RecipeWriter
	steps       StepWriter
	stepLister  StepLister
	kafkaWriter KafkaWriter
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(
	users UserReader,
	recipes RecipeWriter,
	steps StepWriter,
	stepLister StepLister,
	kafkaWriter KafkaWriter,
) *RecipeService {
	return &RecipeService{
		users:       users,
		recipes:     recipes,
		steps:       steps,
		stepLister:  stepLister,
		kafkaWriter: kafkaWriter,
	}
}

// Create validates the recipe and its step entries as one unit, then
// persists the recipe with the caller as author and the surviving steps
// numbered 1..K in submission order. Entries flagged for deletion are
// skipped. Any error leaves nothing behind once the surrounding
// transaction rolls back.
func (svc *RecipeService) Create(ctx context.Context, authorID uuid.UUID, input RecipeInput, entries []models.StepEntry) (*models.RecipeDB, error) {
	if err := svc.requireActive(ctx, authorID); err != nil {
		return nil, err
	}

	surviving := survivingEntries(entries)
	if err := validateSteps(surviving); err != nil {
		return nil, err
	}

	recipe := models.RecipeDB{
		RecipeID:    uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Ingredients: input.Ingredients,
		CategoryID:  input.CategoryID,
		AuthorID:    authorID,
		ImageURL:    input.ImageURL,
	}

	if err := svc.recipes.Insert(ctx, recipe); err != nil {
		logger.Log.Errorw("failed to insert recipe", "err", err)
		return nil, err
	}

	// A brand-new recipe has no existing steps, so submitted step ids
	// are never reused: each entry gets a fresh id.
	if err := svc.saveSteps(ctx, recipe.RecipeID, surviving, nil); err != nil {
		return nil, err
	}

	publishEvent(ctx, svc.kafkaWriter, "recipe_saved", authorID.String(), recipe.RecipeID.String())
	return &recipe, nil
}

// Update has create semantics scoped to an existing recipe of the
// caller. A recipe that does not exist or belongs to someone else is
// ErrNotFound, never "forbidden". Existing steps absent from the
// surviving submission are deleted; everything left is renumbered
// densely in submission order, never trusting stored numbers.
func (svc *RecipeService) Update(ctx context.Context, authorID, recipeID uuid.UUID, input RecipeInput, entries []models.StepEntry) (*models.RecipeDB, error) {
	if err := svc.requireActive(ctx, authorID); err != nil {
		return nil, err
	}

	surviving := survivingEntries(entries)
	if err := validateSteps(surviving); err != nil {
		return nil, err
	}

	recipe := models.RecipeDB{
		RecipeID:    recipeID,
		Title:       input.Title,
		Description: input.Description,
		Ingredients: input.Ingredients,
		CategoryID:  input.CategoryID,
		AuthorID:    authorID,
		ImageURL:    input.ImageURL,
	}

	rows, err := svc.recipes.Update(ctx, recipe)
	if err != nil {
		logger.Log.Errorw("failed to update recipe", "err", err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	existing, err := svc.stepLister.ListByRecipe(ctx, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to list steps", "err", err)
		return nil, err
	}

	kept := make(map[uuid.UUID]bool, len(surviving))
	for _, entry := range surviving {
		if entry.StepID != nil {
			kept[*entry.StepID] = true
		}
	}
	owned := make(map[uuid.UUID]bool, len(existing))
	for _, step := range existing {
		owned[step.StepID] = true
		if !kept[step.StepID] {
			if err := svc.steps.Delete(ctx, recipeID, step.StepID); err != nil {
				logger.Log.Errorw("failed to delete step", "err", err)
				return nil, err
			}
		}
	}

	if err := svc.saveSteps(ctx, recipeID, surviving, owned); err != nil {
		return nil, err
	}

	publishEvent(ctx, svc.kafkaWriter, "recipe_saved", authorID.String(), recipeID.String())
	return &recipe, nil
}

// Delete removes a recipe of the caller; steps and comments cascade in
// the storage layer. Non-owners get ErrNotFound.
func (svc *RecipeService) Delete(ctx context.Context, authorID, recipeID uuid.UUID) error {
	if err := svc.requireActive(ctx, authorID); err != nil {
		return err
	}

	rows, err := svc.recipes.Delete(ctx, recipeID, authorID)
	if err != nil {
		logger.Log.Errorw("failed to delete recipe", "err", err)
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	publishEvent(ctx, svc.kafkaWriter, "recipe_deleted", authorID.String(), recipeID.String())
	return nil
}

// saveSteps persists surviving entries with step numbers assigned from
// their position in the submission, 1-based and gapless. A submitted
// step id is reused only when it appears in owned, the id set of the
// recipe being saved; any other id (including one lifted from someone
// else's recipe) is discarded and the entry saved under a fresh id.
func (svc *RecipeService) saveSteps(ctx context.Context, recipeID uuid.UUID, surviving []models.StepEntry, owned map[uuid.UUID]bool) error {
	for i, entry := range surviving {
		stepID := uuid.New()
		if entry.StepID != nil && owned[*entry.StepID] {
			stepID = *entry.StepID
		}

		step := models.StepDB{
			StepID:      stepID,
			RecipeID:    recipeID,
			StepNumber:  i + 1,
			Instruction: entry.Instruction,
			ImageURL:    entry.ImageURL,
		}
		if err := svc.steps.Save(ctx, step); err != nil {
			logger.Log.Errorw("failed to save step", "err", err)
			return err
		}
	}
	return nil
}

func (svc *RecipeService) requireActive(ctx context.Context, userID uuid.UUID) error {
	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		return ErrUserDoesNotExist
	}
	if !user.IsActive {
		return ErrNotActivated
	}
	return nil
}

// survivingEntries filters out entries flagged for deletion, preserving
// submission order.
func survivingEntries(entries []models.StepEntry) []models.StepEntry {
	surviving := make([]models.StepEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Delete {
			surviving = append(surviving, entry)
		}
	}
	return surviving
}

// validateSteps checks every surviving entry as part of the single
// save-unit validation.
func validateSteps(surviving []models.StepEntry) error {
	fields := make(map[string]string)
	for i, entry := range surviving {
		if strings.TrimSpace(entry.Instruction) == "" {
			fields[fmt.Sprintf("steps[%d].instruction", i)] = "instruction is required"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
