package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/services"
)

// RecipeCreator defines the interface that the service must implement.
type RecipeCreator interface {
	Create(ctx context.Context, authorID uuid.UUID, input services.RecipeInput, entries []models.StepEntry) (*models.RecipeDB, error)
}

// StepEntryRequest represents one submitted step in a recipe save
// swagger:model StepEntryRequest
type StepEntryRequest struct {
	// Existing step id; empty for new steps
	StepID *uuid.UUID `json:"step_id"`

	// Instruction text
	// example: Dice the onions
	Instruction string `json:"instruction"`

	// Optional image
	ImageURL *string `json:"image_url"`

	// Marks the step for deletion
	Delete bool `json:"delete"`
}

// RecipeSaveRequest represents the JSON body for creating or updating a
// recipe together with its steps
// swagger:model RecipeSaveRequest
type RecipeSaveRequest struct {
	// Title
	// required: true
	// example: Borscht
	Title string `json:"title" validate:"required,max=100"`

	// Description
	// required: true
	Description string `json:"description" validate:"required"`

	// Ingredients, free text
	// required: true
	Ingredients string `json:"ingredients" validate:"required"`

	// Category id
	CategoryID *uuid.UUID `json:"category_id"`

	// Optional image
	ImageURL *string `json:"image_url"`

	// Ordered step entries; submission order drives step numbering
	Steps []StepEntryRequest `json:"steps"`
}

// RecipeResponse represents a saved recipe
// swagger:model RecipeResponse
type RecipeResponse struct {
	Recipe *models.RecipeDB `json:"recipe"`
}

func (req *RecipeSaveRequest) input() services.RecipeInput {
	return services.RecipeInput{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	}
}

func (req *RecipeSaveRequest) entries() []models.StepEntry {
	entries := make([]models.StepEntry, 0, len(req.Steps))
	for _, s := range req.Steps {
		entries = append(entries, models.StepEntry{
			StepID:      s.StepID,
			Instruction: s.Instruction,
			ImageURL:    s.ImageURL,
			Delete:      s.Delete,
		})
	}
	return entries
}

// NewRecipeCreateHandler returns an HTTP handler for creating a recipe
// with its steps in one transactional save.
// @Summary Create a recipe
// @Description Creates a recipe with its ordered steps as one unit. Surviving steps are numbered 1..K in submission order. Any validation failure rolls back the whole save.
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param recipeSaveRequest body handlers.RecipeSaveRequest true "Recipe with step entries"
// @Success 201 {object} handlers.RecipeResponse "Recipe created"
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Account not activated"
// @Router /recipes [post]
func NewRecipeCreateHandler(svc RecipeCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RecipeSaveRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation failed",
				Details: validationDetails(err),
			})
			return
		}

		recipe, err := svc.Create(r.Context(), callerID(r), req.input(), req.entries())
		if err != nil {
			writeRecipeSaveError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, RecipeResponse{Recipe: recipe})
	}
}

// writeRecipeSaveError maps recipe save errors to HTTP responses. Shared
// by the create and update handlers.
func writeRecipeSaveError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: verr.Fields,
		})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Recipe not found"})
	case errors.Is(err, services.ErrNotActivated):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "Activate your account first"})
	case errors.Is(err, services.ErrUserDoesNotExist):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
