package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/services"
)

// RecipeUpdater defines the interface that the service must implement.
type RecipeUpdater interface {
	Update(ctx context.Context, authorID, recipeID uuid.UUID, input services.RecipeInput, entries []models.StepEntry) (*models.RecipeDB, error)
}

// NewRecipeUpdateHandler returns an HTTP handler for updating a recipe
// with its steps in one transactional save.
// @Summary Update a recipe
// @Description Update with create semantics, scoped to the caller's own recipes. A recipe owned by someone else reads as not found. Surviving steps are renumbered 1..K in submission order; steps absent from the submission are removed.
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param recipeID path string true "Recipe id"
// @Param recipeSaveRequest body handlers.RecipeSaveRequest true "Recipe with step entries"
// @Success 200 {object} handlers.RecipeResponse "Recipe updated"
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Account not activated"
// @Failure 404 {object} handlers.ErrorResponse "Recipe not found"
// @Router /recipes/{recipeID} [put]
func NewRecipeUpdateHandler(svc RecipeUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Recipe not found"})
			return
		}

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

		recipe, err := svc.Update(r.Context(), callerID(r), recipeID, req.input(), req.entries())
		if err != nil {
			writeRecipeSaveError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, RecipeResponse{Recipe: recipe})
	}
}
