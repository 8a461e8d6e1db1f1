package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/services"
)

// RecipeDetailer defines the interface that the service must implement.
type RecipeDetailer interface {
	Detail(ctx context.Context, recipeID uuid.UUID) (*models.RecipeDB, []models.StepDB, []models.CommentDB, error)
}

// RecipeDetailResponse represents a recipe with its steps and comments
// swagger:model RecipeDetailResponse
type RecipeDetailResponse struct {
	Recipe   *models.RecipeDB   `json:"recipe"`
	Steps    []models.StepDB    `json:"steps"`
	Comments []models.CommentDB `json:"comments"`
}

// NewRecipeDetailHandler returns an HTTP handler for the recipe detail
// view.
// @Summary Get a recipe
// @Tags recipes
// @Produce json
// @Param recipeID path string true "Recipe id"
// @Success 200 {object} handlers.RecipeDetailResponse "Recipe with ordered steps and comments"
// @Failure 404 {object} handlers.ErrorResponse "Recipe not found"
// @Router /recipes/{recipeID} [get]
func NewRecipeDetailHandler(svc RecipeDetailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Recipe not found"})
			return
		}

		recipe, steps, comments, err := svc.Detail(r.Context(), recipeID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Recipe not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, RecipeDetailResponse{
			Recipe:   recipe,
			Steps:    steps,
			Comments: comments,
		})
	}
}
