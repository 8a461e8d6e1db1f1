package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/services"
)

// RecipeDeleter defines the interface that the service must implement.
type RecipeDeleter interface {
	Delete(ctx context.Context, authorID, recipeID uuid.UUID) error
}

// NewRecipeDeleteHandler returns an HTTP handler for deleting a recipe.
// @Summary Delete a recipe
// @Description Deletes one of the caller's recipes; its steps and comments go with it. A recipe owned by someone else reads as not found.
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param recipeID path string true "Recipe id"
// @Success 200 {object} handlers.MessageResponse "Recipe deleted"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Account not activated"
// @Failure 404 {object} handlers.ErrorResponse "Recipe not found"
// @Router /recipes/{recipeID} [delete]
func NewRecipeDeleteHandler(svc RecipeDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Recipe not found"})
			return
		}

		err = svc.Delete(r.Context(), callerID(r), recipeID)
		if err != nil {
			switch {
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
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message:  "Recipe deleted.",
			Redirect: "/recipes",
		})
	}
}
