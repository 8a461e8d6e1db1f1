package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/services"
)

// RecipeCatalog defines the browse operations the list view needs.
type RecipeCatalog interface {
	List(ctx context.Context, categoryID *uuid.UUID, search string, page int) ([]models.RecipeDB, int, error)
	Categories(ctx context.Context) ([]models.CategoryDB, error)
}

// RecipeListResponse represents one page of the recipe list
// swagger:model RecipeListResponse
type RecipeListResponse struct {
	Recipes    []models.RecipeDB   `json:"recipes"`
	Categories []models.CategoryDB `json:"categories"`

	// Total number of matches across all pages
	// example: 42
	Total int `json:"total"`

	// Current 1-based page
	// example: 1
	Page int `json:"page"`

	// Page size
	// example: 9
	PerPage int `json:"per_page"`
}

// NewRecipeListHandler returns an HTTP handler for the paginated recipe
// list with category filter and title search.
// @Summary List recipes
// @Tags recipes
// @Produce json
// @Param category query string false "Category id filter"
// @Param q query string false "Title substring search"
// @Param page query int false "1-based page number"
// @Success 200 {object} handlers.RecipeListResponse "One page of recipes"
// @Router /recipes [get]
func NewRecipeListHandler(svc RecipeCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var categoryID *uuid.UUID
		if raw := r.URL.Query().Get("category"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid category id"})
				return
			}
			categoryID = &id
		}

		search := r.URL.Query().Get("q")

		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				page = parsed
			}
		}

		recipes, total, err := svc.List(r.Context(), categoryID, search, page)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			return
		}

		categories, err := svc.Categories(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			return
		}

		writeJSON(w, http.StatusOK, RecipeListResponse{
			Recipes:    recipes,
			Categories: categories,
			Total:      total,
			Page:       page,
			PerPage:    services.RecipesPerPage,
		})
	}
}
