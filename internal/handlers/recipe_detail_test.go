package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/services"
)

func TestRecipeDetailHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recipeID := uuid.New()

	t.Run("recipe with steps and comments", func(t *testing.T) {
		mockSvc := NewMockRecipeDetailer(ctrl)

		recipe := &models.RecipeDB{RecipeID: recipeID, Title: "Borscht"}
		steps := []models.StepDB{
			{StepID: uuid.New(), RecipeID: recipeID, StepNumber: 1, Instruction: "Chop"},
			{StepID: uuid.New(), RecipeID: recipeID, StepNumber: 2, Instruction: "Boil"},
		}
		comments := []models.CommentDB{{CommentID: uuid.New(), RecipeID: recipeID, Text: "Nice"}}

		mockSvc.EXPECT().Detail(gomock.Any(), recipeID).Return(recipe, steps, comments, nil)

		r := chi.NewRouter()
		r.Get("/recipes/{recipeID}", NewRecipeDetailHandler(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/recipes/"+recipeID.String(), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp RecipeDetailResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, recipeID, resp.Recipe.RecipeID)
		assert.Len(t, resp.Steps, 2)
		assert.Equal(t, 1, resp.Steps[0].StepNumber)
		assert.Len(t, resp.Comments, 1)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		mockSvc := NewMockRecipeDetailer(ctrl)
		mockSvc.EXPECT().Detail(gomock.Any(), recipeID).Return(nil, nil, nil, services.ErrNotFound)

		r := chi.NewRouter()
		r.Get("/recipes/{recipeID}", NewRecipeDetailHandler(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/recipes/"+recipeID.String(), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed recipe id", func(t *testing.T) {
		mockSvc := NewMockRecipeDetailer(ctrl)

		r := chi.NewRouter()
		r.Get("/recipes/{recipeID}", NewRecipeDetailHandler(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/recipes/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
