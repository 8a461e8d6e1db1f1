package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/services"
)

func newCatalogService(ctrl *gomock.Controller) (
	*services.CatalogService,
	*services.MockRecipeLister,
	*services.MockRecipeGetter,
	*services.MockStepLister,
	*services.MockCommentReader,
	*services.MockCategoryLister,
) {
	mockLister := services.NewMockRecipeLister(ctrl)
	mockGetter := services.NewMockRecipeGetter(ctrl)
	mockSteps := services.NewMockStepLister(ctrl)
	mockComments := services.NewMockCommentReader(ctrl)
	mockCategories := services.NewMockCategoryLister(ctrl)

	svc := services.NewCatalogService(mockLister, mockGetter, mockSteps, mockComments, mockCategories)
	return svc, mockLister, mockGetter, mockSteps, mockComments, mockCategories
}

func TestCatalogService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	categoryID := uuid.New()

	tests := []struct {
		name       string
		categoryID *uuid.UUID
		search     string
		page       int
		wantOffset int
	}{
		{name: "first page", page: 1, wantOffset: 0},
		{name: "third page offset", page: 3, wantOffset: 2 * services.RecipesPerPage},
		{name: "page below one clamps to first", page: 0, wantOffset: 0},
		{name: "category filter with search", categoryID: &categoryID, search: "soup", page: 1, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockLister, _, _, _, _ := newCatalogService(ctrl)

			recipes := []models.RecipeDB{{RecipeID: uuid.New(), Title: "Borscht"}}

			mockLister.EXPECT().
				Count(gomock.Any(), tt.categoryID, tt.search).
				Return(42, nil)
			mockLister.EXPECT().
				List(gomock.Any(), tt.categoryID, tt.search, services.RecipesPerPage, tt.wantOffset).
				Return(recipes, nil)

			got, total, err := svc.List(context.Background(), tt.categoryID, tt.search, tt.page)
			assert.NoError(t, err)
			assert.Equal(t, recipes, got)
			assert.Equal(t, 42, total)
		})
	}

	t.Run("count error", func(t *testing.T) {
		svc, mockLister, _, _, _, _ := newCatalogService(ctrl)

		mockLister.EXPECT().
			Count(gomock.Any(), gomock.Nil(), "").
			Return(0, errors.New("db error"))

		_, _, err := svc.List(context.Background(), nil, "", 1)
		assert.EqualError(t, err, "db error")
	})
}

func TestCatalogService_Detail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recipeID := uuid.New()

	t.Run("recipe with steps and comments", func(t *testing.T) {
		svc, _, mockGetter, mockSteps, mockComments, _ := newCatalogService(ctrl)

		recipe := &models.RecipeDB{RecipeID: recipeID, Title: "Borscht"}
		steps := []models.StepDB{
			{StepID: uuid.New(), RecipeID: recipeID, StepNumber: 1, Instruction: "Chop"},
			{StepID: uuid.New(), RecipeID: recipeID, StepNumber: 2, Instruction: "Boil"},
		}
		comments := []models.CommentDB{{CommentID: uuid.New(), RecipeID: recipeID, Text: "Nice"}}

		mockGetter.EXPECT().GetByID(gomock.Any(), recipeID).Return(recipe, nil)
		mockSteps.EXPECT().ListByRecipe(gomock.Any(), recipeID).Return(steps, nil)
		mockComments.EXPECT().ListByRecipe(gomock.Any(), recipeID).Return(comments, nil)

		gotRecipe, gotSteps, gotComments, err := svc.Detail(context.Background(), recipeID)
		assert.NoError(t, err)
		assert.Equal(t, recipe, gotRecipe)
		assert.Equal(t, steps, gotSteps)
		assert.Equal(t, comments, gotComments)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		svc, _, mockGetter, _, _, _ := newCatalogService(ctrl)

		mockGetter.EXPECT().GetByID(gomock.Any(), recipeID).Return(nil, nil)

		_, _, _, err := svc.Detail(context.Background(), recipeID)
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}

func TestCatalogService_Categories(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _, _, mockCategories := newCatalogService(ctrl)

	categories := []models.CategoryDB{
		{CategoryID: uuid.New(), Name: "Soups"},
		{CategoryID: uuid.New(), Name: "Desserts"},
	}

	mockCategories.EXPECT().List(gomock.Any()).Return(categories, nil)

	got, err := svc.Categories(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, categories, got)
}
