package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
)

// RecipesPerPage is the recipe list page size.
const RecipesPerPage = 9

// RecipeLister pages through recipes with optional filters.
type RecipeLister interface {
	List(ctx context.Context, categoryID *uuid.UUID, search string, limit, offset int) ([]models.RecipeDB, error)
	Count(ctx context.Context, categoryID *uuid.UUID, search string) (int, error)
}

// CategoryLister lists all categories.
type CategoryLister interface {
	List(ctx context.Context) ([]models.CategoryDB, error)
}

// CatalogService serves the public recipe browsing surface.
type CatalogService struct {
	recipes    RecipeLister
	getter     RecipeGetter
	steps      StepLister
	comments   CommentReader
	categories CategoryLister
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(
	recipes RecipeLister,
	getter RecipeGetter,
	steps StepLister,
	comments CommentReader,
	categories CategoryLister,
) *CatalogService {
	return &CatalogService{
		recipes:    recipes,
		getter:     getter,
		steps:      steps,
		comments:   comments,
		categories: categories,
	}
}

// List returns one page of recipes, newest first, with the total match
// count for pagination. Page numbers are 1-based; anything below 1 is
// treated as the first page.
func (svc *CatalogService) List(ctx context.Context, categoryID *uuid.UUID, search string, page int) ([]models.RecipeDB, int, error) {
	if page < 1 {
		page = 1
	}

	total, err := svc.recipes.Count(ctx, categoryID, search)
	if err != nil {
		logger.Log.Errorw("failed to count recipes", "err", err)
		return nil, 0, err
	}

	recipes, err := svc.recipes.List(ctx, categoryID, search, RecipesPerPage, (page-1)*RecipesPerPage)
	if err != nil {
		logger.Log.Errorw("failed to list recipes", "err", err)
		return nil, 0, err
	}

	return recipes, total, nil
}

// Detail returns a recipe with its ordered steps and comments.
func (svc *CatalogService) Detail(ctx context.Context, recipeID uuid.UUID) (*models.RecipeDB, []models.StepDB, []models.CommentDB, error) {
	recipe, err := svc.getter.GetByID(ctx, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to get recipe", "err", err)
		return nil, nil, nil, err
	}
	if recipe == nil {
		return nil, nil, nil, ErrNotFound
	}

	steps, err := svc.steps.ListByRecipe(ctx, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to list steps", "err", err)
		return nil, nil, nil, err
	}

	comments, err := svc.comments.ListByRecipe(ctx, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to list comments", "err", err)
		return nil, nil, nil, err
	}

	return recipe, steps, comments, nil
}

// Categories returns every category for the list filter.
func (svc *CatalogService) Categories(ctx context.Context) ([]models.CategoryDB, error) {
	categories, err := svc.categories.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list categories", "err", err)
		return nil, err
	}
	return categories, nil
}
