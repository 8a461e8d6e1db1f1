package services

import (
	"context"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/repositories"
)

const (
	popularCategoryLimit = 5
	latestRecipeLimit    = 6
)

// PopularCategoryLister lists categories by recipe count.
type PopularCategoryLister interface {
	ListPopular(ctx context.Context, limit int) ([]models.CategoryCount, error)
}

// LatestRecipeLister lists the newest recipes.
type LatestRecipeLister interface {
	ListLatest(ctx context.Context, limit int) ([]models.RecipeDB, error)
}

// HomeCache caches the assembled home page.
type HomeCache interface {
	Get(ctx context.Context) (*repositories.HomePage, error)
	Set(ctx context.Context, page repositories.HomePage) error
}

// HomeService assembles the home page, read-through cached in Redis.
type HomeService struct {
	categories PopularCategoryLister
	recipes    LatestRecipeLister
	cache      HomeCache
}

// NewHomeService creates a new HomeService instance.
func NewHomeService(categories PopularCategoryLister, recipes LatestRecipeLister, cache HomeCache) *HomeService {
	return &HomeService{
		categories: categories,
		recipes:    recipes,
		cache:      cache,
	}
}

// Get returns the home page payload. Cache failures fall back to the
// database; only storage errors fail the call.
func (svc *HomeService) Get(ctx context.Context) (*repositories.HomePage, error) {
	if svc.cache != nil {
		page, err := svc.cache.Get(ctx)
		if err != nil {
			logger.Log.Errorw("home cache read failed", "err", err)
		} else if page != nil {
			return page, nil
		}
	}

	categories, err := svc.categories.ListPopular(ctx, popularCategoryLimit)
	if err != nil {
		logger.Log.Errorw("failed to list popular categories", "err", err)
		return nil, err
	}

	recipes, err := svc.recipes.ListLatest(ctx, latestRecipeLimit)
	if err != nil {
		logger.Log.Errorw("failed to list latest recipes", "err", err)
		return nil, err
	}

	page := repositories.HomePage{
		PopularCategories: categories,
		LatestRecipes:     recipes,
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, page); err != nil {
			logger.Log.Errorw("home cache write failed", "err", err)
		}
	}

	return &page, nil
}
