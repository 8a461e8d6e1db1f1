package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
)

const homePageKey = "home_page"

// HomePage is the cached home-screen payload.
type HomePage struct {
	PopularCategories []models.CategoryCount `json:"popular_categories"`
	LatestRecipes     []models.RecipeDB      `json:"latest_recipes"`
}

// HomeCacheRepository caches the home page payload in Redis
type HomeCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for the cached page
}

// NewHomeCacheRepository creates a new repository instance with TTL
func NewHomeCacheRepository(client *redis.Client, expiration time.Duration) *HomeCacheRepository {
	return &HomeCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// Get fetches the cached home page. A cache miss returns (nil, nil).
func (r *HomeCacheRepository) Get(ctx context.Context) (*HomePage, error) {
	val, err := r.client.Get(ctx, homePageKey).Result()
	if err != nil {
		logger.Log.Infow("home cache get",
			"key", homePageKey,
			"error", err,
		)
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var page HomePage
	if err := json.Unmarshal([]byte(val), &page); err != nil {
		logger.Log.Infow("home cache get",
			"key", homePageKey,
			"value", val,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow("home cache get",
		"key", homePageKey,
		"error", nil,
	)

	return &page, nil
}

// Set caches the home page with the configured expiration.
func (r *HomeCacheRepository) Set(ctx context.Context, page HomePage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, homePageKey, data, r.exp).Err()

	logger.Log.Infow("home cache set",
		"key", homePageKey,
		"error", err,
	)

	return err
}
