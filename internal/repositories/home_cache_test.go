package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/recipebook-app/recipebook/internal/models"
)

func TestHomeCacheRepository(t *testing.T) {
	ctx := context.Background()

	// Start Redis container
	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	err = rdb.Ping(ctx).Err()
	assert.NoError(t, err)

	repo := NewHomeCacheRepository(rdb, 2*time.Second)

	page := HomePage{
		PopularCategories: []models.CategoryCount{{CategoryID: uuid.New(), Name: "Soups", RecipeCount: 4}},
		LatestRecipes:     []models.RecipeDB{{RecipeID: uuid.New(), Title: "Gazpacho"}},
	}

	t.Run("Set and Get home page", func(t *testing.T) {
		err := repo.Set(ctx, page)
		assert.NoError(t, err)

		got, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.Equal(t, page.PopularCategories, got.PopularCategories)
		assert.Len(t, got.LatestRecipes, 1)
		assert.Equal(t, "Gazpacho", got.LatestRecipes[0].Title)
	})

	t.Run("Cached page expires", func(t *testing.T) {
		err := repo.Set(ctx, page)
		assert.NoError(t, err)

		// Wait for expiration (2s)
		time.Sleep(3 * time.Second)

		got, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Miss is not an error", func(t *testing.T) {
		assert.NoError(t, rdb.Del(ctx, "home_page").Err())

		got, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}
