package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/recipebook-app/recipebook/internal/models"
)

func setupCommentPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		user_id UUID PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		email VARCHAR(254) NOT NULL UNIQUE,
		unconfirmed_email VARCHAR(254),
		password_hash VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT FALSE,
		is_staff BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS recipes (
		recipe_id UUID PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		ingredients TEXT NOT NULL DEFAULT '',
		category_id UUID,
		author_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		image_url VARCHAR(500),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS comments (
		comment_id UUID PRIMARY KEY,
		recipe_id UUID NOT NULL REFERENCES recipes(recipe_id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		text TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func insertCommentFixture(t *testing.T, db *sqlx.DB) (userID, recipeID uuid.UUID) {
	t.Helper()

	userID = uuid.New()
	_, err := db.Exec(
		`INSERT INTO users (user_id, username, email, password_hash, is_active) VALUES ($1, $2, $3, 'hash', TRUE)`,
		userID, "user-"+userID.String()[:8], userID.String()[:8]+"@example.com",
	)
	assert.NoError(t, err)

	recipeID = uuid.New()
	_, err = db.Exec(
		`INSERT INTO recipes (recipe_id, title, author_id) VALUES ($1, 'Fixture', $2)`,
		recipeID, userID,
	)
	assert.NoError(t, err)

	return userID, recipeID
}

func TestCommentWriteRepository_CreateAndGet(t *testing.T) {
	db, teardown := setupCommentPostgresContainer(t)
	defer teardown()

	writeRepo := NewCommentWriteRepository(db)
	readRepo := NewCommentReadRepository(db)
	ctx := context.Background()

	userID, recipeID := insertCommentFixture(t, db)

	comment := models.CommentDB{
		CommentID: uuid.New(),
		RecipeID:  recipeID,
		UserID:    userID,
		Text:      "Tried it last night, wonderful.",
	}
	assert.NoError(t, writeRepo.Create(ctx, comment))

	got, err := readRepo.GetByID(ctx, comment.CommentID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, comment.Text, got.Text)
	assert.Equal(t, userID, got.UserID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCommentReadRepository_GetByID_NotFound(t *testing.T) {
	db, teardown := setupCommentPostgresContainer(t)
	defer teardown()

	readRepo := NewCommentReadRepository(db)

	got, err := readRepo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCommentReadRepository_ListByRecipeOldestFirst(t *testing.T) {
	db, teardown := setupCommentPostgresContainer(t)
	defer teardown()

	readRepo := NewCommentReadRepository(db)
	ctx := context.Background()

	userID, recipeID := insertCommentFixture(t, db)

	for i, text := range []string{"first", "second", "third"} {
		_, err := db.Exec(
			`INSERT INTO comments (comment_id, recipe_id, user_id, text, created_at) VALUES ($1, $2, $3, $4, NOW() + ($5 * INTERVAL '1 second'))`,
			uuid.New(), recipeID, userID, text, i,
		)
		assert.NoError(t, err)
	}

	comments, err := readRepo.ListByRecipe(ctx, recipeID)
	assert.NoError(t, err)
	assert.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "third", comments[2].Text)
}

func TestCommentWriteRepository_Delete(t *testing.T) {
	db, teardown := setupCommentPostgresContainer(t)
	defer teardown()

	writeRepo := NewCommentWriteRepository(db)
	readRepo := NewCommentReadRepository(db)
	ctx := context.Background()

	userID, recipeID := insertCommentFixture(t, db)

	comment := models.CommentDB{CommentID: uuid.New(), RecipeID: recipeID, UserID: userID, Text: "soon gone"}
	assert.NoError(t, writeRepo.Create(ctx, comment))

	assert.NoError(t, writeRepo.Delete(ctx, comment.CommentID))

	got, err := readRepo.GetByID(ctx, comment.CommentID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
