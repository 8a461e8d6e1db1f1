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

func setupStepPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
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

	CREATE TABLE IF NOT EXISTS steps (
		step_id UUID PRIMARY KEY,
		recipe_id UUID NOT NULL REFERENCES recipes(recipe_id) ON DELETE CASCADE,
		step_number INTEGER NOT NULL CHECK (step_number > 0),
		instruction TEXT NOT NULL,
		image_url VARCHAR(500)
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

func insertStepFixture(t *testing.T, db *sqlx.DB) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	_, err := db.Exec(
		`INSERT INTO users (user_id, username, email, password_hash, is_active) VALUES ($1, $2, $3, 'hash', TRUE)`,
		userID, "user-"+userID.String()[:8], userID.String()[:8]+"@example.com",
	)
	assert.NoError(t, err)

	recipeID := uuid.New()
	_, err = db.Exec(
		`INSERT INTO recipes (recipe_id, title, author_id) VALUES ($1, 'Fixture', $2)`,
		recipeID, userID,
	)
	assert.NoError(t, err)

	return recipeID
}

func TestStepWriteRepository_SaveInsertsAndUpdates(t *testing.T) {
	db, teardown := setupStepPostgresContainer(t)
	defer teardown()

	writeRepo := NewStepWriteRepository(db, nil)
	readRepo := NewStepReadRepository(db)
	ctx := context.Background()

	recipeID := insertStepFixture(t, db)

	step := models.StepDB{
		StepID:      uuid.New(),
		RecipeID:    recipeID,
		StepNumber:  1,
		Instruction: "Chop the onions",
	}
	assert.NoError(t, writeRepo.Save(ctx, step))

	// Same step id again: the upsert renumbers and rewrites in place.
	step.StepNumber = 2
	step.Instruction = "Chop the onions finely"
	assert.NoError(t, writeRepo.Save(ctx, step))

	steps, err := readRepo.ListByRecipe(ctx, recipeID)
	assert.NoError(t, err)
	assert.Len(t, steps, 1)
	assert.Equal(t, 2, steps[0].StepNumber)
	assert.Equal(t, "Chop the onions finely", steps[0].Instruction)
}

func TestStepReadRepository_ListByRecipeOrder(t *testing.T) {
	db, teardown := setupStepPostgresContainer(t)
	defer teardown()

	writeRepo := NewStepWriteRepository(db, nil)
	readRepo := NewStepReadRepository(db)
	ctx := context.Background()

	recipeID := insertStepFixture(t, db)

	// Insert out of order; the repository must return display order.
	assert.NoError(t, writeRepo.Save(ctx, models.StepDB{StepID: uuid.New(), RecipeID: recipeID, StepNumber: 3, Instruction: "Serve"}))
	assert.NoError(t, writeRepo.Save(ctx, models.StepDB{StepID: uuid.New(), RecipeID: recipeID, StepNumber: 1, Instruction: "Prep"}))
	assert.NoError(t, writeRepo.Save(ctx, models.StepDB{StepID: uuid.New(), RecipeID: recipeID, StepNumber: 2, Instruction: "Cook"}))

	steps, err := readRepo.ListByRecipe(ctx, recipeID)
	assert.NoError(t, err)
	assert.Len(t, steps, 3)
	assert.Equal(t, []string{"Prep", "Cook", "Serve"}, []string{steps[0].Instruction, steps[1].Instruction, steps[2].Instruction})
}

func TestStepWriteRepository_SaveDoesNotTouchForeignRecipeStep(t *testing.T) {
	db, teardown := setupStepPostgresContainer(t)
	defer teardown()

	writeRepo := NewStepWriteRepository(db, nil)
	readRepo := NewStepReadRepository(db)
	ctx := context.Background()

	victimRecipeID := insertStepFixture(t, db)
	attackerRecipeID := insertStepFixture(t, db)

	victimStep := models.StepDB{StepID: uuid.New(), RecipeID: victimRecipeID, StepNumber: 1, Instruction: "Victim's instruction"}
	assert.NoError(t, writeRepo.Save(ctx, victimStep))

	// Same step id, different recipe: the scoped conflict clause must
	// leave the victim row alone.
	hijack := models.StepDB{StepID: victimStep.StepID, RecipeID: attackerRecipeID, StepNumber: 9, Instruction: "overwritten"}
	assert.NoError(t, writeRepo.Save(ctx, hijack))

	steps, err := readRepo.ListByRecipe(ctx, victimRecipeID)
	assert.NoError(t, err)
	assert.Len(t, steps, 1)
	assert.Equal(t, 1, steps[0].StepNumber)
	assert.Equal(t, "Victim's instruction", steps[0].Instruction)

	attackerSteps, err := readRepo.ListByRecipe(ctx, attackerRecipeID)
	assert.NoError(t, err)
	assert.Len(t, attackerSteps, 0)
}

func TestStepWriteRepository_Delete(t *testing.T) {
	db, teardown := setupStepPostgresContainer(t)
	defer teardown()

	writeRepo := NewStepWriteRepository(db, nil)
	readRepo := NewStepReadRepository(db)
	ctx := context.Background()

	recipeID := insertStepFixture(t, db)
	otherRecipeID := insertStepFixture(t, db)

	step := models.StepDB{StepID: uuid.New(), RecipeID: recipeID, StepNumber: 1, Instruction: "Mix"}
	assert.NoError(t, writeRepo.Save(ctx, step))

	t.Run("WrongRecipeDeletesNothing", func(t *testing.T) {
		assert.NoError(t, writeRepo.Delete(ctx, otherRecipeID, step.StepID))

		steps, err := readRepo.ListByRecipe(ctx, recipeID)
		assert.NoError(t, err)
		assert.Len(t, steps, 1)
	})

	t.Run("MatchingRecipeDeletes", func(t *testing.T) {
		assert.NoError(t, writeRepo.Delete(ctx, recipeID, step.StepID))

		steps, err := readRepo.ListByRecipe(ctx, recipeID)
		assert.NoError(t, err)
		assert.Len(t, steps, 0)
	})
}

func TestStepWriteRepository_RejectsNonPositiveNumber(t *testing.T) {
	db, teardown := setupStepPostgresContainer(t)
	defer teardown()

	writeRepo := NewStepWriteRepository(db, nil)
	ctx := context.Background()

	recipeID := insertStepFixture(t, db)

	err := writeRepo.Save(ctx, models.StepDB{StepID: uuid.New(), RecipeID: recipeID, StepNumber: 0, Instruction: "Prep"})
	assert.Error(t, err, "schema must refuse step_number below 1")
}

func TestSteps_CascadeOnRecipeDelete(t *testing.T) {
	db, teardown := setupStepPostgresContainer(t)
	defer teardown()

	writeRepo := NewStepWriteRepository(db, nil)
	readRepo := NewStepReadRepository(db)
	ctx := context.Background()

	recipeID := insertStepFixture(t, db)
	assert.NoError(t, writeRepo.Save(ctx, models.StepDB{StepID: uuid.New(), RecipeID: recipeID, StepNumber: 1, Instruction: "Boil"}))

	_, err := db.Exec(`DELETE FROM recipes WHERE recipe_id = $1`, recipeID)
	assert.NoError(t, err)

	steps, err := readRepo.ListByRecipe(ctx, recipeID)
	assert.NoError(t, err)
	assert.Len(t, steps, 0)
}
