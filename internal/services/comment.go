package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
)

var (
	// ErrForbidden is returned when the caller may not delete a comment.
	// Unlike recipe ownership, this path confirms the comment exists
	// before denying access.
	ErrForbidden = errors.New("forbidden")
)

// RecipeGetter fetches a recipe without ownership scoping.
type RecipeGetter interface {
	GetByID(ctx context.Context, recipeID uuid.UUID) (*models.RecipeDB, error)
}

// CommentReader defines read operations for comments.
type CommentReader interface {
	GetByID(ctx context.Context, commentID uuid.UUID) (*models.CommentDB, error)
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]models.CommentDB, error)
}

// CommentWriter defines write operations for comments.
type CommentWriter interface {
	Create(ctx context.Context, comment models.CommentDB) error
	Delete(ctx context.Context, commentID uuid.UUID) error
}

// CommentService handles comment creation and moderated deletion.
type CommentService struct {
	users       UserReader
	recipes     RecipeGetter
	reader      CommentReader
	writer      CommentWriter
	kafkaWriter KafkaWriter
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(
	users UserReader,
	recipes RecipeGetter,
	reader CommentReader,
	writer CommentWriter,
	kafkaWriter KafkaWriter,
) *CommentService {
	return &CommentService{
		users:       users,
		recipes:     recipes,
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
	}
}

// Add creates an immutable comment on an existing recipe.
func (svc *CommentService) Add(ctx context.Context, userID, recipeID uuid.UUID, text string) (*models.CommentDB, error) {
	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}
	if !user.IsActive {
		return nil, ErrNotActivated
	}

	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Fields: map[string]string{"text": "text is required"}}
	}

	recipe, err := svc.recipes.GetByID(ctx, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to get recipe", "err", err)
		return nil, err
	}
	if recipe == nil {
		return nil, ErrNotFound
	}

	comment := models.CommentDB{
		CommentID: uuid.New(),
		RecipeID:  recipeID,
		UserID:    userID,
		Text:      text,
	}
	if err := svc.writer.Create(ctx, comment); err != nil {
		logger.Log.Errorw("failed to create comment", "err", err)
		return nil, err
	}

	publishEvent(ctx, svc.kafkaWriter, "comment_added", userID.String(), comment.CommentID.String())
	return &comment, nil
}

// Delete removes a comment when the caller is its author or holds the
// staff role. Unknown ids are ErrNotFound; known ids with an
// unauthorized caller are ErrForbidden, and the comment stays.
func (svc *CommentService) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := svc.reader.GetByID(ctx, commentID)
	if err != nil {
		logger.Log.Errorw("failed to get comment", "err", err)
		return err
	}
	if comment == nil {
		return ErrNotFound
	}

	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		return ErrUserDoesNotExist
	}
	if comment.UserID != userID && !user.IsStaff {
		return ErrForbidden
	}

	if err := svc.writer.Delete(ctx, commentID); err != nil {
		logger.Log.Errorw("failed to delete comment", "err", err)
		return err
	}

	publishEvent(ctx, svc.kafkaWriter, "comment_deleted", userID.String(), commentID.String())
	return nil
}
