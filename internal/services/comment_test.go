package services_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/services"
)

func newCommentService(ctrl *gomock.Controller) (
	*services.CommentService,
	*services.MockUserReader,
	*services.MockRecipeGetter,
	*services.MockCommentReader,
	*services.MockCommentWriter,
) {
	mockUsers := services.NewMockUserReader(ctrl)
	mockRecipes := services.NewMockRecipeGetter(ctrl)
	mockReader := services.NewMockCommentReader(ctrl)
	mockWriter := services.NewMockCommentWriter(ctrl)

	svc := services.NewCommentService(mockUsers, mockRecipes, mockReader, mockWriter, nil)
	return svc, mockUsers, mockRecipes, mockReader, mockWriter
}

func TestCommentService_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	recipeID := uuid.New()

	t.Run("comment on existing recipe", func(t *testing.T) {
		svc, mockUsers, mockRecipes, _, mockWriter := newCommentService(ctrl)

		mockUsers.EXPECT().GetByID(gomock.Any(), userID).Return(activeUser(userID), nil)
		mockRecipes.EXPECT().GetByID(gomock.Any(), recipeID).Return(&models.RecipeDB{RecipeID: recipeID}, nil)
		mockWriter.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		comment, err := svc.Add(context.Background(), userID, recipeID, "Looks delicious")
		assert.NoError(t, err)
		assert.Equal(t, recipeID, comment.RecipeID)
		assert.Equal(t, userID, comment.UserID)
		assert.Equal(t, "Looks delicious", comment.Text)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		svc, mockUsers, mockRecipes, _, _ := newCommentService(ctrl)

		mockUsers.EXPECT().GetByID(gomock.Any(), userID).Return(activeUser(userID), nil)
		mockRecipes.EXPECT().GetByID(gomock.Any(), recipeID).Return(nil, nil)

		_, err := svc.Add(context.Background(), userID, recipeID, "text")
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("blank text", func(t *testing.T) {
		svc, mockUsers, _, _, _ := newCommentService(ctrl)

		mockUsers.EXPECT().GetByID(gomock.Any(), userID).Return(activeUser(userID), nil)

		_, err := svc.Add(context.Background(), userID, recipeID, "  ")
		var validationErr *services.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("inactive caller", func(t *testing.T) {
		svc, mockUsers, _, _, _ := newCommentService(ctrl)

		mockUsers.EXPECT().
			GetByID(gomock.Any(), userID).
			Return(&models.UserDB{UserID: userID, IsActive: false}, nil)

		_, err := svc.Add(context.Background(), userID, recipeID, "text")
		assert.ErrorIs(t, err, services.ErrNotActivated)
	})
}

func TestCommentService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authorID := uuid.New()
	otherID := uuid.New()
	commentID := uuid.New()

	comment := &models.CommentDB{CommentID: commentID, RecipeID: uuid.New(), UserID: authorID, Text: "mine"}

	t.Run("author deletes own comment", func(t *testing.T) {
		svc, mockUsers, _, mockReader, mockWriter := newCommentService(ctrl)

		mockReader.EXPECT().GetByID(gomock.Any(), commentID).Return(comment, nil)
		mockUsers.EXPECT().GetByID(gomock.Any(), authorID).Return(activeUser(authorID), nil)
		mockWriter.EXPECT().Delete(gomock.Any(), commentID).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), authorID, commentID))
	})

	t.Run("staff deletes someone else's comment", func(t *testing.T) {
		svc, mockUsers, _, mockReader, mockWriter := newCommentService(ctrl)

		staff := &models.UserDB{UserID: otherID, IsActive: true, IsStaff: true}

		mockReader.EXPECT().GetByID(gomock.Any(), commentID).Return(comment, nil)
		mockUsers.EXPECT().GetByID(gomock.Any(), otherID).Return(staff, nil)
		mockWriter.EXPECT().Delete(gomock.Any(), commentID).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), otherID, commentID))
	})

	t.Run("non-author non-staff is forbidden, not missing", func(t *testing.T) {
		svc, mockUsers, _, mockReader, _ := newCommentService(ctrl)

		mockReader.EXPECT().GetByID(gomock.Any(), commentID).Return(comment, nil)
		mockUsers.EXPECT().GetByID(gomock.Any(), otherID).Return(activeUser(otherID), nil)

		err := svc.Delete(context.Background(), otherID, commentID)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("unknown comment", func(t *testing.T) {
		svc, _, _, mockReader, _ := newCommentService(ctrl)

		mockReader.EXPECT().GetByID(gomock.Any(), commentID).Return(nil, nil)

		err := svc.Delete(context.Background(), authorID, commentID)
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}
