package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/services"
)

// CommentDeleter defines the interface that the service must implement.
type CommentDeleter interface {
	Delete(ctx context.Context, userID, commentID uuid.UUID) error
}

// NewCommentDeleteHandler returns an HTTP handler for deleting a comment.
// @Summary Delete a comment
// @Description Deletes a comment when the caller is its author or holds the staff role. Unlike recipes, an existing comment with an unauthorized caller reads as forbidden, not as missing.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentID path string true "Comment id"
// @Success 200 {object} handlers.MessageResponse "Comment deleted"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Caller may not delete this comment"
// @Failure 404 {object} handlers.ErrorResponse "Comment not found"
// @Router /comments/{commentID} [delete]
func NewCommentDeleteHandler(svc CommentDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Comment not found"})
			return
		}

		err = svc.Delete(r.Context(), callerID(r), commentID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Comment not found"})
			case errors.Is(err, services.ErrForbidden):
				writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "You may not delete this comment"})
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Comment deleted."})
	}
}
