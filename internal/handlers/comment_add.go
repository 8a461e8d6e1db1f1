package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/services"
)

// CommentAdder defines the interface that the service must implement.
type CommentAdder interface {
	Add(ctx context.Context, userID, recipeID uuid.UUID, text string) (*models.CommentDB, error)
}

// CommentRequest represents the JSON body for submitting a comment
// swagger:model CommentRequest
type CommentRequest struct {
	// Comment text, immutable once created
	// required: true
	// example: Tried it yesterday, worked great.
	Text string `json:"text" validate:"required"`
}

// CommentResponse represents a created comment
// swagger:model CommentResponse
type CommentResponse struct {
	Comment *models.CommentDB `json:"comment"`
}

// NewCommentAddHandler returns an HTTP handler for commenting on a recipe.
// @Summary Comment on a recipe
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param recipeID path string true "Recipe id"
// @Param commentRequest body handlers.CommentRequest true "Comment text"
// @Success 201 {object} handlers.CommentResponse "Comment created"
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Account not activated"
// @Failure 404 {object} handlers.ErrorResponse "Recipe not found"
// @Router /recipes/{recipeID}/comments [post]
func NewCommentAddHandler(svc CommentAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Recipe not found"})
			return
		}

		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation failed",
				Details: validationDetails(err),
			})
			return
		}

		comment, err := svc.Add(r.Context(), callerID(r), recipeID, req.Text)
		if err != nil {
			var verr *services.ValidationError
			switch {
			case errors.As(err, &verr):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{
					Error:   "validation failed",
					Details: verr.Fields,
				})
			case errors.Is(err, services.ErrNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Recipe not found"})
			case errors.Is(err, services.ErrNotActivated):
				writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "Activate your account first"})
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusCreated, CommentResponse{Comment: comment})
	}
}
