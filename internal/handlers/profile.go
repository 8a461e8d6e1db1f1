package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/models"
	"github.com/recipebook-app/recipebook/internal/services"
)

// ProfileGetter defines the read side of the profile service.
type ProfileGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserDB, []models.RecipeDB, error)
}

// ProfileUpdater defines the write side of the profile service.
type ProfileUpdater interface {
	Update(ctx context.Context, userID uuid.UUID, username, email string) (bool, error)
}

// ProfileResponse represents the profile view
// swagger:model ProfileResponse
type ProfileResponse struct {
	User    *models.UserDB    `json:"user"`
	Recipes []models.RecipeDB `json:"recipes"`
}

// ProfileUpdateRequest represents the JSON body for a profile edit
// swagger:model ProfileUpdateRequest
type ProfileUpdateRequest struct {
	// Username
	// required: true
	// example: john_doe
	Username string `json:"username" validate:"required,min=3,max=50"`

	// Email; a new address is staged until confirmed
	// required: true
	// example: john@example.com
	Email string `json:"email" validate:"required,email"`
}

// NewProfileGetHandler returns an HTTP handler for the profile view.
// @Summary View own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.ProfileResponse "Profile with own recipes"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /profile [get]
func NewProfileGetHandler(svc ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, recipes, err := svc.Get(r.Context(), callerID(r))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, ProfileResponse{User: user, Recipes: recipes})
	}
}

// NewProfileUpdateHandler returns an HTTP handler for profile editing.
// A changed email address is staged and confirmed out of band; every
// other field saves immediately.
// @Summary Edit own profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profileUpdateRequest body handlers.ProfileUpdateRequest true "Profile fields"
// @Success 200 {object} handlers.MessageResponse "Profile saved; message notes a pending email confirmation if one was started"
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /profile [put]
func NewProfileUpdateHandler(svc ProfileUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProfileUpdateRequest

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

		pending, err := svc.Update(r.Context(), callerID(r), req.Username, req.Email)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		if pending {
			writeJSON(w, http.StatusOK, MessageResponse{
				Message:  "Profile saved. A confirmation link was sent to the new address; your email changes only after confirmation.",
				Redirect: "/profile",
			})
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message:  "Profile updated.",
			Redirect: "/profile",
		})
	}
}
