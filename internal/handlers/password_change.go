package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/services"
)

// PasswordChanger defines the interface that the service must implement.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

// PasswordChangeRequest represents the JSON body for a password change
// swagger:model PasswordChangeRequest
type PasswordChangeRequest struct {
	// Current password
	// required: true
	OldPassword string `json:"old_password" validate:"required"`

	// New password
	// required: true
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// NewPasswordChangeHandler returns an HTTP handler for changing the
// caller's password.
// @Summary Change own password
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param passwordChangeRequest body handlers.PasswordChangeRequest true "Old and new password"
// @Success 200 {object} handlers.MessageResponse "Password changed"
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 401 {object} handlers.ErrorResponse "Wrong current password"
// @Router /password-change [post]
func NewPasswordChangeHandler(svc PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordChangeRequest

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

		err := svc.ChangePassword(r.Context(), callerID(r), req.OldPassword, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials):
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Current password is incorrect"})
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message:  "Password changed.",
			Redirect: "/profile",
		})
	}
}
