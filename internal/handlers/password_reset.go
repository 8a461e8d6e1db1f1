package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/services"
)

// ResetRequester defines the request stage of the password reset flow.
type ResetRequester interface {
	Request(ctx context.Context, email string) error
}

// ResetConfirmer defines the confirm stage of the password reset flow.
type ResetConfirmer interface {
	Confirm(ctx context.Context, uidB64, token, newPassword string) error
}

// PasswordResetRequest represents the JSON body for requesting a reset link
// swagger:model PasswordResetRequest
type PasswordResetRequest struct {
	// Email address of an activated account
	// required: true
	// example: john@example.com
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest represents the JSON body for setting a new password
// swagger:model PasswordResetConfirmRequest
type PasswordResetConfirmRequest struct {
	// New password
	// required: true
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// NewPasswordResetRequestHandler returns an HTTP handler for the request
// stage of the reset flow.
// @Summary Request a password reset link
// @Description Sends a reset link to an activated account. The response does not distinguish an unknown address from an inactive account.
// @Tags auth
// @Accept json
// @Produce json
// @Param passwordResetRequest body handlers.PasswordResetRequest true "Account email"
// @Success 200 {object} handlers.MessageResponse "Reset email sent"
// @Failure 400 {object} handlers.ErrorResponse "Account not found or not activated"
// @Router /password-reset [post]
func NewPasswordResetRequestHandler(svc ResetRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetRequest

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

		err := svc.Request(r.Context(), req.Email)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrResetUnavailable):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Account with this email is not registered or not activated"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message:  "Password reset email sent.",
			Redirect: "/password-reset/done",
		})
	}
}

// NewPasswordResetDoneHandler acknowledges the request stage.
// @Summary Password reset requested
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.MessageResponse "Acknowledgement"
// @Router /password-reset/done [get]
func NewPasswordResetDoneHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{
			Message: "If the account exists, a reset link is on its way. Check your email.",
		})
	}
}

// NewPasswordResetConfirmHandler returns an HTTP handler for the confirm
// stage: consuming the link and setting a new password.
// @Summary Confirm a password reset
// @Description Consumes a reset link and stores the new password. Setting the password invalidates the link.
// @Tags auth
// @Accept json
// @Produce json
// @Param uidb64 path string true "Encoded user id"
// @Param token path string true "Reset token"
// @Param passwordResetConfirmRequest body handlers.PasswordResetConfirmRequest true "New password"
// @Success 200 {object} handlers.MessageResponse "Password reset"
// @Failure 400 {object} handlers.ErrorResponse "Invalid or expired link"
// @Router /reset/{uidb64}/{token} [post]
func NewPasswordResetConfirmHandler(svc ResetConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetConfirmRequest

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

		uidB64 := chi.URLParam(r, "uidb64")
		token := chi.URLParam(r, "token")

		err := svc.Confirm(r.Context(), uidB64, token, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidLink):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Reset link is invalid or expired"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message:  "Password has been reset.",
			Redirect: "/reset/done",
		})
	}
}

// NewPasswordResetCompleteHandler acknowledges the final stage.
// @Summary Password reset complete
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.MessageResponse "Acknowledgement"
// @Router /reset/done [get]
func NewPasswordResetCompleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{
			Message:  "Your password has been reset. You can now log in.",
			Redirect: "/login",
		})
	}
}
