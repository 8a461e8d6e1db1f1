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

// EmailChangeConfirmer defines the interface that the service must implement.
type EmailChangeConfirmer interface {
	ConfirmEmailChange(ctx context.Context, uidB64, token string) (string, error)
}

// EmailChangeResender defines the interface that the service must implement.
type EmailChangeResender interface {
	ResendEmailChange(ctx context.Context, userID uuid.UUID) (string, error)
}

// NewConfirmEmailHandler returns an HTTP handler for the email-change link.
// @Summary Confirm an email change
// @Description Consumes an email-change link: the staged address becomes the live one. Invalid or expired links leave the account unchanged.
// @Tags profile
// @Produce json
// @Param uidb64 path string true "Encoded user id"
// @Param token path string true "Confirmation token"
// @Success 200 {object} handlers.MessageResponse "Email changed"
// @Failure 400 {object} handlers.ErrorResponse "Invalid link or no pending change"
// @Router /confirm-email/{uidb64}/{token} [get]
func NewConfirmEmailHandler(svc EmailChangeConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uidB64 := chi.URLParam(r, "uidb64")
		token := chi.URLParam(r, "token")

		email, err := svc.ConfirmEmailChange(r.Context(), uidB64, token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNoPendingEmail):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "No pending email change for this account"})
			case errors.Is(err, services.ErrInvalidLink):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Confirmation link is invalid or expired"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message:  "Your email was changed to " + email + ".",
			Redirect: "/profile",
		})
	}
}

// NewResendEmailChangeHandler returns an HTTP handler that resends the
// email-change confirmation with a fresh token.
// @Summary Resend email-change confirmation
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.MessageResponse "Confirmation sent again"
// @Failure 400 {object} handlers.ErrorResponse "No pending email change"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /resend-email-change [post]
func NewResendEmailChangeHandler(svc EmailChangeResender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := svc.ResendEmailChange(r.Context(), callerID(r))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNoPendingEmail):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "No pending email change for this account"})
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message:  "Confirmation email sent again to " + email + ".",
			Redirect: "/profile",
		})
	}
}
