package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/services"
)

// ActivationResender defines the interface that the service must implement.
type ActivationResender interface {
	ResendActivation(ctx context.Context, userID uuid.UUID) error
}

// NewResendActivationHandler returns an HTTP handler that resends the
// activation email to the authenticated caller.
// @Summary Resend activation email
// @Description Regenerates the activation token and resends the email. A no-op with a warning when the account is already active.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.MessageResponse "Email sent, or account already active"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /resend-activation [post]
func NewResendActivationHandler(svc ActivationResender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.ResendActivation(r.Context(), callerID(r))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAlreadyActivated):
				writeJSON(w, http.StatusOK, MessageResponse{
					Message:  "Your account is already active.",
					Redirect: "/profile",
				})
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message:  "Activation email sent again.",
			Redirect: "/recipes",
		})
	}
}
