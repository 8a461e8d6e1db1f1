package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/services"
)

// Activator defines the interface that the service must implement.
type Activator interface {
	Activate(ctx context.Context, uidB64, token string) (string, error)
}

// ActivateResponse represents a successful activation outcome
// swagger:model ActivateResponse
type ActivateResponse struct {
	// Success message
	// example: Account activated
	Message string `json:"message"`

	// Session JWT, activation doubles as login
	// example: JWT_TOKEN
	Token string `json:"token"`

	// Redirect hint for the presentation layer
	// example: /recipes
	Redirect string `json:"redirect"`
}

// NewActivateHandler returns an HTTP handler for the activation link.
// @Summary Activate an account
// @Description Consumes an activation link. On first success the account becomes active and the response carries a session token. A second use of the same link reports "already activated" without error.
// @Tags auth
// @Produce json
// @Param uidb64 path string true "Encoded user id"
// @Param token path string true "Activation token"
// @Success 200 {object} handlers.ActivateResponse "Account activated, caller authenticated"
// @Failure 400 {object} handlers.ErrorResponse "Invalid or expired link"
// @Router /activate/{uidb64}/{token} [get]
func NewActivateHandler(svc Activator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uidB64 := chi.URLParam(r, "uidb64")
		token := chi.URLParam(r, "token")

		sessionToken, err := svc.Activate(r.Context(), uidB64, token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAlreadyActivated):
				writeJSON(w, http.StatusOK, MessageResponse{
					Message:  "Your account is already activated.",
					Redirect: "/login",
				})
			case errors.Is(err, services.ErrInvalidLink):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Activation link is invalid or expired"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, ActivateResponse{
			Message:  "Account activated",
			Token:    sessionToken,
			Redirect: "/recipes",
		})
	}
}
