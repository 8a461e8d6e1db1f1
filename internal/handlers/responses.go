package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/recipebook-app/recipebook/internal/middlewares"
)

// MessageResponse represents a successful outcome with a user-facing message
// swagger:model MessageResponse
type MessageResponse struct {
	// Success message
	// example: Account activated
	Message string `json:"message"`

	// Redirect hint for the presentation layer
	// example: /recipes
	Redirect string `json:"redirect,omitempty"`
}

// ErrorResponse represents a failed outcome
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// example: invalid or expired link
	Error string `json:"error"`

	// Per-field validation messages, present on validation failures
	Details map[string]string `json:"details,omitempty"`
}

var validate = validator.New()

// writeJSON writes a JSON body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// validationDetails flattens validator errors into a field → message map.
func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[fe.Field()] = "failed on " + fe.Tag()
		}
	}
	return details
}

// callerID returns the authenticated user id placed in the context by
// the auth middleware.
func callerID(r *http.Request) uuid.UUID {
	return middlewares.GetUserIDFromContext(r.Context())
}
