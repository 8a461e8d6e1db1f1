package handlers

import (
	"context"
	"net/http"

	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/repositories"
)

// HomePageGetter defines the interface that the service must implement.
type HomePageGetter interface {
	Get(ctx context.Context) (*repositories.HomePage, error)
}

// NewHomeHandler returns an HTTP handler for the home page: popular
// categories and the latest recipes.
// @Summary Home page
// @Tags recipes
// @Produce json
// @Success 200 {object} repositories.HomePage "Popular categories and latest recipes"
// @Router / [get]
func NewHomeHandler(svc HomePageGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.Get(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}
