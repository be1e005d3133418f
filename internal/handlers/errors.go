package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/barreview/barreview-backend/internal/middleware"
	"github.com/barreview/barreview-backend/internal/models"
	"github.com/barreview/barreview-backend/internal/web"
)

// writeError converts a service error to its response at the request
// boundary: 400 for malformed input, 404 page for missing records, 403 for
// non-owner mutations, generic 500 for upstream failures. Nothing here is
// retried or fatal.
func writeError(w http.ResponseWriter, r *http.Request, render *web.Renderer, err error) {
	switch {
	case models.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		render.Render(w, http.StatusNotFound, "404", web.Page{
			User: middleware.UserFromContext(r.Context()),
			Data: "That bar does not exist.",
		})
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, "You do not have permission to do that", http.StatusForbidden)
	default:
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
	}
}
