package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barreview/barreview-backend/internal/middleware"
	"github.com/barreview/barreview-backend/internal/services"
	"github.com/barreview/barreview-backend/internal/web"
)

// ReviewHandler serves review creation under a bar. There is deliberately no
// login requirement here; see the review service.
type ReviewHandler struct {
	reviews *services.ReviewService
	render  *web.Renderer
}

func NewReviewHandler(reviews *services.ReviewService, render *web.Renderer) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, render: render}
}

func (h *ReviewHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "reviews/new", web.Page{
		User: middleware.UserFromContext(r.Context()),
		Data: chi.URLParam(r, "id"),
	})
}

// List sends the visitor to the bar page, where the reviews are shown.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/bars/"+chi.URLParam(r, "id"), http.StatusFound)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	barID := chi.URLParam(r, "id")

	rating, err := optionalFloat(r, "rating")
	if err != nil {
		writeError(w, r, h.render, err)
		return
	}
	var ratingValue float64
	if rating != nil {
		ratingValue = *rating
	}

	if _, err := h.reviews.Create(r.Context(), barID, r.FormValue("user"), ratingValue, r.FormValue("comment")); err != nil {
		writeError(w, r, h.render, err)
		return
	}
	http.Redirect(w, r, "/bars/"+barID, http.StatusFound)
}
