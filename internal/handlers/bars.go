package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/barreview/barreview-backend/internal/middleware"
	"github.com/barreview/barreview-backend/internal/models"
	"github.com/barreview/barreview-backend/internal/services"
	"github.com/barreview/barreview-backend/internal/web"
)

const (
	maxUploadBytes      = 20 << 20 // whole multipart request
	maxImagesPerRequest = 5
)

// BarHandler serves the bar listing pages and mutations.
type BarHandler struct {
	bars    *services.BarService
	reviews *services.ReviewService
	media   services.MediaHost
	render  *web.Renderer
}

func NewBarHandler(bars *services.BarService, reviews *services.ReviewService, media services.MediaHost, render *web.Renderer) *BarHandler {
	return &BarHandler{bars: bars, reviews: reviews, media: media, render: render}
}

type barShowData struct {
	Bar      *models.Bar
	Reviews  []models.Review
	Editable bool
}

// Index lists the logged-in user's bars.
func (h *BarHandler) Index(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	bars, err := h.bars.ListOwned(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.render, err)
		return
	}
	h.render.Render(w, http.StatusOK, "bars/index", web.Page{User: user, Data: bars})
}

func (h *BarHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "bars/new", web.Page{User: middleware.UserFromContext(r.Context())})
}

// Create uploads the submitted images and persists a new bar owned by the
// caller. An image uploaded before a later failure is tolerated as an
// unreferenced orphan on the media host.
func (h *BarHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	fields, files, err := h.parseBarForm(r)
	if err != nil {
		writeError(w, r, h.render, err)
		return
	}

	images, err := h.uploadImages(r, files)
	if err != nil {
		writeError(w, r, h.render, err)
		return
	}

	bar, err := h.bars.Create(r.Context(), user.ID, fields, images)
	if err != nil {
		writeError(w, r, h.render, err)
		return
	}

	log.Printf("bar created: %s", bar.Name)
	http.Redirect(w, r, "/bars/"+bar.ID.Hex(), http.StatusFound)
}

// Show renders one bar with its reviews; anyone may view.
func (h *BarHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	bar, err := h.bars.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.render, err)
		return
	}

	reviews, err := h.reviews.ListForBar(r.Context(), id)
	if err != nil {
		log.Printf("failed to load reviews for bar %s: %v", id, err)
		reviews = nil
	}

	h.render.Render(w, http.StatusOK, "bars/show", web.Page{
		User: user,
		Data: barShowData{
			Bar:      bar,
			Reviews:  reviews,
			Editable: user != nil && bar.OwnedBy(user.ID),
		},
	})
}

func (h *BarHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	bar, err := h.bars.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.render, err)
		return
	}
	if !bar.OwnedBy(user.ID) {
		writeError(w, r, h.render, models.ErrForbidden)
		return
	}

	h.render.Render(w, http.StatusOK, "bars/edit", web.Page{User: user, Data: bar})
}

// Update merges the submitted fields, uploads any new images, and removes
// the checked ones from the media host and the record.
func (h *BarHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	fields, files, err := h.parseBarForm(r)
	if err != nil {
		writeError(w, r, h.render, err)
		return
	}

	newImages, err := h.uploadImages(r, files)
	if err != nil {
		writeError(w, r, h.render, err)
		return
	}

	deleteFilenames := r.Form["deleteImages"]

	bar, err := h.bars.Update(r.Context(), id, user.ID, fields, newImages, deleteFilenames)
	if err != nil {
		writeError(w, r, h.render, err)
		return
	}

	log.Printf("bar updated: %s", bar.Name)
	http.Redirect(w, r, "/bars/"+bar.ID.Hex(), http.StatusFound)
}

func (h *BarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if err := h.bars.Delete(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		writeError(w, r, h.render, err)
		return
	}
	http.Redirect(w, r, "/bars", http.StatusFound)
}

// parseBarForm reads the multipart (or urlencoded) body into BarFields plus
// the submitted image headers. Empty fields stay unset so update merging can
// tell "absent" from "zero".
func (h *BarHandler) parseBarForm(r *http.Request) (services.BarFields, []*multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return services.BarFields{}, nil, models.NewValidationError("form", "could not be parsed")
	}

	fields := services.BarFields{
		Name:        r.FormValue("name"),
		Location:    r.FormValue("location"),
		Description: r.FormValue("description"),
	}

	var err error
	if fields.Rating, err = optionalFloat(r, "rating"); err != nil {
		return services.BarFields{}, nil, err
	}
	if fields.Latitude, err = optionalFloat(r, "latitude"); err != nil {
		return services.BarFields{}, nil, err
	}
	if fields.Longitude, err = optionalFloat(r, "longitude"); err != nil {
		return services.BarFields{}, nil, err
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["images"]
	}
	if len(files) > maxImagesPerRequest {
		return services.BarFields{}, nil, models.NewValidationError("images", "at most 5 images per request")
	}

	return fields, files, nil
}

func (h *BarHandler) uploadImages(r *http.Request, files []*multipart.FileHeader) ([]models.Image, error) {
	images := make([]models.Image, 0, len(files))
	for _, fileHeader := range files {
		image, err := services.UploadFromHeader(r.Context(), h.media, fileHeader)
		if err != nil {
			return nil, models.NewUpstreamError("upload image", err)
		}
		images = append(images, image)
	}
	return images, nil
}

// optionalFloat parses a numeric form field, distinguishing "not provided"
// (nil) from an explicit zero.
func optionalFloat(r *http.Request, name string) (*float64, error) {
	value := strings.TrimSpace(r.FormValue(name))
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, models.NewValidationError(name, "must be a number")
	}
	return &f, nil
}
