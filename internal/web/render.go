// Package web is the view boundary: handlers hand it a page name and data,
// everything else about rendering stays behind this interface.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/barreview/barreview-backend/internal/models"
)

//go:embed templates
var templatesFS embed.FS

// Page is what every template receives: the logged-in user (nil when
// anonymous) plus page-specific data.
type Page struct {
	User *models.User
	Data any
}

var pageNames = []string{
	"home",
	"404",
	"auth/register",
	"auth/login",
	"auth/forgot",
	"auth/reset",
	"bars/index",
	"bars/new",
	"bars/show",
	"bars/edit",
	"reviews/new",
}

type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes one page. An unknown page name or a template failure is a
// server error, never a panic.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Page) {
	tmpl, ok := r.pages[page]
	if !ok {
		log.Printf("unknown template: %s", page)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("failed to render %s: %v", page, err)
	}
}
