package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barreview/barreview-backend/internal/handlers"
	"github.com/barreview/barreview-backend/internal/middleware"
	"github.com/barreview/barreview-backend/internal/web"
)

// Setup wires the HTTP surface. Bar mutations and the caller's bar list sit
// behind RequireLogin; viewing a bar and posting reviews do not.
func Setup(r chi.Router, authHandler *handlers.AuthHandler, barHandler *handlers.BarHandler, reviewHandler *handlers.ReviewHandler, render *web.Renderer) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		render.Render(w, http.StatusOK, "home", web.Page{User: middleware.UserFromContext(req.Context())})
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth
	r.Get("/register", authHandler.RegisterForm)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Get("/auth/{provider}", authHandler.OAuthStart)
	r.Get("/auth/{provider}/callback", authHandler.OAuthCallback)
	r.Get("/forgot", authHandler.ForgotForm)
	r.Post("/forgot", authHandler.Forgot)
	r.Get("/reset/{token}", authHandler.ResetForm)
	r.Post("/reset/{token}", authHandler.Reset)

	// Bars
	r.Route("/bars", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin)
			r.Get("/", barHandler.Index)
			r.Get("/new", barHandler.NewForm)
			r.Post("/", barHandler.Create)
			r.Get("/{id}/edit", barHandler.EditForm)
			r.Put("/{id}", barHandler.Update)
			r.Delete("/{id}", barHandler.Delete)
		})

		r.Get("/{id}", barHandler.Show)

		// Reviews, nested under their bar
		r.Get("/{id}/reviews", reviewHandler.List)
		r.Get("/{id}/reviews/new", reviewHandler.NewForm)
		r.Post("/{id}/reviews", reviewHandler.Create)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		render.Render(w, http.StatusNotFound, "404", web.Page{
			User: middleware.UserFromContext(req.Context()),
			Data: "Page not found",
		})
	})
}
