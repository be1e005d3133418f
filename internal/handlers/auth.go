package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/barreview/barreview-backend/internal/auth"
	"github.com/barreview/barreview-backend/internal/middleware"
	"github.com/barreview/barreview-backend/internal/models"
	"github.com/barreview/barreview-backend/internal/services"
	"github.com/barreview/barreview-backend/internal/web"
)

const oauthStateCookie = "oauth_state"

// AuthHandler serves registration, login (local and social), logout, and the
// password reset pages.
type AuthHandler struct {
	users     *services.UserService
	sessions  services.SessionStore
	providers map[string]auth.Provider
	render    *web.Renderer
}

func NewAuthHandler(users *services.UserService, sessions services.SessionStore, providers map[string]auth.Provider, render *web.Renderer) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, providers: providers, render: render}
}

type authFormData struct {
	Error string
}

type forgotFormData struct {
	Sent bool
}

type resetFormData struct {
	Token string
	Error string
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "auth/register", h.page(r, authFormData{}))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	_, err := h.users.Register(r.Context(), r.FormValue("username"), r.FormValue("password"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/login", http.StatusFound)
	case errors.Is(err, models.ErrUsernameTaken):
		h.render.Render(w, http.StatusConflict, "auth/register", h.page(r, authFormData{Error: err.Error()}))
	case models.IsValidation(err):
		h.render.Render(w, http.StatusBadRequest, "auth/register", h.page(r, authFormData{Error: err.Error()}))
	default:
		writeError(w, r, h.render, err)
	}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "auth/login", h.page(r, authFormData{}))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	user, err := h.users.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, models.ErrNoSuchAccount) || errors.Is(err, models.ErrSocialOnly) || errors.Is(err, models.ErrBadCredential) {
			h.render.Render(w, http.StatusUnauthorized, "auth/login", h.page(r, authFormData{Error: err.Error()}))
			return
		}
		writeError(w, r, h.render, err)
		return
	}

	if err := h.establishSession(w, r, user); err != nil {
		writeError(w, r, h.render, err)
		return
	}
	http.Redirect(w, r, "/bars", http.StatusFound)
}

// Logout tears down the session. Logging out without one is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			log.Printf("failed to destroy session: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// OAuthStart redirects to the provider's consent page with a fresh state
// value pinned in a short-lived cookie.
func (h *AuthHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[chi.URLParam(r, "provider")]
	if !ok {
		http.NotFound(w, r)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

// OAuthCallback finishes the code flow. Any failure sends the visitor back
// to the login page, matching the local-login failure path.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[chi.URLParam(r, "provider")]
	if !ok {
		http.NotFound(w, r)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		log.Printf("%s login rejected: state mismatch", provider.Name())
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	profile, err := provider.FetchProfile(r.Context(), code)
	if err != nil {
		log.Printf("%s login failed: %v", provider.Name(), err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.users.LoginOAuth(r.Context(), provider.Name(), profile)
	if err != nil {
		log.Printf("%s login failed: %v", provider.Name(), err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := h.establishSession(w, r, user); err != nil {
		writeError(w, r, h.render, err)
		return
	}
	http.Redirect(w, r, "/bars", http.StatusFound)
}

func (h *AuthHandler) ForgotForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "auth/forgot", h.page(r, forgotFormData{}))
}

// Forgot always renders the same confirmation so the page reveals nothing
// about which accounts exist.
func (h *AuthHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	if err := h.users.ForgotPassword(r.Context(), r.FormValue("username")); err != nil {
		log.Printf("forgot password failed: %v", err)
	}
	h.render.Render(w, http.StatusOK, "auth/forgot", h.page(r, forgotFormData{Sent: true}))
}

func (h *AuthHandler) ResetForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "auth/reset", h.page(r, resetFormData{Token: chi.URLParam(r, "token")}))
}

func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	token := chi.URLParam(r, "token")
	err := h.users.ResetPassword(r.Context(), token, r.FormValue("password"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/login", http.StatusFound)
	case models.IsValidation(err):
		h.render.Render(w, http.StatusBadRequest, "auth/reset", h.page(r, resetFormData{Token: token, Error: err.Error()}))
	default:
		writeError(w, r, h.render, err)
	}
}

func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	token, err := h.sessions.Create(r.Context(), user.ID.Hex())
	if err != nil {
		return models.NewUpstreamError("create session", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(services.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) page(r *http.Request, data any) web.Page {
	return web.Page{User: middleware.UserFromContext(r.Context()), Data: data}
}
