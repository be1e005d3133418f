package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

// Profile is what a provider tells us about the logged-in user. Email may be
// empty (Facebook does not always return one).
type Profile struct {
	ProviderID string
	Email      string
}

// Provider is one OAuth identity provider in the authorization-code flow.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*Profile, error)
}

// GoogleProvider authenticates against Google OAuth 2.0.
type GoogleProvider struct {
	conf        *oauth2.Config
	userInfoURL string // overridable in tests
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *GoogleProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	if err := fetchJSON(ctx, p.conf.Client(ctx, token), p.userInfoURL, &info); err != nil {
		return nil, fmt.Errorf("google userinfo fetch failed: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("google userinfo missing subject")
	}

	return &Profile{ProviderID: info.Sub, Email: info.Email}, nil
}

// FacebookProvider authenticates against the Facebook Graph API.
type FacebookProvider struct {
	conf        *oauth2.Config
	userInfoURL string // overridable in tests
}

func NewFacebookProvider(clientID, clientSecret, redirectURL string) *FacebookProvider {
	return &FacebookProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"email"},
			Endpoint:     facebook.Endpoint,
		},
		userInfoURL: "https://graph.facebook.com/me?fields=id,email",
	}
}

func (p *FacebookProvider) Name() string { return "facebook" }

func (p *FacebookProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *FacebookProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("facebook token exchange failed: %w", err)
	}

	var info struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := fetchJSON(ctx, p.conf.Client(ctx, token), p.userInfoURL, &info); err != nil {
		return nil, fmt.Errorf("facebook profile fetch failed: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("facebook profile missing id")
	}

	return &Profile{ProviderID: info.ID, Email: info.Email}, nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
